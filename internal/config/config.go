// Package config builds the service configuration from the process
// environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Addr            string
	ServiceName     string
	Environment     string
	LogLevel        zapcore.Level
	OTLPEnabled     bool
	SessionTTL      time.Duration
	MaxSessions     int
	SweepInterval   time.Duration
	ShutdownTimeout time.Duration
}

// Development reports whether logs should use zap's development encoder.
func (c Config) Development() bool {
	return c.Environment == "development"
}

// EnvFile is the .env path named by ENV_FILE, ".env" by default. It is read
// from the process environment only, before any file is loaded.
func EnvFile(getenv func(string) string) string {
	return stringOr(getenv("ENV_FILE"), ".env")
}

// LoadDotEnv loads variables from path when it exists. Variables already set
// in the process environment are not overridden.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load %s: %w", path, err)
}

// Load reads the configuration through getenv, usually os.Getenv.
func Load(getenv func(string) string) (Config, error) {
	cfg := Config{
		Addr:        stringOr(getenv("HTTP_ADDR"), ":8080"),
		ServiceName: stringOr(getenv("OTEL_SERVICE_NAME"), "calculator-api"),
		Environment: stringOr(getenv("APP_ENV"), "production"),
	}

	var err error

	if cfg.LogLevel, err = zapcore.ParseLevel(stringOr(getenv("LOG_LEVEL"), "info")); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if cfg.OTLPEnabled, err = parseBool(getenv("OTLP_ENABLED"), false); err != nil {
		return Config{}, fmt.Errorf("OTLP_ENABLED: %w", err)
	}

	if cfg.SessionTTL, err = parseDuration(getenv("SESSION_TTL"), 30*time.Minute); err != nil {
		return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
	}

	if cfg.SweepInterval, err = parseDuration(getenv("SESSION_SWEEP_INTERVAL"), time.Minute); err != nil {
		return Config{}, fmt.Errorf("SESSION_SWEEP_INTERVAL: %w", err)
	}

	if cfg.ShutdownTimeout, err = parseDuration(getenv("SHUTDOWN_TIMEOUT"), 5*time.Second); err != nil {
		return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}

	if cfg.MaxSessions, err = parseInt(getenv("MAX_SESSIONS"), 10000); err != nil {
		return Config{}, fmt.Errorf("MAX_SESSIONS: %w", err)
	}

	return cfg, nil
}

func stringOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func parseBool(v string, fallback bool) (bool, error) {
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseBool(v)
}

func parseDuration(v string, fallback time.Duration) (time.Duration, error) {
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", d)
	}
	return d, nil
}

func parseInt(v string, fallback int) (int, error) {
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}
