package main

import (
	"go-chi-calculator/internal/config"
)

// loadDotEnv loads environment variables from path when present. Existing
// process environment variables are not overridden.
func loadDotEnv(path string) error {
	return config.LoadDotEnv(path)
}
