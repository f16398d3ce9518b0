package calculator

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments — initialized once via InitMetrics().
var (
	intentCounter   metric.Int64Counter
	intentHistogram metric.Float64Histogram
	errorCounter    metric.Int64Counter
	resultGauge     metric.Float64Gauge
	historyCounter  metric.Int64Counter
)

// InitMetrics registers custom OTel metric instruments for the calculator domain.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	intentCounter, err = meter.Int64Counter("calculator.intents.total",
		metric.WithDescription("Total number of keypad intents applied"),
		metric.WithUnit("{intent}"),
	)
	if err != nil {
		return fmt.Errorf("creating intent counter: %w", err)
	}

	intentHistogram, err = meter.Float64Histogram("calculator.intent.duration",
		metric.WithDescription("Duration of a single engine transition in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return fmt.Errorf("creating intent histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of calculator errors, arithmetic faults included"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("The result of the last completed computation"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	historyCounter, err = meter.Int64Counter("calculator.history.entries.total",
		metric.WithDescription("Total number of computations written to session history"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return fmt.Errorf("creating history counter: %w", err)
	}

	return nil
}

// NewSessionsCollector exposes the number of live sessions in store.
func NewSessionsCollector(store *Store) prometheus.Collector {
	return prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "calculator",
			Name:      "sessions_active",
			Help:      "Number of calculator sessions currently held in memory.",
		},
		func() float64 { return float64(store.Len()) },
	)
}
