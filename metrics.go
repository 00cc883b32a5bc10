package sticks

import "github.com/g4stly/sticks/internal/metrics"

// Metrics and Snapshot are re-exported so callers embedding a Server can
// read operational counters without reaching into internal packages.
type (
	Metrics  = metrics.Metrics
	Snapshot = metrics.Snapshot
)

// NewMetrics creates a fresh, zeroed Metrics instance.
func NewMetrics() *Metrics { return metrics.New() }
