// Package metrics defines the minimal observability surface the probing
// core emits against.
//
// The core depends only on Backend; concrete exporters (Datadog, or a
// future Prometheus backend) live in subpackages so their SDKs never leak
// into probing code.
package metrics

// Labels are free-form metric dimensions.
type Labels map[string]string

// Backend receives counters and histogram observations.
//
// Implementations must be safe for concurrent use; probe invocations for
// different paths may run in parallel.
type Backend interface {
	// IncCounter adds delta to the named counter. Non-positive deltas are
	// ignored.
	IncCounter(name string, delta float64, labels Labels)

	// ObserveHistogram records one sample of the named distribution.
	// Negative values are ignored.
	ObserveHistogram(name string, value float64, labels Labels)
}

// Metric names emitted by the probing core.
const (
	// ProbeRunsTotal counts invocations, labeled kind + status.
	ProbeRunsTotal = "probe_runs_total"

	// ProbeRunDurationSeconds samples end-to-end invocation latency,
	// labeled kind + status.
	ProbeRunDurationSeconds = "probe_run_duration_seconds"
)

// Nop is a Backend that discards everything. It is the default so callers
// never need nil checks.
type Nop struct{}

func (Nop) IncCounter(name string, delta float64, labels Labels)       {}
func (Nop) ObserveHistogram(name string, value float64, labels Labels) {}
