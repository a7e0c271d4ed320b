package analyzer

import "time"

// Profiler observes per-job timing, the contract side of WorkerOrchestrator
// (spec §4.9 / §5). A real implementation wiring this into a metrics
// backend is deliberately left to the caller; this package only specifies
// the shape and a no-op default.
type Profiler interface {
	JobStarted(file string)
	JobFinished(file string, d time.Duration, err error)
}

// NoopProfiler discards every observation.
type NoopProfiler struct{}

func (NoopProfiler) JobStarted(string)                       {}
func (NoopProfiler) JobFinished(string, time.Duration, error) {}
