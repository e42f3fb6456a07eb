// Package metrics provides observability hooks for run and directory
// processing metrics. Components receive a Recorder through dependency
// injection; the default NoopRecorder keeps metrics free when disabled.
package metrics

import "time"

// DirOutcome enumerates per-directory processing results for counters.
type DirOutcome string

const (
	DirProcessed DirOutcome = "processed"
	DirUnchanged DirOutcome = "unchanged"
	DirErrored   DirOutcome = "errored"
	DirRemoved   DirOutcome = "removed"
)

// Recorder defines observability hooks for run metrics. Implementations may
// forward to Prometheus or anything else. All methods must be safe on the
// zero value so injection stays optional.
type Recorder interface {
	ObserveRunDuration(d time.Duration)
	ObserveStageDuration(stage string, d time.Duration)
	IncRunOutcome(outcome string) // outcome: success|warning|failed|canceled
	IncDirOutcome(tree string, outcome DirOutcome)
	SetModCount(n int)
	SetErrorCount(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncRunOutcome(string)                       {}
func (NoopRecorder) IncDirOutcome(string, DirOutcome)           {}
func (NoopRecorder) SetModCount(int)                            {}
func (NoopRecorder) SetErrorCount(int)                          {}
