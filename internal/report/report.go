// Package report accumulates non-fatal problems per mod/directory for
// end-of-run reporting. The accumulator is append-only during a run and is
// the sole content of the external status report.
package report

import (
	"fmt"
	"sync"

	"github.com/modcabinet/cabinetsorter/internal/errors"
)

// Entry is one recorded diagnostic.
type Entry struct {
	Severity  errors.Severity `json:"severity"`
	Directory string          `json:"directory"`
	Mod       string          `json:"mod,omitempty"`
	Message   string          `json:"message"`
}

func (e Entry) String() string {
	if e.Mod != "" {
		return fmt.Sprintf("[%s] %s (%s): %s", e.Severity, e.Directory, e.Mod, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Directory, e.Message)
}

// Accumulator collects diagnostics from every pipeline stage. Safe for
// concurrent use so per-directory workers can share one instance.
type Accumulator struct {
	mu      sync.Mutex
	entries []Entry
}

// New returns an empty accumulator.
func New() *Accumulator {
	return &Accumulator{}
}

// Add appends one entry.
func (a *Accumulator) Add(e Entry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

// AddAll appends a batch of entries, preserving their order.
func (a *Accumulator) AddAll(entries []Entry) {
	if len(entries) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entries...)
}

// Warn records a validation diagnostic for a mod in a directory. Diagnostics
// never stop the batch.
func (a *Accumulator) Warn(dir, mod, format string, args ...any) {
	a.Add(Entry{
		Severity:  errors.SeverityWarning,
		Directory: dir,
		Mod:       mod,
		Message:   fmt.Sprintf(format, args...),
	})
}

// Error records a directory-level failure. The directory contributes nothing
// to the projection this run, but the batch continues.
func (a *Accumulator) Error(dir, format string, args ...any) {
	a.Add(Entry{
		Severity:  errors.SeverityError,
		Directory: dir,
		Message:   fmt.Sprintf(format, args...),
	})
}

// Entries returns a copy of everything recorded so far.
func (a *Accumulator) Entries() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Len returns the number of recorded entries.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}
