package cache

import (
	"context"

	"github.com/modcabinet/cabinetsorter/internal/mods"
	"github.com/modcabinet/cabinetsorter/internal/report"
)

// Entry is the persisted state of one successfully processed directory: its
// signature plus the records and diagnostics that parse produced. Carrying
// the parse results forward is what lets unchanged directories skip parsing
// while still appearing in the projection.
type Entry struct {
	Dir         string            `json:"dir"`
	Hash        string            `json:"hash"`
	Signature   DirSignature      `json:"signature"`
	Records     []*mods.ModRecord `json:"records"`
	Diagnostics []report.Entry    `json:"diagnostics,omitempty"`
}

// Snapshot is the full cached state, keyed by tree-qualified directory path.
type Snapshot map[string]Entry

// Store persists snapshots between runs.
type Store interface {
	// Load returns the snapshot from the previous run. A fresh store
	// returns an empty, non-nil snapshot.
	Load(ctx context.Context) (Snapshot, error)
	// Commit applies one run's outcome: upserts for directories that
	// parsed cleanly, removals for directories that disappeared.
	// Directories that errored are absent from both and keep their old
	// state, so the next run retries them.
	Commit(ctx context.Context, upserts []Entry, removed []string) error
	Close() error
}
