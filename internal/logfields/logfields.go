package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyTree       = "tree"
	KeyDirectory  = "directory"
	KeyFile       = "file"
	KeyMod        = "mod"
	KeyAuthor     = "author"
	KeyCategory   = "category"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Tree(name string) slog.Attr      { return slog.String(KeyTree, name) }
func Directory(dir string) slog.Attr  { return slog.String(KeyDirectory, dir) }
func File(name string) slog.Attr      { return slog.String(KeyFile, name) }
func Mod(title string) slog.Attr      { return slog.String(KeyMod, title) }
func Author(name string) slog.Attr    { return slog.String(KeyAuthor, name) }
func CategoryID(id string) slog.Attr  { return slog.String(KeyCategory, id) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
