package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyResolutionID = "resolution_id"
	KeyStage        = "stage"
	KeyDirectory    = "directory"
	KeySource       = "source"
	KeyPath         = "path"
	KeyExtension    = "extension"
	KeyEvent        = "event"
	KeyFragments    = "fragments"
	KeyPlugin       = "plugin"
	KeyOutcome      = "outcome"
	KeyDurationMS   = "duration_ms"
	KeyError        = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func ResolutionID(id string) slog.Attr { return slog.String(KeyResolutionID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Directory(dir string) slog.Attr   { return slog.String(KeyDirectory, dir) }
func Source(name string) slog.Attr     { return slog.String(KeySource, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Extension(name string) slog.Attr  { return slog.String(KeyExtension, name) }
func Event(name string) slog.Attr      { return slog.String(KeyEvent, name) }
func Fragments(n int) slog.Attr        { return slog.Int(KeyFragments, n) }
func Plugin(ref string) slog.Attr      { return slog.String(KeyPlugin, ref) }
func Outcome(o string) slog.Attr       { return slog.String(KeyOutcome, o) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
