package plugin

import (
	"log/slog"

	"git.home.luguber.info/inful/transpileconf/internal/value"
)

// HookContext is what an extension sees when an event fires. Each extension
// receives its own copy of the configuration, so edits do not leak into the
// resolution or into other extensions.
type HookContext struct {
	// Event is the hook event being fired.
	Event string

	// Stage is the build stage of the resolution, when known.
	Stage string

	// Directory is the site root of the resolution, when known.
	Directory string

	// ResolutionID correlates log lines of one resolution.
	ResolutionID string

	// Logger is annotated with the resolution and extension attributes.
	Logger *slog.Logger

	config value.Value
}

// Config returns the assembled base configuration.
func (hc *HookContext) Config() value.Value {
	return hc.config
}
