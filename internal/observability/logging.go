// Package observability carries per-resolution logging context.
package observability

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/transpileconf/internal/logfields"
)

// LogContext identifies the resolution a log record belongs to.
type LogContext struct {
	ResolutionID string
	Stage        string
	Directory    string
}

type logContextKey struct{}

// GetContext returns the LogContext carried by ctx, or the zero value.
func GetContext(ctx context.Context) LogContext {
	if ctx == nil {
		return LogContext{}
	}
	lc, _ := ctx.Value(logContextKey{}).(LogContext)
	return lc
}

func update(ctx context.Context, fn func(*LogContext)) context.Context {
	lc := GetContext(ctx)
	fn(&lc)
	return context.WithValue(ctx, logContextKey{}, lc)
}

// WithResolutionID tags ctx with id.
func WithResolutionID(ctx context.Context, id string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.ResolutionID = id })
}

// StartResolution tags ctx with a fresh resolution ID unless it already has one.
func StartResolution(ctx context.Context) (context.Context, string) {
	if id := GetContext(ctx).ResolutionID; id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return WithResolutionID(ctx, id), id
}

func WithStage(ctx context.Context, stage string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.Stage = stage })
}

func WithDirectory(ctx context.Context, dir string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.Directory = dir })
}

// Attrs returns the non-empty fields of ctx's LogContext as log attributes.
func Attrs(ctx context.Context) []slog.Attr {
	lc := GetContext(ctx)
	var attrs []slog.Attr
	for _, a := range []slog.Attr{
		logfields.ResolutionID(lc.ResolutionID),
		logfields.Stage(lc.Stage),
		logfields.Directory(lc.Directory),
	} {
		if a.Value.String() != "" {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// Logger returns base (or the default logger) annotated with ctx's attributes.
func Logger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	attrs := Attrs(ctx)
	if len(attrs) == 0 {
		return base
	}
	return slog.New(base.Handler().WithAttrs(attrs))
}
