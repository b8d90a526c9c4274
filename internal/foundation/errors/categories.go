package errors

import (
	"log/slog"
	"maps"
	"slices"
)

// ErrorCategory says what kind of failure occurred and, through its Audience,
// who has to act on it.
type ErrorCategory string

const (
	// CategoryConfig marks a user-supplied configuration that exists but is broken.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// CategoryToolchain marks a plugin or preset reference that cannot be resolved.
	CategoryToolchain ErrorCategory = "toolchain"
	// CategoryExtension marks a failure raised by a registered extension.
	CategoryExtension ErrorCategory = "extension"

	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryRuntime    ErrorCategory = "runtime"
	CategoryInternal   ErrorCategory = "internal"
)

// Audience is who can fix an error.
type Audience string

const (
	AudienceUser      Audience = "user"      // the site author or the command line
	AudienceInstall   Audience = "install"   // node_modules or the machine
	AudienceExtension Audience = "extension" // an extension author
	AudienceTool      Audience = "tool"      // a bug in transpileconf
)

type categoryInfo struct {
	exitCode int
	audience Audience
}

var categories = map[ErrorCategory]categoryInfo{
	CategoryValidation: {2, AudienceUser},
	CategoryNotFound:   {3, AudienceUser},
	CategoryConfig:     {7, AudienceUser},
	CategoryInternal:   {10, AudienceTool},
	CategoryToolchain:  {11, AudienceInstall},
	CategoryFileSystem: {11, AudienceInstall},
	CategoryExtension:  {12, AudienceExtension},
	CategoryRuntime:    {12, AudienceTool},
}

// ExitCode is the process exit status for the category; 1 when unknown.
func (c ErrorCategory) ExitCode() int {
	if info, ok := categories[c]; ok {
		return info.exitCode
	}
	return 1
}

// Audience reports who can fix errors of this category.
func (c ErrorCategory) Audience() Audience {
	if info, ok := categories[c]; ok {
		return info.audience
	}
	return AudienceTool
}

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Aborts the resolution
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded output
	SeverityInfo    ErrorSeverity = "info"
)

// Level maps the severity onto a log level.
func (s ErrorSeverity) Level() slog.Level {
	switch s {
	case SeverityFatal, SeverityError:
		return slog.LevelError
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// ErrorContext holds structured fields attached to an error.
type ErrorContext map[string]any

// Set stores value under key, allocating the map when needed.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = ErrorContext{}
	}
	c[key] = value
	return c
}

// Get returns the value stored under key.
func (c ErrorContext) Get(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// GetString returns the value under key when it is a string.
func (c ErrorContext) GetString(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}

// Merge returns a new context holding c overlaid with other.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	out := make(ErrorContext, len(c)+len(other))
	maps.Copy(out, c)
	maps.Copy(out, other)
	return out
}

// Attrs renders the context as log attributes sorted by key.
func (c ErrorContext) Attrs() []slog.Attr {
	keys := slices.Sorted(maps.Keys(c))
	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, c[k]))
	}
	return attrs
}
