package locate

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	ferrors "git.home.luguber.info/inful/transpileconf/internal/foundation/errors"
	"git.home.luguber.info/inful/transpileconf/internal/logfields"
	"git.home.luguber.info/inful/transpileconf/internal/observability"
	"git.home.luguber.info/inful/transpileconf/internal/value"
)

// Outcome is what a single source found.
type Outcome int

const (
	// Missing means the source's file does not exist.
	Missing Outcome = iota
	// Absent means the source exists but contributes no configuration.
	Absent
	// Found means the source produced a configuration.
	Found
)

func (o Outcome) String() string {
	switch o {
	case Absent:
		return "absent"
	case Found:
		return "found"
	default:
		return "missing"
	}
}

// Result is a source's answer. Config is only meaningful when Outcome is Found.
type Result struct {
	Outcome Outcome
	Config  value.Value
	// Origin names where the configuration came from, e.g. ".babelrc" or "package.json#babel".
	Origin string
}

// Source is one ranked place a user override may live. Errors returned from
// Locate are fatal; a missing file is reported as Missing, never as an error.
type Source interface {
	Name() string
	Locate(ctx context.Context, fsys fs.FS) (Result, error)
}

// ScriptSource loads a script-form override through a ModuleLoader.
type ScriptSource struct {
	File   string
	Loader ModuleLoader
	Logger *slog.Logger
}

func (s *ScriptSource) Name() string { return s.File }

// Locate implements Source. Factory-function exports are unsupported; they are
// reported to the user and treated as absent.
func (s *ScriptSource) Locate(ctx context.Context, fsys fs.FS) (Result, error) {
	mod, err := s.Loader.Load(ctx, fsys, s.File)
	if err != nil {
		if errors.Is(err, ErrModuleNotFound) {
			return Result{Outcome: Missing, Origin: s.File}, nil
		}
		return Result{}, ferrors.WrapError(err, ferrors.CategoryConfig, "cannot load "+s.File).
			Fatal().
			WithHint("export a plain object literal from " + s.File + " or move the configuration to .babelrc").
			WithContext(logfields.KeyPath, s.File).
			Build()
	}

	exp := mod.Resolved()
	switch exp.Kind {
	case ExportFunction:
		observability.Logger(ctx, s.Logger).Warn(s.File+" files that export a function are not supported; using the default configuration",
			logfields.Path(s.File))
		return Result{Outcome: Absent, Origin: s.File}, nil
	case ExportUndefined:
		return Result{Outcome: Absent, Origin: s.File}, nil
	}
	if exp.Value.IsNull() {
		return Result{Outcome: Absent, Origin: s.File}, nil
	}
	if exp.Value.Kind() != value.KindMap {
		return Result{}, ferrors.ConfigError(s.File+" must export an object").
			WithContext(logfields.KeyPath, s.File).
			WithContext("kind", exp.Value.Kind().String()).
			Build()
	}
	return Result{Outcome: Found, Config: exp.Value, Origin: s.File}, nil
}

// RCFileSource reads a declarative JSON5 override file.
type RCFileSource struct {
	File string
}

func (s *RCFileSource) Name() string { return s.File }

// Locate implements Source. Only a missing file is tolerated: unreadable or
// unparseable files abort the resolution with the original error as cause.
// A file holding a literal null is Absent.
func (s *RCFileSource) Locate(_ context.Context, fsys fs.FS) (Result, error) {
	data, err := fs.ReadFile(fsys, s.File)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{Outcome: Missing, Origin: s.File}, nil
		}
		return Result{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot read "+s.File).
			Fatal().
			WithContext(logfields.KeyPath, s.File).
			Build()
	}

	cfg, err := value.ParseJSON5(data)
	if err != nil {
		return Result{}, ferrors.WrapError(err, ferrors.CategoryConfig, "cannot parse "+s.File).
			Fatal().
			WithHint("fix the syntax error or delete " + s.File + " to use the default configuration").
			WithContext(logfields.KeyPath, s.File).
			Build()
	}
	if cfg.IsNull() {
		return Result{Outcome: Absent, Origin: s.File}, nil
	}
	if cfg.Kind() != value.KindMap {
		return Result{}, ferrors.ConfigError(s.File+" must contain an object").
			WithContext(logfields.KeyPath, s.File).
			WithContext("kind", cfg.Kind().String()).
			Build()
	}
	return Result{Outcome: Found, Config: cfg, Origin: s.File}, nil
}

// ManifestSource extracts one section of the project manifest.
type ManifestSource struct {
	File    string
	Section string
}

func (s *ManifestSource) Name() string { return s.File + "#" + s.Section }

// Locate implements Source. A missing manifest or section is not an error.
func (s *ManifestSource) Locate(_ context.Context, fsys fs.FS) (Result, error) {
	origin := s.Name()
	data, err := fs.ReadFile(fsys, s.File)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{Outcome: Missing, Origin: origin}, nil
		}
		return Result{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot read "+s.File).
			Fatal().
			WithContext(logfields.KeyPath, s.File).
			Build()
	}

	manifest, err := value.ParseJSON(data)
	if err != nil {
		return Result{}, ferrors.WrapError(err, ferrors.CategoryConfig, "cannot parse "+s.File).
			Fatal().
			WithContext(logfields.KeyPath, s.File).
			Build()
	}
	section, ok := manifest.Get(s.Section)
	if !ok || section.IsNull() {
		return Result{Outcome: Absent, Origin: origin}, nil
	}
	if section.Kind() != value.KindMap {
		return Result{}, ferrors.ConfigError(origin+" must be an object").
			WithContext(logfields.KeyPath, s.File).
			Build()
	}
	return Result{Outcome: Found, Config: section, Origin: origin}, nil
}
