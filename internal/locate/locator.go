// Package locate finds a user-supplied transform configuration override.
//
// Sources are consulted in a fixed order and the first one present decides:
//
//  1. the script override (.babelrc.js); when the file exists its answer is final,
//     even if it yields nothing usable;
//  2. the declarative override (.babelrc, JSON5);
//  3. the manifest section (package.json "babel"), only when neither file exists.
//
// Missing sources fall through silently. Files that exist but cannot be read or
// parsed are fatal and returned to the caller with the original error attached.
package locate

import (
	"context"
	"io/fs"
	"log/slog"

	"git.home.luguber.info/inful/transpileconf/internal/logfields"
	"git.home.luguber.info/inful/transpileconf/internal/observability"
)

// Names holds the file names the locator looks for.
type Names struct {
	Script          string
	RCFile          string
	Manifest        string
	ManifestSection string
}

// DefaultNames returns the file names the transpiler itself recognizes.
func DefaultNames() Names {
	return Names{
		Script:          ".babelrc.js",
		RCFile:          ".babelrc",
		Manifest:        "package.json",
		ManifestSection: "babel",
	}
}

// Locator runs the ranked override sources.
type Locator struct {
	Script   Source
	RCFile   Source
	Manifest Source
	logger   *slog.Logger
}

// NewLocator wires the default sources for names. A nil loader selects
// StaticModuleLoader; a nil logger selects slog.Default.
func NewLocator(names Names, loader ModuleLoader, logger *slog.Logger) *Locator {
	if loader == nil {
		loader = StaticModuleLoader{}
	}
	return &Locator{
		Script:   &ScriptSource{File: names.Script, Loader: loader, Logger: logger},
		RCFile:   &RCFileSource{File: names.RCFile},
		Manifest: &ManifestSource{File: names.Manifest, Section: names.ManifestSection},
		logger:   logger,
	}
}

// Locate returns the winning override. A Result whose Outcome is not Found means
// no override applies and the caller should use its defaults.
func (l *Locator) Locate(ctx context.Context, fsys fs.FS) (Result, error) {
	log := observability.Logger(ctx, l.logger)

	res, err := l.Script.Locate(ctx, fsys)
	if err != nil {
		return Result{}, err
	}
	if res.Outcome != Missing {
		log.Debug("Override script present", logfields.Source(res.Origin), logfields.Outcome(res.Outcome.String()))
		return res, nil
	}

	res, err = l.RCFile.Locate(ctx, fsys)
	if err != nil {
		return Result{}, err
	}
	if res.Outcome != Missing {
		log.Debug("Override file present", logfields.Source(res.Origin), logfields.Outcome(res.Outcome.String()))
		return res, nil
	}

	res, err = l.Manifest.Locate(ctx, fsys)
	if err != nil {
		return Result{}, err
	}
	log.Debug("Manifest consulted", logfields.Source(res.Origin), logfields.Outcome(res.Outcome.String()))
	return res, nil
}

// SourceReport describes one source for diagnostics.
type SourceReport struct {
	Source   string
	Outcome  Outcome
	Err      error
	Selected bool
}

// Explain reports every source's state and marks the one Locate would pick.
// Unlike Locate it reads every source, so errors are recorded per source.
func (l *Locator) Explain(ctx context.Context, fsys fs.FS) []SourceReport {
	sources := []Source{l.Script, l.RCFile, l.Manifest}
	reports := make([]SourceReport, 0, len(sources))
	decided := false
	for _, src := range sources {
		res, err := src.Locate(ctx, fsys)
		p := SourceReport{Source: src.Name(), Outcome: res.Outcome, Err: err}
		if !decided && (err != nil || res.Outcome != Missing) {
			p.Selected = err == nil && res.Outcome == Found
			decided = true
		}
		reports = append(reports, p)
	}
	return reports
}
