// Package resolve produces the transform configuration for one site and stage.
//
// A resolution picks a base configuration (the user's override if one is found,
// the built-in defaults otherwise), normalizes it, injects the stage plugins,
// fires the modifyBabelrc hook and lets the merged hook fragment override the base.
package resolve

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"git.home.luguber.info/inful/transpileconf/internal/defaults"
	ferrors "git.home.luguber.info/inful/transpileconf/internal/foundation/errors"
	"git.home.luguber.info/inful/transpileconf/internal/hooks"
	"git.home.luguber.info/inful/transpileconf/internal/locate"
	"git.home.luguber.info/inful/transpileconf/internal/logfields"
	"git.home.luguber.info/inful/transpileconf/internal/metrics"
	"git.home.luguber.info/inful/transpileconf/internal/observability"
	"git.home.luguber.info/inful/transpileconf/internal/plugin"
	"git.home.luguber.info/inful/transpileconf/internal/stage"
	"git.home.luguber.info/inful/transpileconf/internal/toolchain"
	"git.home.luguber.info/inful/transpileconf/internal/value"
)

// Request identifies one resolution.
type Request struct {
	// Directory is the site root.
	Directory string
	// Stage gates the injected plugins.
	Stage stage.Stage
	// Targets are browser compatibility queries passed to the default preset.
	Targets []string
}

// Result is a resolved configuration and how it was obtained.
type Result struct {
	Config       value.Value
	Origin       string
	Fragments    int
	ResolutionID string
}

// Resolver holds the collaborators of a resolution. It keeps no per-resolution
// state, so one Resolver may serve concurrent calls.
type Resolver struct {
	locator   *locate.Locator
	hooks     hooks.Runner
	plugins   StagePlugins
	toolchain func(dir string) toolchain.Resolver
	fsys      func(dir string) fs.FS
	recorder  metrics.Recorder
	logger    *slog.Logger
}

// New returns a Resolver that locates overrides with locator and fires hooks
// through runner. References resolve through node_modules of the site directory.
func New(locator *locate.Locator, runner hooks.Runner, logger *slog.Logger) *Resolver {
	if locator == nil {
		locator = locate.NewLocator(locate.DefaultNames(), nil, logger)
	}
	return &Resolver{
		locator:   locator,
		hooks:     runner,
		plugins:   DefaultStagePlugins(),
		toolchain: func(dir string) toolchain.Resolver { return toolchain.NodeModules{Dir: dir} },
		fsys:      os.DirFS,
		recorder:  metrics.NoopRecorder{},
		logger:    logger,
	}
}

// WithRecorder sets the metrics recorder.
func (r *Resolver) WithRecorder(rec metrics.Recorder) *Resolver {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	r.recorder = rec
	return r
}

// WithToolchain replaces the per-directory reference resolver.
func (r *Resolver) WithToolchain(fn func(dir string) toolchain.Resolver) *Resolver {
	r.toolchain = fn
	return r
}

// WithFS replaces how a site directory is opened.
func (r *Resolver) WithFS(fn func(dir string) fs.FS) *Resolver {
	r.fsys = fn
	return r
}

// WithStagePlugins replaces the injected plugin names.
func (r *Resolver) WithStagePlugins(p StagePlugins) *Resolver {
	r.plugins = p
	return r
}

// Resolve runs one resolution. Errors are classified and keep the original cause.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Result, error) {
	if !req.Stage.IsValid() {
		return Result{}, ferrors.ValidationError("unknown stage " + req.Stage.String()).
			WithHint("use one of develop, develop-html, build-javascript, build-html, build-css").
			Build()
	}
	if req.Directory == "" {
		return Result{}, ferrors.ValidationError("site directory is required").Build()
	}

	ctx, id := observability.StartResolution(ctx)
	ctx = observability.WithStage(ctx, req.Stage.String())
	ctx = observability.WithDirectory(ctx, req.Directory)
	log := observability.Logger(ctx, r.logger)

	start := time.Now()
	res, err := r.resolve(ctx, req)
	elapsed := time.Since(start)
	res.ResolutionID = id

	r.recorder.ObserveResolveDuration(req.Stage.String(), elapsed)
	if err != nil {
		result := metrics.ResultFatal
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result = metrics.ResultCanceled
		}
		r.recorder.IncResolveResult(req.Stage.String(), result)
		log.Error("Transform configuration resolution failed", logfields.Error(err), logfields.Duration(elapsed))
		return res, err
	}

	r.recorder.IncResolveResult(req.Stage.String(), metrics.ResultSuccess)
	log.Info("Transform configuration resolved",
		logfields.Source(res.Origin),
		logfields.Fragments(res.Fragments),
		logfields.Duration(elapsed))
	return res, nil
}

func (r *Resolver) resolve(ctx context.Context, req Request) (Result, error) {
	log := observability.Logger(ctx, r.logger)
	tc := r.toolchain(req.Directory)

	located, err := r.locator.Locate(ctx, r.fsys(req.Directory))
	if err != nil {
		return Result{}, err
	}

	var base value.Value
	origin := located.Origin
	if located.Outcome == locate.Found {
		base = located.Config
	} else {
		origin = metrics.SourceDefaults
		base, err = defaults.Builder{Resolver: tc}.Build(req.Targets)
		if err != nil {
			return Result{}, err
		}
	}
	r.recorder.IncSourceSelected(origin)
	log.Debug("Base configuration selected", logfields.Source(origin))

	base, err = Normalize(base)
	if err != nil {
		return Result{}, withOrigin(err, origin)
	}
	base, err = r.plugins.Inject(base, req.Stage, tc)
	if err != nil {
		return Result{}, err
	}

	fragments := 0
	counting := hooks.RunnerFunc(func(ctx context.Context, event string, cfg value.Value) ([]value.Value, error) {
		runner := r.hooks
		if runner == nil {
			runner = hooks.None
		}
		out, err := runner.Run(ctx, event, cfg)
		fragments = len(out)
		return out, err
	})

	hookStart := time.Now()
	fragment, err := hooks.Merge(ctx, counting, plugin.ModifyTransformConfig, base)
	r.recorder.ObserveHookDuration(plugin.ModifyTransformConfig, time.Since(hookStart))
	if err != nil {
		return Result{}, err
	}
	r.recorder.ObserveHookFragments(plugin.ModifyTransformConfig, fragments)
	log.Debug("Hook fragments merged", logfields.Event(plugin.ModifyTransformConfig), logfields.Fragments(fragments))

	return Result{
		Config:    Compose(fragment, base),
		Origin:    origin,
		Fragments: fragments,
	}, nil
}

func withOrigin(err error, origin string) error {
	if ce, ok := ferrors.AsClassified(err); ok {
		return ce.WithContext(logfields.KeySource, origin)
	}
	return err
}
