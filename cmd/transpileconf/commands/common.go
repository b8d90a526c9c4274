package commands

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/transpileconf/internal/config"
	ferrors "git.home.luguber.info/inful/transpileconf/internal/foundation/errors"
	"git.home.luguber.info/inful/transpileconf/internal/locate"
	"git.home.luguber.info/inful/transpileconf/internal/logfields"
	"git.home.luguber.info/inful/transpileconf/internal/metrics"
	"git.home.luguber.info/inful/transpileconf/internal/plugin"
	"git.home.luguber.info/inful/transpileconf/internal/resolve"
	"git.home.luguber.info/inful/transpileconf/internal/siteroot"
	"git.home.luguber.info/inful/transpileconf/internal/stage"
	"git.home.luguber.info/inful/transpileconf/internal/toolchain"
)

// Global is shared state bound into every command's Run.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path (defaults to transpileconf.yaml when present)"`
	Directory string           `short:"d" help:"Site root directory (detected from the working directory when empty)"`
	Stage     string           `short:"s" help:"Build stage: develop, develop-html, build-javascript, build-html, build-css"`
	Browsers  []string         `name:"browser" short:"b" sep:"none" help:"Browser target for the default preset (repeatable)"`
	NoResolve bool             `name:"no-resolve" help:"Leave plugin and preset names unresolved"`
	EnvFile   []string         `name:"env-file" sep:"none" help:"Env file to load before reading the configuration (repeatable)"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Resolve    ResolveCmd    `cmd:"" help:"Resolve and print the transform configuration"`
	Sources    SourcesCmd    `cmd:"" help:"Show which override source would be used"`
	Extensions ExtensionsCmd `cmd:"" help:"List configured extensions"`
	Watch      WatchCmd      `cmd:"" help:"Re-resolve whenever an override source changes"`
	Init       InitCmd       `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// session is the configuration a command runs against, after env files,
// the configuration file and flag overrides have been applied.
type session struct {
	cfg    *config.Config
	site   siteroot.Root
	stage  stage.Stage
	logger *slog.Logger
}

func newSession(g *Global, root *CLI) (*session, error) {
	logger := g.logger()

	loaded, err := config.LoadEnvFiles(root.EnvFile...)
	if err != nil {
		return nil, err
	}
	for _, f := range loaded {
		logger.Debug("Loaded env file", logfields.Path(f))
	}

	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg, root)

	st, err := stage.Parse(cfg.Site.Stage)
	if err != nil {
		return nil, ferrors.ValidationError("unknown stage " + cfg.Site.Stage).
			WithHint("use one of " + stageNames()).
			WithCause(err).
			Build()
	}

	site, err := detectSite(cfg.Site.Directory)
	if err != nil {
		return nil, err
	}
	logger.Debug("Site root", logfields.Directory(site.Directory), slog.Bool("has_manifest", site.HasManifest))

	return &session{cfg: cfg, site: site, stage: st, logger: logger}, nil
}

func applyOverrides(cfg *config.Config, root *CLI) {
	if root.Directory != "" {
		cfg.Site.Directory = root.Directory
	}
	if root.Stage != "" {
		cfg.Site.Stage = root.Stage
	}
	if len(root.Browsers) > 0 {
		cfg.Site.Browsers = append([]string(nil), root.Browsers...)
	}
	if root.NoResolve {
		cfg.Site.NoResolve = true
	}
}

// detectSite returns dir as the site root when given; otherwise it walks up
// from the working directory.
func detectSite(dir string) (siteroot.Root, error) {
	if dir != "" {
		return siteroot.At(dir)
	}
	wd, err := os.Getwd()
	if err != nil {
		return siteroot.Root{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot determine working directory").Build()
	}
	return siteroot.Detect(wd)
}

func (s *session) names() locate.Names {
	return locate.Names{
		Script:          s.cfg.Sources.Script,
		RCFile:          s.cfg.Sources.RCFile,
		Manifest:        s.cfg.Sources.Manifest,
		ManifestSection: s.cfg.Sources.ManifestSection,
	}
}

func (s *session) locator() *locate.Locator {
	return locate.NewLocator(s.names(), nil, s.logger)
}

// registry registers one static extension per configured extension.
func (s *session) registry() (*plugin.Registry, error) {
	reg := plugin.NewRegistry(s.logger)
	for _, ext := range s.cfg.Extensions {
		if err := reg.Register(plugin.NewStaticExtension(ext.Name, ext.Version, ext.Description, ext.Fragment)); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryExtension, "failed to register extension").
				WithContext(logfields.KeyExtension, ext.Name).
				Build()
		}
	}
	return reg, nil
}

func (s *session) resolver(runner *plugin.Registry, rec metrics.Recorder) *resolve.Resolver {
	r := resolve.New(s.locator(), runner, s.logger).
		WithRecorder(rec).
		WithStagePlugins(resolve.StagePlugins{
			HotReload:  s.cfg.Plugins.HotReload,
			QueryStrip: s.cfg.Plugins.QueryStrip,
		})
	if s.cfg.Site.NoResolve {
		r = r.WithToolchain(func(string) toolchain.Resolver { return toolchain.Passthrough{} })
	}
	return r
}

func (s *session) request() resolve.Request {
	return resolve.Request{
		Directory: s.site.Directory,
		Stage:     s.stage,
		Targets:   s.cfg.Site.Browsers,
	}
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func stageNames() string {
	all := stage.All()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}
