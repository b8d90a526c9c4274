package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/transpileconf/internal/config"
	ferrors "git.home.luguber.info/inful/transpileconf/internal/foundation/errors"
	"git.home.luguber.info/inful/transpileconf/internal/logfields"
	"git.home.luguber.info/inful/transpileconf/internal/metrics"
	"git.home.luguber.info/inful/transpileconf/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Format      string `short:"f" help:"Output format: json or yaml (overrides output.format)"`
	MetricsAddr string `name:"metrics-addr" help:"Serve Prometheus metrics on this address (enables metrics)"`
}

func (c *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.run(ctx, g, root)
}

func (c *WatchCmd) run(ctx context.Context, g *Global, root *CLI) error {
	s, err := newSession(g, root)
	if err != nil {
		return err
	}
	logger := s.logger

	if c.MetricsAddr != "" {
		s.cfg.Metrics.Enabled = true
		s.cfg.Metrics.Listen = c.MetricsAddr
	}

	var rec metrics.Recorder = metrics.NoopRecorder{}
	if s.cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		rec = metrics.NewPrometheusRecorder(reg)
		shutdown := serveMetrics(s.cfg.Metrics.Listen, reg, logger)
		defer shutdown()
	}

	format := s.cfg.Output.Format
	if c.Format != "" {
		if format = config.NormalizeOutputFormat(c.Format); format == "" {
			return ferrors.ValidationError("unknown output format " + c.Format).
				WithHint("use json or yaml").
				Build()
		}
	}

	// The site root and the watched names are fixed at startup; each reload
	// re-reads the configuration so extension and plugin edits apply.
	pinned := *root
	pinned.Directory = s.site.Directory
	out := g.stdout()
	reload := func(ctx context.Context, _ []string) error {
		cur, err := newSession(g, &pinned)
		if err != nil {
			return err
		}
		reg, err := cur.registry()
		if err != nil {
			return err
		}
		defer reg.Clear()
		res, err := cur.resolver(reg, rec).Resolve(ctx, cur.request())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# %s (%s)\n", res.Origin, res.ResolutionID)
		return writeConfig(out, res.Config, format)
	}

	w, err := watch.New(watch.Config{
		Files:    watchedFiles(s, root.Config),
		Debounce: s.cfg.Watch.Debounce,
		Recorder: rec,
		Logger:   logger,
	}, reload)
	if err != nil {
		return err
	}

	if err := reload(ctx, nil); err != nil {
		// Keep watching; the user is expected to fix the source.
		logger.Error("Initial resolution failed", logfields.Error(err))
	}

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// watchedFiles returns the override sources of the site plus the
// configuration file.
func watchedFiles(s *session, configPath string) []string {
	if configPath == "" {
		configPath = config.DefaultFile
	}
	files := []string{
		filepath.Join(s.site.Directory, s.cfg.Sources.Script),
		filepath.Join(s.site.Directory, s.cfg.Sources.RCFile),
		filepath.Join(s.site.Directory, s.cfg.Sources.Manifest),
	}
	if abs, err := filepath.Abs(configPath); err == nil {
		files = append(files, abs)
	}
	return files
}

// serveMetrics exposes reg on addr and returns a function that stops the server.
func serveMetrics(addr string, reg *prom.Registry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("Serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", logfields.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
