// Package watch re-runs a resolution when the files that feed it change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/transpileconf/internal/foundation/errors"
	"git.home.luguber.info/inful/transpileconf/internal/logfields"
	"git.home.luguber.info/inful/transpileconf/internal/metrics"
)

// ReloadFunc is called after a debounced change. Errors are logged and counted;
// they do not stop the watcher.
type ReloadFunc func(ctx context.Context, changed []string) error

// Config configures a Watcher.
type Config struct {
	// Files are the paths to watch. Their directories are watched, so files
	// that do not exist yet are picked up when created.
	Files []string
	// Debounce is the quiet window after the last change before reloading.
	Debounce time.Duration
	// Recorder counts reloads; nil means no metrics.
	Recorder metrics.Recorder
	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Watcher coalesces bursts of file events into single reloads.
// Reloads run one at a time on the Run goroutine.
type Watcher struct {
	files    map[string]bool
	dirs     []string
	debounce time.Duration
	reload   ReloadFunc
	recorder metrics.Recorder
	logger   *slog.Logger
	ready    chan struct{}
}

// New validates cfg and returns a Watcher that calls reload.
func New(cfg Config, reload ReloadFunc) (*Watcher, error) {
	if reload == nil {
		return nil, ferrors.ValidationError("reload function is required").Build()
	}
	if len(cfg.Files) == 0 {
		return nil, ferrors.ValidationError("nothing to watch").Build()
	}
	if cfg.Debounce < 0 {
		return nil, ferrors.ValidationError("debounce must not be negative").Build()
	}
	if cfg.Recorder == nil {
		cfg.Recorder = metrics.NoopRecorder{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	w := &Watcher{
		files:    make(map[string]bool, len(cfg.Files)),
		debounce: cfg.Debounce,
		reload:   reload,
		recorder: cfg.Recorder,
		logger:   cfg.Logger,
		ready:    make(chan struct{}),
	}
	for _, f := range cfg.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to resolve watched path").
				WithContext(logfields.KeyPath, f).
				Build()
		}
		w.files[abs] = true
		if dir := filepath.Dir(abs); !slices.Contains(w.dirs, dir) {
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Ready is closed once Run has registered its watches.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to create file watcher").Build()
	}
	defer func() {
		if cerr := fw.Close(); cerr != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(cerr))
		}
	}()

	// Watch the directories rather than the files: editors replace files on save.
	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, fmt.Sprintf("failed to watch %s", dir)).
				WithContext(logfields.KeyDirectory, dir).
				Build()
		}
	}
	w.logger.Info("Watching for configuration changes", slog.Int("files", len(w.files)), slog.Duration("debounce", w.debounce))
	close(w.ready)

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	var timerC <-chan time.Time
	pending := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("Change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			pending[event.Name] = true
			timer.Reset(w.debounce)
			timerC = timer.C

		case <-timerC:
			timerC = nil
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			slices.Sort(changed)
			clear(pending)
			w.runReload(ctx, changed)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

func (w *Watcher) runReload(ctx context.Context, changed []string) {
	start := time.Now()
	err := w.reload(ctx, changed)
	switch {
	case err == nil:
		w.recorder.IncWatchReload(metrics.ResultSuccess)
		w.logger.Info("Reloaded", slog.Any("changed", changed), logfields.Duration(time.Since(start)))
	case ctx.Err() != nil:
		w.recorder.IncWatchReload(metrics.ResultCanceled)
	default:
		w.recorder.IncWatchReload(metrics.ResultFatal)
		w.logger.Error("Reload failed", slog.Any("changed", changed), logfields.Error(err))
	}
}
