package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"git.home.luguber.info/inful/transpileconf/internal/logfields"
	"git.home.luguber.info/inful/transpileconf/internal/observability"
	"git.home.luguber.info/inful/transpileconf/internal/value"
)

// Registry manages extension registration and runs hook events.
// Names keep the order in which they were first registered; that order is the
// order in which fragments are contributed.
type Registry struct {
	mu         sync.RWMutex
	extensions map[string]map[string]Extension // map[name]map[version]Extension
	order      []string
	logger     *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger selects slog.Default.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		extensions: make(map[string]map[string]Extension),
		logger:     logger,
	}
}

// Register adds an extension. It fails when the metadata is invalid, when the
// same name@version is already registered, or when Init fails.
func (r *Registry) Register(ext Extension) error {
	if ext == nil {
		return fmt.Errorf("cannot register nil extension")
	}

	metadata := ext.Metadata()
	if err := metadata.Validate(); err != nil {
		return fmt.Errorf("invalid extension metadata: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.extensions[metadata.Name][metadata.Version]; exists {
		return fmt.Errorf("extension %s already registered", metadata)
	}

	if lc, ok := ext.(Lifecycle); ok {
		if err := lc.Init(); err != nil {
			return NewExtensionError(metadata.String(), "init", err)
		}
	}

	if r.extensions[metadata.Name] == nil {
		r.extensions[metadata.Name] = make(map[string]Extension)
		r.order = append(r.order, metadata.Name)
	}
	r.extensions[metadata.Name][metadata.Version] = ext
	return nil
}

// Get retrieves an extension by name and exact version string.
func (r *Registry) Get(name, version string) (Extension, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions, ok := r.extensions[name]
	if !ok {
		return nil, fmt.Errorf("extension %s not found", name)
	}

	ext, ok := versions[version]
	if !ok {
		return nil, fmt.Errorf("extension %s@%s not found", name, version)
	}

	return ext, nil
}

// GetLatest retrieves the highest registered version of name.
func (r *Registry) GetLatest(name string) (Extension, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := r.latestLocked(name)
	if ext == nil {
		return nil, fmt.Errorf("extension %s not found", name)
	}
	return ext, nil
}

func (r *Registry) latestLocked(name string) Extension {
	versions := sortedVersions(r.extensions[name])
	if len(versions) == 0 {
		return nil
	}
	return r.extensions[name][versions[len(versions)-1]]
}

// List returns every registered extension, grouped by name in registration
// order and ascending by version within a name.
func (r *Registry) List() []Extension {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Extension
	for _, name := range r.order {
		for _, version := range sortedVersions(r.extensions[name]) {
			result = append(result, r.extensions[name][version])
		}
	}
	return result
}

// ListVersions returns the registered versions of name in ascending order.
func (r *Registry) ListVersions(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedVersions(r.extensions[name])
}

// Names returns the registered extension names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Clear removes all extensions. Cleanup errors are logged and do not stop the clear.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range r.order {
		for version, ext := range r.extensions[name] {
			lc, ok := ext.(Lifecycle)
			if !ok {
				continue
			}
			if err := lc.Cleanup(); err != nil {
				r.log().Warn("Extension cleanup failed",
					logfields.Extension(name+"@"+version), logfields.Error(err))
			}
		}
	}
	r.extensions = make(map[string]map[string]Extension)
	r.order = nil
}

// Count returns the number of registered extensions (all versions).
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, versions := range r.extensions {
		count += len(versions)
	}
	return count
}

// Run fires event: the latest version of every extension handling it is called
// in registration order, each with its own copy of base. Null fragments are
// dropped. The first failing extension aborts the run.
func (r *Registry) Run(ctx context.Context, event string, base value.Value) ([]value.Value, error) {
	handlers := r.handlers(event)
	lc := observability.GetContext(ctx)
	log := observability.Logger(ctx, r.logger)

	fragments := make([]value.Value, 0, len(handlers))
	for _, ext := range handlers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		md := ext.Metadata()
		hc := &HookContext{
			Event:        event,
			Stage:        lc.Stage,
			Directory:    lc.Directory,
			ResolutionID: lc.ResolutionID,
			Logger:       log.With(logfields.Extension(md.String())),
			config:       base.Clone(),
		}

		fragment, err := ext.Contribute(ctx, hc)
		if err != nil {
			return nil, NewExtensionError(md.String(), event, err)
		}
		if fragment.IsNull() {
			log.Debug("Extension contributed nothing", logfields.Extension(md.String()), logfields.Event(event))
			continue
		}
		fragments = append(fragments, fragment)
	}
	return fragments, nil
}

func (r *Registry) handlers(event string) []Extension {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Extension
	for _, name := range r.order {
		ext := r.latestLocked(name)
		if ext != nil && ext.Metadata().Handles(event) {
			result = append(result, ext)
		}
	}
	return result
}

func (r *Registry) log() *slog.Logger {
	if r.logger == nil {
		return slog.Default()
	}
	return r.logger
}

// sortedVersions orders version strings by semantic version. Registration
// guarantees every key parses.
func sortedVersions(versions map[string]Extension) []string {
	result := make([]string, 0, len(versions))
	for v := range versions {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		a, _ := versions[result[i]].Metadata().SemVer()
		b, _ := versions[result[j]].Metadata().SemVer()
		return a.LessThan(b)
	})
	return result
}
