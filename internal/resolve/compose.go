package resolve

import (
	ferrors "git.home.luguber.info/inful/transpileconf/internal/foundation/errors"
	"git.home.luguber.info/inful/transpileconf/internal/stage"
	"git.home.luguber.info/inful/transpileconf/internal/toolchain"
	"git.home.luguber.info/inful/transpileconf/internal/value"
)

// Configuration keys with structural meaning.
const (
	KeyPlugins        = "plugins"
	KeyPresets        = "presets"
	KeyCacheDirectory = "cacheDirectory"
)

// Normalize returns a copy of base in which plugins and presets are lists and
// cacheDirectory is a set value. Absent, null or false list fields become empty
// lists; any other non-list value is rejected. An absent or null cacheDirectory
// becomes true.
func Normalize(base value.Value) (value.Value, error) {
	if base.Kind() != value.KindMap {
		return value.Value{}, ferrors.ConfigError("configuration must be an object").
			WithContext("kind", base.Kind().String()).
			Build()
	}
	out := base.Clone()
	m, _ := out.AsMap()

	for _, key := range []string{KeyPlugins, KeyPresets} {
		v, ok := m.Get(key)
		switch {
		case !ok || v.IsNull() || isFalse(v):
			m.Set(key, value.List())
		case v.Kind() != value.KindList:
			return value.Value{}, ferrors.ConfigError(key + " must be a list").
				WithContext("kind", v.Kind().String()).
				Build()
		}
	}

	if v, ok := m.Get(KeyCacheDirectory); !ok || v.IsNull() {
		m.Set(KeyCacheDirectory, value.Bool(true))
	}
	return out, nil
}

func isFalse(v value.Value) bool {
	b, ok := v.AsBool()
	return ok && !b
}

// StagePlugins are the plugins injected ahead of the configured ones.
type StagePlugins struct {
	// HotReload is prepended in the interactive development stage.
	HotReload string
	// QueryStrip is prepended in every stage.
	QueryStrip string
}

// DefaultStagePlugins returns the stock injected plugins.
func DefaultStagePlugins() StagePlugins {
	return StagePlugins{
		HotReload:  "react-hot-loader/babel",
		QueryStrip: "babel-plugin-remove-graphql-queries",
	}
}

// Inject returns a copy of the normalized base with the stage plugins prepended:
// the query-stripping plugin goes ahead of every configured plugin, and in the
// interactive development stage the hot-reload plugin goes ahead of that.
func (p StagePlugins) Inject(base value.Value, st stage.Stage, tc toolchain.Resolver) (value.Value, error) {
	names := []string{p.QueryStrip}
	if st.IsInteractive() {
		names = []string{p.HotReload, p.QueryStrip}
	}

	injected := make([]value.Value, 0, len(names))
	for _, name := range names {
		ref, err := tc.Resolve(name)
		if err != nil {
			return value.Value{}, err
		}
		injected = append(injected, value.String(ref))
	}

	out := base.Clone()
	m, _ := out.AsMap()
	existing, _ := m.Get(KeyPlugins)
	current, _ := existing.AsList()
	m.Set(KeyPlugins, value.List(append(injected, current...)...))
	return out, nil
}

// Compose returns the final configuration: every field the hook fragment sets
// wins, everything else falls back to base, recursively.
func Compose(fragment, base value.Value) value.Value {
	return value.DefaultsDeep(fragment, base)
}
