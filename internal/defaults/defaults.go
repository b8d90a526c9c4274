// Package defaults builds the built-in transform configuration used when a site
// supplies no override.
package defaults

import (
	"git.home.luguber.info/inful/transpileconf/internal/toolchain"
	"git.home.luguber.info/inful/transpileconf/internal/value"
)

// Package names referenced by the built-in configuration.
const (
	PresetEnv   = "@babel/preset-env"
	PresetReact = "@babel/preset-react"
	PresetFlow  = "@babel/preset-flow"

	PluginClassProperties  = "@babel/plugin-proposal-class-properties"
	PluginDynamicImport    = "@babel/plugin-syntax-dynamic-import"
	PluginTransformRuntime = "@babel/plugin-transform-runtime"
)

// Builder produces the default configuration. References are resolved through
// Resolver; a nil Resolver leaves names as they are.
type Builder struct {
	Resolver toolchain.Resolver
}

// Build returns the default configuration for the given browser targets.
// The first reference that cannot be resolved aborts the build.
func (b Builder) Build(targets []string) (value.Value, error) {
	r := b.Resolver
	if r == nil {
		r = toolchain.Passthrough{}
	}
	refs := make(map[string]string, 6)
	for _, name := range []string{
		PresetEnv, PresetReact, PresetFlow,
		PluginClassProperties, PluginDynamicImport, PluginTransformRuntime,
	} {
		ref, err := r.Resolve(name)
		if err != nil {
			return value.Value{}, err
		}
		refs[name] = ref
	}

	browsers := make([]value.Value, len(targets))
	for i, t := range targets {
		browsers[i] = value.String(t)
	}

	presets := value.List(
		value.List(value.String(refs[PresetEnv]), value.MapOf(
			"loose", true,
			"modules", false,
			"useBuiltIns", "usage",
			"sourceType", "unambiguous",
			"shippedProposals", true,
			"targets", value.MapOf("browsers", value.List(browsers...)),
		)),
		value.List(value.String(refs[PresetReact]), value.MapOf("pragma", "React.createElement")),
		value.String(refs[PresetFlow]),
	)

	plugins := value.List(
		value.String(refs[PluginClassProperties]),
		value.String(refs[PluginDynamicImport]),
		value.List(value.String(refs[PluginTransformRuntime]), value.MapOf(
			"helpers", false,
			"polyfill", false,
			"regenerator", true,
		)),
	)

	return value.MapOf(
		"cacheDirectory", true,
		"babelrc", false,
		"presets", presets,
		"plugins", plugins,
	), nil
}
