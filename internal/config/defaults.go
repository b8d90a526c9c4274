package config

import (
	"time"

	"dario.cat/mergo"

	"git.home.luguber.info/inful/transpileconf/internal/stage"
)

// DefaultBrowsers are the browser targets used when none are configured.
var DefaultBrowsers = []string{"> 1%", "last 2 versions", "IE >= 9"}

// Default returns a fully populated configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Site: SiteConfig{
			Stage:    string(stage.Develop),
			Browsers: append([]string(nil), DefaultBrowsers...),
		},
		Sources: SourcesConfig{
			Script:          ".babelrc.js",
			RCFile:          ".babelrc",
			Manifest:        "package.json",
			ManifestSection: "babel",
		},
		Plugins: PluginsConfig{
			HotReload:  "react-hot-loader/babel",
			QueryStrip: "babel-plugin-remove-graphql-queries",
		},
		Output:  OutputConfig{Format: FormatJSON},
		Watch:   WatchConfig{Debounce: 300 * time.Millisecond},
		Metrics: MetricsConfig{Listen: ":9464"},
	}
}

// applyDefaults fills every zero-valued field of cfg from Default. Fields the
// user set, including non-empty lists, are left alone.
func applyDefaults(cfg *Config) error {
	return mergo.Merge(cfg, Default())
}
