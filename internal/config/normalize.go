package config

import (
	"strings"

	"git.home.luguber.info/inful/transpileconf/internal/stage"
)

// normalize canonicalizes enumerated fields in place. Empty fields are left for
// the defaults; unknown values are left for validation to report.
func normalize(cfg *Config) error {
	if s := strings.TrimSpace(cfg.Site.Stage); s != "" {
		if st, err := stage.Parse(s); err == nil {
			cfg.Site.Stage = string(st)
		}
	}
	if f := NormalizeOutputFormat(string(cfg.Output.Format)); f != "" {
		cfg.Output.Format = f
	}
	browsers := cfg.Site.Browsers[:0]
	for _, b := range cfg.Site.Browsers {
		if b = strings.TrimSpace(b); b != "" {
			browsers = append(browsers, b)
		}
	}
	cfg.Site.Browsers = browsers
	return nil
}
