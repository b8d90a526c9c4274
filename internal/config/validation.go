package config

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	ferrors "git.home.luguber.info/inful/transpileconf/internal/foundation/errors"
	"git.home.luguber.info/inful/transpileconf/internal/stage"
	"git.home.luguber.info/inful/transpileconf/internal/value"
)

// ValidateConfig checks a finalized configuration.
func ValidateConfig(cfg *Config) error {
	validator := &configurationValidator{config: cfg}
	return validator.validate()
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateSite(); err != nil {
		return err
	}
	if err := cv.validateSources(); err != nil {
		return err
	}
	if err := cv.validateExtensions(); err != nil {
		return err
	}
	return cv.validateOutput()
}

func (cv *configurationValidator) validateSite() error {
	if !stage.Stage(cv.config.Site.Stage).IsValid() {
		return invalid("site.stage", fmt.Sprintf("unknown stage %q", cv.config.Site.Stage),
			"use one of develop, develop-html, build-javascript, build-html, build-css")
	}
	return nil
}

func (cv *configurationValidator) validateSources() error {
	s := cv.config.Sources
	names := []struct{ field, name string }{
		{"sources.script", s.Script},
		{"sources.rc_file", s.RCFile},
		{"sources.manifest", s.Manifest},
	}
	seen := map[string]string{}
	for _, n := range names {
		if other, dup := seen[n.name]; dup {
			return invalid(n.field, fmt.Sprintf("%q is also used by %s", n.name, other), "")
		}
		seen[n.name] = n.field
	}
	return nil
}

func (cv *configurationValidator) validateExtensions() error {
	seen := map[string]bool{}
	for i, ext := range cv.config.Extensions {
		field := fmt.Sprintf("extensions[%d]", i)
		if ext.Name == "" {
			return invalid(field+".name", "extension name is required", "")
		}
		if _, err := semver.NewVersion(ext.Version); err != nil {
			return invalid(field+".version", fmt.Sprintf("invalid version %q for %s", ext.Version, ext.Name),
				"use a semantic version such as 1.0.0")
		}
		key := ext.Name + "@" + ext.Version
		if seen[key] {
			return invalid(field, "duplicate extension "+key, "")
		}
		seen[key] = true
		if k := ext.Fragment.Kind(); k != value.KindMap && k != value.KindNull {
			return invalid(field+".fragment", fmt.Sprintf("fragment of %s must be a mapping, got %s", ext.Name, k), "")
		}
	}
	return nil
}

func (cv *configurationValidator) validateOutput() error {
	if NormalizeOutputFormat(string(cv.config.Output.Format)) == "" {
		return invalid("output.format", fmt.Sprintf("unknown output format %q", cv.config.Output.Format), "use json or yaml")
	}
	if cv.config.Watch.Debounce < 0 {
		return invalid("watch.debounce", "debounce must not be negative", "")
	}
	if cv.config.Metrics.Enabled && cv.config.Metrics.Listen == "" {
		return invalid("metrics.listen", "metrics are enabled but no listen address is set", "")
	}
	return nil
}

func invalid(field, msg, hint string) error {
	b := ferrors.ValidationError(msg).WithContext("field", field)
	if hint != "" {
		b = b.WithHint(hint)
	}
	return b.Build()
}
