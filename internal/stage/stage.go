// Package stage enumerates the build phases that gate transform configuration.
package stage

import (
	"fmt"

	"git.home.luguber.info/inful/transpileconf/internal/foundation"
)

// Stage is a named phase of the site build.
type Stage string

const (
	// Develop is the interactive development server stage.
	Develop         Stage = "develop"
	DevelopHTML     Stage = "develop-html"
	BuildJavaScript Stage = "build-javascript"
	BuildHTML       Stage = "build-html"
	BuildCSS        Stage = "build-css"
)

var normalizer = foundation.NewNormalizer(map[string]Stage{
	string(Develop):         Develop,
	string(DevelopHTML):     DevelopHTML,
	string(BuildJavaScript): BuildJavaScript,
	string(BuildHTML):       BuildHTML,
	string(BuildCSS):        BuildCSS,
})

// All returns every known stage in build order.
func All() []Stage {
	return []Stage{Develop, DevelopHTML, BuildJavaScript, BuildHTML, BuildCSS}
}

// Parse canonicalizes raw (case and surrounding space are ignored).
func Parse(raw string) (Stage, error) {
	s, ok := normalizer.Lookup(raw)
	if !ok {
		return "", fmt.Errorf("unknown stage %q", raw)
	}
	return s, nil
}

// IsValid reports whether s is a known stage.
func (s Stage) IsValid() bool {
	p, err := Parse(string(s))
	return err == nil && p == s
}

// IsInteractive reports whether s runs the live development server.
func (s Stage) IsInteractive() bool { return s == Develop }

func (s Stage) String() string { return string(s) }
