package config

import "git.home.luguber.info/inful/transpileconf/internal/foundation"

// OutputFormat selects the encoding of printed configuration.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

var outputFormats = foundation.NewNormalizer(map[string]OutputFormat{
	"json": FormatJSON,
	"yaml": FormatYAML,
	"yml":  FormatYAML,
})

// NormalizeOutputFormat canonicalizes raw, returning "" when it is unknown.
func NormalizeOutputFormat(raw string) OutputFormat {
	f, _ := outputFormats.Lookup(raw)
	return f
}
