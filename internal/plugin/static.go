package plugin

import (
	"context"

	"git.home.luguber.info/inful/transpileconf/internal/value"
)

// StaticExtension contributes the same fragment every time its event fires.
// It backs the extensions declared in the tool configuration file.
type StaticExtension struct {
	BaseExtension
	meta     ExtensionMetadata
	fragment value.Value
}

// NewStaticExtension returns an extension that handles ModifyTransformConfig
// with fragment. A null fragment contributes nothing.
func NewStaticExtension(name, version, description string, fragment value.Value) *StaticExtension {
	return &StaticExtension{
		meta: ExtensionMetadata{
			Name:        name,
			Version:     version,
			Description: description,
			Events:      []string{ModifyTransformConfig},
		},
		fragment: fragment.Clone(),
	}
}

// Metadata implements Extension.
func (s *StaticExtension) Metadata() ExtensionMetadata {
	return s.meta
}

// Contribute implements Extension.
func (s *StaticExtension) Contribute(context.Context, *HookContext) (value.Value, error) {
	return s.fragment.Clone(), nil
}
