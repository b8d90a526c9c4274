// Package plugin provides the extension registry that lets build extensions
// contribute partial transform configuration when a hook event fires.
package plugin

import (
	"context"
	"fmt"
	"slices"

	"github.com/Masterminds/semver/v3"

	"git.home.luguber.info/inful/transpileconf/internal/value"
)

// Extension contributes configuration fragments for the events it handles.
type Extension interface {
	// Metadata returns the extension's identity and subscribed events.
	Metadata() ExtensionMetadata

	// Contribute returns a fragment for hc.Event, or null to contribute nothing.
	// Returned errors abort the resolution that fired the event.
	Contribute(ctx context.Context, hc *HookContext) (value.Value, error)
}

// Lifecycle extends Extension with optional registration hooks.
type Lifecycle interface {
	Extension

	// Init is called once when the extension is registered.
	Init() error

	// Cleanup is called when the extension is unregistered or the registry is cleared.
	Cleanup() error
}

// ExtensionMetadata describes an extension.
type ExtensionMetadata struct {
	// Name is the unique extension identifier (e.g., "gatsby-plugin-emotion").
	Name string

	// Version is a semantic version (e.g., "1.2.0", "v2.0.0-beta.1").
	Version string

	// Description is a human-readable summary.
	Description string

	// Events lists the hook events the extension handles.
	Events []string
}

// String returns name@version.
func (m ExtensionMetadata) String() string {
	return fmt.Sprintf("%s@%s", m.Name, m.Version)
}

// Handles reports whether the extension subscribes to event.
func (m ExtensionMetadata) Handles(event string) bool {
	return slices.Contains(m.Events, event)
}

// SemVer parses Version.
func (m ExtensionMetadata) SemVer() (*semver.Version, error) {
	return semver.NewVersion(m.Version)
}

// Validate checks that the metadata is usable for registration.
func (m ExtensionMetadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("extension name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("extension version is required")
	}
	if _, err := m.SemVer(); err != nil {
		return fmt.Errorf("extension %s: invalid version %q: %w", m.Name, m.Version, err)
	}
	if len(m.Events) == 0 {
		return fmt.Errorf("extension %s handles no events", m.Name)
	}
	return nil
}

// BaseExtension provides no-op lifecycle methods for embedding.
type BaseExtension struct{}

// Init is a no-op.
func (b *BaseExtension) Init() error {
	return nil
}

// Cleanup is a no-op.
func (b *BaseExtension) Cleanup() error {
	return nil
}
