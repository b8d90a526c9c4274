package plugin

import (
	"context"
	"errors"
	"testing"

	"git.home.luguber.info/inful/transpileconf/internal/value"
)

func TestExtensionMetadataValidation(t *testing.T) {
	tests := []struct {
		name      string
		metadata  ExtensionMetadata
		expectErr bool
	}{
		{
			name: "valid metadata",
			metadata: ExtensionMetadata{
				Name:        "gatsby-plugin-emotion",
				Version:     "v1.0.0",
				Description: "Adds the emotion babel plugin",
				Events:      []string{ModifyTransformConfig},
			},
		},
		{
			name:      "missing name",
			metadata:  ExtensionMetadata{Version: "1.0.0", Events: []string{ModifyTransformConfig}},
			expectErr: true,
		},
		{
			name:      "missing version",
			metadata:  ExtensionMetadata{Name: "ext", Events: []string{ModifyTransformConfig}},
			expectErr: true,
		},
		{
			name:      "invalid version",
			metadata:  ExtensionMetadata{Name: "ext", Version: "one", Events: []string{ModifyTransformConfig}},
			expectErr: true,
		},
		{
			name:      "no events",
			metadata:  ExtensionMetadata{Name: "ext", Version: "1.0.0"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.metadata.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected error but got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestExtensionMetadataString(t *testing.T) {
	m := ExtensionMetadata{Name: "ext", Version: "1.2.3"}
	if got := m.String(); got != "ext@1.2.3" {
		t.Errorf("String() = %q, want %q", got, "ext@1.2.3")
	}
}

func TestStaticExtension(t *testing.T) {
	fragment := value.MapOf("plugins", []any{"emotion"})
	ext := NewStaticExtension("emotion", "1.0.0", "", fragment)

	if err := ext.Metadata().Validate(); err != nil {
		t.Fatalf("static extension metadata invalid: %v", err)
	}
	if !ext.Metadata().Handles(ModifyTransformConfig) {
		t.Error("static extension should handle " + ModifyTransformConfig)
	}

	got, err := ext.Contribute(context.Background(), &HookContext{})
	if err != nil {
		t.Fatalf("Contribute() failed: %v", err)
	}
	if !got.Equal(fragment) {
		t.Errorf("Contribute() = %s, want %s", got, fragment)
	}

	m, _ := got.AsMap()
	m.Delete("plugins")
	again, _ := ext.Contribute(context.Background(), &HookContext{})
	if !again.Equal(fragment) {
		t.Error("fragments returned by Contribute must not alias the extension's copy")
	}
}

func TestExtensionError(t *testing.T) {
	cause := errors.New("cannot read options")
	err := NewExtensionError("ext@1.0.0", ModifyTransformConfig, cause)

	if !errors.Is(err, cause) {
		t.Error("ExtensionError should unwrap to its cause")
	}
	want := "extension ext@1.0.0 failed during modifyBabelrc: cannot read options"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
