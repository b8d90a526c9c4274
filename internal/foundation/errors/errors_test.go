package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "cannot parse .babelrc").
			WithSeverity(SeverityFatal).
			WithContext("path", "/site/.babelrc").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "cannot parse .babelrc" {
			t.Errorf("unexpected message %q", err.Message())
		}

		path, exists := err.Context().GetString("path")
		if !exists || path != "/site/.babelrc" {
			t.Errorf("expected context path=/site/.babelrc, got %v", path)
		}
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ToolchainError("cannot resolve @babel/preset-env").Build()

		if !IsClassified(err) {
			t.Error("expected error to be classified")
		}
		if !HasCategory(err, CategoryToolchain) {
			t.Error("expected error to have toolchain category")
		}
		if !err.IsFatal() {
			t.Error("expected toolchain error to be fatal")
		}
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		inner := ExtensionError("extension failed").Build()
		wrapped := fmt.Errorf("resolve: %w", inner)

		if GetCategory(wrapped) != CategoryExtension {
			t.Errorf("expected extension category, got %s", GetCategory(wrapped))
		}
		if GetSeverity(wrapped) != SeverityFatal {
			t.Errorf("expected fatal severity, got %s", GetSeverity(wrapped))
		}
	})

	t.Run("Unclassified defaults", func(t *testing.T) {
		plain := errors.New("plain")
		if GetCategory(plain) != CategoryInternal {
			t.Error("expected internal category for plain errors")
		}
		if GetSeverity(plain) != SeverityError {
			t.Error("expected error severity for plain errors")
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	originalErr := errors.New("invalid character '}'")
	err := WrapError(originalErr, CategoryConfig, "cannot parse .babelrc").
		Fatal().
		WithHint("fix the file").
		WithContext("line", 3).
		Build()

	if !errors.Is(err, originalErr) {
		t.Error("expected error to wrap original error")
	}
	if err.Cause() != originalErr {
		t.Error("expected cause to be the original error")
	}
	if err.Hint() != "fix the file" {
		t.Errorf("unexpected hint %q", err.Hint())
	}
	if v, _ := err.Context().Get("line"); v != 3 {
		t.Errorf("expected line context 3, got %v", v)
	}
}

func TestClassifiedError_WithContextCopies(t *testing.T) {
	base := ConfigError("bad").Build()
	derived := base.WithContext("path", "x")

	if _, ok := base.Context().Get("path"); ok {
		t.Error("WithContext must not modify the receiver")
	}
	if p, _ := derived.Context().GetString("path"); p != "x" {
		t.Errorf("expected derived path x, got %q", p)
	}
}

func TestClassifiedError_Is(t *testing.T) {
	a := ConfigError("same").Build()
	b := ConfigError("same").WithContext("k", "v").Build()
	c := ValidationError("same").Build()

	if !errors.Is(a, b) {
		t.Error("errors with equal category and message should match")
	}
	if errors.Is(a, c) {
		t.Error("errors with different categories should not match")
	}
}

func TestErrorContext_Merge(t *testing.T) {
	a := ErrorContext{"k": 1, "x": "a"}
	b := ErrorContext{"x": "b"}

	merged := a.Merge(b)
	if merged["x"] != "b" || merged["k"] != 1 {
		t.Errorf("unexpected merge result %v", merged)
	}
	if a["x"] != "a" {
		t.Error("merge must not modify the receiver")
	}
}

func TestCategoryMetadata(t *testing.T) {
	if CategoryConfig.Audience() != AudienceUser {
		t.Errorf("config errors are for the user, got %s", CategoryConfig.Audience())
	}
	if CategoryToolchain.Audience() != AudienceInstall {
		t.Errorf("toolchain errors are for the installation, got %s", CategoryToolchain.Audience())
	}
	if ErrorCategory("bogus").ExitCode() != 1 || ErrorCategory("bogus").Audience() != AudienceTool {
		t.Error("unknown categories fall back to exit code 1 and the tool audience")
	}
	if SeverityWarning.Level().String() != "WARN" || SeverityFatal.Level().String() != "ERROR" {
		t.Error("unexpected severity levels")
	}
}

func TestBuilderReuseDoesNotLeak(t *testing.T) {
	b := ConfigError("bad").WithContext("path", "a")
	first := b.Build()
	b.WithContext("path", "b")
	second := b.Build()

	if p, _ := first.Context().GetString("path"); p != "a" {
		t.Errorf("first error changed after reuse: %q", p)
	}
	if p, _ := second.Context().GetString("path"); p != "b" {
		t.Errorf("unexpected second path %q", p)
	}
}

func TestErrorContext_AttrsSorted(t *testing.T) {
	attrs := ErrorContext{"b": 2, "a": 1}.Attrs()
	if len(attrs) != 2 || attrs[0].Key != "a" || attrs[1].Key != "b" {
		t.Errorf("unexpected attrs %v", attrs)
	}
}
