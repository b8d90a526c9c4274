// Package hooks fires the configuration extension point and folds the returned
// fragments into one.
package hooks

import (
	"context"
	"errors"
	"fmt"

	ferrors "git.home.luguber.info/inful/transpileconf/internal/foundation/errors"
	"git.home.luguber.info/inful/transpileconf/internal/logfields"
	"git.home.luguber.info/inful/transpileconf/internal/plugin"
	"git.home.luguber.info/inful/transpileconf/internal/value"
)

// Runner fires event with base as context and returns the contributed
// fragments in contribution order.
type Runner interface {
	Run(ctx context.Context, event string, base value.Value) ([]value.Value, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, event string, base value.Value) ([]value.Value, error)

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, event string, base value.Value) ([]value.Value, error) {
	return f(ctx, event, base)
}

// None is a Runner with no extensions.
var None Runner = RunnerFunc(func(context.Context, string, value.Value) ([]value.Value, error) {
	return nil, nil
})

// Merge fires event and merges the fragments last-write-wins. No fragments
// yield an empty map. The runner receives a copy of base. Any runner failure
// aborts with an extension error that keeps the original cause.
func Merge(ctx context.Context, runner Runner, event string, base value.Value) (value.Value, error) {
	if runner == nil {
		runner = None
	}

	fragments, err := runner.Run(ctx, event, base.Clone())
	if err != nil {
		b := ferrors.ExtensionError(fmt.Sprintf("extension failed while handling %s", event)).
			WithCause(err).
			WithContext(logfields.KeyEvent, event)
		var extErr *plugin.ExtensionError
		if errors.As(err, &extErr) {
			b = b.WithContext(logfields.KeyExtension, extErr.Extension)
		}
		return value.Value{}, b.Build()
	}

	if len(fragments) == 0 {
		return value.EmptyMap(), nil
	}
	for i, f := range fragments {
		if f.IsNull() {
			continue
		}
		if f.Kind() != value.KindMap {
			return value.Value{}, ferrors.ExtensionError(
				fmt.Sprintf("fragment %d returned for %s is a %s, not an object", i, event, f.Kind())).
				WithContext(logfields.KeyEvent, event).
				Build()
		}
	}
	merged := value.MergeLastWins(fragments...)
	if err := checkStructural(merged, event); err != nil {
		return value.Value{}, err
	}
	return merged, nil
}

// structuralKinds are the kinds a fragment may give the fields every resolved
// configuration must carry. A fragment wins over the base on these fields, so
// anything else, null included, would leave the result without them.
var structuralKinds = []struct {
	key  string
	kind value.Kind
}{
	{"plugins", value.KindList},
	{"presets", value.KindList},
	{"cacheDirectory", value.KindBool},
}

func checkStructural(merged value.Value, event string) error {
	for _, f := range structuralKinds {
		v, ok := merged.Get(f.key)
		if !ok || v.Kind() == f.kind {
			continue
		}
		return ferrors.ExtensionError(
			fmt.Sprintf("extensions returned %s as %s for %s, expected %s", f.key, v.Kind(), event, f.kind)).
			WithContext(logfields.KeyEvent, event).
			WithContext("field", f.key).
			Build()
	}
	return nil
}
