// Package foundation holds small generic helpers shared by the domain packages.
package foundation

import (
	"fmt"
	"slices"
	"strings"
)

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalizer maps loosely written names onto enum values. Case and
// surrounding space are ignored, and several names may map to one value.
type Normalizer[T comparable] struct {
	byName map[string]T
	names  []string
}

// NewNormalizer builds a Normalizer from name -> value pairs.
func NewNormalizer[T comparable](values map[string]T) *Normalizer[T] {
	n := &Normalizer[T]{byName: make(map[string]T, len(values))}
	for k, v := range values {
		key := fold(k)
		n.byName[key] = v
		n.names = append(n.names, key)
	}
	slices.Sort(n.names)
	return n
}

// Lookup returns the value for raw.
func (n *Normalizer[T]) Lookup(raw string) (T, bool) {
	v, ok := n.byName[fold(raw)]
	return v, ok
}

// Parse is Lookup with an error naming the accepted spellings.
func (n *Normalizer[T]) Parse(raw string) (T, error) {
	if v, ok := n.Lookup(raw); ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q (accepted: %s)", raw, strings.Join(n.names, ", "))
}

// Names returns the accepted spellings, sorted.
func (n *Normalizer[T]) Names() []string {
	return slices.Clone(n.names)
}
