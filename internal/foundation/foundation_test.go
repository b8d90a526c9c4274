package foundation

import (
	"strings"
	"testing"
)

type color int

const (
	red color = iota + 1
	green
)

func TestNormalizer(t *testing.T) {
	n := NewNormalizer(map[string]color{"red": red, "Green": green, "verde": green})

	tests := []struct {
		raw  string
		want color
		ok   bool
	}{
		{"red", red, true},
		{"  RED ", red, true},
		{"green", green, true},
		{"Verde", green, true},
		{"blue", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := n.Lookup(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Lookup(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNormalizerParse(t *testing.T) {
	n := NewNormalizer(map[string]color{"red": red, "green": green})

	if v, err := n.Parse("Green"); err != nil || v != green {
		t.Fatalf("Parse(Green) = %v, %v", v, err)
	}

	_, err := n.Parse("blue")
	if err == nil {
		t.Fatal("expected error for unknown value")
	}
	if !strings.Contains(err.Error(), "accepted: green, red") {
		t.Errorf("error should list accepted names, got %q", err)
	}
}

func TestNormalizerNamesIsCopy(t *testing.T) {
	n := NewNormalizer(map[string]color{"red": red})
	names := n.Names()
	names[0] = "mutated"
	if n.Names()[0] != "red" {
		t.Error("Names must return a copy")
	}
}
