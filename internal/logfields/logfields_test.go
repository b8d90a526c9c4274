package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"ResolutionID", KeyResolutionID, "r1", ResolutionID("r1")},
		{"Stage", KeyStage, "develop", Stage("develop")},
		{"Directory", KeyDirectory, "/site", Directory("/site")},
		{"Source", KeySource, "rcfile", Source("rcfile")},
		{"Path", KeyPath, "/site/.babelrc", Path("/site/.babelrc")},
		{"Extension", KeyExtension, "ext", Extension("ext")},
		{"Event", KeyEvent, "modifyBabelrc", Event("modifyBabelrc")},
		{"Plugin", KeyPlugin, "p", Plugin("p")},
		{"Outcome", KeyOutcome, "success", Outcome("success")},
		{"Error", KeyError, "boom", Error(errors.New("boom"))},
		{"NilError", KeyError, "", Error(nil)},
	}
	for _, c := range cases {
		if c.attr.Key != c.attrKey {
			t.Errorf("%s: key = %q, want %q", c.name, c.attr.Key, c.attrKey)
		}
		if got := c.attr.Value.String(); got != c.attrVal {
			t.Errorf("%s: value = %q, want %q", c.name, got, c.attrVal)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := Fragments(3); a.Key != KeyFragments || a.Value.Int64() != 3 {
		t.Errorf("unexpected fragments attr %v", a)
	}
	if a := Duration(1500 * time.Microsecond); a.Key != KeyDurationMS || a.Value.Float64() != 1.5 {
		t.Errorf("unexpected duration attr %v", a)
	}
}
