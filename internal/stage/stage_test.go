package stage

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Stage
		wantErr  bool
	}{
		{"develop", Develop, false},
		{"  DEVELOP ", Develop, false},
		{"build-javascript", BuildJavaScript, false},
		{"build-html", BuildHTML, false},
		{"develop-html", DevelopHTML, false},
		{"build-css", BuildCSS, false},
		{"production", "", true},
		{"", "", true},
	}

	for _, test := range tests {
		got, err := Parse(test.input)
		if (err != nil) != test.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", test.input, err, test.wantErr)
			continue
		}
		if got != test.expected {
			t.Errorf("Parse(%q) = %q, want %q", test.input, got, test.expected)
		}
	}
}

func TestIsInteractive(t *testing.T) {
	for _, s := range All() {
		if got := s.IsInteractive(); got != (s == Develop) {
			t.Errorf("%s.IsInteractive() = %v", s, got)
		}
	}
}

func TestIsValid(t *testing.T) {
	if !BuildJavaScript.IsValid() {
		t.Error("build-javascript should be valid")
	}
	if Stage("Develop").IsValid() {
		t.Error("non-canonical spelling should not be valid")
	}
}
