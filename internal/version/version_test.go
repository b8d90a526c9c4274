package version

import "testing"

func TestString(t *testing.T) {
	if got := String(); got != "transpileconf unknown" {
		t.Errorf("String() = %q", got)
	}

	oldV, oldC, oldT := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldV, oldC, oldT })

	Version, GitCommit, BuildTime = "v1.2.0", "abc123", "2026-01-02"
	want := "transpileconf v1.2.0 (abc123, built 2026-01-02)"
	if got := String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
