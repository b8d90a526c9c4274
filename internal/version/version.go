// Package version holds build metadata set through linker flags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/transpileconf/internal/version.Version=v1.2.0"
package version

import "fmt"

// Version is the release version of the binary.
var Version = "unknown"

// Build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	if GitCommit == "unknown" {
		return "transpileconf " + Version
	}
	return fmt.Sprintf("transpileconf %s (%s, built %s)", Version, GitCommit, BuildTime)
}
