package paystream

import "fmt"

// Release of this build. Bump Major on breaking state changes.
const (
	Major      = 0
	Minor      = 1
	Patch      = 0
	PreRelease = "dev"
)

// GitCommit is injected at link time:
//   go build -ldflags "-X github.com/iov-one/paystream.GitCommit=$(git rev-parse --short HEAD)"
var GitCommit = ""

// Version returns the semantic version, followed by the commit when known.
func Version() string {
	v := fmt.Sprintf("v%d.%d.%d", Major, Minor, Patch)
	if PreRelease != "" {
		v += "-" + PreRelease
	}
	if GitCommit != "" {
		v += " " + GitCommit
	}
	return v
}
