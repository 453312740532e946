// Package buildinfo holds release metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/sleekspend/sleekspend/internal/buildinfo.Version=v0.3.0 \
//	  -X github.com/sleekspend/sleekspend/internal/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the version line shown by --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
