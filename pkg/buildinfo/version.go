// Package buildinfo carries the version stamped into the custody binary.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/kelplab/custody/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/kelplab/custody/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/kelplab/custody/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the UTC build timestamp.
	Date = "unknown"
)

// Info is the build information as reported by the web UI's /healthz.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}
