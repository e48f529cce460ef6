// Package buildinfo exposes the version stamped into the binary.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/graphweave/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/graphweave/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/graphweave/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/graphweave
package buildinfo

import "fmt"

var (
	Version = "dev"     // Semantic version, e.g. "v1.2.3"
	Commit  = "none"    // Git commit SHA
	Date    = "unknown" // Build timestamp
)

// String returns the build information on three lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}

// UserAgent is sent with every request to a graph service.
func UserAgent() string {
	return "graphweave/" + Version
}
