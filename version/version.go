// Package version carries build identity for the postforge binary. The
// version command, the /health endpoint, and the WebSocket hello all report
// it, and outbound requests identify themselves with it.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time via -ldflags "-X github.com/postforge/postforge/version.Version=...".
var (
	// CommitHash is the git commit the binary was built from
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// Info bundles the build identity with the runtime it runs on.
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String renders the one-line form the version command prints:
// "postforge 1.2.0 (commit 3f4a1c2, built 2026-08-12T09:30:00Z)".
func (i Info) String() string {
	return fmt.Sprintf("postforge %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildTime)
}

// Short returns the abbreviated commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// UserAgent identifies postforge on its outbound requests to the CMS and
// the text-generation backend, e.g. "postforge/1.2.0".
func UserAgent() string {
	return "postforge/" + Version
}
