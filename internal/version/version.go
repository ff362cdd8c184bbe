package version

import "fmt"

// Version is set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/kontentsource/internal/version.Version=v0.3.0".
var Version = "dev"

// Build metadata, also set via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// UserAgent is sent with every Delivery API request.
func UserAgent() string {
	return "kontentsource/" + Version
}

// String describes the build for --version output.
func String() string {
	return fmt.Sprintf("kontentsource %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
