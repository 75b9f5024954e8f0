// Package version provides build-time version information.
//
// Variables are set at build time via ldflags:
//
//	go build -ldflags "-X rateoracle-service/internal/version.Version=0.2.0 \
//	                   -X rateoracle-service/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X rateoracle-service/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Version is also the contract version stored on instantiate and checked on
// migrate, so it must stay a valid semantic version.
package version

var (
	Version   = "0.1.0"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns a formatted version string.
func String() string {
	return Version + " (" + Commit + ") built " + BuildTime
}
