// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// UserAgent is the value sent in the User-Agent header of every request.
func UserAgent() string {
	return "chromalens-go/" + Version
}
