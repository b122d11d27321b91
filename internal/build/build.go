// Package build holds values stamped at link time with
// -ldflags "-X github.com/ib-77/railyard/internal/build.Version=...".
package build

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
