// Package build holds the version stamp compiled into release binaries.
package build

import "runtime/debug"

// Version and Date are overridden through -ldflags on release builds.
var (
	Version = "DEV"
	Date    = "" // YYYY-MM-DD
)

// Without ldflags (go install from a module proxy), fall back to the
// module version recorded in the binary's build info.
func init() {
	if Version != "DEV" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
}
