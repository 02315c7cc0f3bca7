package config

import "runtime/debug"

// Version and Commit are stamped by the release build:
//
//	-ldflags "-X github.com/persistorai/graphboard/internal/config.Version=<tag> -X ...Commit=<sha>"
var (
	Version = "dev"
	Commit  = ""
)

// BuildVersion reports the server version for /health and the startup log.
// Unstamped binaries fall back to the module version and VCS revision that
// `go install` records.
func BuildVersion() string {
	v, rev := Version, Commit

	if info, ok := debug.ReadBuildInfo(); ok {
		if v == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}

		if rev == "" {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					rev = s.Value
				}
			}
		}
	}

	if len(rev) > 7 {
		rev = rev[:7]
	}

	if rev == "" {
		return v
	}

	return v + "+" + rev
}
