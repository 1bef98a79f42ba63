// Package version resolves the version string reported in the server's
// startup log.
package version

import "runtime/debug"

// fallback is overridden at build time via
// -ldflags "-X github.com/aerodash/aerodash/pkg/version.fallback=v1.2.3".
var fallback = "dev"

// String returns the best available description of the running binary: the
// module version when built from a tagged module, the fallback suffixed with
// the VCS revision when built from a checkout, or the bare fallback.
func String() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return fallback
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 8 {
			return fallback + "+" + s.Value[:8]
		}
	}
	return fallback
}
