// Package version reports the crxsync build version.
package version

import "runtime/debug"

// version is set at build time with -ldflags "-X github.com/indaco/crxsync/internal/version.version=1.2.3".
var version = ""

// GetVersion returns the build version, falling back to the module
// version recorded by the Go toolchain and then to "dev".
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return trimV(info.Main.Version)
	}
	return "dev"
}

func trimV(v string) string {
	if len(v) > 0 && v[0] == 'v' {
		return v[1:]
	}
	return v
}
