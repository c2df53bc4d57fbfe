package version

import "runtime/debug"

// Version is the module version. Set it at build time with
// -ldflags "-X .../internal/version.Version=v1.2.3"; otherwise the version
// embedded by go install is used.
var Version = "dev"

func init() {
	if Version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
}
