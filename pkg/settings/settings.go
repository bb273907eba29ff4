// Package settings carries the build identity of the running binary. The
// values are injected at release time via ldflags and consumed by the CLI
// version output and the logger's per-line build fields.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "jqx"

// VersionInfo identifies one build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// VersionInformation is overridden by ldflags on release builds; the
// defaults mark a from-source build.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}
