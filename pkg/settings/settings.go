// Package settings provides build metadata, per-run options, and context
// helpers shared by the searchbar CLI and its internal packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "searchbar"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds options for a single invocation of the CLI.
type Run struct {
	MinLogLevel int8
	ConfigFile  string
	InstanceURL string // overrides instance.url when non-empty
	Interactive bool   // true when stdout is a terminal and the TUI should start
	NoColor     bool
	IsQuiet     bool
}

// NewCliParams returns the defaults used before flags are parsed.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Interactive: true,
	}
}
