// Package version carries build-time version information.
package version

// Injected via -ldflags at build time.
var (
	Version   = "dev"
	BuildTime = ""
	GitCommit = ""
)

// GetVersion returns the full version string.
func GetVersion() string {
	v := "v" + Version
	if BuildTime != "" {
		v += " (built " + BuildTime + ")"
	}
	if GitCommit != "" {
		commit := GitCommit
		if len(commit) > 8 {
			commit = commit[:8]
		}
		v += " commit " + commit
	}
	return v
}

// GetShortVersion returns just the semantic version.
func GetShortVersion() string {
	return Version
}
