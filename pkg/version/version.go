// Package version exposes the casedesk build version.
//
// Priority: -ldflags override > VCS info from debug.BuildInfo > "dev" fallback.
package version

import "runtime/debug"

// AppName prefixes version strings and the outbound User-Agent.
const AppName = "casedesk"

// commitOverride is set via -ldflags "-X .../version.commitOverride=<sha>"
// for builds without .git.
var commitOverride string

// GitCommit is the short commit hash, or "dev" when unknown.
var GitCommit = resolveCommit(commitOverride, readBuildInfo)

func readBuildInfo() (*debug.BuildInfo, bool) {
	return debug.ReadBuildInfo()
}

func resolveCommit(override string, info func() (*debug.BuildInfo, bool)) string {
	if override != "" {
		return shorten(override)
	}
	bi, ok := info()
	if !ok {
		return "dev"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			return shorten(s.Value)
		}
	}
	return "dev"
}

func shorten(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}

// Full returns "casedesk/<commit>" for User-Agent headers and logs.
func Full() string {
	return AppName + "/" + GitCommit
}
