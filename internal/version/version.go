// Package version holds build metadata. The variables can be overridden at
// build time via -ldflags.
package version

import "github.com/fatih/color"

var (
	// Version is the semantic version of the compiler. It feeds the IR cache
	// key, so a new version never reads entries written by an old one.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionColor = color.New(color.FgYellow, color.Bold)
	commitColor  = color.New(color.FgBlue)
)

// String renders "minicc <version> (<commit>, <date>)", omitting empty parts.
// useColor highlights the version and commit.
func String(useColor bool) string {
	paint := func(c *color.Color, s string) string {
		if !useColor {
			return s
		}
		c.EnableColor()
		return c.Sprint(s)
	}
	out := "minicc " + paint(versionColor, Version)
	switch {
	case GitCommit != "" && BuildDate != "":
		out += " (" + paint(commitColor, GitCommit) + ", " + BuildDate + ")"
	case GitCommit != "":
		out += " (" + paint(commitColor, GitCommit) + ")"
	case BuildDate != "":
		out += " (" + BuildDate + ")"
	}
	return out
}
