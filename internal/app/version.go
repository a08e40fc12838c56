package app

import (
	"fmt"
	"io"
	"runtime"
	"slices"
)

// Build metadata, set with -ldflags "-X github.com/agbru/limbcalc/internal/app.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// HasVersionFlag reports whether args ask for the version.
func HasVersionFlag(args []string) bool {
	return slices.ContainsFunc(args, func(a string) bool {
		return a == "-version" || a == "--version" || a == "-V" || a == "version"
	})
}

// PrintVersion writes the build metadata.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "limbcalc %s (commit %s, built %s) %s %s/%s\n",
		Version, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
