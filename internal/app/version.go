package app

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/factcalc/internal/factorial"
)

// Build metadata, overridden at link time:
//
//	go build -ldflags "-X github.com/agbru/factcalc/internal/app.Version=v1.2.0"
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// HasVersionFlag reports whether args request the version banner. It is
// checked before flag parsing so that --version works alongside any other
// flags.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--version", "-version", "-V":
			return true
		}
	}
	return false
}

// PrintVersion writes the version banner to out.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "factcalc %s (commit %s, built %s)\n", Version, Commit, BuildDate)
	fmt.Fprintf(out, "%s %s/%s, %s arithmetic\n", runtime.Version(), runtime.GOOS, runtime.GOARCH, factorial.Backend)
}
