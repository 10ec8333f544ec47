package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/factcalc/internal/config"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/ui"
)

// PrintExecutionConfig displays the computation about to run: argument,
// timeout and host environment.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Computing %s%d!%s with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), cfg.N, ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, %s arithmetic.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset(), factorial.Backend)
}

// PrintExecutionMode displays the strategy and the number of workers.
func PrintExecutionMode(strategy factorial.Strategy, workers int, out io.Writer) {
	var modeDesc string
	if workers > 1 {
		modeDesc = fmt.Sprintf("Parallel computation on %s%d%s workers (%s%s%s strategy)",
			ui.ColorCyan(), workers, ui.ColorReset(), ui.ColorGreen(), strategy, ui.ColorReset())
	} else {
		modeDesc = "Sequential computation on a single worker"
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
