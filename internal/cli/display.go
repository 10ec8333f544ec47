package cli

import (
	"fmt"
	"io"

	"github.com/agbru/factcalc/internal/format"
	"github.com/agbru/factcalc/internal/orchestration"
	"github.com/agbru/factcalc/internal/ui"
)

// DisplayResult prints a successful computation: a status line and timing,
// optionally followed by a size analysis (details) and the value itself
// (showValue). Values longer than TruncationLimit digits are shortened unless
// verbose is set.
func DisplayResult(report orchestration.Report, opts orchestration.PresentationOptions, out io.Writer) {
	o := report.Outcome
	fmt.Fprintf(out, "\n%sStatus: Success.%s\n", ui.ColorGreen(), ui.ColorReset())
	fmt.Fprintf(out, "Calculation time: %s%s%s with %s%d%s worker(s).\n",
		ui.ColorYellow(), format.FormatExecutionDuration(o.Elapsed), ui.ColorReset(),
		ui.ColorCyan(), o.Workers, ui.ColorReset())

	value := o.String()
	if opts.Details {
		fmt.Fprintf(out, "\n%s--- Detailed result analysis ---%s\n", ui.ColorBold(), ui.ColorReset())
		fmt.Fprintf(out, "Computation ID:     %s\n", o.ID)
		bits := 0
		if o.Value != nil {
			bits = o.Value.BitLen()
		}
		fmt.Fprintf(out, "Result binary size: %s%s%s bits\n", ui.ColorCyan(), format.FormatNumberString(fmt.Sprint(bits)), ui.ColorReset())
		fmt.Fprintf(out, "Number of digits:   %s%s%s\n", ui.ColorCyan(), format.FormatNumberString(fmt.Sprint(len(value))), ui.ColorReset())
		DisplayMemoryStats(report.Memory, report.GCSuspended, out)
	}

	if !opts.ShowValue {
		return
	}
	fmt.Fprintf(out, "\n%s--- Calculated value ---%s\n", ui.ColorBold(), ui.ColorReset())
	if len(value) > TruncationLimit && !opts.Verbose {
		fmt.Fprintf(out, "%d! = %s%s...%s%s (truncated)\n",
			o.Argument, ui.ColorGreen(), value[:DisplayEdges], value[len(value)-DisplayEdges:], ui.ColorReset())
		fmt.Fprintf(out, "%sTip: use -v to print the full value or -o to save it.%s\n", ui.ColorCyan(), ui.ColorReset())
		return
	}
	fmt.Fprintf(out, "%d! = %s%s%s\n", o.Argument, ui.ColorGreen(), format.FormatNumberString(value), ui.ColorReset())
}
