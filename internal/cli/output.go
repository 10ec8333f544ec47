// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietResult].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteResultToFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/orchestration"
	"github.com/agbru/factcalc/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// Quiet prints only the outcome string.
	Quiet bool
	// Verbose shows the full result value.
	Verbose bool
	// Details adds the size analysis and memory statistics.
	Details bool
	// ShowValue enables the calculated value display.
	ShowValue bool
}

// WriteResultToFile writes a computed factorial to config.OutputFile. Only
// Factorial outcomes are written; other kinds are ignored.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultToFile(o factorial.Outcome, config OutputConfig) error {
	if config.OutputFile == "" || o.Kind != factorial.KindFactorial {
		return nil
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	value := o.String()
	bits := 0
	if o.Value != nil {
		bits = o.Value.BitLen()
	}
	fmt.Fprintf(file, "# Factorial Computation Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# ID: %s\n", o.ID)
	fmt.Fprintf(file, "# Workers: %d\n", o.Workers)
	fmt.Fprintf(file, "# Duration: %s\n", o.Elapsed)
	fmt.Fprintf(file, "# N: %d\n", o.Argument)
	fmt.Fprintf(file, "# Bits: %d\n", bits)
	fmt.Fprintf(file, "# Digits: %d\n", len(value))
	fmt.Fprintf(file, "\n")
	if _, err := fmt.Fprintf(file, "%d! =\n%s\n", o.Argument, value); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return file.Close()
}

// FormatQuietResult formats an outcome for quiet mode: the decimal value or
// the outcome message, on a single line suitable for scripting.
func FormatQuietResult(o factorial.Outcome) string {
	return o.String()
}

// DisplayQuietResult outputs an outcome in quiet mode.
func DisplayQuietResult(out io.Writer, o factorial.Outcome) {
	fmt.Fprintln(out, FormatQuietResult(o))
}

// DisplayResultWithConfig presents report according to config and returns
// the exit code of its outcome.
//
// Returns:
//   - int: The exit code.
//   - error: An error if file output fails.
func DisplayResultWithConfig(out io.Writer, report orchestration.Report, config OutputConfig) (int, error) {
	var code int
	if config.Quiet {
		DisplayQuietResult(out, report.Outcome)
		code = orchestration.ExitCode(report.Outcome)
	} else {
		opts := orchestration.PresentationOptions{
			Verbose:   config.Verbose,
			Details:   config.Details,
			ShowValue: config.ShowValue,
		}
		code = orchestration.PresentReport(report, opts, CLIResultPresenter{}, out)
	}

	if config.OutputFile != "" && report.Outcome.Kind == factorial.KindFactorial {
		if err := WriteResultToFile(report.Outcome, config); err != nil {
			return code, err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
		}
	}
	return code, nil
}
