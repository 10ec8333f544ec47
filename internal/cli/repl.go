package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/factcalc/internal/config"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/format"
	"github.com/agbru/factcalc/internal/orchestration"
	"github.com/agbru/factcalc/internal/ui"
)

// REPL is an interactive factorial session. Each computation runs under the
// session's current timeout, worker and strategy settings.
type REPL struct {
	cfg      config.AppConfig
	executor orchestration.Executor
	in       io.Reader
	out      io.Writer
}

// NewREPL creates a session starting from cfg. The executor's reporter is
// replaced by the CLI spinner when it is unset.
func NewREPL(cfg config.AppConfig, executor orchestration.Executor) *REPL {
	if executor.Reporter == nil {
		executor.Reporter = CLIProgressReporter{}
	}
	return &REPL{
		cfg:      cfg,
		executor: executor,
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Config returns the current session settings.
func (r *REPL) Config() config.AppConfig { return r.cfg }

// Start reads commands until exit, EOF or cancellation of ctx. Cancelling
// ctx while a computation runs aborts that computation.
func (r *REPL) Start(ctx context.Context) {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for ctx.Err() == nil {
		fmt.Fprint(r.out, ui.ColorGreen()+"fact> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && input != "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !r.processCommand(ctx, input) {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s      %sFactorial Calculator - Interactive Mode%s             %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %scalc <n> [ms]%s    - Compute n! (optional timeout in milliseconds)\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %s<n>%s              - Shortcut for calc <n>\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %stimeout <ms>%s     - Set the timeout (0 restores the default)\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sworkers <k>%s      - Set the worker count (0 = automatic)\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstrategy <name>%s  - Change strategy (%s)\n", ui.ColorYellow(), ui.ColorReset(), strategyList())
	fmt.Fprintf(r.out, "  %sstatus%s           - Display current configuration\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s             - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s      - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

func strategyList() string {
	names := make([]string, len(factorial.Strategies))
	for i, s := range factorial.Strategies {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// processCommand executes one command line. It returns false when the
// session should end.
func (r *REPL) processCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "calc", "c":
		r.cmdCalc(ctx, args)
	case "timeout", "t":
		r.cmdTimeout(args)
	case "workers", "w":
		r.cmdWorkers(args)
	case "strategy", "s":
		r.cmdStrategy(args)
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		if n, err := strconv.ParseInt(cmd, 10, 64); err == nil {
			r.calculate(ctx, n, r.cfg.Timeout)
		} else {
			fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
			fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
		}
	}
	return true
}

func (r *REPL) cmdCalc(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: calc <n> [timeout-ms]%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	timeout := r.cfg.Timeout
	if len(args) > 1 {
		d, ok := r.parseTimeout(args[1])
		if !ok {
			return
		}
		timeout = d
	}
	r.calculate(ctx, n, timeout)
}

// parseTimeout reads a millisecond count and applies the session timeout
// policy: zero selects the default and large values are clamped.
func (r *REPL) parseTimeout(s string) (time.Duration, bool) {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms < 0 {
		fmt.Fprintf(r.out, "%sInvalid timeout: %s (milliseconds, >= 0)%s\n", ui.ColorRed(), s, ui.ColorReset())
		return 0, false
	}
	return config.ResolveTimeout(time.Duration(ms)*time.Millisecond, config.DefaultTimeout, r.cfg.MaxTimeout), true
}

func (r *REPL) calculate(ctx context.Context, n int64, timeout time.Duration) {
	cfg := r.cfg
	cfg.N = n
	cfg.Timeout = timeout

	fmt.Fprintf(r.out, "Computing %s%d!%s within %s%s%s...\n",
		ui.ColorMagenta(), n, ui.ColorReset(), ui.ColorCyan(), timeout, ui.ColorReset())

	report, err := r.executor.Execute(ctx, cfg, r.out)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}

	o := report.Outcome
	if o.Kind != factorial.KindFactorial {
		color := ui.ColorYellow()
		if o.Kind == factorial.KindFailed {
			color = ui.ColorRed()
		}
		fmt.Fprintf(r.out, "\n%s%s%s (after %s)\n\n", color, o.String(), ui.ColorReset(), format.FormatExecutionDuration(o.Elapsed))
		return
	}

	value := o.String()
	fmt.Fprintf(r.out, "\n%sResult:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Time:    %s%s%s\n", ui.ColorGreen(), format.FormatExecutionDuration(o.Elapsed), ui.ColorReset())
	fmt.Fprintf(r.out, "  Workers: %s%d%s\n", ui.ColorCyan(), o.Workers, ui.ColorReset())
	fmt.Fprintf(r.out, "  Digits:  %s%d%s\n", ui.ColorCyan(), len(value), ui.ColorReset())
	if len(value) > TruncationLimit {
		fmt.Fprintf(r.out, "  %d! = %s%s...%s%s (truncated)\n",
			n, ui.ColorGreen(), value[:DisplayEdges], value[len(value)-DisplayEdges:], ui.ColorReset())
	} else {
		fmt.Fprintf(r.out, "  %d! = %s%s%s\n", n, ui.ColorGreen(), value, ui.ColorReset())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdTimeout(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: timeout <ms>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	d, ok := r.parseTimeout(args[0])
	if !ok {
		return
	}
	r.cfg.Timeout = d
	fmt.Fprintf(r.out, "Timeout set to: %s%s%s\n", ui.ColorGreen(), d, ui.ColorReset())
}

func (r *REPL) cmdWorkers(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: workers <k>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	k, err := strconv.Atoi(args[0])
	if err != nil || k < 0 {
		fmt.Fprintf(r.out, "%sInvalid worker count: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	r.cfg.Workers = k
	label := strconv.Itoa(k)
	if k == 0 {
		label = "automatic"
	}
	fmt.Fprintf(r.out, "Workers set to: %s%s%s\n", ui.ColorGreen(), label, ui.ColorReset())
}

func (r *REPL) cmdStrategy(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: strategy <name>%s\n", ui.ColorRed(), ui.ColorReset())
		fmt.Fprintf(r.out, "Available strategies: %s\n", strategyList())
		return
	}
	s, err := factorial.ParseStrategy(strings.ToLower(args[0]))
	if err != nil {
		fmt.Fprintf(r.out, "%sUnknown strategy: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		fmt.Fprintf(r.out, "Available strategies: %s\n", strategyList())
		return
	}
	r.cfg.Strategy = string(s)
	fmt.Fprintf(r.out, "Strategy changed to: %s%s%s\n", ui.ColorGreen(), s, ui.ColorReset())
}

func (r *REPL) cmdStatus() {
	workers := "automatic"
	if r.cfg.Workers > 0 {
		workers = strconv.Itoa(r.cfg.Workers)
	}
	strategy, _ := factorial.ParseStrategy(r.cfg.Strategy)
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:      %s%s%s (max %s)\n", ui.ColorCyan(), r.cfg.Timeout, ui.ColorReset(), r.cfg.MaxTimeout)
	fmt.Fprintf(r.out, "  Workers:      %s%s%s\n", ui.ColorCyan(), workers, ui.ColorReset())
	fmt.Fprintf(r.out, "  Strategy:     %s%s%s\n", ui.ColorCyan(), strategy, ui.ColorReset())
	fmt.Fprintf(r.out, "  Min parallel: %s%d%s\n", ui.ColorCyan(), r.cfg.MinParallel, ui.ColorReset())
	fmt.Fprintln(r.out)
}
