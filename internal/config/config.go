// Package config parses the factcalc command line and environment into an
// AppConfig.
package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/factorial/memory"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "FACTCALC_"

const (
	// DefaultN is the argument computed when -n is not given.
	DefaultN int64 = 1000
	// DefaultTimeout applies when no timeout, or a zero timeout, is given.
	DefaultTimeout = time.Second
	// DefaultMaxTimeout caps any requested timeout.
	DefaultMaxTimeout = time.Minute
	// DefaultMaxArgument is the largest argument the HTTP server accepts.
	DefaultMaxArgument int64 = 100_000
)

// AppConfig is the resolved application configuration.
type AppConfig struct {
	N           int64
	Timeout     time.Duration
	MaxTimeout  time.Duration
	Workers     int
	MinParallel int
	Strategy    string
	GCMode      string

	Quiet       bool
	Verbose     bool
	Details     bool
	ShowValue   bool
	NoColor     bool
	OutputFile  string
	MetricsFile string

	TUI         bool
	REPL        bool
	Serve       string
	MaxArgument int64
}

// ParseConfig parses args (without the program name) into an AppConfig.
// Precedence is command-line flags, then FACTCALC_* variables, then defaults.
// Flag errors, including -h, are returned as-is so callers can detect
// flag.ErrHelp; semantic problems are returned as ConfigError.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	cfg := AppConfig{}
	fs.Int64Var(&cfg.N, "n", DefaultN, "Factorial argument N (computes N!).")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Computation deadline (e.g. 500ms, 2s). Zero selects the default.")
	fs.DurationVar(&cfg.MaxTimeout, "max-timeout", DefaultMaxTimeout, "Upper bound applied to any requested timeout.")
	fs.IntVar(&cfg.Workers, "workers", 0, "Worker count for large arguments (0 = available CPUs).")
	fs.IntVar(&cfg.MinParallel, "min-parallel", factorial.DefaultMinParallelArgument, "Smallest argument split across several workers.")
	fs.StringVar(&cfg.Strategy, "strategy", string(factorial.StrategyStructured), "Concurrency strategy: structured or coordinated.")
	fs.StringVar(&cfg.GCMode, "gc", string(memory.GCModeAuto), "Garbage collector control: auto, aggressive or disabled.")

	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print only the result.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Print the full value and debug logs.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&cfg.Details, "details", false, "Print timing, worker and memory details.")
	fs.BoolVar(&cfg.Details, "d", false, "Shorthand for --details.")
	fs.BoolVar(&cfg.ShowValue, "calculate", false, "Print the computed value.")
	fs.BoolVar(&cfg.ShowValue, "c", false, "Shorthand for --calculate.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&cfg.OutputFile, "output", "", "Write the result to FILE.")
	fs.StringVar(&cfg.OutputFile, "o", "", "Shorthand for --output.")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus metrics in text format to FILE on exit.")

	fs.BoolVar(&cfg.TUI, "tui", false, "Run the interactive dashboard.")
	fs.BoolVar(&cfg.REPL, "repl", false, "Start an interactive session.")
	fs.StringVar(&cfg.Serve, "serve", "", "Serve the HTTP API on ADDR (e.g. :8080).")
	fs.Int64Var(&cfg.MaxArgument, "max-argument", DefaultMaxArgument, "Largest argument accepted by the HTTP API.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %v", fs.Args())
	}

	applyEnvOverrides(&cfg, fs)
	cfg.Timeout = ResolveTimeout(cfg.Timeout, DefaultTimeout, cfg.MaxTimeout)

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate() error {
	switch {
	case c.N < 0:
		return apperrors.NewConfigError("-n must be non-negative, got %d", c.N)
	case c.Timeout <= 0:
		return apperrors.NewConfigError("--timeout must be positive, got %s", c.Timeout)
	case c.MaxTimeout <= 0:
		return apperrors.NewConfigError("--max-timeout must be positive, got %s", c.MaxTimeout)
	case c.Workers < 0:
		return apperrors.NewConfigError("--workers must be non-negative, got %d", c.Workers)
	case c.MinParallel < 0:
		return apperrors.NewConfigError("--min-parallel must be non-negative, got %d", c.MinParallel)
	case c.MaxArgument <= 0:
		return apperrors.NewConfigError("--max-argument must be positive, got %d", c.MaxArgument)
	}
	if _, err := factorial.ParseStrategy(c.Strategy); err != nil {
		return apperrors.NewConfigError("--strategy: %v", err)
	}
	if _, err := memory.ParseGCMode(c.GCMode); err != nil {
		return apperrors.NewConfigError("--gc: %v", err)
	}
	modes := 0
	for _, on := range []bool{c.TUI, c.REPL, c.Serve != ""} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return apperrors.NewConfigError("--tui, --repl and --serve are mutually exclusive")
	}
	return nil
}

// ResolveTimeout applies the timeout policy shared by every front end: a
// zero request falls back to fallback and anything above limit is clamped
// to it. Negative values are returned unchanged so that validation rejects
// them. A non-positive limit disables clamping.
func ResolveTimeout(requested, fallback, limit time.Duration) time.Duration {
	if requested == 0 {
		requested = fallback
	}
	if limit > 0 && requested > limit {
		return limit
	}
	return requested
}

// EngineOptions translates the configuration into engine options.
func (c AppConfig) EngineOptions() []factorial.Option {
	strategy, _ := factorial.ParseStrategy(c.Strategy)
	return []factorial.Option{
		factorial.WithStrategy(strategy),
		factorial.WithWorkers(c.Workers),
		factorial.WithMinParallelArgument(c.MinParallel),
	}
}

func (c AppConfig) String() string {
	return fmt.Sprintf("n=%d timeout=%s strategy=%s workers=%d min-parallel=%d",
		c.N, c.Timeout, c.Strategy, c.Workers, c.MinParallel)
}
