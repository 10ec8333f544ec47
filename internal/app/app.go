// Package app wires configuration, the execution pipeline and the front ends
// (CLI, REPL, TUI, HTTP) into the factcalc application.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/factcalc/internal/cli"
	"github.com/agbru/factcalc/internal/config"
	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/logging"
	"github.com/agbru/factcalc/internal/metrics"
	"github.com/agbru/factcalc/internal/orchestration"
	"github.com/agbru/factcalc/internal/progress"
	"github.com/agbru/factcalc/internal/server"
	"github.com/agbru/factcalc/internal/tui"
	"github.com/agbru/factcalc/internal/ui"
)

// Application represents the factcalc application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer

	logger   *logging.ZerologAdapter
	recorder *metrics.Recorder
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithLogger replaces the default stderr logger.
func WithLogger(l *logging.ZerologAdapter) AppOption {
	return func(a *Application) { a.logger = l }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	programName := "factcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		if !IsHelpError(err) {
			fmt.Fprintf(errWriter, "Error: %v\n", err)
		}
		return nil, err
	}

	app := &Application{Config: cfg, ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.logger == nil {
		app.logger = logging.NewLogger(errWriter, "factcalc")
	}
	app.recorder = metrics.NewRecorder()
	return app, nil
}

// Run executes the application based on the configured mode and returns
// the process exit code. SIGINT and SIGTERM cancel ctx, which aborts any
// computation in flight; the computation deadline itself is owned by the
// engine.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	ui.InitTheme(a.Config.NoColor)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	var code int
	switch {
	case a.Config.TUI:
		code = a.runTUI(ctx)
	case a.Config.REPL:
		code = a.runREPL(ctx, out)
	case a.Config.Serve != "":
		code = a.runServer(ctx)
	default:
		code = a.runCalculate(ctx, out)
	}

	if a.Config.MetricsFile != "" {
		if err := a.recorder.WriteTextfile(a.Config.MetricsFile); err != nil {
			a.logger.Error("failed to write metrics file", err, logging.String("path", a.Config.MetricsFile))
			if code == apperrors.ExitSuccess {
				code = apperrors.ExitErrorGeneric
			}
		}
	}
	return code
}

func (a *Application) executor() orchestration.Executor {
	x := orchestration.Executor{
		Recorder: a.recorder,
		Logger:   a.logger.Zerolog(),
	}
	if a.Config.Verbose {
		x.Observers = []progress.ProgressObserver{progress.NewLoggingObserver(a.logger, 0)}
	}
	return x
}

// runTUI launches the interactive dashboard. Engine logs are discarded so
// they cannot tear the alternate screen.
func (a *Application) runTUI(ctx context.Context) int {
	executor := a.executor()
	executor.Logger = zerolog.Nop()
	executor.Observers = nil
	return tui.Run(ctx, executor, a.Config, Version)
}

func (a *Application) runREPL(ctx context.Context, out io.Writer) int {
	repl := cli.NewREPL(a.Config, a.executor())
	repl.SetOutput(out)
	repl.Start(ctx)
	return apperrors.ExitSuccess
}

// runServer serves the HTTP API until ctx is cancelled.
func (a *Application) runServer(ctx context.Context) int {
	srv := server.New(a.Config, a.executor(), a.recorder, a.logger)
	a.logger.Info("starting HTTP server",
		logging.String("addr", a.Config.Serve),
		logging.String("version", Version),
		logging.Duration("max_timeout", a.Config.MaxTimeout),
	)
	if err := srv.Run(ctx, a.Config.Serve); err != nil {
		a.logger.Error("server stopped", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
