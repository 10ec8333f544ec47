package app

import (
	"context"
	"fmt"
	"io"

	"github.com/agbru/factcalc/internal/cli"
	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/orchestration"
)

// runCalculate runs a single computation of Config.N! and presents it.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	executor := a.executor()

	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
		executor.Reporter = orchestration.NullProgressReporter{}
	} else {
		executor.Reporter = cli.CLIProgressReporter{}
		cli.PrintExecutionConfig(a.Config, out)
		engine := factorial.New(a.Config.EngineOptions()...)
		cli.PrintExecutionMode(engine.Strategy(), engine.WorkersFor(a.Config.N), out)
	}

	report, err := executor.Execute(ctx, a.Config, progressOut)
	if err != nil {
		return cli.CLIResultPresenter{}.HandleError(err, 0, a.ErrWriter)
	}

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		Details:    a.Config.Details,
		ShowValue:  a.Config.ShowValue,
	}
	code, err := cli.DisplayResultWithConfig(out, report, outputCfg)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		if code == apperrors.ExitSuccess {
			code = apperrors.ExitErrorGeneric
		}
	}
	return code
}
