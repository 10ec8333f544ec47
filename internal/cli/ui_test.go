package cli

import (
	"bytes"
	"io"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"
	"github.com/golang/mock/gomock"

	"github.com/agbru/factcalc/internal/cli/mocks"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/orchestration"
	"github.com/agbru/factcalc/internal/progress"
	"github.com/agbru/factcalc/internal/ui"
)

// Tests in this file swap the package-level spinner factory or the global
// theme and therefore do not run in parallel.

func TestDisplayResult(t *testing.T) {
	ui.InitTheme(true)
	t.Cleanup(func() { ui.InitTheme(false) })

	big200 := new(big.Int).Exp(big.NewInt(10), big.NewInt(200), nil)
	tests := []struct {
		name        string
		value       *big.Int
		opts        orchestration.PresentationOptions
		contains    []string
		notContains []string
	}{
		{
			name:     "Details only",
			value:    big.NewInt(12345),
			opts:     orchestration.PresentationOptions{Details: true},
			contains: []string{"Result binary size:", "Detailed result analysis", "Calculation time", "Number of digits", "Memory Stats"},
		},
		{
			name:     "ShowValue Output",
			value:    big.NewInt(12345),
			opts:     orchestration.PresentationOptions{ShowValue: true},
			contains: []string{"Calculated value", "10! =", "12,345"},
		},
		{
			name:     "Truncated Output",
			value:    big200,
			opts:     orchestration.PresentationOptions{ShowValue: true},
			contains: []string{"(truncated)", "Tip: use"},
		},
		{
			name:        "Verbose Output",
			value:       big200,
			opts:        orchestration.PresentationOptions{ShowValue: true, Verbose: true},
			contains:    []string{"10! ="},
			notContains: []string{"(truncated)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			report := orchestration.Report{Outcome: factorial.Outcome{
				Kind: factorial.KindFactorial, Value: tt.value, Argument: 10, Workers: 2, Elapsed: time.Millisecond,
			}}
			DisplayResult(report, tt.opts, &buf)
			output := buf.String()
			for _, s := range tt.contains {
				if !strings.Contains(output, s) {
					t.Errorf("Expected output to contain %q, but got:\n%s", s, output)
				}
			}
			for _, s := range tt.notContains {
				if strings.Contains(output, s) {
					t.Errorf("Expected output not to contain %q, but got:\n%s", s, output)
				}
			}
		})
	}
}

func TestRealSpinner(t *testing.T) {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(io.Discard))
	rs := &realSpinner{s}

	rs.Start()
	rs.UpdateSuffix(" test")
	rs.Stop()
}

func TestDisplayProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockS := mocks.NewMockSpinner(ctrl)

	gomock.InOrder(
		mockS.EXPECT().UpdateSuffix(gomock.Any()),
		mockS.EXPECT().Start(),
	)
	var lastSuffix string
	mockS.EXPECT().UpdateSuffix(gomock.Any()).Do(func(s string) { lastSuffix = s }).MinTimes(1)
	mockS.EXPECT().Stop()

	originalNewSpinner := newSpinner
	defer func() { newSpinner = originalNewSpinner }()
	newSpinner = func(...spinner.Option) Spinner { return mockS }

	progressChan := make(chan progress.ProgressUpdate)
	go func() {
		progressChan <- progress.ProgressUpdate{WorkerIndex: 0, Value: 0.5}
		progressChan <- progress.ProgressUpdate{WorkerIndex: 1, Value: 1}
		close(progressChan)
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, progressChan, 2, io.Discard)
	wg.Wait()

	if !strings.Contains(lastSuffix, "75.00%") {
		t.Errorf("final suffix = %q, want the 75%% average", lastSuffix)
	}
	if !strings.Contains(lastSuffix, "2 workers") {
		t.Errorf("final suffix = %q, want the worker count", lastSuffix)
	}
}

func TestDisplayProgress_ZeroWorkers(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockS := mocks.NewMockSpinner(ctrl) // no calls expected

	originalNewSpinner := newSpinner
	defer func() { newSpinner = originalNewSpinner }()
	newSpinner = func(...spinner.Option) Spinner { return mockS }

	var wg sync.WaitGroup
	wg.Add(1)
	progressChan := make(chan progress.ProgressUpdate, 1)
	progressChan <- progress.ProgressUpdate{Value: 0.3}
	close(progressChan)

	DisplayProgress(&wg, progressChan, 0, io.Discard)
	wg.Wait()
}

func TestCLIColorProvider(t *testing.T) {
	ui.SetTheme("dark")
	t.Cleanup(func() { ui.InitTheme(false) })
	p := CLIColorProvider{}
	if p.Red() != ui.DarkTheme.Error || p.Yellow() != ui.DarkTheme.Warning || p.Reset() != ui.DarkTheme.Reset {
		t.Error("CLIColorProvider should expose the active theme")
	}
}
