package orchestration

import (
	"context"
	"errors"
	"io"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/agbru/factcalc/internal/config"
	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/metrics"
	"github.com/agbru/factcalc/internal/progress"
)

// recordingPresenter captures what PresentReport asks it to show.
type recordingPresenter struct {
	presented *Report
	handled   error
}

func (p *recordingPresenter) PresentResult(report Report, _ PresentationOptions, _ io.Writer) {
	p.presented = &report
}

func (p *recordingPresenter) HandleError(err error, _ time.Duration, out io.Writer) int {
	p.handled = err
	return apperrors.HandleCalculationError(err, 0, out, nil)
}

// countingReporter counts the updates it receives.
type countingReporter struct {
	updates atomic.Int64
	workers atomic.Int64
}

func (r *countingReporter) DisplayProgress(wg *sync.WaitGroup, ch <-chan progress.ProgressUpdate, numWorkers int, _ io.Writer) {
	defer wg.Done()
	r.workers.Store(int64(numWorkers))
	for range ch {
		r.updates.Add(1)
	}
}

func testConfig(n int64, timeout time.Duration) config.AppConfig {
	return config.AppConfig{N: n, Timeout: timeout, Workers: 4, MinParallel: 20, GCMode: "disabled"}
}

func TestExecutor_Execute(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		n        int64
		timeout  time.Duration
		wantKind factorial.OutcomeKind
		want     string
	}{
		{"zero", 0, time.Second, factorial.KindFactorial, "1"},
		{"sequential", 10, time.Second, factorial.KindFactorial, "3628800"},
		{"parallel", 25, time.Second, factorial.KindFactorial, "15511210043330985984000000"},
		{"timeout", 2_000_000, time.Millisecond, factorial.KindTimeout, factorial.TimeoutMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			report, err := Executor{}.Execute(context.Background(), testConfig(tt.n, tt.timeout), io.Discard)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if report.Outcome.Kind != tt.wantKind {
				t.Fatalf("kind = %v, want %v", report.Outcome.Kind, tt.wantKind)
			}
			if got := report.Outcome.String(); got != tt.want {
				t.Errorf("outcome = %q, want %q", got, tt.want)
			}
			if report.Timeout != tt.timeout {
				t.Errorf("report timeout = %v, want %v", report.Timeout, tt.timeout)
			}
		})
	}
}

func TestExecutor_RejectsInvalidRequest(t *testing.T) {
	t.Parallel()
	rec := metrics.NewRecorder()
	_, err := Executor{Recorder: rec}.Execute(context.Background(), testConfig(-1, time.Second), io.Discard)
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("error = %v, want ErrInvalidArgument", err)
	}
	expected := `
# HELP factcalc_computations_total Factorial computations by terminal outcome.
# TYPE factcalc_computations_total counter
factcalc_computations_total{outcome="aborted"} 0
factcalc_computations_total{outcome="factorial"} 0
factcalc_computations_total{outcome="failed"} 0
factcalc_computations_total{outcome="timeout"} 0
`
	if err := testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected), "factcalc_computations_total"); err != nil {
		t.Error(err)
	}
}

func TestExecutor_RecordsMetrics(t *testing.T) {
	t.Parallel()
	rec := metrics.NewRecorder()
	x := Executor{Recorder: rec}
	if _, err := x.Execute(context.Background(), testConfig(30, time.Second), io.Discard); err != nil {
		t.Fatal(err)
	}
	expected := `
# HELP factcalc_computations_total Factorial computations by terminal outcome.
# TYPE factcalc_computations_total counter
factcalc_computations_total{outcome="aborted"} 0
factcalc_computations_total{outcome="factorial"} 1
factcalc_computations_total{outcome="failed"} 0
factcalc_computations_total{outcome="timeout"} 0
# HELP factcalc_computations_in_flight Computations currently running.
# TYPE factcalc_computations_in_flight gauge
factcalc_computations_in_flight 0
`
	if err := testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected),
		"factcalc_computations_total", "factcalc_computations_in_flight"); err != nil {
		t.Error(err)
	}
}

func TestExecutor_ReportsProgress(t *testing.T) {
	t.Parallel()
	reporter := &countingReporter{}
	var observed atomic.Int64
	x := Executor{
		Reporter: reporter,
		Observers: []progress.ProgressObserver{observerFunc(func(int, float64) {
			observed.Add(1)
		})},
	}
	report, err := x.Execute(context.Background(), testConfig(2000, time.Second), io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if report.Outcome.Kind != factorial.KindFactorial {
		t.Fatalf("kind = %v, want factorial", report.Outcome.Kind)
	}
	if got := reporter.workers.Load(); got != 4 {
		t.Errorf("reporter saw %d workers, want 4", got)
	}
	if reporter.updates.Load() == 0 {
		t.Error("reporter received no progress updates")
	}
	if observed.Load() == 0 {
		t.Error("extra observer received no progress updates")
	}
}

type observerFunc func(int, float64)

func (f observerFunc) Update(i int, p float64) { f(i, p) }

func TestExecutor_Abort(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := Executor{}.Execute(ctx, testConfig(2_000_000, 10*time.Second), io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if report.Outcome.Kind != factorial.KindAborted {
		t.Errorf("kind = %v, want aborted", report.Outcome.Kind)
	}
}

func TestPresentReport(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		outcome   factorial.Outcome
		wantCode  int
		presented bool
	}{
		{"factorial", factorial.Outcome{Kind: factorial.KindFactorial, Value: big.NewInt(120)}, apperrors.ExitSuccess, true},
		{"timeout", factorial.Outcome{Kind: factorial.KindTimeout}, apperrors.ExitErrorTimeout, false},
		{"aborted", factorial.Outcome{Kind: factorial.KindAborted}, apperrors.ExitErrorCanceled, false},
		{"failed", factorial.Outcome{Kind: factorial.KindFailed, Err: errors.New("boom")}, apperrors.ExitErrorGeneric, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &recordingPresenter{}
			code := PresentReport(Report{Outcome: tt.outcome, Timeout: time.Second}, PresentationOptions{}, p, io.Discard)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if (p.presented != nil) != tt.presented {
				t.Errorf("presented = %v, want %v", p.presented != nil, tt.presented)
			}
			if !tt.presented && p.handled == nil {
				t.Error("HandleError should receive the outcome error")
			}
			if got := ExitCode(tt.outcome); got != tt.wantCode {
				t.Errorf("ExitCode() = %d, want %d", got, tt.wantCode)
			}
		})
	}
}
