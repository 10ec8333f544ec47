package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/factcalc/internal/config"
	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/orchestration"
)

func testModel(t *testing.T, n int64) Model {
	t.Helper()
	cfg := config.AppConfig{N: n, Timeout: time.Second, Workers: 4, MinParallel: 20, GCMode: "disabled"}
	m := NewModel(context.Background(), orchestration.Executor{}, cfg, "v1.0.0")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestModel_IgnoresStaleGenerations(t *testing.T) {
	m := testModel(t, 100)
	m.generation = 2

	m, _ = update(t, m, WorkersMsg{Count: 4, Generation: 1})
	if m.workers.Count() != 0 {
		t.Error("workers message from an old generation must be ignored")
	}

	m, _ = update(t, m, WorkersMsg{Count: 4, Generation: 2})
	if m.workers.Count() != 4 {
		t.Fatalf("expected 4 workers, got %d", m.workers.Count())
	}

	m, _ = update(t, m, ProgressMsg{WorkerIndex: 1, Value: 0.5, AverageProgress: 0.125, Generation: 1})
	if m.workers.progresses[1] != 0 {
		t.Error("progress from an old generation must be ignored")
	}

	m, _ = update(t, m, ProgressMsg{WorkerIndex: 1, Value: 0.5, AverageProgress: 0.125, Generation: 2})
	if m.workers.progresses[1] != 0.5 {
		t.Errorf("expected worker 1 at 0.5, got %f", m.workers.progresses[1])
	}
	if m.chart.averageProgress != 0.125 {
		t.Errorf("expected chart average 0.125, got %f", m.chart.averageProgress)
	}

	m, _ = update(t, m, ComputationCompleteMsg{ExitCode: apperrors.ExitErrorTimeout, Generation: 1})
	if m.done {
		t.Error("completion of an old generation must be ignored")
	}
}

func TestModel_PauseFreezesProgress(t *testing.T) {
	m := testModel(t, 100)
	m, _ = update(t, m, WorkersMsg{Count: 2})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if !m.paused {
		t.Fatal("expected the model to be paused")
	}
	m, _ = update(t, m, ProgressMsg{WorkerIndex: 0, Value: 0.9})
	if m.workers.progresses[0] != 0 {
		t.Error("progress must not be applied while paused")
	}
}

func TestModel_CompletionFreezesRun(t *testing.T) {
	m := testModel(t, 10)
	m, _ = update(t, m, ErrorMsg{Err: context.Canceled, Duration: time.Second})
	m, _ = update(t, m, ComputationCompleteMsg{ExitCode: apperrors.ExitErrorCanceled})

	if !m.done {
		t.Fatal("expected the run to be done")
	}
	if m.ExitCode() != apperrors.ExitErrorCanceled {
		t.Errorf("expected exit code %d, got %d", apperrors.ExitErrorCanceled, m.ExitCode())
	}
	if _, cmd := update(t, m, TickMsg(time.Now())); cmd != nil {
		t.Error("sampling must stop once the run is done")
	}
	if view := m.View(); !strings.Contains(view, "ABORTED") || strings.Contains(view, "ERROR") {
		t.Error("expected an aborted run to be labelled ABORTED, not ERROR")
	}
}

func TestModel_FooterLabelsOutcome(t *testing.T) {
	tests := []struct {
		name string
		msg  func(gen uint64) tea.Msg
		code int
		want string
	}{
		{
			name: "factorial",
			msg: func(gen uint64) tea.Msg {
				return OutcomeMsg{Report: orchestration.Report{Outcome: factorial.Outcome{Kind: factorial.KindFactorial}}, Generation: gen}
			},
			code: apperrors.ExitSuccess,
			want: "DONE",
		},
		{
			name: "timeout",
			msg: func(gen uint64) tea.Msg {
				return ErrorMsg{Err: factorial.Outcome{Kind: factorial.KindTimeout}.AsError(time.Millisecond), Generation: gen}
			},
			code: apperrors.ExitErrorTimeout,
			want: "TIMEOUT",
		},
		{
			name: "aborted",
			msg: func(gen uint64) tea.Msg {
				return ErrorMsg{Err: factorial.Outcome{Kind: factorial.KindAborted}.AsError(time.Second), Generation: gen}
			},
			code: apperrors.ExitErrorCanceled,
			want: "ABORTED",
		},
		{
			name: "failed",
			msg: func(gen uint64) tea.Msg {
				return ErrorMsg{Err: factorial.Outcome{Kind: factorial.KindFailed, Err: errors.New("boom")}.AsError(time.Second), Generation: gen}
			},
			code: apperrors.ExitErrorGeneric,
			want: "ERROR",
		},
	}
	labels := []string{"DONE", "TIMEOUT", "ABORTED", "ERROR", "RUNNING"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(t, 10)
			m, _ = update(t, m, tt.msg(m.generation))
			m, _ = update(t, m, ComputationCompleteMsg{ExitCode: tt.code, Generation: m.generation})

			status := m.footer.status()
			if !strings.Contains(status, tt.want) {
				t.Errorf("footer status = %q, want %s", status, tt.want)
			}
			for _, other := range labels {
				if other != tt.want && strings.Contains(status, other) {
					t.Errorf("footer status = %q, must not contain %s", status, other)
				}
			}
		})
	}
}

func TestModel_ResetClearsOutcomeLabel(t *testing.T) {
	m := testModel(t, 10)
	m.run.set(func() {})
	m, _ = update(t, m, ErrorMsg{Err: factorial.Outcome{Kind: factorial.KindTimeout}.AsError(time.Millisecond)})
	m, _ = update(t, m, ComputationCompleteMsg{ExitCode: apperrors.ExitErrorTimeout})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	defer m.run.stop()
	if status := m.footer.status(); !strings.Contains(status, "RUNNING") {
		t.Errorf("footer status after restart = %q, want RUNNING", status)
	}
}

func TestModel_AbortCancelsRun(t *testing.T) {
	m := testModel(t, 10)
	cancelled := false
	m.run.set(func() { cancelled = true })

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if cmd != nil {
		t.Error("abort must not quit the dashboard")
	}
	if !cancelled {
		t.Error("expected abort to cancel the running computation")
	}
	if !m.aborted {
		t.Error("expected the model to be marked aborted")
	}
}

func TestModel_ResetStartsNewGeneration(t *testing.T) {
	m := testModel(t, 10)
	cancelled := false
	m.run.set(func() { cancelled = true })
	m, _ = update(t, m, WorkersMsg{Count: 1})
	m, _ = update(t, m, ComputationCompleteMsg{})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	defer m.run.stop()

	if !cancelled {
		t.Error("expected restart to cancel the previous computation")
	}
	if m.generation != 1 {
		t.Errorf("expected generation 1, got %d", m.generation)
	}
	if m.done || m.workers.Count() != 0 || m.outcome.Done() {
		t.Error("expected the dashboard to be cleared")
	}
	if cmd == nil {
		t.Error("expected restart to schedule the new computation")
	}
}

func TestModel_ContextCancelledQuits(t *testing.T) {
	m := testModel(t, 10)
	m, cmd := update(t, m, ContextCancelledMsg{Err: context.Canceled})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.ExitCode() != apperrors.ExitErrorCanceled {
		t.Errorf("expected exit code %d, got %d", apperrors.ExitErrorCanceled, m.ExitCode())
	}
}

func TestModel_View(t *testing.T) {
	m := testModel(t, 1000)
	m, _ = update(t, m, WorkersMsg{Count: 4})

	view := m.View()
	for _, want := range []string{"factcalc v1.0.0", "1,000!", "Workers (4)", "Metrics", "Progress Chart", "Outcome", "RUNNING"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestModel_ViewBeforeResize(t *testing.T) {
	m := NewModel(context.Background(), orchestration.Executor{}, config.AppConfig{N: 5}, "dev")
	if got := m.View(); got != "Initializing..." {
		t.Errorf("expected placeholder, got %q", got)
	}
}

func TestStartComputationCmd(t *testing.T) {
	tests := []struct {
		name    string
		n       int64
		timeout time.Duration
		cancel  bool
		want    int
	}{
		{"success", 25, time.Second, false, apperrors.ExitSuccess},
		{"aborted", 25, time.Second, true, apperrors.ExitErrorCanceled},
		{"invalid", -1, time.Second, false, apperrors.ExitErrorConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancel {
				cancel()
			}
			cfg := config.AppConfig{N: tt.n, Timeout: tt.timeout, Workers: 2, MinParallel: 20, GCMode: "disabled"}
			msg := startComputationCmd(&programRef{}, ctx, orchestration.Executor{}, cfg, 4)()

			done, ok := msg.(ComputationCompleteMsg)
			if !ok {
				t.Fatalf("expected ComputationCompleteMsg, got %T", msg)
			}
			if done.Generation != 4 {
				t.Errorf("expected generation 4, got %d", done.Generation)
			}
			if done.ExitCode != tt.want {
				t.Errorf("expected exit code %d, got %d", tt.want, done.ExitCode)
			}
		})
	}
}
