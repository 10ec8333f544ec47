package tui

import (
	"context"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/factcalc/internal/config"
	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/orchestration"
	"github.com/agbru/factcalc/internal/sysmon"
)

// SampleInterval is the period of the memory and system samplers.
const SampleInterval = 500 * time.Millisecond

// runControl holds the cancel function of the running computation. It is
// shared by pointer because bubbletea copies the model on every Update and
// Init's copy is discarded.
type runControl struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func (r *runControl) set(cancel context.CancelFunc) {
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()
}

// stop cancels the running computation, if any.
func (r *runControl) stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// ExecutionState holds the execution-related fields of a TUI session.
type ExecutionState struct {
	run        *runControl
	generation uint64
	done       bool
	aborted    bool
	exitCode   int
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// Layout constants for the TUI dashboard.
const (
	headerHeight             = 1
	footerHeight             = 1
	minBodyHeight            = 8
	WorkersPanelWidthPercent = 60
	OutcomePanelHeight       = 6
	MetricsPanelHeight       = 9
)

// bodyHeight returns the available height for the main body panels.
func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

// leftWidth returns the width allocated to the workers and outcome panels.
func (l LayoutManager) leftWidth() int {
	return l.width * WorkersPanelWidthPercent / 100
}

// rightWidth returns the width allocated to the right column (metrics + chart).
func (l LayoutManager) rightWidth() int {
	return l.width - l.leftWidth()
}

// outcomeHeight returns the height allocated to the outcome panel.
func (l LayoutManager) outcomeHeight() int {
	return min(OutcomePanelHeight, l.bodyHeight()/2)
}

// workersHeight returns the height allocated to the workers panel.
func (l LayoutManager) workersHeight() int {
	return l.bodyHeight() - l.outcomeHeight()
}

// metricsHeight returns the height allocated to the metrics panel.
func (l LayoutManager) metricsHeight() int {
	return min(MetricsPanelHeight, l.bodyHeight()/2)
}

// chartHeight returns the height allocated to the chart panel.
func (l LayoutManager) chartHeight() int {
	return l.bodyHeight() - l.metricsHeight()
}

// Model is the root bubbletea model for the TUI dashboard.
type Model struct {
	header  HeaderModel
	workers WorkersModel
	outcome OutcomeModel
	metrics MetricsModel
	chart   ChartModel
	footer  FooterModel

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	executor  orchestration.Executor
	config    config.AppConfig
	ref       *programRef
	paused    bool
}

// NewModel creates a new TUI model computing cfg.N! through executor.
func NewModel(parentCtx context.Context, executor orchestration.Executor, cfg config.AppConfig, version string) Model {
	km := DefaultKeyMap()
	metrics := NewMetricsModel()
	metrics.SetArgument(cfg.N)

	return Model{
		header:  NewHeaderModel(version, cfg.N),
		workers: NewWorkersModel(cfg.N),
		outcome: NewOutcomeModel(),
		metrics: metrics,
		chart:   NewChartModel(),
		footer:  NewFooterModel(km),
		keymap:  km,
		ExecutionState: ExecutionState{
			run:      &runControl{},
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		executor:  executor,
		config:    cfg,
		ref:       &programRef{},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.start(),
		watchContextCmd(m.parentCtx),
	)
}

// start launches the computation for the current generation.
func (m Model) start() tea.Cmd {
	ctx, cancel := context.WithCancel(m.parentCtx)
	m.run.set(cancel)
	return startComputationCmd(m.ref, ctx, m.executor, m.config, m.generation)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case WorkersMsg:
		if msg.Generation == m.generation {
			m.workers.SetWorkers(msg.Count)
			m.workers.SetSize(m.leftWidth(), m.workersHeight())
		}
		return m, nil

	case ProgressMsg:
		if msg.Generation == m.generation && !m.paused {
			m.workers.UpdateProgress(msg.WorkerIndex, msg.Value)
			m.chart.AddDataPoint(msg.Value, msg.AverageProgress, msg.ETA)
			m.metrics.UpdateProgress(msg.AverageProgress)
		}
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case OutcomeMsg:
		if msg.Generation == m.generation {
			m.outcome.SetResult(msg)
			m.footer.SetOutcome(factorial.KindFactorial)
		}
		return m, nil

	case ErrorMsg:
		if msg.Generation == m.generation {
			m.outcome.SetError(msg.Err, msg.Duration)
			m.footer.SetOutcome(outcomeKindOf(msg.Err))
		}
		return m, nil

	case ComputationCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from previous computation
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.run.stop()
		m.header.SetDone()
		m.chart.SetDone(m.header.Elapsed())
		m.footer.SetDone(true)
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())
		}
		return m, tickCmd()

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.chart.UpdateSysStats(msg.CPUPercent, msg.MemPercent)
		return m, nil

	case ContextCancelledMsg:
		m.run.stop()
		m.done = true
		m.exitCode = apperrors.ExitErrorCanceled
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.run.stop()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Abort):
		if !m.done {
			m.aborted = true
			m.footer.SetAborted(true)
			m.run.stop()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		m.run.stop()
		wasDone := m.done

		m.generation++
		m.header.Reset()
		m.workers.Reset()
		m.outcome.Reset()
		m.chart.Reset()
		m.metrics = NewMetricsModel()
		m.metrics.SetArgument(m.config.N)
		m.footer.Reset()
		m.done = false
		m.aborted = false
		m.paused = false
		m.exitCode = apperrors.ExitSuccess
		m.layoutPanels()

		cmds := []tea.Cmd{m.start()}
		if wasDone {
			// The sampling loop stops once a run is done.
			cmds = append(cmds, tickCmd())
		}
		return m, tea.Batch(cmds...)

	case key.Matches(msg, m.keymap.Up):
		m.workers.ScrollUp(1)
	case key.Matches(msg, m.keymap.Down):
		m.workers.ScrollDown(1)
	case key.Matches(msg, m.keymap.PageUp):
		m.workers.ScrollUp(m.workers.PageSize())
	case key.Matches(msg, m.keymap.PageDown):
		m.workers.ScrollDown(m.workers.PageSize())
	}

	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	leftCol := lipgloss.JoinVertical(lipgloss.Left, m.workers.View(), m.outcome.View())
	rightCol := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.chart.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, rightCol)

	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.workers.SetSize(m.leftWidth(), m.workersHeight())
	m.outcome.SetSize(m.leftWidth(), m.outcomeHeight())
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
	m.chart.SetSize(m.rightWidth(), m.chartHeight())
}

// ExitCode returns the exit code of the last finished computation.
func (m Model) ExitCode() int { return m.exitCode }

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, executor orchestration.Executor, cfg config.AppConfig, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, executor, cfg, version)

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}

	if m, ok := finalModel.(Model); ok {
		m.run.stop()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startComputationCmd returns a tea.Cmd that runs one computation through
// the executor and presents its report to the dashboard.
func startComputationCmd(ref *programRef, ctx context.Context, executor orchestration.Executor, cfg config.AppConfig, gen uint64) tea.Cmd {
	return func() tea.Msg {
		presenter := &TUIResultPresenter{ref: ref, generation: gen}
		executor.Reporter = &TUIProgressReporter{ref: ref, generation: gen}

		report, err := executor.Execute(ctx, cfg, io.Discard)
		if err != nil {
			return ComputationCompleteMsg{
				ExitCode:   presenter.HandleError(err, 0, io.Discard),
				Generation: gen,
			}
		}
		opts := orchestration.PresentationOptions{
			Verbose:   cfg.Verbose,
			Details:   cfg.Details,
			ShowValue: cfg.ShowValue,
		}
		exitCode := orchestration.PresentReport(report, opts, presenter, io.Discard)
		return ComputationCompleteMsg{ExitCode: exitCode, Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after SampleInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(SampleInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats and returns a MemStatsMsg.
func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return MemStatsMsg{
			Alloc:        ms.Alloc,
			HeapInuse:    ms.HeapInuse,
			HeapSys:      ms.HeapSys,
			NumGC:        ms.NumGC,
			PauseTotalNs: ms.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

// sampleSysStatsCmd reads system-wide CPU and memory stats and returns a SysStatsMsg.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
		}
	}
}

// watchContextCmd waits for the session context to end and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
