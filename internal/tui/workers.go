package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/factcalc/internal/factorial"
)

// Column widths for the worker table.
const (
	colWidthIndex = 4
	colWidthPct   = 7
	minBarWidth   = 8
)

// WorkersModel shows one progress bar per worker along with the range of
// factors it multiplies.
type WorkersModel struct {
	argument   int64
	ranges     []factorial.Range
	progresses []float64
	offset     int
	width      int
	height     int
}

// NewWorkersModel creates a panel for argument!.
func NewWorkersModel(argument int64) WorkersModel {
	return WorkersModel{argument: argument}
}

// SetWorkers lays out count rows using the same partition the engine uses.
func (w *WorkersModel) SetWorkers(count int) {
	w.ranges = factorial.Partition(w.argument, count)
	w.progresses = make([]float64, len(w.ranges))
	w.offset = 0
}

// UpdateProgress records the progress of worker i. Unknown indices are ignored.
func (w *WorkersModel) UpdateProgress(i int, value float64) {
	if i < 0 || i >= len(w.progresses) {
		return
	}
	w.progresses[i] = min(max(value, 0), 1)
}

// Count returns the number of workers displayed.
func (w WorkersModel) Count() int { return len(w.ranges) }

// Reset clears all rows.
func (w *WorkersModel) Reset() {
	w.ranges = nil
	w.progresses = nil
	w.offset = 0
}

// SetSize updates dimensions.
func (w *WorkersModel) SetSize(width, height int) {
	w.width = width
	w.height = height
	w.clampOffset()
}

// visibleRows is the number of rows that fit below the title line.
func (w WorkersModel) visibleRows() int {
	return max(w.height-3, 1)
}

// ScrollUp moves the view up by n rows.
func (w *WorkersModel) ScrollUp(n int) {
	w.offset -= n
	w.clampOffset()
}

// ScrollDown moves the view down by n rows.
func (w *WorkersModel) ScrollDown(n int) {
	w.offset += n
	w.clampOffset()
}

// PageSize is the scroll amount of a page key.
func (w WorkersModel) PageSize() int { return w.visibleRows() }

func (w *WorkersModel) clampOffset() {
	maxOffset := max(len(w.ranges)-w.visibleRows(), 0)
	w.offset = min(max(w.offset, 0), maxOffset)
}

// rangeWidth returns the width of the widest range label.
func (w WorkersModel) rangeWidth() int {
	width := 0
	for _, r := range w.ranges {
		width = max(width, len(r.String()))
	}
	return width
}

// View renders the worker table.
func (w WorkersModel) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render(fmt.Sprintf(" Workers (%d)", len(w.ranges))))

	if len(w.ranges) == 0 {
		b.WriteString("\n")
		b.WriteString(rangeStyle.Render("  waiting for workers..."))
	}

	rangeWidth := w.rangeWidth()
	barWidth := max(w.width-4-colWidthIndex-rangeWidth-colWidthPct-3, minBarWidth)

	end := min(w.offset+w.visibleRows(), len(w.ranges))
	for i := w.offset; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(w.renderRow(i, rangeWidth, barWidth))
	}

	return panelStyle.
		Width(max(w.width-2, 0)).
		Height(max(w.height-2, 0)).
		Render(b.String())
}

func (w WorkersModel) renderRow(i, rangeWidth, barWidth int) string {
	r := w.ranges[i]
	label := workerLabelStyle.Render(fmt.Sprintf(" %*d", colWidthIndex-1, i))
	rng := rangeStyle.Render(fmt.Sprintf(" %-*s", rangeWidth, r.String()))
	bar := renderBar(w.progresses[i], barWidth, workerBarStyle(i))
	pct := fmt.Sprintf("%*.1f%%", colWidthPct-1, w.progresses[i]*100)
	if r.IsEmpty() {
		pct = fmt.Sprintf("%*s", colWidthPct, "-")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, label, rng, " ", bar, " ", pct)
}

// renderBar renders a bar of exactly width cells.
func renderBar(progress float64, width int, filledStyle lipgloss.Style) string {
	filled := int(min(max(progress, 0), 1) * float64(width))
	return filledStyle.Render(strings.Repeat("█", filled)) +
		chartEmptyStyle.Render(strings.Repeat("░", width-filled))
}
