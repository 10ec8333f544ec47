package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/factcalc/internal/factorial/memory"
	"github.com/agbru/factcalc/internal/format"
)

// twoColumnMinWidth is the panel width from which metrics are laid out
// side by side.
const twoColumnMinWidth = 60

// MetricsModel displays runtime memory and performance metrics.
type MetricsModel struct {
	alloc        uint64
	heapInuse    uint64
	heapSys      uint64
	numGC        uint32
	pauseTotalNs uint64
	numGoroutine int
	speed        float64 // progress per second
	lastProgress float64
	lastUpdate   time.Time
	argument     int64
	width        int
	height       int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{
		lastUpdate: time.Now(),
	}
}

// SetArgument sets the argument used for the size estimate.
func (m *MetricsModel) SetArgument(n int64) {
	m.argument = n
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateMemStats updates memory statistics.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.heapInuse = msg.HeapInuse
	m.heapSys = msg.HeapSys
	m.numGC = msg.NumGC
	m.pauseTotalNs = msg.PauseTotalNs
	m.numGoroutine = msg.NumGoroutine
}

// UpdateProgress updates the speed metric.
func (m *MetricsModel) UpdateProgress(progress float64) {
	now := time.Now()
	dt := now.Sub(m.lastUpdate).Seconds()
	if dt > 0.05 {
		dp := progress - m.lastProgress
		if dp > 0 {
			instantSpeed := dp / dt
			if m.speed > 0 {
				m.speed = 0.7*m.speed + 0.3*instantSpeed
			} else {
				m.speed = instantSpeed
			}
		}
		m.lastProgress = progress
		m.lastUpdate = now
	}
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	cells := []string{
		formatMetricCol("Memory:", format.FormatBytes(m.alloc), 0),
		formatMetricCol("Heap:", format.FormatBytes(m.heapInuse)+" / "+format.FormatBytes(m.heapSys), 0),
		formatMetricCol("GC Runs:", fmt.Sprintf("%d (%.1fms)", m.numGC, float64(m.pauseTotalNs)/1e6), 0),
		formatMetricCol("Goroutines:", fmt.Sprintf("%d", m.numGoroutine), 0),
		formatMetricCol("Speed:", fmt.Sprintf("%.1f%%/s", m.speed*100), 0),
	}
	if m.argument > 0 {
		cells = append(cells, formatMetricCol("Est. digits:",
			format.FormatNumberString(fmt.Sprint(memory.EstimateDigits(m.argument))), 0))
	}

	var rows strings.Builder
	rows.WriteString(panelTitleStyle.Render(" Metrics"))

	if m.width >= twoColumnMinWidth {
		colWidth := (m.width - 6) / 2
		for i := 0; i < len(cells); i += 2 {
			rows.WriteString("\n")
			rows.WriteString(padCell(cells[i], colWidth))
			if i+1 < len(cells) {
				rows.WriteString(cells[i+1])
			}
		}
	} else {
		for _, c := range cells {
			rows.WriteString("\n")
			rows.WriteString(c)
		}
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(rows.String())
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-12s", label)),
		metricValueStyle.Render(value))
	return padCell(cell, colWidth)
}

// padCell pads to a fixed column width using lipgloss-aware width.
func padCell(cell string, colWidth int) string {
	visible := lipgloss.Width(cell)
	if visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}
