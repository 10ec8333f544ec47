package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/factcalc/internal/format"
)

const (
	// sparklineOverhead is the width taken by borders, the label and the
	// percentage around a sparkline.
	sparklineOverhead = 17
	// sparklineMinHeight is the panel height from which the CPU and MEM
	// sparklines are shown.
	sparklineMinHeight = 10
	// progressBarOverhead is the width taken by borders, padding and the
	// percentage around the progress bar.
	progressBarOverhead = 14
	minProgressBarWidth = 5
	historyCapacity     = 512
)

// ChartModel plots average progress over time together with system-wide
// CPU and memory usage.
type ChartModel struct {
	history         *RingBuffer
	cpuHistory      *RingBuffer
	memHistory      *RingBuffer
	averageProgress float64
	eta             time.Duration
	done            bool
	elapsed         time.Duration
	width           int
	height          int
}

// NewChartModel creates an empty chart.
func NewChartModel() ChartModel {
	return ChartModel{
		history:    NewRingBuffer(historyCapacity),
		cpuHistory: NewRingBuffer(1),
		memHistory: NewRingBuffer(1),
	}
}

// SetSize updates dimensions and resizes the sparkline buffers to fit.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
	sparkCap := max(w-sparklineOverhead, 1)
	c.cpuHistory.Resize(sparkCap)
	c.memHistory.Resize(sparkCap)
}

// AddDataPoint records the latest worker value, overall average and ETA.
func (c *ChartModel) AddDataPoint(_ float64, average float64, eta time.Duration) {
	c.averageProgress = average
	c.eta = eta
	c.history.Push(average * 100)
}

// UpdateSysStats records a system-wide CPU and memory sample.
func (c *ChartModel) UpdateSysStats(cpuPercent, memPercent float64) {
	c.cpuHistory.Push(cpuPercent)
	c.memHistory.Push(memPercent)
}

// SetDone freezes the chart with the total elapsed time.
func (c *ChartModel) SetDone(elapsed time.Duration) {
	c.done = true
	c.elapsed = elapsed
}

// Reset clears all history.
func (c *ChartModel) Reset() {
	c.history.Reset()
	c.cpuHistory.Reset()
	c.memHistory.Reset()
	c.averageProgress = 0
	c.eta = 0
	c.done = false
	c.elapsed = 0
}

func (c ChartModel) showSparklines() bool {
	return c.height >= sparklineMinHeight
}

// View renders the chart panel.
func (c ChartModel) View() string {
	var b strings.Builder

	title := panelTitleStyle.Render(" Progress Chart")
	if c.done {
		title += metricLabelStyle.Render("  Done in " + format.FormatExecutionDuration(c.elapsed))
	} else {
		title += metricLabelStyle.Render("  ETA: " + format.FormatETA(c.eta))
	}
	b.WriteString(title)

	rows := c.height - 4
	if c.showSparklines() {
		rows -= 2
	}
	if rows > 0 {
		for _, line := range RenderBrailleChart(c.history.Slice(), max(c.width-4, 1), rows) {
			b.WriteString("\n ")
			b.WriteString(chartBarStyle.Render(line))
		}
	}

	if bar := c.renderProgressBar(); bar != "" {
		b.WriteString("\n")
		b.WriteString(bar)
	}

	if c.showSparklines() {
		b.WriteString("\n")
		b.WriteString(renderSparklineRow("CPU", c.cpuHistory, cpuSparklineStyle.Render))
		b.WriteString("\n")
		b.WriteString(renderSparklineRow("MEM", c.memHistory, memSparklineStyle.Render))
	}

	return panelStyle.
		Width(max(c.width-2, 0)).
		Height(max(c.height-2, 0)).
		Render(b.String())
}

// renderProgressBar renders the overall progress. It returns "" when the
// panel is too narrow.
func (c ChartModel) renderProgressBar() string {
	width := c.width - progressBarOverhead
	if width < minProgressBarWidth {
		return ""
	}
	return "  " + renderBar(c.averageProgress, width, chartBarStyle) +
		fmt.Sprintf(" %5.1f%%", min(max(c.averageProgress, 0), 1)*100)
}

func renderSparklineRow(label string, buf *RingBuffer, render func(...string) string) string {
	return fmt.Sprintf("  %s %s %5.1f%%",
		metricLabelStyle.Render(label),
		render(RenderSparkline(buf.Slice())),
		buf.Last())
}
