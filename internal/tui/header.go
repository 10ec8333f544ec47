package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/format"
)

// HeaderModel renders the top bar: title, argument, elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	argument  int64
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string, argument int64) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		argument:  argument,
	}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	if h.endTime.IsZero() {
		h.endTime = time.Now()
	}
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the running or frozen duration.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "factcalc"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	title := titleStyle.Render(titleText)

	pipe := versionStyle.Render(" | ")
	arg := elapsedStyle.Render(fmt.Sprintf("%s!", format.FormatNumberString(fmt.Sprint(h.argument))))
	backend := versionStyle.Render(factorial.Backend)
	elapsed := elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed())))

	leftPart := title + pipe + arg + pipe + elapsed
	rightPart := backend

	innerWidth := max(h.width-2, 0)
	gap := innerWidth - lipgloss.Width(leftPart) - lipgloss.Width(rightPart)
	if gap < 1 {
		return headerStyle.Width(h.width).Render(leftPart)
	}
	return headerStyle.Width(h.width).Render(leftPart + strings.Repeat(" ", gap) + rightPart)
}
