package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/format"
)

// OutcomeModel shows the terminal result of the current computation.
type OutcomeModel struct {
	result   *OutcomeMsg
	err      error
	duration time.Duration
	width    int
	height   int
}

// NewOutcomeModel creates an empty outcome panel.
func NewOutcomeModel() OutcomeModel {
	return OutcomeModel{}
}

// SetResult records a successful computation.
func (o *OutcomeModel) SetResult(msg OutcomeMsg) {
	o.result = &msg
	o.err = nil
}

// SetError records a computation that produced no value.
func (o *OutcomeModel) SetError(err error, d time.Duration) {
	o.result = nil
	o.err = err
	o.duration = d
}

// Done reports whether an outcome has been recorded.
func (o OutcomeModel) Done() bool { return o.result != nil || o.err != nil }

// Reset clears the panel for a new run.
func (o *OutcomeModel) Reset() {
	o.result = nil
	o.err = nil
	o.duration = 0
}

// SetSize updates dimensions.
func (o *OutcomeModel) SetSize(w, h int) {
	o.width = w
	o.height = h
}

// View renders the outcome panel.
func (o OutcomeModel) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render(" Outcome"))
	b.WriteString("\n")

	switch {
	case o.result != nil:
		r := o.result.Report.Outcome
		b.WriteString(successStyle.Render(fmt.Sprintf("  %d! computed in %s with %d worker(s)",
			r.Argument, format.FormatExecutionDuration(r.Elapsed), r.Workers)))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  %s %s  %s %s",
			metricLabelStyle.Render("Digits:"),
			metricValueStyle.Render(format.FormatNumberString(fmt.Sprint(o.result.Digits))),
			metricLabelStyle.Render("ID:"),
			metricValueStyle.Render(r.ID)))
		b.WriteString("\n  ")
		b.WriteString(o.result.Preview)
	case o.err != nil:
		msg, style := describeError(o.err)
		b.WriteString(style.Render("  " + msg))
		b.WriteString("\n")
		b.WriteString(metricLabelStyle.Render(fmt.Sprintf("  after %s", format.FormatExecutionDuration(o.duration))))
	default:
		b.WriteString(rangeStyle.Render("  computing..."))
	}

	return panelStyle.
		Width(max(o.width-2, 0)).
		Height(max(o.height-2, 0)).
		Render(b.String())
}

// outcomeKindOf recovers the outcome behind an error produced by
// Outcome.AsError. Anything unrecognised, including request validation
// errors, counts as a failure.
func outcomeKindOf(err error) factorial.OutcomeKind {
	var timeoutErr apperrors.TimeoutError
	switch {
	case errors.As(err, &timeoutErr):
		return factorial.KindTimeout
	case errors.Is(err, context.Canceled):
		return factorial.KindAborted
	default:
		return factorial.KindFailed
	}
}

// describeError maps the errors produced for non-value outcomes back onto
// their fixed messages.
func describeError(err error) (string, lipgloss.Style) {
	switch outcomeKindOf(err) {
	case factorial.KindTimeout:
		return factorial.TimeoutMessage, warningStyle
	case factorial.KindAborted:
		return factorial.AbortedMessage, warningStyle
	}
	var calcErr apperrors.CalculationError
	if errors.As(err, &calcErr) && calcErr.Cause != nil {
		return "Computation failed: " + calcErr.Cause.Error(), errorStyle
	}
	return "Computation failed: " + err.Error(), errorStyle
}
