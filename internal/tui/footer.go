package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/factcalc/internal/factorial"
)

// FooterModel renders key hints and the run status.
type FooterModel struct {
	help    help.Model
	keymap  KeyMap
	paused  bool
	done    bool
	aborted bool
	// ended is set once the outcome of the run is known; kind is valid
	// only then.
	ended bool
	kind  factorial.OutcomeKind
	width int
}

// NewFooterModel creates a footer for the given bindings.
func NewFooterModel(km KeyMap) FooterModel {
	h := help.New()
	h.Styles.ShortKey = titleStyle
	h.Styles.ShortDesc = versionStyle
	h.Styles.ShortSeparator = versionStyle
	return FooterModel{help: h, keymap: km}
}

// SetPaused toggles the paused indicator.
func (f *FooterModel) SetPaused(p bool) { f.paused = p }

// SetDone marks the run as finished.
func (f *FooterModel) SetDone(d bool) { f.done = d }

// SetAborted marks the run as aborted by the user.
func (f *FooterModel) SetAborted(a bool) { f.aborted = a }

// SetOutcome records how the run ended.
func (f *FooterModel) SetOutcome(kind factorial.OutcomeKind) {
	f.ended = true
	f.kind = kind
}

// Reset returns the footer to the running state.
func (f *FooterModel) Reset() {
	f.paused, f.done, f.aborted, f.ended = false, false, false, false
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = max(w-12, 0)
}

// status labels the run. Timeout and abort are terminal outcomes in their
// own right; only a failed computation is shown as an error.
func (f FooterModel) status() string {
	switch {
	case f.aborted:
		return statusPausedStyle.Render("ABORTED")
	case f.ended:
		switch f.kind {
		case factorial.KindTimeout:
			return statusPausedStyle.Render("TIMEOUT")
		case factorial.KindAborted:
			return statusPausedStyle.Render("ABORTED")
		case factorial.KindFailed:
			return statusErrorStyle.Render("ERROR")
		}
		return statusDoneStyle.Render("DONE")
	case f.done:
		return statusDoneStyle.Render("DONE")
	case f.paused:
		return statusPausedStyle.Render("PAUSED")
	default:
		return statusRunningStyle.Render("RUNNING")
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	hints := f.help.ShortHelpView(f.keymap.ShortHelp())
	status := f.status()
	gap := f.width - lipgloss.Width(hints) - lipgloss.Width(status) - 2
	if gap < 1 {
		return " " + status
	}
	return " " + hints + strings.Repeat(" ", gap) + status + " "
}
