package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/limbcalc/internal/format"
)

// HeaderModel renders the top bar: title, version, round and elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	round     int
	rounds    int
	width     int
}

// NewHeaderModel creates a header for a session of rounds rounds.
func NewHeaderModel(version string, rounds int) HeaderModel {
	return HeaderModel{startTime: time.Now(), version: version, rounds: rounds}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// SetRound records the round in progress, counted from 1.
func (h *HeaderModel) SetRound(r int) { h.round = r }

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) { h.width = w }

func (h HeaderModel) elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	title := "limbcalc verify"
	if h.version != "" && h.version != "dev" {
		title += " " + h.version
	}
	pipe := dimStyle.Render(" | ")
	row := titleStyle.Render(title) + pipe +
		accentStyle.Render(fmt.Sprintf("Round %d/%d", h.round, h.rounds)) + pipe +
		accentStyle.Render("Elapsed: "+format.FormatExecutionDuration(h.elapsed()))

	if gap := h.width - 2 - lipgloss.Width(row); gap > 0 {
		row += strings.Repeat(" ", gap)
	}
	return headerStyle.Render(row)
}
