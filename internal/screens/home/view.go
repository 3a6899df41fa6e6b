package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quantumsignals/internal/progress"
	"github.com/abhisek/quantumsignals/internal/ui/theme"
)

const titleFull = `╔═╗ ╦ ╦ ╔═╗ ╔╗╔ ╔╦╗ ╦ ╦ ╔╦╗   ╔═╗ ╦ ╔═╗ ╔╗╔ ╔═╗ ╦   ╔═╗
║═╬╗║ ║ ╠═╣ ║║║  ║  ║ ║ ║║║   ╚═╗ ║ ║ ╦ ║║║ ╠═╣ ║   ╚═╗
╚═╝╚╚═╝ ╩ ╩ ╝╚╝  ╩  ╚═╝ ╩ ╩   ╚═╝ ╩ ╚═╝ ╝╚╝ ╩ ╩ ╩═╝ ╚═╝`

const titleCompact = "QUANTUM_SIGNALS"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	text := titleFull
	if compact || cw < lipgloss.Width(titleFull) {
		text = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(text))
}

// renderStatsBar renders points, completion and the journey flag.
func renderStatsBar(s progress.Summary, cw int) string {
	points := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("⭐ %d POINTS", s.TotalPoints))
	done := theme.Completed.
		Render(fmt.Sprintf("|1⟩ %d/%d COMPLETE", s.CompletedModules, s.TotalModules))

	journey := theme.Locked.Render("◌ JOURNEY IN PROGRESS")
	if s.CompletedJourney {
		journey = theme.Unlocked.Render("◉ JOURNEY COMPLETE")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(points + "  " + done + "  " + journey)
}
