package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quantumsignals/internal/catalog"
	"github.com/abhisek/quantumsignals/internal/progress"
	"github.com/abhisek/quantumsignals/internal/ui/theme"
)

// StatusGlyph returns the bra-ket marker for a module status.
func StatusGlyph(s progress.Status) string {
	switch s {
	case progress.StatusCompleted:
		return "|1⟩"
	case progress.StatusUnlocked:
		return "⟨ψ|"
	default:
		return " ∅ "
	}
}

// StatusStyle returns the text style for a module status.
func StatusStyle(s progress.Status) lipgloss.Style {
	switch s {
	case progress.StatusCompleted:
		return theme.Completed
	case progress.StatusUnlocked:
		return theme.Unlocked
	default:
		return theme.Locked
	}
}

// ModulePanel renders a module's title, points bar and, when showInfo is
// set, its education copy.
func ModulePanel(m catalog.Module, st progress.ModuleState, cw int, showInfo bool) string {
	var lines []string

	title := StatusStyle(st.Status()).Render(StatusGlyph(st.Status()) + " " + m.Title)
	lines = append(lines, title)
	lines = append(lines, NewProgressBar("", st.Points, st.RequiredPoints, cw-4).View())

	if st.Completed {
		lines = append(lines, theme.Completed.Render("MODULE_COMPLETE"))
	} else if rem := st.Remaining(); rem > 0 {
		lines = append(lines, theme.Hint.Render(fmt.Sprintf("%d points to unlock the next module", rem)))
	}

	if showInfo {
		lines = append(lines, "",
			lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(m.Concept),
			"",
			lipgloss.NewStyle().Width(cw-4).Foreground(theme.Text).Render(m.Explanation),
		)
		if m.Interaction != "" {
			lines = append(lines, "",
				lipgloss.NewStyle().Width(cw-4).Foreground(theme.TextDim).Render("▸ "+m.Interaction))
		}
	}

	return Card(strings.Join(lines, "\n"), cw)
}
