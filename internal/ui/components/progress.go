package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quantumsignals/internal/ui/theme"
)

// ProgressBar displays a horizontal points bar.
type ProgressBar struct {
	Label    string
	Value    int
	Max      int
	Width    int
	ShowText bool
}

// NewProgressBar creates a bar for value out of max.
func NewProgressBar(label string, value, max, width int) ProgressBar {
	return ProgressBar{
		Label:    label,
		Value:    value,
		Max:      max,
		Width:    width,
		ShowText: true,
	}
}

// Percent returns the filled fraction in [0, 1]. A zero max counts as full.
func (p ProgressBar) Percent() float64 {
	if p.Max <= 0 {
		return 1
	}
	f := float64(p.Value) / float64(p.Max)
	return min(max(f, 0), 1)
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	text := ""
	if p.ShowText {
		text = fmt.Sprintf("  %d/%d", p.Value, p.Max)
	}

	barWidth := p.Width - lipgloss.Width(result) - len(text)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent())
	empty := barWidth - filled

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	if p.ShowText {
		result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(text)
	}
	return result
}
