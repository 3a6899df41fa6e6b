package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette for oscilloscope phosphor on a dark terminal
var (
	Primary   = lipgloss.Color("#00F0FF") // Quantum Cyan
	Secondary = lipgloss.Color("#7C3AED") // Violet
	Accent    = lipgloss.Color("#FF6B35") // Signal Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#E2E8F0") // Off White
	TextDim   = lipgloss.Color("#64748B") // Slate
	BgDark    = lipgloss.Color("#05070D") // Void
	BgCard    = lipgloss.Color("#0F172A") // Deep Navy
	Border    = lipgloss.Color("#1E3A4C") // Dim Cyan
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	HashText = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)
)

// Module states
var (
	Locked = lipgloss.NewStyle().
		Foreground(TextDim)

	Unlocked = lipgloss.NewStyle().
			Foreground(Primary)

	Completed = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	Selected = lipgloss.NewStyle().
			Foreground(BgDark).
			Background(Primary).
			Bold(true)
)

// Grid cells
var (
	CellOn = lipgloss.NewStyle().
		Foreground(Primary)

	CellOff = lipgloss.NewStyle().
		Foreground(Border)

	CellCursor = lipgloss.NewStyle().
			Foreground(BgDark).
			Background(Accent)

	CellTouched = lipgloss.NewStyle().
			Foreground(Accent)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Primary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)
