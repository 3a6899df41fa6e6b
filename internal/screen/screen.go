package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quantumsignals/internal/progress"
	"github.com/abhisek/quantumsignals/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// InputCapturer is implemented by screens with text input. While
// CapturesInput is true, Esc goes to the screen instead of navigating back.
type InputCapturer interface {
	CapturesInput() bool
}

// Stopper is implemented by screens that own background work. The router
// calls Stop when the screen leaves the stack.
type Stopper interface {
	Stop()
}

// ProgressMsg carries a snapshot published by the progression engine.
type ProgressMsg struct {
	Snapshot *progress.Snapshot
}
