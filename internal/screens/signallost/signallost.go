// Package signallost is the closing scene: the observer's signal fades out.
package signallost

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quantumsignals/internal/observe"
	"github.com/abhisek/quantumsignals/internal/progress"
	"github.com/abhisek/quantumsignals/internal/router"
	"github.com/abhisek/quantumsignals/internal/screen"
	"github.com/abhisek/quantumsignals/internal/ui/layout"
	"github.com/abhisek/quantumsignals/internal/ui/theme"
)

// PlaceholderHash is shown when no signal was observed this session.
const PlaceholderHash = "Signal-#000000"

const (
	fadeIn       = 500 * time.Millisecond
	scanlinesOn  = 2 * time.Second
	tickInterval = 100 * time.Millisecond
)

type tickMsg struct{}

// SignalLostScreen shows the final hash and the journey summary.
type SignalLostScreen struct {
	visit   *screen.Visit
	session *observe.Session
	elapsed time.Duration
}

var _ screen.Screen = (*SignalLostScreen)(nil)

// New creates the closing screen. session may be nil.
func New(visit *screen.Visit, session *observe.Session) *SignalLostScreen {
	return &SignalLostScreen{visit: visit, session: session}
}

func (s *SignalLostScreen) Init() tea.Cmd {
	s.visit.Enter()
	return tick()
}

// Stop ends the visit.
func (s *SignalLostScreen) Stop() {
	s.visit.Leave()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// Hash returns the observed signal's hash or the placeholder.
func (s *SignalLostScreen) Hash() string {
	if s.session != nil {
		if sig, ok := s.session.Result(); ok {
			return sig.Hash
		}
	}
	return PlaceholderHash
}

func (s *SignalLostScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if s.elapsed >= scanlinesOn {
			return s, nil
		}
		s.elapsed += tickInterval
		return s, tick()

	case tea.KeyPressMsg:
		if msg.String() == "r" {
			// Restart clears the observation, not the earned progress.
			if s.session != nil {
				s.session.Reset()
			}
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SignalLostScreen) View(width, height int) string {
	var sections []string
	sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("SIGNAL_LOST"))

	if s.elapsed >= fadeIn {
		sum := progress.Summarize(s.visit.Engine().Snapshot())
		sections = append(sections,
			"",
			theme.Body.Render("Your observation left a mark on the record:"),
			"",
			theme.HashText.Render(s.Hash()),
			"",
			theme.Hint.Render(fmt.Sprintf("%d points · %d/%d modules complete",
				sum.TotalPoints, sum.CompletedModules, sum.TotalModules)),
		)
		if m := s.visit.Module(); m.Interaction != "" {
			sections = append(sections, "", theme.Hint.Render(m.Interaction))
		}
	}

	content := strings.Join(sections, "\n")
	if s.elapsed >= scanlinesOn {
		content = scanlines(content)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// scanlines dims every other line.
func scanlines(content string) string {
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i += 2 {
		if lines[i] == "" {
			lines[i] = theme.CellOff.Render("╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌")
		}
	}
	return strings.Join(lines, "\n")
}

func (s *SignalLostScreen) Title() string {
	return s.visit.Module().Title
}

func (s *SignalLostScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "r", Description: "Restart"},
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
