// Package lesson is the screen for concept modules: time spent and every
// nudge earn points toward the next unlock.
package lesson

import (
	"math/rand/v2"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quantumsignals/internal/screen"
	"github.com/abhisek/quantumsignals/internal/ui/components"
	"github.com/abhisek/quantumsignals/internal/ui/layout"
	"github.com/abhisek/quantumsignals/internal/ui/theme"
)

const (
	noiseInterval = 120 * time.Millisecond
	noiseWidth    = 48
	noiseHeight   = 6
)

var noiseRunes = []rune(" .·:∙*+")

type noiseMsg struct{}

// LessonScreen shows a module's concept over an animated noise field.
type LessonScreen struct {
	visit    *screen.Visit
	showInfo bool
	flash    string
	nudges   int
	noise    []string
	rng      *rand.Rand
}

var _ screen.Screen = (*LessonScreen)(nil)

// New creates a LessonScreen for the visited module.
func New(visit *screen.Visit) *LessonScreen {
	return &LessonScreen{
		visit:    visit,
		showInfo: true,
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
}

func (l *LessonScreen) Init() tea.Cmd {
	l.visit.Enter()
	l.stir()
	return tickNoise()
}

// Stop ends the visit.
func (l *LessonScreen) Stop() {
	l.visit.Leave()
}

func tickNoise() tea.Cmd {
	return tea.Tick(noiseInterval, func(time.Time) tea.Msg { return noiseMsg{} })
}

func (l *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case noiseMsg:
		l.stir()
		return l, tickNoise()

	case screen.ProgressMsg:
		return l, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "space", " ":
			l.nudges++
			l.stir()
			if res := l.visit.Award(1); res.Completed {
				l.flash = screen.CompletionFlash(l.visit.Engine().Catalog(), res)
			}
		case "i":
			l.showInfo = !l.showInfo
		}
	}
	return l, nil
}

// stir redraws the noise field. Each nudge makes the field denser.
func (l *LessonScreen) stir() {
	density := min(len(noiseRunes)-1, 2+l.nudges/5)
	rows := make([]string, noiseHeight)
	for r := range rows {
		var b strings.Builder
		for c := 0; c < noiseWidth; c++ {
			b.WriteRune(noiseRunes[l.rng.IntN(density+1)])
		}
		rows[r] = b.String()
	}
	l.noise = rows
}

func (l *LessonScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	sections := []string{
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Join(l.noise, "\n")),
		components.ModulePanel(l.visit.Module(), l.visit.State(), cw, l.showInfo),
	}
	if l.flash != "" {
		sections = append(sections, theme.Completed.Render(l.flash))
	}
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (l *LessonScreen) Title() string {
	return l.visit.Module().Title
}

func (l *LessonScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Space", Description: "Nudge"},
		{Key: "i", Description: "Info"},
		{Key: "Esc", Description: "Back"},
	}
}
