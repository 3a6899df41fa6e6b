// Package collapse is the observation screen: tiles are touched while the
// grid is in superposition, then a single observation fixes the pattern.
package collapse

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quantumsignals/internal/observe"
	"github.com/abhisek/quantumsignals/internal/screen"
	"github.com/abhisek/quantumsignals/internal/signal"
	"github.com/abhisek/quantumsignals/internal/ui/components"
	"github.com/abhisek/quantumsignals/internal/ui/layout"
	"github.com/abhisek/quantumsignals/internal/ui/theme"
)

const observeTimeout = 10 * time.Second

type observedMsg struct {
	signal    signal.Signal
	first     bool
	published bool
}

// CollapseScreen drives an observe.Session from the keyboard.
type CollapseScreen struct {
	visit     *screen.Visit
	session   *observe.Session
	cursor    int
	touched   map[int]bool
	observing bool
	showInfo  bool
	flash     string
}

var _ screen.Screen = (*CollapseScreen)(nil)

// New creates a CollapseScreen over session. The session outlives the
// screen so the observed signal stays available to later modules.
func New(visit *screen.Visit, session *observe.Session) *CollapseScreen {
	return &CollapseScreen{
		visit:   visit,
		session: session,
		touched: make(map[int]bool),
	}
}

func (c *CollapseScreen) Init() tea.Cmd {
	c.visit.Enter()
	for _, tile := range c.session.Interactions() {
		c.touched[tile] = true
	}
	return nil
}

// Stop ends the visit.
func (c *CollapseScreen) Stop() {
	c.visit.Leave()
}

func (c *CollapseScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case observedMsg:
		c.observing = false
		switch {
		case !msg.first:
		case msg.published:
			c.flash = "SIGNAL_TRANSMITTED · " + msg.signal.Hash
		default:
			c.flash = "GALLERY_UNREACHABLE · SIGNAL KEPT LOCALLY"
		}
		return c, nil

	case tea.KeyPressMsg:
		return c, c.handleKey(msg.String())
	}
	return c, nil
}

func (c *CollapseScreen) handleKey(key string) tea.Cmd {
	size := c.session.Size()
	row, col := c.cursor/size, c.cursor%size

	switch key {
	case "up", "k":
		row = max(row-1, 0)
	case "down", "j":
		row = min(row+1, size-1)
	case "left", "h":
		col = max(col-1, 0)
	case "right", "l":
		col = min(col+1, size-1)
	case "space", " ":
		if c.session.Touch(context.Background(), c.cursor) {
			c.touched[c.cursor] = true
			if res := c.visit.Award(1); res.Completed {
				c.flash = screen.CompletionFlash(c.visit.Engine().Catalog(), res)
			}
		}
		return nil
	case "enter", "o":
		return c.observe()
	case "r":
		c.session.Reset()
		clear(c.touched)
		c.flash = ""
		return nil
	case "i":
		c.showInfo = !c.showInfo
		return nil
	default:
		return nil
	}
	c.cursor = row*size + col
	return nil
}

func (c *CollapseScreen) observe() tea.Cmd {
	if c.observing || c.session.Collapsed() {
		return nil
	}
	c.observing = true
	session := c.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), observeTimeout)
		defer cancel()
		sig, first := session.Observe(ctx)
		return observedMsg{signal: sig, first: first, published: session.Published()}
	}
}

func (c *CollapseScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	sig, collapsed := c.session.Result()
	sections := []string{c.renderGrid(sig.Pattern, collapsed)}

	var status string
	switch {
	case collapsed:
		status = theme.HashText.Render(sig.Hash) + theme.Hint.Render(fmt.Sprintf("  %d/%d cells on", sig.Pattern.Ones(), len(sig.Pattern)))
	case c.observing:
		status = theme.Hint.Render("OBSERVING...")
	default:
		status = theme.Unlocked.Render("SUPERPOSITION") + theme.Hint.Render(fmt.Sprintf("  %d interactions", len(c.session.Interactions())))
	}
	sections = append(sections, status)

	if c.flash != "" {
		sections = append(sections, theme.Completed.Render(c.flash))
	}
	sections = append(sections, components.ModulePanel(c.visit.Module(), c.visit.State(), cw, c.showInfo))

	return components.Frame(strings.Join(sections, "\n"), width, height)
}

// renderGrid draws two grid rows per text line with half-block glyphs.
func (c *CollapseScreen) renderGrid(p signal.Pattern, collapsed bool) string {
	size := c.session.Size()
	on := func(r, col int) bool {
		i := r*size + col
		return r < size && i < len(p) && p[i] == 1
	}

	var lines []string
	for r := 0; r < size; r += 2 {
		var b strings.Builder
		for col := 0; col < size; col++ {
			if collapsed {
				b.WriteString(theme.CellOn.Render(halfBlock(on(r, col), on(r+1, col))))
				continue
			}
			top, bottom := r*size+col, (r+1)*size+col
			switch {
			case c.cursor == top || (r+1 < size && c.cursor == bottom):
				b.WriteString(theme.CellCursor.Render("▒"))
			case c.touched[top] || (r+1 < size && c.touched[bottom]):
				b.WriteString(theme.CellTouched.Render("▓"))
			default:
				b.WriteString(theme.CellOff.Render("░"))
			}
		}
		lines = append(lines, b.String())
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func halfBlock(top, bottom bool) string {
	switch {
	case top && bottom:
		return "█"
	case top:
		return "▀"
	case bottom:
		return "▄"
	default:
		return " "
	}
}

func (c *CollapseScreen) Title() string {
	return c.visit.Module().Title
}

func (c *CollapseScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←↑↓→", Description: "Move"},
		{Key: "Space", Description: "Touch"},
		{Key: "Enter", Description: "Observe"},
		{Key: "r", Description: "Reset"},
		{Key: "Esc", Description: "Back"},
	}
}
