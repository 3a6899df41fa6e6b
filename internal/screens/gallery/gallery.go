// Package gallery lists the signals other observers left behind.
package gallery

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quantumsignals/internal/screen"
	"github.com/abhisek/quantumsignals/internal/signallog"
	"github.com/abhisek/quantumsignals/internal/telemetry"
	"github.com/abhisek/quantumsignals/internal/ui/components"
	"github.com/abhisek/quantumsignals/internal/ui/layout"
	"github.com/abhisek/quantumsignals/internal/ui/theme"
)

const (
	// FetchLimit is how many signals the gallery shows.
	FetchLimit   = 12
	previewSide  = 8
	fetchTimeout = 10 * time.Second
)

type loadedMsg struct {
	entries []signallog.Entry
	stats   *telemetry.Stats
}

// GalleryScreen shows recent signals with an 8x8 preview of the selected one.
type GalleryScreen struct {
	visit    *screen.Visit
	gallery  *signallog.Gallery
	stats    telemetry.StatsReader
	entries  []signallog.Entry
	totals   *telemetry.Stats
	selected int
	loading  bool
	filter   components.TextInput
	now      func() time.Time
}

var _ screen.Screen = (*GalleryScreen)(nil)

// New creates a GalleryScreen. stats may be nil.
func New(visit *screen.Visit, gallery *signallog.Gallery, stats telemetry.StatsReader) *GalleryScreen {
	return &GalleryScreen{
		visit:   visit,
		gallery: gallery,
		stats:   stats,
		filter:  components.NewTextInput("filter by hash", true, 10),
		now:     time.Now,
	}
}

func (g *GalleryScreen) Init() tea.Cmd {
	g.visit.Enter()
	return g.load()
}

// Stop ends the visit.
func (g *GalleryScreen) Stop() {
	g.visit.Leave()
}

// CapturesInput reports whether the filter is taking keystrokes.
func (g *GalleryScreen) CapturesInput() bool {
	return g.filter.Focused()
}

func (g *GalleryScreen) load() tea.Cmd {
	g.loading = true
	gallery, stats := g.gallery, g.stats
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		msg := loadedMsg{entries: gallery.Recent(ctx, FetchLimit)}
		if stats != nil {
			if s, err := stats.Stats(ctx); err == nil {
				msg.stats = &s
			}
		}
		return msg
	}
}

func (g *GalleryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		g.loading = false
		g.entries = msg.entries
		g.totals = msg.stats
		g.selected = 0
		return g, nil

	case tea.KeyPressMsg:
		if g.filter.Focused() {
			switch msg.String() {
			case "esc", "enter":
				g.filter.Blur()
				g.selected = 0
				return g, nil
			}
			var cmd tea.Cmd
			g.filter, cmd = g.filter.Update(msg)
			g.selected = 0
			return g, cmd
		}

		visible := g.visible()
		switch msg.String() {
		case "up", "k":
			g.selected = max(g.selected-1, 0)
		case "down", "j":
			g.selected = min(g.selected+1, max(len(visible)-1, 0))
		case "r":
			if !g.loading {
				return g, g.load()
			}
		case "/":
			return g, g.filter.Focus()
		}
	}
	return g, nil
}

// visible returns the entries matching the filter.
func (g *GalleryScreen) visible() []signallog.Entry {
	q := g.filter.Value()
	if q == "" {
		return g.entries
	}
	var out []signallog.Entry
	for _, e := range g.entries {
		if strings.Contains(strings.ToLower(e.Hash), q) {
			out = append(out, e)
		}
	}
	return out
}

func (g *GalleryScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var sections []string

	if g.totals != nil {
		sections = append(sections, theme.Hint.Render(fmt.Sprintf(
			"SIGNALS: %d   OBSERVATIONS: %d   VISITORS: %d",
			g.totals.TotalSignals, g.totals.TotalObservations, g.totals.UniqueVisitors)))
	}
	if g.filter.Focused() || g.filter.Value() != "" {
		sections = append(sections, g.filter.View())
	}

	visible := g.visible()
	switch {
	case g.loading:
		sections = append(sections, theme.Hint.Render("SCANNING..."))
	case len(visible) == 0:
		sections = append(sections, theme.Locked.Render("NO_SIGNALS_DETECTED"))
	default:
		var list []string
		for i, e := range visible {
			line := fmt.Sprintf("%s  %4s", e.Hash, TimeAgo(g.now(), e.Timestamp))
			if i == g.selected {
				list = append(list, theme.Selected.Render("▸ "+line))
			} else {
				list = append(list, theme.Body.Render("  "+line))
			}
		}
		sel := visible[min(g.selected, len(visible)-1)]
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
			strings.Join(list, "\n"), "    ", Preview(sel.Pattern)))
	}

	sections = append(sections, components.ModulePanel(g.visit.Module(), g.visit.State(), cw, false))
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (g *GalleryScreen) Title() string {
	return g.visit.Module().Title
}

func (g *GalleryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Select"},
		{Key: "/", Description: "Filter"},
		{Key: "r", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}
