package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quantumsignals/internal/catalog"
	"github.com/abhisek/quantumsignals/internal/progress"
	"github.com/abhisek/quantumsignals/internal/router"
	"github.com/abhisek/quantumsignals/internal/screen"
	"github.com/abhisek/quantumsignals/internal/ui/components"
	"github.com/abhisek/quantumsignals/internal/ui/layout"
)

// Opener builds the screen for an unlocked module.
type Opener func(m catalog.Module) screen.Screen

// HomeScreen is the journey map: every module with its gating state.
type HomeScreen struct {
	engine *progress.Engine
	open   Opener
	snap   *progress.Snapshot
	menu   components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen selecting the last visited module.
func New(engine *progress.Engine, open Opener) *HomeScreen {
	h := &HomeScreen{engine: engine, open: open}
	h.refresh(engine.Snapshot())
	if i := engine.Catalog().Index(h.snap.CurrentModule); i >= 0 {
		h.menu.Select(i)
	}
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ProgressMsg:
		if msg.Snapshot != nil {
			h.refresh(msg.Snapshot)
		}
		return h, nil

	case tea.KeyPressMsg:
		// Number keys jump straight to an unlocked module.
		if key := msg.String(); len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			i := int(key[0] - '1')
			if i < len(h.menu.Items) && !h.menu.Items[i].Disabled {
				h.menu.Selected = i
				return h, h.menu.Items[i].Action()
			}
			return h, nil
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// refresh rebuilds the menu from snap, keeping the selection.
func (h *HomeScreen) refresh(snap *progress.Snapshot) {
	h.snap = snap
	selected := h.menu.Selected

	modules := h.engine.Catalog().Modules()
	items := make([]components.MenuItem, 0, len(modules))
	for i, m := range modules {
		st, _ := snap.Module(m.ID)
		items = append(items, components.MenuItem{
			Label:    menuLabel(i, m, st),
			Disabled: !st.Unlocked,
			Action:   h.opener(m),
		})
	}

	h.menu = components.Menu{Items: items}
	if selected < len(items) && !items[selected].Disabled {
		h.menu.Selected = selected
	} else {
		h.menu.Select(0)
	}
}

func (h *HomeScreen) opener(m catalog.Module) func() tea.Cmd {
	return func() tea.Cmd {
		if !h.engine.IsUnlocked(m.ID) || h.open == nil {
			return nil
		}
		s := h.open(m)
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: s}
		}
	}
}

func menuLabel(i int, m catalog.Module, st progress.ModuleState) string {
	label := fmt.Sprintf("%d %s %-18s", i+1, components.StatusGlyph(st.Status()), m.Title)
	if st.RequiredPoints > 0 {
		label += fmt.Sprintf(" %3d/%d", st.Points, st.RequiredPoints)
	}
	return label
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height + 8)
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	sections = append(sections, renderStatsBar(progress.Summarize(h.snap), cw))
	sections = append(sections, h.menu.View())

	cat := h.engine.Catalog()
	if m, ok := cat.At(h.menu.Selected); ok && !compact {
		st, _ := h.snap.Module(m.ID)
		sections = append(sections, components.ModulePanel(m, st, cw, false))
	}

	return components.Frame(strings.Join(sections, "\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Journey"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "1-9", Description: "Jump"},
		{Key: "Enter", Description: "Open"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
