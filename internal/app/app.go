package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quantumsignals/internal/catalog"
	"github.com/abhisek/quantumsignals/internal/observe"
	"github.com/abhisek/quantumsignals/internal/progress"
	"github.com/abhisek/quantumsignals/internal/router"
	"github.com/abhisek/quantumsignals/internal/screen"
	"github.com/abhisek/quantumsignals/internal/screens/collapse"
	"github.com/abhisek/quantumsignals/internal/screens/gallery"
	"github.com/abhisek/quantumsignals/internal/screens/home"
	"github.com/abhisek/quantumsignals/internal/screens/lesson"
	"github.com/abhisek/quantumsignals/internal/screens/signallost"
	"github.com/abhisek/quantumsignals/internal/screens/welcome"
	"github.com/abhisek/quantumsignals/internal/signallog"
	"github.com/abhisek/quantumsignals/internal/telemetry"
	"github.com/abhisek/quantumsignals/internal/ui/layout"
)

// progressBuffer bounds the snapshots queued between the engine and the UI.
// When the UI falls behind, newer snapshots are dropped; the next one that
// gets through carries the full state.
const progressBuffer = 64

// Options holds the dependencies the TUI is built from.
type Options struct {
	Engine  *progress.Engine
	Timer   *progress.PointTimer
	Session *observe.Session
	Gallery *signallog.Gallery
	Stats   telemetry.StatsReader
	// SkipIntro opens the journey map directly.
	SkipIntro bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	session *observe.Session
	updates <-chan *progress.Snapshot
	points  int
	width   int
	height  int
}

// newAppModel creates the root model; updates feeds engine snapshots.
func newAppModel(opts Options, updates <-chan *progress.Snapshot) AppModel {
	homeFactory := func() screen.Screen {
		return home.New(opts.Engine, Opener(opts))
	}

	var first screen.Screen
	if opts.SkipIntro {
		first = homeFactory()
	} else {
		first = welcome.New(homeFactory)
	}

	return AppModel{
		router:  router.New(first),
		session: opts.Session,
		updates: updates,
		points:  opts.Engine.TotalPoints(),
	}
}

// Opener maps each module kind to its screen.
func Opener(opts Options) home.Opener {
	return func(m catalog.Module) screen.Screen {
		visit := screen.NewVisit(opts.Engine, opts.Timer, m)
		switch m.Presentation() {
		case catalog.KindObservation:
			return collapse.New(visit, opts.Session)
		case catalog.KindGallery:
			return gallery.New(visit, opts.Gallery, opts.Stats)
		case catalog.KindOutro:
			return signallost.New(visit, opts.Session)
		default:
			return lesson.New(visit)
		}
	}
}

// waitForProgress delivers the next engine snapshot as a ProgressMsg.
func waitForProgress(updates <-chan *progress.Snapshot) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return screen.ProgressMsg{Snapshot: snap}
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), waitForProgress(m.updates))
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.session != nil {
			m.session.SetViewport(msg.Width, msg.Height)
		}
		return m, nil

	case screen.ProgressMsg:
		if msg.Snapshot != nil {
			m.points = msg.Snapshot.TotalPoints
		}
		return m, tea.Batch(m.router.Update(msg), waitForProgress(m.updates))

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if ic, ok := m.router.Active().(screen.InputCapturer); ok && ic.CapturesInput() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.points, m.width)
	footer := layout.RenderFooter(m.keyHints(), m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) keyHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	updates := make(chan *progress.Snapshot, progressBuffer)
	remove := opts.Engine.AddListener(func(s *progress.Snapshot) {
		select {
		case updates <- s:
		default:
		}
	})
	defer remove()

	model := newAppModel(opts, updates)
	defer func() {
		model.router.StopAll()
		if opts.Timer != nil {
			opts.Timer.Stop()
		}
	}()

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
