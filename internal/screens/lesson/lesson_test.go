package lesson

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/goleak"

	"github.com/abhisek/quantumsignals/internal/catalog"
	"github.com/abhisek/quantumsignals/internal/progress"
	"github.com/abhisek/quantumsignals/internal/screen"
	"github.com/abhisek/quantumsignals/internal/store"
)

func newTestLesson(t *testing.T, timer bool) (*LessonScreen, *progress.Engine) {
	t.Helper()
	cat := catalog.Default()
	engine := progress.NewEngine(context.Background(), progress.NewStore(store.NewMemoryKV(), cat))
	var pt *progress.PointTimer
	if timer {
		pt = progress.NewPointTimer(engine, time.Hour)
	}
	return New(screen.NewVisit(engine, pt, cat.First())), engine
}

func space() tea.KeyPressMsg { return tea.KeyPressMsg{Code: ' ', Text: " "} }

func TestInitMarksCurrentModule(t *testing.T) {
	l, engine := newTestLesson(t, false)
	engine.SetCurrentModule(context.Background(), "gallery")

	if cmd := l.Init(); cmd == nil {
		t.Error("expected the noise animation to start")
	}
	if got := engine.CurrentModule(); got != "noise-floor" {
		t.Errorf("current module = %q, want noise-floor", got)
	}
}

func TestNudgeAwardsPoint(t *testing.T) {
	l, engine := newTestLesson(t, false)
	l.Init()

	l.Update(space())
	l.Update(space())

	st, _ := engine.ModuleState("noise-floor")
	if st.Points != 2 {
		t.Errorf("points = %d, want 2", st.Points)
	}
}

func TestCompletionFlashNamesUnlockedModule(t *testing.T) {
	l, _ := newTestLesson(t, false)
	l.Init()

	for i := 0; i < 10; i++ {
		l.Update(space())
	}
	if !strings.Contains(l.flash, "SUPERPOSITION UNLOCKED") {
		t.Errorf("flash = %q, want unlock notice", l.flash)
	}
	if !strings.Contains(l.View(100, 30), "MODULE_COMPLETE") {
		t.Error("view should show completion")
	}
}

func TestInfoToggle(t *testing.T) {
	l, _ := newTestLesson(t, false)
	if !l.showInfo {
		t.Fatal("info should be shown by default")
	}
	l.Update(tea.KeyPressMsg{Code: 'i', Text: "i"})
	if l.showInfo {
		t.Error("expected i to hide info")
	}
}

func TestStopEndsTimer(t *testing.T) {
	defer goleak.VerifyNone(t)

	l, _ := newTestLesson(t, true)
	l.Init()
	l.Stop()
}

func TestTitleAndHints(t *testing.T) {
	l, _ := newTestLesson(t, false)
	if l.Title() != "NOISE_FLOOR" {
		t.Errorf("Title = %q", l.Title())
	}
	if len(l.KeyHints()) != 3 {
		t.Errorf("KeyHints length = %d, want 3", len(l.KeyHints()))
	}
}
