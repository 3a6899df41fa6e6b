package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/abhisek/quantumsignals/internal/catalog"
)

type countingAwarder struct {
	mu     sync.Mutex
	awards map[catalog.ModuleID]int
	ticked chan catalog.ModuleID
}

func newCountingAwarder() *countingAwarder {
	return &countingAwarder{
		awards: make(map[catalog.ModuleID]int),
		ticked: make(chan catalog.ModuleID, 64),
	}
}

func (a *countingAwarder) AddPoints(_ context.Context, id catalog.ModuleID, amount int) AddResult {
	a.mu.Lock()
	a.awards[id] += amount
	a.mu.Unlock()
	select {
	case a.ticked <- id:
	default:
	}
	return AddResult{Applied: true}
}

func (a *countingAwarder) count(id catalog.ModuleID) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.awards[id]
}

func waitTick(t *testing.T, a *countingAwarder, want catalog.ModuleID) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case id := <-a.ticked:
			if id == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for a tick on %s", want)
		}
	}
}

func TestPointTimer_AwardsWhileRunning(t *testing.T) {
	defer goleak.VerifyNone(t)

	a := newCountingAwarder()
	timer := NewPointTimer(a, 5*time.Millisecond)
	timer.Start("noise-floor")
	waitTick(t, a, "noise-floor")
	waitTick(t, a, "noise-floor")
	timer.Stop()

	if a.count("noise-floor") < 2 {
		t.Errorf("awards = %d, want >= 2", a.count("noise-floor"))
	}
	if _, running := timer.Running(); running {
		t.Error("timer should not be running after Stop")
	}

	after := a.count("noise-floor")
	time.Sleep(20 * time.Millisecond)
	if a.count("noise-floor") != after {
		t.Error("timer awarded points after Stop")
	}
}

func TestPointTimer_StartIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	a := newCountingAwarder()
	timer := NewPointTimer(a, time.Hour)
	timer.Start("noise-floor")
	timer.Start("noise-floor")
	timer.Start("noise-floor")

	id, running := timer.Running()
	if !running || id != "noise-floor" {
		t.Errorf("Running() = %s, %v", id, running)
	}
	timer.Stop()
}

func TestPointTimer_StartOtherModuleReplaces(t *testing.T) {
	defer goleak.VerifyNone(t)

	a := newCountingAwarder()
	timer := NewPointTimer(a, 5*time.Millisecond)
	timer.Start("noise-floor")
	waitTick(t, a, "noise-floor")

	timer.Start("superposition")
	before := a.count("noise-floor")
	waitTick(t, a, "superposition")
	waitTick(t, a, "superposition")

	if a.count("noise-floor") != before {
		t.Error("replaced timer kept awarding the old module")
	}
	if id, _ := timer.Running(); id != "superposition" {
		t.Errorf("Running() = %s, want superposition", id)
	}
	timer.Stop()
}

func TestPointTimer_StopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	timer := NewPointTimer(newCountingAwarder(), 0)
	timer.Stop()
	timer.Stop()
}

func TestPointTimer_DrivesEngine(t *testing.T) {
	defer goleak.VerifyNone(t)

	e, _ := newTestEngine(t)
	done := make(chan struct{})
	var once sync.Once
	e.AddListener(func(s *Snapshot) {
		if s.Modules["noise-floor"].Completed {
			once.Do(func() { close(done) })
		}
	})

	timer := NewPointTimer(e, time.Millisecond)
	timer.Start("noise-floor")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never completed the module")
	}
	timer.Stop()

	if !e.IsUnlocked("superposition") {
		t.Error("timed completion should unlock the successor")
	}
}
