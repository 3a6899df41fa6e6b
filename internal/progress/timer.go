package progress

import (
	"context"
	"sync"
	"time"

	"github.com/abhisek/quantumsignals/internal/catalog"
)

// Awarder is the part of Engine a PointTimer drives.
type Awarder interface {
	AddPoints(ctx context.Context, id catalog.ModuleID, amount int) AddResult
}

// PointTimer awards points to the active module at a fixed interval.
// At most one ticker goroutine runs at a time.
//
// Start and Stop wait for the previous goroutine to exit, so they must not
// be called from a listener invoked by the timer's own award.
type PointTimer struct {
	awarder  Awarder
	interval time.Duration
	amount   int

	mu     sync.Mutex
	active catalog.ModuleID
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPointTimer creates a timer awarding one point per interval.
func NewPointTimer(a Awarder, interval time.Duration) *PointTimer {
	if interval <= 0 {
		interval = time.Second
	}
	return &PointTimer{awarder: a, interval: interval, amount: 1}
}

// Start begins awarding points to id. Starting the module that is already
// running is a no-op; starting another module replaces the running timer.
func (t *PointTimer) Start(id catalog.ModuleID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil && t.active == id {
		return
	}
	t.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	t.active = id
	t.cancel = cancel
	t.done = done

	go t.run(ctx, id, done)
}

// Stop cancels the running timer, if any, and waits for it to exit.
func (t *PointTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Running returns the module being awarded and whether a timer is active.
func (t *PointTimer) Running() (catalog.ModuleID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active, t.cancel != nil
}

func (t *PointTimer) stopLocked() {
	if t.cancel == nil {
		return
	}
	t.cancel()
	<-t.done
	t.cancel = nil
	t.done = nil
	t.active = ""
}

func (t *PointTimer) run(ctx context.Context, id catalog.ModuleID, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.awarder.AddPoints(ctx, id, t.amount)
		}
	}
}
