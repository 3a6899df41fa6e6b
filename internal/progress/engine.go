package progress

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/quantumsignals/internal/catalog"
)

// AddResult reports the outcome of AddPoints.
type AddResult struct {
	// Applied is false when the call was ignored (unknown module or
	// non-positive amount).
	Applied      bool
	ModulePoints int
	TotalPoints  int
	// Completed is true only for the call that completed the module.
	Completed bool
	// Unlocked names the successor this call unlocked, if any.
	Unlocked catalog.ModuleID
}

// Engine is the progression state machine. It owns the in-memory snapshot,
// persists it after every mutation and notifies listeners.
type Engine struct {
	mu    sync.Mutex
	cat   *catalog.Catalog
	store *Store
	snap  *Snapshot
	now   func() time.Time

	listeners dispatcher
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine and restores progress from store.
func NewEngine(ctx context.Context, store *Store, opts ...Option) *Engine {
	e := &Engine{
		cat:   store.Catalog(),
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.snap = store.Load(ctx)
	return e
}

// Catalog returns the module catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// AddListener registers fn to receive every updated snapshot, in
// registration order. The returned func unregisters it and is safe to
// call from inside a listener.
func (e *Engine) AddListener(fn Listener) (remove func()) {
	return e.listeners.add(fn)
}

// AddPoints awards amount points to module id. Unknown modules and
// non-positive amounts are ignored.
func (e *Engine) AddPoints(ctx context.Context, id catalog.ModuleID, amount int) AddResult {
	e.mu.Lock()
	st, ok := e.snap.Modules[id]
	if !ok || amount <= 0 {
		res := AddResult{ModulePoints: st.Points, TotalPoints: e.snap.TotalPoints}
		e.mu.Unlock()
		return res
	}

	st.Points += amount
	if st.Points > st.BestScore {
		st.BestScore = st.Points
	}

	res := AddResult{Applied: true}
	if st.Unlocked && !st.Completed && st.Points >= st.RequiredPoints {
		st.Completed = true
		res.Completed = true
	}
	e.snap.Modules[id] = st

	if res.Completed {
		if next, ok := e.cat.Successor(id); ok && e.unlockLocked(next) {
			res.Unlocked = next
		}
		logrus.WithFields(logrus.Fields{
			"module":   id,
			"points":   st.Points,
			"unlocked": res.Unlocked,
		}).Info("Module completed")
	}

	e.commitLocked(ctx)
	res.ModulePoints = st.Points
	res.TotalPoints = e.snap.TotalPoints
	e.mu.Unlock()

	e.listeners.drain()
	return res
}

// ResetModule zeroes the points and completion of one module. Unlock state
// and best score are kept.
func (e *Engine) ResetModule(ctx context.Context, id catalog.ModuleID) {
	e.mutate(ctx, func(s *Snapshot) bool {
		st, ok := s.Modules[id]
		if !ok {
			return false
		}
		st.Points = 0
		st.Completed = false
		s.Modules[id] = st
		return true
	})
}

// ResetAll restores first-run progress.
func (e *Engine) ResetAll(ctx context.Context) {
	e.mutate(ctx, func(s *Snapshot) bool {
		*s = *DefaultSnapshot(e.cat)
		return true
	})
	logrus.Info("All progress reset")
}

// ResetBestScores lowers every best score to the module's current points,
// keeping unlocks and completion.
func (e *Engine) ResetBestScores(ctx context.Context) {
	e.mutate(ctx, func(s *Snapshot) bool {
		for id, st := range s.Modules {
			st.BestScore = st.Points
			s.Modules[id] = st
		}
		return true
	})
}

// SetCurrentModule records the last activated module for resuming a session.
func (e *Engine) SetCurrentModule(ctx context.Context, id catalog.ModuleID) {
	e.mutate(ctx, func(s *Snapshot) bool {
		if !e.cat.Contains(id) {
			return false
		}
		s.CurrentModule = id
		return true
	})
}

// Replace swaps in snap wholesale after reconciling it with the catalog.
func (e *Engine) Replace(ctx context.Context, snap *Snapshot) {
	snap = snap.Clone()
	reconcile(e.cat, snap)
	e.mutate(ctx, func(s *Snapshot) bool {
		*s = *snap
		return true
	})
}

// mutate applies fn under the lock. When fn reports a change the snapshot
// is persisted and listeners are notified.
func (e *Engine) mutate(ctx context.Context, fn func(*Snapshot) bool) {
	e.mu.Lock()
	if !fn(e.snap) {
		e.mu.Unlock()
		return
	}
	e.commitLocked(ctx)
	e.mu.Unlock()

	e.listeners.drain()
}

// unlockLocked opens id and reports whether it was previously locked.
func (e *Engine) unlockLocked(id catalog.ModuleID) bool {
	st, ok := e.snap.Modules[id]
	if !ok || st.Unlocked {
		return false
	}
	st.Unlocked = true
	e.snap.Modules[id] = st
	if id == e.cat.JourneyMarker() {
		e.snap.CompletedJourney = true
	}
	return true
}

// commitLocked recomputes totals, persists and queues a notification.
// Persisting under the lock keeps writes in mutation order.
func (e *Engine) commitLocked(ctx context.Context) {
	e.snap.recomputeTotal()
	e.snap.UpdatedAt = e.now().UTC()
	e.store.Save(ctx, e.snap)
	e.listeners.enqueue(e.snap.Clone())
}

// IsUnlocked reports whether module id is reachable.
func (e *Engine) IsUnlocked(id catalog.ModuleID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap.Modules[id].Unlocked
}

// IsCompleted reports whether module id reached its threshold.
func (e *Engine) IsCompleted(id catalog.ModuleID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap.Modules[id].Completed
}

// TotalPoints returns the sum of all module points.
func (e *Engine) TotalPoints() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap.TotalPoints
}

// ModuleState returns the state of module id.
func (e *Engine) ModuleState(id catalog.ModuleID) (ModuleState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.snap.Modules[id]
	return st, ok
}

// CurrentModule returns the last activated module.
func (e *Engine) CurrentModule() catalog.ModuleID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap.CurrentModule
}

// Snapshot returns a copy of the current progress.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap.Clone()
}
