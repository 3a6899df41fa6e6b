package telemetry

import (
	"context"
	"sync"
	"time"
)

// Stats are the global usage totals.
type Stats struct {
	TotalSignals      int64 `json:"totalSignals"`
	TotalObservations int64 `json:"totalObservations"`
	TotalInteractions int64 `json:"totalInteractions"`
	UniqueVisitors    int64 `json:"uniqueVisitors"`
	// Uptime is whole seconds since the tracker started.
	Uptime int64 `json:"uptime"`
}

// StatsReader reports the global totals.
type StatsReader interface {
	Stats(ctx context.Context) (Stats, error)
}

// Tracker aggregates events into Stats.
type Tracker interface {
	Track(ctx context.Context, e Event) error
	StatsReader
}

// MemoryTracker keeps totals in process memory.
type MemoryTracker struct {
	mu       sync.Mutex
	counts   map[Kind]int64
	visitors map[string]struct{}
	started  time.Time
	now      func() time.Time
}

// NewMemoryTracker creates an empty tracker started now.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{
		counts:   make(map[Kind]int64),
		visitors: make(map[string]struct{}),
		started:  time.Now(),
		now:      time.Now,
	}
}

func (m *MemoryTracker) Track(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.VisitorID != "" {
		m.visitors[e.VisitorID] = struct{}{}
	}
	if _, ok := ParseKind(string(e.Kind)); ok {
		m.counts[e.Kind]++
	}
	return nil
}

func (m *MemoryTracker) Stats(context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		TotalSignals:      m.counts[KindSignal],
		TotalObservations: m.counts[KindObservation],
		TotalInteractions: m.counts[KindInteraction],
		UniqueVisitors:    int64(len(m.visitors)),
		Uptime:            int64(m.now().Sub(m.started) / time.Second),
	}, nil
}

// TrackerRecorder records events into a Tracker on behalf of one visitor.
type TrackerRecorder struct {
	tracker   Tracker
	visitorID string
	log       func(error)
}

// NewTrackerRecorder creates a recorder writing to t as visitorID.
func NewTrackerRecorder(t Tracker, visitorID string) *TrackerRecorder {
	return &TrackerRecorder{tracker: t, visitorID: visitorID, log: logTrackError}
}

func (r *TrackerRecorder) RecordEvent(ctx context.Context, kind Kind) {
	err := r.tracker.Track(ctx, Event{Kind: kind, VisitorID: r.visitorID, At: time.Now().UTC()})
	if err != nil {
		r.log(err)
	}
}
