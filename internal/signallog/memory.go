package signallog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process ring of the most recent entries.
type Memory struct {
	mu        sync.Mutex
	entries   []Entry // oldest first
	retention int
}

// NewMemory creates a ring keeping at most retention entries.
func NewMemory(retention int) *Memory {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Memory{retention: retention}
}

func (m *Memory) Append(_ context.Context, e Entry) (Entry, error) {
	e, err := e.Normalize()
	if err != nil {
		return e, err
	}
	e.ID = uuid.NewString()
	if e.Timestamp == 0 {
		e.Timestamp = time.Now().UnixMilli()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	if over := len(m.entries) - m.retention; over > 0 {
		m.entries = append(m.entries[:0:0], m.entries[over:]...)
	}
	return e, nil
}

func (m *Memory) ListRecent(_ context.Context, limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 || limit > len(m.entries) {
		limit = len(m.entries)
	}
	out := make([]Entry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

func (m *Memory) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries), nil
}
