package progress

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/abhisek/quantumsignals/internal/catalog"
)

// memKV is an in-memory KV with failure injection.
type memKV struct {
	mu     sync.Mutex
	data   map[string]string
	sets   int
	getErr error
	setErr error
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.sets++
	return nil
}

func (m *memKV) writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

var errUnavailable = errors.New("storage unavailable")

func newTestEngine(t *testing.T) (*Engine, *memKV) {
	t.Helper()
	kv := newMemKV()
	e := NewEngine(context.Background(), NewStore(kv, catalog.Default()))
	return e, kv
}

// smallCatalog has three modules with thresholds 2, 3, 0.
func smallCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Module{
		{ID: "a", RequiredPoints: 2},
		{ID: "b", RequiredPoints: 3},
		{ID: "c", RequiredPoints: 0},
	}, "")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}
