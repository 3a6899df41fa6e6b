package progress

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/abhisek/quantumsignals/internal/catalog"
)

func TestStore_RoundTrip(t *testing.T) {
	kv := newMemKV()
	ctx := context.Background()
	e := NewEngine(ctx, NewStore(kv, catalog.Default()))
	e.AddPoints(ctx, "noise-floor", 10)
	e.AddPoints(ctx, "superposition", 4)
	e.ResetModule(ctx, "superposition")
	e.AddPoints(ctx, "superposition", 2)
	e.SetCurrentModule(ctx, "superposition")

	saved := e.Snapshot()
	loaded := NewStore(kv, catalog.Default()).Load(ctx)

	if diff := cmp.Diff(saved, loaded); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestStore_StorageKey(t *testing.T) {
	kv := newMemKV()
	s := NewStore(kv, catalog.Default())
	s.Save(context.Background(), DefaultSnapshot(catalog.Default()))

	raw, ok := kv.data["quantumSignals_progress"]
	if !ok {
		t.Fatal("snapshot not stored under quantumSignals_progress")
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"version", "modules", "totalPoints", "currentModule", "completedJourney", "lastUpdated"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("persisted snapshot missing %q", key)
		}
	}
}

func TestStore_LoadFallsBackToDefaults(t *testing.T) {
	cat := catalog.Default()
	tests := []struct {
		name  string
		setup func(kv *memKV)
	}{
		{"absent", func(kv *memKV) {}},
		{"empty", func(kv *memKV) { kv.data[StorageKey] = "" }},
		{"not json", func(kv *memKV) { kv.data[StorageKey] = "{not json" }},
		{"wrong shape", func(kv *memKV) { kv.data[StorageKey] = `{"modules": 5}` }},
		{"missing modules", func(kv *memKV) { kv.data[StorageKey] = `{"totalPoints": 4}` }},
		{"negative points", func(kv *memKV) {
			kv.data[StorageKey] = `{"modules": {"noise-floor": {"points": -3, "completed": false, "unlocked": true}}}`
		}},
		{"fractional points", func(kv *memKV) {
			kv.data[StorageKey] = `{"modules": {"noise-floor": {"points": 9.5, "completed": false, "unlocked": true}}}`
		}},
		{"bad timestamp", func(kv *memKV) {
			kv.data[StorageKey] = `{"modules": {}, "lastUpdated": "yesterday"}`
		}},
		{"read error", func(kv *memKV) { kv.getErr = errUnavailable }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newMemKV()
			tt.setup(kv)

			got := NewStore(kv, cat).Load(context.Background())
			if diff := cmp.Diff(DefaultSnapshot(cat), got, ignoreUpdatedAt); diff != "" {
				t.Errorf("expected default snapshot (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStore_LoadReconcilesWithCatalog(t *testing.T) {
	kv := newMemKV()
	kv.data[StorageKey] = `{
		"version": "1.0",
		"modules": {
			"noise-floor": {"points": 12, "completed": true, "unlocked": true, "bestScore": 12, "requiredPoints": 1},
			"retired": {"points": 50, "completed": true, "unlocked": true, "bestScore": 50, "requiredPoints": 0}
		},
		"totalPoints": 9999,
		"currentModule": "retired"
	}`

	snap := NewStore(kv, catalog.Default()).Load(context.Background())

	if _, ok := snap.Modules["retired"]; ok {
		t.Error("unknown module should be dropped")
	}
	if len(snap.Modules) != 7 {
		t.Errorf("len(Modules) = %d, want 7", len(snap.Modules))
	}
	if snap.Modules["noise-floor"].RequiredPoints != 10 {
		t.Error("threshold should come from the catalog")
	}
	if !snap.Modules["superposition"].Unlocked {
		t.Error("successor of a completed module should be unlocked")
	}
	if snap.TotalPoints != 12 {
		t.Errorf("TotalPoints = %d, want 12 (recomputed)", snap.TotalPoints)
	}
	if snap.CurrentModule != "noise-floor" {
		t.Errorf("CurrentModule = %s, want noise-floor", snap.CurrentModule)
	}
}

func TestStore_LoadClearsUnearnedCompletion(t *testing.T) {
	kv := newMemKV()
	kv.data[StorageKey] = `{"modules": {"noise-floor": {"points": 2, "completed": true, "unlocked": true}}}`

	snap := NewStore(kv, catalog.Default()).Load(context.Background())
	if snap.Modules["noise-floor"].Completed {
		t.Error("completion below threshold should be cleared")
	}
}

func TestStore_SaveFailureIsLoggedAndSwallowed(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	kv := newMemKV()
	kv.setErr = errUnavailable
	ctx := context.Background()
	e := NewEngine(ctx, NewStore(kv, catalog.Default()))

	res := e.AddPoints(ctx, "noise-floor", 4)
	if !res.Applied || e.TotalPoints() != 4 {
		t.Fatal("in-memory state should stay authoritative when saving fails")
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.ErrorLevel {
		t.Fatalf("expected an error log entry, got %+v", entry)
	}
	if entry.Data[logrus.ErrorKey] == nil {
		t.Error("log entry should carry the write error")
	}
}

func TestEngine_RestoresPersistedProgress(t *testing.T) {
	kv := newMemKV()
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := NewEngine(ctx, NewStore(kv, catalog.Default()), WithClock(func() time.Time { return fixed }))
	first.AddPoints(ctx, "noise-floor", 10)

	second := NewEngine(ctx, NewStore(kv, catalog.Default()))
	if !second.IsCompleted("noise-floor") || !second.IsUnlocked("superposition") {
		t.Error("restored engine should see prior progress")
	}
	if !second.Snapshot().UpdatedAt.Equal(fixed) {
		t.Errorf("UpdatedAt = %v, want %v", second.Snapshot().UpdatedAt, fixed)
	}
}
