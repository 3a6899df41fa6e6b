package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/abhisek/quantumsignals/internal/catalog"
	"github.com/abhisek/quantumsignals/internal/progress"
	"github.com/abhisek/quantumsignals/internal/signal"
	"github.com/abhisek/quantumsignals/internal/signallog"
	"github.com/abhisek/quantumsignals/internal/telemetry"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here. It is tested with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileDatabaseUsesWAL(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatal(err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"kv_entries", "signals", "usage_events", "sequences"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestMigrationIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		s.Close()
	}
}

func TestKVGetSet(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = %v, %v", ok, err)
	}

	if err := kv.Set(ctx, "k", "one"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "k", "two"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	v, ok, err := kv.Get(ctx, "k")
	if err != nil || !ok || v != "two" {
		t.Fatalf("Get(k) = %q, %v, %v; want two", v, ok, err)
	}

	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "k"); ok {
		t.Error("key should be gone after delete")
	}
}

func TestKVBacksProgressRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	cat := catalog.Default()

	e := progress.NewEngine(ctx, progress.NewStore(s.KV(), cat))
	e.AddPoints(ctx, "noise-floor", 10)
	e.AddPoints(ctx, "superposition", 3)
	e.SetCurrentModule(ctx, "superposition")

	loaded := progress.NewStore(s.KV(), cat).Load(ctx)
	if diff := cmp.Diff(e.Snapshot(), loaded); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestSignalsAppendAndList(t *testing.T) {
	s := openTestStore(t)
	repo := s.Signals(10)
	ctx := context.Background()

	first, err := repo.Append(ctx, signallog.Entry{Hash: "Signal-#000001", Pattern: signal.Pattern{1, 0, 0, 1}, Timestamp: 100})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if first.ID == "" {
		t.Error("expected an assigned ID")
	}
	if _, err := repo.Append(ctx, signallog.Entry{Hash: "Signal-#000002", Pattern: signal.Pattern{0, 1}}); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := repo.ListRecent(ctx, 5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Hash != "Signal-#000002" || got[1].Hash != "Signal-#000001" {
		t.Errorf("order = %s, %s; want newest first", got[0].Hash, got[1].Hash)
	}
	if diff := cmp.Diff(signal.Pattern{1, 0, 0, 1}, got[1].Pattern); diff != "" {
		t.Errorf("pattern mismatch:\n%s", diff)
	}
	if got[1].Timestamp != 100 || got[0].Timestamp == 0 {
		t.Errorf("timestamps = %d, %d", got[1].Timestamp, got[0].Timestamp)
	}
}

func TestSignalsRetention(t *testing.T) {
	s := openTestStore(t)
	repo := s.Signals(5)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		if _, err := repo.Append(ctx, signallog.Entry{Hash: fmt.Sprintf("h%d", i), Pattern: signal.Pattern{1}}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 5 {
		t.Errorf("count = %d, want 5", n)
	}

	got, _ := repo.ListRecent(ctx, 0)
	if len(got) != 5 || got[0].Hash != "h7" || got[4].Hash != "h3" {
		t.Errorf("unexpected retained signals: %+v", got)
	}
}

func TestSignalsRejectInvalid(t *testing.T) {
	s := openTestStore(t)
	repo := s.Signals(0)
	if _, err := repo.Append(context.Background(), signallog.Entry{Hash: "x"}); err == nil {
		t.Fatal("expected error for missing pattern")
	}
	if n, _ := repo.Count(context.Background()); n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}

func TestSignalsBackGallery(t *testing.T) {
	s := openTestStore(t)
	g := signallog.NewGallery(s.Signals(0))
	ctx := context.Background()

	sig := signal.NewGenerator(signal.WithGridSize(4)).Observe([]int{1, 2, 3})
	if !g.Publish(ctx, sig) {
		t.Fatal("publish failed")
	}
	got := g.Recent(ctx, 12)
	if len(got) != 1 || got[0].Hash != sig.Hash {
		t.Fatalf("recent = %+v", got)
	}
	if diff := cmp.Diff(sig.Pattern, got[0].Pattern); diff != "" {
		t.Errorf("pattern mismatch:\n%s", diff)
	}
}

func TestEventsStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.Events()
	ctx := context.Background()
	repo.now = func() time.Time { return repo.started.Add(42 * time.Second) }

	events := []telemetry.Event{
		{Kind: telemetry.KindSignal, VisitorID: "v_a"},
		{Kind: telemetry.KindObservation, VisitorID: "v_a"},
		{Kind: telemetry.KindObservation, VisitorID: "v_b"},
		{Kind: telemetry.KindInteraction},
		{Kind: "unknown", VisitorID: "v_c"},
	}
	for _, e := range events {
		if err := repo.Track(ctx, e); err != nil {
			t.Fatalf("track: %v", err)
		}
	}

	got, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := telemetry.Stats{
		TotalSignals:      1,
		TotalObservations: 2,
		TotalInteractions: 1,
		UniqueVisitors:    3,
		Uptime:            42,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestEventsSequenceIsMonotonic(t *testing.T) {
	s := openTestStore(t)
	repo := s.Events()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Track(ctx, telemetry.Event{Kind: telemetry.KindInteraction}); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := s.DB().Query("SELECT sequence FROM usage_events ORDER BY id")
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()
	var seqs []int64
	for rows.Next() {
		var seq int64
		if err := rows.Scan(&seq); err != nil {
			t.Fatal(err)
		}
		seqs = append(seqs, seq)
	}
	if diff := cmp.Diff([]int64{1, 2, 3}, seqs); diff != "" {
		t.Errorf("sequence mismatch:\n%s", diff)
	}
}

func TestStreamSequence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	next := func(stream string) int64 {
		t.Helper()
		tx, err := s.DB().BeginTx(ctx, nil)
		if err != nil {
			t.Fatal(err)
		}
		defer tx.Rollback()
		n, err := nextInStream(ctx, tx, stream)
		if err != nil {
			t.Fatal(err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatal(err)
		}
		return n
	}

	if err := ensureStream(ctx, s.DB(), "other"); err != nil {
		t.Fatal(err)
	}
	for i := int64(1); i <= 3; i++ {
		if got := next("other"); got != i {
			t.Errorf("other[%d] = %d", i, got)
		}
	}
	// Streams advance independently and reseeding does not rewind.
	if err := ensureStream(ctx, s.DB(), "other"); err != nil {
		t.Fatal(err)
	}
	if got := next("other"); got != 4 {
		t.Errorf("after reseed = %d, want 4", got)
	}
	if got := next(usageStream); got != 1 {
		t.Errorf("usage stream = %d, want 1", got)
	}
}

func TestStreamSequenceRollsBackWithCaller(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tx, err := s.DB().BeginTx(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := nextInStream(ctx, tx, usageStream); err != nil {
		t.Fatal(err)
	}
	tx.Rollback()

	if err := s.Events().Track(ctx, telemetry.Event{Kind: telemetry.KindSignal}); err != nil {
		t.Fatal(err)
	}
	var seq int64
	if err := s.DB().QueryRow("SELECT sequence FROM usage_events").Scan(&seq); err != nil {
		t.Fatal(err)
	}
	if seq != 1 {
		t.Errorf("sequence = %d, want 1 after rolled back bump", seq)
	}
}

func TestStreamSequenceUnknownStream(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	tx, err := s.DB().BeginTx(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer tx.Rollback()
	if _, err := nextInStream(ctx, tx, "missing"); err == nil {
		t.Error("expected error for an unseeded stream")
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("QSIGNALS_DB", filepath.Join(dir, "custom", "db.sqlite"))
	p, err := DefaultDBPath()
	if err != nil || p != filepath.Join(dir, "custom", "db.sqlite") {
		t.Errorf("DefaultDBPath() = %q, %v", p, err)
	}

	t.Setenv("QSIGNALS_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil || p != filepath.Join(dir, "qsignals", "qsignals.db") {
		t.Errorf("DefaultDBPath() = %q, %v", p, err)
	}
}
