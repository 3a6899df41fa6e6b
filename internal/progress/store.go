package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/quantumsignals/internal/catalog"
)

// StorageKey is the single key progress is persisted under.
const StorageKey = "quantumSignals_progress"

// ErrInvalidSnapshot is returned when snapshot JSON fails to parse or
// does not match the snapshot schema.
var ErrInvalidSnapshot = errors.New("invalid progress snapshot")

// KV is the key-value persistence collaborator.
type KV interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Store loads and saves snapshots through a KV. It never fails a caller:
// reads fall back to defaults and write failures are logged.
type Store struct {
	kv  KV
	cat *catalog.Catalog
	log *logrus.Entry
}

// NewStore creates a Store over kv for the modules in cat.
func NewStore(kv KV, cat *catalog.Catalog) *Store {
	return &Store{
		kv:  kv,
		cat: cat,
		log: logrus.WithField("component", "progress-store"),
	}
}

// Catalog returns the catalog snapshots are reconciled against.
func (s *Store) Catalog() *catalog.Catalog { return s.cat }

// Load returns the persisted snapshot, or the default snapshot when
// nothing is stored or the stored value is unusable.
func (s *Store) Load(ctx context.Context) *Snapshot {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.log.WithError(err).Warn("Error loading progress, using defaults")
		return DefaultSnapshot(s.cat)
	}
	if !ok || raw == "" {
		s.log.Debug("No saved progress found, using defaults")
		return DefaultSnapshot(s.cat)
	}

	snap, err := s.decode([]byte(raw))
	if err != nil {
		s.log.WithError(err).Warn("Discarding malformed progress, using defaults")
		return DefaultSnapshot(s.cat)
	}
	return snap
}

// Save persists snap. Failures are logged and swallowed; the caller's
// in-memory snapshot stays authoritative.
func (s *Store) Save(ctx context.Context, snap *Snapshot) {
	if err := s.write(ctx, snap); err != nil {
		s.log.WithError(err).Error("Error saving progress")
	}
}

func (s *Store) write(ctx context.Context, snap *Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, string(b)); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (s *Store) decode(raw []byte) (*Snapshot, error) {
	snap, err := decodeSnapshot(raw)
	if err != nil {
		return nil, err
	}
	if repaired := reconcile(s.cat, snap); len(repaired) > 0 {
		s.log.WithField("fields", repaired).Info("Reconciled progress with catalog")
	}
	return snap, nil
}
