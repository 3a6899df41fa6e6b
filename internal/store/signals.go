package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quantumsignals/internal/signal"
	"github.com/abhisek/quantumsignals/internal/signallog"
)

// SignalRepo is a signallog.Store backed by the signals table. It keeps
// the newest retention rows and prunes the rest on append.
type SignalRepo struct {
	db        *sql.DB
	retention int
}

var _ signallog.Store = (*SignalRepo)(nil)

func newSignalRepo(db *sql.DB, retention int) *SignalRepo {
	if retention <= 0 {
		retention = signallog.DefaultRetention
	}
	return &SignalRepo{db: db, retention: retention}
}

func (r *SignalRepo) Append(ctx context.Context, e signallog.Entry) (signallog.Entry, error) {
	e, err := e.Normalize()
	if err != nil {
		return e, err
	}
	if e.Timestamp == 0 {
		e.Timestamp = time.Now().UnixMilli()
	}

	query, args := builder().Insert(signalsTable.Name).
		Columns("hash", "pattern", "timestamp").
		Values(e.Hash, e.Pattern.String(), e.Timestamp).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return e, fmt.Errorf("insert signal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return e, fmt.Errorf("signal id: %w", err)
	}
	e.ID = strconv.FormatInt(id, 10)

	if err := r.prune(ctx); err != nil {
		return e, err
	}
	return e, nil
}

func (r *SignalRepo) ListRecent(ctx context.Context, limit int) ([]signallog.Entry, error) {
	if limit <= 0 || limit > r.retention {
		limit = r.retention
	}

	b := builder()
	query, args := b.Select("id", "hash", "pattern", "timestamp").
		From(b.Table(signalsTable.Name)).
		OrderBy(entsql.Desc("id")).
		Limit(limit).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	entries := []signallog.Entry{}
	for rows.Next() {
		var (
			id      int64
			e       signallog.Entry
			pattern string
		)
		if err := rows.Scan(&id, &e.Hash, &pattern, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		e.ID = strconv.FormatInt(id, 10)
		if e.Pattern, err = signal.ParsePattern(pattern); err != nil {
			return nil, fmt.Errorf("signal %d: %w", id, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SignalRepo) Count(ctx context.Context) (int, error) {
	b := builder()
	query, args := b.Select(entsql.Count("*")).
		From(b.Table(signalsTable.Name)).
		Query()

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count signals: %w", err)
	}
	return n, nil
}

// prune deletes all but the newest retention signals.
func (r *SignalRepo) prune(ctx context.Context) error {
	// Find the ID threshold: the newest row past the retention window.
	b := builder()
	query, args := b.Select("id").
		From(b.Table(signalsTable.Name)).
		OrderBy(entsql.Desc("id")).
		Offset(r.retention).
		Limit(1).
		Query()

	var threshold int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // fewer than retention signals exist
	}
	if err != nil {
		return fmt.Errorf("query signals for prune: %w", err)
	}

	query, args = builder().Delete(signalsTable.Name).
		Where(entsql.LTE("id", threshold)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune signals: %w", err)
	}
	return nil
}
