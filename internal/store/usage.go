package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quantumsignals/internal/telemetry"
)

// EventRepo stores usage events and aggregates them into stats.
// It implements telemetry.Tracker.
type EventRepo struct {
	db      *sql.DB
	started time.Time
	now     func() time.Time
}

var _ telemetry.Tracker = (*EventRepo)(nil)

// Track appends e with the next value of the usage stream.
func (r *EventRepo) Track(ctx context.Context, e telemetry.Event) error {
	at := e.At
	if at.IsZero() {
		at = r.now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin usage event: %w", err)
	}
	defer tx.Rollback()

	seq, err := nextInStream(ctx, tx, usageStream)
	if err != nil {
		return err
	}
	query, args := builder().Insert(eventsTable.Name).
		Columns("sequence", "kind", "visitor_id", "created_at").
		Values(seq, string(e.Kind), e.VisitorID, at.UnixMilli()).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save usage event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit usage event: %w", err)
	}
	return nil
}

// Stats aggregates all stored events. Uptime counts from when the store
// was opened.
func (r *EventRepo) Stats(ctx context.Context) (telemetry.Stats, error) {
	stats := telemetry.Stats{
		Uptime: int64(r.now().Sub(r.started) / time.Second),
	}

	b := builder()
	query, args := b.Select("kind", entsql.As(entsql.Count("*"), "n")).
		From(b.Table(eventsTable.Name)).
		GroupBy("kind").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return stats, fmt.Errorf("count events: %w", err)
	}
	counts := make(map[telemetry.Kind]int64)
	for rows.Next() {
		var (
			kind string
			n    int64
		)
		if err := rows.Scan(&kind, &n); err != nil {
			rows.Close()
			return stats, fmt.Errorf("scan event count: %w", err)
		}
		counts[telemetry.Kind(kind)] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("count events: %w", err)
	}
	stats.TotalSignals = counts[telemetry.KindSignal]
	stats.TotalObservations = counts[telemetry.KindObservation]
	stats.TotalInteractions = counts[telemetry.KindInteraction]

	b = builder()
	query, args = b.Select(entsql.Count(entsql.Distinct("visitor_id"))).
		From(b.Table(eventsTable.Name)).
		Where(entsql.NEQ("visitor_id", "")).
		Query()
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&stats.UniqueVisitors); err != nil {
		return stats, fmt.Errorf("count visitors: %w", err)
	}
	return stats, nil
}
