package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// usageStream numbers rows of usage_events. Row ids can be reused after
// pruning; stream values never are.
const usageStream = "usage_events"

// ensureStream creates the counter row for stream, starting at 1.
func ensureStream(ctx context.Context, db *sql.DB, stream string) error {
	query, args := builder().Insert(sequencesTable.Name).
		Columns("stream", "next_val").
		Values(stream, 1).
		OnConflict(entsql.DoNothing()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("seed sequence %s: %w", stream, err)
	}
	return nil
}

// nextInStream returns the current value of stream and advances it. It must
// run inside tx so the caller's insert commits together with the bump.
func nextInStream(ctx context.Context, tx *sql.Tx, stream string) (int64, error) {
	b := builder()
	query, args := b.Select("next_val").
		From(b.Table(sequencesTable.Name)).
		Where(entsql.EQ("stream", stream)).
		Query()
	var n int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("read sequence %s: %w", stream, err)
	}

	query, args = builder().Update(sequencesTable.Name).
		Set("next_val", n+1).
		Where(entsql.EQ("stream", stream)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("advance sequence %s: %w", stream, err)
	}
	return n, nil
}
