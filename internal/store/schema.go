package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions in the shape ent's migrate package expects.
var (
	kvColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "key", Type: field.TypeString, Unique: true},
		{Name: "value", Type: field.TypeString, Size: 2147483647},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	kvTable = &schema.Table{
		Name:       "kv_entries",
		Columns:    kvColumns,
		PrimaryKey: []*schema.Column{kvColumns[0]},
	}

	signalsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "hash", Type: field.TypeString},
		{Name: "pattern", Type: field.TypeString, Size: 2147483647},
		{Name: "timestamp", Type: field.TypeInt64},
	}
	signalsTable = &schema.Table{
		Name:       "signals",
		Columns:    signalsColumns,
		PrimaryKey: []*schema.Column{signalsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "signal_timestamp", Columns: []*schema.Column{signalsColumns[3]}},
		},
	}

	eventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "kind", Type: field.TypeString},
		{Name: "visitor_id", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeInt64},
	}
	eventsTable = &schema.Table{
		Name:       "usage_events",
		Columns:    eventsColumns,
		PrimaryKey: []*schema.Column{eventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "usageevent_kind", Columns: []*schema.Column{eventsColumns[2]}},
			{Name: "usageevent_visitor_id", Columns: []*schema.Column{eventsColumns[3]}},
		},
	}

	sequencesColumns = []*schema.Column{
		{Name: "stream", Type: field.TypeString},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	sequencesTable = &schema.Table{
		Name:       "sequences",
		Columns:    sequencesColumns,
		PrimaryKey: []*schema.Column{sequencesColumns[0]},
	}

	tables = []*schema.Table{kvTable, signalsTable, eventsTable, sequencesTable}
)

// migrate creates or updates all tables.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	return m.Create(ctx, tables...)
}

// builder returns an ent SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}
