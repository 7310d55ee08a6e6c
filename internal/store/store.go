// Package store implements SQLite persistence for the inventory
// hierarchy. One store per entity; all timestamps are persisted as Unix
// milliseconds.
package store

import (
	"context"
	"database/sql"
	"time"
)

// querier is the subset of *sql.DB and *sql.Tx the stores run against.
// Stores are normally bound to the pooled DB; bulk restore rebinds them
// to a single transaction via the per-store WithTx methods so a failed
// import rolls back as a whole.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func millis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// millisPtr converts an optional time for binding; nil stays NULL.
func millisPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func fromMillisPtr(ms sql.NullInt64) *time.Time {
	if !ms.Valid {
		return nil
	}
	t := fromMillis(ms.Int64)
	return &t
}
