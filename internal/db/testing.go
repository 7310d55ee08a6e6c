package db

import (
	"database/sql"
	"fmt"
	"sync/atomic"
)

var testDBSeq atomic.Int64

// OpenForTesting opens a uniquely named in-memory database with the
// schema applied. The shared cache keys on the name, so every pooled
// connection sees the same database; the pool is capped at one
// connection to keep concurrent test writers from tripping over
// sqlite's shared-cache locking.
func OpenForTesting() (*sql.DB, error) {
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", testDBSeq.Add(1))
	d, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open test database: %w", err)
	}
	d.SetMaxOpenConns(1)

	if err := Migrate(d); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}
