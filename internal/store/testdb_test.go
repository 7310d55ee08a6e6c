package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trovo/internal/db"
	"trovo/internal/domain"
)

// openTestDB opens a per-test in-memory database with the real schema.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// seedSpot creates a room, container, and spot and returns them.
func seedSpot(t *testing.T, d *sql.DB) (*domain.Room, *domain.Container, *domain.Spot) {
	t.Helper()
	ctx := context.Background()

	room, err := NewRoomStore(d).Create(ctx, "Camera da letto", "")
	require.NoError(t, err)
	container, err := NewContainerStore(d).Create(ctx, room.ID, "Armadio grande", domain.ContainerWardrobe, "", false)
	require.NoError(t, err)
	spot, err := NewSpotStore(d).Create(ctx, container.ID, "Cassetto 1", "CAM-ARM-C1", "", false)
	require.NoError(t, err)
	return room, container, spot
}

// tick keeps consecutive writes from landing on the same millisecond so
// recency ordering is deterministic in tests.
func tick() {
	time.Sleep(2 * time.Millisecond)
}
