package backup

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trovo/internal/db"
	"trovo/internal/domain"
	"trovo/internal/store"
)

func newTestManager(t *testing.T) (*Manager, *sql.DB) {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewManager(
		d,
		store.NewRoomStore(d),
		store.NewContainerStore(d),
		store.NewSpotStore(d),
		store.NewItemStore(d),
		store.NewDocumentStore(d),
		logger,
	)
	return m, d
}

func seedInventory(t *testing.T, m *Manager) {
	t.Helper()
	ctx := context.Background()

	room, err := m.rooms.Create(ctx, "Camera da letto", "bed")
	require.NoError(t, err)
	container, err := m.containers.Create(ctx, room.ID, "Armadio grande", domain.ContainerWardrobe, "", true)
	require.NoError(t, err)
	spot, err := m.spots.Create(ctx, container.ID, "Cassetto 1", "CAM-ARM-C1", "calzini", false)
	require.NoError(t, err)

	lent := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	_, err = m.items.Create(ctx, &domain.Item{
		SpotID: spot.ID, Name: "Trapano", Category: "attrezzi",
		IsLent: true, LentTo: "Marco", LentDate: &lent,
	})
	require.NoError(t, err)

	expiry := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = m.documents.Create(ctx, &domain.Document{
		SpotID: spot.ID, Title: "Passaporto", DocType: "identity",
		Person: "Anna", ExpiryDate: &expiry,
		FilePaths: []string{"scans/passport-1.jpg", "scans/passport-2.jpg"},
	})
	require.NoError(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	src, _ := newTestManager(t)
	ctx := context.Background()
	seedInventory(t, src)

	snapshot, err := src.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, snapshot.SchemaVersion)
	assert.Equal(t, appName, snapshot.AppName)

	// Encode and decode to exercise the wire format, then restore into
	// a fresh database.
	var buf bytes.Buffer
	require.NoError(t, snapshot.Encode(&buf))
	decoded, err := Decode(&buf)
	require.NoError(t, err)

	dst, _ := newTestManager(t)
	stats, err := dst.Import(ctx, decoded)
	require.NoError(t, err)
	assert.Equal(t, &ImportStats{Rooms: 1, Containers: 1, Spots: 1, Items: 1, Documents: 1}, stats)

	want, err := src.Export(ctx)
	require.NoError(t, err)
	got, err := dst.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Data, got.Data)
}

func TestImportReplacesExistingData(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	seedInventory(t, m)

	snapshot, err := m.Export(ctx)
	require.NoError(t, err)

	// Add rows that must disappear after restore.
	extra, err := m.rooms.Create(ctx, "Garage", "")
	require.NoError(t, err)

	_, err = m.Import(ctx, snapshot)
	require.NoError(t, err)

	_, err = m.rooms.GetByID(ctx, extra.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	rooms, err := m.rooms.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}

func TestImportRejectsNewerVersion(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	seedInventory(t, m)

	newer := &File{SchemaVersion: SchemaVersion + 1, AppName: appName}
	_, err := m.Import(ctx, newer)
	assert.ErrorIs(t, err, domain.ErrVersionTooNew)

	// Existing data must be untouched.
	rooms, err := m.rooms.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}

func TestDecodeRejectsNewerVersion(t *testing.T) {
	payload := []byte(`{"schemaVersion":99,"appName":"trovo","data":{}}`)
	_, err := Decode(bytes.NewReader(payload))
	assert.ErrorIs(t, err, domain.ErrVersionTooNew)
}

func TestImportRollsBackOnBadSnapshot(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	seedInventory(t, m)

	snapshot, err := m.Export(ctx)
	require.NoError(t, err)

	// Duplicate the spot code; the unique index rejects the second
	// insert and the whole restore must roll back.
	dup := snapshot.Data.Spots[0]
	dup.ID++
	snapshot.Data.Spots = append(snapshot.Data.Spots, dup)

	_, err = m.Import(ctx, snapshot)
	require.Error(t, err)

	rooms, err := m.rooms.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 1, "pre-import data survives a failed restore")
	spots, err := m.spots.List(ctx)
	require.NoError(t, err)
	assert.Len(t, spots, 1)
}

func TestDecodeUpgradesLegacyFilePath(t *testing.T) {
	payload := []byte(`{
		"schemaVersion": 1,
		"appName": "trovo",
		"data": {
			"documents": [
				{"id": 1, "spotId": 1, "title": "Garanzia", "filePath": "scans/warranty.pdf"}
			]
		}
	}`)

	f, err := Decode(bytes.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, f.Data.Documents, 1)
	assert.Equal(t, []string{"scans/warranty.pdf"}, f.Data.Documents[0].FilePaths)
	assert.Empty(t, f.Data.Documents[0].LegacyFilePath)
}

func TestImportRestoresIdsAndTimestamps(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	created := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	snapshot := &File{
		SchemaVersion: SchemaVersion,
		AppName:       appName,
		Data: Data{
			Rooms: []roomRecord{{
				ID: 42, Name: "Soffitta",
				CreatedAt: created.UnixMilli(), UpdatedAt: created.UnixMilli(),
			}},
		},
	}

	stats, err := m.Import(ctx, snapshot)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Rooms)

	room, err := m.rooms.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Soffitta", room.Name)
	assert.Equal(t, created, room.CreatedAt)
	assert.Equal(t, created, room.UpdatedAt)
}
