package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trovo/internal/domain"
)

func TestRoomStoreCreate(t *testing.T) {
	d := openTestDB(t)
	store := NewRoomStore(d)
	ctx := context.Background()

	room, err := store.Create(ctx, "Camera da letto", "bed")
	require.NoError(t, err)
	assert.NotZero(t, room.ID)
	assert.Equal(t, "Camera da letto", room.Name)
	assert.Equal(t, "bed", room.Icon)
	assert.False(t, room.CreatedAt.IsZero())
	assert.Equal(t, room.CreatedAt, room.UpdatedAt)
}

func TestRoomStoreGetByIDMissing(t *testing.T) {
	d := openTestDB(t)
	store := NewRoomStore(d)

	_, err := store.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoomStoreList(t *testing.T) {
	d := openTestDB(t)
	store := NewRoomStore(d)
	ctx := context.Background()

	_, err := store.Create(ctx, "Studio", "")
	require.NoError(t, err)
	_, err = store.Create(ctx, "Cucina", "")
	require.NoError(t, err)

	rooms, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "Cucina", rooms[0].Name)
	assert.Equal(t, "Studio", rooms[1].Name)
}

func TestRoomStoreUpdateBumpsUpdatedAt(t *testing.T) {
	d := openTestDB(t)
	store := NewRoomStore(d)
	ctx := context.Background()

	room, err := store.Create(ctx, "Bagno", "")
	require.NoError(t, err)

	tick()
	room.Name = "Bagno grande"
	require.NoError(t, store.Update(ctx, room))

	updated, err := store.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bagno grande", updated.Name)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestRoomStoreUpdateMissing(t *testing.T) {
	d := openTestDB(t)
	store := NewRoomStore(d)

	err := store.Update(context.Background(), &domain.Room{ID: 99, Name: "Nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoomStoreDeleteCascades(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	room, container, spot := seedSpot(t, d)

	_, err := NewItemStore(d).Create(ctx, &domain.Item{SpotID: spot.ID, Name: "Maglione"})
	require.NoError(t, err)
	_, err = NewDocumentStore(d).Create(ctx, &domain.Document{SpotID: spot.ID, Title: "Garanzia"})
	require.NoError(t, err)

	require.NoError(t, NewRoomStore(d).Delete(ctx, room.ID))

	_, err = NewContainerStore(d).GetByID(ctx, container.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = NewSpotStore(d).GetByID(ctx, spot.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	items, err := NewItemStore(d).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	docs, err := NewDocumentStore(d).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestRoomStoreDeleteMissing(t *testing.T) {
	d := openTestDB(t)
	err := NewRoomStore(d).Delete(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
