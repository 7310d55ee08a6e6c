package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trovo/internal/domain"
)

func TestItemStoreCreate(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	_, _, spot := seedSpot(t, d)

	item, err := NewItemStore(d).Create(ctx, &domain.Item{
		SpotID:   spot.ID,
		Name:     "Trapano",
		Category: "attrezzi",
		Keywords: "fori, bricolage",
		Tags:     "garage",
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, "Trapano", item.Name)
	assert.False(t, item.IsLent)
	assert.Nil(t, item.LentDate)
}

func TestItemStoreSearchFields(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	_, _, spot := seedSpot(t, d)
	items := NewItemStore(d)

	_, err := items.Create(ctx, &domain.Item{SpotID: spot.ID, Name: "Trapano", Category: "attrezzi"})
	require.NoError(t, err)
	tick()
	_, err = items.Create(ctx, &domain.Item{SpotID: spot.ID, Name: "Maglione", Tags: "inverno"})
	require.NoError(t, err)
	tick()
	_, err = items.Create(ctx, &domain.Item{SpotID: spot.ID, Name: "Sciarpa", Keywords: "lana, inverno"})
	require.NoError(t, err)

	byName, err := items.Search(ctx, "Trapano")
	require.NoError(t, err)
	assert.Len(t, byName, 1)

	byCategory, err := items.Search(ctx, "attrezzi")
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	// "inverno" hits one item via tags and one via keywords, newest first.
	byTagOrKeyword, err := items.Search(ctx, "inverno")
	require.NoError(t, err)
	require.Len(t, byTagOrKeyword, 2)
	assert.Equal(t, "Sciarpa", byTagOrKeyword[0].Name)
	assert.Equal(t, "Maglione", byTagOrKeyword[1].Name)

	none, err := items.Search(ctx, "bicicletta")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestItemStoreListRecent(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	_, _, spot := seedSpot(t, d)
	items := NewItemStore(d)

	for _, name := range []string{"Uno", "Due", "Tre"} {
		_, err := items.Create(ctx, &domain.Item{SpotID: spot.ID, Name: name})
		require.NoError(t, err)
		tick()
	}

	recent, err := items.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Tre", recent[0].Name)
	assert.Equal(t, "Due", recent[1].Name)
}

func TestItemStoreMove(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	_, container, spot := seedSpot(t, d)

	other, err := NewSpotStore(d).Create(ctx, container.ID, "Mensola alta", "CAM-ARM-MA", "", false)
	require.NoError(t, err)

	item, err := NewItemStore(d).Create(ctx, &domain.Item{SpotID: spot.ID, Name: "Scatola foto", Note: "fragile"})
	require.NoError(t, err)

	tick()
	require.NoError(t, NewItemStore(d).Move(ctx, item.ID, other.ID))

	moved, err := NewItemStore(d).GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, moved.SpotID)
	assert.Equal(t, "Scatola foto", moved.Name)
	assert.Equal(t, "fragile", moved.Note)
	assert.True(t, moved.UpdatedAt.After(item.UpdatedAt))
}

func TestItemStoreLending(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	_, _, spot := seedSpot(t, d)
	items := NewItemStore(d)

	item, err := items.Create(ctx, &domain.Item{SpotID: spot.ID, Name: "Trapano"})
	require.NoError(t, err)

	when := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	require.NoError(t, items.SetLent(ctx, item.ID, true, "Marco", &when))

	lent, err := items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, lent.IsLent)
	assert.Equal(t, "Marco", lent.LentTo)
	require.NotNil(t, lent.LentDate)
	assert.Equal(t, when.UnixMilli(), lent.LentDate.UnixMilli())

	require.NoError(t, items.SetLent(ctx, item.ID, false, "", nil))
	returned, err := items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, returned.IsLent)
	assert.Empty(t, returned.LentTo)
	assert.Nil(t, returned.LentDate)
}

func TestItemStoreDeleteMissing(t *testing.T) {
	d := openTestDB(t)
	err := NewItemStore(d).Delete(context.Background(), 123)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
