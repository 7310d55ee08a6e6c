package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trovo/internal/db"
	"trovo/internal/domain"
	"trovo/internal/spotcode"
	"trovo/internal/store"
)

func newTestInventory(t *testing.T) (*Inventory, *sql.DB) {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewInventory(
		store.NewRoomStore(d),
		store.NewContainerStore(d),
		store.NewSpotStore(d),
		store.NewItemStore(d),
		store.NewDocumentStore(d),
		logger,
	)
	return svc, d
}

func seedHierarchy(t *testing.T, svc *Inventory) (*domain.Room, *domain.Container) {
	t.Helper()
	ctx := context.Background()
	room, err := svc.CreateRoom(ctx, "Camera da letto", "")
	require.NoError(t, err)
	container, err := svc.CreateContainer(ctx, room.ID, "Armadio grande", domain.ContainerWardrobe, "", false)
	require.NoError(t, err)
	return room, container
}

// deleteRowBypassingCascade removes a single row with foreign keys off,
// pinned to one connection so the pragma and the delete run together.
// Used to simulate orphaned descendants.
func deleteRowBypassingCascade(t *testing.T, d *sql.DB, table string, id int64) {
	t.Helper()
	ctx := context.Background()
	conn, err := d.Conn(ctx)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF")
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, "PRAGMA foreign_keys = ON")
	require.NoError(t, err)
}

func TestCreateSpotGeneratesCode(t *testing.T) {
	svc, _ := newTestInventory(t)
	ctx := context.Background()
	_, container := seedHierarchy(t, svc)

	spot, err := svc.CreateSpot(ctx, container.ID, "Cassetto 1", "", false)
	require.NoError(t, err)
	assert.Equal(t, "CAM-ARM-C1", spot.Code)
	assert.True(t, spotcode.IsValid(spot.Code))
}

func TestCreateSpotResolvesCollisions(t *testing.T) {
	svc, _ := newTestInventory(t)
	ctx := context.Background()
	_, container := seedHierarchy(t, svc)

	first, err := svc.CreateSpot(ctx, container.ID, "Cassetto 1", "", false)
	require.NoError(t, err)
	second, err := svc.CreateSpot(ctx, container.ID, "Cassetto 1", "", false)
	require.NoError(t, err)
	third, err := svc.CreateSpot(ctx, container.ID, "Cassetto 1", "", false)
	require.NoError(t, err)

	assert.Equal(t, "CAM-ARM-C1", first.Code)
	assert.Equal(t, "CAM-ARM-C12", second.Code)
	assert.Equal(t, "CAM-ARM-C13", third.Code)
}

func TestCreateSpotMissingContainer(t *testing.T) {
	svc, _ := newTestInventory(t)

	_, err := svc.CreateSpot(context.Background(), 404, "Cassetto", "", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSpotOrphanedContainer(t *testing.T) {
	svc, d := newTestInventory(t)
	ctx := context.Background()
	room, container := seedHierarchy(t, svc)

	// A container whose room is gone is a data-integrity violation and
	// must abort spot creation with NotFound.
	deleteRowBypassingCascade(t, d, "rooms", room.ID)

	_, err := svc.CreateSpot(ctx, container.ID, "Cassetto", "", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSpotConcurrentCodesUnique(t *testing.T) {
	svc, _ := newTestInventory(t)
	ctx := context.Background()
	_, container := seedHierarchy(t, svc)

	const n = 8
	var wg sync.WaitGroup
	codes := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			spot, err := svc.CreateSpot(ctx, container.ID, "Cassetto 1", "", false)
			if assert.NoError(t, err) {
				codes <- spot.Code
			}
		}()
	}
	wg.Wait()
	close(codes)

	seen := make(map[string]bool)
	for code := range codes {
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
	assert.Len(t, seen, n)
}

func TestSpotCodeSurvivesRename(t *testing.T) {
	svc, _ := newTestInventory(t)
	ctx := context.Background()
	room, container := seedHierarchy(t, svc)

	spot, err := svc.CreateSpot(ctx, container.ID, "Cassetto 1", "", false)
	require.NoError(t, err)

	room.Name = "Stanza degli ospiti"
	require.NoError(t, svc.UpdateRoom(ctx, room))
	container.Name = "Cassettiera"
	require.NoError(t, svc.UpdateContainer(ctx, container))

	got, err := svc.GetSpot(ctx, spot.ID)
	require.NoError(t, err)
	assert.Equal(t, "CAM-ARM-C1", got.Code)
}

func TestCreateContainerRejectsUnknownType(t *testing.T) {
	svc, _ := newTestInventory(t)
	ctx := context.Background()
	room, err := svc.CreateRoom(ctx, "Cucina", "")
	require.NoError(t, err)

	_, err = svc.CreateContainer(ctx, room.ID, "Credenza", domain.ContainerType("fridge"), "", false)
	assert.ErrorIs(t, err, domain.ErrInvalidContainerType)
}

func TestCreateContainerMissingRoom(t *testing.T) {
	svc, _ := newTestInventory(t)

	_, err := svc.CreateContainer(context.Background(), 77, "Credenza", domain.ContainerShelf, "", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateItemRequiresSpot(t *testing.T) {
	svc, _ := newTestInventory(t)

	_, err := svc.CreateItem(context.Background(), &domain.Item{SpotID: 5, Name: "Trapano"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateRoomRejectsBlankName(t *testing.T) {
	svc, _ := newTestInventory(t)

	_, err := svc.CreateRoom(context.Background(), "", "")
	assert.Error(t, err)
}

func TestMoveItem(t *testing.T) {
	svc, _ := newTestInventory(t)
	ctx := context.Background()
	_, container := seedHierarchy(t, svc)

	from, err := svc.CreateSpot(ctx, container.ID, "Cassetto 1", "", false)
	require.NoError(t, err)
	to, err := svc.CreateSpot(ctx, container.ID, "Mensola alta", "", false)
	require.NoError(t, err)

	item, err := svc.CreateItem(ctx, &domain.Item{SpotID: from.ID, Name: "Scatola foto"})
	require.NoError(t, err)

	require.NoError(t, svc.MoveItem(ctx, item.ID, to.ID))
	moved, err := svc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, to.ID, moved.SpotID)

	err = svc.MoveItem(ctx, item.ID, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLendAndReturnItem(t *testing.T) {
	svc, _ := newTestInventory(t)
	ctx := context.Background()
	_, container := seedHierarchy(t, svc)

	spot, err := svc.CreateSpot(ctx, container.ID, "Cassetto 1", "", false)
	require.NoError(t, err)
	item, err := svc.CreateItem(ctx, &domain.Item{SpotID: spot.ID, Name: "Trapano"})
	require.NoError(t, err)

	require.NoError(t, svc.LendItem(ctx, item.ID, "Marco", nil))
	lent, err := svc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, lent.IsLent)
	assert.Equal(t, "Marco", lent.LentTo)
	assert.NotNil(t, lent.LentDate)

	require.NoError(t, svc.ReturnItem(ctx, item.ID))
	back, err := svc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, back.IsLent)
	assert.Nil(t, back.LentDate)
}

func TestToggleFavorites(t *testing.T) {
	svc, _ := newTestInventory(t)
	ctx := context.Background()
	_, container := seedHierarchy(t, svc)

	spot, err := svc.CreateSpot(ctx, container.ID, "Cassetto 1", "", false)
	require.NoError(t, err)

	require.NoError(t, svc.ToggleContainerFavorite(ctx, container.ID, true))
	require.NoError(t, svc.ToggleSpotFavorite(ctx, spot.ID, true))

	favorites, err := svc.Favorites(ctx)
	require.NoError(t, err)
	require.Len(t, favorites, 2)
	assert.Equal(t, domain.FavoriteContainer, favorites[0].Kind)
	assert.Equal(t, "Camera da letto > Armadio grande", favorites[0].Breadcrumb)
	assert.Equal(t, domain.FavoriteSpot, favorites[1].Kind)
	assert.Equal(t, "Camera da letto > Armadio grande > Cassetto 1", favorites[1].Breadcrumb)
}
