// Package service implements the inventory operations on top of the
// entity stores: hierarchy CRUD with parent checks, spot code
// assignment, breadcrumbs, and global search.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"trovo/internal/domain"
	"trovo/internal/spotcode"
)

// roomRepository is the subset of store.RoomStore that Inventory requires.
type roomRepository interface {
	Create(ctx context.Context, name, icon string) (*domain.Room, error)
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	List(ctx context.Context) ([]*domain.Room, error)
	Update(ctx context.Context, room *domain.Room) error
	Delete(ctx context.Context, id int64) error
}

// containerRepository is the subset of store.ContainerStore that Inventory requires.
type containerRepository interface {
	Create(ctx context.Context, roomID int64, name string, ctype domain.ContainerType, note string, isFavorite bool) (*domain.Container, error)
	GetByID(ctx context.Context, id int64) (*domain.Container, error)
	List(ctx context.Context) ([]*domain.Container, error)
	ListByRoom(ctx context.Context, roomID int64) ([]*domain.Container, error)
	ListFavorites(ctx context.Context) ([]*domain.Container, error)
	Update(ctx context.Context, c *domain.Container) error
	SetFavorite(ctx context.Context, id int64, isFavorite bool) error
	Delete(ctx context.Context, id int64) error
}

// spotRepository is the subset of store.SpotStore that Inventory requires.
type spotRepository interface {
	Create(ctx context.Context, containerID int64, label, code, note string, isFavorite bool) (*domain.Spot, error)
	GetByID(ctx context.Context, id int64) (*domain.Spot, error)
	GetByCode(ctx context.Context, code string) (*domain.Spot, error)
	List(ctx context.Context) ([]*domain.Spot, error)
	ListByContainer(ctx context.Context, containerID int64) ([]*domain.Spot, error)
	ListFavorites(ctx context.Context) ([]*domain.Spot, error)
	Search(ctx context.Context, query string) ([]*domain.Spot, error)
	CodesWithPrefix(ctx context.Context, prefix string) ([]string, error)
	Update(ctx context.Context, spot *domain.Spot) error
	SetFavorite(ctx context.Context, id int64, isFavorite bool) error
	Delete(ctx context.Context, id int64) error
}

// itemRepository is the subset of store.ItemStore that Inventory requires.
type itemRepository interface {
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	List(ctx context.Context) ([]*domain.Item, error)
	ListBySpot(ctx context.Context, spotID int64) ([]*domain.Item, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Item, error)
	Search(ctx context.Context, query string) ([]*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	Move(ctx context.Context, id, newSpotID int64) error
	SetLent(ctx context.Context, id int64, isLent bool, lentTo string, lentDate *time.Time) error
	Delete(ctx context.Context, id int64) error
}

// documentRepository is the subset of store.DocumentStore that Inventory requires.
type documentRepository interface {
	Create(ctx context.Context, doc *domain.Document) (*domain.Document, error)
	GetByID(ctx context.Context, id int64) (*domain.Document, error)
	List(ctx context.Context) ([]*domain.Document, error)
	ListBySpot(ctx context.Context, spotID int64) ([]*domain.Document, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Document, error)
	ListExpiring(ctx context.Context) ([]*domain.Document, error)
	Search(ctx context.Context, query string) ([]*domain.Document, error)
	Update(ctx context.Context, doc *domain.Document) error
	Move(ctx context.Context, id, newSpotID int64) error
	Delete(ctx context.Context, id int64) error
}

type Inventory struct {
	rooms      roomRepository
	containers containerRepository
	spots      spotRepository
	items      itemRepository
	documents  documentRepository
	logger     *slog.Logger

	// spotMu serializes the read-codes/generate/insert sequence of spot
	// creation. Without it two concurrent creations could compute the
	// same candidate code; the unique index would catch one, but the
	// lock keeps the common path conflict-free.
	spotMu sync.Mutex
}

func NewInventory(
	rooms roomRepository,
	containers containerRepository,
	spots spotRepository,
	items itemRepository,
	documents documentRepository,
	logger *slog.Logger,
) *Inventory {
	return &Inventory{
		rooms:      rooms,
		containers: containers,
		spots:      spots,
		items:      items,
		documents:  documents,
		logger:     logger,
	}
}

var containerTypeRule = validation.In(
	domain.ContainerWardrobe,
	domain.ContainerDrawer,
	domain.ContainerShelf,
	domain.ContainerFolder,
	domain.ContainerOther,
).Error("must be one of wardrobe, drawer, shelf, folder, other")

const maxNameLen = 200

// ========== Rooms ==========

func (s *Inventory) CreateRoom(ctx context.Context, name, icon string) (*domain.Room, error) {
	if err := validation.Validate(name, validation.Required, validation.Length(1, maxNameLen)); err != nil {
		return nil, fmt.Errorf("invalid room name: %w", err)
	}
	return s.rooms.Create(ctx, name, icon)
}

func (s *Inventory) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

func (s *Inventory) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	return s.rooms.List(ctx)
}

func (s *Inventory) UpdateRoom(ctx context.Context, room *domain.Room) error {
	if err := validation.Validate(room.Name, validation.Required, validation.Length(1, maxNameLen)); err != nil {
		return fmt.Errorf("invalid room name: %w", err)
	}
	return s.rooms.Update(ctx, room)
}

func (s *Inventory) DeleteRoom(ctx context.Context, id int64) error {
	return s.rooms.Delete(ctx, id)
}

// ========== Containers ==========

func (s *Inventory) CreateContainer(ctx context.Context, roomID int64, name string, ctype domain.ContainerType, note string, isFavorite bool) (*domain.Container, error) {
	if err := validation.Validate(name, validation.Required, validation.Length(1, maxNameLen)); err != nil {
		return nil, fmt.Errorf("invalid container name: %w", err)
	}
	if err := validation.Validate(ctype, validation.Required, containerTypeRule); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidContainerType, err)
	}
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, err
	}
	return s.containers.Create(ctx, roomID, name, ctype, note, isFavorite)
}

func (s *Inventory) GetContainer(ctx context.Context, id int64) (*domain.Container, error) {
	return s.containers.GetByID(ctx, id)
}

func (s *Inventory) ListContainers(ctx context.Context) ([]*domain.Container, error) {
	return s.containers.List(ctx)
}

func (s *Inventory) ListContainersByRoom(ctx context.Context, roomID int64) ([]*domain.Container, error) {
	return s.containers.ListByRoom(ctx, roomID)
}

func (s *Inventory) UpdateContainer(ctx context.Context, c *domain.Container) error {
	if err := validation.Validate(c.Name, validation.Required, validation.Length(1, maxNameLen)); err != nil {
		return fmt.Errorf("invalid container name: %w", err)
	}
	if err := validation.Validate(c.Type, validation.Required, containerTypeRule); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidContainerType, err)
	}
	return s.containers.Update(ctx, c)
}

func (s *Inventory) ToggleContainerFavorite(ctx context.Context, id int64, isFavorite bool) error {
	return s.containers.SetFavorite(ctx, id, isFavorite)
}

func (s *Inventory) DeleteContainer(ctx context.Context, id int64) error {
	return s.containers.Delete(ctx, id)
}

// ========== Spots ==========

// CreateSpot creates a spot with a freshly generated code. This is the
// only path that assigns codes: it resolves the owning container and
// room (NotFound aborts), snapshots the existing codes, and generates a
// collision-free code under the creation lock. If the unique index
// still rejects the insert the snapshot was stale, so it retries once
// with a fresh one.
func (s *Inventory) CreateSpot(ctx context.Context, containerID int64, label, note string, isFavorite bool) (*domain.Spot, error) {
	if err := validation.Validate(label, validation.Required, validation.Length(1, maxNameLen)); err != nil {
		return nil, fmt.Errorf("invalid spot label: %w", err)
	}

	container, err := s.containers.GetByID(ctx, containerID)
	if err != nil {
		return nil, err
	}
	room, err := s.rooms.GetByID(ctx, container.RoomID)
	if err != nil {
		// Container rows always reference a live room; this is a
		// data-integrity violation, not a user error.
		return nil, fmt.Errorf("container %d has no room: %w", containerID, err)
	}

	s.spotMu.Lock()
	defer s.spotMu.Unlock()

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		codes, err := s.spots.CodesWithPrefix(ctx, "")
		if err != nil {
			return nil, err
		}

		code := spotcode.Generate(room.Name, container.Name, label, codes)
		spot, err := s.spots.Create(ctx, containerID, label, code, note, isFavorite)
		if err == nil {
			s.logger.Info("spot created", "spot_id", spot.ID, "code", spot.Code)
			return spot, nil
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
		s.logger.Warn("spot code conflict, retrying with fresh snapshot", "code", code)
		lastErr = err
	}

	return nil, fmt.Errorf("failed to assign unique spot code: %w", lastErr)
}

// isUniqueViolation reports whether err is the sqlite unique-index
// rejection on spots.code.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (s *Inventory) GetSpot(ctx context.Context, id int64) (*domain.Spot, error) {
	return s.spots.GetByID(ctx, id)
}

func (s *Inventory) ListSpots(ctx context.Context) ([]*domain.Spot, error) {
	return s.spots.List(ctx)
}

func (s *Inventory) ListSpotsByContainer(ctx context.Context, containerID int64) ([]*domain.Spot, error) {
	return s.spots.ListByContainer(ctx, containerID)
}

// UpdateSpot replaces the spot's label and note; the code is immutable
// once assigned.
func (s *Inventory) UpdateSpot(ctx context.Context, spot *domain.Spot) error {
	if err := validation.Validate(spot.Label, validation.Required, validation.Length(1, maxNameLen)); err != nil {
		return fmt.Errorf("invalid spot label: %w", err)
	}
	return s.spots.Update(ctx, spot)
}

func (s *Inventory) ToggleSpotFavorite(ctx context.Context, id int64, isFavorite bool) error {
	return s.spots.SetFavorite(ctx, id, isFavorite)
}

func (s *Inventory) DeleteSpot(ctx context.Context, id int64) error {
	return s.spots.Delete(ctx, id)
}

// ========== Items ==========

func (s *Inventory) CreateItem(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if err := validation.Validate(item.Name, validation.Required, validation.Length(1, maxNameLen)); err != nil {
		return nil, fmt.Errorf("invalid item name: %w", err)
	}
	if _, err := s.spots.GetByID(ctx, item.SpotID); err != nil {
		return nil, err
	}
	return s.items.Create(ctx, item)
}

func (s *Inventory) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	return s.items.GetByID(ctx, id)
}

func (s *Inventory) ListItemsBySpot(ctx context.Context, spotID int64) ([]*domain.Item, error) {
	return s.items.ListBySpot(ctx, spotID)
}

func (s *Inventory) UpdateItem(ctx context.Context, item *domain.Item) error {
	if err := validation.Validate(item.Name, validation.Required, validation.Length(1, maxNameLen)); err != nil {
		return fmt.Errorf("invalid item name: %w", err)
	}
	return s.items.Update(ctx, item)
}

// MoveItem reassigns an item to a different spot. The target spot must
// exist.
func (s *Inventory) MoveItem(ctx context.Context, id, newSpotID int64) error {
	if _, err := s.spots.GetByID(ctx, newSpotID); err != nil {
		return err
	}
	return s.items.Move(ctx, id, newSpotID)
}

// LendItem marks an item as lent out; ReturnItem brings it back.
func (s *Inventory) LendItem(ctx context.Context, id int64, lentTo string, lentDate *time.Time) error {
	if err := validation.Validate(lentTo, validation.Required); err != nil {
		return fmt.Errorf("invalid lend recipient: %w", err)
	}
	if lentDate == nil {
		now := time.Now()
		lentDate = &now
	}
	return s.items.SetLent(ctx, id, true, lentTo, lentDate)
}

func (s *Inventory) ReturnItem(ctx context.Context, id int64) error {
	return s.items.SetLent(ctx, id, false, "", nil)
}

func (s *Inventory) DeleteItem(ctx context.Context, id int64) error {
	return s.items.Delete(ctx, id)
}

// ========== Documents ==========

func (s *Inventory) CreateDocument(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if err := validation.Validate(doc.Title, validation.Required, validation.Length(1, maxNameLen)); err != nil {
		return nil, fmt.Errorf("invalid document title: %w", err)
	}
	if _, err := s.spots.GetByID(ctx, doc.SpotID); err != nil {
		return nil, err
	}
	return s.documents.Create(ctx, doc)
}

func (s *Inventory) GetDocument(ctx context.Context, id int64) (*domain.Document, error) {
	return s.documents.GetByID(ctx, id)
}

func (s *Inventory) ListDocumentsBySpot(ctx context.Context, spotID int64) ([]*domain.Document, error) {
	return s.documents.ListBySpot(ctx, spotID)
}

func (s *Inventory) ListExpiringDocuments(ctx context.Context) ([]*domain.Document, error) {
	return s.documents.ListExpiring(ctx)
}

func (s *Inventory) UpdateDocument(ctx context.Context, doc *domain.Document) error {
	if err := validation.Validate(doc.Title, validation.Required, validation.Length(1, maxNameLen)); err != nil {
		return fmt.Errorf("invalid document title: %w", err)
	}
	return s.documents.Update(ctx, doc)
}

// MoveDocument reassigns a document to a different spot. The target
// spot must exist.
func (s *Inventory) MoveDocument(ctx context.Context, id, newSpotID int64) error {
	if _, err := s.spots.GetByID(ctx, newSpotID); err != nil {
		return err
	}
	return s.documents.Move(ctx, id, newSpotID)
}

func (s *Inventory) DeleteDocument(ctx context.Context, id int64) error {
	return s.documents.Delete(ctx, id)
}
