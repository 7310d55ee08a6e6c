package backup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"trovo/internal/domain"
	"trovo/internal/store"
)

// ImportStats counts the rows written by a restore.
type ImportStats struct {
	Rooms      int `json:"rooms"`
	Containers int `json:"containers"`
	Spots      int `json:"spots"`
	Items      int `json:"items"`
	Documents  int `json:"documents"`
}

// Manager owns snapshot export and restore. Restore replaces the entire
// database contents inside one transaction: either the snapshot lands
// completely or the existing data stays untouched.
type Manager struct {
	db         *sql.DB
	rooms      *store.RoomStore
	containers *store.ContainerStore
	spots      *store.SpotStore
	items      *store.ItemStore
	documents  *store.DocumentStore
	logger     *slog.Logger
}

func NewManager(
	db *sql.DB,
	rooms *store.RoomStore,
	containers *store.ContainerStore,
	spots *store.SpotStore,
	items *store.ItemStore,
	documents *store.DocumentStore,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		db:         db,
		rooms:      rooms,
		containers: containers,
		spots:      spots,
		items:      items,
		documents:  documents,
		logger:     logger,
	}
}

// Export snapshots every table with ids and timestamps intact.
func (m *Manager) Export(ctx context.Context) (*File, error) {
	rooms, err := m.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	containers, err := m.containers.List(ctx)
	if err != nil {
		return nil, err
	}
	spots, err := m.spots.List(ctx)
	if err != nil {
		return nil, err
	}
	items, err := m.items.List(ctx)
	if err != nil {
		return nil, err
	}
	documents, err := m.documents.List(ctx)
	if err != nil {
		return nil, err
	}

	f := &File{
		SchemaVersion: SchemaVersion,
		AppName:       appName,
		ExportedAt:    time.Now().UnixMilli(),
	}
	for _, r := range rooms {
		f.Data.Rooms = append(f.Data.Rooms, roomRecord{
			ID: r.ID, Name: r.Name, Icon: r.Icon,
			CreatedAt: millisOf(r.CreatedAt), UpdatedAt: millisOf(r.UpdatedAt),
		})
	}
	for _, c := range containers {
		f.Data.Containers = append(f.Data.Containers, containerRecord{
			ID: c.ID, RoomID: c.RoomID, Name: c.Name, Type: string(c.Type),
			Note: c.Note, IsFavorite: c.IsFavorite,
			CreatedAt: millisOf(c.CreatedAt), UpdatedAt: millisOf(c.UpdatedAt),
		})
	}
	for _, s := range spots {
		f.Data.Spots = append(f.Data.Spots, spotRecord{
			ID: s.ID, ContainerID: s.ContainerID, Label: s.Label, Code: s.Code,
			Note: s.Note, IsFavorite: s.IsFavorite,
			CreatedAt: millisOf(s.CreatedAt), UpdatedAt: millisOf(s.UpdatedAt),
		})
	}
	for _, it := range items {
		f.Data.Items = append(f.Data.Items, itemRecord{
			ID: it.ID, SpotID: it.SpotID, Name: it.Name, Category: it.Category,
			Keywords: it.Keywords, Tags: it.Tags, Note: it.Note,
			ImagePath: it.ImagePath, IsLent: it.IsLent, LentTo: it.LentTo,
			LentDate:  millisOfPtr(it.LentDate),
			CreatedAt: millisOf(it.CreatedAt), UpdatedAt: millisOf(it.UpdatedAt),
		})
	}
	for _, d := range documents {
		f.Data.Documents = append(f.Data.Documents, documentRecord{
			ID: d.ID, SpotID: d.SpotID, Title: d.Title, DocType: d.DocType,
			Person: d.Person, ExpiryDate: millisOfPtr(d.ExpiryDate),
			Tags: d.Tags, Note: d.Note, FilePaths: d.FilePaths,
			CreatedAt: millisOf(d.CreatedAt), UpdatedAt: millisOf(d.UpdatedAt),
		})
	}

	m.logger.Info("backup exported",
		"rooms", len(f.Data.Rooms), "containers", len(f.Data.Containers),
		"spots", len(f.Data.Spots), "items", len(f.Data.Items),
		"documents", len(f.Data.Documents))
	return f, nil
}

// Import replaces all current data with the snapshot contents. Ids and
// timestamps are restored verbatim. Any failure rolls the whole restore
// back.
func (m *Manager) Import(ctx context.Context, f *File) (*ImportStats, error) {
	if f.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("%w: snapshot version %d, supported up to %d",
			domain.ErrVersionTooNew, f.SchemaVersion, SchemaVersion)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin restore transaction: %w", err)
	}
	defer tx.Rollback()

	stats, err := m.restore(ctx, tx, f)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit restore: %w", err)
	}

	m.logger.Info("backup imported",
		"rooms", stats.Rooms, "containers", stats.Containers,
		"spots", stats.Spots, "items", stats.Items, "documents", stats.Documents)
	return stats, nil
}

func (m *Manager) restore(ctx context.Context, tx *sql.Tx, f *File) (*ImportStats, error) {
	rooms := m.rooms.WithTx(tx)
	containers := m.containers.WithTx(tx)
	spots := m.spots.WithTx(tx)
	items := m.items.WithTx(tx)
	documents := m.documents.WithTx(tx)

	// Children first so the deletes never trip a foreign key.
	for _, clear := range []func(context.Context) error{
		documents.DeleteAll, items.DeleteAll, spots.DeleteAll,
		containers.DeleteAll, rooms.DeleteAll,
	} {
		if err := clear(ctx); err != nil {
			return nil, err
		}
	}

	stats := &ImportStats{}
	for _, r := range f.Data.Rooms {
		room := &domain.Room{
			ID: r.ID, Name: r.Name, Icon: r.Icon,
			CreatedAt: timeOf(r.CreatedAt), UpdatedAt: timeOf(r.UpdatedAt),
		}
		if err := rooms.Insert(ctx, room); err != nil {
			return nil, fmt.Errorf("failed to restore room %d: %w", r.ID, err)
		}
		stats.Rooms++
	}
	for _, c := range f.Data.Containers {
		ctype, err := domain.ParseContainerType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to restore container %d: %w", c.ID, err)
		}
		container := &domain.Container{
			ID: c.ID, RoomID: c.RoomID, Name: c.Name, Type: ctype,
			Note: c.Note, IsFavorite: c.IsFavorite,
			CreatedAt: timeOf(c.CreatedAt), UpdatedAt: timeOf(c.UpdatedAt),
		}
		if err := containers.Insert(ctx, container); err != nil {
			return nil, fmt.Errorf("failed to restore container %d: %w", c.ID, err)
		}
		stats.Containers++
	}
	for _, s := range f.Data.Spots {
		spot := &domain.Spot{
			ID: s.ID, ContainerID: s.ContainerID, Label: s.Label, Code: s.Code,
			Note: s.Note, IsFavorite: s.IsFavorite,
			CreatedAt: timeOf(s.CreatedAt), UpdatedAt: timeOf(s.UpdatedAt),
		}
		if err := spots.Insert(ctx, spot); err != nil {
			return nil, fmt.Errorf("failed to restore spot %d (%s): %w", s.ID, s.Code, err)
		}
		stats.Spots++
	}
	for _, it := range f.Data.Items {
		item := &domain.Item{
			ID: it.ID, SpotID: it.SpotID, Name: it.Name, Category: it.Category,
			Keywords: it.Keywords, Tags: it.Tags, Note: it.Note,
			ImagePath: it.ImagePath, IsLent: it.IsLent, LentTo: it.LentTo,
			LentDate:  timeOfPtr(it.LentDate),
			CreatedAt: timeOf(it.CreatedAt), UpdatedAt: timeOf(it.UpdatedAt),
		}
		if err := items.Insert(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to restore item %d: %w", it.ID, err)
		}
		stats.Items++
	}
	for _, d := range f.Data.Documents {
		doc := &domain.Document{
			ID: d.ID, SpotID: d.SpotID, Title: d.Title, DocType: d.DocType,
			Person: d.Person, ExpiryDate: timeOfPtr(d.ExpiryDate),
			Tags: d.Tags, Note: d.Note, FilePaths: d.FilePaths,
			CreatedAt: timeOf(d.CreatedAt), UpdatedAt: timeOf(d.UpdatedAt),
		}
		if err := documents.Insert(ctx, doc); err != nil {
			return nil, fmt.Errorf("failed to restore document %d: %w", d.ID, err)
		}
		stats.Documents++
	}

	return stats, nil
}
