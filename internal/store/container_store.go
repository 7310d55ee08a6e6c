package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"trovo/internal/domain"
)

type ContainerStore struct {
	q querier
}

func NewContainerStore(db *sql.DB) *ContainerStore {
	return &ContainerStore{q: db}
}

// WithTx returns a copy of the store bound to tx.
func (s *ContainerStore) WithTx(tx *sql.Tx) *ContainerStore {
	return &ContainerStore{q: tx}
}

func (s *ContainerStore) Create(ctx context.Context, roomID int64, name string, ctype domain.ContainerType, note string, isFavorite bool) (*domain.Container, error) {
	now := millis(time.Now())
	result, err := s.q.ExecContext(ctx, `
		INSERT INTO containers (room_id, name, type, note, is_favorite, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, roomID, name, string(ctype), note, isFavorite, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Insert writes a container preserving its id and timestamps. Used by
// backup restore only.
func (s *ContainerStore) Insert(ctx context.Context, c *domain.Container) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO containers (id, room_id, name, type, note, is_favorite, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.RoomID, c.Name, string(c.Type), c.Note, c.IsFavorite, millis(c.CreatedAt), millis(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert container %d: %w", c.ID, err)
	}
	return nil
}

const containerColumns = `id, room_id, name, type, note, is_favorite, created_at, updated_at`

func (s *ContainerStore) scan(row interface{ Scan(...any) error }) (*domain.Container, error) {
	c := &domain.Container{}
	var ctype string
	var created, updated int64
	if err := row.Scan(&c.ID, &c.RoomID, &c.Name, &ctype, &c.Note, &c.IsFavorite, &created, &updated); err != nil {
		return nil, err
	}
	c.Type = domain.ContainerType(ctype)
	c.CreatedAt = fromMillis(created)
	c.UpdatedAt = fromMillis(updated)
	return c, nil
}

func (s *ContainerStore) GetByID(ctx context.Context, id int64) (*domain.Container, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT `+containerColumns+` FROM containers WHERE id = ?
	`, id)

	c, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("container %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get container: %w", err)
	}
	return c, nil
}

func (s *ContainerStore) List(ctx context.Context) ([]*domain.Container, error) {
	return s.list(ctx, `SELECT `+containerColumns+` FROM containers ORDER BY name ASC`)
}

func (s *ContainerStore) ListByRoom(ctx context.Context, roomID int64) ([]*domain.Container, error) {
	return s.list(ctx, `SELECT `+containerColumns+` FROM containers WHERE room_id = ? ORDER BY name ASC`, roomID)
}

func (s *ContainerStore) ListFavorites(ctx context.Context) ([]*domain.Container, error) {
	return s.list(ctx, `SELECT `+containerColumns+` FROM containers WHERE is_favorite = 1 ORDER BY name ASC`)
}

func (s *ContainerStore) list(ctx context.Context, query string, args ...any) ([]*domain.Container, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	defer rows.Close()

	var containers []*domain.Container
	for rows.Next() {
		c, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan container: %w", err)
		}
		containers = append(containers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating containers: %w", err)
	}

	return containers, nil
}

// Update replaces the container's mutable fields and bumps updated_at.
// The parent room is not changed.
func (s *ContainerStore) Update(ctx context.Context, c *domain.Container) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE containers SET name = ?, type = ?, note = ?, is_favorite = ?, updated_at = ? WHERE id = ?
	`, c.Name, string(c.Type), c.Note, c.IsFavorite, millis(time.Now()), c.ID)
	if err != nil {
		return fmt.Errorf("failed to update container: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("container %d: %w", c.ID, domain.ErrNotFound)
	}

	return nil
}

// SetFavorite flips the favorite flag without touching other fields.
func (s *ContainerStore) SetFavorite(ctx context.Context, id int64, isFavorite bool) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE containers SET is_favorite = ?, updated_at = ? WHERE id = ?
	`, isFavorite, millis(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to update container favorite: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("container %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (s *ContainerStore) Delete(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM containers WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete container: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("container %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (s *ContainerStore) DeleteAll(ctx context.Context) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM containers`); err != nil {
		return fmt.Errorf("failed to delete containers: %w", err)
	}
	return nil
}
