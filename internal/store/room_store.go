package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"trovo/internal/domain"
)

type RoomStore struct {
	q querier
}

func NewRoomStore(db *sql.DB) *RoomStore {
	return &RoomStore{q: db}
}

// WithTx returns a copy of the store bound to tx.
func (s *RoomStore) WithTx(tx *sql.Tx) *RoomStore {
	return &RoomStore{q: tx}
}

func (s *RoomStore) Create(ctx context.Context, name, icon string) (*domain.Room, error) {
	now := millis(time.Now())
	result, err := s.q.ExecContext(ctx, `
		INSERT INTO rooms (name, icon, created_at, updated_at) VALUES (?, ?, ?, ?)
	`, name, icon, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Insert writes a room preserving its id and timestamps. Used by backup
// restore only.
func (s *RoomStore) Insert(ctx context.Context, room *domain.Room) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO rooms (id, name, icon, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
	`, room.ID, room.Name, room.Icon, millis(room.CreatedAt), millis(room.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert room %d: %w", room.ID, err)
	}
	return nil
}

func (s *RoomStore) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	room := &domain.Room{}
	var created, updated int64
	err := s.q.QueryRowContext(ctx, `
		SELECT id, name, icon, created_at, updated_at FROM rooms WHERE id = ?
	`, id).Scan(&room.ID, &room.Name, &room.Icon, &created, &updated)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("room %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	room.CreatedAt = fromMillis(created)
	room.UpdatedAt = fromMillis(updated)
	return room, nil
}

func (s *RoomStore) List(ctx context.Context) ([]*domain.Room, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, name, icon, created_at, updated_at FROM rooms ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*domain.Room
	for rows.Next() {
		room := &domain.Room{}
		var created, updated int64
		if err := rows.Scan(&room.ID, &room.Name, &room.Icon, &created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		room.CreatedAt = fromMillis(created)
		room.UpdatedAt = fromMillis(updated)
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}

	return rooms, nil
}

// Update replaces the room's mutable fields and bumps updated_at.
func (s *RoomStore) Update(ctx context.Context, room *domain.Room) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE rooms SET name = ?, icon = ?, updated_at = ? WHERE id = ?
	`, room.Name, room.Icon, millis(time.Now()), room.ID)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("room %d: %w", room.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes the room; containers, spots, items, and documents
// underneath it go with it via the foreign key cascade.
func (s *RoomStore) Delete(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM rooms WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("room %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (s *RoomStore) DeleteAll(ctx context.Context) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM rooms`); err != nil {
		return fmt.Errorf("failed to delete rooms: %w", err)
	}
	return nil
}
