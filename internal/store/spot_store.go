package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"trovo/internal/domain"
)

type SpotStore struct {
	q querier
}

func NewSpotStore(db *sql.DB) *SpotStore {
	return &SpotStore{q: db}
}

// WithTx returns a copy of the store bound to tx.
func (s *SpotStore) WithTx(tx *sql.Tx) *SpotStore {
	return &SpotStore{q: tx}
}

// Create persists a spot with an already-generated code. The unique
// index on code is the last line of defense against duplicates; callers
// go through the service, which serializes code generation.
func (s *SpotStore) Create(ctx context.Context, containerID int64, label, code, note string, isFavorite bool) (*domain.Spot, error) {
	now := millis(time.Now())
	result, err := s.q.ExecContext(ctx, `
		INSERT INTO spots (container_id, label, code, note, is_favorite, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, containerID, label, code, note, isFavorite, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create spot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Insert writes a spot preserving its id, code, and timestamps. Used by
// backup restore only; the unique code index rejects duplicates.
func (s *SpotStore) Insert(ctx context.Context, spot *domain.Spot) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO spots (id, container_id, label, code, note, is_favorite, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, spot.ID, spot.ContainerID, spot.Label, spot.Code, spot.Note, spot.IsFavorite,
		millis(spot.CreatedAt), millis(spot.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert spot %d: %w", spot.ID, err)
	}
	return nil
}

const spotColumns = `id, container_id, label, code, note, is_favorite, created_at, updated_at`

func (s *SpotStore) scan(row interface{ Scan(...any) error }) (*domain.Spot, error) {
	spot := &domain.Spot{}
	var created, updated int64
	if err := row.Scan(&spot.ID, &spot.ContainerID, &spot.Label, &spot.Code, &spot.Note,
		&spot.IsFavorite, &created, &updated); err != nil {
		return nil, err
	}
	spot.CreatedAt = fromMillis(created)
	spot.UpdatedAt = fromMillis(updated)
	return spot, nil
}

func (s *SpotStore) GetByID(ctx context.Context, id int64) (*domain.Spot, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+spotColumns+` FROM spots WHERE id = ?`, id)

	spot, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("spot %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get spot: %w", err)
	}
	return spot, nil
}

// GetByCode resolves a scanned or typed code back to its spot.
func (s *SpotStore) GetByCode(ctx context.Context, code string) (*domain.Spot, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+spotColumns+` FROM spots WHERE code = ?`, code)

	spot, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("spot code %q: %w", code, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get spot by code: %w", err)
	}
	return spot, nil
}

func (s *SpotStore) List(ctx context.Context) ([]*domain.Spot, error) {
	return s.list(ctx, `SELECT `+spotColumns+` FROM spots ORDER BY label ASC`)
}

func (s *SpotStore) ListByContainer(ctx context.Context, containerID int64) ([]*domain.Spot, error) {
	return s.list(ctx, `SELECT `+spotColumns+` FROM spots WHERE container_id = ? ORDER BY label ASC`, containerID)
}

func (s *SpotStore) ListFavorites(ctx context.Context) ([]*domain.Spot, error) {
	return s.list(ctx, `SELECT `+spotColumns+` FROM spots WHERE is_favorite = 1 ORDER BY label ASC`)
}

// Search matches spots whose label or code contains the query.
func (s *SpotStore) Search(ctx context.Context, query string) ([]*domain.Spot, error) {
	pattern := "%" + query + "%"
	return s.list(ctx, `
		SELECT `+spotColumns+` FROM spots
		WHERE label LIKE ? OR code LIKE ?
		ORDER BY label ASC
	`, pattern, pattern)
}

func (s *SpotStore) list(ctx context.Context, query string, args ...any) ([]*domain.Spot, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list spots: %w", err)
	}
	defer rows.Close()

	var spots []*domain.Spot
	for rows.Next() {
		spot, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan spot: %w", err)
		}
		spots = append(spots, spot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating spots: %w", err)
	}

	return spots, nil
}

// CodesWithPrefix returns every assigned code starting with prefix; the
// empty prefix returns all codes. Feeds code generation.
func (s *SpotStore) CodesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT code FROM spots WHERE code LIKE ? || '%'
	`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list spot codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan spot code: %w", err)
		}
		codes = append(codes, code)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating spot codes: %w", err)
	}

	return codes, nil
}

// Update replaces the spot's mutable fields and bumps updated_at. The
// code and parent container are immutable here.
func (s *SpotStore) Update(ctx context.Context, spot *domain.Spot) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE spots SET label = ?, note = ?, is_favorite = ?, updated_at = ? WHERE id = ?
	`, spot.Label, spot.Note, spot.IsFavorite, millis(time.Now()), spot.ID)
	if err != nil {
		return fmt.Errorf("failed to update spot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("spot %d: %w", spot.ID, domain.ErrNotFound)
	}

	return nil
}

// SetFavorite flips the favorite flag without touching other fields.
func (s *SpotStore) SetFavorite(ctx context.Context, id int64, isFavorite bool) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE spots SET is_favorite = ?, updated_at = ? WHERE id = ?
	`, isFavorite, millis(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to update spot favorite: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("spot %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (s *SpotStore) Delete(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM spots WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete spot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("spot %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (s *SpotStore) DeleteAll(ctx context.Context) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM spots`); err != nil {
		return fmt.Errorf("failed to delete spots: %w", err)
	}
	return nil
}
