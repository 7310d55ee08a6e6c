package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"trovo/internal/domain"
)

type ItemStore struct {
	q querier
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{q: db}
}

// WithTx returns a copy of the store bound to tx.
func (s *ItemStore) WithTx(tx *sql.Tx) *ItemStore {
	return &ItemStore{q: tx}
}

func (s *ItemStore) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	now := millis(time.Now())
	result, err := s.q.ExecContext(ctx, `
		INSERT INTO items (spot_id, name, category, keywords, tags, note, image_path, is_lent, lent_to, lent_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.SpotID, item.Name, item.Category, item.Keywords, item.Tags, item.Note,
		item.ImagePath, item.IsLent, item.LentTo, millisPtr(item.LentDate), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Insert writes an item preserving its id and timestamps. Used by backup
// restore only.
func (s *ItemStore) Insert(ctx context.Context, item *domain.Item) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO items (id, spot_id, name, category, keywords, tags, note, image_path, is_lent, lent_to, lent_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.SpotID, item.Name, item.Category, item.Keywords, item.Tags, item.Note,
		item.ImagePath, item.IsLent, item.LentTo, millisPtr(item.LentDate),
		millis(item.CreatedAt), millis(item.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert item %d: %w", item.ID, err)
	}
	return nil
}

const itemColumns = `id, spot_id, name, category, keywords, tags, note, image_path, is_lent, lent_to, lent_date, created_at, updated_at`

func (s *ItemStore) scan(row interface{ Scan(...any) error }) (*domain.Item, error) {
	item := &domain.Item{}
	var lentDate sql.NullInt64
	var created, updated int64
	if err := row.Scan(&item.ID, &item.SpotID, &item.Name, &item.Category, &item.Keywords,
		&item.Tags, &item.Note, &item.ImagePath, &item.IsLent, &item.LentTo, &lentDate,
		&created, &updated); err != nil {
		return nil, err
	}
	item.LentDate = fromMillisPtr(lentDate)
	item.CreatedAt = fromMillis(created)
	item.UpdatedAt = fromMillis(updated)
	return item, nil
}

func (s *ItemStore) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)

	item, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

func (s *ItemStore) List(ctx context.Context) ([]*domain.Item, error) {
	return s.list(ctx, `SELECT `+itemColumns+` FROM items ORDER BY name ASC`)
}

func (s *ItemStore) ListBySpot(ctx context.Context, spotID int64) ([]*domain.Item, error) {
	return s.list(ctx, `SELECT `+itemColumns+` FROM items WHERE spot_id = ? ORDER BY name ASC`, spotID)
}

// ListRecent returns the limit most recently modified items.
func (s *ItemStore) ListRecent(ctx context.Context, limit int) ([]*domain.Item, error) {
	return s.list(ctx, `SELECT `+itemColumns+` FROM items ORDER BY updated_at DESC LIMIT ?`, limit)
}

// Search matches items whose name, tags, keywords, or category contains
// the query, most recently modified first.
func (s *ItemStore) Search(ctx context.Context, query string) ([]*domain.Item, error) {
	pattern := "%" + query + "%"
	return s.list(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE name LIKE ? OR tags LIKE ? OR keywords LIKE ? OR category LIKE ?
		ORDER BY updated_at DESC
	`, pattern, pattern, pattern, pattern)
}

func (s *ItemStore) list(ctx context.Context, query string, args ...any) ([]*domain.Item, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		item, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// Update replaces the item's mutable fields and bumps updated_at. The
// parent spot is changed through Move, not here.
func (s *ItemStore) Update(ctx context.Context, item *domain.Item) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE items SET name = ?, category = ?, keywords = ?, tags = ?, note = ?, image_path = ?,
			is_lent = ?, lent_to = ?, lent_date = ?, updated_at = ?
		WHERE id = ?
	`, item.Name, item.Category, item.Keywords, item.Tags, item.Note, item.ImagePath,
		item.IsLent, item.LentTo, millisPtr(item.LentDate), millis(time.Now()), item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	return s.checkAffected(result, item.ID)
}

// Move reassigns the item to a different spot, leaving every other
// field alone.
func (s *ItemStore) Move(ctx context.Context, id, newSpotID int64) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE items SET spot_id = ?, updated_at = ? WHERE id = ?
	`, newSpotID, millis(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to move item: %w", err)
	}

	return s.checkAffected(result, id)
}

// SetLent records the item being lent out or returned. lentTo and
// lentDate are cleared when isLent is false.
func (s *ItemStore) SetLent(ctx context.Context, id int64, isLent bool, lentTo string, lentDate *time.Time) error {
	if !isLent {
		lentTo = ""
		lentDate = nil
	}
	result, err := s.q.ExecContext(ctx, `
		UPDATE items SET is_lent = ?, lent_to = ?, lent_date = ?, updated_at = ? WHERE id = ?
	`, isLent, lentTo, millisPtr(lentDate), millis(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to update item lending: %w", err)
	}

	return s.checkAffected(result, id)
}

func (s *ItemStore) Delete(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	return s.checkAffected(result, id)
}

func (s *ItemStore) DeleteAll(ctx context.Context) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}
	return nil
}

func (s *ItemStore) checkAffected(result sql.Result, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
