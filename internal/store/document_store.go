package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trovo/internal/domain"
)

type DocumentStore struct {
	q querier
}

func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{q: db}
}

// WithTx returns a copy of the store bound to tx.
func (s *DocumentStore) WithTx(tx *sql.Tx) *DocumentStore {
	return &DocumentStore{q: tx}
}

// encodeFilePaths serializes the ordered attachment list as JSON text,
// the same representation the mobile app used for this column.
func encodeFilePaths(paths []string) (string, error) {
	if len(paths) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(paths)
	if err != nil {
		return "", fmt.Errorf("failed to encode file paths: %w", err)
	}
	return string(data), nil
}

func decodeFilePaths(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var paths []string
	if err := json.Unmarshal([]byte(raw), &paths); err != nil {
		return nil, fmt.Errorf("failed to decode file paths: %w", err)
	}
	return paths, nil
}

func (s *DocumentStore) Create(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	paths, err := encodeFilePaths(doc.FilePaths)
	if err != nil {
		return nil, err
	}

	now := millis(time.Now())
	result, err := s.q.ExecContext(ctx, `
		INSERT INTO documents (spot_id, title, doc_type, person, expiry_date, tags, note, file_paths, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.SpotID, doc.Title, doc.DocType, doc.Person, millisPtr(doc.ExpiryDate),
		doc.Tags, doc.Note, paths, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Insert writes a document preserving its id and timestamps. Used by
// backup restore only.
func (s *DocumentStore) Insert(ctx context.Context, doc *domain.Document) error {
	paths, err := encodeFilePaths(doc.FilePaths)
	if err != nil {
		return err
	}

	_, err = s.q.ExecContext(ctx, `
		INSERT INTO documents (id, spot_id, title, doc_type, person, expiry_date, tags, note, file_paths, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.SpotID, doc.Title, doc.DocType, doc.Person, millisPtr(doc.ExpiryDate),
		doc.Tags, doc.Note, paths, millis(doc.CreatedAt), millis(doc.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert document %d: %w", doc.ID, err)
	}
	return nil
}

const documentColumns = `id, spot_id, title, doc_type, person, expiry_date, tags, note, file_paths, created_at, updated_at`

func (s *DocumentStore) scan(row interface{ Scan(...any) error }) (*domain.Document, error) {
	doc := &domain.Document{}
	var expiry sql.NullInt64
	var rawPaths string
	var created, updated int64
	if err := row.Scan(&doc.ID, &doc.SpotID, &doc.Title, &doc.DocType, &doc.Person,
		&expiry, &doc.Tags, &doc.Note, &rawPaths, &created, &updated); err != nil {
		return nil, err
	}

	paths, err := decodeFilePaths(rawPaths)
	if err != nil {
		return nil, err
	}
	doc.FilePaths = paths
	doc.ExpiryDate = fromMillisPtr(expiry)
	doc.CreatedAt = fromMillis(created)
	doc.UpdatedAt = fromMillis(updated)
	return doc, nil
}

func (s *DocumentStore) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)

	doc, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

func (s *DocumentStore) List(ctx context.Context) ([]*domain.Document, error) {
	return s.list(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY title ASC`)
}

func (s *DocumentStore) ListBySpot(ctx context.Context, spotID int64) ([]*domain.Document, error) {
	return s.list(ctx, `SELECT `+documentColumns+` FROM documents WHERE spot_id = ? ORDER BY title ASC`, spotID)
}

// ListRecent returns the limit most recently modified documents.
func (s *DocumentStore) ListRecent(ctx context.Context, limit int) ([]*domain.Document, error) {
	return s.list(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY updated_at DESC LIMIT ?`, limit)
}

// ListExpiring returns documents carrying an expiry date, soonest first.
func (s *DocumentStore) ListExpiring(ctx context.Context) ([]*domain.Document, error) {
	return s.list(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE expiry_date IS NOT NULL AND expiry_date > 0
		ORDER BY expiry_date ASC
	`)
}

// Search matches documents whose title, tags, type, or person contains
// the query, most recently modified first.
func (s *DocumentStore) Search(ctx context.Context, query string) ([]*domain.Document, error) {
	pattern := "%" + query + "%"
	return s.list(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE title LIKE ? OR tags LIKE ? OR doc_type LIKE ? OR person LIKE ?
		ORDER BY updated_at DESC
	`, pattern, pattern, pattern, pattern)
}

func (s *DocumentStore) list(ctx context.Context, query string, args ...any) ([]*domain.Document, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return docs, nil
}

// Update replaces the document's mutable fields and bumps updated_at.
// The parent spot is changed through Move, not here.
func (s *DocumentStore) Update(ctx context.Context, doc *domain.Document) error {
	paths, err := encodeFilePaths(doc.FilePaths)
	if err != nil {
		return err
	}

	result, err := s.q.ExecContext(ctx, `
		UPDATE documents SET title = ?, doc_type = ?, person = ?, expiry_date = ?, tags = ?, note = ?, file_paths = ?, updated_at = ?
		WHERE id = ?
	`, doc.Title, doc.DocType, doc.Person, millisPtr(doc.ExpiryDate), doc.Tags, doc.Note,
		paths, millis(time.Now()), doc.ID)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	return s.checkAffected(result, doc.ID)
}

// Move reassigns the document to a different spot, leaving every other
// field alone.
func (s *DocumentStore) Move(ctx context.Context, id, newSpotID int64) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE documents SET spot_id = ?, updated_at = ? WHERE id = ?
	`, newSpotID, millis(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to move document: %w", err)
	}

	return s.checkAffected(result, id)
}

func (s *DocumentStore) Delete(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return s.checkAffected(result, id)
}

func (s *DocumentStore) DeleteAll(ctx context.Context) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}

func (s *DocumentStore) checkAffected(result sql.Result, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
