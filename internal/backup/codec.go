// Package backup exports the whole inventory to a JSON snapshot and
// restores it atomically.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"trovo/internal/domain"
)

// SchemaVersion is the current snapshot format. Snapshots written by a
// newer release are rejected; older versions are upgraded on read.
const SchemaVersion = 3

const appName = "trovo"

// File is the top-level snapshot document.
type File struct {
	SchemaVersion int    `json:"schemaVersion"`
	AppName       string `json:"appName"`
	ExportedAt    int64  `json:"exportedAt"`
	Data          Data   `json:"data"`
}

// Data carries every table, parents before children.
type Data struct {
	Rooms      []roomRecord      `json:"rooms"`
	Containers []containerRecord `json:"containers"`
	Spots      []spotRecord      `json:"spots"`
	Items      []itemRecord      `json:"items"`
	Documents  []documentRecord  `json:"documents"`
}

// Timestamps are serialized as unix milliseconds, matching the storage
// representation, so a round trip loses nothing.

type roomRecord struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon,omitempty"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

type containerRecord struct {
	ID         int64  `json:"id"`
	RoomID     int64  `json:"roomId"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Note       string `json:"note,omitempty"`
	IsFavorite bool   `json:"isFavorite"`
	CreatedAt  int64  `json:"createdAt"`
	UpdatedAt  int64  `json:"updatedAt"`
}

type spotRecord struct {
	ID          int64  `json:"id"`
	ContainerID int64  `json:"containerId"`
	Label       string `json:"label"`
	Code        string `json:"code"`
	Note        string `json:"note,omitempty"`
	IsFavorite  bool   `json:"isFavorite"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

type itemRecord struct {
	ID        int64  `json:"id"`
	SpotID    int64  `json:"spotId"`
	Name      string `json:"name"`
	Category  string `json:"category,omitempty"`
	Keywords  string `json:"keywords,omitempty"`
	Tags      string `json:"tags,omitempty"`
	Note      string `json:"note,omitempty"`
	ImagePath string `json:"imagePath,omitempty"`
	IsLent    bool   `json:"isLent"`
	LentTo    string `json:"lentTo,omitempty"`
	LentDate  *int64 `json:"lentDate,omitempty"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

type documentRecord struct {
	ID         int64    `json:"id"`
	SpotID     int64    `json:"spotId"`
	Title      string   `json:"title"`
	DocType    string   `json:"docType,omitempty"`
	Person     string   `json:"person,omitempty"`
	ExpiryDate *int64   `json:"expiryDate,omitempty"`
	Tags       string   `json:"tags,omitempty"`
	Note       string   `json:"note,omitempty"`
	FilePaths  []string `json:"filePaths"`
	CreatedAt  int64    `json:"createdAt"`
	UpdatedAt  int64    `json:"updatedAt"`

	// Schema version 1 stored a single attachment path. Kept only for
	// reading old snapshots; never written.
	LegacyFilePath string `json:"filePath,omitempty"`
}

// Encode writes f as indented JSON.
func (f *File) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// Decode parses a snapshot, upgrading legacy document records, and
// rejects snapshots written by a newer release.
func Decode(r io.Reader) (*File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	if f.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("%w: snapshot version %d, supported up to %d",
			domain.ErrVersionTooNew, f.SchemaVersion, SchemaVersion)
	}

	for i := range f.Data.Documents {
		d := &f.Data.Documents[i]
		if len(d.FilePaths) == 0 && d.LegacyFilePath != "" {
			d.FilePaths = []string{d.LegacyFilePath}
		}
		d.LegacyFilePath = ""
	}
	return &f, nil
}

func millisOf(t time.Time) int64 {
	return t.UnixMilli()
}

func millisOfPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func timeOf(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func timeOfPtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}
