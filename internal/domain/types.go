package domain

import (
	"fmt"
	"time"
)

// ContainerType is the closed set of storage unit kinds. It is validated
// at the service boundary; the store never sees a value outside this set.
type ContainerType string

const (
	ContainerWardrobe ContainerType = "wardrobe"
	ContainerDrawer   ContainerType = "drawer"
	ContainerShelf    ContainerType = "shelf"
	ContainerFolder   ContainerType = "folder"
	ContainerOther    ContainerType = "other"
)

// ContainerTypes lists every valid container type.
var ContainerTypes = []ContainerType{
	ContainerWardrobe,
	ContainerDrawer,
	ContainerShelf,
	ContainerFolder,
	ContainerOther,
}

// ParseContainerType converts a stored or user-supplied string into a
// ContainerType, rejecting anything outside the closed set.
func ParseContainerType(s string) (ContainerType, error) {
	for _, t := range ContainerTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidContainerType, s)
}

// Room is a top-level physical space. It has no parent.
type Room struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Container is a storage unit inside a room. Deleting the room cascades
// to its containers.
type Container struct {
	ID         int64         `json:"id"`
	RoomID     int64         `json:"roomId"`
	Name       string        `json:"name"`
	Type       ContainerType `json:"type"`
	Note       string        `json:"note"`
	IsFavorite bool          `json:"isFavorite"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// Spot is an addressable location inside a container. Code is globally
// unique and never regenerated after assignment, even when the owning
// room or container is later renamed.
type Spot struct {
	ID          int64     `json:"id"`
	ContainerID int64     `json:"containerId"`
	Label       string    `json:"label"`
	Code        string    `json:"code"`
	Note        string    `json:"note"`
	IsFavorite  bool      `json:"isFavorite"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Item is a physical belonging placed in exactly one spot.
type Item struct {
	ID        int64      `json:"id"`
	SpotID    int64      `json:"spotId"`
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	Keywords  string     `json:"keywords"`
	Tags      string     `json:"tags"`
	Note      string     `json:"note"`
	ImagePath string     `json:"imagePath"`
	IsLent    bool       `json:"isLent"`
	LentTo    string     `json:"lentTo"`
	LentDate  *time.Time `json:"lentDate"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Document is a paper or file placed in exactly one spot. FilePaths is
// an ordered list of attachment paths; the paths are opaque to this
// system and never dereferenced.
type Document struct {
	ID         int64      `json:"id"`
	SpotID     int64      `json:"spotId"`
	Title      string     `json:"title"`
	DocType    string     `json:"docType"`
	Person     string     `json:"person"`
	ExpiryDate *time.Time `json:"expiryDate"`
	Tags       string     `json:"tags"`
	Note       string     `json:"note"`
	FilePaths  []string   `json:"filePaths"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// EntryKind distinguishes the two kinds of tracked contents in merged
// search and recent-entry listings.
type EntryKind string

const (
	KindItem     EntryKind = "item"
	KindDocument EntryKind = "document"
)

// SearchResult is one row of a global search: the matched entity plus
// its resolved location.
type SearchResult struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Kind       EntryKind `json:"kind"`
	SpotID     int64     `json:"spotId"`
	SpotCode   string    `json:"spotCode"`
	Breadcrumb string    `json:"breadcrumb"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// RecentEntry is one row of the recent-activity listing.
type RecentEntry struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Kind       EntryKind `json:"kind"`
	Breadcrumb string    `json:"breadcrumb"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FavoriteKind distinguishes favorite containers from favorite spots.
type FavoriteKind string

const (
	FavoriteContainer FavoriteKind = "container"
	FavoriteSpot      FavoriteKind = "spot"
)

// Favorite is one row of the favorites listing.
type Favorite struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Kind       FavoriteKind `json:"kind"`
	Breadcrumb string       `json:"breadcrumb"`
}
