package domain

import "errors"

// Sentinel errors for common conditions. Handlers match these with
// errors.Is to pick a response status.
var (
	// ErrNotFound is returned when an entity, or a parent it requires,
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidContainerType is returned when a container type string
	// falls outside the closed enum.
	ErrInvalidContainerType = errors.New("invalid container type")

	// ErrVersionTooNew is returned when a backup file's schema version
	// exceeds what this build understands. Nothing is written.
	ErrVersionTooNew = errors.New("backup schema version too new")
)
