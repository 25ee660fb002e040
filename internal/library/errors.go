package library

import (
	"fmt"

	"github.com/desertthunder/tocata/internal/shared"
)

// ValidationError reports malformed input to a mutating call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return shared.ErrInvalidInput }

// NotFoundError reports a reference to a playlist or track that does not exist.
type NotFoundError struct {
	Kind string // "playlist" or "track"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	if e.Kind == "track" {
		return shared.ErrTrackNotFound
	}
	return shared.ErrPlaylistNotFound
}

// PersistenceError wraps a serialization or storage failure for one key.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{shared.ErrPersistence, e.Err}
}
