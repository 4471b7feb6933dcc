package storage

import (
	"fmt"

	"github.com/IshaanNene/reviewmood/internal/types"
)

// Storage is the interface for review sinks.
type Storage interface {
	// Store persists a batch of reviews.
	Store(reviews []types.Review) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// Persist writes reviews to store and closes it. The store is closed even
// when the write fails.
func Persist(store Storage, reviews []types.Review) error {
	if err := store.Store(reviews); err != nil {
		_ = store.Close()
		return fmt.Errorf("%s store: %w", store.Name(), err)
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("%s close: %w", store.Name(), err)
	}
	return nil
}
