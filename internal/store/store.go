// Package store persists developer records for the reference backend.
//
// Two implementations share the Store interface: MemoryStore for tests and throwaway runs,
// SQLiteStore for anything that should survive a restart. Both hand out integer ids in
// insertion order and list records in that order.
package store

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"devroster/internal/model"
)

// ErrNotFound is returned when no record has the given id.
var ErrNotFound = errors.New("not found")

// Store is a developer record repository.
type Store interface {
	List(ctx context.Context) ([]model.Developer, error)
	Get(ctx context.Context, id model.ID) (model.Developer, error)
	// Create assigns a fresh id and returns the stored record.
	Create(ctx context.Context, d model.Developer) (model.Developer, error)
	// Update replaces the record with id and returns it.
	Update(ctx context.Context, id model.ID, d model.Developer) (model.Developer, error)
	Delete(ctx context.Context, id model.ID) error
	Close() error
}

// parseID maps an opaque id onto the integer key space. Anything else cannot exist.
func parseID(id model.ID) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(id.String()), 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrNotFound
	}
	return n, nil
}

func formatID(n int64) model.ID { return model.ID(strconv.FormatInt(n, 10)) }
