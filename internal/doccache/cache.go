package doccache

import (
	"context"
	"time"
)

// Entry is one cached document.
type Entry struct {
	ID      string    `json:"id"`
	Path    string    `json:"path"`
	ModTime time.Time `json:"mod_time"`
	Source  string    `json:"source"`
}

// Cache defines the contract for storing fetched documents. Implementations
// must be safe for concurrent use.
type Cache interface {
	// Get returns the entry for id. found is false when none is stored.
	Get(ctx context.Context, id string) (entry Entry, found bool, err error)
	// Put stores an entry, replacing any previous entry with the same id.
	Put(ctx context.Context, entry Entry) error
	// Delete removes the entry for id. Deleting a missing entry is not an
	// error.
	Delete(ctx context.Context, id string) error
	// Close releases the resources held by the cache.
	Close() error
}
