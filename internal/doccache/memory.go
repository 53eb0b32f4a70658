package doccache

import (
	"context"
	"sync"
)

// Memory is an in-memory implementation of Cache using sync.Map. The key
// space is small and stable once every document has been read, which is the
// access pattern sync.Map is built for.
type Memory struct {
	entries sync.Map // Key: document id, Value: Entry
}

// NewMemory creates a new, empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{}
}

// Get retrieves the entry for id.
func (m *Memory) Get(ctx context.Context, id string) (Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, false, err
	}
	v, ok := m.entries.Load(id)
	if !ok {
		return Entry{}, false, nil
	}
	return v.(Entry), true, nil
}

// Put stores an entry.
func (m *Memory) Put(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.entries.Store(entry.ID, entry)
	return nil
}

// Delete removes the entry for id.
func (m *Memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.entries.Delete(id)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
