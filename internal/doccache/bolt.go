package doccache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	// FileName is the name of the database file inside the cache directory.
	FileName = "documents.db"

	bucketDocuments = "documents"
)

// Bolt is a persistent Cache stored in a single bbolt file.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens, creating when needed, the cache database in dir.
func OpenBolt(dir string) (*Bolt, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, FileName)
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open document cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketDocuments))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize document cache %s: %w", path, err)
	}
	return &Bolt{db: db}, nil
}

// Get retrieves the entry for id.
func (b *Bolt) Get(ctx context.Context, id string) (Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, false, err
	}
	var (
		entry Entry
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketDocuments)).Get([]byte(id))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &entry)
	})
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to read cached document %q: %w", id, err)
	}
	return entry, found, nil
}

// Put stores an entry.
func (b *Bolt) Put(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketDocuments)).Put([]byte(entry.ID), data)
	})
}

// Delete removes the entry for id.
func (b *Bolt) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketDocuments)).Delete([]byte(id))
	})
}

// Close closes the database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}
