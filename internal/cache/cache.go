package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/handiism/keymix/internal/model"
)

const keyPrefix = "track:"

// Entry is a cached key for one file.
type Entry struct {
	Key        model.Key       `json:"key"`
	Confidence float64         `json:"confidence"`
	Source     model.KeySource `json:"source"`

	// ModUnix and Size are the file signature at the time of Put.
	ModUnix int64 `json:"mtime"`
	Size    int64 `json:"size"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}

// Store is a persistent key cache backed by badger.
type Store struct {
	db *badger.DB

	hits   atomic.Int64
	misses atomic.Int64
}

// Open opens or creates a cache database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a cache that is discarded on Close.
func OpenInMemory() (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory cache: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Signature returns the modification time in unix seconds and the size of
// the file at path.
func Signature(path string) (int64, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, err
	}
	return info.ModTime().Unix(), info.Size(), nil
}

// Get returns the cached entry for path. The boolean is false when nothing
// is cached or the file changed since the entry was stored.
func (s *Store) Get(path string) (Entry, bool, error) {
	mtime, size, err := Signature(path)
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	var entry Entry
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + path))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		s.misses.Add(1)
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if entry.ModUnix != mtime || entry.Size != size {
		s.misses.Add(1)
		return Entry{}, false, nil
	}

	s.hits.Add(1)
	return entry, true, nil
}

// Put stores entry for path, replacing any previous entry. The current file
// signature is recorded and AnalyzedAt is set when zero.
func (s *Store) Put(path string, entry Entry) error {
	mtime, size, err := Signature(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	entry.ModUnix = mtime
	entry.Size = size
	if entry.AnalyzedAt.IsZero() {
		entry.AnalyzedAt = time.Now().UTC()
	}

	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+path), value)
	})
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry for path, if any.
func (s *Store) Delete(path string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + path))
	})
}

// Stats returns the hit and miss counts since the store was opened.
func (s *Store) Stats() (hits, misses int64) {
	return s.hits.Load(), s.misses.Load()
}
