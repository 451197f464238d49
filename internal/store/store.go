// Package store persists the visit counter shown in the footer.
package store

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket and key names
var (
	bucketCounters = []byte("counters")
	keyVisits      = []byte("visitCount")
)

// VisitStore counts visits using BoltDB.
type VisitStore struct {
	db *bolt.DB

	mu     sync.Mutex // guards memory-only mode
	visits uint64
}

// NewVisitStore opens the counter database at path. An empty path keeps the
// counter in memory only.
func NewVisitStore(path string) (*VisitStore, error) {
	if path == "" {
		return &VisitStore{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCounters)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &VisitStore{db: db}, nil
}

// Close closes the underlying database
func (s *VisitStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Increment records one visit and returns the new total
func (s *VisitStore) Increment() (int, error) {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.visits++
		return int(s.visits), nil
	}

	var n uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCounters)
		n = decodeCount(b.Get(keyVisits)) + 1
		return b.Put(keyVisits, encodeCount(n))
	})
	if err != nil {
		return 0, fmt.Errorf("failed to record visit: %w", err)
	}
	return int(n), nil
}

// Count returns the number of recorded visits
func (s *VisitStore) Count() (int, error) {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return int(s.visits), nil
	}

	var n uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		n = decodeCount(tx.Bucket(bucketCounters).Get(keyVisits))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// decodeCount treats a missing or malformed value as zero
func decodeCount(v []byte) uint64 {
	if len(v) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(v)
}

func encodeCount(n uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, n)
	return buf
}
