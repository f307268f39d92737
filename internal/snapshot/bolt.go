package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"agentdeals/internal/models"
)

var bucketSnapshot = []byte("pricing_snapshot")

// BoltStore keeps one JSON-encoded entry per vendor in a bbolt bucket.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) a bbolt database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Load reads every vendor entry. A missing bucket yields an empty snapshot.
func (s *BoltStore) Load(_ context.Context) (models.Snapshot, error) {
	snap := models.Snapshot{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSnapshot)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var entry models.SnapshotEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("decode entry %q: %w", k, err)
			}
			snap[string(k)] = entry
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Save drops and recreates the bucket in one transaction.
func (s *BoltStore) Save(_ context.Context, snap models.Snapshot) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketSnapshot) != nil {
			if err := tx.DeleteBucket(bucketSnapshot); err != nil {
				return err
			}
		}
		b, err := tx.CreateBucket(bucketSnapshot)
		if err != nil {
			return err
		}
		for vendor, entry := range snap {
			v, err := json.Marshal(entry)
			if err != nil {
				return fmt.Errorf("encode entry %q: %w", vendor, err)
			}
			if err := b.Put([]byte(vendor), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
