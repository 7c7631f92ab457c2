package results

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

var resultsBucket = []byte("results")

// BoltStore keeps results in a bbolt bucket keyed by result id
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates the results bucket if needed. The caller owns db.
func NewBoltStore(db *bolt.DB) (*BoltStore, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(resultsBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create results bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Add stores a result
func (s *BoltStore) Add(ctx context.Context, r Result) (Result, error) {
	r = stamp(r)

	data, err := json.Marshal(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal result: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(resultsBucket).Put([]byte(r.ID), data)
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to store result: %w", err)
	}
	return r, nil
}

// List walks the bucket backwards so the newest results come first
func (s *BoltStore) List(ctx context.Context, limit int) ([]Result, error) {
	var out []Result
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(resultsBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(out) >= limit {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			var r Result
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("failed to decode result %s: %w", k, err)
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close leaves the shared database open
func (s *BoltStore) Close() error {
	return nil
}
