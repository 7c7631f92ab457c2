package session

import (
	"fmt"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
	"github.com/wricardo/mcp-training/minesweeper/game/service"
)

var sessionsBucket = []byte("sessions")

// BoltPersistence implements SessionPersistence on a bbolt bucket keyed by
// lower-cased session ID
type BoltPersistence struct {
	db    *bolt.DB
	codec codec
}

// NewBoltPersistence creates the sessions bucket if needed. The caller owns db.
func NewBoltPersistence(db *bolt.DB, configManager service.ConfigManager, opts ...engine.Option) (*BoltPersistence, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sessions bucket: %w", err)
	}

	return &BoltPersistence{
		db:    db,
		codec: codec{configManager: configManager, engineOptions: opts},
	}, nil
}

// Save persists a session
func (bp *BoltPersistence) Save(session *service.Session) error {
	data, err := bp.codec.encode(session)
	if err != nil {
		return err
	}

	err = bp.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put(key(session.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Load retrieves a session by ID
func (bp *BoltPersistence) Load(id string) (*service.Session, error) {
	var data []byte
	err := bp.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(sessionsBucket).Get(key(id)); v != nil {
			// v is only valid inside the transaction
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if data == nil {
		return nil, ErrSessionNotFound
	}

	return bp.codec.decode(data)
}

// Delete removes a session
func (bp *BoltPersistence) Delete(id string) error {
	if !bp.Exists(id) {
		return ErrSessionNotFound
	}

	err := bp.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete(key(id))
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ListAll returns all persisted session IDs
func (bp *BoltPersistence) ListAll() ([]string, error) {
	var ids []string
	err := bp.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return ids, nil
}

// Exists checks if a session is stored
func (bp *BoltPersistence) Exists(id string) bool {
	found := false
	bp.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(sessionsBucket).Get(key(id)) != nil
		return nil
	})
	return found
}

func key(id string) []byte {
	return []byte(strings.ToLower(id))
}
