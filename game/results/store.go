package results

import (
	"context"
	"sync"
	"time"

	"github.com/rs/xid"
)

// Result is one finished game
type Result struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id,omitempty"`
	ConfigID  string    `json:"config_id,omitempty"`
	Timestamp time.Time `json:"ts"`
	Won       bool      `json:"won"`
	Time      int       `json:"time"`
	Moves     int       `json:"moves"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	Mines     int       `json:"mines"`
}

// Store persists finished games. List returns the newest first.
type Store interface {
	Add(ctx context.Context, r Result) (Result, error)
	List(ctx context.Context, limit int) ([]Result, error)
	Close() error
}

// stamp fills in the id and timestamp of a new result. xid ids sort by
// creation time, so stores can order by key.
func stamp(r Result) Result {
	if r.ID == "" {
		r.ID = xid.New().String()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	return r
}

// MemoryStore keeps results in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	results []Result
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Add appends a result
func (m *MemoryStore) Add(ctx context.Context, r Result) (Result, error) {
	r = stamp(r)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return r, nil
}

// List returns up to limit results, newest first. A limit <= 0 returns all.
func (m *MemoryStore) List(ctx context.Context, limit int) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.results)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]Result, 0, n)
	for i := len(m.results) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.results[i])
	}
	return out, nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}
