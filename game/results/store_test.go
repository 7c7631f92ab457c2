package results

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func openTestDB(t *testing.T) *bolt.DB {
	t.Helper()
	db, err := bolt.Open(filepath.Join(t.TempDir(), "results.db"), 0600, &bolt.Options{Timeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func stores(t *testing.T) map[string]Store {
	boltStore, err := NewBoltStore(openTestDB(t))
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"bolt":   boltStore,
	}
}

func TestStore_AddAndList(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			var added []Result
			for i := 0; i < 5; i++ {
				r, err := store.Add(ctx, Result{
					SessionID: "ab12",
					Won:       i%2 == 0,
					Time:      10 + i,
					Moves:     i + 1,
					Rows:      10,
					Cols:      10,
					Mines:     15,
				})
				require.NoError(t, err)
				assert.NotEmpty(t, r.ID)
				assert.False(t, r.Timestamp.IsZero())
				added = append(added, r)
			}

			all, err := store.List(ctx, 0)
			require.NoError(t, err)
			require.Len(t, all, 5)
			for i, r := range all {
				assert.Equal(t, added[len(added)-1-i].ID, r.ID, "newest first")
			}
			assert.Equal(t, 5, all[0].Moves)
			assert.True(t, all[0].Won)

			limited, err := store.List(ctx, 2)
			require.NoError(t, err)
			assert.Equal(t, all[:2], limited)
		})
	}
}

func TestStore_Empty(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			list, err := store.List(context.Background(), 10)
			require.NoError(t, err)
			assert.Empty(t, list)
			assert.NoError(t, store.Close())
		})
	}
}

func TestStore_KeepsGivenID(t *testing.T) {
	store := NewMemoryStore()
	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	r, err := store.Add(context.Background(), Result{ID: "fixed", Timestamp: ts})
	require.NoError(t, err)
	assert.Equal(t, "fixed", r.ID)
	assert.Equal(t, ts, r.Timestamp)
}

func TestBoltStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	ctx := context.Background()

	db, err := bolt.Open(path, 0600, nil)
	require.NoError(t, err)
	store, err := NewBoltStore(db)
	require.NoError(t, err)
	first, err := store.Add(ctx, Result{Won: true, Time: 42, Moves: 7, Rows: 9, Cols: 9, Mines: 10})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = bolt.Open(path, 0600, nil)
	require.NoError(t, err)
	defer db.Close()
	store, err = NewBoltStore(db)
	require.NoError(t, err)

	list, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, 42, list[0].Time)
	assert.True(t, first.Timestamp.Equal(list[0].Timestamp))
}
