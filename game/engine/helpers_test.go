package engine

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed*31+7))
}

func createTestConfig(rows, cols, mines int) *GameConfig {
	return &GameConfig{
		Name:        "test",
		Description: "engine test board",
		Rows:        rows,
		Cols:        cols,
		Mines:       mines,
	}
}

// newPlayingEngine starts a game with a fixed mine layout
func newPlayingEngine(t *testing.T, rows, cols int, mines []int, opts ...Option) *GameEngine {
	t.Helper()
	e, err := NewEngine(createTestConfig(rows, cols, len(mines)), opts...)
	require.NoError(t, err)
	e.begin(mines)
	return e
}

func openIDs(e *GameEngine) []int {
	var ids []int
	for i := range e.cells {
		if e.cells[i].Open {
			ids = append(ids, i)
		}
	}
	return ids
}
