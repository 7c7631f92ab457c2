package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_OnlyWhilePlaying(t *testing.T) {
	e, err := NewEngine(createTestConfig(3, 3, 2))
	require.NoError(t, err)
	assert.Nil(t, e.Snapshot(), "idle")

	lost := newPlayingEngine(t, 3, 3, []int{4})
	lost.Reveal(4)
	assert.Nil(t, lost.Snapshot(), "lost")
}

func TestSnapshot_RoundTrip(t *testing.T) {
	clock := newFakeClock()
	e := newPlayingEngine(t, 3, 3, cornerMines, WithClock(clock))
	e.Reveal(1)
	e.Flag(0)
	clock.Advance(42 * time.Second)

	snap := e.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, StateMined|StateFlagged, snap.Cells[0])
	assert.Equal(t, StateOpen, snap.Cells[1])
	assert.Equal(t, StateMined, snap.Cells[2])
	assert.Equal(t, CellState(0), snap.Cells[4])
	assert.Equal(t, cornerMines, snap.Mines)
	assert.Equal(t, Counters{Time: 42, Moves: 1}, snap.Counters)

	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))

	restoredClock := newFakeClock()
	restored, err := RestoreEngine(createTestConfig(3, 3, 2), &decoded, WithClock(restoredClock))
	require.NoError(t, err)

	assert.Equal(t, StatusPlaying, restored.Status())
	assert.Equal(t, cornerMines, restored.Mines())
	assert.Equal(t, 1, restored.Moves())
	assert.Equal(t, 1, restored.FlagsRemaining())
	assert.Equal(t, 42, restored.ElapsedSeconds())
	for id := range e.Board().CellCount() {
		want, _ := e.Cell(id)
		got, _ := restored.Cell(id)
		assert.Equal(t, want, got, "cell %d", id)
	}

	restoredClock.Advance(3 * time.Second)
	assert.Equal(t, 45, restored.ElapsedSeconds())

	// play continues from the restored position
	d := restored.Reveal(2)
	assert.Equal(t, StatusLost, d.Status)
	assert.Equal(t, 45, restored.ElapsedSeconds())
}

func validSnapshot() *Snapshot {
	return &Snapshot{
		Cells: []CellState{
			StateMined | StateFlagged, StateOpen, StateMined,
			0, 0, 0,
			0, 0, 0,
		},
		Mines:    []int{0, 2},
		Counters: Counters{Time: 10, Moves: 1},
	}
}

func TestRestoreEngine_CorruptSnapshots(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Snapshot)
	}{
		{"too few cells", func(s *Snapshot) { s.Cells = s.Cells[:8] }},
		{"too many cells", func(s *Snapshot) { s.Cells = append(s.Cells, 0) }},
		{"mine count differs from config", func(s *Snapshot) {
			s.Mines = []int{0}
			s.Cells[2] = 0
		}},
		{"mine out of range", func(s *Snapshot) { s.Mines = []int{0, 9} }},
		{"negative mine", func(s *Snapshot) { s.Mines = []int{-1, 0} }},
		{"duplicate mine", func(s *Snapshot) { s.Mines = []int{0, 0} }},
		{"mined bit without mine", func(s *Snapshot) { s.Cells[3] |= StateMined }},
		{"mine without mined bit", func(s *Snapshot) { s.Cells[2] = 0 }},
		{"open mine", func(s *Snapshot) { s.Cells[2] = StateMined | StateOpen }},
		{"open and flagged", func(s *Snapshot) { s.Cells[1] = StateOpen | StateFlagged }},
		{"unknown bits", func(s *Snapshot) { s.Cells[4] = 8 }},
		{"negative time", func(s *Snapshot) { s.Counters.Time = -1 }},
		{"negative moves", func(s *Snapshot) { s.Counters.Moves = -5 }},
		{"already won", func(s *Snapshot) {
			for _, id := range []int{1, 3, 4, 5, 6, 7, 8} {
				s.Cells[id] = StateOpen
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := validSnapshot()
			tt.mutate(snap)

			_, err := RestoreEngine(createTestConfig(3, 3, 2), snap)
			assert.ErrorIs(t, err, ErrCorruptSnapshot)
		})
	}
}

func TestRestoreEngine_Valid(t *testing.T) {
	e, err := RestoreEngine(createTestConfig(3, 3, 2), validSnapshot())
	require.NoError(t, err)

	assert.Equal(t, StatusPlaying, e.Status())
	assert.Equal(t, []string{"F2#", "###", "###"}, e.State().Grid)
}

func TestRestoreEngine_Errors(t *testing.T) {
	_, err := RestoreEngine(createTestConfig(3, 3, 2), nil)
	assert.ErrorIs(t, err, ErrCorruptSnapshot)

	// a snapshot taken on a different board
	_, err = RestoreEngine(createTestConfig(4, 4, 2), validSnapshot())
	assert.ErrorIs(t, err, ErrCorruptSnapshot)

	_, err = RestoreEngine(createTestConfig(0, 3, 2), validSnapshot())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCorruptSnapshot)
}

func TestRestoreEngine_ClampedMineCount(t *testing.T) {
	snap := &Snapshot{
		Cells:    []CellState{StateOpen, StateMined, StateMined, StateMined},
		Mines:    []int{1, 2, 3},
		Counters: Counters{Moves: 1},
	}

	// the config asks for more mines than fit, so the count clamps to 3
	_, err := RestoreEngine(createTestConfig(2, 2, 10), snap)
	assert.ErrorIs(t, err, ErrCorruptSnapshot, "a position with every safe cell open is already won")

	snap.Cells[0] = 0
	e, err := RestoreEngine(createTestConfig(2, 2, 10), snap)
	require.NoError(t, err)
	assert.Equal(t, 3, e.MineCount())
}
