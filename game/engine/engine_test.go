package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine(t *testing.T) {
	config := createTestConfig(8, 12, 20)
	e, err := NewEngine(config)
	require.NoError(t, err)

	assert.Equal(t, StatusIdle, e.Status())
	assert.False(t, e.IsGameOver())
	assert.Equal(t, 0, e.Moves())
	assert.Equal(t, 20, e.FlagsRemaining())
	assert.Empty(t, e.Mines())
	assert.Equal(t, Board{Rows: 8, Cols: 12}, e.Board())
	assert.Equal(t, config, e.GetConfig())

	state := e.State()
	assert.Len(t, state.Cells, 96)
	assert.Len(t, state.Grid, 8)
	assert.False(t, state.Started)
	assert.Equal(t, config.WelcomeMessage(), state.Message)
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	_, err := NewEngine(createTestConfig(0, 5, 1))
	assert.Error(t, err)

	_, err = NewEngine(nil)
	assert.Error(t, err)
}

func TestNewEngineWithDefaults(t *testing.T) {
	e := NewEngineWithDefaults()

	assert.Equal(t, "classic", e.GetConfig().Name)
	assert.Equal(t, 100, e.Board().CellCount())
	assert.Equal(t, 15, e.MineCount())
}

func TestEngine_Flag(t *testing.T) {
	t.Run("ignored while idle", func(t *testing.T) {
		e, err := NewEngine(createTestConfig(3, 3, 2))
		require.NoError(t, err)

		flagged, ok := e.ToggleFlag(0)
		assert.False(t, ok)
		assert.False(t, flagged)
		assert.Equal(t, StatusIdle, e.Status())
	})

	t.Run("toggles closed cells", func(t *testing.T) {
		e := newPlayingEngine(t, 3, 3, cornerMines)

		flagged, ok := e.ToggleFlag(3)
		assert.True(t, ok)
		assert.True(t, flagged)
		assert.Equal(t, 1, e.FlagsRemaining())
		assert.Equal(t, 0, e.Moves(), "flags are not moves")

		flagged, ok = e.ToggleFlag(3)
		assert.True(t, ok)
		assert.False(t, flagged)
		assert.Equal(t, 2, e.FlagsRemaining())
	})

	t.Run("open and out of range cells", func(t *testing.T) {
		e := newPlayingEngine(t, 3, 3, cornerMines)
		e.Reveal(1)

		_, ok := e.ToggleFlag(1)
		assert.False(t, ok)
		_, ok = e.ToggleFlag(-1)
		assert.False(t, ok)
		_, ok = e.ToggleFlag(9)
		assert.False(t, ok)
	})

	t.Run("more flags than mines", func(t *testing.T) {
		e := newPlayingEngine(t, 3, 3, []int{4})
		e.Flag(0)
		e.Flag(1)

		assert.Equal(t, -1, e.FlagsRemaining())
	})

	t.Run("change hides mine bit", func(t *testing.T) {
		e := newPlayingEngine(t, 3, 3, cornerMines)
		d := e.Flag(0)

		require.Len(t, d.Changes, 1)
		assert.Equal(t, StateFlagged, d.Changes[0].State)
		require.Len(t, d.Events, 1)
		assert.Equal(t, EventFlagged, d.Events[0].Type)

		d = e.Flag(0)
		assert.Equal(t, EventUnflagged, d.Events[0].Type)
	})
}

func TestEngine_GodMode(t *testing.T) {
	e := newPlayingEngine(t, 3, 3, cornerMines)
	e.Flag(0)
	e.Flag(3)
	e.Flag(5)

	d := e.GodMode()

	assert.ElementsMatch(t, []int{3, 5}, changedIDs(d))
	assert.Empty(t, openIDs(e), "god mode never opens cells")
	cell, _ := e.Cell(0)
	assert.True(t, cell.Flagged, "flags on mines survive")
	assert.Equal(t, cornerMines, e.Mines())
	assert.Equal(t, 1, e.FlagsRemaining())
	require.Len(t, d.Events, 1)
	assert.Equal(t, EventGodMode, d.Events[0].Type)
	assert.Contains(t, e.State().Message, "2 wrong flags")
}

func TestEngine_GodModeNothingToClear(t *testing.T) {
	e := newPlayingEngine(t, 3, 3, cornerMines)
	e.Flag(0)
	before := e.State().Message

	d := e.GodMode()

	assert.True(t, d.Empty())
	assert.Empty(t, d.Events)
	assert.Equal(t, before, e.State().Message)
	cell, _ := e.Cell(0)
	assert.True(t, cell.Flagged)
}

func TestEngine_GodModeOutsidePlay(t *testing.T) {
	e, err := NewEngine(createTestConfig(3, 3, 1))
	require.NoError(t, err)
	assert.True(t, e.GodMode().Empty())
	assert.Empty(t, e.GodMode().Events)

	lost := newPlayingEngine(t, 3, 3, []int{4})
	lost.Flag(0)
	lost.Reveal(4)
	assert.Empty(t, lost.GodMode().Events)
	cell, _ := lost.Cell(0)
	assert.True(t, cell.Flagged)
}

func TestEngine_Stopwatch(t *testing.T) {
	clock := newFakeClock()
	e, err := NewEngine(createTestConfig(3, 3, 1), WithClock(clock), WithRand(seeded(5)))
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	assert.Equal(t, 0, e.ElapsedSeconds(), "idle games do not count time")

	e.Reveal(4)
	clock.Advance(5 * time.Second)
	assert.Equal(t, 5, e.ElapsedSeconds())
	assert.Equal(t, 5, e.State().ElapsedSeconds)

	e.Reveal(e.Mines()[0])
	require.True(t, e.IsLost())

	clock.Advance(time.Minute)
	assert.Equal(t, 5, e.ElapsedSeconds(), "time freezes once the game is over")
}

func TestEngine_WonMessage(t *testing.T) {
	clock := newFakeClock()
	e := newPlayingEngine(t, 3, 3, []int{4}, WithClock(clock))

	for _, id := range []int{0, 1, 2, 3, 5, 6, 7} {
		e.Reveal(id)
	}
	clock.Advance(7 * time.Second)
	d := e.Reveal(8)

	require.True(t, e.IsWon())
	assert.Equal(t, e.GetConfig().WonMessage(7, 8), e.State().Message)
	assert.Equal(t, fmt.Sprintf(defaultWon, 7, 8), e.State().Message)
	last := d.Events[len(d.Events)-1]
	assert.Equal(t, EventWon, last.Type)
	assert.Equal(t, 8, last.Moves)
	assert.Equal(t, 7, last.Elapsed)
}

func TestEngine_EventsChannel(t *testing.T) {
	events := make(chan Event, 16)
	e, err := NewEngine(createTestConfig(3, 3, 1), WithRand(seeded(11)), WithEvents(events))
	require.NoError(t, err)

	e.Reveal(4)
	e.Reset()

	var types []EventType
	for len(events) > 0 {
		types = append(types, (<-events).Type)
	}
	assert.Equal(t, []EventType{EventStarted, EventOpened, EventReset}, types)
}

func TestEngine_EventsNeverBlock(t *testing.T) {
	events := make(chan Event, 1)
	e, err := NewEngine(createTestConfig(3, 3, 1), WithRand(seeded(11)), WithEvents(events))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		e.Reveal(4)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reveal blocked on a full event channel")
	}
	assert.Equal(t, EventStarted, (<-events).Type)
}

func TestEngine_Reset(t *testing.T) {
	clock := newFakeClock()
	e := newPlayingEngine(t, 3, 3, cornerMines, WithClock(clock))
	e.Reveal(1)
	e.Flag(0)
	clock.Advance(3 * time.Second)
	e.Reveal(2)
	require.True(t, e.IsLost())

	state := e.Reset()

	assert.Equal(t, StatusIdle, state.Status)
	assert.Equal(t, 0, state.Moves)
	assert.Equal(t, 0, state.ElapsedSeconds)
	assert.Equal(t, 2, state.FlagsRemaining)
	assert.Empty(t, e.Mines())
	for _, cell := range state.Cells {
		assert.False(t, cell.Open)
		assert.False(t, cell.Flagged)
		assert.False(t, cell.Mined)
	}
	for id := range e.Board().CellCount() {
		cell, _ := e.Cell(id)
		assert.False(t, cell.Mined)
		assert.Zero(t, cell.MinesAround)
	}
}

func TestEngine_SetConfig(t *testing.T) {
	e := newPlayingEngine(t, 3, 3, cornerMines)
	original := e.GetConfig()

	err := e.SetConfig(createTestConfig(0, 0, 0))
	assert.Error(t, err)
	assert.Equal(t, original, e.GetConfig())
	assert.Equal(t, StatusPlaying, e.Status())

	next := createTestConfig(5, 7, 6)
	require.NoError(t, e.SetConfig(next))
	assert.Equal(t, next, e.GetConfig())
	assert.Equal(t, 35, e.Board().CellCount())
	assert.Equal(t, StatusIdle, e.Status())
	assert.Equal(t, 6, e.FlagsRemaining())
}

func TestEngine_StateHidesMines(t *testing.T) {
	e := newPlayingEngine(t, 3, 3, cornerMines)
	e.Reveal(1)

	state := e.State()
	assert.False(t, state.Cells[0].Mined)
	assert.False(t, state.Cells[2].Mined)
	assert.Equal(t, 2, state.Cells[1].MinesAround)
	assert.Zero(t, state.Cells[4].MinesAround, "closed cells do not leak counts")
	assert.Equal(t, []string{"#2#", "###", "###"}, state.Grid)

	e.Flag(0)
	e.Reveal(2)

	state = e.State()
	assert.True(t, state.IsLost)
	assert.True(t, state.Cells[0].Mined)
	assert.True(t, state.Cells[2].Mined)
	assert.Equal(t, []string{"F2*", "###", "###"}, state.Grid)
}

func TestEngine_RenderEmptyCells(t *testing.T) {
	e := newPlayingEngine(t, 3, 3, cornerMines)
	e.Reveal(7)

	assert.Equal(t, []string{"###", "121", "..."}, e.State().Grid)
}

func changedIDs(d *Delta) []int {
	ids := make([]int, 0, len(d.Changes))
	for _, c := range d.Changes {
		ids = append(ids, c.ID)
	}
	return ids
}
