package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/zyedidia/generic/mapset"
)

// ErrCorruptSnapshot is returned by RestoreEngine when a snapshot does not describe a valid running game
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// Counters are the persisted play counters
type Counters struct {
	Time  int `json:"time"`
	Moves int `json:"moves"`
}

// Snapshot is the minimal state needed to resume a game in progress
type Snapshot struct {
	Cells    []CellState `json:"cells"`
	Mines    []int       `json:"mines"`
	Counters Counters    `json:"counters"`
}

// Snapshot captures the game for later restore. It returns nil when the
// game is idle or over, since there is nothing worth resuming.
func (e *GameEngine) Snapshot() *Snapshot {
	if e.status != StatusPlaying {
		return nil
	}

	cells := make([]CellState, len(e.cells))
	for i := range e.cells {
		cells[i] = e.cells[i].State()
	}

	return &Snapshot{
		Cells: cells,
		Mines: e.Mines(),
		Counters: Counters{
			Time:  e.ElapsedSeconds(),
			Moves: e.moves,
		},
	}
}

// RestoreEngine rebuilds a running game from a snapshot. Any inconsistency
// with the config or within the snapshot yields ErrCorruptSnapshot.
func RestoreEngine(config *GameConfig, snap *Snapshot, opts ...Option) (*GameEngine, error) {
	if snap == nil {
		return nil, fmt.Errorf("%w: no snapshot", ErrCorruptSnapshot)
	}

	e, err := NewEngine(config, opts...)
	if err != nil {
		return nil, err
	}

	if err := snap.validate(e.board, e.mineCount); err != nil {
		return nil, err
	}

	e.begin(append([]int(nil), snap.Mines...))
	for id, state := range snap.Cells {
		cell := &e.cells[id]
		cell.Open = state&StateOpen != 0
		cell.Flagged = state&StateFlagged != 0
	}
	e.moves = snap.Counters.Moves

	// The stopwatch restarts from the restored offset
	e.watch.Reset()
	e.watch.Restore(time.Duration(snap.Counters.Time) * time.Second)
	e.watch.Start()

	return e, nil
}

func (s *Snapshot) validate(board Board, mineCount int) error {
	if len(s.Cells) != board.CellCount() {
		return fmt.Errorf("%w: expected %d cells, got %d", ErrCorruptSnapshot, board.CellCount(), len(s.Cells))
	}
	if len(s.Mines) != mineCount {
		return fmt.Errorf("%w: expected %d mines, got %d", ErrCorruptSnapshot, mineCount, len(s.Mines))
	}
	if s.Counters.Time < 0 || s.Counters.Moves < 0 {
		return fmt.Errorf("%w: negative counters", ErrCorruptSnapshot)
	}

	mines := mapset.New[int]()
	for _, id := range s.Mines {
		if !board.Contains(id) {
			return fmt.Errorf("%w: mine %d out of range", ErrCorruptSnapshot, id)
		}
		if mines.Has(id) {
			return fmt.Errorf("%w: duplicate mine %d", ErrCorruptSnapshot, id)
		}
		mines.Put(id)
	}

	openSafe := 0
	for id, state := range s.Cells {
		if state&^(StateMined|StateOpen|StateFlagged) != 0 {
			return fmt.Errorf("%w: unknown bits in cell %d", ErrCorruptSnapshot, id)
		}
		mined := state&StateMined != 0
		open := state&StateOpen != 0
		if mined != mines.Has(id) {
			return fmt.Errorf("%w: cell %d disagrees with mine list", ErrCorruptSnapshot, id)
		}
		if open && state&StateFlagged != 0 {
			return fmt.Errorf("%w: cell %d is both open and flagged", ErrCorruptSnapshot, id)
		}
		if open && mined {
			return fmt.Errorf("%w: game already lost", ErrCorruptSnapshot)
		}
		if open {
			openSafe++
		}
	}
	if openSafe == board.CellCount()-mineCount {
		return fmt.Errorf("%w: game already won", ErrCorruptSnapshot)
	}

	return nil
}
