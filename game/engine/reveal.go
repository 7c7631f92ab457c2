package engine

import (
	"github.com/gammazero/deque"
	"github.com/zyedidia/generic/mapset"
)

// Reveal opens a closed cell, chords an open numbered cell, or does nothing.
// The first reveal of a game places the mines around the clicked cell.
func (e *GameEngine) Reveal(id int) *Delta {
	d := &Delta{}
	if !e.board.Contains(id) || e.IsGameOver() {
		return e.finish(d)
	}

	if e.status == StatusIdle {
		e.begin(PlaceMines(id, e.mineCount, e.board.CellCount(), e.rng))
		e.emit(d, Event{Type: EventStarted, Cells: []int{id}})
	}

	cell := &e.cells[id]
	if cell.Flagged {
		return e.finish(d)
	}

	var seeds []int
	if !cell.Open {
		seeds = []int{id}
	} else {
		if cell.MinesAround == 0 || !e.config.OpenCellsEnabled() {
			return e.finish(d)
		}
		var toFlag []int
		seeds, toFlag = e.chord(cell)
		if len(toFlag) > 0 {
			e.autoFlag(d, toFlag)
			return e.finish(d)
		}
		if len(seeds) == 0 {
			return e.finish(d)
		}
	}

	layers := [][]int{seeds}
	if e.config.EmptyCellsEnabled() {
		layers = e.floodFill(seeds)
	}

	// Stepping on a mine ends the turn with only that cell opened
	if mine, ok := e.firstMine(layers); ok {
		layers = [][]int{{mine}}
	}

	e.open(d, layers)
	e.evaluate(d)
	return e.finish(d)
}

// chord resolves a reveal on an open numbered cell. It returns either the
// neighbours to open (flags satisfy the number) or the neighbours to flag
// (every closed neighbour must be a mine).
func (e *GameEngine) chord(cell *Cell) (toOpen, toFlag []int) {
	flagged := 0
	closed := 0
	var unflagged []int
	for _, n := range cell.Neighbors {
		neighbor := &e.cells[n]
		if neighbor.Open {
			continue
		}
		closed++
		if neighbor.Flagged {
			flagged++
		} else {
			unflagged = append(unflagged, n)
		}
	}

	switch {
	case flagged == cell.MinesAround:
		return unflagged, nil
	case closed == cell.MinesAround:
		return nil, unflagged
	}
	return nil, nil
}

// floodFill expands every empty cell of the seed set breadth-first and
// returns the opening set grouped by distance from the seeds
func (e *GameEngine) floodFill(seeds []int) [][]int {
	visited := mapset.New[int]()
	var frontier deque.Deque[int]

	for _, id := range seeds {
		visited.Put(id)
		if e.cells[id].Empty() {
			frontier.PushBack(id)
		}
	}

	layers := [][]int{seeds}
	for frontier.Len() > 0 {
		var layer []int
		for n := frontier.Len(); n > 0; n-- {
			current := frontier.PopFront()
			for _, nb := range e.cells[current].Neighbors {
				neighbor := &e.cells[nb]
				if visited.Has(nb) || neighbor.Open || neighbor.Flagged {
					continue
				}
				visited.Put(nb)
				layer = append(layer, nb)
				if neighbor.Empty() {
					frontier.PushBack(nb)
				}
			}
		}
		if len(layer) > 0 {
			layers = append(layers, layer)
		}
	}

	return layers
}

func (e *GameEngine) firstMine(layers [][]int) (int, bool) {
	for _, layer := range layers {
		for _, id := range layer {
			if e.cells[id].Mined {
				return id, true
			}
		}
	}
	return 0, false
}

// open applies an opening set and counts a move when it is non-empty
func (e *GameEngine) open(d *Delta, layers [][]int) {
	var opened []int
	for _, layer := range layers {
		for _, id := range layer {
			cell := &e.cells[id]
			cell.Open = true
			cell.Flagged = false
			d.Changes = append(d.Changes, changeOf(cell))
			opened = append(opened, id)
		}
	}
	if len(opened) == 0 {
		return
	}

	d.Layers = layers
	e.moves++
	e.emit(d, Event{Type: EventOpened, Cells: opened})
}

func (e *GameEngine) autoFlag(d *Delta, ids []int) {
	for _, id := range ids {
		cell := &e.cells[id]
		cell.Flagged = true
		d.Changes = append(d.Changes, changeOf(cell))
	}
	d.AutoFlagged = ids
	e.emit(d, Event{Type: EventAutoFlagged, Cells: ids})
}

// changeOf hides the mine bit of closed cells
func changeOf(cell *Cell) CellChange {
	state := cell.State()
	if !cell.Open {
		state &^= StateMined
	}
	return CellChange{
		ID:      cell.ID,
		State:   state,
		Open:    cell.Open,
		Flagged: cell.Flagged,
	}
}
