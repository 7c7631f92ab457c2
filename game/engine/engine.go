package engine

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Intents
	Reveal(id int) *Delta
	Flag(id int) *Delta
	ToggleFlag(id int) (flagged bool, ok bool)
	GodMode() *Delta
	Reset() *GameState

	// Game state
	State() *GameState
	Status() Status
	IsGameOver() bool
	IsWon() bool
	IsLost() bool
	Moves() int
	FlagsRemaining() int
	Elapsed() time.Duration
	Mines() []int
	Cell(id int) (Cell, bool)
	Board() Board

	// Persistence
	Snapshot() *Snapshot

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error
}

// Option customizes a GameEngine
type Option func(*GameEngine)

// WithRand sets the random source used for mine placement
func WithRand(rng *rand.Rand) Option {
	return func(e *GameEngine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithClock sets the clock used by the stopwatch
func WithClock(clock Clock) Option {
	return func(e *GameEngine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithEvents forwards every event to ch. Sends never block; events are
// dropped when ch is full.
func WithEvents(ch chan<- Event) Option {
	return func(e *GameEngine) {
		e.events = ch
	}
}

// GameEngine implements the Engine interface. It is not safe for
// concurrent use; callers serialize intents.
type GameEngine struct {
	config    *GameConfig
	board     Board
	cells     []Cell
	mines     []int
	mineCount int
	status    Status
	moves     int
	message   string
	watch     *Stopwatch

	rng    *rand.Rand
	clock  Clock
	events chan<- Event
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{
		config: config,
		clock:  wallClock{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		now := uint64(time.Now().UnixNano())
		e.rng = rand.New(rand.NewPCG(now, now>>1|1))
	}
	e.watch = NewStopwatch(e.clock)
	e.init()

	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the default configuration
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	e, err := NewEngine(DefaultConfig(), opts...)
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return e
}

// init rebuilds board and counters from the current config
func (e *GameEngine) init() {
	e.board = NewBoard(e.config.Rows, e.config.Cols)
	e.cells = e.board.newCells()
	e.mines = nil
	e.mineCount = EffectiveMines(e.config.Mines, e.board.CellCount())
	e.status = StatusIdle
	e.moves = 0
	e.message = e.config.WelcomeMessage()
	e.watch.Reset()
}

// begin plants the mines and moves the game to playing
func (e *GameEngine) begin(mines []int) {
	e.mines = mines
	plantMines(e.cells, mines)
	e.status = StatusPlaying
	e.message = ""
	e.watch.Start()
}

// Flag toggles the flag on a closed cell of a running game
func (e *GameEngine) Flag(id int) *Delta {
	d := &Delta{}
	if !e.board.Contains(id) || e.status != StatusPlaying {
		return e.finish(d)
	}

	cell := &e.cells[id]
	if cell.Open {
		return e.finish(d)
	}

	cell.Flagged = !cell.Flagged
	d.Changes = append(d.Changes, changeOf(cell))
	if cell.Flagged {
		e.emit(d, Event{Type: EventFlagged, Cells: []int{id}})
	} else {
		e.emit(d, Event{Type: EventUnflagged, Cells: []int{id}})
	}

	e.evaluate(d)
	return e.finish(d)
}

// ToggleFlag flips the flag on a cell. ok is false when the intent was ignored.
func (e *GameEngine) ToggleFlag(id int) (flagged bool, ok bool) {
	d := e.Flag(id)
	if d.Empty() {
		return false, false
	}
	return e.cells[id].Flagged, true
}

// GodMode clears every flag placed on a safe cell. It never opens cells
// and never touches mine placement.
func (e *GameEngine) GodMode() *Delta {
	d := &Delta{}
	if e.status != StatusPlaying {
		return e.finish(d)
	}

	var cleared []int
	for i := range e.cells {
		cell := &e.cells[i]
		if cell.Flagged && !cell.Mined {
			cell.Flagged = false
			d.Changes = append(d.Changes, changeOf(cell))
			cleared = append(cleared, cell.ID)
		}
	}
	if len(cleared) == 0 {
		return e.finish(d)
	}

	e.message = fmt.Sprintf("God mode: %d wrong flags cleared", len(cleared))
	e.emit(d, Event{Type: EventGodMode, Cells: cleared, Message: e.message})
	return e.finish(d)
}

// Reset returns the game to idle with the current configuration
func (e *GameEngine) Reset() *GameState {
	e.init()
	e.emit(nil, Event{Type: EventReset})
	return e.State()
}

// evaluate checks the win and loss conditions of a running game
func (e *GameEngine) evaluate(d *Delta) {
	if e.status != StatusPlaying {
		return
	}

	lost := false
	openSafe := 0
	for i := range e.cells {
		cell := &e.cells[i]
		if !cell.Open {
			continue
		}
		if cell.Mined {
			lost = true
			break
		}
		openSafe++
	}

	switch {
	case lost:
		e.end(d, StatusLost)
	case openSafe == e.board.CellCount()-len(e.mines):
		e.end(d, StatusWon)
	}
}

// end enters a terminal state exactly once
func (e *GameEngine) end(d *Delta, status Status) {
	e.status = status
	e.watch.Stop()

	if status == StatusLost {
		e.message = e.config.LostMessage()
		d.RevealedMines = append([]int(nil), e.mines...)
		e.emit(d, Event{Type: EventLost, Cells: d.RevealedMines, Message: e.message})
		return
	}

	e.message = e.config.WonMessage(e.ElapsedSeconds(), e.moves)
	e.emit(d, Event{Type: EventWon, Message: e.message})
}

func (e *GameEngine) finish(d *Delta) *Delta {
	d.Status = e.status
	d.Moves = e.moves
	d.FlagsRemaining = e.FlagsRemaining()
	return d
}

// Status returns the lifecycle stage
func (e *GameEngine) Status() Status {
	return e.status
}

// IsGameOver returns whether the game reached a terminal state
func (e *GameEngine) IsGameOver() bool {
	return e.status == StatusWon || e.status == StatusLost
}

// IsWon returns whether every safe cell has been opened
func (e *GameEngine) IsWon() bool {
	return e.status == StatusWon
}

// IsLost returns whether a mine has been opened
func (e *GameEngine) IsLost() bool {
	return e.status == StatusLost
}

// Moves returns the number of reveals that opened at least one cell
func (e *GameEngine) Moves() int {
	return e.moves
}

// FlagsRemaining returns the mine count minus the number of flags
func (e *GameEngine) FlagsRemaining() int {
	flagged := 0
	for i := range e.cells {
		if e.cells[i].Flagged {
			flagged++
		}
	}
	return e.mineCount - flagged
}

// Elapsed returns the play time
func (e *GameEngine) Elapsed() time.Duration {
	return e.watch.Elapsed()
}

// ElapsedSeconds returns the play time in whole seconds
func (e *GameEngine) ElapsedSeconds() int {
	return int(e.watch.Elapsed() / time.Second)
}

// Mines returns a copy of the mine set, empty until the first reveal
func (e *GameEngine) Mines() []int {
	return append([]int(nil), e.mines...)
}

// MineCount returns the effective number of mines for this game
func (e *GameEngine) MineCount() int {
	return e.mineCount
}

// Cell returns a copy of the cell with the given id
func (e *GameEngine) Cell(id int) (Cell, bool) {
	if !e.board.Contains(id) {
		return Cell{}, false
	}
	return e.cells[id], true
}

// Board returns the game geometry
func (e *GameEngine) Board() Board {
	return e.board
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and resets the game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.config = config
	e.init()
	e.emit(nil, Event{Type: EventReset})
	return nil
}

// State returns the observable game state
func (e *GameEngine) State() *GameState {
	over := e.IsGameOver()
	views := make([]CellView, len(e.cells))
	for i := range e.cells {
		cell := &e.cells[i]
		view := CellView{
			ID:      cell.ID,
			X:       cell.X,
			Y:       cell.Y,
			Open:    cell.Open,
			Flagged: cell.Flagged,
		}
		if cell.Open || over {
			view.Mined = cell.Mined
		}
		if cell.Open {
			view.MinesAround = cell.MinesAround
		}
		views[i] = view
	}

	return &GameState{
		ConfigName:     e.config.Name,
		Rows:           e.board.Rows,
		Cols:           e.board.Cols,
		Mines:          e.mineCount,
		Status:         e.status,
		Started:        e.status != StatusIdle,
		IsOver:         over,
		IsWon:          e.status == StatusWon,
		IsLost:         e.status == StatusLost,
		Moves:          e.moves,
		FlagsRemaining: e.FlagsRemaining(),
		ElapsedSeconds: e.ElapsedSeconds(),
		Message:        e.message,
		Cells:          views,
		Grid:           e.render(),
	}
}

// render draws the board as text: # closed, F flag, * mine, . empty, 1-8 counts
func (e *GameEngine) render() []string {
	over := e.IsGameOver()
	rows := make([]string, e.board.Rows)
	var sb strings.Builder
	for y := 0; y < e.board.Rows; y++ {
		sb.Reset()
		for x := 0; x < e.board.Cols; x++ {
			cell := &e.cells[e.board.ID(x, y)]
			switch {
			case cell.Flagged:
				sb.WriteByte('F')
			case cell.Mined && (cell.Open || over):
				sb.WriteByte('*')
			case !cell.Open:
				sb.WriteByte('#')
			case cell.MinesAround == 0:
				sb.WriteByte('.')
			default:
				sb.WriteString(strconv.Itoa(cell.MinesAround))
			}
		}
		rows[y] = sb.String()
	}
	return rows
}
