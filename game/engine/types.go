package engine

// Status represents the lifecycle stage of a game
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"

	// Validation constants
	MinBoardSize = 1
	MaxBoardSize = 100
	MaxNeighbors = 8
)

// CellState is the persisted per-cell bitmask
type CellState uint8

const (
	StateMined   CellState = 1 << iota // bit0
	StateOpen                          // bit1
	StateFlagged                       // bit2
)

// Cell represents a single board position
type Cell struct {
	ID          int   `json:"id"`
	X           int   `json:"x"`
	Y           int   `json:"y"`
	Mined       bool  `json:"mined"`
	Open        bool  `json:"open"`
	Flagged     bool  `json:"flagged"`
	MinesAround int   `json:"mines_around"`
	Neighbors   []int `json:"-"`
}

// Empty reports whether the cell is safe and touches no mines
func (c *Cell) Empty() bool {
	return !c.Mined && c.MinesAround == 0
}

// State encodes the cell as a persisted bitmask
func (c *Cell) State() CellState {
	var s CellState
	if c.Mined {
		s |= StateMined
	}
	if c.Open {
		s |= StateOpen
	}
	if c.Flagged {
		s |= StateFlagged
	}
	return s
}

// GameConfig represents a game preset loaded from JSON or YAML
type GameConfig struct {
	Name             string `json:"name" yaml:"name"`
	Description      string `json:"description" yaml:"description"`
	Rows             int    `json:"rows" yaml:"rows"`
	Cols             int    `json:"cols" yaml:"cols"`
	Mines            int    `json:"mines" yaml:"mines"`
	HandleEmptyCells *bool  `json:"handle_empty_cells,omitempty" yaml:"handle_empty_cells,omitempty"`
	HandleOpenCells  *bool  `json:"handle_open_cells,omitempty" yaml:"handle_open_cells,omitempty"`
	Messages         struct {
		Welcome string `json:"welcome" yaml:"welcome"`
		Won     string `json:"won" yaml:"won"`
		Lost    string `json:"lost" yaml:"lost"`
	} `json:"messages" yaml:"messages"`
}

// CellView is the client-facing projection of a cell. Mines stay hidden
// until the cell is open or the game is over.
type CellView struct {
	ID          int  `json:"id"`
	X           int  `json:"x"`
	Y           int  `json:"y"`
	Open        bool `json:"open"`
	Flagged     bool `json:"flagged,omitempty"`
	Mined       bool `json:"mined,omitempty"`
	MinesAround int  `json:"mines_around,omitempty"`
}

// GameState represents the observable game state
type GameState struct {
	ConfigName     string     `json:"config_name"`
	Rows           int        `json:"rows"`
	Cols           int        `json:"cols"`
	Mines          int        `json:"mines"`
	Status         Status     `json:"status"`
	Started        bool       `json:"started"`
	IsOver         bool       `json:"is_over"`
	IsWon          bool       `json:"is_won"`
	IsLost         bool       `json:"is_lost"`
	Moves          int        `json:"moves"`
	FlagsRemaining int        `json:"flags_remaining"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
	Message        string     `json:"message"`
	Cells          []CellView `json:"cells"`

	// Compact text rendering, one string per row
	Grid []string `json:"grid,omitempty"`
}

// CellChange describes one cell whose open/flag state changed
type CellChange struct {
	ID      int       `json:"id"`
	State   CellState `json:"state"`
	Open    bool      `json:"open"`
	Flagged bool      `json:"flagged"`
}

// Delta is the outcome of a single intent
type Delta struct {
	Changes []CellChange `json:"changes"`
	// Layers lists opened ids by distance from the seed, for staged rendering
	Layers         [][]int `json:"layers,omitempty"`
	AutoFlagged    []int   `json:"auto_flagged,omitempty"`
	RevealedMines  []int   `json:"revealed_mines,omitempty"`
	Status         Status  `json:"status"`
	Moves          int     `json:"moves"`
	FlagsRemaining int     `json:"flags_remaining"`
	Events         []Event `json:"events,omitempty"`
}

// Empty reports whether the intent changed nothing
func (d *Delta) Empty() bool {
	return len(d.Changes) == 0
}

// Opened returns the ids opened by this delta
func (d *Delta) Opened() []int {
	var ids []int
	for _, layer := range d.Layers {
		ids = append(ids, layer...)
	}
	return ids
}
