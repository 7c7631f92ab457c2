package engine

import (
	"fmt"
	"strings"
)

const (
	defaultWelcome = "Click any cell to start. The first click is always safe."
	defaultWon     = "Hooray! You found all mines in %d seconds and %d moves!"
	defaultLost    = "Boom! You stepped on a mine. Game over!"
)

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is required")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	if config.Rows < MinBoardSize || config.Rows > MaxBoardSize {
		return fmt.Errorf("config validation: rows must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, config.Rows)
	}
	if config.Cols < MinBoardSize || config.Cols > MaxBoardSize {
		return fmt.Errorf("config validation: cols must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, config.Cols)
	}

	// Too many mines is clamped, not rejected
	if config.Mines < 0 {
		return fmt.Errorf("config validation: mines cannot be negative, got %d", config.Mines)
	}

	if won := config.Messages.Won; won != "" && strings.Count(won, "%d") != 2 {
		return fmt.Errorf("config validation: messages.won must contain two %%d for seconds and moves")
	}

	return nil
}

// EmptyCellsEnabled reports whether revealing an empty cell floods its region
func (c *GameConfig) EmptyCellsEnabled() bool {
	return c.HandleEmptyCells == nil || *c.HandleEmptyCells
}

// OpenCellsEnabled reports whether revealing an open numbered cell chords
func (c *GameConfig) OpenCellsEnabled() bool {
	return c.HandleOpenCells == nil || *c.HandleOpenCells
}

// WelcomeMessage returns the idle message
func (c *GameConfig) WelcomeMessage() string {
	if c.Messages.Welcome != "" {
		return c.Messages.Welcome
	}
	return defaultWelcome
}

// WonMessage formats the victory message
func (c *GameConfig) WonMessage(seconds, moves int) string {
	format := c.Messages.Won
	if format == "" {
		format = defaultWon
	}
	return fmt.Sprintf(format, seconds, moves)
}

// LostMessage returns the defeat message
func (c *GameConfig) LostMessage() string {
	if c.Messages.Lost != "" {
		return c.Messages.Lost
	}
	return defaultLost
}

// DefaultConfig returns the classic 10x10 board with 15 mines
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:        "classic",
		Description: "Classic 10x10 board with 15 mines",
		Rows:        10,
		Cols:        10,
		Mines:       15,
	}
}

// Board sizes and difficulties offered by the settings panel
var (
	BoardSizes = map[string]int{
		"small":  10,
		"medium": 15,
		"large":  25,
	}
	Difficulties = map[string]int{
		"easy":   10,
		"medium": 50,
		"hard":   99,
	}
)

// Preset builds a square board config from a size and a difficulty name
func Preset(size, difficulty string) (*GameConfig, error) {
	side, ok := BoardSizes[strings.ToLower(size)]
	if !ok {
		return nil, fmt.Errorf("unknown board size %q", size)
	}
	mines, ok := Difficulties[strings.ToLower(difficulty)]
	if !ok {
		return nil, fmt.Errorf("unknown difficulty %q", difficulty)
	}

	return &GameConfig{
		Name:        strings.ToLower(size) + "_" + strings.ToLower(difficulty),
		Description: fmt.Sprintf("%dx%d board with %d mines", side, side, mines),
		Rows:        side,
		Cols:        side,
		Mines:       mines,
	}, nil
}

// BoolPtr is a convenience for the optional config toggles
func BoolPtr(v bool) *bool {
	return &v
}
