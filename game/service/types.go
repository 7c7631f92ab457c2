package service

import (
	"time"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// ActionResult contains the result of a reveal, flag or god mode intent
type ActionResult struct {
	// Changed is false when the engine ignored the intent
	Changed   bool              `json:"changed"`
	GameState *engine.GameState `json:"game_state"`
	Delta     *engine.Delta     `json:"delta"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
	Flagged   *bool             `json:"flagged,omitempty"`
	GameOver  bool              `json:"game_over"`
	Won       bool              `json:"won"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // started, opened, flagged, unflagged, auto_flagged, won, lost, reset, god_mode
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Cells     []int     `json:"cells,omitempty"`
}

// HistoryEntry records one intent applied to a session
type HistoryEntry struct {
	Seq       int           `json:"seq"`
	Action    string        `json:"action"` // reveal, flag, god_mode, reset
	CellID    int           `json:"cell_id"`
	Changed   bool          `json:"changed"`
	Opened    int           `json:"opened"`
	Status    engine.Status `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
}

// HistoryOptions configures action history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated action history
type HistoryResponse struct {
	Entries     []HistoryEntry `json:"entries"`
	Total       int            `json:"total"`
	Page        int            `json:"page"`
	PageSize    int            `json:"page_size"`
	TotalPages  int            `json:"total_pages"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename,omitempty"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	Mines       int    `json:"mines"`
	Builtin     bool   `json:"builtin,omitempty"`
}
