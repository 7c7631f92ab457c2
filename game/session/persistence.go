package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
	"github.com/wricardo/mcp-training/minesweeper/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData represents the JSON structure for persisted sessions.
// Snapshot is nil when the game had not started or was already over; such
// sessions come back as a fresh game.
type PersistedSessionData struct {
	ID             string                 `json:"id"`
	ConfigName     string                 `json:"config_name"`
	CreatedAt      time.Time              `json:"created_at"`
	LastAccessedAt time.Time              `json:"last_accessed_at"`
	Snapshot       *engine.Snapshot       `json:"snapshot,omitempty"`
	History        []service.HistoryEntry `json:"history,omitempty"`
}

// codec turns sessions into bytes and back for the persistence backends
type codec struct {
	configManager service.ConfigManager
	engineOptions []engine.Option
}

func (c *codec) encode(session *service.Session) ([]byte, error) {
	if session == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}

	configID := session.ConfigID
	if configID == "" {
		var err error
		configID, err = c.configIDFromName(session.Config.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to get config ID: %w", err)
		}
	}

	data := PersistedSessionData{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Snapshot:       session.Engine.Snapshot(),
		History:        session.History,
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session data: %w", err)
	}
	return jsonData, nil
}

func (c *codec) decode(raw []byte) (*service.Session, error) {
	var data PersistedSessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	gameConfig, err := c.configManager.LoadConfig(data.ConfigName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config '%s': %w", data.ConfigName, err)
	}

	gameEngine, err := c.restoreEngine(data.ID, gameConfig, data.Snapshot)
	if err != nil {
		return nil, err
	}

	return &service.Session{
		ID:             data.ID,
		ConfigID:       data.ConfigName,
		Engine:         gameEngine,
		Config:         gameConfig,
		History:        data.History,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// restoreEngine resumes the snapshot, falling back to a fresh game when the
// snapshot is missing or does not fit the config
func (c *codec) restoreEngine(id string, config *engine.GameConfig, snap *engine.Snapshot) (*engine.GameEngine, error) {
	if snap != nil {
		restored, err := engine.RestoreEngine(config, snap, c.engineOptions...)
		if err == nil {
			return restored, nil
		}
		if !errors.Is(err, engine.ErrCorruptSnapshot) {
			return nil, fmt.Errorf("failed to restore game: %w", err)
		}
		log.Warn().Err(err).Str("session", id).Msg("discarding corrupt snapshot, starting a fresh game")
	}

	gameEngine, err := engine.NewEngine(config, c.engineOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create game engine: %w", err)
	}
	return gameEngine, nil
}

// configIDFromName returns the config ID (filename without extension) from display name
func (c *codec) configIDFromName(displayName string) (string, error) {
	configs, err := c.configManager.ListConfigs()
	if err != nil {
		return "", fmt.Errorf("failed to list configs: %w", err)
	}

	for _, config := range configs {
		if config.Name == displayName {
			return config.ConfigID, nil
		}
	}

	// If not found, assume the displayName is already the config ID
	return displayName, nil
}
