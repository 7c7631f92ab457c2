package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
	"github.com/wricardo/mcp-training/minesweeper/game/results"
)

var (
	// ErrInvalidCell is returned when x,y addressing falls outside the board.
	// Out-of-range cell ids are engine no-ops instead.
	ErrInvalidCell = errors.New("cell out of bounds")
	// ErrConfigNotFound is returned by a ConfigManager for unknown config names
	ErrConfigNotFound = errors.New("configuration not found")
)

const meterName = "github.com/wricardo/mcp-training/minesweeper/game/service"

// Action names recorded in session history
const (
	ActionReveal  = "reveal"
	ActionFlag    = "flag"
	ActionGodMode = "god_mode"
	ActionReset   = "reset"
)

// Option customizes the game service
type Option func(*gameServiceImpl)

// WithResults records every finished game in store
func WithResults(store results.Store) Option {
	return func(s *gameServiceImpl) {
		s.results = store
	}
}

// WithMeter sets the meter used for gameplay counters. The global meter
// provider is used otherwise.
func WithMeter(meter metric.Meter) Option {
	return func(s *gameServiceImpl) {
		s.meter = meter
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	results  results.Store
	meter    metric.Meter
	mu       sync.RWMutex

	gamesStarted  metric.Int64Counter
	gamesFinished metric.Int64Counter
	intents       metric.Int64Counter
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.results == nil {
		s.results = results.NewMemoryStore()
	}
	if s.meter == nil {
		s.meter = otel.Meter(meterName)
	}
	s.initMetrics()
	return s
}

func (s *gameServiceImpl) initMetrics() {
	var err error
	s.gamesStarted, err = s.meter.Int64Counter("minesweeper.games.started",
		metric.WithDescription("Games that received their first reveal"))
	if err != nil {
		log.Warn().Err(err).Msg("failed to create games.started counter")
	}
	s.gamesFinished, err = s.meter.Int64Counter("minesweeper.games.finished",
		metric.WithDescription("Games that ended, by outcome"))
	if err != nil {
		log.Warn().Err(err).Msg("failed to create games.finished counter")
	}
	s.intents, err = s.meter.Int64Counter("minesweeper.intents",
		metric.WithDescription("Intents applied to sessions, by action"))
	if err != nil {
		log.Warn().Err(err).Msg("failed to create intents counter")
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(sess *Session) string {
	if sess.ConfigID != "" {
		return sess.ConfigID
	}
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == sess.Config.Name {
				return cfg.ConfigID
			}
		}
	}
	return sess.Config.Name
}

// loadConfig resolves a config name, listing the alternatives when it is unknown
func (s *gameServiceImpl) loadConfig(configName string) (*engine.GameConfig, error) {
	config, err := s.configs.LoadConfig(configName)
	if err == nil {
		return config, nil
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
	}

	availableConfigs, listErr := s.configs.ListConfigs()
	if listErr != nil || len(availableConfigs) == 0 {
		return nil, fmt.Errorf("%w: '%s', use /api/configs to list available configurations", err, configName)
	}
	configIDs := make([]string, 0, len(availableConfigs))
	for _, cfg := range availableConfigs {
		configIDs = append(configIDs, cfg.ConfigID)
	}
	return nil, fmt.Errorf("%w: '%s', available configs: %s", err, configName, strings.Join(configIDs, ", "))
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.State(),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	if configName != "" {
		var err error
		config, err = s.loadConfig(configName)
		if err != nil {
			return nil, err
		}
	} else {
		config = s.configs.GetDefault()
	}

	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	session.ConfigID = configName
	if session.ConfigID == "" {
		session.ConfigID = s.getConfigID(session)
	}

	// Persist again now that the config id is known
	if err := s.sessions.Save(session.ID); err != nil {
		log.Warn().Err(err).Str("session", session.ID).Msg("failed to persist session")
	}

	log.Info().Str("session", session.ID).Str("config", session.ConfigID).Msg("session created")
	return s.sessionInfo(session), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	log.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// cellTarget resolves the cell an intent applies to
type cellTarget func(*Session) (int, error)

// byID targets a cell id as given; the engine ignores out-of-range ids
func byID(cellID int) cellTarget {
	return func(*Session) (int, error) { return cellID, nil }
}

// byCoords targets the cell at x,y and rejects coordinates off the board
func byCoords(x, y int) cellTarget {
	return func(sess *Session) (int, error) {
		board := sess.Engine.Board()
		if !board.InBounds(x, y) {
			return 0, fmt.Errorf("%w: (%d,%d) on a %dx%d board", ErrInvalidCell, x, y, board.Cols, board.Rows)
		}
		return board.ID(x, y), nil
	}
}

// noCell is used by intents that act on the whole board
func noCell(*Session) (int, error) { return -1, nil }

func revealIntent(sess *Session, id int) (*engine.Delta, *bool) {
	return sess.Engine.Reveal(id), nil
}

func flagIntent(sess *Session, id int) (*engine.Delta, *bool) {
	d := sess.Engine.Flag(id)
	if d.Empty() {
		return d, nil
	}
	cell, _ := sess.Engine.Cell(id)
	return d, &cell.Flagged
}

func godModeIntent(sess *Session, _ int) (*engine.Delta, *bool) {
	return sess.Engine.GodMode(), nil
}

// Reveal opens or chords a cell
func (s *gameServiceImpl) Reveal(ctx context.Context, sessionID string, cellID int) (*ActionResult, error) {
	return s.apply(ctx, sessionID, ActionReveal, byID(cellID), revealIntent)
}

// RevealAt opens or chords the cell at x,y
func (s *gameServiceImpl) RevealAt(ctx context.Context, sessionID string, x, y int) (*ActionResult, error) {
	return s.apply(ctx, sessionID, ActionReveal, byCoords(x, y), revealIntent)
}

// ToggleFlag flags or unflags a closed cell
func (s *gameServiceImpl) ToggleFlag(ctx context.Context, sessionID string, cellID int) (*ActionResult, error) {
	return s.apply(ctx, sessionID, ActionFlag, byID(cellID), flagIntent)
}

// ToggleFlagAt flags or unflags the cell at x,y
func (s *gameServiceImpl) ToggleFlagAt(ctx context.Context, sessionID string, x, y int) (*ActionResult, error) {
	return s.apply(ctx, sessionID, ActionFlag, byCoords(x, y), flagIntent)
}

// GodMode clears wrong flags
func (s *gameServiceImpl) GodMode(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.apply(ctx, sessionID, ActionGodMode, noCell, godModeIntent)
}

// apply runs one intent under the service lock, then records history,
// results and metrics and persists the session
func (s *gameServiceImpl) apply(ctx context.Context, sessionID, action string, target cellTarget, intent func(*Session, int) (*engine.Delta, *bool)) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	cellID, err := target(sess)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	delta, flagged := intent(sess, cellID)
	changed := !delta.Empty() || len(delta.Events) > 0
	now := time.Now()

	s.intents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.Bool("changed", changed),
	))

	if changed {
		sess.History = append(sess.History, HistoryEntry{
			Seq:       len(sess.History) + 1,
			Action:    action,
			CellID:    cellID,
			Changed:   true,
			Opened:    len(delta.Opened()),
			Status:    delta.Status,
			Timestamp: now,
		})
	}

	events := s.convertEvents(ctx, sess, delta.Events, now)
	state := sess.Engine.State()

	if changed {
		if err := s.sessions.Save(sessionID); err != nil {
			log.Warn().Err(err).Str("session", sessionID).Msg("failed to persist session")
		}
	}

	log.Debug().
		Str("session", sessionID).
		Str("action", action).
		Int("cell", cellID).
		Bool("changed", changed).
		Str("status", string(state.Status)).
		Msg("intent applied")

	return &ActionResult{
		Changed:   changed,
		GameState: state,
		Delta:     delta,
		Message:   state.Message,
		Events:    events,
		Flagged:   flagged,
		GameOver:  state.IsOver,
		Won:       state.IsWon,
	}, nil
}

// convertEvents stamps engine events for clients and reacts to game
// start and end
func (s *gameServiceImpl) convertEvents(ctx context.Context, sess *Session, in []engine.Event, now time.Time) []GameEvent {
	if len(in) == 0 {
		return nil
	}

	out := make([]GameEvent, 0, len(in))
	for _, ev := range in {
		out = append(out, GameEvent{
			Type:      string(ev.Type),
			Message:   eventMessage(ev),
			Timestamp: now,
			Cells:     ev.Cells,
		})

		switch ev.Type {
		case engine.EventStarted:
			s.gamesStarted.Add(ctx, 1, metric.WithAttributes(attribute.String("config", s.getConfigID(sess))))
		case engine.EventWon, engine.EventLost:
			s.recordResult(ctx, sess, ev.Type == engine.EventWon)
		}
	}
	return out
}

func (s *gameServiceImpl) recordResult(ctx context.Context, sess *Session, won bool) {
	outcome := "lost"
	if won {
		outcome = "won"
	}
	s.gamesFinished.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("config", s.getConfigID(sess)),
	))

	board := sess.Engine.Board()
	r, err := s.results.Add(ctx, results.Result{
		SessionID: sess.ID,
		ConfigID:  s.getConfigID(sess),
		Won:       won,
		Time:      sess.Engine.ElapsedSeconds(),
		Moves:     sess.Engine.Moves(),
		Rows:      board.Rows,
		Cols:      board.Cols,
		Mines:     sess.Engine.MineCount(),
	})
	if err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("failed to record result")
		return
	}

	log.Info().
		Str("session", sess.ID).
		Str("result", r.ID).
		Str("outcome", outcome).
		Int("time", r.Time).
		Int("moves", r.Moves).
		Msg("game finished")
}

func eventMessage(ev engine.Event) string {
	if ev.Message != "" {
		return ev.Message
	}
	switch ev.Type {
	case engine.EventStarted:
		return "Mines placed, game started"
	case engine.EventOpened:
		return fmt.Sprintf("Opened %d cells", len(ev.Cells))
	case engine.EventFlagged:
		return "Flag placed"
	case engine.EventUnflagged:
		return "Flag removed"
	case engine.EventAutoFlagged:
		return fmt.Sprintf("Auto-flagged %d cells", len(ev.Cells))
	case engine.EventReset:
		return "Game reset"
	}
	return string(ev.Type)
}

// Reset resets a game session to idle, optionally switching config
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID, configName string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	var state *engine.GameState
	if configName != "" {
		config, err := s.loadConfig(configName)
		if err != nil {
			return nil, err
		}
		if err := sess.Engine.SetConfig(config); err != nil {
			return nil, fmt.Errorf("failed to apply config %s: %w", configName, err)
		}
		sess.Config = config
		sess.ConfigID = configName
		state = sess.Engine.State()
	} else {
		state = sess.Engine.Reset()
	}

	sess.History = append(sess.History, HistoryEntry{
		Seq:       len(sess.History) + 1,
		Action:    ActionReset,
		CellID:    -1,
		Changed:   true,
		Status:    state.Status,
		Timestamp: time.Now(),
	})
	s.intents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", ActionReset),
		attribute.Bool("changed", true),
	))

	if err := s.sessions.Save(sessionID); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("failed to persist session after reset")
	}

	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.State(), nil
}

// GetHistory returns paginated action history
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.History
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := min((opts.Page-1)*opts.Limit, total)
	end := min(start+opts.Limit, total)

	entries := make([]HistoryEntry, 0, end-start)
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= total-end; i-- {
			entries = append(entries, history[i])
		}
	} else {
		entries = append(entries, history[start:end]...)
	}

	return &HistoryResponse{
		Entries:     entries,
		Total:       total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// ListResults returns finished games, newest first
func (s *gameServiceImpl) ListResults(ctx context.Context, limit int) ([]results.Result, error) {
	list, err := s.results.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return list, nil
}
