package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tamikip/GEMINI-SNAKE/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	// Fallback: return as-is or "default"
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Determine the config identifier to return - prefer the input configName if provided,
	// otherwise look up the config_id by display name
	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID, // Return the config_id, not the display name
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Snapshot:       session.Loop.Snapshot(),
		GameConfig:     session.Config,
	}, nil
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

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.getConfigID(session.Config.Name), // Return config_id consistently
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Snapshot:       session.Loop.Snapshot(),
		GameConfig:     session.Config,
	}, nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			ConfigName:     s.getConfigID(sess.Config.Name), // Return config_id consistently
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			Snapshot:       sess.Loop.Snapshot(),
			GameConfig:     sess.Config,
		})
	}

	return result, nil
}

// DeleteSession removes a session and stops its tick loop
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Start begins a new run for a session, resetting any run in flight
func (s *gameServiceImpl) Start(ctx context.Context, sessionID string) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	before := sess.Loop.Snapshot()
	snap := sess.Loop.Start()

	return &ActionResult{
		Success:  true,
		Snapshot: snap,
		Message:  snap.Message,
		Events:   extractTransitionEvents(before, snap),
	}, nil
}

// RequestDirection buffers a heading change for the next tick. The request is
// judged against the last direction the snake actually moved in, so a
// reversal comes back rejected with the buffer untouched. From idle this
// starts the run. Unmapped direction strings are ignored without touching
// state, the same way the engine treats unknown input keys.
func (s *gameServiceImpl) RequestDirection(ctx context.Context, sessionID, direction string) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	dir, ok := engine.ParseDirection(direction)
	if !ok {
		return &ActionResult{
			Snapshot: sess.Loop.Snapshot(),
			Message:  fmt.Sprintf("Unknown direction '%s'. Valid directions: up, down, left, right", direction),
			Events: []GameEvent{{
				Type:      "input_ignored",
				Message:   fmt.Sprintf("Unknown direction '%s' ignored", direction),
				Timestamp: time.Now(),
			}},
		}, nil
	}

	before := sess.Loop.Snapshot()
	snap := sess.Loop.RequestDirection(dir)

	result := &ActionResult{
		Snapshot: snap,
		Message:  snap.Message,
		Events:   extractTransitionEvents(before, snap),
	}

	switch {
	case snap.Status != engine.StatusPlaying:
		result.Events = append(result.Events, GameEvent{
			Type:      "input_ignored",
			Message:   fmt.Sprintf("Direction input ignored while %s", snap.Status),
			Timestamp: time.Now(),
		})
	case snap.Direction != dir:
		result.Message = fmt.Sprintf("Cannot reverse into %s while moving %s", dir, snap.LastApplied)
		result.Events = append(result.Events, GameEvent{
			Type:      "direction_rejected",
			Message:   result.Message,
			Timestamp: time.Now(),
		})
	default:
		result.Success = true
	}

	return result, nil
}

// TogglePause flips a playing session to paused and back
func (s *gameServiceImpl) TogglePause(ctx context.Context, sessionID string) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	before := sess.Loop.Snapshot()
	snap := sess.Loop.TogglePause()

	result := &ActionResult{
		Success:  snap.Status != before.Status,
		Snapshot: snap,
		Message:  snap.Message,
		Events:   extractTransitionEvents(before, snap),
	}
	if !result.Success {
		result.Message = fmt.Sprintf("Nothing to pause while %s", snap.Status)
	}

	return result, nil
}

// GetSnapshot retrieves a read-only view of the current game
func (s *gameServiceImpl) GetSnapshot(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	snap := sess.Loop.Snapshot()
	return &snap, nil
}

// GetRunHistory returns paginated finished-run history
func (s *gameServiceImpl) GetRunHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Loop.Runs()
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

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	// Get the slice of runs
	var runs []engine.RunRecord
	if opts.Order == "desc" {
		// Reverse order (most recent first)
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			runs = append(runs, history[i])
		}
	} else {
		// Normal chronological order
		if start < total {
			runs = history[start:end]
		}
	}

	// Ensure runs is not nil
	if runs == nil {
		runs = []engine.RunRecord{}
	}

	return &HistoryResponse{
		Runs:        runs,
		TotalRuns:   total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// GetHighScore reports the best score visible to a session
func (s *gameServiceImpl) GetHighScore(ctx context.Context, sessionID string) (*HighScoreInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	snap := sess.Loop.Snapshot()
	return &HighScoreInfo{
		SessionID: sess.ID,
		HighScore: snap.HighScore,
		Score:     snap.Score,
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

// extractTransitionEvents derives events from the status change a control
// operation caused. Tick-driven events (food, game over) reach clients
// through the snapshot stream instead.
func extractTransitionEvents(before, after engine.Snapshot) []GameEvent {
	events := []GameEvent{}

	switch {
	case before.Status == engine.StatusPlaying && after.Status == engine.StatusPaused:
		events = append(events, GameEvent{
			Type:      "paused",
			Message:   after.Message,
			Timestamp: time.Now(),
		})
	case before.Status == engine.StatusPaused && after.Status == engine.StatusPlaying && before.RunID == after.RunID:
		events = append(events, GameEvent{
			Type:      "resumed",
			Message:   after.Message,
			Timestamp: time.Now(),
		})
	case after.Status == engine.StatusPlaying && before.RunID != after.RunID:
		// A fresh run began; mid-run restarts get their own label
		kind := "started"
		if before.Status == engine.StatusPlaying {
			kind = "restarted"
		}
		events = append(events, GameEvent{
			Type:      kind,
			Message:   after.Message,
			Timestamp: time.Now(),
		})
	}

	return events
}
