package service

import (
	"time"

	"github.com/tamikip/GEMINI-SNAKE/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	Snapshot       engine.Snapshot    `json:"snapshot"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// ActionResult contains the result of a control operation (start, direction,
// pause). Success reports whether the request took effect; a rejected
// reversal or input to a paused game comes back with Success false and the
// untouched snapshot.
type ActionResult struct {
	Success  bool            `json:"success"`
	Snapshot engine.Snapshot `json:"snapshot"`
	Message  string          `json:"message"`
	Events   []GameEvent     `json:"events,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "started", "restarted", "paused", "resumed", "direction_rejected", "input_ignored"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HighScoreInfo reports the best score visible to a session alongside its
// current run
type HighScoreInfo struct {
	SessionID string `json:"session_id"`
	HighScore int    `json:"high_score"`
	Score     int    `json:"score"`
}

// HistoryOptions configures run history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated finished-run history
type HistoryResponse struct {
	Runs        []engine.RunRecord `json:"runs"`
	TotalRuns   int                `json:"total_runs"`
	Page        int                `json:"page"`
	PageSize    int                `json:"page_size"`
	TotalPages  int                `json:"total_pages"`
	HasNext     bool               `json:"has_next"`
	HasPrevious bool               `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename       string `json:"filename"`
	ConfigID       string `json:"config_id"` // The identifier to use for session creation
	Name           string `json:"name"`      // Display name
	Description    string `json:"description"`
	GridSize       int    `json:"grid_size"`
	InitialSpeedMs int    `json:"initial_speed_ms"`
	FoodScore      int    `json:"food_score"`
}
