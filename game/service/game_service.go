package service

import (
	"context"
	"time"

	"github.com/tamikip/GEMINI-SNAKE/game/engine"
	"github.com/tamikip/GEMINI-SNAKE/game/loop"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Start(ctx context.Context, sessionID string) (*ActionResult, error)
	RequestDirection(ctx context.Context, sessionID, direction string) (*ActionResult, error)
	TogglePause(ctx context.Context, sessionID string) (*ActionResult, error)

	// Game State
	GetSnapshot(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	GetRunHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	GetHighScore(ctx context.Context, sessionID string) (*HighScoreInfo, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session. All game access goes through the
// loop, which serializes input events against the tick cycle.
type Session struct {
	ID             string
	Loop           *loop.Loop
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
