package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tamikip/GEMINI-SNAKE/game/clock"
	"github.com/tamikip/GEMINI-SNAKE/game/engine"
	"github.com/tamikip/GEMINI-SNAKE/game/highscore"
	"github.com/tamikip/GEMINI-SNAKE/game/loop"
	"github.com/tamikip/GEMINI-SNAKE/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// NotifyFunc receives every snapshot a session's loop publishes, tagged with
// the session ID. The hub plugs in here.
type NotifyFunc func(sessionID string, snap engine.Snapshot)

// Manager handles game session lifecycle. Every session it creates gets its
// own engine and tick loop; the scheduler and high score tracker are shared
// across sessions.
type Manager struct {
	sessions  map[string]*service.Session
	scheduler clock.Scheduler
	scores    *highscore.Tracker
	notify    NotifyFunc
	mu        sync.RWMutex
}

// NewManager creates a new session manager. scores and notify may be nil
// when nothing should persist or listen.
func NewManager(scheduler clock.Scheduler, scores *highscore.Tracker, notify NotifyFunc) *Manager {
	return &Manager{
		sessions:  make(map[string]*service.Session),
		scheduler: scheduler,
		scores:    scores,
		notify:    notify,
	}
}

// Create creates a new session with the given ID and configuration. An empty
// ID gets a generated 4-character one; a nil config means the classic rules.
func (m *Manager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	if id != "" && !validSessionID(id) {
		return nil, ErrInvalidSessionID
	}
	if config == nil {
		config = engine.DefaultGameConfig()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.generateSessionID()
		for m.sessionExists(id) {
			id = m.generateSessionID()
		}
	}

	// Check if session already exists (case-insensitive)
	if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	l := loop.New(eng, m.scheduler, m.scores)
	if m.notify != nil {
		sessionID := id
		l.SetListener(func(snap engine.Snapshot) {
			m.notify(sessionID, snap)
		})
	}

	session := &service.Session{
		ID:             id,
		Loop:           l,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[strings.ToLower(id)] = session

	log.Info().Str("session_id", id).Str("config", config.Name).Msg("Session created")
	return session, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		// Try exact match for backward compatibility
		session, exists = m.sessions[id]
	}
	if !exists {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(id string, config *engine.GameConfig) (*service.Session, error) {
	// Try to get existing session first
	session, err := m.Get(id)
	if err == nil {
		return session, nil
	}

	// Create new session if not found
	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, config)
	}

	return nil, err
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete removes a session and stops its tick loop
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	session, exists := m.sessions[key]
	if !exists {
		session, exists = m.sessions[id]
		key = id
	}
	if !exists {
		return ErrSessionNotFound
	}

	session.Loop.Stop()
	delete(m.sessions, key)

	log.Info().Str("session_id", session.ID).Msg("Session deleted")
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		// Try exact match for backward compatibility
		session, exists = m.sessions[id]
		if !exists {
			return ErrSessionNotFound
		}
	}

	session.LastAccessedAt = time.Now()
	return nil
}

// CleanupExpiredSessions stops and removes sessions that haven't been
// accessed in the given duration. Ticks alone don't count as access, so an
// abandoned game gets reaped even while its loop is still running.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			session.Loop.Stop()
			delete(m.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Msg("Expired sessions cleaned up")
	}
	return removed
}

// Shutdown stops the tick loops of all sessions. Sessions stay listed so
// late readers still see final state; call this once on server shutdown.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, session := range m.sessions {
		session.Loop.Stop()
	}
	log.Info().Int("sessions", len(m.sessions)).Msg("Session loops stopped")
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID generates a random 4-character session ID
func (m *Manager) generateSessionID() string {
	// Generate 2 random bytes (4 hex characters)
	bytes := make([]byte, 2)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// sessionExists checks if a session exists (case-insensitive)
func (m *Manager) sessionExists(id string) bool {
	lowerID := strings.ToLower(id)
	if _, exists := m.sessions[lowerID]; exists {
		return true
	}
	// Also check exact match for backward compatibility
	_, exists := m.sessions[id]
	return exists
}

// validSessionID accepts short URL-safe identifiers
func validSessionID(id string) bool {
	if len(id) > 32 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
