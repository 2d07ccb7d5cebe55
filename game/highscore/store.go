package highscore

import "sync"

// DefaultKey is the store key holding the persisted high score
const DefaultKey = "high_score"

// Store defines the external key-value boundary for persisted values. Get
// reports absence through its second return; Set overwrites unconditionally.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// MemStore implements Store in memory, primarily for tests
type MemStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

// Get returns the stored value for key
func (m *MemStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	return value, ok
}

// Set stores value under key
func (m *MemStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}
