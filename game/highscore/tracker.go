package highscore

import (
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
)

// Tracker holds the best score seen and writes increases through to the
// store. The stored value is read exactly once, at construction; a missing or
// malformed value falls back to zero and never surfaces to the player.
type Tracker struct {
	store Store
	key   string
	mu    sync.Mutex
	best  int
}

// NewTracker creates a tracker over store using key
func NewTracker(store Store, key string) *Tracker {
	best := 0
	if raw, ok := store.Get(key); ok {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			log.Warn().Str("key", key).Str("value", raw).Msg("Stored high score is malformed, starting from zero")
		} else {
			best = parsed
		}
	}

	return &Tracker{store: store, key: key, best: best}
}

// Best returns the highest score seen
func (t *Tracker) Best() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.best
}

// Record offers a score. When it beats the best so far the new value is kept
// and persisted, and Record returns true. Store write failures are logged and
// swallowed; the in-memory best still advances.
func (t *Tracker) Record(score int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if score <= t.best {
		return false
	}
	t.best = score

	if err := t.store.Set(t.key, strconv.Itoa(score)); err != nil {
		log.Warn().Err(err).Str("key", t.key).Int("score", score).Msg("Failed to persist high score")
	}
	return true
}
