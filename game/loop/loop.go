package loop

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tamikip/GEMINI-SNAKE/game/clock"
	"github.com/tamikip/GEMINI-SNAKE/game/engine"
	"github.com/tamikip/GEMINI-SNAKE/game/highscore"
)

// Listener receives a read-only snapshot after every state change
type Listener func(snap engine.Snapshot)

// Loop drives one engine on its tick cadence. All engine access goes through
// the loop mutex; ticks and input events serialize on it, so a tick runs to
// completion with no interleaving and events land between ticks.
//
// At most one scheduled tick is pending at any time. Every transition out of
// playing cancels the pending handle, and every cancel-or-replace bumps the
// generation counter; a callback that fires late checks its captured
// generation under the mutex and backs out, so a cancelled-but-already-queued
// tick never mutates post-reset state.
type Loop struct {
	mu        sync.Mutex
	engine    *engine.GameEngine
	scheduler clock.Scheduler
	scores    *highscore.Tracker

	pending  clock.Handle
	gen      uint64
	stopped  bool
	listener Listener
}

// New creates a loop around eng. scores may be nil when nothing should
// persist; the scheduler must not be nil. The engine's high score view is
// seeded from the tracker right away.
func New(eng *engine.GameEngine, scheduler clock.Scheduler, scores *highscore.Tracker) *Loop {
	l := &Loop{
		engine:    eng,
		scheduler: scheduler,
		scores:    scores,
	}
	if scores != nil {
		eng.RestoreHighScore(scores.Best())
	}
	return l
}

// SetListener registers the render-boundary callback. The listener runs
// outside the loop mutex and must treat snapshots as read-only.
func (l *Loop) SetListener(fn Listener) {
	l.mu.Lock()
	l.listener = fn
	l.mu.Unlock()
}

// Start begins a new run, replacing whatever was in flight. The pending tick
// is cancelled before the reset so it can never touch the fresh state.
func (l *Loop) Start() engine.Snapshot {
	l.mu.Lock()
	if l.stopped {
		defer l.mu.Unlock()
		return l.engine.GetSnapshot()
	}

	l.cancelPendingLocked()
	if l.scores != nil {
		l.engine.RestoreHighScore(l.scores.Best())
	}
	st := l.engine.HandleStart()
	l.scheduleTickLocked()

	log.Info().Str("run_id", st.RunID).Str("config", st.ConfigName).Msg("Run started")

	snap := l.engine.GetSnapshot()
	l.mu.Unlock()

	l.notify(snap)
	return snap
}

// RequestDirection buffers a heading change. From idle this auto-starts the
// run, so ticking begins here too.
func (l *Loop) RequestDirection(direction engine.Direction) engine.Snapshot {
	l.mu.Lock()
	if l.stopped {
		defer l.mu.Unlock()
		return l.engine.GetSnapshot()
	}

	wasIdle := l.engine.GetStatus() == engine.StatusIdle
	l.engine.HandleDirectionRequest(direction)
	l.reconcileLocked()

	if wasIdle && l.engine.IsPlaying() {
		log.Info().Str("run_id", l.engine.GetState().RunID).Msg("Run auto-started by directional input")
	}

	snap := l.engine.GetSnapshot()
	l.mu.Unlock()

	l.notify(snap)
	return snap
}

// TogglePause flips between playing and paused. Pausing cancels the pending
// tick synchronously; resuming schedules a fresh one.
func (l *Loop) TogglePause() engine.Snapshot {
	l.mu.Lock()
	if l.stopped {
		defer l.mu.Unlock()
		return l.engine.GetSnapshot()
	}

	l.engine.HandlePauseToggle()
	l.reconcileLocked()

	snap := l.engine.GetSnapshot()
	l.mu.Unlock()

	l.notify(snap)
	return snap
}

// Stop retires the loop: the pending tick is cancelled and later calls become
// reads. Used on session delete and server shutdown.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.stopped {
		l.stopped = true
		l.cancelPendingLocked()
	}
	l.mu.Unlock()
}

// Snapshot returns a consistent read-only view of the game
func (l *Loop) Snapshot() engine.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.GetSnapshot()
}

// Runs returns a copy of the finished-run ledger
func (l *Loop) Runs() []engine.RunRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	runs := l.engine.GetRuns()
	out := make([]engine.RunRecord, len(runs))
	copy(out, runs)
	return out
}

// TotalGames returns how many runs have finished
func (l *Loop) TotalGames() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.GetState().TotalGames
}

// Config returns the rules the loop was created with. The config is never
// mutated after engine construction.
func (l *Loop) Config() *engine.GameConfig {
	return l.engine.GetConfig()
}

// HighScore returns the best score visible to this loop
func (l *Loop) HighScore() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.GetHighScore()
}

// runTick executes one scheduled tick. gen identifies the schedule that
// queued it; a mismatch means the tick was cancelled or replaced after the
// timer fired, and the callback must not touch state.
func (l *Loop) runTick(gen uint64) {
	l.mu.Lock()
	if gen != l.gen || l.stopped {
		l.mu.Unlock()
		return
	}
	l.pending = nil

	st := l.engine.Advance()

	if l.scores != nil && st.Status == engine.StatusPlaying {
		if l.scores.Record(st.Score) {
			log.Info().Str("run_id", st.RunID).Int("score", st.Score).Msg("New high score")
		}
		l.engine.RestoreHighScore(l.scores.Best())
	}

	if st.Status == engine.StatusGameOver {
		if l.scores != nil {
			l.scores.Record(st.Score)
			l.engine.RestoreHighScore(l.scores.Best())
		}
		log.Info().
			Str("run_id", st.RunID).
			Int("score", st.Score).
			Uint64("ticks", st.Ticks).
			Str("cause", string(st.Cause)).
			Msg("Run ended")
	}

	l.reconcileLocked()

	snap := l.engine.GetSnapshot()
	l.mu.Unlock()

	l.notify(snap)
}

// reconcileLocked aligns scheduling with the engine status: playing games
// keep exactly one pending tick, everything else keeps none.
func (l *Loop) reconcileLocked() {
	if l.stopped {
		l.cancelPendingLocked()
		return
	}
	if l.engine.IsPlaying() {
		if l.pending == nil {
			l.scheduleTickLocked()
		}
	} else {
		l.cancelPendingLocked()
	}
}

func (l *Loop) scheduleTickLocked() {
	l.gen++
	gen := l.gen
	delay := time.Duration(l.engine.GetSpeed()) * time.Millisecond
	l.pending = l.scheduler.Schedule(delay, func() { l.runTick(gen) })
}

func (l *Loop) cancelPendingLocked() {
	if l.pending != nil {
		l.pending.Cancel()
		l.pending = nil
	}
	// A fired-but-unrun callback still holds the old generation; bumping it
	// here is what actually neutralizes the stale tick.
	l.gen++
}

func (l *Loop) notify(snap engine.Snapshot) {
	l.mu.Lock()
	fn := l.listener
	l.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}
