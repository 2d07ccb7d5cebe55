package clock

import (
	"sync"
	"time"
)

// Handle represents a single scheduled callback that can be cancelled
type Handle interface {
	// Cancel stops the callback from firing. It returns false when the
	// callback already fired or was already cancelled, in which case the
	// callback may still be queued to run; callers guard against that with
	// their own staleness check.
	Cancel() bool
}

// Scheduler schedules one callback to run after a delay. The game loop owns
// at most one live handle at a time and cancels-and-replaces it on every
// status transition.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Handle
}

// TimerScheduler implements Scheduler on runtime timers
type TimerScheduler struct{}

// NewTimerScheduler creates the production scheduler
func NewTimerScheduler() TimerScheduler {
	return TimerScheduler{}
}

// Schedule runs fn on its own goroutine after d
func (TimerScheduler) Schedule(d time.Duration, fn func()) Handle {
	return timerHandle{timer: time.AfterFunc(d, fn)}
}

type timerHandle struct {
	timer *time.Timer
}

func (h timerHandle) Cancel() bool {
	return h.timer.Stop()
}

// ManualScheduler implements Scheduler for tests: callbacks are collected and
// only run when the test fires them, making tick timing fully deterministic.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []*manualHandle
}

// NewManualScheduler creates an empty manual scheduler
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

type manualHandle struct {
	sched     *ManualScheduler
	delay     time.Duration
	fn        func()
	cancelled bool
	fired     bool
}

func (h *manualHandle) Cancel() bool {
	h.sched.mu.Lock()
	defer h.sched.mu.Unlock()

	if h.fired || h.cancelled {
		return false
	}
	h.cancelled = true
	return true
}

// Schedule queues fn without running it
func (m *ManualScheduler) Schedule(d time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := &manualHandle{sched: m, delay: d, fn: fn}
	m.pending = append(m.pending, h)
	return h
}

// Pending returns how many queued callbacks have neither fired nor been
// cancelled
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, h := range m.pending {
		if !h.fired && !h.cancelled {
			n++
		}
	}
	return n
}

// LastDelay returns the delay of the most recently scheduled callback
func (m *ManualScheduler) LastDelay() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.pending) == 0 {
		return 0
	}
	return m.pending[len(m.pending)-1].delay
}

// Fire runs the oldest live callback and reports whether one ran
func (m *ManualScheduler) Fire() bool {
	h := m.take(false)
	if h == nil {
		return false
	}
	h.fn()
	return true
}

// ForceFire runs the oldest queued callback even if it was cancelled,
// emulating a runtime timer that had already fired when Cancel was called.
// Returns false when nothing is queued.
func (m *ManualScheduler) ForceFire() bool {
	h := m.take(true)
	if h == nil {
		return false
	}
	h.fn()
	return true
}

func (m *ManualScheduler) take(includeCancelled bool) *manualHandle {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, h := range m.pending {
		if h.fired {
			continue
		}
		if h.cancelled && !includeCancelled {
			continue
		}
		h.fired = true
		return h
	}
	return nil
}
