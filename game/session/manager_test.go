package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tamikip/GEMINI-SNAKE/game/clock"
	"github.com/tamikip/GEMINI-SNAKE/game/engine"
	"github.com/tamikip/GEMINI-SNAKE/game/highscore"
)

func createTestConfig() *engine.GameConfig {
	config := engine.DefaultGameConfig()
	config.Name = "Test Config"
	config.Description = "Test configuration"
	config.GridSize = 12
	config.InitialSpeedMs = 100
	config.MinSpeedMs = 60
	config.SpeedStepMs = 20
	return config
}

func newTestManager() (*Manager, *clock.ManualScheduler) {
	sched := clock.NewManualScheduler()
	return NewManager(sched, nil, nil), sched
}

func TestManager_Create(t *testing.T) {
	manager, _ := newTestManager()
	config := createTestConfig()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Loop == nil {
			t.Error("Expected loop to be initialized")
		}
		if session.Loop.Snapshot().Status != engine.StatusIdle {
			t.Error("Expected new session to start idle")
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID == "" {
			t.Error("Expected auto-generated session ID")
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character session ID, got %d characters", len(session.ID))
		}
	})

	t.Run("create with nil config uses defaults", func(t *testing.T) {
		session, err := manager.Create("defaulted", nil)
		if err != nil {
			t.Fatalf("Failed to create session with nil config: %v", err)
		}
		if session.Config == nil {
			t.Fatal("Expected a config to be filled in")
		}
		if session.Config.GridSize != engine.DefaultGridSize {
			t.Errorf("Expected default grid size %d, got %d", engine.DefaultGridSize, session.Config.GridSize)
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", config)
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", config)
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid session ID", func(t *testing.T) {
		_, err := manager.Create("has spaces", config)
		if !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
		_, err = manager.Create("way-too-long-to-be-a-reasonable-session-identifier", config)
		if !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Expected ErrInvalidSessionID for oversized ID, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		invalidConfig := createTestConfig()
		invalidConfig.GridSize = 2
		_, err := manager.Create("invalid-test", invalidConfig)
		if err == nil {
			t.Error("Expected error for invalid config")
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager, _ := newTestManager()
	config := createTestConfig()

	created, _ := manager.Create("get-test", config)

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session.ID != created.ID {
			t.Errorf("Expected session ID '%s', got '%s'", created.ID, session.ID)
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session.ID != created.ID {
			t.Errorf("Expected same session regardless of case")
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("non-existent")
		if !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_GetOrCreate(t *testing.T) {
	manager, _ := newTestManager()
	config := createTestConfig()

	t.Run("create new session", func(t *testing.T) {
		session, err := manager.GetOrCreate("new-session", config)
		if err != nil {
			t.Fatalf("Failed to get or create session: %v", err)
		}
		if session.ID != "new-session" {
			t.Errorf("Expected session ID 'new-session', got '%s'", session.ID)
		}
	})

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.GetOrCreate("new-session", config)
		if err != nil {
			t.Fatalf("Failed to get existing session: %v", err)
		}
		if session.ID != "new-session" {
			t.Errorf("Expected same session ID")
		}
	})
}

func TestManager_DeleteStopsLoop(t *testing.T) {
	manager, sched := newTestManager()
	config := createTestConfig()

	session, _ := manager.Create("delete-test", config)
	session.Loop.Start()
	if sched.Pending() != 1 {
		t.Fatalf("Expected a pending tick after start, got %d", sched.Pending())
	}

	if err := manager.Delete("delete-test"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}

	if sched.Pending() != 0 {
		t.Errorf("Expected delete to cancel the session's pending tick, got %d", sched.Pending())
	}
	if _, err := manager.Get("delete-test"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected session to be deleted")
	}

	t.Run("delete non-existent session", func(t *testing.T) {
		err := manager.Delete("non-existent")
		if !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("case-insensitive delete", func(t *testing.T) {
		manager.Create("case-test", config)
		if err := manager.Delete("CASE-TEST"); err != nil {
			t.Fatalf("Failed to delete with different case: %v", err)
		}
		if _, err := manager.Get("case-test"); !errors.Is(err, ErrSessionNotFound) {
			t.Error("Expected session to be deleted regardless of case")
		}
	})
}

func TestManager_List(t *testing.T) {
	manager, _ := newTestManager()
	config := createTestConfig()

	session1, _ := manager.Create("list-1", config)
	session2, _ := manager.Create("list-2", config)
	session3, _ := manager.Create("list-3", config)

	sessions := manager.List()

	if len(sessions) != 3 {
		t.Errorf("Expected 3 sessions, got %d", len(sessions))
	}
	if manager.Count() != 3 {
		t.Errorf("Expected count 3, got %d", manager.Count())
	}

	foundSessions := make(map[string]bool)
	for _, s := range sessions {
		foundSessions[s.ID] = true
	}

	if !foundSessions[session1.ID] || !foundSessions[session2.ID] || !foundSessions[session3.ID] {
		t.Error("Expected all created sessions in the list")
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager, sched := newTestManager()
	config := createTestConfig()

	active, _ := manager.Create("active", config)
	expired, _ := manager.Create("expired", config)

	// The expired session is mid-game; cleanup must stop its loop anyway
	expired.Loop.Start()
	if sched.Pending() != 1 {
		t.Fatalf("Expected a pending tick, got %d", sched.Pending())
	}

	expired.LastAccessedAt = time.Now().Add(-2 * time.Hour)
	active.LastAccessedAt = time.Now()

	deleted := manager.CleanupExpiredSessions(1 * time.Hour)

	if deleted != 1 {
		t.Errorf("Expected 1 session to be deleted, got %d", deleted)
	}
	if sched.Pending() != 0 {
		t.Errorf("Expected cleanup to stop the reaped session's loop, got %d pending", sched.Pending())
	}

	if _, err := manager.Get("expired"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected expired session to be deleted")
	}
	if _, err := manager.Get("active"); err != nil {
		t.Error("Expected active session to still exist")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager, _ := newTestManager()
	config := createTestConfig()

	session, _ := manager.Create("access-test", config)
	originalTime := session.LastAccessedAt

	// Wait a bit to ensure time difference
	time.Sleep(10 * time.Millisecond)

	if err := manager.UpdateLastAccessed("access-test"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}

	updated, _ := manager.Get("access-test")
	if !updated.LastAccessedAt.After(originalTime) {
		t.Error("Expected LastAccessedAt to be updated")
	}
}

func TestManager_NotifyTagsSessionID(t *testing.T) {
	var mu sync.Mutex
	var gotIDs []string

	sched := clock.NewManualScheduler()
	manager := NewManager(sched, nil, func(sessionID string, snap engine.Snapshot) {
		mu.Lock()
		gotIDs = append(gotIDs, sessionID)
		mu.Unlock()
	})

	session, err := manager.Create("notify-me", createTestConfig())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	session.Loop.Start()
	sched.Fire()

	mu.Lock()
	defer mu.Unlock()
	if len(gotIDs) != 2 {
		t.Fatalf("Expected 2 notifications (start, tick), got %d", len(gotIDs))
	}
	for _, id := range gotIDs {
		if id != "notify-me" {
			t.Errorf("Expected notifications tagged 'notify-me', got '%s'", id)
		}
	}
}

func TestManager_SharedHighScore(t *testing.T) {
	store := highscore.NewMemStore()
	tracker := highscore.NewTracker(store, highscore.DefaultKey)
	sched := clock.NewManualScheduler()
	manager := NewManager(sched, tracker, nil)

	first, _ := manager.Create("one", createTestConfig())
	second, _ := manager.Create("two", createTestConfig())

	if ok := tracker.Record(120); !ok {
		t.Fatal("Expected the record to stick")
	}

	// A new run picks up the shared record
	first.Loop.Start()
	second.Loop.Start()
	if got := first.Loop.Snapshot().HighScore; got != 120 {
		t.Errorf("Expected session one to see high score 120, got %d", got)
	}
	if got := second.Loop.Snapshot().HighScore; got != 120 {
		t.Errorf("Expected session two to see high score 120, got %d", got)
	}
}

func TestManager_Shutdown(t *testing.T) {
	manager, sched := newTestManager()
	config := createTestConfig()

	for i := 0; i < 3; i++ {
		session, _ := manager.Create(fmt.Sprintf("shutdown-%d", i), config)
		session.Loop.Start()
	}
	if sched.Pending() != 3 {
		t.Fatalf("Expected 3 pending ticks, got %d", sched.Pending())
	}

	manager.Shutdown()

	if sched.Pending() != 0 {
		t.Errorf("Expected shutdown to cancel all pending ticks, got %d", sched.Pending())
	}
	// Sessions remain readable after shutdown
	if manager.Count() != 3 {
		t.Errorf("Expected sessions to stay listed after shutdown, got %d", manager.Count())
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager, _ := newTestManager()
	config := createTestConfig()

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := manager.Create(fmt.Sprintf("conc-%d", id), config)
			if err != nil && !errors.Is(err, ErrSessionAlreadyExists) {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	if manager.Count() != 100 {
		t.Errorf("Expected 100 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager, sched := newTestManager()
	config := createTestConfig()

	session1, _ := manager.Create("iso-1", config)
	session2, _ := manager.Create("iso-2", config)

	session1.Loop.Start()
	sched.Fire()

	if got := session1.Loop.Snapshot().Ticks; got != 1 {
		t.Errorf("Expected session 1 to have ticked once, got %d", got)
	}
	if got := session2.Loop.Snapshot().Ticks; got != 0 {
		t.Errorf("Session 2 should not be affected by session 1, got %d ticks", got)
	}
	if session2.Loop.Snapshot().Status != engine.StatusIdle {
		t.Error("Sessions should have independent game state")
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager, _ := newTestManager()
	config := createTestConfig()

	generatedIDs := make(map[string]bool)

	for i := 0; i < 50; i++ {
		session, err := manager.Create("", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		if generatedIDs[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generatedIDs[session.ID] = true

		// Verify ID format (4 hex characters)
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got %d", len(session.ID))
		}
	}
}
