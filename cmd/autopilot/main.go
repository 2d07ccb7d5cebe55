// Command autopilot plays snake against a running game server over its REST
// API. It polls the session state, picks a heading for every tick with a
// greedy food-chasing strategy, and plays a configurable number of runs.
//
// The server advances the game on its own timer, so the pilot has to keep up:
// it polls faster than the tick cadence and only reacts when the tick counter
// moves.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tamikip/GEMINI-SNAKE/game/engine"
	"github.com/tamikip/GEMINI-SNAKE/game/service"
)

// Client is a thin wrapper over the game server's REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

// NewClient creates a client against baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateSession creates a fresh session, optionally with a named rules config
func (c *Client) CreateSession(configID string) (*service.SessionInfo, error) {
	var reqBody []byte
	var err error

	if configID != "" {
		reqBody, err = json.Marshal(map[string]string{"config_id": configID})
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	resp, err := c.client.Post(c.baseURL+"/api/sessions", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create session failed: %s - %s", resp.Status, string(body))
	}

	var info service.SessionInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("parse session response: %w", err)
	}

	c.sessionID = info.ID
	return &info, nil
}

// GetState fetches the current snapshot for the session
func (c *Client) GetState() (*engine.Snapshot, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/state", c.baseURL, c.sessionID)
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get state failed: %s - %s", resp.Status, string(body))
	}

	var snap engine.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	return &snap, nil
}

// Start begins a run. From idle or game over it starts fresh; from a live
// game it restarts.
func (c *Client) Start() (*service.ActionResult, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/start", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("start failed: %s - %s", resp.Status, string(body))
	}

	var result service.ActionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse start response: %w", err)
	}
	return &result, nil
}

// Direction requests a heading for the next tick
func (c *Client) Direction(dir engine.Direction) (*service.ActionResult, error) {
	body, err := json.Marshal(map[string]string{"direction": string(dir)})
	if err != nil {
		return nil, fmt.Errorf("marshal direction: %w", err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/direction", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("request direction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("direction failed: %s - %s", resp.Status, string(respBody))
	}

	var result service.ActionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse direction response: %w", err)
	}
	return &result, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	configID := flag.String("config", "", "Rules configuration id (classic, sprint, zen)")
	continueSession := flag.String("continue", "", "Steer an existing session by ID")
	runs := flag.Int("runs", 5, "How many runs to play")
	maxTicks := flag.Int("max-ticks", 5000, "Safety cap on ticks per run")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	log.Logger = log.Output(os.Stdout)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Info().Str("url", *serverURL).Msg("Connecting to game server")
	client := NewClient(*serverURL)

	// Check for saved session ID
	sessionFile := ".session"
	savedSessionID := ""

	if *continueSession != "" {
		savedSessionID = *continueSession
	} else if data, err := os.ReadFile(sessionFile); err == nil {
		savedSessionID = string(bytes.TrimSpace(data))
	}

	if savedSessionID != "" {
		client.sessionID = savedSessionID
		if snap, err := client.GetState(); err != nil {
			log.Warn().Err(err).Msg("Failed to resume session (may be expired), creating a new one")
			savedSessionID = ""
		} else {
			log.Info().
				Str("session", savedSessionID).
				Int("grid", snap.GridSize).
				Int("high_score", snap.HighScore).
				Msg("🔄 Session resumed")
		}
	}

	if savedSessionID == "" {
		info, err := client.CreateSession(*configID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create session")
		}
		log.Info().
			Str("session", info.ID).
			Str("config", info.ConfigName).
			Int("grid", info.Snapshot.GridSize).
			Int("speed_ms", info.Snapshot.Speed).
			Msg("✨ Session created")

		if err := os.WriteFile(sessionFile, []byte(info.ID), 0644); err != nil {
			log.Warn().Err(err).Msg("Failed to save session ID")
		}
	}

	pilot := NewAutopilot()
	best := 0

	for run := 1; run <= *runs; run++ {
		result, err := client.Start()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to start run")
		}
		snap := &result.Snapshot
		log.Info().Int("run", run).Str("run_id", snap.RunID).Msg("🎮 Run started")

		pilot.Reset()
		lastTick := snap.Ticks

		for snap.Status == engine.StatusPlaying && snap.Ticks < uint64(*maxTicks) {
			// Poll faster than the tick cadence so no tick goes unanswered
			pollMs := snap.Speed / 3
			if pollMs < 15 {
				pollMs = 15
			}
			time.Sleep(time.Duration(pollMs) * time.Millisecond)

			snap, err = client.GetState()
			if err != nil {
				log.Fatal().Err(err).Msg("Lost the session")
			}
			if snap.Status != engine.StatusPlaying {
				break
			}
			if snap.Ticks == lastTick {
				continue
			}
			lastTick = snap.Ticks

			dir := pilot.NextDirection(snap)
			if dir == snap.Direction {
				// Already buffered for the next tick
				continue
			}

			res, err := client.Direction(dir)
			if err != nil {
				log.Debug().Err(err).Msg("Direction request failed")
				continue
			}
			if !res.Success {
				log.Debug().
					Str("direction", string(dir)).
					Str("reason", res.Message).
					Msg("Direction rejected")
			}
		}

		if snap.Score > best {
			best = snap.Score
		}
		log.Info().
			Int("run", run).
			Int("score", snap.Score).
			Uint64("ticks", snap.Ticks).
			Int("length", len(snap.Snake)).
			Str("cause", string(snap.Cause)).
			Int("decisions", pilot.Decisions()).
			Msg("Run over")
	}

	log.Info().Int("best_score", best).Msg("🏆 Autopilot done")
}
