package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tamikip/GEMINI-SNAKE/game/engine"
	"github.com/tamikip/GEMINI-SNAKE/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Snake Arcade Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Snake Arcade Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Steer the snake (@) to the food (*). Every bite grows the snake, raises the score, and shortens the tick interval. Hitting a wall or your own body ends the run.

IMPORTANT: The board advances on a SERVER-SIDE TIMER. State changes between your tool calls. Use pause_toggle to freeze the board while you plan.

AVAILABLE TOOLS:
- game_state: Get the current board and scores
- start_game: Start a fresh run (also restarts after game over)
- change_direction: Steer the snake (up/down/left/right) - requires intent explanation
- pause_toggle: Freeze or resume the clock
- run_history: View finished runs
- high_score: Best score recorded so far
- create_session: Create new game session
- get_session: Get session details
- list_sessions: List all active sessions
- delete_session: Remove a session
- list_configs: List available rule configurations
- game_instructions: Get comprehensive game instructions and rules

NOTE: The 'intent' parameter on change_direction serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the rule config to use (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a session and stop its game loop",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to delete",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleDeleteSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, score and status. The board advances on a server timer, so call this right before deciding.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Start a fresh run. Works from idle or game over; restarting mid-run abandons the current run.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleStartGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "change_direction",
		Description: "Steer the snake. A 180-degree reversal against the direction of the last executed tick is rejected; the snake keeps moving.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to steer toward",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this turn (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleChangeDirection)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "pause_toggle",
		Description: "Freeze a playing game or resume a paused one. Use this to stop the clock while planning.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handlePauseToggle)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_history",
		Description: "Get the finished-run ledger for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRunHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "high_score",
		Description: "Get the best score recorded so far along with the current run's score",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleHighScore)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game rule configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\nThe board is idle. Call start_game (or just send a direction) to begin.", session.ID, session.ConfigName)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Config: %s, Status: %s, Score: %d, Created: %s)\n",
			s.ID, s.ConfigName, s.Snapshot.Status, s.Snapshot.Score,
			s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response map[string]string
	err := c.apiCall("DELETE", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response["message"]), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var snap engine.Snapshot
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &snap)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSnapshot(&snap)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var result service.ActionResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/start", sessionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatActionResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleChangeDirection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]interface{}{
		"direction": direction,
	}

	var result service.ActionResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/direction", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatActionResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handlePauseToggle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var result service.ActionResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/pause", sessionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatActionResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleRunHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/history%s", sessionID, params), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatRunHistory(&history)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleHighScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var info service.HighScoreInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/highscore", sessionID), nil, &info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Session: %s\nHigh score: %d\nCurrent run: %d\n", info.SessionID, info.HighScore, info.Score)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s [%s]\n  %s\n  Grid: %dx%d, Start speed: %dms, Food: +%d points\n\n",
			config.Name, config.ConfigID, config.Description,
			config.GridSize, config.GridSize, config.InitialSpeedMs, config.FoodScore)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🐍 Snake Arcade Game - Complete Instructions

GAME OBJECTIVE:
Steer the snake to the food. Every bite grows the snake by one segment, adds to your score, and speeds up the game. Survive as long as possible; the run ends when the head hits a wall or the snake's own body.

GAME MECHANICS:
• Movement: The snake advances one cell per tick in its current heading
• Ticks: The board advances on a SERVER-SIDE TIMER, not on your commands
• Growth: Eating food grows the snake; the tail stays put for that tick
• Speed: Each food shortens the tick interval by a config step, down to a floor
• High score: The best score is persisted and survives restarts and sessions

BOARD LEGEND:
• @ - Snake head (your position)
• o - Snake body segment
• * - Food (steer the head onto it)
• . - Empty cell

🤖 AI AGENTS - CRITICAL SUCCESS STRATEGIES:

⏱️ REAL-TIME AWARENESS (MOST COMMON FAILURE POINT):
Unlike turn-based games, the board does NOT wait for your next tool call.

1. **Poll before deciding**: Call game_state immediately before choosing a turn.
   The snapshot you read two tool calls ago is several ticks stale.
2. **Pause to plan**: pause_toggle freezes the clock. Plan the full route while
   paused, then resume and feed turns one tick at a time.
3. **Expect drift**: At 200ms per tick the head moves 5 cells per second.
   A turn you send for "the cell ahead" may land one or two cells later.

🧭 THE REVERSAL RULE:
A 180-degree turn is rejected. The check runs against the direction of the
LAST EXECUTED TICK, not against your most recent request:

1. Moving up, request down: rejected, the snake keeps going up
2. Moving up, request left (accepted, buffered), then request down before the
   next tick: STILL rejected, because the snake has not actually moved left yet
3. To double back: turn perpendicular, wait for a tick to execute, then
   complete the U-turn with the second perpendicular turn

🗺️ ROUTE PLANNING:
- Plan paths with wall clearance; the head cannot leave the grid
- As the snake grows, the safest route follows your own tail
- The tail cell vacates on the same tick you would enter it, so chasing the
  tail is safe; the exemption holds even on growth ticks
- Watch the food respawn after each bite; it never lands on the snake

⚡ SPEED MANAGEMENT:
- Early game is slow: use it for long, safe routes
- Every bite tightens the clock; by the speed floor you have less than half
  the original thinking time per cell
- Pause freely; pausing does not cost score

🚨 CRITICAL PITFALLS TO AVOID:
- ❌ Sending a reversal and assuming it took effect (it was rejected silently
  with success=false; read the response)
- ❌ Planning a route on a stale snapshot while the clock is running
- ❌ Unpausing before the full next maneuver is decided
- ❌ Forgetting the board speeds up as the score grows
- ❌ Cutting corners next to your own body; the head moves first

CONTROL COMMANDS:
- start_game: Begin a fresh run (from idle or game over; mid-run it restarts)
- change_direction: up, down, left, right; buffered and applied on the next tick
- pause_toggle: Freeze or resume the clock

RUN LIFECYCLE:
- idle: Fresh session, clock stopped; start_game or any direction input begins
- playing: The clock ticks; direction inputs steer the snake
- paused: The clock stops; pause_toggle resumes
- game_over: The run is frozen on the final board; start_game begins a new run
- Finished runs land in run_history with score, length, ticks and cause

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Each session has a unique short ID and its own independent clock
- The high score is shared: any session can set it, all sessions see it
- Use session-specific tools for multi-game management

Remember: The clock never waits. Poll fresh state, pause while you think, and
never trust a turn until the response confirms it was accepted.

Good luck steering the snake! 🐍🍏`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatSnapshot(&session.Snapshot))
}

func formatSnapshot(snap *engine.Snapshot) string {
	if snap == nil {
		return "No game state available"
	}

	var result strings.Builder

	// Header
	result.WriteString(fmt.Sprintf("Status: %s | Score: %d | High score: %d | Speed: %dms | Length: %d | Ticks: %d\n",
		snap.Status, snap.Score, snap.HighScore, snap.Speed, len(snap.Snake), snap.Ticks))

	// Heading line; Direction is the buffered request, LastApplied is what the
	// snake actually did last tick
	if snap.Status == engine.StatusPlaying || snap.Status == engine.StatusPaused {
		heading := fmt.Sprintf("Moving: %s", snap.LastApplied)
		if snap.Direction != snap.LastApplied {
			heading += fmt.Sprintf(" (turning %s on the next tick)", snap.Direction)
		}
		result.WriteString(heading + "\n")
	}
	result.WriteString("\n")

	// Board
	for _, row := range engine.BoardRows(*snap) {
		result.WriteString(row)
		result.WriteString("\n")
	}

	// Status trailer
	if snap.Status == engine.StatusGameOver {
		result.WriteString(fmt.Sprintf("\n💀 GAME OVER (%s collision)", snap.Cause))
	}

	if snap.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", snap.Message))
	}

	return result.String()
}

func formatActionResult(result *service.ActionResult) string {
	response := ""
	if result.Success {
		response = "✓ Accepted\n"
	} else {
		response = "✗ Rejected\n"
	}

	if result.Message != "" {
		response += result.Message + "\n"
	}

	if len(result.Events) > 0 {
		response += "Events:\n"
		for _, event := range result.Events {
			response += fmt.Sprintf("- %s: %s\n", event.Type, event.Message)
		}
	}

	response += "\n" + formatSnapshot(&result.Snapshot)
	return response
}

func formatRunHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Run History (Page %d/%d) | Total runs: %d\n\n",
		history.Page, history.TotalPages, history.TotalRuns)

	if len(history.Runs) == 0 {
		return result + "(no finished runs yet)"
	}

	for _, run := range history.Runs {
		result += fmt.Sprintf("%d. score %d | %d ticks | length %d | cause: %s | ended %s\n",
			run.RunNumber, run.Score, run.Ticks, run.Length, run.Cause,
			time.Unix(run.EndedAt, 0).Format("15:04:05"))
	}

	return result
}
