// Package mcp provides the Model Context Protocol surface for the snake game.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for session and game control
//   - A thin proxy over the REST API (no direct engine access)
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - game_state: Get the current board, score, speed and status
//   - start_game: Start a fresh run (also restarts after game over)
//   - change_direction: Steer the snake; reversals are rejected
//   - pause_toggle: Freeze or resume the server-side clock
//   - run_history: Retrieve the finished-run ledger with pagination
//   - high_score: Best persisted score plus the current run's score
//   - create_session: Create new game session with config selection
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - delete_session: Remove a session and stop its loop
//   - list_configs: List available rule configurations
//   - game_instructions: Full rules and agent strategy notes
//
// Real-Time Behavior:
//
// Unlike turn-based MCP games, the board advances on a server-side timer
// between tool calls. Tool responses embed a fresh snapshot after every
// operation, and game_instructions documents the pacing strategies agents
// need (poll before deciding, pause while planning, respect the reversal
// rule).
//
// Architecture:
//
// The client proxies every tool call to the REST API rather than holding a
// service reference. This keeps a single authoritative server process; the
// MCP process can run on another machine or restart freely without touching
// game state.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
