// Package websocket provides the spectator transport for snake sessions.
//
// The websocket package implements:
//   - Real-time state streaming driven by the game loops
//   - Session-aware WebSocket connections
//   - Connection lifecycle management
//   - Slow-client eviction
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// goroutine that manages reading, writing, and cleanup.
//
// Unlike the REST surface, nothing here mutates game state. Connections are
// read-only spectator streams; inputs travel through the REST and MCP
// transports, and the per-session game loop pushes a fresh snapshot to the
// hub after every state change it makes.
//
// Message Protocol:
//
// Messages are JSON-encoded:
//
//	{"session_id": "ab12", "event": "state_update", "snapshot": {...}}
//
// The snapshot payload carries the snake, food, score, speed and status
// exactly as GET /api/sessions/{id}/state reports them.
//
// Session Integration:
//
// Clients specify their session ID via query parameter (?session=ab12) when
// establishing the connection. State updates are broadcast only to clients
// connected to the same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// as the session manager's notify callback
//	manager := session.NewManager(scheduler, scores, hub.BroadcastToSession)
//
// Concurrency:
//
// Broadcasts arrive from per-session loop timers while registration and
// disconnection run on the hub's own goroutine, so the client registry is
// mutex-guarded. A client whose send buffer stays full is evicted rather
// than allowed to stall the broadcast path.
package websocket
