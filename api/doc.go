// Package api provides the HTTP REST surface of the snake game server.
//
// The api package implements:
//   - RESTful endpoints for game control (start, direction, pause)
//   - Session management endpoints
//   - Configuration listing and creation
//   - Run history and high score retrieval
//   - QR code rendering for session sharing
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session (optional config_id in body)
//   - GET /api/sessions - List all sessions (sort, order, limit)
//   - GET /api/sessions/scoreboard - Scores across all sessions
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session and stop its loop
//
// Game Operations:
//   - POST /api/sessions/{id}/start - Begin a fresh run
//   - POST /api/sessions/{id}/direction - Buffer a heading change {"direction": "up|down|left|right"}
//   - POST /api/sessions/{id}/pause - Toggle pause
//
// Game State:
//   - GET /api/sessions/{id}/state - Current snapshot
//   - GET /api/sessions/{id}/board - ASCII board rows
//   - GET /api/sessions/{id}/history - Finished runs with pagination
//   - GET /api/sessions/{id}/highscore - Best score visible to the session
//   - GET /api/sessions/{id}/qr - PNG QR code linking to the session stream
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - POST /api/configs - Save a new configuration
//   - GET /api/configs/{name} - Get a configuration
//
// Request/Response Format:
//
// All endpoints accept and return JSON except /qr, which returns image/png.
// Control operations return an ActionResult:
//
//	{
//	  "success": true,
//	  "snapshot": { ... },
//	  "message": "...",
//	  "events": [{"type": "started", "message": "...", "timestamp": "..."}]
//	}
//
// A rejected reversal is a 200 with success=false; the snapshot shows the
// buffer unchanged. Invalid directions and malformed bodies are 400s,
// unknown sessions 404s.
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
//
// The handlers never push to WebSocket clients themselves: every state
// change is already broadcast by the session's loop listener, so a REST
// control op and the resulting stream update cannot diverge.
package api
