// Package service provides the business logic layer for the snake game server.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration management and loading
//   - Control operations (start, direction requests, pause)
//   - Session lifecycle management
//   - Finished-run history tracking
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game loops, providing session isolation, configuration management, and
// business logic orchestration. Each session owns a tick loop around its own
// engine instance; the service never touches an engine directly, so every
// read and control operation is serialized against the ticks.
//
// Usage:
//
//	sessionMgr := session.NewManager(clock.NewTimerScheduler(), tracker, nil)
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	// Create a new session
//	sessionInfo, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Steer the snake
//	result, err := gameService.RequestDirection(ctx, sessionInfo.ID, "left")
//
// Session Management:
//
// Sessions are identified by unique 4-character IDs and maintain independent
// game state. Multiple sessions can run concurrently with different
// configurations. Sessions track creation time, last access time, and a
// ledger of finished runs for analytics and debugging.
package service
