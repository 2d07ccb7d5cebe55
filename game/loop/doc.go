// Package loop ties an engine to a scheduler and runs the tick cycle.
//
// The engine package is pure state transformation; this package is where
// time enters. Each Loop owns one engine and keeps at most one pending tick
// scheduled at a time. When the tick fires it advances the game, persists a
// new high score through the tracker, and schedules the next tick at the
// engine's current speed, so eating food tightens the cadence from the very
// next tick.
//
// # Concurrency Model
//
// A single mutex guards the engine. Input events (start, direction, pause)
// and tick callbacks all take it, so a tick runs to completion with no event
// interleaved, and events land on tick boundaries.
//
// Cancellation is synchronous from the caller's point of view: pausing or
// stopping cancels the pending handle before returning. A timer that already
// fired can still have its callback queued; the loop guards against that
// with a generation counter. Every schedule captures the current generation,
// every cancel-or-replace bumps it, and a callback whose generation is stale
// returns without touching state. After a pause, stop, or mid-run restart
// there is no window where an old tick can advance the new game.
//
// # Usage
//
//	eng, _ := engine.NewEngine(nil)
//	l := loop.New(eng, clock.NewTimerScheduler(), tracker)
//	l.SetListener(func(snap engine.Snapshot) { hub.Broadcast(snap) })
//	l.Start()
//
// Tests swap clock.NewTimerScheduler for a manual scheduler and fire ticks
// by hand.
package loop
