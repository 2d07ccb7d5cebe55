// Package clock provides the scheduling boundary for the game loop.
//
// The tick cadence is timer driven and self rescheduling: after each tick the
// loop schedules the next one, so at most one callback is ever pending per
// game. Scheduler and Handle make that contract explicit and swappable.
// TimerScheduler backs production on time.AfterFunc; ManualScheduler lets
// tests fire ticks deterministically, including force-firing a cancelled
// callback to exercise the loop's staleness guard.
package clock
