// Package session manages the lifecycle of concurrent game sessions.
//
// Each session bundles an engine, its tick loop, and bookkeeping (creation
// and last-access times). The manager hands every new loop the shared
// scheduler and high score tracker, and tags loop snapshots with the session
// ID before fanning them out to the registered notify function.
//
// Session IDs are 4 random hex characters for easy sharing; lookups are
// case-insensitive. Deleting a session stops its loop synchronously, so no
// tick can land after removal. CleanupExpiredSessions reaps sessions by
// last-access time; a running loop does not keep its session alive.
package session
