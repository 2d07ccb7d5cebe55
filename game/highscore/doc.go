// Package highscore persists the best score across games and processes.
//
// Store is the external key-value boundary: get and set by string key,
// nothing more. FileStore keeps a JSON map on disk, MemStore backs tests.
// Tracker layers the game rule on top: read once at startup, fall back to
// zero on anything unparsable, write through on every new record. All
// sessions of a server share one tracker, so any game can raise the record.
package highscore
