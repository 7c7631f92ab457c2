// Package results records finished games.
//
// Every game that ends in a win or a loss produces a Result with the board
// dimensions, mine count, elapsed seconds and move count. Stores list results
// newest first. MemoryStore is used when no database is configured;
// BoltStore keeps the history in the same bbolt file as the sessions.
package results
