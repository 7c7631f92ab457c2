// Package engine provides the core game logic for Minesweeper.
//
// The engine package implements the game mechanics including:
//   - Board geometry, cell ids and neighbor enumeration
//   - Deferred mine placement that never mines the first click
//   - Flood-fill reveals of empty regions and chord reveals/flags
//   - Win and loss detection with a stopwatch that freezes at the end
//   - Snapshot and restore of games in progress
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. Every intent (Reveal, Flag, GodMode) returns a
// Delta listing the cells that changed, the opening layers and the events
// raised. GameState is the read-only projection handed to clients; mines stay
// hidden until they are opened or the game is over.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	delta := gameEngine.Reveal(42)
//	flagged, ok := gameEngine.ToggleFlag(7)
//	state := gameEngine.State()
//
// Game Rules:
//
// Cells are addressed as id = y*cols + x. The first reveal places the mines.
// Revealing an open numbered cell whose flagged neighbours match its number
// opens the remaining neighbours; when its closed neighbours match the number
// they are flagged instead. Opening a mine loses; opening every safe cell
// wins. After either, intents are ignored until Reset.
//
// The engine is single-threaded. Callers serialize access.
package engine
