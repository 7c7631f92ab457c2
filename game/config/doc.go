// Package config provides configuration management for the Minesweeper server.
//
// The config package handles:
//   - Loading board presets from JSON and YAML files
//   - Configuration validation through engine.ValidateGameConfig
//   - Default configuration management
//   - Configuration discovery and listing, including built-in presets
//
// Configuration Format:
//
// Presets are stored as .json, .yaml or .yml files in the configs directory.
// Each configuration defines:
//   - Board dimensions (rows, cols) and the mine count
//   - Optional handle_empty_cells and handle_open_cells toggles
//   - Welcome, won and lost messages; the won message takes the elapsed
//     seconds and the move count as two %d verbs
//
// Built-in Presets:
//
// Names of the form <size>_<difficulty> resolve to built-in square boards
// when no file of that name exists: sizes small (10), medium (15) and
// large (25); difficulties easy (10 mines), medium (50) and hard (99).
// Mine counts that do not fit the board are clamped by the engine.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("expert")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
package config
