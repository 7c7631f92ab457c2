// Package mcp exposes Minesweeper to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API, so agents, browsers and scripts all share the same sessions.
//
// Tools:
//   - create_session, get_session, list_sessions
//   - game_state: counters plus the board as text rows
//   - reveal, flag: take cell_id or x and y
//   - god_mode, reset_game
//   - move_history, list_configs, list_results
//   - game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
