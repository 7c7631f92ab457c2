// Package api provides the HTTP REST API for Minesweeper sessions.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session ({"config_id": "expert"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Multi-session view (?sessionIds=a,b or ?configName=x)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game:
//   - GET /api/sessions/{id}/state - Current GameState
//   - POST /api/sessions/{id}/reveal - Reveal a cell
//   - POST /api/sessions/{id}/flag - Toggle a flag
//   - POST /api/sessions/{id}/god - Flag every mine and win
//   - POST /api/sessions/{id}/reset - New game, optionally {"config_id": "..."}
//   - GET /api/sessions/{id}/history - Action history (?page&limit&order)
//
// Cells are addressed by row-major id or by coordinates:
//
//	{"cell_id": 42}
//	{"x": 2, "y": 4}
//
// Configuration and results:
//   - GET /api/configs, GET /api/configs/{name}, POST /api/configs
//   - GET /api/results?limit=N - Finished games, newest first
//   - GET /api/health
//
// GET /ws?session=<id> upgrades to a WebSocket; see transport/websocket.
//
// Errors are JSON with a matching status code:
//
//	{"error": "session not found"}
//
// Unknown sessions and configs are 404, off-board coordinates and invalid
// configs 400, duplicate session IDs 409.
package api
