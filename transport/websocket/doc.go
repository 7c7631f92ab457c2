// Package websocket pushes Minesweeper session updates to browsers.
//
// A central Hub owns every connection. Clients subscribe to one session with
// /ws?session=<id> and receive JSON messages of the form
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//
// Events:
//   - state_update: full GameState after an intent
//   - game_event: the events produced by an intent (opened, flagged, won...)
//   - tick: elapsed seconds of a running game, once per ticker interval
//
// Intents never travel over the socket; clients use the REST API or MCP.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	go hub.RunTicker(ctx, time.Second, lookupState)
//
// Broadcast calls never block: when the hub falls behind, messages are
// dropped, and a client whose send buffer is full is disconnected.
package websocket
