// Package service is the business layer between the transports and the
// Minesweeper engine.
//
// GameService owns the intents a client can send to a session: reveal,
// flag, god mode and reset. Every intent runs under one service-wide lock,
// so the single-threaded engine never sees concurrent calls. After an
// intent the service:
//
//   - appends a HistoryEntry when the game changed
//   - stamps the engine events for clients
//   - records a results.Result when the game ended
//   - bumps the OpenTelemetry counters
//   - asks the SessionManager to persist the session
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr,
//		service.WithResults(results.NewMemoryStore()))
//
//	info, err := gameService.CreateSession(ctx, "easy")
//	if err != nil {
//		return err
//	}
//	result, err := gameService.RevealAt(ctx, info.ID, 4, 4)
//
// Cells are addressed either by id (y*cols+x) or by coordinates. Ids off
// the board are ignored like any other no-op intent; coordinates off the
// board return ErrInvalidCell.
package service
