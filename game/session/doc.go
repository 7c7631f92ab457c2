// Package session keeps Minesweeper games alive between requests.
//
// Manager stores sessions in memory behind a read-write lock and looks them
// up case-insensitively. Sessions created without an ID get a random
// 4-character hex one.
//
// Persistence:
//
// A Manager built with NewManagerWithPersistence writes every new session to
// a SessionPersistence backend and lazily reloads sessions that are not in
// memory. Two backends are provided:
//
//   - FilePersistence writes one JSON document per session
//   - BoltPersistence stores the same document in a bbolt bucket
//
// Only games in progress carry a snapshot. A session whose game was idle or
// finished, or whose snapshot no longer matches its config, comes back as a
// fresh game.
//
// Usage:
//
//	store, err := session.NewBoltPersistence(db, configs)
//	if err != nil {
//		return err
//	}
//	manager := session.NewManagerWithPersistence(store)
//	sess, err := manager.Create("", config)
package session
