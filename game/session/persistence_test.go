package session

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/wricardo/mcp-training/minesweeper/game/config"
	"github.com/wricardo/mcp-training/minesweeper/game/engine"
	"github.com/wricardo/mcp-training/minesweeper/game/service"
)

// classicSnapshot is a game in progress on the classic board: mines on the
// top 15 cells, bottom-right cell open.
func classicSnapshot() *engine.Snapshot {
	cells := make([]engine.CellState, 100)
	mines := make([]int, 0, 15)
	for id := range 15 {
		cells[id] = engine.StateMined
		mines = append(mines, id)
	}
	cells[14] |= engine.StateFlagged
	cells[99] = engine.StateOpen
	return &engine.Snapshot{
		Cells:    cells,
		Mines:    mines,
		Counters: engine.Counters{Time: 30, Moves: 1},
	}
}

func newConfigManager(t *testing.T) *config.Manager {
	t.Helper()
	cm, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	return cm
}

func newPlayingSession(t *testing.T, cm *config.Manager, id string) *service.Session {
	t.Helper()
	cfg, err := cm.LoadConfig("classic")
	if err != nil {
		t.Fatalf("Failed to load classic config: %v", err)
	}
	eng, err := engine.RestoreEngine(cfg, classicSnapshot())
	if err != nil {
		t.Fatalf("Failed to restore engine: %v", err)
	}
	now := time.Now().UTC().Truncate(time.Second)
	return &service.Session{
		ID:             id,
		ConfigID:       "classic",
		Engine:         eng,
		Config:         cfg,
		CreatedAt:      now,
		LastAccessedAt: now,
		History: []service.HistoryEntry{
			{Seq: 1, Action: "reveal", CellID: 99, Changed: true, Opened: 1, Status: engine.StatusPlaying, Timestamp: now},
		},
	}
}

type backend struct {
	name string
	open func(t *testing.T, cm *config.Manager) SessionPersistence
}

func backends() []backend {
	return []backend{
		{
			name: "file",
			open: func(t *testing.T, cm *config.Manager) SessionPersistence {
				p, err := NewFilePersistence(filepath.Join(t.TempDir(), "sessions"), cm)
				if err != nil {
					t.Fatalf("Failed to create file persistence: %v", err)
				}
				return p
			},
		},
		{
			name: "bolt",
			open: func(t *testing.T, cm *config.Manager) SessionPersistence {
				db, err := bolt.Open(filepath.Join(t.TempDir(), "test.db"), 0600, nil)
				if err != nil {
					t.Fatalf("Failed to open bolt db: %v", err)
				}
				t.Cleanup(func() { db.Close() })
				p, err := NewBoltPersistence(db, cm)
				if err != nil {
					t.Fatalf("Failed to create bolt persistence: %v", err)
				}
				return p
			},
		},
	}
}

func TestPersistence_RoundTrip(t *testing.T) {
	cm := newConfigManager(t)

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			p := b.open(t, cm)
			original := newPlayingSession(t, cm, "Ab12")

			if err := p.Save(original); err != nil {
				t.Fatalf("Failed to save session: %v", err)
			}

			loaded, err := p.Load("ab12")
			if err != nil {
				t.Fatalf("Failed to load session: %v", err)
			}

			if loaded.ID != "Ab12" {
				t.Errorf("Expected ID 'Ab12', got '%s'", loaded.ID)
			}
			if loaded.ConfigID != "classic" {
				t.Errorf("Expected config 'classic', got '%s'", loaded.ConfigID)
			}
			if loaded.Engine.Status() != engine.StatusPlaying {
				t.Errorf("Expected playing game, got %s", loaded.Engine.Status())
			}
			if loaded.Engine.Moves() != 1 {
				t.Errorf("Expected 1 move, got %d", loaded.Engine.Moves())
			}
			if loaded.Engine.ElapsedSeconds() < 30 {
				t.Errorf("Expected stopwatch to resume from 30s, got %d", loaded.Engine.ElapsedSeconds())
			}
			if cell, _ := loaded.Engine.Cell(99); !cell.Open {
				t.Error("Expected cell 99 to stay open")
			}
			if cell, _ := loaded.Engine.Cell(14); !cell.Flagged {
				t.Error("Expected cell 14 to stay flagged")
			}
			if len(loaded.History) != 1 || loaded.History[0].CellID != 99 {
				t.Errorf("Expected history to survive, got %+v", loaded.History)
			}
			if !loaded.CreatedAt.Equal(original.CreatedAt) {
				t.Errorf("Expected CreatedAt %v, got %v", original.CreatedAt, loaded.CreatedAt)
			}
		})
	}
}

func TestPersistence_FinishedGameReloadsIdle(t *testing.T) {
	cm := newConfigManager(t)

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			p := b.open(t, cm)
			sess := newPlayingSession(t, cm, "lost")
			sess.Engine.Reveal(0)
			if !sess.Engine.IsLost() {
				t.Fatal("Expected revealing a mine to lose the game")
			}

			if err := p.Save(sess); err != nil {
				t.Fatalf("Failed to save session: %v", err)
			}
			loaded, err := p.Load("lost")
			if err != nil {
				t.Fatalf("Failed to load session: %v", err)
			}
			if loaded.Engine.Status() != engine.StatusIdle {
				t.Errorf("Expected finished game to reload idle, got %s", loaded.Engine.Status())
			}
		})
	}
}

func TestPersistence_DeleteListExists(t *testing.T) {
	cm := newConfigManager(t)

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			p := b.open(t, cm)

			for _, id := range []string{"aaaa", "bbbb"} {
				if err := p.Save(newPlayingSession(t, cm, id)); err != nil {
					t.Fatalf("Failed to save %s: %v", id, err)
				}
			}

			ids, err := p.ListAll()
			if err != nil {
				t.Fatalf("Failed to list sessions: %v", err)
			}
			sort.Strings(ids)
			if len(ids) != 2 || ids[0] != "aaaa" || ids[1] != "bbbb" {
				t.Errorf("Expected [aaaa bbbb], got %v", ids)
			}

			if !p.Exists("AAAA") {
				t.Error("Expected case-insensitive Exists")
			}
			if err := p.Delete("aaaa"); err != nil {
				t.Fatalf("Failed to delete session: %v", err)
			}
			if p.Exists("aaaa") {
				t.Error("Expected session to be gone")
			}
			if err := p.Delete("aaaa"); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Expected ErrSessionNotFound, got %v", err)
			}
			if _, err := p.Load("aaaa"); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Expected ErrSessionNotFound on load, got %v", err)
			}
		})
	}
}

func TestFilePersistence_CorruptSnapshot(t *testing.T) {
	cm := newConfigManager(t)
	dir := t.TempDir()
	p, err := NewFilePersistence(dir, cm)
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	// Cell 99 claims to be mined but is not in the mine list
	doc := `{
  "id": "bad1",
  "config_name": "classic",
  "snapshot": {"cells": [` + repeatZero(99) + `1], "mines": [0,1,2,3,4,5,6,7,8,9,10,11,12,13,14], "counters": {"time": 5, "moves": 1}}
}`
	if err := os.WriteFile(filepath.Join(dir, "bad1.json"), []byte(doc), 0644); err != nil {
		t.Fatalf("Failed to write session file: %v", err)
	}

	loaded, err := p.Load("bad1")
	if err != nil {
		t.Fatalf("Expected corrupt snapshot to fall back to a fresh game, got %v", err)
	}
	if loaded.Engine.Status() != engine.StatusIdle {
		t.Errorf("Expected idle game, got %s", loaded.Engine.Status())
	}
}

func TestFilePersistence_UnknownConfig(t *testing.T) {
	cm := newConfigManager(t)
	dir := t.TempDir()
	p, _ := NewFilePersistence(dir, cm)

	doc := `{"id": "nocf", "config_name": "does-not-exist"}`
	os.WriteFile(filepath.Join(dir, "nocf.json"), []byte(doc), 0644)

	if _, err := p.Load("nocf"); err == nil {
		t.Error("Expected error for unknown config")
	}
}

func TestManager_WithPersistence(t *testing.T) {
	cm := newConfigManager(t)

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			p := b.open(t, cm)
			cfg, _ := cm.LoadConfig("easy")

			manager := NewManagerWithPersistence(p)
			sess, err := manager.Create("Keep", cfg)
			if err != nil {
				t.Fatalf("Failed to create session: %v", err)
			}
			if !p.Exists("keep") {
				t.Fatal("Expected Create to persist the session")
			}

			sess.Engine.Reveal(40)
			if err := manager.Save("keep"); err != nil {
				t.Fatalf("Failed to save session: %v", err)
			}

			// A new manager over the same store sees the game in progress
			restarted := NewManagerWithPersistence(p)
			if err := restarted.LoadPersistedSessions(); err != nil {
				t.Fatalf("Failed to load persisted sessions: %v", err)
			}
			if restarted.Count() != 1 {
				t.Fatalf("Expected 1 loaded session, got %d", restarted.Count())
			}
			reloaded, err := restarted.Get("KEEP")
			if err != nil {
				t.Fatalf("Failed to get reloaded session: %v", err)
			}
			if sess.Engine.Status() == engine.StatusPlaying && reloaded.Engine.Moves() != sess.Engine.Moves() {
				t.Errorf("Expected %d moves, got %d", sess.Engine.Moves(), reloaded.Engine.Moves())
			}

			// Lazy load after eviction from memory
			restarted.DeleteFromMemory("keep")
			if _, err := restarted.Get("keep"); err != nil {
				t.Errorf("Expected lazy load from persistence, got %v", err)
			}

			if err := restarted.Delete("keep"); err != nil {
				t.Fatalf("Failed to delete session: %v", err)
			}
			if p.Exists("keep") {
				t.Error("Expected Delete to remove the persisted copy")
			}
		})
	}
}

func repeatZero(n int) string {
	out := make([]byte, 0, n*2)
	for range n {
		out = append(out, '0', ',')
	}
	return string(out)
}
