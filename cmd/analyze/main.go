// Command analyze prints quick, human-readable statistics about game presets:
// board size, mine density, and what a first click typically opens, measured
// by simulating games with a seeded generator.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/minesweeper/game/config"
	"github.com/wricardo/mcp-training/minesweeper/game/engine"
)

// Analysis summarizes one preset
type Analysis struct {
	ConfigID string
	Name     string
	Rows     int
	Cols     int
	Mines    int // after clamping
	Clamped  bool
	Density  float64

	Games int
	// Average cells opened by the first reveal
	AvgOpened float64
	// Share of games whose first reveal opened a region (more than one cell)
	CascadeRate float64
	// Share of games won by the first reveal alone
	InstantWins float64
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "Summarize game presets",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.IntFlag{Name: "games", Value: 200, Usage: "Simulated games per preset"},
			&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "Random seed"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			manager, err := config.NewManager(cmd.String("config-dir"))
			if err != nil {
				return err
			}
			return run(os.Stdout, manager, cmd.Int("games"), cmd.Uint64("seed"))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, manager *config.Manager, games int, seed uint64) error {
	infos, err := manager.ListConfigs()
	if err != nil {
		return err
	}

	for _, info := range infos {
		cfg, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			fmt.Fprintf(w, "\n=== %s ===\nError: %v\n", info.ConfigID, err)
			continue
		}
		analysis, err := analyzeConfig(info.ConfigID, cfg, games, seed)
		if err != nil {
			fmt.Fprintf(w, "\n=== %s ===\nError: %v\n", info.ConfigID, err)
			continue
		}
		printAnalysis(w, analysis)
	}
	return nil
}

// analyzeConfig simulates first clicks in the centre of the board
func analyzeConfig(id string, cfg *engine.GameConfig, games int, seed uint64) (Analysis, error) {
	cells := cfg.Rows * cfg.Cols
	mines := engine.EffectiveMines(cfg.Mines, cells)
	a := Analysis{
		ConfigID: id,
		Name:     cfg.Name,
		Rows:     cfg.Rows,
		Cols:     cfg.Cols,
		Mines:    mines,
		Clamped:  mines != cfg.Mines,
		Density:  float64(mines) / float64(cells),
		Games:    games,
	}
	if games <= 0 {
		return a, nil
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	board := engine.NewBoard(cfg.Rows, cfg.Cols)
	center := board.ID(cfg.Cols/2, cfg.Rows/2)

	opened, cascades, wins := 0, 0, 0
	for range games {
		e, err := engine.NewEngine(cfg, engine.WithRand(rng))
		if err != nil {
			return a, err
		}
		n := len(e.Reveal(center).Opened())
		opened += n
		if n > 1 {
			cascades++
		}
		if e.IsWon() {
			wins++
		}
	}

	a.AvgOpened = float64(opened) / float64(games)
	a.CascadeRate = float64(cascades) / float64(games)
	a.InstantWins = float64(wins) / float64(games)
	return a, nil
}

func printAnalysis(w io.Writer, a Analysis) {
	fmt.Fprintf(w, "\n=== %s ===\n", a.ConfigID)
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Board: %d x %d (%d cells)\n", a.Cols, a.Rows, a.Rows*a.Cols)
	fmt.Fprintf(w, "Mines: %d (density %.1f%%)\n", a.Mines, a.Density*100)
	if a.Clamped {
		fmt.Fprintf(w, "⚠️  WARNING: mine count clamped to %d, one cell must stay safe\n", a.Mines)
	}
	if a.Games == 0 {
		return
	}
	fmt.Fprintf(w, "First click over %d games: avg %.1f cells opened, %.0f%% cascades, %.0f%% instant wins\n",
		a.Games, a.AvgOpened, a.CascadeRate*100, a.InstantWins*100)
	switch {
	case a.InstantWins > 0.5:
		fmt.Fprintf(w, "⚠️  WARNING: most games are won by the first click\n")
	case a.Density > 0.3:
		fmt.Fprintf(w, "⚠️  Very dense board, expect forced guesses\n")
	default:
		fmt.Fprintf(w, "✅ Playable density\n")
	}
}
