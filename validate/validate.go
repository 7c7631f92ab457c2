// Command validate provides a small CLI that validates game preset files
// (.json, .yaml, .yml) in a configs directory. It checks:
//   - JSON/YAML structure, rejecting unknown fields
//   - Required fields and board limits
//   - Mine count (negative is an error, too many is clamped with a warning)
//   - Message templates (messages.won needs two %d: seconds and moves)
//   - Playability hints: boards won by the first click, extreme densities
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Errors make the file invalid; Warnings and Info never do.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// decodeStrict parses a preset, refusing fields the game does not know
func decodeStrict(data []byte, ext string) (*engine.GameConfig, error) {
	var config engine.GameConfig
	switch ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&config); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}
	return &config, nil
}

// validateConfig loads and validates a single preset file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	config, err := decodeStrict(data, strings.ToLower(filepath.Ext(filePath)))
	if err != nil {
		result.fail("%v", err)
		return result
	}

	if config.Description == "" {
		result.warn("description is empty")
	}
	if err := engine.ValidateGameConfig(config); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}

	cells := config.Rows * config.Cols
	mines := engine.EffectiveMines(config.Mines, cells)
	if mines != config.Mines {
		result.warn("mines (%d) exceeds %d, the board will use %d", config.Mines, cells-1, mines)
	}
	if mines == cells-1 {
		result.warn("only one safe cell: every game is won by the first click")
	}
	density := float64(mines) / float64(cells)
	switch {
	case mines == 0:
		result.warn("no mines: the first click opens the whole board")
	case density > 0.3:
		result.warn("mine density %.0f%% leaves little room for deduction", density*100)
	}

	result.Info = append(result.Info,
		fmt.Sprintf("✓ Name: %s", config.Name),
		fmt.Sprintf("✓ Board: %dx%d", config.Cols, config.Rows),
		fmt.Sprintf("✓ Mines: %d (%.1f%%)", mines, density*100),
	)
	if !config.EmptyCellsEnabled() {
		result.Info = append(result.Info, "✓ Empty-region flood fill disabled")
	}
	if !config.OpenCellsEnabled() {
		result.Info = append(result.Info, "✓ Chording disabled")
	}

	return result
}

// configFiles lists preset files in dir
func configFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

// report prints one block per file and returns whether all were valid
func report(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
		for _, warning := range result.Warnings {
			fmt.Fprintln(w, "  ⚠️  "+warning)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid
}

// main validates every preset in the config directory, exiting non-zero if
// any are invalid.
func main() {
	cmd := &cli.Command{
		Name:  "validate",
		Usage: "Validate game preset files",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "../configs", Sources: cli.EnvVars("CONFIG_DIR")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files, err := configFiles(cmd.String("config-dir"))
			if err != nil {
				return fmt.Errorf("finding config files: %w", err)
			}

			results := make([]ValidationResult, 0, len(files))
			for _, file := range files {
				results = append(results, validateConfig(file))
			}
			if !report(os.Stdout, results) {
				return cli.Exit("", 1)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "validate: %v\n", err)
		os.Exit(1)
	}
}
