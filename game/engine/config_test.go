package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGameConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *GameConfig)
		wantErr string
	}{
		{"valid", func(c *GameConfig) {}, ""},
		{"missing name", func(c *GameConfig) { c.Name = "" }, "name is required"},
		{"zero rows", func(c *GameConfig) { c.Rows = 0 }, "rows must be between"},
		{"too many cols", func(c *GameConfig) { c.Cols = MaxBoardSize + 1 }, "cols must be between"},
		{"negative mines", func(c *GameConfig) { c.Mines = -1 }, "mines cannot be negative"},
		{"too many mines is allowed", func(c *GameConfig) { c.Mines = 1000 }, ""},
		{"single cell board", func(c *GameConfig) { c.Rows, c.Cols = 1, 1 }, ""},
		{"won message without counters", func(c *GameConfig) { c.Messages.Won = "You won!" }, "messages.won"},
		{"won message with counters", func(c *GameConfig) { c.Messages.Won = "Done in %d s, %d moves" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := ValidateGameConfig(config)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	assert.Error(t, ValidateGameConfig(nil))
}

func TestGameConfig_Toggles(t *testing.T) {
	config := DefaultConfig()
	assert.True(t, config.EmptyCellsEnabled())
	assert.True(t, config.OpenCellsEnabled())

	config.HandleEmptyCells = BoolPtr(false)
	config.HandleOpenCells = BoolPtr(false)
	assert.False(t, config.EmptyCellsEnabled())
	assert.False(t, config.OpenCellsEnabled())
}

func TestGameConfig_Messages(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, defaultWelcome, config.WelcomeMessage())
	assert.Equal(t, defaultLost, config.LostMessage())
	assert.Equal(t, "Hooray! You found all mines in 12 seconds and 3 moves!", config.WonMessage(12, 3))

	config.Messages.Welcome = "Good luck"
	config.Messages.Won = "%d/%d"
	config.Messages.Lost = "Oops"
	assert.Equal(t, "Good luck", config.WelcomeMessage())
	assert.Equal(t, "12/3", config.WonMessage(12, 3))
	assert.Equal(t, "Oops", config.LostMessage())
}

func TestPreset(t *testing.T) {
	config, err := Preset("Medium", "hard")
	require.NoError(t, err)
	assert.Equal(t, "medium_hard", config.Name)
	assert.Equal(t, 15, config.Rows)
	assert.Equal(t, 15, config.Cols)
	assert.Equal(t, 99, config.Mines)
	assert.NoError(t, ValidateGameConfig(config))

	for size := range BoardSizes {
		for difficulty := range Difficulties {
			c, err := Preset(size, difficulty)
			require.NoError(t, err)
			assert.NoError(t, ValidateGameConfig(c), "%s/%s", size, difficulty)
		}
	}

	_, err = Preset("huge", "easy")
	assert.Error(t, err)
	_, err = Preset("small", "insane")
	assert.Error(t, err)
}

func TestPreset_SmallHardClamps(t *testing.T) {
	config, err := Preset("small", "hard")
	require.NoError(t, err)

	e, err := NewEngine(config)
	require.NoError(t, err)
	assert.Equal(t, 99, e.MineCount())
	assert.Equal(t, 99, e.FlagsRemaining())
}
