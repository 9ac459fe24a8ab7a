package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"arcade/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRules_TicketsFor(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()

	tests := []struct {
		name     string
		game     models.Game
		score    int64
		expected int64
	}{
		{"snake doubles", models.GameSnake, 6, 12},
		{"tetris rounds half up", models.GameTetris, 150, 2},
		{"tetris rounds down", models.GameTetris, 149, 1},
		{"dino", models.GameDino, 1000, 50},
		{"dino half ticket rounds up", models.GameDino, 10, 1},
		{"whac", models.GameWhac, 450, 45},
		{"whac half ticket", models.GameWhac, 45, 5},
		{"memory", models.GameMemory, 900, 45},
		{"shaft", models.GameShaft, 120, 24},
		{"unknown game uses default rate", models.Game("pong"), 37, 37},
		{"zero score", models.GameSnake, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, rules.TicketsFor(tt.game, tt.score))
		})
	}
}

func TestDefaultRules_Catalog(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()

	item, ok := rules.Item("frame_gold")
	require.True(t, ok)
	assert.Equal(t, models.CategoryAvatarFrame, item.Category)
	assert.Equal(t, int64(250), item.Price)

	_, ok = rules.Item("does_not_exist")
	assert.False(t, ok)

	assert.Equal(t, time.Second, rules.ReactionFloor())
}

func TestLoadRules_EmptyPathReturnsDefaults(t *testing.T) {
	t.Parallel()

	rules, err := LoadRules("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRules().Snake, rules.Snake)
}

func TestLoadRules_OverridesFromTOML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.toml")
	content := `
reaction_floor_seconds = 2.5

[snake]
ticket_rate = 3.0

[[items]]
id = "title_champion"
category = "title"
name = "Champion"
value = "Champion"
price = 75
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	rules, err := LoadRules(path)
	require.NoError(t, err)

	assert.Equal(t, 2500*time.Millisecond, rules.ReactionFloor())
	assert.Equal(t, 3.0, rules.Snake.TicketRate)
	// Untouched fields keep their defaults
	assert.Equal(t, 10.0, rules.Snake.TicksPerSecond)
	assert.Equal(t, int64(10), rules.Whac.PointsPerHit)
	assert.Equal(t, int64(12), rules.Tetris.BoardWidth)
	assert.Equal(t, int64(8), rules.Memory.MinMoves)

	require.Len(t, rules.Catalog, 1)
	item, ok := rules.Item("title_champion")
	require.True(t, ok)
	assert.Equal(t, int64(75), item.Price)
	_, ok = rules.Item("frame_gold")
	assert.False(t, ok)
}

func TestLoadRules_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "negative ticket rate",
			content: "[dino]\nticket_rate = -1.0\n",
			errMsg:  "dino ticket rate must not be negative",
		},
		{
			name:    "tolerance below one",
			content: "[shaft]\ntolerance = 0.5\n",
			errMsg:  "shaft.tolerance must be at least 1",
		},
		{
			name:    "zero tetris board width",
			content: "[tetris]\nboard_width = 0\n",
			errMsg:  "tetris board_width",
		},
		{
			name:    "negative memory min moves",
			content: "[memory]\nmin_moves = -1\n",
			errMsg:  "memory.min_moves must not be negative",
		},
		{
			name:    "duplicate item",
			content: "[[items]]\nid = \"a\"\ncategory = \"badge\"\n[[items]]\nid = \"a\"\ncategory = \"badge\"\n",
			errMsg:  "duplicate catalog item",
		},
		{
			name:    "unknown category",
			content: "[[items]]\nid = \"a\"\ncategory = \"hat\"\n",
			errMsg:  "unknown category",
		},
		{
			name:    "malformed toml",
			content: "[snake\n",
			errMsg:  "failed to decode rules file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rules.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			rules, err := LoadRules(path)
			require.Error(t, err)
			assert.Nil(t, rules)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadRules_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open rules file")
}
