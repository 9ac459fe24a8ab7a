package config

import (
	"fmt"
	"os"
	"time"

	"arcade/models"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
)

// SnakeRule bounds snake rounds. The snake advances once per tick.
type SnakeRule struct {
	TicksPerSecond   float64 `toml:"ticks_per_second"`
	MoveTolerance    float64 `toml:"move_tolerance"`
	MoveSlack        float64 `toml:"move_slack"`
	MinMovesPerPoint float64 `toml:"min_moves_per_point"`
	TicketRate       float64 `toml:"ticket_rate"`
}

// DinoRule models the runner's speed curve
type DinoRule struct {
	StartSpeed       float64 `toml:"start_speed"`
	Acceleration     float64 `toml:"acceleration"`
	MaxSpeed         float64 `toml:"max_speed"`
	ScoreFactor      float64 `toml:"score_factor"`
	Tolerance        float64 `toml:"tolerance"`
	NoJumpScoreLimit int64   `toml:"no_jump_score_limit"`
	TicketRate       float64 `toml:"ticket_rate"`
}

// WhacRule bounds whac-a-mole rounds
type WhacRule struct {
	PointsPerHit     int64   `toml:"points_per_hit"`
	MaxHitsPerSecond float64 `toml:"max_hits_per_second"`
	TicketRate       float64 `toml:"ticket_rate"`
}

// TetrisRule bounds tetris rounds. Line clears pay at most MaxPointsPerLine times
// (level+1), each consecutive clear adds ComboPoints times its combo count, and a
// piece earns at most MaxDropPoints while falling.
type TetrisRule struct {
	MinPiecesForScore int64   `toml:"min_pieces_for_score"`
	PiecesPerSecond   float64 `toml:"pieces_per_second"`
	PieceSlack        float64 `toml:"piece_slack"`
	BoardWidth        int64   `toml:"board_width"`
	CellsPerPiece     int64   `toml:"cells_per_piece"`
	LinesPerLevel     int64   `toml:"lines_per_level"`
	MaxPointsPerLine  float64 `toml:"max_points_per_line"`
	ComboPoints       float64 `toml:"combo_points"`
	MaxDropPoints     float64 `toml:"max_drop_points"`
	TicketRate        float64 `toml:"ticket_rate"`
}

// MemoryRule mirrors the memory game's scoring formula
type MemoryRule struct {
	BaseScore         float64 `toml:"base_score"`
	PenaltyPerSecond  float64 `toml:"penalty_per_second"`
	PenaltyPerMove    float64 `toml:"penalty_per_move"`
	ScoreMargin       float64 `toml:"score_margin"`
	MinSecondsPerMove float64 `toml:"min_seconds_per_move"`
	MinMoves          int64   `toml:"min_moves"` // One move per pair on a perfect board
	TicketRate        float64 `toml:"ticket_rate"`
}

// ShaftRule bounds the falling-shaft game. Score accrues per rendered frame.
type ShaftRule struct {
	FramesPerSecond   float64 `toml:"frames_per_second"`
	FramesPerPoint    float64 `toml:"frames_per_point"`
	Tolerance         float64 `toml:"tolerance"`
	Slack             float64 `toml:"slack"`
	IdleScoreLimit    int64   `toml:"idle_score_limit"`
	MinMovesAboveIdle int64   `toml:"min_moves_above_idle"`
	TicketRate        float64 `toml:"ticket_rate"`
}

// FallbackRule applies to games without a dedicated validator
type FallbackRule struct {
	PointsPerSecond float64 `toml:"points_per_second"`
	Slack           float64 `toml:"slack"`
}

// Rules is the immutable rule set used by validation and the economy.
// It is built once at startup and shared by pointer.
type Rules struct {
	ReactionFloorSeconds float64           `toml:"reaction_floor_seconds"`
	DefaultTicketRate    float64           `toml:"default_ticket_rate"`
	Snake                SnakeRule         `toml:"snake"`
	Dino                 DinoRule          `toml:"dino"`
	Whac                 WhacRule          `toml:"whac"`
	Tetris               TetrisRule        `toml:"tetris"`
	Memory               MemoryRule        `toml:"memory"`
	Shaft                ShaftRule         `toml:"shaft"`
	Fallback             FallbackRule      `toml:"fallback"`
	Catalog              []models.ShopItem `toml:"items"`

	items map[string]models.ShopItem
}

// DefaultRules returns the built-in rule set
func DefaultRules() *Rules {
	rules := &Rules{
		ReactionFloorSeconds: 1.0,
		DefaultTicketRate:    1.0,
		Snake: SnakeRule{
			TicksPerSecond:   10,
			MoveTolerance:    1.2,
			MoveSlack:        20,
			MinMovesPerPoint: 0.8,
			TicketRate:       2.0,
		},
		Dino: DinoRule{
			StartSpeed:       600,
			Acceleration:     5,
			MaxSpeed:         1500,
			ScoreFactor:      0.05,
			Tolerance:        1.1,
			NoJumpScoreLimit: 100,
			TicketRate:       0.05,
		},
		Whac: WhacRule{
			PointsPerHit:     10,
			MaxHitsPerSecond: 8,
			TicketRate:       0.1,
		},
		Tetris: TetrisRule{
			MinPiecesForScore: 1,
			PiecesPerSecond:   3,
			PieceSlack:        5,
			BoardWidth:        12,
			CellsPerPiece:     4,
			LinesPerLevel:     10,
			MaxPointsPerLine:  300,
			ComboPoints:       50,
			MaxDropPoints:     40,
			TicketRate:        0.01,
		},
		Memory: MemoryRule{
			BaseScore:         1000,
			PenaltyPerSecond:  2,
			PenaltyPerMove:    5,
			ScoreMargin:       10,
			MinSecondsPerMove: 0.3,
			MinMoves:          8,
			TicketRate:        0.05,
		},
		Shaft: ShaftRule{
			FramesPerSecond:   60,
			FramesPerPoint:    10,
			Tolerance:         1.1,
			Slack:             10,
			IdleScoreLimit:    50,
			MinMovesAboveIdle: 3,
			TicketRate:        0.2,
		},
		Fallback: FallbackRule{
			PointsPerSecond: 10,
			Slack:           10,
		},
		Catalog: defaultCatalog(),
	}
	if err := rules.finalize(); err != nil {
		panic(fmt.Sprintf("invalid default rules: %v", err))
	}
	return rules
}

func defaultCatalog() []models.ShopItem {
	return []models.ShopItem{
		{ID: "title_rookie", Category: models.CategoryTitle, Name: "Rookie", Value: "Rookie", Default: true},
		{ID: "title_high_scorer", Category: models.CategoryTitle, Name: "High Scorer", Value: "High Scorer", Price: 100},
		{ID: "title_arcade_legend", Category: models.CategoryTitle, Name: "Arcade Legend", Value: "Arcade Legend", Price: 1000},
		{ID: "frame_basic", Category: models.CategoryAvatarFrame, Name: "Basic Frame", Value: "frame-basic", Default: true},
		{ID: "frame_gold", Category: models.CategoryAvatarFrame, Name: "Gold Frame", Value: "frame-gold", Price: 250},
		{ID: "frame_neon", Category: models.CategoryAvatarFrame, Name: "Neon Frame", Value: "frame-neon", Price: 500},
		{ID: "badge_star", Category: models.CategoryBadge, Name: "Star", Value: "star", Price: 50},
		{ID: "badge_crown", Category: models.CategoryBadge, Name: "Crown", Value: "crown", Price: 400},
		{ID: "effect_confetti", Category: models.CategoryLobbyEffect, Name: "Confetti", Value: "confetti", Price: 300},
		{ID: "effect_fireworks", Category: models.CategoryLobbyEffect, Name: "Fireworks", Value: "fireworks", Price: 800},
		{ID: "avatar_robot", Category: models.CategoryAvatar, Name: "Robot", Value: "robot.png", Price: 150},
	}
}

// LoadRules reads TOML overrides from path on top of the defaults.
// An empty path returns the defaults.
func LoadRules(path string) (*Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rules file: %w", err)
	}
	defer file.Close()

	builtinCatalog := rules.Catalog
	rules.Catalog = nil
	if err := toml.NewDecoder(file).Decode(rules); err != nil {
		return nil, fmt.Errorf("failed to decode rules file: %w", err)
	}
	if len(rules.Catalog) == 0 {
		rules.Catalog = builtinCatalog
	}

	if err := rules.finalize(); err != nil {
		return nil, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return rules, nil
}

// finalize validates the rule set and builds the item index
func (r *Rules) finalize() error {
	if r.ReactionFloorSeconds < 0 {
		return fmt.Errorf("reaction_floor_seconds must not be negative")
	}

	rates := map[string]float64{
		"default": r.DefaultTicketRate,
		"snake":   r.Snake.TicketRate,
		"dino":    r.Dino.TicketRate,
		"whac":    r.Whac.TicketRate,
		"tetris":  r.Tetris.TicketRate,
		"memory":  r.Memory.TicketRate,
		"shaft":   r.Shaft.TicketRate,
	}
	for name, rate := range rates {
		if rate < 0 {
			return fmt.Errorf("%s ticket rate must not be negative", name)
		}
	}

	tolerances := map[string]float64{
		"snake.move_tolerance": r.Snake.MoveTolerance,
		"dino.tolerance":       r.Dino.Tolerance,
		"shaft.tolerance":      r.Shaft.Tolerance,
	}
	for name, tolerance := range tolerances {
		if tolerance < 1 {
			return fmt.Errorf("%s must be at least 1", name)
		}
	}
	if r.Whac.PointsPerHit <= 0 {
		return fmt.Errorf("whac.points_per_hit must be positive")
	}
	if r.Shaft.FramesPerPoint <= 0 {
		return fmt.Errorf("shaft.frames_per_point must be positive")
	}
	if r.Tetris.BoardWidth <= 0 || r.Tetris.CellsPerPiece <= 0 || r.Tetris.LinesPerLevel <= 0 {
		return fmt.Errorf("tetris board_width, cells_per_piece and lines_per_level must be positive")
	}
	if r.Memory.MinMoves < 0 {
		return fmt.Errorf("memory.min_moves must not be negative")
	}

	items := make(map[string]models.ShopItem, len(r.Catalog))
	for _, item := range r.Catalog {
		if item.ID == "" {
			return fmt.Errorf("catalog item without id")
		}
		if _, exists := items[item.ID]; exists {
			return fmt.Errorf("duplicate catalog item %q", item.ID)
		}
		if !item.Category.IsValid() {
			return fmt.Errorf("catalog item %q has unknown category %q", item.ID, item.Category)
		}
		if item.Price < 0 {
			return fmt.Errorf("catalog item %q has negative price", item.ID)
		}
		items[item.ID] = item
	}
	r.items = items
	return nil
}

// ReactionFloor is the minimum round duration for a nonzero score
func (r *Rules) ReactionFloor() time.Duration {
	return time.Duration(r.ReactionFloorSeconds * float64(time.Second))
}

// TicketRate returns the score-to-ticket multiplier for a game
func (r *Rules) TicketRate(game models.Game) float64 {
	switch game {
	case models.GameSnake:
		return r.Snake.TicketRate
	case models.GameDino:
		return r.Dino.TicketRate
	case models.GameWhac:
		return r.Whac.TicketRate
	case models.GameTetris:
		return r.Tetris.TicketRate
	case models.GameMemory:
		return r.Memory.TicketRate
	case models.GameShaft:
		return r.Shaft.TicketRate
	default:
		return r.DefaultTicketRate
	}
}

// TicketsFor converts an accepted score into tickets, rounding half away from zero
func (r *Rules) TicketsFor(game models.Game, score int64) int64 {
	tickets := decimal.NewFromInt(score).
		Mul(decimal.NewFromFloat(r.TicketRate(game))).
		Round(0)
	return tickets.IntPart()
}

// Item looks up a catalog entry by id
func (r *Rules) Item(id string) (models.ShopItem, bool) {
	item, ok := r.items[id]
	return item, ok
}
