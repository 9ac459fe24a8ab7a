package validation

import (
	"fmt"
	"math"
	"testing"
	"time"

	"arcade/config"
	"arcade/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func TestEngine_Validate(t *testing.T) {
	t.Parallel()

	engine := NewEngine(config.DefaultRules())

	tests := []struct {
		name      string
		game      models.Game
		score     int64
		elapsed   time.Duration
		telemetry models.Telemetry
		accepted  bool
		reason    models.RejectReason
	}{
		// Shared gates
		{"negative score", models.GameSnake, -1, secs(10), models.Telemetry{}, false, models.ReasonInvalidScore},
		{"negative telemetry", models.GameSnake, 0, secs(10), models.Telemetry{Moves: -3}, false, models.ReasonInvalidScore},
		{"score below reaction floor", models.GameSnake, 1, secs(0.5), models.Telemetry{Moves: 5}, false, models.ReasonImpossibleReactionTime},
		{"zero score below floor is fine", models.GameWhac, 0, secs(0.5), models.Telemetry{}, true, ""},

		// Snake
		{"snake plausible round", models.GameSnake, 6, secs(5), models.Telemetry{Moves: 10}, true, ""},
		{"snake at move ceiling", models.GameSnake, 6, secs(5), models.Telemetry{Moves: 80}, true, ""},
		{"snake too many moves", models.GameSnake, 6, secs(5), models.Telemetry{Moves: 81}, false, models.ReasonRateExceeded},
		{"snake too few moves for score", models.GameSnake, 20, secs(5), models.Telemetry{Moves: 10}, false, models.ReasonLogicalMismatch},

		// Dino
		{"dino plausible run", models.GameDino, 300, secs(10), models.Telemetry{Jumps: 4}, true, ""},
		{"dino no jumps low score", models.GameDino, 100, secs(10), models.Telemetry{}, true, ""},
		{"dino no jumps high score", models.GameDino, 101, secs(10), models.Telemetry{}, false, models.ReasonLogicalMismatch},
		{"dino faster than physics", models.GameDino, 344, secs(10), models.Telemetry{Jumps: 4}, false, models.ReasonPhysicalLimit},

		// Whac
		{"whac exact arithmetic", models.GameWhac, 50, secs(5), models.Telemetry{Hits: 5}, true, ""},
		{"whac mismatched score", models.GameWhac, 45, secs(5), models.Telemetry{Hits: 5}, false, models.ReasonArithmeticMismatch},
		{"whac inhuman click rate", models.GameWhac, 500, secs(5), models.Telemetry{Hits: 50}, false, models.ReasonRateExceeded},

		// Tetris
		{"tetris plausible", models.GameTetris, 1200, secs(60), models.Telemetry{Pieces: 90}, true, ""},
		{"tetris score without pieces", models.GameTetris, 100, secs(10), models.Telemetry{}, false, models.ReasonLogicalMismatch},
		{"tetris at piece ceiling", models.GameTetris, 100, secs(10), models.Telemetry{Pieces: 35}, true, ""},
		{"tetris too many pieces", models.GameTetris, 100, secs(10), models.Telemetry{Pieces: 36}, false, models.ReasonRateExceeded},
		{"tetris at score ceiling", models.GameTetris, 51900, secs(60), models.Telemetry{Pieces: 60, Lines: 20, Level: 2}, true, ""},
		{"tetris above score ceiling", models.GameTetris, 51901, secs(60), models.Telemetry{Pieces: 60, Lines: 20, Level: 2}, false, models.ReasonPhysicalLimit},
		{"tetris huge score without clears", models.GameTetris, 1_000_000_000_000, secs(10), models.Telemetry{Pieces: 10}, false, models.ReasonPhysicalLimit},
		{"tetris more lines than cells placed", models.GameTetris, 100, secs(10), models.Telemetry{Pieces: 30, Lines: 11}, false, models.ReasonLogicalMismatch},
		{"tetris level ahead of lines", models.GameTetris, 100, secs(10), models.Telemetry{Pieces: 30, Lines: 5, Level: 1}, false, models.ReasonLogicalMismatch},

		// Memory
		{"memory within margin", models.GameMemory, 890, secs(10), models.Telemetry{Moves: 20}, true, ""},
		{"memory above recomputed", models.GameMemory, 891, secs(10), models.Telemetry{Moves: 20}, false, models.ReasonArithmeticMismatch},
		{"memory moves too fast", models.GameMemory, 500, secs(10), models.Telemetry{Moves: 40}, false, models.ReasonRateExceeded},
		{"memory perfect board", models.GameMemory, 940, secs(10), models.Telemetry{Moves: 8}, true, ""},
		{"memory fewer moves than pairs", models.GameMemory, 900, secs(10), models.Telemetry{Moves: 7}, false, models.ReasonLogicalMismatch},
		{"memory score without moves", models.GameMemory, 1008, secs(1), models.Telemetry{}, false, models.ReasonLogicalMismatch},
		{"memory zero score without moves", models.GameMemory, 0, secs(1), models.Telemetry{}, true, ""},

		// Shaft
		{"shaft plausible", models.GameShaft, 60, secs(10), models.Telemetry{Moves: 120}, true, ""},
		{"shaft idle high score", models.GameShaft, 60, secs(10), models.Telemetry{Moves: 2}, false, models.ReasonLogicalMismatch},
		{"shaft score ceiling", models.GameShaft, 76, secs(10), models.Telemetry{Moves: 10}, true, ""},
		{"shaft score too fast", models.GameShaft, 77, secs(10), models.Telemetry{Moves: 10}, false, models.ReasonRateExceeded},
		{"shaft too many moves", models.GameShaft, 10, secs(10), models.Telemetry{Moves: 671}, false, models.ReasonRateExceeded},

		// Games without a dedicated validator
		{"unknown game within fallback", models.Game("pong"), 110, secs(10), models.Telemetry{}, true, ""},
		{"unknown game over fallback", models.Game("pong"), 111, secs(10), models.Telemetry{}, false, models.ReasonRateExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := models.Submission{Game: tt.game, Score: tt.score, Telemetry: tt.telemetry}
			verdict := engine.Validate(sub, tt.elapsed)

			assert.Equal(t, tt.accepted, verdict.Accepted, "detail: %s", verdict.Detail)
			assert.Equal(t, tt.reason, verdict.Reason)
			if !tt.accepted {
				assert.NotEmpty(t, verdict.Detail)
				var validationErr *models.ValidationError
				require.ErrorAs(t, verdict.Err(), &validationErr)
				assert.Equal(t, tt.reason, validationErr.Reason)
			} else {
				assert.NoError(t, verdict.Err())
			}
		})
	}
}

func TestEngine_ReactionFloorAppliesToEveryGame(t *testing.T) {
	t.Parallel()

	engine := NewEngine(config.DefaultRules())
	games := append(models.KnownGames(), models.Game("pong"))

	for _, game := range games {
		for _, elapsed := range []time.Duration{0, secs(0.1), secs(0.5), secs(0.999)} {
			for _, score := range []int64{1, 10, 1000} {
				sub := models.Submission{
					Game:      game,
					Score:     score,
					Telemetry: models.Telemetry{Moves: score, Hits: score / 10, Pieces: score, Jumps: score},
				}
				verdict := engine.Validate(sub, elapsed)
				assert.False(t, verdict.Accepted, "%s score=%d elapsed=%s", game, score, elapsed)
				assert.Equal(t, models.ReasonImpossibleReactionTime, verdict.Reason)
			}
		}
	}
}

func TestWhac_AcceptanceRequiresExactArithmetic(t *testing.T) {
	t.Parallel()

	engine := NewEngine(config.DefaultRules())

	for hits := int64(0); hits <= 20; hits++ {
		for score := int64(0); score <= 220; score++ {
			sub := models.Submission{Game: models.GameWhac, Score: score, Telemetry: models.Telemetry{Hits: hits}}
			verdict := engine.Validate(sub, secs(60))

			if score == hits*10 {
				assert.True(t, verdict.Accepted, "hits=%d score=%d", hits, score)
			} else {
				require.False(t, verdict.Accepted, "hits=%d score=%d", hits, score)
				assert.Equal(t, models.ReasonArithmeticMismatch, verdict.Reason)
			}
		}
	}
}

func TestMemoryExpectedScore_NonIncreasing(t *testing.T) {
	t.Parallel()

	rule := config.DefaultRules().Memory

	for moves := int64(0); moves < 200; moves += 7 {
		previous := math.Inf(1)
		for s := 0.0; s < 600; s += 3.5 {
			current := MemoryExpectedScore(rule, secs(s), moves)
			assert.LessOrEqual(t, current, previous, "moves=%d secs=%.1f", moves, s)
			assert.GreaterOrEqual(t, current, 0.0)
			previous = current
		}
	}

	for s := 0.0; s < 600; s += 13 {
		previous := math.Inf(1)
		for moves := int64(0); moves < 300; moves++ {
			current := MemoryExpectedScore(rule, secs(s), moves)
			assert.LessOrEqual(t, current, previous, "moves=%d secs=%.1f", moves, s)
			previous = current
		}
	}
}

func TestMemory_ScoreAboveMarginAlwaysRejected(t *testing.T) {
	t.Parallel()

	rules := config.DefaultRules()
	engine := NewEngine(rules)

	for _, s := range []float64{5, 30, 90, 400} {
		for _, moves := range []int64{0, 8, 16, 40} {
			expected := MemoryExpectedScore(rules.Memory, secs(s), moves)
			score := int64(math.Floor(expected+rules.Memory.ScoreMargin)) + 1
			sub := models.Submission{Game: models.GameMemory, Score: score, Telemetry: models.Telemetry{Moves: moves}}

			verdict := engine.Validate(sub, secs(s))
			assert.False(t, verdict.Accepted, "secs=%.0f moves=%d score=%d", s, moves, score)
		}
	}
}

func TestTetris_ScoreAboveBoundAlwaysRejected(t *testing.T) {
	t.Parallel()

	rules := config.DefaultRules()
	engine := NewEngine(rules)

	for _, pieces := range []int64{1, 12, 60, 150} {
		maxLines := pieces * rules.Tetris.CellsPerPiece / rules.Tetris.BoardWidth
		for _, lines := range []int64{0, maxLines / 2, maxLines} {
			telemetry := models.Telemetry{Pieces: pieces, Lines: lines, Level: lines / rules.Tetris.LinesPerLevel}
			bound := TetrisMaxScore(rules.Tetris, telemetry)

			atBound := engine.Validate(models.Submission{Game: models.GameTetris, Score: int64(bound), Telemetry: telemetry}, secs(60))
			assert.True(t, atBound.Accepted, "pieces=%d lines=%d detail=%s", pieces, lines, atBound.Detail)

			above := engine.Validate(models.Submission{Game: models.GameTetris, Score: int64(bound) + 1, Telemetry: telemetry}, secs(60))
			require.False(t, above.Accepted, "pieces=%d lines=%d", pieces, lines)
			assert.Equal(t, models.ReasonPhysicalLimit, above.Reason)
		}
	}
}

func TestDinoMaxScore(t *testing.T) {
	t.Parallel()

	rule := config.DefaultRules().Dino

	tests := []struct {
		elapsed  time.Duration
		expected float64
	}{
		{0, 0},
		{secs(1), 30.125},
		{secs(10), 312.5},
		{secs(180), 9450},
		{secs(200), 10950},
	}

	for _, tt := range tests {
		t.Run(tt.elapsed.String(), func(t *testing.T) {
			assert.InDelta(t, tt.expected, DinoMaxScore(rule, tt.elapsed), 1e-6)
		})
	}
}

func TestDino_Boundary(t *testing.T) {
	t.Parallel()

	rules := config.DefaultRules()
	engine := NewEngine(rules)

	for _, s := range []float64{2, 10, 60, 179, 181, 300} {
		t.Run(fmt.Sprintf("%.0fs", s), func(t *testing.T) {
			limit := DinoMaxScore(rules.Dino, secs(s)) * rules.Dino.Tolerance
			atLimit := int64(math.Floor(limit))
			telemetry := models.Telemetry{Jumps: 10}

			verdict := engine.Validate(models.Submission{Game: models.GameDino, Score: atLimit, Telemetry: telemetry}, secs(s))
			assert.True(t, verdict.Accepted, "score %d at limit %.3f: %s", atLimit, limit, verdict.Detail)

			verdict = engine.Validate(models.Submission{Game: models.GameDino, Score: atLimit + 1, Telemetry: telemetry}, secs(s))
			assert.False(t, verdict.Accepted)
			assert.Equal(t, models.ReasonPhysicalLimit, verdict.Reason)
		})
	}
}

func TestEngine_ForUsesFallbackForUnknownGames(t *testing.T) {
	t.Parallel()

	engine := NewEngine(config.DefaultRules())

	assert.IsType(t, snakeValidator{}, engine.For(models.GameSnake))
	assert.IsType(t, shaftValidator{}, engine.For(models.GameShaft))
	assert.IsType(t, fallbackValidator{}, engine.For(models.Game("pinball")))
}
