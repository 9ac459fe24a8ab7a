// Package validation decides whether a claimed round result is physically plausible
// given the server-observed round duration and the client's telemetry.
package validation

import (
	"time"

	"arcade/config"
	"arcade/models"
)

// Validator checks a single game's submissions
type Validator interface {
	Check(score int64, elapsed time.Duration, telemetry models.Telemetry) models.Verdict
}

// Engine routes submissions to the validator for their game
type Engine struct {
	rules *config.Rules
}

// NewEngine creates an engine backed by an immutable rule set
func NewEngine(rules *config.Rules) *Engine {
	return &Engine{rules: rules}
}

// For returns the validator for a game. Games without a dedicated validator get the
// conservative fallback rate limit.
func (e *Engine) For(game models.Game) Validator {
	switch game {
	case models.GameSnake:
		return snakeValidator{rule: e.rules.Snake}
	case models.GameDino:
		return dinoValidator{rule: e.rules.Dino}
	case models.GameWhac:
		return whacValidator{rule: e.rules.Whac}
	case models.GameTetris:
		return tetrisValidator{rule: e.rules.Tetris}
	case models.GameMemory:
		return memoryValidator{rule: e.rules.Memory}
	case models.GameShaft:
		return shaftValidator{rule: e.rules.Shaft}
	default:
		return fallbackValidator{rule: e.rules.Fallback}
	}
}

// Validate applies the shared gates and then the game's own checks
func (e *Engine) Validate(sub models.Submission, elapsed time.Duration) models.Verdict {
	if sub.Score < 0 {
		return models.Reject(models.ReasonInvalidScore, "score %d is negative", sub.Score)
	}
	if hasNegativeTelemetry(sub.Telemetry) {
		return models.Reject(models.ReasonInvalidScore, "telemetry counters must not be negative")
	}
	if sub.Score > 0 && elapsed < e.rules.ReactionFloor() {
		return models.Reject(models.ReasonImpossibleReactionTime,
			"score %d after %.2fs, below the %.2fs floor", sub.Score, elapsed.Seconds(), e.rules.ReactionFloorSeconds)
	}

	return e.For(sub.Game).Check(sub.Score, elapsed, sub.Telemetry)
}

func hasNegativeTelemetry(t models.Telemetry) bool {
	return t.Moves < 0 || t.Hits < 0 || t.Pieces < 0 || t.Jumps < 0 || t.Lines < 0 || t.Level < 0
}
