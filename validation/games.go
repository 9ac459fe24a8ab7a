package validation

import (
	"math"
	"time"

	"arcade/config"
	"arcade/models"
)

type snakeValidator struct {
	rule config.SnakeRule
}

func (v snakeValidator) Check(score int64, elapsed time.Duration, t models.Telemetry) models.Verdict {
	maxMoves := elapsed.Seconds()*v.rule.TicksPerSecond*v.rule.MoveTolerance + v.rule.MoveSlack
	if float64(t.Moves) > maxMoves {
		return models.Reject(models.ReasonRateExceeded,
			"%d moves in %.2fs exceeds the limit of %.0f", t.Moves, elapsed.Seconds(), maxMoves)
	}

	minMoves := float64(score) * v.rule.MinMovesPerPoint
	if float64(t.Moves) < minMoves {
		return models.Reject(models.ReasonLogicalMismatch,
			"score %d needs at least %.1f moves, got %d", score, minMoves, t.Moves)
	}
	return models.Accept()
}

type dinoValidator struct {
	rule config.DinoRule
}

func (v dinoValidator) Check(score int64, elapsed time.Duration, t models.Telemetry) models.Verdict {
	if score > v.rule.NoJumpScoreLimit && t.Jumps == 0 {
		return models.Reject(models.ReasonLogicalMismatch,
			"score %d without a single jump", score)
	}

	limit := DinoMaxScore(v.rule, elapsed) * v.rule.Tolerance
	if float64(score) > limit {
		return models.Reject(models.ReasonPhysicalLimit,
			"score %d exceeds the reachable %.1f after %.2fs", score, limit, elapsed.Seconds())
	}
	return models.Accept()
}

// DinoMaxScore integrates the runner's speed curve: a linear ramp from the start speed
// to the cap, then constant speed.
func DinoMaxScore(rule config.DinoRule, elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return 0
	}

	rampTime := math.Inf(1)
	if rule.Acceleration > 0 {
		rampTime = math.Max(0, (rule.MaxSpeed-rule.StartSpeed)/rule.Acceleration)
	}

	var distance float64
	if secs <= rampTime {
		distance = rule.StartSpeed*secs + rule.Acceleration*secs*secs/2
	} else {
		distance = rule.StartSpeed*rampTime + rule.Acceleration*rampTime*rampTime/2 +
			rule.MaxSpeed*(secs-rampTime)
	}
	return distance * rule.ScoreFactor
}

type whacValidator struct {
	rule config.WhacRule
}

func (v whacValidator) Check(score int64, elapsed time.Duration, t models.Telemetry) models.Verdict {
	if score != t.Hits*v.rule.PointsPerHit {
		return models.Reject(models.ReasonArithmeticMismatch,
			"score %d does not equal %d hits x %d", score, t.Hits, v.rule.PointsPerHit)
	}

	if t.Hits > 0 {
		secs := elapsed.Seconds()
		if secs <= 0 || float64(t.Hits)/secs > v.rule.MaxHitsPerSecond {
			return models.Reject(models.ReasonRateExceeded,
				"%d hits in %.2fs exceeds %.1f per second", t.Hits, secs, v.rule.MaxHitsPerSecond)
		}
	}
	return models.Accept()
}

type tetrisValidator struct {
	rule config.TetrisRule
}

func (v tetrisValidator) Check(score int64, elapsed time.Duration, t models.Telemetry) models.Verdict {
	if score > 0 && t.Pieces < v.rule.MinPiecesForScore {
		return models.Reject(models.ReasonLogicalMismatch,
			"score %d with only %d pieces placed", score, t.Pieces)
	}

	maxPieces := elapsed.Seconds()*v.rule.PiecesPerSecond + v.rule.PieceSlack
	if float64(t.Pieces) > maxPieces {
		return models.Reject(models.ReasonRateExceeded,
			"%d pieces in %.2fs exceeds the limit of %.0f", t.Pieces, elapsed.Seconds(), maxPieces)
	}

	// Every cleared line is a full row of cells that some piece supplied
	if t.Lines*v.rule.BoardWidth > t.Pieces*v.rule.CellsPerPiece {
		return models.Reject(models.ReasonLogicalMismatch,
			"%d lines cleared with only %d pieces", t.Lines, t.Pieces)
	}
	if t.Level*v.rule.LinesPerLevel > t.Lines {
		return models.Reject(models.ReasonLogicalMismatch,
			"level %d reached with only %d lines", t.Level, t.Lines)
	}

	maxScore := TetrisMaxScore(v.rule, t)
	if float64(score) > maxScore {
		return models.Reject(models.ReasonPhysicalLimit,
			"score %d exceeds the reachable %.0f for %d pieces and %d lines", score, maxScore, t.Pieces, t.Lines)
	}
	return models.Accept()
}

// TetrisMaxScore bounds a tetris score from the pieces placed, the lines cleared and
// the final level. Levels only rise, so the final level caps every clear's multiplier,
// and a run of n lines yields at most n clears in one unbroken combo.
func TetrisMaxScore(rule config.TetrisRule, t models.Telemetry) float64 {
	lines := float64(t.Lines)
	multiplier := float64(t.Level + 1)
	clears := rule.MaxPointsPerLine*lines + rule.ComboPoints*lines*(lines+1)/2
	return clears*multiplier + rule.MaxDropPoints*float64(t.Pieces)
}

type memoryValidator struct {
	rule config.MemoryRule
}

func (v memoryValidator) Check(score int64, elapsed time.Duration, t models.Telemetry) models.Verdict {
	if score > 0 && t.Moves < v.rule.MinMoves {
		return models.Reject(models.ReasonLogicalMismatch,
			"score %d needs a finished board of at least %d moves, got %d", score, v.rule.MinMoves, t.Moves)
	}

	if t.Moves > 0 {
		perMove := elapsed.Seconds() / float64(t.Moves)
		if perMove < v.rule.MinSecondsPerMove {
			return models.Reject(models.ReasonRateExceeded,
				"%.3fs per move is below the %.2fs minimum", perMove, v.rule.MinSecondsPerMove)
		}
	}

	expected := MemoryExpectedScore(v.rule, elapsed, t.Moves)
	if float64(score) > expected+v.rule.ScoreMargin {
		return models.Reject(models.ReasonArithmeticMismatch,
			"score %d exceeds the recomputed %.0f", score, expected)
	}
	return models.Accept()
}

// MemoryExpectedScore recomputes the memory game's score. It never increases with
// either more time or more moves.
func MemoryExpectedScore(rule config.MemoryRule, elapsed time.Duration, moves int64) float64 {
	expected := rule.BaseScore - rule.PenaltyPerSecond*elapsed.Seconds() - rule.PenaltyPerMove*float64(moves)
	return math.Max(0, expected)
}

type shaftValidator struct {
	rule config.ShaftRule
}

func (v shaftValidator) Check(score int64, elapsed time.Duration, t models.Telemetry) models.Verdict {
	if score > v.rule.IdleScoreLimit && t.Moves < v.rule.MinMovesAboveIdle {
		return models.Reject(models.ReasonLogicalMismatch,
			"score %d with only %d moves", score, t.Moves)
	}

	secs := elapsed.Seconds()
	maxScore := secs*v.rule.FramesPerSecond/v.rule.FramesPerPoint*v.rule.Tolerance + v.rule.Slack
	if float64(score) > maxScore {
		return models.Reject(models.ReasonRateExceeded,
			"score %d in %.2fs exceeds the limit of %.0f", score, secs, maxScore)
	}

	maxMoves := secs*v.rule.FramesPerSecond*v.rule.Tolerance + v.rule.Slack
	if float64(t.Moves) > maxMoves {
		return models.Reject(models.ReasonRateExceeded,
			"%d moves in %.2fs exceeds the limit of %.0f", t.Moves, secs, maxMoves)
	}
	return models.Accept()
}

type fallbackValidator struct {
	rule config.FallbackRule
}

func (v fallbackValidator) Check(score int64, elapsed time.Duration, _ models.Telemetry) models.Verdict {
	maxScore := elapsed.Seconds()*v.rule.PointsPerSecond + v.rule.Slack
	if float64(score) > maxScore {
		return models.Reject(models.ReasonRateExceeded,
			"score %d in %.2fs exceeds the limit of %.0f", score, elapsed.Seconds(), maxScore)
	}
	return models.Accept()
}
