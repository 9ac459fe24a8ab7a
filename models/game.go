package models

import (
	"fmt"
	"regexp"
	"strings"
)

// Game identifies one of the arcade games
type Game string

const (
	GameSnake  Game = "snake"
	GameDino   Game = "dino"
	GameWhac   Game = "whac"
	GameTetris Game = "tetris"
	GameMemory Game = "memory"
	GameShaft  Game = "shaft"
)

var gamePattern = regexp.MustCompile(`^[a-z0-9_]{1,32}$`)

// KnownGames returns the games served by the arcade, in display order
func KnownGames() []Game {
	return []Game{GameSnake, GameDino, GameWhac, GameMemory, GameTetris, GameShaft}
}

// ParseGame normalizes a game identifier. Unknown but well-formed identifiers are accepted.
func ParseGame(raw string) (Game, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if !gamePattern.MatchString(name) {
		return "", fmt.Errorf("invalid game identifier %q", raw)
	}
	return Game(name), nil
}
