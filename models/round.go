package models

import (
	"time"
)

// Round is an open play session. At most one exists per user.
type Round struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	Game      Game      `json:"game"`
	StartedAt time.Time `json:"started_at"`
}

// Telemetry is the client-reported activity for a round. Fields a game does not use stay zero.
type Telemetry struct {
	Moves  int64 `json:"moves"`
	Hits   int64 `json:"hits"`
	Pieces int64 `json:"pieces"`
	Jumps  int64 `json:"jumps"`
	Lines  int64 `json:"lines,omitempty"`
	Level  int64 `json:"level,omitempty"`
}

// Submission is a claimed round result
type Submission struct {
	Game       Game
	Score      int64
	Telemetry  Telemetry
	RoundToken string
}
