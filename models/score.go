package models

import (
	"time"
)

// ScoreRecord is an accepted, persisted score
type ScoreRecord struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Game      Game      `db:"game"`
	Score     int64     `db:"score"`
	Tickets   int64     `db:"tickets"`
	CreatedAt time.Time `db:"created_at"`
}

// LeaderboardEntry is one row of a game's top list
type LeaderboardEntry struct {
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	Equipped  Equipment `json:"equipped"`
	Score     int64     `json:"score"`
	CreatedAt time.Time `json:"timestamp"`
}

// RankedScore is a user's personal best together with its leaderboard position
type RankedScore struct {
	Game      Game      `json:"game"`
	Score     int64     `json:"score"`
	CreatedAt time.Time `json:"timestamp"`
	Rank      int64     `json:"rank"`
}
