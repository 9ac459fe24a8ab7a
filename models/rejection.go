package models

import (
	"time"
)

// RoundRejection is the audit record of a rejected submission
type RoundRejection struct {
	ID        int64         `db:"id" json:"id"`
	UserID    int64         `db:"user_id" json:"user_id"`
	Game      Game          `db:"game" json:"game"`
	Score     int64         `db:"score" json:"score"`
	Duration  time.Duration `db:"duration_ms" json:"duration_ns"`
	Reason    RejectReason  `db:"reason" json:"reason"`
	Detail    string        `db:"detail" json:"detail"`
	Telemetry Telemetry     `db:"telemetry" json:"telemetry"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}
