package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"arcade/database"
	"arcade/models"
)

// RejectionRepository implements the RejectionRepository interface
type RejectionRepository struct {
	q queryable
}

// NewRejectionRepository creates a new rejection repository
func NewRejectionRepository(db *database.DB) *RejectionRepository {
	return &RejectionRepository{q: db.Pool}
}

// newRejectionRepositoryWithTx creates a new rejection repository with a transaction
func newRejectionRepositoryWithTx(tx queryable) *RejectionRepository {
	return &RejectionRepository{q: tx}
}

// Record stores a rejected submission for moderation review
func (r *RejectionRepository) Record(ctx context.Context, rejection *models.RoundRejection) error {
	telemetryJSON, err := json.Marshal(rejection.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to marshal telemetry: %w", err)
	}

	query := `
		INSERT INTO round_rejections (user_id, game, score, duration_ms, reason, detail, telemetry)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		rejection.UserID,
		rejection.Game,
		rejection.Score,
		rejection.Duration.Milliseconds(),
		rejection.Reason,
		rejection.Detail,
		telemetryJSON,
	).Scan(&rejection.ID, &rejection.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record rejection for user %d: %w", rejection.UserID, err)
	}
	return nil
}

// ListByUser returns a user's most recent rejections
func (r *RejectionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.RoundRejection, error) {
	query := `
		SELECT id, user_id, game, score, duration_ms, reason, detail, telemetry, created_at
		FROM round_rejections
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list rejections for user %d: %w", userID, err)
	}
	defer rows.Close()

	var rejections []*models.RoundRejection
	for rows.Next() {
		var rejection models.RoundRejection
		var durationMillis int64
		var telemetryJSON []byte

		err := rows.Scan(
			&rejection.ID,
			&rejection.UserID,
			&rejection.Game,
			&rejection.Score,
			&durationMillis,
			&rejection.Reason,
			&rejection.Detail,
			&telemetryJSON,
			&rejection.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rejection: %w", err)
		}

		rejection.Duration = time.Duration(durationMillis) * time.Millisecond
		if len(telemetryJSON) > 0 {
			if err := json.Unmarshal(telemetryJSON, &rejection.Telemetry); err != nil {
				return nil, fmt.Errorf("failed to unmarshal telemetry: %w", err)
			}
		}

		rejections = append(rejections, &rejection)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rejections: %w", err)
	}
	return rejections, nil
}
