package repository

import (
	"context"
	"errors"
	"fmt"

	"arcade/database"
	"arcade/models"

	"github.com/jackc/pgx/v5"
)

// ScoreRepository implements the ScoreRepository interface
type ScoreRepository struct {
	q queryable
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(db *database.DB) *ScoreRepository {
	return &ScoreRepository{q: db.Pool}
}

// newScoreRepositoryWithTx creates a new score repository with a transaction
func newScoreRepositoryWithTx(tx queryable) *ScoreRepository {
	return &ScoreRepository{q: tx}
}

// Record appends an accepted score to the ledger
func (r *ScoreRepository) Record(ctx context.Context, record *models.ScoreRecord) error {
	query := `
		INSERT INTO score_records (user_id, game, score, tickets)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		record.UserID,
		record.Game,
		record.Score,
		record.Tickets,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record %s score for user %d: %w", record.Game, record.UserID, err)
	}
	return nil
}

// TopScores returns one row per distinct (user, score) pair, highest first.
// Ties keep the pair that was achieved first.
func (r *ScoreRepository) TopScores(ctx context.Context, game models.Game, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT u.username, u.avatar,
		       u.equipped_title, u.equipped_frame, u.equipped_badge, u.equipped_effect,
		       s.score, s.created_at
		FROM (
			SELECT user_id, score, MIN(id) AS first_id
			FROM score_records
			WHERE game = $1
			GROUP BY user_id, score
		) best
		JOIN score_records s ON s.id = best.first_id
		JOIN users u ON u.id = best.user_id
		ORDER BY best.score DESC, best.first_id ASC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, game, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top %s scores: %w", game, err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		err := rows.Scan(
			&entry.Username,
			&entry.Avatar,
			&entry.Equipped.Title,
			&entry.Equipped.Frame,
			&entry.Equipped.Badge,
			&entry.Equipped.Effect,
			&entry.Score,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard: %w", err)
	}
	return entries, nil
}

// PersonalBest returns the user's highest record in a game, the earliest on ties
func (r *ScoreRepository) PersonalBest(ctx context.Context, userID int64, game models.Game) (*models.ScoreRecord, error) {
	query := `
		SELECT id, user_id, game, score, tickets, created_at
		FROM score_records
		WHERE user_id = $1 AND game = $2
		ORDER BY score DESC, id ASC
		LIMIT 1
	`

	var record models.ScoreRecord
	err := r.q.QueryRow(ctx, query, userID, game).Scan(
		&record.ID,
		&record.UserID,
		&record.Game,
		&record.Score,
		&record.Tickets,
		&record.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s personal best for user %d: %w", game, userID, err)
	}
	return &record, nil
}

// CountUsersAbove counts users whose best score in a game is strictly greater than score
func (r *ScoreRepository) CountUsersAbove(ctx context.Context, game models.Game, score int64) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM (
			SELECT user_id
			FROM score_records
			WHERE game = $1
			GROUP BY user_id
			HAVING MAX(score) > $2
		) above
	`

	var count int64
	if err := r.q.QueryRow(ctx, query, game, score).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users above %d in %s: %w", score, game, err)
	}
	return count, nil
}

// TotalTickets sums every ticket the user has earned
func (r *ScoreRepository) TotalTickets(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(tickets), 0)::BIGINT FROM score_records WHERE user_id = $1`,
		userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum tickets for user %d: %w", userID, err)
	}
	return total, nil
}

// ListByUser returns all of a user's records, newest first
func (r *ScoreRepository) ListByUser(ctx context.Context, userID int64) ([]*models.ScoreRecord, error) {
	query := `
		SELECT id, user_id, game, score, tickets, created_at
		FROM score_records
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores for user %d: %w", userID, err)
	}
	defer rows.Close()

	var records []*models.ScoreRecord
	for rows.Next() {
		var record models.ScoreRecord
		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Game,
			&record.Score,
			&record.Tickets,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score record: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating score records: %w", err)
	}
	return records, nil
}
