package testutil

import (
	"context"
	"fmt"
	"testing"

	"arcade/database"
	"arcade/models"

	"github.com/stretchr/testify/require"
)

// InsertTestUser creates a user directly in the database
func InsertTestUser(t *testing.T, db *database.DB, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, Avatar: models.DefaultAvatar}
	err := db.QueryRow(context.Background(),
		`INSERT INTO users (username, avatar) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		user.Username, user.Avatar,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	require.NoError(t, err)
	return user
}

// InsertTestUsers creates count users named prefix-0, prefix-1, ...
func InsertTestUsers(t *testing.T, db *database.DB, prefix string, count int) []*models.User {
	t.Helper()

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		users = append(users, InsertTestUser(t, db, fmt.Sprintf("%s-%d", prefix, i)))
	}
	return users
}

// InsertTestScore appends a score record directly in the database
func InsertTestScore(t *testing.T, db *database.DB, userID int64, game models.Game, score, tickets int64) *models.ScoreRecord {
	t.Helper()

	record := &models.ScoreRecord{UserID: userID, Game: game, Score: score, Tickets: tickets}
	err := db.QueryRow(context.Background(),
		`INSERT INTO score_records (user_id, game, score, tickets) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		userID, game, score, tickets,
	).Scan(&record.ID, &record.CreatedAt)
	require.NoError(t, err)
	return record
}
