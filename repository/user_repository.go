package repository

import (
	"context"
	"errors"
	"fmt"

	"arcade/database"
	"arcade/models"

	"github.com/jackc/pgx/v5"
)

const userColumns = `
	id, username, avatar, is_admin, is_suspect, warning_pending, validation_failures,
	spent_points, equipped_title, equipped_frame, equipped_badge, equipped_effect,
	created_at, updated_at`

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Avatar,
		&user.IsAdmin,
		&user.IsSuspect,
		&user.WarningPending,
		&user.ValidationFailures,
		&user.SpentPoints,
		&user.Equipped.Title,
		&user.Equipped.Frame,
		&user.Equipped.Badge,
		&user.Equipped.Effect,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

// GetByIDForUpdate retrieves a user and locks the row for the rest of the transaction
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock user %d: %w", id, err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, username, avatar string) (*models.User, error) {
	query := `
		INSERT INTO users (username, avatar)
		VALUES ($1, $2)
		RETURNING ` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, username, avatar))
	if err != nil {
		return nil, fmt.Errorf("failed to create user %q: %w", username, err)
	}
	return user, nil
}

// SetAdmin grants or revokes administrator rights
func (r *UserRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	return r.execForUser(ctx, id, "set admin flag",
		`UPDATE users SET is_admin = $2, updated_at = NOW() WHERE id = $1`, isAdmin)
}

// AddSpent increases the user's spent tickets
func (r *UserRepository) AddSpent(ctx context.Context, id int64, amount int64) error {
	return r.execForUser(ctx, id, "add spent tickets",
		`UPDATE users SET spent_points = spent_points + $2, updated_at = NOW() WHERE id = $1`, amount)
}

// SetEquipped sets the item shown in a category's slot
func (r *UserRepository) SetEquipped(ctx context.Context, id int64, category models.ItemCategory, itemID string) error {
	column, err := equipmentColumn(category)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE users SET %s = $2, updated_at = NOW() WHERE id = $1`, column)
	return r.execForUser(ctx, id, "set equipped "+string(category), query, itemID)
}

// RecordValidationFailure increments the failure counter. Reaching the threshold marks the
// user as suspect and raises a warning; the suspect flag stays set until cleared.
func (r *UserRepository) RecordValidationFailure(ctx context.Context, id int64, threshold int) (*models.ModerationStatus, error) {
	query := `
		UPDATE users
		SET validation_failures = validation_failures + 1,
		    is_suspect = is_suspect OR validation_failures + 1 >= $2,
		    warning_pending = warning_pending OR validation_failures + 1 = $2,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING is_suspect, warning_pending, validation_failures
	`

	var status models.ModerationStatus
	err := r.q.QueryRow(ctx, query, id, threshold).Scan(
		&status.IsSuspect,
		&status.WarningPending,
		&status.ValidationFailures,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, models.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record validation failure for user %d: %w", id, err)
	}
	return &status, nil
}

// ClearSuspect resets the suspect flag, the pending warning and the failure counter
func (r *UserRepository) ClearSuspect(ctx context.Context, id int64) error {
	return r.execForUser(ctx, id, "clear suspect flag", `
		UPDATE users
		SET is_suspect = FALSE, warning_pending = FALSE, validation_failures = 0, updated_at = NOW()
		WHERE id = $1`)
}

// ClearWarning clears a pending warning
func (r *UserRepository) ClearWarning(ctx context.Context, id int64) error {
	return r.execForUser(ctx, id, "clear warning",
		`UPDATE users SET warning_pending = FALSE, updated_at = NOW() WHERE id = $1`)
}

// ListSuspects returns all users flagged as suspect, most failures first
func (r *UserRepository) ListSuspects(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_suspect ORDER BY validation_failures DESC, id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list suspects: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suspects: %w", err)
	}
	return users, nil
}

// Delete removes a user. Scores, items and rejections are removed by cascade.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.execForUser(ctx, id, "delete user", `DELETE FROM users WHERE id = $1`)
}

// execForUser runs a statement keyed by user id as $1 and reports a missing user
func (r *UserRepository) execForUser(ctx context.Context, id int64, action, query string, args ...any) error {
	result, err := r.q.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to %s for user %d: %w", action, id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, models.ErrUserNotFound)
	}
	return nil
}

func equipmentColumn(category models.ItemCategory) (string, error) {
	switch category {
	case models.CategoryTitle:
		return "equipped_title", nil
	case models.CategoryAvatarFrame:
		return "equipped_frame", nil
	case models.CategoryBadge:
		return "equipped_badge", nil
	case models.CategoryLobbyEffect:
		return "equipped_effect", nil
	default:
		return "", models.ErrInvalidCategory
	}
}
