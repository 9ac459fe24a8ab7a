package repository

import (
	"context"
	"errors"
	"fmt"

	"arcade/database"
	"arcade/models"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// ItemRepository implements the ItemRepository interface
type ItemRepository struct {
	q queryable
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *database.DB) *ItemRepository {
	return &ItemRepository{q: db.Pool}
}

// newItemRepositoryWithTx creates a new item repository with a transaction
func newItemRepositoryWithTx(tx queryable) *ItemRepository {
	return &ItemRepository{q: tx}
}

// Owns reports whether the user holds the item
func (r *ItemRepository) Owns(ctx context.Context, userID int64, itemID string) (bool, error) {
	var owns bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_items WHERE user_id = $1 AND item_id = $2)`,
		userID, itemID,
	).Scan(&owns)
	if err != nil {
		return false, fmt.Errorf("failed to check ownership of %s for user %d: %w", itemID, userID, err)
	}
	return owns, nil
}

// Grant records ownership. A second grant of the same item fails with ErrAlreadyOwned.
func (r *ItemRepository) Grant(ctx context.Context, item *models.OwnedItem) error {
	query := `
		INSERT INTO user_items (user_id, item_id, item_type)
		VALUES ($1, $2, $3)
		RETURNING acquired_at
	`

	err := r.q.QueryRow(ctx, query, item.UserID, item.ItemID, item.Category).Scan(&item.AcquiredAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.ErrAlreadyOwned
		}
		return fmt.Errorf("failed to grant %s to user %d: %w", item.ItemID, item.UserID, err)
	}
	return nil
}

// ListByUser returns the items a user owns in acquisition order
func (r *ItemRepository) ListByUser(ctx context.Context, userID int64) ([]*models.OwnedItem, error) {
	query := `
		SELECT user_id, item_id, item_type, acquired_at
		FROM user_items
		WHERE user_id = $1
		ORDER BY acquired_at, id
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items for user %d: %w", userID, err)
	}
	defer rows.Close()

	var items []*models.OwnedItem
	for rows.Next() {
		var item models.OwnedItem
		if err := rows.Scan(&item.UserID, &item.ItemID, &item.Category, &item.AcquiredAt); err != nil {
			return nil, fmt.Errorf("failed to scan owned item: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating owned items: %w", err)
	}
	return items, nil
}
