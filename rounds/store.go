// Package rounds tracks the single open round each user may have.
package rounds

import (
	"context"

	"arcade/models"
)

// Store holds open rounds keyed by user id
type Store interface {
	// Put records round as the user's open round, replacing any previous one
	Put(ctx context.Context, round *models.Round) error

	// Take atomically reads and removes the user's open round.
	// Returns nil when no round is open.
	Take(ctx context.Context, userID int64) (*models.Round, error)
}
