package service

import (
	"context"
	"fmt"

	"arcade/models"
)

// computeWallet derives the ticket balance. Administrators are reported as unlimited
// but their spending is still tracked.
func computeWallet(user *models.User, earned int64) *models.Wallet {
	if user.IsAdmin {
		return &models.Wallet{
			TotalEarned: earned,
			Spent:       user.SpentPoints,
			Balance:     models.UnlimitedBalance,
			Unlimited:   true,
		}
	}

	return &models.Wallet{
		TotalEarned: earned,
		Spent:       user.SpentPoints,
		Balance:     earned - user.SpentPoints,
	}
}

// loadWallet reads the user and their earnings inside uow
func loadWallet(ctx context.Context, uow UnitOfWork, user *models.User) (*models.Wallet, error) {
	earned, err := uow.ScoreRepository().TotalTickets(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum tickets: %w", err)
	}
	return computeWallet(user, earned), nil
}
