package service

import (
	"context"
	"testing"

	"arcade/config"
	"arcade/events"
	"arcade/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEconomyService_Wallet(t *testing.T) {
	ctx := context.Background()

	t.Run("balance is earned minus spent", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewEconomyService(mocks.Factory, config.DefaultRules())

		mocks.ExpectReadOnly()
		mocks.UserRepo.On("GetByID", ctx, int64(TestUserID)).Return(&models.User{ID: TestUserID, SpentPoints: 30}, nil)
		mocks.ScoreRepo.On("TotalTickets", ctx, int64(TestUserID)).Return(int64(100), nil)

		wallet, err := service.Wallet(ctx, TestUserID)

		require.NoError(t, err)
		assert.Equal(t, models.Wallet{TotalEarned: 100, Spent: 30, Balance: 70}, *wallet)
		mocks.AssertAllExpectations(t)
	})

	t.Run("admin is unlimited", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewEconomyService(mocks.Factory, config.DefaultRules())

		mocks.ExpectReadOnly()
		mocks.UserRepo.On("GetByID", ctx, int64(TestAdminID)).Return(&models.User{ID: TestAdminID, IsAdmin: true, SpentPoints: 5000}, nil)
		mocks.ScoreRepo.On("TotalTickets", ctx, int64(TestAdminID)).Return(int64(0), nil)

		wallet, err := service.Wallet(ctx, TestAdminID)

		require.NoError(t, err)
		assert.True(t, wallet.Unlimited)
		assert.Equal(t, models.UnlimitedBalance, wallet.Balance)
		assert.Equal(t, int64(5000), wallet.Spent)
	})

	t.Run("unknown user", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewEconomyService(mocks.Factory, config.DefaultRules())

		mocks.ExpectReadOnly()
		mocks.UserRepo.On("GetByID", ctx, int64(TestUserID)).Return(nil, nil)

		_, err := service.Wallet(ctx, TestUserID)

		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}

func TestEconomyService_Catalog(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	rules := config.DefaultRules()
	service := NewEconomyService(mocks.Factory, rules)

	mocks.ExpectReadOnly()
	mocks.UserRepo.On("GetByID", ctx, int64(TestUserID)).Return(&models.User{
		ID:       TestUserID,
		Equipped: models.Equipment{Badge: "badge_star"},
	}, nil)
	mocks.ItemRepo.On("ListByUser", ctx, int64(TestUserID)).Return([]*models.OwnedItem{
		{UserID: TestUserID, ItemID: "badge_star", Category: models.CategoryBadge},
	}, nil)

	listings, err := service.Catalog(ctx, TestUserID)

	require.NoError(t, err)
	require.Len(t, listings, len(rules.Catalog))

	byID := make(map[string]*models.ShopListing)
	for _, listing := range listings {
		byID[listing.ID] = listing
	}
	assert.True(t, byID["badge_star"].Owned)
	assert.True(t, byID["badge_star"].Equipped)
	assert.True(t, byID["title_rookie"].Owned, "default items are always owned")
	assert.False(t, byID["badge_crown"].Owned)
	assert.False(t, byID["badge_crown"].Equipped)
	mocks.AssertAllExpectations(t)
}

func TestEconomyService_Purchase(t *testing.T) {
	ctx := context.Background()

	t.Run("successful purchase", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewEconomyService(mocks.Factory, config.DefaultRules())

		mocks.ExpectCommit()
		mocks.UserRepo.On("GetByIDForUpdate", ctx, int64(TestUserID)).Return(&models.User{ID: TestUserID, SpentPoints: 20}, nil)
		mocks.ScoreRepo.On("TotalTickets", ctx, int64(TestUserID)).Return(int64(300), nil)
		mocks.ItemRepo.On("Owns", ctx, int64(TestUserID), "frame_gold").Return(false, nil)
		mocks.UserRepo.On("AddSpent", ctx, int64(TestUserID), int64(250)).Return(nil)
		mocks.ItemRepo.On("Grant", ctx, mock.MatchedBy(func(item *models.OwnedItem) bool {
			return item.ItemID == "frame_gold" && item.Category == models.CategoryAvatarFrame
		})).Return(nil)
		mocks.EventPublisher.On("Publish", events.ItemPurchasedEvent{
			UserID:     TestUserID,
			ItemID:     "frame_gold",
			Category:   models.CategoryAvatarFrame,
			Price:      250,
			NewBalance: 30,
		}).Return()

		result, err := service.Purchase(ctx, TestUserID, "frame_gold")

		require.NoError(t, err)
		assert.Equal(t, "frame_gold", result.Item.ID)
		assert.Equal(t, int64(30), result.Wallet.Balance)
		assert.Equal(t, int64(270), result.Wallet.Spent)
		mocks.AssertAllExpectations(t)
	})

	t.Run("insufficient funds leaves state untouched", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewEconomyService(mocks.Factory, config.DefaultRules())

		mocks.ExpectReadOnly()
		mocks.UserRepo.On("GetByIDForUpdate", ctx, int64(TestUserID)).Return(&models.User{ID: TestUserID}, nil)
		mocks.ScoreRepo.On("TotalTickets", ctx, int64(TestUserID)).Return(int64(100), nil)

		result, err := service.Purchase(ctx, TestUserID, "badge_crown")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, models.ErrInsufficientFunds)
		mocks.UserRepo.AssertNotCalled(t, "AddSpent", mock.Anything, mock.Anything, mock.Anything)
		mocks.ItemRepo.AssertNotCalled(t, "Grant", mock.Anything, mock.Anything)
		mocks.UoW.AssertNotCalled(t, "Commit")
		mocks.AssertAllExpectations(t)
	})

	t.Run("already owned", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewEconomyService(mocks.Factory, config.DefaultRules())

		mocks.ExpectReadOnly()
		mocks.UserRepo.On("GetByIDForUpdate", ctx, int64(TestUserID)).Return(&models.User{ID: TestUserID}, nil)
		mocks.ScoreRepo.On("TotalTickets", ctx, int64(TestUserID)).Return(int64(1000), nil)
		mocks.ItemRepo.On("Owns", ctx, int64(TestUserID), "badge_star").Return(true, nil)

		_, err := service.Purchase(ctx, TestUserID, "badge_star")

		assert.ErrorIs(t, err, models.ErrAlreadyOwned)
		mocks.UserRepo.AssertNotCalled(t, "AddSpent", mock.Anything, mock.Anything, mock.Anything)
		mocks.AssertAllExpectations(t)
	})

	t.Run("admin buys without earnings", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewEconomyService(mocks.Factory, config.DefaultRules())

		mocks.ExpectCommit()
		mocks.UserRepo.On("GetByIDForUpdate", ctx, int64(TestAdminID)).Return(&models.User{ID: TestAdminID, IsAdmin: true}, nil)
		mocks.ScoreRepo.On("TotalTickets", ctx, int64(TestAdminID)).Return(int64(0), nil)
		mocks.ItemRepo.On("Owns", ctx, int64(TestAdminID), "title_arcade_legend").Return(false, nil)
		mocks.UserRepo.On("AddSpent", ctx, int64(TestAdminID), int64(1000)).Return(nil)
		mocks.ItemRepo.On("Grant", ctx, mock.AnythingOfType("*models.OwnedItem")).Return(nil)
		mocks.EventPublisher.On("Publish", mock.AnythingOfType("events.ItemPurchasedEvent")).Return()

		result, err := service.Purchase(ctx, TestAdminID, "title_arcade_legend")

		require.NoError(t, err)
		assert.True(t, result.Wallet.Unlimited)
		assert.Equal(t, models.UnlimitedBalance, result.Wallet.Balance)
		mocks.AssertAllExpectations(t)
	})

	t.Run("rejected before touching storage", func(t *testing.T) {
		tests := []struct {
			itemID string
			want   error
		}{
			{itemID: "no_such_item", want: models.ErrUnknownItem},
			{itemID: "avatar_robot", want: models.ErrItemNotPurchasable},
			{itemID: "title_rookie", want: models.ErrItemNotPurchasable},
		}
		for _, tt := range tests {
			mocks := NewTestMocks()
			service := NewEconomyService(mocks.Factory, config.DefaultRules())

			_, err := service.Purchase(ctx, TestUserID, tt.itemID)

			assert.ErrorIs(t, err, tt.want, tt.itemID)
			mocks.Factory.AssertNotCalled(t, "Create")
		}
	})
}

func TestEconomyService_Equip(t *testing.T) {
	ctx := context.Background()

	t.Run("owned item", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewEconomyService(mocks.Factory, config.DefaultRules())

		mocks.ExpectCommit()
		mocks.UserRepo.On("GetByID", ctx, int64(TestUserID)).Return(&models.User{ID: TestUserID}, nil)
		mocks.ItemRepo.On("Owns", ctx, int64(TestUserID), "effect_confetti").Return(true, nil)
		mocks.UserRepo.On("SetEquipped", ctx, int64(TestUserID), models.CategoryLobbyEffect, "effect_confetti").Return(nil)

		require.NoError(t, service.Equip(ctx, TestUserID, "effect_confetti"))
		mocks.AssertAllExpectations(t)
	})

	t.Run("default item needs no purchase", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewEconomyService(mocks.Factory, config.DefaultRules())

		mocks.ExpectCommit()
		mocks.UserRepo.On("GetByID", ctx, int64(TestUserID)).Return(&models.User{ID: TestUserID}, nil)
		mocks.UserRepo.On("SetEquipped", ctx, int64(TestUserID), models.CategoryAvatarFrame, "frame_basic").Return(nil)

		require.NoError(t, service.Equip(ctx, TestUserID, "frame_basic"))
		mocks.ItemRepo.AssertNotCalled(t, "Owns", mock.Anything, mock.Anything, mock.Anything)
		mocks.AssertAllExpectations(t)
	})

	t.Run("not owned", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewEconomyService(mocks.Factory, config.DefaultRules())

		mocks.ExpectReadOnly()
		mocks.UserRepo.On("GetByID", ctx, int64(TestUserID)).Return(&models.User{ID: TestUserID}, nil)
		mocks.ItemRepo.On("Owns", ctx, int64(TestUserID), "badge_crown").Return(false, nil)

		err := service.Equip(ctx, TestUserID, "badge_crown")

		assert.ErrorIs(t, err, models.ErrNotOwned)
		mocks.UserRepo.AssertNotCalled(t, "SetEquipped", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mocks.AssertAllExpectations(t)
	})

	t.Run("avatar is not equippable", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewEconomyService(mocks.Factory, config.DefaultRules())

		assert.ErrorIs(t, service.Equip(ctx, TestUserID, "avatar_robot"), models.ErrItemNotEquippable)
		mocks.Factory.AssertNotCalled(t, "Create")
	})

	t.Run("unknown item", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewEconomyService(mocks.Factory, config.DefaultRules())

		assert.ErrorIs(t, service.Equip(ctx, TestUserID, "nope"), models.ErrUnknownItem)
	})
}

func TestEconomyService_Unequip(t *testing.T) {
	ctx := context.Background()

	t.Run("clears slot", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewEconomyService(mocks.Factory, config.DefaultRules())

		mocks.ExpectCommit()
		mocks.UserRepo.On("SetEquipped", ctx, int64(TestUserID), models.CategoryTitle, "").Return(nil)

		require.NoError(t, service.Unequip(ctx, TestUserID, models.CategoryTitle))
		mocks.AssertAllExpectations(t)
	})

	t.Run("invalid category", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewEconomyService(mocks.Factory, config.DefaultRules())

		assert.ErrorIs(t, service.Unequip(ctx, TestUserID, models.CategoryAvatar), models.ErrInvalidCategory)
		assert.ErrorIs(t, service.Unequip(ctx, TestUserID, models.ItemCategory("hat")), models.ErrInvalidCategory)
		mocks.Factory.AssertNotCalled(t, "Create")
	})
}
