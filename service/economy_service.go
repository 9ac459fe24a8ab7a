package service

import (
	"context"
	"fmt"

	"arcade/config"
	"arcade/events"
	"arcade/models"

	log "github.com/sirupsen/logrus"
)

// economyService implements the EconomyService interface
type economyService struct {
	uowFactory UnitOfWorkFactory
	rules      *config.Rules
}

// NewEconomyService creates a new economy service
func NewEconomyService(uowFactory UnitOfWorkFactory, rules *config.Rules) EconomyService {
	return &economyService{
		uowFactory: uowFactory,
		rules:      rules,
	}
}

// Wallet derives the user's balance from the score ledger and spent tickets
func (s *economyService) Wallet(ctx context.Context, userID int64) (*models.Wallet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}

	return loadWallet(ctx, uow, user)
}

// Catalog lists every shop item with the user's ownership and equipment marked
func (s *economyService) Catalog(ctx context.Context, userID int64) ([]*models.ShopListing, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}

	owned, err := uow.ItemRepository().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned items: %w", err)
	}
	ownedIDs := make(map[string]bool, len(owned))
	for _, item := range owned {
		ownedIDs[item.ItemID] = true
	}

	listings := make([]*models.ShopListing, 0, len(s.rules.Catalog))
	for _, item := range s.rules.Catalog {
		listings = append(listings, &models.ShopListing{
			ShopItem: item,
			Owned:    item.Default || ownedIDs[item.ID],
			Equipped: item.Category.Equippable() && user.Equipped.Slot(item.Category) == item.ID,
		})
	}
	return listings, nil
}

// Purchase buys an item. The user row stays locked from the balance check to the
// ownership insert, so concurrent purchases by the same user are serialized.
func (s *economyService) Purchase(ctx context.Context, userID int64, itemID string) (*models.PurchaseResult, error) {
	item, ok := s.rules.Item(itemID)
	if !ok {
		return nil, models.ErrUnknownItem
	}
	if item.Category == models.CategoryAvatar || item.Default {
		return nil, models.ErrItemNotPurchasable
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock user: %w", err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}

	wallet, err := loadWallet(ctx, uow, user)
	if err != nil {
		return nil, err
	}
	if !wallet.Unlimited && wallet.Balance < item.Price {
		return nil, models.ErrInsufficientFunds
	}

	owns, err := uow.ItemRepository().Owns(ctx, userID, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check ownership: %w", err)
	}
	if owns {
		return nil, models.ErrAlreadyOwned
	}

	if item.Price > 0 {
		if err := uow.UserRepository().AddSpent(ctx, userID, item.Price); err != nil {
			return nil, fmt.Errorf("failed to charge user: %w", err)
		}
	}
	if err := uow.ItemRepository().Grant(ctx, &models.OwnedItem{
		UserID:   userID,
		ItemID:   item.ID,
		Category: item.Category,
	}); err != nil {
		return nil, fmt.Errorf("failed to grant item: %w", err)
	}

	user.SpentPoints += item.Price
	newWallet := computeWallet(user, wallet.TotalEarned)

	uow.EventBus().Publish(events.ItemPurchasedEvent{
		UserID:     userID,
		ItemID:     item.ID,
		Category:   item.Category,
		Price:      item.Price,
		NewBalance: newWallet.Balance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":     userID,
		"itemID":     item.ID,
		"price":      item.Price,
		"newBalance": newWallet.Balance,
	}).Info("Item purchased")

	return &models.PurchaseResult{Item: item, Wallet: *newWallet}, nil
}

// Equip shows an item in its category slot. Default items need no purchase.
func (s *economyService) Equip(ctx context.Context, userID int64, itemID string) error {
	item, ok := s.rules.Item(itemID)
	if !ok {
		return models.ErrUnknownItem
	}
	if !item.Category.Equippable() {
		return models.ErrItemNotEquippable
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return models.ErrUserNotFound
	}

	if !item.Default {
		owns, err := uow.ItemRepository().Owns(ctx, userID, item.ID)
		if err != nil {
			return fmt.Errorf("failed to check ownership: %w", err)
		}
		if !owns {
			return models.ErrNotOwned
		}
	}

	if err := uow.UserRepository().SetEquipped(ctx, userID, item.Category, item.ID); err != nil {
		return fmt.Errorf("failed to equip item: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Unequip clears a category slot
func (s *economyService) Unequip(ctx context.Context, userID int64, category models.ItemCategory) error {
	if !category.Equippable() {
		return models.ErrInvalidCategory
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().SetEquipped(ctx, userID, category, ""); err != nil {
		return fmt.Errorf("failed to unequip %s: %w", category, err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
