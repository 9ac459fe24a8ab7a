package models

import (
	"time"
)

// ItemCategory groups shop items by the slot they occupy
type ItemCategory string

const (
	CategoryTitle       ItemCategory = "title"
	CategoryAvatarFrame ItemCategory = "avatar_frame"
	CategoryBadge       ItemCategory = "badge"
	CategoryLobbyEffect ItemCategory = "lobby_effect"
	CategoryAvatar      ItemCategory = "avatar"
)

// UnlimitedBalance is reported for administrators
const UnlimitedBalance int64 = 1_000_000_000_000

// IsValid reports whether the category is part of the catalog schema
func (c ItemCategory) IsValid() bool {
	switch c {
	case CategoryTitle, CategoryAvatarFrame, CategoryBadge, CategoryLobbyEffect, CategoryAvatar:
		return true
	}
	return false
}

// Equippable reports whether items of this category occupy an equipment slot
func (c ItemCategory) Equippable() bool {
	return c.IsValid() && c != CategoryAvatar
}

// ShopItem is a catalog entry
type ShopItem struct {
	ID       string       `toml:"id" json:"id"`
	Category ItemCategory `toml:"category" json:"type"`
	Name     string       `toml:"name" json:"name"`
	Value    string       `toml:"value" json:"value"`
	Price    int64        `toml:"price" json:"price"`
	Default  bool         `toml:"default" json:"default"`
}

// OwnedItem records that a user holds an item
type OwnedItem struct {
	UserID     int64        `db:"user_id"`
	ItemID     string       `db:"item_id"`
	Category   ItemCategory `db:"item_type"`
	AcquiredAt time.Time    `db:"acquired_at"`
}

// Wallet is the derived ticket balance of a user
type Wallet struct {
	TotalEarned int64 `json:"total_earned"`
	Spent       int64 `json:"spent"`
	Balance     int64 `json:"balance"`
	Unlimited   bool  `json:"unlimited"`
}

// PurchaseResult is returned by a successful purchase
type PurchaseResult struct {
	Item   ShopItem
	Wallet Wallet
}

// ShopListing is a catalog entry annotated for one user
type ShopListing struct {
	ShopItem
	Owned    bool `json:"owned"`
	Equipped bool `json:"equipped"`
}
