package models

import "errors"

var (
	ErrRoundNotStarted    = errors.New("no round in progress")
	ErrGameMismatch       = errors.New("submission does not match the round in progress")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnknownItem        = errors.New("unknown item")
	ErrItemNotPurchasable = errors.New("item cannot be purchased")
	ErrItemNotEquippable  = errors.New("item cannot be equipped")
	ErrInvalidCategory    = errors.New("invalid item category")
	ErrInsufficientFunds  = errors.New("insufficient tickets")
	ErrAlreadyOwned       = errors.New("item already owned")
	ErrNotOwned           = errors.New("item not owned")
)
