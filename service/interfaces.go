package service

import (
	"context"
	"time"

	"arcade/events"
	"arcade/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by id, returning nil when absent
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByIDForUpdate retrieves a user and locks the row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error)

	// GetByUsername retrieves a user by username, returning nil when absent
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Create creates a new user
	Create(ctx context.Context, username, avatar string) (*models.User, error)

	// SetAdmin grants or revokes administrator rights
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error

	// AddSpent increases the user's spent tickets
	AddSpent(ctx context.Context, id int64, amount int64) error

	// SetEquipped sets the item shown in a category's slot, empty clears it
	SetEquipped(ctx context.Context, id int64, category models.ItemCategory, itemID string) error

	// RecordValidationFailure increments the failure counter and flags the user once
	// the threshold is reached
	RecordValidationFailure(ctx context.Context, id int64, threshold int) (*models.ModerationStatus, error)

	// ClearSuspect resets the suspect flag, the pending warning and the failure counter
	ClearSuspect(ctx context.Context, id int64) error

	// ClearWarning clears a pending warning
	ClearWarning(ctx context.Context, id int64) error

	// ListSuspects returns all users flagged as suspect
	ListSuspects(ctx context.Context) ([]*models.User, error)

	// Delete removes a user together with their scores and items
	Delete(ctx context.Context, id int64) error
}

// ScoreRepository defines the interface for the score ledger
type ScoreRepository interface {
	// Record appends an accepted score
	Record(ctx context.Context, record *models.ScoreRecord) error

	// TopScores returns the best distinct (user, score) pairs of a game
	TopScores(ctx context.Context, game models.Game, limit int) ([]*models.LeaderboardEntry, error)

	// PersonalBest returns the user's highest record for a game, nil when none
	PersonalBest(ctx context.Context, userID int64, game models.Game) (*models.ScoreRecord, error)

	// CountUsersAbove counts users whose best in a game is strictly above score
	CountUsersAbove(ctx context.Context, game models.Game, score int64) (int64, error)

	// TotalTickets sums the tickets earned by a user
	TotalTickets(ctx context.Context, userID int64) (int64, error)

	// ListByUser returns all of a user's records, newest first
	ListByUser(ctx context.Context, userID int64) ([]*models.ScoreRecord, error)
}

// ItemRepository defines the interface for item ownership
type ItemRepository interface {
	// Owns reports whether the user holds the item
	Owns(ctx context.Context, userID int64, itemID string) (bool, error)

	// Grant records ownership. Fails if the user already owns the item.
	Grant(ctx context.Context, item *models.OwnedItem) error

	// ListByUser returns the items a user owns
	ListByUser(ctx context.Context, userID int64) ([]*models.OwnedItem, error)
}

// RejectionRepository defines the interface for the rejected round audit trail
type RejectionRepository interface {
	// Record stores a rejected submission
	Record(ctx context.Context, rejection *models.RoundRejection) error

	// ListByUser returns a user's most recent rejections
	ListByUser(ctx context.Context, userID int64, limit int) ([]*models.RoundRejection, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork groups repository calls into one transaction
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() UserRepository
	ScoreRepository() ScoreRepository
	ItemRepository() ItemRepository
	RejectionRepository() RejectionRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// RoundTracker defines the interface for per-user round sessions
type RoundTracker interface {
	StartRound(ctx context.Context, userID int64, game models.Game) (*models.Round, error)
	CloseRound(ctx context.Context, userID int64, game models.Game, token string) (time.Duration, error)
}

// SubmissionValidator decides whether a submission is plausible
type SubmissionValidator interface {
	Validate(sub models.Submission, elapsed time.Duration) models.Verdict
}

// ScoreService defines the interface for round and score operations
type ScoreService interface {
	// StartRound opens a round for the user
	StartRound(ctx context.Context, userID int64, game models.Game) (*models.Round, error)

	// SubmitScore closes the round, validates the claim and records it when accepted
	SubmitScore(ctx context.Context, userID int64, sub models.Submission) (*models.ScoreRecord, error)

	// History returns all of a user's accepted scores
	History(ctx context.Context, userID int64) ([]*models.ScoreRecord, error)
}

// LeaderboardService defines the interface for ranking queries
type LeaderboardService interface {
	// TopN returns up to n (at most 10) leaderboard rows for a game
	TopN(ctx context.Context, game models.Game, n int) ([]*models.LeaderboardEntry, error)

	// Rank returns the user's best and global rank for a game, nil without a record
	Rank(ctx context.Context, userID int64, game models.Game) (*models.RankedScore, error)

	// BestScores returns Rank for every known game
	BestScores(ctx context.Context, userID int64) (map[models.Game]*models.RankedScore, error)
}

// EconomyService defines the interface for tickets and cosmetics
type EconomyService interface {
	// Wallet derives the user's ticket balance
	Wallet(ctx context.Context, userID int64) (*models.Wallet, error)

	// Catalog lists the shop with the user's ownership marked
	Catalog(ctx context.Context, userID int64) ([]*models.ShopListing, error)

	// Purchase buys an item atomically
	Purchase(ctx context.Context, userID int64, itemID string) (*models.PurchaseResult, error)

	// Equip shows an owned item in its category slot
	Equip(ctx context.Context, userID int64, itemID string) error

	// Unequip clears a category slot
	Unequip(ctx context.Context, userID int64, category models.ItemCategory) error
}

// ModerationService defines the interface for anti-cheat flags
type ModerationService interface {
	// Status returns the user's flags
	Status(ctx context.Context, userID int64) (*models.ModerationStatus, error)

	// AcknowledgeWarning clears the user's pending warning
	AcknowledgeWarning(ctx context.Context, userID int64) error

	// ListSuspects returns all flagged users
	ListSuspects(ctx context.Context) ([]*models.User, error)

	// ClearSuspect lifts a user's flags
	ClearSuspect(ctx context.Context, userID int64) error

	// RecentRejections returns a user's latest rejected rounds
	RecentRejections(ctx context.Context, userID int64, limit int) ([]*models.RoundRejection, error)
}

// UserService defines the interface for account operations
type UserService interface {
	// GetUser retrieves a user by id
	GetUser(ctx context.Context, userID int64) (*models.User, error)

	// CreateUser registers a new player
	CreateUser(ctx context.Context, username string) (*models.User, error)

	// GrantAdmin makes the named user an administrator
	GrantAdmin(ctx context.Context, username string) (*models.User, error)

	// DeleteUser removes a user and everything they own
	DeleteUser(ctx context.Context, userID int64) error
}
