package api

import (
	"context"

	"arcade/models"

	"github.com/stretchr/testify/mock"
)

type mockScoreService struct {
	mock.Mock
}

func (m *mockScoreService) StartRound(ctx context.Context, userID int64, game models.Game) (*models.Round, error) {
	args := m.Called(ctx, userID, game)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Round), args.Error(1)
}

func (m *mockScoreService) SubmitScore(ctx context.Context, userID int64, sub models.Submission) (*models.ScoreRecord, error) {
	args := m.Called(ctx, userID, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScoreRecord), args.Error(1)
}

func (m *mockScoreService) History(ctx context.Context, userID int64) ([]*models.ScoreRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ScoreRecord), args.Error(1)
}

type mockLeaderboardService struct {
	mock.Mock
}

func (m *mockLeaderboardService) TopN(ctx context.Context, game models.Game, n int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, game, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *mockLeaderboardService) Rank(ctx context.Context, userID int64, game models.Game) (*models.RankedScore, error) {
	args := m.Called(ctx, userID, game)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RankedScore), args.Error(1)
}

func (m *mockLeaderboardService) BestScores(ctx context.Context, userID int64) (map[models.Game]*models.RankedScore, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.Game]*models.RankedScore), args.Error(1)
}

type mockEconomyService struct {
	mock.Mock
}

func (m *mockEconomyService) Wallet(ctx context.Context, userID int64) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *mockEconomyService) Catalog(ctx context.Context, userID int64) ([]*models.ShopListing, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ShopListing), args.Error(1)
}

func (m *mockEconomyService) Purchase(ctx context.Context, userID int64, itemID string) (*models.PurchaseResult, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseResult), args.Error(1)
}

func (m *mockEconomyService) Equip(ctx context.Context, userID int64, itemID string) error {
	return m.Called(ctx, userID, itemID).Error(0)
}

func (m *mockEconomyService) Unequip(ctx context.Context, userID int64, category models.ItemCategory) error {
	return m.Called(ctx, userID, category).Error(0)
}

type mockModerationService struct {
	mock.Mock
}

func (m *mockModerationService) Status(ctx context.Context, userID int64) (*models.ModerationStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ModerationStatus), args.Error(1)
}

func (m *mockModerationService) AcknowledgeWarning(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockModerationService) ListSuspects(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *mockModerationService) ClearSuspect(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockModerationService) RecentRejections(ctx context.Context, userID int64, limit int) ([]*models.RoundRejection, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RoundRejection), args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) CreateUser(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) GrantAdmin(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) DeleteUser(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}
