package service

import (
	"context"
	"time"

	"arcade/events"
	"arcade/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, username, avatar string) (*models.User, error) {
	args := m.Called(ctx, username, avatar)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	args := m.Called(ctx, id, isAdmin)
	return args.Error(0)
}

func (m *MockUserRepository) AddSpent(ctx context.Context, id int64, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockUserRepository) SetEquipped(ctx context.Context, id int64, category models.ItemCategory, itemID string) error {
	args := m.Called(ctx, id, category, itemID)
	return args.Error(0)
}

func (m *MockUserRepository) RecordValidationFailure(ctx context.Context, id int64, threshold int) (*models.ModerationStatus, error) {
	args := m.Called(ctx, id, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ModerationStatus), args.Error(1)
}

func (m *MockUserRepository) ClearSuspect(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) ClearWarning(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) ListSuspects(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockScoreRepository is a mock implementation of ScoreRepository
type MockScoreRepository struct {
	mock.Mock
}

func (m *MockScoreRepository) Record(ctx context.Context, record *models.ScoreRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockScoreRepository) TopScores(ctx context.Context, game models.Game, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, game, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *MockScoreRepository) PersonalBest(ctx context.Context, userID int64, game models.Game) (*models.ScoreRecord, error) {
	args := m.Called(ctx, userID, game)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScoreRecord), args.Error(1)
}

func (m *MockScoreRepository) CountUsersAbove(ctx context.Context, game models.Game, score int64) (int64, error) {
	args := m.Called(ctx, game, score)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockScoreRepository) TotalTickets(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockScoreRepository) ListByUser(ctx context.Context, userID int64) ([]*models.ScoreRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ScoreRecord), args.Error(1)
}

// MockItemRepository is a mock implementation of ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Owns(ctx context.Context, userID int64, itemID string) (bool, error) {
	args := m.Called(ctx, userID, itemID)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) Grant(ctx context.Context, item *models.OwnedItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) ListByUser(ctx context.Context, userID int64) ([]*models.OwnedItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OwnedItem), args.Error(1)
}

// MockRejectionRepository is a mock implementation of RejectionRepository
type MockRejectionRepository struct {
	mock.Mock
}

func (m *MockRejectionRepository) Record(ctx context.Context, rejection *models.RoundRejection) error {
	args := m.Called(ctx, rejection)
	return args.Error(0)
}

func (m *MockRejectionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.RoundRejection, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RoundRejection), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockRoundTracker is a mock implementation of RoundTracker
type MockRoundTracker struct {
	mock.Mock
}

func (m *MockRoundTracker) StartRound(ctx context.Context, userID int64, game models.Game) (*models.Round, error) {
	args := m.Called(ctx, userID, game)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Round), args.Error(1)
}

func (m *MockRoundTracker) CloseRound(ctx context.Context, userID int64, game models.Game, token string) (time.Duration, error) {
	args := m.Called(ctx, userID, game, token)
	return args.Get(0).(time.Duration), args.Error(1)
}

// MockUnitOfWork is a mock implementation of UnitOfWork.
// Repositories are plain fields so tests only stub the calls they care about.
type MockUnitOfWork struct {
	mock.Mock
	userRepo      UserRepository
	scoreRepo     ScoreRepository
	itemRepo      ItemRepository
	rejectionRepo RejectionRepository
	eventBus      EventPublisher
}

// SetRepositories wires the repositories returned by the unit of work
func (m *MockUnitOfWork) SetRepositories(userRepo UserRepository, scoreRepo ScoreRepository, itemRepo ItemRepository, rejectionRepo RejectionRepository, eventBus EventPublisher) {
	m.userRepo = userRepo
	m.scoreRepo = scoreRepo
	m.itemRepo = itemRepo
	m.rejectionRepo = rejectionRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) ScoreRepository() ScoreRepository {
	return m.scoreRepo
}

func (m *MockUnitOfWork) ItemRepository() ItemRepository {
	return m.itemRepo
}

func (m *MockUnitOfWork) RejectionRepository() RejectionRepository {
	return m.rejectionRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
