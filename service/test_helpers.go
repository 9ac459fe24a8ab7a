package service

import (
	"testing"

	"github.com/stretchr/testify/mock"
)

// Test IDs
const (
	TestUserID  = 111111
	TestAdminID = 999999
)

// TestMocks holds a unit of work and its mock repositories
type TestMocks struct {
	Factory        *MockUnitOfWorkFactory
	UoW            *MockUnitOfWork
	UserRepo       *MockUserRepository
	ScoreRepo      *MockScoreRepository
	ItemRepo       *MockItemRepository
	RejectionRepo  *MockRejectionRepository
	EventPublisher *MockEventPublisher
}

// NewTestMocks creates a new set of mocks with the unit of work wired to its repositories
func NewTestMocks() *TestMocks {
	m := &TestMocks{
		Factory:        new(MockUnitOfWorkFactory),
		UoW:            new(MockUnitOfWork),
		UserRepo:       new(MockUserRepository),
		ScoreRepo:      new(MockScoreRepository),
		ItemRepo:       new(MockItemRepository),
		RejectionRepo:  new(MockRejectionRepository),
		EventPublisher: new(MockEventPublisher),
	}
	m.UoW.SetRepositories(m.UserRepo, m.ScoreRepo, m.ItemRepo, m.RejectionRepo, m.EventPublisher)
	return m
}

// ExpectReadOnly sets up a unit of work that is begun and rolled back without a commit
func (m *TestMocks) ExpectReadOnly() {
	m.Factory.On("Create").Return(m.UoW)
	m.UoW.On("Begin", mock.Anything).Return(nil)
	m.UoW.On("Rollback").Return(nil)
}

// ExpectCommit sets up a unit of work that commits
func (m *TestMocks) ExpectCommit() {
	m.ExpectReadOnly()
	m.UoW.On("Commit").Return(nil)
}

// AssertAllExpectations asserts all mock expectations
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.Factory.AssertExpectations(t)
	m.UoW.AssertExpectations(t)
	m.UserRepo.AssertExpectations(t)
	m.ScoreRepo.AssertExpectations(t)
	m.ItemRepo.AssertExpectations(t)
	m.RejectionRepo.AssertExpectations(t)
	m.EventPublisher.AssertExpectations(t)
}
