package service

import (
	"context"
	"fmt"

	"arcade/models"

	log "github.com/sirupsen/logrus"
)

// moderationService implements the ModerationService interface
type moderationService struct {
	uowFactory UnitOfWorkFactory
}

// NewModerationService creates a new moderation service
func NewModerationService(uowFactory UnitOfWorkFactory) ModerationService {
	return &moderationService{uowFactory: uowFactory}
}

// Status returns the user's suspect flag, pending warning and failure count
func (s *moderationService) Status(ctx context.Context, userID int64) (*models.ModerationStatus, error) {
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
	return user.Status(), nil
}

// AcknowledgeWarning clears the pending warning once the player has seen it
func (s *moderationService) AcknowledgeWarning(ctx context.Context, userID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().ClearWarning(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear warning: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListSuspects returns all users currently flagged
func (s *moderationService) ListSuspects(ctx context.Context) ([]*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().ListSuspects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list suspects: %w", err)
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// ClearSuspect lifts all flags from a user
func (s *moderationService) ClearSuspect(ctx context.Context, userID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().ClearSuspect(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear suspect flag: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithField("userID", userID).Info("Suspect flag cleared")
	return nil
}

// RecentRejections returns a user's latest rejected rounds for review
func (s *moderationService) RecentRejections(ctx context.Context, userID int64, limit int) ([]*models.RoundRejection, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	rejections, err := uow.RejectionRepository().ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list rejections: %w", err)
	}
	if rejections == nil {
		rejections = []*models.RoundRejection{}
	}
	return rejections, nil
}
