package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arcade/config"
	"arcade/events"
	"arcade/models"

	log "github.com/sirupsen/logrus"
)

// scoreService implements the ScoreService interface
type scoreService struct {
	uowFactory       UnitOfWorkFactory
	tracker          RoundTracker
	validator        SubmissionValidator
	rules            *config.Rules
	publisher        EventPublisher
	suspectThreshold int
}

// NewScoreService creates a new score service
func NewScoreService(
	uowFactory UnitOfWorkFactory,
	tracker RoundTracker,
	validator SubmissionValidator,
	rules *config.Rules,
	publisher EventPublisher,
	suspectThreshold int,
) ScoreService {
	return &scoreService{
		uowFactory:       uowFactory,
		tracker:          tracker,
		validator:        validator,
		rules:            rules,
		publisher:        publisher,
		suspectThreshold: suspectThreshold,
	}
}

// StartRound opens a round for the user
func (s *scoreService) StartRound(ctx context.Context, userID int64, game models.Game) (*models.Round, error) {
	round, err := s.tracker.StartRound(ctx, userID, game)
	if err != nil {
		return nil, fmt.Errorf("failed to start round: %w", err)
	}

	s.publisher.Publish(events.RoundStartedEvent{
		UserID:    userID,
		Game:      game,
		StartedAt: round.StartedAt,
	})
	return round, nil
}

// SubmitScore closes the user's round and either records the score or the rejection.
// Rejections are returned as *models.ValidationError.
func (s *scoreService) SubmitScore(ctx context.Context, userID int64, sub models.Submission) (*models.ScoreRecord, error) {
	elapsed, err := s.tracker.CloseRound(ctx, userID, sub.Game, sub.RoundToken)
	if err != nil {
		if errors.Is(err, models.ErrRoundNotStarted) || errors.Is(err, models.ErrGameMismatch) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to close round: %w", err)
	}

	verdict := s.validator.Validate(sub, elapsed)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if !verdict.Accepted {
		if err := s.recordRejection(ctx, uow, userID, sub, elapsed, verdict); err != nil {
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil, verdict.Err()
	}

	record := &models.ScoreRecord{
		UserID:  userID,
		Game:    sub.Game,
		Score:   sub.Score,
		Tickets: s.rules.TicketsFor(sub.Game, sub.Score),
	}
	if err := uow.ScoreRepository().Record(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record score: %w", err)
	}

	uow.EventBus().Publish(events.ScoreRecordedEvent{
		UserID:   userID,
		RecordID: record.ID,
		Game:     record.Game,
		Score:    record.Score,
		Tickets:  record.Tickets,
		Duration: elapsed,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":   userID,
		"game":     record.Game,
		"score":    record.Score,
		"tickets":  record.Tickets,
		"duration": elapsed,
	}).Info("Score recorded")

	return record, nil
}

func (s *scoreService) recordRejection(ctx context.Context, uow UnitOfWork, userID int64, sub models.Submission, elapsed time.Duration, verdict models.Verdict) error {
	log.WithFields(log.Fields{
		"userID":   userID,
		"game":     sub.Game,
		"score":    sub.Score,
		"duration": elapsed,
		"reason":   verdict.Reason,
		"detail":   verdict.Detail,
	}).Warn("Submission rejected")

	rejection := &models.RoundRejection{
		UserID:    userID,
		Game:      sub.Game,
		Score:     sub.Score,
		Duration:  elapsed,
		Reason:    verdict.Reason,
		Detail:    verdict.Detail,
		Telemetry: sub.Telemetry,
	}
	if err := uow.RejectionRepository().Record(ctx, rejection); err != nil {
		return fmt.Errorf("failed to record rejection: %w", err)
	}

	status, err := uow.UserRepository().RecordValidationFailure(ctx, userID, s.suspectThreshold)
	if err != nil {
		return fmt.Errorf("failed to record validation failure: %w", err)
	}

	uow.EventBus().Publish(events.RoundRejectedEvent{
		UserID:   userID,
		Game:     sub.Game,
		Score:    sub.Score,
		Duration: elapsed,
		Reason:   verdict.Reason,
		Detail:   verdict.Detail,
	})

	// Only the failure that crosses the threshold raises the flag event
	if status.IsSuspect && status.ValidationFailures == s.suspectThreshold {
		log.WithFields(log.Fields{
			"userID":   userID,
			"failures": status.ValidationFailures,
		}).Warn("User flagged as suspect")
		uow.EventBus().Publish(events.UserFlaggedEvent{
			UserID:   userID,
			Failures: status.ValidationFailures,
		})
	}
	return nil
}

// History returns all of a user's accepted scores
func (s *scoreService) History(ctx context.Context, userID int64) ([]*models.ScoreRecord, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	records, err := uow.ScoreRepository().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	return records, nil
}
