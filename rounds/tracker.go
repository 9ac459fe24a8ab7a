package rounds

import (
	"context"
	"fmt"
	"time"

	"arcade/models"

	gonanoid "github.com/matoous/go-nanoid/v2"
	log "github.com/sirupsen/logrus"
)

// Tracker opens and closes rounds using server time only
type Tracker struct {
	store    Store
	now      func() time.Time
	newToken func() (string, error)
}

// NewTracker creates a round tracker on top of store
func NewTracker(store Store) *Tracker {
	return &Tracker{
		store:    store,
		now:      time.Now,
		newToken: func() (string, error) { return gonanoid.New() },
	}
}

// StartRound opens a round for the user, replacing any round already in progress
func (t *Tracker) StartRound(ctx context.Context, userID int64, game models.Game) (*models.Round, error) {
	token, err := t.newToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate round token: %w", err)
	}

	round := &models.Round{
		Token:     token,
		UserID:    userID,
		Game:      game,
		StartedAt: t.now(),
	}
	if err := t.store.Put(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to start round: %w", err)
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"game":   game,
	}).Debug("Round started")

	return round, nil
}

// CloseRound consumes the user's open round and returns its elapsed time.
// The round is consumed even when the claim does not match it, so a failed
// submission can never be retried against the same start time.
func (t *Tracker) CloseRound(ctx context.Context, userID int64, game models.Game, token string) (time.Duration, error) {
	round, err := t.store.Take(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to close round: %w", err)
	}
	if round == nil {
		return 0, models.ErrRoundNotStarted
	}
	if round.Game != game || (token != "" && token != round.Token) {
		log.WithFields(log.Fields{
			"userID":      userID,
			"roundGame":   round.Game,
			"claimedGame": game,
		}).Warn("Submission does not match open round")
		return 0, models.ErrGameMismatch
	}

	elapsed := t.now().Sub(round.StartedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed, nil
}
