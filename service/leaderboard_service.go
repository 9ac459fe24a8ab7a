package service

import (
	"context"
	"fmt"

	"arcade/config"
	"arcade/models"
)

// MaxLeaderboardSize caps every leaderboard query
const MaxLeaderboardSize = 10

// leaderboardService implements the LeaderboardService interface
type leaderboardService struct {
	uowFactory UnitOfWorkFactory
	rules      *config.Rules
}

// NewLeaderboardService creates a new leaderboard service. rules resolves equipped
// item ids to the values shown next to each entry.
func NewLeaderboardService(uowFactory UnitOfWorkFactory, rules *config.Rules) LeaderboardService {
	return &leaderboardService{
		uowFactory: uowFactory,
		rules:      rules,
	}
}

// TopN returns the best scores of a game, one row per distinct (user, score) pair
func (s *leaderboardService) TopN(ctx context.Context, game models.Game, n int) ([]*models.LeaderboardEntry, error) {
	if n <= 0 || n > MaxLeaderboardSize {
		n = MaxLeaderboardSize
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.ScoreRepository().TopScores(ctx, game, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get top scores: %w", err)
	}
	if entries == nil {
		entries = []*models.LeaderboardEntry{}
	}
	for _, entry := range entries {
		entry.Equipped = s.displayEquipment(entry.Equipped)
	}
	return entries, nil
}

// displayEquipment swaps equipped item ids for their catalog values. Ids no longer in
// the catalog are shown as stored.
func (s *leaderboardService) displayEquipment(equipped models.Equipment) models.Equipment {
	value := func(itemID string) string {
		if item, ok := s.rules.Item(itemID); ok {
			return item.Value
		}
		return itemID
	}
	return models.Equipment{
		Title:  value(equipped.Title),
		Frame:  value(equipped.Frame),
		Badge:  value(equipped.Badge),
		Effect: value(equipped.Effect),
	}
}

// Rank returns the user's best score and its position among all users' bests
func (s *leaderboardService) Rank(ctx context.Context, userID int64, game models.Game) (*models.RankedScore, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return rankFor(ctx, uow.ScoreRepository(), userID, game)
}

// BestScores returns the user's rank in every known game. Games without a record map to nil.
func (s *leaderboardService) BestScores(ctx context.Context, userID int64) (map[models.Game]*models.RankedScore, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	best := make(map[models.Game]*models.RankedScore, len(models.KnownGames()))
	for _, game := range models.KnownGames() {
		ranked, err := rankFor(ctx, uow.ScoreRepository(), userID, game)
		if err != nil {
			return nil, err
		}
		best[game] = ranked
	}
	return best, nil
}

func rankFor(ctx context.Context, scores ScoreRepository, userID int64, game models.Game) (*models.RankedScore, error) {
	best, err := scores.PersonalBest(ctx, userID, game)
	if err != nil {
		return nil, fmt.Errorf("failed to get personal best: %w", err)
	}
	if best == nil {
		return nil, nil
	}

	above, err := scores.CountUsersAbove(ctx, game, best.Score)
	if err != nil {
		return nil, fmt.Errorf("failed to count users above: %w", err)
	}

	return &models.RankedScore{
		Game:      game,
		Score:     best.Score,
		CreatedAt: best.CreatedAt,
		Rank:      above + 1,
	}, nil
}
