package api

import (
	"net/http"
	"strconv"

	"arcade/models"

	"github.com/gofiber/fiber/v2"
)

type startRoundRequest struct {
	Game string `json:"game"`
}

type submitScoreRequest struct {
	Game       string `json:"game"`
	Score      *int64 `json:"score"`
	Moves      int64  `json:"moves"`
	Hits       int64  `json:"hits"`
	Pieces     int64  `json:"pieces"`
	Jumps      int64  `json:"jumps"`
	Lines      int64  `json:"lines"`
	Level      int64  `json:"level"`
	RoundToken string `json:"round_token"`
}

type buyRequest struct {
	ItemID string `json:"item_id"`
}

type equipRequest struct {
	ItemID  string `json:"item_id"`
	Unequip string `json:"unequip"`
}

func (s *Server) startRound(c *fiber.Ctx) error {
	var req startRoundRequest
	if err := c.BodyParser(&req); err != nil {
		return SendBadRequest(c, "Invalid request body")
	}
	game, err := models.ParseGame(req.Game)
	if err != nil {
		return SendBadRequest(c, err.Error())
	}

	user, _ := currentUser(c)
	round, err := s.services.Scores.StartRound(c.UserContext(), user.ID, game)
	if err != nil {
		return SendServiceError(c, err)
	}
	return SendOK(c, fiber.Map{"round_token": round.Token})
}

func (s *Server) submitScore(c *fiber.Ctx) error {
	var req submitScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return SendBadRequest(c, "Invalid request body")
	}
	game, err := models.ParseGame(req.Game)
	if err != nil {
		return SendBadRequest(c, err.Error())
	}
	if req.Score == nil {
		return SendBadRequest(c, "score is required")
	}

	user, _ := currentUser(c)
	record, err := s.services.Scores.SubmitScore(c.UserContext(), user.ID, models.Submission{
		Game:  game,
		Score: *req.Score,
		Telemetry: models.Telemetry{
			Moves:  req.Moves,
			Hits:   req.Hits,
			Pieces: req.Pieces,
			Jumps:  req.Jumps,
			Lines:  req.Lines,
			Level:  req.Level,
		},
		RoundToken: req.RoundToken,
	})
	if err != nil {
		return SendServiceError(c, err)
	}
	return SendOK(c, fiber.Map{"tickets": record.Tickets})
}

func (s *Server) myScores(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	records, err := s.services.Scores.History(c.UserContext(), user.ID)
	if err != nil {
		return SendServiceError(c, err)
	}

	history := make([]fiber.Map, 0, len(records))
	for _, record := range records {
		history = append(history, fiber.Map{
			"game":      record.Game,
			"score":     record.Score,
			"tickets":   record.Tickets,
			"timestamp": record.CreatedAt,
		})
	}
	return SendJSON(c, http.StatusOK, history)
}

func (s *Server) leaderboard(c *fiber.Ctx) error {
	game, err := models.ParseGame(c.Params("game"))
	if err != nil {
		return SendBadRequest(c, err.Error())
	}

	entries, err := s.services.Leaderboard.TopN(c.UserContext(), game, c.QueryInt("limit", 0))
	if err != nil {
		return SendServiceError(c, err)
	}
	return SendJSON(c, http.StatusOK, entries)
}

func (s *Server) myRank(c *fiber.Ctx) error {
	game, err := models.ParseGame(c.Params("game"))
	if err != nil {
		return SendBadRequest(c, err.Error())
	}

	user, _ := currentUser(c)
	ranked, err := s.services.Leaderboard.Rank(c.UserContext(), user.ID, game)
	if err != nil {
		return SendServiceError(c, err)
	}
	if ranked == nil {
		return SendJSON(c, http.StatusOK, fiber.Map{})
	}
	return SendJSON(c, http.StatusOK, ranked)
}

func (s *Server) myBestScores(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	best, err := s.services.Leaderboard.BestScores(c.UserContext(), user.ID)
	if err != nil {
		return SendServiceError(c, err)
	}
	return SendJSON(c, http.StatusOK, best)
}

func (s *Server) wallet(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	wallet, err := s.services.Economy.Wallet(c.UserContext(), user.ID)
	if err != nil {
		return SendServiceError(c, err)
	}
	return SendJSON(c, http.StatusOK, wallet)
}

func (s *Server) shop(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	listings, err := s.services.Economy.Catalog(c.UserContext(), user.ID)
	if err != nil {
		return SendServiceError(c, err)
	}
	return SendJSON(c, http.StatusOK, listings)
}

func (s *Server) buy(c *fiber.Ctx) error {
	var req buyRequest
	if err := c.BodyParser(&req); err != nil || req.ItemID == "" {
		return SendBadRequest(c, "item_id is required")
	}

	user, _ := currentUser(c)
	result, err := s.services.Economy.Purchase(c.UserContext(), user.ID, req.ItemID)
	if err != nil {
		return SendServiceError(c, err)
	}
	return SendOK(c, fiber.Map{"new_balance": result.Wallet.Balance})
}

func (s *Server) equip(c *fiber.Ctx) error {
	var req equipRequest
	if err := c.BodyParser(&req); err != nil {
		return SendBadRequest(c, "Invalid request body")
	}

	user, _ := currentUser(c)
	var err error
	switch {
	case req.Unequip != "":
		err = s.services.Economy.Unequip(c.UserContext(), user.ID, models.ItemCategory(req.Unequip))
	case req.ItemID != "":
		err = s.services.Economy.Equip(c.UserContext(), user.ID, req.ItemID)
	default:
		return SendBadRequest(c, "item_id or unequip is required")
	}
	if err != nil {
		return SendServiceError(c, err)
	}
	return SendOK(c, nil)
}

func (s *Server) myStatus(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	status, err := s.services.Moderation.Status(c.UserContext(), user.ID)
	if err != nil {
		return SendServiceError(c, err)
	}
	return SendJSON(c, http.StatusOK, status)
}

func (s *Server) acknowledgeWarning(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	if err := s.services.Moderation.AcknowledgeWarning(c.UserContext(), user.ID); err != nil {
		return SendServiceError(c, err)
	}
	return SendOK(c, nil)
}

func (s *Server) listSuspects(c *fiber.Ctx) error {
	users, err := s.services.Moderation.ListSuspects(c.UserContext())
	if err != nil {
		return SendServiceError(c, err)
	}

	suspects := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		suspects = append(suspects, fiber.Map{
			"id":                  u.ID,
			"username":            u.Username,
			"validation_failures": u.ValidationFailures,
			"warning_pending":     u.WarningPending,
		})
	}
	return SendJSON(c, http.StatusOK, suspects)
}

func (s *Server) userRejections(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return SendBadRequest(c, "Invalid user id")
	}

	rejections, err := s.services.Moderation.RecentRejections(c.UserContext(), userID, c.QueryInt("limit", 0))
	if err != nil {
		return SendServiceError(c, err)
	}
	return SendJSON(c, http.StatusOK, rejections)
}

func (s *Server) clearSuspect(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return SendBadRequest(c, "Invalid user id")
	}

	if err := s.services.Moderation.ClearSuspect(c.UserContext(), userID); err != nil {
		return SendServiceError(c, err)
	}
	return SendOK(c, nil)
}
