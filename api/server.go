package api

import (
	"context"

	"arcade/config"
	"arcade/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

// Services bundles the application services exposed over HTTP
type Services struct {
	Scores      service.ScoreService
	Leaderboard service.LeaderboardService
	Economy     service.EconomyService
	Moderation  service.ModerationService
	Users       service.UserService
}

// Server is the arcade HTTP API
type Server struct {
	app      *fiber.App
	addr     string
	services Services
}

// NewServer creates the fiber app and registers all routes
func NewServer(cfg *config.Config, services Services) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "arcade",
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, " + UserIDHeader,
	}))
	app.Use(RequestLogger())

	s := &Server{
		app:      app,
		addr:     cfg.HTTPAddr,
		services: services,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return SendOK(c, nil)
	})

	api := s.app.Group("/api", Identity(s.services.Users))

	api.Post("/start_round", s.startRound)
	api.Post("/submit_score", s.submitScore)
	api.Get("/my_scores", s.myScores)

	api.Get("/leaderboard/:game", s.leaderboard)
	api.Get("/my_rank/:game", s.myRank)
	api.Get("/my_best_scores", s.myBestScores)

	api.Get("/wallet", s.wallet)
	api.Get("/shop", s.shop)
	api.Post("/buy", s.buy)
	api.Post("/equip", s.equip)

	api.Get("/me/status", s.myStatus)
	api.Post("/me/warning/ack", s.acknowledgeWarning)

	admin := api.Group("/admin", AdminRequired())
	admin.Get("/suspects", s.listSuspects)
	admin.Get("/users/:id/rejections", s.userRejections)
	admin.Post("/users/:id/clear_suspect", s.clearSuspect)
}

// App exposes the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP until Shutdown is called
func (s *Server) Listen() error {
	log.WithField("addr", s.addr).Info("HTTP server listening")
	return s.app.Listen(s.addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
