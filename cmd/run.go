package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arcade/api"
	"arcade/config"
	"arcade/database"
	"arcade/events"
	"arcade/infrastructure"
	"arcade/observability"
	"arcade/repository"
	"arcade/rounds"
	"arcade/service"
	"arcade/validation"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Run initializes and starts the arcade server, blocking until ctx is cancelled
func Run(ctx context.Context) error {
	cfg := config.Get()
	cfg.ConfigureLogging()

	log.WithField("environment", cfg.Environment).Info("Starting arcade server")

	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		return fmt.Errorf("failed to load game rules: %w", err)
	}

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
		return err
	}

	eventBus := events.NewBus()

	metrics := observability.NewMetricsProvider(cfg)
	if err := metrics.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := metrics.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Failed to shut down metrics provider")
		}
	}()
	metrics.SubscribeTo(eventBus)

	if cfg.NATSServers != "" {
		natsClient, err := connectEventStream(ctx, cfg.NATSServers)
		if err != nil {
			return err
		}
		defer natsClient.Close()
		infrastructure.NewNATSEventPublisher(natsClient).Subscribe(eventBus)
	} else {
		log.Info("NATS_SERVERS not set, events stay in process")
	}

	store, closeStore, err := newRoundStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	services := api.Services{
		Scores: service.NewScoreService(
			uowFactory,
			rounds.NewTracker(store),
			validation.NewEngine(rules),
			rules,
			eventBus,
			cfg.SuspectThreshold,
		),
		Leaderboard: service.NewLeaderboardService(uowFactory, rules),
		Economy:     service.NewEconomyService(uowFactory, rules),
		Moderation:  service.NewModerationService(uowFactory),
		Users:       service.NewUserService(uowFactory),
	}
	server := api.NewServer(cfg, services)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Listen)
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server stopped: %w", err)
	}
	log.Info("Shutdown completed")
	return nil
}

func connectEventStream(ctx context.Context, servers string) (*infrastructure.NATSClient, error) {
	client := infrastructure.NewNATSClient(servers)
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	if err := client.EnsureStream(infrastructure.EventStreamName, infrastructure.StreamSubjects()); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ensure event stream: %w", err)
	}
	return client, nil
}

// newRoundStore builds the configured round store and a function releasing it
func newRoundStore(ctx context.Context, cfg *config.Config) (rounds.Store, func(), error) {
	if cfg.RoundStore == "redis" {
		client, err := rounds.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		closeClient := func() {
			if err := client.Close(); err != nil {
				log.WithError(err).Warn("Failed to close redis client")
			}
		}
		return rounds.NewRedisStore(client, cfg.RoundTTL), closeClient, nil
	}

	store, err := rounds.NewMemoryStore(cfg.RoundCacheSize, cfg.RoundTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create round store: %w", err)
	}
	log.WithFields(log.Fields{
		"size": cfg.RoundCacheSize,
		"ttl":  cfg.RoundTTL,
	}).Info("Using in-memory round store")
	return store, func() {}, nil
}
