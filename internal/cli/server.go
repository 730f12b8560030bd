package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"snarkel-service/internal/app"
	"snarkel-service/internal/config"
	"snarkel-service/internal/domain"
	"snarkel-service/internal/infra/memory"
	pgloader "snarkel-service/internal/infra/postgres"
	redisinfra "snarkel-service/internal/infra/redis"
	settlementhttp "snarkel-service/internal/infra/settlement"
	"snarkel-service/internal/settlement"
	transport "snarkel-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the snarkel session server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.SnarkelLoader = memory.NewStaticSnarkelLoader(sampleSnarkels())
	if pool != nil {
		loader = pgloader.NewSnarkelLoader(pool)
	}

	snarkelTTL := config.TTLDuration(cfg.Snarkel.TTL, 10*time.Minute)
	var snarkelRepo app.SnarkelRepository
	if redisClient != nil {
		snarkelRepo = redisinfra.NewSnarkelRepository(redisClient, loader, snarkelTTL)
	} else {
		snarkelRepo = memory.NewSnarkelRepository(loader, snarkelTTL)
	}

	var executor settlement.Executor = settlement.NewLogExecutor(logger)
	if cfg.Settlement.URL != "" {
		executor = settlementhttp.NewHTTPExecutor(cfg.Settlement.URL, config.TTLDuration(cfg.Settlement.Timeout, 15*time.Second))
	}

	var guard settlement.Guard = settlement.NoopGuard{}
	if redisClient != nil {
		guard = redisinfra.NewDistributionGuard(redisClient)
	}

	roomCfg := app.RoomConfig{
		MinParticipants:  cfg.Room.MinParticipants,
		MaxParticipants:  cfg.Room.MaxParticipants,
		CountdownSeconds: cfg.Room.CountdownSeconds,
		RevealSeconds:    cfg.Room.RevealSeconds,
	}
	registry := app.NewRegistry(snarkelRepo, roomCfg, executor, guard, logger)
	defer registry.Shutdown()

	wsHandler := transport.NewWSHandler(registry, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting snarkel service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleSnarkels seeds a demo snarkel for runs without Postgres configured.
func sampleSnarkels() map[string]domain.Snarkel {
	return map[string]domain.Snarkel{
		"snarkel-1": {
			ID:              "snarkel-1",
			Title:           "Demo Snarkel",
			CreatorIdentity: "0x00000000000000000000000000000000000000a1",
			Scoring: domain.ScoringConfig{
				BasePointsPerQuestion: 1000,
				SpeedBonusEnabled:     true,
				MaxSpeedBonus:         50,
			},
			RewardToken: "0x000000000000000000000000000000000000ce10",
			RewardPool:  "1000000",
			Questions: []domain.Question{
				{
					ID:        "q1",
					Position:  1,
					Text:      "What is 2 + 2?",
					TimeLimit: 15,
					Options: []domain.Option{
						{ID: "o1", Text: "3"},
						{ID: "o2", Text: "4", Correct: true},
						{ID: "o3", Text: "5"},
					},
				},
				{
					ID:        "q2",
					Position:  2,
					Text:      "Which planets are gas giants?",
					TimeLimit: 20,
					Options: []domain.Option{
						{ID: "o1", Text: "Jupiter", Correct: true},
						{ID: "o2", Text: "Mars"},
						{ID: "o3", Text: "Saturn", Correct: true},
					},
				},
			},
		},
	}
}
