package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"bistro/internal/app"
	"bistro/internal/cache"
	"bistro/internal/config"
	"bistro/internal/database"
	"bistro/internal/repositories"
	"bistro/pkg/logger"
	"bistro/pkg/rabbitmq"
)

const auditQueue = "bistro.catalog.audit"

func main() {
	// a missing .env file is fine, the environment still applies
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

// run serves until ctx is cancelled, then shuts the server down gracefully.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Database ---
	db, err := database.Open(database.Config{
		Driver: cfg.DB.Driver,
		DSN:    cfg.DB.DSN,
		Debug:  cfg.App.Env == "development",
	})
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return err
	}

	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	logRepo := repositories.NewGORMImportExportLogRepository(db)

	deps := app.Dependencies{
		Products:       productRepo,
		Users:          userRepo,
		Logs:           logRepo,
		JWTSecret:      cfg.JWT.Secret,
		JWTTTL:         cfg.JWT.TTL,
		MaxUploadBytes: cfg.Import.MaxBytes,
		Logger:         log,
	}

	// --- RabbitMQ (optional) ---
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Exchange: cfg.RabbitMQ.Exchange}, log)
		if err != nil {
			return err
		}
		defer mqClient.Close()
		deps.Events = mqClient

		go func() {
			log.Info().Str("queue", auditQueue).Msg("starting catalog event consumer")
			if err := mqClient.ConsumeEvents(auditQueue, "catalog.#", rabbitmq.LogEvent(log)); err != nil {
				log.Error().Err(err).Msg("catalog event consumer stopped")
			}
		}()
	} else {
		log.Info().Msg("RABBITMQ_URL not set, catalog events are not published")
	}

	// --- Redis (optional) ---
	if cfg.Redis.Addr != "" {
		rdb, err := cache.Connect(ctx, cache.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		deps.Cache = cache.NewProductCache(rdb, cfg.Redis.TTL, log)
	}

	application := app.New(deps)

	if err := database.Seed(ctx, application.Products, application.Auth, userRepo, database.SeedConfig{
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminPassword: cfg.Seed.AdminPassword,
	}, log); err != nil {
		return err
	}

	// --- HTTP server with graceful shutdown ---
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("starting server")
		serverErr <- application.Fiber.Listen(cfg.App.Port)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	if err := application.Fiber.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during fiber shutdown")
	}
	log.Info().Msg("server gracefully stopped")
	return nil
}
