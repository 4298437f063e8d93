// Command bistroctl runs catalog maintenance tasks against the configured database: schema
// migration, demo seeding and CSV import/export without going through the HTTP API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"bistro/internal/config"
	"bistro/internal/database"
	"bistro/internal/repositories"
	"bistro/internal/services"
	"bistro/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(config.Load).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// env is the state shared by every subcommand once the configuration is loaded.
type env struct {
	cfg *config.Config
	log zerolog.Logger
	db  *gorm.DB
}

func newRootCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:          "bistroctl",
		Short:        "Maintenance commands for the bistro catalog",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			e.cfg = cfg
			// logs go to stderr so command output on stdout stays machine readable
			e.log = logger.NewWithWriter(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}, cmd.ErrOrStderr())

			db, err := database.Open(database.Config{Driver: cfg.DB.Driver, DSN: cfg.DB.DSN})
			if err != nil {
				return err
			}
			e.db = db
			return database.Migrate(db)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e.db == nil {
				return nil
			}
			return database.Close(e.db)
		},
	}

	root.AddCommand(
		newMigrateCmd(e),
		newSeedCmd(e),
		newImportCmd(e),
		newExportCmd(e),
	)
	return root
}

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// the schema is migrated for every command before it runs
			e.log.Info().Str("driver", e.cfg.DB.Driver).Msg("database schema is up to date")
			return nil
		},
	}
}

func newSeedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo users and products into an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users := repositories.NewGORMUserRepository(e.db)
			products := services.NewProductService(repositories.NewGORMProductRepository(e.db), nil, nil, e.log)
			auth := services.NewAuthService(users, e.cfg.JWT.Secret, e.cfg.JWT.TTL, e.log)
			return database.Seed(cmd.Context(), products, auth, users, database.SeedConfig{
				AdminEmail:    e.cfg.Seed.AdminEmail,
				AdminPassword: e.cfg.Seed.AdminPassword,
			}, e.log)
		},
	}
}

func (e *env) importExportService() *services.ImportExportService {
	return services.NewImportExportService(
		repositories.NewGORMProductRepository(e.db),
		repositories.NewGORMImportExportLogRepository(e.db),
		nil,
		e.log,
	)
}
