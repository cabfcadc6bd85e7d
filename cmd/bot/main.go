package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ishita-lives/schedulr/internal/app"
	"github.com/ishita-lives/schedulr/internal/config"
	"github.com/ishita-lives/schedulr/internal/controller"
	"github.com/ishita-lives/schedulr/internal/controller/callbacks/callbacktypes"
	"github.com/ishita-lives/schedulr/internal/controller/state"
	"github.com/ishita-lives/schedulr/internal/repository"
	"github.com/ishita-lives/schedulr/internal/repository/memory"
	"github.com/ishita-lives/schedulr/internal/service"
	"github.com/ishita-lives/schedulr/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("starting schedulr bot",
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.Storage),
		zap.String("timezone", cfg.Location.String()),
		zap.Bool("env_file", cfg.EnvFileLoaded))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("bot stopped with error", zap.Error(err))
	}
	logger.Info("bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	var (
		tx       repository.TxManager
		accounts repository.AccountRepository
		seed     func(catalog *service.CatalogService, enrollments *service.EnrollmentService) error
	)

	switch cfg.Storage {
	case config.StorageMemory:
		store := memory.NewStore()
		tx = store
		accounts = store.Accounts()
		seed = func(catalog *service.CatalogService, enrollments *service.EnrollmentService) error {
			_, err := app.NewSeeder(store, catalog, enrollments, logger).Seed(ctx, cfg.AdminTelegramID)
			return err
		}

	default:
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			return err
		}

		if cfg.RunMigrations {
			migrator, err := app.NewMigrator(pool, migrations.FS, logger)
			if err != nil {
				return err
			}
			if err := migrator.Run(ctx); err != nil {
				return err
			}
		}

		tx = repository.NewPostgresTxManager(pool, logger)
		accounts = repository.NewAccountRepository(pool)
	}

	deps := &callbacktypes.Handler{
		Catalog:      service.NewCatalogService(tx, logger),
		Enrollments:  service.NewEnrollmentService(tx, logger),
		Changes:      service.NewChangeService(tx, cfg.Location, logger),
		Grid:         service.NewGridService(tx, logger),
		Stats:        service.NewStatsService(tx, logger),
		Accounts:     accounts,
		StateManager: state.NewManager(),
		Location:     cfg.Location,
		Logger:       logger,
		Now:          time.Now,
	}

	if seed != nil {
		if err := seed(deps.Catalog, deps.Enrollments); err != nil {
			return err
		}
	}

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	ctrl := controller.NewBotController(b, deps)
	if err := ctrl.RegisterHandlers(ctx); err != nil {
		// the command menu is cosmetic, handlers are already registered
		logger.Warn("failed to publish bot commands", zap.Error(err))
	}

	ctrl.Start(ctx)
	return nil
}
