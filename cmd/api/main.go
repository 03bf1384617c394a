package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/department-service/internal/api/http"
	"github.com/spec-kit/department-service/internal/api/http/handlers"
	"github.com/spec-kit/department-service/internal/config"
	"github.com/spec-kit/department-service/internal/events"
	"github.com/spec-kit/department-service/internal/observability"
	"github.com/spec-kit/department-service/internal/persistence"
	"github.com/spec-kit/department-service/internal/repository"
	"github.com/spec-kit/department-service/internal/service"
	"github.com/spec-kit/department-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open department store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeStore()

	dependencies := map[string]handlers.Pinger{"store": store.pinger}

	var publisher service.Publisher
	if redis := persistence.NewRedis(cfg.Redis, logger); redis != nil {
		defer redis.Close()
		publisher = redis
		dependencies["redis"] = redis
	}

	metrics := observability.NewMetrics("departments")
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(ctx, service.NewNotificationService(dispatcher, logger, publisher, cfg.Redis))

	departmentService := service.NewDepartmentService(cfg.Departments, service.DepartmentDependencies{
		Repo:       store.repo,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies, logger),
		Departments: handlers.NewDepartmentHandler(departmentService),
		Metrics:     metrics,
	})
	if err := httptransport.RegisterAssets(app, cfg.App.IsProduction(), cfg.Assets, logger); err != nil {
		logger.Fatal("failed to configure asset serving", zap.Error(err))
	}

	go func() {
		logger.Info("server running", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	cancel()
}

type departmentStore struct {
	repo   repository.DepartmentRepository
	pinger handlers.Pinger
}

// openStore opens the single process-wide store handle selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (departmentStore, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return departmentStore{}, nil, err
		}
		return departmentStore{
			repo:   repository.NewDepartmentRepository(pg.PoolHandle()),
			pinger: pg,
		}, pg.Close, nil
	case config.DriverSQLite:
		db, err := persistence.NewSQLite(ctx, cfg.SQLite, logger)
		if err != nil {
			return departmentStore{}, nil, err
		}
		repo, err := repository.NewSQLiteDepartmentRepository(ctx, db.DB)
		if err != nil {
			db.Close()
			return departmentStore{}, nil, err
		}
		return departmentStore{repo: repo, pinger: db}, func() {
			repo.Close()
			db.Close()
		}, nil
	}
	return departmentStore{}, nil, errors.New("unsupported store driver " + cfg.Store.Driver)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
