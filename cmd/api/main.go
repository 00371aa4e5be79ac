package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/deca109/TaskFlow.ai/internal/api/http"
	"github.com/deca109/TaskFlow.ai/internal/api/http/handlers"
	"github.com/deca109/TaskFlow.ai/internal/config"
	"github.com/deca109/TaskFlow.ai/internal/events"
	"github.com/deca109/TaskFlow.ai/internal/observability"
	"github.com/deca109/TaskFlow.ai/internal/persistence"
	"github.com/deca109/TaskFlow.ai/internal/repository"
	"github.com/deca109/TaskFlow.ai/internal/repository/memory"
	"github.com/deca109/TaskFlow.ai/internal/service"
	"github.com/deca109/TaskFlow.ai/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var (
		taskRepo       repository.TaskRepository
		employeeRepo   repository.EmployeeRepository
		assignmentRepo repository.AssignmentRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		taskRepo = repository.NewTaskRepository(pool)
		employeeRepo = repository.NewEmployeeRepository(pool)
		assignmentRepo = repository.NewAssignmentRepository(pool)
	} else {
		logger.Warn("running with in-memory directory store; data is not durable")
		store := memory.NewStore()
		taskRepo = store.Tasks()
		employeeRepo = store.Employees()
		assignmentRepo = store.Assignments()
	}

	dispatcher := events.NewInMemoryDispatcher()
	cache := persistence.NewRecommendationCache(redis, cfg.Cache.TTL())

	workloadService := service.NewWorkloadService(employeeRepo, cfg.Store, logger)
	recommendationService := service.NewRecommendationService(service.RecommendationDependencies{
		TaskRepo:     taskRepo,
		EmployeeRepo: employeeRepo,
		Cache:        cache,
	}, cfg.Scoring, cfg.Store, logger)
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		TaskRepo:       taskRepo,
		EmployeeRepo:   employeeRepo,
		AssignmentRepo: assignmentRepo,
		Workload:       workloadService,
		Dispatcher:     dispatcher,
	}, cfg.Store, logger)
	completionService := service.NewCompletionService(assignmentRepo, dispatcher, cfg.Store, logger)
	directoryService := service.NewDirectoryService(taskRepo, employeeRepo, cfg.Store, logger)

	worker.StartCacheInvalidator(dispatcher, cache, logger)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Metrics:         handlers.NewMetricsHandler(metrics),
		Recommendations: handlers.NewRecommendationsHandler(recommendationService),
		Assignments:     handlers.NewAssignmentsHandler(assignmentService, completionService),
		Directory:       handlers.NewDirectoryHandler(directoryService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
