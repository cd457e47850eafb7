package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/job-board/internal/api/http"
	"github.com/spec-kit/job-board/internal/api/http/handlers"
	"github.com/spec-kit/job-board/internal/auth"
	"github.com/spec-kit/job-board/internal/config"
	"github.com/spec-kit/job-board/internal/events"
	"github.com/spec-kit/job-board/internal/mailer"
	"github.com/spec-kit/job-board/internal/observability"
	"github.com/spec-kit/job-board/internal/persistence"
	"github.com/spec-kit/job-board/internal/repository"
	"github.com/spec-kit/job-board/internal/repository/inmemory"
	"github.com/spec-kit/job-board/internal/service"
	"github.com/spec-kit/job-board/internal/storage"
	"github.com/spec-kit/job-board/internal/worker"
)

type stores struct {
	users        repository.UserRepository
	jobs         repository.JobRepository
	applications repository.ApplicationRepository
	sessions     repository.SessionRepository
}

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

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	repos := buildStores(pg, redis)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, mailer.New(cfg.Mail, logger), logger)

	var forwarder *events.NATSForwarder
	if cfg.Events.NATSURL != "" {
		forwarder, err = events.NewNATSForwarder(ctx, cfg.Events.NATSURL, cfg.Events.SubjectPrefix, logger)
		if err != nil {
			logger.Warn("NATS forwarding disabled", zap.Error(err))
		}
	}
	defer forwarder.Close()
	worker.StartNotificationWorker(dispatcher, notificationService, forwarder)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:    repos.users,
		SessionRepo: repos.sessions,
	})
	jobService := service.NewJobService(service.JobDependencies{
		JobRepo:    repos.jobs,
		Dispatcher: dispatcher,
		PageSize:   cfg.App.JobsPageSize,
	})
	applicationService := service.NewApplicationService(service.ApplicationDependencies{
		ApplicationRepo:     repos.applications,
		JobRepo:             repos.jobs,
		UserRepo:            repos.users,
		Resumes:             storage.NewDiskResumeStore(cfg.Storage.UploadDir),
		Dispatcher:          dispatcher,
		EnforceJobOwnership: cfg.Auth.EnforceJobOwnership,
	})
	sessionMiddleware := auth.NewSessionMiddleware(authService.SessionManager(), repos.users, repos.sessions)

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(cfg.App.Name)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:              handlers.NewAuthHandler(authService, cfg.Auth.SessionCookieSecure),
		Jobs:              handlers.NewJobsHandler(jobService),
		Applications:      handlers.NewApplicationsHandler(applicationService, jobService),
		SessionMiddleware: sessionMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// buildStores picks Postgres and Redis when they are reachable and falls back
// to the in-memory store otherwise.
func buildStores(pg *persistence.Postgres, redis *persistence.Redis) stores {
	var s stores
	mem := inmemory.NewStore()

	if pg.Enabled() {
		pool := pg.PoolHandle()
		s.users = repository.NewUserRepository(pool)
		s.jobs = repository.NewJobRepository(pool)
		s.applications = repository.NewApplicationRepository(pool)
	} else {
		s.users = mem.Users()
		s.jobs = mem.Jobs()
		s.applications = mem.Applications()
	}

	if redis.Enabled() {
		s.sessions = repository.NewRedisSessionRepository(redis.Client)
	} else {
		s.sessions = mem.Sessions()
	}
	return s
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
