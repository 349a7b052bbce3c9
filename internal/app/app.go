package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tournament-sync/external/tournamentsoftware"
	"github.com/riskibarqy/tournament-sync/internal/config"
	"github.com/riskibarqy/tournament-sync/internal/domain/competition"
	"github.com/riskibarqy/tournament-sync/internal/domain/syncjob"
	"github.com/riskibarqy/tournament-sync/internal/domain/team"
	"github.com/riskibarqy/tournament-sync/internal/domain/teammatch"
	"github.com/riskibarqy/tournament-sync/internal/domain/teamreview"
	"github.com/riskibarqy/tournament-sync/internal/domain/tournamentteam"
	teamcache "github.com/riskibarqy/tournament-sync/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/tournament-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tournament-sync/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/tournament-sync/internal/interfaces/httpapi"
	"github.com/riskibarqy/tournament-sync/internal/observability"
	basecache "github.com/riskibarqy/tournament-sync/internal/platform/cache"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
	"github.com/riskibarqy/tournament-sync/internal/platform/resilience"
	"github.com/riskibarqy/tournament-sync/internal/usecase"
	"github.com/robfig/cron/v3"
	"github.com/sourcegraph/conc"
)

type repositories struct {
	competition competition.Repository
	teams       team.Repository
	rows        tournamentteam.Repository
	reviews     teamreview.Repository
	jobLogs     syncjob.Repository
}

// App owns every long-lived component of the service: the job orchestrator,
// the discovery schedule, the control API and the database handle.
type App struct {
	cfg          config.Config
	logger       *logging.Logger
	db           *sqlx.DB
	orchestrator *usecase.JobOrchestratorService
	scheduler    *cron.Cron
	server       *http.Server
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, db, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	source := tournamentsoftware.NewClient(tournamentsoftware.ClientConfig{
		BaseURL:       cfg.TournamentAPIBaseURL,
		Username:      cfg.TournamentAPIUsername,
		Password:      cfg.TournamentAPIPassword,
		Timeout:       cfg.TournamentAPITimeout,
		MaxRetries:    cfg.TournamentAPIMaxRetries,
		RetryInterval: cfg.TournamentAPIRetryInterval,
		Logger:        logger.With("component", "tournamentsoftware"),
		Clock:         clockwork.NewRealClock(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.TournamentCircuitEnabled,
			FailureThreshold: cfg.TournamentCircuitFailures,
			OpenTimeout:      cfg.TournamentCircuitOpenFor,
			HalfOpenMaxReq:   cfg.TournamentCircuitHalfOpen,
		},
	})

	reconciler := usecase.NewTeamReconciliationService(
		repos.rows,
		repos.reviews,
		repos.teams,
		usecase.TeamReconciliationConfig{
			Thresholds:      teammatch.Thresholds{High: cfg.MatchHighThreshold, Mid: cfg.MatchMidThreshold},
			SuggestionLimit: cfg.MatchSuggestionLimit,
		},
		logger,
	)
	syncService := usecase.NewTournamentSyncService(
		source,
		repos.competition,
		repos.teams,
		reconciler,
		usecase.TournamentSyncConfig{
			DiscoveryLookback:    cfg.SyncDiscoveryLookback,
			DiscoveryConcurrency: cfg.SyncDiscoveryConcurrency,
		},
		logger,
	)

	var (
		observer       usecase.JobObserver
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		metrics := observability.NewJobMetrics()
		observer = metrics
		metricsHandler = metrics.Handler()
	}

	orchestrator, err := usecase.NewJobOrchestratorService(
		syncService,
		repos.jobLogs,
		usecase.JobOrchestratorConfig{
			Workers:        cfg.SyncWorkers,
			InitialBackoff: cfg.SyncRetryInitialBackoff,
			MaxBackoff:     cfg.SyncRetryMaxBackoff,
			Policies:       jobPolicies(cfg.SyncPolicies),
			HistoryLimit:   cfg.SyncJobHistoryLimit,
		},
		observer,
		logger,
	)
	if err != nil {
		closeDB(db, logger)
		return nil, fmt.Errorf("build job orchestrator: %w", err)
	}

	scheduler, err := newDiscoveryScheduler(cfg.SyncDiscoveryCron, orchestrator, logger)
	if err != nil {
		closeDB(db, logger)
		return nil, err
	}

	handler := httpapi.NewHandler(orchestrator, reconciler, logger)
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger, cfg.InternalJobToken, metricsHandler),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		cfg:          cfg,
		logger:       logger,
		db:           db,
		orchestrator: orchestrator,
		scheduler:    scheduler,
		server:       server,
	}, nil
}

// Run serves until ctx is cancelled or the listener fails, then shuts every
// component down within cfg.ShutdownTimeout.
func (a *App) Run(ctx context.Context) error {
	a.orchestrator.Start(ctx)
	if a.scheduler != nil {
		a.scheduler.Start()
	}

	serveErr := make(chan error, 1)
	var wg conc.WaitGroup
	wg.Go(func() {
		a.logger.InfoContext(ctx, "http server starting", "addr", a.cfg.HTTPAddr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	})

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		runErr = fmt.Errorf("http server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.ErrorContext(shutdownCtx, "http server shutdown failed", "error", err)
	}
	wg.Wait()

	if a.scheduler != nil {
		<-a.scheduler.Stop().Done()
	}
	if err := a.orchestrator.Shutdown(shutdownCtx); err != nil {
		a.logger.ErrorContext(shutdownCtx, "job orchestrator shutdown failed", "error", err)
		runErr = errors.Join(runErr, err)
	}
	closeDB(a.db, a.logger)

	a.logger.InfoContext(shutdownCtx, "service stopped")
	return runErr
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.WarnContext(ctx, "using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return repositories{
			competition: memory.NewCompetitionRepository(store),
			teams:       memory.NewTeamRepository(store, memory.SeedTeams()),
			rows:        memory.NewTournamentTeamRepository(store),
			reviews:     memory.NewTeamReviewRepository(store),
			jobLogs:     memory.NewSyncJobRepository(store),
		}, nil, nil
	}

	db, err := openPostgres(ctx, cfg)
	if err != nil {
		return repositories{}, nil, err
	}
	return repositories{
		competition: postgres.NewCompetitionRepository(db),
		teams:       teamcache.NewTeamRepository(postgres.NewTeamRepository(db), basecache.NewStore(cfg.TeamCacheTTL)),
		rows:        postgres.NewTournamentTeamRepository(db),
		reviews:     postgres.NewTeamReviewRepository(db),
		jobLogs:     postgres.NewSyncJobRepository(db),
	}, db, nil
}

func jobPolicies(raw map[string]config.SyncJobPolicy) map[syncjob.Type]usecase.JobPolicy {
	out := usecase.DefaultJobPolicies()
	for name, policy := range raw {
		jobType := syncjob.Type(name)
		if !jobType.Valid() {
			continue
		}
		out[jobType] = usecase.JobPolicy{MaxAttempts: policy.MaxAttempts, Timeout: policy.Timeout}
	}
	return out
}

func closeDB(db *sqlx.DB, logger *logging.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("close database failed", "error", err)
	}
}
