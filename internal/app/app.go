package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gridironpool/survivor-pool/internal/config"
	"github.com/gridironpool/survivor-pool/internal/domain/entry"
	"github.com/gridironpool/survivor-pool/internal/domain/game"
	"github.com/gridironpool/survivor-pool/internal/domain/jobscheduler"
	"github.com/gridironpool/survivor-pool/internal/domain/pick"
	"github.com/gridironpool/survivor-pool/internal/domain/pool"
	"github.com/gridironpool/survivor-pool/internal/domain/request"
	"github.com/gridironpool/survivor-pool/internal/domain/season"
	"github.com/gridironpool/survivor-pool/internal/infrastructure/account/identity"
	"github.com/gridironpool/survivor-pool/internal/infrastructure/jobqueue"
	cacherepo "github.com/gridironpool/survivor-pool/internal/infrastructure/repository/cache"
	"github.com/gridironpool/survivor-pool/internal/infrastructure/repository/memory"
	"github.com/gridironpool/survivor-pool/internal/infrastructure/repository/postgres"
	"github.com/gridironpool/survivor-pool/internal/infrastructure/schedule/rundown"
	"github.com/gridironpool/survivor-pool/internal/interfaces/httpapi"
	"github.com/gridironpool/survivor-pool/internal/observability"
	basecache "github.com/gridironpool/survivor-pool/internal/platform/cache"
	idgen "github.com/gridironpool/survivor-pool/internal/platform/id"
	"github.com/gridironpool/survivor-pool/internal/platform/logging"
	"github.com/gridironpool/survivor-pool/internal/usecase"
)

type repositories struct {
	pools      pool.Repository
	entries    entry.Repository
	requests   request.Repository
	picks      pick.Repository
	games      game.Repository
	dispatches jobscheduler.Repository
}

// NewHTTPServer wires repositories, services, and the HTTP router into a
// ready-to-run server. With an empty DB_URL the service runs on seeded
// in-memory stores, which is how local development and the test suite run it.
func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	zapLogger := logging.NewJSON(cfg.ZapLogLevel)
	logging.SetDefault(zapLogger)

	uptraceShutdown, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}
	pyroscopeStop, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init pyroscope: %w", err)
	}
	pprofServer, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("start pprof: %w", err)
	}

	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.pools = cacherepo.NewPoolRepository(repos.pools, store)
		repos.games = cacherepo.NewGameRepository(repos.games, store)
	}

	ids := idgen.NewRandomGenerator()

	poolSvc := usecase.NewPoolService(repos.pools, ids, logger)
	requestSvc := usecase.NewRequestService(repos.pools, repos.requests, repos.entries, ids, logger)
	entrySvc := usecase.NewEntryService(repos.entries, logger)
	pickSvc := usecase.NewPickService(repos.pools, repos.entries, repos.picks, repos.games, ids, cfg.PickLockout, logger)

	var source game.Source
	if cfg.RundownEnabled {
		source = rundown.NewClient(rundown.ClientConfig{
			BaseURL:        cfg.RundownBaseURL,
			APIKey:         cfg.RundownAPIKey,
			APIHost:        cfg.RundownAPIHost,
			Timeout:        cfg.RundownTimeout,
			MaxRetries:     cfg.RundownMaxRetries,
			Logger:         zapLogger,
			CircuitBreaker: cfg.RundownCircuit,
		})
	}

	resultSync := usecase.NewResultSyncService(
		repos.pools,
		repos.entries,
		repos.picks,
		repos.games,
		source,
		cfg.GradingWorkers,
		logger,
	)

	var queue usecase.JobQueue
	if cfg.QStashEnabled {
		queue = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			Timeout:          cfg.QStashTimeout,
		}, logger)
	} else {
		queue = usecase.NewNoopJobQueue()
	}

	orchestrator := usecase.NewJobOrchestratorService(
		repos.games,
		resultSync,
		queue,
		repos.dispatches,
		season.NewCalendar(cfg.SeasonYear),
		usecase.JobOrchestratorConfig{
			ScheduleInterval: cfg.JobScheduleInterval,
			ResultsInterval:  cfg.JobResultsInterval,
			PreKickoffLead:   cfg.JobPreKickoffLead,
		},
		zapLogger,
	)

	verifier := identity.NewClient(identity.ClientConfig{
		HTTPClient:     &http.Client{Timeout: cfg.IdentityTimeout},
		BaseURL:        cfg.IdentityBaseURL,
		IntrospectPath: cfg.IdentityIntrospectPath,
		Logger:         logger,
		CircuitBreaker: cfg.IdentityCircuit,
		CacheTTL:       cfg.IdentityCacheTTL,
		CacheMaxSize:   cfg.IdentityCacheMaxSize,
	})

	handler := httpapi.NewHandler(
		poolSvc,
		requestSvc,
		entrySvc,
		pickSvc,
		orchestrator,
		repos.games,
		repos.dispatches,
		logger,
	)
	router := httpapi.NewRouter(
		handler,
		verifier,
		logger,
		cfg.SwaggerEnabled,
		cfg.CORSAllowedOrigins,
		cfg.InternalJobToken,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	server.RegisterOnShutdown(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := observability.StopPprofServer(pprofServer, logger, 5*time.Second); err != nil {
			logger.Error("stop pprof server", "error", err)
		}
		if err := pyroscopeStop(); err != nil {
			logger.Error("stop pyroscope", "error", err)
		}
		if err := uptraceShutdown(ctx); err != nil {
			logger.Error("shutdown uptrace", "error", err)
		}
		_ = zapLogger.Sync()
	})

	return server, nil
}

func buildRepositories(cfg config.Config, logger *slog.Logger) (repositories, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Info("db url is empty, using in-memory repositories")
		return repositories{
			pools:      memory.NewPoolRepository(memory.SeedPools()),
			entries:    memory.NewEntryRepository(nil),
			requests:   memory.NewRequestRepository(nil),
			picks:      memory.NewPickRepository(),
			games:      memory.NewGameRepository(memory.SeedGames()),
			dispatches: memory.NewJobDispatchRepository(),
		}, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return repositories{}, err
	}

	if cfg.AppEnv == config.EnvDev {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			return repositories{}, fmt.Errorf("bootstrap seed: %w", err)
		}
	}

	return repositories{
		pools:      postgres.NewPoolRepository(db),
		entries:    postgres.NewEntryRepository(db),
		requests:   postgres.NewRequestRepository(db),
		picks:      postgres.NewPickRepository(db),
		games:      postgres.NewGameRepository(db),
		dispatches: postgres.NewJobDispatchRepository(db),
	}, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return db, nil
}
