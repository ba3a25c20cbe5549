package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/shreddi/WallStreetRivals/external/alpaca"
	"github.com/shreddi/WallStreetRivals/internal/config"
	"github.com/shreddi/WallStreetRivals/internal/domain/contest"
	"github.com/shreddi/WallStreetRivals/internal/domain/notification"
	"github.com/shreddi/WallStreetRivals/internal/domain/player"
	"github.com/shreddi/WallStreetRivals/internal/domain/portfolio"
	"github.com/shreddi/WallStreetRivals/internal/domain/stock"
	"github.com/shreddi/WallStreetRivals/internal/infrastructure/auth"
	cacherepo "github.com/shreddi/WallStreetRivals/internal/infrastructure/repository/cache"
	"github.com/shreddi/WallStreetRivals/internal/infrastructure/repository/memory"
	"github.com/shreddi/WallStreetRivals/internal/infrastructure/repository/postgres"
	"github.com/shreddi/WallStreetRivals/internal/interfaces/httpapi"
	basecache "github.com/shreddi/WallStreetRivals/internal/platform/cache"
	idgen "github.com/shreddi/WallStreetRivals/internal/platform/id"
	"github.com/shreddi/WallStreetRivals/internal/platform/logging"
	"github.com/shreddi/WallStreetRivals/internal/platform/resilience"
	"github.com/shreddi/WallStreetRivals/internal/usecase"
)

type repositories struct {
	players       player.Repository
	stocks        stock.Repository
	portfolios    portfolio.Repository
	contests      contest.Repository
	notifications notification.Repository
}

// NewHTTPServer wires repositories, services, and the router into a ready
// http.Server. The returned cleanup releases the database pool when one was
// opened and is safe to call on a nil-wiring error path.
func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, func() error, error) {
	cleanup := func() error { return nil }

	var db *sqlx.DB
	if cfg.DBURL != "" {
		var err error
		db, err = openDB(cfg)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = db.Close
	}

	repos := buildRepositories(cfg, db, logger)

	tokens, err := auth.NewTokenManager(auth.TokenManagerConfig{
		Secret:           cfg.JWTSecret,
		Issuer:           cfg.JWTIssuer,
		AccessTTL:        cfg.JWTAccessTTL,
		RefreshTTL:       cfg.JWTRefreshTTL,
		PasswordResetTTL: cfg.JWTPasswordResetTTL,
	})
	if err != nil {
		return nil, cleanup, fmt.Errorf("build token manager: %w", err)
	}

	ids := idgen.NewRandomGenerator()
	prices := usecase.NewRepositoryPriceLookup(repos.stocks)

	accountSvc := usecase.NewAccountService(repos.players, auth.NewBcryptHasher(), tokens, ids, logger)
	stockSvc := usecase.NewStockService(repos.stocks, ids)
	portfolioSvc := usecase.NewPortfolioService(repos.portfolios, repos.contests, prices, ids)
	tradingSvc := usecase.NewTradingService(repos.portfolios, repos.stocks, ids, logger)
	contestSvc := usecase.NewContestService(repos.contests, repos.portfolios, repos.players, prices, ids, logger)
	notificationSvc := usecase.NewNotificationService(repos.notifications, ids)
	priceSyncSvc := usecase.NewPriceSyncService(repos.stocks, buildMarketData(cfg), logger).
		WithMaxWorkers(cfg.PriceRefreshWorkers)

	handler := httpapi.NewHandler(
		accountSvc,
		stockSvc,
		portfolioSvc,
		tradingSvc,
		contestSvc,
		notificationSvc,
		priceSyncSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, tokens, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, cleanup, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, db *sqlx.DB, logger *slog.Logger) repositories {
	if db == nil {
		// No database configured: serve from memory with demo fixtures.
		logger.Warn("DB_URL not set, using in-memory repositories")
		portfolios := memory.NewPortfolioRepository()
		notifications := memory.NewNotificationRepository()
		return repositories{
			players:       memory.NewPlayerRepository(memory.SeedPlayers()...),
			stocks:        cachedStocks(cfg, memory.NewStockRepository(memory.SeedStocks()...)),
			portfolios:    portfolios,
			contests:      memory.NewContestRepository(memory.SeedContests(time.Now())...).BindSeatStores(portfolios, notifications),
			notifications: notifications,
		}
	}

	return repositories{
		players:       postgres.NewPlayerRepository(db),
		stocks:        cachedStocks(cfg, postgres.NewStockRepository(db)),
		portfolios:    postgres.NewPortfolioRepository(db),
		contests:      postgres.NewContestRepository(db),
		notifications: postgres.NewNotificationRepository(db),
	}
}

func cachedStocks(cfg config.Config, next stock.Repository) stock.Repository {
	if !cfg.CacheEnabled {
		return next
	}
	return cacherepo.NewStockRepository(next, basecache.NewStore(cfg.CacheTTL))
}

func buildMarketData(cfg config.Config) usecase.MarketData {
	if !cfg.AlpacaEnabled {
		return usecase.NewNoopMarketData()
	}

	return alpaca.NewClient(alpaca.ClientConfig{
		DataBaseURL:   cfg.AlpacaDataBaseURL,
		BrokerBaseURL: cfg.AlpacaBrokerBaseURL,
		KeyID:         cfg.AlpacaKeyID,
		SecretKey:     cfg.AlpacaSecretKey,
		Feed:          cfg.AlpacaFeed,
		Timeout:       cfg.AlpacaTimeout,
		MaxRetries:    cfg.AlpacaMaxRetries,
		Logger:        logging.Default(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AlpacaCircuitEnabled,
			FailureThreshold: cfg.AlpacaCircuitFailureCount,
			OpenTimeout:      cfg.AlpacaCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AlpacaCircuitHalfOpenMaxReq,
		},
	})
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	opts := []otelsql.Option{
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if name := dbNameFromURL(cfg.DBURL); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary), opts...)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
