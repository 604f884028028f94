package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/catalog-gateway/internal/api/http"
	"github.com/spec-kit/catalog-gateway/internal/api/http/handlers"
	"github.com/spec-kit/catalog-gateway/internal/auth"
	"github.com/spec-kit/catalog-gateway/internal/catalog"
	"github.com/spec-kit/catalog-gateway/internal/config"
	"github.com/spec-kit/catalog-gateway/internal/observability"
	"github.com/spec-kit/catalog-gateway/internal/persistence"
	"github.com/spec-kit/catalog-gateway/internal/repository"
	"github.com/spec-kit/catalog-gateway/internal/service"
	"github.com/spec-kit/catalog-gateway/internal/worker"
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

	metrics := observability.NewMetrics()
	readiness := map[string]handlers.Pinger{}

	pg, err := persistence.NewPostgres(ctx, cfg.Credentials.DSN, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	if pg != nil {
		defer pg.Close()
		readiness["postgres"] = pg
	}

	records, err := loadCredentials(ctx, cfg.Credentials, pg)
	if err != nil {
		logger.Fatal("failed to load credentials", zap.Error(err))
	}
	credentials, err := repository.NewCredentialStore(records, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("invalid credential set", zap.Error(err))
	}
	logger.Info("credentials loaded", zap.Int("count", credentials.Len()))

	secret, err := auth.NewSecret()
	if err != nil {
		logger.Fatal("failed to generate token secret", zap.Error(err))
	}
	tokens, err := auth.NewTokenManager(secret, cfg.Auth.TokenTTL())
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	upstreamCredential, err := catalog.NewCredential(cfg.Upstream)
	if err != nil {
		logger.Fatal("failed to init upstream credential", zap.Error(err))
	}

	deps := service.Dependencies{
		Credentials: credentials,
		Tokens:      tokens,
		Fetcher:     catalog.NewClient(cfg.Upstream, upstreamCredential),
		BcryptCost:  cfg.Auth.BcryptCost,
		Recorder:    metrics,
		Logger:      logger,
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	if redis != nil {
		defer redis.Close()
		readiness["redis"] = redis
		if cfg.Cache.TTL() > 0 {
			deps.Cache = redis
			deps.CacheTTL = cfg.Cache.TTL()
			deps.CachePerSubject = cfg.Upstream.AuthMode != config.UpstreamAuthNone
		}
	}

	services, err := service.New(deps)
	if err != nil {
		logger.Fatal("failed to init services", zap.Error(err))
	}
	worker.StartAuditWorker(services.Audit)

	sameSite, err := cfg.Auth.SameSite()
	if err != nil {
		logger.Fatal("invalid cookie settings", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readiness),
		Auth: handlers.NewAuthHandler(services.Auth, handlers.CookieSettings{
			Name:     cfg.Auth.CookieName,
			Secure:   cfg.Auth.CookieSecure,
			SameSite: sameSite,
		}),
		Products: handlers.NewProductsHandler(services.Catalog),
		Gate:     auth.NewGate(tokens, cfg.Auth.CookieName, logger, metrics),
		Metrics:  metrics.Handler(),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("upstream", cfg.Upstream.BaseURL))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func loadCredentials(ctx context.Context, cfg config.CredentialsConfig, pg *persistence.Postgres) ([]repository.CredentialRecord, error) {
	if pg != nil {
		return repository.LoadCredentialsPostgres(ctx, pg.DB)
	}
	return repository.LoadCredentialsFile(cfg.File)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
