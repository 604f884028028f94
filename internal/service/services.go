package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/catalog-gateway/internal/auth"
	"github.com/spec-kit/catalog-gateway/internal/events"
	"github.com/spec-kit/catalog-gateway/internal/repository"
)

// Recorder is the union of counters the services report to.
type Recorder interface {
	AuthAttemptRecorder
	CatalogRecorder
}

// Dependencies lists everything the core needs at startup.
type Dependencies struct {
	Credentials     repository.CredentialRepository
	Tokens          *auth.TokenManager
	Fetcher         ProductFetcher
	Cache           ProductCache
	CacheTTL        time.Duration
	CachePerSubject bool
	BcryptCost      int
	Recorder        Recorder
	Logger          *zap.Logger
}

// Services is the handle returned to the HTTP surface.
type Services struct {
	Auth    *AuthService
	Catalog *CatalogService
	Audit   *AuditService
}

// New wires the services around a fresh in-memory event dispatcher.
func New(deps Dependencies) (*Services, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := events.NewInMemoryDispatcher()

	var authRecorder AuthAttemptRecorder
	var catalogRecorder CatalogRecorder
	if deps.Recorder != nil {
		authRecorder, catalogRecorder = deps.Recorder, deps.Recorder
	}

	authService, err := NewAuthService(AuthDependencies{
		Credentials: deps.Credentials,
		Tokens:      deps.Tokens,
		Dispatcher:  dispatcher,
		Logger:      logger,
		BcryptCost:  deps.BcryptCost,
	})
	if err != nil {
		return nil, err
	}

	return &Services{
		Auth: authService,
		Catalog: NewCatalogService(CatalogDependencies{
			Fetcher:         deps.Fetcher,
			Cache:           deps.Cache,
			CacheTTL:        deps.CacheTTL,
			CachePerSubject: deps.CachePerSubject,
			Recorder:        catalogRecorder,
			Logger:          logger,
		}),
		Audit: NewAuditService(dispatcher, logger, authRecorder),
	}, nil
}
