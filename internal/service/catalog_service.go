package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/catalog-gateway/internal/catalog"
	"github.com/spec-kit/catalog-gateway/internal/domain"
)

// ProductFetcher retrieves raw product records from the upstream catalog.
type ProductFetcher interface {
	FetchProducts(ctx context.Context, q domain.ProductQuery, subjectID int64) ([]catalog.Record, error)
}

// ProductCache stores serialized product lists.
type ProductCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CatalogRecorder counts upstream calls and cache lookups.
type CatalogRecorder interface {
	RecordUpstream(result string)
	RecordCacheLookup(result string)
}

// CatalogService proxies and reshapes the upstream catalog.
type CatalogService struct {
	fetcher    ProductFetcher
	cache      ProductCache
	cacheTTL   time.Duration
	perSubject bool
	recorder   CatalogRecorder
	logger     *zap.Logger
}

// CatalogDependencies encapsulates collaborators of the catalog service.
// Cache and Recorder are optional. CachePerSubject must be set when the
// upstream sees the caller's subject, since its answer may then differ per subject.
type CatalogDependencies struct {
	Fetcher         ProductFetcher
	Cache           ProductCache
	CacheTTL        time.Duration
	CachePerSubject bool
	Recorder        CatalogRecorder
	Logger          *zap.Logger
}

// NewCatalogService builds the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		fetcher:    deps.Fetcher,
		cache:      deps.Cache,
		cacheTTL:   deps.CacheTTL,
		perSubject: deps.CachePerSubject,
		recorder:   deps.Recorder,
		logger:     logger,
	}
}

// ListProducts returns the public projection of the upstream product list.
// Failures are returned as *catalog.ProxyError.
func (s *CatalogService) ListProducts(ctx context.Context, authCtx domain.AuthContext, q domain.ProductQuery) ([]domain.Product, error) {
	var scope int64
	if s.perSubject {
		scope = authCtx.SubjectID
	}
	key := cacheKey(q, scope)
	if products, ok := s.cached(ctx, key); ok {
		return products, nil
	}

	records, err := s.fetcher.FetchProducts(ctx, q, authCtx.SubjectID)
	if err != nil {
		s.recordUpstream(err)
		return nil, err
	}
	s.recordUpstream(nil)

	products := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, domain.Product{
			ID:          rec.ID,
			Title:       rec.Title,
			Price:       rec.Price,
			Description: rec.Description,
		})
	}

	s.store(ctx, key, products)
	return products, nil
}

func (s *CatalogService) cacheEnabled() bool {
	return s.cache != nil && s.cacheTTL > 0
}

func (s *CatalogService) cached(ctx context.Context, key string) ([]domain.Product, bool) {
	if !s.cacheEnabled() {
		return nil, false
	}
	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.recordCache("error")
		s.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !found {
		s.recordCache("miss")
		return nil, false
	}
	products := []domain.Product{}
	if err := json.Unmarshal(raw, &products); err != nil {
		s.recordCache("error")
		s.logger.Warn("catalog cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	s.recordCache("hit")
	return products, true
}

func (s *CatalogService) store(ctx context.Context, key string, products []domain.Product) {
	if !s.cacheEnabled() {
		return
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *CatalogService) recordUpstream(err error) {
	if s.recorder == nil {
		return
	}
	result := "ok"
	var perr *catalog.ProxyError
	switch {
	case err == nil:
	case errors.As(err, &perr) && perr.Kind == catalog.Unreachable:
		result = "unreachable"
	case errors.As(err, &perr):
		result = "upstream_error"
	default:
		result = "error"
	}
	s.recorder.RecordUpstream(result)
}

func (s *CatalogService) recordCache(result string) {
	if s.recorder != nil {
		s.recorder.RecordCacheLookup(result)
	}
}

// cacheKey scopes entries to subject when it is non-zero.
func cacheKey(q domain.ProductQuery, subject int64) string {
	part := func(v *int) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprint(*v)
	}
	if subject != 0 {
		return fmt.Sprintf("catalog:subject:%d:products:%s:%s", subject, part(q.Limit), part(q.Skip))
	}
	return "catalog:products:" + part(q.Limit) + ":" + part(q.Skip)
}
