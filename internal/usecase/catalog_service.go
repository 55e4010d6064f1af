package usecase

import (
	"context"
	"time"

	"github.com/lobsterleague/fpl-companion/internal/domain/catalog"
	"github.com/lobsterleague/fpl-companion/internal/platform/cache"
	"github.com/lobsterleague/fpl-companion/internal/platform/logging"
)

const catalogCacheKey = "bootstrap"

// CatalogService serves the bootstrap reference catalog. The catalog is the
// only cached resource; everything else is fetched fresh per request.
type CatalogService struct {
	provider UpstreamProvider
	store    *cache.Store[*catalog.Catalog]
	logger   *logging.Logger
}

func NewCatalogService(provider UpstreamProvider, ttl time.Duration, logger *logging.Logger) *CatalogService {
	if logger == nil {
		logger = logging.Default()
	}
	var store *cache.Store[*catalog.Catalog]
	if ttl > 0 {
		store = cache.NewStore[*catalog.Catalog](ttl)
	}
	return &CatalogService{
		provider: provider,
		store:    store,
		logger:   logger,
	}
}

func (s *CatalogService) Get(ctx context.Context) (*catalog.Catalog, error) {
	if s.store == nil {
		return s.provider.FetchCatalog(ctx)
	}
	return s.store.GetOrLoad(ctx, catalogCacheKey, func(ctx context.Context) (*catalog.Catalog, error) {
		c, err := s.provider.FetchCatalog(ctx)
		if err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "bootstrap catalog refreshed",
			"events", len(c.Events),
			"teams", len(c.Teams),
			"elements", len(c.Elements),
		)
		return c, nil
	})
}

// CurrentGameweek resolves the active gameweek from the cached catalog.
func (s *CatalogService) CurrentGameweek(ctx context.Context) (int, error) {
	c, err := s.Get(ctx)
	if err != nil {
		return 0, err
	}
	return c.CurrentGameweek(), nil
}
