package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/citypages/directory-api/internal/dto"
	"github.com/citypages/directory-api/internal/models"
	appErrors "github.com/citypages/directory-api/pkg/errors"
)

const (
	listingCachePrefix = "directory:listings:"
	facetCachePrefix   = "directory:facets:"
)

type directoryBusinessReader interface {
	GetByPlaceID(ctx context.Context, placeID string) (*models.Business, error)
	List(ctx context.Context, filter models.BusinessFilter) ([]models.Business, int, error)
	Categories(ctx context.Context) ([]models.CategoryCount, error)
	Cities(ctx context.Context) ([]models.CityCount, error)
}

// DirectoryCache is the cache surface the read side needs. A nil value
// disables caching.
type DirectoryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// DirectoryService serves the public read side of the directory: listing
// search, detail pages, and the category/city facets. Reads go through a
// cache-aside layer; every admin write invalidates it.
type DirectoryService struct {
	repo            directoryBusinessReader
	cache           DirectoryCache
	cacheTTL        time.Duration
	defaultPageSize int
	logger          *zap.Logger
}

// NewDirectoryService constructs the service. A nil cache disables caching
// entirely.
func NewDirectoryService(repo directoryBusinessReader, cache DirectoryCache, cacheTTL time.Duration, defaultPageSize int, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	return &DirectoryService{
		repo:            repo,
		cache:           cache,
		cacheTTL:        cacheTTL,
		defaultPageSize: defaultPageSize,
		logger:          logger,
	}
}

// List returns one page of active listings matching the query.
func (s *DirectoryService) List(ctx context.Context, query dto.BusinessListQuery) (*dto.BusinessListResponse, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 || query.PageSize > 100 {
		query.PageSize = s.defaultPageSize
	}

	key := listingKey(query)
	if s.cache != nil {
		var cached dto.BusinessListResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	status := models.BusinessStatusActive
	listings, total, err := s.repo.List(ctx, models.BusinessFilter{
		Category: query.Category,
		City:     query.City,
		Search:   query.Search,
		Featured: query.Featured,
		Status:   &status,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list businesses")
	}

	response := &dto.BusinessListResponse{
		Businesses: listings,
		Pagination: &models.Pagination{
			Page:       query.Page,
			PageSize:   query.PageSize,
			TotalCount: total,
		},
	}
	s.store(ctx, key, response)
	return response, nil
}

// Get returns one listing for its public detail page.
func (s *DirectoryService) Get(ctx context.Context, placeID string) (*models.Business, error) {
	key := listingCachePrefix + "detail:" + placeID
	if s.cache != nil {
		var cached models.Business
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	business, err := s.repo.GetByPlaceID(ctx, placeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "business not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load business")
	}

	s.store(ctx, key, business)
	return business, nil
}

// Categories returns the category facet with listing counts.
func (s *DirectoryService) Categories(ctx context.Context) ([]models.CategoryCount, error) {
	key := facetCachePrefix + "categories"
	if s.cache != nil {
		var cached []models.CategoryCount
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	s.store(ctx, key, categories)
	return categories, nil
}

// Cities returns the city facet with listing counts.
func (s *DirectoryService) Cities(ctx context.Context) ([]models.CityCount, error) {
	key := facetCachePrefix + "cities"
	if s.cache != nil {
		var cached []models.CityCount
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	cities, err := s.repo.Cities(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list cities")
	}
	s.store(ctx, key, cities)
	return cities, nil
}

// InvalidateListings drops every cached directory payload. Called after any
// write that can change what the public side serves. Invalidation failures
// only shorten cache accuracy, so they are logged and swallowed.
func (s *DirectoryService) InvalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	for _, pattern := range []string{listingCachePrefix + "*", facetCachePrefix + "*"} {
		if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
			s.logger.Warn("failed to invalidate directory cache", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}

func (s *DirectoryService) store(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache directory payload", zap.String("key", key), zap.Error(err))
	}
}

func listingKey(query dto.BusinessListQuery) string {
	featured := "any"
	if query.Featured != nil {
		featured = fmt.Sprintf("%t", *query.Featured)
	}
	return fmt.Sprintf("%slist:%s:%s:%s:%s:%d:%d",
		listingCachePrefix, query.Category, query.City, query.Search, featured, query.Page, query.PageSize)
}
