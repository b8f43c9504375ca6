package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citypages/directory-api/internal/dto"
	"github.com/citypages/directory-api/internal/models"
	appErrors "github.com/citypages/directory-api/pkg/errors"
)

type mockDirectoryRepo struct {
	businesses map[string]*models.Business
	listCalls  int
	lastFilter models.BusinessFilter
}

func (m *mockDirectoryRepo) GetByPlaceID(ctx context.Context, placeID string) (*models.Business, error) {
	return (&stubBusinessReader{businesses: m.businesses}).GetByPlaceID(ctx, placeID)
}

func (m *mockDirectoryRepo) List(_ context.Context, filter models.BusinessFilter) ([]models.Business, int, error) {
	m.listCalls++
	m.lastFilter = filter
	var out []models.Business
	for _, business := range m.businesses {
		out = append(out, *business)
	}
	return out, len(out), nil
}

func (m *mockDirectoryRepo) Categories(_ context.Context) ([]models.CategoryCount, error) {
	return []models.CategoryCount{{Category: "cafe", Count: 2}}, nil
}

func (m *mockDirectoryRepo) Cities(_ context.Context) ([]models.CityCount, error) {
	return []models.CityCount{{City: "Porto", Count: 2}}, nil
}

type memoryCache struct {
	store          map[string][]byte
	deletePatterns []string
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	payload, ok := c.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.store[key] = payload
	return nil
}

func (c *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.deletePatterns = append(c.deletePatterns, pattern)
	return nil
}

func TestDirectoryServiceListForcesActiveStatus(t *testing.T) {
	repo := &mockDirectoryRepo{businesses: map[string]*models.Business{
		"place-1": {PlaceID: "place-1", Title: "Corner Cafe", Status: models.BusinessStatusActive},
	}}
	svc := NewDirectoryService(repo, nil, time.Minute, 20, nil)

	result, err := svc.List(context.Background(), dto.BusinessListQuery{Category: "cafe"})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, models.BusinessStatusActive, *repo.lastFilter.Status)
	assert.Equal(t, 1, result.Pagination.Page)
	assert.Equal(t, 20, result.Pagination.PageSize)
	assert.Equal(t, 1, result.Pagination.TotalCount)
}

func TestDirectoryServiceListClampsOversizedPage(t *testing.T) {
	repo := &mockDirectoryRepo{businesses: map[string]*models.Business{}}
	svc := NewDirectoryService(repo, nil, time.Minute, 20, nil)

	_, err := svc.List(context.Background(), dto.BusinessListQuery{Page: -3, PageSize: 5000})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lastFilter.Page)
	assert.Equal(t, 20, repo.lastFilter.PageSize)
}

func TestDirectoryServiceListCacheHitSkipsRepo(t *testing.T) {
	repo := &mockDirectoryRepo{businesses: map[string]*models.Business{
		"place-1": {PlaceID: "place-1", Title: "Corner Cafe"},
	}}
	cache := &memoryCache{}
	svc := NewDirectoryService(repo, cache, time.Minute, 20, nil)

	first, err := svc.List(context.Background(), dto.BusinessListQuery{City: "Porto"})
	require.NoError(t, err)
	second, err := svc.List(context.Background(), dto.BusinessListQuery{City: "Porto"})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, first.Pagination.TotalCount, second.Pagination.TotalCount)
}

func TestDirectoryServiceGetUnknownListing(t *testing.T) {
	svc := NewDirectoryService(&mockDirectoryRepo{}, nil, time.Minute, 20, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestDirectoryServiceFacetsCached(t *testing.T) {
	repo := &mockDirectoryRepo{}
	cache := &memoryCache{}
	svc := NewDirectoryService(repo, cache, time.Minute, 20, nil)

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Contains(t, cache.store, "directory:facets:categories")

	cities, err := svc.Cities(context.Background())
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Contains(t, cache.store, "directory:facets:cities")
}

func TestDirectoryServiceInvalidateDropsBothPatterns(t *testing.T) {
	cache := &memoryCache{}
	svc := NewDirectoryService(&mockDirectoryRepo{}, cache, time.Minute, 20, nil)

	svc.InvalidateListings(context.Background())
	assert.Equal(t, []string{"directory:listings:*", "directory:facets:*"}, cache.deletePatterns)
}
