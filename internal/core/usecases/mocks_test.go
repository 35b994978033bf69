package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/samirrijal/urbanscope/internal/core/domain"
)

// --- Mock SpatialDataSource ---

type mockSource struct {
	fetchFn func(ctx context.Context, query string) ([]domain.FeatureRecord, error)
	queries []string
}

func (m *mockSource) FetchFeatures(ctx context.Context, query string) ([]domain.FeatureRecord, error) {
	m.queries = append(m.queries, query)
	if m.fetchFn != nil {
		return m.fetchFn(ctx, query)
	}
	return nil, nil
}

// --- Mock Geocoder ---

type mockGeocoder struct {
	searchFn func(ctx context.Context, text string, limit int) ([]domain.Place, error)
	calls    int
}

func (m *mockGeocoder) Search(ctx context.Context, text string, limit int) ([]domain.Place, error) {
	m.calls++
	if m.searchFn != nil {
		return m.searchFn(ctx, text, limit)
	}
	return nil, nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishRegionAnalyzed(ctx context.Context, event *domain.RegionAnalyzed) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// --- In-memory CacheService ---

var errCacheMiss = errors.New("cache miss")

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]int{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ttls[key] = ttlSeconds
	return nil
}

