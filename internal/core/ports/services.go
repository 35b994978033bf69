package ports

import (
	"context"

	"github.com/samirrijal/urbanscope/internal/core/domain"
)

// SpatialDataSource runs a spatial query against a map-data service and
// returns the matched elements.
type SpatialDataSource interface {
	FetchFeatures(ctx context.Context, query string) ([]domain.FeatureRecord, error)
}

// Geocoder resolves free text to candidate places.
type Geocoder interface {
	Search(ctx context.Context, text string, limit int) ([]domain.Place, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishRegionAnalyzed(ctx context.Context, event *domain.RegionAnalyzed) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
}
