package usecases

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/samirrijal/urbanscope/internal/core/domain"
	"github.com/samirrijal/urbanscope/internal/core/ports"
	"github.com/samirrijal/urbanscope/internal/pkg/logging"
	"github.com/samirrijal/urbanscope/internal/pkg/metrics"
)

const (
	// PlaceResultLimit is the number of candidates requested per lookup.
	PlaceResultLimit = 5

	placeCacheTTL = 300
)

// PlaceService resolves free-text place names.
type PlaceService struct {
	geocoder ports.Geocoder
	cache    ports.CacheService
}

// NewPlaceService creates a new PlaceService. cache may be nil.
func NewPlaceService(geocoder ports.Geocoder, cache ports.CacheService) *PlaceService {
	return &PlaceService{geocoder: geocoder, cache: cache}
}

// Search returns up to PlaceResultLimit candidates for text. Blank input
// yields an empty list without calling the geocoder.
func (s *PlaceService) Search(ctx context.Context, text string) ([]domain.Place, error) {
	if strings.TrimSpace(text) == "" {
		return []domain.Place{}, nil
	}

	// Try cache
	cacheKey := "places:search:" + strings.ToLower(strings.TrimSpace(text))
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var places []domain.Place
			if err := json.Unmarshal(data, &places); err == nil {
				metrics.CacheHits.WithLabelValues("places_search").Inc()
				return places, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("places_search").Inc()
	}

	places, err := s.geocoder.Search(ctx, text, PlaceResultLimit)
	if err != nil {
		logging.FromContext(ctx).Warn("place lookup failed", "query", text, "error", err)
		return nil, err
	}
	if places == nil {
		places = []domain.Place{}
	}

	// Cache for 5 minutes
	if s.cache != nil {
		if data, err := json.Marshal(places); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, placeCacheTTL)
		}
	}

	return places, nil
}
