package usecases

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/samirrijal/urbanscope/internal/core/domain"
	"github.com/samirrijal/urbanscope/internal/core/features"
	"github.com/samirrijal/urbanscope/internal/core/ports"
	"github.com/samirrijal/urbanscope/internal/core/scoring"
	"github.com/samirrijal/urbanscope/internal/pkg/geospatial"
	"github.com/samirrijal/urbanscope/internal/pkg/logging"
	"github.com/samirrijal/urbanscope/internal/pkg/metrics"
)

// MaxRadiusKm bounds AnalyzeAround.
const MaxRadiusKm = 25.0

// RegionService analyzes bounding boxes against a spatial data source.
type RegionService struct {
	source       ports.SpatialDataSource
	publisher    ports.EventPublisher
	queryTimeout int
	now          func() time.Time
}

// NewRegionService creates a new RegionService. publisher may be nil.
// queryTimeoutSeconds <= 0 uses features.DefaultTimeoutSeconds.
func NewRegionService(source ports.SpatialDataSource, publisher ports.EventPublisher, queryTimeoutSeconds int) *RegionService {
	return &RegionService{
		source:       source,
		publisher:    publisher,
		queryTimeout: queryTimeoutSeconds,
		now:          time.Now,
	}
}

// Query returns the spatial query Analyze would send for corners.
func (s *RegionService) Query(corners [][]float64) (string, error) {
	b, err := geospatial.NormalizeBounds(corners)
	if err != nil {
		return "", err
	}
	return features.BuildQuery(b, s.queryTimeout), nil
}

// Analyze fetches every mapped feature inside the box spanned by two
// [lat, lng] corners and derives the region report from them.
func (s *RegionService) Analyze(ctx context.Context, corners [][]float64) (*domain.RegionReport, error) {
	b, err := geospatial.NormalizeBounds(corners)
	if err != nil {
		metrics.RegionsAnalyzed.WithLabelValues(domain.ErrorKind(err)).Inc()
		return nil, err
	}
	return s.AnalyzeBounds(ctx, b)
}

// AnalyzeAround analyzes the square box of half-width radiusKm centred on a point.
func (s *RegionService) AnalyzeAround(ctx context.Context, lat, lon, radiusKm float64) (*domain.RegionReport, error) {
	var err error
	switch {
	case !geospatial.Finite(lat, lon, radiusKm):
		err = fmt.Errorf("%w: lat, lon and radius must be finite numbers", domain.ErrInvalidBounds)
	case math.Abs(lat) >= 90:
		err = fmt.Errorf("%w: lat must be in (-90, 90), got %g", domain.ErrInvalidBounds, lat)
	case radiusKm <= 0 || radiusKm > MaxRadiusKm:
		err = fmt.Errorf("%w: radius must be in (0, %g] km, got %g", domain.ErrInvalidBounds, MaxRadiusKm, radiusKm)
	}
	if err != nil {
		metrics.RegionsAnalyzed.WithLabelValues(domain.ErrorKind(err)).Inc()
		return nil, err
	}
	return s.AnalyzeBounds(ctx, geospatial.BoundingBox(lat, lon, radiusKm))
}

// AnalyzeBounds analyzes an already normalized box.
func (s *RegionService) AnalyzeBounds(ctx context.Context, b domain.Bounds) (*domain.RegionReport, error) {
	log := logging.FromContext(ctx).With("bounds", b.String())
	start := s.now()

	elements, err := s.source.FetchFeatures(ctx, features.BuildQuery(b, s.queryTimeout))
	if err != nil {
		metrics.RegionsAnalyzed.WithLabelValues(domain.ErrorKind(err)).Inc()
		log.Warn("region analysis failed", "error", err)
		return nil, err
	}

	area := geospatial.BoundsAreaKm2(b)
	report := scoring.Derive(area, features.Aggregate(elements))

	metrics.RegionsAnalyzed.WithLabelValues("ok").Inc()
	metrics.RegionAnalysisDuration.Observe(s.now().Sub(start).Seconds())
	metrics.RegionAreaKm2.Observe(area)
	log.Info("region analyzed",
		"area_km2", area,
		"elements", len(elements),
		"infra_score", report.InfraScore,
	)

	s.publish(ctx, b, report)
	return &report, nil
}

// publish is best effort: a broker failure never fails the analysis.
func (s *RegionService) publish(ctx context.Context, b domain.Bounds, report domain.RegionReport) {
	if s.publisher == nil {
		return
	}
	event := &domain.RegionAnalyzed{Bounds: b, Report: report, AnalyzedAt: s.now().UTC()}
	if err := s.publisher.PublishRegionAnalyzed(ctx, event); err != nil {
		logging.FromContext(ctx).Warn("publish region analyzed", "error", err)
	}
}
