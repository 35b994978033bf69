package usecases_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/urbanscope/internal/core/domain"
	"github.com/samirrijal/urbanscope/internal/core/usecases"
)

var equatorBox = [][]float64{{0, 0}, {0.1, 0.1}}

func sampleElements() []domain.FeatureRecord {
	return []domain.FeatureRecord{
		{Type: "node", ID: 1, Tags: map[string]string{"amenity": "hospital"}},
		{Type: "node", ID: 2, Tags: map[string]string{"amenity": "school"}},
		{Type: "node", ID: 3, Tags: map[string]string{"highway": "bus_stop"}},
		{Type: "way", ID: 4, Tags: map[string]string{"highway": "residential"},
			Geometry: orb.LineString{{0.01, 0.01}, {0.02, 0.01}}},
		{Type: "node", ID: 5},
	}
}

func TestRegionService_Analyze(t *testing.T) {
	source := &mockSource{
		fetchFn: func(ctx context.Context, query string) ([]domain.FeatureRecord, error) {
			return sampleElements(), nil
		},
	}
	pub := &mockPublisher{}
	pub.On("PublishRegionAnalyzed", mock.Anything, mock.MatchedBy(func(e *domain.RegionAnalyzed) bool {
		return e.Bounds.MaxLat == 0.1 && e.Report.Amenities.Hospitals == 1 && !e.AnalyzedAt.IsZero()
	})).Return(nil).Once()

	svc := usecases.NewRegionService(source, pub, 0)

	report, err := svc.Analyze(context.Background(), equatorBox)
	require.NoError(t, err)

	assert.InDelta(t, 123.92, report.Area, 0.011)
	assert.Equal(t, domain.AmenityCounts{Hospitals: 1, Schools: 1}, report.Amenities)
	assert.Equal(t, 1, report.Transport.TransitStops)
	assert.Equal(t, 1.1, report.Transport.RoadKmTotal)
	assert.Equal(t, 0.01, report.Transport.RoadDensityKmPerKm2)
	assert.Equal(t, int64(309800), report.PopulationData.Current)

	require.Len(t, source.queries, 1)
	assert.Contains(t, source.queries[0], `way["highway"](0,0,0.1,0.1);`)
	pub.AssertExpectations(t)
}

func TestRegionService_Analyze_SwappedCornersSameQuery(t *testing.T) {
	source := &mockSource{}
	svc := usecases.NewRegionService(source, nil, 0)

	_, err := svc.Analyze(context.Background(), [][]float64{{43.27, -2.92}, {43.25, -2.95}})
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), [][]float64{{43.25, -2.95}, {43.27, -2.92}})
	require.NoError(t, err)

	require.Len(t, source.queries, 2)
	assert.Equal(t, source.queries[0], source.queries[1])
	assert.Contains(t, source.queries[0], "(43.25,-2.95,43.27,-2.92)")
}

func TestRegionService_Analyze_InvalidBounds(t *testing.T) {
	source := &mockSource{}
	svc := usecases.NewRegionService(source, nil, 0)

	for _, corners := range [][][]float64{
		nil,
		{{1, 2}},
		{{1, 2}, {3}},
		{{1, 2}, {3, 4}, {5, 6}},
	} {
		_, err := svc.Analyze(context.Background(), corners)
		assert.ErrorIs(t, err, domain.ErrInvalidBounds)
	}
	assert.Empty(t, source.queries, "no upstream call for invalid bounds")
}

func TestRegionService_Analyze_UpstreamFailure(t *testing.T) {
	upstream := &domain.UpstreamError{Source: "Overpass", Kind: domain.ErrUpstreamStatus, StatusCode: 504}
	source := &mockSource{
		fetchFn: func(ctx context.Context, query string) ([]domain.FeatureRecord, error) {
			return nil, upstream
		},
	}
	pub := &mockPublisher{}
	svc := usecases.NewRegionService(source, pub, 0)

	report, err := svc.Analyze(context.Background(), equatorBox)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, domain.ErrUpstreamStatus)
	assert.EqualError(t, err, "Overpass non-OK status: 504")
	pub.AssertNotCalled(t, "PublishRegionAnalyzed", mock.Anything, mock.Anything)
}

func TestRegionService_Analyze_PublishFailureIgnored(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("PublishRegionAnalyzed", mock.Anything, mock.Anything).Return(errors.New("nats: connection closed"))

	svc := usecases.NewRegionService(&mockSource{}, pub, 0)

	report, err := svc.Analyze(context.Background(), equatorBox)
	require.NoError(t, err)
	assert.NotNil(t, report)
	pub.AssertNumberOfCalls(t, "PublishRegionAnalyzed", 1)
}

func TestRegionService_Analyze_EmptyRegion(t *testing.T) {
	svc := usecases.NewRegionService(&mockSource{}, nil, 0)

	report, err := svc.Analyze(context.Background(), equatorBox)
	require.NoError(t, err)
	assert.Equal(t, 0, report.InfraScore)
	assert.Equal(t, domain.AmenityCounts{}, report.Amenities)
	assert.Equal(t, domain.TransportMetrics{}, report.Transport)
}

func TestRegionService_AnalyzeAround(t *testing.T) {
	source := &mockSource{}
	svc := usecases.NewRegionService(source, nil, 0)

	report, err := svc.AnalyzeAround(context.Background(), 43.263, -2.935, 1)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, report.Area, 0.05)
	require.Len(t, source.queries, 1)
}

func TestRegionService_AnalyzeAround_RadiusRange(t *testing.T) {
	source := &mockSource{}
	svc := usecases.NewRegionService(source, nil, 0)

	for _, r := range []float64{0, -1, 25.5} {
		_, err := svc.AnalyzeAround(context.Background(), 43.263, -2.935, r)
		assert.ErrorIs(t, err, domain.ErrInvalidBounds, "radius %v", r)
	}
	assert.Empty(t, source.queries)

	_, err := svc.AnalyzeAround(context.Background(), 43.263, -2.935, usecases.MaxRadiusKm)
	assert.NoError(t, err)
}

func TestRegionService_AnalyzeAround_NonFiniteInput(t *testing.T) {
	source := &mockSource{}
	svc := usecases.NewRegionService(source, nil, 0)

	cases := [][3]float64{
		{43.26, -2.93, math.NaN()},
		{math.NaN(), -2.93, 1},
		{43.26, math.Inf(1), 1},
		{43.26, -2.93, math.Inf(1)},
	}
	for _, c := range cases {
		_, err := svc.AnalyzeAround(context.Background(), c[0], c[1], c[2])
		assert.ErrorIs(t, err, domain.ErrInvalidBounds, "input %v", c)
	}
	assert.Empty(t, source.queries)
}

func TestRegionService_AnalyzeAround_Poles(t *testing.T) {
	source := &mockSource{}
	svc := usecases.NewRegionService(source, nil, 0)

	for _, lat := range []float64{90, -90, 91} {
		_, err := svc.AnalyzeAround(context.Background(), lat, 0, 1)
		assert.ErrorIs(t, err, domain.ErrInvalidBounds, "lat %v", lat)
	}
	assert.Empty(t, source.queries)

	// Close to the pole the box is clipped at lat 90.
	report, err := svc.AnalyzeAround(context.Background(), 89.995, 0, 1)
	require.NoError(t, err)
	require.NotNil(t, report)
	require.Len(t, source.queries, 1)
	assert.Contains(t, source.queries[0], ",90,")
}

func TestRegionService_Query(t *testing.T) {
	svc := usecases.NewRegionService(&mockSource{}, nil, 45)

	q, err := svc.Query(equatorBox)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(q, "[out:json][timeout:45];"))
	assert.True(t, strings.HasSuffix(q, "out body geom;\n"))

	_, err = svc.Query([][]float64{{1, 2}})
	assert.ErrorIs(t, err, domain.ErrInvalidBounds)
}
