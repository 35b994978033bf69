package usecases_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/urbanscope/internal/core/domain"
	"github.com/samirrijal/urbanscope/internal/core/usecases"
)

func TestPlaceService_Search_BlankInput(t *testing.T) {
	geo := &mockGeocoder{}
	svc := usecases.NewPlaceService(geo, nil)

	for _, q := range []string{"", "   ", "\t\n"} {
		places, err := svc.Search(context.Background(), q)
		require.NoError(t, err)
		assert.NotNil(t, places)
		assert.Empty(t, places)
	}
	assert.Equal(t, 0, geo.calls, "geocoder must not be called for blank input")
}

func TestPlaceService_Search(t *testing.T) {
	var gotText string
	var gotLimit int
	geo := &mockGeocoder{
		searchFn: func(ctx context.Context, text string, limit int) ([]domain.Place, error) {
			gotText, gotLimit = text, limit
			return []domain.Place{{X: -2.935, Y: 43.263, Label: "Bilbao, Biscay, Spain"}}, nil
		},
	}
	svc := usecases.NewPlaceService(geo, nil)

	places, err := svc.Search(context.Background(), "Bilbao")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "Bilbao, Biscay, Spain", places[0].Label)
	assert.Equal(t, "Bilbao", gotText)
	assert.Equal(t, usecases.PlaceResultLimit, gotLimit)
}

func TestPlaceService_Search_NoMatches(t *testing.T) {
	svc := usecases.NewPlaceService(&mockGeocoder{}, nil)

	places, err := svc.Search(context.Background(), "zzzzqqq")
	require.NoError(t, err)
	assert.NotNil(t, places)
	assert.Empty(t, places)
}

func TestPlaceService_Search_Error(t *testing.T) {
	geo := &mockGeocoder{
		searchFn: func(ctx context.Context, text string, limit int) ([]domain.Place, error) {
			return nil, &domain.UpstreamError{Source: "Nominatim", Kind: domain.ErrUpstreamStatus, StatusCode: 429}
		},
	}
	cache := newMemCache()
	svc := usecases.NewPlaceService(geo, cache)

	_, err := svc.Search(context.Background(), "Bilbao")
	assert.ErrorIs(t, err, domain.ErrUpstreamStatus)
	assert.EqualError(t, err, "Nominatim non-OK status: 429")
	assert.Empty(t, cache.data, "failures are not cached")
}

func TestPlaceService_Search_Cached(t *testing.T) {
	geo := &mockGeocoder{
		searchFn: func(ctx context.Context, text string, limit int) ([]domain.Place, error) {
			return []domain.Place{{X: 1, Y: 2, Label: "Somewhere"}}, nil
		},
	}
	cache := newMemCache()
	svc := usecases.NewPlaceService(geo, cache)

	first, err := svc.Search(context.Background(), "Somewhere")
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), "  somewhere ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, geo.calls)
	assert.Equal(t, 300, cache.ttls["places:search:somewhere"])
}
