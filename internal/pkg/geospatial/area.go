package geospatial

import (
	"fmt"
	"math"

	"github.com/samirrijal/urbanscope/internal/core/domain"
)

// kmPerDegree is the length of one degree of latitude (and of longitude at the equator).
const kmPerDegree = 111.32

// NormalizeBounds turns two [lat, lng] corners into a min/max box.
// Coordinates must be finite; their ranges are not checked.
func NormalizeBounds(corners [][]float64) (domain.Bounds, error) {
	if len(corners) != 2 {
		return domain.Bounds{}, fmt.Errorf("%w: expected 2 corners, got %d", domain.ErrInvalidBounds, len(corners))
	}
	for i, c := range corners {
		if len(c) != 2 {
			return domain.Bounds{}, fmt.Errorf("%w: corner %d has %d coordinates, expected 2", domain.ErrInvalidBounds, i, len(c))
		}
		if !Finite(c...) {
			return domain.Bounds{}, fmt.Errorf("%w: corner %d is not a finite coordinate", domain.ErrInvalidBounds, i)
		}
	}

	lat1, lng1 := corners[0][0], corners[0][1]
	lat2, lng2 := corners[1][0], corners[1][1]

	return domain.Bounds{
		MinLat: math.Min(lat1, lat2),
		MinLon: math.Min(lng1, lng2),
		MaxLat: math.Max(lat1, lat2),
		MaxLon: math.Max(lng1, lng2),
	}, nil
}

// ApproximateAreaKm2 treats the box as a flat rectangle: the latitude span at
// 111.32 km/degree times the longitude span scaled by cos(mean latitude).
// Rounded to 2 decimals.
func ApproximateAreaKm2(lat1, lng1, lat2, lng2 float64) float64 {
	meanLatRad := toRad((lat1 + lat2) / 2)

	kmPerDegLat := kmPerDegree
	kmPerDegLng := kmPerDegree * math.Cos(meanLatRad)

	latDiff := math.Abs(lat1 - lat2)
	lngDiff := math.Abs(lng1 - lng2)

	return Round((latDiff*kmPerDegLat)*(lngDiff*kmPerDegLng), 2)
}

// BoundsAreaKm2 is ApproximateAreaKm2 for a normalized box.
func BoundsAreaKm2(b domain.Bounds) float64 {
	return ApproximateAreaKm2(b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)
}

// Round rounds half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
