package geospatial

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/samirrijal/urbanscope/internal/core/domain"
)

const earthRadiusKm = 6371.0

// GreatCircleKm returns the haversine distance in kilometers between two
// points (X = lon, Y = lat).
func GreatCircleKm(a, b orb.Point) float64 {
	lat1, lon1 := a.Lat(), a.Lon()
	lat2, lon2 := b.Lat(), b.Lon()

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*sinLon*sinLon

	return earthRadiusKm * 2 * math.Asin(math.Sqrt(h))
}

// PolylineLengthKm sums the great-circle length of every consecutive segment.
func PolylineLengthKm(ls orb.LineString) float64 {
	if len(ls) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(ls); i++ {
		total += GreatCircleKm(ls[i-1], ls[i])
	}
	return total
}

// BoundingBox returns a square box around a point with the given half-width
// in km, clipped to [-90, 90] x [-180, 180]. Callers reject |lat| >= 90,
// where the longitude span is unbounded.
func BoundingBox(lat, lon, radiusKm float64) domain.Bounds {
	latDelta := radiusKm / kmPerDegree
	lonDelta := radiusKm / (kmPerDegree * math.Cos(toRad(lat)))

	return domain.Bounds{
		MinLat: math.Max(lat-latDelta, -90),
		MinLon: math.Max(lon-lonDelta, -180),
		MaxLat: math.Min(lat+latDelta, 90),
		MaxLon: math.Min(lon+lonDelta, 180),
	}
}

// Finite reports whether every value is neither NaN nor infinite.
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func toRad(deg float64) float64 {
	return deg * (math.Pi / 180)
}
