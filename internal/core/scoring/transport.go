package scoring

import (
	"github.com/samirrijal/urbanscope/internal/core/domain"
	"github.com/samirrijal/urbanscope/internal/core/features"
	"github.com/samirrijal/urbanscope/internal/pkg/geospatial"
)

// Transport rounds the road total to 0.1 km. Density uses the unrounded
// total and is 0 for a non-positive area.
func Transport(areaKm2, roadKm float64, transitStops int) domain.TransportMetrics {
	density := 0.0
	if areaKm2 > 0 {
		density = geospatial.Round(roadKm/areaKm2, 2)
	}
	return domain.TransportMetrics{
		RoadKmTotal:         geospatial.Round(roadKm, 1),
		RoadDensityKmPerKm2: density,
		TransitStops:        transitStops,
	}
}

// Derive assembles the full report for a region of the given area.
func Derive(areaKm2 float64, agg features.Aggregation) domain.RegionReport {
	return domain.RegionReport{
		Area:           areaKm2,
		Amenities:      agg.Amenities,
		PopulationData: EstimatePopulation(areaKm2),
		InfraScore:     InfraScore(areaKm2, agg.Amenities),
		Transport:      Transport(areaKm2, agg.RoadKm, agg.TransitStops),
	}
}
