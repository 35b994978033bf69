// Package scoring derives the reported region metrics from the area and the
// aggregated feature counts.
package scoring

import (
	"math"

	"github.com/samirrijal/urbanscope/internal/core/domain"
)

const (
	// PeoplePerKm2 is the flat density assumed for every region.
	PeoplePerKm2 = 2500.0
	// GrowthRatePercent is the assumed annual population growth.
	GrowthRatePercent = 2.5
)

// EstimatePopulation applies the flat density model to an area in km².
func EstimatePopulation(areaKm2 float64) domain.PopulationEstimate {
	current := int64(math.Round(areaKm2 * PeoplePerKm2))
	return domain.PopulationEstimate{
		Current:         current,
		GrowthRate:      GrowthRatePercent,
		Projected5Year:  project(current, 5),
		Projected10Year: project(current, 10),
	}
}

func project(current int64, years int) int64 {
	factor := math.Pow(1+GrowthRatePercent/100, float64(years))
	return int64(math.Round(float64(current) * factor))
}
