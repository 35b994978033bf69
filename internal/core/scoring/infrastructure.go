package scoring

import (
	"math"

	"github.com/samirrijal/urbanscope/internal/core/domain"
	"github.com/samirrijal/urbanscope/internal/core/features"
)

// areaUnitKm2 is the area the per-category targets are expressed against.
const areaUnitKm2 = 10.0

// Target is the ideal number of facilities of one category per 10 km².
type Target struct {
	Category features.Category
	PerUnit  float64
	count    func(domain.AmenityCounts) int
}

// Targets lists the categories that make up the infrastructure score.
// Parks are counted but not scored.
var Targets = []Target{
	{Category: features.Healthcare, PerUnit: 2, count: func(c domain.AmenityCounts) int { return c.Hospitals }},
	{Category: features.Police, PerUnit: 1, count: func(c domain.AmenityCounts) int { return c.Police }},
	{Category: features.Fire, PerUnit: 1, count: func(c domain.AmenityCounts) int { return c.FireStations }},
	{Category: features.Schools, PerUnit: 5, count: func(c domain.AmenityCounts) int { return c.Schools }},
}

// InfraScore averages the per-category coverage ratios, each capped at 100,
// and rounds the result into [0, 100]. A non-positive area scores 0.
func InfraScore(areaKm2 float64, counts domain.AmenityCounts) int {
	normalized := 0.0
	if areaKm2 > 0 {
		normalized = areaKm2 / areaUnitKm2
	}

	var sum float64
	if normalized > 0 {
		for _, t := range Targets {
			sum += math.Min(100, float64(t.count(counts))/(t.PerUnit*normalized)*100)
		}
	}
	avg := sum / float64(len(Targets))

	score := math.Round(avg)
	switch {
	case score < 0:
		score = 0
	case score > 100:
		score = 100
	}
	return int(score)
}
