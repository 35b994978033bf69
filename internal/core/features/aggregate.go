package features

import "github.com/samirrijal/urbanscope/internal/core/domain"

// Aggregation is the typed summary of a feature list.
type Aggregation struct {
	Amenities    domain.AmenityCounts
	RoadKm       float64 // unrounded running total
	TransitStops int
}

// Aggregate folds features into counts and road length. Features without
// tags are skipped.
func Aggregate(features []domain.FeatureRecord) Aggregation {
	var agg Aggregation
	for _, f := range features {
		if f.Tags == nil {
			continue
		}
		for _, r := range Taxonomy {
			if r.Matches(f.Tags) {
				r.apply(&agg, f)
			}
		}
	}
	return agg
}
