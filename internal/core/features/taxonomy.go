// Package features holds the category table the region analysis is built on:
// it renders the Overpass query for a bounding box and folds the returned
// elements into counts and road length.
package features

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samirrijal/urbanscope/internal/core/domain"
	"github.com/samirrijal/urbanscope/internal/pkg/geospatial"
)

// Category identifies a class of mapped feature.
type Category string

const (
	Healthcare   Category = "healthcare"
	Police       Category = "police"
	Fire         Category = "fire"
	Schools      Category = "schools"
	Parks        Category = "parks"
	Roads        Category = "roads"
	TransitStops Category = "transit_stops"
)

// Kind is an OSM element kind.
type Kind string

const (
	Node     Kind = "node"
	Way      Kind = "way"
	Relation Kind = "relation"
)

// TagMatch selects features carrying Key, restricted to Values when non-empty.
type TagMatch struct {
	Key    string
	Values []string
}

// Matches reports whether tags satisfy the match.
func (m TagMatch) Matches(tags map[string]string) bool {
	v, ok := tags[m.Key]
	if !ok {
		return false
	}
	return len(m.Values) == 0 || slices.Contains(m.Values, v)
}

// filter renders the Overpass tag filter, e.g. ["amenity"~"clinic|doctors"].
func (m TagMatch) filter() string {
	switch len(m.Values) {
	case 0:
		return fmt.Sprintf(`["%s"]`, m.Key)
	case 1:
		return fmt.Sprintf(`["%s"="%s"]`, m.Key, m.Values[0])
	default:
		return fmt.Sprintf(`["%s"~"%s"]`, m.Key, strings.Join(m.Values, "|"))
	}
}

// Rule binds a category to its tag matches, the element kinds queried for it,
// and what a matching element contributes to an Aggregation.
type Rule struct {
	Category Category
	Match    []TagMatch // a feature belongs to the category if any match holds
	Kinds    []Kind
	apply    func(agg *Aggregation, f domain.FeatureRecord)
}

// Matches reports whether a feature with these tags belongs to the category.
func (r Rule) Matches(tags map[string]string) bool {
	for _, m := range r.Match {
		if m.Matches(tags) {
			return true
		}
	}
	return false
}

var allKinds = []Kind{Node, Way, Relation}

// Taxonomy lists every category fetched for a region, in query order.
var Taxonomy = []Rule{
	{
		Category: Healthcare,
		Match:    []TagMatch{{Key: "amenity", Values: []string{"hospital", "clinic", "doctors", "pharmacy"}}},
		Kinds:    allKinds,
		apply:    func(agg *Aggregation, _ domain.FeatureRecord) { agg.Amenities.Hospitals++ },
	},
	{
		Category: Police,
		Match:    []TagMatch{{Key: "amenity", Values: []string{"police"}}},
		Kinds:    allKinds,
		apply:    func(agg *Aggregation, _ domain.FeatureRecord) { agg.Amenities.Police++ },
	},
	{
		Category: Fire,
		Match:    []TagMatch{{Key: "amenity", Values: []string{"fire_station"}}},
		Kinds:    allKinds,
		apply:    func(agg *Aggregation, _ domain.FeatureRecord) { agg.Amenities.FireStations++ },
	},
	{
		Category: Schools,
		Match:    []TagMatch{{Key: "amenity", Values: []string{"school"}}},
		Kinds:    allKinds,
		apply:    func(agg *Aggregation, _ domain.FeatureRecord) { agg.Amenities.Schools++ },
	},
	{
		Category: Parks,
		Match:    []TagMatch{{Key: "leisure", Values: []string{"park"}}},
		Kinds:    allKinds,
		apply:    func(agg *Aggregation, _ domain.FeatureRecord) { agg.Amenities.Parks++ },
	},
	{
		Category: Roads,
		Match:    []TagMatch{{Key: "highway"}},
		Kinds:    []Kind{Way},
		apply: func(agg *Aggregation, f domain.FeatureRecord) {
			if len(f.Geometry) >= 2 {
				agg.RoadKm += geospatial.PolylineLengthKm(f.Geometry)
			}
		},
	},
	{
		Category: TransitStops,
		Match: []TagMatch{
			{Key: "highway", Values: []string{"bus_stop"}},
			{Key: "railway", Values: []string{"station", "halt", "stop"}},
			{Key: "public_transport", Values: []string{"stop_position", "platform"}},
		},
		Kinds: []Kind{Node, Way},
		apply: func(agg *Aggregation, _ domain.FeatureRecord) { agg.TransitStops++ },
	},
}
