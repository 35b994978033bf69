package domain

import (
	"time"

	"github.com/paulmach/orb"
)

// FeatureRecord is one element returned by the spatial-data source.
// Tags and Geometry are both optional.
type FeatureRecord struct {
	Type     string            `json:"type,omitempty"`
	ID       int64             `json:"id,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`
	Geometry orb.LineString    `json:"geometry,omitempty"`
}

// AmenityCounts holds per-category amenity counters.
type AmenityCounts struct {
	Hospitals    int `json:"hospitals"`
	Police       int `json:"police"`
	FireStations int `json:"fireStations"`
	Schools      int `json:"schools"`
	Parks        int `json:"parks"`
}

// PopulationEstimate is derived from the region area alone.
type PopulationEstimate struct {
	Current         int64   `json:"current"`
	GrowthRate      float64 `json:"growthRate"` // percent per year
	Projected5Year  int64   `json:"projected5Year"`
	Projected10Year int64   `json:"projected10Year"`
}

// TransportMetrics summarizes road and transit coverage.
type TransportMetrics struct {
	RoadKmTotal         float64 `json:"roadKmTotal"`
	RoadDensityKmPerKm2 float64 `json:"roadDensityKmPerKm2"`
	TransitStops        int     `json:"transitStops"`
}

// RegionReport is the result of analyzing one bounding box.
type RegionReport struct {
	Area           float64            `json:"area"` // km², 2 decimals
	Amenities      AmenityCounts      `json:"amenities"`
	PopulationData PopulationEstimate `json:"populationData"`
	InfraScore     int                `json:"infraScore"` // 0..100
	Transport      TransportMetrics   `json:"transport"`
}

// Place is a single geocoding hit.
type Place struct {
	X     float64 `json:"x"` // longitude
	Y     float64 `json:"y"` // latitude
	Label string  `json:"label"`
}

// RegionAnalyzed is published after a successful analysis.
type RegionAnalyzed struct {
	Bounds     Bounds       `json:"bounds"`
	Report     RegionReport `json:"report"`
	AnalyzedAt time.Time    `json:"analyzed_at"`
}
