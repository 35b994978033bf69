package domain

import "strconv"

// Bounds represents a normalized geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// String renders "minLat,minLon,maxLat,maxLon", the Overpass bbox filter order.
func (b Bounds) String() string {
	return formatCoord(b.MinLat) + "," + formatCoord(b.MinLon) + "," +
		formatCoord(b.MaxLat) + "," + formatCoord(b.MaxLon)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
