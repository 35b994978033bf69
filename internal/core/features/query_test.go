package features

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samirrijal/urbanscope/internal/core/domain"
)

var bilbao = domain.Bounds{MinLat: 43.25, MinLon: -2.95, MaxLat: 43.27, MaxLon: -2.92}

func statements(q string) []string {
	var out []string
	for _, line := range strings.Split(q, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "node") || strings.HasPrefix(line, "way") || strings.HasPrefix(line, "relation") {
			out = append(out, line)
		}
	}
	return out
}

func TestBuildQuery_HeaderAndFooter(t *testing.T) {
	q := BuildQuery(bilbao, 0)
	assert.True(t, strings.HasPrefix(q, "[out:json][timeout:30];\n(\n"))
	assert.True(t, strings.HasSuffix(q, ");\nout body geom;\n"))
}

func TestBuildQuery_CustomTimeout(t *testing.T) {
	q := BuildQuery(bilbao, 90)
	assert.True(t, strings.HasPrefix(q, "[out:json][timeout:90];"))
}

func TestBuildQuery_Statements(t *testing.T) {
	bbox := "(43.25,-2.95,43.27,-2.92);"
	got := statements(BuildQuery(bilbao, DefaultTimeoutSeconds))

	want := []string{
		`node["amenity"~"hospital|clinic|doctors|pharmacy"]` + bbox,
		`way["amenity"~"hospital|clinic|doctors|pharmacy"]` + bbox,
		`relation["amenity"~"hospital|clinic|doctors|pharmacy"]` + bbox,
		`node["amenity"="police"]` + bbox,
		`way["amenity"="police"]` + bbox,
		`relation["amenity"="police"]` + bbox,
		`node["amenity"="fire_station"]` + bbox,
		`way["amenity"="fire_station"]` + bbox,
		`relation["amenity"="fire_station"]` + bbox,
		`node["amenity"="school"]` + bbox,
		`way["amenity"="school"]` + bbox,
		`relation["amenity"="school"]` + bbox,
		`node["leisure"="park"]` + bbox,
		`way["leisure"="park"]` + bbox,
		`relation["leisure"="park"]` + bbox,
		`way["highway"]` + bbox,
		`node["highway"="bus_stop"]` + bbox,
		`way["highway"="bus_stop"]` + bbox,
		`node["railway"~"station|halt|stop"]` + bbox,
		`way["railway"~"station|halt|stop"]` + bbox,
		`node["public_transport"~"stop_position|platform"]` + bbox,
		`way["public_transport"~"stop_position|platform"]` + bbox,
	}
	assert.Equal(t, want, got)
}

func TestBuildQuery_ZeroCoordinates(t *testing.T) {
	q := BuildQuery(domain.Bounds{MinLat: 0, MinLon: 0, MaxLat: 0.1, MaxLon: 0.1}, 0)
	assert.Contains(t, q, `way["highway"](0,0,0.1,0.1);`)
}

func TestTagMatch(t *testing.T) {
	anyHighway := TagMatch{Key: "highway"}
	assert.True(t, anyHighway.Matches(map[string]string{"highway": "residential"}))
	assert.False(t, anyHighway.Matches(map[string]string{"railway": "station"}))

	stops := TagMatch{Key: "railway", Values: []string{"station", "halt"}}
	assert.True(t, stops.Matches(map[string]string{"railway": "halt"}))
	assert.False(t, stops.Matches(map[string]string{"railway": "rail"}))
	assert.False(t, stops.Matches(nil))
}
