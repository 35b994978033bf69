package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// boundsRequest is the body of the region endpoints: two [lat, lng] corners.
type boundsRequest struct {
	Bounds [][]float64 `json:"bounds"`
}

const (
	defaultRadiusKm = 1.0
	maxPlaceQuery   = 200
)

// AnalyzeRegionHandler analyzes the box spanned by two corners.
func AnalyzeRegionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req boundsRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body: expected {\"bounds\": [[lat, lng], [lat, lng]]}")
		}

		report, err := deps.Regions.Analyze(c.UserContext(), req.Bounds)
		if err != nil {
			return errFromDomain(c, err)
		}

		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(report)
	}
}

// AnalyzeAroundHandler analyzes a square box of half-width radius_km
// around lat/lon.
func AnalyzeAroundHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
		if errLat != nil || errLon != nil {
			return errBadRequest(c, "lat and lon are required numbers")
		}

		radius := defaultRadiusKm
		if raw := c.Query("radius_km"); raw != "" {
			r, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return errBadRequest(c, "radius_km must be a number")
			}
			radius = r
		}

		report, err := deps.Regions.AnalyzeAround(c.UserContext(), lat, lon, radius)
		if err != nil {
			return errFromDomain(c, err)
		}

		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(report)
	}
}

// RegionQueryHandler returns the spatial query an analysis of the box would
// run, without running it.
func RegionQueryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req boundsRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body: expected {\"bounds\": [[lat, lng], [lat, lng]]}")
		}

		q, err := deps.Regions.Query(req.Bounds)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(fiber.Map{"query": q})
	}
}

// SearchPlacesHandler resolves free text to up to five candidate places.
// A blank q yields an empty list.
func SearchPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if len(query) > maxPlaceQuery {
			return errBadRequest(c, "query too long (max 200 characters)")
		}

		places, err := deps.Places.Search(c.UserContext(), query)
		if err != nil {
			return errFromDomain(c, err)
		}

		if strings.TrimSpace(query) != "" {
			c.Set(fiber.HeaderCacheControl, "public, max-age=300")
		}
		return c.JSON(places)
	}
}
