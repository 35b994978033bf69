package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// buildSchema creates the GraphQL schema wired to our services.
// Object fields resolve through the json tags of the domain types.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	amenitiesType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Amenities",
		Fields: graphql.Fields{
			"hospitals":    &graphql.Field{Type: graphql.Int},
			"police":       &graphql.Field{Type: graphql.Int},
			"fireStations": &graphql.Field{Type: graphql.Int},
			"schools":      &graphql.Field{Type: graphql.Int},
			"parks":        &graphql.Field{Type: graphql.Int},
		},
	})

	// Population counts can exceed the 32-bit GraphQL Int.
	populationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PopulationEstimate",
		Fields: graphql.Fields{
			"current":         &graphql.Field{Type: graphql.Float},
			"growthRate":      &graphql.Field{Type: graphql.Float},
			"projected5Year":  &graphql.Field{Type: graphql.Float},
			"projected10Year": &graphql.Field{Type: graphql.Float},
		},
	})

	transportType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TransportMetrics",
		Fields: graphql.Fields{
			"roadKmTotal":         &graphql.Field{Type: graphql.Float},
			"roadDensityKmPerKm2": &graphql.Field{Type: graphql.Float},
			"transitStops":        &graphql.Field{Type: graphql.Int},
		},
	})

	reportType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RegionReport",
		Fields: graphql.Fields{
			"area":           &graphql.Field{Type: graphql.Float, Description: "Square kilometres"},
			"amenities":      &graphql.Field{Type: amenitiesType},
			"populationData": &graphql.Field{Type: populationType},
			"infraScore":     &graphql.Field{Type: graphql.Int},
			"transport":      &graphql.Field{Type: transportType},
		},
	})

	placeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Place",
		Fields: graphql.Fields{
			"x":     &graphql.Field{Type: graphql.Float, Description: "Longitude"},
			"y":     &graphql.Field{Type: graphql.Float, Description: "Latitude"},
			"label": &graphql.Field{Type: graphql.String},
		},
	})

	boundsArg := &graphql.ArgumentConfig{
		Type:        graphql.NewNonNull(graphql.NewList(graphql.NewList(graphql.Float))),
		Description: "Two [lat, lng] corners",
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"analyzeRegion": &graphql.Field{
				Type:        reportType,
				Description: "Analyze the region spanned by two corners",
				Args:        graphql.FieldConfigArgument{"bounds": boundsArg},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					corners, err := cornersArg(p.Args["bounds"])
					if err != nil {
						return nil, err
					}
					return deps.Regions.Analyze(p.Context, corners)
				},
			},
			"regionQuery": &graphql.Field{
				Type:        graphql.String,
				Description: "Spatial query an analysis of the region would run",
				Args:        graphql.FieldConfigArgument{"bounds": boundsArg},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					corners, err := cornersArg(p.Args["bounds"])
					if err != nil {
						return nil, err
					}
					return deps.Regions.Query(corners)
				},
			},
			"searchPlaces": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "Resolve free text to candidate places",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q, _ := p.Args["query"].(string)
					return deps.Places.Search(p.Context, q)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// cornersArg converts a [[Float]] argument into corners. Shape checks are
// left to bounds normalization.
func cornersArg(v interface{}) ([][]float64, error) {
	outer, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("bounds must be a list of [lat, lng] pairs")
	}
	corners := make([][]float64, len(outer))
	for i, item := range outer {
		inner, ok := item.([]interface{})
		if !ok {
			return nil, fmt.Errorf("bounds[%d] must be a [lat, lng] pair", i)
		}
		corners[i] = make([]float64, len(inner))
		for j, n := range inner {
			f, ok := n.(float64)
			if !ok {
				return nil, fmt.Errorf("bounds[%d][%d] must be a number", i, j)
			}
			corners[i][j] = f
		}
	}
	return corners, nil
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
