package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/pkg/geospatial"
	"github.com/samirrijal/searoute/internal/pkg/hazard"
)

// buildSchema creates the read-only GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	waypointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Waypoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	waypointInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "WaypointInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"lat": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"lon": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	hazardType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Hazard",
		Fields: graphql.Fields{
			"name": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(domain.SimulatedHazard).Name(), nil
				},
			},
			"type":      &graphql.Field{Type: graphql.String},
			"labels":    &graphql.Field{Type: graphql.NewList(graphql.String)},
			"position":  &graphql.Field{Type: waypointType},
			"radius_km": &graphql.Field{Type: graphql.Float},
			"source":    &graphql.Field{Type: graphql.String},
		},
	})

	voyageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Voyage",
		Fields: graphql.Fields{
			"id":                 &graphql.Field{Type: graphql.String},
			"status":             &graphql.Field{Type: graphql.String},
			"start":              &graphql.Field{Type: waypointType},
			"destination":        &graphql.Field{Type: waypointType},
			"ship_type":          &graphql.Field{Type: graphql.String},
			"hazard_sensitivity": &graphql.Field{Type: graphql.String},
			"current_position":   &graphql.Field{Type: waypointType},
			"route":              &graphql.Field{Type: graphql.NewList(waypointType)},
			"distance_km":        &graphql.Field{Type: graphql.Float},
			"eta":                &graphql.Field{Type: graphql.String},
			"speed_knots":        &graphql.Field{Type: graphql.Float},
			"hazard_count":       &graphql.Field{Type: graphql.Int},
			"alerts":             &graphql.Field{Type: graphql.NewList(graphql.String)},
			"hazards":            &graphql.Field{Type: graphql.NewList(hazardType)},
			"stepper":            &graphql.Field{Type: graphql.String},
			"updated_at":         &graphql.Field{Type: graphql.DateTime},
		},
	})

	portType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Port",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.String},
			"name":     &graphql.Field{Type: graphql.String},
			"country":  &graphql.Field{Type: graphql.String},
			"location": &graphql.Field{Type: waypointType},
		},
	})

	coastlineType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Coastline",
		Fields: graphql.Fields{
			"id":     &graphql.Field{Type: graphql.String},
			"name":   &graphql.Field{Type: graphql.String},
			"points": &graphql.Field{Type: graphql.NewList(waypointType)},
		},
	})

	distanceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Distance",
		Fields: graphql.Fields{
			"distance_km": &graphql.Field{Type: graphql.Float},
			"speed_knots": &graphql.Field{Type: graphql.Float},
			"speed":       &graphql.Field{Type: graphql.String},
			"eta":         &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"voyages": &graphql.Field{
				Type:        graphql.NewList(voyageType),
				Description: "List all open voyages",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Voyages.List(), nil
				},
			},
			"voyage": &graphql.Field{
				Type:        voyageType,
				Description: "Get a voyage by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s, err := deps.Voyages.Get(p.Args["id"].(string))
					if err != nil {
						return nil, err
					}
					return s.Snapshot(), nil
				},
			},
			"ports": &graphql.Field{
				Type:        graphql.NewList(portType),
				Description: "List known ports",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Catalogue.ListPorts(p.Context)
				},
			},
			"port": &graphql.Field{
				Type:        portType,
				Description: "Get a port by code",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Catalogue.GetPort(p.Context, p.Args["id"].(string))
				},
			},
			"coastlines": &graphql.Field{
				Type:        graphql.NewList(coastlineType),
				Description: "List coastline overlays",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Catalogue.ListCoastlines(p.Context)
				},
			},
			"classifyHazards": &graphql.Field{
				Type:        graphql.NewList(graphql.String),
				Description: "Hazard labels triggered by an environmental reading",
				Args: graphql.FieldConfigArgument{
					"temperature": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"pressure":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"wind_speed":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"wave_height": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					labels := hazard.Classify(domain.EnvironmentalReading{
						Temperature: p.Args["temperature"].(float64),
						Pressure:    p.Args["pressure"].(float64),
						WindSpeed:   p.Args["wind_speed"].(float64),
						WaveHeight:  p.Args["wave_height"].(float64),
					})
					out := make([]string, len(labels))
					for i, l := range labels {
						out[i] = string(l)
					}
					return out, nil
				},
			},
			"routeDistance": &graphql.Field{
				Type:        distanceType,
				Description: "Great-circle length and ETA of a list of waypoints",
				Args: graphql.FieldConfigArgument{
					"points":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(waypointInput)))},
					"speed_knots": &graphql.ArgumentConfig{Type: graphql.Float},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					route, err := routeArg(p.Args["points"])
					if err != nil {
						return nil, err
					}
					speed := deps.CruisingSpeedKnots
					if v, ok := p.Args["speed_knots"].(float64); ok && v != 0 {
						speed = v
					}

					dist := geospatial.TotalDistance(route)
					eta, err := geospatial.EstimatedArrival(dist, speed, time.Now())
					if err != nil {
						return nil, err
					}
					snap := domain.VoyageSnapshot{SpeedKnots: speed}
					return DistanceResult{
						DistanceKm: dist,
						SpeedKnots: speed,
						Speed:      snap.SpeedText(),
						ETA:        geospatial.FormatClock(eta),
						ArrivesAt:  eta,
						Bounds:     geospatial.Bounds(route),
					}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// routeArg converts a [WaypointInput] argument into a validated route.
func routeArg(v interface{}) (domain.Route, error) {
	items, _ := v.([]interface{})
	route := make(domain.Route, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("points[%d]: %w", i, domain.ErrInvalidCoordinate)
		}
		lat, _ := m["lat"].(float64)
		lon, _ := m["lon"].(float64)
		route = append(route, domain.Waypoint{Lat: lat, Lon: lon})
	}
	if err := route.ValidatePoints(); err != nil {
		return nil, err
	}
	return route, nil
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
