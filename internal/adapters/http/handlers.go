package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/pkg/geospatial"
	"github.com/samirrijal/searoute/internal/pkg/hazard"
)

// ListPortsHandler returns the port catalogue.
func ListPortsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ports, err := deps.Catalogue.ListPorts(c.UserContext())
		if err != nil {
			return mapError(c, err)
		}

		page, pg := paginate(c, ports)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// GetPortHandler returns a single port by its code.
func GetPortHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		port, err := deps.Catalogue.GetPort(c.UserContext(), c.Params("id"))
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(port)
	}
}

// ListCoastlinesHandler returns the coastline overlays.
func ListCoastlinesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		coasts, err := deps.Catalogue.ListCoastlines(c.UserContext())
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(fiber.Map{"data": coasts})
	}
}

// CreateVoyageHandler opens a new voyage session with default inputs.
func CreateVoyageHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := deps.Voyages.Create(c.UserContext())
		if err != nil {
			return mapError(c, err)
		}
		c.Location("/v1/voyages/" + s.ID())
		return c.Status(fiber.StatusCreated).JSON(s.Snapshot())
	}
}

// ListVoyagesHandler returns a snapshot of every open voyage.
func ListVoyagesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snaps := deps.Voyages.List()
		c.Set("Cache-Control", "no-store")
		return c.JSON(fiber.Map{"data": snaps, "total": len(snaps)})
	}
}

// GetVoyageHandler returns the current display state of a voyage.
func GetVoyageHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := deps.Voyages.Get(c.Params("id"))
		if err != nil {
			return mapError(c, err)
		}
		c.Set("Cache-Control", "no-store")
		return c.JSON(s.Snapshot())
	}
}

// DeleteVoyageHandler stops and removes a voyage.
func DeleteVoyageHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Voyages.Delete(c.UserContext(), c.Params("id")); err != nil {
			return mapError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// CalculateRouteHandler asks the route service for a route. An empty body
// reuses the voyage's current start, destination and ship settings.
func CalculateRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := deps.Voyages.Get(c.Params("id"))
		if err != nil {
			return mapError(c, err)
		}

		snap := s.Snapshot()
		req := domain.RouteRequest{
			Start:             snap.Start,
			End:               snap.Destination,
			ShipType:          snap.ShipType,
			HazardSensitivity: snap.HazardSensitivity,
		}
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return errBadRequest(c, "invalid request body: "+err.Error())
			}
		}

		out, err := s.CalculateRoute(c.UserContext(), req)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(out)
	}
}

// SimulateHazardsHandler places hazards and reroutes around them.
func SimulateHazardsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := deps.Voyages.Get(c.Params("id"))
		if err != nil {
			return mapError(c, err)
		}
		out, err := s.SimulateHazards(c.UserContext())
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(out)
	}
}

// StartSimulationHandler starts the ship animation along the active route.
func StartSimulationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := deps.Voyages.Get(c.Params("id"))
		if err != nil {
			return mapError(c, err)
		}
		out, err := s.StartSimulation(c.UserContext())
		if err != nil {
			return mapError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(out)
	}
}

// ResetVoyageHandler restores a voyage to its defaults.
func ResetVoyageHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := deps.Voyages.Get(c.Params("id"))
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(s.Reset(c.UserContext()))
	}
}

type distanceRequest struct {
	Route      domain.Route `json:"route"`
	SpeedKnots float64      `json:"speed_knots"`
}

// DistanceResult is the response of the geodesy endpoint.
type DistanceResult struct {
	DistanceKm float64            `json:"distance_km"`
	SpeedKnots float64            `json:"speed_knots"`
	Speed      string             `json:"speed"`
	ETA        string             `json:"eta"`
	ArrivesAt  time.Time          `json:"arrives_at"`
	Bounds     domain.BoundingBox `json:"bounds"`
}

// DistanceHandler computes the great-circle length and ETA of a posted route.
func DistanceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req distanceRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}
		if err := req.Route.ValidatePoints(); err != nil {
			return mapError(c, err)
		}
		if req.SpeedKnots == 0 {
			req.SpeedKnots = deps.CruisingSpeedKnots
		}

		dist := geospatial.TotalDistance(req.Route)
		eta, err := geospatial.EstimatedArrival(dist, req.SpeedKnots, time.Now())
		if err != nil {
			return mapError(c, err)
		}

		snap := domain.VoyageSnapshot{SpeedKnots: req.SpeedKnots}
		return c.JSON(DistanceResult{
			DistanceKm: dist,
			SpeedKnots: req.SpeedKnots,
			Speed:      snap.SpeedText(),
			ETA:        geospatial.FormatClock(eta),
			ArrivesAt:  eta,
			Bounds:     geospatial.Bounds(req.Route),
		})
	}
}

// ClassifyResult lists the labels a reading triggers and their alert text.
type ClassifyResult struct {
	Labels []domain.HazardLabel `json:"labels"`
	Alerts []string             `json:"alerts"`
}

// ClassifyHandler applies the hazard thresholds to a posted reading.
func ClassifyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var r domain.EnvironmentalReading
		if err := c.BodyParser(&r); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}

		labels := hazard.Classify(r)
		alerts := make([]string, 0, len(labels))
		for _, l := range labels {
			alerts = append(alerts, hazard.DynamicAlert(l))
		}
		if labels == nil {
			labels = []domain.HazardLabel{}
		}
		return c.JSON(ClassifyResult{Labels: labels, Alerts: alerts})
	}
}
