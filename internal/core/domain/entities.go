package domain

import (
	"fmt"
	"strings"
	"time"
)

// RouteStatus is the voyage status line.
type RouteStatus string

const (
	StatusNotCalculated   RouteStatus = "Not Calculated"
	StatusActive          RouteStatus = "Active (Ocean Route)"
	StatusHazardAvoidance RouteStatus = "Hazard Avoidance Active"
	StatusArrived         RouteStatus = "Arrived"
)

// StepperState is the animation driver state.
type StepperState string

const (
	StepperIdle    StepperState = "idle"
	StepperRunning StepperState = "running"
)

// RouteRequest is the body sent to the route-computation service.
type RouteRequest struct {
	Start             Waypoint `json:"start"`
	End               Waypoint `json:"end"`
	ShipType          string   `json:"ship_type"`
	HazardSensitivity string   `json:"hazard_sensitivity"`
	AvoidHazards      bool     `json:"avoid_hazards,omitempty"`
}

// Validate checks both endpoints and the free-text options.
func (r RouteRequest) Validate() error {
	if err := r.Start.Validate(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if err := r.End.Validate(); err != nil {
		return fmt.Errorf("end: %w", err)
	}
	if strings.TrimSpace(r.ShipType) == "" {
		return fmt.Errorf("%w: ship_type must not be empty", ErrInvalidRouteOption)
	}
	if strings.TrimSpace(r.HazardSensitivity) == "" {
		return fmt.Errorf("%w: hazard_sensitivity must not be empty", ErrInvalidRouteOption)
	}
	return nil
}

// EventType names a voyage event.
type EventType string

const (
	EventRoute    EventType = "route"
	EventHazards  EventType = "hazards"
	EventPosition EventType = "position"
	EventArrived  EventType = "arrived"
	EventReset    EventType = "reset"
)

// VoyageEvent is published on the bus whenever a voyage changes.
type VoyageEvent struct {
	Type       EventType             `json:"type"`
	VoyageID   string                `json:"voyage_id"`
	Generation uint64                `json:"generation"`
	Index      int                   `json:"index,omitempty"`
	Position   *Waypoint             `json:"position,omitempty"`
	Reading    *EnvironmentalReading `json:"reading,omitempty"`
	Labels     []HazardLabel         `json:"labels,omitempty"`
	Hazards    []SimulatedHazard     `json:"hazards,omitempty"`
	Route      Route                 `json:"route,omitempty"`
	Status     RouteStatus           `json:"status"`
	SpeedKnots float64               `json:"speed_knots"`
	Time       time.Time             `json:"time"`
}

// VoyageSnapshot is a consistent copy of everything a display renders.
type VoyageSnapshot struct {
	ID                string            `json:"id"`
	Status            RouteStatus       `json:"status"`
	Start             Waypoint          `json:"start"`
	Destination       Waypoint          `json:"destination"`
	ShipType          string            `json:"ship_type"`
	HazardSensitivity string            `json:"hazard_sensitivity"`
	CurrentPosition   *Waypoint         `json:"current_position,omitempty"`
	Route             Route             `json:"route,omitempty"`
	DistanceKm        float64           `json:"distance_km"`
	ETA               string            `json:"eta,omitempty"`
	SpeedKnots        float64           `json:"speed_knots"`
	HazardCount       int               `json:"hazard_count"`
	Alerts            []string          `json:"alerts"`
	Hazards           []SimulatedHazard `json:"hazards"`
	Stepper           StepperState      `json:"stepper"`
	Generation        uint64            `json:"generation"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// SpeedText renders the speed the way the status panel shows it.
func (s VoyageSnapshot) SpeedText() string {
	return fmt.Sprintf("%g knots", s.SpeedKnots)
}

// Port is a named coastal point offered as a voyage endpoint.
type Port struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Country  string   `json:"country"`
	Location Waypoint `json:"location"`
}

// Coastline is a named polyline drawn as a map overlay.
type Coastline struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points Route  `json:"points"`
}

// DefaultPorts are the built-in voyage endpoints.
func DefaultPorts() []Port {
	return []Port{
		{ID: "INBOM", Name: "Mumbai", Country: "IN", Location: Waypoint{Lat: 19.0760, Lon: 72.8777}},
		{ID: "INCCU", Name: "Kolkata", Country: "IN", Location: Waypoint{Lat: 22.5726, Lon: 88.3639}},
	}
}

// DefaultCoastlines are the built-in Indian coastline overlays.
func DefaultCoastlines() []Coastline {
	return []Coastline{
		{ID: "in-west", Name: "West Coast", Points: Route{
			{23, 68}, {22, 69}, {21, 72}, {19, 72.8}, {15, 74}, {12, 75}, {10, 76}, {8, 77},
		}},
		{ID: "in-south", Name: "South Coast", Points: Route{
			{8, 77}, {6.5, 76}, {6, 75},
		}},
		{ID: "in-east", Name: "East Coast", Points: Route{
			{10, 79.8}, {12, 80}, {13, 80.2}, {15, 80}, {17, 82}, {20, 85}, {21, 87}, {22.5, 88.3},
		}},
	}
}
