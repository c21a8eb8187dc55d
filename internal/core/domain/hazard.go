package domain

import "time"

// HazardLabel is a classification tag derived from an environmental reading.
type HazardLabel string

const (
	LabelHighTemperature HazardLabel = "High Temperature"
	LabelLowPressure     HazardLabel = "Low Pressure"
	LabelStrongWinds     HazardLabel = "Strong Winds"
	LabelHighWaves       HazardLabel = "High Waves"
)

// HazardType is the kind of a placed hazard marker.
type HazardType string

const (
	HazardStorm          HazardType = "Storm"
	HazardRoughSeas      HazardType = "Rough Seas"
	HazardFloatingDebris HazardType = "Floating Debris"
	HazardStrongCurrent  HazardType = "Strong Current"
)

// HazardTypes lists every placeable hazard type.
var HazardTypes = []HazardType{
	HazardStorm,
	HazardRoughSeas,
	HazardFloatingDebris,
	HazardStrongCurrent,
}

// EnvironmentalReading is one simulated sample of sea conditions.
type EnvironmentalReading struct {
	Position    Waypoint  `json:"position"`
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"` // °C
	Pressure    float64   `json:"pressure"`    // hPa
	WindSpeed   float64   `json:"wind_speed"`  // km/h
	WaveHeight  float64   `json:"wave_height"` // m
}

// HazardSource tells placed markers apart from those raised during a voyage.
type HazardSource string

const (
	SourcePlaced  HazardSource = "placed"
	SourceDynamic HazardSource = "dynamic"
)

// SimulatedHazard is a hazard marker drawn on the map.
type SimulatedHazard struct {
	Type     HazardType    `json:"type,omitempty"`
	Labels   []HazardLabel `json:"labels,omitempty"`
	Position Waypoint      `json:"position"`
	RadiusKm float64       `json:"radius_km"`
	Source   HazardSource  `json:"source"`
	Extent   BoundingBox   `json:"extent"`
}

// Name is the popup title for the marker.
func (h SimulatedHazard) Name() string {
	if h.Source == SourceDynamic {
		return "Dynamic Hazard"
	}
	return string(h.Type)
}
