package hazard

import (
	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/pkg/geospatial"
)

// Classification thresholds. Each rule is strict.
const (
	HighTemperatureC = 30.0
	LowPressureHPa   = 1000.0
	StrongWindKmh    = 30.0
	HighWaveMeters   = 3.0
)

type rule struct {
	label domain.HazardLabel
	hit   func(domain.EnvironmentalReading) bool
}

var rules = []rule{
	{domain.LabelHighTemperature, func(r domain.EnvironmentalReading) bool { return r.Temperature > HighTemperatureC }},
	{domain.LabelLowPressure, func(r domain.EnvironmentalReading) bool { return r.Pressure < LowPressureHPa }},
	{domain.LabelStrongWinds, func(r domain.EnvironmentalReading) bool { return r.WindSpeed > StrongWindKmh }},
	{domain.LabelHighWaves, func(r domain.EnvironmentalReading) bool { return r.WaveHeight > HighWaveMeters }},
}

// Classify applies every threshold rule to the reading. Labels come back in
// rule order; an empty result means all clear.
func Classify(r domain.EnvironmentalReading) []domain.HazardLabel {
	var labels []domain.HazardLabel
	for _, rl := range rules {
		if rl.hit(r) {
			labels = append(labels, rl.label)
		}
	}
	return labels
}

// Dynamic builds the marker raised when a reading triggers at least one label.
func Dynamic(r domain.EnvironmentalReading, labels []domain.HazardLabel, radiusKm float64) domain.SimulatedHazard {
	return domain.SimulatedHazard{
		Labels:   labels,
		Position: r.Position,
		RadiusKm: radiusKm,
		Source:   domain.SourceDynamic,
		Extent:   geospatial.BoundingBox(r.Position.Lat, r.Position.Lon, radiusKm*1000),
	}
}

// PlacedAlert is the alert text shown for a placed marker.
func PlacedAlert(h domain.SimulatedHazard) string {
	return string(h.Type) + " detected nearby. Route adjusted."
}

// DynamicAlert is the alert text shown for a label detected under way.
func DynamicAlert(label domain.HazardLabel) string {
	return string(label) + " detected at current position."
}
