// Package hazard simulates sea conditions and classifies them into hazard labels.
package hazard

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/pkg/geospatial"
)

// Range is a half-open interval [Min, Max).
type Range struct {
	Min float64 `mapstructure:"min" json:"min"`
	Max float64 `mapstructure:"max" json:"max"`
}

func (r Range) draw(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Ranges bounds each simulated measurement.
type Ranges struct {
	Temperature Range `mapstructure:"temperature" json:"temperature"`
	Pressure    Range `mapstructure:"pressure" json:"pressure"`
	WindSpeed   Range `mapstructure:"wind_speed" json:"wind_speed"`
	WaveHeight  Range `mapstructure:"wave_height" json:"wave_height"`
}

// DefaultRanges returns the stock simulation ranges.
func DefaultRanges() Ranges {
	return Ranges{
		Temperature: Range{Min: 20, Max: 35},
		Pressure:    Range{Min: 990, Max: 1020},
		WindSpeed:   Range{Min: 0, Max: 50},
		WaveHeight:  Range{Min: 0, Max: 5},
	}
}

// Validate rejects inverted ranges.
func (r Ranges) Validate() error {
	for name, rg := range map[string]Range{
		"temperature": r.Temperature,
		"pressure":    r.Pressure,
		"wind_speed":  r.WindSpeed,
		"wave_height": r.WaveHeight,
	} {
		if rg.Max < rg.Min {
			return fmt.Errorf("%s range max %.2f below min %.2f", name, rg.Max, rg.Min)
		}
	}
	return nil
}

// RandomSampler draws each measurement uniformly and independently of the
// position. It is safe for concurrent use.
type RandomSampler struct {
	mu     sync.Mutex
	rng    *rand.Rand
	ranges Ranges
	now    func() time.Time
}

// NewRandomSampler creates a sampler over src. A nil src uses a random PCG seed.
func NewRandomSampler(ranges Ranges, src rand.Source) *RandomSampler {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &RandomSampler{rng: rand.New(src), ranges: ranges, now: time.Now}
}

// Sample returns one reading.
func (s *RandomSampler) Sample(position domain.Waypoint) domain.EnvironmentalReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.EnvironmentalReading{
		Position:    position,
		Time:        s.now(),
		Temperature: s.ranges.Temperature.draw(s.rng),
		Pressure:    s.ranges.Pressure.draw(s.rng),
		WindSpeed:   s.ranges.WindSpeed.draw(s.rng),
		WaveHeight:  s.ranges.WaveHeight.draw(s.rng),
	}
}

// Placer scatters hazard markers inside a bounding box.
type Placer struct {
	mu       sync.Mutex
	rng      *rand.Rand
	radiusKm float64
}

// NewPlacer creates a placer whose markers have the given radius. A nil src
// uses a random PCG seed.
func NewPlacer(radiusKm float64, src rand.Source) *Placer {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Placer{rng: rand.New(src), radiusKm: radiusKm}
}

// Place returns count markers at independent uniform positions in bounds,
// each with a uniformly chosen hazard type.
func (p *Placer) Place(count int, bounds domain.BoundingBox) ([]domain.SimulatedHazard, error) {
	if count < 0 {
		return nil, fmt.Errorf("hazard count must not be negative, got %d", count)
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]domain.SimulatedHazard, 0, count)
	for range count {
		pos := domain.Waypoint{
			Lat: bounds.MinLat + p.rng.Float64()*(bounds.MaxLat-bounds.MinLat),
			Lon: bounds.MinLon + p.rng.Float64()*(bounds.MaxLon-bounds.MinLon),
		}
		out = append(out, domain.SimulatedHazard{
			Type:     domain.HazardTypes[p.rng.IntN(len(domain.HazardTypes))],
			Position: pos,
			RadiusKm: p.radiusKm,
			Source:   domain.SourcePlaced,
			Extent:   geospatial.BoundingBox(pos.Lat, pos.Lon, p.radiusKm*1000),
		})
	}
	return out, nil
}
