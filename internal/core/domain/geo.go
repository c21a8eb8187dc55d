package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Waypoint represents a geographic coordinate (WGS 84) in decimal degrees.
// On the wire it is the pair [lat, lon], the shape the route service speaks.
type Waypoint struct {
	Lat float64
	Lon float64
}

// Validate rejects NaN, infinities and out-of-range coordinates.
func (w Waypoint) Validate() error {
	if math.IsNaN(w.Lat) || math.IsNaN(w.Lon) || math.IsInf(w.Lat, 0) || math.IsInf(w.Lon, 0) {
		return fmt.Errorf("%w: not a number", ErrInvalidCoordinate)
	}
	if w.Lat < -90 || w.Lat > 90 {
		return fmt.Errorf("%w: latitude %.6f outside [-90, 90]", ErrInvalidCoordinate, w.Lat)
	}
	if w.Lon < -180 || w.Lon > 180 {
		return fmt.Errorf("%w: longitude %.6f outside [-180, 180]", ErrInvalidCoordinate, w.Lon)
	}
	return nil
}

// String renders the waypoint the way the position panel shows it.
func (w Waypoint) String() string {
	return fmt.Sprintf("%.4f, %.4f", w.Lat, w.Lon)
}

func (w Waypoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{w.Lat, w.Lon})
}

func (w *Waypoint) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("%w: expected [lat, lon]: %v", ErrInvalidCoordinate, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: expected [lat, lon], got %d values", ErrInvalidCoordinate, len(pair))
	}
	w.Lat, w.Lon = pair[0], pair[1]
	return nil
}

// ParseWaypoint parses "lat, lon" text input and validates the result.
func ParseWaypoint(s string) (Waypoint, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Waypoint{}, fmt.Errorf("%w: %q is not \"lat, lon\"", ErrInvalidCoordinate, s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Waypoint{}, fmt.Errorf("%w: latitude %q", ErrInvalidCoordinate, parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Waypoint{}, fmt.Errorf("%w: longitude %q", ErrInvalidCoordinate, parts[1])
	}
	w := Waypoint{Lat: lat, Lon: lon}
	if err := w.Validate(); err != nil {
		return Waypoint{}, err
	}
	return w, nil
}

// Route is an ordered sequence of waypoints in travel order.
type Route []Waypoint

// Validate requires at least one waypoint and every waypoint in range.
func (r Route) Validate() error {
	if len(r) == 0 {
		return fmt.Errorf("%w: route has no points", ErrInvalidCoordinate)
	}
	return r.ValidatePoints()
}

// ValidatePoints checks every waypoint but accepts an empty route.
func (r Route) ValidatePoints() error {
	for i, w := range r {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}
	}
	return nil
}

// Reversed returns a copy of the route in opposite travel order.
func (r Route) Reversed() Route {
	out := make(Route, len(r))
	for i, w := range r {
		out[len(r)-1-i] = w
	}
	return out
}

// BoundingBox represents a geographic bounding box. Sampling inside it is
// half-open: [min, max).
type BoundingBox struct {
	MinLat float64 `mapstructure:"min_lat" json:"min_lat"`
	MinLon float64 `mapstructure:"min_lon" json:"min_lon"`
	MaxLat float64 `mapstructure:"max_lat" json:"max_lat"`
	MaxLon float64 `mapstructure:"max_lon" json:"max_lon"`
}

// Validate checks that the box is non-empty and inside coordinate range.
func (b BoundingBox) Validate() error {
	if err := (Waypoint{Lat: b.MinLat, Lon: b.MinLon}).Validate(); err != nil {
		return fmt.Errorf("bounds min: %w", err)
	}
	if err := (Waypoint{Lat: b.MaxLat, Lon: b.MaxLon}).Validate(); err != nil {
		return fmt.Errorf("bounds max: %w", err)
	}
	if b.MinLat >= b.MaxLat || b.MinLon >= b.MaxLon {
		return fmt.Errorf("%w: empty bounding box", ErrInvalidCoordinate)
	}
	return nil
}

// Contains reports whether w lies inside the half-open box.
func (b BoundingBox) Contains(w Waypoint) bool {
	return w.Lat >= b.MinLat && w.Lat < b.MaxLat && w.Lon >= b.MinLon && w.Lon < b.MaxLon
}
