package geospatial

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/samirrijal/searoute/internal/core/domain"
)

const (
	// EarthRadiusKm is the mean Earth radius used by Haversine.
	EarthRadiusKm = 6371.0

	// KmPerNauticalMile converts knots to km/h.
	KmPerNauticalMile = 1.852

	metersPerDegreeLat = 111320.0
)

// ErrInvalidSpeed is returned when a cruising speed cannot produce an ETA.
var ErrInvalidSpeed = errors.New("invalid cruising speed")

// Haversine calculates the great-circle distance in kilometers between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// TotalDistance sums the haversine legs of a route in kilometers.
// Routes with fewer than two points have zero length.
func TotalDistance(route domain.Route) float64 {
	var total float64
	for i := 1; i < len(route); i++ {
		a, b := route[i-1], route[i]
		total += Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
	}
	return total
}

// EstimatedArrival projects now forward by the time needed to cover
// distanceKm at speedKnots.
func EstimatedArrival(distanceKm, speedKnots float64, now time.Time) (time.Time, error) {
	if speedKnots <= 0 || math.IsNaN(speedKnots) || math.IsInf(speedKnots, 0) {
		return time.Time{}, fmt.Errorf("%w: %v knots", ErrInvalidSpeed, speedKnots)
	}
	if distanceKm <= 0 {
		return now, nil
	}
	hours := distanceKm / (speedKnots * KmPerNauticalMile)
	return now.Add(time.Duration(hours * float64(time.Hour))), nil
}

// FormatClock renders t as local wall-clock hour:minute.
func FormatClock(t time.Time) string {
	return t.Local().Format("15:04")
}

// Bounds returns the smallest box enclosing every point of the route.
func Bounds(route domain.Route) domain.BoundingBox {
	if len(route) == 0 {
		return domain.BoundingBox{}
	}
	b := domain.BoundingBox{
		MinLat: route[0].Lat, MaxLat: route[0].Lat,
		MinLon: route[0].Lon, MaxLon: route[0].Lon,
	}
	for _, w := range route[1:] {
		b.MinLat = math.Min(b.MinLat, w.Lat)
		b.MaxLat = math.Max(b.MaxLat, w.Lat)
		b.MinLon = math.Min(b.MinLon, w.Lon)
		b.MaxLon = math.Max(b.MaxLon, w.Lon)
	}
	return b
}

// BoundingBox returns a bounding box around a point with the given radius in meters.
func BoundingBox(lat, lon, radiusMeters float64) domain.BoundingBox {
	latDelta := radiusMeters / metersPerDegreeLat
	lonDelta := radiusMeters / (metersPerDegreeLat * math.Cos(toRad(lat)))

	return domain.BoundingBox{
		MinLat: lat - latDelta,
		MinLon: lon - lonDelta,
		MaxLat: lat + latDelta,
		MaxLon: lon + lonDelta,
	}
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
