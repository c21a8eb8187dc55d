package geospatial_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/pkg/geospatial"
)

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestHaversine_OneDegreeAtEquator(t *testing.T) {
	got := geospatial.Haversine(0, 0, 0, 1)
	if !approx(got, 111.19, 0.01) {
		t.Errorf("expected ~111.19 km, got %.4f", got)
	}
}

func TestTotalDistance_SinglePoint(t *testing.T) {
	points := []domain.Waypoint{
		{Lat: 0, Lon: 0},
		{Lat: 19.0760, Lon: 72.8777},
		{Lat: -89.9, Lon: 179.9},
	}
	for _, p := range points {
		if d := geospatial.TotalDistance(domain.Route{p}); d != 0 {
			t.Errorf("single point %v: expected 0, got %f", p, d)
		}
	}
	if d := geospatial.TotalDistance(nil); d != 0 {
		t.Errorf("empty route: expected 0, got %f", d)
	}
}

func TestTotalDistance_Equator(t *testing.T) {
	d := geospatial.TotalDistance(domain.Route{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}})
	if !approx(d, 111.19, 0.01) {
		t.Errorf("expected ~111.19 km, got %.4f", d)
	}
}

func TestTotalDistance_ReversalSymmetric(t *testing.T) {
	route := domain.Route{
		{Lat: 19.0760, Lon: 72.8777},
		{Lat: 15, Lon: 72},
		{Lat: 8, Lon: 76.5},
		{Lat: 6, Lon: 80},
		{Lat: 13, Lon: 81},
		{Lat: 22.5726, Lon: 88.3639},
	}
	fwd := geospatial.TotalDistance(route)
	rev := geospatial.TotalDistance(route.Reversed())
	if !approx(fwd, rev, 1e-9) {
		t.Errorf("forward %.9f != reverse %.9f", fwd, rev)
	}
	if fwd <= 0 {
		t.Errorf("expected positive distance, got %f", fwd)
	}
}

func TestEstimatedArrival(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	eta, err := geospatial.EstimatedArrival(185.2, 10, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := eta.Sub(now); math.Abs(got.Hours()-10) > 1e-6 {
		t.Errorf("expected +10h, got %v", got)
	}
}

func TestEstimatedArrival_ZeroDistance(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	eta, err := geospatial.EstimatedArrival(0, 10, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eta.Equal(now) {
		t.Errorf("expected ETA == now, got %v", eta)
	}
}

func TestEstimatedArrival_InvalidSpeed(t *testing.T) {
	for _, speed := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		_, err := geospatial.EstimatedArrival(100, speed, time.Now())
		if !errors.Is(err, geospatial.ErrInvalidSpeed) {
			t.Errorf("speed %v: expected ErrInvalidSpeed, got %v", speed, err)
		}
	}
}

func TestFormatClock(t *testing.T) {
	ts := time.Date(2024, 3, 1, 7, 5, 0, 0, time.Local)
	if got := geospatial.FormatClock(ts); got != "07:05" {
		t.Errorf("expected 07:05, got %s", got)
	}
}

func TestBounds(t *testing.T) {
	b := geospatial.Bounds(domain.Route{{Lat: 10, Lon: 80}, {Lat: 5, Lon: 85}, {Lat: 12, Lon: 79}})
	want := domain.BoundingBox{MinLat: 5, MinLon: 79, MaxLat: 12, MaxLon: 85}
	if b != want {
		t.Errorf("expected %+v, got %+v", want, b)
	}
}

func TestBoundingBox_Radius(t *testing.T) {
	b := geospatial.BoundingBox(0, 0, 20000)
	if !b.Contains(domain.Waypoint{Lat: 0.1, Lon: 0.1}) {
		t.Error("expected point 0.1,0.1 inside 20 km box")
	}
	if b.Contains(domain.Waypoint{Lat: 0.5, Lon: 0}) {
		t.Error("expected point 0.5,0 outside 20 km box")
	}
}
