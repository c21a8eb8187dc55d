package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/pkg/config"
	"github.com/samirrijal/searoute/internal/pkg/geospatial"
	"github.com/samirrijal/searoute/internal/pkg/hazard"
)

func testSim() config.SimulationConfig {
	return config.SimulationConfig{
		CruisingSpeedKnots: 10,
		TickIntervalMs:     1,
		HazardCount:        3,
		PlacedRadiusKm:     50,
		DynamicRadiusKm:    20,
		Bounds:             domain.BoundingBox{MinLat: 10, MinLon: 75, MaxLat: 20, MaxLon: 85},
		Ranges:             hazard.DefaultRanges(),
	}
}

func TestDensify(t *testing.T) {
	route := domain.Route{{Lat: 0, Lon: 0}, {Lat: 2, Lon: 0}}
	out := densify(route, 50)

	if out[0] != route[0] || out[len(out)-1] != route[1] {
		t.Fatalf("endpoints not kept: %v", out)
	}
	for i := 1; i < len(out); i++ {
		if d := geospatial.Haversine(out[i-1].Lat, out[i-1].Lon, out[i].Lat, out[i].Lon); d > 50.0001 {
			t.Errorf("leg %d is %.2f km", i, d)
		}
	}
	if len(out) != 6 {
		t.Errorf("expected 6 points for ~222 km at 50 km legs, got %d", len(out))
	}
}

func TestRun_Distance(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), testSim(), "distance", []string{"0,0", "1,0"}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "111.19 km") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRun_DistanceInvalidWaypoint(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), testSim(), "distance", []string{"95,0"}, &out); err == nil {
		t.Error("expected error for out-of-range latitude")
	}
}

func TestRun_Classify(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), testSim(), "classify", []string{"31", "995", "10", "1"}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 alerts, got %q", out.String())
	}

	out.Reset()
	if err := run(context.Background(), testSim(), "classify", []string{"25", "1010", "10", "1"}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out.String()) != "all clear" {
		t.Errorf("expected all clear, got %q", out.String())
	}
}

func TestRun_Hazards(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), testSim(), "hazards", nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := strings.Count(out.String(), "\n"); n != 3 {
		t.Errorf("expected 3 hazards, got %d: %q", n, out.String())
	}
}

func TestRun_Simulate(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), testSim(), "simulate", []string{"0,0", "0,1"}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := out.String()
	if !strings.HasPrefix(s, "sailing 4 waypoints") {
		t.Errorf("unexpected header in %q", s)
	}
	if strings.Count(s, "#") != 3 {
		t.Errorf("expected 3 steps, got %q", s)
	}
	if !strings.HasSuffix(s, "Arrived\n") {
		t.Errorf("expected arrival, got %q", s)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	if err := run(context.Background(), testSim(), "sail", nil, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown command")
	}
}
