package domain_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/samirrijal/searoute/internal/core/domain"
)

func TestParseWaypoint(t *testing.T) {
	w, err := domain.ParseWaypoint(" 19.0760, 72.8777 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Lat != 19.0760 || w.Lon != 72.8777 {
		t.Errorf("unexpected waypoint %+v", w)
	}
	if w.String() != "19.0760, 72.8777" {
		t.Errorf("unexpected string %q", w.String())
	}
}

func TestParseWaypoint_Rejects(t *testing.T) {
	inputs := []string{"", "19.0", "a, b", "91, 0", "0, 181", "NaN, 0", "1, 2, 3"}
	for _, in := range inputs {
		if _, err := domain.ParseWaypoint(in); !errors.Is(err, domain.ErrInvalidCoordinate) {
			t.Errorf("%q: expected ErrInvalidCoordinate, got %v", in, err)
		}
	}
}

func TestWaypoint_JSONPair(t *testing.T) {
	data, err := json.Marshal(domain.Waypoint{Lat: 22.5, Lon: 88.3})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[22.5,88.3]" {
		t.Errorf("expected [22.5,88.3], got %s", data)
	}

	var w domain.Waypoint
	if err := json.Unmarshal([]byte("[1,2,3]"), &w); !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate for triple, got %v", err)
	}
}

func TestRoute_Validate(t *testing.T) {
	if err := (domain.Route{}).Validate(); !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Errorf("empty route: expected ErrInvalidCoordinate, got %v", err)
	}
	bad := domain.Route{{Lat: 0, Lon: 0}, {Lat: math.Inf(1), Lon: 0}}
	if err := bad.Validate(); !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Errorf("inf point: expected ErrInvalidCoordinate, got %v", err)
	}
}

func TestBoundingBox_Validate(t *testing.T) {
	ok := domain.BoundingBox{MinLat: 10, MinLon: 75, MaxLat: 20, MaxLon: 85}
	if err := ok.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	empty := domain.BoundingBox{MinLat: 10, MinLon: 75, MaxLat: 10, MaxLon: 85}
	if err := empty.Validate(); err == nil {
		t.Error("expected error for empty box")
	}
}

func TestRouteRequest_BlankOptions(t *testing.T) {
	base := domain.RouteRequest{
		Start:             domain.Waypoint{Lat: 0, Lon: 0},
		End:               domain.Waypoint{Lat: 1, Lon: 1},
		ShipType:          "cargo",
		HazardSensitivity: "high",
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	blankShip := base
	blankShip.ShipType = "  "
	if err := blankShip.Validate(); !errors.Is(err, domain.ErrInvalidRouteOption) {
		t.Errorf("expected ErrInvalidRouteOption for ship_type, got %v", err)
	}

	blankSens := base
	blankSens.HazardSensitivity = "\n"
	if err := blankSens.Validate(); !errors.Is(err, domain.ErrInvalidRouteOption) {
		t.Errorf("expected ErrInvalidRouteOption for hazard_sensitivity, got %v", err)
	}
}

func TestRoute_ValidatePointsAcceptsEmpty(t *testing.T) {
	if err := domain.Route(nil).ValidatePoints(); err != nil {
		t.Errorf("empty route should pass point validation: %v", err)
	}
	if err := domain.Route(nil).Validate(); !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate for empty route, got %v", err)
	}
	if err := (domain.Route{{Lat: 0, Lon: 200}}).ValidatePoints(); !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
}
