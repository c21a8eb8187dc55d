// Command voyage runs the voyage calculators and a simulated passage
// locally, without the route service, the bus or Temporal.
//
//	voyage distance <lat,lon> <lat,lon> [...]
//	voyage classify <temperature> <pressure> <wind_speed> <wave_height>
//	voyage hazards
//	voyage simulate <lat,lon> <lat,lon> [...]
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/core/usecases"
	"github.com/samirrijal/searoute/internal/pkg/config"
	"github.com/samirrijal/searoute/internal/pkg/geospatial"
	"github.com/samirrijal/searoute/internal/pkg/hazard"
	"github.com/samirrijal/searoute/internal/pkg/logging"
)

// legKm is the spacing of the waypoints simulate sails through.
const legKm = 50.0

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: voyage <distance|classify|hazards|simulate> [args]")
	}

	cfg, err := config.Load("searoute-voyage")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Telemetry.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg.Simulation, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func run(ctx context.Context, sim config.SimulationConfig, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "distance":
		return distance(sim, args, out)
	case "classify":
		return classify(args, out)
	case "hazards":
		return placeHazards(sim, out)
	case "simulate":
		return simulate(ctx, sim, args, out)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func parseRoute(args []string) (domain.Route, error) {
	route := make(domain.Route, 0, len(args))
	for _, a := range args {
		w, err := domain.ParseWaypoint(a)
		if err != nil {
			return nil, err
		}
		route = append(route, w)
	}
	return route, nil
}

func distance(sim config.SimulationConfig, args []string, out io.Writer) error {
	route, err := parseRoute(args)
	if err != nil {
		return err
	}
	km := geospatial.TotalDistance(route)
	eta, err := geospatial.EstimatedArrival(km, sim.CruisingSpeedKnots, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "distance %.2f km, ETA %s at %g knots\n", km, geospatial.FormatClock(eta), sim.CruisingSpeedKnots)
	return nil
}

func classify(args []string, out io.Writer) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: voyage classify <temperature> <pressure> <wind_speed> <wave_height>")
	}
	var v [4]float64
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("argument %d: %w", i+1, err)
		}
		v[i] = f
	}

	labels := hazard.Classify(domain.EnvironmentalReading{
		Temperature: v[0], Pressure: v[1], WindSpeed: v[2], WaveHeight: v[3],
	})
	if len(labels) == 0 {
		fmt.Fprintln(out, "all clear")
		return nil
	}
	for _, l := range labels {
		fmt.Fprintln(out, hazard.DynamicAlert(l))
	}
	return nil
}

func placeHazards(sim config.SimulationConfig, out io.Writer) error {
	placed, err := hazard.NewPlacer(sim.PlacedRadiusKm, nil).Place(sim.HazardCount, sim.Bounds)
	if err != nil {
		return err
	}
	for _, h := range placed {
		fmt.Fprintf(out, "%s at %s (%.0f km)\n", h.Name(), h.Position, h.RadiusKm)
	}
	return nil
}

// simulate sails a straight-line passage through the given waypoints, one
// leg per tick, sampling the sea at every position.
func simulate(ctx context.Context, sim config.SimulationConfig, args []string, out io.Writer) error {
	route, err := parseRoute(args)
	if err != nil {
		return err
	}
	if err := route.Validate(); err != nil {
		return err
	}
	route = densify(route, legKm)

	km := geospatial.TotalDistance(route)
	eta, err := geospatial.EstimatedArrival(km, sim.CruisingSpeedKnots, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "sailing %d waypoints, %.1f km, ETA %s\n", len(route), km, geospatial.FormatClock(eta))

	sampler := hazard.NewRandomSampler(sim.Ranges, nil)
	st := usecases.NewStepper(sim.TickInterval(), nil)
	err = st.Start(route,
		func(i int, w domain.Waypoint) {
			labels := hazard.Classify(sampler.Sample(w))
			fmt.Fprintf(out, "#%d %s", i, w)
			for _, l := range labels {
				fmt.Fprintf(out, "  ! %s", hazard.DynamicAlert(l))
			}
			fmt.Fprintln(out)
		},
		func() { fmt.Fprintln(out, string(domain.StatusArrived)) },
	)
	if err != nil {
		return err
	}

	select {
	case <-st.Done():
	case <-ctx.Done():
		st.Stop()
		return ctx.Err()
	}
	return nil
}

// densify inserts evenly spaced points so no leg is longer than maxKm.
func densify(route domain.Route, maxKm float64) domain.Route {
	if len(route) < 2 {
		return route
	}
	out := domain.Route{route[0]}
	for i := 1; i < len(route); i++ {
		a, b := route[i-1], route[i]
		n := int(math.Ceil(geospatial.Haversine(a.Lat, a.Lon, b.Lat, b.Lon) / maxKm))
		for k := 1; k < n; k++ {
			f := float64(k) / float64(n)
			out = append(out, domain.Waypoint{Lat: a.Lat + f*(b.Lat-a.Lat), Lon: a.Lon + f*(b.Lon-a.Lon)})
		}
		out = append(out, b)
	}
	return out
}
