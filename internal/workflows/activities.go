package workflows

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/core/ports"
	"github.com/samirrijal/searoute/internal/pkg/hazard"
	"github.com/samirrijal/searoute/internal/pkg/metrics"
)

// AssessInput identifies the position the ship just reached.
type AssessInput struct {
	VoyageID   string
	Index      int
	Position   domain.Waypoint
	SpeedKnots float64
}

// PositionReport is the outcome of assessing one position.
type PositionReport struct {
	Reading domain.EnvironmentalReading
	Labels  []domain.HazardLabel
	Alerts  []string
	Hazard  *domain.SimulatedHazard // nil when conditions are calm
}

// ArrivalInput identifies the final waypoint of a voyage.
type ArrivalInput struct {
	VoyageID string
	Index    int
	Position domain.Waypoint
}

// VoyageActivities holds the activity implementations for the voyage workflow.
type VoyageActivities struct {
	Sampler         ports.EnvironmentSampler
	Publisher       ports.EventPublisher // optional
	DynamicRadiusKm float64
	Now             func() time.Time
}

func (a *VoyageActivities) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// AssessPosition samples the environment at the ship's position, classifies
// it and publishes the position event.
func (a *VoyageActivities) AssessPosition(ctx context.Context, in AssessInput) (PositionReport, error) {
	reading := a.Sampler.Sample(in.Position)
	labels := hazard.Classify(reading)
	metrics.VoyageTicks.Inc()

	report := PositionReport{
		Reading: reading,
		Labels:  labels,
		Alerts:  make([]string, 0, len(labels)),
	}
	for _, l := range labels {
		metrics.HazardsDetected.WithLabelValues(string(l)).Inc()
		report.Alerts = append(report.Alerts, hazard.DynamicAlert(l))
	}
	if len(labels) > 0 {
		h := hazard.Dynamic(reading, labels, a.DynamicRadiusKm)
		report.Hazard = &h
	}

	pos := in.Position
	ev := &domain.VoyageEvent{
		Type:       domain.EventPosition,
		VoyageID:   in.VoyageID,
		Index:      in.Index,
		Position:   &pos,
		Reading:    &reading,
		Labels:     labels,
		Status:     domain.StatusActive,
		SpeedKnots: in.SpeedKnots,
		Time:       a.now(),
	}
	if err := a.publish(ctx, ev); err != nil {
		return PositionReport{}, err
	}
	return report, nil
}

// PublishArrival announces that the ship reached its destination.
func (a *VoyageActivities) PublishArrival(ctx context.Context, in ArrivalInput) error {
	pos := in.Position
	return a.publish(ctx, &domain.VoyageEvent{
		Type:     domain.EventArrived,
		VoyageID: in.VoyageID,
		Index:    in.Index,
		Position: &pos,
		Status:   domain.StatusArrived,
		Time:     a.now(),
	})
}

func (a *VoyageActivities) publish(ctx context.Context, ev *domain.VoyageEvent) error {
	if a.Publisher == nil {
		slog.DebugContext(ctx, "voyage event (no publisher)", "voyage", ev.VoyageID, "type", ev.Type)
		return nil
	}
	if err := a.Publisher.PublishVoyageEvent(ctx, ev); err != nil {
		return fmt.Errorf("publish %s event: %w", ev.Type, err)
	}
	return nil
}
