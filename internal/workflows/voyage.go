package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/pkg/geospatial"
)

const (
	// QueryProgress returns the VoyageProgress of a running voyage.
	QueryProgress = "progress"

	errTypeNoActiveRoute = "NoActiveRoute"
)

// VoyageInput is the input for the voyage workflow.
type VoyageInput struct {
	VoyageID           string
	Route              domain.Route
	TickInterval       time.Duration
	CruisingSpeedKnots float64
}

// VoyageProgress is what the progress query and the workflow result report.
type VoyageProgress struct {
	VoyageID    string
	Index       int
	Position    domain.Waypoint
	DistanceKm  float64
	Alerts      []string
	Hazards     []domain.SimulatedHazard
	HazardsSeen int
	Arrived     bool
}

// VoyageWorkflow is the durable version of the ship animation: it sleeps one
// tick per waypoint, assesses conditions at each position and publishes the
// arrival. A voyage survives worker restarts and can be cancelled like any
// other workflow.
func VoyageWorkflow(ctx workflow.Context, input VoyageInput) (VoyageProgress, error) {
	logger := workflow.GetLogger(ctx)

	if len(input.Route) == 0 {
		return VoyageProgress{}, temporal.NewNonRetryableApplicationError(
			"voyage has no route", errTypeNoActiveRoute, domain.ErrNoActiveRoute)
	}
	if err := input.Route.Validate(); err != nil {
		return VoyageProgress{}, temporal.NewNonRetryableApplicationError(
			err.Error(), "InvalidRoute", err)
	}
	if input.TickInterval <= 0 {
		input.TickInterval = time.Second
	}

	progress := VoyageProgress{
		VoyageID:   input.VoyageID,
		Position:   input.Route[0],
		DistanceKm: geospatial.TotalDistance(input.Route),
	}
	if err := workflow.SetQueryHandler(ctx, QueryProgress, func() (VoyageProgress, error) {
		return progress, nil
	}); err != nil {
		return progress, fmt.Errorf("register progress query: %w", err)
	}

	logger.Info("Starting voyage workflow", "voyageID", input.VoyageID, "points", len(input.Route))

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	})

	for i := 1; i < len(input.Route); i++ {
		if err := workflow.Sleep(ctx, input.TickInterval); err != nil {
			return progress, err
		}

		var report PositionReport
		err := workflow.ExecuteActivity(ctx, "AssessPosition", AssessInput{
			VoyageID:   input.VoyageID,
			Index:      i,
			Position:   input.Route[i],
			SpeedKnots: input.CruisingSpeedKnots,
		}).Get(ctx, &report)
		if err != nil {
			return progress, err
		}

		progress.Index = i
		progress.Position = input.Route[i]
		progress.Alerts = report.Alerts
		if report.Hazard != nil {
			progress.Hazards = append(progress.Hazards, *report.Hazard)
			progress.HazardsSeen += len(report.Hazard.Labels)
		}
	}

	err := workflow.ExecuteActivity(ctx, "PublishArrival", ArrivalInput{
		VoyageID: input.VoyageID,
		Index:    len(input.Route) - 1,
		Position: input.Route[len(input.Route)-1],
	}).Get(ctx, nil)
	if err != nil {
		// Arrival is already durable in the workflow result.
		logger.Warn("arrival event not published", "error", err)
	}

	progress.Alerts = nil
	progress.Arrived = true
	logger.Info("Voyage arrived", "voyageID", input.VoyageID, "hazards", len(progress.Hazards))
	return progress, nil
}
