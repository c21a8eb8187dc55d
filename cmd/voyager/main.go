// Command voyager runs voyages as durable Temporal workflows and follows
// their events on the bus.
//
//	voyager worker
//	voyager start <lat,lon> <lat,lon> [ship_type]
//	voyager status <workflow-id>
//	voyager cancel <workflow-id>
//	voyager watch [voyage-id]
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/searoute/internal/adapters/nats"
	"github.com/samirrijal/searoute/internal/adapters/routing"
	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/core/ports"
	"github.com/samirrijal/searoute/internal/pkg/config"
	"github.com/samirrijal/searoute/internal/pkg/hazard"
	"github.com/samirrijal/searoute/internal/pkg/logging"
	"github.com/samirrijal/searoute/internal/workflows"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: voyager <worker|start|status|cancel|watch> [args]")
	}

	cfg, err := config.Load("searoute-voyager")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Telemetry.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	args := os.Args[2:]
	switch os.Args[1] {
	case "worker":
		err = runWorker(cfg)
	case "start":
		err = startVoyage(ctx, cfg, args)
	case "status":
		err = voyageStatus(ctx, cfg, args)
	case "cancel":
		err = cancelVoyage(ctx, cfg, args)
	case "watch":
		err = watch(ctx, cfg, args)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func dial(cfg *config.Config) (client.Client, error) {
	return client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
}

func runWorker(cfg *config.Config) error {
	c, err := dial(cfg)
	if err != nil {
		return fmt.Errorf("temporal client: %w", err)
	}
	defer c.Close()

	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, voyage events will only be logged", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.VoyageWorkflow)
	w.RegisterActivity(&workflows.VoyageActivities{
		Sampler:         hazard.NewRandomSampler(cfg.Simulation.Ranges, nil),
		Publisher:       publisher,
		DynamicRadiusKm: cfg.Simulation.DynamicRadiusKm,
	})

	slog.Info("voyager worker started", "task_queue", cfg.Temporal.TaskQueue)
	return w.Run(worker.InterruptCh())
}

func startVoyage(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: voyager start <lat,lon> <lat,lon> [ship_type]")
	}
	start, err := domain.ParseWaypoint(args[0])
	if err != nil {
		return err
	}
	end, err := domain.ParseWaypoint(args[1])
	if err != nil {
		return err
	}
	req := domain.RouteRequest{
		Start:             start,
		End:               end,
		ShipType:          cfg.Simulation.DefaultShipType,
		HazardSensitivity: cfg.Simulation.DefaultSensitivity,
	}
	if len(args) > 2 {
		req.ShipType = args[2]
	}

	route, err := routing.NewClient(cfg.Routing.URL, cfg.Routing.Timeout()).ComputeRoute(ctx, req)
	if err != nil {
		return err
	}

	c, err := dial(cfg)
	if err != nil {
		return fmt.Errorf("temporal client: %w", err)
	}
	defer c.Close()

	voyageID := uuid.NewString()
	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        "voyage-" + voyageID,
		TaskQueue: cfg.Temporal.TaskQueue,
	}, workflows.VoyageWorkflow, workflows.VoyageInput{
		VoyageID:           voyageID,
		Route:              route,
		TickInterval:       cfg.Simulation.TickInterval(),
		CruisingSpeedKnots: cfg.Simulation.CruisingSpeedKnots,
	})
	if err != nil {
		return fmt.Errorf("start workflow: %w", err)
	}

	fmt.Printf("voyage %s started: workflow %s run %s (%d waypoints)\n", voyageID, run.GetID(), run.GetRunID(), len(route))
	return nil
}

func voyageStatus(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: voyager status <workflow-id>")
	}
	c, err := dial(cfg)
	if err != nil {
		return fmt.Errorf("temporal client: %w", err)
	}
	defer c.Close()

	val, err := c.QueryWorkflow(ctx, args[0], "", workflows.QueryProgress)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	var p workflows.VoyageProgress
	if err := val.Get(&p); err != nil {
		return err
	}

	fmt.Printf("voyage %s: waypoint %d at %s, %.1f km total, arrived=%v\n",
		p.VoyageID, p.Index, p.Position, p.DistanceKm, p.Arrived)
	for _, a := range p.Alerts {
		fmt.Printf("  ! %s\n", a)
	}
	return nil
}

func cancelVoyage(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: voyager cancel <workflow-id>")
	}
	c, err := dial(cfg)
	if err != nil {
		return fmt.Errorf("temporal client: %w", err)
	}
	defer c.Close()

	if err := c.CancelWorkflow(ctx, args[0], ""); err != nil {
		return err
	}
	fmt.Printf("cancel requested for %s\n", args[0])
	return nil
}

func watch(ctx context.Context, cfg *config.Config, args []string) error {
	voyageID := ""
	if len(args) > 0 {
		voyageID = args[0]
	}

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		return err
	}
	defer sub.Close()

	err = sub.SubscribeVoyageEvents(ctx, voyageID, func(ctx context.Context, ev *domain.VoyageEvent) error {
		switch ev.Type {
		case domain.EventPosition:
			fmt.Printf("%s %s #%d %s %v\n", ev.Time.Format("15:04:05"), ev.VoyageID, ev.Index, ev.Position, ev.Labels)
		default:
			fmt.Printf("%s %s %s %s\n", ev.Time.Format("15:04:05"), ev.VoyageID, ev.Type, ev.Status)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	slog.Info("watching voyage events", "filter", natsadapter.VoyageFilter(voyageID))
	<-ctx.Done()
	return nil
}
