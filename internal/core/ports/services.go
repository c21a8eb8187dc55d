package ports

import (
	"context"

	"github.com/samirrijal/searoute/internal/core/domain"
)

// RouteProvider computes a sea route between two points.
type RouteProvider interface {
	ComputeRoute(ctx context.Context, req domain.RouteRequest) (domain.Route, error)
}

// EventPublisher publishes voyage events to a message broker.
type EventPublisher interface {
	PublishVoyageEvent(ctx context.Context, event *domain.VoyageEvent) error
}

// EventSubscriber subscribes to voyage events from a message broker.
// An empty voyageID subscribes to every voyage.
type EventSubscriber interface {
	SubscribeVoyageEvents(ctx context.Context, voyageID string, handler func(ctx context.Context, event *domain.VoyageEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// EnvironmentSampler produces a simulated reading for a position.
type EnvironmentSampler interface {
	Sample(position domain.Waypoint) domain.EnvironmentalReading
}

// HazardPlacer scatters hazard markers inside a bounding box.
type HazardPlacer interface {
	Place(count int, bounds domain.BoundingBox) ([]domain.SimulatedHazard, error)
}
