package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/core/ports"
	"github.com/samirrijal/searoute/internal/pkg/geospatial"
	"github.com/samirrijal/searoute/internal/pkg/hazard"
	"github.com/samirrijal/searoute/internal/pkg/metrics"
	"github.com/samirrijal/searoute/internal/pkg/telemetry"
)

// publishTimeout bounds each event publish, including those made from the
// stepper goroutine.
const publishTimeout = 500 * time.Millisecond

// SessionConfig holds the simulation constants a session runs with.
type SessionConfig struct {
	CruisingSpeedKnots float64
	TickInterval       time.Duration
	HazardCount        int
	PlacementBounds    domain.BoundingBox
	DynamicRadiusKm    float64
	DefaultStart       domain.Waypoint
	DefaultEnd         domain.Waypoint
	DefaultShipType    string
	DefaultSensitivity string
}

// DefaultSessionConfig returns the stock Mumbai to Kolkata setup.
func DefaultSessionConfig() SessionConfig {
	defaults := domain.DefaultPorts()
	return SessionConfig{
		CruisingSpeedKnots: 10,
		TickInterval:       time.Second,
		HazardCount:        3,
		PlacementBounds:    domain.BoundingBox{MinLat: 10, MinLon: 75, MaxLat: 20, MaxLon: 85},
		DynamicRadiusKm:    20,
		DefaultStart:       defaults[0].Location,
		DefaultEnd:         defaults[1].Location,
		DefaultShipType:    "cargo",
		DefaultSensitivity: "high",
	}
}

// VoyageDeps are the collaborators shared by every session.
type VoyageDeps struct {
	Routes    ports.RouteProvider
	Publisher ports.EventPublisher // optional
	Sampler   ports.EnvironmentSampler
	Placer    ports.HazardPlacer
	Tickers   TickerFactory // optional, defaults to real tickers
	Now       func() time.Time
}

// Session is the state of one voyage: the inputs, the computed route, the
// hazards on the map and the animation driving the ship.
//
// ctrl serialises StartSimulation and Reset so stepper runs never
// interleave. mu guards the display state and is never held while calling
// the route service or stopping the stepper.
type Session struct {
	id      string
	cfg     SessionConfig
	deps    VoyageDeps
	stepper *Stepper

	ctrl sync.Mutex

	mu         sync.Mutex
	generation uint64 // bumped by every route request and by Reset
	run        uint64 // bumped by every stepper start and by Reset
	request    domain.RouteRequest
	status     domain.RouteStatus
	route      domain.Route
	current    *domain.Waypoint
	distanceKm float64
	eta        time.Time
	speed      float64
	alerts     []string
	hazards    []domain.SimulatedHazard
	hazardN    int
	updatedAt  time.Time
}

// NewSession creates a session in its reset state.
func NewSession(id string, cfg SessionConfig, deps VoyageDeps) *Session {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Session{
		id:      id,
		cfg:     cfg,
		deps:    deps,
		stepper: NewStepper(cfg.TickInterval, deps.Tickers),
	}
	s.restoreDefaultsLocked()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Stepper exposes the animation driver, mainly so callers can wait on Done.
func (s *Session) Stepper() *Stepper { return s.stepper }

// CalculateRoute asks the route service for a route and makes it active.
// Empty ship type or sensitivity fall back to the defaults. A response for
// a request that was superseded while in flight is dropped with
// ErrStaleResponse.
func (s *Session) CalculateRoute(ctx context.Context, req domain.RouteRequest) (domain.VoyageSnapshot, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanCalculateRoute)
	defer span.End()

	if req.ShipType == "" {
		req.ShipType = s.cfg.DefaultShipType
	}
	if req.HazardSensitivity == "" {
		req.HazardSensitivity = s.cfg.DefaultSensitivity
	}
	req.AvoidHazards = false
	if err := req.Validate(); err != nil {
		return domain.VoyageSnapshot{}, fmt.Errorf("route request: %w", err)
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()
	span.SetAttributes(attribute.String("voyage.id", s.id), attribute.Int64("voyage.generation", int64(gen)))

	route, err := s.deps.Routes.ComputeRoute(ctx, req)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		metrics.StaleResponses.Inc()
		span.SetStatus(codes.Error, "stale")
		return domain.VoyageSnapshot{}, domain.ErrStaleResponse
	}
	if err != nil {
		s.mu.Unlock()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.VoyageSnapshot{}, err
	}

	s.request = req
	s.route = route
	s.status = domain.StatusActive
	start := req.Start
	s.current = &start
	s.speed = s.cfg.CruisingSpeedKnots
	if err := s.updateDistanceLocked(); err != nil {
		s.mu.Unlock()
		return domain.VoyageSnapshot{}, err
	}
	s.touchLocked()
	ev := s.eventLocked(domain.EventRoute)
	ev.Route = route
	snap := s.snapshotLocked()
	s.mu.Unlock()

	slog.InfoContext(ctx, "route calculated",
		"voyage", s.id, "points", len(route), "distance_km", snap.DistanceKm, "eta", snap.ETA)
	s.publish(ctx, ev)
	return snap, nil
}

// SimulateHazards replaces the placed hazards and, when a route is active,
// asks the route service for a route that avoids them.
func (s *Session) SimulateHazards(ctx context.Context) (domain.VoyageSnapshot, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanSimulateHazards)
	defer span.End()
	span.SetAttributes(attribute.String("voyage.id", s.id))

	placed, err := s.deps.Placer.Place(s.cfg.HazardCount, s.cfg.PlacementBounds)
	if err != nil {
		return domain.VoyageSnapshot{}, fmt.Errorf("place hazards: %w", err)
	}
	for _, h := range placed {
		metrics.HazardsPlaced.WithLabelValues(string(h.Type)).Inc()
	}

	s.mu.Lock()
	s.hazards = placed
	s.alerts = make([]string, 0, len(placed))
	for _, h := range placed {
		s.alerts = append(s.alerts, hazard.PlacedAlert(h))
	}
	s.hazardN = len(placed)
	s.status = domain.StatusHazardAvoidance
	s.touchLocked()
	hazEv := s.eventLocked(domain.EventHazards)
	hazEv.Hazards = placed

	var (
		reroute bool
		gen     uint64
		req     domain.RouteRequest
	)
	if len(s.route) > 0 {
		reroute = true
		s.generation++
		gen = s.generation
		req = s.request
		req.AvoidHazards = true
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(ctx, hazEv)
	if !reroute {
		return snap, nil
	}

	route, err := s.deps.Routes.ComputeRoute(ctx, req)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		metrics.StaleResponses.Inc()
		return domain.VoyageSnapshot{}, domain.ErrStaleResponse
	}
	if err != nil {
		s.mu.Unlock()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.VoyageSnapshot{}, err
	}
	s.route = route
	if err := s.updateDistanceLocked(); err != nil {
		s.mu.Unlock()
		return domain.VoyageSnapshot{}, err
	}
	s.touchLocked()
	routeEv := s.eventLocked(domain.EventRoute)
	routeEv.Route = route
	snap = s.snapshotLocked()
	s.mu.Unlock()

	slog.InfoContext(ctx, "route adjusted for hazards", "voyage", s.id, "hazards", len(placed), "points", len(route))
	s.publish(ctx, routeEv)
	return snap, nil
}

// StartSimulation sails the ship along the active route, one waypoint per
// tick. A run already in progress is replaced. Without a route it returns
// ErrNoActiveRoute and changes nothing.
func (s *Session) StartSimulation(ctx context.Context) (domain.VoyageSnapshot, error) {
	_, span := telemetry.Tracer().Start(ctx, telemetry.SpanStartSimulation)
	defer span.End()
	span.SetAttributes(attribute.String("voyage.id", s.id))

	s.ctrl.Lock()
	defer s.ctrl.Unlock()

	s.mu.Lock()
	if len(s.route) == 0 {
		s.mu.Unlock()
		return domain.VoyageSnapshot{}, domain.ErrNoActiveRoute
	}
	s.mu.Unlock()

	s.stepper.Stop()

	s.mu.Lock()
	if len(s.route) == 0 {
		s.mu.Unlock()
		return domain.VoyageSnapshot{}, domain.ErrNoActiveRoute
	}
	s.run++
	runID := s.run
	route := append(domain.Route(nil), s.route...)
	s.hazards = nil
	s.alerts = nil
	s.hazardN = 0
	first := route[0]
	s.current = &first
	s.status = domain.StatusActive
	s.speed = s.cfg.CruisingSpeedKnots
	s.touchLocked()
	s.mu.Unlock()

	err := s.stepper.Start(route,
		func(i int, w domain.Waypoint) { s.onStep(runID, i, w) },
		func() { s.onArrive(runID) },
	)
	if err != nil {
		return domain.VoyageSnapshot{}, err
	}

	slog.InfoContext(ctx, "simulation started", "voyage", s.id, "points", len(route))
	return s.Snapshot(), nil
}

func (s *Session) onStep(runID uint64, index int, pos domain.Waypoint) {
	reading := s.deps.Sampler.Sample(pos)
	labels := hazard.Classify(reading)
	metrics.VoyageTicks.Inc()
	for _, l := range labels {
		metrics.HazardsDetected.WithLabelValues(string(l)).Inc()
	}

	s.mu.Lock()
	if runID != s.run {
		s.mu.Unlock()
		return
	}
	p := pos
	s.current = &p
	s.speed = s.cfg.CruisingSpeedKnots
	s.alerts = make([]string, 0, len(labels))
	for _, l := range labels {
		s.alerts = append(s.alerts, hazard.DynamicAlert(l))
	}
	s.hazardN = len(labels)
	if len(labels) > 0 {
		s.hazards = append(s.hazards, hazard.Dynamic(reading, labels, s.cfg.DynamicRadiusKm))
	}
	s.touchLocked()
	ev := s.eventLocked(domain.EventPosition)
	ev.Index = index
	ev.Reading = &reading
	ev.Labels = labels
	s.mu.Unlock()

	s.publish(context.Background(), ev)
}

func (s *Session) onArrive(runID uint64) {
	s.mu.Lock()
	if runID != s.run {
		s.mu.Unlock()
		return
	}
	s.speed = 0
	s.status = domain.StatusArrived
	s.alerts = nil
	s.hazardN = 0
	s.touchLocked()
	ev := s.eventLocked(domain.EventArrived)
	ev.Index = len(s.route) - 1
	s.mu.Unlock()

	slog.Info("voyage arrived", "voyage", s.id)
	s.publish(context.Background(), ev)
}

// Reset stops the animation, drops any in-flight route response and
// restores the default inputs.
func (s *Session) Reset(ctx context.Context) domain.VoyageSnapshot {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanReset)
	defer span.End()
	span.SetAttributes(attribute.String("voyage.id", s.id))

	s.ctrl.Lock()
	defer s.ctrl.Unlock()

	s.mu.Lock()
	s.run++
	s.generation++
	s.mu.Unlock()

	s.stepper.Stop()

	s.mu.Lock()
	s.restoreDefaultsLocked()
	ev := s.eventLocked(domain.EventReset)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(ctx, ev)
	return snap
}

// Snapshot returns a consistent copy of the display state.
func (s *Session) Snapshot() domain.VoyageSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) restoreDefaultsLocked() {
	s.request = domain.RouteRequest{
		Start:             s.cfg.DefaultStart,
		End:               s.cfg.DefaultEnd,
		ShipType:          s.cfg.DefaultShipType,
		HazardSensitivity: s.cfg.DefaultSensitivity,
	}
	s.status = domain.StatusNotCalculated
	s.route = nil
	start := s.cfg.DefaultStart
	s.current = &start
	s.distanceKm = 0
	s.eta = time.Time{}
	s.speed = 0
	s.alerts = nil
	s.hazards = nil
	s.hazardN = 0
	s.touchLocked()
}

func (s *Session) updateDistanceLocked() error {
	s.distanceKm = geospatial.TotalDistance(s.route)
	eta, err := geospatial.EstimatedArrival(s.distanceKm, s.cfg.CruisingSpeedKnots, s.deps.Now())
	if err != nil {
		return err
	}
	s.eta = eta
	return nil
}

// idleSince reports whether the animation is idle and nothing has changed
// since before cutoff.
func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepper.State() == domain.StepperIdle && s.updatedAt.Before(cutoff)
}

func (s *Session) touchLocked() {
	s.updatedAt = s.deps.Now()
}

func (s *Session) eventLocked(t domain.EventType) *domain.VoyageEvent {
	ev := &domain.VoyageEvent{
		Type:       t,
		VoyageID:   s.id,
		Generation: s.generation,
		Status:     s.status,
		SpeedKnots: s.speed,
		Time:       s.deps.Now(),
	}
	if s.current != nil {
		p := *s.current
		ev.Position = &p
	}
	return ev
}

func (s *Session) snapshotLocked() domain.VoyageSnapshot {
	snap := domain.VoyageSnapshot{
		ID:                s.id,
		Status:            s.status,
		Start:             s.request.Start,
		Destination:       s.request.End,
		ShipType:          s.request.ShipType,
		HazardSensitivity: s.request.HazardSensitivity,
		Route:             append(domain.Route(nil), s.route...),
		DistanceKm:        s.distanceKm,
		SpeedKnots:        s.speed,
		HazardCount:       s.hazardN,
		Alerts:            append([]string{}, s.alerts...),
		Hazards:           append([]domain.SimulatedHazard{}, s.hazards...),
		Stepper:           s.stepper.State(),
		Generation:        s.generation,
		UpdatedAt:         s.updatedAt,
	}
	if s.current != nil {
		p := *s.current
		snap.CurrentPosition = &p
	}
	if !s.eta.IsZero() {
		snap.ETA = geospatial.FormatClock(s.eta)
	}
	return snap
}

func (s *Session) publish(ctx context.Context, ev *domain.VoyageEvent) {
	if s.deps.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.deps.Publisher.PublishVoyageEvent(ctx, ev); err != nil {
		metrics.EventsPublished.WithLabelValues(string(ev.Type), "error").Inc()
		if !errors.Is(err, context.Canceled) {
			slog.Warn("publish voyage event failed", "voyage", s.id, "type", ev.Type, "error", err)
		}
		return
	}
	metrics.EventsPublished.WithLabelValues(string(ev.Type), "ok").Inc()
}
