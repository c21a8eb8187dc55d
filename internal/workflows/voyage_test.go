package workflows_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/workflows"
)

type stubSampler struct {
	reading domain.EnvironmentalReading
}

func (s *stubSampler) Sample(pos domain.Waypoint) domain.EnvironmentalReading {
	r := s.reading
	r.Position = pos
	return r
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.VoyageEvent
	err    error
}

func (p *recordingPublisher) PublishVoyageEvent(ctx context.Context, ev *domain.VoyageEvent) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *ev)
	return nil
}

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

var (
	calm  = domain.EnvironmentalReading{Temperature: 25, Pressure: 1010, WindSpeed: 10, WaveHeight: 1}
	storm = domain.EnvironmentalReading{Temperature: 25, Pressure: 980, WindSpeed: 45, WaveHeight: 4}
)

func voyageRoute() domain.Route {
	return domain.Route{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 0, Lon: 2}, {Lat: 0, Lon: 3}}
}

func TestVoyageWorkflow_Arrives(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	pub := &recordingPublisher{}
	env.RegisterActivity(&workflows.VoyageActivities{Sampler: &stubSampler{reading: calm}, Publisher: pub, DynamicRadiusKm: 20})

	env.ExecuteWorkflow(workflows.VoyageWorkflow, workflows.VoyageInput{
		VoyageID:           "v1",
		Route:              voyageRoute(),
		TickInterval:       time.Second,
		CruisingSpeedKnots: 10,
	})

	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var res workflows.VoyageProgress
	if err := env.GetWorkflowResult(&res); err != nil {
		t.Fatal(err)
	}
	if !res.Arrived || res.Index != 3 {
		t.Errorf("expected arrival at index 3, got %+v", res)
	}
	if res.Position != (domain.Waypoint{Lat: 0, Lon: 3}) {
		t.Errorf("expected final position 0,3, got %v", res.Position)
	}
	if len(res.Hazards) != 0 {
		t.Errorf("calm voyage should raise no hazards, got %d", len(res.Hazards))
	}

	want := []domain.EventType{domain.EventPosition, domain.EventPosition, domain.EventPosition, domain.EventArrived}
	got := pub.types()
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestVoyageWorkflow_DynamicHazards(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivity(&workflows.VoyageActivities{Sampler: &stubSampler{reading: storm}, DynamicRadiusKm: 20})

	env.ExecuteWorkflow(workflows.VoyageWorkflow, workflows.VoyageInput{VoyageID: "v2", Route: voyageRoute()})

	var res workflows.VoyageProgress
	if err := env.GetWorkflowResult(&res); err != nil {
		t.Fatal(err)
	}
	if len(res.Hazards) != 3 {
		t.Fatalf("expected one dynamic hazard per step, got %d", len(res.Hazards))
	}
	h := res.Hazards[0]
	if h.Source != domain.SourceDynamic || h.RadiusKm != 20 {
		t.Errorf("unexpected hazard %+v", h)
	}
	if len(h.Labels) != 3 {
		t.Errorf("expected low pressure, strong winds and high waves, got %v", h.Labels)
	}
	if res.HazardsSeen != 9 {
		t.Errorf("expected 9 labels seen, got %d", res.HazardsSeen)
	}
	if res.Alerts != nil {
		t.Errorf("alerts must clear on arrival, got %v", res.Alerts)
	}
}

func TestVoyageWorkflow_SinglePoint(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	pub := &recordingPublisher{}
	env.RegisterActivity(&workflows.VoyageActivities{Sampler: &stubSampler{reading: calm}, Publisher: pub})

	env.ExecuteWorkflow(workflows.VoyageWorkflow, workflows.VoyageInput{VoyageID: "v3", Route: domain.Route{{Lat: 1, Lon: 1}}})

	var res workflows.VoyageProgress
	if err := env.GetWorkflowResult(&res); err != nil {
		t.Fatal(err)
	}
	if !res.Arrived || res.Index != 0 {
		t.Errorf("expected immediate arrival, got %+v", res)
	}
	if got := pub.types(); len(got) != 1 || got[0] != domain.EventArrived {
		t.Errorf("expected only an arrival event, got %v", got)
	}
}

func TestVoyageWorkflow_EmptyRoute(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivity(&workflows.VoyageActivities{Sampler: &stubSampler{}})

	env.ExecuteWorkflow(workflows.VoyageWorkflow, workflows.VoyageInput{VoyageID: "v4"})

	err := env.GetWorkflowError()
	if err == nil {
		t.Fatal("expected an error for an empty route")
	}
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected application error, got %T: %v", err, err)
	}
	if appErr.Type() != "NoActiveRoute" || !appErr.NonRetryable() {
		t.Errorf("expected non-retryable NoActiveRoute, got %q (non-retryable=%v)", appErr.Type(), appErr.NonRetryable())
	}
}

func TestVoyageWorkflow_ProgressQuery(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivity(&workflows.VoyageActivities{Sampler: &stubSampler{reading: calm}})

	// Query after the first tick, before the second one fires.
	env.RegisterDelayedCallback(func() {
		val, err := env.QueryWorkflow(workflows.QueryProgress)
		if err != nil {
			t.Errorf("query: %v", err)
			return
		}
		var p workflows.VoyageProgress
		if err := val.Get(&p); err != nil {
			t.Errorf("decode progress: %v", err)
			return
		}
		if p.Index != 1 || p.Arrived {
			t.Errorf("expected in-flight progress at index 1, got %+v", p)
		}
	}, 1500*time.Millisecond)

	env.ExecuteWorkflow(workflows.VoyageWorkflow, workflows.VoyageInput{
		VoyageID:     "v5",
		Route:        voyageRoute(),
		TickInterval: time.Second,
	})
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAssessPosition_PublishFailure(t *testing.T) {
	a := &workflows.VoyageActivities{
		Sampler:   &stubSampler{reading: calm},
		Publisher: &recordingPublisher{err: errors.New("nats down")},
	}
	_, err := a.AssessPosition(context.Background(), workflows.AssessInput{VoyageID: "v6", Index: 1})
	if err == nil {
		t.Fatal("expected publish error to surface so the activity retries")
	}
}
