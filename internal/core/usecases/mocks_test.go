package usecases_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/core/usecases"
)

// --- Mock RouteProvider ---

type mockRouteProvider struct {
	mu        sync.Mutex
	calls     []domain.RouteRequest
	computeFn func(ctx context.Context, req domain.RouteRequest) (domain.Route, error)
}

func (m *mockRouteProvider) ComputeRoute(ctx context.Context, req domain.RouteRequest) (domain.Route, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	if m.computeFn != nil {
		return m.computeFn(ctx, req)
	}
	return domain.Route{req.Start, req.End}, nil
}

func (m *mockRouteProvider) Calls() []domain.RouteRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.RouteRequest(nil), m.calls...)
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu     sync.Mutex
	events []*domain.VoyageEvent
	ch     chan *domain.VoyageEvent
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{ch: make(chan *domain.VoyageEvent, 256)}
}

func (m *mockPublisher) PublishVoyageEvent(ctx context.Context, ev *domain.VoyageEvent) error {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
	m.ch <- ev
	return nil
}

func (m *mockPublisher) Count(t domain.EventType) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, ev := range m.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

// waitFor drains events until one of type t arrives.
func (m *mockPublisher) waitFor(t *testing.T, typ domain.EventType) *domain.VoyageEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-m.ch:
			if ev.Type == typ {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", typ)
			return nil
		}
	}
}

// --- Fake sampler and placer ---

type fakeSampler struct {
	reading domain.EnvironmentalReading
}

func (f *fakeSampler) Sample(pos domain.Waypoint) domain.EnvironmentalReading {
	r := f.reading
	r.Position = pos
	return r
}

var calmReading = domain.EnvironmentalReading{Temperature: 25, Pressure: 1010, WindSpeed: 10, WaveHeight: 1}

type fakePlacer struct {
	hazards []domain.SimulatedHazard
	err     error
}

func (f *fakePlacer) Place(count int, bounds domain.BoundingBox) ([]domain.SimulatedHazard, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hazards[:count], nil
}

// --- Fake ticker ---

type fakeTicker struct {
	ch chan time.Time
}

func newFakeTicker() *fakeTicker { return &fakeTicker{ch: make(chan time.Time)} }

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               {}

func (f *fakeTicker) factory() usecases.TickerFactory {
	return func(time.Duration) usecases.Ticker { return f }
}

// tick delivers one tick, failing if nobody is listening.
func (f *fakeTicker) tick(t *testing.T) {
	t.Helper()
	select {
	case f.ch <- time.Now():
	case <-time.After(2 * time.Second):
		t.Fatal("tick was not consumed")
	}
}

// tryTick reports whether a tick was consumed within a short window.
func (f *fakeTicker) tryTick() bool {
	select {
	case f.ch <- time.Now():
		return true
	case <-time.After(50 * time.Millisecond):
		return false
	}
}

func waitDone(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for run to finish")
	}
}
