package usecases_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/core/usecases"
)

func newVoyageService() (*usecases.VoyageService, *fakeTicker) {
	ft := newFakeTicker()
	svc := usecases.NewVoyageService(usecases.DefaultSessionConfig(), usecases.VoyageDeps{
		Routes:  &mockRouteProvider{},
		Sampler: &fakeSampler{reading: calmReading},
		Placer:  &fakePlacer{},
		Tickers: ft.factory(),
		Now:     func() time.Time { return fixedNow },
	})
	return svc, ft
}

func TestVoyageService_CreateGet(t *testing.T) {
	svc, _ := newVoyageService()
	sess, err := svc.Create(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.ID() == "" {
		t.Fatal("expected generated id")
	}

	got, err := svc.Get(sess.ID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != sess {
		t.Error("expected same session back")
	}
}

func TestVoyageService_GetUnknown(t *testing.T) {
	svc, _ := newVoyageService()
	if _, err := svc.Get("nope"); !errors.Is(err, domain.ErrVoyageNotFound) {
		t.Errorf("expected ErrVoyageNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), "nope"); !errors.Is(err, domain.ErrVoyageNotFound) {
		t.Errorf("expected ErrVoyageNotFound, got %v", err)
	}
}

func TestVoyageService_DeleteStopsSimulation(t *testing.T) {
	svc, ft := newVoyageService()
	ctx := context.Background()
	sess, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := sess.CalculateRoute(ctx, equatorRequest()); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if _, err := sess.StartSimulation(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := svc.Delete(ctx, sess.ID()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if sess.Stepper().State() != domain.StepperIdle {
		t.Error("expected stepper stopped on delete")
	}
	if ft.tryTick() {
		t.Error("tick consumed after delete")
	}
	if _, err := svc.Get(sess.ID()); !errors.Is(err, domain.ErrVoyageNotFound) {
		t.Errorf("expected deleted voyage to be gone, got %v", err)
	}
}

func TestVoyageService_List(t *testing.T) {
	svc, _ := newVoyageService()
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := svc.Create(ctx); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list := svc.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 voyages, got %d", len(list))
	}
	if list[0].ID > list[1].ID {
		t.Error("expected voyages ordered by id")
	}
	svc.Shutdown()
}

// clock is a settable time source shared by the registry and its sessions.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newLimitedVoyageService(clk *clock, opts ...usecases.Option) (*usecases.VoyageService, *fakeTicker) {
	ft := newFakeTicker()
	svc := usecases.NewVoyageService(usecases.DefaultSessionConfig(), usecases.VoyageDeps{
		Routes:  &mockRouteProvider{},
		Sampler: &fakeSampler{reading: calmReading},
		Placer:  &fakePlacer{},
		Tickers: ft.factory(),
		Now:     clk.Now,
	}, opts...)
	return svc, ft
}

func TestVoyageService_MaxVoyages(t *testing.T) {
	clk := &clock{now: fixedNow}
	svc, _ := newLimitedVoyageService(clk, usecases.WithMaxVoyages(2))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Create(ctx); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	if _, err := svc.Create(ctx); !errors.Is(err, domain.ErrVoyageLimit) {
		t.Errorf("expected ErrVoyageLimit, got %v", err)
	}
	if got := len(svc.List()); got != 2 {
		t.Errorf("expected 2 voyages, got %d", got)
	}
}

func TestVoyageService_SweepExpiresIdle(t *testing.T) {
	clk := &clock{now: fixedNow}
	svc, _ := newLimitedVoyageService(clk, usecases.WithIdleTTL(time.Hour))
	ctx := context.Background()

	old, _ := svc.Create(ctx)
	clk.Advance(45 * time.Minute)
	fresh, _ := svc.Create(ctx)
	clk.Advance(30 * time.Minute)

	if n := svc.Sweep(ctx); n != 1 {
		t.Fatalf("expected 1 expired voyage, got %d", n)
	}
	if _, err := svc.Get(old.ID()); !errors.Is(err, domain.ErrVoyageNotFound) {
		t.Errorf("expected idle voyage to be gone, got %v", err)
	}
	if _, err := svc.Get(fresh.ID()); err != nil {
		t.Errorf("expected recent voyage to survive, got %v", err)
	}
}

func TestVoyageService_SweepKeepsRunning(t *testing.T) {
	clk := &clock{now: fixedNow}
	svc, _ := newLimitedVoyageService(clk, usecases.WithIdleTTL(time.Minute))
	ctx := context.Background()

	sess, _ := svc.Create(ctx)
	if _, err := sess.CalculateRoute(ctx, equatorRequest()); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if _, err := sess.StartSimulation(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer svc.Shutdown()

	clk.Advance(time.Hour)
	if n := svc.Sweep(ctx); n != 0 {
		t.Errorf("running voyage must not expire, swept %d", n)
	}
}

func TestVoyageService_CreateSweepsWhenFull(t *testing.T) {
	clk := &clock{now: fixedNow}
	svc, _ := newLimitedVoyageService(clk, usecases.WithMaxVoyages(1), usecases.WithIdleTTL(time.Minute))
	ctx := context.Background()

	first, _ := svc.Create(ctx)
	if _, err := svc.Create(ctx); !errors.Is(err, domain.ErrVoyageLimit) {
		t.Fatalf("expected ErrVoyageLimit, got %v", err)
	}

	clk.Advance(2 * time.Minute)
	second, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("expected expired voyage to make room, got %v", err)
	}
	if _, err := svc.Get(first.ID()); !errors.Is(err, domain.ErrVoyageNotFound) {
		t.Errorf("expected first voyage swept, got %v", err)
	}
	if _, err := svc.Get(second.ID()); err != nil {
		t.Errorf("expected second voyage present, got %v", err)
	}
}

func TestVoyageService_SweepDisabled(t *testing.T) {
	clk := &clock{now: fixedNow}
	svc, _ := newLimitedVoyageService(clk)
	ctx := context.Background()

	svc.Create(ctx)
	clk.Advance(24 * time.Hour)
	if n := svc.Sweep(ctx); n != 0 {
		t.Errorf("expected no expiry without a TTL, swept %d", n)
	}
}
