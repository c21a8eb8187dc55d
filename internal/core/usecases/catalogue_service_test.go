package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/core/usecases"
)

// --- Mock PortRepository ---

type mockPortRepo struct {
	listFn    func(ctx context.Context) ([]domain.Port, error)
	getByIDFn func(ctx context.Context, id string) (*domain.Port, error)
}

func (m *mockPortRepo) List(ctx context.Context) ([]domain.Port, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockPortRepo) GetByID(ctx context.Context, id string) (*domain.Port, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

// --- Mock CoastlineRepository ---

type mockCoastlineRepo struct {
	listFn func(ctx context.Context) ([]domain.Coastline, error)
}

func (m *mockCoastlineRepo) List(ctx context.Context) ([]domain.Coastline, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// --- Mock CacheService ---

type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("miss")
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestCatalogueService_ListPorts(t *testing.T) {
	repo := &mockPortRepo{
		listFn: func(ctx context.Context) ([]domain.Port, error) {
			return domain.DefaultPorts(), nil
		},
	}

	svc := usecases.NewCatalogueService(repo, &mockCoastlineRepo{}, nil)
	ports, err := svc.ListPorts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ports) != 2 {
		t.Fatalf("expected 2 ports, got %d", len(ports))
	}
	if ports[0].Name != "Mumbai" {
		t.Errorf("expected Mumbai, got %s", ports[0].Name)
	}
}

func TestCatalogueService_ListPorts_Cached(t *testing.T) {
	calls := 0
	repo := &mockPortRepo{
		listFn: func(ctx context.Context) ([]domain.Port, error) {
			calls++
			return domain.DefaultPorts(), nil
		},
	}
	cache := newMockCache()

	svc := usecases.NewCatalogueService(repo, &mockCoastlineRepo{}, cache)
	for i := 0; i < 3; i++ {
		ports, err := svc.ListPorts(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ports) != 2 || ports[1].Location.Lat != 22.5726 {
			t.Fatalf("unexpected ports %+v", ports)
		}
	}
	if calls != 1 {
		t.Errorf("expected repo called once, got %d", calls)
	}
}

func TestCatalogueService_ListCoastlines_Error(t *testing.T) {
	boom := errors.New("db down")
	coasts := &mockCoastlineRepo{
		listFn: func(ctx context.Context) ([]domain.Coastline, error) { return nil, boom },
	}

	svc := usecases.NewCatalogueService(&mockPortRepo{}, coasts, newMockCache())
	if _, err := svc.ListCoastlines(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected wrapped repo error, got %v", err)
	}
}

func TestCatalogueService_GetPort(t *testing.T) {
	repo := &mockPortRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Port, error) {
			return &domain.Port{ID: id, Name: "Kolkata"}, nil
		},
	}

	svc := usecases.NewCatalogueService(repo, &mockCoastlineRepo{}, nil)
	p, err := svc.GetPort(context.Background(), "INCCU")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "INCCU" {
		t.Errorf("expected INCCU, got %s", p.ID)
	}
}
