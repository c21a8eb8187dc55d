package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/core/ports"
	"github.com/samirrijal/searoute/internal/pkg/metrics"
)

const (
	cacheKeyPorts      = "catalogue:ports"
	cacheKeyCoastlines = "catalogue:coastlines"
	catalogueCacheTTL  = 3600
)

// CatalogueService serves the port and coastline reference data.
type CatalogueService struct {
	ports      ports.PortRepository
	coastlines ports.CoastlineRepository
	cache      ports.CacheService
}

// NewCatalogueService creates a new CatalogueService. cache may be nil.
func NewCatalogueService(portRepo ports.PortRepository, coastlines ports.CoastlineRepository, cache ports.CacheService) *CatalogueService {
	return &CatalogueService{ports: portRepo, coastlines: coastlines, cache: cache}
}

// ListPorts returns every known port.
func (s *CatalogueService) ListPorts(ctx context.Context) ([]domain.Port, error) {
	var out []domain.Port
	if s.cached(ctx, cacheKeyPorts, &out) {
		return out, nil
	}

	out, err := s.ports.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ports: %w", err)
	}
	s.store(ctx, cacheKeyPorts, out)
	return out, nil
}

// GetPort returns one port by ID.
func (s *CatalogueService) GetPort(ctx context.Context, id string) (*domain.Port, error) {
	return s.ports.GetByID(ctx, id)
}

// ListCoastlines returns every coastline overlay.
func (s *CatalogueService) ListCoastlines(ctx context.Context) ([]domain.Coastline, error) {
	var out []domain.Coastline
	if s.cached(ctx, cacheKeyCoastlines, &out) {
		return out, nil
	}

	out, err := s.coastlines.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coastlines: %w", err)
	}
	s.store(ctx, cacheKeyCoastlines, out)
	return out, nil
}

func (s *CatalogueService) cached(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false
	}
	metrics.CacheHits.WithLabelValues(key).Inc()
	return true
}

func (s *CatalogueService) store(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		_ = s.cache.Set(ctx, key, data, catalogueCacheTTL)
	}
}
