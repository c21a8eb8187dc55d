// Package memory serves the built-in catalogue when no database is configured.
package memory

import (
	"context"

	"github.com/samirrijal/searoute/internal/core/domain"
)

// PortRepo implements ports.PortRepository over a fixed list.
type PortRepo struct {
	ports []domain.Port
}

// NewPortRepo returns a repo over ports, or the default ports when nil.
func NewPortRepo(ports []domain.Port) *PortRepo {
	if ports == nil {
		ports = domain.DefaultPorts()
	}
	return &PortRepo{ports: ports}
}

func (r *PortRepo) List(ctx context.Context) ([]domain.Port, error) {
	return append([]domain.Port(nil), r.ports...), nil
}

func (r *PortRepo) GetByID(ctx context.Context, id string) (*domain.Port, error) {
	for _, p := range r.ports {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, domain.ErrPortNotFound
}

// CoastlineRepo implements ports.CoastlineRepository over a fixed list.
type CoastlineRepo struct {
	coastlines []domain.Coastline
}

// NewCoastlineRepo returns a repo over coastlines, or the defaults when nil.
func NewCoastlineRepo(coastlines []domain.Coastline) *CoastlineRepo {
	if coastlines == nil {
		coastlines = domain.DefaultCoastlines()
	}
	return &CoastlineRepo{coastlines: coastlines}
}

func (r *CoastlineRepo) List(ctx context.Context) ([]domain.Coastline, error) {
	return append([]domain.Coastline(nil), r.coastlines...), nil
}
