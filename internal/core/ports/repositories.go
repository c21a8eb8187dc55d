package ports

import (
	"context"

	"github.com/samirrijal/searoute/internal/core/domain"
)

// PortRepository reads the port catalogue.
type PortRepository interface {
	List(ctx context.Context) ([]domain.Port, error)
	GetByID(ctx context.Context, id string) (*domain.Port, error)
}

// CoastlineRepository reads coastline overlays.
type CoastlineRepository interface {
	List(ctx context.Context) ([]domain.Coastline, error)
}
