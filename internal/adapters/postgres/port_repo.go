package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/searoute/internal/core/domain"
)

// PortRepo implements ports.PortRepository.
type PortRepo struct {
	db *DB
}

func NewPortRepo(db *DB) *PortRepo {
	return &PortRepo{db: db}
}

func (r *PortRepo) List(ctx context.Context) ([]domain.Port, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, country, lat, lon
		FROM ports ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Port
	for rows.Next() {
		var p domain.Port
		if err := rows.Scan(&p.ID, &p.Name, &p.Country, &p.Location.Lat, &p.Location.Lon); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PortRepo) GetByID(ctx context.Context, id string) (*domain.Port, error) {
	p := &domain.Port{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, country, lat, lon
		FROM ports WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Country, &p.Location.Lat, &p.Location.Lon)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPortNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Upsert inserts or updates a port. `migrate seed` uses it to refresh the
// built-in catalogue.
func (r *PortRepo) Upsert(ctx context.Context, p *domain.Port) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO ports (id, name, country, lat, lon)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, country = EXCLUDED.country,
			lat = EXCLUDED.lat, lon = EXCLUDED.lon
	`, p.ID, p.Name, p.Country, p.Location.Lat, p.Location.Lon)
	return err
}
