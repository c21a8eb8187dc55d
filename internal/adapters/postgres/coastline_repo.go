package postgres

import (
	"context"

	"github.com/samirrijal/searoute/internal/core/domain"
)

// CoastlineRepo implements ports.CoastlineRepository. Points are stored as a
// JSONB array of [lat, lon] pairs.
type CoastlineRepo struct {
	db *DB
}

func NewCoastlineRepo(db *DB) *CoastlineRepo {
	return &CoastlineRepo{db: db}
}

func (r *CoastlineRepo) List(ctx context.Context) ([]domain.Coastline, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, points
		FROM coastlines ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Coastline
	for rows.Next() {
		var c domain.Coastline
		if err := rows.Scan(&c.ID, &c.Name, &c.Points); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Upsert inserts or updates a coastline. `migrate seed` uses it to refresh
// the built-in catalogue.
func (r *CoastlineRepo) Upsert(ctx context.Context, c *domain.Coastline) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO coastlines (id, name, points)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, points = EXCLUDED.points
	`, c.ID, c.Name, c.Points)
	return err
}
