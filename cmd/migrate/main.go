package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samirrijal/searoute/internal/adapters/postgres"
	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down|seed>")
	}

	cfg, err := config.Load("searoute-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	switch os.Args[1] {
	case "up":
		run(ctx, pool, []string{
			"migrations/001_catalogue.sql",
			"migrations/002_seed_catalogue.sql",
		})
	case "down":
		run(ctx, pool, []string{"migrations/down.sql"})
	case "seed":
		if err := seed(ctx, cfg.Database.DSN()); err != nil {
			log.Fatalf("seed: %v", err)
		}
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func run(ctx context.Context, pool *pgxpool.Pool, files []string) {
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		_, err = pool.Exec(ctx, string(data))
		if err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}

		fmt.Printf("OK  %s\n", f)
	}

	log.Println("all migrations applied")
}

// seed upserts the built-in port and coastline catalogue, refreshing rows
// that earlier releases inserted.
func seed(ctx context.Context, dsn string) error {
	db, err := postgres.New(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	ports := postgres.NewPortRepo(db)
	for _, p := range domain.DefaultPorts() {
		if err := ports.Upsert(ctx, &p); err != nil {
			return fmt.Errorf("port %s: %w", p.ID, err)
		}
		fmt.Printf("OK  port %s\n", p.ID)
	}

	coasts := postgres.NewCoastlineRepo(db)
	for _, c := range domain.DefaultCoastlines() {
		if err := coasts.Upsert(ctx, &c); err != nil {
			return fmt.Errorf("coastline %s: %w", c.ID, err)
		}
		fmt.Printf("OK  coastline %s\n", c.ID)
	}
	return nil
}
