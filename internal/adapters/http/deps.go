package http

import (
	"github.com/nats-io/nats.go"
	"github.com/samirrijal/searoute/internal/adapters/postgres"
	"github.com/samirrijal/searoute/internal/adapters/valkey"
	"github.com/samirrijal/searoute/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Voyages   *usecases.VoyageService
	Catalogue *usecases.CatalogueService

	// CruisingSpeedKnots is the default speed for ad-hoc distance queries.
	CruisingSpeedKnots float64
	Version            string

	NATS  *nats.Conn
	DB    *postgres.DB
	Cache *valkey.Cache
}
