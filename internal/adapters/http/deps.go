package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/souzafcharles/spatialdata/internal/core/usecases"
)

// Pinger is a backing service the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	SpatialData *usecases.SpatialDataService
	NATS        *nats.Conn
	DB          Pinger
	Cache       Pinger
	// DocsPath is the OpenAPI document served under /docs. Defaults to api/openapi.yaml.
	DocsPath string
}
