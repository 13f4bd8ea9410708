package api

import (
	"context"

	"github.com/latticekb/lattice/internal/classifier"
	"github.com/latticekb/lattice/internal/ingest"
)

// Ingestor runs the document pipeline. Satisfied by *ingest.Service;
// handler tests substitute a mock.
type Ingestor interface {
	IngestDocument(ctx context.Context, in classifier.Input) (*ingest.Result, error)
}

// Pinger reports backend connectivity for health checks. Both the pgx pool
// and the SQLite store satisfy it.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}
