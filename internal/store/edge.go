package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/latticekb/lattice/internal/models"
)

// EdgeStore provides edge CRUD operations.
type EdgeStore struct {
	Base
}

// NewEdgeStore creates a new EdgeStore.
func NewEdgeStore(base Base) *EdgeStore {
	return &EdgeStore{Base: base}
}

// CreateEdge inserts a new edge. No implicit dedup: a conflicting
// (source_id, target_id, edge_type) triple maps to models.ErrDuplicateKey,
// which callers that pre-check existing edges should never see.
func (s *EdgeStore) CreateEdge(ctx context.Context, edge *models.Edge) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO edges (source_id, target_id, edge_type, label, weight, directed, sequence_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := s.Pool.QueryRow(ctx, query,
		edge.SourceID, edge.TargetID, edge.EdgeType,
		edge.Label, edge.Weight, edge.Directed, edge.SequenceOrder,
	).Scan(&edge.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return models.ErrDuplicateKey
			case "23503":
				return models.ErrNodeNotFound
			}
		}

		return fmt.Errorf("inserting edge: %w", err)
	}

	s.notify("edges", "insert")

	return nil
}

// DeleteEdge removes an edge by its composite key.
func (s *EdgeStore) DeleteEdge(ctx context.Context, sourceID, targetID string, edgeType models.EdgeType) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx,
		"DELETE FROM edges WHERE source_id = $1 AND target_id = $2 AND edge_type = $3",
		sourceID, targetID, edgeType,
	)
	if err != nil {
		return fmt.Errorf("executing edge delete: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrEdgeNotFound
	}

	s.notify("edges", "delete")

	return nil
}
