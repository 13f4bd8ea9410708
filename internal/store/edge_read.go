package store

import (
	"context"
	"fmt"

	"github.com/latticekb/lattice/internal/models"
)

// GetEdgesFrom returns all edges whose source is the given node, in
// creation order.
func (s *EdgeStore) GetEdgesFrom(ctx context.Context, nodeID string) ([]models.Edge, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + edgeColumns + ` FROM edges WHERE source_id = $1 ORDER BY created_at, target_id`

	rows, err := s.Pool.Query(ctx, query, nodeID)
	if err != nil {
		return nil, fmt.Errorf("querying edges from node: %w", err)
	}
	defer rows.Close()

	return collectEdges(rows)
}

// ListEdges returns edges with optional source/target/type filters and a
// has-more indicator.
func (s *EdgeStore) ListEdges(ctx context.Context, source, target string, edgeType models.EdgeType, limit, offset int) ([]models.Edge, bool, error) {
	if limit <= 0 {
		limit = 50
	}

	if limit > maxListLimit {
		limit = maxListLimit
	}

	if offset < 0 {
		offset = 0
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	where := ""
	args := make([]any, 0, 5)

	appendFilter := func(column, value string) {
		if value == "" {
			return
		}

		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}

		args = append(args, value)
		where += fmt.Sprintf("%s = $%d", column, len(args))
	}

	appendFilter("source_id", source)
	appendFilter("target_id", target)
	appendFilter("edge_type", string(edgeType))

	query := fmt.Sprintf(
		"SELECT %s FROM edges%s ORDER BY created_at, source_id, target_id LIMIT $%d OFFSET $%d",
		edgeColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit+1, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying edges: %w", err)
	}
	defer rows.Close()

	edges, err := collectEdges(rows)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(edges) > limit
	if hasMore {
		edges = edges[:limit]
	}

	return edges, hasMore, nil
}
