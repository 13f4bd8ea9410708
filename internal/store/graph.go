package store

import (
	"context"
	"fmt"

	"github.com/latticekb/lattice/internal/models"
)

// GraphStore provides read operations over the assembled graph.
type GraphStore struct {
	Base
}

// NewGraphStore creates a new GraphStore.
func NewGraphStore(base Base) *GraphStore {
	return &GraphStore{Base: base}
}

// Neighbors returns the nodes directly connected to the given node in
// either direction, with the connecting edges.
func (s *GraphStore) Neighbors(ctx context.Context, nodeID string, limit int) ([]models.Node, []models.Edge, error) {
	if limit <= 0 {
		limit = 50
	}

	if limit > maxListLimit {
		limit = maxListLimit
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	edgeQuery := `SELECT ` + edgeColumns + ` FROM edges
		WHERE source_id = $1 OR target_id = $1
		ORDER BY created_at, source_id, target_id
		LIMIT $2`

	rows, err := s.Pool.Query(ctx, edgeQuery, nodeID, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("querying neighbor edges: %w", err)
	}

	edges, err := collectEdges(rows)
	rows.Close()
	if err != nil {
		return nil, nil, err
	}

	if len(edges) == 0 {
		return nil, nil, nil
	}

	ids := make([]string, 0, len(edges))
	seen := map[string]bool{nodeID: true}

	for i := range edges {
		for _, id := range []string{edges[i].SourceID, edges[i].TargetID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	nodeQuery := `SELECT ` + nodeColumns + ` FROM nodes WHERE id = ANY($1) ORDER BY modified_at DESC, id`

	nodeRows, err := s.Pool.Query(ctx, nodeQuery, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("querying neighbor nodes: %w", err)
	}
	defer nodeRows.Close()

	nodes, err := collectNodes(nodeRows)
	if err != nil {
		return nil, nil, err
	}

	return nodes, edges, nil
}
