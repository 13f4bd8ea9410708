package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/latticekb/lattice/internal/models"
)

// GetNode retrieves a single node by ID.
func (s *NodeStore) GetNode(ctx context.Context, id string) (*models.Node, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + nodeColumns + ` FROM nodes WHERE id = $1`

	n, err := scanNode(s.Pool.QueryRow(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNodeNotFound
		}

		return nil, fmt.Errorf("scanning node: %w", err)
	}

	return n, nil
}

// GetNodeByIdentity looks a node up by its (source, source_id) identity.
func (s *NodeStore) GetNodeByIdentity(ctx context.Context, source, sourceID string) (*models.Node, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + nodeColumns + ` FROM nodes WHERE source = $1 AND source_id = $2`

	n, err := scanNode(s.Pool.QueryRow(ctx, query, source, sourceID).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNodeNotFound
		}

		return nil, fmt.Errorf("scanning node by identity: %w", err)
	}

	return n, nil
}

// ListNodes returns nodes with an optional type filter, newest first, with a
// has-more indicator.
func (s *NodeStore) ListNodes(ctx context.Context, typeFilter string, limit, offset int) ([]models.Node, bool, error) {
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
	args := make([]any, 0, 3)

	if typeFilter != "" {
		where = " WHERE node_type = $1"
		args = append(args, typeFilter)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM nodes%s ORDER BY modified_at DESC, id LIMIT $%d OFFSET $%d",
		nodeColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit+1, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	nodes, err := collectNodes(rows)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(nodes) > limit
	if hasMore {
		nodes = nodes[:limit]
	}

	return nodes, hasMore, nil
}
