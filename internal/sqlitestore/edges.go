package sqlitestore

import (
	"context"
	"fmt"
	"time"

	"github.com/latticekb/lattice/internal/models"
)

const edgeColumns = `source_id, target_id, edge_type, label, weight,
	directed, sequence_order, created_at`

// scanEdge scans a row into a models.Edge.
func scanEdge(scanner interface{ Scan(dest ...any) error }) (*models.Edge, error) {
	var (
		e       models.Edge
		created string
	)

	err := scanner.Scan(
		&e.SourceID, &e.TargetID, &e.EdgeType, &e.Label, &e.Weight,
		&e.Directed, &e.SequenceOrder, &created,
	)
	if err != nil {
		return nil, err
	}

	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &e, nil
}

// CreateEdge inserts a new edge. A conflicting (source, target, type)
// triple maps to models.ErrDuplicateKey.
func (s *Store) CreateEdge(ctx context.Context, edge *models.Edge) error {
	if edge.CreatedAt.IsZero() {
		edge.CreatedAt = time.Now().UTC()
	}

	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO edges (`+edgeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		edge.SourceID, edge.TargetID, edge.EdgeType, edge.Label, edge.Weight,
		edge.Directed, edge.SequenceOrder,
		edge.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateKey
		}

		return fmt.Errorf("inserting edge: %w", err)
	}

	return nil
}

// GetEdgesFrom returns all edges whose source is the given node, in
// creation order.
func (s *Store) GetEdgesFrom(ctx context.Context, nodeID string) ([]models.Edge, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+edgeColumns+` FROM edges WHERE source_id = ? ORDER BY created_at, target_id`,
		nodeID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying edges from node: %w", err)
	}
	defer rows.Close()

	var edges []models.Edge

	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning edge row: %w", err)
		}

		edges = append(edges, *e)
	}

	return edges, rows.Err()
}

// ListEdges returns edges with optional source/target/type filters and a
// has-more indicator.
func (s *Store) ListEdges(ctx context.Context, source, target string, edgeType models.EdgeType, limit, offset int) ([]models.Edge, bool, error) {
	if limit <= 0 {
		limit = 50
	}

	if offset < 0 {
		offset = 0
	}

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

		where += column + " = ?"
		args = append(args, value)
	}

	appendFilter("source_id", source)
	appendFilter("target_id", target)
	appendFilter("edge_type", string(edgeType))

	args = append(args, limit+1, offset)

	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+edgeColumns+` FROM edges`+where+` ORDER BY created_at, source_id, target_id LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, false, fmt.Errorf("querying edges: %w", err)
	}
	defer rows.Close()

	var edges []models.Edge

	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, false, fmt.Errorf("scanning edge row: %w", err)
		}

		edges = append(edges, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating edge rows: %w", err)
	}

	hasMore := len(edges) > limit
	if hasMore {
		edges = edges[:limit]
	}

	return edges, hasMore, nil
}

// DeleteEdge removes an edge by its composite key.
func (s *Store) DeleteEdge(ctx context.Context, sourceID, targetID string, edgeType models.EdgeType) error {
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM edges WHERE source_id = ? AND target_id = ? AND edge_type = ?`,
		sourceID, targetID, edgeType,
	)
	if err != nil {
		return fmt.Errorf("deleting edge: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}

	if affected == 0 {
		return models.ErrEdgeNotFound
	}

	return nil
}

// Neighbors returns the nodes directly connected to the given node in
// either direction, with the connecting edges.
func (s *Store) Neighbors(ctx context.Context, nodeID string, limit int) ([]models.Node, []models.Edge, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT `+edgeColumns+` FROM edges
		WHERE source_id = ? OR target_id = ?
		ORDER BY created_at, source_id, target_id
		LIMIT ?`, nodeID, nodeID, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("querying neighbor edges: %w", err)
	}
	defer rows.Close()

	var edges []models.Edge

	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("scanning edge row: %w", err)
		}

		edges = append(edges, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating edge rows: %w", err)
	}

	if len(edges) == 0 {
		return nil, nil, nil
	}

	seen := map[string]bool{nodeID: true}

	var nodes []models.Node

	for i := range edges {
		for _, id := range []string{edges[i].SourceID, edges[i].TargetID} {
			if seen[id] {
				continue
			}

			seen[id] = true

			n, err := s.GetNode(ctx, id)
			if err != nil {
				return nil, nil, err
			}

			nodes = append(nodes, *n)
		}
	}

	return nodes, edges, nil
}
