package store

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/latticekb/lattice/internal/models"
)

// nodeColumns lists the columns selected for node queries.
const nodeColumns = `id, node_type, name, content, summary,
	created_at, modified_at, folder, tags, source, source_id, source_url,
	latitude, longitude, priority, importance, sort_order, version`

// edgeColumns lists the columns selected for edge queries.
const edgeColumns = `source_id, target_id, edge_type, label, weight,
	directed, sequence_order, created_at`

// scanNode scans a single row into a models.Node.
func scanNode(scan func(dest ...any) error) (*models.Node, error) {
	var n models.Node

	err := scan(
		&n.ID,
		&n.NodeType,
		&n.Name,
		&n.Content,
		&n.Summary,
		&n.CreatedAt,
		&n.ModifiedAt,
		&n.Folder,
		&n.Tags,
		&n.Source,
		&n.SourceID,
		&n.SourceURL,
		&n.Latitude,
		&n.Longitude,
		&n.Priority,
		&n.Importance,
		&n.SortOrder,
		&n.Version,
	)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

// scanEdge scans a single row into a models.Edge.
func scanEdge(scan func(dest ...any) error) (*models.Edge, error) {
	var e models.Edge

	err := scan(
		&e.SourceID,
		&e.TargetID,
		&e.EdgeType,
		&e.Label,
		&e.Weight,
		&e.Directed,
		&e.SequenceOrder,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// collectNodes scans all rows into a node slice.
func collectNodes(rows pgx.Rows) ([]models.Node, error) {
	nodes := make([]models.Node, 0, 16)

	for rows.Next() {
		n, err := scanNode(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning node row: %w", err)
		}

		nodes = append(nodes, *n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating node rows: %w", err)
	}

	return nodes, nil
}

// collectEdges scans all rows into an edge slice.
func collectEdges(rows pgx.Rows) ([]models.Edge, error) {
	edges := make([]models.Edge, 0, 16)

	for rows.Next() {
		e, err := scanEdge(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning edge row: %w", err)
		}

		edges = append(edges, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating edge rows: %w", err)
	}

	return edges, nil
}
