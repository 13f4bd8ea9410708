package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/latticekb/lattice/internal/models"
)

// NodeStore handles node CRUD operations.
type NodeStore struct {
	Base
}

// NewNodeStore creates a new NodeStore.
func NewNodeStore(base Base) *NodeStore {
	return &NodeStore{Base: base}
}

// CreateNode inserts a new node and returns the stored record. The caller
// supplies the ID; a conflicting (source, source_id) identity maps to
// models.ErrDuplicateKey.
func (s *NodeStore) CreateNode(ctx context.Context, node *models.Node) (*models.Node, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO nodes (id, node_type, name, content, summary,
			created_at, modified_at, folder, tags, source, source_id, source_url,
			latitude, longitude, priority, importance, sort_order, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING ` + nodeColumns

	row := s.Pool.QueryRow(ctx, query,
		node.ID, node.NodeType, node.Name, node.Content, node.Summary,
		node.CreatedAt, node.ModifiedAt, node.Folder, node.Tags,
		node.Source, node.SourceID, node.SourceURL,
		node.Latitude, node.Longitude,
		node.Priority, node.Importance, node.SortOrder, node.Version,
	)

	n, err := scanNode(row.Scan)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("scanning created node: %w", err)
	}

	s.notify("nodes", "insert")

	return n, nil
}

// UpdateNode fully replaces the node keyed by ID. The identity columns and
// created_at are left untouched.
func (s *NodeStore) UpdateNode(ctx context.Context, node *models.Node) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `UPDATE nodes SET
			node_type = $2, name = $3, content = $4, summary = $5,
			modified_at = $6, folder = $7, tags = $8, source_url = $9,
			latitude = $10, longitude = $11,
			priority = $12, importance = $13, sort_order = $14, version = $15
		WHERE id = $1`

	tag, err := s.Pool.Exec(ctx, query,
		node.ID, node.NodeType, node.Name, node.Content, node.Summary,
		node.ModifiedAt, node.Folder, node.Tags, node.SourceURL,
		node.Latitude, node.Longitude,
		node.Priority, node.Importance, node.SortOrder, node.Version,
	)
	if err != nil {
		return fmt.Errorf("executing node update: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrNodeNotFound
	}

	s.notify("nodes", "update")

	return nil
}

// DeleteNode removes a node by ID and its associated edges within the same
// transaction.
func (s *NodeStore) DeleteNode(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("deleting node: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	_, err = tx.Exec(ctx, "DELETE FROM edges WHERE source_id = $1 OR target_id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting edges for node: %w", err)
	}

	tag, err := tx.Exec(ctx, "DELETE FROM nodes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("executing node delete: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrNodeNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing delete node: %w", err)
	}

	s.notify("nodes", "delete")

	return nil
}
