package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/latticekb/lattice/internal/models"
)

const nodeColumns = `id, node_type, name, content, summary,
	created_at, modified_at, folder, tags, source, source_id, source_url,
	latitude, longitude, priority, importance, sort_order, version`

// scanNode scans a row into a models.Node. Timestamps are stored as
// RFC 3339 text; tags as a JSON array.
func scanNode(scanner interface{ Scan(dest ...any) error }) (*models.Node, error) {
	var (
		n        models.Node
		created  string
		modified string
		tags     string
	)

	err := scanner.Scan(
		&n.ID, &n.NodeType, &n.Name, &n.Content, &n.Summary,
		&created, &modified, &n.Folder, &tags,
		&n.Source, &n.SourceID, &n.SourceURL,
		&n.Latitude, &n.Longitude,
		&n.Priority, &n.Importance, &n.SortOrder, &n.Version,
	)
	if err != nil {
		return nil, err
	}

	if n.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	if n.ModifiedAt, err = time.Parse(time.RFC3339Nano, modified); err != nil {
		return nil, fmt.Errorf("parsing modified_at: %w", err)
	}

	if err := json.Unmarshal([]byte(tags), &n.Tags); err != nil {
		return nil, fmt.Errorf("parsing tags: %w", err)
	}

	return &n, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}

	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}

	return string(raw), nil
}

// CreateNode inserts a new node as given.
func (s *Store) CreateNode(ctx context.Context, node *models.Node) (*models.Node, error) {
	tags, err := marshalTags(node.Tags)
	if err != nil {
		return nil, err
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO nodes (`+nodeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		node.ID, node.NodeType, node.Name, node.Content, node.Summary,
		node.CreatedAt.UTC().Format(time.RFC3339Nano),
		node.ModifiedAt.UTC().Format(time.RFC3339Nano),
		node.Folder, tags, node.Source, node.SourceID, node.SourceURL,
		node.Latitude, node.Longitude,
		node.Priority, node.Importance, node.SortOrder, node.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("inserting node: %w", err)
	}

	return node, nil
}

// UpdateNode fully replaces the node keyed by ID, leaving identity columns
// and created_at untouched.
func (s *Store) UpdateNode(ctx context.Context, node *models.Node) error {
	tags, err := marshalTags(node.Tags)
	if err != nil {
		return err
	}

	res, err := s.conn.ExecContext(ctx, `
		UPDATE nodes SET
			node_type = ?, name = ?, content = ?, summary = ?,
			modified_at = ?, folder = ?, tags = ?, source_url = ?,
			latitude = ?, longitude = ?,
			priority = ?, importance = ?, sort_order = ?, version = ?
		WHERE id = ?`,
		node.NodeType, node.Name, node.Content, node.Summary,
		node.ModifiedAt.UTC().Format(time.RFC3339Nano),
		node.Folder, tags, node.SourceURL,
		node.Latitude, node.Longitude,
		node.Priority, node.Importance, node.SortOrder, node.Version,
		node.ID,
	)
	if err != nil {
		return fmt.Errorf("updating node: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}

	if affected == 0 {
		return models.ErrNodeNotFound
	}

	return nil
}

// GetNode retrieves a single node by ID.
func (s *Store) GetNode(ctx context.Context, id string) (*models.Node, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE id = ?`, id)

	n, err := scanNode(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNodeNotFound
		}

		return nil, fmt.Errorf("scanning node: %w", err)
	}

	return n, nil
}

// GetNodeByIdentity looks a node up by its (source, source_id) identity.
func (s *Store) GetNodeByIdentity(ctx context.Context, source, sourceID string) (*models.Node, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+nodeColumns+` FROM nodes WHERE source = ? AND source_id = ?`,
		source, sourceID,
	)

	n, err := scanNode(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNodeNotFound
		}

		return nil, fmt.Errorf("scanning node by identity: %w", err)
	}

	return n, nil
}

// ListNodes returns nodes with an optional type filter, newest first, with a
// has-more indicator.
func (s *Store) ListNodes(ctx context.Context, typeFilter string, limit, offset int) ([]models.Node, bool, error) {
	if limit <= 0 {
		limit = 50
	}

	if offset < 0 {
		offset = 0
	}

	where := ""
	args := make([]any, 0, 3)

	if typeFilter != "" {
		where = " WHERE node_type = ?"
		args = append(args, typeFilter)
	}

	args = append(args, limit+1, offset)

	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+nodeColumns+` FROM nodes`+where+` ORDER BY modified_at DESC, id LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, false, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	var nodes []models.Node

	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, false, fmt.Errorf("scanning node row: %w", err)
		}

		nodes = append(nodes, *n)
	}

	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating node rows: %w", err)
	}

	hasMore := len(nodes) > limit
	if hasMore {
		nodes = nodes[:limit]
	}

	return nodes, hasMore, nil
}

// DeleteNode removes a node and, via foreign keys, its edges.
func (s *Store) DeleteNode(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM nodes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting node: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}

	if affected == 0 {
		return models.ErrNodeNotFound
	}

	return nil
}

// isUniqueViolation detects SQLite unique constraint failures. The
// modernc.org driver surfaces them as plain errors carrying the standard
// SQLite message text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
