// Package domain defines the canonical persistence interfaces shared across
// the ingestion pipeline, API layer, and CLI. Consumers depend on these
// rather than re-declaring equivalent ones. A relational store, embedded
// store, or in-memory map all satisfy the contract.
package domain

import (
	"context"

	"github.com/latticekb/lattice/internal/models"
)

// NodeStore defines node persistence operations.
//
// Upsert semantics are the caller's responsibility: look up by stable
// identity with GetNodeByIdentity, then CreateNode or UpdateNode. The store
// must provide read-your-writes consistency for that check to be meaningful.
type NodeStore interface {
	// GetNodeByIdentity looks a node up by its (source, sourceID) identity.
	// Returns models.ErrNodeNotFound when absent.
	GetNodeByIdentity(ctx context.Context, source, sourceID string) (*models.Node, error)

	// GetNode looks a node up by ID.
	GetNode(ctx context.Context, id string) (*models.Node, error)

	// ListNodes returns nodes filtered by type, newest first, with a
	// has-more indicator.
	ListNodes(ctx context.Context, typeFilter string, limit, offset int) ([]models.Node, bool, error)

	// CreateNode inserts the node as given; the caller supplies the ID.
	CreateNode(ctx context.Context, node *models.Node) (*models.Node, error)

	// UpdateNode fully replaces the node keyed by ID, preserving ID and
	// CreatedAt.
	UpdateNode(ctx context.Context, node *models.Node) error

	// DeleteNode removes a node and its edges.
	DeleteNode(ctx context.Context, id string) error
}

// EdgeStore defines edge persistence operations.
//
// CreateEdge performs no implicit dedup; deduplication by
// (sourceID, targetID, edgeType) is the extractor's responsibility, checked
// against GetEdgesFrom before insertion.
type EdgeStore interface {
	CreateEdge(ctx context.Context, edge *models.Edge) error

	// GetEdgesFrom returns all edges whose source is the given node.
	GetEdgesFrom(ctx context.Context, nodeID string) ([]models.Edge, error)

	// ListEdges returns edges with optional source/target/type filters.
	ListEdges(ctx context.Context, source, target string, edgeType models.EdgeType, limit, offset int) ([]models.Edge, bool, error)

	DeleteEdge(ctx context.Context, sourceID, targetID string, edgeType models.EdgeType) error
}

// GraphStore defines read operations over the assembled graph.
type GraphStore interface {
	// Neighbors returns the nodes directly connected to the given node,
	// with the connecting edges.
	Neighbors(ctx context.Context, nodeID string, limit int) ([]models.Node, []models.Edge, error)
}

// Store aggregates the full persistence contract.
type Store interface {
	NodeStore
	EdgeStore
	GraphStore
}
