// Package models defines data types for the knowledge graph.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Bounds for node fields.
const (
	maxNameLen     = 10000
	maxTypeLen     = 100
	maxSourceIDLen = 512
)

// MaxRankValue is the inclusive upper bound for Priority and Importance.
const MaxRankValue = 100

// Node represents a vertex in the knowledge graph. Nodes are upserted by
// their stable identity (Source, SourceID); ID and CreatedAt survive updates.
type Node struct {
	ID         string    `json:"id"`
	NodeType   string    `json:"node_type"`
	Name       string    `json:"name"`
	Content    string    `json:"content,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
	Folder     string    `json:"folder,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	Source     string    `json:"source"`
	SourceID   string    `json:"source_id"`
	SourceURL  string    `json:"source_url,omitempty"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	Priority   int       `json:"priority"`
	Importance int       `json:"importance"`
	SortOrder  int       `json:"sort_order"`
	Version    int       `json:"version"`
}

// NewNode returns a node with a fresh ID, version 1, and both timestamps
// set to now.
func NewNode(nodeType, name string) *Node {
	now := time.Now().UTC()

	return &Node{
		ID:         uuid.New().String(),
		NodeType:   nodeType,
		Name:       name,
		CreatedAt:  now,
		ModifiedAt: now,
		Version:    1,
	}
}

// Validate checks node invariants before persistence.
func (n *Node) Validate() error {
	if n.ID == "" {
		return ErrMissingID
	}

	if n.NodeType == "" {
		return ErrMissingType
	}

	if len(n.NodeType) > maxTypeLen {
		return ErrFieldTooLong("node_type", maxTypeLen)
	}

	if n.Name == "" {
		return ErrMissingName
	}

	if len(n.Name) > maxNameLen {
		return ErrFieldTooLong("name", maxNameLen)
	}

	if n.Source == "" || n.SourceID == "" {
		return ErrMissingIdentity
	}

	if len(n.SourceID) > maxSourceIDLen {
		return ErrFieldTooLong("source_id", maxSourceIDLen)
	}

	if !n.CreatedAt.IsZero() && !n.ModifiedAt.IsZero() && n.ModifiedAt.Before(n.CreatedAt) {
		return ErrTimestampOrder
	}

	if err := n.validateCoordinates(); err != nil {
		return err
	}

	if n.Priority < 0 || n.Priority > MaxRankValue {
		return fmt.Errorf("priority must be between 0 and %d", MaxRankValue)
	}

	if n.Importance < 0 || n.Importance > MaxRankValue {
		return fmt.Errorf("importance must be between 0 and %d", MaxRankValue)
	}

	if n.SortOrder < 0 {
		return fmt.Errorf("sort_order must be non-negative")
	}

	if n.Version < 1 {
		return fmt.Errorf("version must be positive")
	}

	return nil
}

// validateCoordinates checks that latitude and longitude are jointly present
// and within range.
func (n *Node) validateCoordinates() error {
	if n.Latitude == nil && n.Longitude == nil {
		return nil
	}

	if n.Latitude == nil || n.Longitude == nil {
		return ErrPartialCoordinates
	}

	if *n.Latitude < -90 || *n.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", *n.Latitude)
	}

	if *n.Longitude < -180 || *n.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", *n.Longitude)
	}

	return nil
}

// Identity returns the upsert key for the node.
func (n *Node) Identity() (source, sourceID string) {
	return n.Source, n.SourceID
}
