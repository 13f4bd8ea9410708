package models

import (
	"fmt"
	"time"
)

// EdgeType is the closed set of relationship kinds the pipeline produces.
type EdgeType string

// Edge types.
const (
	// EdgeLink connects a document to something it references (another
	// document, a URL, a file, an image).
	EdgeLink EdgeType = "link"

	// EdgeAffinity connects a document to a tag or topic it is associated
	// with.
	EdgeAffinity EdgeType = "affinity"

	// EdgeNest connects a parent document to a child derived from it, such
	// as a table row. Nest edges carry a sequence order.
	EdgeNest EdgeType = "nest"
)

// Valid reports whether t is a known edge type.
func (t EdgeType) Valid() bool {
	switch t {
	case EdgeLink, EdgeAffinity, EdgeNest:
		return true
	default:
		return false
	}
}

// Edge represents a typed, weighted, optionally-directed relationship
// between two nodes. Edges are deduplicated by (SourceID, TargetID, EdgeType).
type Edge struct {
	SourceID      string    `json:"source_id"`
	TargetID      string    `json:"target_id"`
	EdgeType      EdgeType  `json:"edge_type"`
	Label         string    `json:"label,omitempty"`
	Weight        float64   `json:"weight"`
	Directed      bool      `json:"directed"`
	SequenceOrder *int      `json:"sequence_order,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Validate checks edge invariants before persistence.
func (e *Edge) Validate() error {
	if e.SourceID == "" {
		return ErrMissingSource
	}

	if e.TargetID == "" {
		return ErrMissingTarget
	}

	if !e.EdgeType.Valid() {
		return fmt.Errorf("unknown edge type %q", e.EdgeType)
	}

	if e.Weight < 0 {
		return fmt.Errorf("weight must be non-negative")
	}

	if e.SequenceOrder != nil && *e.SequenceOrder < 0 {
		return fmt.Errorf("sequence_order must be non-negative")
	}

	return nil
}

// Key returns the dedup identity of the edge. The pipeline never creates
// two edges sharing this triple for the same source node.
func (e *Edge) Key() string {
	return e.SourceID + "\x00" + e.TargetID + "\x00" + string(e.EdgeType)
}
