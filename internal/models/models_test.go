package models

import (
	"errors"
	"testing"
	"time"
)

func validNode() *Node {
	n := NewNode("note", "Test Note")
	n.Source = "documents"
	n.SourceID = "notes/test.md"

	return n
}

func TestNodeValidate(t *testing.T) {
	lat, lon := 47.6, -122.3
	badLat := 91.0

	tests := []struct {
		name    string
		mutate  func(*Node)
		wantErr error
	}{
		{name: "valid", mutate: func(*Node) {}},
		{name: "missing name", mutate: func(n *Node) { n.Name = "" }, wantErr: ErrMissingName},
		{name: "missing type", mutate: func(n *Node) { n.NodeType = "" }, wantErr: ErrMissingType},
		{name: "missing identity", mutate: func(n *Node) { n.SourceID = "" }, wantErr: ErrMissingIdentity},
		{name: "modified before created", mutate: func(n *Node) {
			n.ModifiedAt = n.CreatedAt.Add(-time.Hour)
		}, wantErr: ErrTimestampOrder},
		{name: "latitude without longitude", mutate: func(n *Node) {
			n.Latitude = &lat
		}, wantErr: ErrPartialCoordinates},
		{name: "coordinates in range", mutate: func(n *Node) {
			n.Latitude, n.Longitude = &lat, &lon
		}},
		{name: "latitude out of range", mutate: func(n *Node) {
			n.Latitude, n.Longitude = &badLat, &lon
		}, wantErr: errAny},
		{name: "negative priority", mutate: func(n *Node) { n.Priority = -1 }, wantErr: errAny},
		{name: "zero version", mutate: func(n *Node) { n.Version = 0 }, wantErr: errAny},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := validNode()
			tc.mutate(n)

			err := n.Validate()
			switch {
			case tc.wantErr == nil:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			case errors.Is(tc.wantErr, errAny):
				if err == nil {
					t.Fatal("expected error, got nil")
				}
			default:
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("got %v, want %v", err, tc.wantErr)
				}
			}
		})
	}
}

// errAny marks cases where any non-nil error is acceptable.
var errAny = errors.New("any error")

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("note", "Fresh")

	if n.ID == "" {
		t.Error("expected generated ID")
	}
	if n.Version != 1 {
		t.Errorf("version = %d, want 1", n.Version)
	}
	if n.CreatedAt.After(n.ModifiedAt) {
		t.Error("created_at must not be after modified_at")
	}
}

func TestEdgeValidate(t *testing.T) {
	seq := 0
	badSeq := -1

	tests := []struct {
		name    string
		edge    Edge
		wantErr bool
	}{
		{name: "valid link", edge: Edge{SourceID: "a", TargetID: "b", EdgeType: EdgeLink, Weight: 1.0, Directed: true}},
		{name: "valid nest with sequence", edge: Edge{SourceID: "a", TargetID: "b", EdgeType: EdgeNest, SequenceOrder: &seq}},
		{name: "missing source", edge: Edge{TargetID: "b", EdgeType: EdgeLink}, wantErr: true},
		{name: "missing target", edge: Edge{SourceID: "a", EdgeType: EdgeLink}, wantErr: true},
		{name: "unknown type", edge: Edge{SourceID: "a", TargetID: "b", EdgeType: "follows"}, wantErr: true},
		{name: "negative weight", edge: Edge{SourceID: "a", TargetID: "b", EdgeType: EdgeLink, Weight: -0.5}, wantErr: true},
		{name: "negative sequence", edge: Edge{SourceID: "a", TargetID: "b", EdgeType: EdgeNest, SequenceOrder: &badSeq}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.edge.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestEdgeKeyDistinguishesType(t *testing.T) {
	link := Edge{SourceID: "a", TargetID: "b", EdgeType: EdgeLink}
	affinity := Edge{SourceID: "a", TargetID: "b", EdgeType: EdgeAffinity}

	if link.Key() == affinity.Key() {
		t.Error("edges with different types must have distinct keys")
	}

	same := Edge{SourceID: "a", TargetID: "b", EdgeType: EdgeLink, Weight: 0.5}
	if link.Key() != same.Key() {
		t.Error("key must ignore non-identity fields")
	}
}
