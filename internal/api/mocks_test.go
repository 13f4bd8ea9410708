package api

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/latticekb/lattice/internal/classifier"
	"github.com/latticekb/lattice/internal/ingest"
	"github.com/latticekb/lattice/internal/models"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeStore is an in-memory domain.Store for handler tests.
type fakeStore struct {
	mu    sync.Mutex
	nodes map[string]models.Node
	edges []models.Edge
	err   error // forced error for all operations when set
}

func newFakeStore() *fakeStore {
	return &fakeStore{nodes: make(map[string]models.Node)}
}

func (s *fakeStore) GetNode(_ context.Context, id string) (*models.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	n, ok := s.nodes[id]
	if !ok {
		return nil, models.ErrNodeNotFound
	}
	return &n, nil
}

func (s *fakeStore) GetNodeByIdentity(_ context.Context, source, sourceID string) (*models.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.nodes {
		if n.Source == source && n.SourceID == sourceID {
			return &n, nil
		}
	}
	return nil, models.ErrNodeNotFound
}

func (s *fakeStore) ListNodes(_ context.Context, typeFilter string, limit, offset int) ([]models.Node, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, false, s.err
	}

	var out []models.Node
	for _, n := range s.nodes {
		if typeFilter != "" && n.NodeType != typeFilter {
			continue
		}
		out = append(out, n)
	}
	if offset >= len(out) {
		return nil, false, nil
	}
	out = out[offset:]
	if len(out) > limit {
		return out[:limit], true, nil
	}
	return out, false, nil
}

func (s *fakeStore) CreateNode(_ context.Context, node *models.Node) (*models.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes[node.ID] = *node
	n := *node
	return &n, nil
}

func (s *fakeStore) UpdateNode(_ context.Context, node *models.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[node.ID]; !ok {
		return models.ErrNodeNotFound
	}
	s.nodes[node.ID] = *node
	return nil
}

func (s *fakeStore) DeleteNode(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	if _, ok := s.nodes[id]; !ok {
		return models.ErrNodeNotFound
	}
	delete(s.nodes, id)

	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.SourceID != id && e.TargetID != id {
			kept = append(kept, e)
		}
	}
	s.edges = kept
	return nil
}

func (s *fakeStore) CreateEdge(_ context.Context, edge *models.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.edges {
		if e.Key() == edge.Key() {
			return models.ErrDuplicateKey
		}
	}
	s.edges = append(s.edges, *edge)
	return nil
}

func (s *fakeStore) GetEdgesFrom(_ context.Context, nodeID string) ([]models.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Edge
	for _, e := range s.edges {
		if e.SourceID == nodeID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeStore) ListEdges(_ context.Context, source, target string, edgeType models.EdgeType, limit, offset int) ([]models.Edge, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, false, s.err
	}

	var out []models.Edge
	for _, e := range s.edges {
		if source != "" && e.SourceID != source {
			continue
		}
		if target != "" && e.TargetID != target {
			continue
		}
		if edgeType != "" && e.EdgeType != edgeType {
			continue
		}
		out = append(out, e)
	}
	if offset >= len(out) {
		return nil, false, nil
	}
	out = out[offset:]
	if len(out) > limit {
		return out[:limit], true, nil
	}
	return out, false, nil
}

func (s *fakeStore) DeleteEdge(_ context.Context, sourceID, targetID string, edgeType models.EdgeType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.edges {
		if e.SourceID == sourceID && e.TargetID == targetID && e.EdgeType == edgeType {
			s.edges = append(s.edges[:i], s.edges[i+1:]...)
			return nil
		}
	}
	return models.ErrEdgeNotFound
}

func (s *fakeStore) Neighbors(_ context.Context, nodeID string, limit int) ([]models.Node, []models.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var edges []models.Edge
	for _, e := range s.edges {
		if e.SourceID != nodeID && e.TargetID != nodeID {
			continue
		}
		if len(edges) >= limit {
			break
		}
		edges = append(edges, e)
		seen[e.SourceID] = true
		seen[e.TargetID] = true
	}

	var nodes []models.Node
	for id := range seen {
		if id == nodeID {
			continue
		}
		if n, ok := s.nodes[id]; ok {
			nodes = append(nodes, n)
		}
	}
	return nodes, edges, nil
}

// fakeIngestor returns a canned result or error.
type fakeIngestor struct {
	result *ingest.Result
	err    error
	gotIn  classifier.Input
}

func (f *fakeIngestor) IngestDocument(_ context.Context, in classifier.Input) (*ingest.Result, error) {
	f.gotIn = in
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// recordingBroadcaster captures broadcast events.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *recordingBroadcaster) BroadcastEvent(eventType string, _ json.RawMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, eventType)
}
