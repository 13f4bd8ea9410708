package ingest

import (
	"context"
	"sync"

	"github.com/latticekb/lattice/internal/models"
)

// fakeStore is an in-memory domain.Store. Guarded by a mutex so batch tests
// can exercise parallel ingestion.
type fakeStore struct {
	mu    sync.Mutex
	nodes map[string]*models.Node
	edges []models.Edge
}

func newFakeStore() *fakeStore {
	return &fakeStore{nodes: make(map[string]*models.Node)}
}

func identityKey(source, sourceID string) string {
	return source + "\x00" + sourceID
}

func (s *fakeStore) GetNodeByIdentity(_ context.Context, source, sourceID string) (*models.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.nodes[identityKey(source, sourceID)]
	if !ok {
		return nil, models.ErrNodeNotFound
	}

	clone := *node

	return &clone, nil
}

func (s *fakeStore) GetNode(_ context.Context, id string) (*models.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, node := range s.nodes {
		if node.ID == id {
			clone := *node

			return &clone, nil
		}
	}

	return nil, models.ErrNodeNotFound
}

func (s *fakeStore) ListNodes(_ context.Context, typeFilter string, _, _ int) ([]models.Node, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Node
	for _, node := range s.nodes {
		if typeFilter == "" || node.NodeType == typeFilter {
			out = append(out, *node)
		}
	}

	return out, false, nil
}

func (s *fakeStore) CreateNode(_ context.Context, node *models.Node) (*models.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := identityKey(node.Source, node.SourceID)
	if _, ok := s.nodes[key]; ok {
		return nil, models.ErrDuplicateKey
	}

	clone := *node
	s.nodes[key] = &clone

	return node, nil
}

func (s *fakeStore) UpdateNode(_ context.Context, node *models.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *node
	s.nodes[identityKey(node.Source, node.SourceID)] = &clone

	return nil
}

func (s *fakeStore) DeleteNode(_ context.Context, _ string) error {
	return nil
}

func (s *fakeStore) CreateEdge(_ context.Context, edge *models.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

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

func (s *fakeStore) ListEdges(_ context.Context, _, _ string, _ models.EdgeType, _, _ int) ([]models.Edge, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.Edge(nil), s.edges...), false, nil
}

func (s *fakeStore) DeleteEdge(_ context.Context, _, _ string, _ models.EdgeType) error {
	return nil
}

func (s *fakeStore) Neighbors(_ context.Context, _ string, _ int) ([]models.Node, []models.Edge, error) {
	return nil, nil, nil
}

func (s *fakeStore) nodeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.nodes)
}

func (s *fakeStore) edgeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.edges)
}

// edgeKeys returns the dedup triples of all stored edges.
func (s *fakeStore) edgeKeys() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make(map[string]int, len(s.edges))
	for i := range s.edges {
		keys[s.edges[i].Key()]++
	}

	return keys
}
