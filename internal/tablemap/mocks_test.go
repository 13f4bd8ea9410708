package tablemap

import (
	"context"

	"github.com/latticekb/lattice/internal/models"
)

type fakeNodeStore struct {
	byIdentity map[string]*models.Node
	created    int
	updated    int
}

func newFakeNodeStore() *fakeNodeStore {
	return &fakeNodeStore{byIdentity: make(map[string]*models.Node)}
}

func identityKey(source, sourceID string) string {
	return source + "\x00" + sourceID
}

func (s *fakeNodeStore) GetNodeByIdentity(_ context.Context, source, sourceID string) (*models.Node, error) {
	node, ok := s.byIdentity[identityKey(source, sourceID)]
	if !ok {
		return nil, models.ErrNodeNotFound
	}

	return node, nil
}

func (s *fakeNodeStore) GetNode(_ context.Context, id string) (*models.Node, error) {
	for _, node := range s.byIdentity {
		if node.ID == id {
			return node, nil
		}
	}

	return nil, models.ErrNodeNotFound
}

func (s *fakeNodeStore) ListNodes(_ context.Context, _ string, _, _ int) ([]models.Node, bool, error) {
	return nil, false, nil
}

func (s *fakeNodeStore) CreateNode(_ context.Context, node *models.Node) (*models.Node, error) {
	s.byIdentity[identityKey(node.Source, node.SourceID)] = node
	s.created++

	return node, nil
}

func (s *fakeNodeStore) UpdateNode(_ context.Context, node *models.Node) error {
	s.byIdentity[identityKey(node.Source, node.SourceID)] = node
	s.updated++

	return nil
}

func (s *fakeNodeStore) DeleteNode(_ context.Context, _ string) error {
	return nil
}

type fakeEdgeStore struct {
	edges []models.Edge
}

func (s *fakeEdgeStore) CreateEdge(_ context.Context, edge *models.Edge) error {
	s.edges = append(s.edges, *edge)

	return nil
}

func (s *fakeEdgeStore) GetEdgesFrom(_ context.Context, nodeID string) ([]models.Edge, error) {
	var out []models.Edge
	for _, e := range s.edges {
		if e.SourceID == nodeID {
			out = append(out, e)
		}
	}

	return out, nil
}

func (s *fakeEdgeStore) ListEdges(_ context.Context, _, _ string, _ models.EdgeType, _, _ int) ([]models.Edge, bool, error) {
	return s.edges, false, nil
}

func (s *fakeEdgeStore) DeleteEdge(_ context.Context, _, _ string, _ models.EdgeType) error {
	return nil
}
