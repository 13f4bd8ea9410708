package extractor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/latticekb/lattice/internal/domain"
	"github.com/latticekb/lattice/internal/models"
)

// Type-specific source scopes for resolved target nodes. Repeated
// extraction across re-imports converges on the same target node instead of
// duplicating it.
const (
	SourceTags      = "tags"
	SourceWikiLinks = "wiki-links"
	SourceURLs      = "urls"
	SourceFiles     = "files"
)

// reverseLabel is the label on automatically created reverse edges.
const reverseLabel = "Referenced by"

// Materializer resolves extracted relationships into persisted nodes and
// edges. Per-document dedup state is local to each Materialize call; the
// type itself is stateless and safe for concurrent use across documents.
type Materializer struct {
	nodes domain.NodeStore
	edges domain.EdgeStore
	log   *logrus.Logger
}

// NewMaterializer creates a Materializer.
func NewMaterializer(nodes domain.NodeStore, edges domain.EdgeStore, log *logrus.Logger) *Materializer {
	return &Materializer{nodes: nodes, edges: edges, log: log}
}

// Materialize resolves each relationship to a target node and creates the
// corresponding edges. Existing outgoing edges of the source document are
// fetched once up front; creation is skipped when an edge with the same
// (target, edgeType) already exists, making re-extraction idempotent.
func (m *Materializer) Materialize(ctx context.Context, rels []Relationship) ([]models.Edge, error) {
	if len(rels) == 0 {
		return nil, nil
	}

	existing, err := m.edges.GetEdgesFrom(ctx, rels[0].SourceID)
	if err != nil {
		return nil, fmt.Errorf("get edges: %w", err)
	}

	seen := make(map[string]bool, len(existing))
	for i := range existing {
		seen[existing[i].Key()] = true
	}

	var created []models.Edge

	for _, rel := range rels {
		target, err := m.resolveTarget(ctx, rel)
		if err != nil {
			return created, err
		}

		edge := models.Edge{
			SourceID: rel.SourceID,
			TargetID: target.ID,
			EdgeType: edgeTypeFor(rel.Type),
			Label:    rel.DisplayText,
			Weight:   rel.Weight,
			Directed: true,
		}

		if seen[edge.Key()] {
			continue
		}

		if err := m.edges.CreateEdge(ctx, &edge); err != nil {
			return created, fmt.Errorf("create edge: %w", err)
		}

		seen[edge.Key()] = true
		created = append(created, edge)

		// Cross-document references support graph navigation in both
		// directions; the reverse edge rides on the forward one, so a
		// skipped duplicate forward edge also skips its reverse.
		if rel.Type == RelWikiLink {
			reverse := models.Edge{
				SourceID: target.ID,
				TargetID: rel.SourceID,
				EdgeType: models.EdgeLink,
				Label:    reverseLabel,
				Weight:   rel.Weight / 2,
				Directed: true,
			}

			// The reverse edge can already exist on its own, for
			// example when only the forward edge was deleted.
			switch err := m.edges.CreateEdge(ctx, &reverse); {
			case err == nil:
				created = append(created, reverse)
			case !errors.Is(err, models.ErrDuplicateKey):
				return created, fmt.Errorf("create edge: %w", err)
			}
		}
	}

	return created, nil
}

// resolveTarget finds or creates the node a relationship points at, keyed
// by a deterministic derived stable identity.
func (m *Materializer) resolveTarget(ctx context.Context, rel Relationship) (*models.Node, error) {
	source, sourceID := targetIdentity(rel)

	node, err := m.nodes.GetNodeByIdentity(ctx, source, sourceID)
	if err == nil {
		return node, nil
	}

	if !errors.Is(err, models.ErrNodeNotFound) {
		return nil, fmt.Errorf("get node: %w", err)
	}

	node = models.NewNode(targetNodeType(rel.Type), targetName(rel))
	node.Source = source
	node.SourceID = sourceID

	if rel.Type == RelMarkdownLink || rel.Type == RelImage || rel.Type == RelAttachment {
		node.SourceURL = rel.TargetIdentifier
	}

	if err := node.Validate(); err != nil {
		return nil, fmt.Errorf("create node: %w", err)
	}

	node, err = m.nodes.CreateNode(ctx, node)
	if err != nil {
		return nil, fmt.Errorf("create node: %w", err)
	}

	m.log.WithFields(logrus.Fields{
		"node_type": node.NodeType,
		"source_id": node.SourceID,
	}).Debug("created reference target node")

	return node, nil
}

// targetIdentity derives the (source, sourceID) identity for a
// relationship's target. Tag and wiki-link identities embed the readable
// name; URL and file identities are hash-qualified to stay within identifier
// bounds.
func targetIdentity(rel Relationship) (source, sourceID string) {
	switch rel.Type {
	case RelTag:
		return SourceTags, "tag-" + strings.ToLower(rel.TargetIdentifier)
	case RelWikiLink:
		return SourceWikiLinks, "wiki-link-" + rel.TargetIdentifier
	case RelMarkdownLink:
		return SourceURLs, "url-" + shortHash(rel.TargetIdentifier)
	default:
		return SourceFiles, "file-" + shortHash(rel.TargetIdentifier)
	}
}

// edgeTypeFor maps a relationship type to its persisted edge type.
func edgeTypeFor(t RelType) models.EdgeType {
	if t == RelTag {
		return models.EdgeAffinity
	}

	return models.EdgeLink
}

// targetNodeType returns the node type for a resolved target.
func targetNodeType(t RelType) string {
	switch t {
	case RelTag:
		return "tag"
	case RelWikiLink:
		return "wiki-link-target"
	case RelMarkdownLink:
		return "url"
	default:
		return "file"
	}
}

// targetName picks a display name for a resolved target node.
func targetName(rel Relationship) string {
	switch rel.Type {
	case RelTag, RelWikiLink:
		return rel.TargetIdentifier
	default:
		if rel.DisplayText != "" {
			return rel.DisplayText
		}

		if base := path.Base(rel.TargetIdentifier); base != "." && base != "/" {
			return base
		}

		return rel.TargetIdentifier
	}
}

// shortHash returns a 12-character hex digest qualifying an identity.
func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))

	return hex.EncodeToString(sum[:])[:12]
}
