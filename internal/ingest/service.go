// Package ingest orchestrates the document pipeline: classify, upsert the
// document node, materialize extracted relationships, map tables. Each
// document is a pure sequential transformation plus a bounded number of
// store round trips; batches parallelize across documents.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/latticekb/lattice/internal/classifier"
	"github.com/latticekb/lattice/internal/domain"
	"github.com/latticekb/lattice/internal/extractor"
	"github.com/latticekb/lattice/internal/models"
	"github.com/latticekb/lattice/internal/tablemap"
)

// SourceDocuments is the source scope for ingested document nodes.
const SourceDocuments = "documents"

// documentNodeType is the node type of an ingested document.
const documentNodeType = "note"

// maxSummaryRunes bounds the derived summary excerpt.
const maxSummaryRunes = 280

// Service runs the full pipeline for one document at a time. Stateless and
// safe for concurrent use across documents.
type Service struct {
	classifier   *classifier.Classifier
	materializer *extractor.Materializer
	mapper       *tablemap.Mapper
	nodes        domain.NodeStore
	log          *logrus.Logger
}

// NewService creates a Service.
func NewService(c *classifier.Classifier, store domain.Store, log *logrus.Logger) *Service {
	return &Service{
		classifier:   c,
		materializer: extractor.NewMaterializer(store, store, log),
		mapper:       tablemap.NewMapper(store, store, log),
		nodes:        store,
		log:          log,
	}
}

// Result is the outcome of ingesting one document: the document node, its
// detected dialect, any created reference and row nodes, and all edges
// created during this pass.
type Result struct {
	Document *models.Node
	Dialect  classifier.Dialect
	Created  bool
	Nodes    []models.Node
	Edges    []models.Edge
}

// IngestDocument runs classify, document upsert, relationship
// materialization, and table mapping for a single input.
func (s *Service) IngestDocument(ctx context.Context, in classifier.Input) (*Result, error) {
	doc, err := s.classifier.Classify(in)
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w", in.Filename, err)
	}

	node, created, err := s.upsertDocument(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("upsert %s: %w", in.Filename, err)
	}

	result := &Result{Document: node, Dialect: doc.Dialect, Created: created}

	rels := extractor.Extract(doc.SanitizedBody, doc.Dialect, node.ID)

	edges, err := s.materializer.Materialize(ctx, rels)
	result.Edges = append(result.Edges, edges...)
	if err != nil {
		return result, fmt.Errorf("extract %s: %w", in.Filename, err)
	}

	rowNodes, nestEdges, err := s.mapper.MapBody(ctx, node, doc.SanitizedBody)
	result.Nodes = append(result.Nodes, rowNodes...)
	result.Edges = append(result.Edges, nestEdges...)
	if err != nil {
		return result, fmt.Errorf("map tables %s: %w", in.Filename, err)
	}

	s.log.WithFields(logrus.Fields{
		"file":    in.Filename,
		"dialect": doc.Dialect,
		"created": created,
		"edges":   len(result.Edges),
	}).Info("ingested document")

	return result, nil
}

// upsertDocument creates or updates the node representing the document
// itself, keyed by (source, sourceID). An existing node keeps its id and
// createdAt; everything else is replaced from the fresh classification.
func (s *Service) upsertDocument(ctx context.Context, doc *classifier.Document) (*models.Node, bool, error) {
	md := doc.Metadata
	now := time.Now().UTC()

	node, err := s.nodes.GetNodeByIdentity(ctx, SourceDocuments, md.StableID)
	if err == nil {
		node.Name = md.Title
		node.Content = doc.SanitizedBody
		node.Summary = summarize(doc.SanitizedBody)
		node.Folder = md.Folder
		node.Tags = md.Tags
		node.SourceURL = md.SourceURL
		node.ModifiedAt = modifiedOr(md, now, node.CreatedAt)
		node.Version++

		if err := node.Validate(); err != nil {
			return nil, false, err
		}

		if err := s.nodes.UpdateNode(ctx, node); err != nil {
			return nil, false, err
		}

		return node, false, nil
	}

	if !errors.Is(err, models.ErrNodeNotFound) {
		return nil, false, err
	}

	node = models.NewNode(documentNodeType, md.Title)
	node.Source = SourceDocuments
	node.SourceID = md.StableID
	node.Content = doc.SanitizedBody
	node.Summary = summarize(doc.SanitizedBody)
	node.Folder = md.Folder
	node.Tags = md.Tags
	node.SourceURL = md.SourceURL

	if md.Created != nil {
		node.CreatedAt = md.Created.UTC()
	}

	node.ModifiedAt = modifiedOr(md, now, node.CreatedAt)

	if err := node.Validate(); err != nil {
		return nil, false, err
	}

	node, err = s.nodes.CreateNode(ctx, node)
	if err != nil {
		return nil, false, err
	}

	return node, true, nil
}

// modifiedOr picks the metadata modified timestamp when present, clamped so
// it never precedes createdAt.
func modifiedOr(md classifier.Metadata, fallback, createdAt time.Time) time.Time {
	modified := fallback
	if md.Modified != nil {
		modified = md.Modified.UTC()
	}

	if modified.Before(createdAt) {
		return createdAt
	}

	return modified
}

// summarize derives a short excerpt: the first non-empty, non-heading body
// line, truncated to a fixed rune budget.
func summarize(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		runes := []rune(trimmed)
		if len(runes) > maxSummaryRunes {
			return string(runes[:maxSummaryRunes])
		}

		return trimmed
	}

	return ""
}
