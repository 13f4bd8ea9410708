package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/latticekb/lattice/internal/classifier"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}

func newTestService(store *fakeStore) *Service {
	return NewService(classifier.New(classifier.Config{}, quietLogger()), store, quietLogger())
}

const sampleDoc = `---
title: Project Notes
tags:
  - work
---
First line of the body.

See [[Target Note]] and #projectX

| Name | Due | Priority |
| --- | --- | --- |
| Task A | 2024-01-01 | high |
`

func TestIngestDocumentBuildsGraph(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	in := classifier.Input{Filename: "vault/notes.md", BasePath: "vault", Content: sampleDoc}

	result, err := svc.IngestDocument(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := result.Document
	if !result.Created {
		t.Error("expected a fresh document node")
	}
	if doc.Name != "Project Notes" {
		t.Errorf("name = %q", doc.Name)
	}
	if doc.Summary != "First line of the body." {
		t.Errorf("summary = %q", doc.Summary)
	}
	if len(doc.Tags) != 1 || doc.Tags[0] != "work" {
		t.Errorf("tags = %v", doc.Tags)
	}
	if doc.Source != SourceDocuments || doc.SourceID != "notes.md" {
		t.Errorf("identity = (%q, %q)", doc.Source, doc.SourceID)
	}

	// Wiki link forward+reverse, tag, nest: four edges.
	if len(result.Edges) != 4 {
		t.Fatalf("got %d edges, want 4", len(result.Edges))
	}

	// Document, wiki target, tag, table row.
	if store.nodeCount() != 4 {
		t.Errorf("store holds %d nodes, want 4", store.nodeCount())
	}
}

func TestIngestDocumentIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	in := classifier.Input{Filename: "vault/notes.md", BasePath: "vault", Content: sampleDoc}

	first, err := svc.IngestDocument(context.Background(), in)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}

	nodesBefore, edgesBefore := store.nodeCount(), store.edgeCount()

	second, err := svc.IngestDocument(context.Background(), in)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if second.Created {
		t.Error("second pass should update, not create")
	}
	if second.Document.ID != first.Document.ID {
		t.Error("document id changed across re-ingestion")
	}
	if second.Document.Version != first.Document.Version+1 {
		t.Errorf("version = %d, want %d", second.Document.Version, first.Document.Version+1)
	}
	if len(second.Edges) != 0 {
		t.Errorf("second pass created %d edges, want 0", len(second.Edges))
	}
	if store.nodeCount() != nodesBefore || store.edgeCount() != edgesBefore {
		t.Errorf("store grew to %d nodes / %d edges", store.nodeCount(), store.edgeCount())
	}

	for key, n := range store.edgeKeys() {
		if n > 1 {
			t.Errorf("duplicate edge triple %q (%d copies)", key, n)
		}
	}
}

func TestIngestDocumentPreservesCreatedAt(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	content := "---\ntitle: T\ncreated: 2024-01-01\n---\nbody"
	in := classifier.Input{Filename: "a.md", Content: content}

	first, err := svc.IngestDocument(context.Background(), in)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}

	second, err := svc.IngestDocument(context.Background(), in)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if !second.Document.CreatedAt.Equal(first.Document.CreatedAt) {
		t.Errorf("createdAt changed: %v -> %v", first.Document.CreatedAt, second.Document.CreatedAt)
	}
	if second.Document.ModifiedAt.Before(second.Document.CreatedAt) {
		t.Error("modifiedAt precedes createdAt")
	}
}

func TestIngestDocumentSizeGuard(t *testing.T) {
	store := newFakeStore()
	c := classifier.New(classifier.Config{MaxBytes: 64}, quietLogger())
	svc := NewService(c, store, quietLogger())

	in := classifier.Input{Filename: "big.md", Content: strings.Repeat("x", 65)}

	_, err := svc.IngestDocument(context.Background(), in)
	if !errors.Is(err, classifier.ErrContentTooLarge) {
		t.Fatalf("err = %v, want size guard failure", err)
	}
	if store.nodeCount() != 0 || store.edgeCount() != 0 {
		t.Error("failed document must produce zero nodes and edges")
	}
}

func TestIngestBatchCollectsFailures(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	inputs := []classifier.Input{
		{Filename: "a.md", Content: "---\ntitle: A\n---\nbody a"},
		{Filename: "bad.md", Content: "<script>alert(1)</script>"},
		{Filename: "c.md", Content: "---\ntitle: C\n---\nbody c"},
	}

	batch := svc.IngestBatch(context.Background(), inputs, 2)

	if len(batch.Results) != 2 {
		t.Errorf("got %d results, want 2", len(batch.Results))
	}
	if len(batch.Failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(batch.Failures))
	}
	if batch.Failures[0].Filename != "bad.md" {
		t.Errorf("failed file = %q", batch.Failures[0].Filename)
	}
}

func TestIngestBatchParallel(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	var inputs []classifier.Input
	for i := 0; i < 20; i++ {
		inputs = append(inputs, classifier.Input{
			Filename: fmt.Sprintf("doc%d.md", i),
			Content:  fmt.Sprintf("---\ntitle: Doc %d\n---\nbody %d", i, i),
		})
	}

	batch := svc.IngestBatch(context.Background(), inputs, 8)

	if len(batch.Failures) != 0 {
		t.Fatalf("failures: %v", batch.Failures)
	}
	if len(batch.Results) != 20 {
		t.Errorf("got %d results, want 20", len(batch.Results))
	}
	if store.nodeCount() != 20 {
		t.Errorf("store holds %d nodes, want 20", store.nodeCount())
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"skips headings", "# Heading\n\nActual text", "Actual text"},
		{"empty body", "", ""},
		{"headings only", "# One\n## Two", ""},
		{"truncates", strings.Repeat("a", 300), strings.Repeat("a", 280)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := summarize(tc.body); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
