package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/latticekb/lattice/internal/classifier"
	"github.com/latticekb/lattice/internal/ingest"
	"github.com/latticekb/lattice/internal/models"
	"github.com/latticekb/lattice/internal/ws"
)

func sampleResult() *ingest.Result {
	return &ingest.Result{
		Document: &models.Node{ID: "doc1", NodeType: "note", Name: "Notes"},
		Dialect:  classifier.DialectObsidian,
		Created:  true,
		Nodes: []models.Node{
			{ID: "ref1", NodeType: "note", Name: "Target"},
		},
		Edges: []models.Edge{
			{SourceID: "doc1", TargetID: "ref1", EdgeType: models.EdgeLink, Weight: 1.0},
		},
	}
}

func TestIngestCreated(t *testing.T) {
	ingestor := &fakeIngestor{result: sampleResult()}

	r := newTestRouter(t, &RouterDeps{Store: newFakeStore(), Ingestor: ingestor})

	body := `{"filename":"notes.md","base_path":"/vault","content":"# Notes"}`
	w := performRequest(r, http.MethodPost, "/api/ingest", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	if ingestor.gotIn.Filename != "notes.md" || ingestor.gotIn.BasePath != "/vault" {
		t.Errorf("input not forwarded: %+v", ingestor.gotIn)
	}

	var resp ingestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Document.ID != "doc1" || resp.Dialect != "obsidian" || !resp.Created {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestIngestBroadcastsEvents(t *testing.T) {
	hub := &recordingBroadcaster{}
	h := NewIngestHandler(&fakeIngestor{result: sampleResult()}, hub, quietLogger())

	res := sampleResult()
	h.broadcast(res.Document, res.Nodes, res.Edges, res.Created)

	want := []string{ws.EventDocumentIngested, ws.EventNodeCreated, ws.EventEdgeCreated}
	if len(hub.events) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(hub.events), hub.events)
	}
	for i, evt := range want {
		if hub.events[i] != evt {
			t.Errorf("event[%d] = %s, want %s", i, hub.events[i], evt)
		}
	}
}

func TestIngestClassificationFailure(t *testing.T) {
	ingestor := &fakeIngestor{
		err: &classifier.Error{Kind: classifier.FailureValidation, Issues: []string{"disallowed markup"}},
	}

	r := newTestRouter(t, &RouterDeps{Store: newFakeStore(), Ingestor: ingestor})

	body := `{"filename":"bad.md","content":"<script>alert(1)</script>"}`
	w := performRequest(r, http.MethodPost, "/api/ingest", body)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestIngestMissingFilename(t *testing.T) {
	r := newTestRouter(t, &RouterDeps{Store: newFakeStore(), Ingestor: &fakeIngestor{}})

	w := performRequest(r, http.MethodPost, "/api/ingest", `{"content":"hello"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestIngestInvalidBody(t *testing.T) {
	r := newTestRouter(t, &RouterDeps{Store: newFakeStore(), Ingestor: &fakeIngestor{}})

	w := performRequest(r, http.MethodPost, "/api/ingest", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
