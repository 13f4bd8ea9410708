package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/latticekb/lattice/internal/classifier"
	"github.com/latticekb/lattice/internal/metrics"
	"github.com/latticekb/lattice/internal/models"
	"github.com/latticekb/lattice/internal/ws"
)

// Broadcaster pushes ingestion events to WebSocket clients. Satisfied by
// *ws.Hub; nil disables broadcasting.
type Broadcaster interface {
	BroadcastEvent(eventType string, data json.RawMessage)
}

// IngestHandler serves the document ingestion endpoint.
type IngestHandler struct {
	ingestor Ingestor
	hub      Broadcaster
	log      *logrus.Logger
}

// NewIngestHandler creates an IngestHandler.
func NewIngestHandler(ingestor Ingestor, hub Broadcaster, log *logrus.Logger) *IngestHandler {
	return &IngestHandler{ingestor: ingestor, hub: hub, log: log}
}

// ingestRequest is the JSON payload accepted by POST /api/ingest.
type ingestRequest struct {
	Filename string `json:"filename"`
	BasePath string `json:"base_path"`
	Content  string `json:"content"`
}

// ingestResponse summarizes one ingested document.
type ingestResponse struct {
	Document *models.Node  `json:"document"`
	Dialect  string        `json:"dialect"`
	Created  bool          `json:"created"`
	Nodes    []models.Node `json:"nodes"`
	Edges    []models.Edge `json:"edges"`
}

// Ingest handles POST /api/ingest.
func (h *IngestHandler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if req.Filename == "" {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "filename is required")

		return
	}

	start := time.Now()

	result, err := h.ingestor.IngestDocument(c.Request.Context(), classifier.Input{
		Filename: req.Filename,
		BasePath: req.BasePath,
		Content:  req.Content,
	})
	if err != nil {
		metrics.DocumentsFailed.Inc()

		var cerr *classifier.Error
		if errors.As(err, &cerr) {
			respondError(c, http.StatusUnprocessableEntity, ErrCodeValidationError, cerr.Error())

			return
		}

		h.log.WithField("file", req.Filename).WithError(err).Error("ingesting document")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	metrics.DocumentsIngested.WithLabelValues(string(result.Dialect)).Inc()
	metrics.IngestDuration.Observe(time.Since(start).Seconds())
	metrics.EdgesCreated.Add(float64(len(result.Edges)))
	metrics.NodesCreated.Add(float64(len(result.Nodes)))
	if result.Created {
		metrics.NodesCreated.Inc()
	}

	h.broadcast(result.Document, result.Nodes, result.Edges, result.Created)

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}

	c.JSON(status, ingestResponse{
		Document: result.Document,
		Dialect:  string(result.Dialect),
		Created:  result.Created,
		Nodes:    result.Nodes,
		Edges:    result.Edges,
	})
}

// broadcast pushes creation events for everything this pass produced.
func (h *IngestHandler) broadcast(doc *models.Node, nodes []models.Node, edges []models.Edge, created bool) {
	if h.hub == nil {
		return
	}

	h.broadcastJSON(ws.EventDocumentIngested, gin.H{
		"id":      doc.ID,
		"name":    doc.Name,
		"created": created,
		"nodes":   len(nodes),
		"edges":   len(edges),
	})

	for _, n := range nodes {
		h.broadcastJSON(ws.EventNodeCreated, gin.H{
			"id":        n.ID,
			"node_type": n.NodeType,
			"name":      n.Name,
		})
	}

	for _, e := range edges {
		h.broadcastJSON(ws.EventEdgeCreated, gin.H{
			"source_id": e.SourceID,
			"target_id": e.TargetID,
			"edge_type": e.EdgeType,
			"weight":    e.Weight,
		})
	}
}

func (h *IngestHandler) broadcastJSON(eventType string, payload gin.H) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.WithError(err).Error("marshaling event payload")

		return
	}

	h.hub.BroadcastEvent(eventType, data)
}
