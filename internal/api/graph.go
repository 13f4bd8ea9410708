package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/latticekb/lattice/internal/domain"
	"github.com/latticekb/lattice/internal/models"
)

// defaultNeighborLimit bounds a neighborhood query when the client does not
// specify one.
const defaultNeighborLimit = 100

// GraphHandler serves graph traversal endpoints.
type GraphHandler struct {
	store domain.GraphStore
	log   *logrus.Logger
}

// NewGraphHandler creates a GraphHandler with the given store and logger.
func NewGraphHandler(store domain.GraphStore, log *logrus.Logger) *GraphHandler {
	return &GraphHandler{store: store, log: log}
}

// Neighbors handles GET /api/graph/neighbors/:id.
func (h *GraphHandler) Neighbors(c *gin.Context) {
	nodeID := c.Param("id")
	if err := validatePathID(nodeID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	limit := parseInt(c.DefaultQuery("limit", "100"), defaultNeighborLimit)

	nodes, edges, err := h.store.Neighbors(c.Request.Context(), nodeID, limit)
	if err != nil {
		if errors.Is(err, models.ErrNodeNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "node not found")

			return
		}

		h.log.WithError(err).Error("getting neighbors")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"nodes": nodes, "edges": edges})
}
