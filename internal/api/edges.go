package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/latticekb/lattice/internal/domain"
	"github.com/latticekb/lattice/internal/models"
)

// EdgeHandler serves edge read and delete endpoints.
type EdgeHandler struct {
	store domain.EdgeStore
	log   *logrus.Logger
}

// NewEdgeHandler creates an EdgeHandler with the given store and logger.
func NewEdgeHandler(store domain.EdgeStore, log *logrus.Logger) *EdgeHandler {
	return &EdgeHandler{store: store, log: log}
}

// List handles GET /api/edges with optional source, target, and type filters.
func (h *EdgeHandler) List(c *gin.Context) {
	source := c.Query("source")
	target := c.Query("target")
	edgeType := models.EdgeType(c.Query("type"))
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	if edgeType != "" && !edgeType.Valid() {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "unknown edge type")

		return
	}

	edges, hasMore, err := h.store.ListEdges(c.Request.Context(), source, target, edgeType, limit, offset)
	if err != nil {
		h.log.WithError(err).Error("listing edges")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"edges": edges, "has_more": hasMore})
}

// Delete handles DELETE /api/edges/:source/:target/:type.
func (h *EdgeHandler) Delete(c *gin.Context) {
	sourceID := c.Param("source")
	targetID := c.Param("target")
	edgeType := models.EdgeType(c.Param("type"))

	if err := validatePathID(sourceID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}
	if err := validatePathID(targetID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}
	if !edgeType.Valid() {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "unknown edge type")

		return
	}

	err := h.store.DeleteEdge(c.Request.Context(), sourceID, targetID, edgeType)
	if err != nil {
		if errors.Is(err, models.ErrEdgeNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "edge not found")

			return
		}

		h.log.WithError(err).Error("deleting edge")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
