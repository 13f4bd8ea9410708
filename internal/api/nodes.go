package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/latticekb/lattice/internal/domain"
	"github.com/latticekb/lattice/internal/models"
)

// NodeHandler serves node read and delete endpoints. Nodes are written by
// the ingestion pipeline, not directly through the API.
type NodeHandler struct {
	store domain.NodeStore
	log   *logrus.Logger
}

// NewNodeHandler creates a NodeHandler with the given store and logger.
func NewNodeHandler(store domain.NodeStore, log *logrus.Logger) *NodeHandler {
	return &NodeHandler{store: store, log: log}
}

// List handles GET /api/nodes.
func (h *NodeHandler) List(c *gin.Context) {
	typeFilter := c.Query("type")
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	nodes, hasMore, err := h.store.ListNodes(c.Request.Context(), typeFilter, limit, offset)
	if err != nil {
		h.log.WithError(err).Error("listing nodes")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"nodes": nodes, "has_more": hasMore})
}

// Get handles GET /api/nodes/:id.
func (h *NodeHandler) Get(c *gin.Context) {
	nodeID := c.Param("id")
	if err := validatePathID(nodeID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	node, err := h.store.GetNode(c.Request.Context(), nodeID)
	if err != nil {
		if errors.Is(err, models.ErrNodeNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "node not found")

			return
		}

		h.log.WithError(err).Error("getting node")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, node)
}

// Delete handles DELETE /api/nodes/:id. Edges touching the node go with it.
func (h *NodeHandler) Delete(c *gin.Context) {
	nodeID := c.Param("id")
	if err := validatePathID(nodeID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	err := h.store.DeleteNode(c.Request.Context(), nodeID)
	if err != nil {
		if errors.Is(err, models.ErrNodeNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "node not found")

			return
		}

		h.log.WithError(err).Error("deleting node")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithField("node_id", nodeID).Info("node deleted")

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
