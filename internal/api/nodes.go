package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphboard/internal/models"
)

// NodeHandler serves node endpoints.
type NodeHandler struct {
	svc GraphService
	log *logrus.Logger
}

// NewNodeHandler creates a NodeHandler with the given service and logger.
func NewNodeHandler(svc GraphService, log *logrus.Logger) *NodeHandler {
	return &NodeHandler{svc: svc, log: log}
}

// Create handles POST /api/v1/nodes.
func (h *NodeHandler) Create(c *gin.Context) {
	var req models.CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	node, err := h.svc.CreateNode(c.Request.Context(), req)
	if err != nil {
		respondInternal(c, h.log, "creating node", err)

		return
	}

	h.log.WithFields(logrus.Fields{"action": "node.create", "node_id": node.ID}).Info("audit")

	c.JSON(http.StatusCreated, node)
}

// Move handles PUT /api/v1/nodes/:id/position.
func (h *NodeHandler) Move(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	node, err := h.svc.UpdateNodePosition(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, models.ErrNodeNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "node not found")

			return
		}

		respondInternal(c, h.log, "moving node", err)

		return
	}

	h.log.WithFields(logrus.Fields{"action": "node.move", "node_id": id}).Info("audit")

	c.JSON(http.StatusOK, node)
}

// Delete handles DELETE /api/v1/nodes/:id. Incident edges go with the node.
func (h *NodeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteNode(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrNodeNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "node not found")

			return
		}

		respondInternal(c, h.log, "deleting node", err)

		return
	}

	h.log.WithFields(logrus.Fields{"action": "node.delete", "node_id": id}).Info("audit")

	c.Status(http.StatusNoContent)
}
