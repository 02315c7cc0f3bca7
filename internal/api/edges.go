package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphboard/internal/models"
)

// EdgeHandler serves edge endpoints.
type EdgeHandler struct {
	svc GraphService
	log *logrus.Logger
}

// NewEdgeHandler creates an EdgeHandler with the given service and logger.
func NewEdgeHandler(svc GraphService, log *logrus.Logger) *EdgeHandler {
	return &EdgeHandler{svc: svc, log: log}
}

// Create handles POST /api/v1/edges. A missing endpoint is a 400 carrying
// the store's message, e.g. "source node 7: node not found".
func (h *EdgeHandler) Create(c *gin.Context) {
	var req models.CreateEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	edge, err := h.svc.CreateEdge(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrNodeNotFound) {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

			return
		}

		respondInternal(c, h.log, "creating edge", err)

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":  "edge.create",
		"edge_id": edge.ID,
		"source":  edge.Source,
		"target":  edge.Target,
	}).Info("audit")

	c.JSON(http.StatusCreated, edge)
}

// Delete handles DELETE /api/v1/edges/:id.
func (h *EdgeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteEdge(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrEdgeNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "edge not found")

			return
		}

		respondInternal(c, h.log, "deleting edge", err)

		return
	}

	h.log.WithFields(logrus.Fields{"action": "edge.delete", "edge_id": id}).Info("audit")

	c.Status(http.StatusNoContent)
}
