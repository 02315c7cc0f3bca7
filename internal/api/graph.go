package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphboard/internal/models"
)

// GraphHandler serves whole-board endpoints.
type GraphHandler struct {
	svc GraphService
	log *logrus.Logger
}

// NewGraphHandler creates a GraphHandler with the given service and logger.
func NewGraphHandler(svc GraphService, log *logrus.Logger) *GraphHandler {
	return &GraphHandler{svc: svc, log: log}
}

// Get handles GET /api/v1/graph.
func (h *GraphHandler) Get(c *gin.Context) {
	g, err := h.svc.GetGraph(c.Request.Context())
	if err != nil {
		respondInternal(c, h.log, "getting graph", err)

		return
	}

	c.JSON(http.StatusOK, g)
}

// Clear handles DELETE /api/v1/graph.
func (h *GraphHandler) Clear(c *gin.Context) {
	if err := h.svc.ClearGraph(c.Request.Context()); err != nil {
		respondInternal(c, h.log, "clearing graph", err)

		return
	}

	h.log.WithField("action", "graph.clear").Info("audit")

	c.Status(http.StatusNoContent)
}

// Generate handles POST /api/v1/graph/generate, replacing the board.
func (h *GraphHandler) Generate(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	g, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		respondInternal(c, h.log, "generating graph", err)

		return
	}

	h.log.WithFields(logrus.Fields{
		"action": "graph.generate",
		"kind":   req.Kind,
		"nodes":  len(g.Nodes),
		"edges":  len(g.Edges),
	}).Info("audit")

	c.JSON(http.StatusCreated, g)
}
