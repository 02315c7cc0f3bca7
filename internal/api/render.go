package api

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphboard/internal/canvas"
	"github.com/persistorai/graphboard/internal/editor"
)

// RenderHandler serves board images.
type RenderHandler struct {
	svc GraphService
	log *logrus.Logger
}

// NewRenderHandler creates a RenderHandler with the given service and logger.
func NewRenderHandler(svc GraphService, log *logrus.Logger) *RenderHandler {
	return &RenderHandler{svc: svc, log: log}
}

// SVG handles GET /api/v1/graph/render.svg.
func (h *RenderHandler) SVG(c *gin.Context) {
	h.render(c, "image/svg+xml", canvas.SVG)
}

// PNG handles GET /api/v1/graph/render.png.
func (h *RenderHandler) PNG(c *gin.Context) {
	h.render(c, "image/png", canvas.PNG)
}

func (h *RenderHandler) render(c *gin.Context, contentType string, encode func(w io.Writer, f editor.Frame, opts canvas.Options) error) {
	width, err := parseDimension(c.Query("width"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "width "+err.Error())

		return
	}

	height, err := parseDimension(c.Query("height"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "height "+err.Error())

		return
	}

	g, err := h.svc.GetGraph(c.Request.Context())
	if err != nil {
		respondInternal(c, h.log, "getting graph for render", err)

		return
	}

	frame := editor.RenderFrame(editor.Snapshot{Nodes: g.Nodes, Edges: g.Edges})

	var buf bytes.Buffer
	if err := encode(&buf, frame, canvas.Options{Width: width, Height: height, MaxSize: maxRenderSize}); err != nil {
		respondInternal(c, h.log, "encoding board image", err)

		return
	}

	c.Data(http.StatusOK, contentType, buf.Bytes())
}
