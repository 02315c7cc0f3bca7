package client

import (
	"context"
	"fmt"
	"net/http"
)

// Render formats accepted by GraphService.Render.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// GraphService handles whole-board operations.
type GraphService struct {
	c *Client
}

// Get returns the whole board.
func (s *GraphService) Get(ctx context.Context) (*Graph, error) {
	var g Graph
	if err := s.c.get(ctx, "/api/v1/graph", nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Clear removes every node and edge and resets id assignment.
func (s *GraphService) Clear(ctx context.Context) error {
	return s.c.del(ctx, "/api/v1/graph")
}

// Generate replaces the board with a complete or random graph of n nodes.
func (s *GraphService) Generate(ctx context.Context, kind string, n int) (*Graph, error) {
	var g Graph
	if err := s.c.post(ctx, "/api/v1/graph/generate", &GenerateRequest{Kind: kind, Nodes: n}, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Render returns the server-side rendering of the board as SVG or PNG bytes.
func (s *GraphService) Render(ctx context.Context, format string) ([]byte, error) {
	if format != FormatSVG && format != FormatPNG {
		return nil, fmt.Errorf("unsupported render format %q", format)
	}

	req, err := s.c.newRequest(ctx, http.MethodGet, "/api/v1/graph/render."+format, nil)
	if err != nil {
		return nil, err
	}
	return s.c.send(req)
}
