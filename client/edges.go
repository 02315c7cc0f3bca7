package client

import (
	"context"
	"fmt"
)

// EdgeService handles edge operations.
type EdgeService struct {
	c *Client
}

// Create connects source to target. A missing endpoint is reported as a 400
// APIError whose Message names it.
func (s *EdgeService) Create(ctx context.Context, source, target int64) (*Edge, error) {
	var edge Edge
	if err := s.c.post(ctx, "/api/v1/edges", &CreateEdgeRequest{Source: source, Target: target}, &edge); err != nil {
		return nil, err
	}
	return &edge, nil
}

// Delete removes a single edge.
func (s *EdgeService) Delete(ctx context.Context, id int64) error {
	return s.c.del(ctx, fmt.Sprintf("/api/v1/edges/%d", id))
}
