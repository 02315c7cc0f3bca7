package client

import (
	"context"
	"fmt"
)

// NodeService handles node operations.
type NodeService struct {
	c *Client
}

// Create places a new node at (x, y). The server assigns the id.
func (s *NodeService) Create(ctx context.Context, x, y float64) (*Node, error) {
	var node Node
	if err := s.c.post(ctx, "/api/v1/nodes", &PositionRequest{X: x, Y: y}, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// Move sets the position of an existing node.
func (s *NodeService) Move(ctx context.Context, id int64, x, y float64) (*Node, error) {
	var node Node
	if err := s.c.put(ctx, fmt.Sprintf("/api/v1/nodes/%d/position", id), &PositionRequest{X: x, Y: y}, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// Delete removes a node and every edge touching it.
func (s *NodeService) Delete(ctx context.Context, id int64) error {
	return s.c.del(ctx, fmt.Sprintf("/api/v1/nodes/%d", id))
}
