package store

import (
	"fmt"

	"github.com/persistorai/graphboard/internal/models"
)

// endpointError reports a missing edge endpoint. The message is shown to
// users verbatim, e.g. "source node 7: node not found".
func endpointError(role string, id int64) error {
	return fmt.Errorf("%s node %d: %w", role, id, models.ErrNodeNotFound)
}

// emptyGraph returns a graph with non-nil, pre-sized sequences.
func emptyGraph(nodeCap, edgeCap int) *models.Graph {
	return &models.Graph{
		Nodes: make([]models.Node, 0, nodeCap),
		Edges: make([]models.Edge, 0, edgeCap),
	}
}
