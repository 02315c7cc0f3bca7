package editor

import (
	"context"

	"github.com/persistorai/graphboard/internal/models"
)

// Store operation names used in errors and logs.
const (
	OpGetGraph           = "get_graph"
	OpAddNode            = "add_node"
	OpAddEdge            = "add_edge"
	OpUpdateNodePosition = "update_node_position"
	OpDeleteNode         = "delete_node"
	OpClearGraph         = "clear_graph"
)

// Store is the authoritative graph the editor synchronises with.
// Implementations should return *StoreRejection or *StoreUnreachable; any
// other error is treated as unreachable.
type Store interface {
	GetGraph(ctx context.Context) (Snapshot, error)
	AddNode(ctx context.Context, x, y float64) (models.Node, error)
	AddEdge(ctx context.Context, source, target int64) (models.Edge, error)
	UpdateNodePosition(ctx context.Context, id int64, x, y float64) error
	DeleteNode(ctx context.Context, id int64) error
	ClearGraph(ctx context.Context) error
}
