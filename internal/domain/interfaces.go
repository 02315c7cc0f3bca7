// Package domain defines the canonical board interfaces shared across the
// service, API and storage layers. Consumers should depend on these
// interfaces rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/persistorai/graphboard/internal/models"
)

// GraphStore is the authoritative board store.
//
// Node and edge ids are assigned sequentially from zero. DeleteNode also
// removes every edge touching the node. ClearGraph and ReplaceGraph reset
// both id sequences.
type GraphStore interface {
	GetGraph(ctx context.Context) (*models.Graph, error)
	CreateNode(ctx context.Context, x, y float64) (*models.Node, error)
	CreateEdge(ctx context.Context, source, target int64) (*models.Edge, error)
	UpdateNodePosition(ctx context.Context, id int64, x, y float64) (*models.Node, error)
	DeleteNode(ctx context.Context, id int64) error
	DeleteEdge(ctx context.Context, id int64) error
	ClearGraph(ctx context.Context) error
	ReplaceGraph(ctx context.Context, plan models.GraphPlan) (*models.Graph, error)
	Stats(ctx context.Context) (*models.Stats, error)
	Ping(ctx context.Context) error
}

// GraphService is the board API consumed by HTTP handlers and in-process
// editors. Its method set matches GraphStore plus board generation.
type GraphService interface {
	GetGraph(ctx context.Context) (*models.Graph, error)
	CreateNode(ctx context.Context, req models.CreateNodeRequest) (*models.Node, error)
	CreateEdge(ctx context.Context, req models.CreateEdgeRequest) (*models.Edge, error)
	UpdateNodePosition(ctx context.Context, id int64, req models.UpdatePositionRequest) (*models.Node, error)
	DeleteNode(ctx context.Context, id int64) error
	DeleteEdge(ctx context.Context, id int64) error
	ClearGraph(ctx context.Context) error
	Generate(ctx context.Context, req models.GenerateRequest) (*models.Graph, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

// EventPublisher receives board change events after successful mutations.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data any)
}
