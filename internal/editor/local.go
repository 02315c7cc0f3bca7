package editor

import (
	"context"
	"errors"

	"github.com/persistorai/graphboard/internal/domain"
	"github.com/persistorai/graphboard/internal/models"
)

// Compile-time check: *LocalStore must satisfy Store.
var _ Store = (*LocalStore)(nil)

// LocalStore drives an in-process GraphService, typically over a MemoryStore.
type LocalStore struct {
	svc domain.GraphService
}

// NewLocalStore creates a LocalStore over svc.
func NewLocalStore(svc domain.GraphService) *LocalStore {
	return &LocalStore{svc: svc}
}

func localError(op string, err error) error {
	switch {
	case errors.Is(err, models.ErrNodeNotFound), errors.Is(err, models.ErrEdgeNotFound):
		return &StoreRejection{Op: op, Message: err.Error(), NotFound: true}
	case errors.Is(err, models.ErrInvalidGraph):
		return &StoreRejection{Op: op, Message: err.Error()}
	default:
		return &StoreUnreachable{Op: op, Err: err}
	}
}

// GetGraph returns the whole board.
func (s *LocalStore) GetGraph(ctx context.Context) (Snapshot, error) {
	g, err := s.svc.GetGraph(ctx)
	if err != nil {
		return Snapshot{}, localError(OpGetGraph, err)
	}

	return Snapshot{Nodes: g.Nodes, Edges: g.Edges}, nil
}

// AddNode places a node.
func (s *LocalStore) AddNode(ctx context.Context, x, y float64) (models.Node, error) {
	req := models.CreateNodeRequest{X: &x, Y: &y}
	if err := req.Validate(); err != nil {
		return models.Node{}, &StoreRejection{Op: OpAddNode, Message: err.Error()}
	}

	n, err := s.svc.CreateNode(ctx, req)
	if err != nil {
		return models.Node{}, localError(OpAddNode, err)
	}

	return *n, nil
}

// AddEdge connects two nodes.
func (s *LocalStore) AddEdge(ctx context.Context, source, target int64) (models.Edge, error) {
	e, err := s.svc.CreateEdge(ctx, models.CreateEdgeRequest{Source: &source, Target: &target})
	if err != nil {
		return models.Edge{}, localError(OpAddEdge, err)
	}

	return *e, nil
}

// UpdateNodePosition moves a node.
func (s *LocalStore) UpdateNodePosition(ctx context.Context, id int64, x, y float64) error {
	req := models.UpdatePositionRequest{X: &x, Y: &y}
	if err := req.Validate(); err != nil {
		return &StoreRejection{Op: OpUpdateNodePosition, Message: err.Error()}
	}

	if _, err := s.svc.UpdateNodePosition(ctx, id, req); err != nil {
		return localError(OpUpdateNodePosition, err)
	}

	return nil
}

// DeleteNode removes a node and its incident edges.
func (s *LocalStore) DeleteNode(ctx context.Context, id int64) error {
	if err := s.svc.DeleteNode(ctx, id); err != nil {
		return localError(OpDeleteNode, err)
	}

	return nil
}

// ClearGraph empties the board.
func (s *LocalStore) ClearGraph(ctx context.Context) error {
	if err := s.svc.ClearGraph(ctx); err != nil {
		return localError(OpClearGraph, err)
	}

	return nil
}
