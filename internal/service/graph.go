// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphboard/internal/domain"
	"github.com/persistorai/graphboard/internal/metrics"
	"github.com/persistorai/graphboard/internal/models"
	"github.com/persistorai/graphboard/internal/ws"
)

// Compile-time check: *GraphService must satisfy domain.GraphService.
var _ domain.GraphService = (*GraphService)(nil)

// Mutation results recorded in graphboard_mutations_total.
const (
	resultOK       = "ok"
	resultNotFound = "not_found"
	resultError    = "error"
)

// GraphService wraps a GraphStore with metrics, change events and board
// generation.
type GraphService struct {
	store  domain.GraphStore
	events domain.EventPublisher
	log    *logrus.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewGraphService creates a GraphService. events may be nil, in which case
// no change events are published.
func NewGraphService(store domain.GraphStore, events domain.EventPublisher, log *logrus.Logger) *GraphService {
	seed := uint64(time.Now().UnixNano()) //nolint:gosec // layout randomness only.

	return &GraphService{
		store:  store,
		events: events,
		log:    log,
		rng:    rand.New(rand.NewPCG(seed, seed>>1|1)), //nolint:gosec // not security sensitive.
	}
}

func (s *GraphService) publish(ctx context.Context, eventType string, data any) {
	if s.events != nil {
		s.events.Publish(ctx, eventType, data)
	}
}

// record counts a mutation outcome.
func record(op string, err error) {
	result := resultOK

	switch {
	case err == nil:
	case errors.Is(err, models.ErrNodeNotFound), errors.Is(err, models.ErrEdgeNotFound):
		result = resultNotFound
	default:
		result = resultError
	}

	metrics.MutationsTotal.WithLabelValues(op, result).Inc()
}

func observeCounts(nodes, edges int) {
	metrics.NodeCount.Set(float64(nodes))
	metrics.EdgeCount.Set(float64(edges))
}

// GetGraph returns the whole board with empty sequences normalised.
func (s *GraphService) GetGraph(ctx context.Context) (*models.Graph, error) {
	g, err := s.store.GetGraph(ctx)
	if err != nil {
		return nil, err
	}

	g.Normalize()
	observeCounts(len(g.Nodes), len(g.Edges))

	return g, nil
}

// CreateNode places a node at the requested position.
func (s *GraphService) CreateNode(ctx context.Context, req models.CreateNodeRequest) (*models.Node, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	node, err := s.store.CreateNode(ctx, *req.X, *req.Y)
	record("node.create", err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, ws.EventNodeCreated, node)

	return node, nil
}

// CreateEdge connects two existing nodes. A missing endpoint is reported as
// a wrapped models.ErrNodeNotFound naming the endpoint.
func (s *GraphService) CreateEdge(ctx context.Context, req models.CreateEdgeRequest) (*models.Edge, error) {
	if req.Source == nil {
		return nil, models.ErrMissingSource
	}

	if req.Target == nil {
		return nil, models.ErrMissingTarget
	}

	edge, err := s.store.CreateEdge(ctx, *req.Source, *req.Target)
	record("edge.create", err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, ws.EventEdgeCreated, edge)

	return edge, nil
}

// UpdateNodePosition moves an existing node.
func (s *GraphService) UpdateNodePosition(
	ctx context.Context, id int64, req models.UpdatePositionRequest,
) (*models.Node, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	node, err := s.store.UpdateNodePosition(ctx, id, *req.X, *req.Y)
	record("node.move", err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, ws.EventNodeMoved, node)

	return node, nil
}

// DeleteNode removes a node and every edge touching it.
func (s *GraphService) DeleteNode(ctx context.Context, id int64) error {
	err := s.store.DeleteNode(ctx, id)
	record("node.delete", err)
	if err != nil {
		return err
	}

	s.publish(ctx, ws.EventNodeDeleted, map[string]int64{"id": id})

	return nil
}

// DeleteEdge removes a single edge.
func (s *GraphService) DeleteEdge(ctx context.Context, id int64) error {
	err := s.store.DeleteEdge(ctx, id)
	record("edge.delete", err)
	if err != nil {
		return err
	}

	s.publish(ctx, ws.EventEdgeDeleted, map[string]int64{"id": id})

	return nil
}

// ClearGraph empties the board and resets id assignment.
func (s *GraphService) ClearGraph(ctx context.Context) error {
	err := s.store.ClearGraph(ctx)
	record("graph.clear", err)
	if err != nil {
		return err
	}

	observeCounts(0, 0)
	s.publish(ctx, ws.EventGraphCleared, struct{}{})

	return nil
}

// Stats returns node and edge counts.
func (s *GraphService) Stats(ctx context.Context) (*models.Stats, error) {
	st, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}

	observeCounts(st.Nodes, st.Edges)

	return st, nil
}
