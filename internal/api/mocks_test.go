package api_test

import (
	"context"
	"errors"

	"github.com/persistorai/graphboard/internal/models"
)

var errDB = errors.New("database is on fire")

// mockGraphService implements api.GraphService for testing. Unset
// functions panic, so each test states what it expects to be called.
type mockGraphService struct {
	getFn      func(ctx context.Context) (*models.Graph, error)
	createFn   func(ctx context.Context, req models.CreateNodeRequest) (*models.Node, error)
	edgeFn     func(ctx context.Context, req models.CreateEdgeRequest) (*models.Edge, error)
	moveFn     func(ctx context.Context, id int64, req models.UpdatePositionRequest) (*models.Node, error)
	deleteFn   func(ctx context.Context, id int64) error
	delEdgeFn  func(ctx context.Context, id int64) error
	clearFn    func(ctx context.Context) error
	generateFn func(ctx context.Context, req models.GenerateRequest) (*models.Graph, error)
	statsFn    func(ctx context.Context) (*models.Stats, error)
}

func (m *mockGraphService) GetGraph(ctx context.Context) (*models.Graph, error) {
	return m.getFn(ctx)
}

func (m *mockGraphService) CreateNode(ctx context.Context, req models.CreateNodeRequest) (*models.Node, error) {
	return m.createFn(ctx, req)
}

func (m *mockGraphService) CreateEdge(ctx context.Context, req models.CreateEdgeRequest) (*models.Edge, error) {
	return m.edgeFn(ctx, req)
}

func (m *mockGraphService) UpdateNodePosition(ctx context.Context, id int64, req models.UpdatePositionRequest) (*models.Node, error) {
	return m.moveFn(ctx, id, req)
}

func (m *mockGraphService) DeleteNode(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

func (m *mockGraphService) DeleteEdge(ctx context.Context, id int64) error {
	return m.delEdgeFn(ctx, id)
}

func (m *mockGraphService) ClearGraph(ctx context.Context) error {
	return m.clearFn(ctx)
}

func (m *mockGraphService) Generate(ctx context.Context, req models.GenerateRequest) (*models.Graph, error) {
	return m.generateFn(ctx, req)
}

func (m *mockGraphService) Stats(ctx context.Context) (*models.Stats, error) {
	return m.statsFn(ctx)
}

// mockPinger implements api.Pinger.
type mockPinger struct {
	err error
}

func (m mockPinger) Ping(context.Context) error { return m.err }
