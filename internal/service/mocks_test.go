package service

import (
	"context"
	"sync"

	"github.com/persistorai/graphboard/internal/models"
)

// mockGraphStore records calls and returns configured responses. Unset
// function fields return zero values.
type mockGraphStore struct {
	mu    sync.Mutex
	calls []string

	getGraph     func(ctx context.Context) (*models.Graph, error)
	createNode   func(ctx context.Context, x, y float64) (*models.Node, error)
	createEdge   func(ctx context.Context, source, target int64) (*models.Edge, error)
	updateNode   func(ctx context.Context, id int64, x, y float64) (*models.Node, error)
	deleteNode   func(ctx context.Context, id int64) error
	deleteEdge   func(ctx context.Context, id int64) error
	clearGraph   func(ctx context.Context) error
	replaceGraph func(ctx context.Context, plan models.GraphPlan) (*models.Graph, error)
	stats        func(ctx context.Context) (*models.Stats, error)
}

func (m *mockGraphStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockGraphStore) getCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]string, len(m.calls))
	copy(cp, m.calls)
	return cp
}

func (m *mockGraphStore) GetGraph(ctx context.Context) (*models.Graph, error) {
	m.record("GetGraph")
	if m.getGraph == nil {
		return &models.Graph{}, nil
	}
	return m.getGraph(ctx)
}

func (m *mockGraphStore) CreateNode(ctx context.Context, x, y float64) (*models.Node, error) {
	m.record("CreateNode")
	if m.createNode == nil {
		return &models.Node{X: x, Y: y}, nil
	}
	return m.createNode(ctx, x, y)
}

func (m *mockGraphStore) CreateEdge(ctx context.Context, source, target int64) (*models.Edge, error) {
	m.record("CreateEdge")
	if m.createEdge == nil {
		return &models.Edge{Source: source, Target: target}, nil
	}
	return m.createEdge(ctx, source, target)
}

func (m *mockGraphStore) UpdateNodePosition(ctx context.Context, id int64, x, y float64) (*models.Node, error) {
	m.record("UpdateNodePosition")
	if m.updateNode == nil {
		return &models.Node{ID: id, X: x, Y: y}, nil
	}
	return m.updateNode(ctx, id, x, y)
}

func (m *mockGraphStore) DeleteNode(ctx context.Context, id int64) error {
	m.record("DeleteNode")
	if m.deleteNode == nil {
		return nil
	}
	return m.deleteNode(ctx, id)
}

func (m *mockGraphStore) DeleteEdge(ctx context.Context, id int64) error {
	m.record("DeleteEdge")
	if m.deleteEdge == nil {
		return nil
	}
	return m.deleteEdge(ctx, id)
}

func (m *mockGraphStore) ClearGraph(ctx context.Context) error {
	m.record("ClearGraph")
	if m.clearGraph == nil {
		return nil
	}
	return m.clearGraph(ctx)
}

func (m *mockGraphStore) ReplaceGraph(ctx context.Context, plan models.GraphPlan) (*models.Graph, error) {
	m.record("ReplaceGraph")
	if m.replaceGraph == nil {
		return &models.Graph{}, nil
	}
	return m.replaceGraph(ctx, plan)
}

func (m *mockGraphStore) Stats(ctx context.Context) (*models.Stats, error) {
	m.record("Stats")
	if m.stats == nil {
		return &models.Stats{}, nil
	}
	return m.stats(ctx)
}

func (m *mockGraphStore) Ping(context.Context) error {
	m.record("Ping")
	return nil
}

type publishedEvent struct {
	Type string
	Data any
}

// mockPublisher records published change events.
type mockPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (m *mockPublisher) Publish(_ context.Context, eventType string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, publishedEvent{Type: eventType, Data: data})
}

func (m *mockPublisher) getEvents() []publishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]publishedEvent, len(m.events))
	copy(cp, m.events)
	return cp
}
