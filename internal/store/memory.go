package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphboard/internal/models"
)

// MemoryStore keeps the board in process memory. Nodes and edges are held
// in insertion order, which is also id order.
type MemoryStore struct {
	mu         sync.RWMutex
	nodes      []models.Node
	edges      []models.Edge
	nextNodeID int64
	nextEdgeID int64
	log        *logrus.Logger
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(log *logrus.Logger) *MemoryStore {
	return &MemoryStore{log: log}
}

// GetGraph returns a copy of the board.
func (m *MemoryStore) GetGraph(_ context.Context) (*models.Graph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g := emptyGraph(len(m.nodes), len(m.edges))
	g.Nodes = append(g.Nodes, m.nodes...)
	g.Edges = append(g.Edges, m.edges...)

	return g, nil
}

// CreateNode appends a node with the next id.
func (m *MemoryStore) CreateNode(_ context.Context, x, y float64) (*models.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := models.Node{ID: m.nextNodeID, X: x, Y: y}
	m.nextNodeID++
	m.nodes = append(m.nodes, n)

	return &n, nil
}

// CreateEdge appends an edge after checking both endpoints exist.
func (m *MemoryStore) CreateEdge(_ context.Context, source, target int64) (*models.Edge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.nodeIndex(source) < 0 {
		return nil, endpointError("source", source)
	}

	if m.nodeIndex(target) < 0 {
		return nil, endpointError("target", target)
	}

	e := models.Edge{ID: m.nextEdgeID, Source: source, Target: target}
	m.nextEdgeID++
	m.edges = append(m.edges, e)

	return &e, nil
}

// UpdateNodePosition moves an existing node.
func (m *MemoryStore) UpdateNodePosition(_ context.Context, id int64, x, y float64) (*models.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.nodeIndex(id)
	if i < 0 {
		return nil, models.ErrNodeNotFound
	}

	m.nodes[i].X = x
	m.nodes[i].Y = y
	n := m.nodes[i]

	return &n, nil
}

// DeleteNode removes a node and every edge touching it.
func (m *MemoryStore) DeleteNode(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.nodeIndex(id)
	if i < 0 {
		return models.ErrNodeNotFound
	}

	m.nodes = slices.Delete(m.nodes, i, i+1)

	before := len(m.edges)
	m.edges = slices.DeleteFunc(m.edges, func(e models.Edge) bool {
		return e.Source == id || e.Target == id
	})

	if m.log != nil && before != len(m.edges) {
		m.log.WithFields(logrus.Fields{"node_id": id, "edges": before - len(m.edges)}).Debug("removed incident edges")
	}

	return nil
}

// DeleteEdge removes a single edge.
func (m *MemoryStore) DeleteEdge(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.edges, func(e models.Edge) bool { return e.ID == id })
	if i < 0 {
		return models.ErrEdgeNotFound
	}

	m.edges = slices.Delete(m.edges, i, i+1)

	return nil
}

// ClearGraph empties the board and resets both id sequences.
func (m *MemoryStore) ClearGraph(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reset()

	return nil
}

// ReplaceGraph swaps the board for plan. Ids restart at zero in plan order.
func (m *MemoryStore) ReplaceGraph(_ context.Context, plan models.GraphPlan) (*models.Graph, error) {
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("replacing graph: %w", err)
	}

	g := planGraph(plan)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.reset()
	m.nodes = slices.Clone(g.Nodes)
	m.edges = slices.Clone(g.Edges)
	m.nextNodeID = int64(len(g.Nodes))
	m.nextEdgeID = int64(len(g.Edges))

	return g, nil
}

// Stats returns node and edge counts.
func (m *MemoryStore) Stats(_ context.Context) (*models.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return &models.Stats{Nodes: len(m.nodes), Edges: len(m.edges)}, nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

func (m *MemoryStore) reset() {
	m.nodes = nil
	m.edges = nil
	m.nextNodeID = 0
	m.nextEdgeID = 0
}

// nodeIndex returns the slice index of node id, or -1. Callers hold mu.
func (m *MemoryStore) nodeIndex(id int64) int {
	return slices.IndexFunc(m.nodes, func(n models.Node) bool { return n.ID == id })
}
