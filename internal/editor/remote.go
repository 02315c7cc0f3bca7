package editor

import (
	"context"
	"errors"
	"net/http"

	"github.com/persistorai/graphboard/client"
	"github.com/persistorai/graphboard/internal/models"
)

// Compile-time check: *RemoteStore must satisfy Store.
var _ Store = (*RemoteStore)(nil)

// RemoteStore talks to a board server through the client SDK.
type RemoteStore struct {
	c *client.Client
}

// NewRemoteStore creates a RemoteStore using c. Board operations are never
// retried; a rate limited call surfaces as a rejection like any other 4xx.
func NewRemoteStore(c *client.Client) *RemoteStore {
	return &RemoteStore{c: c.With(client.WithRateLimitRetries(0))}
}

// remoteError maps 4xx API errors to rejections carrying the server's
// message and everything else to unreachable.
func remoteError(op string, err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.IsClientError() {
		return &StoreRejection{Op: op, Message: apiErr.Message, NotFound: apiErr.StatusCode == http.StatusNotFound}
	}

	return &StoreUnreachable{Op: op, Err: err}
}

// GetGraph fetches the whole board.
func (s *RemoteStore) GetGraph(ctx context.Context) (Snapshot, error) {
	g, err := s.c.Graph.Get(ctx)
	if err != nil {
		return Snapshot{}, remoteError(OpGetGraph, err)
	}

	return SnapshotFromGraph(g), nil
}

// SnapshotFromGraph converts an API graph into a Snapshot.
func SnapshotFromGraph(g *client.Graph) Snapshot {
	snap := Snapshot{
		Nodes: make([]models.Node, 0, len(g.Nodes)),
		Edges: make([]models.Edge, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		snap.Nodes = append(snap.Nodes, models.Node{ID: n.ID, X: n.X, Y: n.Y})
	}
	for _, e := range g.Edges {
		snap.Edges = append(snap.Edges, models.Edge{ID: e.ID, Source: e.Source, Target: e.Target})
	}

	return snap
}

// AddNode places a node.
func (s *RemoteStore) AddNode(ctx context.Context, x, y float64) (models.Node, error) {
	n, err := s.c.Nodes.Create(ctx, x, y)
	if err != nil {
		return models.Node{}, remoteError(OpAddNode, err)
	}

	return models.Node{ID: n.ID, X: n.X, Y: n.Y}, nil
}

// AddEdge connects two nodes.
func (s *RemoteStore) AddEdge(ctx context.Context, source, target int64) (models.Edge, error) {
	e, err := s.c.Edges.Create(ctx, source, target)
	if err != nil {
		return models.Edge{}, remoteError(OpAddEdge, err)
	}

	return models.Edge{ID: e.ID, Source: e.Source, Target: e.Target}, nil
}

// UpdateNodePosition moves a node.
func (s *RemoteStore) UpdateNodePosition(ctx context.Context, id int64, x, y float64) error {
	if _, err := s.c.Nodes.Move(ctx, id, x, y); err != nil {
		return remoteError(OpUpdateNodePosition, err)
	}

	return nil
}

// DeleteNode removes a node and its incident edges.
func (s *RemoteStore) DeleteNode(ctx context.Context, id int64) error {
	if err := s.c.Nodes.Delete(ctx, id); err != nil {
		return remoteError(OpDeleteNode, err)
	}

	return nil
}

// ClearGraph empties the board.
func (s *RemoteStore) ClearGraph(ctx context.Context) error {
	if err := s.c.Graph.Clear(ctx); err != nil {
		return remoteError(OpClearGraph, err)
	}

	return nil
}
