package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphboard/internal/models"
	"github.com/persistorai/graphboard/internal/ws"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func ptr[T any](v T) *T { return &v }

func TestGraphService_GetGraph_Normalizes(t *testing.T) {
	t.Parallel()

	svc := NewGraphService(&mockGraphStore{}, nil, testLogger())

	g, err := svc.GetGraph(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Nodes == nil || g.Edges == nil {
		t.Fatalf("expected empty slices, got %+v", g)
	}
}

func TestGraphService_CreateNode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       models.CreateNodeRequest
		storeErr  error
		wantErr   bool
		wantCalls int
		wantEvent bool
	}{
		{name: "success", req: models.CreateNodeRequest{X: ptr(1.0), Y: ptr(2.0)}, wantCalls: 1, wantEvent: true},
		{name: "missing y", req: models.CreateNodeRequest{X: ptr(1.0)}, wantErr: true},
		{name: "store error", req: models.CreateNodeRequest{X: ptr(1.0), Y: ptr(2.0)}, storeErr: errors.New("db down"), wantErr: true, wantCalls: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := &mockGraphStore{
				createNode: func(_ context.Context, x, y float64) (*models.Node, error) {
					if tc.storeErr != nil {
						return nil, tc.storeErr
					}
					return &models.Node{ID: 0, X: x, Y: y}, nil
				},
			}
			pub := &mockPublisher{}
			svc := NewGraphService(store, pub, testLogger())

			node, err := svc.CreateNode(context.Background(), tc.req)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if got := len(store.getCalls()); got != tc.wantCalls {
				t.Errorf("store calls = %d, want %d", got, tc.wantCalls)
			}

			events := pub.getEvents()
			if tc.wantEvent {
				if len(events) != 1 || events[0].Type != ws.EventNodeCreated {
					t.Fatalf("events = %+v", events)
				}
				if events[0].Data != node {
					t.Errorf("event data = %v, want created node", events[0].Data)
				}
			} else if len(events) != 0 {
				t.Errorf("unexpected events %+v", events)
			}
		})
	}
}

func TestGraphService_CreateEdge_PassesStoreMessage(t *testing.T) {
	t.Parallel()

	store := &mockGraphStore{
		createEdge: func(_ context.Context, source, _ int64) (*models.Edge, error) {
			return nil, fmt.Errorf("source node %d: %w", source, models.ErrNodeNotFound)
		},
	}
	pub := &mockPublisher{}
	svc := NewGraphService(store, pub, testLogger())

	_, err := svc.CreateEdge(context.Background(), models.CreateEdgeRequest{Source: ptr[int64](7), Target: ptr[int64](0)})
	if !errors.Is(err, models.ErrNodeNotFound) {
		t.Fatalf("err = %v, want ErrNodeNotFound", err)
	}
	if err.Error() != "source node 7: node not found" {
		t.Errorf("message = %q", err.Error())
	}
	if len(pub.getEvents()) != 0 {
		t.Error("failed mutation must not publish")
	}
}

func TestGraphService_CreateEdge_MissingField(t *testing.T) {
	t.Parallel()

	store := &mockGraphStore{}
	svc := NewGraphService(store, nil, testLogger())

	_, err := svc.CreateEdge(context.Background(), models.CreateEdgeRequest{Source: ptr[int64](0)})
	if !errors.Is(err, models.ErrMissingTarget) {
		t.Fatalf("err = %v, want ErrMissingTarget", err)
	}
	if len(store.getCalls()) != 0 {
		t.Error("store should not be called")
	}
}

func TestGraphService_Mutations_PublishEvents(t *testing.T) {
	t.Parallel()

	store := &mockGraphStore{}
	pub := &mockPublisher{}
	svc := NewGraphService(store, pub, testLogger())
	ctx := context.Background()

	if _, err := svc.UpdateNodePosition(ctx, 3, models.UpdatePositionRequest{X: ptr(5.0), Y: ptr(6.0)}); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteNode(ctx, 3); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteEdge(ctx, 4); err != nil {
		t.Fatal(err)
	}
	if err := svc.ClearGraph(ctx); err != nil {
		t.Fatal(err)
	}

	want := []string{ws.EventNodeMoved, ws.EventNodeDeleted, ws.EventEdgeDeleted, ws.EventGraphCleared}
	events := pub.getEvents()
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, w := range want {
		if events[i].Type != w {
			t.Errorf("event %d = %q, want %q", i, events[i].Type, w)
		}
	}
}

func TestGraphService_DeleteNode_NotFound(t *testing.T) {
	t.Parallel()

	store := &mockGraphStore{
		deleteNode: func(context.Context, int64) error { return models.ErrNodeNotFound },
	}
	pub := &mockPublisher{}
	svc := NewGraphService(store, pub, testLogger())

	if err := svc.DeleteNode(context.Background(), 9); !errors.Is(err, models.ErrNodeNotFound) {
		t.Fatalf("err = %v, want ErrNodeNotFound", err)
	}
	if len(pub.getEvents()) != 0 {
		t.Error("not-found delete must not publish")
	}
}

func TestGraphService_UpdateNodePosition_RejectsNaN(t *testing.T) {
	t.Parallel()

	store := &mockGraphStore{}
	svc := NewGraphService(store, nil, testLogger())

	nan := math.NaN()
	if _, err := svc.UpdateNodePosition(context.Background(), 0, models.UpdatePositionRequest{X: &nan, Y: ptr(0.0)}); err == nil {
		t.Fatal("expected validation error")
	}
	if len(store.getCalls()) != 0 {
		t.Error("store should not be called")
	}
}
