package main

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphboard/client"
	"github.com/persistorai/graphboard/internal/api"
	"github.com/persistorai/graphboard/internal/editor"
	"github.com/persistorai/graphboard/internal/models"
	"github.com/persistorai/graphboard/internal/service"
	"github.com/persistorai/graphboard/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func newLocalBoard() editor.Store {
	log := testLogger()
	return editor.NewLocalStore(service.NewGraphService(store.NewMemoryStore(log), nil, log))
}

// useBoardServer starts an in-memory board server and points apiClient at it.
func useBoardServer(t *testing.T) {
	t.Helper()

	log := testLogger()
	mem := store.NewMemoryStore(log)
	srv := httptest.NewServer(api.NewRouter(t.Context(), &api.RouterDeps{
		Log:     log,
		Graph:   service.NewGraphService(mem, nil, log),
		Store:   mem,
		Version: "test",
		Backend: "memory",
	}))
	t.Cleanup(srv.Close)

	orig := apiClient
	t.Cleanup(func() { apiClient = orig })
	apiClient = client.New(srv.URL)
}

func TestNewNodeAndEdge(t *testing.T) {
	before := editor.Snapshot{
		Nodes: []models.Node{{ID: 0}, {ID: 1}},
		Edges: []models.Edge{{ID: 0, Source: 0, Target: 1}},
	}
	after := editor.Snapshot{
		Nodes: []models.Node{{ID: 0}, {ID: 1}, {ID: 2, X: 5}, {ID: 3, X: 9}},
		Edges: []models.Edge{{ID: 0, Source: 0, Target: 1}},
	}

	n, ok := newNode(before, after)
	if !ok || n.ID != 3 {
		t.Errorf("newNode = %+v, %v; want id 3", n, ok)
	}
	if _, ok := newEdge(before, after); ok {
		t.Error("newEdge found an edge that was already there")
	}
}

func TestDragNode(t *testing.T) {
	tests := []struct {
		name string
		from editor.Point
		to   editor.Point
	}{
		{"whole units", editor.Point{X: 0, Y: 0}, editor.Point{X: 120, Y: 45}},
		{"fractional target", editor.Point{X: 0, Y: 0}, editor.Point{X: 0.1, Y: 0.3}},
		{"fractional start", editor.Point{X: 7.7, Y: 0.2}, editor.Point{X: 250.35, Y: 99.9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			board := newLocalBoard()
			for _, p := range []editor.Point{tt.from, {X: 300, Y: 300}} {
				if _, err := board.AddNode(ctx, p.X, p.Y); err != nil {
					t.Fatal(err)
				}
			}

			scene := editor.NewScene()
			ctrl := editor.NewController(board, scene)
			if err := ctrl.Refresh(ctx); err != nil {
				t.Fatal(err)
			}

			if err := dragNode(ctx, ctrl, scene, 0, tt.to); err != nil {
				t.Fatalf("dragNode: %v", err)
			}

			n, ok := findNode(ctrl.Snapshot(), 0)
			if !ok || n.X != tt.to.X || n.Y != tt.to.Y {
				t.Errorf("node 0 = %+v, want exactly %+v", n, tt.to)
			}
			if _, dragging := ctrl.Dragging(); dragging {
				t.Error("drag session left open")
			}
		})
	}
}

func TestDragNode_NotDraggable(t *testing.T) {
	ctx := t.Context()
	board := newLocalBoard()
	// Node 1 is drawn on top of node 0.
	for range 2 {
		if _, err := board.AddNode(ctx, 50, 50); err != nil {
			t.Fatal(err)
		}
	}

	scene := editor.NewScene()
	ctrl := editor.NewController(board, scene)
	if err := ctrl.Refresh(ctx); err != nil {
		t.Fatal(err)
	}

	for _, id := range []int64{0, 9} {
		err := dragNode(ctx, ctrl, scene, id, editor.Point{X: 1, Y: 1})
		if !errors.Is(err, errNotDraggable) {
			t.Errorf("node %d: err = %v, want errNotDraggable", id, err)
		}
	}

	if n, _ := findNode(ctrl.Snapshot(), 0); n.X != 50 || n.Y != 50 {
		t.Errorf("covered node moved to %+v", n)
	}
}

func TestBoardCommands(t *testing.T) {
	resetFlags(t)
	useBoardServer(t)
	flagFmt = "json"

	run := func(args ...string) string {
		t.Helper()
		var err error
		out := captureStdout(t, func() { err = executeArgs(t, newTestRoot(), args...) })
		if err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out
	}

	var n models.Node
	for range 2 {
		if err := json.Unmarshal([]byte(run("add-node", "--width", "100", "--height", "100")), &n); err != nil {
			t.Fatal(err)
		}
		if n.X < 0 || n.X >= 80 || n.Y < 0 || n.Y >= 80 {
			t.Errorf("node placed outside bounds: %+v", n)
		}
	}

	var e models.Edge
	if err := json.Unmarshal([]byte(run("add-edge", " 0", "1 ")), &e); err != nil {
		t.Fatal(err)
	}
	if e.Source != 0 || e.Target != 1 {
		t.Errorf("edge = %+v", e)
	}

	if err := json.Unmarshal([]byte(run("move", "1", "200", "150")), &n); err != nil {
		t.Fatal(err)
	}
	if n.ID != 1 || n.X != 200 || n.Y != 150 {
		t.Errorf("moved node = %+v", n)
	}

	var board boardView
	if err := json.Unmarshal([]byte(run("show")), &board); err != nil {
		t.Fatal(err)
	}
	if len(board.Nodes) != 2 || len(board.Edges) != 1 {
		t.Errorf("board = %+v", board)
	}

	run("delete", "0")
	var stats client.StatsResponse
	if err := json.Unmarshal([]byte(run("stats")), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Nodes != 1 || stats.Edges != 0 {
		t.Errorf("stats after delete = %+v, want cascade", stats)
	}

	if err := json.Unmarshal([]byte(run("generate", "complete", "3")), &board); err != nil {
		t.Fatal(err)
	}
	if len(board.Nodes) != 3 || len(board.Edges) != 3 {
		t.Errorf("generated board = %+v", board)
	}

	run("delete-edge", "2")
	out := filepath.Join(t.TempDir(), "board.svg")
	run("render", "-o", out)
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "<svg") || strings.Count(string(data), "data-edge=") != 2 {
		t.Errorf("unexpected svg:\n%s", data)
	}

	if err := json.Unmarshal([]byte(run("clear")), &board); err != nil {
		t.Fatal(err)
	}
	if len(board.Nodes) != 0 || len(board.Edges) != 0 {
		t.Errorf("board after clear = %+v", board)
	}
}

func TestFormatEvent(t *testing.T) {
	line := formatEvent(client.Event{Type: "node.moved", ID: 42, Data: json.RawMessage(`{"id":1}`)})

	for _, want := range []string{"node.moved", "#42", `{"id":1}`} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}

	reset := formatEvent(client.Event{Type: "reset", Message: "events evicted"})
	if strings.Contains(reset, "#") || !strings.Contains(reset, "events evicted") {
		t.Errorf("reset line = %q", reset)
	}
}
