package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
)

// newTestServer creates a test server that routes to the given handler map.
// Keys are "METHOD /path", values are handler funcs.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := New(srv.URL, WithAPIKey("test-key"))
	return srv, c
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func TestHealth(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/health": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, HealthResponse{Status: "ok", Version: "0.3.0", Store: "memory"})
		},
	})
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if resp.Status != "ok" || resp.Store != "memory" {
		t.Errorf("got %+v", resp)
	}
}

func TestStats(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/stats": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, StatsResponse{Nodes: 3, Edges: 2})
		},
	})
	resp, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if resp.Nodes != 3 || resp.Edges != 2 {
		t.Errorf("got %+v", resp)
	}
}

func TestNodes(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/nodes": func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer test-key" {
				jsonResponse(w, 401, map[string]string{"code": "unauthorized", "message": "missing key"})
				return
			}
			var req PositionRequest
			json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
			jsonResponse(w, 201, Node{ID: 0, X: req.X, Y: req.Y})
		},
		"PUT /api/v1/nodes/0/position": func(w http.ResponseWriter, r *http.Request) {
			var req PositionRequest
			json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
			jsonResponse(w, 200, Node{ID: 0, X: req.X, Y: req.Y})
		},
		"DELETE /api/v1/nodes/0": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
	})

	ctx := context.Background()

	node, err := c.Nodes.Create(ctx, 12.5, 40)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if node.X != 12.5 || node.Y != 40 {
		t.Errorf("Create: got %+v", node)
	}

	node, err = c.Nodes.Move(ctx, 0, 100, 200)
	if err != nil {
		t.Fatalf("Move error: %v", err)
	}
	if node.X != 100 || node.Y != 200 {
		t.Errorf("Move: got %+v", node)
	}

	if err := c.Nodes.Delete(ctx, 0); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestEdges_CreateRejected(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/edges": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 400, map[string]string{"code": "invalid_request", "message": "source node 7: node not found"})
		},
	})

	_, err := c.Edges.Create(context.Background(), 7, 0)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message != "source node 7: node not found" || !apiErr.IsClientError() {
		t.Errorf("got %+v", apiErr)
	}
}

func TestGraph(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/graph": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, Graph{Nodes: []Node{{ID: 0}, {ID: 1}}, Edges: []Edge{{ID: 0, Source: 0, Target: 1}}})
		},
		"DELETE /api/v1/graph": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
		"POST /api/v1/graph/generate": func(w http.ResponseWriter, r *http.Request) {
			var req GenerateRequest
			json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
			if req.Kind != GenerateComplete || req.Nodes != 2 {
				jsonResponse(w, 400, map[string]string{"code": "validation_error", "message": "bad"})
				return
			}
			jsonResponse(w, 201, Graph{Nodes: []Node{{ID: 0}, {ID: 1, X: 50, Y: 50}}, Edges: []Edge{{Source: 0, Target: 1}}})
		},
		"GET /api/v1/graph/render.svg": func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "image/svg+xml")
			io.WriteString(w, "<svg></svg>") //nolint:errcheck
		},
	})

	ctx := context.Background()

	g, err := c.Graph.Get(ctx)
	if err != nil || len(g.Nodes) != 2 || len(g.Edges) != 1 {
		t.Fatalf("Get: err=%v, graph=%+v", err, g)
	}

	g, err = c.Graph.Generate(ctx, GenerateComplete, 2)
	if err != nil || g.Nodes[1].X != 50 {
		t.Fatalf("Generate: err=%v, graph=%+v", err, g)
	}

	if err := c.Graph.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	svg, err := c.Graph.Render(ctx, FormatSVG)
	if err != nil || string(svg) != "<svg></svg>" {
		t.Fatalf("Render: err=%v, body=%q", err, svg)
	}

	if _, err := c.Graph.Render(ctx, "gif"); err == nil {
		t.Fatal("Render: expected error for unsupported format")
	}
}

func apiResponse(status int, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}

	return &http.Response{StatusCode: status, Header: header}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		status   int
		notFound bool
		invalid  bool
		limited  bool
	}{
		{404, true, false, false},
		{400, false, true, false},
		{429, false, false, true},
		{500, false, false, false},
	}

	for _, tt := range tests {
		err := parseAPIError(apiResponse(tt.status, nil), []byte(`{"code":"x","message":"y"}`))
		if IsNotFound(err) != tt.notFound || IsInvalid(err) != tt.invalid || IsRateLimited(err) != tt.limited {
			t.Errorf("status %d: helpers disagree", tt.status)
		}
	}

	if IsNotFound(errors.New("plain")) {
		t.Error("plain error must not be not-found")
	}
}

func TestParseAPIError_RawBody(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "3")
	header.Set(requestIDHeader, "rid-1")

	err := parseAPIError(apiResponse(502, header), []byte("bad gateway"))
	if err.Code != "unknown" || err.Message != "bad gateway" {
		t.Errorf("got %+v", err)
	}
	if err.IsClientError() {
		t.Error("502 is not a client error")
	}
	if err.RetryAfter != 3*time.Second || err.RequestID != "rid-1" {
		t.Errorf("RetryAfter = %v, RequestID = %q", err.RetryAfter, err.RequestID)
	}
}

func TestSend_RetriesRateLimitedRequest(t *testing.T) {
	var calls atomic.Int32

	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/nodes": func(w http.ResponseWriter, r *http.Request) {
			if _, err := uuid.Parse(r.Header.Get(requestIDHeader)); err != nil {
				t.Errorf("request id %q is not a uuid", r.Header.Get(requestIDHeader))
			}

			var req PositionRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.X != 4 {
				t.Errorf("body not replayed on retry: %+v (err %v)", req, err)
			}

			if calls.Add(1) == 1 {
				w.Header().Set("Retry-After", "1")
				jsonResponse(w, http.StatusTooManyRequests, map[string]string{"code": "rate_limited", "message": "slow down"})
				return
			}

			jsonResponse(w, http.StatusCreated, Node{ID: 0, X: 4, Y: 5})
		},
	})

	if _, err := c.Nodes.Create(context.Background(), 4, 5); !IsRateLimited(err) {
		t.Fatalf("default client retried or failed differently: %v", err)
	}

	calls.Store(0)

	n, err := c.With(WithRateLimitRetries(2)).Nodes.Create(context.Background(), 4, 5)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if n.X != 4 || calls.Load() != 2 {
		t.Errorf("node %+v after %d calls", n, calls.Load())
	}
}

func TestWatch(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/ws": func(w http.ResponseWriter, r *http.Request) {
			conn, err := websocket.Accept(w, r, nil)
			if err != nil {
				return
			}
			defer conn.CloseNow() //nolint:errcheck

			var sub struct {
				Type        string `json:"type"`
				LastEventID uint64 `json:"last_event_id"`
			}
			if err := wsjson.Read(r.Context(), conn, &sub); err != nil || sub.Type != "subscribe" || sub.LastEventID != 4 {
				return
			}

			for id := uint64(5); id <= 6; id++ {
				wsjson.Write(r.Context(), conn, Event{Type: "node.created", ID: id}) //nolint:errcheck
			}
			conn.Read(r.Context()) //nolint:errcheck // wait for the client to close
		},
	})

	var got []uint64
	err := c.Watch(context.Background(), 4, func(evt Event) error {
		got = append(got, evt.ID)
		if len(got) == 2 {
			return ErrStopWatch
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Watch error: %v", err)
	}
	if len(got) != 2 || got[0] != 5 || got[1] != 6 {
		t.Errorf("got ids %v, want [5 6]", got)
	}
}
