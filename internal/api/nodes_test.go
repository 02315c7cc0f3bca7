package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/persistorai/graphboard/internal/api"
	"github.com/persistorai/graphboard/internal/models"
)

func nodeRouter(svc *mockGraphService) http.Handler {
	r := newTestRouter()
	h := api.NewNodeHandler(svc, testLogger())
	r.POST("/nodes", h.Create)
	r.PUT("/nodes/:id/position", h.Move)
	r.DELETE("/nodes/:id", h.Delete)

	return r
}

func TestNodeCreate_Valid(t *testing.T) {
	t.Parallel()

	svc := &mockGraphService{
		createFn: func(_ context.Context, req models.CreateNodeRequest) (*models.Node, error) {
			return &models.Node{ID: 3, X: *req.X, Y: *req.Y}, nil
		},
	}

	w := doRequest(nodeRouter(svc), http.MethodPost, "/nodes", `{"x":12.5,"y":40}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var node models.Node
	if err := json.Unmarshal(w.Body.Bytes(), &node); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if node != (models.Node{ID: 3, X: 12.5, Y: 40}) {
		t.Errorf("unexpected node: %+v", node)
	}
}

func TestNodeCreate_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"malformed", `{"x":`, api.ErrCodeInvalidRequest},
		{"wrong type", `{"x":"left","y":1}`, api.ErrCodeInvalidRequest},
		{"missing y", `{"x":1}`, api.ErrCodeValidationError},
		{"out of range", `{"x":1e9,"y":1}`, api.ErrCodeValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := doRequest(nodeRouter(&mockGraphService{}), http.MethodPost, "/nodes", tt.body)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}

			if got := errorBody(t, w)["code"]; got != tt.wantCode {
				t.Errorf("code = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestNodeCreate_StoreFailure(t *testing.T) {
	t.Parallel()

	svc := &mockGraphService{
		createFn: func(context.Context, models.CreateNodeRequest) (*models.Node, error) { return nil, errDB },
	}

	w := doRequest(nodeRouter(svc), http.MethodPost, "/nodes", `{"x":1,"y":1}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	if msg := errorBody(t, w)["message"]; msg != "internal server error" {
		t.Errorf("store error leaked: %q", msg)
	}
}

func TestNodeMove(t *testing.T) {
	t.Parallel()

	var gotID int64

	svc := &mockGraphService{
		moveFn: func(_ context.Context, id int64, req models.UpdatePositionRequest) (*models.Node, error) {
			gotID = id
			if id == 9 {
				return nil, fmt.Errorf("moving: %w", models.ErrNodeNotFound)
			}

			return &models.Node{ID: id, X: *req.X, Y: *req.Y}, nil
		},
	}
	r := nodeRouter(svc)

	w := doRequest(r, http.MethodPut, "/nodes/2/position", `{"x":130,"y":30}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotID != 2 {
		t.Errorf("service got id %d, want 2", gotID)
	}

	w = doRequest(r, http.MethodPut, "/nodes/9/position", `{"x":1,"y":1}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	w = doRequest(r, http.MethodPut, "/nodes/abc/position", `{"x":1,"y":1}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-integer id, got %d", w.Code)
	}
}

func TestNodeDelete(t *testing.T) {
	t.Parallel()

	svc := &mockGraphService{
		deleteFn: func(_ context.Context, id int64) error {
			if id != 1 {
				return models.ErrNodeNotFound
			}

			return nil
		},
	}
	r := nodeRouter(svc)

	if w := doRequest(r, http.MethodDelete, "/nodes/1", ""); w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}

	if w := doRequest(r, http.MethodDelete, "/nodes/5", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	if w := doRequest(r, http.MethodDelete, "/nodes/-1", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for negative id, got %d", w.Code)
	}
}
