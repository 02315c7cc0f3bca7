package editor

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphboard/internal/models"
	"github.com/persistorai/graphboard/internal/service"
	"github.com/persistorai/graphboard/internal/store"
)

var errStoreDown = errors.New("connection refused")

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

// recordingStore wraps a real in-process board, records every call and can
// be told to fail or block individual operations.
type recordingStore struct {
	inner Store

	mu     sync.Mutex
	calls  []string
	fail   map[string]error
	before map[string]func()
}

func newRecordingStore() *recordingStore {
	log := testLogger()
	svc := service.NewGraphService(store.NewMemoryStore(log), nil, log)

	return &recordingStore{
		inner:  NewLocalStore(svc),
		fail:   make(map[string]error),
		before: make(map[string]func()),
	}
}

func (s *recordingStore) enter(op string) error {
	s.mu.Lock()
	s.calls = append(s.calls, op)
	err := s.fail[op]
	hook := s.before[op]
	s.mu.Unlock()

	if hook != nil {
		hook()
	}

	return err
}

func (s *recordingStore) failOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = err
}

func (s *recordingStore) hook(op string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.before[op] = fn
}

func (s *recordingStore) getCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]string, len(s.calls))
	copy(cp, s.calls)
	return cp
}

func (s *recordingStore) count(op string) int {
	n := 0
	for _, c := range s.getCalls() {
		if c == op {
			n++
		}
	}
	return n
}

func (s *recordingStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *recordingStore) GetGraph(ctx context.Context) (Snapshot, error) {
	if err := s.enter(OpGetGraph); err != nil {
		return Snapshot{}, err
	}
	return s.inner.GetGraph(ctx)
}

func (s *recordingStore) AddNode(ctx context.Context, x, y float64) (models.Node, error) {
	if err := s.enter(OpAddNode); err != nil {
		return models.Node{}, err
	}
	return s.inner.AddNode(ctx, x, y)
}

func (s *recordingStore) AddEdge(ctx context.Context, source, target int64) (models.Edge, error) {
	if err := s.enter(OpAddEdge); err != nil {
		return models.Edge{}, err
	}
	return s.inner.AddEdge(ctx, source, target)
}

func (s *recordingStore) UpdateNodePosition(ctx context.Context, id int64, x, y float64) error {
	if err := s.enter(OpUpdateNodePosition); err != nil {
		return err
	}
	return s.inner.UpdateNodePosition(ctx, id, x, y)
}

func (s *recordingStore) DeleteNode(ctx context.Context, id int64) error {
	if err := s.enter(OpDeleteNode); err != nil {
		return err
	}
	return s.inner.DeleteNode(ctx, id)
}

func (s *recordingStore) ClearGraph(ctx context.Context) error {
	if err := s.enter(OpClearGraph); err != nil {
		return err
	}
	return s.inner.ClearGraph(ctx)
}

// notices collects everything surfaced to the user.
type notices struct {
	mu   sync.Mutex
	errs []error
}

func (n *notices) Notify(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errs = append(n.errs, err)
}

func (n *notices) get() []error {
	n.mu.Lock()
	defer n.mu.Unlock()
	cp := make([]error, len(n.errs))
	copy(cp, n.errs)
	return cp
}

type harness struct {
	store   *recordingStore
	scene   *Scene
	ctrl    *Controller
	notices *notices
}

func newHarness(opts ...Option) *harness {
	h := &harness{store: newRecordingStore(), scene: NewScene(), notices: &notices{}}
	opts = append([]Option{WithNotifier(h.notices), WithLogger(testLogger())}, opts...)
	h.ctrl = NewController(h.store, h.scene, opts...)
	return h
}

// seed adds nodes at the given positions directly through the store and
// refreshes the view.
func (h *harness) seed(ctx context.Context, positions ...Point) error {
	for _, p := range positions {
		if _, err := h.store.inner.AddNode(ctx, p.X, p.Y); err != nil {
			return err
		}
	}
	if err := h.ctrl.Refresh(ctx); err != nil {
		return err
	}
	h.store.reset()
	return nil
}
