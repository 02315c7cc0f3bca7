package editor

import (
	"context"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphboard/internal/models"
)

// Default surface bounds used for random node placement.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
)

// Edge form notices.
const (
	msgEdgeFieldsRequired = "Please enter both source and target node IDs."
	msgEdgeFieldsInvalid  = "Invalid node IDs. Please enter numbers."
)

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets where failures are surfaced.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithLogger sets the controller's logger.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithBounds sets the surface size used for random node placement.
func WithBounds(width, height float64) Option {
	return func(c *Controller) { c.width, c.height = width, height }
}

// WithRandom replaces the uniform [0,1) source used for node placement.
func WithRandom(fn func() float64) Option {
	return func(c *Controller) { c.random = fn }
}

// Controller turns gestures into store mutations and keeps the surface in
// sync with the store. Every mutation is followed by a full re-fetch.
//
// mu guards the surface, the cache swap, the drag slot and the edge form.
// Store round-trips always run without it.
type Controller struct {
	store    Store
	surface  Surface
	renderer *Renderer
	cache    SnapshotCache
	notifier Notifier
	log      *logrus.Logger
	width    float64
	height   float64
	random   func() float64

	mu     sync.Mutex
	drag   *dragSession
	source string
	target string

	dispatch map[Gesture]func(Event) Pending
}

// NewController creates a Controller rendering onto surface.
func NewController(store Store, surface Surface, opts ...Option) *Controller {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	c := &Controller{
		store:    store,
		surface:  surface,
		notifier: discardNotifier{},
		log:      quiet,
		width:    DefaultWidth,
		height:   DefaultHeight,
		random:   rand.Float64,
	}
	for _, o := range opts {
		o(c)
	}

	c.renderer = NewRenderer(surface, c.bindMarker)
	c.dispatch = map[Gesture]func(Event) Pending{
		GesturePress:       func(ev Event) Pending { return c.onMarker(GesturePress, ev.Point) },
		GestureMove:        func(ev Event) Pending { return c.onMove(ev.Point) },
		GestureRelease:     func(ev Event) Pending { return c.onRelease(ev.Point) },
		GestureDoublePress: func(ev Event) Pending { return c.onMarker(GestureDoublePress, ev.Point) },
		GestureAddNode:     func(Event) Pending { return c.addNode() },
		GestureAddEdge:     func(Event) Pending { return c.addEdge() },
		GestureClear:       func(Event) Pending { return c.clearBoard() },
		GestureRefresh:     func(Event) Pending { return c.refresh },
		GestureEditForm: func(ev Event) Pending {
			c.SetEdgeForm(ev.Source, ev.Target)
			return nil
		},
	}

	return c
}

// Prepare runs the synchronous part of ev and returns its pending store
// round-trip, if any.
func (c *Controller) Prepare(ev Event) Pending {
	h, ok := c.dispatch[ev.Gesture]
	if !ok {
		c.log.WithField("gesture", int(ev.Gesture)).Warn("unknown gesture")
		return nil
	}

	c.log.WithFields(logrus.Fields{
		"gesture": ev.Gesture.String(),
		"x":       ev.Point.X,
		"y":       ev.Point.Y,
	}).Debug("dispatch")

	return h(ev)
}

// Dispatch handles ev completely, waiting for any store round-trip.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	p := c.Prepare(ev)
	if p == nil {
		return nil
	}

	return p(ctx)
}

// Snapshot returns the last authoritative graph the view was rendered from.
func (c *Controller) Snapshot() Snapshot {
	return c.cache.Current()
}

// Refresh re-fetches the graph and redraws the surface.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.refresh(ctx)
}

// AddNode places a node at a random position inside the bounds.
func (c *Controller) AddNode(ctx context.Context) error {
	return c.Dispatch(ctx, Event{Gesture: GestureAddNode})
}

// AddEdge submits the edge form.
func (c *Controller) AddEdge(ctx context.Context) error {
	return c.Dispatch(ctx, Event{Gesture: GestureAddEdge})
}

// ClearBoard removes every node and edge.
func (c *Controller) ClearBoard(ctx context.Context) error {
	return c.Dispatch(ctx, Event{Gesture: GestureClear})
}

// DeleteNode deletes id directly, as a double press on its marker would.
func (c *Controller) DeleteNode(ctx context.Context, id int64) error {
	return c.requestDelete(id)(ctx)
}

// SetEdgeForm fills the edge form fields.
func (c *Controller) SetEdgeForm(source, target string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.source, c.target = source, target
}

// EdgeForm returns the edge form fields.
func (c *Controller) EdgeForm() (source, target string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.source, c.target
}

func (c *Controller) bindMarker(n models.Node) map[Gesture]Handler {
	id := n.ID

	return map[Gesture]Handler{
		GesturePress:       func(p Point) Pending { return c.beginDrag(id, p) },
		GestureDoublePress: func(Point) Pending { return c.requestDelete(id) },
	}
}

// onMarker runs the handler registered for g on the marker under p.
func (c *Controller) onMarker(g Gesture, p Point) Pending {
	c.mu.Lock()
	m, ok := c.surface.MarkerAt(p)
	c.mu.Unlock()

	if !ok {
		return nil
	}

	h := m.Handlers[g]
	if h == nil {
		return nil
	}

	return h(p)
}

// fail logs and surfaces err and returns it classified.
func (c *Controller) fail(op string, err error) error {
	err = classify(op, err)

	c.log.WithError(err).WithField("op", op).Warn("board operation failed")
	c.notifier.Notify(err)

	return err
}

// rejected reports a validation failure and returns a Pending yielding it.
func (c *Controller) rejected(op string, err error) Pending {
	err = c.fail(op, err)

	return func(context.Context) error { return err }
}

// refresh fetches the graph, swaps the cache and redraws. On failure the
// last-known-good view stays in place.
func (c *Controller) refresh(ctx context.Context) error {
	snap, err := c.store.GetGraph(ctx)
	if err != nil {
		return c.fail(OpGetGraph, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Replace(snap)
	c.renderer.Render(snap)
	c.reapplyDragLocked()

	return nil
}

func (c *Controller) addNode() Pending {
	x := c.random() * max(c.width-MarkerSize, 0)
	y := c.random() * max(c.height-MarkerSize, 0)

	return func(ctx context.Context) error {
		n, err := c.store.AddNode(ctx, x, y)
		if err != nil {
			return c.fail(OpAddNode, err)
		}

		c.log.WithFields(logrus.Fields{"node_id": n.ID, "x": n.X, "y": n.Y}).Debug("node added")

		return c.refresh(ctx)
	}
}

// parseEdgeForm validates the edge form. Whitespace around ids is ignored
// and parsing is strict base-10.
func parseEdgeForm(source, target string) (int64, int64, error) {
	source, target = strings.TrimSpace(source), strings.TrimSpace(target)

	if source == "" {
		return 0, 0, &ValidationError{Field: "source", Message: msgEdgeFieldsRequired}
	}

	if target == "" {
		return 0, 0, &ValidationError{Field: "target", Message: msgEdgeFieldsRequired}
	}

	s, err := strconv.ParseInt(source, 10, 64)
	if err != nil {
		return 0, 0, &ValidationError{Field: "source", Message: msgEdgeFieldsInvalid}
	}

	t, err := strconv.ParseInt(target, 10, 64)
	if err != nil {
		return 0, 0, &ValidationError{Field: "target", Message: msgEdgeFieldsInvalid}
	}

	return s, t, nil
}

func (c *Controller) addEdge() Pending {
	rawSource, rawTarget := c.EdgeForm()

	source, target, err := parseEdgeForm(rawSource, rawTarget)
	if err != nil {
		return c.rejected(OpAddEdge, err)
	}

	return func(ctx context.Context) error {
		e, err := c.store.AddEdge(ctx, source, target)
		if err != nil {
			// The form keeps its contents so the user can correct them.
			return c.fail(OpAddEdge, err)
		}

		c.mu.Lock()
		if c.source == rawSource && c.target == rawTarget {
			c.source, c.target = "", ""
		}
		c.mu.Unlock()

		c.log.WithFields(logrus.Fields{"edge_id": e.ID, "source": e.Source, "target": e.Target}).Debug("edge added")

		return c.refresh(ctx)
	}
}

func (c *Controller) requestDelete(id int64) Pending {
	return func(ctx context.Context) error {
		if err := c.store.DeleteNode(ctx, id); err != nil {
			if !isNotFound(err) {
				return c.fail(OpDeleteNode, err)
			}

			c.log.WithField("node_id", id).Debug("delete of missing node ignored")
		}

		return c.refresh(ctx)
	}
}

func (c *Controller) clearBoard() Pending {
	return func(ctx context.Context) error {
		if err := c.store.ClearGraph(ctx); err != nil {
			return c.fail(OpClearGraph, err)
		}

		return c.refresh(ctx)
	}
}
