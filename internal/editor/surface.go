package editor

import "context"

// Marker geometry. Connectors attach at the marker center.
const (
	MarkerSize   = 20.0
	MarkerRadius = MarkerSize / 2
)

// Point is a position in surface coordinates, origin top-left.
type Point struct {
	X float64
	Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// center returns the connector anchor of a marker whose top-left is p.
func center(p Point) Point { return p.Add(Point{X: MarkerRadius, Y: MarkerRadius}) }

// Gesture is a user action delivered to the Controller.
type Gesture int

// Pointer gestures carry a position; the rest are control activations
// or form input.
const (
	GesturePress Gesture = iota + 1
	GestureMove
	GestureRelease
	GestureDoublePress
	GestureAddNode
	GestureAddEdge
	GestureClear
	GestureRefresh
	GestureEditForm
)

var gestureNames = map[Gesture]string{
	GesturePress:       "press",
	GestureMove:        "move",
	GestureRelease:     "release",
	GestureDoublePress: "double-press",
	GestureAddNode:     "add-node",
	GestureAddEdge:     "add-edge",
	GestureClear:       "clear",
	GestureRefresh:     "refresh",
	GestureEditForm:    "edit-form",
}

func (g Gesture) String() string {
	if name, ok := gestureNames[g]; ok {
		return name
	}
	return "unknown"
}

// Event is one gesture with its pointer position, if any. Source and
// Target carry the edge form text for GestureEditForm.
type Event struct {
	Gesture Gesture
	Point   Point
	Source  string
	Target  string
}

// Pending is the asynchronous part of a gesture: the store round-trip and
// the refresh after it. A nil Pending means there is nothing left to do.
type Pending func(ctx context.Context) error

// Handler is a per-marker gesture handler registered at render time.
type Handler func(p Point) Pending

// Marker is the visual element for one node.
type Marker struct {
	NodeID   int64
	Pos      Point
	Label    string
	Handlers map[Gesture]Handler
}

// Connector is the visual element for one edge, drawn between marker centers.
type Connector struct {
	EdgeID int64
	Source int64
	Target int64
	From   Point
	To     Point
}

// Surface is the drawing target of the Renderer and the hit-test source of
// the Controller.
type Surface interface {
	Clear()
	DrawConnector(c Connector)
	DrawMarker(m Marker)
	// MarkerAt returns the topmost marker whose box contains p.
	MarkerAt(p Point) (Marker, bool)
	MarkerPosition(id int64) (Point, bool)
	// MoveMarker changes a marker's visual position and re-anchors the
	// connectors attached to it. It reports false for unknown ids.
	MoveMarker(id int64, pos Point) bool
}
