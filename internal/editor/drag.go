package editor

import (
	"context"

	"github.com/sirupsen/logrus"
)

// dragSession is the single drag in progress. offset is the pointer position
// relative to the marker's top-left at press time; pos is the marker's
// current visual position.
type dragSession struct {
	nodeID int64
	offset Point
	pos    Point
}

// Dragging reports the node being dragged, if any.
func (c *Controller) Dragging() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.drag == nil {
		return 0, false
	}

	return c.drag.nodeID, true
}

// beginDrag moves Idle to Dragging. A press while a session exists is ignored.
func (c *Controller) beginDrag(id int64, p Point) Pending {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.drag != nil {
		return nil
	}

	pos, ok := c.surface.MarkerPosition(id)
	if !ok {
		return nil
	}

	c.drag = &dragSession{nodeID: id, offset: p.Sub(pos), pos: pos}

	return nil
}

// onMove updates the dragged marker locally. No store call is made.
func (c *Controller) onMove(p Point) Pending {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.drag == nil {
		return nil
	}

	pos := p.Sub(c.drag.offset)
	if !c.surface.MoveMarker(c.drag.nodeID, pos) {
		c.drag = nil
		return nil
	}

	c.drag.pos = pos

	return nil
}

// onRelease ends the session and persists the marker's final visual
// position. The view is refreshed whether or not the update succeeded.
func (c *Controller) onRelease(Point) Pending {
	c.mu.Lock()
	s := c.drag
	c.drag = nil

	var pos Point
	if s != nil {
		var ok bool
		if pos, ok = c.surface.MarkerPosition(s.nodeID); !ok {
			pos = s.pos
		}
	}
	c.mu.Unlock()

	if s == nil {
		return nil
	}

	return func(ctx context.Context) error {
		err := c.store.UpdateNodePosition(ctx, s.nodeID, pos.X, pos.Y)
		if err != nil {
			err = c.fail(OpUpdateNodePosition, err)
		}

		if rerr := c.refresh(ctx); err == nil {
			err = rerr
		}

		return err
	}
}

// reapplyDragLocked puts the dragged marker back where the pointer holds it
// after a re-render. If the node is gone the session is cancelled.
func (c *Controller) reapplyDragLocked() {
	if c.drag == nil {
		return
	}

	if c.surface.MoveMarker(c.drag.nodeID, c.drag.pos) {
		return
	}

	c.log.WithFields(logrus.Fields{"node_id": c.drag.nodeID}).Debug("dragged node disappeared, drag cancelled")
	c.drag = nil
}
