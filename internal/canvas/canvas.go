// Package canvas encodes rendered board frames as SVG or PNG images.
package canvas

import (
	"math"

	"github.com/persistorai/graphboard/internal/editor"
)

const (
	defaultPadding = 20.0
	arrowSize      = 6.0
	arrowAngle     = 0.5
	labelSize      = 10.0
)

// DefaultMaxSize is the largest image side produced when Options.MaxSize
// is unset.
const DefaultMaxSize = 4096

// Options controls the output image. A zero Width or Height is fitted to
// the frame's contents. Fitted sides larger than MaxSize are scaled down
// uniformly; explicit sides are clamped to it.
type Options struct {
	Width   int
	Height  int
	Padding float64
	MaxSize int
}

// viewport maps board coordinates onto the image. Board coordinates are
// translated by origin, then multiplied by scale.
type viewport struct {
	originX, originY float64
	width, height    int
	scale            float64
}

func (v viewport) x(bx float64) float64 { return bx - v.originX }
func (v viewport) y(by float64) float64 { return by - v.originY }

// extent is the image size in board units, rounded to hundredths.
func (v viewport) extent() (float64, float64) {
	return math.Round(float64(v.width)/v.scale*100) / 100, math.Round(float64(v.height)/v.scale*100) / 100
}

// fit computes the viewport for f. The board origin stays visible unless
// something lies above or left of it.
func fit(f editor.Frame, opts Options) viewport {
	pad := opts.Padding
	if pad <= 0 {
		pad = defaultPadding
	}

	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	minX, minY := 0.0, 0.0
	maxX, maxY := 0.0, 0.0

	for _, m := range f.Markers {
		minX, minY = math.Min(minX, m.X), math.Min(minY, m.Y)
		maxX, maxY = math.Max(maxX, m.X+editor.MarkerSize), math.Max(maxY, m.Y+editor.MarkerSize)
	}

	contentW, contentH := maxX-minX+2*pad, maxY-minY+2*pad
	limit := float64(maxSize)

	scale := 1.0
	if opts.Width <= 0 && contentW > limit {
		scale = math.Min(scale, limit/contentW)
	}

	if opts.Height <= 0 && contentH > limit {
		scale = math.Min(scale, limit/contentH)
	}

	v := viewport{
		originX: minX - pad,
		originY: minY - pad,
		width:   opts.Width,
		height:  opts.Height,
		scale:   scale,
	}

	if v.width <= 0 {
		v.width = int(math.Ceil(contentW * scale))
	}

	if v.height <= 0 {
		v.height = int(math.Ceil(contentH * scale))
	}

	v.width = min(max(v.width, 1), maxSize)
	v.height = min(max(v.height, 1), maxSize)

	return v
}

// arrowHead returns the tip and base corners of the arrowhead for a
// connector, pulled back to the target marker's rim. ok is false for
// connectors shorter than the marker radius.
func arrowHead(c editor.ConnectorView) (tipX, tipY, x1, y1, x2, y2 float64, ok bool) {
	dx, dy := c.X2-c.X1, c.Y2-c.Y1

	length := math.Hypot(dx, dy)
	if length < editor.MarkerRadius {
		return 0, 0, 0, 0, 0, 0, false
	}

	dx /= length
	dy /= length

	tipX = c.X2 - dx*editor.MarkerRadius
	tipY = c.Y2 - dy*editor.MarkerRadius

	x1 = tipX - arrowSize*dx + arrowSize*dy*arrowAngle
	y1 = tipY - arrowSize*dy - arrowSize*dx*arrowAngle
	x2 = tipX - arrowSize*dx - arrowSize*dy*arrowAngle
	y2 = tipY - arrowSize*dy + arrowSize*dx*arrowAngle

	return tipX, tipY, x1, y1, x2, y2, true
}
