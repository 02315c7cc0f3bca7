package canvas

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strconv"

	"github.com/persistorai/graphboard/internal/editor"
)

const (
	svgStroke = "#333333"
	svgFill   = "#4a90d9"
	svgLabel  = "#ffffff"
)

// svgWriter stops writing after the first error.
type svgWriter struct {
	w   *bufio.Writer
	err error
}

func (s *svgWriter) printf(format string, args ...any) {
	if s.err != nil {
		return
	}

	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SVG writes f as a standalone SVG document.
func SVG(w io.Writer, f editor.Frame, opts Options) error {
	v := fit(f, opts)
	s := &svgWriter{w: bufio.NewWriter(w)}

	vbW, vbH := v.extent()
	s.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %s %s">`+"\n",
		v.width, v.height, num(vbW), num(vbH))
	s.printf(`<rect width="100%%" height="100%%" fill="#ffffff"/>` + "\n")

	// Connectors first so markers sit on top.
	for _, c := range f.Connectors {
		s.printf(`<line data-edge="%d" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`+"\n",
			c.EdgeID, num(v.x(c.X1)), num(v.y(c.Y1)), num(v.x(c.X2)), num(v.y(c.Y2)), svgStroke)

		if tx, ty, x1, y1, x2, y2, ok := arrowHead(c); ok {
			s.printf(`<polygon points="%s,%s %s,%s %s,%s" fill="%s"/>`+"\n",
				num(v.x(tx)), num(v.y(ty)), num(v.x(x1)), num(v.y(y1)), num(v.x(x2)), num(v.y(y2)), svgStroke)
		}
	}

	for _, m := range f.Markers {
		cx, cy := v.x(m.X+editor.MarkerRadius), v.y(m.Y+editor.MarkerRadius)

		s.printf(`<g data-node="%d">`, m.NodeID)
		s.printf(`<circle cx="%s" cy="%s" r="%s" fill="%s" stroke="%s"/>`,
			num(cx), num(cy), num(editor.MarkerRadius), svgFill, svgStroke)
		s.printf(`<text x="%s" y="%s" font-family="monospace" font-size="%s" text-anchor="middle" dominant-baseline="central" fill="%s">%s</text>`,
			num(cx), num(cy), num(labelSize), svgLabel, html.EscapeString(m.Label))
		s.printf("</g>\n")
	}

	s.printf("</svg>\n")

	if s.err != nil {
		return fmt.Errorf("writing svg: %w", s.err)
	}

	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("flushing svg: %w", err)
	}

	return nil
}
