package canvas

import (
	"fmt"
	"image/color"
	"io"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/persistorai/graphboard/internal/editor"
)

var (
	pngStroke = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	pngFill   = color.RGBA{R: 0x4a, G: 0x90, B: 0xd9, A: 0xff}
)

var labelFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(gomono.TTF)
})

// PNG writes f as a PNG image.
func PNG(w io.Writer, f editor.Frame, opts Options) error {
	v := fit(f, opts)

	ttf, err := labelFont()
	if err != nil {
		return fmt.Errorf("parsing label font: %w", err)
	}

	dc := gg.NewContext(v.width, v.height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.Scale(v.scale, v.scale)

	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
		Size:    labelSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	dc.SetLineWidth(1)

	for _, c := range f.Connectors {
		drawConnector(dc, v, c)
	}

	for _, m := range f.Markers {
		drawMarker(dc, v, m)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}

	return nil
}

func drawConnector(dc *gg.Context, v viewport, c editor.ConnectorView) {
	dc.SetColor(pngStroke)
	dc.DrawLine(v.x(c.X1), v.y(c.Y1), v.x(c.X2), v.y(c.Y2))
	dc.Stroke()

	tx, ty, x1, y1, x2, y2, ok := arrowHead(c)
	if !ok {
		return
	}

	dc.MoveTo(v.x(tx), v.y(ty))
	dc.LineTo(v.x(x1), v.y(y1))
	dc.LineTo(v.x(x2), v.y(y2))
	dc.ClosePath()
	dc.Fill()
}

func drawMarker(dc *gg.Context, v viewport, m editor.MarkerView) {
	cx, cy := v.x(m.X+editor.MarkerRadius), v.y(m.Y+editor.MarkerRadius)

	dc.DrawCircle(cx, cy, editor.MarkerRadius)
	dc.SetColor(pngFill)
	dc.FillPreserve()
	dc.SetColor(pngStroke)
	dc.Stroke()

	dc.SetColor(color.White)
	dc.DrawStringAnchored(m.Label, cx, cy, 0.5, 0.35)
}
