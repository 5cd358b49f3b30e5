package render

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
)

// Raster draws into an RGBA image through a gg context.
type Raster struct {
	dc               *gg.Context
	clientW, clientH int
	background       color.RGBA
}

// NewRaster creates a raster surface shown at w x h pixels.
// The backing store starts empty; call Fit before drawing.
func NewRaster(w, h int, background color.RGBA) *Raster {
	return &Raster{clientW: w, clientH: h, background: background}
}

// SetClientSize changes the displayed size.
func (r *Raster) SetClientSize(w, h int) { r.clientW, r.clientH = w, h }

// Size implements Surface.
func (r *Raster) Size() (int, int) {
	if r.dc == nil {
		return 0, 0
	}
	return r.dc.Width(), r.dc.Height()
}

// ClientSize implements Surface.
func (r *Raster) ClientSize() (int, int) { return r.clientW, r.clientH }

// Resize implements Surface.
func (r *Raster) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		r.dc = nil
		return
	}
	r.dc = gg.NewContext(w, h)
	r.Clear()
}

// Clear implements Surface.
func (r *Raster) Clear() {
	if r.dc == nil {
		return
	}
	r.dc.SetColor(r.background)
	r.dc.Clear()
}

// StrokeLine implements Surface.
func (r *Raster) StrokeLine(a, b Point, s Stroke) {
	if r.dc == nil || !finite(a) || !finite(b) {
		return
	}
	w, h := r.Size()
	pad := s.Width + 1
	a, b, ok := clipSegment(a, b, -pad, -pad, float64(w)+pad, float64(h)+pad)
	if !ok {
		return
	}
	r.dc.SetColor(s.Color)
	r.dc.SetLineWidth(s.Width)
	r.dc.DrawLine(a.X, a.Y, b.X, b.Y)
	r.dc.Stroke()
}

// FillPolygon implements Surface.
func (r *Raster) FillPolygon(pts []Point, c color.RGBA) {
	if r.dc == nil || len(pts) < 3 {
		return
	}
	for _, p := range pts {
		if !finite(p) {
			return
		}
	}
	r.dc.NewSubPath()
	r.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		r.dc.LineTo(p.X, p.Y)
	}
	r.dc.ClosePath()
	r.dc.SetColor(c)
	r.dc.Fill()
}

// Image returns the backing image. It is nil before the first Resize.
func (r *Raster) Image() image.Image {
	if r.dc == nil {
		return nil
	}
	return r.dc.Image()
}

// EncodePNG writes the backing image as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if r.dc == nil {
		Fit(r)
	}
	if r.dc == nil {
		return errEmptySurface
	}
	return r.dc.EncodePNG(w)
}

var _ Surface = (*Raster)(nil)
