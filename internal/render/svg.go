package render

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"strings"
)

// SVG records drawing operations as SVG elements.
type SVG struct {
	w, h             int
	clientW, clientH int
	background       color.RGBA
	body             bytes.Buffer
}

// NewSVG creates a vector surface of w x h user units.
func NewSVG(w, h int, background color.RGBA) *SVG {
	return &SVG{clientW: w, clientH: h, background: background}
}

// SetClientSize changes the document size.
func (s *SVG) SetClientSize(w, h int) { s.clientW, s.clientH = w, h }

// Size implements Surface.
func (s *SVG) Size() (int, int) { return s.w, s.h }

// ClientSize implements Surface.
func (s *SVG) ClientSize() (int, int) { return s.clientW, s.clientH }

// Resize implements Surface.
func (s *SVG) Resize(w, h int) {
	s.w, s.h = max(w, 0), max(h, 0)
	s.body.Reset()
}

// Clear implements Surface.
func (s *SVG) Clear() { s.body.Reset() }

// StrokeLine implements Surface.
func (s *SVG) StrokeLine(a, b Point, st Stroke) {
	if !finite(a) || !finite(b) {
		return
	}
	fmt.Fprintf(&s.body, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f"/>`+"\n",
		a.X, a.Y, b.X, b.Y, HexString(st.Color), st.Width)
}

// FillPolygon implements Surface.
func (s *SVG) FillPolygon(pts []Point, c color.RGBA) {
	if len(pts) < 3 {
		return
	}
	coords := make([]string, len(pts))
	for i, p := range pts {
		if !finite(p) {
			return
		}
		coords[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	fmt.Fprintf(&s.body, `  <polygon points="%s" fill="%s"/>`+"\n", strings.Join(coords, " "), HexString(c))
}

// Bytes returns the complete document.
func (s *SVG) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		s.w, s.h, s.w, s.h)
	if s.background.A != 0 {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", HexString(s.background))
	}
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// WriteTo writes the document to w.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.Bytes())
	return int64(n), err
}

var _ Surface = (*SVG)(nil)
