// Package render provides drawing surfaces the plot renderers draw on.
//
// A Surface has two sizes. The backing size is the pixel grid drawing
// operations address; the client size is how large the surface is shown.
// Fit brings the backing store in line with the client size before a frame
// is drawn, the way a canvas is resized to its laid-out element.
package render

import (
	"fmt"
	"image/color"
	"math"
)

var errEmptySurface = fmt.Errorf("surface has no pixels")

// Point is a position in backing-store pixels, origin top-left.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke describes how a line is drawn.
type Stroke struct {
	Color color.RGBA
	Width float64
}

// Surface is a 2D drawing target.
type Surface interface {
	// Size returns the backing store size in pixels.
	Size() (w, h int)
	// ClientSize returns the displayed size in pixels.
	ClientSize() (w, h int)
	// Resize reallocates the backing store. Contents are discarded.
	Resize(w, h int)
	Clear()
	StrokeLine(a, b Point, s Stroke)
	FillPolygon(pts []Point, c color.RGBA)
}

// ClientSizer is implemented by surfaces whose displayed size can change.
type ClientSizer interface {
	SetClientSize(w, h int)
}

// Fit resizes s to its client size when the two differ and reports whether
// it did.
func Fit(s Surface) bool {
	bw, bh := s.Size()
	cw, ch := s.ClientSize()
	if bw == cw && bh == ch {
		return false
	}
	s.Resize(cw, ch)
	return true
}

// Hex parses "#rgb" or "#rrggbb" into an opaque color.
func Hex(s string) (color.RGBA, error) {
	c := color.RGBA{A: 0xff}
	switch len(s) {
	case 4:
		_, err := fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 0x11
		c.G *= 0x11
		c.B *= 0x11
		return c, err
	case 7:
		_, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
		return c, err
	}
	return c, fmt.Errorf("invalid color %q", s)
}

// MustHex is Hex for package-level color constants.
func MustHex(s string) color.RGBA {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// HexString formats c as "#rrggbb".
func HexString(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Luminance returns the relative luminance of c in [0, 1].
func Luminance(c color.RGBA) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}

func finite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// clipSegment clips a-b to the rectangle [minX, maxX] x [minY, maxY]
// (Liang-Barsky) and reports whether any part of it remains.
func clipSegment(a, b Point, minX, minY, maxX, maxY float64) (Point, Point, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, a.X - minX},
		{dx, maxX - a.X},
		{-dy, a.Y - minY},
		{dy, maxY - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return Point{X: a.X + t0*dx, Y: a.Y + t0*dy}, Point{X: a.X + t1*dx, Y: a.Y + t1*dy}, true
}
