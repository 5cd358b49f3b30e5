package scene

import (
	"gonum.org/v1/gonum/spatial/r3"

	"terraview/internal/render"
)

// OrthographicCamera looks down -Z. Left, Right, Top and Bottom bound the
// view volume in world units.
type OrthographicCamera struct {
	Left, Right, Top, Bottom float64
	Near, Far                float64
}

// NewOrthographicCamera creates a camera with the given bounds.
func NewOrthographicCamera(left, right, top, bottom, near, far float64) *OrthographicCamera {
	return &OrthographicCamera{Left: left, Right: right, Top: top, Bottom: bottom, Near: near, Far: far}
}

// Frame centers the view on the origin for a w x h pixel surface drawn at
// ppu pixels per world unit.
func (c *OrthographicCamera) Frame(w, h int, ppu float64) {
	if ppu <= 0 {
		ppu = 1
	}
	hw, hh := float64(w)/ppu/2, float64(h)/ppu/2
	c.Left, c.Right, c.Top, c.Bottom = -hw, hw, hh, -hh
}

// Project maps a world position to surface pixels.
func (c *OrthographicCamera) Project(p r3.Vec, w, h int) render.Point {
	return render.Point{
		X: (p.X - c.Left) / (c.Right - c.Left) * float64(w),
		Y: (c.Top - p.Y) / (c.Top - c.Bottom) * float64(h),
	}
}

// Visible reports whether depth z lies between the near and far planes.
func (c *OrthographicCamera) Visible(z float64) bool {
	return -z >= c.Near && -z <= c.Far
}
