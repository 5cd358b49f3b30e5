// Package scene is a small retained-mode 3D scene: meshes, lights, an
// orthographic camera and a software renderer that paints onto a
// render.Surface.
//
// Coordinates follow the usual right-handed convention: the camera looks
// down -Z, +Y is up on screen.
package scene

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// UV is a texture coordinate in [0, 1].
type UV struct{ U, V float64 }

// Face is a triangle given by vertex indices in counter-clockwise order.
type Face struct{ A, B, C int }

// Geometry is an indexed triangle mesh.
type Geometry struct {
	Positions []r3.Vec
	UVs       []UV
	Faces     []Face
}

// NewPlaneGeometry builds a width x height plane in the XY plane, centered
// on the origin and split into segX x segY cells of two triangles each.
// Vertex (ix, iy) is stored at index iy*(segX+1)+ix, row 0 at the top.
func NewPlaneGeometry(width, height float64, segX, segY int) *Geometry {
	segX, segY = max(segX, 1), max(segY, 1)
	gx1, gy1 := segX+1, segY+1
	segW, segH := width/float64(segX), height/float64(segY)

	g := &Geometry{
		Positions: make([]r3.Vec, 0, gx1*gy1),
		UVs:       make([]UV, 0, gx1*gy1),
		Faces:     make([]Face, 0, segX*segY*2),
	}
	for iy := 0; iy < gy1; iy++ {
		y := float64(iy)*segH - height/2
		for ix := 0; ix < gx1; ix++ {
			x := float64(ix)*segW - width/2
			g.Positions = append(g.Positions, r3.Vec{X: x, Y: -y})
			g.UVs = append(g.UVs, UV{float64(ix) / float64(segX), 1 - float64(iy)/float64(segY)})
		}
	}
	for iy := 0; iy < segY; iy++ {
		for ix := 0; ix < segX; ix++ {
			a := ix + gx1*iy
			b := ix + gx1*(iy+1)
			c := ix + 1 + gx1*(iy+1)
			d := ix + 1 + gx1*iy
			g.Faces = append(g.Faces, Face{a, b, d}, Face{b, c, d})
		}
	}
	return g
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int { return len(g.Positions) }

// RotateX rotates every vertex about the X axis by angle radians.
func (g *Geometry) RotateX(angle float64) { g.rotate(angle, r3.Vec{X: 1}) }

// RotateY rotates every vertex about the Y axis by angle radians.
func (g *Geometry) RotateY(angle float64) { g.rotate(angle, r3.Vec{Y: 1}) }

// RotateZ rotates every vertex about the Z axis by angle radians.
func (g *Geometry) RotateZ(angle float64) { g.rotate(angle, r3.Vec{Z: 1}) }

func (g *Geometry) rotate(angle float64, axis r3.Vec) {
	rot := r3.NewRotation(angle, axis)
	for i, p := range g.Positions {
		g.Positions[i] = rot.Rotate(p)
	}
}

// FaceNormal returns the unit normal of f for the given positions.
// Degenerate faces return the zero vector.
func FaceNormal(pos []r3.Vec, f Face) r3.Vec {
	n := r3.Cross(r3.Sub(pos[f.B], pos[f.A]), r3.Sub(pos[f.C], pos[f.A]))
	if r3.Norm(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}

// Bounds returns the axis-aligned bounding box of the geometry.
func (g *Geometry) Bounds() (lo, hi r3.Vec) {
	if len(g.Positions) == 0 {
		return
	}
	lo, hi = g.Positions[0], g.Positions[0]
	for _, p := range g.Positions[1:] {
		lo = r3.Vec{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = r3.Vec{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return lo, hi
}
