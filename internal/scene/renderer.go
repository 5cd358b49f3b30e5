package scene

import (
	"cmp"
	"image/color"
	"slices"

	"github.com/dgravesa/go-parallel/parallel"
	"gonum.org/v1/gonum/spatial/r3"

	"terraview/internal/render"
)

// Renderer paints a scene with flat-shaded triangles in painter's order.
type Renderer struct {
	// ClearColor fills the surface before drawing. A zero alpha leaves
	// the cleared surface as is.
	ClearColor color.RGBA
	// Wireframe strokes triangle edges instead of filling them.
	Wireframe bool
}

// Stats describes the last rendered frame.
type Stats struct {
	Faces  int
	Culled int
	Drawn  int
}

type shadedFace struct {
	pts     [3]render.Point
	depth   float64
	color   color.RGBA
	visible bool
}

var viewDir = r3.Vec{Z: 1}

// Render clears s and draws every mesh of sc as seen by cam.
func (r *Renderer) Render(sc *Scene, cam *OrthographicCamera, s render.Surface) Stats {
	w, h := s.Size()
	s.Clear()
	if r.ClearColor.A != 0 && w > 0 && h > 0 {
		fw, fh := float64(w), float64(h)
		s.FillPolygon([]render.Point{{X: 0, Y: 0}, {X: fw, Y: 0}, {X: fw, Y: fh}, {X: 0, Y: fh}}, r.ClearColor)
	}

	var stats Stats
	var faces []shadedFace
	for _, m := range sc.Meshes() {
		if m.Geometry == nil {
			continue
		}
		faces = append(faces, r.shade(m, sc.Lights(), cam, w, h)...)
	}
	stats.Faces = len(faces)

	visible := faces[:0]
	for _, f := range faces {
		if f.visible {
			visible = append(visible, f)
		}
	}
	stats.Culled = stats.Faces - len(visible)

	// Far faces first; the camera sits at +Z.
	slices.SortStableFunc(visible, func(a, b shadedFace) int { return cmp.Compare(a.depth, b.depth) })

	for _, f := range visible {
		if r.Wireframe {
			st := render.Stroke{Color: f.color, Width: 1}
			s.StrokeLine(f.pts[0], f.pts[1], st)
			s.StrokeLine(f.pts[1], f.pts[2], st)
			s.StrokeLine(f.pts[2], f.pts[0], st)
			continue
		}
		s.FillPolygon(f.pts[:], f.color)
	}
	stats.Drawn = len(visible)
	return stats
}

// shade transforms, culls and lights every face of m. Faces are independent,
// so they are processed in parallel.
func (r *Renderer) shade(m *Mesh, lights []Light, cam *OrthographicCamera, w, h int) []shadedFace {
	g := m.Geometry
	pos := g.Positions
	if m.Spin != 0 && r3.Norm(m.SpinAxis) != 0 {
		rot := r3.NewRotation(m.Spin, m.SpinAxis)
		pos = make([]r3.Vec, len(g.Positions))
		parallel.For(len(pos), func(i, _ int) {
			pos[i] = rot.Rotate(g.Positions[i])
		})
	}
	mat := m.Material
	if mat == nil {
		mat = NewPhongMaterial(nil)
	}

	out := make([]shadedFace, len(g.Faces))
	parallel.For(len(g.Faces), func(i, _ int) {
		f := g.Faces[i]
		a, b, c := pos[f.A], pos[f.B], pos[f.C]
		n := FaceNormal(pos, f)
		if n.Z <= 0 {
			return
		}
		depth := (a.Z + b.Z + c.Z) / 3
		if !cam.Visible(depth) {
			return
		}
		centroid := r3.Scale(1.0/3, r3.Add(r3.Add(a, b), c))
		var uv UV
		if len(g.UVs) == len(pos) {
			ua, ub, uc := g.UVs[f.A], g.UVs[f.B], g.UVs[f.C]
			uv = UV{(ua.U + ub.U + uc.U) / 3, (ua.V + ub.V + uc.V) / 3}
		}
		out[i] = shadedFace{
			pts:     [3]render.Point{cam.Project(a, w, h), cam.Project(b, w, h), cam.Project(c, w, h)},
			depth:   depth,
			color:   mat.Shade(centroid, n, viewDir, uv, lights),
			visible: true,
		}
	})
	return out
}
