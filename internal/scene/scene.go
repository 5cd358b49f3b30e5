package scene

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is a named geometry drawn with a material. Spin rotates the mesh
// about SpinAxis (through the origin) at draw time without touching the
// geometry.
type Mesh struct {
	Name     string
	Geometry *Geometry
	Material *Material
	Spin     float64
	SpinAxis r3.Vec
}

// NewMesh creates a mesh.
func NewMesh(name string, g *Geometry, m *Material) *Mesh {
	return &Mesh{Name: name, Geometry: g, Material: m}
}

// Scene holds meshes and lights.
type Scene struct {
	Background color.RGBA
	meshes     []*Mesh
	lights     []Light
}

// New creates an empty scene.
func New() *Scene { return &Scene{} }

// Add appends a mesh. Names are not required to be unique; use Replace to
// keep a single mesh per name.
func (s *Scene) Add(m *Mesh) { s.meshes = append(s.meshes, m) }

// AddLight appends a light.
func (s *Scene) AddLight(l Light) { s.lights = append(s.lights, l) }

// Remove deletes every mesh called name and reports whether any existed.
func (s *Scene) Remove(name string) bool {
	kept := s.meshes[:0]
	for _, m := range s.meshes {
		if m.Name != name {
			kept = append(kept, m)
		}
	}
	removed := len(kept) != len(s.meshes)
	clear(s.meshes[len(kept):])
	s.meshes = kept
	return removed
}

// Replace removes any mesh with m's name and adds m.
func (s *Scene) Replace(m *Mesh) {
	s.Remove(m.Name)
	s.Add(m)
}

// ByName returns the first mesh called name.
func (s *Scene) ByName(name string) (*Mesh, bool) {
	for _, m := range s.meshes {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Count returns how many meshes are called name.
func (s *Scene) Count(name string) int {
	n := 0
	for _, m := range s.meshes {
		if m.Name == name {
			n++
		}
	}
	return n
}

// Meshes returns the meshes in insertion order.
func (s *Scene) Meshes() []*Mesh { return s.meshes }

// Lights returns the lights in insertion order.
func (s *Scene) Lights() []Light { return s.lights }
