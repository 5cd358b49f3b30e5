package plot

import (
	"image/color"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgravesa/go-parallel/parallel"
	"gonum.org/v1/gonum/spatial/r3"

	"terraview/internal/errors"
	"terraview/internal/render"
	"terraview/internal/scene"
)

// TerrainName is the scene name of the height mesh. A scene never holds
// more than one mesh with this name.
const TerrainName = "terrain"

const (
	// heightScale is the displacement of the largest |value|.
	heightScale = 10.0
	// planeDepth is the y extent of the plane; x is scaled by numx/numy.
	planeDepth = 100.0
	// viewUnits is how many world units fit the shorter side of the surface.
	viewUnits = 150.0
)

// Background is the default mesh plot clear color.
var Background = render.MustHex("#dddddd")

var white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// MeshRenderer keeps a scene, camera, lights and texture loader alive across
// updates and redraws the terrain on demand.
type MeshRenderer struct {
	scene    *scene.Scene
	camera   *scene.OrthographicCamera
	textures *scene.TextureLoader
	renderer scene.Renderer
	texture  string
	spin     float64
	logger   *log.Logger

	numX, numY int
}

// MeshOption configures a MeshRenderer.
type MeshOption func(*MeshRenderer)

// WithTexture sets the terrain texture: an image path or scene.BuiltinGrass.
// An empty path keeps the default.
func WithTexture(path string) MeshOption {
	return func(m *MeshRenderer) {
		if path != "" {
			m.texture = path
		}
	}
}

// WithSpin rotates the terrain about its vertical axis at rad radians per second.
func WithSpin(rad float64) MeshOption { return func(m *MeshRenderer) { m.spin = rad } }

// WithWireframe draws face edges instead of filled faces.
func WithWireframe(on bool) MeshOption { return func(m *MeshRenderer) { m.renderer.Wireframe = on } }

// WithBackground sets the clear color. A zero alpha leaves the surface cleared.
func WithBackground(c color.RGBA) MeshOption {
	return func(m *MeshRenderer) { m.renderer.ClearColor = c }
}

// WithMeshLogger sets the logger.
func WithMeshLogger(l *log.Logger) MeshOption { return func(m *MeshRenderer) { m.logger = l } }

// NewMeshRenderer builds the rig. It holds no terrain until Update.
func NewMeshRenderer(opts ...MeshOption) *MeshRenderer {
	m := &MeshRenderer{
		scene:    scene.New(),
		camera:   scene.NewOrthographicCamera(-1, 1, 1, -1, -10000, 10000),
		textures: scene.NewTextureLoader(),
		renderer: scene.Renderer{ClearColor: Background},
		texture:  scene.BuiltinGrass,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.scene.Background = m.renderer.ClearColor
	m.scene.AddLight(scene.NewDirectionalLight(white, 0.5, r3.Vec{Y: 1, Z: 1}))
	m.scene.AddLight(scene.NewPointLight(white, 0.9, 170, 1, r3.Vec{X: 20, Y: 50, Z: 100}))
	return m
}

// Update rebuilds the terrain from g and swaps it into the scene. On error
// the previous terrain stays in place.
//
// Heights are value/maxAbs*10. An all-zero grid has no scale and becomes a
// flat plane; non-finite values are flattened to 0 as well.
func (m *MeshRenderer) Update(g Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if g.NumX < 2 || g.NumY < 2 {
		return errors.New(errors.ErrCodeDegenerateRange, "a %dx%d grid has no cells", g.NumX, g.NumY)
	}

	peak, nonFinite := maxAbs(g.Values)
	geo := scene.NewPlaneGeometry(planeDepth*float64(g.NumX)/float64(g.NumY), planeDepth, g.NumX-1, g.NumY-1)
	if peak > 0 {
		parallel.For(len(g.Values), func(i, _ int) {
			if v := g.Values[i]; isFinite(v) {
				geo.Positions[i].Z = v / peak * heightScale
			}
		})
	}
	geo.RotateZ(-math.Pi / 4)
	geo.RotateX(-math.Pi / 4)

	tex, err := m.textures.Load(m.texture)
	if err != nil {
		m.logger.Warn("texture unavailable, drawing untextured", "texture", m.texture, "err", err)
	}

	mesh := scene.NewMesh(TerrainName, geo, scene.NewPhongMaterial(tex))
	mesh.SpinAxis = upAxis()
	m.scene.Replace(mesh)
	m.numX, m.numY = g.NumX, g.NumY

	m.logger.Debug("terrain updated", "numx", g.NumX, "numy", g.NumY, "max_abs", peak, "vertices", geo.VertexCount())
	if nonFinite > 0 {
		return errors.New(errors.ErrCodeNonFiniteValue, "flattened %d non-finite heights", nonFinite)
	}
	return nil
}

// upAxis is the plane normal after the terrain rotations.
func upAxis() r3.Vec {
	g := scene.Geometry{Positions: []r3.Vec{{Z: 1}}}
	g.RotateZ(-math.Pi / 4)
	g.RotateX(-math.Pi / 4)
	return g.Positions[0]
}

// Render fits s to its client size and draws the current scene. elapsed is
// the time since the session started and drives the optional spin.
func (m *MeshRenderer) Render(s render.Surface, elapsed time.Duration) scene.Stats {
	render.Fit(s)
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		s.Clear()
		return scene.Stats{}
	}
	m.camera.Frame(w, h, float64(min(w, h))/viewUnits)
	if mesh, ok := m.scene.ByName(TerrainName); ok {
		mesh.Spin = m.spin * elapsed.Seconds()
	}
	return m.renderer.Render(m.scene, m.camera, s)
}

// Scene exposes the scene graph.
func (m *MeshRenderer) Scene() *scene.Scene { return m.scene }

// Shape returns the dimensions of the current terrain, or 0, 0 before the
// first successful Update.
func (m *MeshRenderer) Shape() (numX, numY int) { return m.numX, m.numY }

// SetWireframe toggles wireframe drawing.
func (m *MeshRenderer) SetWireframe(on bool) { m.renderer.Wireframe = on }

// Wireframe reports whether wireframe drawing is on.
func (m *MeshRenderer) Wireframe() bool { return m.renderer.Wireframe }
