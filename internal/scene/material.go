package scene

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Material is a Phong material: a diffuse color modulated by an optional
// texture, plus a Blinn specular highlight.
type Material struct {
	Color     color.RGBA
	Map       *Texture
	Specular  color.RGBA
	Shininess float64
}

// NewPhongMaterial returns a white material with a faint highlight.
func NewPhongMaterial(tex *Texture) *Material {
	return &Material{
		Color:     color.RGBA{0xff, 0xff, 0xff, 0xff},
		Map:       tex,
		Specular:  color.RGBA{0x11, 0x11, 0x11, 0xff},
		Shininess: 30,
	}
}

type rgb struct{ r, g, b float64 }

func toRGB(c color.RGBA) rgb {
	return rgb{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

func (c rgb) mul(o rgb) rgb       { return rgb{c.r * o.r, c.g * o.g, c.b * o.b} }
func (c rgb) add(o rgb) rgb       { return rgb{c.r + o.r, c.g + o.g, c.b + o.b} }
func (c rgb) scale(f float64) rgb { return rgb{c.r * f, c.g * f, c.b * f} }

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

func (c rgb) rgba() color.RGBA {
	return color.RGBA{
		uint8(math.Round(clamp01(c.r) * 255)),
		uint8(math.Round(clamp01(c.g) * 255)),
		uint8(math.Round(clamp01(c.b) * 255)),
		0xff,
	}
}

// Shade returns the color of a surface point p with unit normal n seen from
// the unit view direction view, textured at uv.
func (m *Material) Shade(p, n, view r3.Vec, uv UV, lights []Light) color.RGBA {
	base := toRGB(m.Color)
	if m.Map != nil {
		base = base.mul(toRGB(m.Map.Sample(uv.U, uv.V)))
	}
	spec := toRGB(m.Specular)

	var diffuse, specular rgb
	for _, l := range lights {
		dir, intensity := l.Direction(p)
		if intensity == 0 {
			continue
		}
		ndotl := r3.Dot(n, dir)
		if ndotl <= 0 {
			continue
		}
		lc := toRGB(l.Color()).scale(intensity)
		diffuse = diffuse.add(lc.scale(ndotl))

		h := r3.Add(dir, view)
		if r3.Norm(h) == 0 {
			continue
		}
		ndoth := math.Max(0, r3.Dot(n, r3.Unit(h)))
		specular = specular.add(lc.mul(spec).scale(math.Pow(ndoth, m.Shininess) * ndotl))
	}
	return base.mul(diffuse).add(specular).rgba()
}
