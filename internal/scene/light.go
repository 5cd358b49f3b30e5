package scene

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Light contributes diffuse and specular light at a surface point.
type Light interface {
	// Direction returns the unit vector from p toward the light and the
	// attenuated intensity reaching p.
	Direction(p r3.Vec) (dir r3.Vec, intensity float64)
	Color() color.RGBA
}

// DirectionalLight shines from Position toward the origin with constant
// intensity everywhere.
type DirectionalLight struct {
	Tint      color.RGBA
	Intensity float64
	Position  r3.Vec
}

// NewDirectionalLight creates a directional light.
func NewDirectionalLight(c color.RGBA, intensity float64, pos r3.Vec) *DirectionalLight {
	return &DirectionalLight{Tint: c, Intensity: intensity, Position: pos}
}

// Direction implements Light.
func (l *DirectionalLight) Direction(r3.Vec) (r3.Vec, float64) {
	if r3.Norm(l.Position) == 0 {
		return r3.Vec{Z: 1}, l.Intensity
	}
	return r3.Unit(l.Position), l.Intensity
}

// Color implements Light.
func (l *DirectionalLight) Color() color.RGBA { return l.Tint }

// PointLight radiates from Position. Intensity falls to zero at Distance
// following (1 - d/Distance)^Decay; a zero Distance never attenuates.
type PointLight struct {
	Tint      color.RGBA
	Intensity float64
	Position  r3.Vec
	Distance  float64
	Decay     float64
}

// NewPointLight creates a point light.
func NewPointLight(c color.RGBA, intensity, distance, decay float64, pos r3.Vec) *PointLight {
	return &PointLight{Tint: c, Intensity: intensity, Position: pos, Distance: distance, Decay: decay}
}

// Direction implements Light.
func (l *PointLight) Direction(p r3.Vec) (r3.Vec, float64) {
	v := r3.Sub(l.Position, p)
	d := r3.Norm(v)
	if d == 0 {
		return r3.Vec{Z: 1}, l.Intensity
	}
	return r3.Scale(1/d, v), l.Intensity * l.attenuation(d)
}

func (l *PointLight) attenuation(d float64) float64 {
	if l.Distance <= 0 {
		return 1
	}
	f := 1 - d/l.Distance
	if f <= 0 {
		return 0
	}
	return math.Pow(f, l.Decay)
}

// Color implements Light.
func (l *PointLight) Color() color.RGBA { return l.Tint }
