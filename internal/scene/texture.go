package scene

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"sync"

	"github.com/fogleman/gg"
)

// BuiltinGrass names the procedural grass texture used when no texture
// file is configured.
const BuiltinGrass = "grass"

// Texture is an image sampled with wrapping nearest-neighbour lookup.
// v = 1 is the top row of the image.
type Texture struct {
	img  image.Image
	w, h int
}

// NewTexture wraps an image.
func NewTexture(img image.Image) *Texture {
	b := img.Bounds()
	return &Texture{img: img, w: b.Dx(), h: b.Dy()}
}

// Size returns the image size in pixels.
func (t *Texture) Size() (int, int) { return t.w, t.h }

// Sample returns the texel at (u, v).
func (t *Texture) Sample(u, v float64) color.RGBA {
	if t.w == 0 || t.h == 0 {
		return color.RGBA{0xff, 0xff, 0xff, 0xff}
	}
	u -= math.Floor(u)
	v -= math.Floor(v)
	x := min(int(u*float64(t.w)), t.w-1)
	y := min(int((1-v)*float64(t.h)), t.h-1)
	b := t.img.Bounds()
	r, g, bl, a := t.img.At(b.Min.X+x, b.Min.Y+y).RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8), uint8(a >> 8)}
}

// TextureLoader loads textures once and hands out shared copies.
type TextureLoader struct {
	mu    sync.Mutex
	cache map[string]*Texture
}

// NewTextureLoader creates an empty loader.
func NewTextureLoader() *TextureLoader {
	return &TextureLoader{cache: make(map[string]*Texture)}
}

// Load returns the texture at path, decoding it on first use. An empty path
// or BuiltinGrass yields the procedural grass texture.
func (l *TextureLoader) Load(path string) (*Texture, error) {
	if path == "" {
		path = BuiltinGrass
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if t, ok := l.cache[path]; ok {
		return t, nil
	}

	var t *Texture
	if path == BuiltinGrass {
		t = NewTexture(grass(64))
	} else {
		img, err := gg.LoadImage(path)
		if err != nil {
			return nil, err
		}
		t = NewTexture(img)
	}
	l.cache[path] = t
	return t, nil
}

// grass paints a tileable toon grass swatch.
func grass(size int) image.Image {
	dc := gg.NewContext(size, size)
	dc.SetRGB255(0x5c, 0x9e, 0x31)
	dc.Clear()

	rng := rand.New(rand.NewSource(7))
	shades := []color.RGBA{
		{0x4a, 0x86, 0x26, 0xff},
		{0x6f, 0xb5, 0x3c, 0xff},
		{0x80, 0xc4, 0x48, 0xff},
	}
	dc.SetLineWidth(1)
	for i := 0; i < size*4; i++ {
		x := rng.Float64() * float64(size)
		y := rng.Float64() * float64(size)
		h := 2 + rng.Float64()*4
		lean := (rng.Float64() - 0.5) * 2
		dc.SetColor(shades[rng.Intn(len(shades))])
		dc.DrawLine(x, y, x+lean, y-h)
		dc.Stroke()
	}
	return dc.Image()
}
