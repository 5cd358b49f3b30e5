package render

import (
	"bytes"
	"encoding/json"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"
)

var (
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
	black = color.RGBA{0, 0, 0, 0xff}
)

func TestFit(t *testing.T) {
	r := NewRecorder(40, 20)
	if !Fit(r) {
		t.Fatal("first Fit should resize")
	}
	if w, h := r.Size(); w != 40 || h != 20 {
		t.Errorf("Size() = %dx%d, want 40x20", w, h)
	}
	if Fit(r) {
		t.Error("Fit on a fitted surface should not resize")
	}
	r.SetClientSize(80, 20)
	if !Fit(r) {
		t.Error("Fit after client resize should resize")
	}
	if r.Count(OpResize) != 2 {
		t.Errorf("resize ops = %d, want 2", r.Count(OpResize))
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#ccc", color.RGBA{0xcc, 0xcc, 0xcc, 0xff}},
		{"#2233cc", color.RGBA{0x22, 0x33, 0xcc, 0xff}},
	}
	for _, tt := range tests {
		got, err := Hex(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("Hex(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
		if HexString(got) != HexString(tt.want) {
			t.Errorf("HexString round trip failed for %q", tt.in)
		}
	}
	if _, err := Hex("red"); err == nil {
		t.Error("Hex(red) should fail")
	}
}

func TestBrailleStroke(t *testing.T) {
	b := NewBraille(4, 2)
	Fit(b)
	if w, h := b.Size(); w != 8 || h != 8 {
		t.Fatalf("Size() = %dx%d, want 8x8", w, h)
	}

	b.StrokeLine(Point{0, 0}, Point{7, 0}, Stroke{Color: white, Width: 1})
	if b.Dots() != 8 {
		t.Errorf("horizontal line dots = %d, want 8", b.Dots())
	}
	for x := 0; x < 8; x++ {
		if !b.Pixel(x, 0) {
			t.Errorf("pixel (%d,0) not set", x)
		}
	}
	// Top row of every cell in the first cell row: bits 0x01|0x08.
	if got := b.Lines()[0]; got != strings.Repeat(string(rune(0x2809)), 4) {
		t.Errorf("Lines()[0] = %q", got)
	}

	b.Clear()
	if b.Dots() != 0 {
		t.Error("Clear should remove all dots")
	}
	b.StrokeLine(Point{0, 2}, Point{7, 2}, Stroke{Color: white, Width: 2})
	if b.Dots() != 16 {
		t.Errorf("wide line dots = %d, want 16", b.Dots())
	}
}

func TestBrailleClipsOutOfRange(t *testing.T) {
	b := NewBraille(2, 1)
	Fit(b)
	b.StrokeLine(Point{-10, -10}, Point{20, 20}, Stroke{Color: white, Width: 1})
	for y := 0; y < 4; y++ {
		if !b.Pixel(y, y) {
			t.Errorf("diagonal pixel (%d,%d) not set", y, y)
		}
	}
}

func TestBrailleFarEndpoints(t *testing.T) {
	b := NewBraille(4, 1)
	Fit(b)
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.StrokeLine(Point{-1e15, 1}, Point{1e15, 1}, Stroke{Color: white, Width: 1})
		b.StrokeLine(Point{3, 0}, Point{1e14, 3}, Stroke{Color: white, Width: 2})
		b.FillPolygon([]Point{{-1e14, 2}, {1e14, 2}, {1e14, 4}, {-1e14, 4}}, white)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("drawing far endpoints did not finish")
	}
	for x := 0; x < 8; x++ {
		if !b.Pixel(x, 1) {
			t.Errorf("pixel (%d,1) not set", x)
		}
		if !b.Pixel(x, 3) {
			t.Errorf("filled pixel (%d,3) not set", x)
		}
	}
}

func TestClipSegment(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Point
		want   [2]Point
		inside bool
	}{
		{"inside", Point{1, 1}, Point{3, 2}, [2]Point{{1, 1}, {3, 2}}, true},
		{"horizontal", Point{-10, 2}, Point{30, 2}, [2]Point{{0, 2}, {10, 2}}, true},
		{"diagonal", Point{-5, -5}, Point{15, 15}, [2]Point{{0, 0}, {10, 10}}, true},
		{"above", Point{0, -3}, Point{10, -1}, [2]Point{}, false},
		{"left vertical", Point{-1, 0}, Point{-1, 10}, [2]Point{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, ok := clipSegment(tt.a, tt.b, 0, 0, 10, 10)
			if ok != tt.inside {
				t.Fatalf("clipSegment ok = %v, want %v", ok, tt.inside)
			}
			if ok && (a != tt.want[0] || b != tt.want[1]) {
				t.Errorf("clipSegment = %v, %v; want %v", a, b, tt.want)
			}
		})
	}
}

func TestRasterFarEndpoints(t *testing.T) {
	r := NewRaster(20, 10, black)
	Fit(r)
	r.StrokeLine(Point{-1e14, 5}, Point{1e14, 5}, Stroke{Color: white, Width: 2})
	if got := color.RGBAModel.Convert(r.Image().At(10, 5)).(color.RGBA); got.R < 0x80 {
		t.Errorf("pixel under the line = %v, want bright", got)
	}
}

func TestBrailleFillDither(t *testing.T) {
	square := []Point{{0, 0}, {8, 0}, {8, 8}, {0, 8}}

	b := NewBraille(4, 2)
	Fit(b)
	b.FillPolygon(square, white)
	if b.Dots() != 64 {
		t.Errorf("white fill dots = %d, want 64", b.Dots())
	}

	b.FillPolygon(square, black)
	if b.Dots() != 0 {
		t.Errorf("black fill over white dots = %d, want 0", b.Dots())
	}

	grey := color.RGBA{0x80, 0x80, 0x80, 0xff}
	b.FillPolygon(square, grey)
	if d := b.Dots(); d != 32 {
		t.Errorf("grey fill dots = %d, want 32", d)
	}
}

func TestBrailleString(t *testing.T) {
	b := NewBraille(3, 1)
	Fit(b)
	b.StrokeLine(Point{0, 0}, Point{1, 0}, Stroke{Color: MustHex("#2233cc"), Width: 1})
	out := b.String()
	if !strings.Contains(out, string(rune(0x2809))) {
		t.Errorf("String() = %q, missing braille cell", out)
	}
}

func TestRasterPNG(t *testing.T) {
	r := NewRaster(20, 10, white)
	Fit(r)
	r.FillPolygon([]Point{{0, 0}, {20, 0}, {20, 10}, {0, 10}}, black)
	r.StrokeLine(Point{0, 5}, Point{20, 5}, Stroke{Color: MustHex("#2233cc"), Width: 2})

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() error: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("bounds = %v", b)
	}
	cr, cg, cb, _ := img.At(2, 1).RGBA()
	if cr != 0 || cg != 0 || cb != 0 {
		t.Errorf("filled pixel = %d,%d,%d; want black", cr>>8, cg>>8, cb>>8)
	}
}

func TestRasterEmpty(t *testing.T) {
	r := NewRaster(0, 0, white)
	if err := r.EncodePNG(&bytes.Buffer{}); err == nil {
		t.Error("EncodePNG on an empty surface should fail")
	}
	r.StrokeLine(Point{0, 0}, Point{1, 1}, Stroke{Color: black, Width: 1})
}

func TestHalfBlocks(t *testing.T) {
	r := NewRaster(4, 4, white)
	Fit(r)
	out := HalfBlocks(r.Image(), 4, 2)
	if got := strings.Count(out, "▀"); got != 8 {
		t.Errorf("half blocks = %d, want 8", got)
	}
	if HalfBlocks(nil, 4, 2) != "" {
		t.Error("nil image should render empty")
	}
}

func TestSVG(t *testing.T) {
	s := NewSVG(100, 50, white)
	Fit(s)
	s.StrokeLine(Point{0, 25}, Point{100, 25}, Stroke{Color: MustHex("#ccc"), Width: 1})
	s.FillPolygon([]Point{{0, 0}, {10, 0}, {10, 10}}, black)

	doc := string(s.Bytes())
	for _, want := range []string{
		`viewBox="0 0 100 50"`,
		`<line x1="0.00" y1="25.00" x2="100.00" y2="25.00" stroke="#cccccc" stroke-width="1.0"/>`,
		`<polygon points="0.00,0.00 10.00,0.00 10.00,10.00" fill="#000000"/>`,
		"</svg>",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("SVG missing %q:\n%s", want, doc)
		}
	}

	s.Clear()
	if strings.Contains(string(s.Bytes()), "<line") {
		t.Error("Clear should drop elements")
	}
}

func TestRecorderJSON(t *testing.T) {
	r := NewRecorder(10, 10)
	Fit(r)
	r.Clear()
	r.StrokeLine(Point{0, 1}, Point{2, 3}, Stroke{Color: black, Width: 2})

	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Width int  `json:"width"`
		Ops   []Op `json:"ops"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doc.Width != 10 || len(doc.Ops) != 3 || doc.Ops[2].Points[1].Y != 3 {
		t.Errorf("decoded = %+v", doc)
	}
}
