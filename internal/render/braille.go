package render

import (
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille draws into a grid of braille characters. Each terminal cell holds
// a 2x4 micro-pixel block, so a surface of cols x rows cells is
// 2*cols x 4*rows pixels. Each cell remembers the last color drawn into it.
type Braille struct {
	cols, rows       int // backing size in cells
	clientW, clientH int // client size in pixels
	mask             [][]uint8
	ink              [][]color.RGBA
}

// dots maps a micro-pixel (column, row) inside a cell to its braille bit.
var dots = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// bayer is a 2x4 ordered-dither threshold matrix, indexed [row][column].
var bayer = [4][2]float64{
	{0.5 / 8, 4.5 / 8},
	{6.5 / 8, 2.5 / 8},
	{1.5 / 8, 5.5 / 8},
	{7.5 / 8, 3.5 / 8},
}

// NewBraille creates a surface shown in cols x rows terminal cells.
// The backing store starts empty; call Fit before drawing.
func NewBraille(cols, rows int) *Braille {
	b := &Braille{}
	b.SetCells(cols, rows)
	return b
}

// SetCells changes how many terminal cells the surface is shown in.
func (b *Braille) SetCells(cols, rows int) {
	b.clientW, b.clientH = max(cols, 0)*2, max(rows, 0)*4
}

// SetClientSize sets the displayed size in pixels, rounded up to whole cells.
func (b *Braille) SetClientSize(w, h int) {
	b.SetCells((max(w, 0)+1)/2, (max(h, 0)+3)/4)
}

// Size implements Surface.
func (b *Braille) Size() (int, int) { return b.cols * 2, b.rows * 4 }

// ClientSize implements Surface.
func (b *Braille) ClientSize() (int, int) { return b.clientW, b.clientH }

// Resize implements Surface. Sizes round up to whole cells.
func (b *Braille) Resize(w, h int) {
	b.cols, b.rows = (max(w, 0)+1)/2, (max(h, 0)+3)/4
	b.mask = make([][]uint8, b.rows)
	b.ink = make([][]color.RGBA, b.rows)
	for i := range b.mask {
		b.mask[i] = make([]uint8, b.cols)
		b.ink[i] = make([]color.RGBA, b.cols)
	}
}

// Clear implements Surface.
func (b *Braille) Clear() {
	for y := range b.mask {
		clear(b.mask[y])
		clear(b.ink[y])
	}
}

func (b *Braille) setPixel(mx, my int, on bool, c color.RGBA) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.rows || cx >= b.cols {
		return
	}
	bit := dots[mx%2][my%4]
	if on {
		b.mask[cy][cx] |= bit
		b.ink[cy][cx] = c
	} else {
		b.mask[cy][cx] &^= bit
	}
}

// StrokeLine implements Surface using Bresenham on the micro-grid.
// Widths of 2 and above add a parallel line one pixel over.
func (b *Braille) StrokeLine(a, z Point, s Stroke) {
	if !finite(a) || !finite(z) {
		return
	}
	// one pixel of margin keeps the offset second line intact at the edges
	w, h := b.Size()
	a, z, ok := clipSegment(a, z, -1, -1, float64(w), float64(h))
	if !ok {
		return
	}
	x0, y0 := int(math.Round(a.X)), int(math.Round(a.Y))
	x1, y1 := int(math.Round(z.X)), int(math.Round(z.Y))
	b.line(x0, y0, x1, y1, s.Color)
	if s.Width >= 2 {
		if abs(x1-x0) >= abs(y1-y0) {
			b.line(x0, y0+1, x1, y1+1, s.Color)
		} else {
			b.line(x0+1, y0, x1+1, y1, s.Color)
		}
	}
}

func (b *Braille) line(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, true, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// FillPolygon implements Surface with an even-odd scanline fill. Brightness
// is approximated by ordered dithering, so a fill also clears the dots of
// anything it covers.
func (b *Braille) FillPolygon(pts []Point, c color.RGBA) {
	if len(pts) < 3 {
		return
	}
	for _, p := range pts {
		if !finite(p) {
			return
		}
	}
	lum := Luminance(c)
	w, h := b.Size()
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	y0 := max(0, int(math.Floor(minY)))
	y1 := min(h-1, int(math.Ceil(maxY)))

	var xs []float64
	for my := y0; my <= y1; my++ {
		yc := float64(my) + 0.5
		xs = xs[:0]
		for i := range pts {
			p, q := pts[i], pts[(i+1)%len(pts)]
			if p.Y == q.Y {
				continue
			}
			if (yc >= p.Y && yc < q.Y) || (yc >= q.Y && yc < p.Y) {
				t := (yc - p.Y) / (q.Y - p.Y)
				xs = append(xs, p.X+t*(q.X-p.X))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			start := max(0, int(math.Round(math.Min(math.Max(xs[i], -1), float64(w)))))
			end := min(w-1, int(math.Round(math.Max(math.Min(xs[i+1], float64(w)), -1)))-1)
			for mx := start; mx <= end; mx++ {
				b.setPixel(mx, my, lum > bayer[my%4][mx%2], c)
			}
		}
	}
}

// Lines returns the surface as plain braille text, one string per row.
func (b *Braille) Lines() []string {
	out := make([]string, b.rows)
	row := make([]rune, b.cols)
	for y := 0; y < b.rows; y++ {
		for x := 0; x < b.cols; x++ {
			if m := b.mask[y][x]; m == 0 {
				row[x] = ' '
			} else {
				row[x] = rune(0x2800 + int(m))
			}
		}
		out[y] = string(row)
	}
	return out
}

// String returns the surface with each cell colored by its ink.
func (b *Braille) String() string {
	lines := make([]string, b.rows)
	var sb, run strings.Builder
	for y := 0; y < b.rows; y++ {
		sb.Reset()
		var cur color.RGBA
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur.A == 0 {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(HexString(cur))).Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < b.cols; x++ {
			m := b.mask[y][x]
			ink := b.ink[y][x]
			if m == 0 {
				ink = color.RGBA{}
			}
			if ink != cur {
				flush()
				cur = ink
			}
			if m == 0 {
				run.WriteRune(' ')
			} else {
				run.WriteRune(rune(0x2800 + int(m)))
			}
		}
		flush()
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// Dots returns the number of set micro-pixels.
func (b *Braille) Dots() int {
	n := 0
	for _, row := range b.mask {
		for _, m := range row {
			for ; m != 0; m &= m - 1 {
				n++
			}
		}
	}
	return n
}

// Pixel reports whether the micro-pixel at (mx, my) is set.
func (b *Braille) Pixel(mx, my int) bool {
	if mx < 0 || my < 0 || mx/2 >= b.cols || my/4 >= b.rows {
		return false
	}
	return b.mask[my/4][mx/2]&dots[mx%2][my%4] != 0
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

var _ Surface = (*Braille)(nil)
