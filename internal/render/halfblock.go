package render

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HalfBlocks renders img into terminal text using the upper half block:
// the foreground color is the top pixel and the background the bottom one,
// so each cell shows two pixels. img should be cols x 2*rows pixels.
func HalfBlocks(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	bounds := img.Bounds()
	at := func(x, y int) color.RGBA {
		px := bounds.Min.X + x*bounds.Dx()/cols
		py := bounds.Min.Y + y*bounds.Dy()/(rows*2)
		r, g, b, _ := img.At(px, py).RGBA()
		return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 0xff}
	}

	lines := make([]string, rows)
	var sb strings.Builder
	for y := 0; y < rows; y++ {
		sb.Reset()
		for x := 0; x < cols; x++ {
			top, bottom := at(x, 2*y), at(x, 2*y+1)
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(HexString(top))).
				Background(lipgloss.Color(HexString(bottom))).
				Render("▀"))
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}
