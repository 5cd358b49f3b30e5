package render

import (
	"encoding/json"
	"image/color"
	"io"
)

// Op kinds recorded by Recorder.
const (
	OpResize  = "resize"
	OpClear   = "clear"
	OpLine    = "line"
	OpPolygon = "polygon"
)

// Op is one recorded drawing operation.
type Op struct {
	Kind   string  `json:"op"`
	W      int     `json:"w,omitempty"`
	H      int     `json:"h,omitempty"`
	Points []Point `json:"points,omitempty"`
	Color  string  `json:"color,omitempty"`
	Width  float64 `json:"width,omitempty"`
}

// Recorder keeps a log of every operation instead of drawing.
type Recorder struct {
	w, h             int
	clientW, clientH int
	Ops              []Op
}

// NewRecorder creates a recorder shown at w x h pixels.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{clientW: w, clientH: h}
}

// SetClientSize changes the displayed size.
func (r *Recorder) SetClientSize(w, h int) { r.clientW, r.clientH = w, h }

// Size implements Surface.
func (r *Recorder) Size() (int, int) { return r.w, r.h }

// ClientSize implements Surface.
func (r *Recorder) ClientSize() (int, int) { return r.clientW, r.clientH }

// Resize implements Surface.
func (r *Recorder) Resize(w, h int) {
	r.w, r.h = w, h
	r.Ops = append(r.Ops, Op{Kind: OpResize, W: w, H: h})
}

// Clear implements Surface.
func (r *Recorder) Clear() { r.Ops = append(r.Ops, Op{Kind: OpClear}) }

// StrokeLine implements Surface.
func (r *Recorder) StrokeLine(a, b Point, s Stroke) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, Points: []Point{a, b}, Color: HexString(s.Color), Width: s.Width})
}

// FillPolygon implements Surface.
func (r *Recorder) FillPolygon(pts []Point, c color.RGBA) {
	cp := make([]Point, len(pts))
	copy(cp, pts)
	r.Ops = append(r.Ops, Op{Kind: OpPolygon, Points: cp, Color: HexString(c)})
}

// Reset forgets recorded operations.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

// Count returns how many operations of kind were recorded.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Lines returns the recorded line operations with the given color.
func (r *Recorder) Lines(hex string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == OpLine && op.Color == hex {
			out = append(out, op)
		}
	}
	return out
}

// WriteJSON writes the operation log as indented JSON.
func (r *Recorder) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Width  int  `json:"width"`
		Height int  `json:"height"`
		Ops    []Op `json:"ops"`
	}{r.w, r.h, r.Ops})
}

var _ Surface = (*Recorder)(nil)
