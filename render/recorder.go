package render

import "image/color"

// Op is one recorded drawing call.
type Op struct {
	Kind       string // clear, fill_rect, stroke_rect, fill_circle, stroke_circle, text
	X, Y, W, H float64
	Color      color.NRGBA
	Text       string
}

// Recorder is a Canvas that keeps every call, used by headless replays and tests.
type Recorder struct {
	Ops []Op
}

func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

func (r *Recorder) Clear(c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: "clear", Color: c})
}

func (r *Recorder) FillRect(x, y, w, h float64, c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: "fill_rect", X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) StrokeRect(x, y, w, h, _ float64, c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: "stroke_rect", X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) FillCircle(cx, cy, radius float64, c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: "fill_circle", X: cx, Y: cy, W: radius, H: radius, Color: c})
}

func (r *Recorder) StrokeCircle(cx, cy, radius, _ float64, c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: "stroke_circle", X: cx, Y: cy, W: radius, H: radius, Color: c})
}

func (r *Recorder) Text(s string, x, y, size float64, c color.NRGBA, _ Align) {
	r.Ops = append(r.Ops, Op{Kind: "text", X: x, Y: y, H: size, Color: c, Text: s})
}

// Count returns how many recorded ops have the given kind.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// HasText reports whether any text op drew s.
func (r *Recorder) HasText(s string) bool {
	for _, op := range r.Ops {
		if op.Kind == "text" && op.Text == s {
			return true
		}
	}
	return false
}
