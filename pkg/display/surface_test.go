package display

type drawOp struct {
	kind       string
	x, y, w, h int
	x1, y1     int
	text       string
	color      Color
}

// fakeSurface records draw calls for asserting on view behavior.
type fakeSurface struct {
	ops     []drawOp
	flushes int
}

func (f *fakeSurface) Size() (int, int) {
	return Width, Height
}

func (f *fakeSurface) Area(x, y, w, h int, c Color) {
	f.ops = append(f.ops, drawOp{kind: "area", x: x, y: y, w: w, h: h, color: c})
}

func (f *fakeSurface) Line(x0, y0, x1, y1 int, c Color) {
	f.ops = append(f.ops, drawOp{kind: "line", x: x0, y: y0, x1: x1, y1: y1, color: c})
}

func (f *fakeSurface) Text(x, y int, s string, c Color) {
	f.ops = append(f.ops, drawOp{kind: "text", x: x, y: y, text: s, color: c})
}

func (f *fakeSurface) Flush() error {
	f.flushes++
	return nil
}

func (f *fakeSurface) texts() []string {
	var out []string
	for _, op := range f.ops {
		if op.kind == "text" {
			out = append(out, op.text)
		}
	}
	return out
}

func (f *fakeSurface) hasText(s string) bool {
	for _, t := range f.texts() {
		if t == s {
			return true
		}
	}
	return false
}

// fullBandAreas counts full-width fills of the given band and color,
// which only full redraws produce.
func (f *fakeSurface) fullBandAreas(y, h int, c Color) int {
	n := 0
	for _, op := range f.ops {
		if op.kind == "area" && op.y == y && op.h == h && op.w == Width && op.color == c {
			n++
		}
	}
	return n
}

func (f *fakeSurface) reset() {
	f.ops = nil
	f.flushes = 0
}
