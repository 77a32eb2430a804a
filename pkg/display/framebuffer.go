package display

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Framebuffer is an in-memory Surface for running on a regular host and
// for tests. When a snapshot path is set, every Flush writes the current
// frame there as a PNG.
type Framebuffer struct {
	img          *image.Gray
	snapshotPath string
	flushes      int
}

func NewFramebuffer(snapshotPath string) *Framebuffer {
	f := &Framebuffer{
		img:          image.NewGray(image.Rect(0, 0, Width, Height)),
		snapshotPath: snapshotPath,
	}
	f.Area(0, 0, Width, Height, White)
	return f
}

func (f *Framebuffer) Size() (int, int) {
	return Width, Height
}

func (f *Framebuffer) Area(x, y, w, h int, c Color) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			f.set(px, py, c)
		}
	}
}

func (f *Framebuffer) Line(x0, y0, x1, y1 int, c Color) {
	// Bresenham. The views mostly draw axis-aligned lines.
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		f.set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
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

func (f *Framebuffer) Text(x, y int, s string, c Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  f.img,
		Src:  image.NewUniform(grayOf(c)),
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent),
	}
	d.DrawString(s)
}

func (f *Framebuffer) Flush() error {
	f.flushes++
	if f.snapshotPath == "" {
		return nil
	}
	tmp := f.snapshotPath + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := png.Encode(out, f.img); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, f.snapshotPath)
}

// At returns the color of a single pixel.
func (f *Framebuffer) At(x, y int) Color {
	if f.img.GrayAt(x, y).Y < 0x80 {
		return Black
	}
	return White
}

// Flushes returns the number of Flush calls so far.
func (f *Framebuffer) Flushes() int {
	return f.flushes
}

func (f *Framebuffer) set(x, y int, c Color) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	f.img.SetGray(x, y, grayOf(c))
}

func grayOf(c Color) color.Gray {
	if c == Black {
		return color.Gray{Y: 0x00}
	}
	return color.Gray{Y: 0xff}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
