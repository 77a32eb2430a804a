// Package display renders power figures onto a small monochrome panel.
// The Surface interface is the boundary to the actual display hardware;
// everything above it is plain layout code.
package display

import "time"

type Color uint8

const (
	White Color = iota
	Black
)

// Panel geometry, sized for a 296x128 e-ink display.
const (
	Width  = 296
	Height = 128

	lineY  = 33          // line between the numbers band and the graph band
	lineX  = 20          // Y axis vertical line
	xAxisY = Height - 13 // X axis horizontal line
)

const (
	graphXWidth  = Width - lineX
	graphYHeight = xAxisY - lineY - 2

	graphWindowSeconds   = 60 * 60
	graphSecondsPerPixel = graphWindowSeconds / graphXWidth
)

// GraphWindow is the span of history the graph band shows.
const GraphWindow = graphWindowSeconds * time.Second

// SampleBucket is the aggregation period matching one graph pixel
// column; queries should bucket samples to it.
const SampleBucket = graphSecondsPerPixel * time.Second

// Surface is the set of draw primitives the views need. Coordinates are
// pixels with the origin at the top left. Drawing is buffered until
// Flush.
type Surface interface {
	Size() (width, height int)
	Area(x, y, w, h int, c Color)
	Line(x0, y0, x1, y1 int, c Color)
	Text(x, y int, s string, c Color)
	Flush() error
}

// DrawBootScreen cycles the panel and shows a startup message until the
// first samples arrive.
func DrawBootScreen(s Surface) error {
	w, h := s.Size()
	s.Area(0, 0, w, h, Black)
	if err := s.Flush(); err != nil {
		return err
	}
	s.Area(0, 0, w, h, White)
	s.Text(w/2-50, h/2-11, "Solarising...", Black)
	return s.Flush()
}
