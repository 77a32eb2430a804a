package display

import (
	"fmt"
	"time"

	"github.com/slickwilli/solar-usage/models"
)

// graphFullRefreshRedraws is how many full redraws happen between e-ink
// refresh cycles of the graph band.
const graphFullRefreshRedraws = 3

// Graph plots the trailing hour of samples in the band below lineY.
// Solar is drawn as dotted min/max columns, usage as solid columns with
// adjacent peaks joined. The window scrolls in quarter-window steps and
// the Y scale follows the observed peak power.
type Graph struct {
	surface Surface
	now     func() time.Time

	redraws    int
	lastX      int
	lastUsageY int
	samples    []models.Sample
	maxPower   float64
	originTS   int64 // unix seconds at the left edge, 0 until first data
}

func NewGraph(s Surface) *Graph {
	return &Graph{surface: s, now: time.Now, lastX: -1}
}

// Update merges new samples into the window and draws them,
// incrementally when the window and scale are unchanged, with a full
// redraw on scroll or rescale.
func (g *Graph) Update(newSamples []models.Sample) {
	const scrollSeconds = graphWindowSeconds / 4
	newOrigin := roundUp(g.now().Unix(), scrollSeconds) - graphWindowSeconds

	for len(g.samples) > 0 && g.samples[0].Timestamp.Unix() < newOrigin {
		g.samples = g.samples[1:]
	}

	for _, s := range newSamples {
		switch {
		case s.Timestamp.Unix() < newOrigin:
			// scrolled out already
		case len(g.samples) > 0 && !g.samples[len(g.samples)-1].Timestamp.Before(s.Timestamp):
			// the first new sample can be a rewrite of the last known bucket
			g.samples[len(g.samples)-1] = s
		default:
			g.samples = append(g.samples, s)
		}
	}

	if len(g.samples) == 0 {
		return
	}

	var peak float64
	for _, s := range g.samples {
		if p := s.MaxPower(); p > peak {
			peak = p
		}
	}
	newMax := float64(roundUp(int64(peak), 500) + 500)

	if newOrigin != g.originTS || newMax != g.maxPower {
		g.originTS = newOrigin
		g.maxPower = newMax
		g.redrawAll()
	} else {
		g.drawSamples(newSamples)
	}
}

func (g *Graph) redrawAll() {
	g.redraws++
	if g.redraws == graphFullRefreshRedraws {
		g.redraws = 0
		// cycle the band to refresh the e-ink pixels
		for i := 0; i < 3; i++ {
			g.surface.Area(0, lineY+1, Width, Height-lineY-1, Black)
			g.surface.Flush()
			g.surface.Area(0, lineY+1, Width, Height-lineY-1, White)
			g.surface.Flush()
		}
	} else {
		g.surface.Area(0, lineY+1, Width, Height-lineY-1, White)
		g.surface.Flush()
	}

	g.surface.Line(lineX, lineY, lineX, xAxisY, Black)
	g.surface.Line(0, xAxisY, Width-1, xAxisY, Black)
	g.surface.Flush()

	g.drawYAxis()
	g.drawXAxis()

	g.lastX = -1
	g.lastUsageY = 0

	if len(g.samples) == 0 {
		g.originTS = 0
		return
	}
	g.drawSamples(g.samples)
}

func (g *Graph) drawYAxis() {
	const steps = 6
	wattsPerStep := g.maxPower / steps
	for step := 0; step < steps; step++ {
		y := g.valueToY(float64(step) * wattsPerStep)
		fromX := lineX - 5
		if step%2 == 1 {
			fromX = lineX - 2
			g.surface.Text(0, y-6, fmt.Sprintf("%.1f", float64(step)*wattsPerStep/1000), Black)
		}
		g.surface.Line(fromX, y, lineX, y, Black)
	}
	g.surface.Flush()
}

func (g *Graph) drawXAxis() {
	if g.originTS == 0 {
		return
	}
	const segments = 4
	ts := g.originTS
	for m := 0; m <= segments; m++ {
		x := g.timestampToX(ts)
		g.surface.Line(x, xAxisY, x, Height-4, Black)
		minutes := (ts / 60) % 60
		g.surface.Text(x+2, xAxisY, fmt.Sprintf(":%02d", minutes), Black)
		g.surface.Flush()
		ts += graphWindowSeconds / segments
	}
}

func (g *Graph) drawSamples(samples []models.Sample) {
	for _, s := range samples {
		x := g.timestampToX(s.Timestamp.Unix())
		if s.Solar != nil {
			yMin := g.valueToY(s.Solar.Min)
			yMax := g.valueToY(s.Solar.Max)
			// no greyscale, so solar becomes a dotted column
			solarX := x - x%2
			g.surface.Line(solarX, yMin, solarX, yMax, Black)
		}
		if s.Usage != nil {
			yMin := g.valueToY(s.Usage.Min)
			yMax := g.valueToY(s.Usage.Max)
			g.surface.Line(x, yMin, x, yMax, Black)
			// join adjacent usage peaks
			if g.lastX == x-1 || g.lastX == x-2 {
				g.surface.Line(g.lastX, g.lastUsageY, x, yMax, Black)
			}
			g.lastX = x
			g.lastUsageY = yMax
		}
	}
	g.surface.Flush()
}

func (g *Graph) timestampToX(ts int64) int {
	r := (ts - g.originTS) * graphXWidth / graphWindowSeconds
	if r < 0 {
		r = 0
	}
	if r > graphXWidth-1 {
		r = graphXWidth - 1
	}
	return lineX + int(r)
}

func (g *Graph) valueToY(value float64) int {
	// the backend occasionally reports small negative minimums
	if value < 0 {
		value = 0
	}
	if value > g.maxPower {
		value = g.maxPower
	}
	result := value / g.maxPower * graphYHeight
	if result < 1 {
		result = 1
	}
	return graphYHeight - int(result) + lineY
}

func roundUp(v, to int64) int64 {
	return (v + to - 1) / to * to
}
