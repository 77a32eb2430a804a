package display

import (
	"strconv"

	"github.com/slickwilli/solar-usage/models"
)

// numberRedrawUpdates is how many partial updates the numbers band takes
// before a full black/white redraw cycle to refresh the e-ink pixels.
const numberRedrawUpdates = 50

// NumberDisplay draws the current solar generation and home usage as
// text in the band above lineY.
type NumberDisplay struct {
	surface Surface
	updates int
	started bool
}

func NewNumberDisplay(s Surface) *NumberDisplay {
	return &NumberDisplay{surface: s}
}

// Update replaces the displayed figures with the given sample's.
func (d *NumberDisplay) Update(sample models.Sample) {
	if d.updates == numberRedrawUpdates {
		d.redraw()
		d.updates = 0
	} else {
		d.updates++
	}
	d.draw(FormatWatts(sample.Solar), FormatWatts(sample.Usage))
}

// UpdateNoSample marks both figures as unknown. Shown when the backend
// has not produced a fresh sample for too long.
func (d *NumberDisplay) UpdateNoSample() {
	d.draw("???", "???")
}

func (d *NumberDisplay) redraw() {
	w, _ := d.surface.Size()
	d.surface.Area(0, 0, w, lineY, Black)
	d.surface.Flush()
	d.surface.Area(0, 0, w, lineY, White)
	d.surface.Flush()

	d.surface.Line(0, lineY, w-1, lineY, Black)
	d.surface.Text(4, 8, "SUN", Black)
	d.surface.Text(134, 8, "HOME", Black)
	d.surface.Flush()
}

func (d *NumberDisplay) draw(solarText, usageText string) {
	if !d.started {
		d.redraw()
		d.started = true
	}
	d.surface.Area(36, 4, 130-36, 32-4, White)
	d.surface.Area(166, 4, Width-166, 32-4, White)
	d.surface.Text(36, 4, solarText, Black)
	d.surface.Text(166, 4, usageText, Black)
	d.surface.Flush()
}

// FormatWatts renders the mean of a range as display text, or a dash
// placeholder when the backend returned no figure.
func FormatWatts(r *models.Range) string {
	if r == nil {
		return "  -"
	}
	return strconv.FormatFloat(r.Mean(), 'f', -1, 64) + " W"
}
