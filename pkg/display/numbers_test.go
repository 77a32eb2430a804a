package display

import (
	"testing"
	"time"

	"github.com/slickwilli/solar-usage/models"
)

func sampleAt(ts int64, solar, usage *models.Range) models.Sample {
	return models.Sample{Timestamp: time.Unix(ts, 0), Solar: solar, Usage: usage}
}

func TestNumberDisplayShowsFetchedValues(t *testing.T) {
	t.Parallel()

	s := &fakeSurface{}
	d := NewNumberDisplay(s)

	d.Update(sampleAt(1700000000, &models.Range{Min: 1500, Max: 1500}, &models.Range{Min: 900, Max: 900}))

	if !s.hasText("1500 W") {
		t.Fatalf("expected solar text 1500 W, texts: %v", s.texts())
	}
	if !s.hasText("900 W") {
		t.Fatalf("expected usage text 900 W, texts: %v", s.texts())
	}
}

func TestNumberDisplayDashForMissingSeries(t *testing.T) {
	t.Parallel()

	s := &fakeSurface{}
	d := NewNumberDisplay(s)

	d.Update(sampleAt(1700000000, nil, &models.Range{Min: 900, Max: 900}))

	if !s.hasText("  -") {
		t.Fatalf("expected dash placeholder, texts: %v", s.texts())
	}
}

func TestNumberDisplayNoSamplePlaceholder(t *testing.T) {
	t.Parallel()

	s := &fakeSurface{}
	d := NewNumberDisplay(s)

	d.UpdateNoSample()

	count := 0
	for _, txt := range s.texts() {
		if txt == "???" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected both figures marked unknown, texts: %v", s.texts())
	}
}

func TestNumberDisplayRedrawCycle(t *testing.T) {
	t.Parallel()

	s := &fakeSurface{}
	d := NewNumberDisplay(s)
	sample := sampleAt(1700000000, &models.Range{Min: 100, Max: 100}, &models.Range{Min: 200, Max: 200})

	// first draw paints the band, then the cycle repeats every 50 updates
	for i := 0; i < numberRedrawUpdates+1; i++ {
		d.Update(sample)
	}
	if got := s.fullBandAreas(0, lineY, Black); got != 2 {
		t.Fatalf("expected 2 full band redraws, got %d", got)
	}

	s.reset()
	d.Update(sample)
	if got := s.fullBandAreas(0, lineY, Black); got != 0 {
		t.Fatalf("expected no full redraw right after a cycle, got %d", got)
	}
}

func TestFormatWatts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   *models.Range
		want string
	}{
		{"missing", nil, "  -"},
		{"integral", &models.Range{Min: 1500, Max: 1500}, "1500 W"},
		{"fractional mean", &models.Range{Min: 700, Max: 865}, "782.5 W"},
		{"zero", &models.Range{}, "0 W"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatWatts(tc.in); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
