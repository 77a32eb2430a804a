package models

import "time"

// Range is the (min, max) spread of a power series within one
// aggregation bucket.
type Range struct {
	Min float64
	Max float64
}

func (r Range) Mean() float64 {
	return (r.Min + r.Max) / 2
}

// Sample is one aggregation bucket of power figures. A nil range means
// the backend returned no value for that series in this bucket.
type Sample struct {
	Timestamp time.Time
	Solar     *Range
	Usage     *Range
}

// IsEmpty reports whether the sample carries no useful data. A usage
// range pinned at zero counts as empty since an idle house never draws
// exactly nothing.
func (s Sample) IsEmpty() bool {
	return s.Solar == nil && (s.Usage == nil || (s.Usage.Min == 0 && s.Usage.Max == 0))
}

// MaxPower returns the highest wattage in the sample across both series.
func (s Sample) MaxPower() float64 {
	var m float64
	if s.Solar != nil && s.Solar.Max > m {
		m = s.Solar.Max
	}
	if s.Usage != nil && s.Usage.Max > m {
		m = s.Usage.Max
	}
	return m
}
