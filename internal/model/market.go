package model

import (
	"math"
	"time"
)

// PriceBar represents a single end-of-day bar. Volume is NaN when the
// source does not publish it.
type PriceBar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// HasVolume reports whether the bar carries a volume figure.
func (b PriceBar) HasVolume() bool { return !math.IsNaN(b.Volume) }

// PriceSeries holds the bars loaded for one commodity, oldest first.
type PriceSeries struct {
	Commodity string
	Bars      []PriceBar
}

// DayKey returns the calendar date of t in its own location. Series from
// different sources are joined on this key rather than on the raw timestamp.
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// Point is a dated scalar. Value is NaN when undefined.
type Point struct {
	Date  time.Time
	Value float64
}

// Valid reports whether the point holds a defined value.
func (p Point) Valid() bool { return !math.IsNaN(p.Value) }
