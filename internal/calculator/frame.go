// Package calculator computes technical indicators over a daily price
// frame. Every operation returns a new Frame; inputs are never modified.
// Positions without enough history hold NaN, which accessors report as
// undefined.
package calculator

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
)

var (
	// ErrMissingColumn means a required input field is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrUnsorted means bar timestamps are not strictly increasing.
	ErrUnsorted = errors.New("bars not strictly increasing in time")
	// ErrInvalidWindow means a window or period is not positive.
	ErrInvalidWindow = errors.New("window must be positive")
)

// Column names written by the engine.
const (
	ColRSI           = "RSI"
	ColDailyChange   = "daily_pct_change"
	ColWeeklyChange  = "weekly_pct_change"
	ColMACD          = "MACD"
	ColMACDSignal    = "MACD_Signal"
	ColMACDHistogram = "MACD_Histogram"
	ColBBUpper       = "BB_Upper"
	ColBBMiddle      = "BB_Middle"
	ColBBLower       = "BB_Lower"
	ColBBWidth       = "BB_Width"
)

// ColMA returns the moving-average column name for window w, e.g. "MA_20".
func ColMA(w int) string { return "MA_" + strconv.Itoa(w) }

// ColHV returns the historical-volatility column name for window w.
func ColHV(w int) string { return "HV_" + strconv.Itoa(w) }

// Column is an indicator aligned with the frame's bars.
type Column []float64

// At returns the value at i and whether it is defined.
func (c Column) At(i int) (float64, bool) {
	if i < 0 || i >= len(c) || math.IsNaN(c[i]) {
		return math.NaN(), false
	}
	return c[i], true
}

// Frame is an ordered price series plus derived indicator columns.
type Frame struct {
	bars    []model.PriceBar
	columns map[string]Column
}

// NewFrame validates bars and wraps them in a frame. The slice is copied.
func NewFrame(bars []model.PriceBar) (*Frame, error) {
	for i, b := range bars {
		if math.IsNaN(b.Close) || math.IsInf(b.Close, 0) {
			return nil, fmt.Errorf("bar %d (%s): close: %w", i, model.DayKey(b.Time), ErrMissingColumn)
		}
		if i > 0 && !b.Time.After(bars[i-1].Time) {
			return nil, fmt.Errorf("bar %d (%s): %w", i, model.DayKey(b.Time), ErrUnsorted)
		}
	}
	cp := make([]model.PriceBar, len(bars))
	copy(cp, bars)
	return &Frame{bars: cp, columns: map[string]Column{}}, nil
}

// Len returns the number of bars.
func (f *Frame) Len() int { return len(f.bars) }

// Bars returns a copy of the bars.
func (f *Frame) Bars() []model.PriceBar {
	cp := make([]model.PriceBar, len(f.bars))
	copy(cp, f.bars)
	return cp
}

// Bar returns the i-th bar.
func (f *Frame) Bar(i int) model.PriceBar { return f.bars[i] }

// Latest returns the last bar. ok is false for an empty frame.
func (f *Frame) Latest() (bar model.PriceBar, ok bool) {
	if len(f.bars) == 0 {
		return model.PriceBar{}, false
	}
	return f.bars[len(f.bars)-1], true
}

// Closes returns the close prices in order.
func (f *Frame) Closes() []float64 {
	out := make([]float64, len(f.bars))
	for i, b := range f.bars {
		out[i] = b.Close
	}
	return out
}

// Volumes returns the volumes in order; NaN where the bar has none.
func (f *Frame) Volumes() []float64 {
	out := make([]float64, len(f.bars))
	for i, b := range f.bars {
		out[i] = b.Volume
	}
	return out
}

// Column returns a copy of the named column. ok is false when it has not
// been computed.
func (f *Frame) Column(name string) (Column, bool) {
	c, ok := f.columns[name]
	if !ok {
		return nil, false
	}
	cp := make(Column, len(c))
	copy(cp, c)
	return cp, true
}

// Has reports whether the named column exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.columns[name]
	return ok
}

// Value returns column name at row i. Negative i counts from the end, so
// -1 is the latest bar. ok is false when the column is missing or the
// value undefined.
func (f *Frame) Value(name string, i int) (float64, bool) {
	c, ok := f.columns[name]
	if !ok {
		return math.NaN(), false
	}
	if i < 0 {
		i += len(c)
	}
	return c.At(i)
}

// ColumnNames lists the computed columns.
func (f *Frame) ColumnNames() []string {
	names := make([]string, 0, len(f.columns))
	for n := range f.columns {
		names = append(names, n)
	}
	return names
}

// Slice returns the frame truncated to rows [0, end). Columns are cut at
// the same point, so the result is what the detectors would have seen on
// bar end-1.
func (f *Frame) Slice(end int) *Frame {
	if end > len(f.bars) {
		end = len(f.bars)
	}
	if end < 0 {
		end = 0
	}
	out := &Frame{bars: f.bars[:end:end], columns: make(map[string]Column, len(f.columns))}
	for n, c := range f.columns {
		out.columns[n] = c[:end:end]
	}
	return out
}

// with returns a copy of f carrying the extra columns. Existing column
// slices are shared; they are never written after creation.
func (f *Frame) with(cols map[string]Column) *Frame {
	out := &Frame{bars: f.bars, columns: make(map[string]Column, len(f.columns)+len(cols))}
	for n, c := range f.columns {
		out.columns[n] = c
	}
	for n, c := range cols {
		out.columns[n] = c
	}
	return out
}

func nanColumn(n int) Column {
	c := make(Column, n)
	for i := range c {
		c[i] = math.NaN()
	}
	return c
}

// WithColumn returns a copy of f carrying values under name. The values are
// copied and must match the bar count.
func (f *Frame) WithColumn(name string, values []float64) (*Frame, error) {
	if len(values) != len(f.bars) {
		return nil, fmt.Errorf("column %s has %d values for %d bars", name, len(values), len(f.bars))
	}
	c := make(Column, len(values))
	copy(c, values)
	return f.with(map[string]Column{name: c}), nil
}
