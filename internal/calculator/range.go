package calculator

import (
	"errors"
	"fmt"
	"math"
)

// Trailing windows in trading days.
const (
	YearBars  = 252
	MonthBars = 21
)

// TrailingRange scans the most recent lookback bars and returns the high and
// low. Bars without a usable high or low fall back to the close.
func TrailingRange(f *Frame, lookback int) (high, low float64, err error) {
	if lookback <= 0 {
		return 0, 0, fmt.Errorf("trailing range %d: %w", lookback, ErrInvalidWindow)
	}
	n := f.Len()
	if n == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	start := n - lookback
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range f.bars[start:] {
		h, l := b.High, b.Low
		if math.IsNaN(h) || h <= 0 {
			h = b.Close
		}
		if math.IsNaN(l) || l <= 0 {
			l = b.Close
		}
		high = math.Max(high, h)
		low = math.Min(low, l)
	}
	return high, low, nil
}

// RangePosition returns where current sits within [low, high], clamped to
// 0..1. A flat range is the midpoint.
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	return math.Min(math.Max(pos, 0), 1), nil
}
