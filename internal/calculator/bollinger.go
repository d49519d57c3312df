package calculator

import (
	"fmt"
	"math"
)

// Default Bollinger parameters.
const (
	DefaultBBWindow = 20
	DefaultBBStd    = 2.0
)

// AddBollinger adds BB_Upper, BB_Middle, BB_Lower and BB_Width. The bands use
// the sample standard deviation; width is in percent of the middle band and
// undefined when the middle is zero.
func AddBollinger(f *Frame, window int, numStd float64) (*Frame, error) {
	if window <= 0 {
		return nil, fmt.Errorf("bollinger window %d: %w", window, ErrInvalidWindow)
	}
	closes := f.Closes()
	middle, err := rollingMean(closes, window)
	if err != nil {
		return nil, err
	}
	n := len(closes)
	upper, lower, width := nanColumn(n), nanColumn(n), nanColumn(n)
	for i := window - 1; i < n; i++ {
		if math.IsNaN(middle[i]) {
			continue
		}
		_, std, ok := meanStd(closes[i-window+1 : i+1])
		if !ok {
			continue
		}
		upper[i] = middle[i] + numStd*std
		lower[i] = middle[i] - numStd*std
		if middle[i] != 0 {
			width[i] = (upper[i] - lower[i]) / middle[i] * 100
		}
	}
	return f.with(map[string]Column{
		ColBBUpper:  upper,
		ColBBMiddle: middle,
		ColBBLower:  lower,
		ColBBWidth:  width,
	}), nil
}
