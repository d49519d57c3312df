package calculator

import (
	"fmt"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
)

// DefaultMAWindows are the moving-average windows computed by ComputeAll.
var DefaultMAWindows = []int{20, 50, 200}

// AddMovingAverages adds a simple moving average column MA_w for each window.
// MA_w[i] is defined once i >= w-1. With no windows the defaults are used.
func AddMovingAverages(f *Frame, windows ...int) (*Frame, error) {
	if len(windows) == 0 {
		windows = DefaultMAWindows
	}
	closes := f.Closes()
	cols := make(map[string]Column, len(windows))
	for _, w := range windows {
		sma, err := rollingMean(closes, w)
		if err != nil {
			return nil, fmt.Errorf("moving average %d: %w", w, err)
		}
		cols[ColMA(w)] = sma
	}
	return f.with(cols), nil
}

// rollingMean returns the trailing simple moving average aligned with values.
func rollingMean(values []float64, window int) (Column, error) {
	if window <= 0 {
		return nil, ErrInvalidWindow
	}
	out := nanColumn(len(values))
	if len(values) < window {
		return out, nil
	}
	sma := trend.NewSmaWithPeriod[float64](window)
	computed := helper.ChanToSlice(sma.Compute(helper.SliceToChan(values)))
	offset := len(values) - len(computed)
	copy(out[offset:], computed)
	return out, nil
}
