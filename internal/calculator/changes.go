package calculator

import (
	"fmt"
	"math"
)

// WeeklyBars is the trading-day span of a week for percent change.
const WeeklyBars = 5

// AddPriceChanges adds daily (1 bar) and weekly (5 bar) percent change columns.
func AddPriceChanges(f *Frame) *Frame {
	closes := f.Closes()
	return f.with(map[string]Column{
		ColDailyChange:  pctChange(closes, 1),
		ColWeeklyChange: pctChange(closes, WeeklyBars),
	})
}

// pctChange returns (x[i]/x[i-lag] - 1) * 100. Zero bases are undefined.
func pctChange(values []float64, lag int) Column {
	out := nanColumn(len(values))
	for i := lag; i < len(values); i++ {
		base := values[i-lag]
		if base == 0 || math.IsNaN(base) {
			continue
		}
		out[i] = (values[i]/base - 1) * 100
	}
	return out
}

// PeriodChange returns the percent change of the latest close against the
// close bars positions earlier. ok is false when history is too short.
func PeriodChange(f *Frame, bars int) (change float64, ok bool, err error) {
	if bars <= 0 {
		return 0, false, fmt.Errorf("period change %d: %w", bars, ErrInvalidWindow)
	}
	n := f.Len()
	if n <= bars {
		return math.NaN(), false, nil
	}
	base := f.bars[n-1-bars].Close
	if base == 0 {
		return math.NaN(), false, nil
	}
	return (f.bars[n-1].Close/base - 1) * 100, true, nil
}
