package calculator

import (
	"fmt"
	"math"
)

// TradingDaysPerYear annualizes daily volatility.
const TradingDaysPerYear = 252

// DefaultHVWindows are the historical volatility windows computed by ComputeAll.
var DefaultHVWindows = []int{20, 60}

// AddVolatility adds annualized historical volatility HV_w for each window:
// the sample std of simple daily returns times sqrt(252) times 100. Returns
// are recomputed here so the column does not depend on AddPriceChanges.
func AddVolatility(f *Frame, windows ...int) (*Frame, error) {
	if len(windows) == 0 {
		windows = DefaultHVWindows
	}
	returns := dailyReturns(f.Closes())
	annualize := math.Sqrt(TradingDaysPerYear) * 100
	cols := make(map[string]Column, len(windows))
	for _, w := range windows {
		if w <= 0 {
			return nil, fmt.Errorf("volatility window %d: %w", w, ErrInvalidWindow)
		}
		hv := nanColumn(len(returns))
		for i := w - 1; i < len(returns); i++ {
			if _, std, ok := meanStd(returns[i-w+1 : i+1]); ok {
				hv[i] = std * annualize
			}
		}
		cols[ColHV(w)] = hv
	}
	return f.with(cols), nil
}

// dailyReturns returns close[i]/close[i-1] - 1; index 0 is undefined.
func dailyReturns(closes []float64) []float64 {
	out := nanColumn(len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			out[i] = closes[i]/closes[i-1] - 1
		}
	}
	return out
}
