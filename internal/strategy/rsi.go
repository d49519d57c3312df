package strategy

import (
	"fmt"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/calculator"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
)

// RSIExtremes reports an overbought or oversold latest RSI.
func (d *Detector) RSIExtremes(f *calculator.Frame, commodity string) []model.Signal {
	rsi, ok := f.Value(calculator.ColRSI, -1)
	if !ok {
		return nil
	}
	switch {
	case rsi > d.Thresholds.RSIOverbought:
		return []model.Signal{newSignal(f, commodity, model.SignalRSIOverbought, model.SeverityWarning,
			fmt.Sprintf("%s RSI overbought (%.0f)", commodity, rsi), rsi)}
	case rsi < d.Thresholds.RSIOversold:
		return []model.Signal{newSignal(f, commodity, model.SignalRSIOversold, model.SeverityWarning,
			fmt.Sprintf("%s RSI oversold (%.0f)", commodity, rsi), rsi)}
	}
	return nil
}

// RSIDivergence compares the latest bar with the extreme close of the
// trailing DivergenceLookback bars. Bearish: price within the band of the
// window high while RSI sits more than DivergenceRSIGap below the RSI at
// that high. Bullish is the mirror on the window low. The extreme is the
// first bar holding the max or min close and must not be the latest bar.
func (d *Detector) RSIDivergence(f *calculator.Frame, commodity string) []model.Signal {
	t := d.Thresholds
	n := f.Len()
	if t.DivergenceLookback <= 0 || n < t.DivergenceLookback+1 {
		return nil
	}
	rsiNow, ok := f.Value(calculator.ColRSI, -1)
	if !ok {
		return nil
	}
	closes := f.Closes()
	start := n - t.DivergenceLookback
	hi, lo := start, start
	for i := start + 1; i < n; i++ {
		if closes[i] > closes[hi] {
			hi = i
		}
		if closes[i] < closes[lo] {
			lo = i
		}
	}
	current := closes[n-1]

	var out []model.Signal
	if rsiHigh, ok := f.Value(calculator.ColRSI, hi); ok && hi != n-1 &&
		current >= closes[hi]*(1-t.DivergencePriceBand) &&
		rsiNow < rsiHigh-t.DivergenceRSIGap {
		out = append(out, newSignal(f, commodity, model.SignalBearishDivergence, model.SeverityWarning,
			fmt.Sprintf("%s bearish RSI divergence (price near high but RSI falling)", commodity), rsiNow))
	}
	if rsiLow, ok := f.Value(calculator.ColRSI, lo); ok && lo != n-1 &&
		current <= closes[lo]*(1+t.DivergencePriceBand) &&
		rsiNow > rsiLow+t.DivergenceRSIGap {
		out = append(out, newSignal(f, commodity, model.SignalBullishDivergence, model.SeverityWarning,
			fmt.Sprintf("%s bullish RSI divergence (price near low but RSI rising)", commodity), rsiNow))
	}
	return out
}
