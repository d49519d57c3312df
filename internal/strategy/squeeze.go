package strategy

import (
	"fmt"
	"math"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/calculator"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
)

// BollingerSqueeze reports the latest band width within SqueezeTolerance of
// its minimum over the trailing SqueezeLookback bars.
func (d *Detector) BollingerSqueeze(f *calculator.Frame, commodity string) []model.Signal {
	lookback := d.Thresholds.SqueezeLookback
	n := f.Len()
	if lookback <= 0 || n < lookback {
		return nil
	}
	width, ok := f.Column(calculator.ColBBWidth)
	if !ok {
		return nil
	}
	current, ok := width.At(n - 1)
	if !ok {
		return nil
	}
	minWidth := math.Inf(1)
	for i := n - lookback; i < n; i++ {
		if v, ok := width.At(i); ok && v < minWidth {
			minWidth = v
		}
	}
	if current > minWidth*(1+d.Thresholds.SqueezeTolerance) {
		return nil
	}
	return []model.Signal{newSignal(f, commodity, model.SignalBollingerSqueeze, model.SeverityInfo,
		fmt.Sprintf("%s Bollinger Band squeeze (volatility at %d-day low, breakout likely)", commodity, lookback), current)}
}
