package strategy

import (
	"fmt"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/calculator"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
)

// MACDCrossover reports the MACD line crossing its signal line.
func (d *Detector) MACDCrossover(f *calculator.Frame, commodity string) []model.Signal {
	dir := crossDirection(f, calculator.ColMACD, calculator.ColMACDSignal)
	if dir == 0 {
		return nil
	}
	macd, _ := f.Value(calculator.ColMACD, -1)
	if dir > 0 {
		return []model.Signal{newSignal(f, commodity, model.SignalMACDBullish, model.SeverityInfo,
			fmt.Sprintf("%s MACD bullish crossover (momentum turning up)", commodity), macd)}
	}
	return []model.Signal{newSignal(f, commodity, model.SignalMACDBearish, model.SeverityInfo,
		fmt.Sprintf("%s MACD bearish crossover (momentum turning down)", commodity), macd)}
}
