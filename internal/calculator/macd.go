package calculator

import "fmt"

// Default MACD spans.
const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// AddMACD adds MACD, MACD_Signal and MACD_Histogram. The EMAs start at the
// first value with no warm-up gap.
func AddMACD(f *Frame, fast, slow, signal int) (*Frame, error) {
	for _, span := range []int{fast, slow, signal} {
		if span <= 0 {
			return nil, fmt.Errorf("macd span %d: %w", span, ErrInvalidWindow)
		}
	}
	closes := f.Closes()
	emaFast := ema(closes, fast)
	emaSlow := ema(closes, slow)
	line := make(Column, len(closes))
	for i := range closes {
		line[i] = emaFast[i] - emaSlow[i]
	}
	sig := ema(line, signal)
	hist := make(Column, len(closes))
	for i := range closes {
		hist[i] = line[i] - sig[i]
	}
	return f.with(map[string]Column{
		ColMACD:          line,
		ColMACDSignal:    sig,
		ColMACDHistogram: hist,
	}), nil
}

// ema is the recursive exponential average seeded with values[0],
// alpha = 2/(span+1).
func ema(values []float64, span int) Column {
	out := make(Column, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}
