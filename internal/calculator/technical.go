package calculator

import "fmt"

// ComputeAll adds every indicator with default parameters. Each step writes
// its own columns, so the result is the same in any order.
func ComputeAll(f *Frame) (*Frame, error) {
	out, err := AddMovingAverages(f, DefaultMAWindows...)
	if err != nil {
		return nil, fmt.Errorf("compute technicals: %w", err)
	}
	if out, err = AddRSI(out, DefaultRSIPeriod); err != nil {
		return nil, fmt.Errorf("compute technicals: %w", err)
	}
	out = AddPriceChanges(out)
	if out, err = AddMACD(out, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal); err != nil {
		return nil, fmt.Errorf("compute technicals: %w", err)
	}
	if out, err = AddBollinger(out, DefaultBBWindow, DefaultBBStd); err != nil {
		return nil, fmt.Errorf("compute technicals: %w", err)
	}
	if out, err = AddVolatility(out, DefaultHVWindows...); err != nil {
		return nil, fmt.Errorf("compute technicals: %w", err)
	}
	return out, nil
}
