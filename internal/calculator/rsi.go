package calculator

import "fmt"

// DefaultRSIPeriod is the RSI lookback used by ComputeAll.
const DefaultRSIPeriod = 14

// wilderState is the running average gain and loss.
type wilderState struct {
	gain, loss float64
}

// step folds one more bar into the Wilder average.
func (s wilderState) step(gain, loss float64, period int) wilderState {
	p := float64(period)
	return wilderState{
		gain: (s.gain*(p-1) + gain) / p,
		loss: (s.loss*(p-1) + loss) / p,
	}
}

func (s wilderState) rsi() float64 {
	if s.loss == 0 {
		return 100.0
	}
	rs := s.gain / s.loss
	return 100.0 - 100.0/(1.0+rs)
}

// AddRSI adds the Wilder-smoothed RSI column. The averages are seeded with
// the simple mean of the first period gains and losses, so RSI is first
// defined at index period. A zero average loss yields 100.
func AddRSI(f *Frame, period int) (*Frame, error) {
	if period <= 0 {
		return nil, fmt.Errorf("rsi period %d: %w", period, ErrInvalidWindow)
	}
	return f.with(map[string]Column{ColRSI: wilderRSI(f.Closes(), period)}), nil
}

func wilderRSI(closes []float64, period int) Column {
	out := nanColumn(len(closes))
	if len(closes) < period+1 {
		return out
	}
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	var seed wilderState
	for i := 1; i <= period; i++ {
		seed.gain += gains[i]
		seed.loss += losses[i]
	}
	seed.gain /= float64(period)
	seed.loss /= float64(period)

	states := scanWilder(seed, gains[period+1:], losses[period+1:], period)
	for k, s := range states {
		out[period+k] = s.rsi()
	}
	return out
}

// scanWilder returns seed followed by one state per remaining bar.
func scanWilder(seed wilderState, gains, losses []float64, period int) []wilderState {
	states := make([]wilderState, 0, len(gains)+1)
	states = append(states, seed)
	for i := range gains {
		states = append(states, states[len(states)-1].step(gains[i], losses[i], period))
	}
	return states
}
