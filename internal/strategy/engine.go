// Package strategy scans an indicator frame for discrete events as of its
// latest bar. Detectors never fail: missing columns or short history simply
// produce no signal.
package strategy

import (
	"github.com/philipbergman6-glitch/Mirror-Market/internal/calculator"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
)

// Detector runs the pattern recognizers with a fixed set of thresholds.
type Detector struct {
	Thresholds Thresholds
}

// NewDetector returns a detector using t.
func NewDetector(t Thresholds) *Detector {
	return &Detector{Thresholds: t}
}

// DetectAll runs every detector and concatenates the results in detector
// order. The result is not sorted.
func (d *Detector) DetectAll(f *calculator.Frame, commodity string) []model.Signal {
	var out []model.Signal
	out = append(out, d.MACrossovers(f, commodity)...)
	out = append(out, d.VolumeSpike(f, commodity)...)
	out = append(out, d.RSIExtremes(f, commodity)...)
	out = append(out, d.RSIDivergence(f, commodity)...)
	out = append(out, d.MACDCrossover(f, commodity)...)
	out = append(out, d.BollingerSqueeze(f, commodity)...)
	return out
}

// DetectAll runs every detector with DefaultThresholds.
func DetectAll(f *calculator.Frame, commodity string) []model.Signal {
	return NewDetector(DefaultThresholds()).DetectAll(f, commodity)
}

func newSignal(f *calculator.Frame, commodity string, typ model.SignalType, sev model.Severity, desc string, value float64) model.Signal {
	latest, _ := f.Latest()
	return model.Signal{
		Date:        latest.Time,
		Commodity:   commodity,
		Type:        typ,
		Severity:    sev,
		Description: desc,
		Value:       value,
	}
}

// crossDirection compares two lines over the last two bars. It returns 1
// when a moves from <= b to > b, -1 when it moves from >= b to < b and 0
// otherwise, including when any value is undefined.
func crossDirection(f *calculator.Frame, a, b string) int {
	if f.Len() < 2 {
		return 0
	}
	prevA, ok1 := f.Value(a, -2)
	prevB, ok2 := f.Value(b, -2)
	curA, ok3 := f.Value(a, -1)
	curB, ok4 := f.Value(b, -1)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0
	}
	switch {
	case prevA <= prevB && curA > curB:
		return 1
	case prevA >= prevB && curA < curB:
		return -1
	}
	return 0
}
