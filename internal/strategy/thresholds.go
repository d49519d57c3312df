package strategy

// Thresholds are the tunable constants of the detectors.
type Thresholds struct {
	RSIOverbought       float64 `yaml:"rsi_overbought"`
	RSIOversold         float64 `yaml:"rsi_oversold"`
	VolumeSpikeRatio    float64 `yaml:"volume_spike_ratio"`
	VolumeLookback      int     `yaml:"volume_lookback"`
	DivergenceLookback  int     `yaml:"divergence_lookback"`
	DivergenceRSIGap    float64 `yaml:"divergence_rsi_gap"`
	DivergencePriceBand float64 `yaml:"divergence_price_band"`
	SqueezeLookback     int     `yaml:"squeeze_lookback"`
	SqueezeTolerance    float64 `yaml:"squeeze_tolerance"`
}

// DefaultThresholds returns the standard detector settings.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RSIOverbought:       70,
		RSIOversold:         30,
		VolumeSpikeRatio:    2.0,
		VolumeLookback:      20,
		DivergenceLookback:  20,
		DivergenceRSIGap:    5,
		DivergencePriceBand: 0.01,
		SqueezeLookback:     120,
		SqueezeTolerance:    0.05,
	}
}

// ThresholdOverride replaces individual fields of a Thresholds value. Nil
// fields keep the base setting.
type ThresholdOverride struct {
	RSIOverbought       *float64 `yaml:"rsi_overbought"`
	RSIOversold         *float64 `yaml:"rsi_oversold"`
	VolumeSpikeRatio    *float64 `yaml:"volume_spike_ratio"`
	VolumeLookback      *int     `yaml:"volume_lookback"`
	DivergenceLookback  *int     `yaml:"divergence_lookback"`
	DivergenceRSIGap    *float64 `yaml:"divergence_rsi_gap"`
	DivergencePriceBand *float64 `yaml:"divergence_price_band"`
	SqueezeLookback     *int     `yaml:"squeeze_lookback"`
	SqueezeTolerance    *float64 `yaml:"squeeze_tolerance"`
}

// Apply returns base with the override's non-nil fields set.
func (o ThresholdOverride) Apply(base Thresholds) Thresholds {
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setI := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&base.RSIOverbought, o.RSIOverbought)
	setF(&base.RSIOversold, o.RSIOversold)
	setF(&base.VolumeSpikeRatio, o.VolumeSpikeRatio)
	setI(&base.VolumeLookback, o.VolumeLookback)
	setI(&base.DivergenceLookback, o.DivergenceLookback)
	setF(&base.DivergenceRSIGap, o.DivergenceRSIGap)
	setF(&base.DivergencePriceBand, o.DivergencePriceBand)
	setI(&base.SqueezeLookback, o.SqueezeLookback)
	setF(&base.SqueezeTolerance, o.SqueezeTolerance)
	return base
}
