package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SignalType names a detected pattern.
type SignalType string

const (
	SignalGoldenCross20x50  SignalType = "golden_cross_20_50"
	SignalDeathCross20x50   SignalType = "death_cross_20_50"
	SignalGoldenCross50x200 SignalType = "golden_cross_50_200"
	SignalDeathCross50x200  SignalType = "death_cross_50_200"
	SignalVolumeSpike       SignalType = "volume_spike"
	SignalRSIOverbought     SignalType = "rsi_overbought"
	SignalRSIOversold       SignalType = "rsi_oversold"
	SignalBearishDivergence SignalType = "bearish_divergence"
	SignalBullishDivergence SignalType = "bullish_divergence"
	SignalMACDBullish       SignalType = "macd_bullish"
	SignalMACDBearish       SignalType = "macd_bearish"
	SignalBollingerSqueeze  SignalType = "bollinger_squeeze"
)

// Severity ranks signals. The zero value is SeverityInfo.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityAlert
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityAlert:
		return "alert"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// ParseSeverity is the inverse of Severity.String, case-insensitive.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return SeverityInfo, nil
	case "warning":
		return SeverityWarning, nil
	case "alert":
		return SeverityAlert, nil
	}
	return SeverityInfo, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Signal is a single detected event as of the latest bar of a series.
type Signal struct {
	Date        time.Time  `json:"date"`
	Commodity   string     `json:"commodity"`
	Type        SignalType `json:"signal_type"`
	Severity    Severity   `json:"severity"`
	Description string     `json:"description"`
	// Value is the measured quantity behind the signal (volume ratio, RSI,
	// band width, MACD line); zero for crossovers of moving averages.
	Value float64 `json:"value"`
}

// SortBySeverity orders signals alert first, keeping detection order
// within a severity. The slice is sorted in place.
func SortBySeverity(signals []Signal) {
	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].Severity > signals[j].Severity
	})
}
