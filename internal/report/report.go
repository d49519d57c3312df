// Package report combines per-commodity indicators, signals and the
// cross-series analytics into one scan result.
package report

import (
	"time"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/analytics"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/spread"
)

// CommoditySummary is the latest state of one commodity. Pointer fields are
// nil when history is too short for the metric.
type CommoditySummary struct {
	Commodity     string                        `json:"commodity"`
	Date          time.Time                     `json:"date"`
	Close         float64                       `json:"close"`
	DailyChange   *float64                      `json:"daily_pct_change,omitempty"`
	WeeklyChange  *float64                      `json:"weekly_pct_change,omitempty"`
	MonthlyChange *float64                      `json:"monthly_pct_change,omitempty"`
	RSI           *float64                      `json:"rsi,omitempty"`
	High52w       float64                       `json:"high_52w"`
	Low52w        float64                       `json:"low_52w"`
	Position52w   *float64                      `json:"position_52w,omitempty"`
	Seasonal      *analytics.SeasonalComparison `json:"seasonal,omitempty"`
	// MAContext places the close against the longest defined of MA_200
	// and MA_50, e.g. "Above 200-day MA".
	MAContext     string   `json:"ma_context,omitempty"`
	MACDHistogram *float64 `json:"macd_histogram,omitempty"`
	Volatility20  *float64 `json:"hv_20,omitempty"`
	// Stale is set when the close has not moved for the configured number
	// of bars, which usually means the source repeated old data.
	Stale bool `json:"stale"`
	Bars  int  `json:"bars"`
}

// RatioResult is a configured inter-leg ratio.
type RatioResult struct {
	Name string `json:"name"`
	spread.RatioSummary
}

// Skipped records a commodity that could not be loaded.
type Skipped struct {
	Commodity string `json:"commodity"`
	Reason    string `json:"reason"`
}

// Report is the result of one scan.
type Report struct {
	RunID           string                    `json:"run_id"`
	GeneratedAt     time.Time                 `json:"generated_at"`
	Commodities     []CommoditySummary        `json:"commodities"`
	Signals         []model.Signal            `json:"signals"`
	Crush           *spread.CrushSummary      `json:"crush,omitempty"`
	CrushSeries     []model.CrushSpreadRecord `json:"-"`
	ByproductAShare *float64                  `json:"byproduct_a_share,omitempty"`
	Ratios          []RatioResult             `json:"ratios,omitempty"`
	Correlation     analytics.Matrix          `json:"correlation"`
	Skipped         []Skipped                 `json:"skipped,omitempty"`
}

// SignalsFor returns the report's signals for one commodity.
func (r *Report) SignalsFor(commodity string) []model.Signal {
	var out []model.Signal
	for _, s := range r.Signals {
		if s.Commodity == commodity {
			out = append(out, s)
		}
	}
	return out
}

// CountBySeverity tallies signals per severity.
func (r *Report) CountBySeverity() map[model.Severity]int {
	out := make(map[model.Severity]int, 3)
	for _, s := range r.Signals {
		out[s.Severity]++
	}
	return out
}

// FlatCloseRun reports whether the last days closes are all identical.
func FlatCloseRun(bars []model.PriceBar, days int) bool {
	if days < 2 || len(bars) < days {
		return false
	}
	last := bars[len(bars)-1].Close
	for _, b := range bars[len(bars)-days:] {
		if b.Close != last {
			return false
		}
	}
	return true
}

func optional(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}
