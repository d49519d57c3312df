package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
)

// MonthStat aggregates every close that fell in one calendar month,
// regardless of year.
type MonthStat struct {
	Month time.Month `json:"month"`
	Mean  float64    `json:"avg_close"`
	Min   float64    `json:"min_close"`
	Max   float64    `json:"max_close"`
	Count int        `json:"count"`
}

// MonthlySeasonal returns one MonthStat per calendar month present in bars,
// January first.
func MonthlySeasonal(bars []model.PriceBar) []MonthStat {
	var acc [13]struct {
		sum, min, max float64
		n             int
	}
	for _, b := range bars {
		if math.IsNaN(b.Close) {
			continue
		}
		a := &acc[b.Time.Month()]
		if a.n == 0 {
			a.min, a.max = b.Close, b.Close
		}
		a.sum += b.Close
		a.min = math.Min(a.min, b.Close)
		a.max = math.Max(a.max, b.Close)
		a.n++
	}
	var out []MonthStat
	for m := time.January; m <= time.December; m++ {
		a := acc[m]
		if a.n == 0 {
			continue
		}
		out = append(out, MonthStat{Month: m, Mean: a.sum / float64(a.n), Min: a.min, Max: a.max, Count: a.n})
	}
	return out
}

// SeasonalComparison sets the latest close against its month's history.
type SeasonalComparison struct {
	Month        time.Month `json:"month"`
	Current      float64    `json:"current_price"`
	SeasonalMean float64    `json:"seasonal_avg"`
	DeviationPct float64    `json:"deviation_pct"`
}

// Above reports whether the current close is above the seasonal mean.
func (c SeasonalComparison) Above() bool { return c.DeviationPct > 0 }

// Assessment renders the deviation, e.g. "Above seasonal (+5.2%)".
func (c SeasonalComparison) Assessment() string {
	if c.Above() {
		return fmt.Sprintf("Above seasonal (+%.1f%%)", c.DeviationPct)
	}
	return fmt.Sprintf("Below seasonal (%.1f%%)", c.DeviationPct)
}

// CurrentVsSeasonal compares the latest bar's close with the mean close of
// its calendar month over all bars. ok is false for an empty series or a
// zero seasonal mean.
func CurrentVsSeasonal(bars []model.PriceBar) (SeasonalComparison, bool) {
	if len(bars) == 0 {
		return SeasonalComparison{}, false
	}
	latest := bars[len(bars)-1]
	if math.IsNaN(latest.Close) {
		return SeasonalComparison{}, false
	}
	month := latest.Time.Month()
	for _, s := range MonthlySeasonal(bars) {
		if s.Month != month {
			continue
		}
		if s.Mean == 0 {
			return SeasonalComparison{}, false
		}
		return SeasonalComparison{
			Month:        month,
			Current:      latest.Close,
			SeasonalMean: s.Mean,
			DeviationPct: (latest.Close - s.Mean) / s.Mean * 100,
		}, true
	}
	return SeasonalComparison{}, false
}
