// Package spread derives cross-series economics from aligned closes: the
// board crush margin and inter-leg price ratios.
package spread

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
)

// Board crush yields per bushel of feedstock. Byproduct A is quoted in cents
// per lb (11 lb per bushel); byproduct B in dollars per short ton (0.022 ton
// per bushel, times 100 for cents).
var (
	ByproductAYield = decimal.NewFromInt(11)
	ByproductBYield = decimal.NewFromFloat(2.2)
)

// ComputeCrushSpread joins the three legs on calendar date and returns one
// record per date where all three have a close, oldest first:
//
//	spread = A*11 + B*2.2 - feedstock
//
// Dates missing from any leg are dropped, never filled.
func ComputeCrushSpread(feedstock, byproductA, byproductB []model.PriceBar) []model.CrushSpreadRecord {
	aByDay := closesByDay(byproductA)
	bByDay := closesByDay(byproductB)

	var out []model.CrushSpreadRecord
	seen := make(map[string]bool, len(feedstock))
	for _, f := range feedstock {
		key := model.DayKey(f.Time)
		if seen[key] || math.IsNaN(f.Close) {
			continue
		}
		a, okA := aByDay[key]
		b, okB := bByDay[key]
		if !okA || !okB {
			continue
		}
		seen[key] = true
		out = append(out, model.CrushSpreadRecord{
			Date:            f.Time,
			FeedstockClose:  f.Close,
			ByproductAClose: a,
			ByproductBClose: b,
			Spread:          crushValue(f.Close, a, b),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func crushValue(feedstock, a, b float64) float64 {
	product := decimal.NewFromFloat(a).Mul(ByproductAYield).
		Add(decimal.NewFromFloat(b).Mul(ByproductBYield))
	return product.Sub(decimal.NewFromFloat(feedstock)).InexactFloat64()
}

// closesByDay maps calendar day to close; the last bar of a day wins.
func closesByDay(bars []model.PriceBar) map[string]float64 {
	m := make(map[string]float64, len(bars))
	for _, b := range bars {
		if math.IsNaN(b.Close) {
			continue
		}
		m[model.DayKey(b.Time)] = b.Close
	}
	return m
}

// Trend compares the latest spread with an earlier one.
type Trend string

const (
	TrendWidening  Trend = "widening"
	TrendNarrowing Trend = "narrowing"
	TrendFlat      Trend = "flat"
)

// TrendLag is how many records back the trend compares against.
const TrendLag = 5

// CrushSummary is the latest crush margin and its direction.
type CrushSummary struct {
	Date       time.Time `json:"date"`
	Cents      float64   `json:"cents"`
	Dollars    float64   `json:"dollars"`
	Profitable bool      `json:"profitable"`
	// Trend is empty when fewer than TrendLag+1 records exist.
	Trend Trend `json:"trend,omitempty"`
}

// CentsToDollars converts a cents-per-bushel quote to dollars.
func CentsToDollars(cents float64) float64 {
	return decimal.NewFromFloat(cents).Div(decimal.NewFromInt(100)).InexactFloat64()
}

// Summarize returns the latest record's margin. ok is false for no records.
func Summarize(records []model.CrushSpreadRecord) (summary CrushSummary, ok bool) {
	if len(records) == 0 {
		return CrushSummary{}, false
	}
	latest := records[len(records)-1]
	summary = CrushSummary{
		Date:       latest.Date,
		Cents:      latest.Spread,
		Dollars:    CentsToDollars(latest.Spread),
		Profitable: latest.Spread > 0,
	}
	if len(records) > TrendLag {
		prev := records[len(records)-1-TrendLag].Spread
		switch {
		case latest.Spread > prev:
			summary.Trend = TrendWidening
		case latest.Spread < prev:
			summary.Trend = TrendNarrowing
		default:
			summary.Trend = TrendFlat
		}
	}
	return summary, true
}
