package spread

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
)

// Ratio joins a and b on calendar date and returns a.Close / b.Close per
// shared date in a's order. Dates where b closes at zero are skipped.
func Ratio(a, b []model.PriceBar) []model.Point {
	bByDay := closesByDay(b)
	var out []model.Point
	for _, bar := range a {
		den, ok := bByDay[model.DayKey(bar.Time)]
		if !ok || den == 0 || math.IsNaN(bar.Close) {
			continue
		}
		out = append(out, model.Point{Date: bar.Time, Value: bar.Close / den})
	}
	return out
}

// RatioSummary is the latest ratio against its trailing average.
type RatioSummary struct {
	Current float64 `json:"current"`
	Average float64 `json:"average"`
	// Window is the number of points averaged.
	Window int `json:"window"`
}

// SummarizeRatio averages the last window points, or all points when there
// are fewer or window <= 0. ok is false for an empty series.
func SummarizeRatio(points []model.Point, window int) (RatioSummary, bool) {
	if len(points) == 0 {
		return RatioSummary{}, false
	}
	tail := points
	if window > 0 && len(points) > window {
		tail = points[len(points)-window:]
	}
	var sum float64
	for _, p := range tail {
		sum += p.Value
	}
	return RatioSummary{
		Current: points[len(points)-1].Value,
		Average: sum / float64(len(tail)),
		Window:  len(tail),
	}, true
}

// ByproductAShare returns the percent of crush product value contributed
// by byproduct A at the given closes. ok is false when the product value is
// not positive.
func ByproductAShare(byproductA, byproductB float64) (float64, bool) {
	aVal := decimal.NewFromFloat(byproductA).Mul(ByproductAYield)
	total := aVal.Add(decimal.NewFromFloat(byproductB).Mul(ByproductBYield))
	if !total.IsPositive() {
		return 0, false
	}
	return aVal.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64(), true
}
