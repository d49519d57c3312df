// Package analytics holds the cross-series statistics: Pearson correlation
// over date-aligned closes and calendar-month seasonality.
package analytics

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
)

// MinCorrelationSamples is the fewest aligned points a correlation is
// reported for.
const MinCorrelationSamples = 30

// DefaultRollingWindow is the rolling correlation window in trading days.
const DefaultRollingWindow = 60

type alignedPair struct {
	date time.Time
	a, b float64
}

// align inner-joins two series on calendar date, drops undefined closes
// and returns the pairs oldest first.
func align(a, b []model.PriceBar) []alignedPair {
	bByDay := make(map[string]float64, len(b))
	for _, bar := range b {
		if !math.IsNaN(bar.Close) {
			bByDay[model.DayKey(bar.Time)] = bar.Close
		}
	}
	seen := make(map[string]bool, len(a))
	var out []alignedPair
	for _, bar := range a {
		key := model.DayKey(bar.Time)
		v, ok := bByDay[key]
		if !ok || seen[key] || math.IsNaN(bar.Close) {
			continue
		}
		seen[key] = true
		out = append(out, alignedPair{date: bar.Time, a: bar.Close, b: v})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].date.Before(out[j].date) })
	return out
}

// Pearson returns the correlation coefficient of x and y, which must have
// equal length. ok is false for fewer than two points or zero variance.
func Pearson(x, y []float64) (float64, bool) {
	n := len(x)
	if n != len(y) || n < 2 {
		return math.NaN(), false
	}
	var mx, my float64
	for i := 0; i < n; i++ {
		mx += x[i]
		my += y[i]
	}
	mx /= float64(n)
	my /= float64(n)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN(), false
	}
	r := sxy / math.Sqrt(sxx*syy)
	return math.Max(-1, math.Min(1, r)), true
}

func pearsonPairs(pairs []alignedPair) (float64, bool) {
	x := make([]float64, len(pairs))
	y := make([]float64, len(pairs))
	for i, p := range pairs {
		x[i], y[i] = p.a, p.b
	}
	return Pearson(x, y)
}

// Correlation returns the Pearson correlation of the two series' closes on
// shared dates. ok is false below MinCorrelationSamples aligned points.
func Correlation(a, b []model.PriceBar) (float64, bool) {
	pairs := align(a, b)
	if len(pairs) < MinCorrelationSamples {
		return math.NaN(), false
	}
	return pearsonPairs(pairs)
}

// Matrix is a symmetric correlation matrix. Values holds NaN for pairs
// without enough overlap.
type Matrix struct {
	Names  []string    `json:"names"`
	Values [][]float64 `json:"values"`
}

type matrixJSON struct {
	Names  []string     `json:"names"`
	Values [][]*float64 `json:"values"`
}

// MarshalJSON writes undefined cells as null.
func (m Matrix) MarshalJSON() ([]byte, error) {
	out := matrixJSON{Names: m.Names, Values: make([][]*float64, len(m.Values))}
	for i, row := range m.Values {
		out.Values[i] = make([]*float64, len(row))
		for j, v := range row {
			v := v
			if !math.IsNaN(v) {
				out.Values[i][j] = &v
			}
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads null cells back as NaN.
func (m *Matrix) UnmarshalJSON(data []byte) error {
	var in matrixJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.Names = in.Names
	m.Values = make([][]float64, len(in.Values))
	for i, row := range in.Values {
		m.Values[i] = make([]float64, len(row))
		for j, v := range row {
			m.Values[i][j] = math.NaN()
			if v != nil {
				m.Values[i][j] = *v
			}
		}
	}
	return nil
}

// Len returns the number of series.
func (m Matrix) Len() int { return len(m.Names) }

// At returns the correlation of series i and j.
func (m Matrix) At(i, j int) (float64, bool) {
	if i < 0 || j < 0 || i >= len(m.Values) || j >= len(m.Values[i]) {
		return math.NaN(), false
	}
	v := m.Values[i][j]
	return v, !math.IsNaN(v)
}

// CorrelationMatrix correlates every pair of non-empty series. The diagonal
// is 1. Fewer than two non-empty series give an empty matrix.
func CorrelationMatrix(series []model.PriceSeries) Matrix {
	var kept []model.PriceSeries
	for _, s := range series {
		if len(s.Bars) > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) < 2 {
		return Matrix{}
	}
	m := Matrix{Names: make([]string, len(kept)), Values: make([][]float64, len(kept))}
	for i, s := range kept {
		m.Names[i] = s.Commodity
		m.Values[i] = make([]float64, len(kept))
	}
	for i := range kept {
		m.Values[i][i] = 1.0
		for j := i + 1; j < len(kept); j++ {
			r, _ := Correlation(kept[i].Bars, kept[j].Bars)
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

// RollingCorrelation correlates the aligned closes over each trailing
// window. The first window-1 points are undefined. Fewer than window
// aligned rows, or a non-positive window, give an empty result.
func RollingCorrelation(a, b []model.PriceBar, window int) []model.Point {
	if window <= 0 {
		return nil
	}
	pairs := align(a, b)
	if len(pairs) < window {
		return nil
	}
	out := make([]model.Point, len(pairs))
	for i, p := range pairs {
		out[i] = model.Point{Date: p.date, Value: math.NaN()}
		if i < window-1 {
			continue
		}
		if r, ok := pearsonPairs(pairs[i-window+1 : i+1]); ok {
			out[i].Value = r
		}
	}
	return out
}
