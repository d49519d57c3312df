package analytics

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
)

var base = time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)

func series(n, offset int, f func(i int) float64) []model.PriceBar {
	bars := make([]model.PriceBar, n)
	for i := range bars {
		bars[i] = model.PriceBar{Time: base.AddDate(0, 0, i+offset), Close: f(i + offset)}
	}
	return bars
}

func wave(i int) float64  { return 100 + 10*math.Sin(float64(i)/4) }
func noisy(i int) float64 { return 50 + 3*math.Cos(float64(i)/3) + float64(i%5) }

func TestCorrelation_PerfectLinear(t *testing.T) {
	a := series(40, 0, func(i int) float64 { return float64(i) })
	up := series(40, 0, func(i int) float64 { return 2*float64(i) + 3 })
	down := series(40, 0, func(i int) float64 { return -float64(i) })

	r, ok := Correlation(a, up)
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-12)

	r, ok = Correlation(a, down)
	require.True(t, ok)
	assert.InDelta(t, -1.0, r, 1e-12)
}

func TestCorrelation_SymmetricAndBounded(t *testing.T) {
	a := series(120, 0, wave)
	b := series(100, 15, noisy)

	ab, ok := Correlation(a, b)
	require.True(t, ok)
	ba, ok := Correlation(b, a)
	require.True(t, ok)
	assert.Equal(t, ab, ba)
	assert.GreaterOrEqual(t, ab, -1.0)
	assert.LessOrEqual(t, ab, 1.0)
}

func TestCorrelation_InsufficientSamples(t *testing.T) {
	a := series(50, 0, wave)
	b := series(50, 21, noisy) // 29 shared dates

	r, ok := Correlation(a, b)
	assert.False(t, ok)
	assert.True(t, math.IsNaN(r))

	_, ok = Correlation(series(50, 0, wave), series(50, 20, noisy))
	assert.True(t, ok, "30 shared dates is enough")

	_, ok = Correlation(nil, b)
	assert.False(t, ok)
}

func TestCorrelation_ZeroVariance(t *testing.T) {
	flat := series(40, 0, func(int) float64 { return 7 })
	_, ok := Correlation(flat, series(40, 0, wave))
	assert.False(t, ok)
}

func TestCorrelationMatrix(t *testing.T) {
	in := []model.PriceSeries{
		{Commodity: "Soybeans", Bars: series(60, 0, wave)},
		{Commodity: "Soybean Oil", Bars: series(60, 0, noisy)},
		{Commodity: "Palm Oil", Bars: series(60, 50, wave)},
		{Commodity: "Empty"},
	}
	m := CorrelationMatrix(in)
	require.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"Soybeans", "Soybean Oil", "Palm Oil"}, m.Names)

	for i := 0; i < m.Len(); i++ {
		v, ok := m.At(i, i)
		require.True(t, ok)
		assert.Equal(t, 1.0, v)
		for j := 0; j < m.Len(); j++ {
			a, _ := m.At(i, j)
			b, _ := m.At(j, i)
			if math.IsNaN(a) {
				assert.True(t, math.IsNaN(b))
				continue
			}
			assert.Equal(t, a, b)
		}
	}

	_, ok := m.At(0, 1)
	assert.True(t, ok)
	_, ok = m.At(0, 2)
	assert.False(t, ok, "10 shared dates")
	_, ok = m.At(5, 0)
	assert.False(t, ok)
}

func TestCorrelationMatrix_TooFewSeries(t *testing.T) {
	m := CorrelationMatrix([]model.PriceSeries{{Commodity: "Soybeans", Bars: series(60, 0, wave)}})
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Values)
	assert.Equal(t, 0, CorrelationMatrix(nil).Len())
}

func TestRollingCorrelation(t *testing.T) {
	a := series(70, 0, wave)
	b := series(70, 0, noisy)

	got := RollingCorrelation(a, b, DefaultRollingWindow)
	require.Len(t, got, 70)
	for i := 0; i < DefaultRollingWindow-1; i++ {
		assert.False(t, got[i].Valid(), "index %d", i)
	}
	for i := DefaultRollingWindow - 1; i < 70; i++ {
		require.True(t, got[i].Valid(), "index %d", i)
		assert.GreaterOrEqual(t, got[i].Value, -1.0)
		assert.LessOrEqual(t, got[i].Value, 1.0)
	}

	want, _ := Pearson(closes(a[10:70]), closes(b[10:70]))
	assert.InDelta(t, want, got[69].Value, 1e-12)
	assert.Equal(t, a[69].Time, got[69].Date)
}

func TestRollingCorrelation_ShortInput(t *testing.T) {
	assert.Empty(t, RollingCorrelation(series(59, 0, wave), series(59, 0, noisy), 60))
	assert.Empty(t, RollingCorrelation(series(70, 0, wave), series(70, 20, noisy), 60))
	assert.Empty(t, RollingCorrelation(series(70, 0, wave), series(70, 0, noisy), 0))
}

func closes(bars []model.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

func TestMatrix_JSONUndefinedCellsAreNull(t *testing.T) {
	m := Matrix{
		Names:  []string{"A", "B"},
		Values: [][]float64{{1, math.NaN()}, {math.NaN(), 1}},
	}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"names":["A","B"],"values":[[1,null],[null,1]]}`, string(data))

	var back Matrix
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m.Names, back.Names)
	_, ok := back.At(0, 1)
	assert.False(t, ok)
	v, ok := back.At(1, 1)
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
}
