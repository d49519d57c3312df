package spread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
)

func day(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

func bar(d int, close float64) model.PriceBar {
	return model.PriceBar{Time: day(d), Close: close}
}

func TestComputeCrushSpread_Formula(t *testing.T) {
	got := ComputeCrushSpread(
		[]model.PriceBar{bar(3, 1000)},
		[]model.PriceBar{bar(3, 40)},
		[]model.PriceBar{bar(3, 300)},
	)
	require.Len(t, got, 1)
	assert.Equal(t, 100.0, got[0].Spread)
	assert.Equal(t, 1000.0, got[0].FeedstockClose)
	assert.Equal(t, 40.0, got[0].ByproductAClose)
	assert.Equal(t, 300.0, got[0].ByproductBClose)
}

func TestComputeCrushSpread_InnerJoin(t *testing.T) {
	feed := []model.PriceBar{bar(3, 1000), bar(4, 1010), bar(5, 1020), bar(6, 1030)}
	a := []model.PriceBar{bar(3, 40), bar(5, 41), bar(6, 42)}
	// Same day as feedstock bar 6 but a later timestamp.
	b := []model.PriceBar{bar(3, 300), bar(4, 301), {Time: day(6).Add(14 * time.Hour), Close: 310}}

	got := ComputeCrushSpread(feed, a, b)
	require.Len(t, got, 2)
	assert.Equal(t, day(3), got[0].Date)
	assert.Equal(t, day(6), got[1].Date)
	assert.InDelta(t, 42*11+310*2.2-1030, got[1].Spread, 1e-9)
}

func TestComputeCrushSpread_NoOverlap(t *testing.T) {
	got := ComputeCrushSpread(
		[]model.PriceBar{bar(3, 1000)},
		[]model.PriceBar{bar(4, 40)},
		[]model.PriceBar{bar(3, 300)},
	)
	assert.Empty(t, got)
	assert.Empty(t, ComputeCrushSpread(nil, nil, nil))
}

func TestSummarize(t *testing.T) {
	_, ok := Summarize(nil)
	assert.False(t, ok)

	records := []model.CrushSpreadRecord{{Date: day(1), Spread: 150}}
	s, ok := Summarize(records)
	require.True(t, ok)
	assert.Equal(t, 1.5, s.Dollars)
	assert.True(t, s.Profitable)
	assert.Empty(t, s.Trend)

	spreads := []float64{120, 110, 100, 90, 80, 70}
	records = records[:0]
	for i, v := range spreads {
		records = append(records, model.CrushSpreadRecord{Date: day(i + 1), Spread: v})
	}
	s, _ = Summarize(records)
	assert.Equal(t, TrendNarrowing, s.Trend)
	assert.Equal(t, day(6), s.Date)

	records[5].Spread = 130
	s, _ = Summarize(records)
	assert.Equal(t, TrendWidening, s.Trend)

	records[5].Spread = -20
	s, _ = Summarize(records)
	assert.False(t, s.Profitable)
	assert.Equal(t, -0.2, s.Dollars)
}

func TestRatio(t *testing.T) {
	a := []model.PriceBar{bar(1, 50), bar(2, 60), bar(3, 70)}
	b := []model.PriceBar{bar(1, 25), bar(2, 0), bar(4, 10)}
	got := Ratio(a, b)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Value)
	assert.Equal(t, day(1), got[0].Date)
}

func TestSummarizeRatio(t *testing.T) {
	_, ok := SummarizeRatio(nil, 60)
	assert.False(t, ok)

	points := []model.Point{{Value: 1}, {Value: 2}, {Value: 3}, {Value: 6}}
	s, ok := SummarizeRatio(points, 2)
	require.True(t, ok)
	assert.Equal(t, 6.0, s.Current)
	assert.Equal(t, 4.5, s.Average)
	assert.Equal(t, 2, s.Window)

	s, _ = SummarizeRatio(points, 60)
	assert.Equal(t, 3.0, s.Average)
	assert.Equal(t, 4, s.Window)
}

func TestByproductAShare(t *testing.T) {
	share, ok := ByproductAShare(40, 300)
	require.True(t, ok)
	assert.InDelta(t, 40.0, share, 1e-9)

	_, ok = ByproductAShare(0, 0)
	assert.False(t, ok)
}
