package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
)

func at(y int, m time.Month, d int, close float64) model.PriceBar {
	return model.PriceBar{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Close: close}
}

func TestMonthlySeasonal(t *testing.T) {
	bars := []model.PriceBar{
		at(2023, time.January, 5, 10),
		at(2023, time.January, 6, 20),
		at(2023, time.March, 1, 50),
		at(2024, time.January, 8, 30),
	}
	got := MonthlySeasonal(bars)
	require.Len(t, got, 2)

	assert.Equal(t, MonthStat{Month: time.January, Mean: 20, Min: 10, Max: 30, Count: 3}, got[0])
	assert.Equal(t, MonthStat{Month: time.March, Mean: 50, Min: 50, Max: 50, Count: 1}, got[1])

	assert.Empty(t, MonthlySeasonal(nil))
}

func TestCurrentVsSeasonal(t *testing.T) {
	bars := []model.PriceBar{
		at(2023, time.January, 5, 10),
		at(2023, time.January, 6, 20),
		at(2023, time.June, 1, 99),
		at(2024, time.January, 8, 30),
		at(2025, time.January, 9, 24),
	}
	c, ok := CurrentVsSeasonal(bars)
	require.True(t, ok)
	assert.Equal(t, time.January, c.Month)
	assert.Equal(t, 24.0, c.Current)
	assert.Equal(t, 21.0, c.SeasonalMean)
	assert.InDelta(t, 14.2857143, c.DeviationPct, 1e-6)
	assert.True(t, c.Above())
	assert.Equal(t, "Above seasonal (+14.3%)", c.Assessment())

	bars[4].Close = 12
	c, ok = CurrentVsSeasonal(bars)
	require.True(t, ok)
	assert.False(t, c.Above())
	assert.Equal(t, "Below seasonal (-33.3%)", c.Assessment())

	_, ok = CurrentVsSeasonal(nil)
	assert.False(t, ok)
}
