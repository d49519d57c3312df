package notifier

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/analytics"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/report"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/spread"
)

func ptr(v float64) *float64 { return &v }

func digestReport() *report.Report {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	share := 44.2
	return &report.Report{
		RunID:       "run",
		GeneratedAt: day.Add(18 * time.Hour),
		Commodities: []report.CommoditySummary{
			{
				Commodity: "Soybeans", Date: day, Close: 1180.25,
				DailyChange: ptr(1.26), RSI: ptr(74.4), MAContext: "Above 200-day MA",
				MACDHistogram: ptr(2.1), Volatility20: ptr(18.3), Position52w: ptr(0.8),
				Seasonal: &analytics.SeasonalComparison{Month: time.May, Current: 1180.25, SeasonalMean: 1100, DeviationPct: 7.3},
			},
			{Commodity: "Corn", Date: day, Close: 450, Stale: true},
		},
		Signals: []model.Signal{
			{Commodity: "Corn", Type: model.SignalVolumeSpike, Severity: model.SeverityInfo, Description: "Corn volume spike (2.4x normal)"},
			{Commodity: "Soybeans", Type: model.SignalGoldenCross50x200, Severity: model.SeverityAlert, Description: "Soybeans MAJOR golden cross"},
		},
		Crush:           &spread.CrushSummary{Date: day, Cents: 152, Dollars: 1.52, Profitable: true, Trend: spread.TrendWidening},
		ByproductAShare: &share,
		Ratios: []report.RatioResult{
			{Name: "Oil/Meal", RatioSummary: spread.RatioSummary{Current: 0.131, Average: 0.12, Window: 60}},
		},
		Correlation: analytics.Matrix{
			Names:  []string{"Soybeans", "Corn"},
			Values: [][]float64{{1, 0.82}, {0.82, 1}},
		},
		Skipped: []report.Skipped{{Commodity: "Wheat & Co", Reason: "no data"}},
	}
}

func TestFormatDigest(t *testing.T) {
	msg := FormatDigest(digestReport())

	assert.True(t, strings.HasPrefix(msg, "📊 <b>Mirror Market</b> | 2024-05-10"))
	assert.Contains(t, msg, "<b>Soybeans</b>: 1180.25 (+1.3%) · Above 200-day MA · RSI 74 (overbought) · MACD positive · Vol 18% · 52w 80%")
	assert.Contains(t, msg, "<b>Corn</b>: 450.00 · insufficient data for RSI ⚠️ stale")
	assert.Contains(t, msg, "Wheat &amp; Co: no data")
	assert.Contains(t, msg, "<b>Crush spread</b>: $1.52/bu (widening, processors profitable)")
	assert.Contains(t, msg, "Oil share of product value: 44.2%")
	assert.Contains(t, msg, "Oil/Meal: 0.131 (avg 0.120 over 60)")
	assert.Contains(t, msg, "Soybeans vs Corn: 0.82 (strong positive)")
	assert.Contains(t, msg, "Soybeans: Above seasonal (+7.3%)")

	alert := strings.Index(msg, "[ALERT]")
	info := strings.Index(msg, "[INFO]")
	assert.Greater(t, alert, 0)
	assert.Greater(t, info, alert, "alerts listed before info")
}

func TestFormatDigest_Sparse(t *testing.T) {
	rep := &report.Report{
		GeneratedAt: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Correlation: analytics.Matrix{},
	}
	msg := FormatDigest(rep)
	assert.Contains(t, msg, "<b>Crush spread</b>: insufficient data")
	assert.Contains(t, msg, "Insufficient history for seasonal comparison")
	assert.Contains(t, msg, "No active signals")
	assert.NotContains(t, msg, "<b>Correlations</b>")
}

func TestFormatCrush_NoTrend(t *testing.T) {
	rep := &report.Report{Crush: &spread.CrushSummary{Cents: -20, Dollars: -0.2}}
	assert.Equal(t, "<b>Crush spread</b>: $-0.20/bu\n", FormatCrush(rep))
}

func TestFormatCorrelations_SkipsWeakAndUndefined(t *testing.T) {
	rep := &report.Report{Correlation: analytics.Matrix{
		Names: []string{"A", "B", "C"},
		Values: [][]float64{
			{1, 0.3, math.NaN()},
			{0.3, 1, -0.6},
			{math.NaN(), -0.6, 1},
		},
	}}
	assert.Equal(t, "  B vs C: -0.60 (moderate negative)\n", formatCorrelations(rep))
}

func TestFormatHistory(t *testing.T) {
	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "No signals recorded since 2024-05-01", FormatHistory(nil, since))

	msg := FormatHistory([]model.Signal{
		{Date: since.AddDate(0, 0, 2), Severity: model.SeverityWarning, Description: "b"},
		{Date: since.AddDate(0, 0, 2), Severity: model.SeverityInfo, Description: "c"},
		{Date: since, Severity: model.SeverityAlert, Description: "a"},
	}, since)
	assert.Equal(t, "<b>Signals since 2024-05-01</b>\n2024-05-03\n  ⚠️ b\n  ℹ️ c\n2024-05-01\n  🚨 a", msg)
}

func TestFormatCrushHistory(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	recs := []model.CrushSpreadRecord{
		{Date: day, Spread: 100},
		{Date: day.AddDate(0, 0, 1), Spread: 110},
		{Date: day.AddDate(0, 0, 2), Spread: 125},
	}
	assert.Equal(t, "<b>Crush spread history</b>\n  2024-05-03: $1.25/bu\n  2024-05-02: $1.10/bu", FormatCrushHistory(recs, 2))
	assert.Equal(t, "No crush spread history", FormatCrushHistory(nil, 5))
}
