package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/logging"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/report"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/spread"
)

func date(d int) time.Time { return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC) }

func sampleReport(runID string, day int, crush float64) *report.Report {
	rsi := 72.5
	return &report.Report{
		RunID:       runID,
		GeneratedAt: date(day).Add(18 * time.Hour),
		Commodities: []report.CommoditySummary{
			{Commodity: "Soybeans", Date: date(day), Close: 1180, RSI: &rsi},
			{Commodity: "Corn", Date: date(day), Close: 450},
		},
		Signals: []model.Signal{
			{Date: date(day), Commodity: "Soybeans", Type: model.SignalRSIOverbought, Severity: model.SeverityWarning,
				Description: "Soybeans RSI overbought (73)", Value: rsi},
			{Date: date(day), Commodity: "Corn", Type: model.SignalVolumeSpike, Severity: model.SeverityInfo,
				Description: "Corn volume spike (2.4x normal)", Value: 2.4},
		},
		Crush: &spread.CrushSummary{Date: date(day), Cents: crush},
		CrushSeries: []model.CrushSpreadRecord{
			{Date: date(day - 1), FeedstockClose: 1000, ByproductAClose: 40, ByproductBClose: 300, Spread: 100},
			{Date: date(day), FeedstockClose: 1000, ByproductAClose: 40, ByproductBClose: 300, Spread: crush},
		},
	}
}

func TestSQLiteRecorder(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "mirror.db"), logging.Discard())
	require.NoError(t, err)
	defer rec.Close()

	require.NoError(t, rec.RecordReport(sampleReport("run-1", 10, 120)))
	// A second scan on the same day must not duplicate signals.
	require.NoError(t, rec.RecordReport(sampleReport("run-2", 10, 125)))
	require.NoError(t, rec.RecordReport(sampleReport("run-3", 11, 130)))

	got, err := rec.RecentSignals(date(10))
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, date(11), got[0].Date)
	assert.Equal(t, model.SignalRSIOverbought, got[0].Type)
	assert.Equal(t, model.SeverityWarning, got[0].Severity)
	assert.Equal(t, 72.5, got[0].Value)

	got, err = rec.RecentSignals(date(11))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	var runs int
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM scan_runs`).Scan(&runs))
	assert.Equal(t, 3, runs)

	var spreads int
	var latest float64
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM crush_spreads`).Scan(&spreads))
	require.NoError(t, rec.db.QueryRow(`SELECT crush_spread FROM crush_spreads WHERE date = ?`, "2024-05-10").Scan(&latest))
	assert.Equal(t, 3, spreads)
	assert.Equal(t, 100.0, latest, "day 10 overwritten by run-3's prior-day record")

	var rsi *float64
	require.NoError(t, rec.db.QueryRow(`SELECT rsi FROM commodity_snapshots WHERE run_id = ? AND commodity = ?`,
		"run-1", "Corn").Scan(&rsi))
	assert.Nil(t, rsi)
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NewNoopRecorder()
	assert.NoError(t, rec.RecordReport(sampleReport("x", 1, 0)))
	got, err := rec.RecentSignals(date(1))
	assert.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, rec.Close())
}
