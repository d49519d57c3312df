package report

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/analytics"
)

func TestReport_MarshalsWithUndefinedCorrelation(t *testing.T) {
	rep := &Report{
		RunID:       "run",
		GeneratedAt: time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC),
		Commodities: []CommoditySummary{{Commodity: "Soybeans", Close: 1180}},
		Correlation: analytics.Matrix{
			Names:  []string{"Soybeans", "Wheat"},
			Values: [][]float64{{1, math.NaN()}, {math.NaN(), 1}},
		},
	}
	data, err := json.Marshal(rep)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	corr := decoded["correlation"].(map[string]any)
	assert.Equal(t, []any{[]any{1.0, nil}, []any{nil, 1.0}}, corr["values"])
	assert.NotContains(t, decoded, "CrushSeries")
}
