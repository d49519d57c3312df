package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityOrder(t *testing.T) {
	assert.Less(t, SeverityInfo, SeverityWarning)
	assert.Less(t, SeverityWarning, SeverityAlert)
	assert.Equal(t, SeverityInfo, Severity(0))
}

func TestParseSeverity(t *testing.T) {
	for _, s := range []Severity{SeverityInfo, SeverityWarning, SeverityAlert} {
		got, err := ParseSeverity(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	got, err := ParseSeverity(" ALERT ")
	require.NoError(t, err)
	assert.Equal(t, SeverityAlert, got)

	_, err = ParseSeverity("critical")
	assert.Error(t, err)
}

func TestSeverityText(t *testing.T) {
	b, err := SeverityWarning.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warning", string(b))

	var s Severity
	require.NoError(t, s.UnmarshalText([]byte("alert")))
	assert.Equal(t, SeverityAlert, s)
	assert.Error(t, s.UnmarshalText([]byte("nope")))
}

func TestSortBySeverity_StableWithinLevel(t *testing.T) {
	signals := []Signal{
		{Type: SignalVolumeSpike, Severity: SeverityInfo},
		{Type: SignalGoldenCross20x50, Severity: SeverityWarning},
		{Type: SignalMACDBullish, Severity: SeverityInfo},
		{Type: SignalGoldenCross50x200, Severity: SeverityAlert},
		{Type: SignalRSIOverbought, Severity: SeverityWarning},
	}
	SortBySeverity(signals)

	var got []SignalType
	for _, s := range signals {
		got = append(got, s.Type)
	}
	assert.Equal(t, []SignalType{
		SignalGoldenCross50x200,
		SignalGoldenCross20x50,
		SignalRSIOverbought,
		SignalVolumeSpike,
		SignalMACDBullish,
	}, got)
}
