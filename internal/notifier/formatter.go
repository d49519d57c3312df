package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/report"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/spread"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/strategy"
)

// NotableCorrelation is the |r| above which a pair is listed in the digest.
const NotableCorrelation = 0.5

// FormatDigest formats a scan report into a Telegram HTML message.
func FormatDigest(rep *report.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Mirror Market</b> | %s\n\n", rep.GeneratedAt.Format(time.DateOnly)))

	b.WriteString("<b>Prices</b>\n")
	th := strategy.DefaultThresholds()
	for _, s := range rep.Commodities {
		b.WriteString(formatCommodity(s, th))
		b.WriteString("\n")
	}
	for _, s := range rep.Skipped {
		b.WriteString(fmt.Sprintf("  %s: no data (%s)\n", esc(s.Commodity), esc(s.Reason)))
	}

	b.WriteString("\n")
	b.WriteString(FormatCrush(rep))
	if len(rep.Ratios) > 0 {
		b.WriteString("\n<b>Ratios</b>\n")
		for _, r := range rep.Ratios {
			b.WriteString(fmt.Sprintf("  %s: %.3f (avg %.3f over %d)\n", esc(r.Name), r.Current, r.Average, r.Window))
		}
	}

	if corr := formatCorrelations(rep); corr != "" {
		b.WriteString("\n<b>Correlations</b>\n")
		b.WriteString(corr)
	}

	b.WriteString("\n<b>Seasonal</b>\n")
	seasonal := 0
	for _, s := range rep.Commodities {
		if s.Seasonal == nil {
			continue
		}
		seasonal++
		b.WriteString(fmt.Sprintf("  %s: %s\n", esc(s.Commodity), s.Seasonal.Assessment()))
	}
	if seasonal == 0 {
		b.WriteString("  Insufficient history for seasonal comparison\n")
	}

	b.WriteString("\n")
	b.WriteString(FormatSignals(rep.Signals))
	return strings.TrimRight(b.String(), "\n")
}

func formatCommodity(s report.CommoditySummary, th strategy.Thresholds) string {
	parts := []string{fmt.Sprintf("%.2f", s.Close)}
	if s.DailyChange != nil {
		parts[0] += fmt.Sprintf(" (%+.1f%%)", *s.DailyChange)
	}
	if s.MAContext != "" {
		parts = append(parts, s.MAContext)
	}
	if s.RSI != nil {
		switch {
		case *s.RSI > th.RSIOverbought:
			parts = append(parts, fmt.Sprintf("RSI %.0f (overbought)", *s.RSI))
		case *s.RSI < th.RSIOversold:
			parts = append(parts, fmt.Sprintf("RSI %.0f (oversold)", *s.RSI))
		}
	} else {
		parts = append(parts, "insufficient data for RSI")
	}
	if s.MACDHistogram != nil {
		if *s.MACDHistogram > 0 {
			parts = append(parts, "MACD positive")
		} else {
			parts = append(parts, "MACD negative")
		}
	}
	if s.Volatility20 != nil {
		parts = append(parts, fmt.Sprintf("Vol %.0f%%", *s.Volatility20))
	}
	if s.Position52w != nil {
		parts = append(parts, fmt.Sprintf("52w %.0f%%", *s.Position52w*100))
	}
	line := fmt.Sprintf("  <b>%s</b>: %s", esc(s.Commodity), strings.Join(parts, " · "))
	if s.Stale {
		line += " ⚠️ stale"
	}
	return line
}

// FormatCrush formats the crush spread line, including the byproduct share.
func FormatCrush(rep *report.Report) string {
	if rep.Crush == nil {
		return "<b>Crush spread</b>: insufficient data\n"
	}
	c := rep.Crush
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<b>Crush spread</b>: $%.2f/bu", c.Dollars))
	if c.Trend != "" {
		margin := "margin squeeze"
		if c.Profitable {
			margin = "processors profitable"
		}
		b.WriteString(fmt.Sprintf(" (%s, %s)", c.Trend, margin))
	}
	b.WriteString("\n")
	if rep.ByproductAShare != nil {
		b.WriteString(fmt.Sprintf("  Oil share of product value: %.1f%%\n", *rep.ByproductAShare))
	}
	return b.String()
}

// FormatCrushHistory lists the last n crush records, newest first.
func FormatCrushHistory(records []model.CrushSpreadRecord, n int) string {
	if len(records) == 0 {
		return "No crush spread history"
	}
	var b strings.Builder
	b.WriteString("<b>Crush spread history</b>\n")
	for i := len(records) - 1; i >= 0 && i >= len(records)-n; i-- {
		r := records[i]
		b.WriteString(fmt.Sprintf("  %s: $%.2f/bu\n", model.DayKey(r.Date), spread.CentsToDollars(r.Spread)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatSignals lists signals by severity with an upper-case tag.
func FormatSignals(signals []model.Signal) string {
	if len(signals) == 0 {
		return "<b>Signals</b>\n  No active signals"
	}
	sorted := append([]model.Signal(nil), signals...)
	model.SortBySeverity(sorted)

	var b strings.Builder
	b.WriteString("<b>Signals</b>\n")
	for _, s := range sorted {
		b.WriteString(fmt.Sprintf("  %s %s %s\n", severityIcon(s.Severity),
			"["+strings.ToUpper(s.Severity.String())+"]", esc(s.Description)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatHistory lists recorded signals grouped by date.
func FormatHistory(signals []model.Signal, since time.Time) string {
	if len(signals) == 0 {
		return fmt.Sprintf("No signals recorded since %s", since.Format(time.DateOnly))
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<b>Signals since %s</b>\n", since.Format(time.DateOnly)))
	day := ""
	for _, s := range signals {
		if k := model.DayKey(s.Date); k != day {
			day = k
			b.WriteString(fmt.Sprintf("%s\n", day))
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", severityIcon(s.Severity), esc(s.Description)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCorrelations(rep *report.Report) string {
	m := rep.Correlation
	var b strings.Builder
	for i := 0; i < m.Len(); i++ {
		for j := i + 1; j < m.Len(); j++ {
			r, ok := m.At(i, j)
			if !ok || math.Abs(r) <= NotableCorrelation {
				continue
			}
			strength := "moderate"
			if math.Abs(r) > 0.7 {
				strength = "strong"
			}
			direction := "positive"
			if r < 0 {
				direction = "negative"
			}
			b.WriteString(fmt.Sprintf("  %s vs %s: %.2f (%s %s)\n",
				esc(m.Names[i]), esc(m.Names[j]), r, strength, direction))
		}
	}
	return b.String()
}

func severityIcon(s model.Severity) string {
	switch s {
	case model.SeverityAlert:
		return "🚨"
	case model.SeverityWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

func esc(s string) string { return html.EscapeString(s) }
