package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/analytics"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/calculator"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/collector"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/config"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/metrics"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/spread"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/strategy"
)

// ErrNothingLoaded means every commodity failed to load.
var ErrNothingLoaded = errors.New("no commodity could be loaded")

// Builder runs a scan across the configured commodities.
type Builder struct {
	cfg       *config.Config
	collector *collector.Collector
	metrics   *metrics.Metrics
	logger    *logrus.Logger
	now       func() time.Time
}

// NewBuilder creates a Builder. m may be nil.
func NewBuilder(cfg *config.Config, c *collector.Collector, m *metrics.Metrics, logger *logrus.Logger) *Builder {
	return &Builder{cfg: cfg, collector: c, metrics: m, logger: logger, now: time.Now}
}

// Build loads every commodity concurrently and assembles a Report. A
// commodity that fails to load is logged and skipped.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := b.now()
	runID := uuid.NewString()
	log := b.logger.WithField("run_id", runID)

	names := b.requiredSeries()
	loaded := make([]*collector.Loaded, len(names))
	failures := make([]error, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Workers)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			l, err := b.collector.Collect(gctx, name)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failures[i] = err
				return nil
			}
			loaded[i] = l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		b.observe(start, nil, err)
		return nil, fmt.Errorf("scan %s: %w", runID, err)
	}

	byName := make(map[string]*collector.Loaded, len(names))
	rep := &Report{RunID: runID, GeneratedAt: start}
	for i, name := range names {
		if failures[i] != nil {
			log.WithError(failures[i]).WithField("commodity", name).Warn("commodity skipped")
			rep.Skipped = append(rep.Skipped, Skipped{Commodity: name, Reason: failures[i].Error()})
			if b.metrics != nil {
				b.metrics.CommoditySkipped.WithLabelValues(name).Inc()
			}
			continue
		}
		byName[name] = loaded[i]
	}
	if len(byName) == 0 {
		b.observe(start, nil, ErrNothingLoaded)
		return nil, fmt.Errorf("scan %s: %w", runID, ErrNothingLoaded)
	}

	var matrixInput []model.PriceSeries
	for _, name := range b.cfg.Commodities {
		l, ok := byName[name]
		if !ok {
			continue
		}
		rep.Commodities = append(rep.Commodities, b.summarize(l))
		detector := strategy.NewDetector(b.cfg.ThresholdsFor(name))
		rep.Signals = append(rep.Signals, detector.DetectAll(l.Frame, name)...)
		matrixInput = append(matrixInput, model.PriceSeries{Commodity: name, Bars: l.Bars})
	}
	model.SortBySeverity(rep.Signals)
	rep.Correlation = analytics.CorrelationMatrix(matrixInput)

	b.addCrush(rep, byName)
	b.addRatios(rep, byName)

	log.WithFields(logrus.Fields{
		"commodities": len(rep.Commodities),
		"signals":     len(rep.Signals),
		"skipped":     len(rep.Skipped),
	}).Info("scan complete")
	b.observe(start, rep, nil)
	return rep, nil
}

// requiredSeries lists the configured commodities followed by any crush or
// ratio legs not already among them.
func (b *Builder) requiredSeries() []string {
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, c := range b.cfg.Commodities {
		add(c)
	}
	add(b.cfg.Crush.Feedstock)
	add(b.cfg.Crush.ByproductA)
	add(b.cfg.Crush.ByproductB)
	for _, r := range b.cfg.Ratios {
		add(r.Numerator)
		add(r.Denominator)
	}
	return out
}

func (b *Builder) summarize(l *collector.Loaded) CommoditySummary {
	f := l.Frame
	latest, _ := f.Latest()
	s := CommoditySummary{
		Commodity: l.Commodity,
		Date:      latest.Time,
		Close:     latest.Close,
		Bars:      f.Len(),
		Stale:     FlatCloseRun(l.Bars, b.cfg.StaleDays),
	}
	s.DailyChange = optional(f.Value(calculator.ColDailyChange, -1))
	s.WeeklyChange = optional(f.Value(calculator.ColWeeklyChange, -1))
	if v, ok, err := calculator.PeriodChange(f, calculator.MonthBars); err == nil {
		s.MonthlyChange = optional(v, ok)
	}
	s.RSI = optional(f.Value(calculator.ColRSI, -1))
	if high, low, err := calculator.TrailingRange(f, calculator.YearBars); err == nil {
		s.High52w, s.Low52w = high, low
		if pos, err := calculator.RangePosition(latest.Close, high, low); err == nil {
			s.Position52w = &pos
		}
	}
	if cmp, ok := analytics.CurrentVsSeasonal(l.Bars); ok {
		s.Seasonal = &cmp
	}
	s.MAContext = maContext(f, latest.Close)
	s.MACDHistogram = optional(f.Value(calculator.ColMACDHistogram, -1))
	s.Volatility20 = optional(f.Value(calculator.ColHV(20), -1))
	return s
}

func maContext(f *calculator.Frame, last float64) string {
	for _, w := range []int{200, 50} {
		ma, ok := f.Value(calculator.ColMA(w), -1)
		if !ok {
			continue
		}
		if last > ma {
			return fmt.Sprintf("Above %d-day MA", w)
		}
		return fmt.Sprintf("Below %d-day MA", w)
	}
	return ""
}

func (b *Builder) addCrush(rep *Report, byName map[string]*collector.Loaded) {
	feed, okF := byName[b.cfg.Crush.Feedstock]
	a, okA := byName[b.cfg.Crush.ByproductA]
	bb, okB := byName[b.cfg.Crush.ByproductB]
	if !okF || !okA || !okB {
		return
	}
	rep.CrushSeries = spread.ComputeCrushSpread(feed.Bars, a.Bars, bb.Bars)
	if sum, ok := spread.Summarize(rep.CrushSeries); ok {
		rep.Crush = &sum
	}
	if share, ok := spread.ByproductAShare(a.Bars[len(a.Bars)-1].Close, bb.Bars[len(bb.Bars)-1].Close); ok {
		rep.ByproductAShare = &share
	}
}

func (b *Builder) addRatios(rep *Report, byName map[string]*collector.Loaded) {
	for _, rc := range b.cfg.Ratios {
		num, ok1 := byName[rc.Numerator]
		den, ok2 := byName[rc.Denominator]
		if !ok1 || !ok2 {
			continue
		}
		if sum, ok := spread.SummarizeRatio(spread.Ratio(num.Bars, den.Bars), rc.Window); ok {
			rep.Ratios = append(rep.Ratios, RatioResult{Name: rc.Name, RatioSummary: sum})
		}
	}
}

func (b *Builder) observe(start time.Time, rep *Report, err error) {
	if b.metrics == nil {
		return
	}
	b.metrics.ScanDuration.Observe(b.now().Sub(start).Seconds())
	if err != nil {
		b.metrics.ScansTotal.WithLabelValues("error").Inc()
		return
	}
	b.metrics.ScansTotal.WithLabelValues("ok").Inc()
	b.metrics.LastScanTimestamp.Set(float64(b.now().Unix()))
	for _, s := range rep.Signals {
		b.metrics.SignalsTotal.WithLabelValues(string(s.Type), s.Severity.String()).Inc()
	}
	if rep.Crush != nil {
		b.metrics.CrushSpreadCents.Set(rep.Crush.Cents)
	}
}
