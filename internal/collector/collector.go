package collector

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/calculator"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
)

// Clean returns bars sorted oldest first with undefined closes dropped.
// When two bars share a timestamp the later one in the input wins. The
// input is not modified.
func Clean(bars []model.PriceBar) []model.PriceBar {
	out := make([]model.PriceBar, 0, len(bars))
	for _, b := range bars {
		if math.IsNaN(b.Close) || math.IsInf(b.Close, 0) {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	dedup := out[:0]
	for _, b := range out {
		if n := len(dedup); n > 0 && dedup[n-1].Time.Equal(b.Time) {
			dedup[n-1] = b
			continue
		}
		dedup = append(dedup, b)
	}
	return dedup
}

// Loaded is one commodity's cleaned bars and computed indicators.
type Loaded struct {
	Commodity string
	Bars      []model.PriceBar
	Frame     *calculator.Frame
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher Fetcher
	// Store, when set, receives every fetched series.
	Store  BarStore
	Days   int
	logger *logrus.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, days int, logger *logrus.Logger) *Collector {
	return &Collector{Fetcher: fetcher, Days: days, logger: logger}
}

// Collect fetches a commodity's bars, cleans them and computes all indicators.
func (c *Collector) Collect(ctx context.Context, commodity string) (*Loaded, error) {
	raw, err := c.Fetcher.FetchDailyBars(ctx, commodity, c.Days)
	if err != nil {
		return nil, fmt.Errorf("fetch %s from %s: %w", commodity, c.Fetcher.Name(), err)
	}
	bars := Clean(raw)
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch %s: %w", commodity, ErrNoData)
	}
	if dropped := len(raw) - len(bars); dropped > 0 {
		c.logger.WithFields(logrus.Fields{
			"commodity": commodity,
			"dropped":   dropped,
		}).Debug("cleaned bars")
	}

	if c.Store != nil {
		if err := c.Store.StoreBars(ctx, commodity, bars); err != nil {
			c.logger.WithError(err).WithField("commodity", commodity).Warn("store bars failed")
		}
	}

	frame, err := calculator.NewFrame(bars)
	if err != nil {
		return nil, fmt.Errorf("frame %s: %w", commodity, err)
	}
	frame, err = calculator.ComputeAll(frame)
	if err != nil {
		return nil, fmt.Errorf("technicals %s: %w", commodity, err)
	}
	return &Loaded{Commodity: commodity, Bars: bars, Frame: frame}, nil
}
