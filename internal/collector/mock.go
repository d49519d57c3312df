package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Commodities without an entry in Data get a generated series around Price.
type MockFetcher struct {
	Price float64
	Data  map[string][]model.PriceBar
	Errs  map[string]error
	// Now anchors generated series; zero means time.Now.
	Now time.Time
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(ctx context.Context, commodity string, days int) ([]model.PriceBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.Errs[commodity]; ok {
		return nil, err
	}
	if bars, ok := m.Data[commodity]; ok {
		if len(bars) == 0 {
			return nil, fmt.Errorf("mock %s: %w", commodity, ErrNoData)
		}
		if len(bars) > days {
			bars = bars[len(bars)-days:]
		}
		out := make([]model.PriceBar, len(bars))
		copy(out, bars)
		return out, nil
	}
	now := m.Now
	if now.IsZero() {
		now = time.Now()
	}
	return generateMockBars(m.Price, days, now), nil
}

func generateMockBars(basePrice float64, count int, now time.Time) []model.PriceBar {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/15) + float64(i-count/2)*0.0005)
		bars[i] = model.PriceBar{
			Time:   day.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 100000 + float64(i%10)*5000,
		}
	}
	return bars
}
