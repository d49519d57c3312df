package collector

import (
	"context"
	"errors"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
)

// ErrNoData means the source returned no bars for a commodity.
var ErrNoData = errors.New("no data returned")

// Fetcher loads daily bars for a commodity.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, commodity string, days int) ([]model.PriceBar, error)
	Name() string
}

// BarStore persists fetched bars so later runs can read them locally.
type BarStore interface {
	StoreBars(ctx context.Context, commodity string, bars []model.PriceBar) error
}
