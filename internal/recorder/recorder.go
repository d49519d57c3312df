package recorder

import (
	"time"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/report"
)

// Recorder persists scan results for later review.
type Recorder interface {
	RecordReport(rep *report.Report) error
	// RecentSignals returns recorded signals dated on or after since,
	// newest first.
	RecentSignals(since time.Time) ([]model.Signal, error)
	Close() error
}
