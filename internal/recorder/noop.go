package recorder

import (
	"time"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/report"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordReport(_ *report.Report) error                 { return nil }
func (n *NoopRecorder) RecentSignals(_ time.Time) ([]model.Signal, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                       { return nil }
