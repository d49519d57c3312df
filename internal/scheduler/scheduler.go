package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/notifier"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/recorder"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/report"
)

// DefaultHistoryDays is the /history lookback when no argument is given.
const DefaultHistoryDays = 7

const sendRetries = 3

// ReportBuilder produces one scan report.
type ReportBuilder interface {
	Build(ctx context.Context) (*report.Report, error)
}

// Sender delivers a formatted message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the scan cron job and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Builder  ReportBuilder
	Notifier Sender
	Recorder recorder.Recorder
	Ctx      context.Context

	logger *logrus.Logger
	now    func() time.Time

	scanMu sync.Mutex // serializes scans
	mu     sync.RWMutex
	last   *report.Report
}

// NewScheduler creates a new Scheduler. sender may be nil, in which case
// digests are only logged.
func NewScheduler(ctx context.Context, b ReportBuilder, sender Sender, rec recorder.Recorder, logger *logrus.Logger) *Scheduler {
	cronLog := cron.PrintfLogger(logger)
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		Builder:  b,
		Notifier: sender,
		Recorder: rec,
		Ctx:      ctx,
		logger:   logger,
		now:      time.Now,
	}
}

// Register adds the daily scan job.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// Last returns the most recent successful report, or nil.
func (s *Scheduler) Last() *report.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *Scheduler) scanTask() {
	if _, err := s.RunNow(s.Ctx); err != nil {
		s.logger.WithError(err).Error("scheduled scan failed")
	}
}

// RunNow runs a scan, records it and sends the digest. Recording and
// delivery failures are logged; only a failed build is returned.
func (s *Scheduler) RunNow(ctx context.Context) (*report.Report, error) {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	s.logger.Info("running scan")
	rep, err := s.Builder.Build(ctx)
	if err != nil {
		s.trySend(ctx, fmt.Sprintf("❌ Scan failed: %v", err))
		return nil, err
	}

	s.mu.Lock()
	s.last = rep
	s.mu.Unlock()

	log := s.logger.WithField("run_id", rep.RunID)
	if err := s.Recorder.RecordReport(rep); err != nil {
		log.WithError(err).Error("record report")
	}
	s.trySend(ctx, notifier.FormatDigest(rep))
	log.WithFields(logrus.Fields{
		"commodities": len(rep.Commodities),
		"signals":     len(rep.Signals),
		"skipped":     len(rep.Skipped),
	}).Info("digest delivered")
	return rep, nil
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// Group chats address commands as /cmd@botname.
	cmd, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch cmd {
	case "/scan":
		// RunNow sends the digest or the failure notice itself.
		_, _ = s.RunNow(ctx)
		return ""
	case "/signals":
		rep := s.Last()
		if rep == nil {
			return noScanYet
		}
		return notifier.FormatSignals(rep.Signals)
	case "/crush":
		rep := s.Last()
		if rep == nil {
			return noScanYet
		}
		return notifier.FormatCrush(rep) + "\n" + notifier.FormatCrushHistory(rep.CrushSeries, 5)
	case "/history":
		days := DefaultHistoryDays
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil || n <= 0 {
				return "Usage: /history [days]"
			}
			days = n
		}
		since := s.now().AddDate(0, 0, -days)
		signals, err := s.Recorder.RecentSignals(since)
		if err != nil {
			s.logger.WithError(err).Error("load signal history")
			return "❌ Could not load signal history"
		}
		return notifier.FormatHistory(signals, since)
	default:
		return helpText
	}
}

const noScanYet = "No scan has run yet. Send /scan to run one."

const helpText = `Available commands:
• /scan - run a scan now
• /signals - signals from the last scan
• /crush - crush spread and recent history
• /history [days] - recorded signals`

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.Notifier == nil {
		s.logger.WithField("message", text).Debug("notifier disabled")
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, sendRetries); err != nil {
		s.logger.WithError(err).Error("send notification")
	}
}
