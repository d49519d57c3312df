package recorder

import (
	"database/sql"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
	"github.com/philipbergman6-glitch/Mirror-Market/internal/report"
)

// SQLiteRecorder persists scan results to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *logrus.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *logrus.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while a scan writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			run_id       TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			commodities  INTEGER,
			signals      INTEGER,
			skipped      INTEGER,
			crush_cents  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_runs_ts ON scan_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS signals (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			date        TEXT NOT NULL,
			commodity   TEXT NOT NULL,
			signal_type TEXT NOT NULL,
			severity    TEXT NOT NULL,
			description TEXT,
			value       REAL,
			UNIQUE (date, commodity, signal_type)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_date ON signals(date)`,

		`CREATE TABLE IF NOT EXISTS commodity_snapshots (
			run_id        TEXT NOT NULL,
			commodity     TEXT NOT NULL,
			date          TEXT NOT NULL,
			close         REAL,
			daily_change  REAL,
			weekly_change REAL,
			rsi           REAL,
			position_52w  REAL,
			stale         INTEGER,
			PRIMARY KEY (run_id, commodity)
		)`,

		`CREATE TABLE IF NOT EXISTS crush_spreads (
			date            TEXT PRIMARY KEY,
			feedstock_close REAL,
			byproduct_a     REAL,
			byproduct_b     REAL,
			crush_spread    REAL
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func nullable(v *float64) any {
	if v == nil || math.IsNaN(*v) {
		return nil
	}
	return *v
}

// RecordReport stores the run, its snapshots and signals, and upserts the
// crush series. Signals already recorded for the same date, commodity and
// type are kept from the first run that saw them.
func (r *SQLiteRecorder) RecordReport(rep *report.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var crush *float64
	if rep.Crush != nil {
		crush = &rep.Crush.Cents
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO scan_runs
		(run_id, timestamp, commodities, signals, skipped, crush_cents)
		VALUES (?,?,?,?,?,?)`,
		rep.RunID, rep.GeneratedAt.Unix(), len(rep.Commodities), len(rep.Signals), len(rep.Skipped), nullable(crush),
	); err != nil {
		return fmt.Errorf("insert scan run: %w", err)
	}

	for _, s := range rep.Commodities {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO commodity_snapshots
			(run_id, commodity, date, close, daily_change, weekly_change, rsi, position_52w, stale)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			rep.RunID, s.Commodity, model.DayKey(s.Date), s.Close,
			nullable(s.DailyChange), nullable(s.WeeklyChange), nullable(s.RSI), nullable(s.Position52w), s.Stale,
		); err != nil {
			return fmt.Errorf("insert snapshot %s: %w", s.Commodity, err)
		}
	}

	for _, s := range rep.Signals {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO signals
			(run_id, date, commodity, signal_type, severity, description, value)
			VALUES (?,?,?,?,?,?,?)`,
			rep.RunID, model.DayKey(s.Date), s.Commodity, string(s.Type), s.Severity.String(), s.Description, s.Value,
		); err != nil {
			return fmt.Errorf("insert signal: %w", err)
		}
	}

	for _, c := range rep.CrushSeries {
		if _, err := tx.Exec(`INSERT INTO crush_spreads
			(date, feedstock_close, byproduct_a, byproduct_b, crush_spread)
			VALUES (?,?,?,?,?)
			ON CONFLICT(date) DO UPDATE SET
				feedstock_close=excluded.feedstock_close, byproduct_a=excluded.byproduct_a,
				byproduct_b=excluded.byproduct_b, crush_spread=excluded.crush_spread`,
			model.DayKey(c.Date), c.FeedstockClose, c.ByproductAClose, c.ByproductBClose, c.Spread,
		); err != nil {
			return fmt.Errorf("upsert crush %s: %w", model.DayKey(c.Date), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.logger.WithFields(logrus.Fields{
		"run_id":  rep.RunID,
		"signals": len(rep.Signals),
	}).Debug("report recorded")
	return nil
}

func (r *SQLiteRecorder) RecentSignals(since time.Time) ([]model.Signal, error) {
	rows, err := r.db.Query(`SELECT date, commodity, signal_type, severity, description, value
		FROM signals WHERE date >= ? ORDER BY date DESC, id ASC`, model.DayKey(since))
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	var out []model.Signal
	for rows.Next() {
		var (
			date, typ, sev string
			s              model.Signal
			value          sql.NullFloat64
		)
		if err := rows.Scan(&date, &s.Commodity, &typ, &sev, &s.Description, &value); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		if s.Date, err = time.Parse(time.DateOnly, date); err != nil {
			return nil, fmt.Errorf("signal date %q: %w", date, err)
		}
		if s.Severity, err = model.ParseSeverity(sev); err != nil {
			return nil, err
		}
		s.Type = model.SignalType(typ)
		s.Value = value.Float64
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
