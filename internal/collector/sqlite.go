package collector

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/model"
)

// SQLiteFetcher reads and writes the local prices table:
//
//	prices(commodity, Date, Open, High, Low, Close, Volume)
//
// keyed by (commodity, Date) with Date stored as YYYY-MM-DD.
type SQLiteFetcher struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteFetcher opens (or creates) the prices database.
func NewSQLiteFetcher(dbPath string) (*SQLiteFetcher, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS prices (
		commodity TEXT NOT NULL,
		Date      TEXT NOT NULL,
		Open      REAL,
		High      REAL,
		Low       REAL,
		Close     REAL,
		Volume    REAL,
		PRIMARY KEY (commodity, Date)
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate prices: %w", err)
	}
	return &SQLiteFetcher{db: db}, nil
}

func (f *SQLiteFetcher) Name() string { return "sqlite" }

// dateLayouts are the Date formats found in the prices table.
var dateLayouts = []string{time.DateOnly, time.DateTime, "2006-01-02T15:04:05", time.RFC3339}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func nullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// FetchDailyBars returns the most recent days bars for commodity, oldest first.
func (f *SQLiteFetcher) FetchDailyBars(ctx context.Context, commodity string, days int) ([]model.PriceBar, error) {
	rows, err := f.db.QueryContext(ctx, `SELECT Date, Open, High, Low, Close, Volume
		FROM prices WHERE commodity = ? ORDER BY Date DESC LIMIT ?`, commodity, days)
	if err != nil {
		return nil, fmt.Errorf("query prices %s: %w", commodity, err)
	}
	defer rows.Close()

	var bars []model.PriceBar
	for rows.Next() {
		var date string
		var o, h, l, c, v sql.NullFloat64
		if err := rows.Scan(&date, &o, &h, &l, &c, &v); err != nil {
			return nil, fmt.Errorf("scan prices %s: %w", commodity, err)
		}
		t, err := parseDate(date)
		if err != nil {
			return nil, fmt.Errorf("prices %s: %w", commodity, err)
		}
		bars = append(bars, model.PriceBar{
			Time: t, Open: nullable(o), High: nullable(h), Low: nullable(l), Close: nullable(c), Volume: nullable(v),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("prices %s: %w", commodity, ErrNoData)
	}
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	return bars, nil
}

func sqlValue(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// StoreBars upserts bars for commodity keyed by calendar date.
func (f *SQLiteFetcher) StoreBars(ctx context.Context, commodity string, bars []model.PriceBar) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO prices (commodity, Date, Open, High, Low, Close, Volume)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(commodity, Date) DO UPDATE SET
			Open=excluded.Open, High=excluded.High, Low=excluded.Low,
			Close=excluded.Close, Volume=excluded.Volume`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, commodity, model.DayKey(b.Time),
			sqlValue(b.Open), sqlValue(b.High), sqlValue(b.Low), sqlValue(b.Close), sqlValue(b.Volume)); err != nil {
			return fmt.Errorf("upsert %s %s: %w", commodity, model.DayKey(b.Time), err)
		}
	}
	return tx.Commit()
}

// Commodities lists the commodities present in the table.
func (f *SQLiteFetcher) Commodities(ctx context.Context) ([]string, error) {
	rows, err := f.db.QueryContext(ctx, `SELECT DISTINCT commodity FROM prices ORDER BY commodity`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (f *SQLiteFetcher) Close() error { return f.db.Close() }
