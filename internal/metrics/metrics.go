package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Metrics holds the Prometheus collectors for scan runs.
type Metrics struct {
	ScansTotal        *prometheus.CounterVec // labels: result=ok|error
	ScanDuration      prometheus.Histogram
	SignalsTotal      *prometheus.CounterVec // labels: type, severity
	CommoditySkipped  *prometheus.CounterVec // labels: commodity
	CrushSpreadCents  prometheus.Gauge
	LastScanTimestamp prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ScansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mirror_scans_total",
			Help: "Completed signal scans by result",
		}, []string{"result"}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mirror_scan_duration_seconds",
			Help:    "Wall time of a full scan across all commodities",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mirror_signals_total",
			Help: "Signals detected by type and severity",
		}, []string{"type", "severity"}),
		CommoditySkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mirror_commodity_skipped_total",
			Help: "Commodities left out of a scan because loading failed",
		}, []string{"commodity"}),
		CrushSpreadCents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mirror_crush_spread_cents",
			Help: "Latest board crush margin in cents per bushel",
		}),
		LastScanTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mirror_last_scan_timestamp_seconds",
			Help: "Unix time of the last completed scan",
		}),
	}
	reg.MustRegister(
		m.ScansTotal,
		m.ScanDuration,
		m.SignalsTotal,
		m.CommoditySkipped,
		m.CrushSpreadCents,
		m.LastScanTimestamp,
	)
	return m
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, logger *logrus.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.WithField("addr", addr).Info("metrics listener started")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
