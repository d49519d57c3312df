package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/strategy"
)

// Data source providers.
const (
	ProviderYahoo  = "yahoo"
	ProviderSQLite = "sqlite"
	ProviderMock   = "mock"
)

// RatioConfig names an inter-leg price ratio reported with each scan.
type RatioConfig struct {
	Name        string `yaml:"name"`
	Numerator   string `yaml:"numerator"`
	Denominator string `yaml:"denominator"`
	// Window is the trailing average length; 0 averages the whole series.
	Window int `yaml:"window"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider    string            `yaml:"provider"`
		HistoryDays int               `yaml:"history_days"`
		Tickers     map[string]string `yaml:"tickers"`
	} `yaml:"data_source"`
	Commodities []string `yaml:"commodities"`
	Crush       struct {
		Feedstock  string `yaml:"feedstock"`
		ByproductA string `yaml:"byproduct_a"`
		ByproductB string `yaml:"byproduct_b"`
	} `yaml:"crush"`
	Ratios             []RatioConfig                         `yaml:"ratios"`
	Thresholds         strategy.Thresholds                   `yaml:"thresholds"`
	ThresholdOverrides map[string]strategy.ThresholdOverride `yaml:"threshold_overrides"`
	Schedule           struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
		PricesPath string `yaml:"prices_path"`
	} `yaml:"database"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Workers   int    `yaml:"workers"`
	StaleDays int    `yaml:"stale_days"`
	Proxy     string `yaml:"proxy"`
}

// DefaultTickers maps commodity names to Yahoo Finance continuous futures.
var DefaultTickers = map[string]string{
	"Soybeans":     "ZS=F",
	"Soybean Oil":  "ZL=F",
	"Soybean Meal": "ZM=F",
	"Corn":         "ZC=F",
	"Wheat":        "ZW=F",
	"Coffee":       "KC=F",
	"Sugar":        "SB=F",
	"Cotton":       "CT=F",
	"Live Cattle":  "LE=F",
	"Lean Hogs":    "HE=F",
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{Thresholds: strategy.DefaultThresholds()}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("HISTORY_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.HistoryDays = n
		}
	}
	if v := os.Getenv("COMMODITIES"); v != "" {
		cfg.Commodities = splitList(v)
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("PRICES_DB_PATH"); v != "" {
		cfg.Database.PricesPath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderYahoo
	}
	if c.DataSource.HistoryDays == 0 {
		c.DataSource.HistoryDays = 750
	}
	if c.DataSource.Tickers == nil {
		c.DataSource.Tickers = map[string]string{}
	}
	for name, ticker := range DefaultTickers {
		if _, ok := c.DataSource.Tickers[name]; !ok {
			c.DataSource.Tickers[name] = ticker
		}
	}
	if len(c.Commodities) == 0 {
		c.Commodities = []string{"Soybeans", "Soybean Oil", "Soybean Meal", "Corn", "Wheat"}
	}
	if c.Crush.Feedstock == "" {
		c.Crush.Feedstock = "Soybeans"
	}
	if c.Crush.ByproductA == "" {
		c.Crush.ByproductA = "Soybean Oil"
	}
	if c.Crush.ByproductB == "" {
		c.Crush.ByproductB = "Soybean Meal"
	}
	if c.Ratios == nil {
		c.Ratios = []RatioConfig{
			{Name: "Oil/Meal", Numerator: "Soybean Oil", Denominator: "Soybean Meal", Window: 60},
			{Name: "Bean/Corn", Numerator: "Soybeans", Denominator: "Corn"},
		}
	}
	if c.Schedule.ScanCron == "" {
		c.Schedule.ScanCron = "0 30 17 * * 1-5"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/mirror_market.db"
	}
	if c.Database.PricesPath == "" {
		c.Database.PricesPath = "data/commodities.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.StaleDays <= 0 {
		c.StaleDays = 3
	}
}

// ThresholdsFor returns the detector thresholds for commodity, with any
// per-commodity override applied.
func (c *Config) ThresholdsFor(commodity string) strategy.Thresholds {
	if o, ok := c.ThresholdOverrides[commodity]; ok {
		return o.Apply(c.Thresholds)
	}
	return c.Thresholds
}

// TelegramEnabled reports whether digests should be pushed.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderSQLite, ProviderMock:
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, sqlite, mock", c.DataSource.Provider)
	}
	if c.DataSource.HistoryDays <= 0 {
		return fmt.Errorf("data_source.history_days must be positive")
	}
	if len(c.Commodities) == 0 {
		return fmt.Errorf("commodities is required")
	}
	if c.DataSource.Provider == ProviderYahoo {
		for _, name := range c.Commodities {
			if c.DataSource.Tickers[name] == "" {
				return fmt.Errorf("no ticker configured for commodity %q", name)
			}
		}
	}
	for name := range c.ThresholdOverrides {
		if err := validateThresholds(c.ThresholdsFor(name)); err != nil {
			return fmt.Errorf("threshold_overrides[%s]: %w", name, err)
		}
	}
	if err := validateThresholds(c.Thresholds); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	for _, r := range c.Ratios {
		if r.Numerator == "" || r.Denominator == "" {
			return fmt.Errorf("ratio %q needs numerator and denominator", r.Name)
		}
	}
	return nil
}

func validateThresholds(t strategy.Thresholds) error {
	if t.RSIOversold >= t.RSIOverbought {
		return fmt.Errorf("rsi_oversold %.1f must be below rsi_overbought %.1f", t.RSIOversold, t.RSIOverbought)
	}
	if t.VolumeLookback <= 0 || t.DivergenceLookback <= 0 || t.SqueezeLookback <= 0 {
		return fmt.Errorf("lookbacks must be positive")
	}
	if t.VolumeSpikeRatio <= 0 {
		return fmt.Errorf("volume_spike_ratio must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
