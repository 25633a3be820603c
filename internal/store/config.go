package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Risk policy driving signal gating and position management.
	ConfidenceThreshold int     `yaml:"confidence_threshold"`
	PositionSizePct     float64 `yaml:"position_size_pct"`
	StopLossPct         float64 `yaml:"stop_loss_pct"`
	TakeProfitPct       float64 `yaml:"take_profit_pct"`
	MaxTradesPerDay     int     `yaml:"max_trades_per_day"`

	// Scan loop pacing.
	ScanIntervalSeconds int `yaml:"scan_interval_seconds"`
	RateLimitMs         int `yaml:"rate_limit_ms"`
	LookbackDays        int `yaml:"lookback_days"`

	// Symbols to scan. Watchlist wins over WatchlistGroup when both are set.
	Watchlist      []string `yaml:"watchlist"`
	WatchlistGroup string   `yaml:"watchlist_group"`

	// Paper selects Alpaca's paper endpoint in live mode.
	Paper bool `yaml:"paper"`

	Recorder struct {
		Path string `yaml:"path"` // empty disables SQLite recording
	} `yaml:"recorder"`

	Metrics struct {
		Addr string `yaml:"addr"` // empty disables the /metrics listener
	} `yaml:"metrics"`

	License struct {
		Path string `yaml:"path"`
	} `yaml:"license"`
}

func (c *Config) Validate() error {
	if c.ConfidenceThreshold <= 0 {
		return fmt.Errorf("confidence_threshold must be positive, got %d", c.ConfidenceThreshold)
	}
	if c.PositionSizePct <= 0 || c.PositionSizePct > 100 {
		return fmt.Errorf("position_size_pct must be in (0, 100], got %.2f", c.PositionSizePct)
	}
	if c.StopLossPct <= 0 {
		return fmt.Errorf("stop_loss_pct must be positive, got %.2f", c.StopLossPct)
	}
	if c.TakeProfitPct <= 0 {
		return fmt.Errorf("take_profit_pct must be positive, got %.2f", c.TakeProfitPct)
	}
	if c.MaxTradesPerDay <= 0 {
		return fmt.Errorf("max_trades_per_day must be positive, got %d", c.MaxTradesPerDay)
	}
	if c.ScanIntervalSeconds <= 0 {
		return fmt.Errorf("scan_interval_seconds must be positive, got %d", c.ScanIntervalSeconds)
	}
	if len(c.Watchlist) == 0 {
		return fmt.Errorf("watchlist cannot be empty")
	}
	return nil
}

// LoadConfig reads the YAML config, applies defaults, and validates.
// A missing file yields the pure-default config.
func LoadConfig(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	if err == nil {
		if uerr := yaml.Unmarshal(b, &c); uerr != nil {
			return nil, fmt.Errorf("parse config: %w", uerr)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.ConfidenceThreshold == 0 {
		c.ConfidenceThreshold = 30
	}
	if c.PositionSizePct == 0 {
		c.PositionSizePct = 10
	}
	if c.StopLossPct == 0 {
		c.StopLossPct = 2
	}
	if c.TakeProfitPct == 0 {
		c.TakeProfitPct = 4
	}
	if c.MaxTradesPerDay == 0 {
		c.MaxTradesPerDay = 10
	}
	if c.ScanIntervalSeconds == 0 {
		c.ScanIntervalSeconds = 60
	}
	if c.RateLimitMs == 0 {
		c.RateLimitMs = 1000
	}
	if c.LookbackDays == 0 {
		c.LookbackDays = 30
	}
	if len(c.Watchlist) == 0 {
		group := c.WatchlistGroup
		if group == "" {
			group = DefaultGroup
		}
		c.Watchlist = WatchlistGroup(group)
	}
	if c.License.Path == "" {
		c.License.Path = ".license"
	}
}
