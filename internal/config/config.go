package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for quantlab.
type Config struct {
	Storage   Storage        `yaml:"storage"`
	Alpaca    Alpaca         `yaml:"alpaca"`
	Logging   Logging        `yaml:"logging"`
	Backtest  BacktestConfig `yaml:"backtest"`
	Watchlist []WatchEntry   `yaml:"watchlist"`
}

// Storage holds paths for the local data cache.
type Storage struct {
	DataDir string `yaml:"data_dir"`
}

// Alpaca holds credentials and endpoints for the Alpaca APIs.
type Alpaca struct {
	APIKey          string `yaml:"api_key"`
	APISecret       string `yaml:"api_secret"`
	BaseURL         string `yaml:"base_url"`
	DataURL         string `yaml:"data_url"`
	RateLimitPerMin int    `yaml:"rate_limit_per_min"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// BacktestConfig holds the evaluation parameters. Every knob the pipeline
// uses is explicit here; nothing is read from ambient state at run time.
type BacktestConfig struct {
	Symbol      string  `yaml:"symbol"`
	StartDate   string  `yaml:"start_date"`
	FastWindow  int     `yaml:"fast_window"`
	SlowWindow  int     `yaml:"slow_window"`
	RSIPeriod   int     `yaml:"rsi_period"`
	Overbought  float64 `yaml:"rsi_overbought"`
	Rule        string  `yaml:"rule"`
	TradingDays int     `yaml:"trading_days"`
}

// WatchEntry is one watchlist row: friendly name plus provider symbol.
type WatchEntry struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, applies environment variable overrides, and fills defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}

	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("ALPACA_BASE_URL"); v != "" {
		cfg.Alpaca.BaseURL = v
	}
	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		cfg.Alpaca.DataURL = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Standard Alpaca env vars (highest priority — canonical names used by SDK).
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}

// applyDefaults fills the standard evaluation parameters for anything the
// file left unset.
func applyDefaults(cfg *Config) {
	bt := &cfg.Backtest
	if bt.Symbol == "" {
		bt.Symbol = "SPY"
	}
	if bt.StartDate == "" {
		bt.StartDate = "2010-01-10"
	}
	if bt.FastWindow <= 0 {
		bt.FastWindow = 10
	}
	if bt.SlowWindow <= 0 {
		bt.SlowWindow = 50
	}
	if bt.RSIPeriod <= 0 {
		bt.RSIPeriod = 14
	}
	if bt.Overbought <= 0 {
		bt.Overbought = 70
	}
	if bt.Rule == "" {
		bt.Rule = "sma-cross-rsi"
	}
	if bt.TradingDays <= 0 {
		bt.TradingDays = 252
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Alpaca.RateLimitPerMin <= 0 {
		cfg.Alpaca.RateLimitPerMin = 200
	}
}

// validate rejects configurations the pipeline cannot run with.
func validate(cfg *Config) error {
	bt := cfg.Backtest
	if bt.FastWindow >= bt.SlowWindow {
		return fmt.Errorf("backtest: fast_window (%d) must be smaller than slow_window (%d)",
			bt.FastWindow, bt.SlowWindow)
	}
	for i, w := range cfg.Watchlist {
		if w.Symbol == "" {
			return fmt.Errorf("watchlist[%d]: symbol is required", i)
		}
	}
	return nil
}
