package infra

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every setting the bot needs, loaded once at startup and
// passed to components explicitly. Secrets may be overridden by environment
// variables after the file is parsed.
type Config struct {
	App struct {
		Name        string `yaml:"name"`
		LogLevel    string `yaml:"log_level"`
		MetricsAddr string `yaml:"metrics_addr"`
	} `yaml:"app"`

	Signal struct {
		URL             string `yaml:"url"`
		PollIntervalSec int    `yaml:"poll_interval_sec"`
		TimeoutSec      int    `yaml:"timeout_sec"`
	} `yaml:"signal"`

	CoinEx struct {
		RestURL   string `yaml:"rest_url"`
		AccessID  string `yaml:"access_id"`
		SecretKey string `yaml:"secret_key"`
	} `yaml:"coinex"`

	Trading struct {
		Symbol       string  `yaml:"symbol"`
		NotionalUSDT float64 `yaml:"notional_usdt"`
		Leverage     int     `yaml:"leverage"`
		MarginMode   string  `yaml:"margin_mode"`
	} `yaml:"trading"`

	Storage struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"storage"`
}

// LoadConfig reads and parses the config file, applies environment
// overrides, fills defaults, and validates the result.
func LoadConfig(path string) (*Config, error) {
	// Best-effort .env load so local runs can keep secrets out of the file.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "coinex-trade"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Signal.PollIntervalSec <= 0 {
		c.Signal.PollIntervalSec = 15
	}
	if c.Signal.TimeoutSec <= 0 {
		c.Signal.TimeoutSec = 10
	}
	if c.CoinEx.RestURL == "" {
		c.CoinEx.RestURL = "https://api.coinex.com/v2"
	}
	if c.Trading.MarginMode == "" {
		c.Trading.MarginMode = "cross"
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = "positions.db"
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Signal.URL, "http://") && !strings.HasPrefix(c.Signal.URL, "https://") {
		return fmt.Errorf("invalid signal URL: %q", c.Signal.URL)
	}
	if c.CoinEx.AccessID == "" || c.CoinEx.SecretKey == "" {
		return fmt.Errorf("CoinEx credentials are required")
	}
	if c.Trading.Symbol == "" {
		return fmt.Errorf("trading symbol is required")
	}
	if c.Trading.NotionalUSDT <= 0 {
		return fmt.Errorf("order notional must be positive, got %v", c.Trading.NotionalUSDT)
	}
	if c.Trading.Leverage <= 0 {
		return fmt.Errorf("leverage must be positive, got %d", c.Trading.Leverage)
	}
	return nil
}

// PollInterval is the sleep between polling cycles.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Signal.PollIntervalSec) * time.Second
}

// SignalTimeout bounds the signal fetch HTTP call.
func (c *Config) SignalTimeout() time.Duration {
	return time.Duration(c.Signal.TimeoutSec) * time.Second
}

// overrideWithEnv lets environment variables take precedence over file
// contents for secrets and the signal endpoint.
func overrideWithEnv(cfg *Config) {
	if id := os.Getenv("COINEX_ACCESS_ID"); id != "" {
		cfg.CoinEx.AccessID = id
	}
	if secret := os.Getenv("COINEX_SECRET_KEY"); secret != "" {
		cfg.CoinEx.SecretKey = secret
	}
	if url := os.Getenv("SIGNAL_API_URL"); url != "" {
		cfg.Signal.URL = url
	}
}
