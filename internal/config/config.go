// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// GatewayConfig configures the outbound QR payment provider.
type GatewayConfig struct {
	BaseURL        string        `yaml:"base_url"`
	APIKey         string        `yaml:"api_key"`
	PaymentPurpose string        `yaml:"payment_purpose"`
	QRSize         int           `yaml:"qr_size"`
	Timeout        time.Duration `yaml:"timeout"`
}

// URLConfig holds the externally visible URLs the service hands out:
// its own public base (for gateway notifications and the hosted payment
// page) and the storefront pages the customer is redirected to.
type URLConfig struct {
	PublicBase  string `yaml:"public_base"`
	SuccessBase string `yaml:"success_base"`
	FailBase    string `yaml:"fail_base"`
}

type MappingConfig struct {
	Backend       string        `yaml:"backend"` // memory | redis
	TTL           time.Duration `yaml:"ttl"`
	MaxEntries    int           `yaml:"max_entries"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CheckoutConfig struct {
	DefaultAmountRub float64 `yaml:"default_amount_rub"`
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	URLs     URLConfig      `yaml:"urls"`
	Mapping  MappingConfig  `yaml:"mapping"`
	Redis    RedisConfig    `yaml:"redis"`
	Checkout CheckoutConfig `yaml:"checkout"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// ApplyDefaults fills in every optional field that was left zero.
func (cfg *Config) ApplyDefaults() {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Gateway.BaseURL == "" {
		cfg.Gateway.BaseURL = "https://app.wapiserv.qrm.ooo"
	}
	if cfg.Gateway.QRSize <= 0 {
		cfg.Gateway.QRSize = 400
	}
	if cfg.Gateway.Timeout <= 0 {
		cfg.Gateway.Timeout = 10 * time.Second
	}
	if cfg.Mapping.Backend == "" {
		cfg.Mapping.Backend = "memory"
	}
	if cfg.Mapping.TTL <= 0 {
		cfg.Mapping.TTL = time.Hour
	}
	if cfg.Mapping.MaxEntries <= 0 {
		cfg.Mapping.MaxEntries = 10000
	}
	if cfg.Mapping.SweepInterval <= 0 {
		cfg.Mapping.SweepInterval = 5 * time.Minute
	}
	if cfg.Checkout.DefaultAmountRub <= 0 {
		cfg.Checkout.DefaultAmountRub = 100
	}
}

// Validate checks the required fields.
func (cfg *Config) Validate() error {
	if cfg.Gateway.APIKey == "" {
		return errors.New("gateway.api_key is required")
	}
	if cfg.URLs.PublicBase == "" {
		return errors.New("urls.public_base is required")
	}
	if cfg.Mapping.Backend != "memory" && cfg.Mapping.Backend != "redis" {
		return fmt.Errorf("mapping.backend must be memory or redis, got %q", cfg.Mapping.Backend)
	}
	if cfg.Mapping.Backend == "redis" && cfg.Redis.URL == "" {
		return errors.New("redis.url is required when mapping.backend is redis")
	}
	return nil
}
