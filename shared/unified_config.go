package shared

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// UnifiedConfiguration holds all configuration parameters for the entire application
type UnifiedConfiguration struct {
	Remote   RemoteConfig   `json:"remote" yaml:"remote"`
	Retry    RetryConfig    `json:"retry" yaml:"retry"`
	Sync     SyncConfig     `json:"sync" yaml:"sync"`
	Database DatabaseConfig `json:"database" yaml:"database"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
}

// RemoteConfig holds settings for the external generation service and results page
type RemoteConfig struct {
	GenerationURL      string        `json:"generation_url" yaml:"generation_url"`
	ResultsPageURL     string        `json:"results_page_url" yaml:"results_page_url"`
	RenderResultsPage  bool          `json:"render_results_page" yaml:"render_results_page"`
	HTTPRequestTimeout time.Duration `json:"http_timeout" yaml:"http_timeout"`
	RequestRateLimit   time.Duration `json:"rate_limit" yaml:"rate_limit"`
}

// RetryConfig holds the backoff policy for remote calls
type RetryConfig struct {
	MaxAttempts       int           `json:"max_attempts" yaml:"max_attempts"`
	InitialDelay      time.Duration `json:"initial_delay" yaml:"initial_delay"`
	BackoffMultiplier float64       `json:"backoff_multiplier" yaml:"backoff_multiplier"`
}

// SyncConfig holds archive synchronization settings
type SyncConfig struct {
	Interval      time.Duration `json:"interval" yaml:"interval"`
	DefaultWindow int           `json:"default_window" yaml:"default_window"`
	RunOnStartup  bool          `json:"run_on_startup" yaml:"run_on_startup"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	MaxOpenConns    int           `json:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time" yaml:"conn_max_idle_time"`
	PingTimeout     time.Duration `json:"ping_timeout" yaml:"ping_timeout"`
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	DefaultTTL time.Duration `json:"default_ttl" yaml:"default_ttl"`
	MaxSize    int           `json:"max_size" yaml:"max_size"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level" yaml:"level"`
	Format      string `json:"format" yaml:"format"`
	ServiceName string `json:"service_name" yaml:"service_name"`
}

// NewDefaultUnifiedConfiguration returns production-ready default configuration
func NewDefaultUnifiedConfiguration() *UnifiedConfiguration {
	return &UnifiedConfiguration{
		Remote: RemoteConfig{
			HTTPRequestTimeout: 30 * time.Second,
			RequestRateLimit:   1 * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts:       3,
			InitialDelay:      2 * time.Second,
			BackoffMultiplier: 2,
		},
		Sync: SyncConfig{
			Interval:      6 * time.Hour,
			DefaultWindow: 50,
			RunOnStartup:  true,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
			PingTimeout:     5 * time.Second,
		},
		Cache: CacheConfig{
			DefaultTTL: 15 * time.Minute,
			MaxSize:    1000,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "text",
			ServiceName: "lotto-backend",
		},
	}
}

// ValidateAndApplyDefaults validates configuration and applies defaults for invalid values
func (c *UnifiedConfiguration) ValidateAndApplyDefaults() {
	logger := logrus.WithField("component", "UnifiedConfiguration")
	defaults := NewDefaultUnifiedConfiguration()

	if c.Remote.HTTPRequestTimeout <= 0 {
		c.Remote.HTTPRequestTimeout = defaults.Remote.HTTPRequestTimeout
		logger.Debug("Applied default Remote.HTTPRequestTimeout")
	}

	if c.Remote.RequestRateLimit < 0 {
		c.Remote.RequestRateLimit = defaults.Remote.RequestRateLimit
		logger.Debug("Applied default Remote.RequestRateLimit")
	}

	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = defaults.Retry.MaxAttempts
		logger.Debug("Applied default Retry.MaxAttempts")
	}

	if c.Retry.InitialDelay <= 0 {
		c.Retry.InitialDelay = defaults.Retry.InitialDelay
		logger.Debug("Applied default Retry.InitialDelay")
	}

	if c.Retry.BackoffMultiplier < 1 {
		c.Retry.BackoffMultiplier = defaults.Retry.BackoffMultiplier
		logger.Debug("Applied default Retry.BackoffMultiplier")
	}

	if c.Sync.Interval <= 0 {
		c.Sync.Interval = defaults.Sync.Interval
		logger.Debug("Applied default Sync.Interval")
	}

	if c.Sync.DefaultWindow <= 0 {
		c.Sync.DefaultWindow = defaults.Sync.DefaultWindow
		logger.Debug("Applied default Sync.DefaultWindow")
	}

	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
		logger.Debug("Applied default Database.MaxOpenConns")
	}

	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
		logger.Debug("Applied default Database.MaxIdleConns")
	}

	if c.Database.ConnMaxLifetime <= 0 {
		c.Database.ConnMaxLifetime = defaults.Database.ConnMaxLifetime
		logger.Debug("Applied default Database.ConnMaxLifetime")
	}

	if c.Database.PingTimeout <= 0 {
		c.Database.PingTimeout = defaults.Database.PingTimeout
		logger.Debug("Applied default Database.PingTimeout")
	}

	if c.Cache.DefaultTTL <= 0 {
		c.Cache.DefaultTTL = defaults.Cache.DefaultTTL
		logger.Debug("Applied default Cache.DefaultTTL")
	}

	if c.Cache.MaxSize <= 0 {
		c.Cache.MaxSize = defaults.Cache.MaxSize
		logger.Debug("Applied default Cache.MaxSize")
	}

	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
		logger.Debug("Applied default Logging.Level")
	}

	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Logging.Format
		logger.Debug("Applied default Logging.Format")
	}

	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = defaults.Logging.ServiceName
		logger.Debug("Applied default Logging.ServiceName")
	}
}

// ToJSON serializes the configuration to JSON
func (c *UnifiedConfiguration) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// LoadFromYAML overlays the YAML document at path onto c.
// Durations use Go syntax ("2s", "6h").
func (c *UnifiedConfiguration) LoadFromYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read configuration file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	c.ValidateAndApplyDefaults()
	return nil
}
