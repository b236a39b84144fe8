package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort       string
	DatabaseURL      string
	GenerationURL    string
	GenerationAPIKey string
	ResultsPageURL   string
	RenderResults    string
	SyncInterval     string
	RetryMaxAttempts string
	LogLevel         string
	LogFormat        string
	ConfigFile       string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		GenerationURL:    getEnv("GENERATION_URL", ""),
		GenerationAPIKey: getEnv("GENERATION_API_KEY", ""),
		ResultsPageURL:   getEnv("RESULTS_PAGE_URL", ""),
		RenderResults:    getEnv("RESULTS_PAGE_RENDER", ""),
		SyncInterval:     getEnv("SYNC_INTERVAL", ""),
		RetryMaxAttempts: getEnv("RETRY_MAX_ATTEMPTS", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		ConfigFile:       getEnv("CONFIG_FILE", ""),
	}
}

// GetSyncInterval returns SYNC_INTERVAL parsed as a Go duration, or fallback
func (c *Config) GetSyncInterval(fallback time.Duration) time.Duration {
	if c.SyncInterval == "" {
		return fallback
	}

	interval, err := time.ParseDuration(c.SyncInterval)
	if err != nil || interval <= 0 {
		logrus.Warnf("Invalid SYNC_INTERVAL value: %s, using default %v", c.SyncInterval, fallback)
		return fallback
	}
	return interval
}

// ToUnified builds the nested configuration: defaults, then the optional YAML
// file named by CONFIG_FILE, then environment overrides.
func (c *Config) ToUnified() (*shared.UnifiedConfiguration, error) {
	unified := shared.NewDefaultUnifiedConfiguration()

	if c.ConfigFile != "" {
		if err := unified.LoadFromYAML(c.ConfigFile); err != nil {
			return nil, err
		}
	}

	if c.GenerationURL != "" {
		unified.Remote.GenerationURL = c.GenerationURL
	}
	if c.ResultsPageURL != "" {
		unified.Remote.ResultsPageURL = c.ResultsPageURL
	}
	if c.RenderResults != "" {
		render, err := strconv.ParseBool(c.RenderResults)
		if err != nil {
			logrus.Warnf("Invalid RESULTS_PAGE_RENDER value: %s, ignoring", c.RenderResults)
		} else {
			unified.Remote.RenderResultsPage = render
		}
	}
	unified.Sync.Interval = c.GetSyncInterval(unified.Sync.Interval)

	if c.RetryMaxAttempts != "" {
		attempts, err := strconv.Atoi(c.RetryMaxAttempts)
		if err != nil || attempts <= 0 {
			logrus.Warnf("Invalid RETRY_MAX_ATTEMPTS value: %s, using %d", c.RetryMaxAttempts, unified.Retry.MaxAttempts)
		} else {
			unified.Retry.MaxAttempts = attempts
		}
	}

	if c.LogLevel != "" {
		unified.Logging.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		unified.Logging.Format = c.LogFormat
	}

	unified.ValidateAndApplyDefaults()
	return unified, nil
}

// SetupLogging applies level and formatter to the standard logrus logger
func SetupLogging(logging shared.LoggingConfig) {
	level, err := logrus.ParseLevel(logging.Level)
	if err != nil {
		logrus.Warnf("Invalid LOG_LEVEL value: %s, using info", logging.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if strings.EqualFold(logging.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
