package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"fitcentive-growth-report/internal/log"
)

const (
	defaultOutputDir = "."
	defaultChartDPI  = 150
	defaultTrendSeed = 42
)

type Config struct {
	// Output
	OutputDir string
	ChartDPI  int

	// Logging
	LogLevel  string
	LogFormat string

	// Simulated revenue trend
	TrendSeed uint64

	// Postgres
	DatabaseURL string
}

// Load reads a .env file when present and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		OutputDir:   getEnv("FITCENTIVE_OUTPUT_DIR", defaultOutputDir),
		ChartDPI:    getEnvInt("FITCENTIVE_CHART_DPI", defaultChartDPI),
		LogLevel:    getEnv("FITCENTIVE_LOG_LEVEL", "info"),
		LogFormat:   getEnv("FITCENTIVE_LOG_FORMAT", "text"),
		TrendSeed:   uint64(getEnvInt("FITCENTIVE_TREND_SEED", defaultTrendSeed)),
		DatabaseURL: databaseURL(),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.OutputDir) == "" {
		problems = append(problems, "output directory cannot be empty")
	}
	if c.ChartDPI < 36 || c.ChartDPI > 600 {
		problems = append(problems, fmt.Sprintf("invalid chart DPI %d: must be between 36 and 600", c.ChartDPI))
	}
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if len(problems) > 0 {
		return errors.New("configuration validation failed: " + strings.Join(problems, "; "))
	}
	return nil
}

// LoggerConfig builds the logger settings described by this configuration.
func (c *Config) LoggerConfig() log.Config {
	cfg := log.DefaultConfig()
	if level, ok := log.ParseLevel(c.LogLevel); ok {
		cfg.Level = level
	}
	cfg.Format = c.LogFormat
	return cfg
}

func databaseURL() string {
	if value := strings.TrimSpace(os.Getenv("FITCENTIVE_DB_URL")); value != "" {
		return value
	}
	return strings.TrimSpace(os.Getenv("DATABASE_URL"))
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
