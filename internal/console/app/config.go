package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("app: invalid config")

// Config is read from defaults, then the YAML file named by CONSOLE_CONFIG,
// then the environment. Flags bound with BindFlags override all of them.
type Config struct {
	APIURL      string        `yaml:"api_url"`      // Base URL of the API (default: http://localhost:8080)
	TokenDB     string        `yaml:"token_db"`     // SQLite file for remembered logins; "" keeps them in memory (default: console.db)
	Env         string        `yaml:"env"`          // Environment (dev, staging, prod) (default: prod)
	LogLevel    string        `yaml:"log_level"`    // Log level (debug, info, warn, error) (default: warn)
	LogFormat   string        `yaml:"log_format"`   // Log format (json, text) (default: text)
	HTTPTimeout time.Duration `yaml:"http_timeout"` // Per-request timeout (default: 10s)
	RateLimit   int           `yaml:"rate_limit"`   // API requests per minute (default: 600)
	PageSize    int           `yaml:"page_size"`    // Users per page (default: 20)
}

func DefaultConfig() Config {
	return Config{
		APIURL:      "http://localhost:8080",
		TokenDB:     "console.db",
		Env:         "prod",
		LogLevel:    "warn",
		LogFormat:   "text",
		HTTPTimeout: 10 * time.Second,
		RateLimit:   600,
		PageSize:    20,
	}
}

func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("CONSOLE_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.APIURL = getEnvOrDefault("CONSOLE_API_URL", cfg.APIURL)
	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.HTTPTimeout = getEnvDurationOrDefault("CONSOLE_HTTP_TIMEOUT", cfg.HTTPTimeout)
	cfg.RateLimit = getEnvIntOrDefault("CONSOLE_RATE_LIMIT", cfg.RateLimit)
	cfg.PageSize = getEnvIntOrDefault("CONSOLE_PAGE_SIZE", cfg.PageSize)

	// An empty CONSOLE_TOKEN_DB is meaningful: keep tokens in memory.
	if value, ok := os.LookupEnv("CONSOLE_TOKEN_DB"); ok {
		cfg.TokenDB = value
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// BindFlags registers a flag per field, defaulting to the loaded value.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.APIURL, "api-url", c.APIURL, "base URL of the API")
	fs.StringVar(&c.TokenDB, "token-db", c.TokenDB, "SQLite file for remembered logins (empty: memory only)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format (json, text)")
	fs.DurationVar(&c.HTTPTimeout, "http-timeout", c.HTTPTimeout, "per-request timeout")
	fs.IntVar(&c.RateLimit, "rate-limit", c.RateLimit, "API requests per minute")
	fs.IntVar(&c.PageSize, "page-size", c.PageSize, "users per page")
}

func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api url %q", ErrInvalidConfig, c.APIURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: http timeout %s", ErrInvalidConfig, c.HTTPTimeout)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("%w: rate limit %d", ErrInvalidConfig, c.RateLimit)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("%w: page size %d", ErrInvalidConfig, c.PageSize)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
