package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Server      ServerConfig   `toml:"server"`
	Database    DatabaseConfig `toml:"database"`
	Snapshot    SnapshotConfig `toml:"snapshot"`
	Refresh     RefreshConfig  `toml:"refresh"`
	Gemini      GeminiConfig   `toml:"gemini"`
	Claude      ClaudeConfig   `toml:"claude"`
	LLM         LLMConfig      `toml:"llm"`
	Logging     LoggingConfig  `toml:"logging"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"required,min=1,max=65535"`
	Host string `toml:"host" validate:"required"`
}

// DatabaseConfig describes the relational source the refresh cycle pulls
// from. SSLMode is "disable", "require" or "verify-full". Table is the
// source table, read with a fixed SELECT *. FetchTimeout is the per-cycle
// query timeout as a duration string (default: "30s").
type DatabaseConfig struct {
	Host         string `toml:"host" validate:"required"`
	Port         int    `toml:"port" validate:"required,min=1,max=65535"`
	User         string `toml:"user" validate:"required"`
	Password     string `toml:"password"`
	Database     string `toml:"database" validate:"required"`
	SSLMode      string `toml:"ssl_mode"`
	Table        string `toml:"table" validate:"required"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	FetchTimeout string `toml:"fetch_timeout"`
}

// GetDSN builds the lib/pq connection string
func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// SnapshotConfig describes the on-disk cache document.
type SnapshotConfig struct {
	Path string `toml:"path" validate:"required"` // Snapshot document location
}

// RefreshConfig controls the background refresh loop.
type RefreshConfig struct {
	Interval string `toml:"interval"` // Time between refresh cycles as duration string (default: "5m")
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key
	Model       string  `toml:"model"`       // Model for answer generation (default: "gemini-2.5-flash")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum spacing between API calls (default: "4s" for 15 RPM)
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.7)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model for answer generation (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 8192)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum spacing between API calls (default: "1s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.7)
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "gemini" or "claude" (default: "gemini")
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings should be exposed in ordo.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         5432,
			User:         "postgres",
			Database:     "ecommerce",
			SSLMode:      "disable",
			Table:        "orders",
			MaxOpenConns: 5,
			MaxIdleConns: 2,
			FetchTimeout: "30s",
		},
		Snapshot: SnapshotConfig{
			Path: "./data/order_data.json",
		},
		Refresh: RefreshConfig{
			Interval: "5m",
		},
		Gemini: GeminiConfig{
			APIKey:      "", // User must provide API key (no fallback)
			Model:       "gemini-2.5-flash",
			Timeout:     "2m",
			RateLimit:   "4s", // Default to 4s (15 RPM) for free tier
			Temperature: 0.7,
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   8192,
			Timeout:     "2m",
			RateLimit:   "1s",
			Temperature: 0.7,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files. Later files override
// earlier files. Priority: CLI flags > Environment variables > Last config
// file > ... > First config file > Defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks structural constraints after all override layers applied
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	interval, err := time.ParseDuration(c.Refresh.Interval)
	if err != nil {
		return fmt.Errorf("invalid configuration: refresh.interval: %w", err)
	}
	if interval <= 0 {
		return fmt.Errorf("invalid configuration: refresh.interval must be positive, got %s", c.Refresh.Interval)
	}
	if c.Database.FetchTimeout != "" {
		if _, err := time.ParseDuration(c.Database.FetchTimeout); err != nil {
			return fmt.Errorf("invalid configuration: database.fetch_timeout: %w", err)
		}
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("ORDO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("ORDO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("ORDO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Database configuration
	if host := os.Getenv("ORDO_DB_HOST"); host != "" {
		config.Database.Host = host
	}
	if port := os.Getenv("ORDO_DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Database.Port = p
		}
	}
	if user := os.Getenv("ORDO_DB_USER"); user != "" {
		config.Database.User = user
	}
	if password := os.Getenv("ORDO_DB_PASSWORD"); password != "" {
		config.Database.Password = password
	}
	if database := os.Getenv("ORDO_DB_NAME"); database != "" {
		config.Database.Database = database
	}
	if table := os.Getenv("ORDO_DB_TABLE"); table != "" {
		config.Database.Table = table
	}

	// Snapshot configuration
	if path := os.Getenv("ORDO_SNAPSHOT_PATH"); path != "" {
		config.Snapshot.Path = path
	}

	// Refresh configuration
	if interval := os.Getenv("ORDO_REFRESH_INTERVAL"); interval != "" {
		config.Refresh.Interval = interval
	}

	// LLM configuration
	if apiKey := os.Getenv("ORDO_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("ORDO_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if apiKey := os.Getenv("ORDO_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if provider := os.Getenv("ORDO_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(strings.ToLower(provider))
	}

	// Logging configuration
	if level := os.Getenv("ORDO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("ORDO_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
