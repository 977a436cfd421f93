package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DateLayout is the calendar date format used by the date options
const DateLayout = "2006-01-02"

const (
	ModeSearch      = "search"
	ModeCollections = "collections"
)

// Config holds all configuration options for the harvester
type Config struct {
	// Catalog gateway connection
	Catalog CatalogConfig `yaml:"catalog" json:"catalog"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Retry policy for catalog requests
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// What to harvest and how
	Harvest HarvestConfig `yaml:"harvest" json:"harvest"`

	// Output files
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// CatalogConfig holds the gateway connection settings
type CatalogConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	APIKey    string        `yaml:"api_key,omitempty" json:"-"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int    `yaml:"requests_per_minute" json:"requests_per_minute"`
	Strategy          string `yaml:"strategy" json:"strategy"`
}

// RetryConfig holds the retry policy for a single catalog request
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	Backoff     string        `yaml:"backoff" json:"backoff"`
	BaseDelay   time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxJitter   time.Duration `yaml:"max_jitter" json:"max_jitter"`
}

// HarvestConfig selects the work space and the record filter
type HarvestConfig struct {
	Mode        string        `yaml:"mode" json:"mode"`
	Countries   []string      `yaml:"countries" json:"countries"`
	Categories  []string      `yaml:"categories,omitempty" json:"categories,omitempty"`
	Collections []string      `yaml:"collections,omitempty" json:"collections,omitempty"`
	BatchSize   int           `yaml:"batch_size" json:"batch_size"`
	PageDelay   time.Duration `yaml:"page_delay" json:"page_delay"`
	MaxInstalls int           `yaml:"max_installs" json:"max_installs"`
	Months      int           `yaml:"months" json:"months"`
	StartDate   string        `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate     string        `yaml:"end_date,omitempty" json:"end_date,omitempty"`
	TargetDate  string        `yaml:"target_date,omitempty" json:"target_date,omitempty"`
}

// OutputConfig holds output file locations
type OutputConfig struct {
	File       string `yaml:"file" json:"file"`
	Checkpoint string `yaml:"checkpoint" json:"checkpoint"`
	Summary    string `yaml:"summary,omitempty" json:"summary,omitempty"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file,omitempty" json:"file,omitempty"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:   "http://localhost:3000",
			UserAgent: "playharvest/1.0",
			Timeout:   30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 120,
			Strategy:          "token_bucket",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			Backoff:     "exponential",
			BaseDelay:   time.Second,
			MaxJitter:   time.Second,
		},
		Harvest: HarvestConfig{
			Mode:        ModeSearch,
			Countries:   []string{"us"},
			BatchSize:   2500,
			PageDelay:   15 * time.Second,
			MaxInstalls: 100000,
			Months:      3,
		},
		Output: OutputConfig{
			File:       "google_play_apps_past_three_months.xlsx",
			Checkpoint: "collected_apps_past_three_months.json",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	setString := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	setInt := func(name string, dst *int) {
		if v := os.Getenv(name); v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = n
		}
	}
	setDuration := func(name string, dst *time.Duration) {
		if v := os.Getenv(name); v != "" {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = d
		}
	}
	setList := func(name string, dst *[]string) {
		if v := os.Getenv(name); v != "" {
			*dst = splitList(v)
		}
	}

	// Catalog
	setString("PLAYHARVEST_BASE_URL", &c.Catalog.BaseURL)
	setString("PLAYHARVEST_API_KEY", &c.Catalog.APIKey)
	setString("PLAYHARVEST_USER_AGENT", &c.Catalog.UserAgent)
	setDuration("PLAYHARVEST_TIMEOUT", &c.Catalog.Timeout)

	// Rate limiting and retry
	setInt("PLAYHARVEST_REQUESTS_PER_MINUTE", &c.RateLimit.RequestsPerMinute)
	setString("PLAYHARVEST_RATE_LIMIT_STRATEGY", &c.RateLimit.Strategy)
	setInt("PLAYHARVEST_MAX_ATTEMPTS", &c.Retry.MaxAttempts)
	setString("PLAYHARVEST_RETRY_BACKOFF", &c.Retry.Backoff)

	// Harvest
	setString("PLAYHARVEST_MODE", &c.Harvest.Mode)
	setList("PLAYHARVEST_COUNTRIES", &c.Harvest.Countries)
	setList("PLAYHARVEST_CATEGORIES", &c.Harvest.Categories)
	setList("PLAYHARVEST_COLLECTIONS", &c.Harvest.Collections)
	setInt("PLAYHARVEST_BATCH_SIZE", &c.Harvest.BatchSize)
	setDuration("PLAYHARVEST_PAGE_DELAY", &c.Harvest.PageDelay)
	setInt("PLAYHARVEST_MAX_INSTALLS", &c.Harvest.MaxInstalls)
	setInt("PLAYHARVEST_MONTHS", &c.Harvest.Months)
	setString("PLAYHARVEST_START_DATE", &c.Harvest.StartDate)
	setString("PLAYHARVEST_END_DATE", &c.Harvest.EndDate)
	setString("PLAYHARVEST_TARGET_DATE", &c.Harvest.TargetDate)

	// Output
	setString("PLAYHARVEST_OUTPUT_FILE", &c.Output.File)
	setString("PLAYHARVEST_CHECKPOINT_FILE", &c.Output.Checkpoint)
	setString("PLAYHARVEST_SUMMARY_FILE", &c.Output.Summary)

	// Logging
	setString("PLAYHARVEST_LOG_LEVEL", &c.Logging.Level)
	setString("PLAYHARVEST_LOG_FILE", &c.Logging.File)

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".playharvest.yaml",
		".playharvest.yml",
		filepath.Join(home, ".config", "playharvest", "config.yaml"),
		filepath.Join(home, ".config", "playharvest", "config.yml"),
		filepath.Join(home, ".playharvest.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// DefaultPath is where `config init` writes a new configuration file
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "playharvest", "config.yaml")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Catalog
	if c.Catalog.BaseURL == "" {
		errs = append(errs, errors.New("catalog base URL is required"))
	} else if u, err := url.Parse(c.Catalog.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid catalog base URL: %q", c.Catalog.BaseURL))
	}
	if c.Catalog.Timeout <= 0 {
		errs = append(errs, errors.New("catalog timeout must be positive"))
	}

	// Rate limiting
	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}
	switch c.RateLimit.Strategy {
	case "token_bucket", "sliding_window":
	default:
		errs = append(errs, fmt.Errorf("invalid rate limit strategy: %q", c.RateLimit.Strategy))
	}

	// Retry
	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, errors.New("max attempts must be at least 1"))
	}
	switch c.Retry.Backoff {
	case "", "exponential", "linear", "constant":
	default:
		errs = append(errs, fmt.Errorf("invalid retry backoff: %q", c.Retry.Backoff))
	}
	if c.Retry.BaseDelay < 0 || c.Retry.MaxJitter < 0 {
		errs = append(errs, errors.New("retry delays cannot be negative"))
	}

	// Harvest
	h := c.Harvest
	if h.Mode != ModeSearch && h.Mode != ModeCollections {
		errs = append(errs, fmt.Errorf("invalid harvest mode: %q", h.Mode))
	}
	if len(h.Countries) == 0 {
		errs = append(errs, errors.New("at least one country is required"))
	}
	for _, country := range h.Countries {
		if len(country) != 2 {
			errs = append(errs, fmt.Errorf("invalid country code: %q", country))
		}
	}
	if h.BatchSize <= 0 {
		errs = append(errs, errors.New("batch size must be positive"))
	}
	if h.PageDelay < 0 {
		errs = append(errs, errors.New("page delay cannot be negative"))
	}
	if h.MaxInstalls < 0 {
		errs = append(errs, errors.New("max installs cannot be negative"))
	}
	if h.Months <= 0 {
		errs = append(errs, errors.New("months must be positive"))
	}
	start, startErr := parseOptionalDate("start date", h.StartDate)
	end, endErr := parseOptionalDate("end date", h.EndDate)
	_, targetErr := parseOptionalDate("target date", h.TargetDate)
	errs = append(errs, startErr, endErr, targetErr)
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		errs = append(errs, errors.New("start date must not be after end date"))
	}

	// Output
	if c.Output.File == "" {
		errs = append(errs, errors.New("output file is required"))
	}
	if c.Output.Checkpoint == "" {
		errs = append(errs, errors.New("checkpoint file is required"))
	}

	// Logging
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	return errors.Join(errs...)
}

func parseOptionalDate(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: expected YYYY-MM-DD", name, value)
	}
	return t, nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only flags the user actually set are expected in the map.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["base-url"].(string); ok && v != "" {
		c.Catalog.BaseURL = v
	}
	if v, ok := flags["mode"].(string); ok && v != "" {
		c.Harvest.Mode = v
	}
	if v, ok := flags["country"].([]string); ok && len(v) > 0 {
		c.Harvest.Countries = v
	}
	if v, ok := flags["category"].([]string); ok && len(v) > 0 {
		c.Harvest.Categories = v
	}
	if v, ok := flags["collection"].([]string); ok && len(v) > 0 {
		c.Harvest.Collections = v
	}
	if v, ok := flags["batch-size"].(int); ok && v > 0 {
		c.Harvest.BatchSize = v
	}
	if v, ok := flags["page-delay"].(time.Duration); ok {
		c.Harvest.PageDelay = v
	}
	if v, ok := flags["max-installs"].(int); ok {
		c.Harvest.MaxInstalls = v
	}
	if v, ok := flags["start-date"].(string); ok && v != "" {
		c.Harvest.StartDate = v
	}
	if v, ok := flags["end-date"].(string); ok && v != "" {
		c.Harvest.EndDate = v
	}
	if v, ok := flags["target-date"].(string); ok && v != "" {
		c.Harvest.TargetDate = v
	}
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.File = v
	}
	if v, ok := flags["checkpoint"].(string); ok && v != "" {
		c.Output.Checkpoint = v
	}
	if v, ok := flags["summary"].(string); ok && v != "" {
		c.Output.Summary = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".playharvest.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
