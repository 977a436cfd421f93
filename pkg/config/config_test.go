package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:3000", cfg.Catalog.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 120, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "token_bucket", cfg.RateLimit.Strategy)

	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, "exponential", cfg.Retry.Backoff)
	assert.Equal(t, time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, time.Second, cfg.Retry.MaxJitter)

	assert.Equal(t, ModeSearch, cfg.Harvest.Mode)
	assert.Equal(t, []string{"us"}, cfg.Harvest.Countries)
	assert.Empty(t, cfg.Harvest.Categories)
	assert.Equal(t, 2500, cfg.Harvest.BatchSize)
	assert.Equal(t, 15*time.Second, cfg.Harvest.PageDelay)
	assert.Equal(t, 100000, cfg.Harvest.MaxInstalls)
	assert.Equal(t, 3, cfg.Harvest.Months)

	assert.Equal(t, "google_play_apps_past_three_months.xlsx", cfg.Output.File)
	assert.Equal(t, "collected_apps_past_three_months.json", cfg.Output.Checkpoint)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PLAYHARVEST_BASE_URL", "http://gateway:8080")
	t.Setenv("PLAYHARVEST_API_KEY", "secret")
	t.Setenv("PLAYHARVEST_REQUESTS_PER_MINUTE", "30")
	t.Setenv("PLAYHARVEST_MODE", "collections")
	t.Setenv("PLAYHARVEST_COUNTRIES", "us, gb ,de")
	t.Setenv("PLAYHARVEST_CATEGORIES", "TOOLS,GAME_PUZZLE")
	t.Setenv("PLAYHARVEST_BATCH_SIZE", "100")
	t.Setenv("PLAYHARVEST_PAGE_DELAY", "2s")
	t.Setenv("PLAYHARVEST_MAX_INSTALLS", "0")
	t.Setenv("PLAYHARVEST_OUTPUT_FILE", "/tmp/apps.csv")
	t.Setenv("PLAYHARVEST_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "http://gateway:8080", cfg.Catalog.BaseURL)
	assert.Equal(t, "secret", cfg.Catalog.APIKey)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, ModeCollections, cfg.Harvest.Mode)
	assert.Equal(t, []string{"us", "gb", "de"}, cfg.Harvest.Countries)
	assert.Equal(t, []string{"TOOLS", "GAME_PUZZLE"}, cfg.Harvest.Categories)
	assert.Equal(t, 100, cfg.Harvest.BatchSize)
	assert.Equal(t, 2*time.Second, cfg.Harvest.PageDelay)
	assert.Equal(t, 0, cfg.Harvest.MaxInstalls)
	assert.Equal(t, "/tmp/apps.csv", cfg.Output.File)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvInvalidValues(t *testing.T) {
	t.Setenv("PLAYHARVEST_BATCH_SIZE", "lots")
	t.Setenv("PLAYHARVEST_PAGE_DELAY", "soon")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PLAYHARVEST_BATCH_SIZE")
	assert.Contains(t, err.Error(), "PLAYHARVEST_PAGE_DELAY")

	// Malformed values leave defaults untouched
	assert.Equal(t, 2500, cfg.Harvest.BatchSize)
	assert.Equal(t, 15*time.Second, cfg.Harvest.PageDelay)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError string
	}{
		{
			name:   "defaults are valid",
			modify: func(c *Config) {},
		},
		{
			name:      "missing base URL",
			modify:    func(c *Config) { c.Catalog.BaseURL = "" },
			wantError: "catalog base URL is required",
		},
		{
			name:      "relative base URL",
			modify:    func(c *Config) { c.Catalog.BaseURL = "localhost" },
			wantError: "invalid catalog base URL",
		},
		{
			name:      "unknown strategy",
			modify:    func(c *Config) { c.RateLimit.Strategy = "leaky_bucket" },
			wantError: "invalid rate limit strategy",
		},
		{
			name:      "unknown backoff",
			modify:    func(c *Config) { c.Retry.Backoff = "fibonacci" },
			wantError: "invalid retry backoff",
		},
		{
			name:      "zero attempts",
			modify:    func(c *Config) { c.Retry.MaxAttempts = 0 },
			wantError: "max attempts must be at least 1",
		},
		{
			name:      "unknown mode",
			modify:    func(c *Config) { c.Harvest.Mode = "crawl" },
			wantError: "invalid harvest mode",
		},
		{
			name:      "no countries",
			modify:    func(c *Config) { c.Harvest.Countries = nil },
			wantError: "at least one country is required",
		},
		{
			name:      "bad country code",
			modify:    func(c *Config) { c.Harvest.Countries = []string{"usa"} },
			wantError: "invalid country code",
		},
		{
			name:      "zero batch size",
			modify:    func(c *Config) { c.Harvest.BatchSize = 0 },
			wantError: "batch size must be positive",
		},
		{
			name:      "bad start date",
			modify:    func(c *Config) { c.Harvest.StartDate = "01/02/2024" },
			wantError: "invalid start date",
		},
		{
			name: "inverted window",
			modify: func(c *Config) {
				c.Harvest.StartDate = "2024-06-01"
				c.Harvest.EndDate = "2024-03-01"
			},
			wantError: "start date must not be after end date",
		},
		{
			name:      "missing output file",
			modify:    func(c *Config) { c.Output.File = "" },
			wantError: "output file is required",
		},
		{
			name:      "invalid log level",
			modify:    func(c *Config) { c.Logging.Level = "verbose" },
			wantError: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Harvest.BatchSize = -1
	cfg.Output.Checkpoint = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch size must be positive")
	assert.Contains(t, err.Error(), "checkpoint file is required")
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()

	cfg.MergeCommandLineFlags(map[string]interface{}{
		"mode":         ModeCollections,
		"country":      []string{"fr"},
		"category":     []string{"TOOLS"},
		"batch-size":   50,
		"page-delay":   time.Duration(0),
		"max-installs": 0,
		"output":       "out.csv",
		"checkpoint":   "state.json",
		"log-level":    "error",
	})

	assert.Equal(t, ModeCollections, cfg.Harvest.Mode)
	assert.Equal(t, []string{"fr"}, cfg.Harvest.Countries)
	assert.Equal(t, []string{"TOOLS"}, cfg.Harvest.Categories)
	assert.Equal(t, 50, cfg.Harvest.BatchSize)
	assert.Equal(t, time.Duration(0), cfg.Harvest.PageDelay)
	assert.Equal(t, 0, cfg.Harvest.MaxInstalls)
	assert.Equal(t, "out.csv", cfg.Output.File)
	assert.Equal(t, "state.json", cfg.Output.Checkpoint)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestSaveAndLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Harvest.Countries = []string{"us", "gb"}
	cfg.Harvest.PageDelay = 3 * time.Second
	cfg.Output.Summary = "summary.json"

	require.NoError(t, cfg.Save(configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(configPath))
	assert.Equal(t, cfg, loaded)
}

func TestLoadFromFileDurations(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
catalog:
  base_url: http://gateway:9000
  timeout: 10s
harvest:
  mode: collections
  countries: [us, ca]
  page_delay: 500ms
  target_date: "2024-05-01"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(configPath))

	assert.Equal(t, "http://gateway:9000", cfg.Catalog.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, ModeCollections, cfg.Harvest.Mode)
	assert.Equal(t, []string{"us", "ca"}, cfg.Harvest.Countries)
	assert.Equal(t, 500*time.Millisecond, cfg.Harvest.PageDelay)
	assert.Equal(t, "2024-05-01", cfg.Harvest.TargetDate)
	// Untouched sections keep defaults
	assert.Equal(t, 2500, cfg.Harvest.BatchSize)
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("harvest: [unclosed"), 0644))

	err := DefaultConfig().LoadFromFile(configPath)
	assert.Error(t, err)
}

func TestLoadPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	fileCfg := DefaultConfig()
	fileCfg.Harvest.BatchSize = 10
	fileCfg.Harvest.Months = 6
	fileCfg.Logging.Level = "warn"
	data, err := yaml.Marshal(fileCfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(configPath, data, 0644))

	t.Setenv("PLAYHARVEST_BATCH_SIZE", "20")
	t.Setenv("PLAYHARVEST_LOG_LEVEL", "debug")

	cfg, err := Load(configPath, map[string]interface{}{
		"log-level": "error",
	})
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Harvest.Months)      // file
	assert.Equal(t, 20, cfg.Harvest.BatchSize)  // env over file
	assert.Equal(t, "error", cfg.Logging.Level) // flag over env
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("harvest:\n  mode: crawl\n"), 0644))

	_, err := Load(configPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}
