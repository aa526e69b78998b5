package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// inTempDir runs the test from an empty directory so no config.yaml or
// .env is picked up.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

// clearEnv unsets name for the duration of the test.
func clearEnv(t *testing.T, name string) {
	t.Helper()
	t.Setenv(name, "")
	require.NoError(t, os.Unsetenv(name))
}

func TestLoadDefaults(t *testing.T) {
	inTempDir(t)
	clearEnv(t, "DEEPSEEK_API_KEY")
	clearEnv(t, "COMPARE_DEEPSEEK_KEY")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderDeepSeek, cfg.AI.Provider)
	assert.Equal(t, 3000, cfg.AI.MaxTokens)
	assert.InDelta(t, 0.3, cfg.AI.Temperature, 0.001)
	assert.Equal(t, 120, cfg.AI.TimeoutSecs)
	assert.InDelta(t, 1.0, cfg.AI.RatePerSec, 0.001)
	assert.Equal(t, "https://api.deepseek.com/v1", cfg.DeepSeek.BaseURL)
	assert.Equal(t, "deepseek-chat", cfg.DeepSeek.Model)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.Model)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 5, cfg.Breaker.FailureThreshold)
	assert.Equal(t, 30, cfg.Breaker.ResetTimeoutSecs)
	assert.Equal(t, 5, cfg.Prompt.MaxReviews)
	assert.Equal(t, 300, cfg.Prompt.MaxReviewChars)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.DeepSeek.Key)
	assert.Empty(t, cfg.Pricing.Models)
}

func TestLoadFromYAML(t *testing.T) {
	dir := inTempDir(t)

	yaml := `
ai:
  provider: Gemini
  temperature: 0.5
gemini:
  key: g-key
log:
  level: debug
  format: console
server:
  port: 9090
pricing:
  models:
    - model: gemini-2.5-flash
      input: 0.1
      output: 0.4
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.InDelta(t, 0.5, cfg.AI.Temperature, 0.001)
	assert.Equal(t, "g-key", cfg.Gemini.Key)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	require.Len(t, cfg.Pricing.Models, 1)
	assert.Equal(t, "gemini-2.5-flash", cfg.Pricing.Models[0].Model)
	assert.InDelta(t, 0.4, cfg.Pricing.Models[0].Output, 0.001)
	// Defaults still apply for unset values
	assert.Equal(t, 3000, cfg.AI.MaxTokens)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := inTempDir(t)

	yaml := `
ai:
  provider: anthropic
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("COMPARE_AI_PROVIDER", "deepseek")
	t.Setenv("COMPARE_LOG_LEVEL", "warn")
	t.Setenv("COMPARE_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderDeepSeek, cfg.AI.Provider)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadConventionalKeyVariables(t *testing.T) {
	inTempDir(t)
	clearEnv(t, "COMPARE_ANTHROPIC_KEY")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("GEMINI_API_KEY", "g-conventional")
	t.Setenv("COMPARE_GEMINI_KEY", "g-prefixed")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-ant", cfg.Anthropic.Key)
	assert.Equal(t, "g-prefixed", cfg.Gemini.Key)
}

func TestLoadDotEnv(t *testing.T) {
	dir := inTempDir(t)
	clearEnv(t, "COMPARE_DEEPSEEK_KEY")
	clearEnv(t, "DEEPSEEK_API_KEY")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DEEPSEEK_API_KEY=sk-from-dotenv\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-from-dotenv", cfg.DeepSeek.Key)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("ai: [unclosed"), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.NotNil(t, zap.L())

	assert.Error(t, InitLogger(LogConfig{Level: "invalid", Format: "json"}))
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.AI.Provider = ProviderDeepSeek
	cfg.AI.MaxTokens = 3000
	cfg.AI.Temperature = 0.3
	cfg.AI.RatePerSec = 1
	cfg.DeepSeek.Key = "sk-test"
	cfg.Server.Port = 8080
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		mutate  func(*Config)
		wantErr []string
	}{
		{name: "compare ok", mode: "compare", mutate: func(*Config) {}},
		{name: "serve ok", mode: "serve", mutate: func(*Config) {}},
		{
			name:    "missing deepseek key",
			mode:    "compare",
			mutate:  func(c *Config) { c.DeepSeek.Key = "" },
			wantErr: []string{"deepseek.key is required"},
		},
		{
			name:    "missing anthropic key",
			mode:    "compare",
			mutate:  func(c *Config) { c.AI.Provider = ProviderAnthropic },
			wantErr: []string{"anthropic.key is required"},
		},
		{
			name:    "missing gemini key",
			mode:    "compare",
			mutate:  func(c *Config) { c.AI.Provider = ProviderGemini },
			wantErr: []string{"gemini.key is required"},
		},
		{
			name: "provider none needs no key",
			mode: "compare",
			mutate: func(c *Config) {
				c.AI.Provider = ProviderNone
				c.DeepSeek.Key = ""
			},
		},
		{
			name:    "unknown provider",
			mode:    "compare",
			mutate:  func(c *Config) { c.AI.Provider = "openai" },
			wantErr: []string{"ai.provider must be one of"},
		},
		{
			name:    "invalid port",
			mode:    "serve",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: []string{"server.port must be > 0"},
		},
		{
			name: "several problems reported together",
			mode: "compare",
			mutate: func(c *Config) {
				c.AI.MaxTokens = 0
				c.AI.Temperature = 3
				c.AI.RatePerSec = -1
				c.Prompt.MaxReviews = -1
			},
			wantErr: []string{
				"ai.max_tokens must be > 0",
				"ai.temperature must be between 0 and 2",
				"ai.rate_per_sec must be >= 0",
				"prompt limits must be >= 0",
			},
		},
		{
			name: "prompt limits above payload cap",
			mode: "compare",
			mutate: func(c *Config) {
				c.Prompt.MaxReviews = 6
				c.Prompt.MaxReviewChars = 301
			},
			wantErr: []string{
				"prompt.max_reviews must be <= 5",
				"prompt.max_review_chars must be <= 300",
			},
		},
		{
			name:   "prompt limits at payload cap",
			mode:   "compare",
			mutate: func(c *Config) { c.Prompt.MaxReviews, c.Prompt.MaxReviewChars = 5, 300 },
		},
		{
			name:    "unknown mode",
			mode:    "batch",
			mutate:  func(*Config) {},
			wantErr: []string{"unknown mode"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate(tt.mode)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
