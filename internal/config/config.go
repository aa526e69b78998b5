package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/product-compare/internal/cost"
	"github.com/sells-group/product-compare/internal/prompt"
)

// Provider names accepted in ai.provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderDeepSeek  = "deepseek"
	ProviderGemini    = "gemini"
	// ProviderNone disables generation; every comparison is built locally.
	ProviderNone = "none"
)

// Config holds the full application configuration.
type Config struct {
	AI        AIConfig        `yaml:"ai" mapstructure:"ai"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	DeepSeek  DeepSeekConfig  `yaml:"deepseek" mapstructure:"deepseek"`
	Gemini    GeminiConfig    `yaml:"gemini" mapstructure:"gemini"`
	Breaker   BreakerConfig   `yaml:"breaker" mapstructure:"breaker"`
	Prompt    PromptConfig    `yaml:"prompt" mapstructure:"prompt"`
	Pricing   PricingConfig   `yaml:"pricing" mapstructure:"pricing"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AIConfig selects the generation provider and its call parameters.
type AIConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// DeepSeekConfig holds DeepSeek API settings.
type DeepSeekConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// GeminiConfig holds Google Gemini API settings.
type GeminiConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// BreakerConfig configures the provider circuit breaker.
type BreakerConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// PromptConfig bounds the reviews placed in a prompt.
type PromptConfig struct {
	MaxReviews     int `yaml:"max_reviews" mapstructure:"max_reviews"`
	MaxReviewChars int `yaml:"max_review_chars" mapstructure:"max_review_chars"`
}

// PricingConfig overrides the built-in model rates.
type PricingConfig struct {
	Models []cost.ModelRate `yaml:"models" mapstructure:"models"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config.yaml and the environment, in
// increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: read .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("COMPARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Provider keys also come from their conventional variables.
	for key, names := range map[string][]string{
		"anthropic.key": {"COMPARE_ANTHROPIC_KEY", "ANTHROPIC_API_KEY"},
		"deepseek.key":  {"COMPARE_DEEPSEEK_KEY", "DEEPSEEK_API_KEY"},
		"gemini.key":    {"COMPARE_GEMINI_KEY", "GEMINI_API_KEY"},
	} {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, eris.Wrapf(err, "config: bind %s", key)
		}
	}

	// Defaults
	v.SetDefault("ai.provider", ProviderDeepSeek)
	v.SetDefault("ai.max_tokens", 3000)
	v.SetDefault("ai.temperature", 0.3)
	v.SetDefault("ai.timeout_secs", 120)
	v.SetDefault("ai.rate_per_sec", 1.0)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.base_url", "")
	v.SetDefault("deepseek.base_url", "https://api.deepseek.com/v1")
	v.SetDefault("deepseek.model", "deepseek-chat")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("breaker.failure_threshold", 5)
	v.SetDefault("breaker.reset_timeout_secs", 30)
	v.SetDefault("prompt.max_reviews", 5)
	v.SetDefault("prompt.max_review_chars", 300)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))

	return &cfg, nil
}

// Validate checks the settings a command needs. mode is "compare" or
// "serve". All problems are reported together.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "compare":
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be > 0 and <= 65535")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.AI.Provider {
	case ProviderAnthropic:
		if c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required")
		}
	case ProviderDeepSeek:
		if c.DeepSeek.Key == "" {
			problems = append(problems, "deepseek.key is required")
		}
	case ProviderGemini:
		if c.Gemini.Key == "" {
			problems = append(problems, "gemini.key is required")
		}
	case ProviderNone:
	default:
		problems = append(problems, "ai.provider must be one of anthropic, deepseek, gemini, none")
	}

	if c.AI.MaxTokens <= 0 {
		problems = append(problems, "ai.max_tokens must be > 0")
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		problems = append(problems, "ai.temperature must be between 0 and 2")
	}
	if c.AI.RatePerSec < 0 {
		problems = append(problems, "ai.rate_per_sec must be >= 0")
	}
	if c.Prompt.MaxReviews < 0 || c.Prompt.MaxReviewChars < 0 {
		problems = append(problems, "prompt limits must be >= 0")
	}
	if c.Prompt.MaxReviews > prompt.MaxReviews {
		problems = append(problems, fmt.Sprintf("prompt.max_reviews must be <= %d", prompt.MaxReviews))
	}
	if c.Prompt.MaxReviewChars > prompt.MaxReviewRunes {
		problems = append(problems, fmt.Sprintf("prompt.max_review_chars must be <= %d", prompt.MaxReviewRunes))
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
