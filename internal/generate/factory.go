package generate

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/product-compare/internal/config"
	"github.com/sells-group/product-compare/internal/cost"
	"github.com/sells-group/product-compare/internal/resilience"
	"github.com/sells-group/product-compare/pkg/anthropic"
	"github.com/sells-group/product-compare/pkg/deepseek"
	"github.com/sells-group/product-compare/pkg/gemini"
)

// New builds the guarded generator selected by cfg.AI.Provider. It returns
// a nil Generator for the "none" provider.
func New(ctx context.Context, cfg *config.Config) (Generator, error) {
	params := DefaultParams()
	params.Temperature = cfg.AI.Temperature
	if cfg.AI.MaxTokens > 0 {
		params.MaxTokens = cfg.AI.MaxTokens
	}
	calc := cost.NewCalculator(cfg.Pricing.Models...)

	var gen Generator
	switch cfg.AI.Provider {
	case config.ProviderNone:
		return nil, nil
	case config.ProviderAnthropic:
		params.Model = cfg.Anthropic.Model
		client := anthropic.NewClient(cfg.Anthropic.Key, anthropic.WithBaseURL(cfg.Anthropic.BaseURL))
		gen = NewAnthropic(client, params, calc)
	case config.ProviderDeepSeek:
		params.Model = cfg.DeepSeek.Model
		client := deepseek.NewClient(cfg.DeepSeek.Key,
			deepseek.WithBaseURL(cfg.DeepSeek.BaseURL),
			deepseek.WithModel(cfg.DeepSeek.Model),
		)
		gen = NewDeepSeek(client, params, calc)
	case config.ProviderGemini:
		params.Model = cfg.Gemini.Model
		var opts []gemini.Option
		if cfg.Gemini.BaseURL != "" {
			opts = append(opts, gemini.WithBaseURL(cfg.Gemini.BaseURL))
		}
		client, err := gemini.NewClient(ctx, cfg.Gemini.Key, opts...)
		if err != nil {
			return nil, eris.Wrap(err, "generate: new gemini client")
		}
		gen = NewGemini(client, params, calc)
	default:
		return nil, eris.Errorf("generate: unknown provider %q", cfg.AI.Provider)
	}

	breaker := NewBreaker(cfg.AI.Provider, resilience.FromBreakerConfig(cfg.Breaker.FailureThreshold, cfg.Breaker.ResetTimeoutSecs))
	return NewGuard(cfg.AI.Provider, gen,
		WithRateLimit(cfg.AI.RatePerSec),
		WithTimeout(time.Duration(cfg.AI.TimeoutSecs)*time.Second),
		WithBreaker(breaker),
	), nil
}
