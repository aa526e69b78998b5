package cost

import (
	"go.uber.org/zap"
)

// ModelRate holds per-model token pricing in USD per million tokens.
type ModelRate struct {
	Model  string  `yaml:"model" mapstructure:"model"`
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// Rates maps model IDs to their pricing.
type Rates map[string]ModelRate

// Calculator computes costs for generation calls.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator from the default rates with overrides
// applied on top. Overrides without a model name are ignored.
func NewCalculator(overrides ...ModelRate) *Calculator {
	rates := DefaultRates()
	for _, r := range overrides {
		if r.Model == "" {
			continue
		}
		rates[r.Model] = r
	}
	return &Calculator{rates: rates}
}

// Tokens computes the cost of one call. Unknown models cost 0.
func (c *Calculator) Tokens(model string, input, output int64) float64 {
	rate, ok := c.rates[model]
	if !ok {
		return 0
	}
	return (float64(input)/1e6)*rate.Input + (float64(output)/1e6)*rate.Output
}

// Known reports whether model has a rate.
func (c *Calculator) Known(model string) bool {
	_, ok := c.rates[model]
	return ok
}

// Log records token usage and estimated cost for one call.
func (c *Calculator) Log(provider, model string, input, output int64) {
	zap.L().Info("cost attribution",
		zap.String("provider", provider),
		zap.String("model", model),
		zap.Int64("input_tokens", input),
		zap.Int64("output_tokens", output),
		zap.Float64("estimated_cost_usd", c.Tokens(model, input, output)),
	)
}

// DefaultRates returns list prices for the supported models.
func DefaultRates() Rates {
	rates := Rates{}
	for _, r := range []ModelRate{
		{Model: "claude-haiku-4-5-20251001", Input: 0.80, Output: 4.00},
		{Model: "claude-sonnet-4-5-20250929", Input: 3.00, Output: 15.00},
		{Model: "claude-opus-4-6", Input: 15.00, Output: 75.00},
		{Model: "deepseek-chat", Input: 0.27, Output: 1.10},
		{Model: "deepseek-reasoner", Input: 0.55, Output: 2.19},
		{Model: "gemini-2.5-flash", Input: 0.30, Output: 2.50},
		{Model: "gemini-2.5-pro", Input: 1.25, Output: 10.00},
	} {
		rates[r.Model] = r
	}
	return rates
}
