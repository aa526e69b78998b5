// Package generate adapts the provider clients to the single-call text
// generation used by comparisons, and guards them with rate limiting and a
// circuit breaker.
package generate

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/product-compare/internal/cost"
	"github.com/sells-group/product-compare/internal/prompt"
	"github.com/sells-group/product-compare/pkg/anthropic"
	"github.com/sells-group/product-compare/pkg/deepseek"
	"github.com/sells-group/product-compare/pkg/gemini"
)

// Generator produces text for a prompt in one request.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Params are the per-call generation settings shared by all providers.
type Params struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// DefaultParams returns the settings comparisons were tuned with.
func DefaultParams() Params {
	return Params{MaxTokens: 3000, Temperature: 0.3}
}

// Anthropic generates with the Anthropic Messages API.
type Anthropic struct {
	client anthropic.Client
	params Params
	calc   *cost.Calculator
}

// NewAnthropic creates an Anthropic generator. calc may be nil.
func NewAnthropic(client anthropic.Client, params Params, calc *cost.Calculator) *Anthropic {
	if params.Model == "" {
		params.Model = anthropic.DefaultModel
	}
	return &Anthropic{client: client, params: params, calc: calc}
}

// Generate sends prompt as a single user message.
func (g *Anthropic) Generate(ctx context.Context, text string) (string, error) {
	temp := g.params.Temperature
	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       g.params.Model,
		MaxTokens:   int64(g.params.MaxTokens),
		System:      prompt.SystemPrompt,
		Messages:    []anthropic.Message{{Role: "user", Content: text}},
		Temperature: &temp,
	})
	if err != nil {
		return "", eris.Wrap(err, "generate: anthropic")
	}
	if g.calc != nil {
		g.calc.Log("anthropic", g.params.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}
	return resp.Text(), nil
}

// DeepSeek generates with the DeepSeek chat completions API.
type DeepSeek struct {
	client deepseek.Client
	params Params
	calc   *cost.Calculator
}

// NewDeepSeek creates a DeepSeek generator. calc may be nil.
func NewDeepSeek(client deepseek.Client, params Params, calc *cost.Calculator) *DeepSeek {
	if params.Model == "" {
		params.Model = deepseek.DefaultModel
	}
	return &DeepSeek{client: client, params: params, calc: calc}
}

// Generate sends the system instruction and prompt as one conversation.
func (g *DeepSeek) Generate(ctx context.Context, text string) (string, error) {
	temp, maxTokens := g.params.Temperature, g.params.MaxTokens
	resp, err := g.client.ChatCompletion(ctx, deepseek.ChatCompletionRequest{
		Model: g.params.Model,
		Messages: []deepseek.Message{
			{Role: "system", Content: prompt.SystemPrompt},
			{Role: "user", Content: text},
		},
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return "", eris.Wrap(err, "generate: deepseek")
	}
	if g.calc != nil {
		g.calc.Log("deepseek", g.params.Model, int64(resp.Usage.PromptTokens), int64(resp.Usage.CompletionTokens))
	}
	return resp.Text(), nil
}

// Gemini generates with the Google Gemini API.
type Gemini struct {
	client gemini.Client
	params Params
	calc   *cost.Calculator
}

// NewGemini creates a Gemini generator. calc may be nil.
func NewGemini(client gemini.Client, params Params, calc *cost.Calculator) *Gemini {
	if params.Model == "" {
		params.Model = gemini.DefaultModel
	}
	return &Gemini{client: client, params: params, calc: calc}
}

// Generate requests a JSON response for prompt.
func (g *Gemini) Generate(ctx context.Context, text string) (string, error) {
	temp := float32(g.params.Temperature)
	resp, err := g.client.GenerateContent(ctx, gemini.Request{
		Model:           g.params.Model,
		System:          prompt.SystemPrompt,
		Prompt:          text,
		Temperature:     &temp,
		MaxOutputTokens: int32(g.params.MaxTokens),
		JSON:            true,
	})
	if err != nil {
		return "", eris.Wrap(err, "generate: gemini")
	}
	if g.calc != nil {
		g.calc.Log("gemini", g.params.Model, resp.InputTokens, resp.OutputTokens)
	}
	return resp.Text, nil
}
