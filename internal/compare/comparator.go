// Package compare sequences a two-product comparison: bundle validation,
// specification alignment, prompt composition, one generation call and
// response extraction.
package compare

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/product-compare/internal/align"
	"github.com/sells-group/product-compare/internal/extract"
	"github.com/sells-group/product-compare/internal/model"
	"github.com/sells-group/product-compare/internal/prompt"
	"github.com/sells-group/product-compare/internal/resilience"
)

// Generator produces free-form text for a prompt. Implementations make a
// single blocking request and do not retry.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithPromptOptions overrides the review bounds used when composing prompts.
func WithPromptOptions(opts prompt.Options) Option {
	return func(c *Comparator) {
		c.promptOpts = opts
	}
}

// Comparator runs comparisons against a Generator. It holds no per-call
// state and is safe for concurrent use when the Generator is.
type Comparator struct {
	gen        Generator
	promptOpts prompt.Options
}

// New creates a Comparator. A nil gen is allowed: every comparison is then
// built from local facts and marked degraded.
func New(gen Generator, opts ...Option) *Comparator {
	c := &Comparator{gen: gen}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compare validates both bundles and returns the assembled report. Only
// input errors are returned; a failed or unusable generation yields a
// degraded report instead.
func (c *Comparator) Compare(ctx context.Context, a, b *model.ProductBundle) (*model.Report, error) {
	if err := validate(a, b); err != nil {
		return nil, err
	}

	log := zap.L().With(
		zap.String("comparison_id", uuid.NewString()),
		zap.String("product_a", a.URL),
		zap.String("product_b", b.URL),
	)

	rows := align.AlignSpecifications(specsOf(a), specsOf(b))
	stats := model.ReviewStatsPair{A: ReviewStats(a.Reviews), B: ReviewStats(b.Reviews)}
	text := prompt.ComposeWith(a, b, c.promptOpts)

	log.Info("compare: starting",
		zap.Int("spec_rows", len(rows)),
		zap.Int("reviews_a", len(a.Reviews)),
		zap.Int("reviews_b", len(b.Reviews)),
		zap.Int("prompt_chars", len(text)),
	)

	report := &model.Report{
		SpecRows:    rows,
		ReviewStats: stats,
	}

	raw, err := c.generate(ctx, text)
	if err != nil {
		log.Warn("compare: generation failed, using local comparison",
			zap.Bool("transient", resilience.IsTransient(err)),
			zap.Error(err),
		)
		report.Comparison = localResult(a, b, rows, stats)
		return report, nil
	}

	out := extract.Extract(raw)
	report.Comparison = out.Result

	fields := []zap.Field{
		zap.String("outcome", out.Kind.String()),
		zap.String("strategy", out.Strategy),
		zap.Int("advantages", len(out.Result.ProductAdvantages)),
		zap.Int("weaknesses", len(out.Result.CriticalWeaknesses)),
		zap.Bool("degraded", out.Result.Degraded),
	}
	switch out.Kind {
	case extract.Fallback:
		log.Warn("compare: response could not be extracted", append(fields, zap.Strings("notes", out.Notes))...)
	case extract.PartialSuccess:
		log.Info("compare: complete with repairs", append(fields, zap.Strings("notes", out.Notes))...)
	default:
		log.Info("compare: complete", fields...)
	}
	return report, nil
}

// generate makes the single generation call. A missing generator and an
// empty response both count as no response.
func (c *Comparator) generate(ctx context.Context, text string) (string, error) {
	if c.gen == nil {
		return "", eris.New("compare: no generator configured")
	}
	raw, err := c.gen.Generate(ctx, text)
	if err != nil {
		return "", eris.Wrap(err, "compare: generate")
	}
	if strings.TrimSpace(raw) == "" {
		return "", eris.New("compare: empty response")
	}
	return raw, nil
}

// AlignBundles validates both bundles and returns their aligned
// specification rows, for spec-only views.
func AlignBundles(a, b *model.ProductBundle) ([]model.SpecRow, error) {
	if err := validate(a, b); err != nil {
		return nil, err
	}
	return align.AlignSpecifications(specsOf(a), specsOf(b)), nil
}

// specsOf merges the structured specifications with the detail bullets.
func specsOf(b *model.ProductBundle) model.Specs {
	return align.Flatten(b.Specifications(), b.DetailBullets())
}

func validate(a, b *model.ProductBundle) error {
	if err := a.Validate(model.SideA); err != nil {
		return eris.Wrap(err, "compare: validate")
	}
	if err := b.Validate(model.SideB); err != nil {
		return eris.Wrap(err, "compare: validate")
	}
	return nil
}
