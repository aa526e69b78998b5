package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/product-compare/internal/compare"
	"github.com/sells-group/product-compare/internal/config"
	"github.com/sells-group/product-compare/internal/generate"
	"github.com/sells-group/product-compare/internal/prompt"
)

// newComparator builds a Comparator from configuration.
func newComparator(ctx context.Context, c *config.Config) (*compare.Comparator, error) {
	gen, err := generate.New(ctx, c)
	if err != nil {
		return nil, eris.Wrap(err, "build generator")
	}
	opts := []compare.Option{
		compare.WithPromptOptions(prompt.Options{
			MaxReviews:     c.Prompt.MaxReviews,
			MaxReviewRunes: c.Prompt.MaxReviewChars,
		}),
	}
	if gen == nil {
		zap.L().Info("generation disabled, comparisons will be built locally")
		return compare.New(nil, opts...), nil
	}
	zap.L().Info("generator ready", zap.String("provider", c.AI.Provider))
	return compare.New(gen, opts...), nil
}
