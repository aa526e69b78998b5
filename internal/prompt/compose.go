// Package prompt builds the text sent to the generation service for a
// two-product comparison.
package prompt

import (
	"fmt"
	"strings"

	"github.com/sells-group/product-compare/internal/align"
	"github.com/sells-group/product-compare/internal/model"
)

// Payload bounds for the downstream service.
const (
	MaxReviews     = 5
	MaxReviewRunes = 300
)

// SystemPrompt is the system instruction for providers that accept one.
const SystemPrompt = "You are a helpful assistant that analyzes e-commerce products and compares them accurately. Always respond with valid JSON as instructed."

const productTemplate = `Here are the details for Product %s:
Title: %s
Price: %s
Rating: %s/5 (%d reviews)
Description: %s

Specifications:
%s
Here are some reviews for Product %s:
%s`

const instructions = `You are comparing two similar products based on customer feedback and product data. Your goal is to extract clear, actionable differences that help a seller:
- position their product better
- understand competitive weaknesses
- identify features to emphasize, improve, or de-emphasize

Respond with a single JSON object matching this schema:
{
  "productAdvantages": [
    {
      "feature": "string (e.g., 'Battery Life')",
      "betterSide": "A or B",
      "summary": "string (why this product wins here)",
      "quote": "string (optional review quote that supports it)"
    }
  ],
  "criticalWeaknesses": [
    {
      "feature": "string (e.g., 'Build Quality')",
      "worseSide": "A or B",
      "issue": "string (what customers complained about)",
      "severity": "low | medium | high"
    }
  ],
  "sharedStrengths": ["string"],
  "uniqueSellingPoints": {
    "A": ["string (selling point unique to A)"],
    "B": ["string (selling point unique to B)"]
  },
  "buyerRecommendation": "string (which buyer would prefer A vs B, with reasoning)"
}

Focus on what matters to buyers, not spec-sheet trivia.
Use review-backed insights, not assumptions.
Be blunt but fair. If one product clearly wins on something, say it.
If a product is better for a certain audience or use case, say so in buyerRecommendation.
Return only the JSON object.`

// Options bounds the review section. Zero values fall back to MaxReviews and
// MaxReviewRunes, and larger values are capped at them.
type Options struct {
	MaxReviews     int
	MaxReviewRunes int
}

// Compose renders both bundles followed by the instruction block. The output
// depends only on its inputs.
func Compose(a, b *model.ProductBundle) string {
	return ComposeWith(a, b, Options{})
}

// ComposeWith is Compose with explicit review bounds.
func ComposeWith(a, b *model.ProductBundle, opts Options) string {
	if opts.MaxReviews <= 0 || opts.MaxReviews > MaxReviews {
		opts.MaxReviews = MaxReviews
	}
	if opts.MaxReviewRunes <= 0 || opts.MaxReviewRunes > MaxReviewRunes {
		opts.MaxReviewRunes = MaxReviewRunes
	}

	var sb strings.Builder
	sb.WriteString(product(model.SideA, a, opts))
	sb.WriteString("\n")
	sb.WriteString(product(model.SideB, b, opts))
	sb.WriteString("\n")
	sb.WriteString(instructions)
	sb.WriteString("\n")
	return sb.String()
}

func product(side model.Side, b *model.ProductBundle, opts Options) string {
	var details model.ProductDetails
	if b != nil && b.Details != nil {
		details = *b.Details
	}

	title := orDefault(b.Title(), fmt.Sprintf("Unknown Product %s", side))
	price := orDefault(strings.TrimSpace(details.Price), "Unknown Price")
	desc := orDefault(strings.TrimSpace(details.Description), "No description available")

	var summary model.RatingSummary
	var reviews []model.Review
	if b != nil {
		summary = effectiveSummary(b)
		reviews = b.Reviews
	}

	return fmt.Sprintf(productTemplate,
		side, title, price,
		formatRating(summary.Average), summary.Total,
		desc,
		formatSpecs(align.Flatten(details.Specifications, details.DetailBullets)),
		side, formatReviews(reviews, opts),
	)
}

// effectiveSummary prefers the storefront summary and falls back to the
// review corpus when the summary is empty.
func effectiveSummary(b *model.ProductBundle) model.RatingSummary {
	if b.RatingSummary.Average > 0 || b.RatingSummary.Total > 0 || len(b.Reviews) == 0 {
		return b.RatingSummary
	}
	var sum float64
	for _, r := range b.Reviews {
		sum += r.Rating
	}
	return model.RatingSummary{
		Average: sum / float64(len(b.Reviews)),
		Total:   len(b.Reviews),
	}
}

func formatRating(avg float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", avg), "0"), ".")
}

func formatSpecs(specs model.Specs) string {
	if len(specs) == 0 {
		return "None listed.\n"
	}
	var sb strings.Builder
	for _, sp := range specs {
		fmt.Fprintf(&sb, "- %s: %s\n", strings.TrimSpace(sp.Key), strings.TrimSpace(sp.Value))
	}
	return sb.String()
}

func formatReviews(reviews []model.Review, opts Options) string {
	if len(reviews) == 0 {
		return "No reviews available.\n"
	}
	if len(reviews) > opts.MaxReviews {
		reviews = reviews[:opts.MaxReviews]
	}

	var sb strings.Builder
	for i, r := range reviews {
		fmt.Fprintf(&sb, "Review %d:\n", i+1)
		fmt.Fprintf(&sb, "Rating: %s/5\n", formatRating(r.Rating))
		if r.Verified {
			sb.WriteString("Verified purchase\n")
		}
		if t := strings.TrimSpace(r.Title); t != "" {
			fmt.Fprintf(&sb, "Title: %s\n", t)
		}
		fmt.Fprintf(&sb, "Content: %s\n\n", Truncate(strings.TrimSpace(r.Text), opts.MaxReviewRunes))
	}
	return sb.String()
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
