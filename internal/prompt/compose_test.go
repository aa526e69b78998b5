package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/product-compare/internal/model"
)

func testBundle(name string, reviews int, textLen int) *model.ProductBundle {
	b := &model.ProductBundle{
		URL: "https://example.com/" + name,
		Details: &model.ProductDetails{
			Description: name + " Blender. Crushes ice.",
			Price:       "$49.99",
			Specifications: model.Specs{
				{Key: "Brand", Value: name},
				{Key: "Capacity", Value: "2 L"},
			},
		},
		RatingSummary: model.RatingSummary{Average: 4.5, Total: 1200},
	}
	for i := 0; i < reviews; i++ {
		b.Reviews = append(b.Reviews, model.Review{
			ReviewerName: fmt.Sprintf("r%d", i),
			Rating:       5,
			Text:         fmt.Sprintf("review-%d ", i) + strings.Repeat("x", textLen),
			Verified:     i%2 == 0,
		})
	}
	return b
}

func TestCompose_ContainsBothProducts(t *testing.T) {
	t.Parallel()

	out := Compose(testBundle("Acme", 2, 10), testBundle("Globex", 1, 10))

	assert.Contains(t, out, "Here are the details for Product A:")
	assert.Contains(t, out, "Here are the details for Product B:")
	assert.Contains(t, out, "Title: Acme Blender")
	assert.Contains(t, out, "Title: Globex Blender")
	assert.Contains(t, out, "Price: $49.99")
	assert.Contains(t, out, "Rating: 4.5/5 (1200 reviews)")
	assert.Contains(t, out, "- Capacity: 2 L")
	assert.Contains(t, out, "blunt but fair")
	assert.Contains(t, out, "review-backed insights, not assumptions")
	assert.Contains(t, out, `"productAdvantages"`)
	assert.Contains(t, out, `"uniqueSellingPoints"`)
	assert.Contains(t, out, `"buyerRecommendation"`)

	// Product A precedes product B.
	assert.Less(t, strings.Index(out, "Product A:"), strings.Index(out, "Product B:"))
}

func TestCompose_BoundsReviews(t *testing.T) {
	t.Parallel()

	out := Compose(testBundle("Acme", 9, 1000), testBundle("Globex", 0, 0))

	assert.Contains(t, out, "review-4 ")
	assert.NotContains(t, out, "review-5 ")
	assert.NotContains(t, out, "Review 6:")
	assert.NotContains(t, out, strings.Repeat("x", MaxReviewRunes))
	assert.Contains(t, out, "No reviews available.")
}

func TestCompose_ReviewTruncatedTo300Runes(t *testing.T) {
	t.Parallel()

	b := testBundle("Acme", 0, 0)
	b.Reviews = []model.Review{{Rating: 3, Text: strings.Repeat("é", 400)}}

	out := Compose(b, testBundle("Globex", 0, 0))
	assert.Contains(t, out, "Content: "+strings.Repeat("é", 300)+"\n")
	assert.NotContains(t, out, strings.Repeat("é", 301))
}

func TestCompose_Deterministic(t *testing.T) {
	t.Parallel()

	a, b := testBundle("Acme", 7, 50), testBundle("Globex", 3, 50)
	assert.Equal(t, Compose(a, b), Compose(a, b))
}

func TestCompose_MissingFieldsUseDefaults(t *testing.T) {
	t.Parallel()

	a := &model.ProductBundle{Details: &model.ProductDetails{Price: "$5"}}
	b := &model.ProductBundle{
		Details: &model.ProductDetails{Description: "Thing"},
		Reviews: []model.Review{{Rating: 4}, {Rating: 2}},
	}

	out := Compose(a, b)
	assert.Contains(t, out, "Title: Unknown Product A")
	assert.Contains(t, out, "Description: No description available")
	assert.Contains(t, out, "Price: Unknown Price")
	assert.Contains(t, out, "None listed.")
	// Rating summary falls back to the review corpus.
	assert.Contains(t, out, "Rating: 3/5 (2 reviews)")
}

func TestComposeWith_CustomBounds(t *testing.T) {
	t.Parallel()

	out := ComposeWith(testBundle("Acme", 5, 100), testBundle("Globex", 0, 0), Options{MaxReviews: 2, MaxReviewRunes: 20})
	assert.Contains(t, out, "Review 2:")
	assert.NotContains(t, out, "Review 3:")
	assert.NotContains(t, out, strings.Repeat("x", 20))
}

func TestComposeWith_BoundsAreCapped(t *testing.T) {
	t.Parallel()

	out := ComposeWith(testBundle("Acme", 8, 400), testBundle("Globex", 0, 0), Options{MaxReviews: 50, MaxReviewRunes: 5000})
	assert.Contains(t, out, "Review 5:")
	assert.NotContains(t, out, "Review 6:")
	assert.NotContains(t, out, strings.Repeat("x", MaxReviewRunes))
}

func TestCompose_DetailBulletsListedAfterSpecifications(t *testing.T) {
	t.Parallel()

	a := testBundle("Acme", 0, 0)
	a.Details.DetailBullets = []string{
		"\u200eItem Weight\u200e : 4.2 pounds",
		"Brand: Ignored",
		"Additional Details:",
	}
	out := Compose(a, testBundle("Globex", 0, 0))
	assert.Contains(t, out, "- Capacity: 2 L\n- Item Weight: 4.2 pounds\n")
	assert.NotContains(t, out, "Brand: Ignored")
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "日本", Truncate("日本語", 2))
}
