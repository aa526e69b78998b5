package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/product-compare/internal/model"
)

func TestReviewStats_Empty(t *testing.T) {
	t.Parallel()

	stats := ReviewStats(nil)
	assert.Equal(t, 0, stats.TotalReviews)
	assert.Zero(t, stats.AverageRating)
	assert.Equal(t, model.SentimentNeutral, stats.Sentiment)
	assert.Len(t, stats.RatingCounts, 5)
	assert.Equal(t, 0, stats.RatingCounts["3_star"])
	assert.NotNil(t, stats.TopPositive)
	assert.NotNil(t, stats.TopNegative)
}

func TestReviewStats_Distribution(t *testing.T) {
	t.Parallel()

	reviews := []model.Review{
		{Rating: 5, Verified: true, HelpfulVotes: 1, Text: "p1"},
		{Rating: 4, Verified: true, HelpfulVotes: 9, Text: "p2"},
		{Rating: 3, Text: "mid"},
		{Rating: 1, HelpfulVotes: 2, Text: "n1"},
		{Rating: 2, Verified: true, HelpfulVotes: 4, Text: "n2"},
		{Rating: 4.5, Text: "p3"},
	}

	stats := ReviewStats(reviews)
	assert.Equal(t, 6, stats.TotalReviews)
	assert.Equal(t, 3.25, stats.AverageRating)
	assert.Equal(t, model.SentimentNeutral, stats.Sentiment)
	assert.Equal(t, 3, stats.VerifiedCount)
	assert.Equal(t, 50.0, stats.VerifiedPercentage)
	assert.Equal(t, map[string]int{
		"1_star": 1, "2_star": 1, "3_star": 1, "4_star": 2, "5_star": 1,
	}, stats.RatingCounts)

	require.Len(t, stats.TopPositive, 3)
	assert.Equal(t, "p2", stats.TopPositive[0].Text)
	assert.Equal(t, "p1", stats.TopPositive[1].Text)
	assert.Equal(t, "p3", stats.TopPositive[2].Text)

	require.Len(t, stats.TopNegative, 2)
	assert.Equal(t, "n2", stats.TopNegative[0].Text)
	assert.Equal(t, "n1", stats.TopNegative[1].Text)
}

func TestSentimentOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		avg  float64
		want model.Sentiment
	}{
		{5, model.SentimentPositive},
		{4.0, model.SentimentPositive},
		{3.99, model.SentimentNeutral},
		{3.0, model.SentimentNeutral},
		{2.99, model.SentimentNegative},
		{1, model.SentimentNegative},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SentimentOf(tt.avg), tt.avg)
	}
}

func TestReviewStats_Sentiment(t *testing.T) {
	t.Parallel()

	good := ReviewStats([]model.Review{{Rating: 5}, {Rating: 4}})
	assert.Equal(t, model.SentimentPositive, good.Sentiment)

	bad := ReviewStats([]model.Review{{Rating: 1}, {Rating: 3}})
	assert.Equal(t, model.SentimentNegative, bad.Sentiment)
}

func TestReviewStats_TopCapped(t *testing.T) {
	t.Parallel()

	var reviews []model.Review
	for i := 0; i < 8; i++ {
		reviews = append(reviews, model.Review{Rating: 5, HelpfulVotes: i})
	}
	stats := ReviewStats(reviews)
	require.Len(t, stats.TopPositive, topReviewCount)
	assert.Equal(t, 7, stats.TopPositive[0].HelpfulVotes)
	assert.Equal(t, 3, stats.TopPositive[4].HelpfulVotes)
	// Input order is untouched.
	assert.Equal(t, 0, reviews[0].HelpfulVotes)
}

func TestEffectiveRating(t *testing.T) {
	t.Parallel()

	stats := model.ReviewStats{AverageRating: 3.5}
	assert.Equal(t, 4.4, EffectiveRating(&model.ProductBundle{RatingSummary: model.RatingSummary{Average: 4.4}}, stats))
	assert.Equal(t, 3.5, EffectiveRating(&model.ProductBundle{}, stats))
	assert.Equal(t, 3.5, EffectiveRating(nil, stats))
}

func TestLocalResult_PriceFromDetails(t *testing.T) {
	t.Parallel()

	a := &model.ProductBundle{Details: &model.ProductDetails{Price: "$120.00"}}
	b := &model.ProductBundle{Details: &model.ProductDetails{Price: "-20%$80.00List: $100.00"}}

	res := localResult(a, b, []model.SpecRow{}, model.ReviewStatsPair{})
	assert.True(t, res.Degraded)
	require.Len(t, res.ProductAdvantages, 1)
	adv := res.ProductAdvantages[0]
	assert.Equal(t, "Price", adv.Feature)
	assert.Equal(t, model.SideB, adv.BetterSide)
	assert.Contains(t, adv.Summary, "80.00 vs 120.00")
	assert.Contains(t, adv.Summary, "20% below")
}

func TestLocalResult_NoFacts(t *testing.T) {
	t.Parallel()

	a := &model.ProductBundle{Details: &model.ProductDetails{Description: "x"}}
	b := &model.ProductBundle{Details: &model.ProductDetails{Description: "y"}}

	res := localResult(a, b, []model.SpecRow{{Key: "Color", ValueA: "Red", ValueB: "Blue", Differs: true, BetterSide: model.SideNone}}, model.ReviewStatsPair{})
	assert.True(t, res.Degraded)
	assert.Empty(t, res.ProductAdvantages)
	assert.Equal(t, model.RecommendationUnavailable, res.BuyerRecommendation)
}
