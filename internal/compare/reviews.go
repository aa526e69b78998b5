package compare

import (
	"fmt"
	"math"
	"sort"

	"github.com/sells-group/product-compare/internal/model"
)

// topReviewCount caps the positive and negative review lists.
const topReviewCount = 5

// ReviewStats summarizes a review corpus: average, sentiment, star
// distribution, verified share and the most helpful positive (4+) and
// negative (2-) reviews. An empty corpus is neutral.
func ReviewStats(reviews []model.Review) model.ReviewStats {
	stats := model.ReviewStats{
		Sentiment:    model.SentimentNeutral,
		RatingCounts: make(map[string]int, 5),
		TopPositive:  []model.Review{},
		TopNegative:  []model.Review{},
	}
	for i := 1; i <= 5; i++ {
		stats.RatingCounts[starKey(i)] = 0
	}
	if len(reviews) == 0 {
		return stats
	}

	var total float64
	var positive, negative []model.Review
	for _, r := range reviews {
		total += r.Rating
		if star := int(r.Rating); star >= 1 && star <= 5 {
			stats.RatingCounts[starKey(star)]++
		}
		if r.Verified {
			stats.VerifiedCount++
		}
		switch {
		case r.Rating >= 4:
			positive = append(positive, r)
		case r.Rating <= 2:
			negative = append(negative, r)
		}
	}

	n := float64(len(reviews))
	stats.TotalReviews = len(reviews)
	stats.AverageRating = round2(total / n)
	stats.Sentiment = SentimentOf(total / n)
	stats.VerifiedPercentage = round2(float64(stats.VerifiedCount) / n * 100)
	stats.TopPositive = mostHelpful(positive)
	stats.TopNegative = mostHelpful(negative)
	return stats
}

// SentimentOf labels an average star rating: positive from 4.0, neutral
// from 3.0, negative below.
func SentimentOf(avg float64) model.Sentiment {
	switch {
	case avg >= 4.0:
		return model.SentimentPositive
	case avg >= 3.0:
		return model.SentimentNeutral
	default:
		return model.SentimentNegative
	}
}

// EffectiveRating prefers the storefront summary, then the review average.
func EffectiveRating(b *model.ProductBundle, stats model.ReviewStats) float64 {
	if b != nil && b.RatingSummary.Average > 0 {
		return b.RatingSummary.Average
	}
	return stats.AverageRating
}

func mostHelpful(reviews []model.Review) []model.Review {
	out := make([]model.Review, len(reviews))
	copy(out, reviews)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].HelpfulVotes > out[j].HelpfulVotes
	})
	if len(out) > topReviewCount {
		out = out[:topReviewCount]
	}
	return out
}

func starKey(n int) string {
	return fmt.Sprintf("%d_star", n)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
