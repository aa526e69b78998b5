package model

import (
	"encoding/json"
	"strings"
)

// Side identifies one of the two compared products.
type Side string

const (
	SideA    Side = "A"
	SideB    Side = "B"
	SideNone Side = "None" // only valid on SpecRow
)

// Valid reports whether s names a product (A or B).
func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

// ParseSide maps loose model output ("a", "Product B", "product_A") to a Side.
// Returns SideNone when no side can be recognised.
func ParseSide(v string) Side {
	v = strings.ToUpper(strings.TrimSpace(v))
	v = strings.TrimPrefix(v, "PRODUCT")
	v = strings.Trim(v, " _-")
	switch v {
	case "A":
		return SideA
	case "B":
		return SideB
	default:
		return SideNone
	}
}

// Severity grades a weakness.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ParseSeverity coerces v (any case) into the severity enum. The second
// return is false when v was not recognised and medium was substituted.
func ParseSeverity(v string) (Severity, bool) {
	switch Severity(strings.ToLower(strings.TrimSpace(v))) {
	case SeverityLow:
		return SeverityLow, true
	case SeverityMedium:
		return SeverityMedium, true
	case SeverityHigh:
		return SeverityHigh, true
	default:
		return SeverityMedium, false
	}
}

// SpecRow is one aligned attribute with both values and the computed winner.
type SpecRow struct {
	Key        string `json:"key"`
	ValueA     string `json:"valueA"`
	ValueB     string `json:"valueB"`
	Differs    bool   `json:"differs"`
	BetterSide Side   `json:"betterSide"`
}

// Advantage is a feature on which one product beats the other.
type Advantage struct {
	Feature    string `json:"feature"`
	BetterSide Side   `json:"betterSide"`
	Summary    string `json:"summary"`
	Quote      string `json:"quote,omitempty"`
}

// Weakness is a customer-reported problem of one product.
type Weakness struct {
	Feature   string   `json:"feature"`
	WorseSide Side     `json:"worseSide"`
	Issue     string   `json:"issue"`
	Severity  Severity `json:"severity"`
}

// UniqueSellingPoints lists selling points held by only one product.
type UniqueSellingPoints struct {
	A []string `json:"A"`
	B []string `json:"B"`
}

// RecommendationUnavailable is the buyer recommendation used whenever the
// comparison had to be built without a usable generated response.
const RecommendationUnavailable = "could not generate recommendation"

// ComparisonResult is the structured differential comparison of two products.
type ComparisonResult struct {
	ProductAdvantages   []Advantage         `json:"productAdvantages"`
	CriticalWeaknesses  []Weakness          `json:"criticalWeaknesses"`
	SharedStrengths     []string            `json:"sharedStrengths"`
	UniqueSellingPoints UniqueSellingPoints `json:"uniqueSellingPoints"`
	BuyerRecommendation string              `json:"buyerRecommendation"`
	Degraded            bool                `json:"degraded"`
}

// NewComparisonResult returns a result with every list initialised, so it
// serializes with [] rather than null.
func NewComparisonResult() ComparisonResult {
	var r ComparisonResult
	r.Normalize()
	return r
}

// DegradedResult returns the empty fallback result.
func DegradedResult() ComparisonResult {
	r := NewComparisonResult()
	r.BuyerRecommendation = RecommendationUnavailable
	r.Degraded = true
	return r
}

// Normalize replaces nil slices with empty ones.
func (r *ComparisonResult) Normalize() {
	if r.ProductAdvantages == nil {
		r.ProductAdvantages = []Advantage{}
	}
	if r.CriticalWeaknesses == nil {
		r.CriticalWeaknesses = []Weakness{}
	}
	if r.SharedStrengths == nil {
		r.SharedStrengths = []string{}
	}
	if r.UniqueSellingPoints.A == nil {
		r.UniqueSellingPoints.A = []string{}
	}
	if r.UniqueSellingPoints.B == nil {
		r.UniqueSellingPoints.B = []string{}
	}
}

// MarshalJSON normalizes nil slices before encoding.
func (r ComparisonResult) MarshalJSON() ([]byte, error) {
	type plain ComparisonResult
	r.Normalize()
	return json.Marshal(plain(r))
}

// Report is the assembled output of one comparison.
type Report struct {
	SpecRows    []SpecRow        `json:"specRows"`
	Comparison  ComparisonResult `json:"comparison"`
	ReviewStats ReviewStatsPair  `json:"reviewStats"`
}

// ReviewStatsPair holds review statistics for both products.
type ReviewStatsPair struct {
	A ReviewStats `json:"A"`
	B ReviewStats `json:"B"`
}

// Sentiment labels the overall tone of a review corpus.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ReviewStats summarizes a review corpus.
type ReviewStats struct {
	AverageRating      float64        `json:"averageRating"`
	Sentiment          Sentiment      `json:"sentiment"`
	TotalReviews       int            `json:"totalReviews"`
	RatingCounts       map[string]int `json:"ratingCounts"`
	VerifiedCount      int            `json:"verifiedCount"`
	VerifiedPercentage float64        `json:"verifiedPercentage"`
	TopPositive        []Review       `json:"topPositive"`
	TopNegative        []Review       `json:"topNegative"`
}
