package model

import "strings"

// ProductBundle is one product's details plus its review corpus, as handed
// over by the acquisition layer. It is read-only input to a comparison.
type ProductBundle struct {
	URL           string          `json:"url"`
	Details       *ProductDetails `json:"details"`
	Reviews       []Review        `json:"reviews"`
	RatingSummary RatingSummary   `json:"ratingSummary"`
}

// ProductDetails holds the structured product page fields.
type ProductDetails struct {
	Description    string `json:"description"`
	Price          string `json:"price"`
	Specifications Specs  `json:"specifications"`
	ImageURL       string `json:"imageUrl"`

	// DetailBullets are "Key: Value" lines from the product detail list,
	// for pages without a specification table.
	DetailBullets []string `json:"detailBullets,omitempty"`
}

// Review is a single customer review.
type Review struct {
	ReviewerName string  `json:"reviewerName"`
	Title        string  `json:"title,omitempty"`
	Rating       float64 `json:"rating"`
	Text         string  `json:"text"`
	Verified     bool    `json:"verified"`
	HelpfulVotes int     `json:"helpfulVotes"`
}

// RatingSummary is the storefront's aggregate rating.
type RatingSummary struct {
	Average float64 `json:"average"`
	Total   int     `json:"total"`
}

// Populated reports whether any detail field carries data.
func (d *ProductDetails) Populated() bool {
	if d == nil {
		return false
	}
	return strings.TrimSpace(d.Description) != "" ||
		strings.TrimSpace(d.Price) != "" ||
		strings.TrimSpace(d.ImageURL) != "" ||
		len(d.Specifications) > 0 ||
		len(d.DetailBullets) > 0
}

// Validate checks the fields a comparison cannot do without. The side label
// ("A" or "B") is carried into the returned InputError.
func (b *ProductBundle) Validate(side Side) error {
	if b == nil {
		return &InputError{Side: side, Reason: "bundle is missing"}
	}
	if b.Details == nil {
		return &InputError{Side: side, Reason: "details are missing"}
	}
	if !b.Details.Populated() {
		return &InputError{Side: side, Reason: "details are empty"}
	}
	return nil
}

// Title returns a short display name derived from the description: the first
// sentence, capped at 120 characters.
func (b *ProductBundle) Title() string {
	if b == nil || b.Details == nil {
		return ""
	}
	desc := strings.TrimSpace(b.Details.Description)
	if idx := strings.Index(desc, ". "); idx > 0 {
		desc = desc[:idx]
	}
	runes := []rune(desc)
	if len(runes) > 120 {
		return strings.TrimSpace(string(runes[:117])) + "..."
	}
	return desc
}

// Specifications returns the bundle's structured attribute map, or nil.
func (b *ProductBundle) Specifications() Specs {
	if b == nil || b.Details == nil {
		return nil
	}
	return b.Details.Specifications
}

// DetailBullets returns the bundle's detail bullet lines, or nil.
func (b *ProductBundle) DetailBullets() []string {
	if b == nil || b.Details == nil {
		return nil
	}
	return b.Details.DetailBullets
}
