package compare

import (
	"fmt"

	"github.com/sells-group/product-compare/internal/align"
	"github.com/sells-group/product-compare/internal/model"
	"github.com/sells-group/product-compare/internal/normalize"
)

// localResult builds a degraded comparison from facts that need no
// generation service: aligned rows with a winner, the listed prices and the
// ratings.
func localResult(a, b *model.ProductBundle, rows []model.SpecRow, stats model.ReviewStatsPair) model.ComparisonResult {
	res := model.DegradedResult()

	var havePrice, haveRating bool
	for _, row := range rows {
		if !row.BetterSide.Valid() {
			continue
		}
		switch {
		case align.IsPriceKey(row.Key):
			havePrice = true
		case align.IsRatingKey(row.Key):
			haveRating = true
		}
		res.ProductAdvantages = append(res.ProductAdvantages, model.Advantage{
			Feature:    row.Key,
			BetterSide: row.BetterSide,
			Summary:    rowSummary(row),
		})
	}

	if !havePrice {
		if adv, ok := priceAdvantage(a, b); ok {
			res.ProductAdvantages = append(res.ProductAdvantages, adv)
		}
	}
	if !haveRating {
		if adv, ok := ratingAdvantage(EffectiveRating(a, stats.A), EffectiveRating(b, stats.B)); ok {
			res.ProductAdvantages = append(res.ProductAdvantages, adv)
		}
	}
	return res
}

func rowSummary(row model.SpecRow) string {
	winner, loser := row.ValueA, row.ValueB
	if row.BetterSide == model.SideB {
		winner, loser = loser, winner
	}
	switch {
	case align.IsPriceKey(row.Key):
		return fmt.Sprintf("Product %s is cheaper: %s vs %s.", row.BetterSide, winner, loser)
	case align.IsRatingKey(row.Key):
		return fmt.Sprintf("Product %s is rated higher: %s vs %s.", row.BetterSide, winner, loser)
	default:
		return fmt.Sprintf("Product %s offers more: %s vs %s.", row.BetterSide, winner, loser)
	}
}

func priceAdvantage(a, b *model.ProductBundle) (model.Advantage, bool) {
	if a == nil || b == nil || a.Details == nil || b.Details == nil {
		return model.Advantage{}, false
	}
	pa, pb := normalize.ParsePrice(a.Details.Price), normalize.ParsePrice(b.Details.Price)
	if pa.Primary <= 0 || pb.Primary <= 0 || pa.Primary == pb.Primary {
		return model.Advantage{}, false
	}
	side, winner, loser := model.SideA, pa, pb
	if pb.Primary < pa.Primary {
		side, winner, loser = model.SideB, pb, pa
	}
	summary := fmt.Sprintf("Product %s is cheaper: %.2f vs %.2f.", side, winner.Primary, loser.Primary)
	if d := winner.Discount(); d > 0 {
		summary += fmt.Sprintf(" Currently %.0f%% below its list price of %.2f.", d*100, winner.List)
	}
	return model.Advantage{Feature: "Price", BetterSide: side, Summary: summary}, true
}

func ratingAdvantage(ra, rb float64) (model.Advantage, bool) {
	if ra <= 0 || rb <= 0 || ra == rb {
		return model.Advantage{}, false
	}
	side, winner, loser := model.SideA, ra, rb
	if rb > ra {
		side, winner, loser = model.SideB, rb, ra
	}
	return model.Advantage{
		Feature:    "Customer Rating",
		BetterSide: side,
		Summary:    fmt.Sprintf("Product %s is rated higher: %.1f/5 vs %.1f/5.", side, winner, loser),
	}, true
}
