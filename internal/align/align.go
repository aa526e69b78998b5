// Package align lines up the attribute maps of two products and decides,
// where the attribute is ordinal, which product has the better value.
package align

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sells-group/product-compare/internal/model"
	"github.com/sells-group/product-compare/internal/normalize"
)

// rule decides the better side for one attribute family.
type rule func(a, b string) model.Side

// Attribute families, matched as whole words so that "Operating System"
// is not a rating and "Frame" is not RAM.
var (
	priceKeyRe    = regexp.MustCompile(`\bprices?\b`)
	ratingKeyRe   = regexp.MustCompile(`\bratings?\b`)
	capacityKeyRe = regexp.MustCompile(`\b(?:storage|memory|capacity|ram)\b`)

	nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// AlignSpecifications returns one row per key present in both maps, in the
// order of a. Keys match after trimming and case folding; the row carries
// a's spelling of the key.
func AlignSpecifications(a, b model.Specs) []model.SpecRow {
	folder := cases.Fold()

	index := make(map[string]string, len(b))
	for _, sp := range b {
		k := foldKey(folder, sp.Key)
		if _, dup := index[k]; !dup {
			index[k] = sp.Value
		}
	}

	rows := make([]model.SpecRow, 0)
	seen := make(map[string]bool, len(a))
	for _, sp := range a {
		k := foldKey(folder, sp.Key)
		if seen[k] {
			continue
		}
		vb, ok := index[k]
		if !ok {
			continue
		}
		seen[k] = true

		rows = append(rows, model.SpecRow{
			Key:        strings.TrimSpace(sp.Key),
			ValueA:     normalize.Display(sp.Value),
			ValueB:     normalize.Display(vb),
			Differs:    !strings.EqualFold(strings.TrimSpace(sp.Value), strings.TrimSpace(vb)),
			BetterSide: Winner(sp.Key, sp.Value, vb),
		})
	}
	return rows
}

// Winner applies the winner policy for a single attribute. Qualitative
// attributes (brand, color, ...) never get a winner.
func Winner(key, a, b string) model.Side {
	if r := ruleFor(key); r != nil {
		return r(a, b)
	}
	return model.SideNone
}

func ruleFor(key string) rule {
	switch k := keyWords(key); {
	case priceKeyRe.MatchString(k):
		return lowerPrice
	case ratingKeyRe.MatchString(k):
		return higherFloat
	case capacityKeyRe.MatchString(k):
		return higherCapacity
	}
	return nil
}

// IsPriceKey reports whether key names a price attribute.
func IsPriceKey(key string) bool {
	return priceKeyRe.MatchString(keyWords(key))
}

// IsRatingKey reports whether key names a rating attribute.
func IsRatingKey(key string) bool {
	return ratingKeyRe.MatchString(keyWords(key))
}

// keyWords lowercases key and turns punctuation and underscores into spaces.
func keyWords(key string) string {
	return nonWordRe.ReplaceAllString(strings.ToLower(key), " ")
}

func lowerPrice(a, b string) model.Side {
	pa, pb := normalize.ParsePrice(a).Primary, normalize.ParsePrice(b).Primary
	if pa <= 0 || pb <= 0 || pa == pb {
		return model.SideNone
	}
	if pa < pb {
		return model.SideA
	}
	return model.SideB
}

func higherFloat(a, b string) model.Side {
	return higher(normalize.ParseFloat(a), normalize.ParseFloat(b))
}

// higherCapacity compares storage sizes when both values carry a unit
// ("1 TB" beats "512 GB") and bare magnitudes otherwise.
func higherCapacity(a, b string) model.Side {
	ca, okA := normalize.ParseCapacity(a)
	cb, okB := normalize.ParseCapacity(b)
	if okA && okB {
		return higher(ca, cb)
	}
	return higher(normalize.ParseMagnitude(a), normalize.ParseMagnitude(b))
}

func higher(fa, fb float64) model.Side {
	switch {
	case fa > fb:
		return model.SideA
	case fb > fa:
		return model.SideB
	default:
		return model.SideNone
	}
}

func foldKey(c cases.Caser, key string) string {
	return c.String(strings.Join(strings.Fields(key), " "))
}
