// Package normalize turns free-form attribute strings scraped from product
// pages into comparable numbers. Nothing here fails: unparsable input yields 0.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// number matches a digit run with embedded "." or "," separators; which one
// is the decimal mark is decided by toFloat.
const number = `\d(?:[\d.,]*\d)?`

var (
	// Currency-prefixed amount, e.g. "$95.99", "US$1,299.00", "€ 12,50".
	currencyRe = regexp.MustCompile(`(?:US)?[$€£¥₹]\s?(` + number + `)`)

	// "List: $129.99", "Typical price: $129.99", "List Price:129,99".
	listRe = regexp.MustCompile(`(?i)(?:list|typical)(?:\s*price)?\s*:?\s*(?:US)?[$€£¥₹]?\s?(` + number + `)`)

	// First plain number anywhere in the string.
	numberRe = regexp.MustCompile(number + `|\.\d+`)

	// Amount followed by a storage unit: "512 GB", "1TB", "1,5 TB".
	storageRe = regexp.MustCompile(`(?i)(` + number + `|\.\d+)\s*([kmgtp]i?b)\b`)

	// Grouped thousands with no decimal part: "1,299", "1.299.000".
	commaGroupsRe = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
	dotGroupsRe   = regexp.MustCompile(`^\d{1,3}(?:\.\d{3}){2,}$`)
)

// Price is a parsed price string. List is the "List"/"Typical" reference
// price when present and different from Primary, else 0.
type Price struct {
	Primary float64
	List    float64
}

// Discount returns the fraction saved against the list price, or 0.
func (p Price) Discount() float64 {
	if p.List <= 0 || p.Primary <= 0 || p.Primary >= p.List {
		return 0
	}
	return (p.List - p.Primary) / p.List
}

// ParsePrice extracts the primary and reference price from strings such as
// "-26%$95.99$95.99List:$129.99$129.99". The primary price is the first
// currency-prefixed decimal; strings without one have Primary 0.
func ParsePrice(s string) Price {
	var p Price
	if m := currencyRe.FindStringSubmatch(s); m != nil {
		p.Primary = toFloat(m[1])
	}
	if m := listRe.FindStringSubmatch(s); m != nil {
		if list := toFloat(m[1]); list != p.Primary {
			p.List = list
		}
	}
	return p
}

// ParseMagnitude returns the first number in s, ignoring units
// ("128 GB" → 128, "1,024 MB" → 1024). No number yields 0.
func ParseMagnitude(s string) float64 {
	m := numberRe.FindString(s)
	if m == "" {
		return 0
	}
	return toFloat(m)
}

// storageUnits maps a storage unit prefix to its size in bytes.
var storageUnits = map[byte]float64{
	'k': 1 << 10,
	'm': 1 << 20,
	'g': 1 << 30,
	't': 1 << 40,
	'p': 1 << 50,
}

// ParseCapacity returns the first storage amount in s in bytes, with ok
// true. Without a storage unit it returns ParseMagnitude(s) and false.
func ParseCapacity(s string) (float64, bool) {
	m := storageRe.FindStringSubmatch(s)
	if m == nil {
		return ParseMagnitude(s), false
	}
	return toFloat(m[1]) * storageUnits[strings.ToLower(m[2])[0]], true
}

// ParseFloat parses ratings such as "4.5 out of 5 stars". It shares the
// magnitude rules.
func ParseFloat(s string) float64 {
	return ParseMagnitude(s)
}

// Display returns s trimmed for presentation.
func Display(s string) string {
	return strings.TrimSpace(s)
}

// toFloat parses a number written with either decimal mark. When both "."
// and "," appear the last one is the decimal mark ("1,299.00", "1.299,00").
// A lone "," is a decimal mark unless it separates groups of three digits
// ("12,50" but "1,299"). A lone "." is a decimal mark unless it repeats in
// groups of three ("1.299.000").
func toFloat(s string) float64 {
	dot, comma := strings.LastIndexByte(s, '.'), strings.LastIndexByte(s, ',')
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if commaGroupsRe.MatchString(s) {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	case dot >= 0 && dotGroupsRe.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
