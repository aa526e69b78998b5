// Package extract turns the free-form text returned by the generation
// service into a validated ComparisonResult. The service may wrap its JSON in
// prose or markdown fences, drop fields, or invent enum values; extraction
// degrades step by step instead of failing.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sells-group/product-compare/internal/model"
)

// Kind tags how an Outcome was produced.
type Kind int

const (
	// Success means the response matched the schema with nothing to repair.
	Success Kind = iota
	// PartialSuccess means a result was decoded but fields were defaulted,
	// coerced or dropped. Notes lists what happened.
	PartialSuccess
	// Fallback means no usable object was found; Result is the degraded default.
	Fallback
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case PartialSuccess:
		return "partial_success"
	case Fallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Strategy names, reported on the Outcome.
const (
	StrategyWhole = "whole"
	StrategySpan  = "span"
	StrategyNone  = "none"
)

// Outcome is the tagged result of Extract.
type Outcome struct {
	Kind     Kind
	Strategy string
	Result   model.ComparisonResult
	Notes    []string
}

// Extract decodes raw into a ComparisonResult. It first tries the whole text
// (fences stripped), then each balanced {...} span in order, and finally
// returns the degraded default.
func Extract(raw string) Outcome {
	if doc, ok := decodeObject(stripFences(raw)); ok {
		return build(doc, StrategyWhole)
	}
	for _, span := range braceSpans(raw) {
		if doc, ok := decodeObject(span); ok {
			return build(doc, StrategySpan)
		}
	}

	note := "no JSON object matching the comparison schema"
	if strings.TrimSpace(raw) == "" {
		note = "empty response"
	}
	return Outcome{
		Kind:     Fallback,
		Strategy: StrategyNone,
		Result:   model.DegradedResult(),
		Notes:    []string{note},
	}
}

// decodeObject parses text as a JSON object carrying at least one known
// comparison field.
func decodeObject(text string) (map[string]any, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") {
		return nil, false
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, false
	}
	for _, keys := range topLevelKeys {
		if _, _, ok := lookup(doc, keys...); ok {
			return doc, true
		}
	}
	return nil, false
}

// Accepted spellings per top-level field. The snake_case forms match the
// schema older prompts asked for.
var (
	keysAdvantages     = []string{"productAdvantages", "product_advantages"}
	keysWeaknesses     = []string{"criticalWeaknesses", "critical_weaknesses"}
	keysShared         = []string{"sharedStrengths", "shared_strengths"}
	keysUSP            = []string{"uniqueSellingPoints", "unique_selling_points"}
	keysRecommendation = []string{"buyerRecommendation", "buyer_recommendation"}

	topLevelKeys = [][]string{keysAdvantages, keysWeaknesses, keysShared, keysUSP, keysRecommendation}
)

func build(doc map[string]any, strategy string) Outcome {
	var notes []string
	notes = append(notes, schemaNotes(doc)...)

	res := model.NewComparisonResult()

	if v, name, ok := lookup(doc, keysAdvantages...); ok {
		for i, item := range asList(v) {
			adv, note, keep := toAdvantage(item)
			if note != "" {
				notes = append(notes, fmt.Sprintf("%s[%d]: %s", name, i, note))
			}
			if keep {
				res.ProductAdvantages = append(res.ProductAdvantages, adv)
			}
		}
	} else {
		notes = append(notes, "missing productAdvantages")
	}

	if v, name, ok := lookup(doc, keysWeaknesses...); ok {
		for i, item := range asList(v) {
			w, itemNotes, keep := toWeakness(item)
			for _, n := range itemNotes {
				notes = append(notes, fmt.Sprintf("%s[%d]: %s", name, i, n))
			}
			if keep {
				res.CriticalWeaknesses = append(res.CriticalWeaknesses, w)
			}
		}
	} else {
		notes = append(notes, "missing criticalWeaknesses")
	}

	if v, _, ok := lookup(doc, keysShared...); ok {
		res.SharedStrengths = stringList(v)
	} else {
		notes = append(notes, "missing sharedStrengths")
	}

	if v, _, ok := lookup(doc, keysUSP...); ok {
		usp, _ := v.(map[string]any)
		if a, _, found := lookup(usp, "A", "a", "product_A", "productA"); found {
			res.UniqueSellingPoints.A = stringList(a)
		}
		if b, _, found := lookup(usp, "B", "b", "product_B", "productB"); found {
			res.UniqueSellingPoints.B = stringList(b)
		}
	} else {
		notes = append(notes, "missing uniqueSellingPoints")
	}

	if v, _, ok := lookup(doc, keysRecommendation...); ok {
		res.BuyerRecommendation = strings.TrimSpace(asString(v))
	} else {
		notes = append(notes, "missing buyerRecommendation")
	}

	res.Normalize()
	kind := Success
	if len(notes) > 0 {
		kind = PartialSuccess
	}
	return Outcome{Kind: kind, Strategy: strategy, Result: res, Notes: notes}
}

func toAdvantage(item any) (model.Advantage, string, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return model.Advantage{}, "not an object, dropped", false
	}
	adv := model.Advantage{
		Feature: field(obj, "feature"),
		Summary: field(obj, "summary"),
		Quote:   field(obj, "quote"),
	}
	raw := field(obj, "betterSide", "better_product", "better_side")
	adv.BetterSide = model.ParseSide(raw)
	if !adv.BetterSide.Valid() {
		return adv, fmt.Sprintf("betterSide %q is not A or B, dropped", raw), false
	}
	if adv.Feature == "" {
		return adv, "missing feature, dropped", false
	}
	return adv, "", true
}

func toWeakness(item any) (model.Weakness, []string, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return model.Weakness{}, []string{"not an object, dropped"}, false
	}
	var notes []string
	w := model.Weakness{
		Feature: field(obj, "feature"),
		Issue:   field(obj, "issue"),
	}
	rawSev := field(obj, "severity")
	sev, known := model.ParseSeverity(rawSev)
	if !known {
		notes = append(notes, fmt.Sprintf("severity %q coerced to medium", rawSev))
	}
	w.Severity = sev

	raw := field(obj, "worseSide", "worse_product", "worse_side")
	w.WorseSide = model.ParseSide(raw)
	if !w.WorseSide.Valid() {
		return w, append(notes, fmt.Sprintf("worseSide %q is not A or B, dropped", raw)), false
	}
	if w.Feature == "" {
		return w, append(notes, "missing feature, dropped"), false
	}
	return w, notes, true
}

// lookup returns the first present key among keys.
func lookup(obj map[string]any, keys ...string) (any, string, bool) {
	if obj == nil {
		return nil, "", false
	}
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			return v, k, true
		}
	}
	return nil, "", false
}

func field(obj map[string]any, keys ...string) string {
	v, _, _ := lookup(obj, keys...)
	return strings.TrimSpace(asString(v))
}

// asList treats a lone value as a one-element list and null as empty.
func asList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}

func stringList(v any) []string {
	out := []string{}
	for _, item := range asList(v) {
		if s := strings.TrimSpace(asString(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64, bool:
		return fmt.Sprint(t)
	default:
		return ""
	}
}
