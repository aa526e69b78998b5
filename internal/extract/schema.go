package extract

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"
)

// comparisonSchema describes the shape requested from the generation service.
// Nothing is required: missing fields default to empty values.
var comparisonSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"productAdvantages": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"feature":    map[string]any{"type": "string"},
					"betterSide": map[string]any{"type": "string"},
					"summary":    map[string]any{"type": "string"},
					"quote":      map[string]any{"type": []any{"string", "null"}},
				},
			},
		},
		"criticalWeaknesses": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"feature":   map[string]any{"type": "string"},
					"worseSide": map[string]any{"type": "string"},
					"issue":     map[string]any{"type": "string"},
					"severity":  map[string]any{"type": "string"},
				},
			},
		},
		"sharedStrengths": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"uniqueSellingPoints": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"A": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"B": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		},
		"buyerRecommendation": map[string]any{"type": "string"},
	},
}

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(comparisonSchema))
	if err != nil {
		panic(eris.Wrap(err, "extract: compile comparison schema"))
	}
	return s
}

// schemaNotes validates doc and returns one note per violation.
func schemaNotes(doc map[string]any) []string {
	res, err := compiledSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	if res.Valid() {
		return nil
	}
	notes := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		notes = append(notes, "schema: "+e.String())
	}
	return notes
}
