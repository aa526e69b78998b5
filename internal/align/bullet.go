package align

import (
	"strings"

	"github.com/sells-group/product-compare/internal/model"
)

// invisibleMarks are direction and zero-width characters product pages put
// around bullet labels.
var invisibleMarks = strings.NewReplacer(
	"\u200e", "",
	"\u200f", "",
	"\u200b", "",
	"\ufeff", "",
	"\u00a0", " ",
)

// ParseBulletLine splits a "Key: Value" detail bullet. ok is false when the
// line has no separator, an empty side, identical key and value, or a value
// that is itself a header ("Additional Details:").
func ParseBulletLine(line string) (key, value string, ok bool) {
	line = invisibleMarks.Replace(line)
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}

	key = strings.TrimSpace(line[:idx])
	value = strings.TrimSpace(line[idx+1:])
	key = strings.TrimLeft(key, "•-*· ")
	key = strings.TrimSpace(key)

	switch {
	case key == "" || value == "":
		return "", "", false
	case key == value:
		return "", "", false
	case strings.HasSuffix(value, ":"):
		return "", "", false
	}
	return key, value, true
}

// Flatten merges structured specification fields with free-text bullet
// lines into one attribute map. Structured fields come first and win when a
// bullet repeats their key.
func Flatten(structured model.Specs, bullets []string) model.Specs {
	out := make(model.Specs, 0, len(structured)+len(bullets))
	for _, sp := range structured {
		out = out.Set(strings.TrimSpace(sp.Key), sp.Value)
	}
	for _, line := range bullets {
		k, v, ok := ParseBulletLine(line)
		if !ok {
			continue
		}
		if _, exists := out.Get(k); exists {
			continue
		}
		out = append(out, model.Spec{Key: k, Value: v})
	}
	return out
}
