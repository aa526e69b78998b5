package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// Spec is a single attribute of a product, e.g. {"Capacity", "128 GB"}.
type Spec struct {
	Key   string
	Value string
}

// Specs is an ordered attribute map. It marshals as a JSON object but keeps
// the document order of its keys, which decides the order of aligned rows.
type Specs []Spec

// Get returns the value stored under key (exact match).
func (s Specs) Get(key string) (string, bool) {
	for _, sp := range s {
		if sp.Key == key {
			return sp.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing key or appends a new entry.
func (s Specs) Set(key, value string) Specs {
	for i := range s {
		if s[i].Key == key {
			s[i].Value = value
			return s
		}
	}
	return append(s, Spec{Key: key, Value: value})
}

// Keys returns the keys in order.
func (s Specs) Keys() []string {
	keys := make([]string, len(s))
	for i, sp := range s {
		keys[i] = sp.Key
	}
	return keys
}

// MarshalJSON writes the specs as a JSON object in order.
func (s Specs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sp := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(sp.Key)
		if err != nil {
			return nil, eris.Wrap(err, "model: marshal spec key")
		}
		v, err := json.Marshal(sp.Value)
		if err != nil {
			return nil, eris.Wrap(err, "model: marshal spec value")
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping key order. Non-string values
// (numbers, booleans) are kept in their JSON text form; nested values are
// stored as compact JSON. A null document yields empty specs.
func (s *Specs) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return eris.Wrap(err, "model: read specs")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return eris.New("model: specifications must be a JSON object")
	}

	out := Specs{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return eris.Wrap(err, "model: read spec key")
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return eris.Wrapf(err, "model: read spec %q", key)
		}
		out = out.Set(key, rawToString(raw))
	}
	*s = out
	return nil
}

func rawToString(raw json.RawMessage) string {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" {
		return ""
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err == nil {
		return compact.String()
	}
	return trimmed
}
