package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// writeOutput encodes v as indented JSON or as YAML. YAML is derived from
// the JSON encoding so field names and key order match.
func writeOutput(w io.Writer, v any, format string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "encode output")
	}

	switch format {
	case formatJSON, "":
		_, err = w.Write(append(data, '\n'))
		return eris.Wrap(err, "write output")
	case formatYAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return eris.Wrap(err, "convert output to yaml")
		}
		blockStyle(&doc)
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&doc); err != nil {
			return eris.Wrap(err, "write output")
		}
		return eris.Wrap(enc.Close(), "write output")
	default:
		return eris.Errorf("unknown format %q (want json or yaml)", format)
	}
}

// blockStyle clears the flow and quoting styles the JSON source carries.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
