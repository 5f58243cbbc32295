// Package interchange converts syntax trees to and from a tree of plain
// objects, for tools that want to inspect or transmit parsed structure.
//
// Every node becomes an Object with a "type" key naming the node kind.
// Other keys hold the node's fields; false booleans, empty strings and
// empty lists are omitted. Operators and enumerations are spelled the way
// their String methods print them. Spans are included only when
// Options.Positions is set.
package interchange

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sqlt/pkg/ast"
)

// Object is one node of the interchange tree.
type Object = map[string]any

// Options controls encoding.
type Options struct {
	// Positions includes each node's source span.
	Positions bool
}

// MarshalJSON encodes node as indented JSON.
func MarshalJSON(node ast.Node, opts Options) ([]byte, error) {
	data, err := json.MarshalIndent(Encode(node, opts), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return data, nil
}

// MarshalYAML encodes node as YAML.
func MarshalYAML(node ast.Node, opts Options) ([]byte, error) {
	data, err := yaml.Marshal(Encode(node, opts))
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return data, nil
}

// UnmarshalJSON decodes a node from JSON produced by MarshalJSON.
func UnmarshalJSON(data []byte) (ast.Node, error) {
	var obj Object
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return Decode(obj)
}

// UnmarshalYAML decodes a node from YAML produced by MarshalYAML.
func UnmarshalYAML(data []byte) (ast.Node, error) {
	var obj Object
	if err := yaml.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return Decode(obj)
}
