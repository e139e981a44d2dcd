package tree

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// Format is the serialisation used for tree descriptions.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteJSON writes root as indented JSON.
func WriteJSON(w io.Writer, root *Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(root)
}

// Decode reads a tree description in the given format.
func Decode(r io.Reader, format Format) (*Node, error) {
	var root Node
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&root); err != nil {
			return nil, fmt.Errorf("decoding yaml tree: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&root); err != nil {
			return nil, fmt.Errorf("decoding json tree: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported tree format %q", format)
	}
	if root.Name == "" {
		return nil, fmt.Errorf("tree root has no name")
	}
	return &root, nil
}
