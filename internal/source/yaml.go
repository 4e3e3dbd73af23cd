package source

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ReadYAML parses a YAML document whose top level is a mapping with a single
// key naming the root element. Scalar values become attributes; mappings and
// sequence items become children named by their key. Key order is kept.
func ReadYAML(data []byte) (*Element, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty yaml document", ErrInvalidDocument)
	}

	top := resolveAlias(doc.Content[0])
	if top.Kind != yaml.MappingNode || len(top.Content) != 2 {
		return nil, fmt.Errorf("%w: expected a mapping with a single key naming the root element (line %d)",
			ErrInvalidDocument, top.Line)
	}

	return yamlElement(top.Content[0].Value, top.Content[1])
}

func yamlElement(name string, n *yaml.Node) (*Element, error) {
	n = resolveAlias(n)
	e := NewElement(name)

	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if err := addYAMLValue(e, n.Content[i].Value, n.Content[i+1]); err != nil {
				return nil, err
			}
		}
	case yaml.ScalarNode:
		if n.Tag != "!!null" {
			e.SetText(n.Value)
		}
	default:
		return nil, fmt.Errorf("%w: element %q at line %d must be a mapping or a scalar", ErrInvalidDocument, name, n.Line)
	}

	return e, nil
}

func addYAMLValue(e *Element, key string, n *yaml.Node) error {
	n = resolveAlias(n)

	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil
		}

		var v any
		if err := n.Decode(&v); err != nil {
			return fmt.Errorf("decoding %q at line %d: %w", key, n.Line, err)
		}

		e.SetAttribute(key, v)
	case yaml.SequenceNode:
		for _, item := range n.Content {
			child, err := yamlElement(key, item)
			if err != nil {
				return err
			}

			e.AddChild(child)
		}
	default:
		child, err := yamlElement(key, n)
		if err != nil {
			return err
		}

		e.AddChild(child)
	}

	return nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	return n
}
