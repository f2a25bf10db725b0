package domain

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseDocument parses a JSON or YAML query document preserving key order.
// Empty input yields an empty Document.
func ParseDocument(data []byte) (Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if root.Kind == 0 {
		return Document{}, nil
	}
	value, err := decodeNode(&root)
	if err != nil {
		return nil, err
	}
	switch v := value.(type) {
	case Document:
		return v, nil
	case nil:
		return Document{}, nil
	default:
		return nil, malformed("", "document must be a mapping, got: %T", value)
	}
}

// ParseValue parses any JSON or YAML value, mappings become Documents.
func ParseValue(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse value: %w", err)
	}
	if root.Kind == 0 {
		return nil, nil
	}
	return decodeNode(&root)
}

func decodeNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return decodeNode(node.Content[0])

	case yaml.AliasNode:
		return decodeNode(node.Alias)

	case yaml.MappingNode:
		doc := make(Document, 0, len(node.Content)/2)
		seen := make(map[string]struct{}, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if _, dup := seen[key]; dup {
				return nil, malformed(key, "duplicate key at line %d", node.Content[i].Line)
			}
			seen[key] = struct{}{}
			value, err := decodeNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			doc = append(doc, Element{Key: key, Value: value})
		}
		return doc, nil

	case yaml.SequenceNode:
		items := make([]any, len(node.Content))
		for i, child := range node.Content {
			item, err := decodeNode(child)
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return items, nil

	case yaml.ScalarNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("decode scalar at line %d: %w", node.Line, err)
		}
		return v, nil
	}

	return nil, fmt.Errorf("unsupported yaml node kind %d at line %d", node.Kind, node.Line)
}
