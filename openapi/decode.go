package openapi

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeProperty decodes a property written in OpenAPI schema syntax, for
// example a field definition file:
//
//	type: string
//	format: date
//	example: "1970-06-24"
//
// Nested object properties keep their declaration order. The same
// construction checks as the property constructors apply: patterns,
// date and uuid examples are validated, and object required names must
// exist among its properties. Keywords outside the property model are
// ignored.
func DecodeProperty(node *yaml.Node) (Property, error) {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping at line %d", ErrUnknownKind, node.Line)
	}

	keys := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys[node.Content[i].Value] = node.Content[i+1]
	}

	typeNode, ok := keys["type"]
	if !ok {
		return nil, fmt.Errorf("%w: missing type at line %d", ErrUnknownKind, node.Line)
	}

	var description string
	if err := decodeOptional(keys, "description", &description); err != nil {
		return nil, err
	}

	switch typeNode.Value {
	case KindString:
		p := &StringProperty{Description: description}
		if err := decodeOptional(keys, "format", &p.Format); err != nil {
			return nil, err
		}
		if err := decodeOptional(keys, "pattern", &p.Pattern); err != nil {
			return nil, err
		}
		if err := decodeOptional(keys, "enum", &p.Enum); err != nil {
			return nil, err
		}
		if err := decodeOptional(keys, "example", &p.Example); err != nil {
			return nil, err
		}
		if err := validateString(p); err != nil {
			return nil, err
		}
		return p, nil

	case KindNumber:
		p := &NumberProperty{Description: description}
		if err := decodeOptional(keys, "format", &p.Format); err != nil {
			return nil, err
		}
		if err := decodeOptional(keys, "minimum", &p.Minimum); err != nil {
			return nil, err
		}
		if err := decodeOptional(keys, "maximum", &p.Maximum); err != nil {
			return nil, err
		}
		if err := decodeOptional(keys, "enum", &p.Enum); err != nil {
			return nil, err
		}
		if err := decodeOptional(keys, "example", &p.Example); err != nil {
			return nil, err
		}
		return p, nil

	case KindInteger:
		p := &IntegerProperty{Description: description}
		if err := decodeOptional(keys, "minimum", &p.Minimum); err != nil {
			return nil, err
		}
		if err := decodeOptional(keys, "maximum", &p.Maximum); err != nil {
			return nil, err
		}
		if err := decodeOptional(keys, "enum", &p.Enum); err != nil {
			return nil, err
		}
		if err := decodeOptional(keys, "example", &p.Example); err != nil {
			return nil, err
		}
		return p, nil

	case KindBoolean:
		p := &BooleanProperty{Description: description}
		if err := decodeOptional(keys, "example", &p.Example); err != nil {
			return nil, err
		}
		return p, nil

	case KindObject:
		p := &ObjectProperty{Description: description, Properties: NewProperties()}
		if err := decodeOptional(keys, "title", &p.Title); err != nil {
			return nil, err
		}
		if propsNode, ok := keys["properties"]; ok {
			props, err := decodeProperties(propsNode)
			if err != nil {
				return nil, err
			}
			p.Properties = props
		}
		if err := decodeOptional(keys, "required", &p.Required); err != nil {
			return nil, err
		}
		for _, name := range p.Required {
			if !p.Properties.Has(name) {
				return nil, fmt.Errorf("%w: required %q is not a property (line %d)", ErrUnknownField, name, node.Line)
			}
		}
		if err := decodeOptional(keys, "example", &p.Example); err != nil {
			return nil, err
		}
		return p, nil

	case KindArray:
		p := &ArrayProperty{Description: description}
		itemsNode, ok := keys["items"]
		if !ok {
			return nil, fmt.Errorf("%w: array without items at line %d", ErrUnknownKind, node.Line)
		}
		items, err := DecodeProperty(itemsNode)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		p.Items = items
		if err := decodeOptional(keys, "example", &p.Example); err != nil {
			return nil, err
		}
		return p, nil
	}

	return nil, fmt.Errorf("%w: %q at line %d", ErrUnknownKind, typeNode.Value, typeNode.Line)
}

func decodeProperties(node *yaml.Node) (*Properties, error) {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping of properties at line %d", ErrUnknownKind, node.Line)
	}

	props := NewProperties()
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		p, err := DecodeProperty(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		props.Set(name, p)
	}
	return props, nil
}

func decodeOptional(keys map[string]*yaml.Node, key string, out any) error {
	node, ok := keys[key]
	if !ok {
		return nil
	}
	if err := node.Decode(out); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// decodeKind decodes node into dst, which must receive a property of the
// same kind.
func decodeKind[T any, P interface {
	*T
	Property
}](node *yaml.Node, dst P) error {
	prop, err := DecodeProperty(node)
	if err != nil {
		return err
	}
	got, ok := prop.(P)
	if !ok {
		return fmt.Errorf("%w: expected %s, got %s", ErrUnknownKind, dst.Kind(), prop.Kind())
	}
	*dst = *got
	return nil
}

func decodeKindJSON[T any, P interface {
	*T
	Property
}](data []byte, dst P) error {
	node, err := jsonNode(data)
	if err != nil {
		return err
	}
	return decodeKind[T, P](node, dst)
}

func (p *StringProperty) UnmarshalYAML(node *yaml.Node) error  { return decodeKind(node, p) }
func (p *NumberProperty) UnmarshalYAML(node *yaml.Node) error  { return decodeKind(node, p) }
func (p *IntegerProperty) UnmarshalYAML(node *yaml.Node) error { return decodeKind(node, p) }
func (p *BooleanProperty) UnmarshalYAML(node *yaml.Node) error { return decodeKind(node, p) }
func (p *ObjectProperty) UnmarshalYAML(node *yaml.Node) error  { return decodeKind(node, p) }
func (p *ArrayProperty) UnmarshalYAML(node *yaml.Node) error   { return decodeKind(node, p) }

func (p *StringProperty) UnmarshalJSON(data []byte) error  { return decodeKindJSON(data, p) }
func (p *NumberProperty) UnmarshalJSON(data []byte) error  { return decodeKindJSON(data, p) }
func (p *IntegerProperty) UnmarshalJSON(data []byte) error { return decodeKindJSON(data, p) }
func (p *BooleanProperty) UnmarshalJSON(data []byte) error { return decodeKindJSON(data, p) }
func (p *ObjectProperty) UnmarshalJSON(data []byte) error  { return decodeKindJSON(data, p) }
func (p *ArrayProperty) UnmarshalJSON(data []byte) error   { return decodeKindJSON(data, p) }
