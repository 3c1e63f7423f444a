package openapi

import (
	"bytes"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// NamedProperty pairs a field name with its property, for building
// Properties in declaration order.
type NamedProperty struct {
	Name     string
	Property Property
}

// Prop returns a NamedProperty.
func Prop(name string, p Property) NamedProperty {
	return NamedProperty{Name: name, Property: p}
}

// Properties is an insertion-ordered mapping of field names to
// properties. Encoding to JSON or YAML preserves insertion order.
// A nil *Properties behaves as an empty mapping for reads.
type Properties struct {
	keys   []string
	values map[string]Property
}

// NewProperties returns Properties holding the given pairs in order.
// A repeated name overwrites the earlier value and keeps its position.
func NewProperties(pairs ...NamedProperty) *Properties {
	ps := &Properties{values: make(map[string]Property, len(pairs))}
	for _, p := range pairs {
		ps.Set(p.Name, p.Property)
	}
	return ps
}

// Set inserts or overwrites name. New names are appended at the end.
func (ps *Properties) Set(name string, p Property) *Properties {
	if ps.values == nil {
		ps.values = make(map[string]Property)
	}
	if _, ok := ps.values[name]; !ok {
		ps.keys = append(ps.keys, name)
	}
	ps.values[name] = p
	return ps
}

// Get returns the property stored under name.
func (ps *Properties) Get(name string) (Property, bool) {
	if ps == nil {
		return nil, false
	}
	p, ok := ps.values[name]
	return p, ok
}

// Has reports whether name is present.
func (ps *Properties) Has(name string) bool {
	_, ok := ps.Get(name)
	return ok
}

// Delete removes name, keeping the order of the remaining keys.
func (ps *Properties) Delete(name string) {
	if ps == nil {
		return
	}
	if _, ok := ps.values[name]; !ok {
		return
	}
	delete(ps.values, name)
	for i, k := range ps.keys {
		if k == name {
			ps.keys = append(ps.keys[:i:i], ps.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the names in insertion order.
func (ps *Properties) Keys() []string {
	if ps == nil {
		return nil
	}
	return append([]string(nil), ps.keys...)
}

// Len returns the number of properties.
func (ps *Properties) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.keys)
}

// Clone returns a deep copy. Cloning nil returns nil.
func (ps *Properties) Clone() *Properties {
	if ps == nil {
		return nil
	}
	out := &Properties{
		keys:   append([]string(nil), ps.keys...),
		values: make(map[string]Property, len(ps.values)),
	}
	for k, v := range ps.values {
		if v != nil {
			v = v.Clone()
		}
		out.values[k] = v
	}
	return out
}

func (ps *Properties) members() orderedObject {
	obj := make(orderedObject, 0, ps.Len())
	for _, k := range ps.Keys() {
		obj = append(obj, member{k, ps.values[k]})
	}
	return obj
}

// MarshalJSON encodes the properties as a JSON object in insertion order.
func (ps *Properties) MarshalJSON() ([]byte, error) {
	return ps.members().MarshalJSON()
}

// MarshalYAML encodes the properties as a YAML mapping in insertion order.
func (ps *Properties) MarshalYAML() (any, error) {
	return ps.members().MarshalYAML()
}

// UnmarshalYAML decodes a mapping of field names to properties.
func (ps *Properties) UnmarshalYAML(node *yaml.Node) error {
	decoded, err := decodeProperties(node)
	if err != nil {
		return err
	}
	*ps = *decoded
	return nil
}

// UnmarshalJSON decodes a JSON object of field names to properties,
// preserving key order.
func (ps *Properties) UnmarshalJSON(data []byte) error {
	node, err := jsonNode(data)
	if err != nil {
		return err
	}
	return ps.UnmarshalYAML(node)
}

type member struct {
	key   string
	value any
}

// orderedObject is a JSON/YAML object whose keys are emitted in slice order.
type orderedObject []member

func (o orderedObject) addString(key, value string) orderedObject {
	if value == "" {
		return o
	}
	return append(o, member{key, value})
}

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(m.value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o orderedObject) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, m := range o {
		var value yaml.Node
		if err := value.Encode(m.value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.key},
			&value,
		)
	}
	return node, nil
}

// jsonNode parses JSON into a YAML node tree. JSON is valid YAML 1.2, so
// the YAML decoder is reused to keep object key order.
func jsonNode(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0], nil
	}
	return &doc, nil
}
