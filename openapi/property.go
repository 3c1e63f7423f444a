package openapi

import (
	"fmt"
)

// Property kinds. The kind is emitted as the "type" keyword of the
// property's JSON Schema.
//
// See: https://json-schema.org/draft/2020-12/json-schema-validation#section-6.1.1
const (
	KindString  = "string"
	KindNumber  = "number"
	KindInteger = "integer"
	KindBoolean = "boolean"
	KindObject  = "object"
	KindArray   = "array"
)

// Property describes the shape of a single field. It is a closed set:
// the only implementations are StringProperty, NumberProperty,
// IntegerProperty, BooleanProperty, ObjectProperty and ArrayProperty.
//
// See: https://spec.openapis.org/oas/v3.1.0#schema-object
type Property interface {
	// Kind returns the JSON Schema type keyword of the property.
	Kind() string

	// Clone returns a deep copy of the property.
	Clone() Property

	isProperty()
}

// StringProperty describes a string field.
//
// See: https://json-schema.org/draft/2020-12/json-schema-validation#section-6.3
type StringProperty struct {
	Description string
	Format      string
	Pattern     string
	Enum        []string
	Example     *string
}

// NumberProperty describes a floating point field.
//
// See: https://json-schema.org/draft/2020-12/json-schema-validation#section-6.2
type NumberProperty struct {
	Description string
	Format      string
	Minimum     *float64
	Maximum     *float64
	Enum        []float64
	Example     *float64
}

// IntegerProperty describes an integer field.
//
// See: https://json-schema.org/draft/2020-12/json-schema-validation#section-6.2
type IntegerProperty struct {
	Description string
	Minimum     *int64
	Maximum     *int64
	Enum        []int64
	Example     *int64
}

// BooleanProperty describes a boolean field.
type BooleanProperty struct {
	Description string
	Example     *bool
}

// ObjectProperty describes an object with ordered named properties.
// Every name in Required must be a key of Properties. A materialized
// schema view is an ObjectProperty whose Title is the schema name.
//
// See: https://json-schema.org/draft/2020-12/json-schema-core#section-10.3.2
type ObjectProperty struct {
	Title       string
	Description string
	Properties  *Properties
	Required    []string
	Example     any
}

// ArrayProperty describes a homogeneous array.
//
// See: https://json-schema.org/draft/2020-12/json-schema-core#section-10.3.1
type ArrayProperty struct {
	Description string
	Items       Property
	Example     any
}

func (*StringProperty) Kind() string  { return KindString }
func (*NumberProperty) Kind() string  { return KindNumber }
func (*IntegerProperty) Kind() string { return KindInteger }
func (*BooleanProperty) Kind() string { return KindBoolean }
func (*ObjectProperty) Kind() string  { return KindObject }
func (*ArrayProperty) Kind() string   { return KindArray }

func (*StringProperty) isProperty()  {}
func (*NumberProperty) isProperty()  {}
func (*IntegerProperty) isProperty() {}
func (*BooleanProperty) isProperty() {}
func (*ObjectProperty) isProperty()  {}
func (*ArrayProperty) isProperty()   {}

func (p *StringProperty) Clone() Property {
	c := *p
	c.Enum = cloneSlice(p.Enum)
	c.Example = clonePtr(p.Example)
	return &c
}

func (p *NumberProperty) Clone() Property {
	c := *p
	c.Minimum = clonePtr(p.Minimum)
	c.Maximum = clonePtr(p.Maximum)
	c.Enum = cloneSlice(p.Enum)
	c.Example = clonePtr(p.Example)
	return &c
}

func (p *IntegerProperty) Clone() Property {
	c := *p
	c.Minimum = clonePtr(p.Minimum)
	c.Maximum = clonePtr(p.Maximum)
	c.Enum = cloneSlice(p.Enum)
	c.Example = clonePtr(p.Example)
	return &c
}

func (p *BooleanProperty) Clone() Property {
	c := *p
	c.Example = clonePtr(p.Example)
	return &c
}

func (p *ObjectProperty) Clone() Property {
	return p.cloneObject()
}

func (p *ObjectProperty) cloneObject() *ObjectProperty {
	c := *p
	c.Properties = p.Properties.Clone()
	c.Required = cloneSlice(p.Required)
	c.Example = cloneValue(p.Example)
	return &c
}

func (p *ArrayProperty) Clone() Property {
	c := *p
	if p.Items != nil {
		c.Items = p.Items.Clone()
	}
	c.Example = cloneValue(p.Example)
	return &c
}

// members lists the JSON Schema keywords of a property in emission order.
func members(p Property) orderedObject {
	obj := orderedObject{{"type", p.Kind()}}

	switch v := p.(type) {
	case *StringProperty:
		obj = obj.addString("description", v.Description).
			addString("format", v.Format).
			addString("pattern", v.Pattern)
		if len(v.Enum) > 0 {
			obj = append(obj, member{"enum", v.Enum})
		}
		if v.Example != nil {
			obj = append(obj, member{"example", *v.Example})
		}
	case *NumberProperty:
		obj = obj.addString("description", v.Description).
			addString("format", v.Format)
		if v.Minimum != nil {
			obj = append(obj, member{"minimum", *v.Minimum})
		}
		if v.Maximum != nil {
			obj = append(obj, member{"maximum", *v.Maximum})
		}
		if len(v.Enum) > 0 {
			obj = append(obj, member{"enum", v.Enum})
		}
		if v.Example != nil {
			obj = append(obj, member{"example", *v.Example})
		}
	case *IntegerProperty:
		obj = obj.addString("description", v.Description)
		if v.Minimum != nil {
			obj = append(obj, member{"minimum", *v.Minimum})
		}
		if v.Maximum != nil {
			obj = append(obj, member{"maximum", *v.Maximum})
		}
		if len(v.Enum) > 0 {
			obj = append(obj, member{"enum", v.Enum})
		}
		if v.Example != nil {
			obj = append(obj, member{"example", *v.Example})
		}
	case *BooleanProperty:
		obj = obj.addString("description", v.Description)
		if v.Example != nil {
			obj = append(obj, member{"example", *v.Example})
		}
	case *ObjectProperty:
		obj = obj.addString("title", v.Title).
			addString("description", v.Description)
		obj = append(obj, member{"properties", v.Properties.members()})
		if len(v.Required) > 0 {
			obj = append(obj, member{"required", v.Required})
		}
		if v.Example != nil {
			obj = append(obj, member{"example", v.Example})
		}
	case *ArrayProperty:
		obj = obj.addString("description", v.Description)
		if v.Items != nil {
			obj = append(obj, member{"items", v.Items})
		}
		if v.Example != nil {
			obj = append(obj, member{"example", v.Example})
		}
	default:
		panic(fmt.Sprintf("openapi: unhandled property kind %T", p))
	}

	return obj
}

func (p *StringProperty) MarshalJSON() ([]byte, error)  { return members(p).MarshalJSON() }
func (p *NumberProperty) MarshalJSON() ([]byte, error)  { return members(p).MarshalJSON() }
func (p *IntegerProperty) MarshalJSON() ([]byte, error) { return members(p).MarshalJSON() }
func (p *BooleanProperty) MarshalJSON() ([]byte, error) { return members(p).MarshalJSON() }
func (p *ObjectProperty) MarshalJSON() ([]byte, error)  { return members(p).MarshalJSON() }
func (p *ArrayProperty) MarshalJSON() ([]byte, error)   { return members(p).MarshalJSON() }

func (p *StringProperty) MarshalYAML() (any, error)  { return members(p).MarshalYAML() }
func (p *NumberProperty) MarshalYAML() (any, error)  { return members(p).MarshalYAML() }
func (p *IntegerProperty) MarshalYAML() (any, error) { return members(p).MarshalYAML() }
func (p *BooleanProperty) MarshalYAML() (any, error) { return members(p).MarshalYAML() }
func (p *ObjectProperty) MarshalYAML() (any, error)  { return members(p).MarshalYAML() }
func (p *ArrayProperty) MarshalYAML() (any, error)   { return members(p).MarshalYAML() }

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// cloneValue deep-copies JSON-like example values (maps, slices and
// scalars). Other reference types are returned as is.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
