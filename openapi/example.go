package openapi

import "fmt"

// Fallback example values used when a property carries no example.
const (
	DefaultStringExample   = "Example string"
	DefaultIntegerExample  = int64(5)
	DefaultNumberExample   = 4.5
	DefaultBooleanExample  = false
	DefaultDateExample     = "1970-06-24"
	DefaultDateTimeExample = "1970-06-24T05:34:58Z"
	DefaultUUIDExample     = "550e8400-e29b-41d4-a716-446655440000"
)

// SynthesizeExample produces a representative value for p. An author
// supplied example wins at every level. Objects become a map containing
// every property, arrays become a single-element slice, and scalars
// without an example fall back to a type default.
//
// See: https://spec.openapis.org/oas/v3.1.0#example-object
func SynthesizeExample(p Property) any {
	return synthesize(p, false)
}

// SynthesizeLegacyExample reproduces the older synthesis output: zero
// valued author examples are treated as absent, and object keys whose
// synthesized value is a zero value are dropped.
func SynthesizeLegacyExample(p Property) any {
	return synthesize(p, true)
}

func synthesize(p Property, legacy bool) any {
	switch v := p.(type) {
	case *StringProperty:
		if v.Example != nil && !(legacy && *v.Example == "") {
			return *v.Example
		}
		return defaultStringExample(v.Format)

	case *NumberProperty:
		if v.Example != nil && !(legacy && *v.Example == 0) {
			return *v.Example
		}
		return DefaultNumberExample

	case *IntegerProperty:
		if v.Example != nil && !(legacy && *v.Example == 0) {
			return *v.Example
		}
		return DefaultIntegerExample

	case *BooleanProperty:
		if v.Example != nil && !legacy {
			return *v.Example
		}
		if v.Example != nil && *v.Example {
			return true
		}
		return DefaultBooleanExample

	case *ObjectProperty:
		if v.Example != nil {
			return cloneValue(v.Example)
		}
		return synthesizeProperties(v.Properties, legacy)

	case *ArrayProperty:
		if v.Example != nil {
			return cloneValue(v.Example)
		}
		if v.Items == nil {
			return []any{}
		}
		return []any{synthesize(v.Items, legacy)}

	case nil:
		return nil
	}

	panic(fmt.Sprintf("openapi: unhandled property kind %T", p))
}

// synthesizeProperties builds an example object from ordered properties.
func synthesizeProperties(props *Properties, legacy bool) map[string]any {
	out := make(map[string]any, props.Len())
	for _, name := range props.Keys() {
		prop, _ := props.Get(name)
		if prop == nil {
			continue
		}
		value := synthesize(prop, legacy)
		if legacy && isZeroExample(value) {
			continue
		}
		out[name] = value
	}
	return out
}

func defaultStringExample(format string) string {
	switch format {
	case FormatDate:
		return DefaultDateExample
	case FormatDateTime:
		return DefaultDateTimeExample
	case FormatUUID:
		return DefaultUUIDExample
	}
	return DefaultStringExample
}

func isZeroExample(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case int64:
		return t == 0
	case float64:
		return t == 0
	}
	return false
}
