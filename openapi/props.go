package openapi

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// String formats with construction-time example checks.
//
// See: https://spec.openapis.org/oas/v3.1.0#data-types
const (
	FormatDate     = "date"
	FormatDateTime = "date-time"
	FormatUUID     = "uuid"
	FormatFloat    = "float"
)

// Option adjusts a property built by one of the constructors. Options that
// do not apply to the property kind are ignored.
type Option func(Property)

// WithDescription sets the description of any property kind.
func WithDescription(desc string) Option {
	return func(p Property) {
		switch v := p.(type) {
		case *StringProperty:
			v.Description = desc
		case *NumberProperty:
			v.Description = desc
		case *IntegerProperty:
			v.Description = desc
		case *BooleanProperty:
			v.Description = desc
		case *ObjectProperty:
			v.Description = desc
		case *ArrayProperty:
			v.Description = desc
		}
	}
}

// WithFormat sets the format of a string or number property.
func WithFormat(format string) Option {
	return func(p Property) {
		switch v := p.(type) {
		case *StringProperty:
			v.Format = format
		case *NumberProperty:
			v.Format = format
		}
	}
}

// WithEnum restricts a string, integer or number property to the given
// values. The value type must match the property kind.
func WithEnum[T string | int64 | float64](values ...T) Option {
	return func(p Property) {
		switch v := p.(type) {
		case *StringProperty:
			if e, ok := any(values).([]string); ok {
				v.Enum = e
			}
		case *IntegerProperty:
			if e, ok := any(values).([]int64); ok {
				v.Enum = e
			}
		case *NumberProperty:
			if e, ok := any(values).([]float64); ok {
				v.Enum = e
			}
		}
	}
}

// WithMinimum sets the inclusive lower bound of an integer or number.
func WithMinimum(bound float64) Option {
	return func(p Property) {
		switch v := p.(type) {
		case *IntegerProperty:
			n := int64(bound)
			v.Minimum = &n
		case *NumberProperty:
			f := bound
			v.Minimum = &f
		}
	}
}

// WithMaximum sets the inclusive upper bound of an integer or number.
func WithMaximum(bound float64) Option {
	return func(p Property) {
		switch v := p.(type) {
		case *IntegerProperty:
			n := int64(bound)
			v.Maximum = &n
		case *NumberProperty:
			f := bound
			v.Maximum = &f
		}
	}
}

// WithTitle sets the title of an object property.
func WithTitle(title string) Option {
	return func(p Property) {
		if v, ok := p.(*ObjectProperty); ok {
			v.Title = title
		}
	}
}

func apply[P Property](p P, opts []Option) P {
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// String returns a string property with the given example.
func String(example string, opts ...Option) *StringProperty {
	return apply(&StringProperty{Example: &example}, opts)
}

// Pattern returns a string property constrained by a regular expression.
// The example must match the pattern.
//
// See: https://json-schema.org/draft/2020-12/json-schema-validation#section-6.3.3
func Pattern(pattern, example string, opts ...Option) (*StringProperty, error) {
	p := apply(&StringProperty{Example: &example}, opts)
	p.Pattern = pattern
	if err := validateString(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Date returns a string property with format "date". The example must be
// a full-date such as "1970-06-24".
//
// See: https://json-schema.org/draft/2020-12/json-schema-validation#section-7.3.1
func Date(example string, opts ...Option) (*StringProperty, error) {
	p := apply(&StringProperty{Example: &example}, opts)
	p.Format = FormatDate
	if err := validateString(p); err != nil {
		return nil, err
	}
	return p, nil
}

// DateTime returns a string property with format "date-time". The example
// must be an RFC 3339 timestamp such as "1970-06-24T05:34:58+01:00".
//
// See: https://json-schema.org/draft/2020-12/json-schema-validation#section-7.3.1
func DateTime(example string, opts ...Option) (*StringProperty, error) {
	p := apply(&StringProperty{Example: &example}, opts)
	p.Format = FormatDateTime
	if err := validateString(p); err != nil {
		return nil, err
	}
	return p, nil
}

// UUID returns a string property with format "uuid". The example must be
// a valid UUID.
//
// See: https://www.rfc-editor.org/rfc/rfc9562
func UUID(example string, opts ...Option) (*StringProperty, error) {
	p := apply(&StringProperty{Example: &example}, opts)
	p.Format = FormatUUID
	if err := validateString(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Integer returns an integer property with the given example.
func Integer(example int64, opts ...Option) *IntegerProperty {
	return apply(&IntegerProperty{Example: &example}, opts)
}

// Number returns a number property with the given example.
func Number(example float64, opts ...Option) *NumberProperty {
	return apply(&NumberProperty{Example: &example}, opts)
}

// Float returns a number property with format "float".
func Float(example float64, opts ...Option) *NumberProperty {
	return apply(&NumberProperty{Format: FormatFloat, Example: &example}, opts)
}

// Boolean returns a boolean property with the given example.
func Boolean(example bool, opts ...Option) *BooleanProperty {
	return apply(&BooleanProperty{Example: &example}, opts)
}

// Array returns an array of items.
func Array(items Property, opts ...Option) *ArrayProperty {
	return apply(&ArrayProperty{Items: items}, opts)
}

// Object returns an object with the given properties and no required
// fields.
func Object(props *Properties, opts ...Option) *ObjectProperty {
	if props == nil {
		props = NewProperties()
	}
	return apply(&ObjectProperty{Properties: props}, opts)
}

// ObjectOf returns an object whose required names must all be present in
// props.
func ObjectOf(props *Properties, required []string, opts ...Option) (*ObjectProperty, error) {
	obj := Object(props, opts...)
	for _, name := range required {
		if !obj.Properties.Has(name) {
			return nil, fmt.Errorf("%w: required %q is not a property", ErrUnknownField, name)
		}
	}
	obj.Required = append([]string(nil), required...)
	return obj, nil
}

// Must returns v or panics when err is non-nil. It is intended for
// package-level definitions that are known to be valid.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// validateString checks a string property's example against its pattern
// and format.
func validateString(p *StringProperty) error {
	if p.Example == nil {
		return nil
	}
	example := *p.Example

	if p.Pattern != "" {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return fmt.Errorf("openapi: invalid pattern %q: %w", p.Pattern, err)
		}
		if !re.MatchString(example) {
			return fmt.Errorf("%w: pattern %q, example %q", ErrPatternMismatch, p.Pattern, example)
		}
	}

	switch p.Format {
	case FormatDate:
		if _, err := time.Parse(time.DateOnly, example); err != nil {
			return fmt.Errorf("%w: %q is not a full-date", ErrBadDateExample, example)
		}
	case FormatDateTime:
		if _, err := time.Parse(time.RFC3339, example); err != nil {
			return fmt.Errorf("%w: %q is not an RFC 3339 date-time", ErrBadDateExample, example)
		}
	case FormatUUID:
		if _, err := uuid.Parse(example); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrBadUUIDExample, example, err)
		}
	}

	return nil
}
