package openapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Selection errors.
var (
	// ErrUnknownField is returned when a field reference does not exist in
	// the relevant field set (the current selection, or all properties for
	// preset definitions and object construction).
	ErrUnknownField = errors.New("openapi: unknown field")

	// ErrPresetNotFound is returned when selecting a preset that was never
	// defined on the schema.
	ErrPresetNotFound = errors.New("openapi: preset not found")

	// ErrEmptySelection is returned when materializing a view with no
	// selected fields.
	ErrEmptySelection = errors.New("openapi: empty selection")
)

// Property construction errors.
var (
	// ErrPatternMismatch is returned when a string example does not match
	// its declared pattern.
	ErrPatternMismatch = errors.New("openapi: example does not match pattern")

	// ErrBadDateExample is returned when a date or date-time example is not
	// in the expected textual format.
	ErrBadDateExample = errors.New("openapi: bad date example")

	// ErrBadUUIDExample is returned when a uuid example cannot be parsed.
	ErrBadUUIDExample = errors.New("openapi: bad uuid example")

	// ErrUnknownKind is returned when decoding a property with a missing or
	// unsupported type keyword.
	ErrUnknownKind = errors.New("openapi: unknown property kind")
)

// Document assembly errors.
var (
	// ErrDuplicatePath is returned when two operations are registered for
	// the same path and method.
	ErrDuplicatePath = errors.New("openapi: duplicate operation")
)

// SchemaError describes a failed selection step on a named schema.
// Valid lists the field names that would have been accepted.
type SchemaError struct {
	Schema string
	Op     string
	Field  string
	Valid  []string
	Err    error
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Op, e.Err)
	if e.Field != "" {
		fmt.Fprintf(&b, " %q", e.Field)
	}
	fmt.Fprintf(&b, " on schema %q", e.Schema)
	if len(e.Valid) > 0 {
		valid := append([]string(nil), e.Valid...)
		sort.Strings(valid)
		fmt.Fprintf(&b, " (valid: %s)", strings.Join(valid, ", "))
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
