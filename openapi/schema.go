package openapi

import (
	"sort"
	"sync"
)

// FieldRef names a field in a selection call. Required additionally marks
// the field as required in the resulting view.
type FieldRef struct {
	Name     string
	Required bool
}

// Field returns an optional field reference.
func Field(name string) FieldRef {
	return FieldRef{Name: name}
}

// RequiredField returns a field reference that is also marked required.
func RequiredField(name string) FieldRef {
	return FieldRef{Name: name, Required: true}
}

// Fields returns optional field references for names.
func Fields(names ...string) []FieldRef {
	refs := make([]FieldRef, len(names))
	for i, name := range names {
		refs[i] = Field(name)
	}
	return refs
}

// Schema is a named, fixed set of properties for one domain entity, from
// which any number of views can be derived. The property set is copied at
// construction and never changes. Presets may be added at any time; a
// Schema is safe for concurrent use.
//
//	person := openapi.NewSchema("Person", props)
//	_ = person.DefinePreset("names", openapi.Fields("first_name", "last_name")...)
//
//	full := person.All().MustSpec()
//	names := person.Preset("names").Require("first_name").MustSpec()
//
// See: https://spec.openapis.org/oas/v3.1.0#schema-object
type Schema struct {
	name string
	all  *Properties

	mu      sync.RWMutex
	presets map[string][]FieldRef
}

// NewSchema creates a schema named name over a deep copy of props.
func NewSchema(name string, props *Properties) *Schema {
	all := props.Clone()
	if all == nil {
		all = NewProperties()
	}
	return &Schema{
		name:    name,
		all:     all,
		presets: make(map[string][]FieldRef),
	}
}

// Name returns the schema name, used as the title of every view.
func (s *Schema) Name() string {
	return s.name
}

// Properties returns a deep copy of all properties of the schema.
func (s *Schema) Properties() *Properties {
	return s.all.Clone()
}

// DefinePreset stores an ordered field list under name for use with
// Preset. Every field must exist in the schema. Redefining a preset
// replaces it.
func (s *Schema) DefinePreset(name string, fields ...FieldRef) error {
	for _, f := range fields {
		if !s.all.Has(f.Name) {
			return &SchemaError{
				Schema: s.name,
				Op:     "definePreset",
				Field:  f.Name,
				Valid:  s.all.Keys(),
				Err:    ErrUnknownField,
			}
		}
	}

	s.mu.Lock()
	s.presets[name] = append([]FieldRef(nil), fields...)
	s.mu.Unlock()

	return nil
}

// Presets returns the defined preset names in sorted order.
func (s *Schema) Presets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.presets))
	for name := range s.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns a view with nothing selected. Fields are introduced with
// Add; use All or Preset to start from the schema's properties.
func (s *Schema) Select() View {
	return View{schema: s, selected: NewProperties()}
}

// All returns a view selecting every property of the schema.
func (s *Schema) All() View {
	return View{schema: s, selected: s.all.Clone()}
}

// Preset returns All narrowed to the fields of the named preset.
func (s *Schema) Preset(name string) View {
	s.mu.RLock()
	fields, ok := s.presets[name]
	s.mu.RUnlock()

	if !ok {
		return View{schema: s, err: &SchemaError{
			Schema: s.name,
			Op:     "preset",
			Field:  name,
			Valid:  s.Presets(),
			Err:    ErrPresetNotFound,
		}}
	}
	return s.All().Pick(fields...)
}

// View is one selection over a Schema. Views are immutable values: every
// operation returns a new View and leaves the receiver unchanged, so a
// View can be shared and branched freely.
//
// The first failing operation is recorded in the returned View. Later
// operations on it are no-ops, and ToSpec reports the error.
type View struct {
	schema   *Schema
	selected *Properties
	required []string
	err      error
}

// Err returns the error recorded by a failed operation, if any.
func (v View) Err() error {
	return v.err
}

// Keys returns the selected field names in order.
func (v View) Keys() []string {
	return v.selected.Keys()
}

// Required returns the required field names in the order they were marked.
func (v View) Required() []string {
	return append([]string(nil), v.required...)
}

// Pick narrows the selection to refs, in call order. Every name must be
// currently selected. Required refs are appended to the required list,
// and required names that are no longer selected are dropped.
func (v View) Pick(refs ...FieldRef) View {
	if v.err != nil {
		return v
	}
	if err := v.check("pick", refs); err != nil {
		return v.fail(err)
	}

	next := NewProperties()
	for _, ref := range refs {
		p, _ := v.selected.Get(ref.Name)
		next.Set(ref.Name, p)
	}

	out := View{schema: v.schema, selected: next}
	for _, name := range v.required {
		if next.Has(name) {
			out.required = append(out.required, name)
		}
	}
	for _, ref := range refs {
		if ref.Required {
			out.required = append(out.required, ref.Name)
		}
	}
	return out
}

// Omit removes refs from the selection. Every name must be currently
// selected. The Required flag of a ref is ignored; omitted names are also
// removed from the required list.
func (v View) Omit(refs ...FieldRef) View {
	if v.err != nil {
		return v
	}
	if err := v.check("omit", refs); err != nil {
		return v.fail(err)
	}

	omitted := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		omitted[ref.Name] = struct{}{}
	}

	next := NewProperties()
	for _, name := range v.selected.Keys() {
		if _, ok := omitted[name]; ok {
			continue
		}
		p, _ := v.selected.Get(name)
		next.Set(name, p)
	}

	out := View{schema: v.schema, selected: next}
	for _, name := range v.required {
		if _, ok := omitted[name]; !ok {
			out.required = append(out.required, name)
		}
	}
	return out
}

// Require marks names as required without changing the selection. Every
// name must be currently selected. Names are appended on every call, so
// requiring a field twice lists it twice.
func (v View) Require(names ...string) View {
	if v.err != nil {
		return v
	}

	refs := make([]FieldRef, len(names))
	for i, name := range names {
		refs[i] = RequiredField(name)
	}
	if err := v.check("require", refs); err != nil {
		return v.fail(err)
	}

	out := v.clone()
	out.required = append(out.required, names...)
	return out
}

// Add inserts or replaces ref in the selection with p. The field does not
// need to exist in the schema. Add never fails.
func (v View) Add(ref FieldRef, p Property) View {
	if v.err != nil {
		return v
	}

	out := v.clone()
	out.selected.Set(ref.Name, p)
	if ref.Required {
		out.required = append(out.required, ref.Name)
	}
	return out
}

// ToSpec materializes the view as an object property titled with the
// schema name. The result is a deep copy that shares nothing with the
// view or the schema.
func (v View) ToSpec() (*ObjectProperty, error) {
	if v.err != nil {
		return nil, v.err
	}
	if v.selected.Len() == 0 {
		return nil, &SchemaError{
			Schema: v.schemaName(),
			Op:     "toSpec",
			Err:    ErrEmptySelection,
		}
	}

	return &ObjectProperty{
		Title:      v.schemaName(),
		Properties: v.selected.Clone(),
		Required:   cloneSlice(v.required),
	}, nil
}

// MustSpec is like ToSpec but panics on error. It is intended for
// package-level definitions.
func (v View) MustSpec() *ObjectProperty {
	return Must(v.ToSpec())
}

// Example synthesizes an example payload for the view.
func (v View) Example() (any, error) {
	spec, err := v.ToSpec()
	if err != nil {
		return nil, err
	}
	return SynthesizeExample(spec), nil
}

func (v View) check(op string, refs []FieldRef) error {
	for _, ref := range refs {
		if !v.selected.Has(ref.Name) {
			return &SchemaError{
				Schema: v.schemaName(),
				Op:     op,
				Field:  ref.Name,
				Valid:  v.selected.Keys(),
				Err:    ErrUnknownField,
			}
		}
	}
	return nil
}

func (v View) fail(err error) View {
	return View{schema: v.schema, err: err}
}

// clone copies the selection containers; property values are shared
// because no View operation modifies a property in place.
func (v View) clone() View {
	out := View{schema: v.schema, selected: NewProperties(), required: cloneSlice(v.required)}
	for _, name := range v.selected.Keys() {
		p, _ := v.selected.Get(name)
		out.selected.Set(name, p)
	}
	return out
}

func (v View) schemaName() string {
	if v.schema == nil {
		return ""
	}
	return v.schema.name
}
