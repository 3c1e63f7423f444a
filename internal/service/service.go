// Package service assembles OpenAPI specs from service configuration.
package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/vitalvas/apishape/fields"
	"github.com/vitalvas/apishape/internal/config"
	"github.com/vitalvas/apishape/openapi"
)

// Schemas builds the schemas declared by svc over the fields of src, with
// their presets defined.
func Schemas(ctx context.Context, svc config.ServiceConfig, src fields.Source) ([]*openapi.Schema, error) {
	available, err := src.Fields(ctx)
	if err != nil {
		return nil, fmt.Errorf("load fields: %w", err)
	}

	schemas := make([]*openapi.Schema, 0, len(svc.Schemas))
	for _, sc := range svc.Schemas {
		props, err := schemaProperties(sc, available)
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", sc.Name, err)
		}

		schema := openapi.NewSchema(sc.Name, props)
		for _, name := range sortedKeys(sc.Presets) {
			preset := sc.Presets[name]
			refs := make([]openapi.FieldRef, 0, len(preset.Fields))
			for _, f := range preset.Fields {
				if slices.Contains(preset.Required, f) {
					refs = append(refs, openapi.RequiredField(f))
				} else {
					refs = append(refs, openapi.Field(f))
				}
			}
			if err := schema.DefinePreset(name, refs...); err != nil {
				return nil, fmt.Errorf("preset %s: %w", name, err)
			}
		}

		schemas = append(schemas, schema)
	}

	return schemas, nil
}

func schemaProperties(sc config.SchemaConfig, available *openapi.Properties) (*openapi.Properties, error) {
	props := openapi.NewProperties()

	for _, name := range sc.Fields {
		if p, ok := sc.Properties.Get(name); ok {
			props.Set(name, p)
			continue
		}
		p, ok := available.Get(name)
		if !ok {
			return nil, &openapi.SchemaError{
				Schema: sc.Name,
				Op:     "fields",
				Field:  name,
				Valid:  available.Keys(),
				Err:    openapi.ErrUnknownField,
			}
		}
		props.Set(name, p)
	}

	for _, name := range sc.Properties.Keys() {
		if !props.Has(name) {
			p, _ := sc.Properties.Get(name)
			props.Set(name, p)
		}
	}

	return props, nil
}

// ViewName returns the component name of a schema preset view, for
// example "PersonNames" for the "names" preset of "Person".
func ViewName(schema, preset string) string {
	camel := openapi.CamelCase(preset)
	if camel == "" {
		return schema
	}
	return schema + strings.ToUpper(camel[:1]) + camel[1:]
}

// Spec returns a spec for svc holding every schema in components: the full
// view under the schema name and one view per preset under ViewName.
func Spec(ctx context.Context, svc config.ServiceConfig, src fields.Source) (*openapi.Spec, error) {
	schemas, err := Schemas(ctx, svc, src)
	if err != nil {
		return nil, err
	}

	spec := openapi.NewSpec(openapi.Info{
		Title:       svc.Title,
		Description: svc.Description,
		Version:     svc.Version,
	})
	for _, server := range svc.Servers {
		spec.AddServer(server)
	}

	for _, schema := range schemas {
		spec.AddSchema(schema)
		for _, preset := range schema.Presets() {
			view, err := schema.Preset(preset).ToSpec()
			if err != nil {
				return nil, fmt.Errorf("schema %s preset %s: %w", schema.Name(), preset, err)
			}
			spec.AddSchemaView(ViewName(schema.Name(), preset), view)
		}
	}

	return spec, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
