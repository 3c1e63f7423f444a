// Package fields provides field definitions for schema construction.
//
// A field is a named property shared between schemas of one service. Fields
// are typically kept one per file in a directory:
//
//	fields/
//	  first_name.yaml
//	  last_name.yaml
//	  ssn.json
//
// and loaded with Dir. The file name up to its first dot becomes the field
// name and the content is a property in OpenAPI schema syntax.
package fields

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vitalvas/apishape/openapi"
)

// Source provides a set of field definitions.
type Source interface {
	Fields(ctx context.Context) (*openapi.Properties, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (*openapi.Properties, error)

func (f SourceFunc) Fields(ctx context.Context) (*openapi.Properties, error) {
	return f(ctx)
}

// Map returns a static source. Every call to Fields returns a deep copy of
// props, so callers may modify the result freely.
func Map(props *openapi.Properties) Source {
	return SourceFunc(func(_ context.Context) (*openapi.Properties, error) {
		if props == nil {
			return openapi.NewProperties(), nil
		}
		return props.Clone(), nil
	})
}

// fileExtensions lists the field file extensions Dir loads.
var fileExtensions = map[string]struct{}{
	".yaml": {},
	".yml":  {},
	".json": {},
}

// Dir returns a source reading one field per file from dir within fsys.
// Files named index.* are skipped, as are subdirectories and files with
// other extensions. Fields are returned sorted by file name.
func Dir(fsys fs.FS, dir string) Source {
	return SourceFunc(func(ctx context.Context) (*openapi.Properties, error) {
		entries, err := fs.ReadDir(fsys, dir)
		if err != nil {
			return nil, fmt.Errorf("read fields dir: %w", err)
		}

		props := openapi.NewProperties()
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			name, ok := fieldName(entry)
			if !ok {
				continue
			}

			file := path.Join(dir, entry.Name())
			p, err := loadFile(fsys, file)
			if err != nil {
				return nil, fmt.Errorf("load field %s: %w", file, err)
			}
			props.Set(name, p)
		}

		return props, nil
	})
}

// fieldName reports the field name for a directory entry, or false when
// the entry is not a field file.
func fieldName(entry fs.DirEntry) (string, bool) {
	if entry.IsDir() {
		return "", false
	}

	if _, ok := fileExtensions[path.Ext(entry.Name())]; !ok {
		return "", false
	}

	name, _, _ := strings.Cut(entry.Name(), ".")
	if name == "" || name == "index" {
		return "", false
	}

	return name, true
}

func loadFile(fsys fs.FS, file string) (openapi.Property, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}

	return openapi.DecodeProperty(&node)
}

// Merge returns a source combining the fields of all sources. When two
// sources define the same field, the later one wins and the field keeps
// the position of its first definition.
func Merge(sources ...Source) Source {
	return SourceFunc(func(ctx context.Context) (*openapi.Properties, error) {
		merged := openapi.NewProperties()
		for _, src := range sources {
			props, err := src.Fields(ctx)
			if err != nil {
				return nil, err
			}
			for _, name := range props.Keys() {
				p, _ := props.Get(name)
				merged.Set(name, p)
			}
		}
		return merged, nil
	})
}

// Names returns the sorted field names of src.
func Names(ctx context.Context, src Source) ([]string, error) {
	props, err := src.Fields(ctx)
	if err != nil {
		return nil, err
	}

	names := props.Keys()
	sort.Strings(names)
	return names, nil
}
