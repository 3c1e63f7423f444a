// Package render serializes OpenAPI documents and writes per-service
// bundles.
//
// A bundle is a set of files named after the service, one per format:
//
//	build/myserviceOpenapi.json
//	build/myserviceOpenapi.yaml
//	build/myserviceOpenapi.html
//
// The HTML file is a standalone docs page loading the JSON file next to it.
package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vitalvas/apishape/openapi"
)

// Supported bundle formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatHTML = "html"
)

// ErrUnknownFormat is returned for a bundle format outside the supported set.
var ErrUnknownFormat = errors.New("render: unknown format")

// JSON encodes doc as indented JSON with a trailing newline.
func JSON(doc *openapi.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// YAML encodes doc as YAML.
func YAML(doc *openapi.Document) ([]byte, error) {
	return yaml.Marshal(doc)
}

// FileName returns the bundle file name of service for format.
func FileName(service, format string) string {
	return service + "Openapi." + format
}

// Bundle writes doc into dir once per format and returns the written paths
// in format order. The directory is created when missing. An html bundle
// references the json bundle of the same service.
func Bundle(doc *openapi.Document, dir, service string, formats []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	written := make([]string, 0, len(formats))
	for _, format := range formats {
		data, err := encode(doc, service, format)
		if err != nil {
			return written, err
		}

		file := filepath.Join(dir, FileName(service, format))
		if err := os.WriteFile(file, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", file, err)
		}
		written = append(written, file)
	}

	return written, nil
}

func encode(doc *openapi.Document, service, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return JSON(doc)
	case FormatYAML:
		return YAML(doc)
	case FormatHTML:
		page := openapi.DocsPage(openapi.DocsRedoc, doc.Info.Title, FileName(service, FormatJSON))
		return []byte(page), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
