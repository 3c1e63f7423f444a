package openapi

import (
	"fmt"
	"html"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// DocsUI selects which interactive documentation UI to serve.
// The UI renders the OpenAPI Document as interactive HTML documentation.
//
// See: https://spec.openapis.org/oas/v3.1.0#openapi-document
type DocsUI int

const (
	DocsRedoc DocsUI = iota
	DocsSwaggerUI
	DocsRapiDoc
)

// HandleConfig configures the endpoints served by Handler.
// JSON and YAML endpoints serve the serialized OpenAPI Document.
//
// See: https://spec.openapis.org/oas/v3.1.0#openapi-document
type HandleConfig struct {
	// UI selects the interactive docs UI (default: DocsRedoc).
	UI DocsUI

	// Title overrides the HTML page title (default: spec info.title).
	Title string

	// JSONFilename is the path for the JSON spec endpoint
	// (default: "schema.json"). Set to "-" to disable.
	//
	// Relative paths are joined with the base path:
	//
	//	"schema.json"       -> <basePath>/schema.json
	//	"data/openapi.json" -> <basePath>/data/openapi.json
	//
	// Absolute paths (starting with "/") are used as-is:
	//
	//	"/api/v1/swagger.json" -> /api/v1/swagger.json
	JSONFilename string

	// YAMLFilename is the path for the YAML spec endpoint
	// (default: "schema.yaml"). Set to "-" to disable.
	// Follows the same absolute/relative rules as JSONFilename.
	YAMLFilename string

	// DisableDocs disables the interactive HTML docs UI endpoint.
	DisableDocs bool

	// SwaggerUIConfig provides additional SwaggerUIBundle configuration options.
	// These are rendered as JavaScript object properties alongside the url and
	// dom_id defaults. For example, {"docExpansion": "none"} produces:
	//
	//	SwaggerUIBundle({url: "...", dom_id: "#swagger-ui", "docExpansion": "none"});
	//
	// Only used when UI is DocsSwaggerUI.
	//
	// See: https://swagger.io/docs/open-source-tools/swagger-ui/usage/configuration/
	SwaggerUIConfig map[string]any
}

// jsonFilename returns the configured JSON spec filename, defaulting to "schema.json".
func (cfg HandleConfig) jsonFilename() string {
	if cfg.JSONFilename == "" {
		return "schema.json"
	}
	return cfg.JSONFilename
}

// yamlFilename returns the configured YAML spec filename, defaulting to "schema.yaml".
func (cfg HandleConfig) yamlFilename() string {
	if cfg.YAMLFilename == "" {
		return "schema.yaml"
	}
	return cfg.YAMLFilename
}

// resolvePath returns the full route path for a filename.
// Absolute filenames (starting with "/") are returned as-is.
// Relative filenames are joined under basePath.
func resolvePath(basePath, filename string) string {
	if strings.HasPrefix(filename, "/") {
		return filename
	}
	if basePath == "" {
		return "/" + filename
	}
	return basePath + "/" + filename
}

// Handler returns an http.Handler serving the document under basePath.
// The base path is normalized (trailing slash stripped). Depending on
// config, the following paths are served:
//
//	<basePath>/            - interactive HTML docs (unless DisableDocs)
//	<JSONFilename path>    - document as JSON  (unless JSONFilename is "-")
//	<YAMLFilename path>    - document as YAML  (unless YAMLFilename is "-")
//
// The config parameter is optional; pass nil for defaults:
//
//	http.Handle("/docs/", spec.Handler("/docs", nil))
//
// Filenames are relative to basePath by default. Use an absolute path
// (starting with "/") to serve the document at an independent location.
// Both <basePath> and <basePath>/ serve the docs UI. The document is
// built on first request and cached; a build or serialization failure
// is answered with 500 on every request.
//
// See: https://spec.openapis.org/oas/v3.1.0#openapi-document
func (s *Spec) Handler(basePath string, cfg *HandleConfig) http.Handler {
	if cfg == nil {
		cfg = &HandleConfig{}
	}
	basePath = strings.TrimRight(basePath, "/")

	mux := http.NewServeMux()
	doc := s.documentOnce()

	jsonFile := cfg.jsonFilename()
	yamlFile := cfg.yamlFilename()

	var jsonPath, yamlPath string

	if jsonFile != "-" {
		jsonPath = resolvePath(basePath, jsonFile)
		mux.Handle(jsonPath, encodedHandler(doc, "application/json", "JSON", func(d *Document) ([]byte, error) {
			return json.MarshalIndent(d, "", "  ")
		}))
	}

	if yamlFile != "-" {
		yamlPath = resolvePath(basePath, yamlFile)
		mux.Handle(yamlPath, encodedHandler(doc, "application/x-yaml", "YAML", func(d *Document) ([]byte, error) {
			return yaml.Marshal(d)
		}))
	}

	if !cfg.DisableDocs {
		// The docs UI references the JSON or YAML document path.
		specURL := jsonPath
		if specURL == "" {
			specURL = yamlPath
		}

		if specURL != "" {
			s.registerDocs(mux, basePath, cfg, specURL)
		}
	}

	return mux
}

// documentOnce returns a function building the document on first call and
// returning the cached result afterwards.
func (s *Spec) documentOnce() func() (*Document, error) {
	var (
		once     sync.Once
		doc      *Document
		buildErr error
	)
	return func() (*Document, error) {
		once.Do(func() {
			doc, buildErr = s.Build()
		})
		return doc, buildErr
	}
}

// encodedHandler serves the document encoded once with encode.
//
// See: https://spec.openapis.org/oas/v3.1.0#openapi-document
func encodedHandler(doc func() (*Document, error), contentType, name string, encode func(*Document) ([]byte, error)) http.HandlerFunc {
	var (
		once      sync.Once
		data      []byte
		encodeErr error
	)
	return func(w http.ResponseWriter, _ *http.Request) {
		once.Do(func() {
			defer func() {
				if rv := recover(); rv != nil {
					encodeErr = fmt.Errorf("%v", rv)
				}
			}()
			d, err := doc()
			if err != nil {
				encodeErr = err
				return
			}
			data, encodeErr = encode(d)
		})
		if encodeErr != nil {
			http.Error(w, "failed to serialize OpenAPI document as "+name, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

// registerDocs registers a handler that serves the interactive HTML documentation UI.
func (s *Spec) registerDocs(mux *http.ServeMux, basePath string, cfg *HandleConfig, specURL string) {
	var (
		once sync.Once
		data []byte
	)
	handler := func(w http.ResponseWriter, _ *http.Request) {
		once.Do(func() {
			title := cfg.Title
			if title == "" {
				title = s.info.Title
			}

			data = []byte(docsPage(cfg.UI, title, specURL, cfg.SwaggerUIConfig))
		})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
	if basePath == "" {
		// Root base path: register only "/" to avoid empty path "".
		mux.HandleFunc("/", handler)
	} else {
		mux.HandleFunc(basePath, handler)
		mux.HandleFunc(basePath+"/", handler)
	}
}

// DocsPage returns a standalone HTML page rendering the document found at
// specURL with the given UI.
func DocsPage(ui DocsUI, title, specURL string) string {
	return docsPage(ui, title, specURL, nil)
}

func docsPage(ui DocsUI, title, specURL string, swaggerConfig map[string]any) string {
	switch ui {
	case DocsSwaggerUI:
		return swaggerUITemplate(title, specURL, swaggerConfig)
	case DocsRapiDoc:
		return rapidocTemplate(title, specURL)
	default:
		return redocTemplate(title, specURL)
	}
}

func swaggerUITemplate(title, specPath string, config map[string]any) string {
	var extra string
	if len(config) > 0 {
		keys := make([]string, 0, len(config))
		for k := range config {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf strings.Builder
		for _, k := range keys {
			v, err := json.Marshal(config[k])
			if err != nil {
				continue
			}
			fmt.Fprintf(&buf, ", %s: %s", k, v)
		}
		extra = buf.String()
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({url: %q, dom_id: "#swagger-ui"%s});
</script>
</body>
</html>`, html.EscapeString(title), specPath, extra)
}

func rapidocTemplate(title, specPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<script type="module" src="https://unpkg.com/rapidoc/dist/rapidoc-min.js"></script>
</head>
<body>
<rapi-doc spec-url=%q></rapi-doc>
</body>
</html>`, html.EscapeString(title), specPath)
}

func redocTemplate(title, specPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
</head>
<body>
<redoc spec-url=%q></redoc>
<script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`, html.EscapeString(title), specPath)
}
