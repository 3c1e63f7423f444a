package openapi

import (
	"sort"
	"strconv"
)

// Document represents the root of an OpenAPI v3.1.0 document.
//
// See: https://spec.openapis.org/oas/v3.1.0#openapi-object
type Document struct {
	OpenAPI      string                `json:"openapi" yaml:"openapi"`
	Info         Info                  `json:"info" yaml:"info"`
	Servers      []Server              `json:"servers,omitempty" yaml:"servers,omitempty"`
	Paths        map[string]*PathItem  `json:"paths,omitempty" yaml:"paths,omitempty"`
	Components   *Components           `json:"components,omitempty" yaml:"components,omitempty"`
	Tags         []Tag                 `json:"tags,omitempty" yaml:"tags,omitempty"`
	Security     []SecurityRequirement `json:"security,omitempty" yaml:"security,omitempty"`
	ExternalDocs *ExternalDocs         `json:"externalDocs,omitempty" yaml:"externalDocs,omitempty"`
}

// Info provides metadata about the API.
//
// See: https://spec.openapis.org/oas/v3.1.0#info-object
type Info struct {
	Title       string   `json:"title" yaml:"title"`
	Summary     string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Contact     *Contact `json:"contact,omitempty" yaml:"contact,omitempty"`
	License     *License `json:"license,omitempty" yaml:"license,omitempty"`
	Version     string   `json:"version" yaml:"version"`
}

// Contact represents contact information for the API.
//
// See: https://spec.openapis.org/oas/v3.1.0#contact-object
type Contact struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// License represents license information for the API.
//
// See: https://spec.openapis.org/oas/v3.1.0#license-object
type License struct {
	Name       string `json:"name" yaml:"name"`
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	URL        string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Server represents a server.
//
// See: https://spec.openapis.org/oas/v3.1.0#server-object
type Server struct {
	URL         string                     `json:"url" yaml:"url"`
	Description string                     `json:"description,omitempty" yaml:"description,omitempty"`
	Variables   map[string]*ServerVariable `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// ServerVariable represents a server variable for URL template substitution.
//
// See: https://spec.openapis.org/oas/v3.1.0#server-variable-object
type ServerVariable struct {
	Enum        []string `json:"enum,omitempty" yaml:"enum,omitempty"`
	Default     string   `json:"default" yaml:"default"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// PathItem describes the operations available on a single path.
//
// See: https://spec.openapis.org/oas/v3.1.0#path-item-object
type PathItem struct {
	Summary     string       `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Get         *Operation   `json:"get,omitempty" yaml:"get,omitempty"`
	Put         *Operation   `json:"put,omitempty" yaml:"put,omitempty"`
	Post        *Operation   `json:"post,omitempty" yaml:"post,omitempty"`
	Delete      *Operation   `json:"delete,omitempty" yaml:"delete,omitempty"`
	Patch       *Operation   `json:"patch,omitempty" yaml:"patch,omitempty"`
	Parameters  []*Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Operation describes a single API operation on a path. Operations built
// by CompleteEndpoint carry exactly one tag.
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object
type Operation struct {
	Tags        []string              `json:"tags,omitempty" yaml:"tags,omitempty"`
	Summary     string                `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	OperationID string                `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Parameters  []*Parameter          `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody          `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   Responses             `json:"responses,omitempty" yaml:"responses,omitempty"`
	Deprecated  bool                  `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Security    []SecurityRequirement `json:"security,omitempty" yaml:"security,omitempty"`
}

// Parameter describes a single operation parameter.
// The "in" field determines the parameter location: "query", "header",
// "path", or "cookie". Path parameters are always required.
//
// See: https://spec.openapis.org/oas/v3.1.0#parameter-object
type Parameter struct {
	Name        string   `json:"name" yaml:"name"`
	In          string   `json:"in" yaml:"in"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Schema      Property `json:"schema,omitempty" yaml:"schema,omitempty"`
	Example     any      `json:"example,omitempty" yaml:"example,omitempty"`
}

// RequestBody describes a single request body.
//
// See: https://spec.openapis.org/oas/v3.1.0#request-body-object
type RequestBody struct {
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool                  `json:"required,omitempty" yaml:"required,omitempty"`
	Content     map[string]*MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

// Response describes a single response from an API operation.
// The description field is REQUIRED per the specification.
//
// See: https://spec.openapis.org/oas/v3.1.0#response-object
type Response struct {
	Description string                `json:"description" yaml:"description"`
	Content     map[string]*MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

// Responses maps HTTP status codes to responses.
//
// See: https://spec.openapis.org/oas/v3.1.0#responses-object
type Responses map[int]*Response

// MarshalYAML emits status codes as quoted string keys in ascending order,
// the form OpenAPI tooling expects.
func (r Responses) MarshalYAML() (any, error) {
	codes := make([]int, 0, len(r))
	for code := range r {
		codes = append(codes, code)
	}
	sort.Ints(codes)

	obj := make(orderedObject, 0, len(codes))
	for _, code := range codes {
		obj = append(obj, member{strconv.Itoa(code), r[code]})
	}
	return obj.MarshalYAML()
}

// MediaType describes a media type with a schema and optional examples.
// Each Media Type Object is keyed by its MIME type (e.g., "application/json")
// inside a content map.
//
// See: https://spec.openapis.org/oas/v3.1.0#media-type-object
type MediaType struct {
	Schema   Property `json:"schema,omitempty" yaml:"schema,omitempty"`
	Example  any      `json:"example,omitempty" yaml:"example,omitempty"`
	Examples Examples `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// Example represents an example value. The value field and externalValue
// field are mutually exclusive.
//
// See: https://spec.openapis.org/oas/v3.1.0#example-object
type Example struct {
	Summary       string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	Value         any    `json:"value,omitempty" yaml:"value,omitempty"`
	ExternalValue string `json:"externalValue,omitempty" yaml:"externalValue,omitempty"`
}

// Examples maps example names to examples. Completed operations always
// hold a "default" entry on their JSON success response.
type Examples map[string]*Example

// Components holds reusable OpenAPI objects. All objects defined within the
// Components Object have no effect on the API unless explicitly referenced
// from outside the Components Object.
//
// See: https://spec.openapis.org/oas/v3.1.0#components-object
type Components struct {
	Schemas         map[string]*ObjectProperty `json:"schemas,omitempty" yaml:"schemas,omitempty"`
	Responses       map[string]*Response       `json:"responses,omitempty" yaml:"responses,omitempty"`
	Parameters      map[string]*Parameter      `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Examples        map[string]*Example        `json:"examples,omitempty" yaml:"examples,omitempty"`
	RequestBodies   map[string]*RequestBody    `json:"requestBodies,omitempty" yaml:"requestBodies,omitempty"`
	SecuritySchemes map[string]*SecurityScheme `json:"securitySchemes,omitempty" yaml:"securitySchemes,omitempty"`
}

// Tag adds metadata to a single tag used by Operation Objects.
//
// See: https://spec.openapis.org/oas/v3.1.0#tag-object
type Tag struct {
	Name         string        `json:"name" yaml:"name"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	ExternalDocs *ExternalDocs `json:"externalDocs,omitempty" yaml:"externalDocs,omitempty"`
}

// SecurityRequirement lists required security schemes for an operation.
// Each key maps to a list of scope names required for execution (can be
// empty for schemes not using scopes, such as HTTP basic auth).
//
// See: https://spec.openapis.org/oas/v3.1.0#security-requirement-object
type SecurityRequirement map[string][]string

// ExternalDocs allows referencing external documentation.
//
// See: https://spec.openapis.org/oas/v3.1.0#external-documentation-object
type ExternalDocs struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string `json:"url" yaml:"url"`
}

// SecurityScheme defines a security scheme used by API operations.
// The "type" field determines the scheme: "apiKey", "http",
// "mutualTLS", "oauth2", or "openIdConnect".
//
// See: https://spec.openapis.org/oas/v3.1.0#security-scheme-object
type SecurityScheme struct {
	Type             string `json:"type" yaml:"type"`
	Description      string `json:"description,omitempty" yaml:"description,omitempty"`
	Name             string `json:"name,omitempty" yaml:"name,omitempty"`
	In               string `json:"in,omitempty" yaml:"in,omitempty"`
	Scheme           string `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	BearerFormat     string `json:"bearerFormat,omitempty" yaml:"bearerFormat,omitempty"`
	OpenIDConnectURL string `json:"openIdConnectUrl,omitempty" yaml:"openIdConnectUrl,omitempty"`
}

// Clone returns a deep copy of the response.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	c := *r
	c.Content = cloneContent(r.Content)
	return &c
}

// Clone returns a deep copy of the responses.
func (r Responses) Clone() Responses {
	if r == nil {
		return nil
	}
	out := make(Responses, len(r))
	for code, resp := range r {
		out[code] = resp.Clone()
	}
	return out
}

// Clone returns a deep copy of the media type.
func (m *MediaType) Clone() *MediaType {
	if m == nil {
		return nil
	}
	c := *m
	if m.Schema != nil {
		c.Schema = m.Schema.Clone()
	}
	c.Example = cloneValue(m.Example)
	c.Examples = m.Examples.Clone()
	return &c
}

// Clone returns a deep copy of the example.
func (e *Example) Clone() *Example {
	if e == nil {
		return nil
	}
	c := *e
	c.Value = cloneValue(e.Value)
	return &c
}

// Clone returns a deep copy of the examples.
func (e Examples) Clone() Examples {
	if e == nil {
		return nil
	}
	out := make(Examples, len(e))
	for name, ex := range e {
		out[name] = ex.Clone()
	}
	return out
}

// Clone returns a deep copy of the parameter.
func (p *Parameter) Clone() *Parameter {
	if p == nil {
		return nil
	}
	c := *p
	if p.Schema != nil {
		c.Schema = p.Schema.Clone()
	}
	c.Example = cloneValue(p.Example)
	return &c
}

// Clone returns a deep copy of the request body.
func (rb *RequestBody) Clone() *RequestBody {
	if rb == nil {
		return nil
	}
	c := *rb
	c.Content = cloneContent(rb.Content)
	return &c
}

func cloneContent(content map[string]*MediaType) map[string]*MediaType {
	if content == nil {
		return nil
	}
	out := make(map[string]*MediaType, len(content))
	for ct, m := range content {
		out[ct] = m.Clone()
	}
	return out
}

func cloneParameters(params []*Parameter) []*Parameter {
	if params == nil {
		return nil
	}
	out := make([]*Parameter, len(params))
	for i, p := range params {
		out[i] = p.Clone()
	}
	return out
}
