package openapi

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
)

// macroTypeMap maps path template macros to parameter types, so that
// "/people/{id:uuid}" documents id as a uuid.
var macroTypeMap = map[string]ParamType{
	"uuid":   ParamUUID,
	"int":    ParamInteger,
	"float":  ParamNumber,
	"string": ParamString,
}

// pathVarRegexp matches path variables in the form {name} or {name:macro}.
var pathVarRegexp = regexp.MustCompile(`\{([^}]+)\}`)

// Spec collects operations, schemas and metadata and builds a complete
// Document. A Spec is not safe for concurrent modification.
//
//	spec := openapi.NewSpec(openapi.Info{Title: "People", Version: "1.0.0"})
//	spec.AddSchema(person)
//	spec.Path("/api/people/{id:uuid}").Get(getPerson)
//
//	doc, err := spec.Build()
type Spec struct {
	info         Info
	servers      []Server
	externalDocs *ExternalDocs
	security     []SecurityRequirement
	tags         []Tag

	paths     map[string]*PathBuilder
	pathOrder []string
	err       error

	schemas         map[string]*ObjectProperty
	securitySchemes map[string]*SecurityScheme
	compResponses   map[string]*Response
	compParameters  map[string]*Parameter
	compExamples    map[string]*Example
}

// NewSpec creates a new spec builder with the given API info.
func NewSpec(info Info) *Spec {
	return &Spec{
		info:  info,
		paths: make(map[string]*PathBuilder),
	}
}

// Info returns the API info of the spec.
func (s *Spec) Info() Info {
	return s.info
}

// AddServer adds a server to the spec.
func (s *Spec) AddServer(server Server) *Spec {
	s.servers = append(s.servers, server)
	return s
}

// SetExternalDocs sets the document-level external documentation.
func (s *Spec) SetExternalDocs(url, description string) *Spec {
	s.externalDocs = &ExternalDocs{URL: url, Description: description}
	return s
}

// SetSecurity sets the document-level security requirements.
func (s *Spec) SetSecurity(reqs ...SecurityRequirement) *Spec {
	s.security = reqs
	return s
}

// AddTag adds tag metadata. Tags used by operations are collected
// automatically; AddTag provides their description.
func (s *Spec) AddTag(tag Tag) *Spec {
	s.tags = append(s.tags, tag)
	return s
}

// AddSchema registers the full view of schema under its name in
// components.schemas.
func (s *Spec) AddSchema(schema *Schema) *Spec {
	spec, err := schema.All().ToSpec()
	if err != nil {
		s.setErr(err)
		return s
	}
	return s.AddSchemaView(schema.Name(), spec)
}

// AddSchemaView registers a materialized view under name in
// components.schemas.
func (s *Spec) AddSchemaView(name string, spec *ObjectProperty) *Spec {
	if s.schemas == nil {
		s.schemas = make(map[string]*ObjectProperty)
	}
	s.schemas[name] = spec
	return s
}

// AddSecurityScheme registers a security scheme component.
func (s *Spec) AddSecurityScheme(name string, scheme *SecurityScheme) *Spec {
	if s.securitySchemes == nil {
		s.securitySchemes = make(map[string]*SecurityScheme)
	}
	s.securitySchemes[name] = scheme
	return s
}

// AddComponentResponse registers a reusable response component.
func (s *Spec) AddComponentResponse(name string, resp *Response) *Spec {
	if s.compResponses == nil {
		s.compResponses = make(map[string]*Response)
	}
	s.compResponses[name] = resp
	return s
}

// AddComponentParameter registers a reusable parameter component.
func (s *Spec) AddComponentParameter(name string, param *Parameter) *Spec {
	if s.compParameters == nil {
		s.compParameters = make(map[string]*Parameter)
	}
	s.compParameters[name] = param
	return s
}

// AddComponentExample registers a reusable example component.
func (s *Spec) AddComponentExample(name string, ex *Example) *Spec {
	if s.compExamples == nil {
		s.compExamples = make(map[string]*Example)
	}
	s.compExamples[name] = ex
	return s
}

// Path returns the builder for the path template tpl, creating it on
// first use. Variables may carry a type macro, "{id:uuid}", which is
// stripped from the documented path and sets the parameter type.
func (s *Spec) Path(tpl string) *PathBuilder {
	if pb, ok := s.paths[tpl]; ok {
		return pb
	}
	pb := &PathBuilder{spec: s, tpl: tpl, ops: make(map[string]*Operation)}
	s.paths[tpl] = pb
	s.pathOrder = append(s.pathOrder, tpl)
	return pb
}

func (s *Spec) setErr(err error) {
	if s.err == nil {
		s.err = err
	}
}

// PathBuilder collects the operations of one path.
type PathBuilder struct {
	spec        *Spec
	tpl         string
	summary     string
	description string
	parameters  []*Parameter
	ops         map[string]*Operation
}

// Summary sets the path-level summary.
func (pb *PathBuilder) Summary(summary string) *PathBuilder {
	pb.summary = summary
	return pb
}

// Description sets the path-level description.
func (pb *PathBuilder) Description(desc string) *PathBuilder {
	pb.description = desc
	return pb
}

// Parameter adds a parameter shared by every operation of the path.
func (pb *PathBuilder) Parameter(param *Parameter) *PathBuilder {
	pb.parameters = append(pb.parameters, param)
	return pb
}

// Get sets the GET operation.
func (pb *PathBuilder) Get(op *Operation) *PathBuilder { return pb.set(http.MethodGet, op) }

// Put sets the PUT operation.
func (pb *PathBuilder) Put(op *Operation) *PathBuilder { return pb.set(http.MethodPut, op) }

// Post sets the POST operation.
func (pb *PathBuilder) Post(op *Operation) *PathBuilder { return pb.set(http.MethodPost, op) }

// Patch sets the PATCH operation.
func (pb *PathBuilder) Patch(op *Operation) *PathBuilder { return pb.set(http.MethodPatch, op) }

// Delete sets the DELETE operation.
func (pb *PathBuilder) Delete(op *Operation) *PathBuilder { return pb.set(http.MethodDelete, op) }

// Path returns the builder for another path of the same spec.
func (pb *PathBuilder) Path(tpl string) *PathBuilder {
	return pb.spec.Path(tpl)
}

func (pb *PathBuilder) set(method string, op *Operation) *PathBuilder {
	if op == nil {
		return pb
	}
	if _, ok := pb.ops[method]; ok {
		pb.spec.setErr(fmt.Errorf("%w: %s %s", ErrDuplicatePath, method, pb.tpl))
		return pb
	}
	pb.ops[method] = op
	return pb
}

// Build assembles the Document. Path variables without a matching
// operation parameter are documented as required path parameters. Two
// templates resolving to the same OpenAPI path with the same method
// return ErrDuplicatePath, as does registering a method twice.
//
// See: https://spec.openapis.org/oas/v3.1.0#openapi-object
func (s *Spec) Build() (*Document, error) {
	if s.err != nil {
		return nil, s.err
	}

	doc := &Document{
		OpenAPI:      "3.1.0",
		Info:         s.info,
		Servers:      s.servers,
		Paths:        make(map[string]*PathItem, len(s.paths)),
		ExternalDocs: s.externalDocs,
		Security:     s.security,
	}

	for _, tpl := range s.pathOrder {
		pb := s.paths[tpl]
		openAPIPath, pathParams := parsePath(tpl)

		pathItem, ok := doc.Paths[openAPIPath]
		if !ok {
			pathItem = &PathItem{}
			doc.Paths[openAPIPath] = pathItem
		}
		if pb.summary != "" {
			pathItem.Summary = pb.summary
		}
		if pb.description != "" {
			pathItem.Description = pb.description
		}
		pathItem.Parameters = append(pathItem.Parameters, pb.parameters...)

		// Path-level parameters are documented on the path item only.
		auto := withoutParameters(pathParams, pb.parameters)
		for _, method := range sortedMethods(pb.ops) {
			built := *pb.ops[method]
			built.Parameters = mergeParameters(auto, built.Parameters)

			if !assignOperation(pathItem, method, &built) {
				return nil, fmt.Errorf("%w: %s %s", ErrDuplicatePath, method, openAPIPath)
			}
		}
	}

	doc.Components = s.buildComponents()
	doc.Tags = s.mergeTags(doc.Paths)

	return doc, nil
}

// buildComponents assembles the Components object from the registered
// component maps.
func (s *Spec) buildComponents() *Components {
	hasData := len(s.schemas) > 0 ||
		len(s.securitySchemes) > 0 ||
		len(s.compResponses) > 0 ||
		len(s.compParameters) > 0 ||
		len(s.compExamples) > 0

	if !hasData {
		return nil
	}

	comp := &Components{}
	if len(s.schemas) > 0 {
		comp.Schemas = s.schemas
	}
	if len(s.securitySchemes) > 0 {
		comp.SecuritySchemes = s.securitySchemes
	}
	if len(s.compResponses) > 0 {
		comp.Responses = s.compResponses
	}
	if len(s.compParameters) > 0 {
		comp.Parameters = s.compParameters
	}
	if len(s.compExamples) > 0 {
		comp.Examples = s.compExamples
	}

	return comp
}

// mergeTags combines tags collected from operations with user-defined tags.
// User-defined tags take precedence (their description and externalDocs are kept).
// Tags not seen in operations but defined by the user are still included.
// The result is sorted alphabetically.
func (s *Spec) mergeTags(paths map[string]*PathItem) []Tag {
	userTags := make(map[string]Tag, len(s.tags))
	for _, tag := range s.tags {
		userTags[tag.Name] = tag
	}

	seen := make(map[string]bool)
	var tags []Tag

	for _, pathItem := range paths {
		for _, op := range pathItem.operations() {
			for _, tagName := range op.Tags {
				if seen[tagName] {
					continue
				}
				seen[tagName] = true
				if userTag, ok := userTags[tagName]; ok {
					tags = append(tags, userTag)
				} else {
					tags = append(tags, Tag{Name: tagName})
				}
			}
		}
	}

	for _, tag := range s.tags {
		if !seen[tag.Name] {
			seen[tag.Name] = true
			tags = append(tags, tag)
		}
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})

	return tags
}

// operations returns the non-nil operations of the path item.
func (p *PathItem) operations() []*Operation {
	var ops []*Operation
	for _, op := range []*Operation{p.Get, p.Put, p.Post, p.Delete, p.Patch} {
		if op != nil {
			ops = append(ops, op)
		}
	}
	return ops
}

// assignOperation assigns op to the method field of the path item. It
// reports false when the method is already taken.
func assignOperation(pathItem *PathItem, method string, op *Operation) bool {
	var slot **Operation
	switch method {
	case http.MethodGet:
		slot = &pathItem.Get
	case http.MethodPost:
		slot = &pathItem.Post
	case http.MethodPut:
		slot = &pathItem.Put
	case http.MethodDelete:
		slot = &pathItem.Delete
	case http.MethodPatch:
		slot = &pathItem.Patch
	default:
		return false
	}
	if *slot != nil {
		return false
	}
	*slot = op
	return true
}

func sortedMethods(ops map[string]*Operation) []string {
	methods := make([]string, 0, len(ops))
	for m := range ops {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

// withoutParameters drops from params every parameter present in shared,
// matched by name and location.
func withoutParameters(params, shared []*Parameter) []*Parameter {
	if len(shared) == 0 {
		return params
	}
	skip := make(map[[2]string]struct{}, len(shared))
	for _, p := range shared {
		skip[[2]string{p.Name, p.In}] = struct{}{}
	}
	var out []*Parameter
	for _, p := range params {
		if _, ok := skip[[2]string{p.Name, p.In}]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// parsePath extracts variables from a path template, converts it to
// OpenAPI format, and generates required path parameters.
func parsePath(tpl string) (string, []*Parameter) {
	var params []*Parameter

	openAPIPath := pathVarRegexp.ReplaceAllStringFunc(tpl, func(match string) string {
		inner := match[1 : len(match)-1]
		varName, macroName, _ := strings.Cut(inner, ":")

		typ := ParamString
		if t, ok := macroTypeMap[macroName]; ok {
			typ = t
		}

		params = append(params, PathParam(varName, typ, ""))
		return "{" + varName + "}"
	})

	return openAPIPath, params
}
