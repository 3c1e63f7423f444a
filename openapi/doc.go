// Package openapi builds OpenAPI v3.1.0 documents from declarative field
// definitions.
//
// Field shapes are described once as properties. A Schema groups the
// properties of one domain entity and derives views of it: the full
// object, a subset, a variant with different required fields, or the
// view extended with computed fields. Each view materializes into an
// object schema and an example payload synthesized from the property
// examples.
//
// See: https://spec.openapis.org/oas/v3.1.0
// See: https://json-schema.org/draft/2020-12/json-schema-validation
//
// # Properties
//
// Constructors return one concrete type per JSON Schema kind:
//
//	props := openapi.NewProperties(
//	    openapi.Prop("first_name", openapi.String("Jane")),
//	    openapi.Prop("last_name", openapi.String("Doe")),
//	    openapi.Prop("ssn", openapi.Must(openapi.Pattern(`^\d{3}-\d{2}-\d{4}$`, "123-45-6789"))),
//	    openapi.Prop("born", openapi.Must(openapi.Date("1970-06-24"))),
//	    openapi.Prop("tags", openapi.Array(openapi.String("vip"))),
//	)
//
// Constructors with checked examples (Pattern, Date, DateTime, UUID)
// return an error when the example does not fit. Must turns that error
// into a panic for package-level definitions.
//
// Properties preserves insertion order, and so do the JSON and YAML
// encodings of every property.
//
// # Schemas and Views
//
//	person := openapi.NewSchema("Person", props)
//	_ = person.DefinePreset("names", openapi.Fields("first_name", "last_name")...)
//
//	full, err := person.All().ToSpec()
//	names, err := person.Preset("names").Require("first_name").ToSpec()
//	withAge, err := person.All().
//	    Omit(openapi.Field("ssn")).
//	    Add(openapi.RequiredField("age"), openapi.Integer(42)).
//	    ToSpec()
//
// A View is an immutable value; every operation returns a new View. The
// first failure is kept in the returned View and reported by ToSpec as a
// *SchemaError wrapping one of ErrUnknownField, ErrPresetNotFound or
// ErrEmptySelection.
//
// # Examples
//
// SynthesizeExample prefers the author example at every level and falls
// back to a fixed default per kind. Arrays always synthesize exactly one
// element.
//
// # Endpoints
//
// CompleteEndpoint turns a short Endpoint into an Operation with a single
// tag, a camel-cased operation ID, and a "default" example on its JSON
// 200 response:
//
//	getPeople := openapi.CompleteEndpoint(openapi.Endpoint{
//	    Name:        "Get people",
//	    Description: "Lists people",
//	    Tag:         "persons",
//	    Parameters:  []*openapi.Parameter{openapi.QueryParam("limit", openapi.ParamInteger, "Page size")},
//	    Responses: openapi.MergeResponses(
//	        openapi.Envelope("People found", openapi.NewProperties(
//	            openapi.Prop("people", openapi.Array(names)),
//	        )),
//	        openapi.BadRequest(),
//	        openapi.Unauthorized(),
//	    ),
//	})
//
// # Documents
//
//	spec := openapi.NewSpec(openapi.Info{Title: "My service", Version: "1.0.0"})
//	spec.AddSchema(person)
//	spec.Path("/api/people").Get(getPeople)
//	spec.Path("/api/people/{id:uuid}").Get(getPerson)
//
//	doc, err := spec.Build()
//
// Handler serves the built document as JSON and YAML together with an
// interactive documentation page.
package openapi
