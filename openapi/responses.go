package openapi

import "net/http"

// ContentTypeJSON is the media type used by every assembled response.
const ContentTypeJSON = "application/json"

// jsonResponse wraps schema into a single-entry Responses keyed by code.
// The description defaults to the status text.
//
// See: https://spec.openapis.org/oas/v3.1.0#response-object (description)
func jsonResponse(code int, schema *ObjectProperty) Responses {
	return Responses{
		code: {
			Description: http.StatusText(code),
			Content: map[string]*MediaType{
				ContentTypeJSON: {Schema: schema},
			},
		},
	}
}

// errorSchema is the error envelope {message: string}, with message
// required.
func errorSchema(example string) *ObjectProperty {
	return &ObjectProperty{
		Properties: NewProperties(Prop("message", String(example))),
		Required:   []string{"message"},
	}
}

func errorResponse(code int) Responses {
	return jsonResponse(code, errorSchema(http.StatusText(code)))
}

// Success returns a 200 response whose JSON body is an object with props.
// props is deep-copied.
func Success(props *Properties) Responses {
	return jsonResponse(http.StatusOK, Object(props.Clone()))
}

// Envelope returns a 200 response using the standard success envelope
//
//	{"status": "success", "message": message, "data": {...}}
//
// where data is an object with the given properties.
func Envelope(message string, data *Properties) Responses {
	return Success(NewProperties(
		Prop("status", String("success")),
		Prop("message", String(message)),
		Prop("data", Object(data.Clone())),
	))
}

// BadRequest returns the 400 error envelope.
func BadRequest() Responses { return errorResponse(http.StatusBadRequest) }

// Unauthorized returns the 401 error envelope.
func Unauthorized() Responses { return errorResponse(http.StatusUnauthorized) }

// Forbidden returns the 403 error envelope.
func Forbidden() Responses { return errorResponse(http.StatusForbidden) }

// NotFound returns the 404 error envelope.
func NotFound() Responses { return errorResponse(http.StatusNotFound) }

// InternalError returns the 500 error envelope.
func InternalError() Responses { return errorResponse(http.StatusInternalServerError) }

// MergeResponses merges fragments left to right into a new Responses.
// When two fragments define the same status code the later one wins.
func MergeResponses(fragments ...Responses) Responses {
	out := make(Responses)
	for _, f := range fragments {
		for code, resp := range f {
			out[code] = resp
		}
	}
	return out
}
