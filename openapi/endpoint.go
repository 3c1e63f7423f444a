package openapi

import (
	"net/http"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultExampleName is the example key populated by CompleteEndpoint.
const DefaultExampleName = "default"

// Endpoint is the short form of an operation. Name becomes the summary
// and, camel-cased, the operation ID. An operation has exactly one tag.
type Endpoint struct {
	Name        string
	Description string
	Tag         string
	Parameters  []*Parameter
	Responses   Responses
	RequestBody *RequestBody

	// AdditionalExamples, when set, derives extra named examples from a
	// copy of the default example. It never replaces the default.
	AdditionalExamples func(def Example) Examples

	// SkipDefaultExample disables default example synthesis.
	SkipDefaultExample bool
}

// CompleteEndpoint expands e into a full operation. The input is deep
// copied first, so the caller's responses and parameters are never
// modified. When the operation has a JSON 200 response without a
// "default" example, one is synthesized from the response schema.
//
//	op := openapi.CompleteEndpoint(openapi.Endpoint{
//	    Name:      "getPerson",
//	    Tag:       "persons",
//	    Responses: openapi.MergeResponses(openapi.Success(props), openapi.NotFound()),
//	})
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object
func CompleteEndpoint(e Endpoint) *Operation {
	op := &Operation{
		Tags:        []string{e.Tag},
		Summary:     e.Name,
		Description: e.Description,
		OperationID: CamelCase(e.Name),
		Parameters:  cloneParameters(e.Parameters),
		RequestBody: e.RequestBody.Clone(),
		Responses:   e.Responses.Clone(),
	}

	if e.SkipDefaultExample {
		return op
	}

	media := op.successContent()
	if media == nil || media.Examples[DefaultExampleName] != nil {
		return op
	}

	def := &Example{Value: synthesizeBody(media.Schema)}
	if media.Examples == nil {
		media.Examples = make(Examples)
	}
	media.Examples[DefaultExampleName] = def

	if e.AdditionalExamples != nil {
		for name, ex := range e.AdditionalExamples(*def.Clone()) {
			if name == DefaultExampleName {
				continue
			}
			media.Examples[name] = ex
		}
	}

	return op
}

// DefaultExample returns the "default" example of the JSON 200 response,
// or nil when there is none.
func (op *Operation) DefaultExample() *Example {
	media := op.successContent()
	if media == nil {
		return nil
	}
	return media.Examples[DefaultExampleName]
}

// AddExample stores the example returned by fn under name on the JSON 200
// response. fn receives a deep copy of the default example, or a zero
// Example when there is none. Operations without a JSON 200 response are
// returned unchanged.
func (op *Operation) AddExample(name string, fn func(def Example) Example) *Operation {
	media := op.successContent()
	if media == nil {
		return op
	}

	var def Example
	if d := media.Examples[DefaultExampleName]; d != nil {
		def = *d.Clone()
	}

	ex := fn(def)
	if media.Examples == nil {
		media.Examples = make(Examples)
	}
	media.Examples[name] = &ex
	return op
}

func (op *Operation) successContent() *MediaType {
	resp, ok := op.Responses[http.StatusOK]
	if !ok || resp == nil {
		return nil
	}
	return resp.Content[ContentTypeJSON]
}

// synthesizeBody builds the example body of a response schema. Object
// schemas synthesize from their properties, ignoring an object-level
// example.
func synthesizeBody(schema Property) any {
	obj, ok := schema.(*ObjectProperty)
	if !ok {
		return SynthesizeExample(schema)
	}
	return synthesizeProperties(obj.Properties, false)
}

// CamelCase converts s to lower camel case. Words are split at
// non-alphanumeric characters, at lower to upper case transitions, before
// the last capital of an acronym ("XMLHttp" is "XML" and "Http") and
// between letters and digits.
//
//	CamelCase("get person")    // getPerson
//	CamelCase("Get-People")    // getPeople
//	CamelCase("XMLHttpRequest") // xmlHttpRequest
func CamelCase(s string) string {
	words := splitWords(s)
	if len(words) == 0 {
		return ""
	}

	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)

	var b strings.Builder
	b.WriteString(lower.String(words[0]))
	for _, w := range words[1:] {
		b.WriteString(title.String(w))
	}
	return b.String()
}

func splitWords(s string) []string {
	runes := []rune(s)

	var (
		words []string
		start = -1
	)
	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}

		prev := runes[i-1]
		switch {
		case unicode.IsLower(prev) && unicode.IsUpper(r):
			flush(i)
			start = i
		case unicode.IsUpper(prev) && unicode.IsUpper(r) &&
			i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			flush(i)
			start = i
		case unicode.IsDigit(prev) != unicode.IsDigit(r):
			flush(i)
			start = i
		}
	}
	flush(len(runes))

	return words
}
