package openapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamelCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"getPerson", "getPerson"},
		{"GetPerson", "getPerson"},
		{"get person", "getPerson"},
		{"Get people", "getPeople"},
		{"get-people_by ID", "getPeopleById"},
		{"  leading and trailing  ", "leadingAndTrailing"},
		{"XMLHttpRequest", "xmlHttpRequest"},
		{"get2fa codes", "get2FaCodes"},
		{"version 10", "version10"},
		{"ALLCAPS", "allcaps"},
		{"", ""},
		{"---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CamelCase(tt.in))
		})
	}
}

func TestCompleteEndpoint(t *testing.T) {
	t.Run("getPerson", func(t *testing.T) {
		op := CompleteEndpoint(Endpoint{
			Name: "getPerson",
			Tag:  "persons",
			Responses: Responses{
				http.StatusOK: {
					Content: map[string]*MediaType{
						ContentTypeJSON: {Schema: Object(NewProperties(
							Prop("status", String("success")),
						))},
					},
				},
			},
		})

		assert.Equal(t, "getPerson", op.OperationID)
		assert.Equal(t, "getPerson", op.Summary)
		assert.Equal(t, []string{"persons"}, op.Tags)
		assert.Equal(t, &Example{Value: map[string]any{"status": "success"}}, op.DefaultExample())
	})

	t.Run("copies fields", func(t *testing.T) {
		body := &RequestBody{
			Required: true,
			Content:  map[string]*MediaType{ContentTypeJSON: {Schema: Object(NewProperties(Prop("name", String("x"))))}},
		}
		param := PathParam("id", ParamUUID, "Person ID")

		op := CompleteEndpoint(Endpoint{
			Name:        "Update person",
			Description: "Updates a person",
			Tag:         "persons",
			Parameters:  []*Parameter{param},
			RequestBody: body,
		})

		assert.Equal(t, "updatePerson", op.OperationID)
		assert.Equal(t, "Updates a person", op.Description)
		assert.Equal(t, []*Parameter{param}, op.Parameters)
		assert.NotSame(t, param, op.Parameters[0])
		assert.Equal(t, body, op.RequestBody)
		assert.NotSame(t, body, op.RequestBody)
		assert.Nil(t, op.Responses)
		assert.Nil(t, op.DefaultExample())
	})

	t.Run("does not modify the input responses", func(t *testing.T) {
		responses := Success(NewProperties(Prop("name", String("Jane"))))

		op := CompleteEndpoint(Endpoint{Name: "a", Tag: "t", Responses: responses})

		assert.Nil(t, responses[http.StatusOK].Content[ContentTypeJSON].Examples)
		assert.NotNil(t, op.DefaultExample())
	})

	t.Run("keeps an existing default", func(t *testing.T) {
		responses := Success(NewProperties(Prop("name", String("Jane"))))
		responses[http.StatusOK].Content[ContentTypeJSON].Examples = Examples{
			DefaultExampleName: {Value: "custom"},
		}

		called := false
		op := CompleteEndpoint(Endpoint{
			Name:      "a",
			Tag:       "t",
			Responses: responses,
			AdditionalExamples: func(Example) Examples {
				called = true
				return nil
			},
		})

		assert.Equal(t, "custom", op.DefaultExample().Value)
		assert.False(t, called)
	})

	t.Run("additional examples", func(t *testing.T) {
		op := CompleteEndpoint(Endpoint{
			Name:      "getPeople",
			Tag:       "persons",
			Responses: Envelope("Found", NewProperties(Prop("count", Integer(2)))),
			AdditionalExamples: func(def Example) Examples {
				empty := def
				value := empty.Value.(map[string]any)
				value["data"].(map[string]any)["count"] = int64(0)
				return Examples{
					"empty":            {Description: "No people", Value: value},
					DefaultExampleName: {Value: "ignored"},
				}
			},
		})

		examples := op.Responses[http.StatusOK].Content[ContentTypeJSON].Examples
		require.Len(t, examples, 2)
		assert.Equal(t, int64(2), examples[DefaultExampleName].Value.(map[string]any)["data"].(map[string]any)["count"])
		assert.Equal(t, int64(0), examples["empty"].Value.(map[string]any)["data"].(map[string]any)["count"])
		assert.Equal(t, "No people", examples["empty"].Description)
	})

	t.Run("skip default example", func(t *testing.T) {
		op := CompleteEndpoint(Endpoint{
			Name:               "a",
			Tag:                "t",
			Responses:          Success(NewProperties(Prop("name", String("Jane")))),
			SkipDefaultExample: true,
		})
		assert.Nil(t, op.DefaultExample())
	})

	t.Run("no success response", func(t *testing.T) {
		op := CompleteEndpoint(Endpoint{Name: "a", Tag: "t", Responses: NotFound()})
		assert.Nil(t, op.DefaultExample())
		assert.Nil(t, op.Responses[http.StatusNotFound].Content[ContentTypeJSON].Examples)
	})

	t.Run("object example of the body is ignored", func(t *testing.T) {
		schema := Object(NewProperties(Prop("name", String("Jane"))))
		schema.Example = map[string]any{"name": "other"}

		op := CompleteEndpoint(Endpoint{Name: "a", Tag: "t", Responses: Responses{
			http.StatusOK: {Content: map[string]*MediaType{ContentTypeJSON: {Schema: schema}}},
		}})
		assert.Equal(t, map[string]any{"name": "Jane"}, op.DefaultExample().Value)
	})

	t.Run("array body", func(t *testing.T) {
		op := CompleteEndpoint(Endpoint{Name: "a", Tag: "t", Responses: Responses{
			http.StatusOK: {Content: map[string]*MediaType{ContentTypeJSON: {Schema: Array(Integer(3))}}},
		}})
		assert.Equal(t, []any{int64(3)}, op.DefaultExample().Value)
	})
}

func TestOperationAddExample(t *testing.T) {
	t.Run("derives from a copy of the default", func(t *testing.T) {
		op := CompleteEndpoint(Endpoint{
			Name:      "getPerson",
			Tag:       "persons",
			Responses: Success(NewProperties(Prop("name", String("Jane")), Prop("age", Integer(40)))),
		})

		op.AddExample("young", func(def Example) Example {
			def.Value.(map[string]any)["age"] = int64(18)
			def.Summary = "Young person"
			return def
		}).AddExample("old", func(def Example) Example {
			def.Value.(map[string]any)["age"] = int64(90)
			return def
		})

		examples := op.Responses[http.StatusOK].Content[ContentTypeJSON].Examples
		assert.Equal(t, int64(40), examples[DefaultExampleName].Value.(map[string]any)["age"])
		assert.Equal(t, int64(18), examples["young"].Value.(map[string]any)["age"])
		assert.Equal(t, "Young person", examples["young"].Summary)
		assert.Equal(t, int64(90), examples["old"].Value.(map[string]any)["age"])
	})

	t.Run("without a default", func(t *testing.T) {
		op := CompleteEndpoint(Endpoint{
			Name:               "a",
			Tag:                "t",
			Responses:          Success(NewProperties(Prop("name", String("Jane")))),
			SkipDefaultExample: true,
		})

		op.AddExample("manual", func(def Example) Example {
			assert.Nil(t, def.Value)
			return Example{Value: "v"}
		})
		assert.Equal(t, "v", op.Responses[http.StatusOK].Content[ContentTypeJSON].Examples["manual"].Value)
	})

	t.Run("without a success response", func(t *testing.T) {
		op := &Operation{}
		called := false
		op.AddExample("x", func(def Example) Example {
			called = true
			return def
		})
		assert.False(t, called)
	})
}
