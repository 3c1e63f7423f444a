package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestSynthesizeExample(t *testing.T) {
	tests := []struct {
		name string
		prop Property
		want any
	}{
		{"string default", &StringProperty{}, DefaultStringExample},
		{"integer default", &IntegerProperty{}, int64(5)},
		{"number default", &NumberProperty{}, 4.5},
		{"boolean default", &BooleanProperty{}, false},
		{"date default", &StringProperty{Format: FormatDate}, "1970-06-24"},
		{"date-time default", &StringProperty{Format: FormatDateTime}, "1970-06-24T05:34:58Z"},
		{"uuid default", &StringProperty{Format: FormatUUID}, DefaultUUIDExample},

		{"string example", String("hello"), "hello"},
		{"integer example", Integer(42), int64(42)},
		{"number example", Float(1.25), 1.25},
		{"boolean example", Boolean(true), true},

		{"zero examples win", &IntegerProperty{Example: ptr(int64(0))}, int64(0)},
		{"empty string example wins", &StringProperty{Example: ptr("")}, ""},

		{"array of default", &ArrayProperty{Items: &IntegerProperty{}}, []any{int64(5)}},
		{"array of example", Array(String("a")), []any{"a"}},
		{
			"nested arrays",
			Array(Array(Array(&BooleanProperty{}))),
			[]any{[]any{[]any{false}}},
		},
		{"array without items", &ArrayProperty{}, []any{}},
		{"array example wins", &ArrayProperty{Items: String("x"), Example: []any{"a", "b"}}, []any{"a", "b"}},

		{
			"object of defaults",
			Object(NewProperties(
				Prop("s", &StringProperty{}),
				Prop("i", &IntegerProperty{}),
				Prop("n", &NumberProperty{}),
				Prop("b", &BooleanProperty{}),
			)),
			map[string]any{"s": DefaultStringExample, "i": int64(5), "n": 4.5, "b": false},
		},
		{
			"object keeps zero-valued keys",
			Object(NewProperties(
				Prop("flag", Boolean(false)),
				Prop("count", Integer(0)),
				Prop("note", String("")),
			)),
			map[string]any{"flag": false, "count": int64(0), "note": ""},
		},
		{
			"nested object with examples at every level",
			Object(NewProperties(
				Prop("status", String("success")),
				Prop("data", Object(NewProperties(
					Prop("people", Array(Object(NewProperties(
						Prop("name", String("Jane")),
						Prop("age", &IntegerProperty{}),
					)))),
				))),
			)),
			map[string]any{
				"status": "success",
				"data": map[string]any{
					"people": []any{map[string]any{"name": "Jane", "age": int64(5)}},
				},
			},
		},
		{
			"object example wins",
			&ObjectProperty{
				Properties: NewProperties(Prop("a", String("x"))),
				Example:    map[string]any{"a": "override"},
			},
			map[string]any{"a": "override"},
		},
		{"empty object", Object(nil), map[string]any{}},
		{"nil property", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SynthesizeExample(tt.prop))
		})
	}
}

func TestSynthesizeExampleCopiesAuthorValues(t *testing.T) {
	obj := &ObjectProperty{Properties: NewProperties(), Example: map[string]any{"tags": []any{"a"}}}

	ex := SynthesizeExample(obj).(map[string]any)
	ex["tags"].([]any)[0] = "changed"

	assert.Equal(t, map[string]any{"tags": []any{"a"}}, obj.Example)
}

func TestSynthesizeLegacyExample(t *testing.T) {
	tests := []struct {
		name string
		prop Property
		want any
	}{
		{
			"drops zero-valued keys",
			Object(NewProperties(
				Prop("flag", &BooleanProperty{}),
				Prop("name", String("Jane")),
			)),
			map[string]any{"name": "Jane"},
		},
		{"zero integer example falls back", Integer(0), int64(5)},
		{"empty string example falls back", String(""), DefaultStringExample},
		{"false example is the default", Boolean(false), false},
		{"true example kept", Boolean(true), true},
		{"non-zero number kept", Number(2.5), 2.5},
		{
			"array element keeps zero",
			Array(&BooleanProperty{}),
			[]any{false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SynthesizeLegacyExample(tt.prop))
		})
	}
}
