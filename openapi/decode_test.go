package openapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decodeString(t *testing.T, src string) (Property, error) {
	t.Helper()

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &node))
	return DecodeProperty(&node)
}

func TestDecodeProperty(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Property
	}{
		{
			"string",
			"type: string\ndescription: First name\nexample: Jane\n",
			&StringProperty{Description: "First name", Example: ptr("Jane")},
		},
		{
			"date",
			"type: string\nformat: date\nexample: \"1970-06-24\"\n",
			&StringProperty{Format: FormatDate, Example: ptr("1970-06-24")},
		},
		{
			"string enum",
			"type: string\nenum: [a, b]\n",
			&StringProperty{Enum: []string{"a", "b"}},
		},
		{
			"number",
			"type: number\nformat: float\nminimum: 0\nmaximum: 10.5\nexample: 4.5\n",
			&NumberProperty{Format: FormatFloat, Minimum: ptr(0.0), Maximum: ptr(10.5), Example: ptr(4.5)},
		},
		{
			"integer",
			"type: integer\nminimum: 1\nenum: [1, 2]\nexample: 2\n",
			&IntegerProperty{Minimum: ptr(int64(1)), Enum: []int64{1, 2}, Example: ptr(int64(2))},
		},
		{
			"boolean",
			"type: boolean\nexample: false\n",
			&BooleanProperty{Example: ptr(false)},
		},
		{
			"array",
			"type: array\nitems:\n  type: integer\n",
			&ArrayProperty{Items: &IntegerProperty{}},
		},
		{
			"unknown keywords ignored",
			"type: boolean\nnullable: true\n",
			&BooleanProperty{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeString(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodePropertyObject(t *testing.T) {
	src := `
type: object
title: Person
properties:
  last_name:
    type: string
    example: Doe
  first_name:
    type: string
  tags:
    type: array
    items:
      type: string
required: [last_name]
`
	got, err := decodeString(t, src)
	require.NoError(t, err)

	obj, ok := got.(*ObjectProperty)
	require.True(t, ok)
	assert.Equal(t, "Person", obj.Title)
	assert.Equal(t, []string{"last_name", "first_name", "tags"}, obj.Properties.Keys())
	assert.Equal(t, []string{"last_name"}, obj.Required)
	assert.Equal(t, map[string]any{
		"last_name":  "Doe",
		"first_name": DefaultStringExample,
		"tags":       []any{DefaultStringExample},
	}, SynthesizeExample(obj))
}

func TestDecodePropertyErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"missing type", "example: x\n", ErrUnknownKind},
		{"unknown type", "type: null\n", ErrUnknownKind},
		{"not a mapping", "- a\n- b\n", ErrUnknownKind},
		{"array without items", "type: array\n", ErrUnknownKind},
		{"bad items", "type: array\nitems:\n  type: tuple\n", ErrUnknownKind},
		{"pattern mismatch", "type: string\npattern: '^[0-9]{3}$'\nexample: abc\n", ErrPatternMismatch},
		{"bad date", "type: string\nformat: date\nexample: 24/06/1970\n", ErrBadDateExample},
		{"bad uuid", "type: string\nformat: uuid\nexample: nope\n", ErrBadUUIDExample},
		{
			"required not a property",
			"type: object\nproperties:\n  a:\n    type: string\nrequired: [b]\n",
			ErrUnknownField,
		},
		{
			"nested error",
			"type: object\nproperties:\n  a:\n    type: string\n    format: date\n    example: x\n",
			ErrBadDateExample,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeString(t, tt.src)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("wrong value type", func(t *testing.T) {
		_, err := decodeString(t, "type: integer\nexample: five\n")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "example")
	})
}

func TestUnmarshalConcreteKinds(t *testing.T) {
	t.Run("YAML into a matching kind", func(t *testing.T) {
		var p StringProperty
		require.NoError(t, yaml.Unmarshal([]byte("type: string\nexample: hi\n"), &p))
		assert.Equal(t, "hi", *p.Example)
	})

	t.Run("JSON into a matching kind", func(t *testing.T) {
		var p ObjectProperty
		src := `{"type":"object","properties":{"b":{"type":"integer"},"a":{"type":"boolean"}}}`
		require.NoError(t, json.Unmarshal([]byte(src), &p))
		assert.Equal(t, []string{"b", "a"}, p.Properties.Keys())
	})

	t.Run("kind mismatch", func(t *testing.T) {
		var p IntegerProperty
		err := yaml.Unmarshal([]byte("type: string\n"), &p)
		assert.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("inside a struct", func(t *testing.T) {
		var doc struct {
			Items *ArrayProperty `yaml:"items"`
		}
		require.NoError(t, yaml.Unmarshal([]byte("items:\n  type: array\n  items:\n    type: number\n"), &doc))
		assert.Equal(t, &ArrayProperty{Items: &NumberProperty{}}, doc.Items)
	})
}
