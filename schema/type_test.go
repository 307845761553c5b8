package schema_test

import (
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossheim/tjson/schema"
)

func TestRecordFieldsIsACopy(t *testing.T) {
	rt := schema.NewRecord(map[string]schema.FieldDesc{
		"a": {Name: "a", Type: schema.NewInt(), Required: true},
	}, nil)

	fields := rt.Fields()
	delete(fields, "a")

	assert.Len(t, rt.Fields(), 1, "mutating a returned copy must not affect the descriptor")
}

func TestRestTypeClosedRecord(t *testing.T) {
	rt := schema.NewRecord(nil, nil)
	_, ok := rt.RestType()
	assert.False(t, ok, "a record with no rest type rejects extras")
}

func TestRestTypeMapIsAlwaysPresent(t *testing.T) {
	mt := schema.NewMap(schema.NewString())
	rest, ok := mt.RestType()
	require.True(t, ok)
	assert.Equal(t, schema.String, rest.Tag())
}

func TestIsSupportedUnionType(t *testing.T) {
	for _, test := range []struct {
		name string
		u    schema.Type
		want bool
	}{
		{"scalars", schema.NewUnion(schema.NewInt(), schema.NewString()), true},
		{"record member", schema.NewUnion(schema.NewInt(), schema.NewRecord(nil, nil)), false},
		{"map member", schema.NewUnion(schema.NewMap(schema.NewInt())), false},
		{"any member", schema.NewUnion(schema.NewAny()), false},
		{"nested supported union", schema.NewUnion(schema.NewUnion(schema.NewInt())), true},
		{"nested unsupported union", schema.NewUnion(schema.NewUnion(schema.NewAny())), false},
		{"non-union type", schema.NewInt(), true},
	} {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, schema.IsSupportedUnionType(test.u))
		})
	}
}

func TestFromJSONSchemaRecord(t *testing.T) {
	s := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"a": {Type: "integer"},
			"b": {Type: "string"},
		},
		Required: []string{"a", "b"},
	}

	typ, err := schema.FromJSONSchema(s)
	require.NoError(t, err)
	require.Equal(t, schema.Record, typ.Tag())

	fields := typ.Fields()
	require.Contains(t, fields, "a")
	require.Contains(t, fields, "b")
	assert.Equal(t, schema.Int, fields["a"].Type.Tag())
	assert.True(t, fields["a"].Required)

	rest, ok := typ.RestType()
	require.True(t, ok, "absent additionalProperties defaults to an open Any rest")
	assert.Equal(t, schema.Any, rest.Tag())
}

func TestFromJSONSchemaClosedRecord(t *testing.T) {
	s := &jsonschema.Schema{
		Type:                 "object",
		Properties:           map[string]*jsonschema.Schema{"a": {Type: "string"}},
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}

	typ, err := schema.FromJSONSchema(s)
	require.NoError(t, err)
	_, ok := typ.RestType()
	assert.False(t, ok)
}

func TestFromJSONSchemaTuple(t *testing.T) {
	s := &jsonschema.Schema{
		Type:        "array",
		PrefixItems: []*jsonschema.Schema{{Type: "integer"}, {Type: "string"}},
	}

	typ, err := schema.FromJSONSchema(s)
	require.NoError(t, err)
	require.Equal(t, schema.Tuple, typ.Tag())
	members := typ.Members()
	require.Len(t, members, 2)
	assert.Equal(t, schema.Int, members[0].Tag())
	assert.Equal(t, schema.String, members[1].Tag())
}

func TestFromJSONSchemaUnion(t *testing.T) {
	s := &jsonschema.Schema{Types: []string{"integer", "string"}}
	typ, err := schema.FromJSONSchema(s)
	require.NoError(t, err)
	require.Equal(t, schema.Union, typ.Tag())
	assert.True(t, schema.IsSupportedUnionType(typ))
}

func TestFromYAMLRecordWithRest(t *testing.T) {
	doc := []byte(`
type: record
fields:
  id: {type: int, required: true}
  tags: {type: array, elem: {type: string}}
rest: {type: any}
`)
	typ, err := schema.FromYAML(doc)
	require.NoError(t, err)
	require.Equal(t, schema.Record, typ.Tag())

	fields := typ.Fields()
	require.Contains(t, fields, "id")
	assert.True(t, fields["id"].Required)
	require.Contains(t, fields, "tags")
	assert.Equal(t, schema.Array, fields["tags"].Type.Tag())
	assert.Equal(t, schema.String, fields["tags"].Type.ElemType().Tag())

	rest, ok := typ.RestType()
	require.True(t, ok)
	assert.Equal(t, schema.Any, rest.Tag())
}

func TestFromYAMLClosedArray(t *testing.T) {
	doc := []byte(`
type: array
state: closed
size: 3
elem: {type: int}
`)
	typ, err := schema.FromYAML(doc)
	require.NoError(t, err)
	assert.Equal(t, schema.Closed, typ.ArrayState())
	assert.Equal(t, 3, typ.Size())
}

func TestFromYAMLUnknownTag(t *testing.T) {
	_, err := schema.FromYAML([]byte(`type: bogus`))
	assert.Error(t, err)
}
