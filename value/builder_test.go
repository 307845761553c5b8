package value_test

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossheim/tjson/schema"
	"github.com/mossheim/tjson/value"
)

func TestConvertScalarRejectsQuotedNumeric(t *testing.T) {
	b := value.Builder{}
	_, err := b.ConvertScalar("5", true, schema.NewInt())
	assert.ErrorIs(t, err, value.ErrIncompatibleValue)
}

func TestConvertScalarDecimal(t *testing.T) {
	b := value.Builder{}
	got, err := b.ConvertScalar("1.50", false, schema.NewDecimal())
	require.NoError(t, err)
	v := got.(*value.Value)
	d, err := v.AsDecimal()
	require.NoError(t, err)

	want, _, _ := apd.NewFromString("1.50")
	assert.Equal(t, 0, d.Cmp(want))
}

func TestConvertScalarUnionTriesMembersInOrder(t *testing.T) {
	b := value.Builder{}
	u := schema.NewUnion(schema.NewInt(), schema.NewString())

	got, err := b.ConvertScalar("5", false, u)
	require.NoError(t, err)
	n, err := got.(*value.Value).AsInt()
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	got, err = b.ConvertScalar("x", true, u)
	require.NoError(t, err)
	s, err := got.(*value.Value).AsString()
	require.NoError(t, err)
	assert.Equal(t, "x", s)
}

func TestConvertScalarUnionNoMemberFits(t *testing.T) {
	b := value.Builder{}
	u := schema.NewUnion(schema.NewInt(), schema.NewBool())

	_, err := b.ConvertScalar("x", true, u)
	assert.ErrorIs(t, err, value.ErrIncompatibleValue)
}

func TestSetElementDropsPastClosedCapacity(t *testing.T) {
	b := value.Builder{}
	container, err := b.NewArray(schema.NewClosedArray(schema.NewInt(), 2))
	require.NoError(t, err)

	one, _ := b.ConvertScalar("1", false, schema.NewInt())
	two, _ := b.ConvertScalar("2", false, schema.NewInt())
	three, _ := b.ConvertScalar("3", false, schema.NewInt())

	require.NoError(t, b.SetElement(container, 0, one))
	require.NoError(t, b.SetElement(container, 1, two))
	require.NoError(t, b.SetElement(container, 2, three))

	arr, err := container.(*value.Value).AsArray()
	require.NoError(t, err)
	assert.Len(t, arr, 2, "the third element silently drops past the closed capacity")
}

func TestSetElementTupleNeverDrops(t *testing.T) {
	b := value.Builder{}
	container, err := b.NewArray(schema.NewTuple([]schema.Type{schema.NewInt(), schema.NewInt()}, nil))
	require.NoError(t, err)

	one, _ := b.ConvertScalar("1", false, schema.NewInt())
	two, _ := b.ConvertScalar("2", false, schema.NewInt())
	three, _ := b.ConvertScalar("3", false, schema.NewInt())

	require.NoError(t, b.SetElement(container, 0, one))
	require.NoError(t, b.SetElement(container, 1, two))
	require.NoError(t, b.SetElement(container, 2, three))

	arr, err := container.(*value.Value).AsArray()
	require.NoError(t, err)
	assert.Len(t, arr, 3)
}
