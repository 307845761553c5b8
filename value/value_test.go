package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossheim/tjson/value"
)

func TestFluentIndexOutOfRangeYieldsNull(t *testing.T) {
	got, err := value.ParseString(`[1,2,3]`)
	require.NoError(t, err)

	assert.Equal(t, value.KindNull, got.Index(10).Type())
	assert.Equal(t, value.KindNull, got.Index(-1).Type())
}

func TestFluentIndexOnNonArrayYieldsNull(t *testing.T) {
	got, err := value.ParseString(`{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, value.KindNull, got.Index(0).Type())
}

func TestFluentKeyMissYieldsNull(t *testing.T) {
	got, err := value.ParseString(`{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, value.KindNull, got.Key("missing").Type())
}

func TestFluentKeyOnNonRecordYieldsNull(t *testing.T) {
	got, err := value.ParseString(`[1,2]`)
	require.NoError(t, err)
	assert.Equal(t, value.KindNull, got.Key("a").Type())
}

func TestAsIntWrongKindFails(t *testing.T) {
	got, err := value.ParseString(`"x"`)
	require.NoError(t, err)
	_, err = got.AsInt()
	assert.ErrorIs(t, err, value.ErrIncompatibleValue)
}

func TestAsFloatWidensInt(t *testing.T) {
	got, err := value.ParseString(`5`)
	require.NoError(t, err)
	f, err := got.AsFloat()
	require.NoError(t, err)
	assert.Equal(t, 5.0, f)
}

func TestStringRenderingRoundTripsAny(t *testing.T) {
	got, err := value.ParseString(`{"a":1,"b":[true,null,"x"]}`)
	require.NoError(t, err)

	reparsed, err := value.ParseString(got.String())
	require.NoError(t, err)

	n1, err := got.Key("a").AsInt()
	require.NoError(t, err)
	n2, err := reparsed.Key("a").AsInt()
	require.NoError(t, err)
	assert.Equal(t, n1, n2)

	assert.Equal(t, got.Key("b").Index(2).String(), reparsed.Key("b").Index(2).String())
}
