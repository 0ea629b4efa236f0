package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortsKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"b": int64(2),
		"a": "x",
		"c": []any{true, 1},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":2,"c":[true,1]}`, string(got))
}

func TestMarshalCanonical_NoHTMLEscape(t *testing.T) {
	got, err := MarshalCanonical("a<b>&c")
	require.NoError(t, err)
	assert.Equal(t, `"a<b>&c"`, string(got))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	// "e" + combining acute accent normalizes to a single code point.
	got, err := MarshalCanonical("cafe\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"caf\u00e9\"", string(got))
}

func TestMarshalCanonical_RejectsFloatsAndNull(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"x": 1.5})
	assert.ErrorContains(t, err, "floats are forbidden")

	_, err = MarshalCanonical([]any{nil})
	assert.ErrorContains(t, err, "null is forbidden")
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "caf\u00e9", NormalizeText("cafe\u0301"))
}
