package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hailcross/internal/hail"
)

func TestMarshalCanonical_SortedKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"b": int64(2),
		"a": []any{true, "x<y", 3},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":[true,"x<y",3],"b":2}`, string(got))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	// "e" + combining acute composes to U+00E9.
	decomposed, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	composed, err := MarshalCanonical("\u00e9")
	require.NoError(t, err)
	assert.Equal(t, composed, decomposed)
}

func TestMarshalCanonical_Forbidden(t *testing.T) {
	_, err := MarshalCanonical(1.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")

	_, err = MarshalCanonical(map[string]any{"k": nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null is forbidden")

	_, err = MarshalCanonical(struct{}{})
	require.Error(t, err)
}

func TestInputDigest(t *testing.T) {
	stones := []hail.Hailstone{
		hail.NewHailstone(19, 13, -2, 1),
		hail.NewHailstone(18, 19, -1, -1),
	}

	d1, err := InputDigest(stones)
	require.NoError(t, err)
	d2, err := InputDigest(stones)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64)

	reordered, err := InputDigest([]hail.Hailstone{stones[1], stones[0]})
	require.NoError(t, err)
	assert.NotEqual(t, d1, reordered, "order is part of the identity")
}

func TestRunKey(t *testing.T) {
	k1, err := RunKey("abc", hail.Bounds{Low: 7, High: 27})
	require.NoError(t, err)
	k2, err := RunKey("abc", hail.Bounds{Low: 7, High: 28})
	require.NoError(t, err)
	k3, err := RunKey("abc", hail.Bounds{Low: 7, High: 27})
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1, k3)
}
