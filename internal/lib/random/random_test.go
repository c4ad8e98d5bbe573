package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphanumeric_Length(t *testing.T) {
	for _, n := range []int{0, 1, 12, 64} {
		s, err := Alphanumeric(n)
		require.NoError(t, err)
		assert.Len(t, s, n)
	}
}

func TestAlphanumeric_Charset(t *testing.T) {
	s, err := Alphanumeric(256)
	require.NoError(t, err)
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		assert.True(t, isLetter || isDigit, "unexpected character %q", r)
	}
}

func TestAlphanumeric_Distinct(t *testing.T) {
	a, err := Alphanumeric(PlaceholderPasswordLength)
	require.NoError(t, err)
	b, err := Alphanumeric(PlaceholderPasswordLength)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
