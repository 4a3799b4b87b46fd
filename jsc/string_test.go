package jsc

import (
	"errors"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native/soft"
)

func TestStringRoundTrip(t *testing.T) {
	soft.Install(t)

	for _, s := range []string{"", "hello", "héllo, 世界", "emoji 😀"} {
		js, err := NewString(s)
		require.NoError(t, err)
		assert.Equal(t, s, js.String())
		assert.Equal(t, len(utf16.Encode([]rune(s))), js.Len())
		assert.True(t, js.EqualString(s))
		require.NoError(t, js.Close())
	}
}

func TestStringRejectsNul(t *testing.T) {
	b := soft.Install(t)

	_, err := NewString("a\x00b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ffi.ErrInvalidArgument))
	assert.Equal(t, 0, b.LiveOf("jsstring"), "no native string was created")
}

func TestStringUTF16(t *testing.T) {
	soft.Install(t)

	units := utf16.Encode([]rune("a😀"))
	s, err := NewStringUTF16(units)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, units, s.UTF16())
	assert.Equal(t, []rune("a😀"), s.Runes())
	assert.Equal(t, "a😀", s.String())
}

func TestStringCloneAndEqual(t *testing.T) {
	b := soft.Install(t)

	a, err := NewString("same")
	require.NoError(t, err)
	c, err := a.Clone()
	require.NoError(t, err)
	other, err := NewString("other")
	require.NoError(t, err)
	defer other.Close()

	assert.True(t, a.Equal(c))
	assert.False(t, a.Equal(other))

	require.NoError(t, a.Close())
	assert.Equal(t, "same", c.String(), "the clone holds its own reference")
	require.NoError(t, c.Close())
	assert.Equal(t, 1, b.LiveOf("jsstring"))

	assert.Equal(t, "", a.String())
	assert.Zero(t, a.Len())
}
