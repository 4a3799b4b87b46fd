package ffi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopedLockUnlocksOnce(t *testing.T) {
	unlocks := 0
	l, err := Acquire("surface", func() ([]byte, bool) { return make([]byte, 4), true }, func() { unlocks++ })
	require.NoError(t, err)
	assert.True(t, l.Locked())
	assert.Len(t, l.Value(), 4)

	l.Unlock()
	l.Unlock()
	assert.Equal(t, 1, unlocks)
	assert.False(t, l.Locked())
	assert.Nil(t, l.Value())
}

func TestAcquireNullNeverUnlocks(t *testing.T) {
	unlocks := 0
	_, err := Acquire("bitmap", func() ([]byte, bool) { return nil, false }, func() { unlocks++ })
	assert.ErrorIs(t, err, ErrNullReference)
	assert.Zero(t, unlocks)
}

func TestWithLockUnlocksOnEveryPath(t *testing.T) {
	acquire := func() (int, bool) { return 7, true }

	unlocks := 0
	got, err := WithLock("pixels", acquire, func() { unlocks++ }, func(v int) (int, error) {
		return v * 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 14, got)
	assert.Equal(t, 1, unlocks)

	unlocks = 0
	boom := errors.New("boom")
	_, err = WithLock("pixels", acquire, func() { unlocks++ }, func(int) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, unlocks)

	unlocks = 0
	assert.Panics(t, func() {
		_, _ = WithLock("pixels", acquire, func() { unlocks++ }, func(int) (int, error) {
			panic("inside")
		})
	})
	assert.Equal(t, 1, unlocks)
}

func TestWithAfterUnlock(t *testing.T) {
	unlocks := 0
	l, err := Acquire("surface", func() (int, bool) { return 1, true }, func() { unlocks++ })
	require.NoError(t, err)
	l.Unlock()

	ran := false
	err = l.With(func(int) error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, ErrClosed)
	assert.False(t, ran)
	assert.Equal(t, 1, unlocks)
}
