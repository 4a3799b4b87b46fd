package ffi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosureHandler(t *testing.T) {
	var got []int
	dropped := false
	call, drop, rx := NewClosure(func(v int) { got = append(got, v) }, func() { dropped = true }).Bind()
	assert.Nil(t, rx)
	call(1)
	call(2)
	drop()
	assert.Equal(t, []int{1, 2}, got)
	assert.True(t, dropped)
}

func TestFifoChannelHandler(t *testing.T) {
	call, drop, rx := NewFifoChannel[string](3).Bind()
	call("a")
	call("b")
	drop()
	call("late")

	var got []string
	for v := range rx {
		got = append(got, v)
	}
	assert.Equal(t, []string{"a", "b"}, got)
	drop()
}

func TestRingChannelDropsOldest(t *testing.T) {
	call, drop, rx := NewRingChannel[int](2).Bind()
	for i := 1; i <= 5; i++ {
		call(i)
	}
	drop()

	var got []int
	for v := range rx {
		got = append(got, v)
	}
	assert.Equal(t, []int{4, 5}, got)
}

func TestRingChannelRejectsZeroCapacity(t *testing.T) {
	assert.Panics(t, func() { NewRingChannel[int](0) })
}

func TestBindClosesChannelOnClear(t *testing.T) {
	native := &fakeNative{}
	slot := NewSlot[func(string)]("title", native.set)
	call, drop, rx := NewFifoChannel[string](4).Bind()
	require.NoError(t, slot.Set(call, OnRelease(drop)))

	native.fire("hello")
	slot.Clear()

	var got []string
	for v := range rx {
		got = append(got, v)
	}
	assert.Equal(t, []string{"hello"}, got)
}
