package ffi

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNative stands in for a native object with one callback slot.
type fakeNative struct {
	mu      sync.Mutex
	token   uintptr
	history []uintptr
	fail    bool
}

func (n *fakeNative) set(token uintptr) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail && token != 0 {
		return errors.New("rejected")
	}
	n.token = token
	n.history = append(n.history, token)
	return nil
}

func (n *fakeNative) fire(s string) bool {
	n.mu.Lock()
	token := n.token
	n.mu.Unlock()
	if token == 0 {
		return false
	}
	return Invoke[func(string)]("title", token, func(fn func(string)) { fn(s) })
}

func TestSlotReplacementReleasesOldOnce(t *testing.T) {
	native := &fakeNative{}
	slot := NewSlot[func(string)]("title", native.set)

	var aCalls, bCalls, aDropped atomic.Int32
	require.NoError(t, slot.Set(func(string) { aCalls.Add(1) }, OnRelease(func() { aDropped.Add(1) })))
	assert.True(t, native.fire("x"))

	require.NoError(t, slot.Set(func(string) { bCalls.Add(1) }))
	assert.True(t, native.fire("y"))

	assert.EqualValues(t, 1, aCalls.Load())
	assert.EqualValues(t, 1, bCalls.Load())
	assert.EqualValues(t, 1, aDropped.Load())

	slot.Clear()
	assert.EqualValues(t, 1, aDropped.Load())
	assert.False(t, native.fire("z"))
	assert.Equal(t, uintptr(0), native.token)
}

func TestSlotReplaceFromInsideCallback(t *testing.T) {
	native := &fakeNative{}
	slot := NewSlot[func(string)]("title", native.set)

	var dropped atomic.Bool
	var seenAfterSet []string
	require.NoError(t, slot.Set(func(s string) {
		require.NoError(t, slot.Set(func(string) {}))
		// Still running; the old box must not be dropped yet.
		assert.False(t, dropped.Load())
		seenAfterSet = append(seenAfterSet, s)
	}, OnRelease(func() { dropped.Store(true) })))

	assert.True(t, native.fire("first"))
	assert.True(t, dropped.Load())
	assert.Equal(t, []string{"first"}, seenAfterSet)
	slot.Clear()
}

func TestSlotSetterFailureLeavesSlotCleared(t *testing.T) {
	native := &fakeNative{}
	slot := NewSlot[func(string)]("title", native.set)

	var oldDropped, newDropped atomic.Int32
	require.NoError(t, slot.Set(func(string) {}, OnRelease(func() { oldDropped.Add(1) })))

	native.fail = true
	err := slot.Set(func(string) {}, OnRelease(func() { newDropped.Add(1) }))
	assert.ErrorIs(t, err, ErrCallbackRegistrationFailed)

	assert.False(t, slot.Active())
	assert.Equal(t, uintptr(0), native.token)
	assert.EqualValues(t, 1, oldDropped.Load())
	assert.EqualValues(t, 1, newDropped.Load())
}

func TestSlotReleaseSkipsNative(t *testing.T) {
	native := &fakeNative{}
	slot := NewSlot[func(string)]("title", native.set)
	require.NoError(t, slot.Set(func(string) {}))
	n := len(native.history)

	slot.Release()
	assert.Len(t, native.history, n)
	assert.False(t, slot.Active())
}

func TestInvokeUnknownToken(t *testing.T) {
	called := false
	ok := Invoke[func()]("x", 0, func(func()) { called = true })
	assert.False(t, ok)
	ok = Invoke[func()]("x", ^uintptr(0), func(func()) { called = true })
	assert.False(t, ok)
	assert.False(t, called)
}

func TestInvokeTypeMismatch(t *testing.T) {
	tok := Box("int", func(int) {})
	defer Unbox(tok)
	assert.False(t, Invoke[func(string)]("string", tok, func(func(string)) {}))
}

func TestInvokeRecoversPanic(t *testing.T) {
	tok := Box("panic", func() { panic("boom") })
	defer Unbox(tok)
	assert.True(t, Invoke[func()]("panic", tok, func(fn func()) { fn() }))
}

func TestNoLeakedCallbacks(t *testing.T) {
	before := LiveCallbacks()
	native := &fakeNative{}
	slot := NewSlot[func(string)]("title", native.set)
	for i := 0; i < 100; i++ {
		require.NoError(t, slot.Set(func(string) {}))
	}
	assert.Equal(t, before+1, LiveCallbacks())
	slot.Clear()
	assert.Equal(t, before, LiveCallbacks())
}

func TestConcurrentInvokeAndReplace(t *testing.T) {
	native := &fakeNative{}
	slot := NewSlot[func(string)]("title", native.set)
	var drops atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				native.fire("t")
			}
		}()
	}
	for i := 0; i < 50; i++ {
		require.NoError(t, slot.Set(func(string) {}, OnRelease(func() { drops.Add(1) })))
	}
	wg.Wait()
	slot.Clear()
	assert.EqualValues(t, 50, drops.Load())
}

// finishes fails the test if fn does not return within a second.
func finishes(t *testing.T, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("slot operation did not return")
	}
}

func TestSlotSetterInvokesSynchronously(t *testing.T) {
	var slot *Slot[func(string)]
	var activeInside, tokenInside []bool
	setter := func(token uintptr) error {
		if token == 0 {
			return nil
		}
		Invoke[func(string)]("title", token, func(fn func(string)) { fn("during set") })
		return nil
	}
	slot = NewSlot[func(string)]("title", setter)

	finishes(t, func() {
		assert.NoError(t, slot.Set(func(s string) {
			activeInside = append(activeInside, slot.Active())
			tokenInside = append(tokenInside, slot.Token() != 0)
		}))
	})
	assert.Equal(t, []bool{true}, activeInside)
	assert.Equal(t, []bool{true}, tokenInside)

	var replaced bool
	finishes(t, func() {
		assert.NoError(t, slot.Set(func(string) {
			if !replaced {
				replaced = true
				assert.NoError(t, slot.Set(func(string) {}))
			}
		}))
	})
	assert.True(t, replaced)
	assert.True(t, slot.Active())

	finishes(t, slot.Clear)
	assert.False(t, slot.Active())
}

func TestSlotReleaseHookReentersSlot(t *testing.T) {
	native := &fakeNative{}
	slot := NewSlot[func(string)]("title", native.set)

	var activeInHook []bool
	require.NoError(t, slot.Set(func(string) {}, OnRelease(func() {
		activeInHook = append(activeInHook, slot.Active())
	})))

	finishes(t, func() { assert.NoError(t, slot.Set(func(string) {})) })
	assert.Equal(t, []bool{true}, activeInHook, "the replacement is visible when the old box is released")

	require.NoError(t, slot.Set(func(string) {}, OnRelease(func() {
		activeInHook = append(activeInHook, slot.Active())
	})))
	finishes(t, slot.Clear)
	assert.Equal(t, []bool{true, false}, activeInHook)
}
