package ffi

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Setter installs a trampoline for one callback kind on one native object.
// A zero token means clear: install the null function pointer and null user
// data.
type Setter func(token uintptr) error

// Slot owns the current callback of one kind for one native object.
//
// Replacement installs the new box first and releases the old one after the
// native setter has returned; a box that is still running is released when
// its invocation finishes. No lock is held while the native setter or a
// release hook runs, so both may call back into the slot. Registrations on
// one native object are expected from its owning thread only.
type Slot[F any] struct {
	kind   string
	setter Setter

	mu  sync.Mutex
	cur *box
}

// NewSlot returns an empty slot whose registrations go through setter.
func NewSlot[F any](kind string, setter Setter) *Slot[F] {
	return &Slot[F]{kind: kind, setter: setter}
}

// Kind returns the callback kind the slot was created for.
func (s *Slot[F]) Kind() string { return s.kind }

// Set registers fn, replacing any previous callback. If the native setter
// fails the slot ends up cleared, never holding a stale registration.
func (s *Slot[F]) Set(fn F, opts ...CallbackOption) error {
	o := collectOptions(opts)
	b := newBox(s.kind, fn, o.onRelease)

	old := s.swap(b)
	if err := s.setter(b.token); err != nil {
		if s.compareAndSwap(b, nil) {
			s.clearNative()
		}
		b.release()
		if old != nil {
			old.release()
		}
		return fmt.Errorf("%w: %s: %v", ErrCallbackRegistrationFailed, s.kind, err)
	}
	if old != nil {
		old.release()
	}
	return nil
}

// Clear uninstalls the native registration, then releases the callback.
func (s *Slot[F]) Clear() {
	old := s.swap(nil)
	if old == nil {
		return
	}
	s.clearNative()
	old.release()
}

// Release drops the callback without calling the native setter. Use it only
// once the native object is destroyed and can no longer invoke it.
func (s *Slot[F]) Release() {
	if old := s.swap(nil); old != nil {
		old.release()
	}
}

func (s *Slot[F]) swap(b *box) *box {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.cur
	s.cur = b
	return old
}

func (s *Slot[F]) compareAndSwap(old, b *box) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur != old {
		return false
	}
	s.cur = b
	return true
}

func (s *Slot[F]) clearNative() {
	if err := s.setter(0); err != nil {
		Logger().Warn("clearing native callback failed", zap.String("kind", s.kind), zap.Error(err))
	}
}

// Token returns the user data token of the current callback, or zero.
func (s *Slot[F]) Token() uintptr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return 0
	}
	return s.cur.token
}

// Active reports whether a callback is registered.
func (s *Slot[F]) Active() bool {
	return s.Token() != 0
}
