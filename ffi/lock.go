package ffi

import (
	"fmt"
	"sync"
)

// ScopedLock holds a lock on a native resource, such as a surface's pixel
// buffer or a bitmap, and exposes the locked value until Unlock. Unlock runs
// the native unlock exactly once.
type ScopedLock[T any] struct {
	kind   string
	value  T
	unlock func()
	once   sync.Once
	done   bool
}

// Acquire locks a resource. If acquire reports failure (a null result) no
// lock is held and unlock is never called.
func Acquire[T any](kind string, acquire func() (T, bool), unlock func()) (*ScopedLock[T], error) {
	v, ok := acquire()
	if !ok {
		return nil, fmt.Errorf("%w: lock %s", ErrNullReference, kind)
	}
	return &ScopedLock[T]{kind: kind, value: v, unlock: unlock}, nil
}

// Value returns the locked value. It must not be used after Unlock.
func (l *ScopedLock[T]) Value() T { return l.value }

// Unlock releases the lock. Repeated calls do nothing.
func (l *ScopedLock[T]) Unlock() {
	l.once.Do(func() {
		l.done = true
		var zero T
		l.value = zero
		if l.unlock != nil {
			_ = safeCall(l.kind+".unlock", func() error {
				l.unlock()
				return nil
			})
		}
	})
}

// Locked reports whether Unlock has not yet been called.
func (l *ScopedLock[T]) Locked() bool { return !l.done }

// WithLock acquires, runs fn with the value, and unlocks on every path out of
// fn, including a panic.
func WithLock[T, R any](kind string, acquire func() (T, bool), unlock func(), fn func(T) (R, error)) (R, error) {
	l, err := Acquire(kind, acquire, unlock)
	if err != nil {
		var zero R
		return zero, err
	}
	defer l.Unlock()
	return fn(l.value)
}

// With runs fn with the locked value and unlocks afterwards, even if fn
// panics. A lock that was already released returns ErrClosed without
// running fn.
func (l *ScopedLock[T]) With(fn func(T) error) error {
	if !l.Locked() {
		return fmt.Errorf("%w: %s already unlocked", ErrClosed, l.kind)
	}
	defer l.Unlock()
	return fn(l.value)
}
