package ffi

import (
	"sync"
	"sync/atomic"
)

// Handler lets event callbacks be consumed either directly or through a
// channel. Bind returns the function to register, a drop function to pass to
// OnRelease, and the receive side (nil for Closure).
type Handler[T any] interface {
	Bind() (callback func(T), drop func(), receiver <-chan T)
}

// Closure is a plain callback with an optional drop hook.
type Closure[T any] struct {
	call func(T)
	drop func()
}

// NewClosure creates a callback handler.
func NewClosure[T any](call func(T), drop func()) *Closure[T] {
	return &Closure[T]{call: call, drop: drop}
}

// Bind returns the wrapped function and drop hook. The receiver is nil.
func (c *Closure[T]) Bind() (func(T), func(), <-chan T) {
	return c.call, c.drop, nil
}

// FifoChannel queues events on a buffered channel. When it is full the
// native thread blocks until the consumer catches up, so the consumer must
// not be the thread that drives the native library.
type FifoChannel[T any] struct {
	channel chan T
	closed  atomic.Bool
	mu      sync.RWMutex
}

// NewFifoChannel creates a FIFO handler. bufferSize 0 makes delivery
// synchronous.
func NewFifoChannel[T any](bufferSize int) *FifoChannel[T] {
	return &FifoChannel[T]{channel: make(chan T, bufferSize)}
}

// Bind returns a sender that blocks while the buffer is full, a drop
// function that closes the channel, and the channel.
func (f *FifoChannel[T]) Bind() (func(T), func(), <-chan T) {
	send := func(ev T) {
		f.mu.RLock()
		defer f.mu.RUnlock()
		if f.closed.Load() {
			return
		}
		f.channel <- ev
	}
	drop := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.closed.CompareAndSwap(false, true) {
			close(f.channel)
		}
	}
	return send, drop, f.channel
}

// RingChannel keeps the newest events: when the channel is full the oldest
// queued event is discarded. Delivery never blocks.
type RingChannel[T any] struct {
	channel chan T
	closed  bool
	mu      sync.Mutex
}

// NewRingChannel creates a ring handler. capacity must be positive.
func NewRingChannel[T any](capacity int) *RingChannel[T] {
	if capacity <= 0 {
		panic("ring channel capacity must be > 0")
	}
	return &RingChannel[T]{channel: make(chan T, capacity)}
}

// Bind returns a sender that discards the oldest buffered value when the
// buffer is full, a drop function that closes the channel, and the channel.
func (r *RingChannel[T]) Bind() (func(T), func(), <-chan T) {
	send := func(ev T) {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed {
			return
		}
		for {
			select {
			case r.channel <- ev:
				return
			default:
			}
			select {
			case <-r.channel:
			default:
			}
		}
	}
	drop := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if !r.closed {
			r.closed = true
			close(r.channel)
		}
	}
	return send, drop, r.channel
}
