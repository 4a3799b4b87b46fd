package ffi

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// box holds one registered callback. Native code only ever sees its token,
// which is passed as the C user_data pointer. The box is reference counted:
// the owning Slot holds one reference and every in-flight invocation holds
// another, so replacing a callback from inside itself never frees the running
// closure.
type box struct {
	token  uintptr
	kind   string
	fn     any
	onDrop func()

	mu   sync.Mutex
	refs int
}

// boxes maps tokens to live boxes. Tokens are never reused; zero is reserved
// for "no callback".
var boxes struct {
	entries sync.Map // map[uintptr]*box
	next    atomic.Uintptr
	live    atomic.Int64
}

func newBox(kind string, fn any, onDrop func()) *box {
	b := &box{
		token:  boxes.next.Add(1),
		kind:   kind,
		fn:     fn,
		onDrop: onDrop,
		refs:   1,
	}
	boxes.entries.Store(b.token, b)
	boxes.live.Add(1)
	boxesLive.Inc()
	return b
}

func lookupBox(token uintptr) (*box, bool) {
	if token == 0 {
		return nil, false
	}
	v, ok := boxes.entries.Load(token)
	if !ok {
		return nil, false
	}
	return v.(*box), true
}

// acquire pins the box for one invocation. It fails once the last reference
// is gone.
func (b *box) acquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.refs == 0 {
		return false
	}
	b.refs++
	return true
}

// release drops one reference. The last release removes the token and runs
// the drop hook.
func (b *box) release() {
	b.mu.Lock()
	b.refs--
	last := b.refs == 0
	b.mu.Unlock()
	if !last {
		return
	}

	boxes.entries.Delete(b.token)
	boxes.live.Add(-1)
	boxesLive.Dec()
	Logger().Debug("callback released", zap.String("kind", b.kind), zap.Uintptr("token", b.token))
	if b.onDrop != nil {
		_ = safeCall(b.kind+".drop", func() error {
			b.onDrop()
			return nil
		})
	}
	b.fn = nil
}

// Invoke resolves token to its boxed callback and runs call with it. It is
// the body of every trampoline. It returns false when the token is unknown
// or already released, or when the box holds a different callback type; in
// that case call is not run. A panic in call is recovered and logged.
func Invoke[F any](kind string, token uintptr, call func(F)) bool {
	b, ok := lookupBox(token)
	if !ok || !b.acquire() {
		Logger().Debug("stale callback token", zap.String("kind", kind), zap.Uintptr("token", token))
		return false
	}
	defer b.release()

	fn, ok := b.fn.(F)
	if !ok {
		Logger().Error("callback type mismatch",
			zap.String("kind", kind),
			zap.String("registered", b.kind))
		return false
	}

	callbackInvocations.WithLabelValues(kind).Inc()
	Logger().Debug("callback", zap.String("kind", kind), zap.Uintptr("token", token))
	_ = safeCall(kind, func() error {
		call(fn)
		return nil
	})
	return true
}

// Box registers a standalone callback outside any Slot, for native APIs that
// hand the user data back exactly once through a finalizer or deallocator.
// Unbox drops the registration.
func Box(kind string, fn any, opts ...CallbackOption) uintptr {
	o := collectOptions(opts)
	return newBox(kind, fn, o.onRelease).token
}

// Unbox releases a token returned by Box. Unknown tokens are ignored.
func Unbox(token uintptr) {
	if b, ok := lookupBox(token); ok {
		b.release()
	}
}

// Unboxed returns the value stored under token without pinning it.
func Unboxed(token uintptr) (any, bool) {
	b, ok := lookupBox(token)
	if !ok {
		return nil, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.refs == 0 {
		return nil, false
	}
	return b.fn, true
}

// LiveCallbacks returns the number of boxed callbacks still reachable by a
// token. Tests use it to detect leaks.
func LiveCallbacks() int64 {
	return boxes.live.Load()
}

// CallbackOption configures a callback registration.
type CallbackOption func(*callbackOptions)

type callbackOptions struct {
	onRelease func()
}

func collectOptions(opts []CallbackOption) callbackOptions {
	var o callbackOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// OnRelease runs fn exactly once, when the registered callback's storage is
// released: after it was replaced or cleared and no invocation of it is still
// running.
func OnRelease(fn func()) CallbackOption {
	return func(o *callbackOptions) {
		o.onRelease = fn
	}
}
