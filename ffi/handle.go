package ffi

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Handle wraps one native opaque pointer together with its ownership.
//
// An owning Handle runs its destroy function exactly once, on the first Close.
// A borrowed Handle is a view of an object the native library (or another
// Handle) owns; closing it only detaches the view.
type Handle struct {
	kind    string
	raw     Ptr
	owns    bool
	destroy func(Ptr)
	retain  func(Ptr) Ptr

	closeOnce sync.Once
	closed    atomic.Bool
}

var liveHandles atomic.Int64

// Owning takes ownership of raw. A null raw means the constructing native
// call failed.
func Owning(kind string, raw Ptr, destroy func(Ptr)) (*Handle, error) {
	if raw.IsNull() {
		return nil, fmt.Errorf("%w: %s", ErrCreationFailed, kind)
	}
	liveHandles.Add(1)
	return &Handle{kind: kind, raw: raw, owns: true, destroy: destroy}, nil
}

// OwningRetained takes ownership of one native reference to a ref-counted
// object. Clone retains another reference; each Handle releases its own.
func OwningRetained(kind string, raw Ptr, retain func(Ptr) Ptr, release func(Ptr)) (*Handle, error) {
	h, err := Owning(kind, raw, release)
	if err != nil {
		return nil, err
	}
	h.retain = retain
	return h, nil
}

// Borrowed wraps a pointer the caller does not own, typically an argument of
// a native callback or the result of a non-owning getter.
func Borrowed(kind string, raw Ptr) (*Handle, error) {
	if raw.IsNull() {
		return nil, fmt.Errorf("%w: %s", ErrNullReference, kind)
	}
	return &Handle{kind: kind, raw: raw}, nil
}

// Kind names the native type, for errors and metrics.
func (h *Handle) Kind() string { return h.kind }

// Owns reports whether Close destroys the native object.
func (h *Handle) Owns() bool { return h != nil && h.owns }

// Raw returns the native address, or null once the handle is closed.
func (h *Handle) Raw() Ptr {
	if h == nil || h.closed.Load() {
		return 0
	}
	return h.raw
}

// Live returns the native address and whether the handle is still open.
// Wrapper methods use it to guard native calls.
func (h *Handle) Live() (Ptr, bool) {
	raw := h.Raw()
	return raw, !raw.IsNull()
}

// Check is Live for methods that return an error.
func (h *Handle) Check() (Ptr, error) {
	raw, ok := h.Live()
	if !ok {
		kind := "handle"
		if h != nil {
			kind = h.kind
		}
		return 0, fmt.Errorf("%w: %s", ErrClosed, kind)
	}
	return raw, nil
}

// IsClosed reports whether Close has been called.
func (h *Handle) IsClosed() bool {
	return h == nil || h.closed.Load()
}

// Same reports whether h refers to the native object at raw.
func (h *Handle) Same(raw Ptr) bool {
	return h != nil && !raw.IsNull() && h.raw == raw
}

// Close detaches the handle and, if it owns the object, destroys it. Close is
// idempotent. A panic inside the destroy function is recovered and returned.
func (h *Handle) Close() error {
	if h == nil {
		return nil
	}
	var err error
	h.closeOnce.Do(func() {
		h.closed.Store(true)
		if !h.owns {
			return
		}
		liveHandles.Add(-1)
		if h.destroy == nil {
			return
		}
		handlesDestroyed.WithLabelValues(h.kind).Inc()
		err = safeCall(h.kind+".destroy", func() error {
			h.destroy(h.raw)
			return nil
		})
	})
	return err
}

// Clone duplicates the handle. A borrowed handle clones to another borrowed
// view; an owning handle clones only when the native type is ref-counted.
func (h *Handle) Clone() (*Handle, error) {
	raw, err := h.Check()
	if err != nil {
		return nil, err
	}
	if !h.owns {
		return &Handle{kind: h.kind, raw: raw}, nil
	}
	if h.retain == nil {
		return nil, fmt.Errorf("%w: %s is not reference counted", ErrUnsupportedOperation, h.kind)
	}
	retained := h.retain(raw)
	if retained.IsNull() {
		return nil, fmt.Errorf("%w: retain %s", ErrNullReference, h.kind)
	}
	liveHandles.Add(1)
	return &Handle{kind: h.kind, raw: retained, owns: true, destroy: h.destroy, retain: h.retain}, nil
}

// ReportLeak is meant for finalizers of thread-affine wrappers: it records an
// owning handle that was never closed without touching the native object.
func (h *Handle) ReportLeak() {
	if h == nil || !h.owns || h.closed.Load() {
		return
	}
	handlesLeaked.WithLabelValues(h.kind).Inc()
	Logger().Warn("native object garbage collected without Close",
		zap.String("kind", h.kind),
		zap.Uintptr("ptr", uintptr(h.raw)))
}

// LiveHandles returns the number of owning handles not yet closed.
func LiveHandles() int64 {
	return liveHandles.Load()
}
