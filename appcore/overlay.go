package appcore

import (
	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
	"github.com/19h/ul2/ul"
)

// Overlay displays a view inside a window at a given position.
type Overlay struct {
	h        *ffi.Handle
	api      native.API
	view     *ul.View
	ownsView bool
}

// NewOverlay creates an overlay together with a view of the given size.
// The overlay owns the view.
func NewOverlay(w *Window, width, height uint32, x, y int32) (*Overlay, error) {
	wraw, err := w.h.Check()
	if err != nil {
		return nil, err
	}
	o, err := newOverlay(w.api, w.api.CreateOverlay(wraw, width, height, x, y))
	if err != nil {
		return nil, err
	}
	o.ownsView = true
	return o, nil
}

// NewOverlayWithView creates an overlay that displays an existing view.
// The view stays owned by the caller and must outlive the overlay.
func NewOverlayWithView(w *Window, v *ul.View, x, y int32) (*Overlay, error) {
	wraw, err := w.h.Check()
	if err != nil {
		return nil, err
	}
	vraw := v.Raw()
	if vraw.IsNull() {
		return nil, ffi.ErrClosed
	}
	return newOverlay(w.api, w.api.CreateOverlayWithView(wraw, vraw, x, y))
}

func newOverlay(a native.API, raw ffi.Ptr) (*Overlay, error) {
	h, err := ffi.Owning("appcore.overlay", raw, a.DestroyOverlay)
	if err != nil {
		return nil, err
	}
	o := &Overlay{h: h, api: a}
	leakFinalizer(o, h)
	return o, nil
}

// Raw returns the ULOverlay, or null after Close.
func (o *Overlay) Raw() ffi.Ptr { return o.h.Raw() }

// Close destroys the overlay. When the overlay owns its view, every
// callback registered on that view is cleared first; an external view keeps
// the callbacks its owner set.
func (o *Overlay) Close() error {
	raw, ok := o.h.Live()
	if !ok {
		return nil
	}
	if o.ownsView {
		ul.ClearViewCallbacks(o.api.OverlayView(raw))
	}
	if o.view != nil {
		_ = o.view.Close()
		o.view = nil
	}
	return o.h.Close()
}

// View returns the overlay's view. The wrapper is borrowed; it stops
// working when the overlay is closed.
func (o *Overlay) View() (*ul.View, error) {
	raw, err := o.h.Check()
	if err != nil {
		return nil, err
	}
	if o.view == nil {
		v, err := ul.BorrowView(o.api.OverlayView(raw))
		if err != nil {
			return nil, err
		}
		o.view = v
	}
	return o.view, nil
}

func (o *Overlay) do(fn func(raw ffi.Ptr)) error {
	raw, err := o.h.Check()
	if err != nil {
		return err
	}
	fn(raw)
	return nil
}

// Width returns the overlay width in pixels.
func (o *Overlay) Width() uint32 {
	raw, ok := o.h.Live()
	if !ok {
		return 0
	}
	return o.api.OverlayWidth(raw)
}

// Height returns the overlay height in pixels.
func (o *Overlay) Height() uint32 {
	raw, ok := o.h.Live()
	if !ok {
		return 0
	}
	return o.api.OverlayHeight(raw)
}

// X is the horizontal position within the window, in pixels.
func (o *Overlay) X() int32 {
	raw, ok := o.h.Live()
	if !ok {
		return 0
	}
	return o.api.OverlayX(raw)
}

// Y returns the vertical offset in the window.
func (o *Overlay) Y() int32 {
	raw, ok := o.h.Live()
	if !ok {
		return 0
	}
	return o.api.OverlayY(raw)
}

// MoveTo moves the overlay to a position in the window.
func (o *Overlay) MoveTo(x, y int32) error {
	return o.do(func(raw ffi.Ptr) { o.api.OverlayMoveTo(raw, x, y) })
}

// Resize resizes the overlay and its view, in pixels.
func (o *Overlay) Resize(width, height uint32) error {
	return o.do(func(raw ffi.Ptr) { o.api.OverlayResize(raw, width, height) })
}

// IsHidden reports whether the overlay is hidden.
func (o *Overlay) IsHidden() bool {
	raw, ok := o.h.Live()
	return ok && o.api.OverlayIsHidden(raw)
}

// Hide hides the overlay.
func (o *Overlay) Hide() error { return o.do(o.api.OverlayHide) }
// Show makes the overlay visible.
func (o *Overlay) Show() error { return o.do(o.api.OverlayShow) }

// HasFocus reports whether the overlay receives keyboard input.
func (o *Overlay) HasFocus() bool {
	raw, ok := o.h.Live()
	return ok && o.api.OverlayHasFocus(raw)
}

// Focus gives the overlay's view keyboard focus.
func (o *Overlay) Focus() error   { return o.do(o.api.OverlayFocus) }
// Unfocus stops routing keyboard input to the overlay.
func (o *Overlay) Unfocus() error { return o.do(o.api.OverlayUnfocus) }
