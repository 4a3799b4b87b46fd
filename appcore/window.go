package appcore

import (
	"fmt"
	"strings"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
	"github.com/19h/ul2/ul"
)

// WindowFlags select the decorations of a new window.
type WindowFlags uint32

const (
	WindowBorderless WindowFlags = 1 << iota
	WindowTitled
	WindowResizable
	WindowMaximizable
	WindowHidden
)

var windowFlagNames = []string{"Borderless", "Titled", "Resizable", "Maximizable", "Hidden"}

// Has reports whether every bit of flag is set.
func (f WindowFlags) Has(flag WindowFlags) bool { return f&flag == flag }

// String lists the set flags separated by "|".
func (f WindowFlags) String() string {
	if f == 0 {
		return "0"
	}
	var parts []string
	for i, name := range windowFlagNames {
		if f&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if rest := f &^ (1<<len(windowFlagNames) - 1); rest != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// Window is a native OS window. Its size is reported both in screen
// coordinates and in pixels; they differ by the monitor's scale.
type Window struct {
	h      *ffi.Handle
	api    native.API
	close  *ffi.Slot[native.WindowCloseFunc]
	resize *ffi.Slot[native.WindowResizeFunc]
}

func newWindowSlot[F any](h *ffi.Handle, a native.API, kind native.WindowCallback) *ffi.Slot[F] {
	return ffi.NewSlot[F](kind.String(), func(token uintptr) error {
		raw, err := h.Check()
		if err != nil {
			return err
		}
		a.WindowSetCallback(raw, kind, token)
		return nil
	})
}

// NewWindow creates a window on monitor. Width and height are in screen
// coordinates; fullscreen windows take the monitor's size.
func NewWindow(monitor *Monitor, width, height uint32, fullscreen bool, flags WindowFlags) (*Window, error) {
	mraw, err := monitor.h.Check()
	if err != nil {
		return nil, err
	}
	a := monitor.api
	h, err := ffi.Owning("appcore.window", a.CreateWindow(mraw, width, height, fullscreen, uint32(flags)), a.DestroyWindow)
	if err != nil {
		return nil, err
	}
	w := &Window{
		h:      h,
		api:    a,
		close:  newWindowSlot[native.WindowCloseFunc](h, a, native.WindowClose),
		resize: newWindowSlot[native.WindowResizeFunc](h, a, native.WindowResize),
	}
	leakFinalizer(w, h)
	return w, nil
}

// Raw returns the ULWindow, or null after Close.
func (w *Window) Raw() ffi.Ptr { return w.h.Raw() }

// Close destroys the window and releases its callbacks. Use RequestClose
// to close it the way the user would.
func (w *Window) Close() error {
	err := w.h.Close()
	w.close.Release()
	w.resize.Release()
	return err
}

func (w *Window) do(fn func(raw ffi.Ptr)) error {
	raw, err := w.h.Check()
	if err != nil {
		return err
	}
	fn(raw)
	return nil
}

// SetCloseCallback is called when the window is being closed, by the user
// or through RequestClose. A nil fn clears the callback.
func (w *Window) SetCloseCallback(fn func(w *Window), opts ...ffi.CallbackOption) error {
	if fn == nil {
		w.close.Clear()
		return nil
	}
	if _, err := w.h.Check(); err != nil {
		return err
	}
	return w.close.Set(func(ffi.Ptr) { fn(w) }, opts...)
}

// SetResizeCallback is called with the new size in pixels.
func (w *Window) SetResizeCallback(fn func(w *Window, width, height uint32), opts ...ffi.CallbackOption) error {
	if fn == nil {
		w.resize.Clear()
		return nil
	}
	if _, err := w.h.Check(); err != nil {
		return err
	}
	return w.resize.Set(func(_ ffi.Ptr, width, height uint32) { fn(w, width, height) }, opts...)
}

// ClearCloseCallback removes the close callback.
func (w *Window) ClearCloseCallback()  { w.close.Clear() }
// ClearResizeCallback removes the resize callback.
func (w *Window) ClearResizeCallback() { w.resize.Clear() }

func (w *Window) getU32(fn func(ffi.Ptr) uint32) uint32 {
	raw, ok := w.h.Live()
	if !ok {
		return 0
	}
	return fn(raw)
}

func (w *Window) getI32(fn func(ffi.Ptr) int32) int32 {
	raw, ok := w.h.Live()
	if !ok {
		return 0
	}
	return fn(raw)
}

// ScreenWidth is the width in screen coordinates.
func (w *Window) ScreenWidth() uint32  { return w.getU32(w.api.WindowScreenWidth) }
// ScreenHeight returns the height in screen coordinates.
func (w *Window) ScreenHeight() uint32 { return w.getU32(w.api.WindowScreenHeight) }

// Width is the width in pixels.
func (w *Window) Width() uint32  { return w.getU32(w.api.WindowWidth) }
// Height returns the height in pixels.
func (w *Window) Height() uint32 { return w.getU32(w.api.WindowHeight) }

// X returns the window left edge in screen coordinates.
func (w *Window) X() int32 { return w.getI32(w.api.WindowX) }
// Y returns the window top edge in screen coordinates.
func (w *Window) Y() int32 { return w.getI32(w.api.WindowY) }

// MoveTo moves the window, in screen coordinates.
func (w *Window) MoveTo(x, y int32) error {
	return w.do(func(raw ffi.Ptr) { w.api.WindowMoveTo(raw, x, y) })
}

// MoveToCenter centers the window on its monitor.
func (w *Window) MoveToCenter() error { return w.do(w.api.WindowMoveToCenter) }

// IsFullscreen reports whether the window was created fullscreen.
func (w *Window) IsFullscreen() bool {
	raw, ok := w.h.Live()
	return ok && w.api.WindowIsFullscreen(raw)
}

// Scale is the DPI scale of the window's monitor.
func (w *Window) Scale() float64 {
	raw, ok := w.h.Live()
	if !ok {
		return 0
	}
	return w.api.WindowScale(raw)
}

// SetTitle sets the title bar text.
func (w *Window) SetTitle(title string) error {
	if err := ffi.CheckString("window title", title); err != nil {
		return err
	}
	return w.do(func(raw ffi.Ptr) { w.api.WindowSetTitle(raw, title) })
}

// SetCursor changes the mouse cursor over the window.
func (w *Window) SetCursor(c ul.Cursor) error {
	return w.do(func(raw ffi.Ptr) { w.api.WindowSetCursor(raw, int32(c)) })
}

// Show makes the window visible.
func (w *Window) Show() error { return w.do(w.api.WindowShow) }
// Hide hides the window.
func (w *Window) Hide() error { return w.do(w.api.WindowHide) }

// IsVisible reports whether the window is shown.
func (w *Window) IsVisible() bool {
	raw, ok := w.h.Live()
	return ok && w.api.WindowIsVisible(raw)
}

// RequestClose closes the window as if the user did, running the close
// callback. The wrapper stays open until Close.
func (w *Window) RequestClose() error { return w.do(w.api.WindowClose) }

// ScreenToPixels converts screen coordinates to pixels.
func (w *Window) ScreenToPixels(v int32) int32 {
	return w.getI32(func(raw ffi.Ptr) int32 { return w.api.WindowScreenToPixels(raw, v) })
}

// PixelsToScreen converts pixels to screen coordinates.
func (w *Window) PixelsToScreen(v int32) int32 {
	return w.getI32(func(raw ffi.Ptr) int32 { return w.api.WindowPixelsToScreen(raw, v) })
}

// NativeHandle returns the platform window handle (HWND, NSWindow or X11
// window), or null after Close.
func (w *Window) NativeHandle() ffi.Ptr {
	raw, ok := w.h.Live()
	if !ok {
		return 0
	}
	return w.api.WindowNativeHandle(raw)
}
