package ul

import (
	"fmt"
	"sync/atomic"

	"github.com/bytedance/sonic"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
	"github.com/19h/ul2/jsc"
)

// View is a web page rendered into a surface or, when accelerated, a GPU
// render target.
type View struct {
	h   *ffi.Handle
	api native.UL
	id  uint64
	cb  *viewCallbacks
}

var viewIDs atomic.Uint64

func newView(a native.UL, owned bool, raw ffi.Ptr) (*View, error) {
	var h *ffi.Handle
	var err error
	if owned {
		h, err = ffi.Owning("ul.view", raw, a.DestroyView)
	} else {
		h, err = ffi.Borrowed("ul.view", raw)
	}
	if err != nil {
		return nil, err
	}
	v := &View{h: h, api: a, id: viewIDs.Add(1), cb: attachView(a, raw)}
	leakFinalizer(v, h)
	return v, nil
}

// BorrowView wraps a view owned elsewhere, such as the view of an AppCore
// overlay. All wrappers of one native view share its callback registrations;
// closing a borrowed wrapper clears only the callbacks it installed itself.
func BorrowView(raw ffi.Ptr) (*View, error) {
	return newView(api(), false, raw)
}

// Raw returns the ULView, or null after Close.
func (v *View) Raw() ffi.Ptr { return v.h.Raw() }

// IsBorrowed reports whether v does not own its native view.
func (v *View) IsBorrowed() bool { return !v.h.Owns() }

// Close destroys an owned view and releases every callback registered on
// it. Closing a borrowed view clears the callbacks installed through that
// wrapper which no other wrapper has replaced since.
func (v *View) Close() error {
	if v.h.IsClosed() {
		return nil
	}
	if !v.h.Owns() {
		v.cb.detach(v.id)
		return v.h.Close()
	}
	err := v.h.Close()
	v.cb.destroyed()
	return err
}

func (v *View) do(fn func(raw ffi.Ptr)) error {
	raw, err := v.h.Check()
	if err != nil {
		return err
	}
	fn(raw)
	return nil
}

// URL returns the current page URL, or "" when closed.
func (v *View) URL() string {
	raw, ok := v.h.Live()
	if !ok {
		return ""
	}
	return readString(v.api, v.api.ViewURL(raw))
}

// Title returns the current page title, or "" when closed.
func (v *View) Title() string {
	raw, ok := v.h.Live()
	if !ok {
		return ""
	}
	return readString(v.api, v.api.ViewTitle(raw))
}

// Width returns the view width in pixels.
func (v *View) Width() uint32 {
	raw, ok := v.h.Live()
	if !ok {
		return 0
	}
	return v.api.ViewWidth(raw)
}

// Height returns the view height in pixels.
func (v *View) Height() uint32 {
	raw, ok := v.h.Live()
	if !ok {
		return 0
	}
	return v.api.ViewHeight(raw)
}

// DisplayID returns the display the view is shown on.
func (v *View) DisplayID() uint32 {
	raw, ok := v.h.Live()
	if !ok {
		return 0
	}
	return v.api.ViewDisplayID(raw)
}

// SetDisplayID moves the view to another display, which drives its
// animation timing.
func (v *View) SetDisplayID(id uint32) error {
	return v.do(func(raw ffi.Ptr) { v.api.ViewSetDisplayID(raw, id) })
}

// DeviceScale returns the ratio of pixels to points.
func (v *View) DeviceScale() float64 {
	raw, ok := v.h.Live()
	if !ok {
		return 0
	}
	return v.api.ViewDeviceScale(raw)
}

// SetDeviceScale changes the ratio of pixels to points.
func (v *View) SetDeviceScale(scale float64) error {
	return v.do(func(raw ffi.Ptr) { v.api.ViewSetDeviceScale(raw, scale) })
}

// IsAccelerated reports whether the view renders to a GPU texture.
func (v *View) IsAccelerated() bool {
	raw, ok := v.h.Live()
	return ok && v.api.ViewIsAccelerated(raw)
}

// IsTransparent reports whether the view background is transparent.
func (v *View) IsTransparent() bool {
	raw, ok := v.h.Live()
	return ok && v.api.ViewIsTransparent(raw)
}

// IsLoading reports whether the main frame is loading.
func (v *View) IsLoading() bool {
	raw, ok := v.h.Live()
	return ok && v.api.ViewIsLoading(raw)
}

// RenderTarget describes the GPU texture of an accelerated view. It is
// empty for views that render into a surface.
func (v *View) RenderTarget() RenderTarget {
	raw, ok := v.h.Live()
	if !ok {
		return RenderTarget{IsEmpty: true}
	}
	return renderTargetFrom(v.api.ViewRenderTarget(raw))
}

// Surface returns the surface an unaccelerated view paints into. The
// surface belongs to the view.
func (v *View) Surface() (*Surface, error) {
	raw, err := v.h.Check()
	if err != nil {
		return nil, err
	}
	h, err := ffi.Borrowed("ul.surface", v.api.ViewSurface(raw))
	if err != nil {
		return nil, err
	}
	return &Surface{h: h, api: v.api}, nil
}

// LoadHTML replaces the page with html. Loading completes during a later
// Renderer.Update.
func (v *View) LoadHTML(html string) error {
	raw, err := v.h.Check()
	if err != nil {
		return err
	}
	s, release, err := tempString(v.api, "html", html)
	if err != nil {
		return err
	}
	defer release()
	v.api.ViewLoadHTML(raw, s)
	return nil
}

// LoadURL navigates to url. file:/// URLs go through the platform file
// system.
func (v *View) LoadURL(url string) error {
	raw, err := v.h.Check()
	if err != nil {
		return err
	}
	s, release, err := tempString(v.api, "url", url)
	if err != nil {
		return err
	}
	defer release()
	v.api.ViewLoadURL(raw, s)
	return nil
}

// Resize changes the view size in pixels.
func (v *View) Resize(width, height uint32) error {
	return v.do(func(raw ffi.Ptr) { v.api.ViewResize(raw, width, height) })
}

// LockJSContext locks the page's JavaScript context for use from Go. The
// context is borrowed and only valid until the lock is released.
func (v *View) LockJSContext() (*ffi.ScopedLock[*jsc.Context], error) {
	raw, err := v.h.Check()
	if err != nil {
		return nil, err
	}
	var ctx *jsc.Context
	return ffi.Acquire("ul.view.js_context",
		func() (*jsc.Context, bool) {
			c, err := jsc.BorrowContext(v.api.ViewLockJSContext(raw))
			if err != nil {
				v.api.ViewUnlockJSContext(raw)
				return nil, false
			}
			ctx = c
			return c, true
		},
		func() {
			_ = ctx.Close()
			v.api.ViewUnlockJSContext(raw)
		})
}

// WithJSContext runs fn with the locked JavaScript context and unlocks on
// every path out of fn.
func (v *View) WithJSContext(fn func(ctx *jsc.Context) error) error {
	l, err := v.LockJSContext()
	if err != nil {
		return err
	}
	return l.With(fn)
}

// ScriptError is an exception thrown by a script run with EvaluateScript.
type ScriptError struct {
	Message string
}

// Error returns the message with the source location.
func (e *ScriptError) Error() string {
	return "JavaScript exception: " + e.Message
}

// Is matches ffi.ErrLanguageException.
func (e *ScriptError) Is(target error) bool {
	t, ok := target.(ffi.Error)
	return ok && t.Kind() == ffi.KindLanguageException
}

// EvaluateScript runs script in the page and returns the string form of
// its result. A thrown exception is returned as a *ScriptError.
func (v *View) EvaluateScript(script string) (string, error) {
	raw, err := v.h.Check()
	if err != nil {
		return "", err
	}
	s, release, err := tempString(v.api, "script", script)
	if err != nil {
		return "", err
	}
	defer release()
	res, exc := v.api.ViewEvaluateScript(raw, s)
	if !exc.IsNull() && !v.api.StringIsEmpty(exc) {
		return "", &ScriptError{Message: v.api.StringData(exc)}
	}
	return readString(v.api, res), nil
}

// EvaluateJSON runs script, serializes its result with JSON.stringify and
// decodes it into out.
func (v *View) EvaluateJSON(script string, out any) error {
	quoted, err := sonic.MarshalString(script)
	if err != nil {
		return err
	}
	res, err := v.EvaluateScript("JSON.stringify(eval(" + quoted + "))")
	if err != nil {
		return err
	}
	if res == "undefined" || res == "" {
		return fmt.Errorf("%w: script result has no JSON form", ffi.ErrInvalidArgument)
	}
	return sonic.UnmarshalString(res, out)
}

// CanGoBack reports whether there is history to go back to.
func (v *View) CanGoBack() bool {
	raw, ok := v.h.Live()
	return ok && v.api.ViewCanGoBack(raw)
}

// CanGoForward reports whether there is history to go forward to.
func (v *View) CanGoForward() bool {
	raw, ok := v.h.Live()
	return ok && v.api.ViewCanGoForward(raw)
}

// GoBack moves one entry back through the history.
func (v *View) GoBack() error    { return v.do(v.api.ViewGoBack) }
// GoForward moves one entry forward through the history.
func (v *View) GoForward() error { return v.do(v.api.ViewGoForward) }

// GoToHistoryOffset moves offset entries through the history; negative
// offsets go back.
func (v *View) GoToHistoryOffset(offset int32) error {
	return v.do(func(raw ffi.Ptr) { v.api.ViewGoToHistoryOffset(raw, offset) })
}

// Reload reloads the current page.
func (v *View) Reload() error { return v.do(v.api.ViewReload) }

// Stop cancels loads that have not completed.
func (v *View) Stop() error { return v.do(v.api.ViewStop) }

// Focus gives the view keyboard focus.
func (v *View) Focus() error   { return v.do(v.api.ViewFocus) }
// Unfocus removes input focus from the view.
func (v *View) Unfocus() error { return v.do(v.api.ViewUnfocus) }

// HasFocus reports whether the view has input focus.
func (v *View) HasFocus() bool {
	raw, ok := v.h.Live()
	return ok && v.api.ViewHasFocus(raw)
}

// HasInputFocus reports whether an editable element has focus.
func (v *View) HasInputFocus() bool {
	raw, ok := v.h.Live()
	return ok && v.api.ViewHasInputFocus(raw)
}

// FireKeyEvent sends a keyboard event to the page.
func (v *View) FireKeyEvent(ev KeyEvent) error {
	raw, err := v.h.Check()
	if err != nil {
		return err
	}
	kev, err := ev.raw()
	if err != nil {
		return err
	}
	v.api.ViewFireKeyEvent(raw, kev)
	return nil
}

// FireMouseEvent sends a mouse event to the page.
func (v *View) FireMouseEvent(ev MouseEvent) error {
	return v.do(func(raw ffi.Ptr) { v.api.ViewFireMouseEvent(raw, ev.raw()) })
}

// FireScrollEvent sends a scroll event to the page.
func (v *View) FireScrollEvent(ev ScrollEvent) error {
	return v.do(func(raw ffi.Ptr) { v.api.ViewFireScrollEvent(raw, ev.raw()) })
}

// NeedsPaint reports whether the view changed since the last Render.
func (v *View) NeedsPaint() bool {
	raw, ok := v.h.Live()
	return ok && v.api.ViewNeedsPaint(raw)
}

// SetNeedsPaint forces a repaint on the next Render.
func (v *View) SetNeedsPaint(needs bool) error {
	return v.do(func(raw ffi.Ptr) { v.api.ViewSetNeedsPaint(raw, needs) })
}

// CreateLocalInspectorView asks for an inspector of this view. The view
// to host it is requested through the CreateInspectorView callback.
func (v *View) CreateLocalInspectorView() error {
	return v.do(v.api.ViewCreateLocalInspectorView)
}
