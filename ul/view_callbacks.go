package ul

import (
	"sync"
	"sync/atomic"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// ConsoleMessage is a message a page wrote to its console, or an error the
// engine reported against it.
type ConsoleMessage struct {
	Source   MessageSource
	Level    MessageLevel
	Message  string
	Line     uint32
	Column   uint32
	SourceID string
}

// ChildViewRequest describes a page asking for a new view, for example
// through window.open.
type ChildViewRequest struct {
	OpenerURL string
	TargetURL string
	IsPopup   bool
	PopupRect IntRect
}

// LoadEventKind tells the loading callbacks apart on a shared channel.
type LoadEventKind int

const (
	LoadBegin LoadEventKind = iota
	LoadFinish
	LoadFail
	LoadWindowObjectReady
	LoadDOMReady
)

// String returns the lowercase event name.
func (k LoadEventKind) String() string {
	switch k {
	case LoadBegin:
		return "begin"
	case LoadFinish:
		return "finish"
	case LoadFail:
		return "fail"
	case LoadWindowObjectReady:
		return "window_object_ready"
	case LoadDOMReady:
		return "dom_ready"
	}
	return "unknown"
}

// LoadEvent is one step of a frame load.
type LoadEvent struct {
	Kind        LoadEventKind
	FrameID     uint64
	IsMainFrame bool
	URL         string

	// Set for LoadFail only.
	Description string
	ErrorDomain string
	ErrorCode   int32
}

// viewCallbacks holds the callback slots of one native view. Every wrapper
// of that view shares it, so each callback kind has exactly one registration
// per native object.
type viewCallbacks struct {
	raw  ffi.Ptr
	dead atomic.Bool

	// refs counts open wrappers and is guarded by views.mu.
	refs int

	mu sync.Mutex
	by map[slotReleaser]uint64 // slot -> id of the wrapper that installed it

	title       *ffi.Slot[native.ViewStringFunc]
	url         *ffi.Slot[native.ViewStringFunc]
	tooltip     *ffi.Slot[native.ViewStringFunc]
	cursor      *ffi.Slot[native.ViewCursorFunc]
	console     *ffi.Slot[native.ViewConsoleFunc]
	child       *ffi.Slot[native.ViewChildFunc]
	inspector   *ffi.Slot[native.ViewInspectorFunc]
	begin       *ffi.Slot[native.ViewFrameFunc]
	finish      *ffi.Slot[native.ViewFrameFunc]
	fail        *ffi.Slot[native.ViewFailFunc]
	windowReady *ffi.Slot[native.ViewFrameFunc]
	domReady    *ffi.Slot[native.ViewFrameFunc]
	history     *ffi.Slot[native.ViewHistoryFunc]
}

type slotReleaser interface {
	Active() bool
	Clear()
	Release()
}

// views maps a native view to its shared callback set.
var views struct {
	mu sync.Mutex
	m  map[ffi.Ptr]*viewCallbacks
}

// attachView returns the callback set of raw, creating it for the first
// wrapper.
func attachView(a native.UL, raw ffi.Ptr) *viewCallbacks {
	views.mu.Lock()
	defer views.mu.Unlock()
	if views.m == nil {
		views.m = make(map[ffi.Ptr]*viewCallbacks)
	}
	c, ok := views.m[raw]
	if !ok {
		c = newViewCallbacks(a, raw)
		views.m[raw] = c
	}
	c.refs++
	return c
}

// forgetView unregisters c if it is still the set for its view.
func forgetView(c *viewCallbacks) bool {
	views.mu.Lock()
	defer views.mu.Unlock()
	if views.m[c.raw] != c {
		return false
	}
	delete(views.m, c.raw)
	return true
}

// ClearViewCallbacks uninstalls every callback registered on the native view
// through any wrapper. Owners of a view outside this package, such as AppCore
// overlays, call it right before destroying the view.
func ClearViewCallbacks(raw ffi.Ptr) {
	views.mu.Lock()
	c, ok := views.m[raw]
	if ok {
		delete(views.m, raw)
	}
	views.mu.Unlock()
	if !ok {
		return
	}
	c.clear()
	c.dead.Store(true)
}

func newViewSlot[F any](c *viewCallbacks, a native.UL, kind native.ViewCallback) *ffi.Slot[F] {
	return ffi.NewSlot[F](kind.String(), func(token uintptr) error {
		if c.dead.Load() {
			return ffi.ErrClosed
		}
		a.ViewSetCallback(c.raw, kind, token)
		return nil
	})
}

func newViewCallbacks(a native.UL, raw ffi.Ptr) *viewCallbacks {
	c := &viewCallbacks{raw: raw, by: make(map[slotReleaser]uint64)}
	c.title = newViewSlot[native.ViewStringFunc](c, a, native.ViewChangeTitle)
	c.url = newViewSlot[native.ViewStringFunc](c, a, native.ViewChangeURL)
	c.tooltip = newViewSlot[native.ViewStringFunc](c, a, native.ViewChangeTooltip)
	c.cursor = newViewSlot[native.ViewCursorFunc](c, a, native.ViewChangeCursor)
	c.console = newViewSlot[native.ViewConsoleFunc](c, a, native.ViewAddConsoleMessage)
	c.child = newViewSlot[native.ViewChildFunc](c, a, native.ViewCreateChildView)
	c.inspector = newViewSlot[native.ViewInspectorFunc](c, a, native.ViewCreateInspectorView)
	c.begin = newViewSlot[native.ViewFrameFunc](c, a, native.ViewBeginLoading)
	c.finish = newViewSlot[native.ViewFrameFunc](c, a, native.ViewFinishLoading)
	c.fail = newViewSlot[native.ViewFailFunc](c, a, native.ViewFailLoading)
	c.windowReady = newViewSlot[native.ViewFrameFunc](c, a, native.ViewWindowObjectReady)
	c.domReady = newViewSlot[native.ViewFrameFunc](c, a, native.ViewDOMReady)
	c.history = newViewSlot[native.ViewHistoryFunc](c, a, native.ViewUpdateHistory)
	return c
}

func (c *viewCallbacks) all() []slotReleaser {
	return []slotReleaser{
		c.title, c.url, c.tooltip, c.cursor, c.console, c.child, c.inspector,
		c.begin, c.finish, c.fail, c.windowReady, c.domReady, c.history,
	}
}

func (c *viewCallbacks) installed(s slotReleaser, id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.by[s] = id
}

func (c *viewCallbacks) clearSlot(s slotReleaser) {
	s.Clear()
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.by, s)
}

// clear uninstalls every active callback while the view is still alive.
func (c *viewCallbacks) clear() {
	for _, s := range c.all() {
		if s.Active() {
			s.Clear()
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.by)
}

// detach drops the wrapper id. Callbacks it installed and that were not
// replaced since are cleared; the last wrapper clears whatever is left.
func (c *viewCallbacks) detach(id uint64) {
	c.mu.Lock()
	var mine []slotReleaser
	for s, by := range c.by {
		if by == id {
			mine = append(mine, s)
			delete(c.by, s)
		}
	}
	c.mu.Unlock()
	for _, s := range mine {
		s.Clear()
	}

	views.mu.Lock()
	c.refs--
	last := c.refs == 0
	views.mu.Unlock()
	if last && forgetView(c) {
		c.clear()
	}
}

// destroyed drops every callback after the native view was destroyed.
func (c *viewCallbacks) destroyed() {
	c.dead.Store(true)
	forgetView(c)
	for _, s := range c.all() {
		s.Release()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.by)
}

// caller resolves the view argument of a callback. The receiver is passed
// back when it is the caller; any other view is a borrowed wrapper that is
// valid for the duration of the callback.
func (v *View) caller(raw ffi.Ptr) (*View, func()) {
	if v.h.Same(raw) {
		return v, func() {}
	}
	c, err := newView(v.api, false, raw)
	if err != nil {
		return nil, func() {}
	}
	return c, func() { _ = c.Close() }
}

func setSlot[F any](v *View, slot *ffi.Slot[F], isNil bool, fn F, opts []ffi.CallbackOption) error {
	if _, err := v.h.Check(); err != nil {
		if isNil {
			return nil
		}
		return err
	}
	if isNil {
		v.cb.clearSlot(slot)
		return nil
	}
	if err := slot.Set(fn, opts...); err != nil {
		v.cb.clearSlot(slot)
		return err
	}
	v.cb.installed(slot, v.id)
	return nil
}

func (v *View) setString(slot *ffi.Slot[native.ViewStringFunc], fn func(*View, string), opts []ffi.CallbackOption) error {
	return setSlot(v, slot, fn == nil, func(caller, str ffi.Ptr) {
		cv, done := v.caller(caller)
		defer done()
		fn(cv, readString(v.api, str))
	}, opts)
}

// SetChangeTitleCallback is called when the page title changes. A nil fn
// clears the callback.
func (v *View) SetChangeTitleCallback(fn func(v *View, title string), opts ...ffi.CallbackOption) error {
	return v.setString(v.cb.title, fn, opts)
}

// SetChangeURLCallback is called when the page URL changes.
func (v *View) SetChangeURLCallback(fn func(v *View, url string), opts ...ffi.CallbackOption) error {
	return v.setString(v.cb.url, fn, opts)
}

// SetChangeTooltipCallback is called when the tooltip under the mouse
// changes.
func (v *View) SetChangeTooltipCallback(fn func(v *View, tooltip string), opts ...ffi.CallbackOption) error {
	return v.setString(v.cb.tooltip, fn, opts)
}

// SetChangeCursorCallback is called when the page asks for a different
// mouse cursor.
func (v *View) SetChangeCursorCallback(fn func(v *View, cursor Cursor), opts ...ffi.CallbackOption) error {
	return setSlot(v, v.cb.cursor, fn == nil, func(caller ffi.Ptr, cursor int32) {
		cv, done := v.caller(caller)
		defer done()
		fn(cv, Cursor(cursor))
	}, opts)
}

func (v *View) consoleMessage(m native.ConsoleMessage) ConsoleMessage {
	return ConsoleMessage{
		Source:   MessageSource(m.Source),
		Level:    MessageLevel(m.Level),
		Message:  readString(v.api, m.Message),
		Line:     m.Line,
		Column:   m.Column,
		SourceID: readString(v.api, m.SourceID),
	}
}

// SetAddConsoleMessageCallback is called for console API messages and for
// errors the engine reports against the page.
func (v *View) SetAddConsoleMessageCallback(fn func(v *View, msg ConsoleMessage), opts ...ffi.CallbackOption) error {
	return setSlot(v, v.cb.console, fn == nil, func(caller ffi.Ptr, m native.ConsoleMessage) {
		cv, done := v.caller(caller)
		defer done()
		fn(cv, v.consoleMessage(m))
	}, opts)
}

// SetCreateChildViewCallback is called when the page asks for a new view.
// Return the view to load the target into, or nil to refuse. The returned
// view stays owned by the caller.
func (v *View) SetCreateChildViewCallback(fn func(v *View, req ChildViewRequest) *View, opts ...ffi.CallbackOption) error {
	return setSlot(v, v.cb.child, fn == nil, func(caller ffi.Ptr, req native.ChildViewRequest) ffi.Ptr {
		cv, done := v.caller(caller)
		defer done()
		child := fn(cv, ChildViewRequest{
			OpenerURL: readString(v.api, req.OpenerURL),
			TargetURL: readString(v.api, req.TargetURL),
			IsPopup:   req.IsPopup,
			PopupRect: intRectFrom(req.PopupRect),
		})
		if child == nil {
			return 0
		}
		return child.Raw()
	}, opts)
}

// SetCreateInspectorViewCallback is called when an inspector is requested
// for the page. Return the view to host it, or nil.
func (v *View) SetCreateInspectorViewCallback(fn func(v *View, isLocal bool, inspectedURL string) *View, opts ...ffi.CallbackOption) error {
	return setSlot(v, v.cb.inspector, fn == nil, func(caller ffi.Ptr, isLocal bool, url ffi.Ptr) ffi.Ptr {
		cv, done := v.caller(caller)
		defer done()
		inspector := fn(cv, isLocal, readString(v.api, url))
		if inspector == nil {
			return 0
		}
		return inspector.Raw()
	}, opts)
}

func (v *View) setFrame(slot *ffi.Slot[native.ViewFrameFunc], kind LoadEventKind, fn func(*View, LoadEvent), opts []ffi.CallbackOption) error {
	return setSlot(v, slot, fn == nil, func(caller ffi.Ptr, ev native.FrameEvent) {
		cv, done := v.caller(caller)
		defer done()
		fn(cv, LoadEvent{
			Kind:        kind,
			FrameID:     ev.FrameID,
			IsMainFrame: ev.IsMainFrame,
			URL:         readString(v.api, ev.URL),
		})
	}, opts)
}

// SetBeginLoadingCallback is called when a frame starts loading.
func (v *View) SetBeginLoadingCallback(fn func(v *View, ev LoadEvent), opts ...ffi.CallbackOption) error {
	return v.setFrame(v.cb.begin, LoadBegin, fn, opts)
}

// SetFinishLoadingCallback is called when a frame finished loading.
func (v *View) SetFinishLoadingCallback(fn func(v *View, ev LoadEvent), opts ...ffi.CallbackOption) error {
	return v.setFrame(v.cb.finish, LoadFinish, fn, opts)
}

// SetFailLoadingCallback is called when a frame fails to load. The event
// carries the error description, domain and code.
func (v *View) SetFailLoadingCallback(fn func(v *View, ev LoadEvent), opts ...ffi.CallbackOption) error {
	return setSlot(v, v.cb.fail, fn == nil, func(caller ffi.Ptr, ev native.FailEvent) {
		cv, done := v.caller(caller)
		defer done()
		fn(cv, LoadEvent{
			Kind:        LoadFail,
			FrameID:     ev.FrameID,
			IsMainFrame: ev.IsMainFrame,
			URL:         readString(v.api, ev.URL),
			Description: readString(v.api, ev.Description),
			ErrorDomain: readString(v.api, ev.ErrorDomain),
			ErrorCode:   ev.ErrorCode,
		})
	}, opts)
}

// SetWindowObjectReadyCallback is called when the page's window object
// exists, before any of its scripts run. This is the place to install
// bindings with LockJSContext.
func (v *View) SetWindowObjectReadyCallback(fn func(v *View, ev LoadEvent), opts ...ffi.CallbackOption) error {
	return v.setFrame(v.cb.windowReady, LoadWindowObjectReady, fn, opts)
}

// SetDOMReadyCallback is called when the DOM of a frame is parsed.
func (v *View) SetDOMReadyCallback(fn func(v *View, ev LoadEvent), opts ...ffi.CallbackOption) error {
	return v.setFrame(v.cb.domReady, LoadDOMReady, fn, opts)
}

// SetUpdateHistoryCallback is called when the session history changes.
func (v *View) SetUpdateHistoryCallback(fn func(v *View), opts ...ffi.CallbackOption) error {
	return setSlot(v, v.cb.history, fn == nil, func(caller ffi.Ptr) {
		cv, done := v.caller(caller)
		defer done()
		fn(cv)
	}, opts)
}

func dropOptions(drop func()) []ffi.CallbackOption {
	if drop == nil {
		return nil
	}
	return []ffi.CallbackOption{ffi.OnRelease(drop)}
}

// ConsoleMessages routes console messages into h and returns its receive
// side (nil for a closure). The channel is closed when the callback is
// replaced, cleared or the view is closed.
func (v *View) ConsoleMessages(h ffi.Handler[ConsoleMessage]) (<-chan ConsoleMessage, error) {
	call, drop, rx := h.Bind()
	err := v.SetAddConsoleMessageCallback(func(_ *View, m ConsoleMessage) { call(m) }, dropOptions(drop)...)
	if err != nil {
		return nil, err
	}
	return rx, nil
}

// LoadEvents routes the begin, finish and fail loading callbacks into h.
// The channel is closed once all three registrations are released.
func (v *View) LoadEvents(h ffi.Handler[LoadEvent]) (<-chan LoadEvent, error) {
	if _, err := v.h.Check(); err != nil {
		return nil, err
	}
	call, drop, rx := h.Bind()
	setters := []func(func(*View, LoadEvent), ...ffi.CallbackOption) error{
		v.SetBeginLoadingCallback,
		v.SetFinishLoadingCallback,
		v.SetFailLoadingCallback,
	}
	var pending atomic.Int32
	pending.Store(int32(len(setters)))
	released := func() {
		if pending.Add(-1) == 0 && drop != nil {
			drop()
		}
	}
	forward := func(_ *View, ev LoadEvent) { call(ev) }
	for i, set := range setters {
		if err := set(forward, ffi.OnRelease(released)); err != nil {
			for range setters[i+1:] {
				released()
			}
			v.cb.clearSlot(v.cb.begin)
			v.cb.clearSlot(v.cb.finish)
			v.cb.clearSlot(v.cb.fail)
			return nil, err
		}
	}
	return rx, nil
}
