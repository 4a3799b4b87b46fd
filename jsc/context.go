package jsc

import (
	"fmt"
	"runtime"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// ContextGroup groups global contexts that may share values.
type ContextGroup struct {
	h   *ffi.Handle
	api native.JSC
}

// NewContextGroup creates an empty context group.
func NewContextGroup() (*ContextGroup, error) {
	a := api()
	h, err := ffi.OwningRetained("jsc.context_group", a.ContextGroupCreate(), a.ContextGroupRetain, a.ContextGroupRelease)
	if err != nil {
		return nil, err
	}
	g := &ContextGroup{h: h, api: a}
	runtime.SetFinalizer(g, (*ContextGroup).Close)
	return g, nil
}

// Clone retains the group. Borrowed groups clone to another borrowed view.
func (g *ContextGroup) Clone() (*ContextGroup, error) {
	h, err := g.h.Clone()
	if err != nil {
		return nil, err
	}
	c := &ContextGroup{h: h, api: g.api}
	if h.Owns() {
		runtime.SetFinalizer(c, (*ContextGroup).Close)
	}
	return c, nil
}

// Raw returns the JSContextGroupRef, or null after Close.
func (g *ContextGroup) Raw() ffi.Ptr { return g.h.Raw() }

// Close releases this reference to the group.
func (g *ContextGroup) Close() error { return g.h.Close() }

// GlobalContext is an owning reference to a JavaScript execution context.
type GlobalContext struct {
	h   *ffi.Handle
	api native.JSC
	ctx *Context
}

// NewGlobalContext creates a global context in a new group. A non-nil class
// becomes the class of the global object.
func NewGlobalContext(class *Class) (*GlobalContext, error) {
	a := api()
	var cls ffi.Ptr
	if class != nil {
		var err error
		if cls, err = class.h.Check(); err != nil {
			return nil, err
		}
	}
	return adoptGlobalContext(a, a.GlobalContextCreate(cls), class)
}

// NewGlobalContextInGroup creates a global context in group.
func NewGlobalContextInGroup(group *ContextGroup, class *Class) (*GlobalContext, error) {
	g, err := group.h.Check()
	if err != nil {
		return nil, err
	}
	var cls ffi.Ptr
	if class != nil {
		if cls, err = class.h.Check(); err != nil {
			return nil, err
		}
	}
	return adoptGlobalContext(group.api, group.api.GlobalContextCreateInGroup(g, cls), class)
}

func adoptGlobalContext(a native.JSC, raw ffi.Ptr, class *Class) (*GlobalContext, error) {
	h, err := ffi.OwningRetained("jsc.global_context", raw, a.GlobalContextRetain, a.GlobalContextRelease)
	if err != nil {
		return nil, err
	}
	gc := newGlobalContext(a, h)
	if class != nil {
		inst := &instance{api: a, def: class.def}
		token := ffi.Box("jsc.instance", native.ClassInstance(inst))
		if !a.ObjectSetPrivate(a.ContextGetGlobalObject(raw), ffi.Ptr(token)) {
			ffi.Unbox(token)
		}
	}
	runtime.SetFinalizer(gc, (*GlobalContext).Close)
	return gc, nil
}

func newGlobalContext(a native.JSC, h *ffi.Handle) *GlobalContext {
	view, _ := ffi.Borrowed("jsc.context", h.Raw())
	return &GlobalContext{h: h, api: a, ctx: &Context{h: view, api: a}}
}

// Clone retains the context.
func (g *GlobalContext) Clone() (*GlobalContext, error) {
	h, err := g.h.Clone()
	if err != nil {
		return nil, err
	}
	c := newGlobalContext(g.api, h)
	if h.Owns() {
		runtime.SetFinalizer(c, (*GlobalContext).Close)
	}
	return c, nil
}

// Context returns the execution context. It stays valid until g is closed.
func (g *GlobalContext) Context() *Context { return g.ctx }

// Raw returns the JSGlobalContextRef, or null after Close.
func (g *GlobalContext) Raw() ffi.Ptr { return g.h.Raw() }

// Name returns the name shown by the inspector, or "" if none is set.
func (g *GlobalContext) Name() string {
	raw, ok := g.h.Live()
	if !ok {
		return ""
	}
	return takeString(g.api, g.api.GlobalContextCopyName(raw))
}

// SetName sets the inspector name.
func (g *GlobalContext) SetName(name string) error {
	raw, err := g.h.Check()
	if err != nil {
		return err
	}
	s, release, err := tempString(g.api, "context name", name)
	if err != nil {
		return err
	}
	defer release()
	g.api.GlobalContextSetName(raw, s)
	return nil
}

// IsInspectable reports whether the remote inspector may attach.
func (g *GlobalContext) IsInspectable() bool {
	raw, ok := g.h.Live()
	return ok && g.api.GlobalContextIsInspectable(raw)
}

// SetInspectable allows or forbids remote inspection.
func (g *GlobalContext) SetInspectable(inspectable bool) {
	if raw, ok := g.h.Live(); ok {
		g.api.GlobalContextSetInspectable(raw, inspectable)
	}
}

// Close releases this reference. Values obtained through g.Context() must
// not be used afterwards.
func (g *GlobalContext) Close() error {
	g.ctx.h.Close()
	return g.h.Close()
}

// Context is a borrowed JSContextRef. It is handed out by a GlobalContext,
// by locked views and to class callbacks, and is only valid for as long as
// its source says so.
//
// Methods that cannot fail on the engine side panic with ffi.ErrClosed when
// called on a closed context.
type Context struct {
	h   *ffi.Handle
	api native.JSC
}

// BorrowContext wraps a context the caller does not own.
func BorrowContext(raw ffi.Ptr) (*Context, error) {
	return borrowContext(api(), raw)
}

func borrowContext(a native.JSC, raw ffi.Ptr) (*Context, error) {
	h, err := ffi.Borrowed("jsc.context", raw)
	if err != nil {
		return nil, err
	}
	return &Context{h: h, api: a}, nil
}

func (c *Context) ptr() ffi.Ptr {
	raw, ok := c.h.Live()
	if !ok {
		panic(fmt.Errorf("%w: jsc.context", ffi.ErrClosed))
	}
	return raw
}

func (c *Context) value(raw ffi.Ptr) Value { return Value{ctx: c, raw: raw} }

func (c *Context) object(raw ffi.Ptr) Object { return Object{Value{ctx: c, raw: raw}} }

// Raw returns the JSContextRef, or null once the context is closed.
func (c *Context) Raw() ffi.Ptr { return c.h.Raw() }

// IsClosed reports whether the context may no longer be used.
func (c *Context) IsClosed() bool { return c.h.IsClosed() }

// Close detaches the view. The engine context is not affected.
func (c *Context) Close() error { return c.h.Close() }

// GlobalObject returns the context's global object.
func (c *Context) GlobalObject() Object {
	return c.object(c.api.ContextGetGlobalObject(c.ptr()))
}

// Group returns a borrowed view of the context's group.
func (c *Context) Group() *ContextGroup {
	h, err := ffi.Borrowed("jsc.context_group", c.api.ContextGetGroup(c.ptr()))
	if err != nil {
		return nil
	}
	return &ContextGroup{h: h, api: c.api}
}

// GlobalContext returns a borrowed view of the global context c belongs to.
// Closing it does not release the engine context.
func (c *Context) GlobalContext() *GlobalContext {
	h, err := ffi.Borrowed("jsc.global_context", c.api.ContextGetGlobalContext(c.ptr()))
	if err != nil {
		return nil
	}
	return newGlobalContext(c.api, h)
}

// Evaluate runs script with the global object as this.
func (c *Context) Evaluate(script string) (Value, error) {
	return c.EvaluateScript(script, Object{}, "", 1)
}

// EvaluateScript runs script. A zero this means the global object;
// sourceURL and line are used in exceptions and stack traces. A thrown
// exception is returned as an *Exception.
func (c *Context) EvaluateScript(script string, this Object, sourceURL string, line int) (Value, error) {
	raw, err := c.h.Check()
	if err != nil {
		return Value{}, err
	}
	src, releaseSrc, err := tempString(c.api, "script", script)
	if err != nil {
		return Value{}, err
	}
	defer releaseSrc()

	var url ffi.Ptr
	if sourceURL != "" {
		u, releaseURL, err := tempString(c.api, "source URL", sourceURL)
		if err != nil {
			return Value{}, err
		}
		defer releaseURL()
		url = u
	}

	res, exc := c.api.EvaluateScript(raw, src, this.raw, url, int32(line))
	if !exc.IsNull() {
		return Value{}, newException(c, exc)
	}
	return c.value(res), nil
}

// CheckScriptSyntax parses script without running it. It returns nil when
// the script is valid and an *Exception describing the syntax error
// otherwise.
func (c *Context) CheckScriptSyntax(script, sourceURL string, line int) error {
	raw, err := c.h.Check()
	if err != nil {
		return err
	}
	src, releaseSrc, err := tempString(c.api, "script", script)
	if err != nil {
		return err
	}
	defer releaseSrc()

	var url ffi.Ptr
	if sourceURL != "" {
		u, releaseURL, err := tempString(c.api, "source URL", sourceURL)
		if err != nil {
			return err
		}
		defer releaseURL()
		url = u
	}

	ok, exc := c.api.CheckScriptSyntax(raw, src, url, int32(line))
	if !exc.IsNull() {
		return newException(c, exc)
	}
	if !ok {
		return fmt.Errorf("%w: syntax error", ffi.ErrLanguageException)
	}
	return nil
}

// GarbageCollect asks the engine to collect garbage.
func (c *Context) GarbageCollect() {
	c.api.GarbageCollect(c.ptr())
}
