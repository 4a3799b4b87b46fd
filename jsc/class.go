package jsc

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// ClassAttributes modify a class definition.
type ClassAttributes uint32

const (
	ClassNone                 ClassAttributes = 0
	ClassNoAutomaticPrototype ClassAttributes = 1 << 1
)

// ClassDefinition describes a custom object class. Every hook is optional.
//
// The *Context handed to a hook is only valid during that call. A hook that
// returns an error throws it into JavaScript: an *Exception rethrows its
// value, anything else becomes an Error with the error text.
type ClassDefinition struct {
	Name       string
	Attributes ClassAttributes
	Parent     *Class

	// Initialize runs when an instance is created.
	Initialize func(ctx *Context, obj Object)
	// Finalize runs when the engine collects an instance. It receives the
	// instance data; the data is released afterwards.
	Finalize func(data any)

	// HasProperty answers the in operator. Returning false falls back to
	// the object's own properties.
	HasProperty func(ctx *Context, obj Object, name string) bool
	// GetProperty returns a zero Value to fall back to the default lookup.
	GetProperty func(ctx *Context, obj Object, name string) (Value, error)
	// SetProperty returns false to let the engine store the value.
	SetProperty    func(ctx *Context, obj Object, name string, value Value) (bool, error)
	DeleteProperty func(ctx *Context, obj Object, name string) (bool, error)
	// PropertyNames adds names to those enumerated by for..in.
	PropertyNames func(ctx *Context, obj Object) []string

	CallAsFunction    func(ctx *Context, fn Object, this Value, args []Value) (Value, error)
	CallAsConstructor func(ctx *Context, ctor Object, args []Value) (Object, error)
	HasInstance       func(ctx *Context, ctor Object, value Value) (bool, error)
}

func (d *ClassDefinition) hooks() native.ClassHook {
	h := native.HookFinalize
	set := func(ok bool, bit native.ClassHook) {
		if ok {
			h |= bit
		}
	}
	set(d.Initialize != nil, native.HookInitialize)
	set(d.HasProperty != nil, native.HookHasProperty)
	set(d.GetProperty != nil, native.HookGetProperty)
	set(d.SetProperty != nil, native.HookSetProperty)
	set(d.DeleteProperty != nil, native.HookDeleteProperty)
	set(d.PropertyNames != nil, native.HookGetPropertyNames)
	set(d.CallAsFunction != nil, native.HookCallAsFunction)
	set(d.CallAsConstructor != nil, native.HookCallAsConstructor)
	set(d.HasInstance != nil, native.HookHasInstance)
	return h
}

// Class is an owning reference to a JSClassRef.
type Class struct {
	h   *ffi.Handle
	api native.JSC
	def *ClassDefinition
}

// NewClass registers a class with the engine.
func NewClass(def ClassDefinition) (*Class, error) {
	return newClass(api(), def)
}

func newClass(a native.JSC, def ClassDefinition) (*Class, error) {
	if err := ffi.CheckString("class name", def.Name); err != nil {
		return nil, err
	}
	nd := &native.ClassDefinition{
		Name:       def.Name,
		Attributes: uint32(def.Attributes),
		Hooks:      def.hooks(),
	}
	if def.Parent != nil {
		parent, err := def.Parent.h.Check()
		if err != nil {
			return nil, err
		}
		nd.Parent = parent
	}
	h, err := ffi.OwningRetained("jsc.class", a.ClassCreate(nd), a.ClassRetain, a.ClassRelease)
	if err != nil {
		return nil, err
	}
	c := &Class{h: h, api: a, def: &def}
	runtime.SetFinalizer(c, (*Class).Close)
	return c, nil
}

// Name returns the class name.
func (c *Class) Name() string { return c.def.Name }

// Raw returns the JSClassRef, or null after Close.
func (c *Class) Raw() ffi.Ptr { return c.h.Raw() }

// Clone retains the class.
func (c *Class) Clone() (*Class, error) {
	h, err := c.h.Clone()
	if err != nil {
		return nil, err
	}
	cc := &Class{h: h, api: c.api, def: c.def}
	runtime.SetFinalizer(cc, (*Class).Close)
	return cc, nil
}

// Close releases this reference. Existing instances keep the class alive.
func (c *Class) Close() error { return c.h.Close() }

// NewObject creates an instance carrying data, which is handed to Finalize
// when the engine collects the object.
func (c *Class) NewObject(ctx *Context, data any) (Object, error) {
	cls, err := c.h.Check()
	if err != nil {
		return Object{}, err
	}
	raw, err := ctx.h.Check()
	if err != nil {
		return Object{}, err
	}
	inst := &instance{api: c.api, def: c.def, data: data}
	token := ffi.Box("jsc.instance", native.ClassInstance(inst))
	o := c.api.ObjectMake(raw, cls, ffi.Ptr(token))
	if o.IsNull() {
		ffi.Unbox(token)
		return Object{}, fmt.Errorf("%w: instance of %s", ffi.ErrCreationFailed, c.def.Name)
	}
	return ctx.object(o), nil
}

// instance is the registry entry behind a class instance's private data.
type instance struct {
	api native.JSC
	def *ClassDefinition

	mu   sync.Mutex
	data any
}

func (i *instance) get() any {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.data
}

func (i *instance) set(data any) {
	i.mu.Lock()
	i.data = data
	i.mu.Unlock()
}

// hook runs fn with a context that is closed when the hook returns.
func (i *instance) hook(ctx ffi.Ptr, fn func(c *Context)) {
	c, err := borrowContext(i.api, ctx)
	if err != nil {
		return
	}
	defer c.Close()
	fn(c)
}

// throw stores err as the pending exception.
func (i *instance) throw(c *Context, err error, exc *ffi.Ptr) {
	if err == nil || exc == nil {
		return
	}
	var ex *Exception
	if errors.As(err, &ex) && !ex.Value.raw.IsNull() {
		*exc = ex.Value.raw
		return
	}
	e, mkErr := NewError(c, err.Error())
	if mkErr != nil {
		return
	}
	*exc = e.raw
}

func (i *instance) name(p ffi.Ptr) string { return i.api.StringUTF8(p) }

func (i *instance) wrapArgs(c *Context, args []ffi.Ptr) []Value {
	out := make([]Value, len(args))
	for n, a := range args {
		out[n] = c.value(a)
	}
	return out
}

func (i *instance) Initialize(ctx, obj ffi.Ptr) {
	if i.def == nil || i.def.Initialize == nil {
		return
	}
	i.hook(ctx, func(c *Context) { i.def.Initialize(c, c.object(obj)) })
}

func (i *instance) Finalize(obj ffi.Ptr) {
	data := i.get()
	i.set(nil)
	if i.def == nil || i.def.Finalize == nil {
		return
	}
	i.def.Finalize(data)
}

func (i *instance) HasProperty(ctx, obj, name ffi.Ptr) bool {
	var ok bool
	if i.def == nil || i.def.HasProperty == nil {
		return false
	}
	i.hook(ctx, func(c *Context) { ok = i.def.HasProperty(c, c.object(obj), i.name(name)) })
	return ok
}

func (i *instance) GetProperty(ctx, obj, name ffi.Ptr, exc *ffi.Ptr) ffi.Ptr {
	var out ffi.Ptr
	if i.def == nil || i.def.GetProperty == nil {
		return 0
	}
	i.hook(ctx, func(c *Context) {
		v, err := i.def.GetProperty(c, c.object(obj), i.name(name))
		if err != nil {
			i.throw(c, err, exc)
			return
		}
		out = v.raw
	})
	return out
}

func (i *instance) SetProperty(ctx, obj, name, value ffi.Ptr, exc *ffi.Ptr) bool {
	var ok bool
	if i.def == nil || i.def.SetProperty == nil {
		return false
	}
	i.hook(ctx, func(c *Context) {
		handled, err := i.def.SetProperty(c, c.object(obj), i.name(name), c.value(value))
		if err != nil {
			i.throw(c, err, exc)
			ok = true
			return
		}
		ok = handled
	})
	return ok
}

func (i *instance) DeleteProperty(ctx, obj, name ffi.Ptr, exc *ffi.Ptr) bool {
	var ok bool
	if i.def == nil || i.def.DeleteProperty == nil {
		return false
	}
	i.hook(ctx, func(c *Context) {
		deleted, err := i.def.DeleteProperty(c, c.object(obj), i.name(name))
		if err != nil {
			i.throw(c, err, exc)
			return
		}
		ok = deleted
	})
	return ok
}

func (i *instance) PropertyNames(ctx, obj, acc ffi.Ptr) {
	if i.def == nil || i.def.PropertyNames == nil {
		return
	}
	i.hook(ctx, func(c *Context) {
		for _, n := range i.def.PropertyNames(c, c.object(obj)) {
			s, release, err := tempString(i.api, "property name", n)
			if err != nil {
				continue
			}
			i.api.PropertyNameAccumulatorAddName(acc, s)
			release()
		}
	})
}

func (i *instance) CallAsFunction(ctx, fn, this ffi.Ptr, args []ffi.Ptr, exc *ffi.Ptr) ffi.Ptr {
	var out ffi.Ptr
	if i.def == nil || i.def.CallAsFunction == nil {
		return 0
	}
	i.hook(ctx, func(c *Context) {
		v, err := i.def.CallAsFunction(c, c.object(fn), c.value(this), i.wrapArgs(c, args))
		if err != nil {
			i.throw(c, err, exc)
			return
		}
		out = v.raw
	})
	return out
}

func (i *instance) CallAsConstructor(ctx, ctor ffi.Ptr, args []ffi.Ptr, exc *ffi.Ptr) ffi.Ptr {
	var out ffi.Ptr
	if i.def == nil || i.def.CallAsConstructor == nil {
		return 0
	}
	i.hook(ctx, func(c *Context) {
		o, err := i.def.CallAsConstructor(c, c.object(ctor), i.wrapArgs(c, args))
		if err != nil {
			i.throw(c, err, exc)
			return
		}
		out = o.raw
	})
	return out
}

func (i *instance) HasInstance(ctx, ctor, value ffi.Ptr, exc *ffi.Ptr) bool {
	var ok bool
	if i.def == nil || i.def.HasInstance == nil {
		return false
	}
	i.hook(ctx, func(c *Context) {
		is, err := i.def.HasInstance(c, c.object(ctor), c.value(value))
		if err != nil {
			i.throw(c, err, exc)
			return
		}
		ok = is
	})
	return ok
}
