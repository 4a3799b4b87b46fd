package jsc

import (
	"fmt"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// PropertyAttributes control how SetProperty defines a property.
type PropertyAttributes uint32

const (
	PropertyNone       PropertyAttributes = 0
	PropertyReadOnly   PropertyAttributes = 1 << 1
	PropertyDontEnum   PropertyAttributes = 1 << 2
	PropertyDontDelete PropertyAttributes = 1 << 3
)

// Object is a Value known to be an object.
type Object struct {
	Value
}

// NewObject creates an empty plain object.
func NewObject(ctx *Context) Object {
	return ctx.object(ctx.api.ObjectMake(ctx.ptr(), 0, 0))
}

// NewArray creates an array holding items.
func NewArray(ctx *Context, items ...Value) (Object, error) {
	o, exc := ctx.api.ObjectMakeArray(ctx.ptr(), raws(items))
	if !exc.IsNull() {
		return Object{}, newException(ctx, exc)
	}
	return ctx.object(o), nil
}

// NewError creates an Error with message.
func NewError(ctx *Context, message string) (Object, error) {
	msg, err := StringValue(ctx, message)
	if err != nil {
		return Object{}, err
	}
	o, exc := ctx.api.ObjectMakeError(ctx.ptr(), []ffi.Ptr{msg.raw})
	if !exc.IsNull() {
		return Object{}, newException(ctx, exc)
	}
	return ctx.object(o), nil
}

func raws(vs []Value) []ffi.Ptr {
	out := make([]ffi.Ptr, len(vs))
	for i, v := range vs {
		out[i] = v.raw
	}
	return out
}

func (o Object) withName(name string, fn func(ctx, obj, name ffi.Ptr)) error {
	ctx := o.ctx.ptr()
	n, release, err := tempString(o.api(), "property name", name)
	if err != nil {
		return err
	}
	defer release()
	fn(ctx, o.raw, n)
	return nil
}

// HasProperty reports whether the object or its prototype chain has name.
func (o Object) HasProperty(name string) bool {
	var ok bool
	_ = o.withName(name, func(ctx, obj, n ffi.Ptr) { ok = o.api().ObjectHasProperty(ctx, obj, n) })
	return ok
}

// Property reads a property. Missing properties are undefined.
func (o Object) Property(name string) (Value, error) {
	var res, exc ffi.Ptr
	if err := o.withName(name, func(ctx, obj, n ffi.Ptr) { res, exc = o.api().ObjectGetProperty(ctx, obj, n) }); err != nil {
		return Value{}, err
	}
	if !exc.IsNull() {
		return Value{}, newException(o.ctx, exc)
	}
	return o.ctx.value(res), nil
}

// SetProperty writes a property. Non-zero attrs define it with those
// attributes instead of plain assignment.
func (o Object) SetProperty(name string, value Value, attrs PropertyAttributes) error {
	var exc ffi.Ptr
	if err := o.withName(name, func(ctx, obj, n ffi.Ptr) {
		exc = o.api().ObjectSetProperty(ctx, obj, n, value.raw, uint32(attrs))
	}); err != nil {
		return err
	}
	if !exc.IsNull() {
		return newException(o.ctx, exc)
	}
	return nil
}

// DeleteProperty is the delete operator. It reports false for
// non-configurable properties.
func (o Object) DeleteProperty(name string) (bool, error) {
	var (
		ok  bool
		exc ffi.Ptr
	)
	if err := o.withName(name, func(ctx, obj, n ffi.Ptr) { ok, exc = o.api().ObjectDeleteProperty(ctx, obj, n) }); err != nil {
		return false, err
	}
	if !exc.IsNull() {
		return false, newException(o.ctx, exc)
	}
	return ok, nil
}

// PropertyAtIndex reads o[index].
func (o Object) PropertyAtIndex(index uint32) (Value, error) {
	res, exc := o.api().ObjectGetPropertyAtIndex(o.ctx.ptr(), o.raw, index)
	if !exc.IsNull() {
		return Value{}, newException(o.ctx, exc)
	}
	return o.ctx.value(res), nil
}

// SetPropertyAtIndex writes o[index].
func (o Object) SetPropertyAtIndex(index uint32, value Value) error {
	if exc := o.api().ObjectSetPropertyAtIndex(o.ctx.ptr(), o.raw, index, value.raw); !exc.IsNull() {
		return newException(o.ctx, exc)
	}
	return nil
}

// PropertyNames lists the enumerable property names, including inherited
// ones.
func (o Object) PropertyNames() []string {
	a := o.api()
	names := a.ObjectCopyPropertyNames(o.ctx.ptr(), o.raw)
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, takeString(a, n))
	}
	return out
}

// Prototype returns the prototype, null at the end of the chain.
func (o Object) Prototype() Value {
	return o.ctx.value(o.api().ObjectGetPrototype(o.ctx.ptr(), o.raw))
}

// SetPrototype replaces the prototype. A zero or null proto clears it.
func (o Object) SetPrototype(proto Value) {
	o.api().ObjectSetPrototype(o.ctx.ptr(), o.raw, proto.raw)
}

// IsFunction reports whether o can be called.
func (o Object) IsFunction() bool { return o.api().ObjectIsFunction(o.ctx.ptr(), o.raw) }

// Call calls o. A zero this means the global object.
func (o Object) Call(this Value, args ...Value) (Value, error) {
	ctx := o.ctx.ptr()
	if !o.api().ObjectIsFunction(ctx, o.raw) {
		return Value{}, fmt.Errorf("%w: object is not a function", ffi.ErrInvalidOperation)
	}
	res, exc := o.api().ObjectCallAsFunction(ctx, o.raw, this.raw, raws(args))
	if !exc.IsNull() {
		return Value{}, newException(o.ctx, exc)
	}
	return o.ctx.value(res), nil
}

// IsConstructor reports whether o can be used with new.
func (o Object) IsConstructor() bool { return o.api().ObjectIsConstructor(o.ctx.ptr(), o.raw) }

// Construct is the new operator.
func (o Object) Construct(args ...Value) (Object, error) {
	ctx := o.ctx.ptr()
	if !o.api().ObjectIsConstructor(ctx, o.raw) {
		return Object{}, fmt.Errorf("%w: object is not a constructor", ffi.ErrInvalidOperation)
	}
	res, exc := o.api().ObjectCallAsConstructor(ctx, o.raw, raws(args))
	if !exc.IsNull() {
		return Object{}, newException(o.ctx, exc)
	}
	return o.ctx.object(res), nil
}

func (o Object) instance() (*instance, bool) {
	token := o.api().ObjectGetPrivate(o.raw)
	if token.IsNull() {
		return nil, false
	}
	v, ok := ffi.Unboxed(uintptr(token))
	if !ok {
		return nil, false
	}
	inst, ok := v.(*instance)
	return inst, ok
}

// PrivateData returns the Go value attached to a class instance. Objects
// that are not class instances, and instances without data, report false.
func (o Object) PrivateData() (any, bool) {
	inst, ok := o.instance()
	if !ok {
		return nil, false
	}
	data := inst.get()
	return data, data != nil
}

// SetPrivateData attaches data to a class instance. It reports false when o
// is not a class instance and cannot hold private data.
func (o Object) SetPrivateData(data any) bool {
	if inst, ok := o.instance(); ok {
		inst.set(data)
		return true
	}
	inst := &instance{api: o.api(), data: data}
	token := ffi.Box("jsc.instance", native.ClassInstance(inst))
	if !o.api().ObjectSetPrivate(o.raw, ffi.Ptr(token)) {
		ffi.Unbox(token)
		return false
	}
	return true
}

// ProxyTarget returns the target of a Proxy.
func (o Object) ProxyTarget() (Object, bool) {
	t := o.api().ObjectGetProxyTarget(o.raw)
	if t.IsNull() {
		return Object{}, false
	}
	return o.ctx.object(t), true
}

// GlobalContext returns a borrowed view of the global context whose global
// object is o, or nil if o is not a global object.
func (o Object) GlobalContext() *GlobalContext {
	raw := o.api().ObjectGetGlobalContext(o.raw)
	h, err := ffi.Borrowed("jsc.global_context", raw)
	if err != nil {
		return nil
	}
	return newGlobalContext(o.api(), h)
}
