package soft

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unsafe"

	"github.com/dop251/goja"
	"github.com/dop251/goja/file"
	"github.com/dop251/goja/parser"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// JavaScriptCore emulation. Every global context owns one goja runtime.
// Values are table entries pointing at goja values; an object always maps
// to the same address so identity comparisons work. Values stay alive until
// their context is released, which is also when class finalizers run.

type jsGroup struct{ refs int }

func (*jsGroup) kind() string { return "jsgroup" }

type jsClass struct {
	def  native.ClassDefinition
	refs int
}

func (*jsClass) kind() string { return "jsclass" }

type objInfo struct {
	class   ffi.Ptr
	private ffi.Ptr
	hooks   native.ClassHook
}

type jsContext struct {
	self        ffi.Ptr
	refs        int
	group       ffi.Ptr
	rt          *goja.Runtime
	global      ffi.Ptr
	name        []uint16
	inspectable bool

	objects map[*goja.Object]ffi.Ptr
	info    map[*goja.Object]*objInfo
	order   []*goja.Object
	values  []ffi.Ptr
	helpers map[string]goja.Callable
}

func (*jsContext) kind() string { return "jscontext" }

type jsValue struct {
	ctx     *jsContext
	v       goja.Value
	protect int
}

func (*jsValue) kind() string { return "jsvalue" }

type nameAccumulator struct{ names []string }

func (*nameAccumulator) kind() string { return "jsaccumulator" }

var helperSource = map[string]string{
	"eval":      "(function () { return eval(arguments[0]); })",
	"in":        "(function (o, k) { return k in o; })",
	"delete":    "(function (o, k) { return delete o[k]; })",
	"keys":      "(function (o) { var r = []; for (var k in o) r.push(k); return r; })",
	"parse":     "(function (s) { return JSON.parse(s); })",
	"stringify": "(function (v, n) { return JSON.stringify(v, null, n); })",
}

var typedArrayNames = []struct {
	kind int32
	name string
}{
	{0, "Int8Array"}, {1, "Int16Array"}, {2, "Int32Array"}, {3, "Uint8Array"},
	{4, "Uint8ClampedArray"}, {5, "Uint16Array"}, {6, "Uint32Array"},
	{7, "Float32Array"}, {8, "Float64Array"}, {11, "BigInt64Array"}, {12, "BigUint64Array"},
}

const (
	typedArrayBuffer int32 = 9
	typedNone        int32 = 10
)

func (b *Backend) ctxOf(p ffi.Ptr) *jsContext { return get[*jsContext](b, p) }

func (b *Backend) value(p ffi.Ptr) goja.Value {
	if p == 0 {
		return goja.Undefined()
	}
	return get[*jsValue](b, p).v
}

func (b *Backend) values(ps []ffi.Ptr) []goja.Value {
	out := make([]goja.Value, len(ps))
	for i, p := range ps {
		out[i] = b.value(p)
	}
	return out
}

// wrap returns the address of v in c, allocating one if needed.
func (b *Backend) wrap(c *jsContext, v goja.Value) ffi.Ptr {
	if v == nil {
		v = goja.Undefined()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	o, isObj := v.(*goja.Object)
	if isObj {
		if p, ok := c.objects[o]; ok {
			return p
		}
	}
	b.next += 0x10
	p := b.next
	b.objects[p] = &jsValue{ctx: c, v: v}
	c.values = append(c.values, p)
	if isObj {
		c.objects[o] = p
	}
	return p
}

func (b *Backend) wrapAll(c *jsContext, vs []goja.Value) []ffi.Ptr {
	out := make([]ffi.Ptr, len(vs))
	for i, v := range vs {
		out[i] = b.wrap(c, v)
	}
	return out
}

// throw raises exc inside the running script. Only valid from Go code that
// goja called.
func (b *Backend) throw(exc ffi.Ptr) {
	if exc != 0 {
		panic(b.value(exc))
	}
}

func (b *Backend) helper(c *jsContext, name string) goja.Callable {
	if fn, ok := c.helpers[name]; ok {
		return fn
	}
	v, err := c.rt.RunScript("ul2:"+name, helperSource[name])
	if err != nil {
		panic(err)
	}
	fn, _ := goja.AssertFunction(v)
	c.helpers[name] = fn
	return fn
}

// exception converts a goja exception into a value, adding the line,
// column and sourceURL properties JavaScriptCore puts on error objects.
func (b *Backend) exception(c *jsContext, ex *goja.Exception) ffi.Ptr {
	v := ex.Value()
	if o, ok := v.(*goja.Object); ok {
		c.rt.Try(func() {
			if o.Get("line") != nil {
				return
			}
			for _, f := range ex.Stack() {
				pos := f.Position()
				if pos.Line == 0 {
					continue
				}
				_ = o.Set("line", pos.Line)
				_ = o.Set("column", pos.Column)
				_ = o.Set("sourceURL", f.SrcName())
				break
			}
		})
	}
	return b.wrap(c, v)
}

func (b *Backend) errorValue(c *jsContext, err error) ffi.Ptr {
	var ex *goja.Exception
	if errors.As(err, &ex) {
		return b.exception(c, ex)
	}
	return b.wrap(c, c.rt.NewGoError(err))
}

func (b *Backend) try(c *jsContext, fn func()) ffi.Ptr {
	if ex := c.rt.Try(fn); ex != nil {
		return b.exception(c, ex)
	}
	return 0
}

func (b *Backend) typeError(c *jsContext, msg string) ffi.Ptr {
	return b.wrap(c, c.rt.NewTypeError(msg))
}

func (b *Backend) obj(p ffi.Ptr) (*goja.Object, bool) {
	o, ok := b.value(p).(*goja.Object)
	return o, ok
}

func (b *Backend) key(name ffi.Ptr) string { return b.StringUTF8(name) }

// Groups and contexts

func (b *Backend) ContextGroupCreate() ffi.Ptr {
	return b.insert(&jsGroup{refs: 1})
}

func (b *Backend) ContextGroupRetain(g ffi.Ptr) ffi.Ptr {
	grp := get[*jsGroup](b, g)
	b.mu.Lock()
	grp.refs++
	b.mu.Unlock()
	return g
}

func (b *Backend) ContextGroupRelease(g ffi.Ptr) {
	grp := get[*jsGroup](b, g)
	b.mu.Lock()
	defer b.mu.Unlock()
	grp.refs--
	if grp.refs <= 0 {
		delete(b.objects, g)
	}
}

func (b *Backend) GlobalContextCreate(class ffi.Ptr) ffi.Ptr {
	g := b.ContextGroupCreate()
	defer b.ContextGroupRelease(g)
	return b.GlobalContextCreateInGroup(g, class)
}

func (b *Backend) GlobalContextCreateInGroup(group, class ffi.Ptr) ffi.Ptr {
	rt := goja.New()
	c := &jsContext{
		refs:    1,
		group:   b.ContextGroupRetain(group),
		rt:      rt,
		objects: make(map[*goja.Object]ffi.Ptr),
		info:    make(map[*goja.Object]*objInfo),
		helpers: make(map[string]goja.Callable),
	}
	c.self = b.insert(c)
	c.global = b.wrap(c, rt.GlobalObject())
	if class != 0 {
		cls := get[*jsClass](b, class)
		b.mu.Lock()
		c.info[rt.GlobalObject()] = &objInfo{class: class, hooks: cls.def.Hooks}
		c.order = append(c.order, rt.GlobalObject())
		b.mu.Unlock()
	}
	b.record("GlobalContextCreate")
	return c.self
}

func (b *Backend) GlobalContextRetain(ctx ffi.Ptr) ffi.Ptr {
	c := b.ctxOf(ctx)
	b.mu.Lock()
	c.refs++
	b.mu.Unlock()
	return ctx
}

// GlobalContextRelease drops a reference. The last one finalizes every
// class instance and frees the context's values.
func (b *Backend) GlobalContextRelease(ctx ffi.Ptr) {
	c := b.ctxOf(ctx)
	b.mu.Lock()
	c.refs--
	last := c.refs <= 0
	b.mu.Unlock()
	if !last {
		return
	}

	for i := len(c.order) - 1; i >= 0; i-- {
		o := c.order[i]
		info := c.info[o]
		if info.private != 0 && info.hooks&native.HookFinalize != 0 {
			native.ClassFinalize(uintptr(info.private), c.objects[o])
		}
	}

	b.mu.Lock()
	for _, p := range c.values {
		delete(b.objects, p)
	}
	delete(b.objects, ctx)
	c.values = nil
	c.objects = nil
	c.info = nil
	c.order = nil
	b.mu.Unlock()
	b.ContextGroupRelease(c.group)
	b.record("GlobalContextRelease")
}

func (b *Backend) GlobalContextCopyName(ctx ffi.Ptr) ffi.Ptr {
	c := b.ctxOf(ctx)
	if c.name == nil {
		return 0
	}
	return b.newJSString(append([]uint16(nil), c.name...))
}

func (b *Backend) GlobalContextSetName(ctx, name ffi.Ptr) {
	c := b.ctxOf(ctx)
	if name == 0 {
		c.name = nil
		return
	}
	c.name = b.StringCharacters(name)
}

func (b *Backend) GlobalContextIsInspectable(ctx ffi.Ptr) bool { return b.ctxOf(ctx).inspectable }

func (b *Backend) GlobalContextSetInspectable(ctx ffi.Ptr, inspectable bool) {
	b.ctxOf(ctx).inspectable = inspectable
}

func (b *Backend) ContextGetGlobalObject(ctx ffi.Ptr) ffi.Ptr  { return b.ctxOf(ctx).global }
func (b *Backend) ContextGetGroup(ctx ffi.Ptr) ffi.Ptr         { return b.ctxOf(ctx).group }
func (b *Backend) ContextGetGlobalContext(ctx ffi.Ptr) ffi.Ptr { return b.ctxOf(ctx).self }

// Scripts

func (b *Backend) EvaluateScript(ctx, script, this, sourceURL ffi.Ptr, line int32) (ffi.Ptr, ffi.Ptr) {
	c := b.ctxOf(ctx)
	src := b.StringUTF8(script)
	if line > 1 {
		src = strings.Repeat("\n", int(line-1)) + src
	}
	name := ""
	if sourceURL != 0 {
		name = b.StringUTF8(sourceURL)
	}
	var (
		res goja.Value
		err error
	)
	if this == 0 {
		res, err = c.rt.RunScript(name, src)
	} else {
		res, err = b.helper(c, "eval")(b.value(this), c.rt.ToValue(src))
	}
	if err != nil {
		return 0, b.errorValue(c, err)
	}
	return b.wrap(c, res), 0
}

func (b *Backend) CheckScriptSyntax(ctx, script, sourceURL ffi.Ptr, line int32) (bool, ffi.Ptr) {
	c := b.ctxOf(ctx)
	name := ""
	if sourceURL != 0 {
		name = b.StringUTF8(sourceURL)
	}
	src := b.StringUTF8(script)

	var (
		msg string
		pos file.Position
	)
	if _, err := parser.ParseFile(nil, name, src, 0); err != nil {
		var list parser.ErrorList
		if !errors.As(err, &list) || len(list) == 0 {
			return false, b.errorValue(c, err)
		}
		msg, pos = list[0].Message, list[0].Position
	} else if _, err := goja.Compile(name, src, false); err != nil {
		var se *goja.CompilerSyntaxError
		if !errors.As(err, &se) {
			return false, b.errorValue(c, err)
		}
		msg = se.Message
		if se.File != nil {
			pos = se.File.Position(se.Offset)
		}
	} else {
		return true, 0
	}

	var exc ffi.Ptr
	if thrown := b.try(c, func() {
		o, err := c.rt.New(c.rt.Get("SyntaxError"), c.rt.ToValue(msg))
		if err != nil {
			panic(err)
		}
		if pos.Line > 0 {
			_ = o.Set("line", pos.Line+int(max(line, 1))-1)
			_ = o.Set("column", pos.Column)
		}
		_ = o.Set("sourceURL", name)
		exc = b.wrap(c, o)
	}); thrown != 0 {
		return false, thrown
	}
	return false, exc
}

func (b *Backend) GarbageCollect(ctx ffi.Ptr) {
	b.record("GarbageCollect")
}

// Values

func (b *Backend) ValueGetType(ctx, v ffi.Ptr) native.JSType {
	val := b.value(v)
	switch val.(type) {
	case *goja.Object:
		return native.TypeObject
	case *goja.Symbol:
		return native.TypeSymbol
	}
	switch {
	case goja.IsUndefined(val):
		return native.TypeUndefined
	case goja.IsNull(val):
		return native.TypeNull
	}
	switch val.Export().(type) {
	case bool:
		return native.TypeBoolean
	case string:
		return native.TypeString
	}
	return native.TypeNumber
}

func (b *Backend) ValueIsArray(ctx, v ffi.Ptr) bool {
	o, ok := b.obj(v)
	return ok && o.ClassName() == "Array"
}

func (b *Backend) ValueIsDate(ctx, v ffi.Ptr) bool {
	o, ok := b.obj(v)
	return ok && o.ClassName() == "Date"
}

func (b *Backend) ValueIsObjectOfClass(ctx, v, class ffi.Ptr) bool {
	o, ok := b.obj(v)
	if !ok {
		return false
	}
	c := b.ctxOf(ctx)
	b.mu.Lock()
	info := c.info[o]
	b.mu.Unlock()
	if info == nil {
		return false
	}
	for cl := info.class; cl != 0; {
		if cl == class {
			return true
		}
		jc, ok := lookup[*jsClass](b, cl)
		if !ok {
			break
		}
		cl = jc.def.Parent
	}
	return false
}

func (b *Backend) ValueGetTypedArrayType(ctx, v ffi.Ptr) (int32, ffi.Ptr) {
	c := b.ctxOf(ctx)
	o, ok := b.obj(v)
	if !ok {
		return typedNone, 0
	}
	if _, ok := o.Export().(goja.ArrayBuffer); ok {
		return typedArrayBuffer, 0
	}
	for _, t := range typedArrayNames {
		ctor, ok := c.rt.Get(t.name).(*goja.Object)
		if ok && c.rt.InstanceOf(o, ctor) {
			return t.kind, 0
		}
	}
	return typedNone, 0
}

func (b *Backend) MakeUndefined(ctx ffi.Ptr) ffi.Ptr { return b.wrap(b.ctxOf(ctx), goja.Undefined()) }
func (b *Backend) MakeNull(ctx ffi.Ptr) ffi.Ptr      { return b.wrap(b.ctxOf(ctx), goja.Null()) }

func (b *Backend) MakeBoolean(ctx ffi.Ptr, v bool) ffi.Ptr {
	c := b.ctxOf(ctx)
	return b.wrap(c, c.rt.ToValue(v))
}

func (b *Backend) MakeNumber(ctx ffi.Ptr, n float64) ffi.Ptr {
	c := b.ctxOf(ctx)
	return b.wrap(c, c.rt.ToValue(n))
}

func (b *Backend) MakeString(ctx, s ffi.Ptr) ffi.Ptr {
	return b.wrap(b.ctxOf(ctx), b.jsText(s))
}

func (b *Backend) MakeSymbol(ctx, description ffi.Ptr) ffi.Ptr {
	desc := ""
	if description != 0 {
		desc = b.StringUTF8(description)
	}
	return b.wrap(b.ctxOf(ctx), goja.NewSymbol(desc))
}

func (b *Backend) MakeFromJSONString(ctx, s ffi.Ptr) ffi.Ptr {
	c := b.ctxOf(ctx)
	var res goja.Value
	if exc := b.try(c, func() {
		var err error
		res, err = b.helper(c, "parse")(goja.Undefined(), b.jsText(s))
		if err != nil {
			panic(err)
		}
	}); exc != 0 {
		return 0
	}
	return b.wrap(c, res)
}

func (b *Backend) ValueCreateJSONString(ctx, v ffi.Ptr, indent uint32) (ffi.Ptr, ffi.Ptr) {
	c := b.ctxOf(ctx)
	res, err := b.helper(c, "stringify")(goja.Undefined(), b.value(v), c.rt.ToValue(indent))
	if err != nil {
		return 0, b.errorValue(c, err)
	}
	if goja.IsUndefined(res) {
		return 0, 0
	}
	return b.newJSString(stringChars(res)), 0
}

func (b *Backend) ValueIsEqual(ctx, x, y ffi.Ptr) (bool, ffi.Ptr) {
	c := b.ctxOf(ctx)
	var eq bool
	exc := b.try(c, func() { eq = b.value(x).Equals(b.value(y)) })
	return eq, exc
}

func (b *Backend) ValueIsStrictEqual(ctx, x, y ffi.Ptr) bool {
	return b.value(x).StrictEquals(b.value(y))
}

func (b *Backend) ValueIsInstanceOfConstructor(ctx, v, ctor ffi.Ptr) (bool, ffi.Ptr) {
	c := b.ctxOf(ctx)
	co, ok := b.obj(ctor)
	if !ok {
		return false, b.typeError(c, "right-hand side of instanceof is not an object")
	}
	var res bool
	exc := b.try(c, func() { res = c.rt.InstanceOf(b.value(v), co) })
	return res, exc
}

func (b *Backend) ValueToBoolean(ctx, v ffi.Ptr) bool { return b.value(v).ToBoolean() }

func (b *Backend) ValueToNumber(ctx, v ffi.Ptr) (float64, ffi.Ptr) {
	c := b.ctxOf(ctx)
	var n float64
	if exc := b.try(c, func() { n = b.value(v).ToFloat() }); exc != 0 {
		return math.NaN(), exc
	}
	return n, 0
}

func (b *Backend) ValueToStringCopy(ctx, v ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	c := b.ctxOf(ctx)
	var s goja.Value
	if exc := b.try(c, func() { s = b.value(v).ToString() }); exc != 0 {
		return 0, exc
	}
	return b.newJSString(stringChars(s)), 0
}

func (b *Backend) ValueToObject(ctx, v ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	c := b.ctxOf(ctx)
	var o *goja.Object
	if exc := b.try(c, func() { o = b.value(v).ToObject(c.rt) }); exc != 0 {
		return 0, exc
	}
	return b.wrap(c, o), 0
}

func (b *Backend) ValueProtect(ctx, v ffi.Ptr) {
	if jv, ok := lookup[*jsValue](b, v); ok {
		b.mu.Lock()
		jv.protect++
		b.mu.Unlock()
	}
}

func (b *Backend) ValueUnprotect(ctx, v ffi.Ptr) {
	if jv, ok := lookup[*jsValue](b, v); ok {
		b.mu.Lock()
		jv.protect--
		b.mu.Unlock()
	}
}

// Protected reports the protect count of a value.
func (b *Backend) Protected(v ffi.Ptr) int {
	jv, ok := lookup[*jsValue](b, v)
	if !ok {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return jv.protect
}

// Classes

func (b *Backend) ClassCreate(def *native.ClassDefinition) ffi.Ptr {
	b.record("ClassCreate", def.Name)
	return b.insert(&jsClass{def: *def, refs: 1})
}

func (b *Backend) ClassRetain(class ffi.Ptr) ffi.Ptr {
	jc := get[*jsClass](b, class)
	b.mu.Lock()
	jc.refs++
	b.mu.Unlock()
	return class
}

func (b *Backend) ClassRelease(class ffi.Ptr) {
	jc := get[*jsClass](b, class)
	b.mu.Lock()
	defer b.mu.Unlock()
	jc.refs--
	if jc.refs <= 0 {
		delete(b.objects, class)
	}
}

// Objects

const propertyHooks = native.HookHasProperty | native.HookGetProperty | native.HookSetProperty |
	native.HookDeleteProperty | native.HookGetPropertyNames

func (b *Backend) ObjectMake(ctx, class, data ffi.Ptr) ffi.Ptr {
	c := b.ctxOf(ctx)
	if class == 0 {
		return b.wrap(c, c.rt.NewObject())
	}
	cls := get[*jsClass](b, class)
	info := &objInfo{class: class, private: data, hooks: cls.def.Hooks}

	var self ffi.Ptr
	var o *goja.Object
	switch {
	case info.hooks&native.HookCallAsConstructor != 0:
		o = c.rt.ToValue(func(call goja.ConstructorCall) *goja.Object {
			var exc ffi.Ptr
			r := native.ClassCallAsConstructor(uintptr(info.private), c.self, self, b.wrapAll(c, call.Arguments), &exc)
			b.throw(exc)
			if ro, ok := b.obj(r); ok && r != 0 {
				return ro
			}
			return call.This
		}).(*goja.Object)
	case info.hooks&native.HookCallAsFunction != 0:
		o = c.rt.ToValue(func(call goja.FunctionCall) goja.Value {
			var exc ffi.Ptr
			r := native.ClassCallAsFunction(uintptr(info.private), c.self, self, b.wrap(c, call.This), b.wrapAll(c, call.Arguments), &exc)
			b.throw(exc)
			return b.value(r)
		}).(*goja.Object)
	case info.hooks&propertyHooks != 0:
		d := &dynamicObject{b: b, c: c, info: info, props: map[string]goja.Value{}}
		o = c.rt.NewDynamicObject(d)
		defer func() { d.self = self }()
	default:
		o = c.rt.NewObject()
	}
	self = b.wrap(c, o)

	if info.hooks&native.HookHasInstance != 0 {
		_ = o.DefineDataPropertySymbol(goja.SymHasInstance, c.rt.ToValue(func(call goja.FunctionCall) goja.Value {
			var exc ffi.Ptr
			ok := native.ClassHasInstance(uintptr(info.private), c.self, self, b.wrap(c, call.Argument(0)), &exc)
			b.throw(exc)
			return c.rt.ToValue(ok)
		}), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE)
	}

	b.mu.Lock()
	c.info[o] = info
	c.order = append(c.order, o)
	b.mu.Unlock()

	if info.hooks&native.HookInitialize != 0 {
		native.ClassInitialize(uintptr(data), c.self, self)
	}
	return self
}

func (b *Backend) ObjectMakeArray(ctx ffi.Ptr, items []ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	c := b.ctxOf(ctx)
	vals := make([]any, len(items))
	for i, p := range items {
		vals[i] = b.value(p)
	}
	return b.wrap(c, c.rt.NewArray(vals...)), 0
}

func (b *Backend) ObjectMakeError(ctx ffi.Ptr, args []ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	c := b.ctxOf(ctx)
	ctor, _ := c.rt.Get("Error").(*goja.Object)
	o, err := c.rt.New(ctor, b.values(args)...)
	if err != nil {
		return 0, b.errorValue(c, err)
	}
	return b.wrap(c, o), 0
}

func (b *Backend) ObjectGetPrototype(ctx, obj ffi.Ptr) ffi.Ptr {
	c := b.ctxOf(ctx)
	o, ok := b.obj(obj)
	if !ok {
		return b.MakeNull(ctx)
	}
	proto := o.Prototype()
	if proto == nil {
		return b.MakeNull(ctx)
	}
	return b.wrap(c, proto)
}

func (b *Backend) ObjectSetPrototype(ctx, obj, proto ffi.Ptr) {
	o, ok := b.obj(obj)
	if !ok {
		return
	}
	p, _ := b.obj(proto)
	_ = o.SetPrototype(p)
}

func (b *Backend) ObjectHasProperty(ctx, obj, name ffi.Ptr) bool {
	c := b.ctxOf(ctx)
	res, err := b.helper(c, "in")(goja.Undefined(), b.value(obj), b.jsText(name))
	return err == nil && res.ToBoolean()
}

func (b *Backend) ObjectGetProperty(ctx, obj, name ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	c := b.ctxOf(ctx)
	o, ok := b.obj(obj)
	if !ok {
		return b.MakeUndefined(ctx), b.typeError(c, "not an object")
	}
	var v goja.Value
	if exc := b.try(c, func() { v = o.Get(b.key(name)) }); exc != 0 {
		return b.MakeUndefined(ctx), exc
	}
	return b.wrap(c, v), 0
}

func flag(b bool) goja.Flag {
	if b {
		return goja.FLAG_TRUE
	}
	return goja.FLAG_FALSE
}

// Property attribute bits.
const (
	attrReadOnly   = 1 << 1
	attrDontEnum   = 1 << 2
	attrDontDelete = 1 << 3
)

func (b *Backend) ObjectSetProperty(ctx, obj, name, value ffi.Ptr, attributes uint32) ffi.Ptr {
	c := b.ctxOf(ctx)
	o, ok := b.obj(obj)
	if !ok {
		return b.typeError(c, "not an object")
	}
	k, v := b.key(name), b.value(value)
	var err error
	if attributes == 0 {
		err = o.Set(k, v)
	} else {
		err = o.DefineDataProperty(k, v,
			flag(attributes&attrReadOnly == 0),
			flag(attributes&attrDontDelete == 0),
			flag(attributes&attrDontEnum == 0))
	}
	if err != nil {
		return b.errorValue(c, err)
	}
	return 0
}

func (b *Backend) ObjectDeleteProperty(ctx, obj, name ffi.Ptr) (bool, ffi.Ptr) {
	c := b.ctxOf(ctx)
	res, err := b.helper(c, "delete")(goja.Undefined(), b.value(obj), b.jsText(name))
	if err != nil {
		return false, b.errorValue(c, err)
	}
	return res.ToBoolean(), 0
}

func (b *Backend) ObjectGetPropertyAtIndex(ctx, obj ffi.Ptr, index uint32) (ffi.Ptr, ffi.Ptr) {
	c := b.ctxOf(ctx)
	o, ok := b.obj(obj)
	if !ok {
		return b.MakeUndefined(ctx), b.typeError(c, "not an object")
	}
	var v goja.Value
	if exc := b.try(c, func() { v = o.Get(strconv.FormatUint(uint64(index), 10)) }); exc != 0 {
		return b.MakeUndefined(ctx), exc
	}
	return b.wrap(c, v), 0
}

func (b *Backend) ObjectSetPropertyAtIndex(ctx, obj ffi.Ptr, index uint32, value ffi.Ptr) ffi.Ptr {
	c := b.ctxOf(ctx)
	o, ok := b.obj(obj)
	if !ok {
		return b.typeError(c, "not an object")
	}
	if err := o.Set(strconv.FormatUint(uint64(index), 10), b.value(value)); err != nil {
		return b.errorValue(c, err)
	}
	return 0
}

func (b *Backend) ObjectCopyPropertyNames(ctx, obj ffi.Ptr) []ffi.Ptr {
	c := b.ctxOf(ctx)
	res, err := b.helper(c, "keys")(goja.Undefined(), b.value(obj))
	if err != nil {
		return nil
	}
	arr, ok := res.(*goja.Object)
	if !ok {
		return nil
	}
	n := int(arr.Get("length").ToInteger())
	names := make([]ffi.Ptr, 0, n)
	for i := 0; i < n; i++ {
		names = append(names, b.newJSString(stringChars(arr.Get(strconv.Itoa(i)))))
	}
	return names
}

func (b *Backend) ObjectIsFunction(ctx, obj ffi.Ptr) bool {
	_, ok := goja.AssertFunction(b.value(obj))
	return ok
}

func (b *Backend) ObjectCallAsFunction(ctx, obj, this ffi.Ptr, args []ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	c := b.ctxOf(ctx)
	fn, ok := goja.AssertFunction(b.value(obj))
	if !ok {
		return 0, b.typeError(c, "object is not a function")
	}
	res, err := fn(b.value(this), b.values(args)...)
	if err != nil {
		return 0, b.errorValue(c, err)
	}
	return b.wrap(c, res), 0
}

func (b *Backend) ObjectIsConstructor(ctx, obj ffi.Ptr) bool {
	_, ok := goja.AssertConstructor(b.value(obj))
	return ok
}

func (b *Backend) ObjectCallAsConstructor(ctx, obj ffi.Ptr, args []ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	c := b.ctxOf(ctx)
	if !b.ObjectIsConstructor(ctx, obj) {
		return 0, b.typeError(c, "object is not a constructor")
	}
	o, err := c.rt.New(b.value(obj), b.values(args)...)
	if err != nil {
		return 0, b.errorValue(c, err)
	}
	return b.wrap(c, o), 0
}

func (b *Backend) infoOf(obj ffi.Ptr) *objInfo {
	jv, ok := lookup[*jsValue](b, obj)
	if !ok {
		return nil
	}
	o, ok := jv.v.(*goja.Object)
	if !ok {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return jv.ctx.info[o]
}

func (b *Backend) ObjectGetPrivate(obj ffi.Ptr) ffi.Ptr {
	if info := b.infoOf(obj); info != nil {
		return info.private
	}
	return 0
}

func (b *Backend) ObjectSetPrivate(obj, data ffi.Ptr) bool {
	info := b.infoOf(obj)
	if info == nil {
		return false
	}
	info.private = data
	return true
}

func (b *Backend) ObjectGetProxyTarget(obj ffi.Ptr) ffi.Ptr {
	jv, ok := lookup[*jsValue](b, obj)
	if !ok {
		return 0
	}
	o, ok := jv.v.(*goja.Object)
	if !ok {
		return 0
	}
	p, ok := o.Export().(goja.Proxy)
	if !ok || p.Target() == nil {
		return 0
	}
	return b.wrap(jv.ctx, p.Target())
}

func (b *Backend) ObjectGetGlobalContext(obj ffi.Ptr) ffi.Ptr {
	jv, ok := lookup[*jsValue](b, obj)
	if !ok || jv.ctx.global != obj {
		return 0
	}
	return jv.ctx.self
}

func (b *Backend) PropertyNameAccumulatorAddName(acc, name ffi.Ptr) {
	a := get[*nameAccumulator](b, acc)
	a.names = append(a.names, b.StringUTF8(name))
}

// dynamicObject routes property access of class instances through the
// class hooks, falling back to ordinary own properties.
type dynamicObject struct {
	b     *Backend
	c     *jsContext
	info  *objInfo
	self  ffi.Ptr
	props map[string]goja.Value
	keys  []string
}

func (d *dynamicObject) token() uintptr { return uintptr(d.info.private) }

func (d *dynamicObject) Get(key string) goja.Value {
	if d.info.hooks&native.HookGetProperty != 0 {
		name := d.b.StringCreateWithUTF8(key)
		defer d.b.StringRelease(name)
		var exc ffi.Ptr
		r := native.ClassGetProperty(d.token(), d.c.self, d.self, name, &exc)
		d.b.throw(exc)
		if r != 0 {
			return d.b.value(r)
		}
	}
	return d.props[key]
}

func (d *dynamicObject) Set(key string, val goja.Value) bool {
	if d.info.hooks&native.HookSetProperty != 0 {
		name := d.b.StringCreateWithUTF8(key)
		defer d.b.StringRelease(name)
		var exc ffi.Ptr
		handled := native.ClassSetProperty(d.token(), d.c.self, d.self, name, d.b.wrap(d.c, val), &exc)
		d.b.throw(exc)
		if handled {
			return true
		}
	}
	if _, ok := d.props[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.props[key] = val
	return true
}

func (d *dynamicObject) Has(key string) bool {
	if d.info.hooks&native.HookHasProperty != 0 {
		name := d.b.StringCreateWithUTF8(key)
		defer d.b.StringRelease(name)
		if native.ClassHasProperty(d.token(), d.c.self, d.self, name) {
			return true
		}
	} else if d.info.hooks&native.HookGetProperty != 0 && d.Get(key) != nil {
		return true
	}
	_, ok := d.props[key]
	return ok
}

func (d *dynamicObject) Delete(key string) bool {
	if d.info.hooks&native.HookDeleteProperty != 0 {
		name := d.b.StringCreateWithUTF8(key)
		defer d.b.StringRelease(name)
		var exc ffi.Ptr
		handled := native.ClassDeleteProperty(d.token(), d.c.self, d.self, name, &exc)
		d.b.throw(exc)
		if handled {
			return true
		}
	}
	if _, ok := d.props[key]; ok {
		delete(d.props, key)
		for i, k := range d.keys {
			if k == key {
				d.keys = append(d.keys[:i], d.keys[i+1:]...)
				break
			}
		}
	}
	return true
}

func (d *dynamicObject) Keys() []string {
	keys := append([]string(nil), d.keys...)
	if d.info.hooks&native.HookGetPropertyNames == 0 {
		return keys
	}
	acc := &nameAccumulator{}
	p := d.b.insert(acc)
	defer d.b.remove(p)
	native.ClassPropertyNames(d.token(), d.c.self, d.self, p)
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
	}
	for _, k := range acc.names {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

// Typed arrays

func (b *Backend) typedCtor(c *jsContext, kind int32) (*goja.Object, bool) {
	for _, t := range typedArrayNames {
		if t.kind == kind {
			ctor, ok := c.rt.Get(t.name).(*goja.Object)
			return ctor, ok
		}
	}
	return nil, false
}

func (b *Backend) ObjectMakeTypedArray(ctx ffi.Ptr, kind int32, length int) (ffi.Ptr, ffi.Ptr) {
	c := b.ctxOf(ctx)
	if kind == typedArrayBuffer {
		return b.wrap(c, c.rt.ToValue(c.rt.NewArrayBuffer(make([]byte, length)))), 0
	}
	ctor, ok := b.typedCtor(c, kind)
	if !ok {
		return 0, b.typeError(c, "unsupported typed array type")
	}
	o, err := c.rt.New(ctor, c.rt.ToValue(length))
	if err != nil {
		return 0, b.errorValue(c, err)
	}
	return b.wrap(c, o), 0
}

func (b *Backend) ObjectMakeTypedArrayWithBytes(ctx ffi.Ptr, kind int32, data []byte) (ffi.Ptr, ffi.Ptr) {
	c := b.ctxOf(ctx)
	buf := c.rt.ToValue(c.rt.NewArrayBuffer(append([]byte(nil), data...)))
	if kind == typedArrayBuffer {
		return b.wrap(c, buf), 0
	}
	ctor, ok := b.typedCtor(c, kind)
	if !ok {
		return 0, b.typeError(c, "unsupported typed array type")
	}
	o, err := c.rt.New(ctor, buf)
	if err != nil {
		return 0, b.errorValue(c, err)
	}
	return b.wrap(c, o), 0
}

func (b *Backend) ObjectMakeTypedArrayWithArrayBuffer(ctx ffi.Ptr, kind int32, buffer ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	c := b.ctxOf(ctx)
	ctor, ok := b.typedCtor(c, kind)
	if !ok {
		return 0, b.typeError(c, "unsupported typed array type")
	}
	o, err := c.rt.New(ctor, b.value(buffer))
	if err != nil {
		return 0, b.errorValue(c, err)
	}
	return b.wrap(c, o), 0
}

// typedView returns the backing bytes of a typed array or array buffer.
func (b *Backend) typedView(ctx, obj ffi.Ptr) ([]byte, ffi.Ptr) {
	c := b.ctxOf(ctx)
	o, ok := b.obj(obj)
	if !ok {
		return nil, b.typeError(c, "not an object")
	}
	if ab, ok := o.Export().(goja.ArrayBuffer); ok {
		return ab.Bytes(), 0
	}
	kind, _ := b.ValueGetTypedArrayType(ctx, obj)
	if kind == typedNone {
		return nil, b.typeError(c, "not a typed array")
	}
	ab, ok := o.Get("buffer").Export().(goja.ArrayBuffer)
	if !ok {
		return nil, b.typeError(c, "typed array has no buffer")
	}
	off := int(o.Get("byteOffset").ToInteger())
	n := int(o.Get("byteLength").ToInteger())
	return ab.Bytes()[off : off+n], 0
}

func bytesPtr(p []byte) unsafe.Pointer {
	if len(p) == 0 {
		return nil
	}
	return unsafe.Pointer(&p[0])
}

func (b *Backend) ObjectGetTypedArrayBytesPtr(ctx, obj ffi.Ptr) (unsafe.Pointer, ffi.Ptr) {
	p, exc := b.typedView(ctx, obj)
	return bytesPtr(p), exc
}

func (b *Backend) typedProp(ctx, obj ffi.Ptr, prop string) (goja.Value, ffi.Ptr) {
	c := b.ctxOf(ctx)
	kind, _ := b.ValueGetTypedArrayType(ctx, obj)
	if kind == typedNone || kind == typedArrayBuffer {
		return nil, b.typeError(c, "not a typed array")
	}
	o, _ := b.obj(obj)
	return o.Get(prop), 0
}

func (b *Backend) ObjectGetTypedArrayLength(ctx, obj ffi.Ptr) (int, ffi.Ptr) {
	v, exc := b.typedProp(ctx, obj, "length")
	if exc != 0 {
		return 0, exc
	}
	return int(v.ToInteger()), 0
}

func (b *Backend) ObjectGetTypedArrayByteLength(ctx, obj ffi.Ptr) (int, ffi.Ptr) {
	v, exc := b.typedProp(ctx, obj, "byteLength")
	if exc != 0 {
		return 0, exc
	}
	return int(v.ToInteger()), 0
}

func (b *Backend) ObjectGetTypedArrayByteOffset(ctx, obj ffi.Ptr) (int, ffi.Ptr) {
	v, exc := b.typedProp(ctx, obj, "byteOffset")
	if exc != 0 {
		return 0, exc
	}
	return int(v.ToInteger()), 0
}

func (b *Backend) ObjectGetTypedArrayBuffer(ctx, obj ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	v, exc := b.typedProp(ctx, obj, "buffer")
	if exc != 0 {
		return 0, exc
	}
	return b.wrap(b.ctxOf(ctx), v), 0
}

func (b *Backend) ObjectMakeArrayBufferWithBytes(ctx ffi.Ptr, data []byte) (ffi.Ptr, ffi.Ptr) {
	c := b.ctxOf(ctx)
	return b.wrap(c, c.rt.ToValue(c.rt.NewArrayBuffer(append([]byte(nil), data...)))), 0
}

func (b *Backend) arrayBuffer(ctx, obj ffi.Ptr) (goja.ArrayBuffer, ffi.Ptr) {
	c := b.ctxOf(ctx)
	o, ok := b.obj(obj)
	if ok {
		if ab, ok := o.Export().(goja.ArrayBuffer); ok {
			return ab, 0
		}
	}
	return goja.ArrayBuffer{}, b.typeError(c, "not an ArrayBuffer")
}

func (b *Backend) ObjectGetArrayBufferBytesPtr(ctx, obj ffi.Ptr) (unsafe.Pointer, ffi.Ptr) {
	ab, exc := b.arrayBuffer(ctx, obj)
	if exc != 0 {
		return nil, exc
	}
	return bytesPtr(ab.Bytes()), 0
}

func (b *Backend) ObjectGetArrayBufferByteLength(ctx, obj ffi.Ptr) (int, ffi.Ptr) {
	ab, exc := b.arrayBuffer(ctx, obj)
	if exc != 0 {
		return 0, exc
	}
	return len(ab.Bytes()), 0
}
