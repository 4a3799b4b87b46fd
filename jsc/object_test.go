package jsc

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/19h/ul2/ffi"
)

func TestObjectProperties(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	o := NewObject(ctx)
	assert.False(t, o.HasProperty("a"))
	require.NoError(t, o.SetProperty("a", Number(ctx, 1), PropertyNone))
	require.NoError(t, o.SetProperty("b", Number(ctx, 2), PropertyDontEnum))
	assert.True(t, o.HasProperty("a"))
	assert.True(t, o.HasProperty("b"))

	assert.Equal(t, []string{"a"}, o.PropertyNames(), "DontEnum hides b")

	v, err := o.Property("missing")
	require.NoError(t, err)
	assert.True(t, v.IsUndefined())

	deleted, err := o.DeleteProperty("a")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, o.HasProperty("a"))

	_, err = o.Property("x\x00y")
	assert.True(t, errors.Is(err, ffi.ErrInvalidArgument))
	assert.False(t, o.HasProperty("x\x00y"))
}

func TestReadOnlyProperty(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	global := ctx.GlobalObject()
	require.NoError(t, global.SetProperty("fixed", Number(ctx, 1), PropertyReadOnly|PropertyDontDelete))

	n, _ := eval(t, ctx, "fixed = 5; fixed").ToNumber()
	assert.Equal(t, 1.0, n)

	deleted, err := global.DeleteProperty("fixed")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestArrayAndIndexes(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	arr, err := NewArray(ctx, Number(ctx, 10), Number(ctx, 20))
	require.NoError(t, err)
	assert.True(t, arr.IsArray())

	require.NoError(t, arr.SetPropertyAtIndex(2, Number(ctx, 30)))
	v, err := arr.PropertyAtIndex(2)
	require.NoError(t, err)
	n, _ := v.ToNumber()
	assert.Equal(t, 30.0, n)

	length, err := arr.Property("length")
	require.NoError(t, err)
	n, _ = length.ToNumber()
	assert.Equal(t, 3.0, n)

	names := arr.PropertyNames()
	sort.Strings(names)
	assert.Equal(t, []string{"0", "1", "2"}, names)
}

func TestNewError(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	e, err := NewError(ctx, "bad thing")
	require.NoError(t, err)
	msg, err := e.Property("message")
	require.NoError(t, err)
	s, _ := msg.ToString()
	assert.Equal(t, "bad thing", s)
}

func TestPrototype(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	proto := NewObject(ctx)
	require.NoError(t, proto.SetProperty("inherited", Boolean(ctx, true), PropertyNone))
	o := NewObject(ctx)
	o.SetPrototype(proto.Value)

	assert.True(t, o.Prototype().StrictEqual(proto.Value))
	v, err := o.Property("inherited")
	require.NoError(t, err)
	assert.True(t, v.ToBoolean())

	o.SetPrototype(Null(ctx))
	assert.True(t, o.Prototype().IsNull())
}

func TestCallAndConstruct(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	fn, ok := eval(t, ctx, "(function (a, b) { return a * b; })").AsObject()
	require.True(t, ok)
	assert.True(t, fn.IsFunction())

	res, err := fn.Call(Value{}, Number(ctx, 6), Number(ctx, 7))
	require.NoError(t, err)
	n, _ := res.ToNumber()
	assert.Equal(t, 42.0, n)

	ctor, ok := eval(t, ctx, "(function Box(v) { this.v = v; })").AsObject()
	require.True(t, ok)
	assert.True(t, ctor.IsConstructor())
	inst, err := ctor.Construct(Number(ctx, 9))
	require.NoError(t, err)
	v, err := inst.Property("v")
	require.NoError(t, err)
	n, _ = v.ToNumber()
	assert.Equal(t, 9.0, n)

	plain := NewObject(ctx)
	_, err = plain.Call(Value{})
	assert.True(t, errors.Is(err, ffi.ErrInvalidOperation))
	_, err = plain.Construct()
	assert.True(t, errors.Is(err, ffi.ErrInvalidOperation))

	thrower, _ := eval(t, ctx, "(function () { throw new TypeError('t') })").AsObject()
	_, err = thrower.Call(Value{})
	assert.True(t, errors.Is(err, ffi.ErrLanguageException))
}

func TestNullSafeAccessors(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	plain := NewObject(ctx)

	data, ok := plain.PrivateData()
	assert.False(t, ok)
	assert.Nil(t, data)
	assert.False(t, plain.SetPrivateData("x"), "plain objects cannot hold private data")

	_, ok = plain.ProxyTarget()
	assert.False(t, ok)

	assert.Nil(t, plain.GlobalContext())
}

func TestProxyTarget(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	proxy, ok := eval(t, ctx, "var target = { a: 1 }; new Proxy(target, {})").AsObject()
	require.True(t, ok)

	target, ok := proxy.ProxyTarget()
	require.True(t, ok)
	assert.True(t, target.StrictEqual(eval(t, ctx, "target")))
}

func TestGlobalObjectGlobalContext(t *testing.T) {
	_, gc := newGlobal(t)

	view := gc.Context().GlobalObject().GlobalContext()
	require.NotNil(t, view)
	assert.Equal(t, gc.Raw(), view.Raw())
}
