package jsc

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native/soft"
)

type counter struct{ n int }

func TestClassInstanceData(t *testing.T) {
	b := soft.Install(t)
	base := ffi.LiveCallbacks()

	var finalized []any
	cls, err := NewClass(ClassDefinition{
		Name:     "Counter",
		Finalize: func(data any) { finalized = append(finalized, data) },
	})
	require.NoError(t, err)
	defer cls.Close()
	assert.Equal(t, []string{"ClassCreate"}, b.CallNames("ClassCreate"))

	gc, err := NewGlobalContext(nil)
	require.NoError(t, err)
	ctx := gc.Context()

	c := &counter{n: 1}
	obj, err := cls.NewObject(ctx, c)
	require.NoError(t, err)
	assert.True(t, obj.IsObjectOfClass(cls))
	assert.False(t, NewObject(ctx).IsObjectOfClass(cls))

	data, ok := obj.PrivateData()
	require.True(t, ok)
	assert.Same(t, c, data)

	replacement := &counter{n: 2}
	assert.True(t, obj.SetPrivateData(replacement))
	data, _ = obj.PrivateData()
	assert.Same(t, replacement, data)
	assert.Equal(t, base+1, ffi.LiveCallbacks())

	require.NoError(t, gc.Close())
	assert.Equal(t, []any{replacement}, finalized)
	assert.Equal(t, base, ffi.LiveCallbacks(), "finalize releases the instance registration")
}

func TestClassPropertyHooks(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	store := map[string]float64{}
	cls, err := NewClass(ClassDefinition{
		Name: "Store",
		HasProperty: func(ctx *Context, obj Object, name string) bool {
			_, ok := store[name]
			return ok
		},
		GetProperty: func(ctx *Context, obj Object, name string) (Value, error) {
			if name == "boom" {
				return Value{}, fmt.Errorf("cannot read %s", name)
			}
			if v, ok := store[name]; ok {
				return Number(ctx, v), nil
			}
			return Value{}, nil
		},
		SetProperty: func(ctx *Context, obj Object, name string, value Value) (bool, error) {
			if name == "passthrough" {
				return false, nil
			}
			n, err := value.ToNumber()
			if err != nil {
				return false, err
			}
			store[name] = n
			return true, nil
		},
		DeleteProperty: func(ctx *Context, obj Object, name string) (bool, error) {
			delete(store, name)
			return true, nil
		},
		PropertyNames: func(ctx *Context, obj Object) []string {
			names := make([]string, 0, len(store))
			for k := range store {
				names = append(names, k)
			}
			sort.Strings(names)
			return names
		},
	})
	require.NoError(t, err)
	defer cls.Close()

	obj, err := cls.NewObject(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, ctx.GlobalObject().SetProperty("store", obj.Value, PropertyNone))

	n, _ := eval(t, ctx, "store.x = 4; store.x * 2").ToNumber()
	assert.Equal(t, 8.0, n)
	assert.Equal(t, 4.0, store["x"])
	assert.True(t, eval(t, ctx, "'x' in store").ToBoolean())

	s, _ := eval(t, ctx, "store.passthrough = 'kept'; store.passthrough").ToString()
	assert.Equal(t, "kept", s)

	s, _ = eval(t, ctx, "try { store.boom; 'no' } catch (e) { e.message }").ToString()
	assert.Equal(t, "cannot read boom", s)

	assert.False(t, eval(t, ctx, "delete store.x; 'x' in store").ToBoolean())
	assert.NotContains(t, store, "x")
}

func TestClassCallHooks(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	cls, err := NewClass(ClassDefinition{
		Name: "Adder",
		CallAsFunction: func(ctx *Context, fn Object, this Value, args []Value) (Value, error) {
			sum := 0.0
			for _, a := range args {
				n, err := a.ToNumber()
				if err != nil {
					return Value{}, err
				}
				sum += n
			}
			return Number(ctx, sum), nil
		},
	})
	require.NoError(t, err)
	defer cls.Close()

	fn, err := cls.NewObject(ctx, nil)
	require.NoError(t, err)
	assert.True(t, fn.IsFunction())

	res, err := fn.Call(Value{}, Number(ctx, 1), Number(ctx, 2), Number(ctx, 3))
	require.NoError(t, err)
	n, _ := res.ToNumber()
	assert.Equal(t, 6.0, n)
}

func TestClassRethrowsException(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	cls, err := NewClass(ClassDefinition{
		Name: "Rethrow",
		CallAsFunction: func(ctx *Context, fn Object, this Value, args []Value) (Value, error) {
			return ctx.Evaluate("throw new RangeError('inner')")
		},
	})
	require.NoError(t, err)
	defer cls.Close()

	fn, err := cls.NewObject(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, ctx.GlobalObject().SetProperty("rethrow", fn.Value, PropertyNone))

	s, _ := eval(t, ctx, "try { rethrow(); 'no' } catch (e) { e.name + ':' + e.message }").ToString()
	assert.Equal(t, "RangeError:inner", s)
}

func TestClassInitialize(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	var seen []any
	cls, err := NewClass(ClassDefinition{
		Name: "Init",
		Initialize: func(ctx *Context, obj Object) {
			data, _ := obj.PrivateData()
			seen = append(seen, data)
		},
	})
	require.NoError(t, err)
	defer cls.Close()

	_, err = cls.NewObject(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, []any{"first"}, seen)
}

func TestClassParent(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	parent, err := NewClass(ClassDefinition{Name: "Base"})
	require.NoError(t, err)
	defer parent.Close()
	child, err := NewClass(ClassDefinition{Name: "Derived", Parent: parent})
	require.NoError(t, err)
	defer child.Close()

	obj, err := child.NewObject(ctx, nil)
	require.NoError(t, err)
	assert.True(t, obj.IsObjectOfClass(parent))
	assert.True(t, obj.IsObjectOfClass(child))
}

func TestClassValidation(t *testing.T) {
	soft.Install(t)

	_, err := NewClass(ClassDefinition{Name: "bad\x00name"})
	assert.True(t, errors.Is(err, ffi.ErrInvalidArgument))

	closed, err := NewClass(ClassDefinition{Name: "Closed"})
	require.NoError(t, err)
	require.NoError(t, closed.Close())
	_, err = NewClass(ClassDefinition{Name: "Orphan", Parent: closed})
	assert.True(t, errors.Is(err, ffi.ErrClosed))
}

func TestGlobalObjectClass(t *testing.T) {
	soft.Install(t)
	base := ffi.LiveCallbacks()

	var finalized []any
	cls, err := NewClass(ClassDefinition{
		Name:     "Global",
		Finalize: func(data any) { finalized = append(finalized, data) },
	})
	require.NoError(t, err)
	defer cls.Close()

	gc, err := NewGlobalContext(cls)
	require.NoError(t, err)
	global := gc.Context().GlobalObject()
	assert.True(t, global.IsObjectOfClass(cls))

	_, ok := global.PrivateData()
	assert.False(t, ok, "no data until set")
	assert.True(t, global.SetPrivateData("app state"))
	data, ok := global.PrivateData()
	require.True(t, ok)
	assert.Equal(t, "app state", data)

	require.NoError(t, gc.Close())
	assert.Equal(t, []any{"app state"}, finalized)
	assert.Equal(t, base, ffi.LiveCallbacks())
}

func TestNewFunction(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()
	base := ffi.LiveCallbacks()

	var calls int
	err := SetFunction(ctx.GlobalObject(), "add", func(ctx *Context, this Value, args []Value) (Value, error) {
		calls++
		a, _ := args[0].ToNumber()
		b, _ := args[1].ToNumber()
		return Number(ctx, a+b), nil
	})
	require.NoError(t, err)
	assert.Equal(t, base+1, ffi.LiveCallbacks())

	n, _ := eval(t, ctx, "add(2, 3)").ToNumber()
	assert.Equal(t, 5.0, n)
	assert.Equal(t, 1, calls)

	name, _ := eval(t, ctx, "add.name").ToString()
	assert.Equal(t, "add", name)

	require.NoError(t, SetFunction(ctx.GlobalObject(), "fail", func(ctx *Context, this Value, args []Value) (Value, error) {
		return Value{}, errors.New("went wrong")
	}))
	s, _ := eval(t, ctx, "try { fail() } catch (e) { e.message }").ToString()
	assert.Equal(t, "went wrong", s)

	require.NoError(t, SetFunction(ctx.GlobalObject(), "nothing", func(ctx *Context, this Value, args []Value) (Value, error) {
		return Value{}, nil
	}))
	assert.True(t, eval(t, ctx, "nothing()").IsUndefined())

	_, err = NewFunction(ctx, "nil", nil)
	assert.True(t, errors.Is(err, ffi.ErrInvalidArgument))
}

func TestNewFunctionReleasedWithContext(t *testing.T) {
	soft.Install(t)
	base := ffi.LiveCallbacks()

	gc, err := NewGlobalContext(nil)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := NewFunction(gc.Context(), "", func(*Context, Value, []Value) (Value, error) { return Value{}, nil })
		require.NoError(t, err)
	}
	assert.Equal(t, base+3, ffi.LiveCallbacks())

	require.NoError(t, gc.Close())
	assert.Equal(t, base, ffi.LiveCallbacks())
}
