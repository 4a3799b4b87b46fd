package jsc

import (
	"fmt"
	"sync"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// Function is a Go function callable from JavaScript. Returning a zero
// Value yields undefined.
type Function func(ctx *Context, this Value, args []Value) (Value, error)

// functionClasses caches the class behind NewFunction, one per backend.
var functionClasses sync.Map // native.JSC -> *Class

func functionClass(a native.JSC) (*Class, error) {
	if c, ok := functionClasses.Load(a); ok {
		return c.(*Class), nil
	}
	c, err := newClass(a, ClassDefinition{
		Name:           "GoFunction",
		CallAsFunction: callFunction,
	})
	if err != nil {
		return nil, err
	}
	actual, loaded := functionClasses.LoadOrStore(a, c)
	if loaded {
		c.Close()
	}
	return actual.(*Class), nil
}

func callFunction(ctx *Context, fn Object, this Value, args []Value) (Value, error) {
	data, ok := fn.PrivateData()
	if !ok {
		return Value{}, fmt.Errorf("%w: function was finalized", ffi.ErrInvalidOperation)
	}
	f, ok := data.(Function)
	if !ok {
		return Value{}, fmt.Errorf("%w: private data is %T", ffi.ErrInvalidOperation, data)
	}
	return f(ctx, this, args)
}

// NewFunction exposes fn to JavaScript as a callable object. The closure
// stays registered until the engine finalizes the object. A non-empty name
// is defined as the read-only name property.
func NewFunction(ctx *Context, name string, fn Function) (Object, error) {
	if fn == nil {
		return Object{}, fmt.Errorf("%w: nil function", ffi.ErrInvalidArgument)
	}
	cls, err := functionClass(ctx.api)
	if err != nil {
		return Object{}, err
	}
	obj, err := cls.NewObject(ctx, fn)
	if err != nil {
		return Object{}, err
	}
	if name != "" {
		v, err := StringValue(ctx, name)
		if err != nil {
			return Object{}, err
		}
		if err := obj.SetProperty("name", v, PropertyReadOnly|PropertyDontEnum); err != nil {
			return Object{}, err
		}
	}
	return obj, nil
}

// SetFunction defines a Go function as a property of obj.
func SetFunction(obj Object, name string, fn Function) error {
	f, err := NewFunction(obj.ctx, name, fn)
	if err != nil {
		return err
	}
	return obj.SetProperty(name, f.Value, PropertyNone)
}
