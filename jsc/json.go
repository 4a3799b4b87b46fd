package jsc

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/19h/ul2/ffi"
)

// ValueOf converts a Go value to JavaScript by way of JSON.
func ValueOf(ctx *Context, v any) (Value, error) {
	data, err := sonic.MarshalString(v)
	if err != nil {
		return Value{}, fmt.Errorf("%w: encode %T: %v", ffi.ErrInvalidArgument, v, err)
	}
	return FromJSON(ctx, data)
}

// Decode stores the JSON form of v into out, which must be a pointer.
func (v Value) Decode(out any) error {
	s, err := v.ToJSON(0)
	if err != nil {
		return err
	}
	if s == "" {
		return fmt.Errorf("%w: %s has no JSON form", ffi.ErrInvalidArgument, v.Type())
	}
	if err := sonic.UnmarshalString(s, out); err != nil {
		return fmt.Errorf("%w: decode into %T: %v", ffi.ErrInvalidArgument, out, err)
	}
	return nil
}
