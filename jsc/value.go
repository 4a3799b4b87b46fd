package jsc

import (
	"fmt"
	"math"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// Type is the JavaScript type of a value.
type Type int32

const (
	TypeUndefined Type = Type(native.TypeUndefined)
	TypeNull      Type = Type(native.TypeNull)
	TypeBoolean   Type = Type(native.TypeBoolean)
	TypeNumber    Type = Type(native.TypeNumber)
	TypeString    Type = Type(native.TypeString)
	TypeObject    Type = Type(native.TypeObject)
	TypeSymbol    Type = Type(native.TypeSymbol)
)

var typeNames = [...]string{"undefined", "null", "boolean", "number", "string", "object", "symbol"}

// String returns the typeof-style name.
func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int32(t))
}

// Value is a JavaScript value owned by the engine. The zero Value is not a
// JavaScript value; it stands for "absent" in results and arguments.
type Value struct {
	ctx *Context
	raw ffi.Ptr
}

// Undefined returns the undefined value.
func Undefined(ctx *Context) Value { return ctx.value(ctx.api.MakeUndefined(ctx.ptr())) }

// Null returns the null value.
func Null(ctx *Context) Value { return ctx.value(ctx.api.MakeNull(ctx.ptr())) }

// Boolean returns a boolean value.
func Boolean(ctx *Context, b bool) Value { return ctx.value(ctx.api.MakeBoolean(ctx.ptr(), b)) }

// Number returns a number value.
func Number(ctx *Context, n float64) Value { return ctx.value(ctx.api.MakeNumber(ctx.ptr(), n)) }

// StringValue returns a string value.
func StringValue(ctx *Context, s string) (Value, error) {
	raw := ctx.ptr()
	str, release, err := tempString(ctx.api, "string value", s)
	if err != nil {
		return Value{}, err
	}
	defer release()
	return ctx.value(ctx.api.MakeString(raw, str)), nil
}

// StringValueOf returns a string value holding s.
func StringValueOf(ctx *Context, s *String) (Value, error) {
	str, err := s.h.Check()
	if err != nil {
		return Value{}, err
	}
	return ctx.value(ctx.api.MakeString(ctx.ptr(), str)), nil
}

// Symbol returns a new unique symbol.
func Symbol(ctx *Context, description string) (Value, error) {
	raw := ctx.ptr()
	desc, release, err := tempString(ctx.api, "symbol description", description)
	if err != nil {
		return Value{}, err
	}
	defer release()
	return ctx.value(ctx.api.MakeSymbol(raw, desc)), nil
}

// FromJSON parses a JSON document.
func FromJSON(ctx *Context, json string) (Value, error) {
	raw := ctx.ptr()
	s, release, err := tempString(ctx.api, "json", json)
	if err != nil {
		return Value{}, err
	}
	defer release()
	v := ctx.api.MakeFromJSONString(raw, s)
	if v.IsNull() {
		return Value{}, fmt.Errorf("%w: malformed JSON", ffi.ErrInvalidArgument)
	}
	return ctx.value(v), nil
}

// IsZero reports whether v holds no value.
func (v Value) IsZero() bool { return v.ctx == nil || v.raw.IsNull() }

// Context returns the context the value belongs to.
func (v Value) Context() *Context { return v.ctx }

// Raw returns the JSValueRef.
func (v Value) Raw() ffi.Ptr { return v.raw }

func (v Value) api() native.JSC { return v.ctx.api }

// Type returns the JavaScript type.
func (v Value) Type() Type {
	return Type(v.api().ValueGetType(v.ctx.ptr(), v.raw))
}

// IsUndefined reports whether v is undefined.
func (v Value) IsUndefined() bool { return v.Type() == TypeUndefined }
// IsNull reports whether v is null.
func (v Value) IsNull() bool      { return v.Type() == TypeNull }
// IsBoolean reports whether v is a boolean.
func (v Value) IsBoolean() bool   { return v.Type() == TypeBoolean }
// IsNumber reports whether v is a number.
func (v Value) IsNumber() bool    { return v.Type() == TypeNumber }
// IsString reports whether v is a string.
func (v Value) IsString() bool    { return v.Type() == TypeString }
// IsObject reports whether v is an object.
func (v Value) IsObject() bool    { return v.Type() == TypeObject }
// IsSymbol reports whether v is a symbol.
func (v Value) IsSymbol() bool    { return v.Type() == TypeSymbol }

// IsArray reports whether v is an Array.
func (v Value) IsArray() bool { return v.api().ValueIsArray(v.ctx.ptr(), v.raw) }

// IsDate reports whether v is a Date.
func (v Value) IsDate() bool { return v.api().ValueIsDate(v.ctx.ptr(), v.raw) }

// IsObjectOfClass reports whether v is an instance of class or one of its
// subclasses.
func (v Value) IsObjectOfClass(class *Class) bool {
	cls, ok := class.h.Live()
	return ok && v.api().ValueIsObjectOfClass(v.ctx.ptr(), v.raw, cls)
}

// TypedArrayType returns the kind of typed array v is, TypedArrayNone for
// anything else.
func (v Value) TypedArrayType() (TypedArrayType, error) {
	t, exc := v.api().ValueGetTypedArrayType(v.ctx.ptr(), v.raw)
	if !exc.IsNull() {
		return TypedArrayNone, newException(v.ctx, exc)
	}
	return TypedArrayType(t), nil
}

// ToJSON serializes v. Values JSON cannot represent, such as undefined or a
// function, yield "".
func (v Value) ToJSON(indent uint32) (string, error) {
	s, exc := v.api().ValueCreateJSONString(v.ctx.ptr(), v.raw, indent)
	if !exc.IsNull() {
		return "", newException(v.ctx, exc)
	}
	return takeString(v.api(), s), nil
}

// Equal is the loose == comparison. It may run user code and throw.
func (v Value) Equal(other Value) (bool, error) {
	eq, exc := v.api().ValueIsEqual(v.ctx.ptr(), v.raw, other.raw)
	if !exc.IsNull() {
		return false, newException(v.ctx, exc)
	}
	return eq, nil
}

// StrictEqual is the === comparison.
func (v Value) StrictEqual(other Value) bool {
	return v.api().ValueIsStrictEqual(v.ctx.ptr(), v.raw, other.raw)
}

// IsInstanceOf is the instanceof operator.
func (v Value) IsInstanceOf(ctor Object) (bool, error) {
	ok, exc := v.api().ValueIsInstanceOfConstructor(v.ctx.ptr(), v.raw, ctor.raw)
	if !exc.IsNull() {
		return false, newException(v.ctx, exc)
	}
	return ok, nil
}

// ToBoolean applies JavaScript truthiness.
func (v Value) ToBoolean() bool {
	return v.api().ValueToBoolean(v.ctx.ptr(), v.raw)
}

// ToNumber converts like the unary + operator. It returns NaN with the
// exception if the conversion throws.
func (v Value) ToNumber() (float64, error) {
	n, exc := v.api().ValueToNumber(v.ctx.ptr(), v.raw)
	if !exc.IsNull() {
		return math.NaN(), newException(v.ctx, exc)
	}
	return n, nil
}

// ToJSString converts to a string the caller must close.
func (v Value) ToJSString() (*String, error) {
	s, exc := v.api().ValueToStringCopy(v.ctx.ptr(), v.raw)
	if !exc.IsNull() {
		return nil, newException(v.ctx, exc)
	}
	return adoptString(v.api(), s)
}

// ToString converts like String(v).
func (v Value) ToString() (string, error) {
	s, exc := v.api().ValueToStringCopy(v.ctx.ptr(), v.raw)
	if !exc.IsNull() {
		return "", newException(v.ctx, exc)
	}
	return takeString(v.api(), s), nil
}

// ToObject converts like Object(v). It throws for undefined and null.
func (v Value) ToObject() (Object, error) {
	o, exc := v.api().ValueToObject(v.ctx.ptr(), v.raw)
	if !exc.IsNull() {
		return Object{}, newException(v.ctx, exc)
	}
	return v.ctx.object(o), nil
}

// AsObject returns v as an Object without conversion.
func (v Value) AsObject() (Object, bool) {
	if v.IsZero() || !v.IsObject() {
		return Object{}, false
	}
	return Object{v}, true
}

// Protect keeps v alive across garbage collections until a matching
// Unprotect.
func (v Value) Protect() { v.api().ValueProtect(v.ctx.ptr(), v.raw) }

// Unprotect undoes one Protect.
func (v Value) Unprotect() { v.api().ValueUnprotect(v.ctx.ptr(), v.raw) }
