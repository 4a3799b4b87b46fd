package jsc

import (
	"fmt"
	"unsafe"

	"github.com/19h/ul2/ffi"
)

// TypedArrayType mirrors JSTypedArrayType.
type TypedArrayType int32

const (
	TypedArrayInt8 TypedArrayType = iota
	TypedArrayInt16
	TypedArrayInt32
	TypedArrayUint8
	TypedArrayUint8Clamped
	TypedArrayUint16
	TypedArrayUint32
	TypedArrayFloat32
	TypedArrayFloat64
	TypedArrayArrayBuffer
	TypedArrayNone
	TypedArrayBigInt64
	TypedArrayBigUint64
)

var typedArrayInfo = [...]struct {
	name string
	size int
}{
	{"Int8Array", 1}, {"Int16Array", 2}, {"Int32Array", 4}, {"Uint8Array", 1},
	{"Uint8ClampedArray", 1}, {"Uint16Array", 2}, {"Uint32Array", 4},
	{"Float32Array", 4}, {"Float64Array", 8}, {"ArrayBuffer", 1}, {"None", 0},
	{"BigInt64Array", 8}, {"BigUint64Array", 8},
}

func (t TypedArrayType) valid() bool { return t >= 0 && int(t) < len(typedArrayInfo) }

// String returns the JavaScript constructor name.
func (t TypedArrayType) String() string {
	if !t.valid() {
		return fmt.Sprintf("TypedArrayType(%d)", int32(t))
	}
	return typedArrayInfo[t].name
}

// ElementSize returns the size of one element in bytes, 0 for None.
func (t TypedArrayType) ElementSize() int {
	if !t.valid() {
		return 0
	}
	return typedArrayInfo[t].size
}

func (t TypedArrayType) isView() bool {
	return t.valid() && t != TypedArrayArrayBuffer && t != TypedArrayNone
}

// TypedArray is an object known to be a typed array.
type TypedArray struct {
	Object
	typ TypedArrayType
}

// NewTypedArray creates a zero-filled array of length elements.
func NewTypedArray(ctx *Context, typ TypedArrayType, length int) (TypedArray, error) {
	if !typ.isView() {
		return TypedArray{}, fmt.Errorf("%w: %s is not a typed array type", ffi.ErrInvalidArgument, typ)
	}
	o, exc := ctx.api.ObjectMakeTypedArray(ctx.ptr(), int32(typ), length)
	if !exc.IsNull() {
		return TypedArray{}, newException(ctx, exc)
	}
	return TypedArray{Object: ctx.object(o), typ: typ}, nil
}

// NewTypedArrayFromBytes creates an array over a copy of data. len(data)
// must be a multiple of the element size.
func NewTypedArrayFromBytes(ctx *Context, typ TypedArrayType, data []byte) (TypedArray, error) {
	if !typ.isView() {
		return TypedArray{}, fmt.Errorf("%w: %s is not a typed array type", ffi.ErrInvalidArgument, typ)
	}
	if len(data)%typ.ElementSize() != 0 {
		return TypedArray{}, fmt.Errorf("%w: %d bytes is not a whole number of %s elements", ffi.ErrInvalidArgument, len(data), typ)
	}
	o, exc := ctx.api.ObjectMakeTypedArrayWithBytes(ctx.ptr(), int32(typ), data)
	if !exc.IsNull() {
		return TypedArray{}, newException(ctx, exc)
	}
	return TypedArray{Object: ctx.object(o), typ: typ}, nil
}

// NewTypedArrayWithArrayBuffer creates an array viewing buf.
func NewTypedArrayWithArrayBuffer(typ TypedArrayType, buf ArrayBuffer) (TypedArray, error) {
	if !typ.isView() {
		return TypedArray{}, fmt.Errorf("%w: %s is not a typed array type", ffi.ErrInvalidArgument, typ)
	}
	ctx := buf.ctx
	o, exc := ctx.api.ObjectMakeTypedArrayWithArrayBuffer(ctx.ptr(), int32(typ), buf.raw)
	if !exc.IsNull() {
		return TypedArray{}, newException(ctx, exc)
	}
	return TypedArray{Object: ctx.object(o), typ: typ}, nil
}

// TypedArrayFromObject checks that o is a typed array.
func TypedArrayFromObject(o Object) (TypedArray, error) {
	typ, err := o.TypedArrayType()
	if err != nil {
		return TypedArray{}, err
	}
	if !typ.isView() {
		return TypedArray{}, fmt.Errorf("%w: object is not a typed array", ffi.ErrInvalidArgument)
	}
	return TypedArray{Object: o, typ: typ}, nil
}

// ArrayType returns the element type.
func (a TypedArray) ArrayType() TypedArrayType { return a.typ }

// Len returns the number of elements.
func (a TypedArray) Len() (int, error) {
	n, exc := a.api().ObjectGetTypedArrayLength(a.ctx.ptr(), a.raw)
	if !exc.IsNull() {
		return 0, newException(a.ctx, exc)
	}
	return n, nil
}

// ByteLength returns the size of the view in bytes.
func (a TypedArray) ByteLength() (int, error) {
	n, exc := a.api().ObjectGetTypedArrayByteLength(a.ctx.ptr(), a.raw)
	if !exc.IsNull() {
		return 0, newException(a.ctx, exc)
	}
	return n, nil
}

// ByteOffset returns the offset of the view into its buffer.
func (a TypedArray) ByteOffset() (int, error) {
	n, exc := a.api().ObjectGetTypedArrayByteOffset(a.ctx.ptr(), a.raw)
	if !exc.IsNull() {
		return 0, newException(a.ctx, exc)
	}
	return n, nil
}

// Buffer returns the array buffer behind the view.
func (a TypedArray) Buffer() (ArrayBuffer, error) {
	b, exc := a.api().ObjectGetTypedArrayBuffer(a.ctx.ptr(), a.raw)
	if !exc.IsNull() {
		return ArrayBuffer{}, newException(a.ctx, exc)
	}
	return ArrayBuffer{a.ctx.object(b)}, nil
}

// Bytes returns the engine's memory for the view without copying. The slice
// is only valid until the next call into the engine; use CopyBytes to keep
// the data.
func (a TypedArray) Bytes() ([]byte, error) {
	n, err := a.ByteLength()
	if err != nil || n == 0 {
		return nil, err
	}
	p, exc := a.api().ObjectGetTypedArrayBytesPtr(a.ctx.ptr(), a.raw)
	if !exc.IsNull() {
		return nil, newException(a.ctx, exc)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: typed array storage", ffi.ErrNullReference)
	}
	return unsafe.Slice((*byte)(p), n), nil
}

// CopyBytes returns a copy of the view's bytes.
func (a TypedArray) CopyBytes() ([]byte, error) {
	b, err := a.Bytes()
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

// ArrayBuffer is an object known to be an ArrayBuffer.
type ArrayBuffer struct {
	Object
}

// NewArrayBuffer creates a buffer holding a copy of data.
func NewArrayBuffer(ctx *Context, data []byte) (ArrayBuffer, error) {
	o, exc := ctx.api.ObjectMakeArrayBufferWithBytes(ctx.ptr(), data)
	if !exc.IsNull() {
		return ArrayBuffer{}, newException(ctx, exc)
	}
	return ArrayBuffer{ctx.object(o)}, nil
}

// ArrayBufferFromObject checks that o is an ArrayBuffer.
func ArrayBufferFromObject(o Object) (ArrayBuffer, error) {
	typ, err := o.TypedArrayType()
	if err != nil {
		return ArrayBuffer{}, err
	}
	if typ != TypedArrayArrayBuffer {
		return ArrayBuffer{}, fmt.Errorf("%w: object is not an ArrayBuffer", ffi.ErrInvalidArgument)
	}
	return ArrayBuffer{o}, nil
}

// ByteLength returns the buffer size.
func (b ArrayBuffer) ByteLength() (int, error) {
	n, exc := b.api().ObjectGetArrayBufferByteLength(b.ctx.ptr(), b.raw)
	if !exc.IsNull() {
		return 0, newException(b.ctx, exc)
	}
	return n, nil
}

// Bytes returns the buffer's memory without copying, valid until the next
// call into the engine.
func (b ArrayBuffer) Bytes() ([]byte, error) {
	n, err := b.ByteLength()
	if err != nil || n == 0 {
		return nil, err
	}
	p, exc := b.api().ObjectGetArrayBufferBytesPtr(b.ctx.ptr(), b.raw)
	if !exc.IsNull() {
		return nil, newException(b.ctx, exc)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: array buffer storage", ffi.ErrNullReference)
	}
	return unsafe.Slice((*byte)(p), n), nil
}
