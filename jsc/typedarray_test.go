package jsc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/19h/ul2/ffi"
)

func TestTypedArrayTypeInfo(t *testing.T) {
	tests := []struct {
		typ  TypedArrayType
		name string
		size int
	}{
		{TypedArrayInt8, "Int8Array", 1},
		{TypedArrayUint16, "Uint16Array", 2},
		{TypedArrayFloat32, "Float32Array", 4},
		{TypedArrayFloat64, "Float64Array", 8},
		{TypedArrayNone, "None", 0},
		{TypedArrayBigUint64, "BigUint64Array", 8},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.typ.String())
		assert.Equal(t, tt.size, tt.typ.ElementSize())
	}
	assert.Equal(t, TypedArrayType(12), TypedArrayBigUint64)
	assert.Equal(t, "TypedArrayType(40)", TypedArrayType(40).String())
}

func TestTypedArrayFromBytes(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	arr, err := NewTypedArrayFromBytes(ctx, TypedArrayUint8, []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, TypedArrayUint8, arr.ArrayType())

	n, err := arr.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	data, err := arr.CopyBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	view, err := arr.Bytes()
	require.NoError(t, err)
	view[0] = 9
	v, err := arr.PropertyAtIndex(0)
	require.NoError(t, err)
	first, _ := v.ToNumber()
	assert.Equal(t, 9.0, first, "Bytes aliases the engine's storage")

	_, err = NewTypedArrayFromBytes(ctx, TypedArrayInt32, []byte{1, 2, 3})
	assert.True(t, errors.Is(err, ffi.ErrInvalidArgument))
	_, err = NewTypedArray(ctx, TypedArrayNone, 4)
	assert.True(t, errors.Is(err, ffi.ErrInvalidArgument))
}

func TestTypedArrayFromScript(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	obj, ok := eval(t, ctx, "new Int32Array([1, 2, 3, 4]).subarray(1, 3)").AsObject()
	require.True(t, ok)
	arr, err := TypedArrayFromObject(obj)
	require.NoError(t, err)
	assert.Equal(t, TypedArrayInt32, arr.ArrayType())

	n, _ := arr.Len()
	assert.Equal(t, 2, n)
	size, _ := arr.ByteLength()
	assert.Equal(t, 8, size)
	off, _ := arr.ByteOffset()
	assert.Equal(t, 4, off)

	buf, err := arr.Buffer()
	require.NoError(t, err)
	total, err := buf.ByteLength()
	require.NoError(t, err)
	assert.Equal(t, 16, total)

	_, err = TypedArrayFromObject(NewObject(ctx))
	assert.True(t, errors.Is(err, ffi.ErrInvalidArgument))
}

func TestNewTypedArrayZeroed(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	arr, err := NewTypedArray(ctx, TypedArrayFloat64, 2)
	require.NoError(t, err)
	data, err := arr.CopyBytes()
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 16), data)
}

func TestArrayBuffer(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	buf, err := NewArrayBuffer(ctx, []byte{0, 1, 0, 2})
	require.NoError(t, err)
	n, err := buf.ByteLength()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	typ, err := buf.TypedArrayType()
	require.NoError(t, err)
	assert.Equal(t, TypedArrayArrayBuffer, typ)

	arr, err := NewTypedArrayWithArrayBuffer(TypedArrayUint16, buf)
	require.NoError(t, err)
	length, _ := arr.Len()
	assert.Equal(t, 2, length)

	raw, err := buf.Bytes()
	require.NoError(t, err)
	raw[3] = 7
	copied, _ := arr.CopyBytes()
	assert.Equal(t, byte(7), copied[3], "the view shares the buffer")

	fromObj, err := ArrayBufferFromObject(buf.Object)
	require.NoError(t, err)
	assert.True(t, fromObj.StrictEqual(buf.Value))

	_, err = ArrayBufferFromObject(arr.Object)
	assert.True(t, errors.Is(err, ffi.ErrInvalidArgument))
}
