//go:build ultralight

package capi

/*
#include "bridge.h"
*/
import "C"

import (
	"unsafe"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

func group(p ffi.Ptr) C.JSContextGroupRef   { return as[C.JSContextGroupRef](p) }
func gctx(p ffi.Ptr) C.JSGlobalContextRef   { return as[C.JSGlobalContextRef](p) }
func jctx(p ffi.Ptr) C.JSContextRef         { return as[C.JSContextRef](p) }
func jval(p ffi.Ptr) C.JSValueRef           { return as[C.JSValueRef](p) }
func jobj(p ffi.Ptr) C.JSObjectRef          { return as[C.JSObjectRef](p) }
func jstr(p ffi.Ptr) C.JSStringRef          { return as[C.JSStringRef](p) }
func jclass(p ffi.Ptr) C.JSClassRef         { return as[C.JSClassRef](p) }

// values exposes items as a JSValueRef array. ffi.Ptr holds C addresses
// only, so the backing array may be passed to C directly.
func values(items []ffi.Ptr) *C.JSValueRef {
	if len(items) == 0 {
		return nil
	}
	return (*C.JSValueRef)(unsafe.Pointer(&items[0]))
}

func (Backend) ContextGroupCreate() ffi.Ptr            { return ref(C.JSContextGroupCreate()) }
func (Backend) ContextGroupRetain(g ffi.Ptr) ffi.Ptr   { return ref(C.JSContextGroupRetain(group(g))) }
func (Backend) ContextGroupRelease(g ffi.Ptr)          { C.JSContextGroupRelease(group(g)) }

func (Backend) GlobalContextCreate(class ffi.Ptr) ffi.Ptr {
	return ref(C.JSGlobalContextCreate(jclass(class)))
}

func (Backend) GlobalContextCreateInGroup(g, class ffi.Ptr) ffi.Ptr {
	return ref(C.JSGlobalContextCreateInGroup(group(g), jclass(class)))
}

func (Backend) GlobalContextRetain(ctx ffi.Ptr) ffi.Ptr { return ref(C.JSGlobalContextRetain(gctx(ctx))) }
func (Backend) GlobalContextRelease(ctx ffi.Ptr)        { C.JSGlobalContextRelease(gctx(ctx)) }
func (Backend) GlobalContextCopyName(ctx ffi.Ptr) ffi.Ptr {
	return ref(C.JSGlobalContextCopyName(gctx(ctx)))
}
func (Backend) GlobalContextSetName(ctx, name ffi.Ptr) { C.JSGlobalContextSetName(gctx(ctx), jstr(name)) }
func (Backend) GlobalContextIsInspectable(ctx ffi.Ptr) bool {
	return bool(C.JSGlobalContextIsInspectable(gctx(ctx)))
}
func (Backend) GlobalContextSetInspectable(ctx ffi.Ptr, inspectable bool) {
	C.JSGlobalContextSetInspectable(gctx(ctx), C.bool(inspectable))
}
func (Backend) ContextGetGlobalObject(ctx ffi.Ptr) ffi.Ptr {
	return ref(C.JSContextGetGlobalObject(jctx(ctx)))
}
func (Backend) ContextGetGroup(ctx ffi.Ptr) ffi.Ptr { return ref(C.JSContextGetGroup(jctx(ctx))) }
func (Backend) ContextGetGlobalContext(ctx ffi.Ptr) ffi.Ptr {
	return ref(C.JSContextGetGlobalContext(jctx(ctx)))
}

func (Backend) EvaluateScript(ctx, script, this, sourceURL ffi.Ptr, line int32) (ffi.Ptr, ffi.Ptr) {
	var exc C.JSValueRef
	r := C.JSEvaluateScript(jctx(ctx), jstr(script), jobj(this), jstr(sourceURL), C.int(line), &exc)
	return ref(r), ref(exc)
}

func (Backend) CheckScriptSyntax(ctx, script, sourceURL ffi.Ptr, line int32) (bool, ffi.Ptr) {
	var exc C.JSValueRef
	ok := C.JSCheckScriptSyntax(jctx(ctx), jstr(script), jstr(sourceURL), C.int(line), &exc)
	return bool(ok), ref(exc)
}

func (Backend) GarbageCollect(ctx ffi.Ptr) { C.JSGarbageCollect(jctx(ctx)) }

func (Backend) StringCreateWithUTF8(s string) ffi.Ptr {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	return ref(C.JSStringCreateWithUTF8CString(cs))
}

func (Backend) StringCreateWithCharacters(chars []uint16) ffi.Ptr {
	var p *C.JSChar
	if len(chars) > 0 {
		p = (*C.JSChar)(unsafe.Pointer(&chars[0]))
	}
	return ref(C.JSStringCreateWithCharacters(p, C.size_t(len(chars))))
}

func (Backend) StringRetain(s ffi.Ptr) ffi.Ptr { return ref(C.JSStringRetain(jstr(s))) }
func (Backend) StringRelease(s ffi.Ptr)        { C.JSStringRelease(jstr(s)) }
func (Backend) StringLengthUTF16(s ffi.Ptr) int {
	return int(C.JSStringGetLength(jstr(s)))
}

func (Backend) StringCharacters(s ffi.Ptr) []uint16 {
	n := int(C.JSStringGetLength(jstr(s)))
	if n == 0 {
		return nil
	}
	p := C.JSStringGetCharactersPtr(jstr(s))
	return append([]uint16(nil), unsafe.Slice((*uint16)(unsafe.Pointer(p)), n)...)
}

func (Backend) StringUTF8(s ffi.Ptr) string {
	size := C.JSStringGetMaximumUTF8CStringSize(jstr(s))
	buf := (*C.char)(C.malloc(size))
	defer C.free(unsafe.Pointer(buf))
	n := C.JSStringGetUTF8CString(jstr(s), buf, size)
	if n == 0 {
		return ""
	}
	// n counts the terminating NUL.
	return C.GoStringN(buf, C.int(n-1))
}

func (Backend) StringIsEqual(a, b ffi.Ptr) bool { return bool(C.JSStringIsEqual(jstr(a), jstr(b))) }

func (Backend) StringIsEqualToUTF8(a ffi.Ptr, b string) bool {
	cs := C.CString(b)
	defer C.free(unsafe.Pointer(cs))
	return bool(C.JSStringIsEqualToUTF8CString(jstr(a), cs))
}

func (Backend) ValueGetType(ctx, v ffi.Ptr) native.JSType {
	return native.JSType(C.JSValueGetType(jctx(ctx), jval(v)))
}

func (Backend) ValueIsArray(ctx, v ffi.Ptr) bool { return bool(C.JSValueIsArray(jctx(ctx), jval(v))) }
func (Backend) ValueIsDate(ctx, v ffi.Ptr) bool  { return bool(C.JSValueIsDate(jctx(ctx), jval(v))) }

func (Backend) ValueIsObjectOfClass(ctx, v, class ffi.Ptr) bool {
	return bool(C.JSValueIsObjectOfClass(jctx(ctx), jval(v), jclass(class)))
}

func (Backend) ValueGetTypedArrayType(ctx, v ffi.Ptr) (int32, ffi.Ptr) {
	var exc C.JSValueRef
	t := C.JSValueGetTypedArrayType(jctx(ctx), jval(v), &exc)
	return int32(t), ref(exc)
}

func (Backend) MakeUndefined(ctx ffi.Ptr) ffi.Ptr { return ref(C.JSValueMakeUndefined(jctx(ctx))) }
func (Backend) MakeNull(ctx ffi.Ptr) ffi.Ptr      { return ref(C.JSValueMakeNull(jctx(ctx))) }
func (Backend) MakeBoolean(ctx ffi.Ptr, b bool) ffi.Ptr {
	return ref(C.JSValueMakeBoolean(jctx(ctx), C.bool(b)))
}
func (Backend) MakeNumber(ctx ffi.Ptr, n float64) ffi.Ptr {
	return ref(C.JSValueMakeNumber(jctx(ctx), C.double(n)))
}
func (Backend) MakeString(ctx, s ffi.Ptr) ffi.Ptr { return ref(C.JSValueMakeString(jctx(ctx), jstr(s))) }
func (Backend) MakeSymbol(ctx, description ffi.Ptr) ffi.Ptr {
	return ref(C.JSValueMakeSymbol(jctx(ctx), jstr(description)))
}
func (Backend) MakeFromJSONString(ctx, s ffi.Ptr) ffi.Ptr {
	return ref(C.JSValueMakeFromJSONString(jctx(ctx), jstr(s)))
}

func (Backend) ValueCreateJSONString(ctx, v ffi.Ptr, indent uint32) (ffi.Ptr, ffi.Ptr) {
	var exc C.JSValueRef
	s := C.JSValueCreateJSONString(jctx(ctx), jval(v), C.uint(indent), &exc)
	return ref(s), ref(exc)
}

func (Backend) ValueIsEqual(ctx, a, b ffi.Ptr) (bool, ffi.Ptr) {
	var exc C.JSValueRef
	eq := C.JSValueIsEqual(jctx(ctx), jval(a), jval(b), &exc)
	return bool(eq), ref(exc)
}

func (Backend) ValueIsStrictEqual(ctx, a, b ffi.Ptr) bool {
	return bool(C.JSValueIsStrictEqual(jctx(ctx), jval(a), jval(b)))
}

func (Backend) ValueIsInstanceOfConstructor(ctx, v, ctor ffi.Ptr) (bool, ffi.Ptr) {
	var exc C.JSValueRef
	ok := C.JSValueIsInstanceOfConstructor(jctx(ctx), jval(v), jobj(ctor), &exc)
	return bool(ok), ref(exc)
}

func (Backend) ValueToBoolean(ctx, v ffi.Ptr) bool { return bool(C.JSValueToBoolean(jctx(ctx), jval(v))) }

func (Backend) ValueToNumber(ctx, v ffi.Ptr) (float64, ffi.Ptr) {
	var exc C.JSValueRef
	n := C.JSValueToNumber(jctx(ctx), jval(v), &exc)
	return float64(n), ref(exc)
}

func (Backend) ValueToStringCopy(ctx, v ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	var exc C.JSValueRef
	s := C.JSValueToStringCopy(jctx(ctx), jval(v), &exc)
	return ref(s), ref(exc)
}

func (Backend) ValueToObject(ctx, v ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	var exc C.JSValueRef
	o := C.JSValueToObject(jctx(ctx), jval(v), &exc)
	return ref(o), ref(exc)
}

func (Backend) ValueProtect(ctx, v ffi.Ptr)   { C.JSValueProtect(jctx(ctx), jval(v)) }
func (Backend) ValueUnprotect(ctx, v ffi.Ptr) { C.JSValueUnprotect(jctx(ctx), jval(v)) }

func (Backend) ClassCreate(def *native.ClassDefinition) ffi.Ptr {
	name := C.CString(def.Name)
	defer C.free(unsafe.Pointer(name))
	return ref(C.ul2_class_create(name, C.uint(def.Attributes), jclass(def.Parent), C.uint(def.Hooks)))
}

func (Backend) ClassRetain(class ffi.Ptr) ffi.Ptr { return ref(C.JSClassRetain(jclass(class))) }
func (Backend) ClassRelease(class ffi.Ptr)        { C.JSClassRelease(jclass(class)) }

func (Backend) ObjectMake(ctx, class, data ffi.Ptr) ffi.Ptr {
	return ref(C.JSObjectMake(jctx(ctx), jclass(class), raw(data)))
}

func (Backend) ObjectMakeArray(ctx ffi.Ptr, items []ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	var exc C.JSValueRef
	o := C.JSObjectMakeArray(jctx(ctx), C.size_t(len(items)), values(items), &exc)
	return ref(o), ref(exc)
}

func (Backend) ObjectMakeError(ctx ffi.Ptr, args []ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	var exc C.JSValueRef
	o := C.JSObjectMakeError(jctx(ctx), C.size_t(len(args)), values(args), &exc)
	return ref(o), ref(exc)
}

func (Backend) ObjectGetPrototype(ctx, obj ffi.Ptr) ffi.Ptr {
	return ref(C.JSObjectGetPrototype(jctx(ctx), jobj(obj)))
}

func (Backend) ObjectSetPrototype(ctx, obj, proto ffi.Ptr) {
	C.JSObjectSetPrototype(jctx(ctx), jobj(obj), jval(proto))
}

func (Backend) ObjectHasProperty(ctx, obj, name ffi.Ptr) bool {
	return bool(C.JSObjectHasProperty(jctx(ctx), jobj(obj), jstr(name)))
}

func (Backend) ObjectGetProperty(ctx, obj, name ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	var exc C.JSValueRef
	v := C.JSObjectGetProperty(jctx(ctx), jobj(obj), jstr(name), &exc)
	return ref(v), ref(exc)
}

func (Backend) ObjectSetProperty(ctx, obj, name, value ffi.Ptr, attributes uint32) ffi.Ptr {
	var exc C.JSValueRef
	C.JSObjectSetProperty(jctx(ctx), jobj(obj), jstr(name), jval(value), C.JSPropertyAttributes(attributes), &exc)
	return ref(exc)
}

func (Backend) ObjectDeleteProperty(ctx, obj, name ffi.Ptr) (bool, ffi.Ptr) {
	var exc C.JSValueRef
	ok := C.JSObjectDeleteProperty(jctx(ctx), jobj(obj), jstr(name), &exc)
	return bool(ok), ref(exc)
}

func (Backend) ObjectGetPropertyAtIndex(ctx, obj ffi.Ptr, index uint32) (ffi.Ptr, ffi.Ptr) {
	var exc C.JSValueRef
	v := C.JSObjectGetPropertyAtIndex(jctx(ctx), jobj(obj), C.uint(index), &exc)
	return ref(v), ref(exc)
}

func (Backend) ObjectSetPropertyAtIndex(ctx, obj ffi.Ptr, index uint32, value ffi.Ptr) ffi.Ptr {
	var exc C.JSValueRef
	C.JSObjectSetPropertyAtIndex(jctx(ctx), jobj(obj), C.uint(index), jval(value), &exc)
	return ref(exc)
}

func (Backend) ObjectCopyPropertyNames(ctx, obj ffi.Ptr) []ffi.Ptr {
	arr := C.JSObjectCopyPropertyNames(jctx(ctx), jobj(obj))
	defer C.JSPropertyNameArrayRelease(arr)
	n := int(C.JSPropertyNameArrayGetCount(arr))
	names := make([]ffi.Ptr, 0, n)
	for i := 0; i < n; i++ {
		name := C.JSPropertyNameArrayGetNameAtIndex(arr, C.size_t(i))
		names = append(names, ref(C.JSStringRetain(name)))
	}
	return names
}

func (Backend) ObjectIsFunction(ctx, obj ffi.Ptr) bool {
	return bool(C.JSObjectIsFunction(jctx(ctx), jobj(obj)))
}

func (Backend) ObjectCallAsFunction(ctx, obj, this ffi.Ptr, args []ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	var exc C.JSValueRef
	v := C.JSObjectCallAsFunction(jctx(ctx), jobj(obj), jobj(this), C.size_t(len(args)), values(args), &exc)
	return ref(v), ref(exc)
}

func (Backend) ObjectIsConstructor(ctx, obj ffi.Ptr) bool {
	return bool(C.JSObjectIsConstructor(jctx(ctx), jobj(obj)))
}

func (Backend) ObjectCallAsConstructor(ctx, obj ffi.Ptr, args []ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	var exc C.JSValueRef
	v := C.JSObjectCallAsConstructor(jctx(ctx), jobj(obj), C.size_t(len(args)), values(args), &exc)
	return ref(v), ref(exc)
}

func (Backend) ObjectGetPrivate(obj ffi.Ptr) ffi.Ptr {
	if obj.IsNull() {
		return 0
	}
	return addr(C.JSObjectGetPrivate(jobj(obj)))
}

func (Backend) ObjectSetPrivate(obj, data ffi.Ptr) bool {
	if obj.IsNull() {
		return false
	}
	return bool(C.JSObjectSetPrivate(jobj(obj), raw(data)))
}

func (Backend) ObjectGetProxyTarget(obj ffi.Ptr) ffi.Ptr {
	if obj.IsNull() {
		return 0
	}
	return ref(C.JSObjectGetProxyTarget(jobj(obj)))
}

func (Backend) ObjectGetGlobalContext(obj ffi.Ptr) ffi.Ptr {
	return ref(C.JSObjectGetGlobalContext(jobj(obj)))
}

func (Backend) PropertyNameAccumulatorAddName(acc, name ffi.Ptr) {
	C.JSPropertyNameAccumulatorAddName(as[C.JSPropertyNameAccumulatorRef](acc), jstr(name))
}

func (Backend) ObjectMakeTypedArray(ctx ffi.Ptr, kind int32, length int) (ffi.Ptr, ffi.Ptr) {
	var exc C.JSValueRef
	o := C.JSObjectMakeTypedArray(jctx(ctx), C.JSTypedArrayType(kind), C.size_t(length), &exc)
	return ref(o), ref(exc)
}

func (Backend) ObjectMakeTypedArrayWithBytes(ctx ffi.Ptr, kind int32, data []byte) (ffi.Ptr, ffi.Ptr) {
	var exc C.JSValueRef
	o := C.ul2_make_typed_array_copy(jctx(ctx), C.JSTypedArrayType(kind), bytesPtr(data), C.size_t(len(data)), &exc)
	return ref(o), ref(exc)
}

func (Backend) ObjectMakeTypedArrayWithArrayBuffer(ctx ffi.Ptr, kind int32, buf ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	var exc C.JSValueRef
	o := C.JSObjectMakeTypedArrayWithArrayBuffer(jctx(ctx), C.JSTypedArrayType(kind), jobj(buf), &exc)
	return ref(o), ref(exc)
}

func (Backend) ObjectGetTypedArrayBytesPtr(ctx, obj ffi.Ptr) (unsafe.Pointer, ffi.Ptr) {
	var exc C.JSValueRef
	p := C.JSObjectGetTypedArrayBytesPtr(jctx(ctx), jobj(obj), &exc)
	return p, ref(exc)
}

func (Backend) ObjectGetTypedArrayLength(ctx, obj ffi.Ptr) (int, ffi.Ptr) {
	var exc C.JSValueRef
	n := C.JSObjectGetTypedArrayLength(jctx(ctx), jobj(obj), &exc)
	return int(n), ref(exc)
}

func (Backend) ObjectGetTypedArrayByteLength(ctx, obj ffi.Ptr) (int, ffi.Ptr) {
	var exc C.JSValueRef
	n := C.JSObjectGetTypedArrayByteLength(jctx(ctx), jobj(obj), &exc)
	return int(n), ref(exc)
}

func (Backend) ObjectGetTypedArrayByteOffset(ctx, obj ffi.Ptr) (int, ffi.Ptr) {
	var exc C.JSValueRef
	n := C.JSObjectGetTypedArrayByteOffset(jctx(ctx), jobj(obj), &exc)
	return int(n), ref(exc)
}

func (Backend) ObjectGetTypedArrayBuffer(ctx, obj ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	var exc C.JSValueRef
	o := C.JSObjectGetTypedArrayBuffer(jctx(ctx), jobj(obj), &exc)
	return ref(o), ref(exc)
}

func (Backend) ObjectMakeArrayBufferWithBytes(ctx ffi.Ptr, data []byte) (ffi.Ptr, ffi.Ptr) {
	var exc C.JSValueRef
	o := C.ul2_make_array_buffer_copy(jctx(ctx), bytesPtr(data), C.size_t(len(data)), &exc)
	return ref(o), ref(exc)
}

func (Backend) ObjectGetArrayBufferBytesPtr(ctx, obj ffi.Ptr) (unsafe.Pointer, ffi.Ptr) {
	var exc C.JSValueRef
	p := C.JSObjectGetArrayBufferBytesPtr(jctx(ctx), jobj(obj), &exc)
	return p, ref(exc)
}

func (Backend) ObjectGetArrayBufferByteLength(ctx, obj ffi.Ptr) (int, ffi.Ptr) {
	var exc C.JSValueRef
	n := C.JSObjectGetArrayBufferByteLength(jctx(ctx), jobj(obj), &exc)
	return int(n), ref(exc)
}
