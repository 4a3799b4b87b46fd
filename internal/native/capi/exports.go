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

// The functions below are the Go ends of the static trampolines in
// bridge.c. They only translate C arguments and hand off to the shared
// bodies in package native.

//export ul2ViewString
func ul2ViewString(kind C.int, token C.uintptr_t, caller C.ULView, s C.ULString) {
	native.ViewString(native.ViewCallback(kind), uintptr(token), ref(caller), ref(s))
}

//export ul2ViewCursor
func ul2ViewCursor(token C.uintptr_t, caller C.ULView, cursor C.int32_t) {
	native.ViewCursor(uintptr(token), ref(caller), int32(cursor))
}

//export ul2ViewConsole
func ul2ViewConsole(token C.uintptr_t, caller C.ULView, source, level C.int32_t, msg C.ULString, line, column C.uint, sourceID C.ULString) {
	native.ViewConsole(uintptr(token), ref(caller), native.ConsoleMessage{
		Source:   int32(source),
		Level:    int32(level),
		Message:  ref(msg),
		Line:     uint32(line),
		Column:   uint32(column),
		SourceID: ref(sourceID),
	})
}

//export ul2ViewChild
func ul2ViewChild(token C.uintptr_t, caller C.ULView, opener, target C.ULString, popup C.bool, left, top, right, bottom C.int) unsafe.Pointer {
	out := native.ViewChild(uintptr(token), ref(caller), native.ChildViewRequest{
		OpenerURL: ref(opener),
		TargetURL: ref(target),
		IsPopup:   bool(popup),
		PopupRect: native.IntRect{Left: int32(left), Top: int32(top), Right: int32(right), Bottom: int32(bottom)},
	})
	return raw(out)
}

//export ul2ViewInspector
func ul2ViewInspector(token C.uintptr_t, caller C.ULView, isLocal C.bool, url C.ULString) unsafe.Pointer {
	return raw(native.ViewInspector(uintptr(token), ref(caller), bool(isLocal), ref(url)))
}

//export ul2ViewFrame
func ul2ViewFrame(kind C.int, token C.uintptr_t, caller C.ULView, frame C.ulonglong, main C.bool, url C.ULString) {
	native.ViewFrame(native.ViewCallback(kind), uintptr(token), ref(caller), native.FrameEvent{
		FrameID:     uint64(frame),
		IsMainFrame: bool(main),
		URL:         ref(url),
	})
}

//export ul2ViewFail
func ul2ViewFail(token C.uintptr_t, caller C.ULView, frame C.ulonglong, main C.bool, url, description, domain C.ULString, code C.int) {
	native.ViewFail(uintptr(token), ref(caller), native.FailEvent{
		FrameEvent:  native.FrameEvent{FrameID: uint64(frame), IsMainFrame: bool(main), URL: ref(url)},
		Description: ref(description),
		ErrorDomain: ref(domain),
		ErrorCode:   int32(code),
	})
}

//export ul2ViewHistory
func ul2ViewHistory(token C.uintptr_t, caller C.ULView) {
	native.ViewHistory(uintptr(token), ref(caller))
}

//export ul2AppUpdate
func ul2AppUpdate(token C.uintptr_t) {
	native.AppUpdate(uintptr(token))
}

//export ul2WindowClosed
func ul2WindowClosed(token C.uintptr_t, window C.ULWindow) {
	native.WindowClosed(uintptr(token), ref(window))
}

//export ul2WindowResized
func ul2WindowResized(token C.uintptr_t, window C.ULWindow, width, height C.uint) {
	native.WindowResized(uintptr(token), ref(window), uint32(width), uint32(height))
}

//export ul2LogMessage
func ul2LogMessage(token C.uintptr_t, level C.int32_t, msg C.ULString) {
	native.LogMessage(uintptr(token), int32(level), ref(msg))
}

//export ul2FileExists
func ul2FileExists(token C.uintptr_t, path C.ULString) C.bool {
	return C.bool(native.FileExists(uintptr(token), ref(path)))
}

// The engine expects a valid string even when no file system is installed.

//export ul2FileMimeType
func ul2FileMimeType(token C.uintptr_t, path C.ULString) unsafe.Pointer {
	return stringOr(native.FileMimeType(uintptr(token), ref(path)), "application/unknown")
}

//export ul2FileCharset
func ul2FileCharset(token C.uintptr_t, path C.ULString) unsafe.Pointer {
	return stringOr(native.FileCharset(uintptr(token), ref(path)), "utf-8")
}

//export ul2OpenFile
func ul2OpenFile(token C.uintptr_t, path C.ULString) unsafe.Pointer {
	return raw(native.OpenFile(uintptr(token), ref(path)))
}

//export ul2ClipboardClear
func ul2ClipboardClear(token C.uintptr_t) {
	native.ClipboardClear(uintptr(token))
}

//export ul2ClipboardRead
func ul2ClipboardRead(token C.uintptr_t, result C.ULString) {
	native.ClipboardRead(uintptr(token), ref(result))
}

//export ul2ClipboardWrite
func ul2ClipboardWrite(token C.uintptr_t, text C.ULString) {
	native.ClipboardWrite(uintptr(token), ref(text))
}

//export ul2ClassInitialize
func ul2ClassInitialize(token C.uintptr_t, ctx unsafe.Pointer, obj C.JSObjectRef) {
	native.ClassInitialize(uintptr(token), addr(ctx), ref(obj))
}

//export ul2ClassFinalize
func ul2ClassFinalize(token C.uintptr_t, obj C.JSObjectRef) {
	native.ClassFinalize(uintptr(token), ref(obj))
}

//export ul2ClassHasProperty
func ul2ClassHasProperty(token C.uintptr_t, ctx unsafe.Pointer, obj C.JSObjectRef, name unsafe.Pointer) C.bool {
	return C.bool(native.ClassHasProperty(uintptr(token), addr(ctx), ref(obj), addr(name)))
}

//export ul2ClassGetProperty
func ul2ClassGetProperty(token C.uintptr_t, ctx unsafe.Pointer, obj C.JSObjectRef, name, exc unsafe.Pointer) unsafe.Pointer {
	return raw(native.ClassGetProperty(uintptr(token), addr(ctx), ref(obj), addr(name), excSlot(exc)))
}

//export ul2ClassSetProperty
func ul2ClassSetProperty(token C.uintptr_t, ctx unsafe.Pointer, obj C.JSObjectRef, name, value, exc unsafe.Pointer) C.bool {
	return C.bool(native.ClassSetProperty(uintptr(token), addr(ctx), ref(obj), addr(name), addr(value), excSlot(exc)))
}

//export ul2ClassDeleteProperty
func ul2ClassDeleteProperty(token C.uintptr_t, ctx unsafe.Pointer, obj C.JSObjectRef, name, exc unsafe.Pointer) C.bool {
	return C.bool(native.ClassDeleteProperty(uintptr(token), addr(ctx), ref(obj), addr(name), excSlot(exc)))
}

//export ul2ClassPropertyNames
func ul2ClassPropertyNames(token C.uintptr_t, ctx unsafe.Pointer, obj C.JSObjectRef, acc unsafe.Pointer) {
	native.ClassPropertyNames(uintptr(token), addr(ctx), ref(obj), addr(acc))
}

//export ul2ClassCallAsFunction
func ul2ClassCallAsFunction(token C.uintptr_t, ctx unsafe.Pointer, fn, this C.JSObjectRef, argv unsafe.Pointer, argc C.size_t, exc unsafe.Pointer) unsafe.Pointer {
	out := native.ClassCallAsFunction(uintptr(token), addr(ctx), ref(fn), ref(this), args(argv, argc), excSlot(exc))
	if out.IsNull() {
		return unsafe.Pointer(C.JSValueMakeUndefined(C.JSContextRef(ctx)))
	}
	return raw(out)
}

//export ul2ClassCallAsConstructor
func ul2ClassCallAsConstructor(token C.uintptr_t, ctx unsafe.Pointer, ctor C.JSObjectRef, argv unsafe.Pointer, argc C.size_t, exc unsafe.Pointer) unsafe.Pointer {
	return raw(native.ClassCallAsConstructor(uintptr(token), addr(ctx), ref(ctor), args(argv, argc), excSlot(exc)))
}

//export ul2ClassHasInstance
func ul2ClassHasInstance(token C.uintptr_t, ctx unsafe.Pointer, ctor C.JSObjectRef, value, exc unsafe.Pointer) C.bool {
	return C.bool(native.ClassHasInstance(uintptr(token), addr(ctx), ref(ctor), addr(value), excSlot(exc)))
}

func args(argv unsafe.Pointer, argc C.size_t) []ffi.Ptr {
	if argv == nil || argc == 0 {
		return nil
	}
	return append([]ffi.Ptr(nil), unsafe.Slice((*ffi.Ptr)(argv), int(argc))...)
}

// excSlot aliases the engine's JSValueRef* out parameter.
func excSlot(exc unsafe.Pointer) *ffi.Ptr {
	if exc == nil {
		return new(ffi.Ptr)
	}
	return (*ffi.Ptr)(exc)
}

func stringOr(s ffi.Ptr, fallback string) unsafe.Pointer {
	if s.IsNull() {
		return raw(newString(fallback))
	}
	return raw(s)
}
