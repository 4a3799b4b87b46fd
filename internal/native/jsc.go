package native

import (
	"unsafe"

	"github.com/19h/ul2/ffi"
)

// JSType mirrors JSType.
type JSType int32

const (
	TypeUndefined JSType = iota
	TypeNull
	TypeBoolean
	TypeNumber
	TypeString
	TypeObject
	TypeSymbol
)

// ClassHook is a bit set of the JSClassDefinition callbacks a class
// provides. The backend installs a trampoline only for the bits that are set.
type ClassHook uint32

const (
	HookInitialize ClassHook = 1 << iota
	HookFinalize
	HookHasProperty
	HookGetProperty
	HookSetProperty
	HookDeleteProperty
	HookGetPropertyNames
	HookCallAsFunction
	HookCallAsConstructor
	HookHasInstance
)

// ClassDefinition is the subset of JSClassDefinition the wrappers use.
type ClassDefinition struct {
	Name       string
	Attributes uint32
	Parent     ffi.Ptr
	Hooks      ClassHook
}

// ClassInstance is what the private data token of a class instance resolves
// to. Exceptions are reported by storing a value into *exc.
type ClassInstance interface {
	Initialize(ctx, obj ffi.Ptr)
	Finalize(obj ffi.Ptr)
	HasProperty(ctx, obj, name ffi.Ptr) bool
	GetProperty(ctx, obj, name ffi.Ptr, exc *ffi.Ptr) ffi.Ptr
	SetProperty(ctx, obj, name, value ffi.Ptr, exc *ffi.Ptr) bool
	DeleteProperty(ctx, obj, name ffi.Ptr, exc *ffi.Ptr) bool
	PropertyNames(ctx, obj, acc ffi.Ptr)
	CallAsFunction(ctx, fn, this ffi.Ptr, args []ffi.Ptr, exc *ffi.Ptr) ffi.Ptr
	CallAsConstructor(ctx, ctor ffi.Ptr, args []ffi.Ptr, exc *ffi.Ptr) ffi.Ptr
	HasInstance(ctx, ctor, value ffi.Ptr, exc *ffi.Ptr) bool
}

// JSC is the JavaScriptCore C API. Functions that can throw return the
// exception value as a trailing ffi.Ptr, null when nothing was thrown.
type JSC interface {
	ContextGroupCreate() ffi.Ptr
	ContextGroupRetain(g ffi.Ptr) ffi.Ptr
	ContextGroupRelease(g ffi.Ptr)

	GlobalContextCreate(class ffi.Ptr) ffi.Ptr
	GlobalContextCreateInGroup(group, class ffi.Ptr) ffi.Ptr
	GlobalContextRetain(ctx ffi.Ptr) ffi.Ptr
	GlobalContextRelease(ctx ffi.Ptr)
	GlobalContextCopyName(ctx ffi.Ptr) ffi.Ptr
	GlobalContextSetName(ctx, name ffi.Ptr)
	GlobalContextIsInspectable(ctx ffi.Ptr) bool
	GlobalContextSetInspectable(ctx ffi.Ptr, inspectable bool)
	ContextGetGlobalObject(ctx ffi.Ptr) ffi.Ptr
	ContextGetGroup(ctx ffi.Ptr) ffi.Ptr
	ContextGetGlobalContext(ctx ffi.Ptr) ffi.Ptr

	EvaluateScript(ctx, script, this, sourceURL ffi.Ptr, line int32) (ffi.Ptr, ffi.Ptr)
	CheckScriptSyntax(ctx, script, sourceURL ffi.Ptr, line int32) (bool, ffi.Ptr)
	GarbageCollect(ctx ffi.Ptr)

	StringCreateWithUTF8(s string) ffi.Ptr
	StringCreateWithCharacters(chars []uint16) ffi.Ptr
	StringRetain(s ffi.Ptr) ffi.Ptr
	StringRelease(s ffi.Ptr)
	StringLengthUTF16(s ffi.Ptr) int
	StringCharacters(s ffi.Ptr) []uint16
	StringUTF8(s ffi.Ptr) string
	StringIsEqual(a, b ffi.Ptr) bool
	StringIsEqualToUTF8(a ffi.Ptr, b string) bool

	ValueGetType(ctx, v ffi.Ptr) JSType
	ValueIsArray(ctx, v ffi.Ptr) bool
	ValueIsDate(ctx, v ffi.Ptr) bool
	ValueIsObjectOfClass(ctx, v, class ffi.Ptr) bool
	ValueGetTypedArrayType(ctx, v ffi.Ptr) (int32, ffi.Ptr)
	MakeUndefined(ctx ffi.Ptr) ffi.Ptr
	MakeNull(ctx ffi.Ptr) ffi.Ptr
	MakeBoolean(ctx ffi.Ptr, b bool) ffi.Ptr
	MakeNumber(ctx ffi.Ptr, n float64) ffi.Ptr
	MakeString(ctx, s ffi.Ptr) ffi.Ptr
	MakeSymbol(ctx, description ffi.Ptr) ffi.Ptr
	MakeFromJSONString(ctx, s ffi.Ptr) ffi.Ptr
	ValueCreateJSONString(ctx, v ffi.Ptr, indent uint32) (ffi.Ptr, ffi.Ptr)
	ValueIsEqual(ctx, a, b ffi.Ptr) (bool, ffi.Ptr)
	ValueIsStrictEqual(ctx, a, b ffi.Ptr) bool
	ValueIsInstanceOfConstructor(ctx, v, ctor ffi.Ptr) (bool, ffi.Ptr)
	ValueToBoolean(ctx, v ffi.Ptr) bool
	ValueToNumber(ctx, v ffi.Ptr) (float64, ffi.Ptr)
	ValueToStringCopy(ctx, v ffi.Ptr) (ffi.Ptr, ffi.Ptr)
	ValueToObject(ctx, v ffi.Ptr) (ffi.Ptr, ffi.Ptr)
	ValueProtect(ctx, v ffi.Ptr)
	ValueUnprotect(ctx, v ffi.Ptr)

	ClassCreate(def *ClassDefinition) ffi.Ptr
	ClassRetain(class ffi.Ptr) ffi.Ptr
	ClassRelease(class ffi.Ptr)

	ObjectMake(ctx, class, data ffi.Ptr) ffi.Ptr
	ObjectMakeArray(ctx ffi.Ptr, items []ffi.Ptr) (ffi.Ptr, ffi.Ptr)
	ObjectMakeError(ctx ffi.Ptr, args []ffi.Ptr) (ffi.Ptr, ffi.Ptr)
	ObjectGetPrototype(ctx, obj ffi.Ptr) ffi.Ptr
	ObjectSetPrototype(ctx, obj, proto ffi.Ptr)
	ObjectHasProperty(ctx, obj, name ffi.Ptr) bool
	ObjectGetProperty(ctx, obj, name ffi.Ptr) (ffi.Ptr, ffi.Ptr)
	ObjectSetProperty(ctx, obj, name, value ffi.Ptr, attributes uint32) ffi.Ptr
	ObjectDeleteProperty(ctx, obj, name ffi.Ptr) (bool, ffi.Ptr)
	ObjectGetPropertyAtIndex(ctx, obj ffi.Ptr, index uint32) (ffi.Ptr, ffi.Ptr)
	ObjectSetPropertyAtIndex(ctx, obj ffi.Ptr, index uint32, value ffi.Ptr) ffi.Ptr
	// ObjectCopyPropertyNames returns retained strings the caller releases.
	ObjectCopyPropertyNames(ctx, obj ffi.Ptr) []ffi.Ptr
	ObjectIsFunction(ctx, obj ffi.Ptr) bool
	ObjectCallAsFunction(ctx, obj, this ffi.Ptr, args []ffi.Ptr) (ffi.Ptr, ffi.Ptr)
	ObjectIsConstructor(ctx, obj ffi.Ptr) bool
	ObjectCallAsConstructor(ctx, obj ffi.Ptr, args []ffi.Ptr) (ffi.Ptr, ffi.Ptr)
	ObjectGetPrivate(obj ffi.Ptr) ffi.Ptr
	ObjectSetPrivate(obj, data ffi.Ptr) bool
	ObjectGetProxyTarget(obj ffi.Ptr) ffi.Ptr
	ObjectGetGlobalContext(obj ffi.Ptr) ffi.Ptr
	PropertyNameAccumulatorAddName(acc, name ffi.Ptr)

	ObjectMakeTypedArray(ctx ffi.Ptr, kind int32, length int) (ffi.Ptr, ffi.Ptr)
	ObjectMakeTypedArrayWithBytes(ctx ffi.Ptr, kind int32, data []byte) (ffi.Ptr, ffi.Ptr)
	ObjectMakeTypedArrayWithArrayBuffer(ctx ffi.Ptr, kind int32, buffer ffi.Ptr) (ffi.Ptr, ffi.Ptr)
	ObjectGetTypedArrayBytesPtr(ctx, obj ffi.Ptr) (unsafe.Pointer, ffi.Ptr)
	ObjectGetTypedArrayLength(ctx, obj ffi.Ptr) (int, ffi.Ptr)
	ObjectGetTypedArrayByteLength(ctx, obj ffi.Ptr) (int, ffi.Ptr)
	ObjectGetTypedArrayByteOffset(ctx, obj ffi.Ptr) (int, ffi.Ptr)
	ObjectGetTypedArrayBuffer(ctx, obj ffi.Ptr) (ffi.Ptr, ffi.Ptr)
	ObjectMakeArrayBufferWithBytes(ctx ffi.Ptr, data []byte) (ffi.Ptr, ffi.Ptr)
	ObjectGetArrayBufferBytesPtr(ctx, obj ffi.Ptr) (unsafe.Pointer, ffi.Ptr)
	ObjectGetArrayBufferByteLength(ctx, obj ffi.Ptr) (int, ffi.Ptr)
}
