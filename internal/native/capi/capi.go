//go:build ultralight

// Package capi is the cgo backend: every native.API method is a direct call
// into the Ultralight, AppCore and JavaScriptCore shared libraries.
//
// Library and header locations come from the environment, for example
//
//	CGO_CFLAGS=-I$ULTRALIGHT_SDK/include CGO_LDFLAGS=-L$ULTRALIGHT_SDK/bin
package capi

/*
#cgo LDFLAGS: -lUltralight -lUltralightCore -lWebCore -lAppCore
#include "bridge.h"
*/
import "C"

import (
	"unsafe"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// Backend implements native.API on the real libraries. It has no state; the
// zero value is ready to use.
type Backend struct{}

var _ native.API = Backend{}

// New returns the cgo backend.
func New() Backend { return Backend{} }

func (Backend) Name() string { return "ultralight" }

// Pointer plumbing. ffi.Ptr values handed out by this package are always C
// addresses, never Go pointers.

func ref[T ~*E, E any](p T) ffi.Ptr { return ffi.Ptr(uintptr(unsafe.Pointer(p))) }

func as[T ~*E, E any](p ffi.Ptr) T { return T(unsafe.Pointer(uintptr(p))) }

func raw(p ffi.Ptr) unsafe.Pointer { return unsafe.Pointer(uintptr(p)) }

func addr(p unsafe.Pointer) ffi.Ptr { return ffi.Ptr(uintptr(p)) }

func str(p ffi.Ptr) C.ULString { return as[C.ULString](p) }

func view(p ffi.Ptr) C.ULView { return as[C.ULView](p) }

func newString(s string) ffi.Ptr {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	return ref(C.ulCreateStringUTF8(cs, C.size_t(len(s))))
}

// withString passes s to fn as a temporary ULString.
func withString(s string, fn func(C.ULString)) {
	p := newString(s)
	defer C.ulDestroyString(str(p))
	fn(str(p))
}

func bytesPtr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

func (Backend) VersionString() string { return C.GoString(C.ulVersionString()) }

func (Backend) CreateString(s string) ffi.Ptr { return newString(s) }

func (Backend) CreateStringUTF16(s []uint16) ffi.Ptr {
	var p *C.ULChar16
	if len(s) > 0 {
		p = (*C.ULChar16)(unsafe.Pointer(&s[0]))
	}
	return ref(C.ulCreateStringUTF16(p, C.size_t(len(s))))
}

func (Backend) CreateStringFromCopy(s ffi.Ptr) ffi.Ptr {
	return ref(C.ulCreateStringFromCopy(str(s)))
}

func (Backend) DestroyString(s ffi.Ptr) { C.ulDestroyString(str(s)) }

func (Backend) StringData(s ffi.Ptr) string {
	n := C.ulStringGetLength(str(s))
	if n == 0 {
		return ""
	}
	return C.GoStringN(C.ulStringGetData(str(s)), C.int(n))
}

func (Backend) StringLength(s ffi.Ptr) int  { return int(C.ulStringGetLength(str(s))) }
func (Backend) StringIsEmpty(s ffi.Ptr) bool { return bool(C.ulStringIsEmpty(str(s))) }
func (Backend) StringAssign(dst, src ffi.Ptr) { C.ulStringAssignString(str(dst), str(src)) }

func config(p ffi.Ptr) C.ULConfig { return as[C.ULConfig](p) }

func (Backend) CreateConfig() ffi.Ptr      { return ref(C.ulCreateConfig()) }
func (Backend) DestroyConfig(cfg ffi.Ptr) { C.ulDestroyConfig(config(cfg)) }

func (Backend) ConfigSetString(cfg ffi.Ptr, field native.ConfigField, s ffi.Ptr) {
	c, v := config(cfg), str(s)
	switch field {
	case native.ConfigCachePath:
		C.ulConfigSetCachePath(c, v)
	case native.ConfigResourcePathPrefix:
		C.ulConfigSetResourcePathPrefix(c, v)
	case native.ConfigUserStylesheet:
		C.ulConfigSetUserStylesheet(c, v)
	}
}

func (Backend) ConfigSetBool(cfg ffi.Ptr, field native.ConfigField, v bool) {
	if field == native.ConfigForceRepaint {
		C.ulConfigSetForceRepaint(config(cfg), C.bool(v))
	}
}

func (Backend) ConfigSetFloat(cfg ffi.Ptr, field native.ConfigField, v float64) {
	c, d := config(cfg), C.double(v)
	switch field {
	case native.ConfigFontGamma:
		C.ulConfigSetFontGamma(c, d)
	case native.ConfigAnimationTimerDelay:
		C.ulConfigSetAnimationTimerDelay(c, d)
	case native.ConfigScrollTimerDelay:
		C.ulConfigSetScrollTimerDelay(c, d)
	case native.ConfigRecycleDelay:
		C.ulConfigSetRecycleDelay(c, d)
	case native.ConfigMaxUpdateTime:
		C.ulConfigSetMaxUpdateTime(c, d)
	}
}

func (Backend) ConfigSetUint(cfg ffi.Ptr, field native.ConfigField, v uint32) {
	c, u := config(cfg), C.uint(v)
	switch field {
	case native.ConfigFaceWinding:
		C.ulConfigSetFaceWinding(c, C.ULFaceWinding(v))
	case native.ConfigFontHinting:
		C.ulConfigSetFontHinting(c, C.ULFontHinting(v))
	case native.ConfigMemoryCacheSize:
		C.ulConfigSetMemoryCacheSize(c, u)
	case native.ConfigPageCacheSize:
		C.ulConfigSetPageCacheSize(c, u)
	case native.ConfigOverrideRAMSize:
		C.ulConfigSetOverrideRAMSize(c, u)
	case native.ConfigMinLargeHeapSize:
		C.ulConfigSetMinLargeHeapSize(c, u)
	case native.ConfigMinSmallHeapSize:
		C.ulConfigSetMinSmallHeapSize(c, u)
	case native.ConfigNumRendererThreads:
		C.ulConfigSetNumRendererThreads(c, u)
	case native.ConfigBitmapAlignment:
		C.ulConfigSetBitmapAlignment(c, u)
	}
}

func viewConfig(p ffi.Ptr) C.ULViewConfig { return as[C.ULViewConfig](p) }

func (Backend) CreateViewConfig() ffi.Ptr      { return ref(C.ulCreateViewConfig()) }
func (Backend) DestroyViewConfig(cfg ffi.Ptr) { C.ulDestroyViewConfig(viewConfig(cfg)) }

func (Backend) ViewConfigSetString(cfg ffi.Ptr, field native.ViewConfigField, s ffi.Ptr) {
	c, v := viewConfig(cfg), str(s)
	switch field {
	case native.ViewConfigFontFamilyStandard:
		C.ulViewConfigSetFontFamilyStandard(c, v)
	case native.ViewConfigFontFamilyFixed:
		C.ulViewConfigSetFontFamilyFixed(c, v)
	case native.ViewConfigFontFamilySerif:
		C.ulViewConfigSetFontFamilySerif(c, v)
	case native.ViewConfigFontFamilySansSerif:
		C.ulViewConfigSetFontFamilySansSerif(c, v)
	case native.ViewConfigUserAgent:
		C.ulViewConfigSetUserAgent(c, v)
	}
}

func (Backend) ViewConfigSetBool(cfg ffi.Ptr, field native.ViewConfigField, v bool) {
	c, b := viewConfig(cfg), C.bool(v)
	switch field {
	case native.ViewConfigIsAccelerated:
		C.ulViewConfigSetIsAccelerated(c, b)
	case native.ViewConfigIsTransparent:
		C.ulViewConfigSetIsTransparent(c, b)
	case native.ViewConfigInitialFocus:
		C.ulViewConfigSetInitialFocus(c, b)
	case native.ViewConfigEnableImages:
		C.ulViewConfigSetEnableImages(c, b)
	case native.ViewConfigEnableJavaScript:
		C.ulViewConfigSetEnableJavaScript(c, b)
	}
}

func (Backend) ViewConfigSetFloat(cfg ffi.Ptr, field native.ViewConfigField, v float64) {
	if field == native.ViewConfigInitialDeviceScale {
		C.ulViewConfigSetInitialDeviceScale(viewConfig(cfg), C.double(v))
	}
}

func (Backend) ViewConfigSetUint(cfg ffi.Ptr, field native.ViewConfigField, v uint32) {
	if field == native.ViewConfigDisplayID {
		C.ulViewConfigSetDisplayId(viewConfig(cfg), C.uint(v))
	}
}

func renderer(p ffi.Ptr) C.ULRenderer { return as[C.ULRenderer](p) }

func (Backend) CreateRenderer(cfg ffi.Ptr) ffi.Ptr { return ref(C.ulCreateRenderer(config(cfg))) }
func (Backend) DestroyRenderer(r ffi.Ptr)          { C.ulDestroyRenderer(renderer(r)) }
func (Backend) Update(r ffi.Ptr)                   { C.ulUpdate(renderer(r)) }
func (Backend) Render(r ffi.Ptr)                   { C.ulRender(renderer(r)) }
func (Backend) PurgeMemory(r ffi.Ptr)              { C.ulPurgeMemory(renderer(r)) }
func (Backend) LogMemoryUsage(r ffi.Ptr)           { C.ulLogMemoryUsage(renderer(r)) }

func (Backend) RefreshDisplay(r ffi.Ptr, displayID uint32) {
	C.ulRefreshDisplay(renderer(r), C.uint(displayID))
}

func (Backend) StartRemoteInspectorServer(r ffi.Ptr, address string, port uint16) bool {
	cs := C.CString(address)
	defer C.free(unsafe.Pointer(cs))
	return bool(C.ulStartRemoteInspectorServer(renderer(r), cs, C.ushort(port)))
}

func (Backend) SetGamepadDetails(r ffi.Ptr, index uint32, id ffi.Ptr, axisCount, buttonCount uint32) {
	C.ulSetGamepadDetails(renderer(r), C.uint(index), str(id), C.uint(axisCount), C.uint(buttonCount))
}

func (Backend) FireGamepadEvent(r ffi.Ptr, ev native.GamepadEvent) {
	e := C.ulCreateGamepadEvent(C.uint(ev.Index), C.ULGamepadEventType(ev.Type))
	defer C.ulDestroyGamepadEvent(e)
	C.ulFireGamepadEvent(renderer(r), e)
}

func (Backend) FireGamepadAxisEvent(r ffi.Ptr, ev native.GamepadAxisEvent) {
	e := C.ulCreateGamepadAxisEvent(C.uint(ev.Index), C.uint(ev.AxisIndex), C.double(ev.Value))
	defer C.ulDestroyGamepadAxisEvent(e)
	C.ulFireGamepadAxisEvent(renderer(r), e)
}

func (Backend) FireGamepadButtonEvent(r ffi.Ptr, ev native.GamepadButtonEvent) {
	e := C.ulCreateGamepadButtonEvent(C.uint(ev.Index), C.uint(ev.ButtonIndex), C.double(ev.Value))
	defer C.ulDestroyGamepadButtonEvent(e)
	C.ulFireGamepadButtonEvent(renderer(r), e)
}

func session(p ffi.Ptr) C.ULSession { return as[C.ULSession](p) }

func (Backend) CreateSession(r ffi.Ptr, persistent bool, name ffi.Ptr) ffi.Ptr {
	return ref(C.ulCreateSession(renderer(r), C.bool(persistent), str(name)))
}

func (Backend) DestroySession(s ffi.Ptr)            { C.ulDestroySession(session(s)) }
func (Backend) DefaultSession(r ffi.Ptr) ffi.Ptr    { return ref(C.ulDefaultSession(renderer(r))) }
func (Backend) SessionIsPersistent(s ffi.Ptr) bool  { return bool(C.ulSessionIsPersistent(session(s))) }
func (Backend) SessionName(s ffi.Ptr) ffi.Ptr       { return ref(C.ulSessionGetName(session(s))) }
func (Backend) SessionID(s ffi.Ptr) uint64          { return uint64(C.ulSessionGetId(session(s))) }
func (Backend) SessionDiskPath(s ffi.Ptr) ffi.Ptr   { return ref(C.ulSessionGetDiskPath(session(s))) }

func (Backend) CreateView(r ffi.Ptr, width, height uint32, cfg, sess ffi.Ptr) ffi.Ptr {
	return ref(C.ulCreateView(renderer(r), C.uint(width), C.uint(height), viewConfig(cfg), session(sess)))
}

func (Backend) DestroyView(v ffi.Ptr)               { C.ulDestroyView(view(v)) }
func (Backend) ViewURL(v ffi.Ptr) ffi.Ptr           { return ref(C.ulViewGetURL(view(v))) }
func (Backend) ViewTitle(v ffi.Ptr) ffi.Ptr         { return ref(C.ulViewGetTitle(view(v))) }
func (Backend) ViewWidth(v ffi.Ptr) uint32          { return uint32(C.ulViewGetWidth(view(v))) }
func (Backend) ViewHeight(v ffi.Ptr) uint32         { return uint32(C.ulViewGetHeight(view(v))) }
func (Backend) ViewDisplayID(v ffi.Ptr) uint32      { return uint32(C.ulViewGetDisplayId(view(v))) }
func (Backend) ViewSetDisplayID(v ffi.Ptr, id uint32) { C.ulViewSetDisplayId(view(v), C.uint(id)) }
func (Backend) ViewDeviceScale(v ffi.Ptr) float64   { return float64(C.ulViewGetDeviceScale(view(v))) }
func (Backend) ViewSetDeviceScale(v ffi.Ptr, scale float64) {
	C.ulViewSetDeviceScale(view(v), C.double(scale))
}
func (Backend) ViewIsAccelerated(v ffi.Ptr) bool { return bool(C.ulViewIsAccelerated(view(v))) }
func (Backend) ViewIsTransparent(v ffi.Ptr) bool { return bool(C.ulViewIsTransparent(view(v))) }
func (Backend) ViewIsLoading(v ffi.Ptr) bool     { return bool(C.ulViewIsLoading(view(v))) }

func (Backend) ViewRenderTarget(v ffi.Ptr) native.RenderTarget {
	rt := C.ulViewGetRenderTarget(view(v))
	return native.RenderTarget{
		IsEmpty:       bool(rt.is_empty),
		Width:         uint32(rt.width),
		Height:        uint32(rt.height),
		TextureID:     uint32(rt.texture_id),
		TextureWidth:  uint32(rt.texture_width),
		TextureHeight: uint32(rt.texture_height),
		TextureFormat: int32(rt.texture_format),
		UVCoords: native.Rect{
			Left:   float32(rt.uv_coords.left),
			Top:    float32(rt.uv_coords.top),
			Right:  float32(rt.uv_coords.right),
			Bottom: float32(rt.uv_coords.bottom),
		},
		RenderBufferID: uint32(rt.render_buffer_id),
	}
}

func (Backend) ViewSurface(v ffi.Ptr) ffi.Ptr { return ref(C.ulViewGetSurface(view(v))) }
func (Backend) ViewLoadHTML(v, html ffi.Ptr)  { C.ulViewLoadHTML(view(v), str(html)) }
func (Backend) ViewLoadURL(v, url ffi.Ptr)    { C.ulViewLoadURL(view(v), str(url)) }

func (Backend) ViewResize(v ffi.Ptr, width, height uint32) {
	C.ulViewResize(view(v), C.uint(width), C.uint(height))
}

func (Backend) ViewLockJSContext(v ffi.Ptr) ffi.Ptr { return ref(C.ulViewLockJSContext(view(v))) }
func (Backend) ViewUnlockJSContext(v ffi.Ptr)       { C.ulViewUnlockJSContext(view(v)) }

func (Backend) ViewEvaluateScript(v, script ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	var exc C.ULString
	res := C.ulViewEvaluateScript(view(v), str(script), &exc)
	return ref(res), ref(exc)
}

func (Backend) ViewCanGoBack(v ffi.Ptr) bool    { return bool(C.ulViewCanGoBack(view(v))) }
func (Backend) ViewCanGoForward(v ffi.Ptr) bool { return bool(C.ulViewCanGoForward(view(v))) }
func (Backend) ViewGoBack(v ffi.Ptr)            { C.ulViewGoBack(view(v)) }
func (Backend) ViewGoForward(v ffi.Ptr)         { C.ulViewGoForward(view(v)) }
func (Backend) ViewGoToHistoryOffset(v ffi.Ptr, offset int32) {
	C.ulViewGoToHistoryOffset(view(v), C.int(offset))
}
func (Backend) ViewReload(v ffi.Ptr)            { C.ulViewReload(view(v)) }
func (Backend) ViewStop(v ffi.Ptr)              { C.ulViewStop(view(v)) }
func (Backend) ViewFocus(v ffi.Ptr)             { C.ulViewFocus(view(v)) }
func (Backend) ViewUnfocus(v ffi.Ptr)           { C.ulViewUnfocus(view(v)) }
func (Backend) ViewHasFocus(v ffi.Ptr) bool     { return bool(C.ulViewHasFocus(view(v))) }
func (Backend) ViewHasInputFocus(v ffi.Ptr) bool { return bool(C.ulViewHasInputFocus(view(v))) }

func (Backend) ViewFireKeyEvent(v ffi.Ptr, ev native.KeyEvent) {
	text, unmod := newString(ev.Text), newString(ev.UnmodifiedText)
	defer C.ulDestroyString(str(text))
	defer C.ulDestroyString(str(unmod))
	e := C.ulCreateKeyEvent(C.ULKeyEventType(ev.Type), C.uint(ev.Modifiers),
		C.int(ev.VirtualKeyCode), C.int(ev.NativeKeyCode), str(text), str(unmod),
		C.bool(ev.IsKeypad), C.bool(ev.IsAutoRepeat), C.bool(ev.IsSystemKey))
	defer C.ulDestroyKeyEvent(e)
	C.ulViewFireKeyEvent(view(v), e)
}

func (Backend) ViewFireMouseEvent(v ffi.Ptr, ev native.MouseEvent) {
	e := C.ulCreateMouseEvent(C.ULMouseEventType(ev.Type), C.int(ev.X), C.int(ev.Y), C.ULMouseButton(ev.Button))
	defer C.ulDestroyMouseEvent(e)
	C.ulViewFireMouseEvent(view(v), e)
}

func (Backend) ViewFireScrollEvent(v ffi.Ptr, ev native.ScrollEvent) {
	e := C.ulCreateScrollEvent(C.ULScrollEventType(ev.Type), C.int(ev.DeltaX), C.int(ev.DeltaY))
	defer C.ulDestroyScrollEvent(e)
	C.ulViewFireScrollEvent(view(v), e)
}

func (Backend) ViewSetNeedsPaint(v ffi.Ptr, needs bool) { C.ulViewSetNeedsPaint(view(v), C.bool(needs)) }
func (Backend) ViewNeedsPaint(v ffi.Ptr) bool           { return bool(C.ulViewGetNeedsPaint(view(v))) }
func (Backend) ViewCreateLocalInspectorView(v ffi.Ptr)  { C.ulViewCreateLocalInspectorView(view(v)) }

func (Backend) ViewSetCallback(v ffi.Ptr, kind native.ViewCallback, token uintptr) {
	C.ul2_view_set_callback(view(v), C.int(kind), C.uintptr_t(token))
}

func bitmap(p ffi.Ptr) C.ULBitmap { return as[C.ULBitmap](p) }

func (Backend) CreateEmptyBitmap() ffi.Ptr { return ref(C.ulCreateEmptyBitmap()) }

func (Backend) CreateBitmap(width, height uint32, format int32) ffi.Ptr {
	return ref(C.ulCreateBitmap(C.uint(width), C.uint(height), C.ULBitmapFormat(format)))
}

func (Backend) CreateBitmapFromPixels(width, height uint32, format int32, rowBytes uint32, pixels []byte) ffi.Ptr {
	return ref(C.ulCreateBitmapFromPixels(C.uint(width), C.uint(height), C.ULBitmapFormat(format),
		C.uint(rowBytes), bytesPtr(pixels), C.size_t(len(pixels)), C.bool(true)))
}

func (Backend) CreateBitmapFromCopy(b ffi.Ptr) ffi.Ptr { return ref(C.ulCreateBitmapFromCopy(bitmap(b))) }
func (Backend) DestroyBitmap(b ffi.Ptr)                { C.ulDestroyBitmap(bitmap(b)) }
func (Backend) BitmapWidth(b ffi.Ptr) uint32           { return uint32(C.ulBitmapGetWidth(bitmap(b))) }
func (Backend) BitmapHeight(b ffi.Ptr) uint32          { return uint32(C.ulBitmapGetHeight(bitmap(b))) }
func (Backend) BitmapFormat(b ffi.Ptr) int32           { return int32(C.ulBitmapGetFormat(bitmap(b))) }
func (Backend) BitmapBPP(b ffi.Ptr) uint32             { return uint32(C.ulBitmapGetBpp(bitmap(b))) }
func (Backend) BitmapRowBytes(b ffi.Ptr) uint32        { return uint32(C.ulBitmapGetRowBytes(bitmap(b))) }
func (Backend) BitmapSize(b ffi.Ptr) uint64            { return uint64(C.ulBitmapGetSize(bitmap(b))) }
func (Backend) BitmapOwnsPixels(b ffi.Ptr) bool        { return bool(C.ulBitmapOwnsPixels(bitmap(b))) }
func (Backend) BitmapLockPixels(b ffi.Ptr) unsafe.Pointer {
	return C.ulBitmapLockPixels(bitmap(b))
}
func (Backend) BitmapUnlockPixels(b ffi.Ptr)        { C.ulBitmapUnlockPixels(bitmap(b)) }
func (Backend) BitmapIsEmpty(b ffi.Ptr) bool        { return bool(C.ulBitmapIsEmpty(bitmap(b))) }
func (Backend) BitmapErase(b ffi.Ptr)               { C.ulBitmapErase(bitmap(b)) }
func (Backend) BitmapSwapRedBlueChannels(b ffi.Ptr) { C.ulBitmapSwapRedBlueChannels(bitmap(b)) }

func (Backend) BitmapWritePNG(b ffi.Ptr, path string) bool {
	cs := C.CString(path)
	defer C.free(unsafe.Pointer(cs))
	return bool(C.ulBitmapWritePNG(bitmap(b), cs))
}

func surface(p ffi.Ptr) C.ULSurface { return as[C.ULSurface](p) }

func (Backend) SurfaceWidth(s ffi.Ptr) uint32    { return uint32(C.ulSurfaceGetWidth(surface(s))) }
func (Backend) SurfaceHeight(s ffi.Ptr) uint32   { return uint32(C.ulSurfaceGetHeight(surface(s))) }
func (Backend) SurfaceRowBytes(s ffi.Ptr) uint32 { return uint32(C.ulSurfaceGetRowBytes(surface(s))) }
func (Backend) SurfaceSize(s ffi.Ptr) uint64     { return uint64(C.ulSurfaceGetSize(surface(s))) }
func (Backend) SurfaceLockPixels(s ffi.Ptr) unsafe.Pointer {
	return C.ulSurfaceLockPixels(surface(s))
}
func (Backend) SurfaceUnlockPixels(s ffi.Ptr) { C.ulSurfaceUnlockPixels(surface(s)) }

func (Backend) SurfaceResize(s ffi.Ptr, width, height uint32) {
	C.ulSurfaceResize(surface(s), C.uint(width), C.uint(height))
}

func (Backend) SurfaceSetDirtyBounds(s ffi.Ptr, b native.IntRect) {
	C.ulSurfaceSetDirtyBounds(surface(s), C.ULIntRect{
		left: C.int(b.Left), top: C.int(b.Top), right: C.int(b.Right), bottom: C.int(b.Bottom),
	})
}

func (Backend) SurfaceDirtyBounds(s ffi.Ptr) native.IntRect {
	b := C.ulSurfaceGetDirtyBounds(surface(s))
	return native.IntRect{Left: int32(b.left), Top: int32(b.top), Right: int32(b.right), Bottom: int32(b.bottom)}
}

func (Backend) SurfaceClearDirtyBounds(s ffi.Ptr) { C.ulSurfaceClearDirtyBounds(surface(s)) }

func (Backend) BitmapSurfaceBitmap(s ffi.Ptr) ffi.Ptr {
	return ref(C.ulBitmapSurfaceGetBitmap(as[C.ULBitmapSurface](s)))
}

func buffer(p ffi.Ptr) C.ULBuffer { return as[C.ULBuffer](p) }

func (Backend) CreateBufferFromCopy(data []byte) ffi.Ptr {
	return ref(C.ulCreateBufferFromCopy(bytesPtr(data), C.size_t(len(data))))
}

func (Backend) DestroyBuffer(b ffi.Ptr)                { C.ulDestroyBuffer(buffer(b)) }
func (Backend) BufferData(b ffi.Ptr) unsafe.Pointer    { return C.ulBufferGetData(buffer(b)) }
func (Backend) BufferSize(b ffi.Ptr) uint64            { return uint64(C.ulBufferGetSize(buffer(b))) }
func (Backend) BufferOwnsData(b ffi.Ptr) bool          { return bool(C.ulBufferOwnsData(buffer(b))) }

func (Backend) PlatformSetLogger(token uintptr)     { C.ul2_platform_set_logger(C.uintptr_t(token)) }
func (Backend) PlatformSetFileSystem(token uintptr) { C.ul2_platform_set_file_system(C.uintptr_t(token)) }
func (Backend) PlatformSetClipboard(token uintptr)  { C.ul2_platform_set_clipboard(C.uintptr_t(token)) }
