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

func settings(p ffi.Ptr) C.ULSettings { return as[C.ULSettings](p) }
func app(p ffi.Ptr) C.ULApp           { return as[C.ULApp](p) }
func window(p ffi.Ptr) C.ULWindow     { return as[C.ULWindow](p) }
func overlay(p ffi.Ptr) C.ULOverlay   { return as[C.ULOverlay](p) }
func monitor(p ffi.Ptr) C.ULMonitor   { return as[C.ULMonitor](p) }

func (Backend) CreateSettings() ffi.Ptr    { return ref(C.ulCreateSettings()) }
func (Backend) DestroySettings(s ffi.Ptr) { C.ulDestroySettings(settings(s)) }

func (Backend) SettingsSetDeveloperName(s, name ffi.Ptr) {
	C.ulSettingsSetDeveloperName(settings(s), str(name))
}

func (Backend) SettingsSetAppName(s, name ffi.Ptr) { C.ulSettingsSetAppName(settings(s), str(name)) }

func (Backend) SettingsSetFileSystemPath(s, path ffi.Ptr) {
	C.ulSettingsSetFileSystemPath(settings(s), str(path))
}

func (Backend) SettingsSetLoadShadersFromFileSystem(s ffi.Ptr, enabled bool) {
	C.ulSettingsSetLoadShadersFromFileSystem(settings(s), C.bool(enabled))
}

func (Backend) SettingsSetForceCPURenderer(s ffi.Ptr, force bool) {
	C.ulSettingsSetForceCPURenderer(settings(s), C.bool(force))
}

func (Backend) CreateApp(s, cfg ffi.Ptr) ffi.Ptr { return ref(C.ulCreateApp(settings(s), config(cfg))) }
func (Backend) DestroyApp(a ffi.Ptr)             { C.ulDestroyApp(app(a)) }

func (Backend) AppSetUpdateCallback(a ffi.Ptr, token uintptr) {
	C.ul2_app_set_update_callback(app(a), C.uintptr_t(token))
}

func (Backend) AppIsRunning(a ffi.Ptr) bool       { return bool(C.ulAppIsRunning(app(a))) }
func (Backend) AppMainMonitor(a ffi.Ptr) ffi.Ptr  { return ref(C.ulAppGetMainMonitor(app(a))) }
func (Backend) AppRenderer(a ffi.Ptr) ffi.Ptr     { return ref(C.ulAppGetRenderer(app(a))) }
func (Backend) AppRun(a ffi.Ptr)                  { C.ulAppRun(app(a)) }
func (Backend) AppQuit(a ffi.Ptr)                 { C.ulAppQuit(app(a)) }

func (Backend) MonitorScale(m ffi.Ptr) float64  { return float64(C.ulMonitorGetScale(monitor(m))) }
func (Backend) MonitorWidth(m ffi.Ptr) uint32   { return uint32(C.ulMonitorGetWidth(monitor(m))) }
func (Backend) MonitorHeight(m ffi.Ptr) uint32  { return uint32(C.ulMonitorGetHeight(monitor(m))) }

func (Backend) CreateWindow(m ffi.Ptr, width, height uint32, fullscreen bool, flags uint32) ffi.Ptr {
	return ref(C.ulCreateWindow(monitor(m), C.uint(width), C.uint(height), C.bool(fullscreen), C.uint(flags)))
}

func (Backend) DestroyWindow(w ffi.Ptr) { C.ulDestroyWindow(window(w)) }

func (Backend) WindowSetCallback(w ffi.Ptr, kind native.WindowCallback, token uintptr) {
	C.ul2_window_set_callback(window(w), C.int(kind), C.uintptr_t(token))
}

func (Backend) WindowScreenWidth(w ffi.Ptr) uint32  { return uint32(C.ulWindowGetScreenWidth(window(w))) }
func (Backend) WindowWidth(w ffi.Ptr) uint32        { return uint32(C.ulWindowGetWidth(window(w))) }
func (Backend) WindowScreenHeight(w ffi.Ptr) uint32 { return uint32(C.ulWindowGetScreenHeight(window(w))) }
func (Backend) WindowHeight(w ffi.Ptr) uint32       { return uint32(C.ulWindowGetHeight(window(w))) }
func (Backend) WindowMoveTo(w ffi.Ptr, x, y int32)  { C.ulWindowMoveTo(window(w), C.int(x), C.int(y)) }
func (Backend) WindowMoveToCenter(w ffi.Ptr)        { C.ulWindowMoveToCenter(window(w)) }
func (Backend) WindowX(w ffi.Ptr) int32             { return int32(C.ulWindowGetPositionX(window(w))) }
func (Backend) WindowY(w ffi.Ptr) int32             { return int32(C.ulWindowGetPositionY(window(w))) }
func (Backend) WindowIsFullscreen(w ffi.Ptr) bool   { return bool(C.ulWindowIsFullscreen(window(w))) }
func (Backend) WindowScale(w ffi.Ptr) float64       { return float64(C.ulWindowGetScale(window(w))) }

func (Backend) WindowSetTitle(w ffi.Ptr, title string) {
	cs := C.CString(title)
	defer C.free(unsafe.Pointer(cs))
	C.ulWindowSetTitle(window(w), cs)
}

func (Backend) WindowSetCursor(w ffi.Ptr, cursor int32) {
	C.ulWindowSetCursor(window(w), C.ULCursor(cursor))
}

func (Backend) WindowShow(w ffi.Ptr)           { C.ulWindowShow(window(w)) }
func (Backend) WindowHide(w ffi.Ptr)           { C.ulWindowHide(window(w)) }
func (Backend) WindowIsVisible(w ffi.Ptr) bool { return bool(C.ulWindowIsVisible(window(w))) }
func (Backend) WindowClose(w ffi.Ptr)          { C.ulWindowClose(window(w)) }

func (Backend) WindowScreenToPixels(w ffi.Ptr, v int32) int32 {
	return int32(C.ulWindowScreenToPixels(window(w), C.int(v)))
}

func (Backend) WindowPixelsToScreen(w ffi.Ptr, v int32) int32 {
	return int32(C.ulWindowPixelsToScreen(window(w), C.int(v)))
}

func (Backend) WindowNativeHandle(w ffi.Ptr) ffi.Ptr {
	return addr(C.ulWindowGetNativeHandle(window(w)))
}

func (Backend) CreateOverlay(w ffi.Ptr, width, height uint32, x, y int32) ffi.Ptr {
	return ref(C.ulCreateOverlay(window(w), C.uint(width), C.uint(height), C.int(x), C.int(y)))
}

func (Backend) CreateOverlayWithView(w, v ffi.Ptr, x, y int32) ffi.Ptr {
	return ref(C.ulCreateOverlayWithView(window(w), view(v), C.int(x), C.int(y)))
}

func (Backend) DestroyOverlay(o ffi.Ptr)            { C.ulDestroyOverlay(overlay(o)) }
func (Backend) OverlayView(o ffi.Ptr) ffi.Ptr       { return ref(C.ulOverlayGetView(overlay(o))) }
func (Backend) OverlayWidth(o ffi.Ptr) uint32       { return uint32(C.ulOverlayGetWidth(overlay(o))) }
func (Backend) OverlayHeight(o ffi.Ptr) uint32      { return uint32(C.ulOverlayGetHeight(overlay(o))) }
func (Backend) OverlayX(o ffi.Ptr) int32            { return int32(C.ulOverlayGetX(overlay(o))) }
func (Backend) OverlayY(o ffi.Ptr) int32            { return int32(C.ulOverlayGetY(overlay(o))) }
func (Backend) OverlayMoveTo(o ffi.Ptr, x, y int32) { C.ulOverlayMoveTo(overlay(o), C.int(x), C.int(y)) }

func (Backend) OverlayResize(o ffi.Ptr, width, height uint32) {
	C.ulOverlayResize(overlay(o), C.uint(width), C.uint(height))
}

func (Backend) OverlayIsHidden(o ffi.Ptr) bool { return bool(C.ulOverlayIsHidden(overlay(o))) }
func (Backend) OverlayHide(o ffi.Ptr)          { C.ulOverlayHide(overlay(o)) }
func (Backend) OverlayShow(o ffi.Ptr)          { C.ulOverlayShow(overlay(o)) }
func (Backend) OverlayHasFocus(o ffi.Ptr) bool { return bool(C.ulOverlayHasFocus(overlay(o))) }
func (Backend) OverlayFocus(o ffi.Ptr)         { C.ulOverlayFocus(overlay(o)) }
func (Backend) OverlayUnfocus(o ffi.Ptr)       { C.ulOverlayUnfocus(overlay(o)) }

func (Backend) EnablePlatformFontLoader()             { C.ulEnablePlatformFontLoader() }
func (Backend) EnablePlatformFileSystem(dir ffi.Ptr)  { C.ulEnablePlatformFileSystem(str(dir)) }
func (Backend) EnableDefaultLogger(logPath ffi.Ptr)   { C.ulEnableDefaultLogger(str(logPath)) }
