package native

import "github.com/19h/ul2/ffi"

// WindowCallback selects one ulWindowSet*Callback function.
type WindowCallback int

const (
	WindowClose WindowCallback = iota
	WindowResize
)

// String returns the callback kind used for slots and metrics.
func (k WindowCallback) String() string {
	switch k {
	case WindowClose:
		return "window.close"
	case WindowResize:
		return "window.resize"
	}
	return "window.unknown"
}

// AppCore is the AppCore C API.
type AppCore interface {
	CreateSettings() ffi.Ptr
	DestroySettings(s ffi.Ptr)
	SettingsSetDeveloperName(s, name ffi.Ptr)
	SettingsSetAppName(s, name ffi.Ptr)
	SettingsSetFileSystemPath(s, path ffi.Ptr)
	SettingsSetLoadShadersFromFileSystem(s ffi.Ptr, enabled bool)
	SettingsSetForceCPURenderer(s ffi.Ptr, force bool)

	CreateApp(settings, config ffi.Ptr) ffi.Ptr
	DestroyApp(app ffi.Ptr)
	AppSetUpdateCallback(app ffi.Ptr, token uintptr)
	AppIsRunning(app ffi.Ptr) bool
	AppMainMonitor(app ffi.Ptr) ffi.Ptr
	AppRenderer(app ffi.Ptr) ffi.Ptr
	AppRun(app ffi.Ptr)
	AppQuit(app ffi.Ptr)

	MonitorScale(m ffi.Ptr) float64
	MonitorWidth(m ffi.Ptr) uint32
	MonitorHeight(m ffi.Ptr) uint32

	CreateWindow(monitor ffi.Ptr, width, height uint32, fullscreen bool, flags uint32) ffi.Ptr
	DestroyWindow(w ffi.Ptr)
	WindowSetCallback(w ffi.Ptr, kind WindowCallback, token uintptr)
	WindowScreenWidth(w ffi.Ptr) uint32
	WindowWidth(w ffi.Ptr) uint32
	WindowScreenHeight(w ffi.Ptr) uint32
	WindowHeight(w ffi.Ptr) uint32
	WindowMoveTo(w ffi.Ptr, x, y int32)
	WindowMoveToCenter(w ffi.Ptr)
	WindowX(w ffi.Ptr) int32
	WindowY(w ffi.Ptr) int32
	WindowIsFullscreen(w ffi.Ptr) bool
	WindowScale(w ffi.Ptr) float64
	WindowSetTitle(w ffi.Ptr, title string)
	WindowSetCursor(w ffi.Ptr, cursor int32)
	WindowShow(w ffi.Ptr)
	WindowHide(w ffi.Ptr)
	WindowIsVisible(w ffi.Ptr) bool
	WindowClose(w ffi.Ptr)
	WindowScreenToPixels(w ffi.Ptr, v int32) int32
	WindowPixelsToScreen(w ffi.Ptr, v int32) int32
	WindowNativeHandle(w ffi.Ptr) ffi.Ptr

	CreateOverlay(w ffi.Ptr, width, height uint32, x, y int32) ffi.Ptr
	CreateOverlayWithView(w, view ffi.Ptr, x, y int32) ffi.Ptr
	DestroyOverlay(o ffi.Ptr)
	OverlayView(o ffi.Ptr) ffi.Ptr
	OverlayWidth(o ffi.Ptr) uint32
	OverlayHeight(o ffi.Ptr) uint32
	OverlayX(o ffi.Ptr) int32
	OverlayY(o ffi.Ptr) int32
	OverlayMoveTo(o ffi.Ptr, x, y int32)
	OverlayResize(o ffi.Ptr, width, height uint32)
	OverlayIsHidden(o ffi.Ptr) bool
	OverlayHide(o ffi.Ptr)
	OverlayShow(o ffi.Ptr)
	OverlayHasFocus(o ffi.Ptr) bool
	OverlayFocus(o ffi.Ptr)
	OverlayUnfocus(o ffi.Ptr)

	EnablePlatformFontLoader()
	EnablePlatformFileSystem(baseDir ffi.Ptr)
	EnableDefaultLogger(logPath ffi.Ptr)
}
