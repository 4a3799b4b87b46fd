package native

import (
	"unsafe"

	"github.com/19h/ul2/ffi"
)

// IntRect mirrors ULIntRect.
type IntRect struct {
	Left, Top, Right, Bottom int32
}

// Rect mirrors ULRect.
type Rect struct {
	Left, Top, Right, Bottom float32
}

// RenderTarget mirrors ULRenderTarget.
type RenderTarget struct {
	IsEmpty        bool
	Width          uint32
	Height         uint32
	TextureID      uint32
	TextureWidth   uint32
	TextureHeight  uint32
	TextureFormat  int32
	UVCoords       Rect
	RenderBufferID uint32
}

// KeyEvent carries the arguments of ulCreateKeyEvent. The backend creates
// the native event, fires it and destroys it.
type KeyEvent struct {
	Type           int32
	Modifiers      uint32
	VirtualKeyCode int32
	NativeKeyCode  int32
	Text           string
	UnmodifiedText string
	IsKeypad       bool
	IsAutoRepeat   bool
	IsSystemKey    bool
}

// MouseEvent carries the arguments of ulCreateMouseEvent.
type MouseEvent struct {
	Type   int32
	X, Y   int32
	Button int32
}

// ScrollEvent carries the arguments of ulCreateScrollEvent.
type ScrollEvent struct {
	Type   int32
	DeltaX int32
	DeltaY int32
}

// GamepadEvent carries the arguments of ulCreateGamepadEvent.
type GamepadEvent struct {
	Index uint32
	Type  int32
}

// GamepadAxisEvent carries the arguments of ulCreateGamepadAxisEvent.
type GamepadAxisEvent struct {
	Index     uint32
	AxisIndex uint32
	Value     float64
}

// GamepadButtonEvent carries the arguments of ulCreateGamepadButtonEvent.
type GamepadButtonEvent struct {
	Index       uint32
	ButtonIndex uint32
	Value       float64
}

// ConfigField selects one ulConfigSet* function.
type ConfigField int

const (
	ConfigCachePath ConfigField = iota
	ConfigResourcePathPrefix
	ConfigFaceWinding
	ConfigFontHinting
	ConfigFontGamma
	ConfigUserStylesheet
	ConfigForceRepaint
	ConfigAnimationTimerDelay
	ConfigScrollTimerDelay
	ConfigRecycleDelay
	ConfigMemoryCacheSize
	ConfigPageCacheSize
	ConfigOverrideRAMSize
	ConfigMinLargeHeapSize
	ConfigMinSmallHeapSize
	ConfigNumRendererThreads
	ConfigMaxUpdateTime
	ConfigBitmapAlignment
)

var configFieldNames = [...]string{
	"CachePath", "ResourcePathPrefix", "FaceWinding", "FontHinting", "FontGamma",
	"UserStylesheet", "ForceRepaint", "AnimationTimerDelay", "ScrollTimerDelay",
	"RecycleDelay", "MemoryCacheSize", "PageCacheSize", "OverrideRAMSize",
	"MinLargeHeapSize", "MinSmallHeapSize", "NumRendererThreads", "MaxUpdateTime",
	"BitmapAlignment",
}

// String returns the setter name the field maps to.
func (f ConfigField) String() string {
	if int(f) < len(configFieldNames) {
		return configFieldNames[f]
	}
	return "ConfigField(?)"
}

// ViewConfigField selects one ulViewConfigSet* function.
type ViewConfigField int

const (
	ViewConfigDisplayID ViewConfigField = iota
	ViewConfigIsAccelerated
	ViewConfigIsTransparent
	ViewConfigInitialDeviceScale
	ViewConfigInitialFocus
	ViewConfigEnableImages
	ViewConfigEnableJavaScript
	ViewConfigFontFamilyStandard
	ViewConfigFontFamilyFixed
	ViewConfigFontFamilySerif
	ViewConfigFontFamilySansSerif
	ViewConfigUserAgent
)

var viewConfigFieldNames = [...]string{
	"DisplayID", "IsAccelerated", "IsTransparent", "InitialDeviceScale", "InitialFocus",
	"EnableImages", "EnableJavaScript", "FontFamilyStandard", "FontFamilyFixed",
	"FontFamilySerif", "FontFamilySansSerif", "UserAgent",
}

// String returns the setter name the field maps to.
func (f ViewConfigField) String() string {
	if int(f) < len(viewConfigFieldNames) {
		return viewConfigFieldNames[f]
	}
	return "ViewConfigField(?)"
}

// ViewCallback selects one ulViewSet*Callback function.
type ViewCallback int

const (
	ViewChangeTitle ViewCallback = iota
	ViewChangeURL
	ViewChangeTooltip
	ViewChangeCursor
	ViewAddConsoleMessage
	ViewCreateChildView
	ViewCreateInspectorView
	ViewBeginLoading
	ViewFinishLoading
	ViewFailLoading
	ViewWindowObjectReady
	ViewDOMReady
	ViewUpdateHistory

	numViewCallbacks
)

// NumViewCallbacks is the number of per-view callback kinds.
const NumViewCallbacks = int(numViewCallbacks)

var viewCallbackNames = [...]string{
	"view.change_title", "view.change_url", "view.change_tooltip", "view.change_cursor",
	"view.add_console_message", "view.create_child_view", "view.create_inspector_view",
	"view.begin_loading", "view.finish_loading", "view.fail_loading",
	"view.window_object_ready", "view.dom_ready", "view.update_history",
}

// String returns the callback kind used for slots and metrics.
func (k ViewCallback) String() string {
	if int(k) < len(viewCallbackNames) {
		return viewCallbackNames[k]
	}
	return "view.unknown"
}

// UL is the Ultralight core C API.
type UL interface {
	VersionString() string

	CreateString(s string) ffi.Ptr
	CreateStringUTF16(s []uint16) ffi.Ptr
	CreateStringFromCopy(s ffi.Ptr) ffi.Ptr
	DestroyString(s ffi.Ptr)
	StringData(s ffi.Ptr) string
	StringLength(s ffi.Ptr) int
	StringIsEmpty(s ffi.Ptr) bool
	StringAssign(dst, src ffi.Ptr)

	CreateConfig() ffi.Ptr
	DestroyConfig(cfg ffi.Ptr)
	ConfigSetString(cfg ffi.Ptr, field ConfigField, s ffi.Ptr)
	ConfigSetBool(cfg ffi.Ptr, field ConfigField, v bool)
	ConfigSetFloat(cfg ffi.Ptr, field ConfigField, v float64)
	ConfigSetUint(cfg ffi.Ptr, field ConfigField, v uint32)

	CreateViewConfig() ffi.Ptr
	DestroyViewConfig(cfg ffi.Ptr)
	ViewConfigSetString(cfg ffi.Ptr, field ViewConfigField, s ffi.Ptr)
	ViewConfigSetBool(cfg ffi.Ptr, field ViewConfigField, v bool)
	ViewConfigSetFloat(cfg ffi.Ptr, field ViewConfigField, v float64)
	ViewConfigSetUint(cfg ffi.Ptr, field ViewConfigField, v uint32)

	CreateRenderer(cfg ffi.Ptr) ffi.Ptr
	DestroyRenderer(r ffi.Ptr)
	Update(r ffi.Ptr)
	RefreshDisplay(r ffi.Ptr, displayID uint32)
	Render(r ffi.Ptr)
	PurgeMemory(r ffi.Ptr)
	LogMemoryUsage(r ffi.Ptr)
	StartRemoteInspectorServer(r ffi.Ptr, address string, port uint16) bool
	SetGamepadDetails(r ffi.Ptr, index uint32, id ffi.Ptr, axisCount, buttonCount uint32)
	FireGamepadEvent(r ffi.Ptr, ev GamepadEvent)
	FireGamepadAxisEvent(r ffi.Ptr, ev GamepadAxisEvent)
	FireGamepadButtonEvent(r ffi.Ptr, ev GamepadButtonEvent)

	CreateSession(r ffi.Ptr, persistent bool, name ffi.Ptr) ffi.Ptr
	DestroySession(s ffi.Ptr)
	DefaultSession(r ffi.Ptr) ffi.Ptr
	SessionIsPersistent(s ffi.Ptr) bool
	SessionName(s ffi.Ptr) ffi.Ptr
	SessionID(s ffi.Ptr) uint64
	SessionDiskPath(s ffi.Ptr) ffi.Ptr

	CreateView(r ffi.Ptr, width, height uint32, cfg, session ffi.Ptr) ffi.Ptr
	DestroyView(v ffi.Ptr)
	ViewURL(v ffi.Ptr) ffi.Ptr
	ViewTitle(v ffi.Ptr) ffi.Ptr
	ViewWidth(v ffi.Ptr) uint32
	ViewHeight(v ffi.Ptr) uint32
	ViewDisplayID(v ffi.Ptr) uint32
	ViewSetDisplayID(v ffi.Ptr, id uint32)
	ViewDeviceScale(v ffi.Ptr) float64
	ViewSetDeviceScale(v ffi.Ptr, scale float64)
	ViewIsAccelerated(v ffi.Ptr) bool
	ViewIsTransparent(v ffi.Ptr) bool
	ViewIsLoading(v ffi.Ptr) bool
	ViewRenderTarget(v ffi.Ptr) RenderTarget
	ViewSurface(v ffi.Ptr) ffi.Ptr
	ViewLoadHTML(v, html ffi.Ptr)
	ViewLoadURL(v, url ffi.Ptr)
	ViewResize(v ffi.Ptr, width, height uint32)
	ViewLockJSContext(v ffi.Ptr) ffi.Ptr
	ViewUnlockJSContext(v ffi.Ptr)
	// ViewEvaluateScript returns the result string and, if the script threw,
	// a non-null exception string. Both are owned by the view.
	ViewEvaluateScript(v, script ffi.Ptr) (result, exception ffi.Ptr)
	ViewCanGoBack(v ffi.Ptr) bool
	ViewCanGoForward(v ffi.Ptr) bool
	ViewGoBack(v ffi.Ptr)
	ViewGoForward(v ffi.Ptr)
	ViewGoToHistoryOffset(v ffi.Ptr, offset int32)
	ViewReload(v ffi.Ptr)
	ViewStop(v ffi.Ptr)
	ViewFocus(v ffi.Ptr)
	ViewUnfocus(v ffi.Ptr)
	ViewHasFocus(v ffi.Ptr) bool
	ViewHasInputFocus(v ffi.Ptr) bool
	ViewFireKeyEvent(v ffi.Ptr, ev KeyEvent)
	ViewFireMouseEvent(v ffi.Ptr, ev MouseEvent)
	ViewFireScrollEvent(v ffi.Ptr, ev ScrollEvent)
	ViewSetNeedsPaint(v ffi.Ptr, needs bool)
	ViewNeedsPaint(v ffi.Ptr) bool
	ViewCreateLocalInspectorView(v ffi.Ptr)
	// ViewSetCallback installs the trampoline for kind with token as user
	// data, or clears it when token is zero.
	ViewSetCallback(v ffi.Ptr, kind ViewCallback, token uintptr)

	CreateEmptyBitmap() ffi.Ptr
	CreateBitmap(width, height uint32, format int32) ffi.Ptr
	CreateBitmapFromPixels(width, height uint32, format int32, rowBytes uint32, pixels []byte) ffi.Ptr
	CreateBitmapFromCopy(b ffi.Ptr) ffi.Ptr
	DestroyBitmap(b ffi.Ptr)
	BitmapWidth(b ffi.Ptr) uint32
	BitmapHeight(b ffi.Ptr) uint32
	BitmapFormat(b ffi.Ptr) int32
	BitmapBPP(b ffi.Ptr) uint32
	BitmapRowBytes(b ffi.Ptr) uint32
	BitmapSize(b ffi.Ptr) uint64
	BitmapOwnsPixels(b ffi.Ptr) bool
	BitmapLockPixels(b ffi.Ptr) unsafe.Pointer
	BitmapUnlockPixels(b ffi.Ptr)
	BitmapIsEmpty(b ffi.Ptr) bool
	BitmapErase(b ffi.Ptr)
	BitmapWritePNG(b ffi.Ptr, path string) bool
	BitmapSwapRedBlueChannels(b ffi.Ptr)

	SurfaceWidth(s ffi.Ptr) uint32
	SurfaceHeight(s ffi.Ptr) uint32
	SurfaceRowBytes(s ffi.Ptr) uint32
	SurfaceSize(s ffi.Ptr) uint64
	SurfaceLockPixels(s ffi.Ptr) unsafe.Pointer
	SurfaceUnlockPixels(s ffi.Ptr)
	SurfaceResize(s ffi.Ptr, width, height uint32)
	SurfaceSetDirtyBounds(s ffi.Ptr, bounds IntRect)
	SurfaceDirtyBounds(s ffi.Ptr) IntRect
	SurfaceClearDirtyBounds(s ffi.Ptr)
	BitmapSurfaceBitmap(s ffi.Ptr) ffi.Ptr

	CreateBufferFromCopy(data []byte) ffi.Ptr
	DestroyBuffer(b ffi.Ptr)
	BufferData(b ffi.Ptr) unsafe.Pointer
	BufferSize(b ffi.Ptr) uint64
	BufferOwnsData(b ffi.Ptr) bool

	// The platform hooks take no user data in the C API; the backend keeps
	// the token process-wide and clears the hook when it is zero.
	PlatformSetLogger(token uintptr)
	PlatformSetFileSystem(token uintptr)
	PlatformSetClipboard(token uintptr)
}
