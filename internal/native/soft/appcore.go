package soft

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// FrameRate is the pace of the AppRun loop.
const FrameRate = 60

type settings struct{ fields map[string]any }

func (*settings) kind() string { return "settings" }

type app struct {
	renderer ffi.Ptr
	monitor  ffi.Ptr
	update   uintptr
	running  atomic.Bool
	stop     atomic.Bool
}

func (*app) kind() string { return "app" }

type monitor struct {
	scale  float64
	width  uint32
	height uint32
}

func (*monitor) kind() string { return "monitor" }

type window struct {
	monitor    ffi.Ptr
	renderer   ffi.Ptr
	width      uint32
	height     uint32
	x, y       int32
	fullscreen bool
	flags      uint32
	title      string
	cursor     int32
	visible    bool
	closed     bool
	callbacks  [2]uintptr
}

func (*window) kind() string { return "window" }

type overlay struct {
	window   ffi.Ptr
	view     ffi.Ptr
	ownsView bool
	x, y     int32
	hidden   bool
	focus    bool
}

func (*overlay) kind() string { return "overlay" }

// Settings

func (b *Backend) CreateSettings() ffi.Ptr {
	p := b.insert(&settings{fields: map[string]any{}})
	b.record("CreateSettings")
	return p
}

func (b *Backend) DestroySettings(s ffi.Ptr) {
	b.remove(s)
	b.record("DestroySettings")
}

func (b *Backend) setSetting(s ffi.Ptr, call string, v any) {
	st := get[*settings](b, s)
	b.mu.Lock()
	st.fields[call] = v
	b.mu.Unlock()
	b.record(call, v)
}

func (b *Backend) SettingsSetDeveloperName(s, name ffi.Ptr) {
	b.setSetting(s, "SettingsSetDeveloperName", b.str(name))
}

func (b *Backend) SettingsSetAppName(s, name ffi.Ptr) {
	b.setSetting(s, "SettingsSetAppName", b.str(name))
}

func (b *Backend) SettingsSetFileSystemPath(s, path ffi.Ptr) {
	b.setSetting(s, "SettingsSetFileSystemPath", b.str(path))
}

func (b *Backend) SettingsSetLoadShadersFromFileSystem(s ffi.Ptr, enabled bool) {
	b.setSetting(s, "SettingsSetLoadShadersFromFileSystem", enabled)
}

func (b *Backend) SettingsSetForceCPURenderer(s ffi.Ptr, force bool) {
	b.setSetting(s, "SettingsSetForceCPURenderer", force)
}

// App

// CreateApp returns null when an app already exists; the engine allows one
// per process.
func (b *Backend) CreateApp(s, cfg ffi.Ptr) ffi.Ptr {
	b.mu.Lock()
	exists := b.app != 0
	b.mu.Unlock()
	if exists {
		b.log.Error("an app already exists")
		return 0
	}
	a := &app{
		monitor:  b.insert(&monitor{scale: 1.0, width: 1920, height: 1080}),
		renderer: b.CreateRenderer(cfg),
	}
	p := b.insert(a)
	b.mu.Lock()
	b.app = p
	b.mu.Unlock()
	b.record("CreateApp")
	return p
}

func (b *Backend) DestroyApp(p ffi.Ptr) {
	a := get[*app](b, p)
	b.DestroyRenderer(a.renderer)
	b.remove(a.monitor)
	b.remove(p)
	b.mu.Lock()
	if b.app == p {
		b.app = 0
	}
	b.mu.Unlock()
	b.record("DestroyApp")
}

func (b *Backend) AppSetUpdateCallback(p ffi.Ptr, token uintptr) {
	a := get[*app](b, p)
	b.mu.Lock()
	a.update = token
	b.mu.Unlock()
	b.record("AppSetUpdateCallback", token != 0)
}

func (b *Backend) AppIsRunning(p ffi.Ptr) bool  { return get[*app](b, p).running.Load() }
func (b *Backend) AppMainMonitor(p ffi.Ptr) ffi.Ptr { return get[*app](b, p).monitor }
func (b *Backend) AppRenderer(p ffi.Ptr) ffi.Ptr    { return get[*app](b, p).renderer }

// AppRun drives update, Update and Render at FrameRate until AppQuit.
func (b *Backend) AppRun(p ffi.Ptr) {
	a := get[*app](b, p)
	b.record("AppRun")
	a.running.Store(true)
	defer a.running.Store(false)

	limiter := rate.NewLimiter(rate.Every(time.Second/FrameRate), 1)
	for !a.stop.Load() {
		if err := limiter.Wait(context.Background()); err != nil {
			b.log.Error("frame limiter", zap.Error(err))
			return
		}
		b.mu.Lock()
		token := a.update
		b.mu.Unlock()
		if token != 0 {
			native.AppUpdate(token)
		}
		b.Update(a.renderer)
		b.Render(a.renderer)
	}
	a.stop.Store(false)
}

func (b *Backend) AppQuit(p ffi.Ptr) {
	get[*app](b, p).stop.Store(true)
	b.record("AppQuit")
}

// Monitor

func (b *Backend) MonitorScale(m ffi.Ptr) float64 { return get[*monitor](b, m).scale }
func (b *Backend) MonitorWidth(m ffi.Ptr) uint32  { return get[*monitor](b, m).width }
func (b *Backend) MonitorHeight(m ffi.Ptr) uint32 { return get[*monitor](b, m).height }

// Window

func (b *Backend) CreateWindow(m ffi.Ptr, width, height uint32, fullscreen bool, flags uint32) ffi.Ptr {
	mon := get[*monitor](b, m)
	w := &window{
		monitor:    m,
		width:      width,
		height:     height,
		fullscreen: fullscreen,
		flags:      flags,
		visible:    true,
	}
	if fullscreen {
		w.width, w.height = mon.width, mon.height
	}
	b.mu.Lock()
	if a, ok := b.objects[b.app].(*app); ok {
		w.renderer = a.renderer
	}
	b.mu.Unlock()
	p := b.insert(w)
	b.record("CreateWindow", width, height, fullscreen, flags)
	return p
}

func (b *Backend) DestroyWindow(w ffi.Ptr) {
	b.remove(w)
	b.record("DestroyWindow")
}

func (b *Backend) WindowSetCallback(w ffi.Ptr, kind native.WindowCallback, token uintptr) {
	win := get[*window](b, w)
	b.mu.Lock()
	win.callbacks[kind] = token
	b.mu.Unlock()
	b.record("WindowSetCallback", kind.String(), token != 0)
}

func (b *Backend) windowToken(win *window, kind native.WindowCallback) uintptr {
	b.mu.Lock()
	defer b.mu.Unlock()
	return win.callbacks[kind]
}

func (b *Backend) windowScale(win *window) float64 {
	if m, ok := lookup[*monitor](b, win.monitor); ok {
		return m.scale
	}
	return 1.0
}

func (b *Backend) WindowScreenWidth(w ffi.Ptr) uint32  { return get[*window](b, w).width }
func (b *Backend) WindowScreenHeight(w ffi.Ptr) uint32 { return get[*window](b, w).height }

func (b *Backend) WindowWidth(w ffi.Ptr) uint32 {
	win := get[*window](b, w)
	return uint32(float64(win.width) * b.windowScale(win))
}

func (b *Backend) WindowHeight(w ffi.Ptr) uint32 {
	win := get[*window](b, w)
	return uint32(float64(win.height) * b.windowScale(win))
}

func (b *Backend) WindowMoveTo(w ffi.Ptr, x, y int32) {
	win := get[*window](b, w)
	win.x, win.y = x, y
	b.record("WindowMoveTo", x, y)
}

func (b *Backend) WindowMoveToCenter(w ffi.Ptr) {
	win := get[*window](b, w)
	if m, ok := lookup[*monitor](b, win.monitor); ok {
		win.x = (int32(m.width) - int32(win.width)) / 2
		win.y = (int32(m.height) - int32(win.height)) / 2
	}
	b.record("WindowMoveToCenter")
}

func (b *Backend) WindowX(w ffi.Ptr) int32 { return get[*window](b, w).x }
func (b *Backend) WindowY(w ffi.Ptr) int32 { return get[*window](b, w).y }

func (b *Backend) WindowIsFullscreen(w ffi.Ptr) bool { return get[*window](b, w).fullscreen }

func (b *Backend) WindowScale(w ffi.Ptr) float64 { return b.windowScale(get[*window](b, w)) }

func (b *Backend) WindowSetTitle(w ffi.Ptr, title string) {
	get[*window](b, w).title = title
	b.record("WindowSetTitle", title)
}

// WindowTitle returns the last title set on a window.
func (b *Backend) WindowTitle(w ffi.Ptr) string { return get[*window](b, w).title }

func (b *Backend) WindowSetCursor(w ffi.Ptr, cursor int32) {
	get[*window](b, w).cursor = cursor
	b.record("WindowSetCursor", cursor)
}

func (b *Backend) WindowShow(w ffi.Ptr) {
	get[*window](b, w).visible = true
	b.record("WindowShow")
}

func (b *Backend) WindowHide(w ffi.Ptr) {
	get[*window](b, w).visible = false
	b.record("WindowHide")
}

func (b *Backend) WindowIsVisible(w ffi.Ptr) bool { return get[*window](b, w).visible }

// WindowClose fires the close callback and hides the window.
func (b *Backend) WindowClose(w ffi.Ptr) {
	win := get[*window](b, w)
	b.record("WindowClose")
	if win.closed {
		return
	}
	if token := b.windowToken(win, native.WindowClose); token != 0 {
		native.WindowClosed(token, w)
	}
	win.closed = true
	win.visible = false
}

func (b *Backend) WindowScreenToPixels(w ffi.Ptr, v int32) int32 {
	return int32(float64(v) * b.windowScale(get[*window](b, w)))
}

func (b *Backend) WindowPixelsToScreen(w ffi.Ptr, v int32) int32 {
	return int32(float64(v) / b.windowScale(get[*window](b, w)))
}

func (b *Backend) WindowNativeHandle(w ffi.Ptr) ffi.Ptr {
	get[*window](b, w)
	return w
}

// Overlay

func (b *Backend) CreateOverlay(w ffi.Ptr, width, height uint32, x, y int32) ffi.Ptr {
	win := get[*window](b, w)
	if win.renderer == 0 {
		b.log.Error("overlay needs an app renderer")
		return 0
	}
	v := b.CreateView(win.renderer, width, height, 0, 0)
	p := b.insert(&overlay{window: w, view: v, ownsView: true, x: x, y: y})
	b.record("CreateOverlay", width, height, x, y)
	return p
}

func (b *Backend) CreateOverlayWithView(w, v ffi.Ptr, x, y int32) ffi.Ptr {
	get[*window](b, w)
	get[*view](b, v)
	p := b.insert(&overlay{window: w, view: v, x: x, y: y})
	b.record("CreateOverlayWithView", x, y)
	return p
}

func (b *Backend) DestroyOverlay(o ffi.Ptr) {
	ov := get[*overlay](b, o)
	if ov.ownsView {
		b.DestroyView(ov.view)
	}
	b.remove(o)
	b.record("DestroyOverlay")
}

func (b *Backend) OverlayView(o ffi.Ptr) ffi.Ptr { return get[*overlay](b, o).view }

func (b *Backend) OverlayWidth(o ffi.Ptr) uint32 { return b.ViewWidth(get[*overlay](b, o).view) }

func (b *Backend) OverlayHeight(o ffi.Ptr) uint32 { return b.ViewHeight(get[*overlay](b, o).view) }

func (b *Backend) OverlayX(o ffi.Ptr) int32 { return get[*overlay](b, o).x }
func (b *Backend) OverlayY(o ffi.Ptr) int32 { return get[*overlay](b, o).y }

func (b *Backend) OverlayMoveTo(o ffi.Ptr, x, y int32) {
	ov := get[*overlay](b, o)
	ov.x, ov.y = x, y
	b.record("OverlayMoveTo", x, y)
}

func (b *Backend) OverlayResize(o ffi.Ptr, width, height uint32) {
	b.ViewResize(get[*overlay](b, o).view, width, height)
}

func (b *Backend) OverlayIsHidden(o ffi.Ptr) bool { return get[*overlay](b, o).hidden }
func (b *Backend) OverlayHide(o ffi.Ptr)          { get[*overlay](b, o).hidden = true }
func (b *Backend) OverlayShow(o ffi.Ptr)          { get[*overlay](b, o).hidden = false }

func (b *Backend) OverlayHasFocus(o ffi.Ptr) bool { return get[*overlay](b, o).focus }

func (b *Backend) OverlayFocus(o ffi.Ptr) {
	ov := get[*overlay](b, o)
	ov.focus = true
	b.ViewFocus(ov.view)
}

func (b *Backend) OverlayUnfocus(o ffi.Ptr) {
	ov := get[*overlay](b, o)
	ov.focus = false
	b.ViewUnfocus(ov.view)
}

// Platform defaults

func (b *Backend) EnablePlatformFontLoader() {
	b.record("EnablePlatformFontLoader")
}

// EnablePlatformFileSystem installs a file system rooted at baseDir. It is
// used only while no file system was set through PlatformSetFileSystem.
func (b *Backend) EnablePlatformFileSystem(baseDir ffi.Ptr) {
	root := b.str(baseDir)
	b.record("EnablePlatformFileSystem", root)
	fs := &native.FileSystemFuncs{
		FileExists: func(path ffi.Ptr) bool {
			st, err := os.Stat(filepath.Join(root, b.str(path)))
			return err == nil && !st.IsDir()
		},
		MimeType: func(path ffi.Ptr) ffi.Ptr {
			m, err := mimetype.DetectFile(filepath.Join(root, b.str(path)))
			if err != nil {
				return b.CreateString("application/octet-stream")
			}
			return b.CreateString(m.String())
		},
		Charset: func(path ffi.Ptr) ffi.Ptr { return b.CreateString("utf-8") },
		OpenFile: func(path ffi.Ptr) ffi.Ptr {
			data, err := os.ReadFile(filepath.Join(root, b.str(path)))
			if err != nil {
				return 0
			}
			return b.CreateBufferFromCopy(data)
		},
	}
	b.mu.Lock()
	old := b.defaultFS
	b.defaultFS = ffi.Box("platform.file_system", fs)
	b.mu.Unlock()
	if old != 0 {
		ffi.Unbox(old)
	}
}

func (b *Backend) EnableDefaultLogger(logPath ffi.Ptr) {
	path := b.str(logPath)
	b.record("EnableDefaultLogger", path)
	l := ffi.Logger().Named("ultralight").With(zap.String("log_path", path))
	b.mu.Lock()
	b.log = l
	b.mu.Unlock()
}
