package soft

import (
	"os"
	"path/filepath"
	"unsafe"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// Version reported by VersionString.
const Version = "1.4.0-soft"

type ulString struct{ s string }

func (*ulString) kind() string { return "string" }

type config struct {
	fields map[string]any
}

func (*config) kind() string { return "config" }

type renderer struct {
	config   map[string]any
	session  ffi.Ptr
	gamepads map[uint32]gamepad
	views    []ffi.Ptr
	frames   uint64
}

func (*renderer) kind() string { return "renderer" }

type gamepad struct {
	id      string
	axes    []float64
	buttons []float64
}

type session struct {
	persistent bool
	name       string
	id         uint64
	diskPath   string
	nameStr    ffi.Ptr
	pathStr    ffi.Ptr
	isDefault  bool
}

func (*session) kind() string { return "session" }

type buffer struct{ data []byte }

func (*buffer) kind() string { return "buffer" }

func (b *Backend) VersionString() string { return Version }

// Strings

func (b *Backend) CreateString(s string) ffi.Ptr {
	return b.insert(&ulString{s: s})
}

func (b *Backend) CreateStringUTF16(s []uint16) ffi.Ptr {
	return b.insert(&ulString{s: decodeUTF16(s)})
}

func (b *Backend) CreateStringFromCopy(s ffi.Ptr) ffi.Ptr {
	return b.insert(&ulString{s: get[*ulString](b, s).s})
}

func (b *Backend) DestroyString(s ffi.Ptr) {
	b.remove(s)
}

func (b *Backend) StringData(s ffi.Ptr) string { return get[*ulString](b, s).s }

func (b *Backend) StringLength(s ffi.Ptr) int { return len(get[*ulString](b, s).s) }

func (b *Backend) StringIsEmpty(s ffi.Ptr) bool { return get[*ulString](b, s).s == "" }

func (b *Backend) StringAssign(dst, src ffi.Ptr) {
	get[*ulString](b, dst).s = get[*ulString](b, src).s
}

// str returns the contents of a string argument for recording.
func (b *Backend) str(p ffi.Ptr) string {
	if s, ok := lookup[*ulString](b, p); ok {
		return s.s
	}
	return ""
}

// Config

func (b *Backend) CreateConfig() ffi.Ptr {
	p := b.insert(&config{fields: map[string]any{}})
	b.record("CreateConfig")
	return p
}

func (b *Backend) DestroyConfig(cfg ffi.Ptr) {
	b.remove(cfg)
	b.record("DestroyConfig")
}

func (b *Backend) ConfigSetString(cfg ffi.Ptr, field native.ConfigField, s ffi.Ptr) {
	b.setConfig(cfg, "ConfigSet"+field.String(), field.String(), b.str(s))
}

func (b *Backend) ConfigSetBool(cfg ffi.Ptr, field native.ConfigField, v bool) {
	b.setConfig(cfg, "ConfigSet"+field.String(), field.String(), v)
}

func (b *Backend) ConfigSetFloat(cfg ffi.Ptr, field native.ConfigField, v float64) {
	b.setConfig(cfg, "ConfigSet"+field.String(), field.String(), v)
}

func (b *Backend) ConfigSetUint(cfg ffi.Ptr, field native.ConfigField, v uint32) {
	b.setConfig(cfg, "ConfigSet"+field.String(), field.String(), v)
}

func (b *Backend) setConfig(cfg ffi.Ptr, call, key string, v any) {
	c := get[*config](b, cfg)
	b.mu.Lock()
	c.fields[key] = v
	b.mu.Unlock()
	b.record(call, v)
}

// ViewConfig

func (b *Backend) CreateViewConfig() ffi.Ptr {
	p := b.insert(&config{fields: map[string]any{
		native.ViewConfigEnableJavaScript.String():   true,
		native.ViewConfigEnableImages.String():       true,
		native.ViewConfigInitialDeviceScale.String(): 1.0,
	}})
	b.record("CreateViewConfig")
	return p
}

func (b *Backend) DestroyViewConfig(cfg ffi.Ptr) {
	b.remove(cfg)
	b.record("DestroyViewConfig")
}

func (b *Backend) ViewConfigSetString(cfg ffi.Ptr, field native.ViewConfigField, s ffi.Ptr) {
	b.setConfig(cfg, "ViewConfigSet"+field.String(), field.String(), b.str(s))
}

func (b *Backend) ViewConfigSetBool(cfg ffi.Ptr, field native.ViewConfigField, v bool) {
	b.setConfig(cfg, "ViewConfigSet"+field.String(), field.String(), v)
}

func (b *Backend) ViewConfigSetFloat(cfg ffi.Ptr, field native.ViewConfigField, v float64) {
	b.setConfig(cfg, "ViewConfigSet"+field.String(), field.String(), v)
}

func (b *Backend) ViewConfigSetUint(cfg ffi.Ptr, field native.ViewConfigField, v uint32) {
	b.setConfig(cfg, "ViewConfigSet"+field.String(), field.String(), v)
}

// Renderer

func (b *Backend) CreateRenderer(cfg ffi.Ptr) ffi.Ptr {
	fields := map[string]any{}
	if c, ok := lookup[*config](b, cfg); ok {
		b.mu.Lock()
		for k, v := range c.fields {
			fields[k] = v
		}
		b.mu.Unlock()
	}
	r := &renderer{config: fields, gamepads: map[uint32]gamepad{}}
	p := b.insert(r)
	r.session = b.newSession(false, "default", true)
	b.record("CreateRenderer")
	return p
}

func (b *Backend) DestroyRenderer(r ffi.Ptr) {
	rr := get[*renderer](b, r)
	b.destroySession(rr.session)
	b.remove(r)
	b.record("DestroyRenderer")
}

// Update runs queued view work: pending loads fire their lifecycle
// callbacks here, as the engine does from its update loop.
func (b *Backend) Update(r ffi.Ptr) {
	rr := get[*renderer](b, r)
	b.mu.Lock()
	rr.frames++
	views := append([]ffi.Ptr(nil), rr.views...)
	b.mu.Unlock()
	for _, v := range views {
		if vv, ok := lookup[*view](b, v); ok {
			b.drainView(v, vv)
		}
	}
}

func (b *Backend) RefreshDisplay(r ffi.Ptr, displayID uint32) {
	b.record("RefreshDisplay", displayID)
}

func (b *Backend) Render(r ffi.Ptr) {
	rr := get[*renderer](b, r)
	b.mu.Lock()
	views := append([]ffi.Ptr(nil), rr.views...)
	b.mu.Unlock()
	for _, v := range views {
		if vv, ok := lookup[*view](b, v); ok {
			b.mu.Lock()
			vv.needsPaint = false
			b.mu.Unlock()
		}
	}
	b.record("Render")
}

func (b *Backend) PurgeMemory(r ffi.Ptr)    { b.record("PurgeMemory") }
func (b *Backend) LogMemoryUsage(r ffi.Ptr) { b.record("LogMemoryUsage") }

func (b *Backend) StartRemoteInspectorServer(r ffi.Ptr, address string, port uint16) bool {
	b.record("StartRemoteInspectorServer", address, port)
	return false
}

func (b *Backend) SetGamepadDetails(r ffi.Ptr, index uint32, id ffi.Ptr, axisCount, buttonCount uint32) {
	rr := get[*renderer](b, r)
	name := b.str(id)
	b.mu.Lock()
	rr.gamepads[index] = gamepad{id: name, axes: make([]float64, axisCount), buttons: make([]float64, buttonCount)}
	b.mu.Unlock()
	b.record("SetGamepadDetails", index, name, axisCount, buttonCount)
}

func (b *Backend) FireGamepadEvent(r ffi.Ptr, ev native.GamepadEvent) {
	b.record("FireGamepadEvent", ev.Index, ev.Type)
}

func (b *Backend) FireGamepadAxisEvent(r ffi.Ptr, ev native.GamepadAxisEvent) {
	rr := get[*renderer](b, r)
	b.mu.Lock()
	if g, ok := rr.gamepads[ev.Index]; ok && int(ev.AxisIndex) < len(g.axes) {
		g.axes[ev.AxisIndex] = ev.Value
	}
	b.mu.Unlock()
	b.record("FireGamepadAxisEvent", ev.Index, ev.AxisIndex, ev.Value)
}

func (b *Backend) FireGamepadButtonEvent(r ffi.Ptr, ev native.GamepadButtonEvent) {
	rr := get[*renderer](b, r)
	b.mu.Lock()
	if g, ok := rr.gamepads[ev.Index]; ok && int(ev.ButtonIndex) < len(g.buttons) {
		g.buttons[ev.ButtonIndex] = ev.Value
	}
	b.mu.Unlock()
	b.record("FireGamepadButtonEvent", ev.Index, ev.ButtonIndex, ev.Value)
}

// Sessions

func (b *Backend) newSession(persistent bool, name string, isDefault bool) ffi.Ptr {
	b.mu.Lock()
	b.sessionIDs++
	id := b.sessionIDs
	b.mu.Unlock()

	disk := ""
	if persistent {
		disk = filepath.Join(os.TempDir(), "ul2-sessions", uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String())
	}
	s := &session{persistent: persistent, name: name, id: id, diskPath: disk, isDefault: isDefault}
	s.nameStr = b.CreateString(name)
	s.pathStr = b.CreateString(disk)
	return b.insert(s)
}

func (b *Backend) destroySession(p ffi.Ptr) {
	v, ok := b.remove(p)
	if !ok {
		return
	}
	s := v.(*session)
	b.remove(s.nameStr)
	b.remove(s.pathStr)
}

func (b *Backend) CreateSession(r ffi.Ptr, persistent bool, name ffi.Ptr) ffi.Ptr {
	n := b.str(name)
	b.record("CreateSession", persistent, n)
	return b.newSession(persistent, n, false)
}

func (b *Backend) DestroySession(s ffi.Ptr) {
	if ss, ok := lookup[*session](b, s); ok && ss.isDefault {
		b.log.Warn("refusing to destroy the default session")
		return
	}
	b.destroySession(s)
	b.record("DestroySession")
}

func (b *Backend) DefaultSession(r ffi.Ptr) ffi.Ptr { return get[*renderer](b, r).session }

func (b *Backend) SessionIsPersistent(s ffi.Ptr) bool { return get[*session](b, s).persistent }
func (b *Backend) SessionName(s ffi.Ptr) ffi.Ptr      { return get[*session](b, s).nameStr }
func (b *Backend) SessionID(s ffi.Ptr) uint64         { return get[*session](b, s).id }
func (b *Backend) SessionDiskPath(s ffi.Ptr) ffi.Ptr  { return get[*session](b, s).pathStr }

// Buffers

func (b *Backend) CreateBufferFromCopy(data []byte) ffi.Ptr {
	return b.insert(&buffer{data: append([]byte(nil), data...)})
}

func (b *Backend) DestroyBuffer(p ffi.Ptr) {
	b.remove(p)
}

func (b *Backend) BufferData(p ffi.Ptr) unsafe.Pointer {
	buf := get[*buffer](b, p)
	if len(buf.data) == 0 {
		return nil
	}
	return unsafe.Pointer(&buf.data[0])
}

func (b *Backend) BufferSize(p ffi.Ptr) uint64 { return uint64(len(get[*buffer](b, p).data)) }

func (b *Backend) BufferOwnsData(p ffi.Ptr) bool { return true }

// Platform

func (b *Backend) PlatformSetLogger(token uintptr) {
	b.mu.Lock()
	b.loggerToken = token
	b.mu.Unlock()
	b.record("PlatformSetLogger", token != 0)
}

func (b *Backend) PlatformSetFileSystem(token uintptr) {
	b.mu.Lock()
	b.fileSystem = token
	b.mu.Unlock()
	b.record("PlatformSetFileSystem", token != 0)
}

func (b *Backend) PlatformSetClipboard(token uintptr) {
	b.mu.Lock()
	b.clipboardToken = token
	b.mu.Unlock()
	b.record("PlatformSetClipboard", token != 0)
}

func (b *Backend) platformLog(level int32, msg string) {
	b.mu.Lock()
	token := b.loggerToken
	b.mu.Unlock()
	if token == 0 {
		b.log.Debug("engine log", zap.Int32("level", level), zap.String("message", msg))
		return
	}
	s := b.CreateString(msg)
	defer b.DestroyString(s)
	native.LogMessage(token, level, s)
}
