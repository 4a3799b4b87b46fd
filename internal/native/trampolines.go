package native

import "github.com/19h/ul2/ffi"

// The functions in this file are the bodies of every native callback. The
// cgo backend calls them from its exported C trampolines; the software
// backend calls them directly when it simulates an event. Each resolves the
// user data token through the ffi registry, so a token that was cleared or
// replaced is a no-op.

// Boxed callback types, one per C callback signature.
type (
	ViewStringFunc    func(caller, str ffi.Ptr)
	ViewCursorFunc    func(caller ffi.Ptr, cursor int32)
	ViewConsoleFunc   func(caller ffi.Ptr, msg ConsoleMessage)
	ViewChildFunc     func(caller ffi.Ptr, req ChildViewRequest) ffi.Ptr
	ViewInspectorFunc func(caller ffi.Ptr, isLocal bool, inspectedURL ffi.Ptr) ffi.Ptr
	ViewFrameFunc     func(caller ffi.Ptr, ev FrameEvent)
	ViewFailFunc      func(caller ffi.Ptr, ev FailEvent)
	ViewHistoryFunc   func(caller ffi.Ptr)

	UpdateFunc       func()
	WindowCloseFunc  func(window ffi.Ptr)
	WindowResizeFunc func(window ffi.Ptr, width, height uint32)

	LogFunc func(level int32, message ffi.Ptr)
)

// ConsoleMessage carries the arguments of ULAddConsoleMessageCallback.
type ConsoleMessage struct {
	Source   int32
	Level    int32
	Message  ffi.Ptr
	Line     uint32
	Column   uint32
	SourceID ffi.Ptr
}

// ChildViewRequest carries the arguments of ULCreateChildViewCallback.
type ChildViewRequest struct {
	OpenerURL ffi.Ptr
	TargetURL ffi.Ptr
	IsPopup   bool
	PopupRect IntRect
}

// FrameEvent carries the arguments shared by the loading callbacks.
type FrameEvent struct {
	FrameID     uint64
	IsMainFrame bool
	URL         ffi.Ptr
}

// FailEvent carries the arguments of ULFailLoadingCallback.
type FailEvent struct {
	FrameEvent
	Description ffi.Ptr
	ErrorDomain ffi.Ptr
	ErrorCode   int32
}

// FileSystemFuncs is the boxed form of ULFileSystem. MimeType and Charset
// return a new ULString and OpenFile a new ULBuffer; ownership passes to the
// native caller.
type FileSystemFuncs struct {
	FileExists func(path ffi.Ptr) bool
	MimeType   func(path ffi.Ptr) ffi.Ptr
	Charset    func(path ffi.Ptr) ffi.Ptr
	OpenFile   func(path ffi.Ptr) ffi.Ptr
}

// ClipboardFuncs is the boxed form of ULClipboard.
type ClipboardFuncs struct {
	Clear          func()
	ReadPlainText  func(result ffi.Ptr)
	WritePlainText func(text ffi.Ptr)
}

// ViewString dispatches the title, URL and tooltip callbacks.
func ViewString(kind ViewCallback, token uintptr, caller, str ffi.Ptr) {
	ffi.Invoke(kind.String(), token, func(fn ViewStringFunc) { fn(caller, str) })
}

// ViewCursor dispatches ULChangeCursorCallback.
func ViewCursor(token uintptr, caller ffi.Ptr, cursor int32) {
	ffi.Invoke(ViewChangeCursor.String(), token, func(fn ViewCursorFunc) { fn(caller, cursor) })
}

// ViewConsole dispatches ULAddConsoleMessageCallback.
func ViewConsole(token uintptr, caller ffi.Ptr, msg ConsoleMessage) {
	ffi.Invoke(ViewAddConsoleMessage.String(), token, func(fn ViewConsoleFunc) { fn(caller, msg) })
}

// ViewChild returns the view to hand back to the engine, or null.
func ViewChild(token uintptr, caller ffi.Ptr, req ChildViewRequest) ffi.Ptr {
	var out ffi.Ptr
	ffi.Invoke(ViewCreateChildView.String(), token, func(fn ViewChildFunc) { out = fn(caller, req) })
	return out
}

// ViewInspector dispatches ULCreateInspectorViewCallback and returns the
// new view, or null.
func ViewInspector(token uintptr, caller ffi.Ptr, isLocal bool, url ffi.Ptr) ffi.Ptr {
	var out ffi.Ptr
	ffi.Invoke(ViewCreateInspectorView.String(), token, func(fn ViewInspectorFunc) { out = fn(caller, isLocal, url) })
	return out
}

// ViewFrame dispatches the begin, finish and DOM ready callbacks.
func ViewFrame(kind ViewCallback, token uintptr, caller ffi.Ptr, ev FrameEvent) {
	ffi.Invoke(kind.String(), token, func(fn ViewFrameFunc) { fn(caller, ev) })
}

// ViewFail dispatches ULFailLoadingCallback.
func ViewFail(token uintptr, caller ffi.Ptr, ev FailEvent) {
	ffi.Invoke(ViewFailLoading.String(), token, func(fn ViewFailFunc) { fn(caller, ev) })
}

// ViewHistory dispatches ULUpdateHistoryCallback.
func ViewHistory(token uintptr, caller ffi.Ptr) {
	ffi.Invoke(ViewUpdateHistory.String(), token, func(fn ViewHistoryFunc) { fn(caller) })
}

// AppUpdate dispatches ULUpdateCallback.
func AppUpdate(token uintptr) {
	ffi.Invoke("app.update", token, func(fn UpdateFunc) { fn() })
}

// WindowClosed dispatches ULCloseCallback.
func WindowClosed(token uintptr, window ffi.Ptr) {
	ffi.Invoke(WindowClose.String(), token, func(fn WindowCloseFunc) { fn(window) })
}

// WindowResized dispatches ULResizeCallback.
func WindowResized(token uintptr, window ffi.Ptr, width, height uint32) {
	ffi.Invoke(WindowResize.String(), token, func(fn WindowResizeFunc) { fn(window, width, height) })
}

// LogMessage forwards an engine log line to the installed logger.
func LogMessage(token uintptr, level int32, msg ffi.Ptr) {
	ffi.Invoke("platform.logger", token, func(fn LogFunc) { fn(level, msg) })
}

// FileExists answers the file system file_exists query. A stale
// token reports false.
func FileExists(token uintptr, path ffi.Ptr) bool {
	var ok bool
	ffi.Invoke("platform.file_system", token, func(fs *FileSystemFuncs) { ok = fs.FileExists(path) })
	return ok
}

// FileMimeType returns a new ULString with the MIME type, or null.
func FileMimeType(token uintptr, path ffi.Ptr) ffi.Ptr {
	var out ffi.Ptr
	ffi.Invoke("platform.file_system", token, func(fs *FileSystemFuncs) { out = fs.MimeType(path) })
	return out
}

// FileCharset returns a new ULString with the charset, or null.
func FileCharset(token uintptr, path ffi.Ptr) ffi.Ptr {
	var out ffi.Ptr
	ffi.Invoke("platform.file_system", token, func(fs *FileSystemFuncs) { out = fs.Charset(path) })
	return out
}

// OpenFile returns a ULBuffer with the file contents, or null.
func OpenFile(token uintptr, path ffi.Ptr) ffi.Ptr {
	var out ffi.Ptr
	ffi.Invoke("platform.file_system", token, func(fs *FileSystemFuncs) { out = fs.OpenFile(path) })
	return out
}

// ClipboardClear empties the installed clipboard.
func ClipboardClear(token uintptr) {
	ffi.Invoke("platform.clipboard", token, func(c *ClipboardFuncs) { c.Clear() })
}

// ClipboardRead writes the clipboard text into result.
func ClipboardRead(token uintptr, result ffi.Ptr) {
	ffi.Invoke("platform.clipboard", token, func(c *ClipboardFuncs) { c.ReadPlainText(result) })
}

// ClipboardWrite stores text on the installed clipboard.
func ClipboardWrite(token uintptr, text ffi.Ptr) {
	ffi.Invoke("platform.clipboard", token, func(c *ClipboardFuncs) { c.WritePlainText(text) })
}

// Class hooks. The token is the instance's private data.

// ClassInitialize runs the class initialize hook for a new object.
func ClassInitialize(token uintptr, ctx, obj ffi.Ptr) {
	ffi.Invoke("jsc.initialize", token, func(c ClassInstance) { c.Initialize(ctx, obj) })
}

// ClassFinalize runs the finalizer and then drops the instance registration.
func ClassFinalize(token uintptr, obj ffi.Ptr) {
	ffi.Invoke("jsc.finalize", token, func(c ClassInstance) { c.Finalize(obj) })
	ffi.Unbox(token)
}

// ClassHasProperty runs the hasProperty hook.
func ClassHasProperty(token uintptr, ctx, obj, name ffi.Ptr) bool {
	var ok bool
	ffi.Invoke("jsc.has_property", token, func(c ClassInstance) { ok = c.HasProperty(ctx, obj, name) })
	return ok
}

// ClassGetProperty returns null to let the engine continue with its default
// lookup.
func ClassGetProperty(token uintptr, ctx, obj, name ffi.Ptr, exc *ffi.Ptr) ffi.Ptr {
	var out ffi.Ptr
	ffi.Invoke("jsc.get_property", token, func(c ClassInstance) { out = c.GetProperty(ctx, obj, name, exc) })
	return out
}

// ClassSetProperty runs the setProperty hook. False falls back to the
// default behavior.
func ClassSetProperty(token uintptr, ctx, obj, name, value ffi.Ptr, exc *ffi.Ptr) bool {
	var ok bool
	ffi.Invoke("jsc.set_property", token, func(c ClassInstance) { ok = c.SetProperty(ctx, obj, name, value, exc) })
	return ok
}

// ClassDeleteProperty runs the deleteProperty hook.
func ClassDeleteProperty(token uintptr, ctx, obj, name ffi.Ptr, exc *ffi.Ptr) bool {
	var ok bool
	ffi.Invoke("jsc.delete_property", token, func(c ClassInstance) { ok = c.DeleteProperty(ctx, obj, name, exc) })
	return ok
}

// ClassPropertyNames adds the names from the getPropertyNames hook to acc.
func ClassPropertyNames(token uintptr, ctx, obj, acc ffi.Ptr) {
	ffi.Invoke("jsc.property_names", token, func(c ClassInstance) { c.PropertyNames(ctx, obj, acc) })
}

// ClassCallAsFunction returns null when the token is stale; the backend
// turns that into undefined.
func ClassCallAsFunction(token uintptr, ctx, fn, this ffi.Ptr, args []ffi.Ptr, exc *ffi.Ptr) ffi.Ptr {
	var out ffi.Ptr
	ffi.Invoke("jsc.call_as_function", token, func(c ClassInstance) { out = c.CallAsFunction(ctx, fn, this, args, exc) })
	return out
}

// ClassCallAsConstructor runs the callAsConstructor hook.
func ClassCallAsConstructor(token uintptr, ctx, ctor ffi.Ptr, args []ffi.Ptr, exc *ffi.Ptr) ffi.Ptr {
	var out ffi.Ptr
	ffi.Invoke("jsc.call_as_constructor", token, func(c ClassInstance) { out = c.CallAsConstructor(ctx, ctor, args, exc) })
	return out
}

// ClassHasInstance runs the hasInstance hook for instanceof.
func ClassHasInstance(token uintptr, ctx, ctor, value ffi.Ptr, exc *ffi.Ptr) bool {
	var ok bool
	ffi.Invoke("jsc.has_instance", token, func(c ClassInstance) { ok = c.HasInstance(ctx, ctor, value, exc) })
	return ok
}
