package soft

import (
	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// The methods in this file stand in for the engine raising events on its
// own, so tests can drive every callback path.

// FireTitle changes the title of v and fires its title callback.
func (b *Backend) FireTitle(v ffi.Ptr, title string) {
	b.setTitle(v, get[*view](b, v), title)
}

// FireTooltip fires the tooltip callback of v.
func (b *Backend) FireTooltip(v ffi.Ptr, tooltip string) {
	b.fireString(v, get[*view](b, v), native.ViewChangeTooltip, tooltip)
}

// FireCursor fires the cursor callback of v.
func (b *Backend) FireCursor(v ffi.Ptr, cursor int32) {
	if token := b.viewToken(get[*view](b, v), native.ViewChangeCursor); token != 0 {
		native.ViewCursor(token, v, cursor)
	}
}

// FireConsole fires a console API message on v.
func (b *Backend) FireConsole(v ffi.Ptr, level int32, msg string, line uint32, source string) {
	b.fireConsole(v, get[*view](b, v), sourceConsoleAPI, level, msg, line, 0, source)
}

// FireChildView simulates window.open(target) on v.
func (b *Backend) FireChildView(v ffi.Ptr, target string) {
	b.openChild(v, get[*view](b, v), target)
}

// ResizeWindow changes the size of w as a user drag would and fires its
// resize callback.
func (b *Backend) ResizeWindow(w ffi.Ptr, width, height uint32) {
	win := get[*window](b, w)
	win.width, win.height = width, height
	if token := b.windowToken(win, native.WindowResize); token != 0 {
		native.WindowResized(token, w, width, height)
	}
}

// FireAppUpdate runs the update callback of a once.
func (b *Backend) FireAppUpdate(a ffi.Ptr) {
	ap := get[*app](b, a)
	b.mu.Lock()
	token := ap.update
	b.mu.Unlock()
	if token != 0 {
		native.AppUpdate(token)
	}
}

// FireLog sends a message through the installed logger.
func (b *Backend) FireLog(level int32, msg string) {
	b.platformLog(level, msg)
}

// ReadFile loads path through the installed file system.
func (b *Backend) ReadFile(path string) (string, error) {
	return b.readFile(path)
}

// FileCharset asks the installed file system for the charset of path.
func (b *Backend) FileCharset(path string) string {
	b.mu.Lock()
	token := b.fileSystem
	b.mu.Unlock()
	ps := b.CreateString(path)
	defer b.DestroyString(ps)
	cs := native.FileCharset(token, ps)
	if cs == 0 {
		return ""
	}
	defer b.DestroyString(cs)
	return b.str(cs)
}

func (b *Backend) clipboard() uintptr {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clipboardToken
}

// ClipboardWrite stores text through the installed clipboard.
func (b *Backend) ClipboardWrite(text string) {
	s := b.CreateString(text)
	defer b.DestroyString(s)
	native.ClipboardWrite(b.clipboard(), s)
}

// ClipboardRead reads the installed clipboard.
func (b *Backend) ClipboardRead() string {
	s := b.CreateString("")
	defer b.DestroyString(s)
	native.ClipboardRead(b.clipboard(), s)
	return b.str(s)
}

// ClipboardClear clears the installed clipboard.
func (b *Backend) ClipboardClear() {
	native.ClipboardClear(b.clipboard())
}
