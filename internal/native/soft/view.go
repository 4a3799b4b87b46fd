package soft

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// Console message sources and levels, as numbered by the engine.
const (
	sourceJS         int32 = 1
	sourceConsoleAPI int32 = 3

	levelLog     int32 = 0
	levelWarning int32 = 1
	levelError   int32 = 2
	levelDebug   int32 = 3
	levelInfo    int32 = 4
)

const mouseDown int32 = 1

type pendingLoad struct {
	url    string
	html   string
	isHTML bool
	push   bool
}

type view struct {
	renderer    ffi.Ptr
	width       uint32
	height      uint32
	displayID   uint32
	scale       float64
	accelerated bool
	transparent bool
	enableJS    bool
	userAgent   string

	loading    bool
	focus      bool
	inputFocus bool
	needsPaint bool
	surface    ffi.Ptr
	callbacks  [native.NumViewCallbacks]uintptr

	url        string
	title      string
	urlStr     ffi.Ptr
	titleStr   ffi.Ptr
	evalResult ffi.Ptr
	evalExc    ffi.Ptr

	history []string
	histIdx int
	last    pendingLoad
	pending []pendingLoad
	frameID uint64

	ctx    ffi.Ptr
	locked int
}

func (*view) kind() string { return "view" }

func fieldOr[T any](fields map[string]any, key string, def T) T {
	if v, ok := fields[key].(T); ok {
		return v
	}
	return def
}

func (b *Backend) CreateView(r ffi.Ptr, width, height uint32, cfg, session ffi.Ptr) ffi.Ptr {
	rr := get[*renderer](b, r)
	fields := map[string]any{}
	if c, ok := lookup[*config](b, cfg); ok {
		b.mu.Lock()
		for k, v := range c.fields {
			fields[k] = v
		}
		b.mu.Unlock()
	}
	v := &view{
		renderer:    r,
		width:       width,
		height:      height,
		displayID:   fieldOr(fields, native.ViewConfigDisplayID.String(), uint32(0)),
		scale:       fieldOr(fields, native.ViewConfigInitialDeviceScale.String(), 1.0),
		accelerated: fieldOr(fields, native.ViewConfigIsAccelerated.String(), false),
		transparent: fieldOr(fields, native.ViewConfigIsTransparent.String(), false),
		enableJS:    fieldOr(fields, native.ViewConfigEnableJavaScript.String(), true),
		userAgent:   fieldOr(fields, native.ViewConfigUserAgent.String(), "Ultralight/"+Version),
		focus:       fieldOr(fields, native.ViewConfigInitialFocus.String(), true),
		histIdx:     -1,
	}
	if !v.accelerated {
		v.surface = b.newSurface(width, height)
	}
	v.urlStr = b.CreateString("")
	v.titleStr = b.CreateString("")
	v.evalResult = b.CreateString("")
	v.evalExc = b.CreateString("")
	p := b.insert(v)
	b.resetContext(p, v)

	b.mu.Lock()
	rr.views = append(rr.views, p)
	b.mu.Unlock()
	b.record("CreateView", width, height)
	return p
}

func (b *Backend) DestroyView(p ffi.Ptr) {
	v := get[*view](b, p)
	if rr, ok := lookup[*renderer](b, v.renderer); ok {
		b.mu.Lock()
		for i, q := range rr.views {
			if q == p {
				rr.views = append(rr.views[:i], rr.views[i+1:]...)
				break
			}
		}
		b.mu.Unlock()
	}
	b.GlobalContextRelease(v.ctx)
	if v.surface != 0 {
		b.destroySurface(v.surface)
	}
	for _, s := range []ffi.Ptr{v.urlStr, v.titleStr, v.evalResult, v.evalExc} {
		b.remove(s)
	}
	b.remove(p)
	b.record("DestroyView")
}

func (b *Backend) assign(s ffi.Ptr, text string) {
	str := get[*ulString](b, s)
	b.mu.Lock()
	str.s = text
	b.mu.Unlock()
}

func (b *Backend) ViewURL(p ffi.Ptr) ffi.Ptr   { return get[*view](b, p).urlStr }
func (b *Backend) ViewTitle(p ffi.Ptr) ffi.Ptr { return get[*view](b, p).titleStr }
func (b *Backend) ViewWidth(p ffi.Ptr) uint32  { return get[*view](b, p).width }
func (b *Backend) ViewHeight(p ffi.Ptr) uint32 { return get[*view](b, p).height }

func (b *Backend) ViewDisplayID(p ffi.Ptr) uint32 { return get[*view](b, p).displayID }

func (b *Backend) ViewSetDisplayID(p ffi.Ptr, id uint32) {
	get[*view](b, p).displayID = id
	b.record("ViewSetDisplayID", id)
}

func (b *Backend) ViewDeviceScale(p ffi.Ptr) float64 { return get[*view](b, p).scale }

func (b *Backend) ViewSetDeviceScale(p ffi.Ptr, scale float64) {
	v := get[*view](b, p)
	v.scale = scale
	b.ViewSetNeedsPaint(p, true)
	b.record("ViewSetDeviceScale", scale)
}

func (b *Backend) ViewIsAccelerated(p ffi.Ptr) bool { return get[*view](b, p).accelerated }
func (b *Backend) ViewIsTransparent(p ffi.Ptr) bool { return get[*view](b, p).transparent }

func (b *Backend) ViewIsLoading(p ffi.Ptr) bool {
	v := get[*view](b, p)
	b.mu.Lock()
	defer b.mu.Unlock()
	return v.loading
}

func (b *Backend) ViewRenderTarget(p ffi.Ptr) native.RenderTarget {
	v := get[*view](b, p)
	if !v.accelerated {
		return native.RenderTarget{IsEmpty: true}
	}
	return native.RenderTarget{
		Width:          v.width,
		Height:         v.height,
		TextureID:      uint32(p >> 4),
		TextureWidth:   v.width,
		TextureHeight:  v.height,
		TextureFormat:  formatBGRA8,
		UVCoords:       native.Rect{Right: 1, Bottom: 1},
		RenderBufferID: uint32(p >> 4),
	}
}

func (b *Backend) ViewSurface(p ffi.Ptr) ffi.Ptr { return get[*view](b, p).surface }

func (b *Backend) ViewLoadHTML(p, html ffi.Ptr) {
	b.queue(p, pendingLoad{html: b.str(html), isHTML: true})
	b.record("ViewLoadHTML")
}

func (b *Backend) ViewLoadURL(p, u ffi.Ptr) {
	target := b.str(u)
	b.queue(p, pendingLoad{url: target, push: true})
	b.record("ViewLoadURL", target)
}

func (b *Backend) queue(p ffi.Ptr, l pendingLoad) {
	v := get[*view](b, p)
	b.mu.Lock()
	v.pending = append(v.pending, l)
	b.mu.Unlock()
}

func (b *Backend) ViewResize(p ffi.Ptr, width, height uint32) {
	v := get[*view](b, p)
	v.width, v.height = width, height
	if v.surface != 0 {
		b.SurfaceResize(v.surface, width, height)
	}
	b.ViewSetNeedsPaint(p, true)
	b.record("ViewResize", width, height)
}

func (b *Backend) ViewLockJSContext(p ffi.Ptr) ffi.Ptr {
	v := get[*view](b, p)
	b.mu.Lock()
	v.locked++
	b.mu.Unlock()
	b.record("ViewLockJSContext")
	return v.ctx
}

func (b *Backend) ViewUnlockJSContext(p ffi.Ptr) {
	v := get[*view](b, p)
	b.mu.Lock()
	v.locked--
	b.mu.Unlock()
	b.record("ViewUnlockJSContext")
}

// LockDepth reports how many times the view's JavaScript context is
// currently locked.
func (b *Backend) LockDepth(p ffi.Ptr) int {
	v := get[*view](b, p)
	b.mu.Lock()
	defer b.mu.Unlock()
	return v.locked
}

func (b *Backend) ViewEvaluateScript(p, script ffi.Ptr) (ffi.Ptr, ffi.Ptr) {
	v := get[*view](b, p)
	b.assign(v.evalResult, "")
	b.assign(v.evalExc, "")
	if !v.enableJS {
		return v.evalResult, 0
	}
	src := b.StringCreateWithUTF8(b.str(script))
	defer b.StringRelease(src)
	res, exc := b.EvaluateScript(v.ctx, src, 0, 0, 1)
	if exc != 0 {
		b.assign(v.evalExc, b.valueString(v.ctx, exc))
		return v.evalResult, v.evalExc
	}
	b.assign(v.evalResult, b.valueString(v.ctx, res))
	return v.evalResult, 0
}

func (b *Backend) valueString(ctx, val ffi.Ptr) string {
	s, exc := b.ValueToStringCopy(ctx, val)
	if exc != 0 {
		return ""
	}
	defer b.StringRelease(s)
	return b.StringUTF8(s)
}

// History

func (b *Backend) ViewCanGoBack(p ffi.Ptr) bool { return get[*view](b, p).histIdx > 0 }

func (b *Backend) ViewCanGoForward(p ffi.Ptr) bool {
	v := get[*view](b, p)
	return v.histIdx < len(v.history)-1
}

func (b *Backend) ViewGoBack(p ffi.Ptr)    { b.ViewGoToHistoryOffset(p, -1) }
func (b *Backend) ViewGoForward(p ffi.Ptr) { b.ViewGoToHistoryOffset(p, 1) }

func (b *Backend) ViewGoToHistoryOffset(p ffi.Ptr, offset int32) {
	v := get[*view](b, p)
	idx := v.histIdx + int(offset)
	b.record("ViewGoToHistoryOffset", offset)
	if offset == 0 || idx < 0 || idx >= len(v.history) {
		return
	}
	v.histIdx = idx
	b.queue(p, pendingLoad{url: v.history[idx]})
}

func (b *Backend) ViewReload(p ffi.Ptr) {
	v := get[*view](b, p)
	b.record("ViewReload")
	if v.last.url == "" && !v.last.isHTML {
		return
	}
	reload := v.last
	reload.push = false
	b.queue(p, reload)
}

func (b *Backend) ViewStop(p ffi.Ptr) {
	v := get[*view](b, p)
	b.mu.Lock()
	v.pending = nil
	b.mu.Unlock()
	b.record("ViewStop")
}

// Focus and input

func (b *Backend) ViewFocus(p ffi.Ptr) {
	get[*view](b, p).focus = true
	b.record("ViewFocus")
}

func (b *Backend) ViewUnfocus(p ffi.Ptr) {
	v := get[*view](b, p)
	v.focus, v.inputFocus = false, false
	b.record("ViewUnfocus")
}

func (b *Backend) ViewHasFocus(p ffi.Ptr) bool      { return get[*view](b, p).focus }
func (b *Backend) ViewHasInputFocus(p ffi.Ptr) bool { return get[*view](b, p).inputFocus }

func (b *Backend) ViewFireKeyEvent(p ffi.Ptr, ev native.KeyEvent) {
	get[*view](b, p)
	b.record("ViewFireKeyEvent", ev.Type, ev.VirtualKeyCode, ev.Text)
}

func (b *Backend) ViewFireMouseEvent(p ffi.Ptr, ev native.MouseEvent) {
	v := get[*view](b, p)
	if ev.Type == mouseDown {
		v.focus = true
	}
	b.record("ViewFireMouseEvent", ev.Type, ev.X, ev.Y, ev.Button)
}

func (b *Backend) ViewFireScrollEvent(p ffi.Ptr, ev native.ScrollEvent) {
	get[*view](b, p)
	b.record("ViewFireScrollEvent", ev.Type, ev.DeltaX, ev.DeltaY)
}

func (b *Backend) ViewSetNeedsPaint(p ffi.Ptr, needs bool) {
	v := get[*view](b, p)
	b.mu.Lock()
	v.needsPaint = needs
	b.mu.Unlock()
}

func (b *Backend) ViewNeedsPaint(p ffi.Ptr) bool {
	v := get[*view](b, p)
	b.mu.Lock()
	defer b.mu.Unlock()
	return v.needsPaint
}

func (b *Backend) ViewCreateLocalInspectorView(p ffi.Ptr) {
	v := get[*view](b, p)
	b.record("ViewCreateLocalInspectorView")
	token := b.viewToken(v, native.ViewCreateInspectorView)
	if token == 0 {
		return
	}
	u := b.CreateString(v.url)
	defer b.DestroyString(u)
	native.ViewInspector(token, p, true, u)
}

func (b *Backend) ViewSetCallback(p ffi.Ptr, kind native.ViewCallback, token uintptr) {
	v := get[*view](b, p)
	b.mu.Lock()
	v.callbacks[kind] = token
	b.mu.Unlock()
	b.record("ViewSetCallback", kind.String(), token != 0)
}

func (b *Backend) viewToken(v *view, kind native.ViewCallback) uintptr {
	b.mu.Lock()
	defer b.mu.Unlock()
	return v.callbacks[kind]
}

// Callback firing. The backend lock is never held while a callback runs.

func (b *Backend) fireString(p ffi.Ptr, v *view, kind native.ViewCallback, text string) {
	token := b.viewToken(v, kind)
	if token == 0 {
		return
	}
	s := b.CreateString(text)
	defer b.DestroyString(s)
	native.ViewString(kind, token, p, s)
}

func (b *Backend) fireFrame(p ffi.Ptr, v *view, kind native.ViewCallback, frame uint64, u string) {
	token := b.viewToken(v, kind)
	if token == 0 {
		return
	}
	s := b.CreateString(u)
	defer b.DestroyString(s)
	native.ViewFrame(kind, token, p, native.FrameEvent{FrameID: frame, IsMainFrame: true, URL: s})
}

func (b *Backend) fireFail(p ffi.Ptr, v *view, frame uint64, u string, err error) {
	b.log.Debug("load failed", zap.String("url", u), zap.Error(err))
	token := b.viewToken(v, native.ViewFailLoading)
	if token == 0 {
		return
	}
	us, desc, domain := b.CreateString(u), b.CreateString(err.Error()), b.CreateString("soft")
	defer func() {
		b.DestroyString(us)
		b.DestroyString(desc)
		b.DestroyString(domain)
	}()
	native.ViewFail(token, p, native.FailEvent{
		FrameEvent:  native.FrameEvent{FrameID: frame, IsMainFrame: true, URL: us},
		Description: desc,
		ErrorDomain: domain,
		ErrorCode:   -1,
	})
}

func (b *Backend) fireConsole(p ffi.Ptr, v *view, source, level int32, msg string, line, column uint32, sourceID string) {
	token := b.viewToken(v, native.ViewAddConsoleMessage)
	if token == 0 {
		b.log.Debug("console", zap.Int32("level", level), zap.String("message", msg))
		return
	}
	m, s := b.CreateString(msg), b.CreateString(sourceID)
	defer func() {
		b.DestroyString(m)
		b.DestroyString(s)
	}()
	native.ViewConsole(token, p, native.ConsoleMessage{
		Source:   source,
		Level:    level,
		Message:  m,
		Line:     line,
		Column:   column,
		SourceID: s,
	})
}

func (b *Backend) setTitle(p ffi.Ptr, v *view, title string) {
	v.title = title
	b.assign(v.titleStr, title)
	b.fireString(p, v, native.ViewChangeTitle, title)
}

func (b *Backend) setURL(p ffi.Ptr, v *view, u string) {
	if v.url == u {
		return
	}
	v.url = u
	b.assign(v.urlStr, u)
	b.fireString(p, v, native.ViewChangeURL, u)
}

func (b *Backend) setLoading(v *view, loading bool) {
	b.mu.Lock()
	v.loading = loading
	b.mu.Unlock()
}

// Loading

// drainView runs the loads queued since the last update.
func (b *Backend) drainView(p ffi.Ptr, v *view) {
	b.mu.Lock()
	loads := v.pending
	v.pending = nil
	b.mu.Unlock()
	for _, l := range loads {
		b.load(p, v, l)
	}
}

func (b *Backend) load(p ffi.Ptr, v *view, l pendingLoad) {
	v.frameID++
	frame := v.frameID
	v.last = l

	b.setLoading(v, true)
	defer b.setLoading(v, false)
	b.fireFrame(p, v, native.ViewBeginLoading, frame, l.url)

	content := l.html
	if !l.isHTML {
		var err error
		if content, err = b.fetch(l.url); err != nil {
			b.fireFail(p, v, frame, l.url, err)
			return
		}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		b.fireFail(p, v, frame, l.url, err)
		return
	}

	b.resetContext(p, v)
	b.fireFrame(p, v, native.ViewWindowObjectReady, frame, l.url)

	b.setURL(p, v, l.url)
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		b.setTitle(p, v, title)
	}
	if l.push {
		v.history = append(v.history[:v.histIdx+1], l.url)
		v.histIdx = len(v.history) - 1
		b.fireHistory(p, v)
	}

	if v.enableJS {
		doc.Find("script").Each(func(_ int, s *goquery.Selection) {
			if _, external := s.Attr("src"); external {
				return
			}
			switch s.AttrOr("type", "") {
			case "", "text/javascript", "application/javascript":
				b.runPageScript(p, v, s.Text(), l.url)
			}
		})
	}

	b.fireFrame(p, v, native.ViewDOMReady, frame, l.url)
	b.setLoading(v, false)
	b.fireFrame(p, v, native.ViewFinishLoading, frame, l.url)
	b.ViewSetNeedsPaint(p, true)
}

func (b *Backend) fireHistory(p ffi.Ptr, v *view) {
	if token := b.viewToken(v, native.ViewUpdateHistory); token != 0 {
		native.ViewHistory(token, p)
	}
}

func (b *Backend) runPageScript(p ffi.Ptr, v *view, text, sourceURL string) {
	script := b.StringCreateWithUTF8(text)
	src := b.StringCreateWithUTF8(sourceURL)
	defer func() {
		b.StringRelease(script)
		b.StringRelease(src)
	}()
	_, exc := b.EvaluateScript(v.ctx, script, 0, src, 1)
	if exc == 0 {
		return
	}
	var line, column uint32
	if o, ok := b.obj(exc); ok {
		if l := o.Get("line"); l != nil {
			line = uint32(l.ToInteger())
		}
		if c := o.Get("column"); c != nil {
			column = uint32(c.ToInteger())
		}
	}
	b.fireConsole(p, v, sourceJS, levelError, b.valueString(v.ctx, exc), line, column, sourceURL)
}

// fetch resolves a URL to page content. file URLs go through the platform
// file system; network schemes are not available.
func (b *Backend) fetch(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "about":
		return "", nil
	case "data":
		meta, data, ok := strings.Cut(u.Opaque, ",")
		if !ok {
			return "", errors.New("malformed data URL")
		}
		if strings.HasSuffix(meta, ";base64") {
			dec, err := base64.StdEncoding.DecodeString(data)
			return string(dec), err
		}
		return url.PathUnescape(data)
	case "file":
		return b.readFile(strings.TrimPrefix(u.Path, "/"))
	}
	return "", fmt.Errorf("cannot load %s URLs", u.Scheme)
}

func (b *Backend) readFile(path string) (string, error) {
	b.mu.Lock()
	token := b.fileSystem
	if token == 0 {
		token = b.defaultFS
	}
	b.mu.Unlock()
	if token == 0 {
		return "", errors.New("no file system installed")
	}
	ps := b.CreateString(path)
	defer b.DestroyString(ps)
	if !native.FileExists(token, ps) {
		return "", fmt.Errorf("file not found: %s", path)
	}
	if mime := native.FileMimeType(token, ps); mime != 0 {
		b.log.Debug("open file", zap.String("path", path), zap.String("mime", b.str(mime)))
		b.DestroyString(mime)
	}
	buf := native.OpenFile(token, ps)
	if buf == 0 {
		return "", fmt.Errorf("cannot open %s", path)
	}
	defer b.DestroyBuffer(buf)
	return string(get[*buffer](b, buf).data), nil
}

// resetContext gives the view a fresh global context with the page
// bindings installed.
func (b *Backend) resetContext(p ffi.Ptr, v *view) {
	old := v.ctx
	v.ctx = b.GlobalContextCreate(0)
	if old != 0 {
		b.GlobalContextRelease(old)
	}
	b.installBindings(p, v)
}

var consoleLevels = map[string]int32{
	"log":   levelLog,
	"warn":  levelWarning,
	"error": levelError,
	"debug": levelDebug,
	"info":  levelInfo,
}

func (b *Backend) installBindings(p ffi.Ptr, v *view) {
	rt := b.ctxOf(v.ctx).rt
	global := rt.GlobalObject()

	console := rt.NewObject()
	for name, level := range consoleLevels {
		_ = console.Set(name, func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, a := range call.Arguments {
				parts[i] = a.String()
			}
			var line, column uint32
			var source string
			for _, f := range rt.CaptureCallStack(0, nil) {
				if pos := f.Position(); pos.Line > 0 {
					line, column, source = uint32(pos.Line), uint32(pos.Column), f.SrcName()
					break
				}
			}
			b.fireConsole(p, v, sourceConsoleAPI, level, strings.Join(parts, " "), line, column, source)
			return goja.Undefined()
		})
	}
	_ = global.Set("console", console)

	document := rt.NewObject()
	_ = document.DefineAccessorProperty("title",
		rt.ToValue(func() string { return v.title }),
		rt.ToValue(func(call goja.FunctionCall) goja.Value {
			b.setTitle(p, v, call.Argument(0).String())
			return goja.Undefined()
		}),
		goja.FLAG_FALSE, goja.FLAG_TRUE)
	_ = document.DefineAccessorProperty("URL",
		rt.ToValue(func() string { return v.url }), nil,
		goja.FLAG_FALSE, goja.FLAG_TRUE)
	_ = global.Set("document", document)

	navigator := rt.NewObject()
	_ = navigator.Set("userAgent", v.userAgent)
	_ = global.Set("navigator", navigator)

	_ = global.Set("window", global)
	_ = global.Set("open", func(call goja.FunctionCall) goja.Value {
		b.openChild(p, v, call.Argument(0).String())
		return goja.Null()
	})
}

func (b *Backend) openChild(p ffi.Ptr, v *view, target string) {
	token := b.viewToken(v, native.ViewCreateChildView)
	if token == 0 {
		return
	}
	opener, t := b.CreateString(v.url), b.CreateString(target)
	defer func() {
		b.DestroyString(opener)
		b.DestroyString(t)
	}()
	child := native.ViewChild(token, p, native.ChildViewRequest{
		OpenerURL: opener,
		TargetURL: t,
		IsPopup:   true,
		PopupRect: native.IntRect{Right: int32(v.width), Bottom: int32(v.height)},
	})
	if child != 0 {
		if _, ok := lookup[*view](b, child); ok {
			b.queue(child, pendingLoad{url: target, push: true})
		}
	}
}
