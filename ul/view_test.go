package ul

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native/soft"
	"github.com/19h/ul2/jsc"
)

func setupView(t *testing.T) (*soft.Backend, *Renderer, *View) {
	t.Helper()
	b, r := newRenderer(t)
	v, err := r.CreateView(320, 240, nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { v.Close() })
	return b, r, v
}

func load(t *testing.T, r *Renderer, v *View, html string) {
	t.Helper()
	require.NoError(t, v.LoadHTML(html))
	require.NoError(t, r.Update())
}

func TestViewBasics(t *testing.T) {
	_, r, v := setupView(t)

	assert.Equal(t, uint32(320), v.Width())
	assert.Equal(t, uint32(240), v.Height())
	assert.False(t, v.IsAccelerated())
	assert.True(t, v.RenderTarget().IsEmpty)

	load(t, r, v, "<html><head><title>Hello</title></head><body></body></html>")
	assert.Equal(t, "Hello", v.Title())
	assert.False(t, v.IsLoading())
	assert.True(t, v.NeedsPaint())
	require.NoError(t, r.Render())
	assert.False(t, v.NeedsPaint())

	require.NoError(t, v.Resize(100, 50))
	assert.Equal(t, uint32(100), v.Width())

	require.NoError(t, v.SetDeviceScale(2))
	assert.Equal(t, 2.0, v.DeviceScale())

	assert.True(t, errors.Is(v.LoadHTML("a\x00b"), ffi.ErrInvalidArgument))
}

func TestViewClosed(t *testing.T) {
	b, _, v := setupView(t)

	require.NoError(t, v.Close())
	require.NoError(t, v.Close())
	assert.Equal(t, 1, b.CallCount("DestroyView"))

	assert.True(t, errors.Is(v.LoadURL("about:blank"), ffi.ErrClosed))
	assert.True(t, errors.Is(v.SetChangeTitleCallback(func(*View, string) {}), ffi.ErrClosed))
	_, err := v.EvaluateScript("1")
	assert.True(t, errors.Is(err, ffi.ErrClosed))
	assert.Equal(t, "", v.Title())
	assert.Zero(t, v.Width())
}

func TestViewCallbackReceivesReceiver(t *testing.T) {
	b, r, v := setupView(t)

	var titles []string
	var seen *View
	require.NoError(t, v.SetChangeTitleCallback(func(caller *View, title string) {
		seen = caller
		titles = append(titles, title)
	}))

	load(t, r, v, "<title>Page</title>")
	b.FireTitle(v.Raw(), "Fired")
	assert.Equal(t, []string{"Page", "Fired"}, titles)
	assert.Same(t, v, seen)
}

func TestViewCallbackReplacement(t *testing.T) {
	b, _, v := setupView(t)
	base := ffi.LiveCallbacks()

	var calls []string
	dropsA := 0
	require.NoError(t, v.SetChangeTitleCallback(func(*View, string) { calls = append(calls, "A") },
		ffi.OnRelease(func() { dropsA++ })))
	require.NoError(t, v.SetChangeTitleCallback(func(*View, string) { calls = append(calls, "B") }))
	assert.Equal(t, 1, dropsA)
	assert.Equal(t, base+1, ffi.LiveCallbacks())

	b.FireTitle(v.Raw(), "x")
	assert.Equal(t, []string{"B"}, calls)

	require.NoError(t, v.SetChangeTitleCallback(nil))
	b.FireTitle(v.Raw(), "y")
	assert.Equal(t, []string{"B"}, calls)
	assert.Equal(t, base, ffi.LiveCallbacks())
	assert.Equal(t, 1, dropsA, "dropped exactly once")

	set := b.CallsWithPrefix("ViewSetCallback")
	require.Len(t, set, 3)
	assert.Equal(t, soft.Call{Name: "ViewSetCallback", Args: []any{"view.change_title", false}}, set[2])
}

func TestViewCloseReleasesCallbacks(t *testing.T) {
	b, r := newRenderer(t)
	base := ffi.LiveCallbacks()

	v, err := r.CreateView(10, 10, nil, nil)
	require.NoError(t, err)
	released := 0
	require.NoError(t, v.SetChangeURLCallback(func(*View, string) {}, ffi.OnRelease(func() { released++ })))
	require.NoError(t, v.SetUpdateHistoryCallback(func(*View) {}))
	assert.Equal(t, base+2, ffi.LiveCallbacks())

	b.ResetCalls()
	require.NoError(t, v.Close())
	assert.Equal(t, base, ffi.LiveCallbacks())
	assert.Equal(t, 1, released)
	assert.Empty(t, b.CallNames("ViewSetCallback"), "a destroyed view needs no native clear")
}

func TestBorrowedViewDoesNotDestroy(t *testing.T) {
	b, _, v := setupView(t)
	base := ffi.LiveCallbacks()

	borrowed, err := BorrowView(v.Raw())
	require.NoError(t, err)
	assert.True(t, borrowed.IsBorrowed())
	require.NoError(t, borrowed.SetChangeTooltipCallback(func(*View, string) {}))
	require.NoError(t, borrowed.Close())

	assert.Zero(t, b.CallCount("DestroyView"))
	assert.Equal(t, base, ffi.LiveCallbacks(), "closing the borrowed view cleared what it installed")
	assert.Equal(t, uint32(320), v.Width())
}

func TestBorrowedViewsShareRegistrations(t *testing.T) {
	b, _, v := setupView(t)
	base := ffi.LiveCallbacks()

	first, err := BorrowView(v.Raw())
	require.NoError(t, err)
	second, err := BorrowView(v.Raw())
	require.NoError(t, err)

	var got []string
	require.NoError(t, first.SetChangeTitleCallback(func(_ *View, s string) { got = append(got, "first:"+s) }))
	require.NoError(t, second.SetChangeTitleCallback(func(_ *View, s string) { got = append(got, "second:"+s) }))
	assert.Equal(t, base+1, ffi.LiveCallbacks(), "one registration per native view")

	require.NoError(t, first.Close())
	b.FireTitle(v.Raw(), "a")
	assert.Equal(t, []string{"second:a"}, got, "closing first leaves the callback second installed")

	require.NoError(t, second.Close())
	b.FireTitle(v.Raw(), "b")
	assert.Equal(t, []string{"second:a"}, got)
	assert.Equal(t, base, ffi.LiveCallbacks())
}

func TestBorrowedViewKeepsOwnerCallbacks(t *testing.T) {
	b, _, v := setupView(t)
	base := ffi.LiveCallbacks()

	var got []string
	require.NoError(t, v.SetChangeTitleCallback(func(_ *View, s string) { got = append(got, "owner:"+s) }))

	borrowed, err := BorrowView(v.Raw())
	require.NoError(t, err)
	require.NoError(t, borrowed.SetChangeURLCallback(func(*View, string) {}))
	require.NoError(t, borrowed.Close())

	b.FireTitle(v.Raw(), "kept")
	assert.Equal(t, []string{"owner:kept"}, got)
	assert.Equal(t, base+1, ffi.LiveCallbacks())

	// A borrowed wrapper replacing the owner's callback takes over the
	// registration; the owner's box is released right away.
	other, err := BorrowView(v.Raw())
	require.NoError(t, err)
	require.NoError(t, other.SetChangeTitleCallback(func(_ *View, s string) { got = append(got, "other:"+s) }))
	assert.Equal(t, base+1, ffi.LiveCallbacks())
	require.NoError(t, other.Close())
	assert.Equal(t, base, ffi.LiveCallbacks())

	b.FireTitle(v.Raw(), "gone")
	assert.Equal(t, []string{"owner:kept"}, got)

	require.NoError(t, v.SetChangeTitleCallback(func(_ *View, s string) { got = append(got, "again:"+s) }))
	b.FireTitle(v.Raw(), "x")
	assert.Equal(t, []string{"owner:kept", "again:x"}, got)
}

func TestOwnerCloseReleasesBorrowedRegistrations(t *testing.T) {
	_, r := newRenderer(t)
	base := ffi.LiveCallbacks()

	v, err := r.CreateView(10, 10, nil, nil)
	require.NoError(t, err)
	borrowed, err := BorrowView(v.Raw())
	require.NoError(t, err)
	require.NoError(t, borrowed.SetDOMReadyCallback(func(*View, LoadEvent) {}))

	require.NoError(t, v.Close())
	assert.Equal(t, base, ffi.LiveCallbacks())

	require.NoError(t, borrowed.Close())
	assert.Equal(t, base, ffi.LiveCallbacks())
}

func TestViewCallerForOtherView(t *testing.T) {
	_, r, v := setupView(t)
	other, err := r.CreateView(1, 1, nil, nil)
	require.NoError(t, err)
	defer other.Close()

	self, done := v.caller(v.Raw())
	assert.Same(t, v, self)
	done()

	c, done := v.caller(other.Raw())
	require.NotNil(t, c)
	assert.True(t, c.IsBorrowed())
	assert.Equal(t, other.Raw(), c.Raw())
	done()
	assert.Zero(t, c.Raw())
	assert.Equal(t, uint32(1), other.Width())
}

func TestViewConsoleMessages(t *testing.T) {
	b, r, v := setupView(t)

	rx, err := v.ConsoleMessages(ffi.NewFifoChannel[ConsoleMessage](8))
	require.NoError(t, err)

	load(t, r, v, `<script>console.warn("careful", 1)</script>`)
	msg := <-rx
	assert.Equal(t, MessageLevelWarning, msg.Level)
	assert.Equal(t, MessageSourceConsoleAPI, msg.Source)
	assert.Equal(t, "careful 1", msg.Message)

	b.FireConsole(v.Raw(), int32(MessageLevelError), "direct", 7, "app.js")
	msg = <-rx
	assert.Equal(t, ConsoleMessage{
		Source:   MessageSourceConsoleAPI,
		Level:    MessageLevelError,
		Message:  "direct",
		Line:     7,
		SourceID: "app.js",
	}, msg)

	load(t, r, v, `<script>throw new Error("broken")</script>`)
	msg = <-rx
	assert.Equal(t, MessageSourceJS, msg.Source)
	assert.Equal(t, MessageLevelError, msg.Level)
	assert.Contains(t, msg.Message, "broken")

	require.NoError(t, v.Close())
	_, open := <-rx
	assert.False(t, open, "closing the view closes the channel")
}

func TestViewLoadEvents(t *testing.T) {
	_, r, v := setupView(t)

	rx, err := v.LoadEvents(ffi.NewFifoChannel[LoadEvent](16))
	require.NoError(t, err)

	load(t, r, v, "<p>ok</p>")
	begin, finish := <-rx, <-rx
	assert.Equal(t, LoadBegin, begin.Kind)
	assert.Equal(t, LoadFinish, finish.Kind)
	assert.Equal(t, begin.FrameID, finish.FrameID)
	assert.True(t, finish.IsMainFrame)

	require.NoError(t, v.LoadURL("https://example.com/"))
	require.NoError(t, r.Update())
	begin, fail := <-rx, <-rx
	assert.Equal(t, LoadBegin, begin.Kind)
	assert.Equal(t, LoadFail, fail.Kind)
	assert.Equal(t, "https://example.com/", fail.URL)
	assert.Equal(t, "soft", fail.ErrorDomain)
	assert.NotEmpty(t, fail.Description)

	require.NoError(t, v.SetBeginLoadingCallback(nil))
	require.NoError(t, v.SetFinishLoadingCallback(nil))
	select {
	case _, open := <-rx:
		t.Fatalf("channel closed early (open=%v)", open)
	default:
	}
	require.NoError(t, v.SetFailLoadingCallback(nil))
	_, open := <-rx
	assert.False(t, open, "closed once every loading callback is gone")
}

func TestViewLifecycleCallbacks(t *testing.T) {
	_, r, v := setupView(t)

	var order []string
	record := func(_ *View, ev LoadEvent) { order = append(order, ev.Kind.String()) }
	require.NoError(t, v.SetBeginLoadingCallback(record))
	require.NoError(t, v.SetWindowObjectReadyCallback(record))
	require.NoError(t, v.SetDOMReadyCallback(record))
	require.NoError(t, v.SetFinishLoadingCallback(record))
	require.NoError(t, v.SetChangeURLCallback(func(_ *View, url string) { order = append(order, "url:"+url) }))

	require.NoError(t, v.LoadURL("data:text/html,%3Ctitle%3EA%3C%2Ftitle%3E"))
	require.NoError(t, r.Update())
	assert.Equal(t, []string{
		"begin",
		"window_object_ready",
		"url:data:text/html,%3Ctitle%3EA%3C%2Ftitle%3E",
		"dom_ready",
		"finish",
	}, order)
	assert.Equal(t, "A", v.Title())
}

func TestViewHistory(t *testing.T) {
	_, r, v := setupView(t)

	updates := 0
	require.NoError(t, v.SetUpdateHistoryCallback(func(*View) { updates++ }))

	first := "data:text/html,%3Ctitle%3Eone%3C%2Ftitle%3E"
	second := "data:text/html,%3Ctitle%3Etwo%3C%2Ftitle%3E"
	require.NoError(t, v.LoadURL(first))
	require.NoError(t, r.Update())
	require.NoError(t, v.LoadURL(second))
	require.NoError(t, r.Update())
	assert.Equal(t, 2, updates)
	assert.True(t, v.CanGoBack())
	assert.False(t, v.CanGoForward())

	require.NoError(t, v.GoBack())
	require.NoError(t, r.Update())
	assert.Equal(t, first, v.URL())
	assert.Equal(t, "one", v.Title())
	assert.True(t, v.CanGoForward())
}

func TestViewCursorAndTooltip(t *testing.T) {
	b, _, v := setupView(t)

	var cursor Cursor
	var tooltip string
	require.NoError(t, v.SetChangeCursorCallback(func(_ *View, c Cursor) { cursor = c }))
	require.NoError(t, v.SetChangeTooltipCallback(func(_ *View, s string) { tooltip = s }))

	b.FireCursor(v.Raw(), int32(CursorHand))
	b.FireTooltip(v.Raw(), "tip")
	assert.Equal(t, CursorHand, cursor)
	assert.Equal(t, "tip", tooltip)
}

func TestViewChildView(t *testing.T) {
	b, r, v := setupView(t)
	child, err := r.CreateView(200, 100, nil, nil)
	require.NoError(t, err)
	defer child.Close()

	var req ChildViewRequest
	require.NoError(t, v.SetCreateChildViewCallback(func(_ *View, rq ChildViewRequest) *View {
		req = rq
		return child
	}))

	b.FireChildView(v.Raw(), "about:blank")
	require.NoError(t, r.Update())
	assert.Equal(t, "about:blank", req.TargetURL)
	assert.True(t, req.IsPopup)
	assert.Equal(t, IntRect{Right: 320, Bottom: 240}, req.PopupRect)
	assert.Equal(t, "about:blank", child.URL())

	require.NoError(t, v.SetCreateChildViewCallback(func(*View, ChildViewRequest) *View { return nil }))
	b.FireChildView(v.Raw(), "about:other")
	require.NoError(t, r.Update())
	assert.Equal(t, "about:blank", child.URL())
}

func TestViewInspector(t *testing.T) {
	_, r, v := setupView(t)

	var local bool
	require.NoError(t, v.SetCreateInspectorViewCallback(func(_ *View, isLocal bool, url string) *View {
		local = isLocal
		return nil
	}))
	load(t, r, v, "<p></p>")
	require.NoError(t, v.CreateLocalInspectorView())
	assert.True(t, local)
}

func TestEvaluateScript(t *testing.T) {
	_, _, v := setupView(t)

	res, err := v.EvaluateScript("1 + 2")
	require.NoError(t, err)
	assert.Equal(t, "3", res)

	_, err = v.EvaluateScript("throw new Error('bad')")
	var se *ScriptError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Message, "bad")
	assert.True(t, errors.Is(err, ffi.ErrLanguageException))

	_, err = v.EvaluateScript("1\x00")
	assert.True(t, errors.Is(err, ffi.ErrInvalidArgument))
}

func TestEvaluateJSON(t *testing.T) {
	_, _, v := setupView(t)

	var out struct {
		Name  string `json:"name"`
		Items []int  `json:"items"`
	}
	require.NoError(t, v.EvaluateJSON("({name: 'n', items: [1, 2]})", &out))
	assert.Equal(t, "n", out.Name)
	assert.Equal(t, []int{1, 2}, out.Items)

	assert.True(t, errors.Is(v.EvaluateJSON("undefined", &out), ffi.ErrInvalidArgument))
}

func TestLockJSContext(t *testing.T) {
	b, _, v := setupView(t)

	lock, err := v.LockJSContext()
	require.NoError(t, err)
	assert.Equal(t, 1, b.LockDepth(v.Raw()))

	n, err := lock.Value().Evaluate("6 * 7")
	require.NoError(t, err)
	f, _ := n.ToNumber()
	assert.Equal(t, 42.0, f)

	lock.Unlock()
	lock.Unlock()
	assert.Zero(t, b.LockDepth(v.Raw()))
	assert.Len(t, b.CallNames("ViewLockJSContext"), 1)
	assert.Len(t, b.CallNames("ViewUnlockJSContext"), 1)
	assert.Nil(t, lock.Value(), "the context is not reachable after unlock")
}

func TestWithJSContextUnlocksOnEveryPath(t *testing.T) {
	b, _, v := setupView(t)

	require.NoError(t, v.WithJSContext(func(ctx *jsc.Context) error {
		return jsc.SetFunction(ctx.GlobalObject(), "twice", func(ctx *jsc.Context, _ jsc.Value, args []jsc.Value) (jsc.Value, error) {
			x, _ := args[0].ToNumber()
			return jsc.Number(ctx, 2*x), nil
		})
	}))
	assert.Zero(t, b.LockDepth(v.Raw()))

	res, err := v.EvaluateScript("twice(21)")
	require.NoError(t, err)
	assert.Equal(t, "42", res)

	boom := errors.New("boom")
	assert.Equal(t, boom, v.WithJSContext(func(*jsc.Context) error { return boom }))
	assert.Zero(t, b.LockDepth(v.Raw()))

	assert.Panics(t, func() {
		_ = v.WithJSContext(func(*jsc.Context) error { panic("in callback") })
	})
	assert.Zero(t, b.LockDepth(v.Raw()))
}

func TestViewSurface(t *testing.T) {
	_, _, v := setupView(t)

	s, err := v.Surface()
	require.NoError(t, err)
	assert.Equal(t, uint32(320), s.Width())
	assert.Equal(t, uint64(s.RowBytes())*uint64(s.Height()), s.Size())

	require.NoError(t, v.Resize(64, 32))
	assert.Equal(t, uint32(64), s.Width())
	assert.Equal(t, IntRect{Right: 64, Bottom: 32}, s.DirtyBounds())
	require.NoError(t, s.ClearDirtyBounds())
	assert.True(t, s.DirtyBounds().IsEmpty())

	lock, err := s.LockPixels()
	require.NoError(t, err)
	assert.Len(t, lock.Value(), 64*32*4)
	lock.Unlock()

	bm, err := s.Bitmap()
	require.NoError(t, err)
	assert.False(t, bm.OwnsPixels())
	assert.Equal(t, uint32(64), bm.Width())
	require.NoError(t, bm.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, uint32(64), v.Width())
}

func TestAcceleratedView(t *testing.T) {
	_, r := newRenderer(t)
	cfg, err := NewViewConfig()
	require.NoError(t, err)
	defer cfg.Close()
	require.NoError(t, cfg.SetIsAccelerated(true))

	v, err := r.CreateView(16, 16, cfg, nil)
	require.NoError(t, err)
	defer v.Close()

	assert.True(t, v.IsAccelerated())
	_, err = v.Surface()
	assert.True(t, errors.Is(err, ffi.ErrNullReference))
	target := v.RenderTarget()
	assert.False(t, target.IsEmpty)
	assert.Equal(t, uint32(16), target.Width)
	assert.Equal(t, BitmapFormatBGRA8, target.TextureFormat)
}

func TestViewInput(t *testing.T) {
	b, _, v := setupView(t)

	require.NoError(t, v.Unfocus())
	assert.False(t, v.HasFocus())
	require.NoError(t, v.FireMouseEvent(MouseEvent{Type: MouseDown, X: 5, Y: 6, Button: MouseButtonLeft}))
	assert.True(t, v.HasFocus())

	require.NoError(t, v.FireKeyEvent(KeyEvent{Type: KeyChar, Text: "a", Modifiers: ModShift}))
	require.NoError(t, v.FireScrollEvent(ScrollEvent{Type: ScrollByPixel, DeltaY: -10}))
	assert.True(t, errors.Is(v.FireKeyEvent(KeyEvent{Text: "\x00"}), ffi.ErrInvalidArgument))

	assert.Equal(t, []soft.Call{
		{Name: "ViewFireMouseEvent", Args: []any{int32(1), int32(5), int32(6), int32(1)}},
		{Name: "ViewFireKeyEvent", Args: []any{int32(3), int32(0), "a"}},
		{Name: "ViewFireScrollEvent", Args: []any{int32(0), int32(0), int32(-10)}},
	}, b.CallsWithPrefix("ViewFire"))
}
