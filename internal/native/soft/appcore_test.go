package soft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

func TestSettingsRecorded(t *testing.T) {
	b := Install(t)
	s := b.CreateSettings()
	name := b.CreateString("Foo")
	b.SettingsSetAppName(s, name)
	b.DestroyString(name)
	b.DestroySettings(s)

	assert.Equal(t, []Call{
		{Name: "CreateSettings"},
		{Name: "SettingsSetAppName", Args: []any{"Foo"}},
		{Name: "DestroySettings"},
	}, b.Calls())
}

func TestSingleApp(t *testing.T) {
	b := Install(t)
	a := b.CreateApp(0, 0)
	require.NotZero(t, a)
	assert.Zero(t, b.CreateApp(0, 0))
	b.DestroyApp(a)

	again := b.CreateApp(0, 0)
	assert.NotZero(t, again)
	b.DestroyApp(again)
}

func TestAppRunUntilQuit(t *testing.T) {
	b := Install(t)
	a := b.CreateApp(0, 0)
	defer b.DestroyApp(a)

	frames := 0
	tok := ffi.Box("app.update", native.UpdateFunc(func() {
		frames++
		assert.True(t, b.AppIsRunning(a))
		if frames == 3 {
			b.AppQuit(a)
		}
	}))
	defer ffi.Unbox(tok)
	b.AppSetUpdateCallback(a, tok)

	b.AppRun(a)
	assert.Equal(t, 3, frames)
	assert.False(t, b.AppIsRunning(a))
	assert.Len(t, b.CallsWithPrefix("Render"), 3)
}

func TestWindowCallbacks(t *testing.T) {
	b := Install(t)
	a := b.CreateApp(0, 0)
	defer b.DestroyApp(a)
	w := b.CreateWindow(b.AppMainMonitor(a), 100, 200, false, 0b101)
	defer b.DestroyWindow(w)

	var sizes [][2]uint32
	resize := ffi.Box("window.resize", native.WindowResizeFunc(func(win ffi.Ptr, width, height uint32) {
		assert.Equal(t, w, win)
		sizes = append(sizes, [2]uint32{width, height})
	}))
	defer ffi.Unbox(resize)
	b.WindowSetCallback(w, native.WindowResize, resize)

	closed := 0
	closer := ffi.Box("window.close", native.WindowCloseFunc(func(ffi.Ptr) { closed++ }))
	defer ffi.Unbox(closer)
	b.WindowSetCallback(w, native.WindowClose, closer)

	b.ResizeWindow(w, 150, 250)
	b.ResizeWindow(w, 0, 0)
	assert.Equal(t, [][2]uint32{{150, 250}, {0, 0}}, sizes)

	b.WindowClose(w)
	b.WindowClose(w)
	assert.Equal(t, 1, closed)
	assert.False(t, b.WindowIsVisible(w))
}

func TestOverlayOwnsView(t *testing.T) {
	b := Install(t)
	a := b.CreateApp(0, 0)
	defer b.DestroyApp(a)
	w := b.CreateWindow(b.AppMainMonitor(a), 300, 300, false, 0)
	defer b.DestroyWindow(w)

	o := b.CreateOverlay(w, 300, 300, 0, 0)
	require.NotZero(t, o)
	assert.Equal(t, 1, b.LiveOf("view"))
	b.OverlayResize(o, 10, 20)
	assert.EqualValues(t, 10, b.OverlayWidth(o))
	b.DestroyOverlay(o)
	assert.Zero(t, b.LiveOf("view"))

	v := b.CreateView(b.AppRenderer(a), 10, 10, 0, 0)
	o = b.CreateOverlayWithView(w, v, 5, 5)
	b.DestroyOverlay(o)
	assert.Equal(t, 1, b.LiveOf("view"))
	b.DestroyView(v)
}
