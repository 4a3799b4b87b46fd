package appcore

import (
	"fmt"
	"sync/atomic"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
	"github.com/19h/ul2/ul"
)

const updateKind = "app.update"

var appExists atomic.Bool

// App is the AppCore application: it owns the renderer, the main monitor
// and the run loop.
type App struct {
	h      *ffi.Handle
	api    native.API
	update *ffi.Slot[native.UpdateFunc]

	renderer *ul.Renderer
	monitor  *Monitor
}

// NewApp creates the process's App. Nil settings or config use the
// defaults. A second App fails with ErrInvalidOperation until the first is
// closed.
func NewApp(settings *Settings, cfg *ul.Config) (*App, error) {
	if !appExists.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("%w: an app already exists", ffi.ErrInvalidOperation)
	}
	app, err := newApp(settings, cfg)
	if err != nil {
		appExists.Store(false)
		return nil, err
	}
	return app, nil
}

func newApp(settings *Settings, cfg *ul.Config) (*App, error) {
	a := api()
	if settings == nil {
		def, err := NewSettings()
		if err != nil {
			return nil, err
		}
		defer def.Close()
		settings = def
	}
	if cfg == nil {
		def, err := ul.NewConfig()
		if err != nil {
			return nil, err
		}
		defer def.Close()
		cfg = def
	}
	sraw, err := settings.h.Check()
	if err != nil {
		return nil, err
	}
	craw := cfg.Raw()
	if craw.IsNull() {
		return nil, fmt.Errorf("%w: ul.config", ffi.ErrClosed)
	}

	h, err := ffi.Owning("appcore.app", a.CreateApp(sraw, craw), a.DestroyApp)
	if err != nil {
		return nil, err
	}
	app := &App{h: h, api: a}
	app.update = ffi.NewSlot[native.UpdateFunc](updateKind, func(token uintptr) error {
		raw, err := h.Check()
		if err != nil {
			return err
		}
		a.AppSetUpdateCallback(raw, token)
		return nil
	})
	leakFinalizer(app, h)
	return app, nil
}

// Raw returns the ULApp, or null after Close.
func (app *App) Raw() ffi.Ptr { return app.h.Raw() }

// Close destroys the App with its renderer and monitor. Wrappers returned
// by Renderer and MainMonitor stop working.
func (app *App) Close() error {
	if app.h.IsClosed() {
		return nil
	}
	if app.renderer != nil {
		_ = app.renderer.Close()
	}
	if app.monitor != nil {
		_ = app.monitor.h.Close()
	}
	err := app.h.Close()
	app.update.Release()
	appExists.Store(false)
	return err
}

// SetUpdateCallback is called once per frame of Run, before the renderer
// updates. A nil fn clears the callback.
func (app *App) SetUpdateCallback(fn func(), opts ...ffi.CallbackOption) error {
	if fn == nil {
		app.update.Clear()
		return nil
	}
	if _, err := app.h.Check(); err != nil {
		return err
	}
	return app.update.Set(native.UpdateFunc(fn), opts...)
}

// ClearUpdateCallback removes the update callback.
func (app *App) ClearUpdateCallback() { app.update.Clear() }

// IsRunning reports whether Run is executing.
func (app *App) IsRunning() bool {
	raw, ok := app.h.Live()
	return ok && app.api.AppIsRunning(raw)
}

// MainMonitor returns the monitor windows are created on. The App owns it.
func (app *App) MainMonitor() (*Monitor, error) {
	raw, err := app.h.Check()
	if err != nil {
		return nil, err
	}
	if app.monitor == nil {
		h, err := ffi.Borrowed("appcore.monitor", app.api.AppMainMonitor(raw))
		if err != nil {
			return nil, err
		}
		app.monitor = &Monitor{h: h, api: app.api}
	}
	return app.monitor, nil
}

// Renderer returns the App's renderer. Closing it has no effect on the
// App.
func (app *App) Renderer() (*ul.Renderer, error) {
	raw, err := app.h.Check()
	if err != nil {
		return nil, err
	}
	if app.renderer == nil {
		r, err := ul.BorrowRenderer(app.api.AppRenderer(raw))
		if err != nil {
			return nil, err
		}
		app.renderer = r
	}
	return app.renderer, nil
}

// Run blocks in the main loop until Quit is called.
func (app *App) Run() error {
	raw, err := app.h.Check()
	if err != nil {
		return err
	}
	app.api.AppRun(raw)
	return nil
}

// Quit makes Run return after the current frame.
func (app *App) Quit() error {
	raw, err := app.h.Check()
	if err != nil {
		return err
	}
	app.api.AppQuit(raw)
	return nil
}

// Monitor is a display. It is owned by the App.
type Monitor struct {
	h   *ffi.Handle
	api native.API
}

// Raw returns the ULMonitor.
func (m *Monitor) Raw() ffi.Ptr { return m.h.Raw() }

// Scale is the DPI scale, 1.0 at 100%.
func (m *Monitor) Scale() float64 {
	raw, ok := m.h.Live()
	if !ok {
		return 0
	}
	return m.api.MonitorScale(raw)
}

// Width is in screen coordinates.
func (m *Monitor) Width() uint32 {
	raw, ok := m.h.Live()
	if !ok {
		return 0
	}
	return m.api.MonitorWidth(raw)
}

// Height returns the monitor height in pixels.
func (m *Monitor) Height() uint32 {
	raw, ok := m.h.Live()
	if !ok {
		return 0
	}
	return m.api.MonitorHeight(raw)
}
