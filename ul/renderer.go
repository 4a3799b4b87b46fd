package ul

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// Renderer owns the library's rendering state and every view created
// through it. Only one renderer may exist per process, and all of its
// methods must be called from the thread that created it.
type Renderer struct {
	h   *ffi.Handle
	api native.UL
}

// NewRenderer creates the renderer. A nil config uses the defaults.
func NewRenderer(cfg *Config) (*Renderer, error) {
	a := api()
	var raw ffi.Ptr
	if cfg == nil {
		def, err := NewConfig()
		if err != nil {
			return nil, err
		}
		defer def.Close()
		cfg = def
	}
	craw, err := cfg.h.Check()
	if err != nil {
		return nil, err
	}
	raw = a.CreateRenderer(craw)
	h, err := ffi.Owning("ul.renderer", raw, a.DestroyRenderer)
	if err != nil {
		return nil, err
	}
	r := &Renderer{h: h, api: a}
	leakFinalizer(r, h)
	return r, nil
}

// BorrowRenderer wraps a renderer owned elsewhere, such as the one an
// AppCore app creates. Close only detaches the wrapper.
func BorrowRenderer(raw ffi.Ptr) (*Renderer, error) {
	h, err := ffi.Borrowed("ul.renderer", raw)
	if err != nil {
		return nil, err
	}
	return &Renderer{h: h, api: api()}, nil
}

// Raw returns the ULRenderer, or null after Close.
func (r *Renderer) Raw() ffi.Ptr { return r.h.Raw() }

// Close destroys an owned renderer.
func (r *Renderer) Close() error { return r.h.Close() }

func (r *Renderer) do(fn func(raw ffi.Ptr)) error {
	raw, err := r.h.Check()
	if err != nil {
		return err
	}
	fn(raw)
	return nil
}

// Update runs timers and dispatches pending callbacks. Call it often.
func (r *Renderer) Update() error { return r.do(r.api.Update) }

// RefreshDisplay notifies the renderer that a display refreshed, driving
// animations of the views on it.
func (r *Renderer) RefreshDisplay(displayID uint32) error {
	return r.do(func(raw ffi.Ptr) { r.api.RefreshDisplay(raw, displayID) })
}

// Render paints every view that needs it.
func (r *Renderer) Render() error { return r.do(r.api.Render) }

// PurgeMemory frees cached resources.
func (r *Renderer) PurgeMemory() error { return r.do(r.api.PurgeMemory) }

// LogMemoryUsage writes memory statistics to the installed logger.
func (r *Renderer) LogMemoryUsage() error { return r.do(r.api.LogMemoryUsage) }

// StartRemoteInspectorServer starts the inspector server for remote
// debugging. It reports whether the server started.
func (r *Renderer) StartRemoteInspectorServer(address string, port uint16) (bool, error) {
	raw, err := r.h.Check()
	if err != nil {
		return false, err
	}
	if err := ffi.CheckString("inspector address", address); err != nil {
		return false, err
	}
	return r.api.StartRemoteInspectorServer(raw, address, port), nil
}

// SetGamepadDetails describes a gamepad before its events are fired.
func (r *Renderer) SetGamepadDetails(index uint32, id string, axisCount, buttonCount uint32) error {
	raw, err := r.h.Check()
	if err != nil {
		return err
	}
	s, release, err := tempString(r.api, "gamepad id", id)
	if err != nil {
		return err
	}
	defer release()
	r.api.SetGamepadDetails(raw, index, s, axisCount, buttonCount)
	return nil
}

// FireGamepadEvent reports a gamepad being connected or disconnected.
func (r *Renderer) FireGamepadEvent(ev GamepadEvent) error {
	return r.do(func(raw ffi.Ptr) {
		r.api.FireGamepadEvent(raw, native.GamepadEvent{Index: ev.Index, Type: int32(ev.Type)})
	})
}

// FireGamepadAxisEvent reports a gamepad axis change.
func (r *Renderer) FireGamepadAxisEvent(ev GamepadAxisEvent) error {
	return r.do(func(raw ffi.Ptr) { r.api.FireGamepadAxisEvent(raw, native.GamepadAxisEvent(ev)) })
}

// FireGamepadButtonEvent reports a gamepad button change.
func (r *Renderer) FireGamepadButtonEvent(ev GamepadButtonEvent) error {
	return r.do(func(raw ffi.Ptr) { r.api.FireGamepadButtonEvent(raw, native.GamepadButtonEvent(ev)) })
}

// CreateSession creates a session. Persistent sessions keep cookies and
// storage under the configured cache path, keyed by name.
func (r *Renderer) CreateSession(persistent bool, name string) (*Session, error) {
	raw, err := r.h.Check()
	if err != nil {
		return nil, err
	}
	s, release, err := tempString(r.api, "session name", name)
	if err != nil {
		return nil, err
	}
	defer release()
	h, err := ffi.Owning("ul.session", r.api.CreateSession(raw, persistent, s), r.api.DestroySession)
	if err != nil {
		return nil, err
	}
	sess := &Session{h: h, api: r.api}
	leakFinalizer(sess, h)
	return sess, nil
}

// CreateEphemeralSession creates an in-memory session with a unique name.
func (r *Renderer) CreateEphemeralSession() (*Session, error) {
	return r.CreateSession(false, "ephemeral-"+uuid.NewString())
}

// DefaultSession returns the renderer's default session. It is borrowed
// and lives as long as the renderer.
func (r *Renderer) DefaultSession() (*Session, error) {
	raw, err := r.h.Check()
	if err != nil {
		return nil, err
	}
	h, err := ffi.Borrowed("ul.session", r.api.DefaultSession(raw))
	if err != nil {
		return nil, err
	}
	return &Session{h: h, api: r.api}, nil
}

// CreateView creates a view. A nil config uses the defaults and a nil
// session uses the default session.
func (r *Renderer) CreateView(width, height uint32, cfg *ViewConfig, session *Session) (*View, error) {
	raw, err := r.h.Check()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		def, err := NewViewConfig()
		if err != nil {
			return nil, err
		}
		defer def.Close()
		cfg = def
	}
	craw, err := cfg.h.Check()
	if err != nil {
		return nil, err
	}
	var sraw ffi.Ptr
	if session != nil {
		if sraw, err = session.h.Check(); err != nil {
			return nil, err
		}
	}
	v, err := newView(r.api, true, r.api.CreateView(raw, width, height, craw, sraw))
	if err != nil {
		return nil, fmt.Errorf("create %dx%d view: %w", width, height, err)
	}
	return v, nil
}
