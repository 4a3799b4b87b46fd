package ul

import (
	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// KeyEvent is a keyboard event. The native event is created and destroyed
// around each fire call.
type KeyEvent struct {
	Type           KeyEventType
	Modifiers      KeyModifiers
	VirtualKeyCode int32
	NativeKeyCode  int32
	Text           string
	UnmodifiedText string
	IsKeypad       bool
	IsAutoRepeat   bool
	IsSystemKey    bool
}

func (e KeyEvent) raw() (native.KeyEvent, error) {
	if err := ffi.CheckString("key event text", e.Text); err != nil {
		return native.KeyEvent{}, err
	}
	if err := ffi.CheckString("key event unmodified text", e.UnmodifiedText); err != nil {
		return native.KeyEvent{}, err
	}
	return native.KeyEvent{
		Type:           int32(e.Type),
		Modifiers:      uint32(e.Modifiers),
		VirtualKeyCode: e.VirtualKeyCode,
		NativeKeyCode:  e.NativeKeyCode,
		Text:           e.Text,
		UnmodifiedText: e.UnmodifiedText,
		IsKeypad:       e.IsKeypad,
		IsAutoRepeat:   e.IsAutoRepeat,
		IsSystemKey:    e.IsSystemKey,
	}, nil
}

// MouseEvent is a mouse move or button change at a position in the view.
type MouseEvent struct {
	Type   MouseEventType
	X, Y   int32
	Button MouseButton
}

func (e MouseEvent) raw() native.MouseEvent {
	return native.MouseEvent{Type: int32(e.Type), X: e.X, Y: e.Y, Button: int32(e.Button)}
}

// ScrollEvent scrolls the view by a delta.
type ScrollEvent struct {
	Type   ScrollEventType
	DeltaX int32
	DeltaY int32
}

func (e ScrollEvent) raw() native.ScrollEvent {
	return native.ScrollEvent{Type: int32(e.Type), DeltaX: e.DeltaX, DeltaY: e.DeltaY}
}

// GamepadEvent reports a gamepad being connected or disconnected.
type GamepadEvent struct {
	Index uint32
	Type  GamepadEventType
}

// GamepadAxisEvent reports a new axis value in [-1, 1].
type GamepadAxisEvent struct {
	Index     uint32
	AxisIndex uint32
	Value     float64
}

// GamepadButtonEvent reports a new button value in [0, 1].
type GamepadButtonEvent struct {
	Index       uint32
	ButtonIndex uint32
	Value       float64
}
