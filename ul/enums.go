package ul

import "strconv"

// MessageSource is the origin of a console message.
type MessageSource int32

const (
	MessageSourceXML MessageSource = iota
	MessageSourceJS
	MessageSourceNetwork
	MessageSourceConsoleAPI
	MessageSourceStorage
	MessageSourceAppCache
	MessageSourceRendering
	MessageSourceCSS
	MessageSourceSecurity
	MessageSourceContentBlocker
	MessageSourceMedia
	MessageSourceMediaSource
	MessageSourceWebRTC
	MessageSourceITPDebug
	MessageSourcePrivateClickMeasurement
	MessageSourcePaymentRequest
	MessageSourceOther
)

var messageSourceNames = [...]string{
	"XML", "JS", "Network", "ConsoleAPI", "Storage", "AppCache", "Rendering", "CSS",
	"Security", "ContentBlocker", "Media", "MediaSource", "WebRTC", "ITPDebug",
	"PrivateClickMeasurement", "PaymentRequest", "Other",
}

// String returns the source name.
func (s MessageSource) String() string {
	if s >= 0 && int(s) < len(messageSourceNames) {
		return messageSourceNames[s]
	}
	return "MessageSource(" + strconv.Itoa(int(s)) + ")"
}

// MessageLevel is the severity of a console message.
type MessageLevel int32

const (
	MessageLevelLog MessageLevel = iota
	MessageLevelWarning
	MessageLevelError
	MessageLevelDebug
	MessageLevelInfo
)

// String returns the level name.
func (l MessageLevel) String() string {
	switch l {
	case MessageLevelLog:
		return "log"
	case MessageLevelWarning:
		return "warning"
	case MessageLevelError:
		return "error"
	case MessageLevelDebug:
		return "debug"
	case MessageLevelInfo:
		return "info"
	}
	return "MessageLevel(" + strconv.Itoa(int(l)) + ")"
}

// Cursor is the mouse cursor a page asks for.
type Cursor int32

const (
	CursorPointer Cursor = iota
	CursorCross
	CursorHand
	CursorIBeam
	CursorWait
	CursorHelp
	CursorEastResize
	CursorNorthResize
	CursorNorthEastResize
	CursorNorthWestResize
	CursorSouthResize
	CursorSouthEastResize
	CursorSouthWestResize
	CursorWestResize
	CursorNorthSouthResize
	CursorEastWestResize
	CursorNorthEastSouthWestResize
	CursorNorthWestSouthEastResize
	CursorColumnResize
	CursorRowResize
	CursorMiddlePanning
	CursorEastPanning
	CursorNorthPanning
	CursorNorthEastPanning
	CursorNorthWestPanning
	CursorSouthPanning
	CursorSouthEastPanning
	CursorSouthWestPanning
	CursorWestPanning
	CursorMove
	CursorVerticalText
	CursorCell
	CursorContextMenu
	CursorAlias
	CursorProgress
	CursorNoDrop
	CursorCopy
	CursorNone
	CursorNotAllowed
	CursorZoomIn
	CursorZoomOut
	CursorGrab
	CursorGrabbing
	CursorCustom
)

// BitmapFormat is the pixel layout of a bitmap.
type BitmapFormat int32

const (
	// BitmapFormatA8 is one byte of alpha per pixel.
	BitmapFormatA8 BitmapFormat = iota
	// BitmapFormatBGRA8 is four bytes per pixel, blue first, in sRGB.
	BitmapFormatBGRA8
)

// BytesPerPixel returns the pixel size of the format.
func (f BitmapFormat) BytesPerPixel() int {
	if f == BitmapFormatA8 {
		return 1
	}
	return 4
}

// String returns the native format name.
func (f BitmapFormat) String() string {
	switch f {
	case BitmapFormatA8:
		return "A8_UNORM"
	case BitmapFormatBGRA8:
		return "BGRA8_UNORM_SRGB"
	}
	return "BitmapFormat(" + strconv.Itoa(int(f)) + ")"
}

// KeyEventType tells key down, up, raw down and char events apart.
type KeyEventType int32

const (
	KeyDown KeyEventType = iota
	KeyUp
	RawKeyDown
	KeyChar
)

// MouseEventType is a mouse move, press or release.
type MouseEventType int32

const (
	MouseMoved MouseEventType = iota
	MouseDown
	MouseUp
)

// MouseButton identifies the button of a mouse event.
type MouseButton int32

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonMiddle
	MouseButtonRight
)

// ScrollEventType tells pixel scrolling from page scrolling.
type ScrollEventType int32

const (
	ScrollByPixel ScrollEventType = iota
	ScrollByPage
)

// GamepadEventType is a gamepad connect or disconnect.
type GamepadEventType int32

const (
	GamepadConnected GamepadEventType = iota
	GamepadDisconnected
)

// FaceWinding is the winding order of front-facing triangles.
type FaceWinding uint32

const (
	FaceWindingClockwise FaceWinding = iota
	FaceWindingCounterClockwise
)

// FontHinting selects how glyph outlines are fitted to the pixel grid.
type FontHinting uint32

const (
	FontHintingSmooth FontHinting = iota
	FontHintingNormal
	FontHintingMonochrome
	FontHintingNone
)

// LogLevel is the severity of a library log message.
type LogLevel int32

const (
	LogLevelError LogLevel = iota
	LogLevelWarning
	LogLevelInfo
)

// String returns the level name.
func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "error"
	case LogLevelWarning:
		return "warning"
	case LogLevelInfo:
		return "info"
	}
	return "LogLevel(" + strconv.Itoa(int(l)) + ")"
}

// KeyModifiers is a bit set of held modifier keys.
type KeyModifiers uint32

const (
	ModAlt KeyModifiers = 1 << iota
	ModCtrl
	ModMeta
	ModShift
)

// Has reports whether every bit of m is set.
func (k KeyModifiers) Has(m KeyModifiers) bool { return k&m == m }
