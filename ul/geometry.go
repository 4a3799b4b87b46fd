package ul

import "github.com/19h/ul2/internal/native"

// IntRect is an integer rectangle in pixels.
type IntRect struct {
	Left, Top, Right, Bottom int32
}

// Width returns the horizontal extent.
func (r IntRect) Width() int32  { return r.Right - r.Left }
// Height returns the vertical extent.
func (r IntRect) Height() int32 { return r.Bottom - r.Top }

// IsEmpty reports whether r covers no pixels.
func (r IntRect) IsEmpty() bool { return r.Width() <= 0 || r.Height() <= 0 }

func (r IntRect) raw() native.IntRect {
	return native.IntRect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}
}

func intRectFrom(r native.IntRect) IntRect {
	return IntRect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}
}

// Rect is a floating point rectangle.
type Rect struct {
	Left, Top, Right, Bottom float32
}

// RenderTarget describes where an accelerated view is drawn.
type RenderTarget struct {
	IsEmpty        bool
	Width          uint32
	Height         uint32
	TextureID      uint32
	TextureWidth   uint32
	TextureHeight  uint32
	TextureFormat  BitmapFormat
	UVCoords       Rect
	RenderBufferID uint32
}

func renderTargetFrom(t native.RenderTarget) RenderTarget {
	return RenderTarget{
		IsEmpty:        t.IsEmpty,
		Width:          t.Width,
		Height:         t.Height,
		TextureID:      t.TextureID,
		TextureWidth:   t.TextureWidth,
		TextureHeight:  t.TextureHeight,
		TextureFormat:  BitmapFormat(t.TextureFormat),
		UVCoords:       Rect(t.UVCoords),
		RenderBufferID: t.RenderBufferID,
	}
}
