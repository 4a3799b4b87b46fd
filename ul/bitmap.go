package ul

import (
	"fmt"
	"unsafe"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// Bitmap is a block of pixels in one of the BitmapFormat layouts.
type Bitmap struct {
	h   *ffi.Handle
	api native.UL
}

func adoptBitmap(a native.UL, raw ffi.Ptr) (*Bitmap, error) {
	h, err := ffi.Owning("ul.bitmap", raw, a.DestroyBitmap)
	if err != nil {
		return nil, err
	}
	b := &Bitmap{h: h, api: a}
	leakFinalizer(b, h)
	return b, nil
}

// NewEmptyBitmap creates a bitmap with no pixels.
func NewEmptyBitmap() (*Bitmap, error) {
	a := api()
	return adoptBitmap(a, a.CreateEmptyBitmap())
}

// NewBitmap creates a zeroed bitmap.
func NewBitmap(width, height uint32, format BitmapFormat) (*Bitmap, error) {
	a := api()
	return adoptBitmap(a, a.CreateBitmap(width, height, int32(format)))
}

// NewBitmapFromPixels creates a bitmap holding a copy of pixels, which must
// be at least rowBytes*height long.
func NewBitmapFromPixels(width, height uint32, format BitmapFormat, rowBytes uint32, pixels []byte) (*Bitmap, error) {
	if uint64(rowBytes) < uint64(width)*uint64(format.BytesPerPixel()) {
		return nil, fmt.Errorf("%w: row of %d bytes is shorter than %d pixels", ffi.ErrInvalidArgument, rowBytes, width)
	}
	if uint64(rowBytes)*uint64(height) > uint64(len(pixels)) {
		return nil, fmt.Errorf("%w: %d bytes of pixels for %d rows of %d", ffi.ErrInvalidArgument, len(pixels), height, rowBytes)
	}
	a := api()
	return adoptBitmap(a, a.CreateBitmapFromPixels(width, height, int32(format), rowBytes, pixels))
}

// Copy returns a deep copy.
func (b *Bitmap) Copy() (*Bitmap, error) {
	raw, err := b.h.Check()
	if err != nil {
		return nil, err
	}
	return adoptBitmap(b.api, b.api.CreateBitmapFromCopy(raw))
}

// Raw returns the ULBitmap, or null after Close.
func (b *Bitmap) Raw() ffi.Ptr { return b.h.Raw() }

// Close destroys an owned bitmap. Bitmaps borrowed from a surface are only
// detached.
func (b *Bitmap) Close() error { return b.h.Close() }

// Width returns the width in pixels.
func (b *Bitmap) Width() uint32 {
	raw, ok := b.h.Live()
	if !ok {
		return 0
	}
	return b.api.BitmapWidth(raw)
}

// Height returns the height in pixels.
func (b *Bitmap) Height() uint32 {
	raw, ok := b.h.Live()
	if !ok {
		return 0
	}
	return b.api.BitmapHeight(raw)
}

// Format returns the pixel format.
func (b *Bitmap) Format() BitmapFormat {
	raw, ok := b.h.Live()
	if !ok {
		return BitmapFormatBGRA8
	}
	return BitmapFormat(b.api.BitmapFormat(raw))
}

// BPP returns the bytes per pixel.
func (b *Bitmap) BPP() uint32 {
	raw, ok := b.h.Live()
	if !ok {
		return 0
	}
	return b.api.BitmapBPP(raw)
}

// RowBytes returns the stride of one row, including padding.
func (b *Bitmap) RowBytes() uint32 {
	raw, ok := b.h.Live()
	if !ok {
		return 0
	}
	return b.api.BitmapRowBytes(raw)
}

// Size returns the size of the pixel buffer in bytes.
func (b *Bitmap) Size() uint64 {
	raw, ok := b.h.Live()
	if !ok {
		return 0
	}
	return b.api.BitmapSize(raw)
}

// OwnsPixels reports whether the bitmap allocated its pixel buffer.
func (b *Bitmap) OwnsPixels() bool {
	raw, ok := b.h.Live()
	return ok && b.api.BitmapOwnsPixels(raw)
}

// IsEmpty reports whether the bitmap has no pixels. A closed bitmap is
// empty.
func (b *Bitmap) IsEmpty() bool {
	raw, ok := b.h.Live()
	return !ok || b.api.BitmapIsEmpty(raw)
}

// LockPixels locks the pixel buffer. The slice aliases native memory and
// must not be used after Unlock.
func (b *Bitmap) LockPixels() (*ffi.ScopedLock[[]byte], error) {
	raw, err := b.h.Check()
	if err != nil {
		return nil, err
	}
	return lockPixels("ul.bitmap.pixels",
		func() unsafe.Pointer { return b.api.BitmapLockPixels(raw) },
		func() uint64 { return b.api.BitmapSize(raw) },
		func() { b.api.BitmapUnlockPixels(raw) })
}

// CopyPixels returns a copy of the pixel buffer, taken under the lock.
func (b *Bitmap) CopyPixels() ([]byte, error) {
	raw, err := b.h.Check()
	if err != nil {
		return nil, err
	}
	return copyPixels("ul.bitmap.pixels",
		func() unsafe.Pointer { return b.api.BitmapLockPixels(raw) },
		func() uint64 { return b.api.BitmapSize(raw) },
		func() { b.api.BitmapUnlockPixels(raw) })
}

// Erase zeroes every pixel.
func (b *Bitmap) Erase() error {
	raw, err := b.h.Check()
	if err != nil {
		return err
	}
	b.api.BitmapErase(raw)
	return nil
}

// WritePNG encodes the bitmap to a PNG file at path.
func (b *Bitmap) WritePNG(path string) error {
	raw, err := b.h.Check()
	if err != nil {
		return err
	}
	if err := ffi.CheckString("png path", path); err != nil {
		return err
	}
	if !b.api.BitmapWritePNG(raw, path) {
		return fmt.Errorf("%w: write png %s", ffi.ErrInvalidOperation, path)
	}
	return nil
}

// SwapRedBlueChannels converts between BGRA and RGBA in place.
func (b *Bitmap) SwapRedBlueChannels() error {
	raw, err := b.h.Check()
	if err != nil {
		return err
	}
	b.api.BitmapSwapRedBlueChannels(raw)
	return nil
}

// lockPixels pairs a pixel lock with the buffer size read at lock time.
func lockPixels(kind string, lock func() unsafe.Pointer, size func() uint64, unlock func()) (*ffi.ScopedLock[[]byte], error) {
	return ffi.Acquire(kind, func() ([]byte, bool) {
		p := lock()
		if p == nil {
			return nil, false
		}
		return unsafe.Slice((*byte)(p), size()), true
	}, unlock)
}

func copyPixels(kind string, lock func() unsafe.Pointer, size func() uint64, unlock func()) ([]byte, error) {
	return ffi.WithLock(kind, func() ([]byte, bool) {
		p := lock()
		if p == nil {
			return nil, false
		}
		return unsafe.Slice((*byte)(p), size()), true
	}, unlock, func(pixels []byte) ([]byte, error) {
		return append([]byte(nil), pixels...), nil
	})
}

// Surface is the pixel buffer an unaccelerated view paints into. It
// belongs to its view.
type Surface struct {
	h   *ffi.Handle
	api native.UL
}

// Raw returns the ULSurface, or null after Close.
func (s *Surface) Raw() ffi.Ptr { return s.h.Raw() }

// Close detaches the wrapper.
func (s *Surface) Close() error { return s.h.Close() }

// Width returns the width in pixels.
func (s *Surface) Width() uint32 {
	raw, ok := s.h.Live()
	if !ok {
		return 0
	}
	return s.api.SurfaceWidth(raw)
}

// Height returns the height in pixels.
func (s *Surface) Height() uint32 {
	raw, ok := s.h.Live()
	if !ok {
		return 0
	}
	return s.api.SurfaceHeight(raw)
}

// RowBytes returns the stride of one row.
func (s *Surface) RowBytes() uint32 {
	raw, ok := s.h.Live()
	if !ok {
		return 0
	}
	return s.api.SurfaceRowBytes(raw)
}

// Size returns the size of the pixel buffer in bytes.
func (s *Surface) Size() uint64 {
	raw, ok := s.h.Live()
	if !ok {
		return 0
	}
	return s.api.SurfaceSize(raw)
}

// LockPixels locks the surface's pixel buffer.
func (s *Surface) LockPixels() (*ffi.ScopedLock[[]byte], error) {
	raw, err := s.h.Check()
	if err != nil {
		return nil, err
	}
	return lockPixels("ul.surface.pixels",
		func() unsafe.Pointer { return s.api.SurfaceLockPixels(raw) },
		func() uint64 { return s.api.SurfaceSize(raw) },
		func() { s.api.SurfaceUnlockPixels(raw) })
}

// CopyPixels returns a copy of the surface's pixels.
func (s *Surface) CopyPixels() ([]byte, error) {
	raw, err := s.h.Check()
	if err != nil {
		return nil, err
	}
	return copyPixels("ul.surface.pixels",
		func() unsafe.Pointer { return s.api.SurfaceLockPixels(raw) },
		func() uint64 { return s.api.SurfaceSize(raw) },
		func() { s.api.SurfaceUnlockPixels(raw) })
}

// Resize reallocates the pixel buffer.
func (s *Surface) Resize(width, height uint32) error {
	raw, err := s.h.Check()
	if err != nil {
		return err
	}
	s.api.SurfaceResize(raw, width, height)
	return nil
}

// SetDirtyBounds marks the region that changed since the last paint.
func (s *Surface) SetDirtyBounds(bounds IntRect) error {
	raw, err := s.h.Check()
	if err != nil {
		return err
	}
	s.api.SurfaceSetDirtyBounds(raw, bounds.raw())
	return nil
}

// DirtyBounds returns the region painted since ClearDirtyBounds.
func (s *Surface) DirtyBounds() IntRect {
	raw, ok := s.h.Live()
	if !ok {
		return IntRect{}
	}
	return intRectFrom(s.api.SurfaceDirtyBounds(raw))
}

// ClearDirtyBounds resets the dirty region after the pixels were consumed.
func (s *Surface) ClearDirtyBounds() error {
	raw, err := s.h.Check()
	if err != nil {
		return err
	}
	s.api.SurfaceClearDirtyBounds(raw)
	return nil
}

// Bitmap returns the bitmap backing the surface. It is borrowed.
func (s *Surface) Bitmap() (*Bitmap, error) {
	raw, err := s.h.Check()
	if err != nil {
		return nil, err
	}
	h, err := ffi.Borrowed("ul.bitmap", s.api.BitmapSurfaceBitmap(raw))
	if err != nil {
		return nil, err
	}
	return &Bitmap{h: h, api: s.api}, nil
}
