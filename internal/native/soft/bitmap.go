package soft

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"unsafe"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// Bitmap formats.
const (
	formatA8    int32 = 0
	formatBGRA8 int32 = 1
)

type bitmap struct {
	width, height uint32
	format        int32
	rowBytes      uint32
	pixels        []byte
	borrowed      bool
	locks         int
}

func (*bitmap) kind() string { return "bitmap" }

func bpp(format int32) uint32 {
	if format == formatA8 {
		return 1
	}
	return 4
}

type surface struct {
	bitmap ffi.Ptr
	dirty  native.IntRect
}

func (*surface) kind() string { return "surface" }

func newBitmap(width, height uint32, format int32) *bitmap {
	row := width * bpp(format)
	return &bitmap{
		width:    width,
		height:   height,
		format:   format,
		rowBytes: row,
		pixels:   make([]byte, int(row)*int(height)),
	}
}

func (b *Backend) CreateEmptyBitmap() ffi.Ptr {
	b.record("CreateEmptyBitmap")
	return b.insert(&bitmap{format: formatBGRA8})
}

func (b *Backend) CreateBitmap(width, height uint32, format int32) ffi.Ptr {
	b.record("CreateBitmap", width, height, format)
	return b.insert(newBitmap(width, height, format))
}

func (b *Backend) CreateBitmapFromPixels(width, height uint32, format int32, rowBytes uint32, pixels []byte) ffi.Ptr {
	b.record("CreateBitmapFromPixels", width, height, format, rowBytes)
	if uint64(rowBytes)*uint64(height) > uint64(len(pixels)) {
		return 0
	}
	return b.insert(&bitmap{
		width:    width,
		height:   height,
		format:   format,
		rowBytes: rowBytes,
		pixels:   append([]byte(nil), pixels[:int(rowBytes)*int(height)]...),
	})
}

func (b *Backend) CreateBitmapFromCopy(p ffi.Ptr) ffi.Ptr {
	src := get[*bitmap](b, p)
	cp := *src
	cp.pixels = append([]byte(nil), src.pixels...)
	cp.borrowed = false
	cp.locks = 0
	b.record("CreateBitmapFromCopy")
	return b.insert(&cp)
}

func (b *Backend) DestroyBitmap(p ffi.Ptr) {
	b.remove(p)
	b.record("DestroyBitmap")
}

func (b *Backend) BitmapWidth(p ffi.Ptr) uint32    { return get[*bitmap](b, p).width }
func (b *Backend) BitmapHeight(p ffi.Ptr) uint32   { return get[*bitmap](b, p).height }
func (b *Backend) BitmapFormat(p ffi.Ptr) int32    { return get[*bitmap](b, p).format }
func (b *Backend) BitmapBPP(p ffi.Ptr) uint32      { return bpp(get[*bitmap](b, p).format) }
func (b *Backend) BitmapRowBytes(p ffi.Ptr) uint32 { return get[*bitmap](b, p).rowBytes }
func (b *Backend) BitmapSize(p ffi.Ptr) uint64     { return uint64(len(get[*bitmap](b, p).pixels)) }
func (b *Backend) BitmapOwnsPixels(p ffi.Ptr) bool { return !get[*bitmap](b, p).borrowed }
func (b *Backend) BitmapIsEmpty(p ffi.Ptr) bool    { return len(get[*bitmap](b, p).pixels) == 0 }

func (b *Backend) BitmapLockPixels(p ffi.Ptr) unsafe.Pointer {
	bm := get[*bitmap](b, p)
	b.record("BitmapLockPixels")
	if len(bm.pixels) == 0 {
		return nil
	}
	b.mu.Lock()
	bm.locks++
	b.mu.Unlock()
	return unsafe.Pointer(&bm.pixels[0])
}

func (b *Backend) BitmapUnlockPixels(p ffi.Ptr) {
	bm := get[*bitmap](b, p)
	b.mu.Lock()
	bm.locks--
	b.mu.Unlock()
	b.record("BitmapUnlockPixels")
}

func (b *Backend) BitmapErase(p ffi.Ptr) {
	bm := get[*bitmap](b, p)
	clear(bm.pixels)
}

func (b *Backend) BitmapSwapRedBlueChannels(p ffi.Ptr) {
	bm := get[*bitmap](b, p)
	if bm.format != formatBGRA8 {
		return
	}
	for i := 0; i+3 < len(bm.pixels); i += 4 {
		bm.pixels[i], bm.pixels[i+2] = bm.pixels[i+2], bm.pixels[i]
	}
}

// BitmapWritePNG encodes the pixels as straight BGRA (or gray for A8).
func (b *Backend) BitmapWritePNG(p ffi.Ptr, path string) bool {
	bm := get[*bitmap](b, p)
	b.record("BitmapWritePNG", path)
	if len(bm.pixels) == 0 {
		return false
	}
	var img image.Image
	if bm.format == formatA8 {
		g := image.NewGray(image.Rect(0, 0, int(bm.width), int(bm.height)))
		for y := 0; y < int(bm.height); y++ {
			copy(g.Pix[y*g.Stride:], bm.pixels[y*int(bm.rowBytes):y*int(bm.rowBytes)+int(bm.width)])
		}
		img = g
	} else {
		rgba := image.NewNRGBA(image.Rect(0, 0, int(bm.width), int(bm.height)))
		for y := 0; y < int(bm.height); y++ {
			row := bm.pixels[y*int(bm.rowBytes):]
			for x := 0; x < int(bm.width); x++ {
				px := row[x*4 : x*4+4]
				rgba.SetNRGBA(x, y, color.NRGBA{R: px[2], G: px[1], B: px[0], A: px[3]})
			}
		}
		img = rgba
	}
	f, err := os.Create(path)
	if err != nil {
		return false
	}
	defer f.Close()
	return png.Encode(f, img) == nil
}

// Surfaces are always bitmap surfaces.

func (b *Backend) newSurface(width, height uint32) ffi.Ptr {
	bm := newBitmap(width, height, formatBGRA8)
	bm.borrowed = true
	return b.insert(&surface{bitmap: b.insert(bm)})
}

func (b *Backend) destroySurface(p ffi.Ptr) {
	if s, ok := lookup[*surface](b, p); ok {
		b.remove(s.bitmap)
		b.remove(p)
	}
}

func (b *Backend) surfaceBitmap(p ffi.Ptr) *bitmap {
	return get[*bitmap](b, get[*surface](b, p).bitmap)
}

func (b *Backend) SurfaceWidth(p ffi.Ptr) uint32    { return b.surfaceBitmap(p).width }
func (b *Backend) SurfaceHeight(p ffi.Ptr) uint32   { return b.surfaceBitmap(p).height }
func (b *Backend) SurfaceRowBytes(p ffi.Ptr) uint32 { return b.surfaceBitmap(p).rowBytes }
func (b *Backend) SurfaceSize(p ffi.Ptr) uint64     { return uint64(len(b.surfaceBitmap(p).pixels)) }

func (b *Backend) SurfaceLockPixels(p ffi.Ptr) unsafe.Pointer {
	b.record("SurfaceLockPixels")
	bm := b.surfaceBitmap(p)
	if len(bm.pixels) == 0 {
		return nil
	}
	return unsafe.Pointer(&bm.pixels[0])
}

func (b *Backend) SurfaceUnlockPixels(p ffi.Ptr) {
	b.record("SurfaceUnlockPixels")
}

func (b *Backend) SurfaceResize(p ffi.Ptr, width, height uint32) {
	s := get[*surface](b, p)
	bm := newBitmap(width, height, formatBGRA8)
	bm.borrowed = true
	b.mu.Lock()
	b.objects[s.bitmap] = bm
	s.dirty = native.IntRect{Right: int32(width), Bottom: int32(height)}
	b.mu.Unlock()
	b.record("SurfaceResize", width, height)
}

func (b *Backend) SurfaceSetDirtyBounds(p ffi.Ptr, bounds native.IntRect) {
	s := get[*surface](b, p)
	b.mu.Lock()
	s.dirty = bounds
	b.mu.Unlock()
}

func (b *Backend) SurfaceDirtyBounds(p ffi.Ptr) native.IntRect {
	s := get[*surface](b, p)
	b.mu.Lock()
	defer b.mu.Unlock()
	return s.dirty
}

func (b *Backend) SurfaceClearDirtyBounds(p ffi.Ptr) {
	s := get[*surface](b, p)
	b.mu.Lock()
	s.dirty = native.IntRect{}
	b.mu.Unlock()
}

func (b *Backend) BitmapSurfaceBitmap(p ffi.Ptr) ffi.Ptr { return get[*surface](b, p).bitmap }
