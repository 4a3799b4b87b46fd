package ul

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native/soft"
)

func TestBitmapGeometry(t *testing.T) {
	soft.Install(t)

	bm, err := NewBitmap(3, 2, BitmapFormatBGRA8)
	require.NoError(t, err)
	defer bm.Close()

	assert.Equal(t, uint32(3), bm.Width())
	assert.Equal(t, uint32(2), bm.Height())
	assert.Equal(t, BitmapFormatBGRA8, bm.Format())
	assert.Equal(t, uint32(4), bm.BPP())
	assert.Equal(t, uint32(12), bm.RowBytes())
	assert.Equal(t, uint64(24), bm.Size())
	assert.True(t, bm.OwnsPixels())
	assert.False(t, bm.IsEmpty())

	a8, err := NewBitmap(5, 1, BitmapFormatA8)
	require.NoError(t, err)
	defer a8.Close()
	assert.Equal(t, uint32(1), a8.BPP())
	assert.Equal(t, "A8_UNORM", a8.Format().String())
}

func TestBitmapLockUnlocksOnce(t *testing.T) {
	b := soft.Install(t)

	bm, err := NewBitmap(2, 1, BitmapFormatBGRA8)
	require.NoError(t, err)
	defer bm.Close()

	lock, err := bm.LockPixels()
	require.NoError(t, err)
	require.Len(t, lock.Value(), 8)
	copy(lock.Value(), []byte{1, 2, 3, 4, 5, 6, 7, 8})
	lock.Unlock()
	lock.Unlock()
	assert.False(t, lock.Locked())
	assert.Equal(t, []string{"BitmapLockPixels", "BitmapUnlockPixels"}, b.CallNames("Bitmap"))

	err = func() error {
		l, err := bm.LockPixels()
		require.NoError(t, err)
		return l.With(func(px []byte) error {
			assert.Equal(t, byte(5), px[4])
			return errors.New("stop")
		})
	}()
	assert.EqualError(t, err, "stop")
	assert.Len(t, b.CallNames("BitmapUnlockPixels"), 2)

	empty, err := NewEmptyBitmap()
	require.NoError(t, err)
	defer empty.Close()
	assert.True(t, empty.IsEmpty())
	_, err = empty.LockPixels()
	assert.True(t, errors.Is(err, ffi.ErrNullReference))
	assert.Len(t, b.CallNames("BitmapUnlockPixels"), 2, "a failed lock is never unlocked")
}

func TestBitmapCopyPixels(t *testing.T) {
	b := soft.Install(t)

	bm, err := NewBitmapFromPixels(2, 1, BitmapFormatBGRA8, 8, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)
	defer bm.Close()

	b.ResetCalls()
	px, err := bm.CopyPixels()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, px)
	assert.Equal(t, 1, b.CallCount("BitmapUnlockPixels"))

	px[0] = 9
	again, err := bm.CopyPixels()
	require.NoError(t, err)
	assert.Equal(t, byte(1), again[0], "the copy does not alias native memory")

	empty, err := NewEmptyBitmap()
	require.NoError(t, err)
	defer empty.Close()
	_, err = empty.CopyPixels()
	assert.True(t, errors.Is(err, ffi.ErrNullReference))
	assert.Equal(t, 2, b.CallCount("BitmapUnlockPixels"))
}

func TestBitmapFromPixelsRowOverflow(t *testing.T) {
	b := soft.Install(t)

	// 0x40000001 * 4 wraps to 4 in 32 bits.
	_, err := NewBitmapFromPixels(0x40000001, 1, BitmapFormatBGRA8, 4, make([]byte, 4))
	assert.True(t, errors.Is(err, ffi.ErrInvalidArgument))
	assert.Zero(t, b.CallCount("CreateBitmapFromPixels"))
}

func TestBitmapFromPixelsAndCopy(t *testing.T) {
	soft.Install(t)

	px := []byte{10, 20, 30, 255, 40, 50, 60, 255}
	bm, err := NewBitmapFromPixels(2, 1, BitmapFormatBGRA8, 8, px)
	require.NoError(t, err)
	defer bm.Close()
	px[0] = 0

	cp, err := bm.Copy()
	require.NoError(t, err)
	defer cp.Close()
	require.NoError(t, bm.Erase())

	read := func(b *Bitmap) []byte {
		l, err := b.LockPixels()
		require.NoError(t, err)
		defer l.Unlock()
		return append([]byte(nil), l.Value()...)
	}
	assert.Equal(t, []byte{10, 20, 30, 255, 40, 50, 60, 255}, read(cp), "pixels were copied at creation")
	assert.Equal(t, make([]byte, 8), read(bm))

	require.NoError(t, cp.SwapRedBlueChannels())
	assert.Equal(t, []byte{30, 20, 10, 255, 60, 50, 40, 255}, read(cp))

	_, err = NewBitmapFromPixels(2, 2, BitmapFormatBGRA8, 8, px)
	assert.True(t, errors.Is(err, ffi.ErrInvalidArgument))
	_, err = NewBitmapFromPixels(4, 1, BitmapFormatBGRA8, 8, make([]byte, 16))
	assert.True(t, errors.Is(err, ffi.ErrInvalidArgument))
}

func TestBitmapWritePNG(t *testing.T) {
	soft.Install(t)

	bm, err := NewBitmap(4, 4, BitmapFormatBGRA8)
	require.NoError(t, err)
	defer bm.Close()

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, bm.WritePNG(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	err = bm.WritePNG(filepath.Join(t.TempDir(), "missing", "out.png"))
	assert.True(t, errors.Is(err, ffi.ErrInvalidOperation))

	require.NoError(t, bm.Close())
	assert.True(t, errors.Is(bm.WritePNG(path), ffi.ErrClosed))
}

func TestBuffer(t *testing.T) {
	b := soft.Install(t)

	src := []byte("payload")
	buf, err := NewBuffer(src)
	require.NoError(t, err)
	src[0] = 'X'

	assert.Equal(t, uint64(7), buf.Size())
	assert.True(t, buf.OwnsData())
	data := buf.Data()
	assert.Equal(t, []byte("payload"), data)
	data[0] = 'Y'
	assert.Equal(t, []byte("payload"), buf.Data(), "Data returns a copy")

	require.NoError(t, buf.Close())
	assert.Nil(t, buf.Data())
	assert.Zero(t, b.LiveOf("buffer"))
}
