package ul

import (
	"unsafe"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// Buffer is a native byte buffer.
type Buffer struct {
	h   *ffi.Handle
	api native.UL
}

// NewBuffer copies data into a native buffer.
func NewBuffer(data []byte) (*Buffer, error) {
	a := api()
	h, err := ffi.Owning("ul.buffer", a.CreateBufferFromCopy(data), a.DestroyBuffer)
	if err != nil {
		return nil, err
	}
	b := &Buffer{h: h, api: a}
	leakFinalizer(b, h)
	return b, nil
}

// Raw returns the ULBuffer, or null after Close.
func (b *Buffer) Raw() ffi.Ptr { return b.h.Raw() }

// Close destroys the buffer.
func (b *Buffer) Close() error { return b.h.Close() }

// Size returns the number of bytes held.
func (b *Buffer) Size() uint64 {
	raw, ok := b.h.Live()
	if !ok {
		return 0
	}
	return b.api.BufferSize(raw)
}

// Data returns a copy of the contents.
func (b *Buffer) Data() []byte {
	raw, ok := b.h.Live()
	if !ok {
		return nil
	}
	p, n := b.api.BufferData(raw), b.api.BufferSize(raw)
	if p == nil || n == 0 {
		return nil
	}
	return append([]byte(nil), unsafe.Slice((*byte)(p), n)...)
}

// OwnsData reports whether the buffer holds its own copy of the data.
func (b *Buffer) OwnsData() bool {
	raw, ok := b.h.Live()
	return ok && b.api.BufferOwnsData(raw)
}
