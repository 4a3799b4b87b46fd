package soft

import (
	"unicode/utf16"

	"github.com/dop251/goja"

	"github.com/19h/ul2/ffi"
)

// jsString is a JSStringRef: immutable UTF-16 with a reference count.
type jsString struct {
	chars []uint16
	refs  int
}

func (*jsString) kind() string { return "jsstring" }

func encodeUTF16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// decodeUTF16 replaces unpaired surrogates with U+FFFD.
func decodeUTF16(chars []uint16) string {
	return string(utf16.Decode(chars))
}

func (b *Backend) newJSString(chars []uint16) ffi.Ptr {
	return b.insert(&jsString{chars: chars, refs: 1})
}

func (b *Backend) StringCreateWithUTF8(s string) ffi.Ptr {
	return b.newJSString(encodeUTF16(s))
}

func (b *Backend) StringCreateWithCharacters(chars []uint16) ffi.Ptr {
	return b.newJSString(append([]uint16(nil), chars...))
}

func (b *Backend) StringRetain(s ffi.Ptr) ffi.Ptr {
	js := get[*jsString](b, s)
	b.mu.Lock()
	js.refs++
	b.mu.Unlock()
	return s
}

func (b *Backend) StringRelease(s ffi.Ptr) {
	js := get[*jsString](b, s)
	b.mu.Lock()
	js.refs--
	last := js.refs <= 0
	if last {
		delete(b.objects, s)
	}
	b.mu.Unlock()
}

func (b *Backend) StringLengthUTF16(s ffi.Ptr) int { return len(get[*jsString](b, s).chars) }

func (b *Backend) StringCharacters(s ffi.Ptr) []uint16 {
	return append([]uint16(nil), get[*jsString](b, s).chars...)
}

func (b *Backend) StringUTF8(s ffi.Ptr) string { return decodeUTF16(get[*jsString](b, s).chars) }

func (b *Backend) StringIsEqual(x, y ffi.Ptr) bool {
	return equalChars(get[*jsString](b, x).chars, get[*jsString](b, y).chars)
}

func (b *Backend) StringIsEqualToUTF8(x ffi.Ptr, y string) bool {
	return equalChars(get[*jsString](b, x).chars, encodeUTF16(y))
}

func equalChars(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// jsText returns the goja string for a JSStringRef without losing unpaired
// surrogates.
func (b *Backend) jsText(s ffi.Ptr) goja.String {
	return goja.StringFromUTF16(get[*jsString](b, s).chars)
}

// stringChars exports a goja string value as UTF-16.
func stringChars(v goja.Value) []uint16 {
	s, ok := v.(goja.String)
	if !ok {
		return encodeUTF16(v.String())
	}
	out := make([]uint16, s.Length())
	for i := range out {
		out[i] = s.CharAt(i)
	}
	return out
}
