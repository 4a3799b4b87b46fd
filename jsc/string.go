package jsc

import (
	"runtime"
	"unicode/utf16"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// String is an owning reference to an immutable JSStringRef.
type String struct {
	h   *ffi.Handle
	api native.JSC
}

// NewString creates a string from UTF-8. Strings containing a NUL byte are
// rejected with ffi.ErrInvalidArgument.
func NewString(s string) (*String, error) {
	if err := ffi.CheckString("jsc string", s); err != nil {
		return nil, err
	}
	a := api()
	return adoptString(a, a.StringCreateWithUTF8(s))
}

// NewStringUTF16 creates a string from UTF-16 code units.
func NewStringUTF16(chars []uint16) (*String, error) {
	a := api()
	return adoptString(a, a.StringCreateWithCharacters(chars))
}

func adoptString(a native.JSC, raw ffi.Ptr) (*String, error) {
	h, err := ffi.OwningRetained("jsc.string", raw, a.StringRetain, a.StringRelease)
	if err != nil {
		return nil, err
	}
	s := &String{h: h, api: a}
	runtime.SetFinalizer(s, (*String).Close)
	return s, nil
}

// Clone retains the string.
func (s *String) Clone() (*String, error) {
	h, err := s.h.Clone()
	if err != nil {
		return nil, err
	}
	c := &String{h: h, api: s.api}
	runtime.SetFinalizer(c, (*String).Close)
	return c, nil
}

// Raw returns the JSStringRef, or null after Close.
func (s *String) Raw() ffi.Ptr { return s.h.Raw() }

// Len returns the length in UTF-16 code units.
func (s *String) Len() int {
	raw, ok := s.h.Live()
	if !ok {
		return 0
	}
	return s.api.StringLengthUTF16(raw)
}

// UTF16 returns a copy of the code units.
func (s *String) UTF16() []uint16 {
	raw, ok := s.h.Live()
	if !ok {
		return nil
	}
	return append([]uint16(nil), s.api.StringCharacters(raw)...)
}

// String converts to UTF-8. Unpaired surrogates become U+FFFD.
func (s *String) String() string {
	raw, ok := s.h.Live()
	if !ok {
		return ""
	}
	return s.api.StringUTF8(raw)
}

// Runes decodes the code units.
func (s *String) Runes() []rune {
	return utf16.Decode(s.UTF16())
}

// Equal compares two strings by content.
func (s *String) Equal(other *String) bool {
	a, ok := s.h.Live()
	if !ok {
		return false
	}
	b, ok := other.h.Live()
	if !ok {
		return false
	}
	return s.api.StringIsEqual(a, b)
}

// EqualString compares with a UTF-8 Go string.
func (s *String) EqualString(other string) bool {
	raw, ok := s.h.Live()
	if !ok || ffi.CheckString("jsc string", other) != nil {
		return false
	}
	return s.api.StringIsEqualToUTF8(raw, other)
}

// Close releases this reference.
func (s *String) Close() error { return s.h.Close() }
