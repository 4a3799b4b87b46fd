package ul

import (
	"fmt"
	"unicode/utf16"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// String is a native UTF-8 string.
type String struct {
	h   *ffi.Handle
	api native.UL
}

// NewString copies s into a native string. s must not contain NUL.
func NewString(s string) (*String, error) {
	if err := ffi.CheckString("ul.string", s); err != nil {
		return nil, err
	}
	a := api()
	return adoptString(a, a.CreateString(s))
}

// NewStringUTF16 creates a native string from UTF-16 code units.
func NewStringUTF16(units []uint16) (*String, error) {
	for _, u := range units {
		if u == 0 {
			return nil, fmt.Errorf("%w: ul.string contains NUL", ffi.ErrInvalidArgument)
		}
	}
	a := api()
	return adoptString(a, a.CreateStringUTF16(units))
}

func adoptString(a native.UL, raw ffi.Ptr) (*String, error) {
	h, err := ffi.Owning("ul.string", raw, a.DestroyString)
	if err != nil {
		return nil, err
	}
	s := &String{h: h, api: a}
	leakFinalizer(s, h)
	return s, nil
}

// borrowString wraps a string argument of a native callback.
func borrowString(a native.UL, raw ffi.Ptr) *String {
	h, err := ffi.Borrowed("ul.string", raw)
	if err != nil {
		return nil
	}
	return &String{h: h, api: a}
}

// Copy returns an independent native copy.
func (s *String) Copy() (*String, error) {
	raw, err := s.h.Check()
	if err != nil {
		return nil, err
	}
	return adoptString(s.api, s.api.CreateStringFromCopy(raw))
}

// Raw returns the ULString, or null after Close.
func (s *String) Raw() ffi.Ptr { return s.h.Raw() }

// IsBorrowed reports whether the string belongs to the native side.
func (s *String) IsBorrowed() bool { return !s.h.Owns() }

// String returns the contents, or "" after Close.
func (s *String) String() string {
	raw, ok := s.h.Live()
	if !ok {
		return ""
	}
	return s.api.StringData(raw)
}

// UTF16 returns the contents as UTF-16 code units.
func (s *String) UTF16() []uint16 {
	return utf16.Encode([]rune(s.String()))
}

// Len returns the length in bytes.
func (s *String) Len() int {
	raw, ok := s.h.Live()
	if !ok {
		return 0
	}
	return s.api.StringLength(raw)
}

// IsEmpty reports whether the string has no characters.
func (s *String) IsEmpty() bool {
	raw, ok := s.h.Live()
	return !ok || s.api.StringIsEmpty(raw)
}

// Assign replaces the contents of s with a copy of src.
func (s *String) Assign(src *String) error {
	dst, err := s.h.Check()
	if err != nil {
		return err
	}
	from, err := src.h.Check()
	if err != nil {
		return err
	}
	s.api.StringAssign(dst, from)
	return nil
}

// AssignString replaces the contents of s with text.
func (s *String) AssignString(text string) error {
	dst, err := s.h.Check()
	if err != nil {
		return err
	}
	tmp, release, err := tempString(s.api, "ul.string", text)
	if err != nil {
		return err
	}
	defer release()
	s.api.StringAssign(dst, tmp)
	return nil
}

// Close destroys an owned string. Borrowed strings are only detached.
func (s *String) Close() error { return s.h.Close() }
