package ffi

import (
	"fmt"
	"strings"
)

// CheckString rejects strings the native side would silently truncate.
// what names the argument in the returned error.
func CheckString(what, s string) error {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return fmt.Errorf("%w: %s contains a NUL byte at offset %d", ErrInvalidArgument, what, i)
	}
	return nil
}
