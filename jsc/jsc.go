package jsc

import (
	"fmt"

	"github.com/19h/ul2/ffi"
	_ "github.com/19h/ul2/internal/backend"
	"github.com/19h/ul2/internal/native"
)

func api() native.JSC { return native.Current() }

// tempString creates a short-lived native string for a call argument.
// The caller must invoke the returned release function.
func tempString(api native.JSC, what, s string) (ffi.Ptr, func(), error) {
	if err := ffi.CheckString(what, s); err != nil {
		return 0, nil, err
	}
	raw := api.StringCreateWithUTF8(s)
	if raw.IsNull() {
		return 0, nil, fmt.Errorf("%w: %s", ffi.ErrCreationFailed, what)
	}
	return raw, func() { api.StringRelease(raw) }, nil
}

// takeString converts a retained native string and releases it.
func takeString(api native.JSC, raw ffi.Ptr) string {
	if raw.IsNull() {
		return ""
	}
	defer api.StringRelease(raw)
	return api.StringUTF8(raw)
}
