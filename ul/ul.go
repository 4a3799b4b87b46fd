package ul

import (
	"fmt"
	"runtime"

	"github.com/19h/ul2/ffi"
	_ "github.com/19h/ul2/internal/backend"
	"github.com/19h/ul2/internal/native"
)

func api() native.UL { return native.Current() }

// Version returns the version string of the linked library.
func Version() string { return api().VersionString() }

// tempString creates a native string for one call argument. The caller must
// run the returned release function.
func tempString(a native.UL, what, s string) (ffi.Ptr, func(), error) {
	if err := ffi.CheckString(what, s); err != nil {
		return 0, nil, err
	}
	raw := a.CreateString(s)
	if raw.IsNull() {
		return 0, nil, fmt.Errorf("%w: %s", ffi.ErrCreationFailed, what)
	}
	return raw, func() { a.DestroyString(raw) }, nil
}

// readString copies a string the native side owns.
func readString(a native.UL, raw ffi.Ptr) string {
	if raw.IsNull() {
		return ""
	}
	return a.StringData(raw)
}

// leakFinalizer reports owning handles collected without Close.
func leakFinalizer[T any](obj *T, h *ffi.Handle) {
	if !h.Owns() {
		return
	}
	runtime.SetFinalizer(obj, func(*T) { h.ReportLeak() })
}
