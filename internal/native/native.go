// Package native describes the C ABI of Ultralight, AppCore and
// JavaScriptCore as Go interfaces. Every opaque native object crosses the
// boundary as an ffi.Ptr; the wrapper packages never see C types.
//
// Exactly one backend is installed at a time. The cgo backend talks to the
// real libraries; the software backend implements the same contract in Go
// and is what the tests run against.
package native

import (
	"sync/atomic"
)

// API is the complete native surface.
type API interface {
	UL
	AppCore
	JSC

	// Name identifies the backend in logs.
	Name() string
}

type holder struct{ api API }

var current atomic.Pointer[holder]

// Install makes api the active backend.
func Install(api API) {
	current.Store(&holder{api: api})
}

// Swap installs api and returns the previous backend, which may be nil.
func Swap(api API) API {
	prev := current.Swap(&holder{api: api})
	if prev == nil {
		return nil
	}
	return prev.api
}

// Current returns the active backend. It panics when none is installed,
// which only happens if the backend package was not linked in.
func Current() API {
	h := current.Load()
	if h == nil || h.api == nil {
		panic("ul2: no native backend installed")
	}
	return h.api
}
