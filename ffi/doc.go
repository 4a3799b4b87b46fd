// Package ffi is the ownership and callback-bridging core shared by the ul,
// appcore and jsc packages.
//
// Every native object is wrapped in a Handle that is either owning (its Close
// runs the native destructor exactly once) or borrowed (a view of an object
// the native library still owns). Callbacks handed to native code are boxed
// behind a token that travels as the C user_data argument; a Slot owns the
// current box for one callback kind on one native object and releases
// replaced boxes only once no invocation of them is in flight.
//
// Native libraries bound through this package are single-threaded: callbacks
// fire synchronously on the thread that drives the update/render loop. The
// types here are nevertheless safe for concurrent use.
package ffi

// Ptr is an opaque native address. It is never dereferenced on the Go side.
type Ptr uintptr

// IsNull reports whether p is the null address.
func (p Ptr) IsNull() bool { return p == 0 }
