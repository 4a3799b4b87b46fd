// Package ul wraps the Ultralight core: strings, configuration, the
// renderer and its sessions, views with their callbacks, bitmaps, surfaces,
// buffers and the process-wide platform hooks.
//
// Every wrapper owns or borrows exactly one native object. Owning wrappers
// must be closed on the thread that drives the renderer; if one is garbage
// collected first the leak is logged and counted, but the native object is
// never destroyed from the finalizer goroutine.
//
// Callbacks are registered per object and per kind. Setting a callback
// replaces the previous one; the replaced closure is released once the
// native setter has returned and no invocation of it is still running.
package ul
