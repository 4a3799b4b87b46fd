// Package appcore wraps AppCore, the windowing and run-loop layer that
// ships with Ultralight. An App owns the renderer, the main monitor and
// the run loop; windows host overlays, and each overlay displays a view.
//
// Only one App may exist per process. Like the ul package, every object
// here is bound to the thread that created the App, and a wrapper that is
// collected without Close only reports the leak.
package appcore
