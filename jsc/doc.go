// Package jsc wraps the JavaScriptCore C API bundled with Ultralight.
//
// Reference-counted engine objects (context groups, global contexts,
// strings and classes) are owning handles: Close releases one reference and
// Clone retains another. Values and objects are owned by the engine and are
// only valid while the context they came from is alive; they carry that
// context and need no Close.
//
// Go data attached to class instances lives in a registry keyed by the
// object's private data and is released after the class finalizer runs.
package jsc
