package appcore

import (
	"fmt"
	"runtime"

	"github.com/19h/ul2/ffi"
	_ "github.com/19h/ul2/internal/backend"
	"github.com/19h/ul2/internal/native"
)

func api() native.API { return native.Current() }

func tempString(a native.API, what, s string) (ffi.Ptr, func(), error) {
	if err := ffi.CheckString(what, s); err != nil {
		return 0, nil, err
	}
	raw := a.CreateString(s)
	if raw.IsNull() {
		return 0, nil, fmt.Errorf("%w: %s", ffi.ErrCreationFailed, what)
	}
	return raw, func() { a.DestroyString(raw) }, nil
}

func leakFinalizer[T any](obj *T, h *ffi.Handle) {
	if !h.Owns() {
		return
	}
	runtime.SetFinalizer(obj, func(*T) { h.ReportLeak() })
}

// EnablePlatformFontLoader installs the operating system's font loader.
// Call it before creating a renderer when not using an App.
func EnablePlatformFontLoader() {
	api().EnablePlatformFontLoader()
}

// EnablePlatformFileSystem installs a file system that serves file:///
// URLs from baseDir. A file system set with ul.SetFileSystem takes
// precedence.
func EnablePlatformFileSystem(baseDir string) error {
	a := api()
	raw, done, err := tempString(a, "file system base directory", baseDir)
	if err != nil {
		return err
	}
	defer done()
	a.EnablePlatformFileSystem(raw)
	return nil
}

// EnableDefaultLogger writes the library's log to logPath.
func EnableDefaultLogger(logPath string) error {
	a := api()
	raw, done, err := tempString(a, "log path", logPath)
	if err != nil {
		return err
	}
	defer done()
	a.EnableDefaultLogger(raw)
	return nil
}
