package appcore

import (
	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// Settings configures an App.
type Settings struct {
	h   *ffi.Handle
	api native.API
}

// NewSettings creates settings with the AppCore defaults.
func NewSettings() (*Settings, error) {
	a := api()
	h, err := ffi.Owning("appcore.settings", a.CreateSettings(), a.DestroySettings)
	if err != nil {
		return nil, err
	}
	s := &Settings{h: h, api: a}
	leakFinalizer(s, h)
	return s, nil
}

// Raw returns the ULSettings, or null after Close.
func (s *Settings) Raw() ffi.Ptr { return s.h.Raw() }

// Close destroys the settings. An App created from them is unaffected.
func (s *Settings) Close() error { return s.h.Close() }

func (s *Settings) setString(what, v string, set func(raw, str ffi.Ptr)) error {
	raw, err := s.h.Check()
	if err != nil {
		return err
	}
	str, done, err := tempString(s.api, what, v)
	if err != nil {
		return err
	}
	defer done()
	set(raw, str)
	return nil
}

func (s *Settings) setBool(v bool, set func(raw ffi.Ptr, v bool)) error {
	raw, err := s.h.Check()
	if err != nil {
		return err
	}
	set(raw, v)
	return nil
}

// SetDeveloperName sets the developer name used to build the app's
// storage path.
func (s *Settings) SetDeveloperName(name string) error {
	return s.setString("developer name", name, s.api.SettingsSetDeveloperName)
}

// SetAppName sets the application name used to build the app's storage
// path.
func (s *Settings) SetAppName(name string) error {
	return s.setString("app name", name, s.api.SettingsSetAppName)
}

// SetFileSystemPath sets the root the default file system serves from,
// relative to the executable.
func (s *Settings) SetFileSystemPath(path string) error {
	return s.setString("file system path", path, s.api.SettingsSetFileSystemPath)
}

// SetLoadShadersFromFileSystem loads GPU shaders from the file system
// path instead of the compiled-in copies.
func (s *Settings) SetLoadShadersFromFileSystem(enabled bool) error {
	return s.setBool(enabled, s.api.SettingsSetLoadShadersFromFileSystem)
}

// SetForceCPURenderer disables the GPU renderer.
func (s *Settings) SetForceCPURenderer(force bool) error {
	return s.setBool(force, s.api.SettingsSetForceCPURenderer)
}
