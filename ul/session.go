package ul

import (
	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// Session holds the cookies, local storage and cache of the views that
// share it.
type Session struct {
	h   *ffi.Handle
	api native.UL
}

// Raw returns the ULSession, or null after Close.
func (s *Session) Raw() ffi.Ptr { return s.h.Raw() }

// IsDefault reports whether s is the renderer's borrowed default session.
func (s *Session) IsDefault() bool { return !s.h.Owns() }

// IsPersistent reports whether the session stores data on disk.
func (s *Session) IsPersistent() bool {
	raw, ok := s.h.Live()
	return ok && s.api.SessionIsPersistent(raw)
}

// Name returns the name the session was created with.
func (s *Session) Name() string {
	raw, ok := s.h.Live()
	if !ok {
		return ""
	}
	return readString(s.api, s.api.SessionName(raw))
}

// ID returns the unique id of the session.
func (s *Session) ID() uint64 {
	raw, ok := s.h.Live()
	if !ok {
		return 0
	}
	return s.api.SessionID(raw)
}

// DiskPath returns where a persistent session stores its data, or "".
func (s *Session) DiskPath() string {
	raw, ok := s.h.Live()
	if !ok {
		return ""
	}
	return readString(s.api, s.api.SessionDiskPath(raw))
}

// Close destroys an owned session. Views using it must be closed first.
func (s *Session) Close() error { return s.h.Close() }
