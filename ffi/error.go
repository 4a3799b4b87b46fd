package ffi

import (
	"fmt"
)

// ErrorKind classifies failures at the native boundary.
type ErrorKind int32

const (
	// KindSuccess is never carried by an Error; it mirrors a zero status.
	KindSuccess ErrorKind = 0

	// KindNullReference means a native call returned null where success was implied.
	KindNullReference ErrorKind = -1

	// KindCreationFailed means a constructor-style native call failed.
	KindCreationFailed ErrorKind = -2

	// KindInvalidArgument means a Go-side precondition failed before any native call.
	KindInvalidArgument ErrorKind = -3

	// KindCallbackRegistrationFailed means a callback could not be installed.
	KindCallbackRegistrationFailed ErrorKind = -4

	// KindLanguageException means the script engine raised an exception.
	KindLanguageException ErrorKind = -5

	// KindInvalidOperation means the target does not support the operation in its current state.
	KindInvalidOperation ErrorKind = -6

	// KindUnsupportedOperation means the target type never supports the operation.
	KindUnsupportedOperation ErrorKind = -7

	// KindResourceNotFound means a looked-up resource does not exist.
	KindResourceNotFound ErrorKind = -8

	// KindResourceAllocationFailed means native memory could not be obtained.
	KindResourceAllocationFailed ErrorKind = -9

	// KindClosed means the wrapper was already closed.
	KindClosed ErrorKind = -10

	// KindUnknown is used for statuses this package does not recognise.
	KindUnknown ErrorKind = -100
)

var kindNames = map[ErrorKind]string{
	KindSuccess:                    "Success",
	KindNullReference:              "NullReference",
	KindCreationFailed:             "CreationFailed",
	KindInvalidArgument:            "InvalidArgument",
	KindCallbackRegistrationFailed: "CallbackRegistrationFailed",
	KindLanguageException:          "LanguageException",
	KindInvalidOperation:           "InvalidOperation",
	KindUnsupportedOperation:       "UnsupportedOperation",
	KindResourceNotFound:           "ResourceNotFound",
	KindResourceAllocationFailed:   "ResourceAllocationFailed",
	KindClosed:                     "Closed",
	KindUnknown:                    "Unknown",
}

// String returns the kind name used in error messages.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int32(k))
}

// Error is a structured failure from the binding layer.
type Error struct {
	kind ErrorKind
	msg  string
}

// Error implements the error interface
func (e Error) Error() string {
	return fmt.Sprintf("%s (kind: %s)", e.msg, e.kind)
}

// Kind returns the failure class.
func (e Error) Kind() ErrorKind {
	return e.kind
}

// Message returns the message without the kind suffix.
func (e Error) Message() string {
	return e.msg
}

// NewError creates an Error of the given kind.
func NewError(kind ErrorKind, msg string) Error {
	return Error{kind: kind, msg: msg}
}

// Is matches by kind only, so errors.Is(err, ErrNullReference) holds for any
// NullReference error regardless of its message. The target is asserted
// directly; chain walking is left to errors.Is.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if ok {
		return e.kind == t.kind
	}
	return false
}

// Sentinels for errors.Is. Errors returned by this module wrap one of these
// with fmt.Errorf("%w: ...") or are Error values of the same kind.
var (
	ErrNullReference              = NewError(KindNullReference, "unexpected null native reference")
	ErrCreationFailed             = NewError(KindCreationFailed, "native object creation failed")
	ErrInvalidArgument            = NewError(KindInvalidArgument, "invalid argument")
	ErrCallbackRegistrationFailed = NewError(KindCallbackRegistrationFailed, "callback registration failed")
	ErrLanguageException          = NewError(KindLanguageException, "script exception")
	ErrInvalidOperation           = NewError(KindInvalidOperation, "invalid operation")
	ErrUnsupportedOperation       = NewError(KindUnsupportedOperation, "unsupported operation")
	ErrResourceNotFound           = NewError(KindResourceNotFound, "resource not found")
	ErrResourceAllocationFailed   = NewError(KindResourceAllocationFailed, "resource allocation failed")
	ErrClosed                     = NewError(KindClosed, "use of closed native object")
)
