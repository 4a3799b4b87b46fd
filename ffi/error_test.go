package ffi

import (
	"errors"
	"fmt"
	"testing"
)

func TestError(t *testing.T) {
	err := NewError(KindInvalidArgument, "bad url")

	if err.Kind() != KindInvalidArgument {
		t.Errorf("Kind() = %v, want %v", err.Kind(), KindInvalidArgument)
	}
	if err.Message() != "bad url" {
		t.Errorf("Message() = %q, want %q", err.Message(), "bad url")
	}
	want := "bad url (kind: InvalidArgument)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorIsMatchesKind(t *testing.T) {
	err := NewError(KindNullReference, "view")

	if !errors.Is(err, ErrNullReference) {
		t.Error("errors.Is should match Error with same kind")
	}
	if errors.Is(err, ErrClosed) {
		t.Error("errors.Is should not match Error with different kind")
	}

	wrapped := fmt.Errorf("%w: surface", ErrCreationFailed)
	if !errors.Is(wrapped, ErrCreationFailed) {
		t.Error("errors.Is should see through fmt.Errorf wrapping")
	}

	var e Error
	if !errors.As(wrapped, &e) || e.Kind() != KindCreationFailed {
		t.Errorf("errors.As kind = %v, want %v", e.Kind(), KindCreationFailed)
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindSuccess, "Success"},
		{KindLanguageException, "LanguageException"},
		{KindCallbackRegistrationFailed, "CallbackRegistrationFailed"},
		{ErrorKind(42), "ErrorKind(42)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", int32(tt.kind), got, tt.want)
		}
	}
}

func TestCheckString(t *testing.T) {
	if err := CheckString("title", "héllo wörld"); err != nil {
		t.Errorf("CheckString() = %v, want nil", err)
	}
	err := CheckString("url", "a\x00b")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("CheckString() = %v, want InvalidArgument", err)
	}
}
