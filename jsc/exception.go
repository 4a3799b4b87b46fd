package jsc

import (
	"math"
	"strconv"
	"strings"

	"github.com/19h/ul2/ffi"
)

// Exception is a value thrown by JavaScript code. Location and stack are
// read from the thrown object when it has them; a thrown primitive only has
// a message.
type Exception struct {
	Value     Value
	Message   string
	SourceURL string
	Line      int
	Column    int
	Stack     string
}

func newException(ctx *Context, raw ffi.Ptr) *Exception {
	ex := &Exception{Value: ctx.value(raw)}
	if msg, err := ex.Value.ToString(); err == nil {
		ex.Message = msg
	} else {
		ex.Message = "unknown exception"
	}
	obj, ok := ex.Value.AsObject()
	if !ok {
		return ex
	}
	ex.SourceURL = propertyString(obj, "sourceURL")
	ex.Line = propertyInt(obj, "line")
	ex.Column = propertyInt(obj, "column")
	ex.Stack = propertyString(obj, "stack")
	return ex
}

func propertyString(obj Object, name string) string {
	v, err := obj.Property(name)
	if err != nil || v.IsUndefined() || v.IsNull() {
		return ""
	}
	s, err := v.ToString()
	if err != nil {
		return ""
	}
	return s
}

func propertyInt(obj Object, name string) int {
	v, err := obj.Property(name)
	if err != nil || !v.IsNumber() {
		return 0
	}
	n, err := v.ToNumber()
	if err != nil || math.IsNaN(n) {
		return 0
	}
	return int(n)
}

// Error formats the message with its location and stack when known.
func (e *Exception) Error() string {
	var b strings.Builder
	b.WriteString("JavaScript exception: ")
	b.WriteString(e.Message)
	if e.SourceURL != "" {
		b.WriteString(" at ")
		b.WriteString(e.SourceURL)
		if e.Line > 0 {
			b.WriteString(":")
			b.WriteString(strconv.Itoa(e.Line))
			if e.Column > 0 {
				b.WriteString(":")
				b.WriteString(strconv.Itoa(e.Column))
			}
		}
	}
	if e.Stack != "" {
		b.WriteString("\nStack trace:\n")
		b.WriteString(e.Stack)
	}
	return b.String()
}

// Is reports a match for ffi.ErrLanguageException.
func (e *Exception) Is(target error) bool {
	t, ok := target.(ffi.Error)
	return ok && t.Kind() == ffi.KindLanguageException
}
