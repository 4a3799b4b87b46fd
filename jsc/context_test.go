package jsc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native/soft"
)

func newGlobal(t *testing.T) (*soft.Backend, *GlobalContext) {
	t.Helper()
	b := soft.Install(t)
	gc, err := NewGlobalContext(nil)
	require.NoError(t, err)
	t.Cleanup(func() { gc.Close() })
	return b, gc
}

func eval(t *testing.T, ctx *Context, src string) Value {
	t.Helper()
	v, err := ctx.Evaluate(src)
	require.NoError(t, err)
	return v
}

func TestEvaluateScript(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	n, err := eval(t, ctx, "1 + 2").ToNumber()
	require.NoError(t, err)
	assert.Equal(t, 3.0, n)

	s, err := eval(t, ctx, "'a' + 'b'").ToString()
	require.NoError(t, err)
	assert.Equal(t, "ab", s)
}

func TestEvaluateScriptWithThis(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	this := NewObject(ctx)
	require.NoError(t, this.SetProperty("x", Number(ctx, 7), PropertyNone))

	v, err := ctx.EvaluateScript("this.x * 2", this, "", 1)
	require.NoError(t, err)
	n, _ := v.ToNumber()
	assert.Equal(t, 14.0, n)
}

func TestEvaluateScriptException(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	_, err := ctx.EvaluateScript("throw new Error('boom')", Object{}, "test.js", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ffi.ErrLanguageException))

	var ex *Exception
	require.True(t, errors.As(err, &ex))
	assert.Equal(t, "Error: boom", ex.Message)
	assert.Equal(t, "test.js", ex.SourceURL)
	assert.Equal(t, 1, ex.Line)
	assert.Contains(t, err.Error(), "JavaScript exception: Error: boom at test.js:1")

	thrown, ok := ex.Value.AsObject()
	require.True(t, ok)
	msg, err := thrown.Property("message")
	require.NoError(t, err)
	got, _ := msg.ToString()
	assert.Equal(t, "boom", got)
}

func TestExceptionWithoutMetadata(t *testing.T) {
	_, gc := newGlobal(t)

	_, err := gc.Context().Evaluate("throw 'plain'")
	var ex *Exception
	require.True(t, errors.As(err, &ex))
	assert.Equal(t, "plain", ex.Message)
	assert.Empty(t, ex.SourceURL)
	assert.Zero(t, ex.Line)
	assert.Equal(t, "JavaScript exception: plain", ex.Error())
}

func TestExceptionFormat(t *testing.T) {
	ex := &Exception{Message: "x", SourceURL: "a.js", Line: 3, Column: 9, Stack: "f@a.js:3:9"}
	assert.Equal(t, "JavaScript exception: x at a.js:3:9\nStack trace:\nf@a.js:3:9", ex.Error())

	ex = &Exception{Message: "x", SourceURL: "a.js"}
	assert.Equal(t, "JavaScript exception: x at a.js", ex.Error())

	assert.False(t, errors.Is(ex, ffi.ErrInvalidArgument))
}

func TestCheckScriptSyntax(t *testing.T) {
	_, gc := newGlobal(t)
	ctx := gc.Context()

	assert.NoError(t, ctx.CheckScriptSyntax("var a = 1;", "", 1))

	err := ctx.CheckScriptSyntax("var = ;", "bad.js", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ffi.ErrLanguageException))

	var ex *Exception
	require.True(t, errors.As(err, &ex))
	assert.Equal(t, "bad.js", ex.SourceURL)
	assert.EqualValues(t, 1, ex.Line)
	assert.Positive(t, ex.Column)
}

func TestScriptWithNulIsRejected(t *testing.T) {
	_, gc := newGlobal(t)

	_, err := gc.Context().Evaluate("1\x002")
	assert.True(t, errors.Is(err, ffi.ErrInvalidArgument))
}

func TestGlobalContextRefCounting(t *testing.T) {
	b := soft.Install(t)

	gc, err := NewGlobalContext(nil)
	require.NoError(t, err)
	clone, err := gc.Clone()
	require.NoError(t, err)

	require.NoError(t, gc.Close())
	assert.Equal(t, 1, b.LiveOf("jscontext"), "clone keeps the context alive")

	n, err := eval(t, clone.Context(), "40 + 2").ToNumber()
	require.NoError(t, err)
	assert.Equal(t, 42.0, n)

	require.NoError(t, clone.Close())
	assert.Equal(t, 0, b.LiveOf("jscontext"))
	assert.NoError(t, clone.Close(), "close is idempotent")
}

func TestClosedContextIsUnusable(t *testing.T) {
	soft.Install(t)

	gc, err := NewGlobalContext(nil)
	require.NoError(t, err)
	ctx := gc.Context()
	require.NoError(t, gc.Close())

	assert.True(t, ctx.IsClosed())
	_, err = ctx.Evaluate("1")
	assert.True(t, errors.Is(err, ffi.ErrClosed))
	assert.Panics(t, func() { ctx.GlobalObject() })
}

func TestGlobalContextNameAndInspectable(t *testing.T) {
	_, gc := newGlobal(t)

	assert.Empty(t, gc.Name())
	require.NoError(t, gc.SetName("main"))
	assert.Equal(t, "main", gc.Name())
	assert.True(t, errors.Is(gc.SetName("a\x00b"), ffi.ErrInvalidArgument))

	assert.False(t, gc.IsInspectable())
	gc.SetInspectable(true)
	assert.True(t, gc.IsInspectable())
}

func TestContextGroup(t *testing.T) {
	b := soft.Install(t)

	g, err := NewContextGroup()
	require.NoError(t, err)
	gc, err := NewGlobalContextInGroup(g, nil)
	require.NoError(t, err)

	assert.Equal(t, g.Raw(), gc.Context().Group().Raw())
	require.NoError(t, g.Close())
	assert.Equal(t, 1, b.LiveOf("jsgroup"), "the context retains its group")

	require.NoError(t, gc.Close())
	assert.Equal(t, 0, b.LiveOf("jsgroup"))

	_, err = NewGlobalContextInGroup(g, nil)
	assert.True(t, errors.Is(err, ffi.ErrClosed))
}

func TestBorrowedGlobalContext(t *testing.T) {
	b, gc := newGlobal(t)

	view := gc.Context().GlobalContext()
	require.NotNil(t, view)
	assert.Equal(t, gc.Raw(), view.Raw())

	require.NoError(t, view.Close())
	assert.Equal(t, 1, b.LiveOf("jscontext"), "closing a borrowed view releases nothing")

	_, err := BorrowContext(0)
	assert.True(t, errors.Is(err, ffi.ErrNullReference))
}

func TestGarbageCollect(t *testing.T) {
	b, gc := newGlobal(t)
	gc.Context().GarbageCollect()
	assert.Equal(t, []string{"GarbageCollect"}, b.CallNames("GarbageCollect"))
}
