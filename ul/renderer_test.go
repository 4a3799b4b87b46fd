package ul

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native/soft"
)

func newRenderer(t *testing.T) (*soft.Backend, *Renderer) {
	t.Helper()
	b := soft.Install(t)
	r, err := NewRenderer(nil)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return b, r
}

func TestVersion(t *testing.T) {
	soft.Install(t)
	assert.Equal(t, soft.Version, Version())
}

func TestRendererLifecycle(t *testing.T) {
	b := soft.Install(t)

	cfg, err := NewConfig()
	require.NoError(t, err)
	defer cfg.Close()
	r, err := NewRenderer(cfg)
	require.NoError(t, err)

	require.NoError(t, r.Update())
	require.NoError(t, r.RefreshDisplay(0))
	require.NoError(t, r.Render())
	require.NoError(t, r.PurgeMemory())

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.Equal(t, []string{"DestroyRenderer"}, b.CallNames("DestroyRenderer"))
	assert.True(t, errors.Is(r.Update(), ffi.ErrClosed))

	cfg.Close()
	_, err = NewRenderer(cfg)
	assert.True(t, errors.Is(err, ffi.ErrClosed))
}

func TestSessions(t *testing.T) {
	b, r := newRenderer(t)

	def, err := r.DefaultSession()
	require.NoError(t, err)
	assert.True(t, def.IsDefault())
	assert.Equal(t, "default", def.Name())
	assert.False(t, def.IsPersistent())
	defID := def.ID()
	require.NoError(t, def.Close())
	assert.Empty(t, b.CallNames("DestroySession"), "closing a borrowed session destroys nothing")
	assert.Zero(t, def.ID(), "a closed wrapper reads as empty")

	again, err := r.DefaultSession()
	require.NoError(t, err)
	assert.Equal(t, defID, again.ID())

	p, err := r.CreateSession(true, "profile")
	require.NoError(t, err)
	assert.True(t, p.IsPersistent())
	assert.Equal(t, "profile", p.Name())
	assert.NotEmpty(t, p.DiskPath())
	assert.NotEqual(t, defID, p.ID())

	eph, err := r.CreateEphemeralSession()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(eph.Name(), "ephemeral-"))
	assert.Empty(t, eph.DiskPath())

	require.NoError(t, p.Close())
	require.NoError(t, eph.Close())
	assert.Equal(t, []string{"DestroySession", "DestroySession"}, b.CallNames("DestroySession"))
	assert.Equal(t, "", p.Name())

	_, err = r.CreateSession(false, "bad\x00name")
	assert.True(t, errors.Is(err, ffi.ErrInvalidArgument))
}

func TestGamepads(t *testing.T) {
	b, r := newRenderer(t)

	require.NoError(t, r.SetGamepadDetails(0, "pad", 2, 4))
	require.NoError(t, r.FireGamepadEvent(GamepadEvent{Index: 0, Type: GamepadConnected}))
	require.NoError(t, r.FireGamepadAxisEvent(GamepadAxisEvent{Index: 0, AxisIndex: 1, Value: -0.5}))
	require.NoError(t, r.FireGamepadButtonEvent(GamepadButtonEvent{Index: 0, ButtonIndex: 3, Value: 1}))

	assert.Equal(t, []soft.Call{
		{Name: "SetGamepadDetails", Args: []any{uint32(0), "pad", uint32(2), uint32(4)}},
		{Name: "FireGamepadEvent", Args: []any{uint32(0), int32(0)}},
		{Name: "FireGamepadAxisEvent", Args: []any{uint32(0), uint32(1), -0.5}},
		{Name: "FireGamepadButtonEvent", Args: []any{uint32(0), uint32(3), 1.0}},
	}, append(b.CallsWithPrefix("SetGamepad"), b.CallsWithPrefix("FireGamepad")...))

	ok, err := r.StartRemoteInspectorServer("127.0.0.1", 9222)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBorrowRenderer(t *testing.T) {
	b, r := newRenderer(t)

	borrowed, err := BorrowRenderer(r.Raw())
	require.NoError(t, err)
	require.NoError(t, borrowed.Update())
	require.NoError(t, borrowed.Close())
	assert.Empty(t, b.CallNames("DestroyRenderer"))
	require.NoError(t, r.Update(), "the owner is unaffected")

	_, err = BorrowRenderer(0)
	assert.True(t, errors.Is(err, ffi.ErrNullReference))
}
