package ul

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native/soft"
)

func TestConfigSetters(t *testing.T) {
	b := soft.Install(t)

	cfg, err := NewConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.SetCachePath("/tmp/cache"))
	require.NoError(t, cfg.SetFaceWinding(FaceWindingCounterClockwise))
	require.NoError(t, cfg.SetFontHinting(FontHintingMonochrome))
	require.NoError(t, cfg.SetFontGamma(1.8))
	require.NoError(t, cfg.SetForceRepaint(true))
	require.NoError(t, cfg.SetNumRendererThreads(2))

	assert.Equal(t, []soft.Call{
		{Name: "ConfigSetCachePath", Args: []any{"/tmp/cache"}},
		{Name: "ConfigSetFaceWinding", Args: []any{uint32(1)}},
		{Name: "ConfigSetFontHinting", Args: []any{uint32(2)}},
		{Name: "ConfigSetFontGamma", Args: []any{1.8}},
		{Name: "ConfigSetForceRepaint", Args: []any{true}},
		{Name: "ConfigSetNumRendererThreads", Args: []any{uint32(2)}},
	}, b.CallsWithPrefix("ConfigSet"))

	err = cfg.SetUserStylesheet("body{}\x00")
	assert.True(t, errors.Is(err, ffi.ErrInvalidArgument))
	assert.Len(t, b.CallsWithPrefix("ConfigSet"), 6, "a rejected string never reaches the setter")

	require.NoError(t, cfg.Close())
	assert.True(t, errors.Is(cfg.SetFontGamma(2), ffi.ErrClosed))
	assert.Equal(t, []string{"CreateConfig"}, b.CallNames("CreateConfig"))
	assert.Equal(t, []string{"DestroyConfig"}, b.CallNames("DestroyConfig"))
}

func TestConfigCloseDestroysOnce(t *testing.T) {
	b := soft.Install(t)

	cfg, err := NewConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Close())
	require.NoError(t, cfg.Close())
	assert.Equal(t, []string{"DestroyConfig"}, b.CallNames("DestroyConfig"))
	assert.Zero(t, cfg.Raw())
}

func TestViewConfigSetters(t *testing.T) {
	b := soft.Install(t)

	cfg, err := NewViewConfig()
	require.NoError(t, err)
	defer cfg.Close()

	require.NoError(t, cfg.SetIsAccelerated(false))
	require.NoError(t, cfg.SetInitialDeviceScale(2))
	require.NoError(t, cfg.SetDisplayID(3))
	require.NoError(t, cfg.SetUserAgent("ul2-test"))
	require.NoError(t, cfg.SetFontFamilyFixed("Mono"))

	assert.Equal(t, []string{
		"ViewConfigSetIsAccelerated",
		"ViewConfigSetInitialDeviceScale",
		"ViewConfigSetDisplayID",
		"ViewConfigSetUserAgent",
		"ViewConfigSetFontFamilyFixed",
	}, b.CallNames("ViewConfigSet"))

	assert.True(t, errors.Is(cfg.SetFontFamilySerif("a\x00"), ffi.ErrInvalidArgument))
}
