package ulconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/19h/ul2/internal/native/soft"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestDefaultIsValid(t *testing.T) {
	o := Default()
	require.NoError(t, o.Validate())
	assert.Equal(t, "resources/", o.Renderer.ResourcePathPrefix)
	assert.EqualValues(t, 16, o.Renderer.BitmapAlignment)
	assert.True(t, o.View.EnableJavaScript)
	assert.Equal(t, DefaultUserAgent, o.View.UserAgent)
	assert.Equal(t, "MyApp", o.App.AppName)
}

func TestLoadFileFormats(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"app.toml", `
[renderer]
cache_path = "/var/cache/app"
font_hinting = "monochrome"

[view]
accelerated = true

[app]
app_name = "Viewer"
`},
		{"app.yaml", `
renderer:
  cache_path: /var/cache/app
  font_hinting: monochrome
view:
  accelerated: true
app:
  app_name: Viewer
`},
		{"app.JSON", `{
  "renderer": {"cache_path": "/var/cache/app", "font_hinting": "monochrome"},
  "view": {"accelerated": true},
  "app": {"app_name": "Viewer"}
}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := LoadFile(writeConfig(t, tt.name, tt.content))
			require.NoError(t, err)

			assert.Equal(t, "/var/cache/app", o.Renderer.CachePath)
			assert.Equal(t, "monochrome", o.Renderer.FontHinting)
			assert.True(t, o.View.IsAccelerated)
			assert.Equal(t, "Viewer", o.App.AppName)

			assert.Equal(t, 1.8, o.Renderer.FontGamma, "unset keys keep their defaults")
			assert.Equal(t, "MyCompany", o.App.DeveloperName)
			assert.True(t, o.View.EnableImages)
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "app.toml", "[renderer]\nno_such_key = 1\n"))
	assert.Error(t, err, "unknown toml key")

	_, err = LoadFile(writeConfig(t, "app.yaml", "renderer:\n  no_such_key: 1\n"))
	assert.Error(t, err, "unknown yaml key")

	_, err = LoadFile(writeConfig(t, "app.json", `{"renderer": {"no_such_key": 1}}`))
	assert.Error(t, err, "unknown json key")

	_, err = LoadFile(writeConfig(t, "app.ini", "x=1"))
	assert.ErrorContains(t, err, "unsupported format")

	_, err = LoadFile(writeConfig(t, "app.toml", "[renderer]\nface_winding = \"sideways\"\n"))
	assert.ErrorContains(t, err, "face_winding")

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	o := Default()
	o.Renderer.FontHinting = "blurry"
	o.Renderer.BitmapAlignment = 12
	o.View.InitialDeviceScale = 0

	err := o.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "font_hinting")
	assert.ErrorContains(t, err, "bitmap_alignment")
	assert.ErrorContains(t, err, "initial_device_scale")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("UL2_RENDERER_CACHE_PATH", "/env/cache")
	t.Setenv("UL2_RENDERER_NUM_RENDERER_THREADS", "3")
	t.Setenv("UL2_VIEW_USER_AGENT", "custom/1.0")
	t.Setenv("UL2_APP_FORCE_CPU_RENDERER", "true")

	o, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/env/cache", o.Renderer.CachePath)
	assert.EqualValues(t, 3, o.Renderer.NumRendererThreads)
	assert.Equal(t, "custom/1.0", o.View.UserAgent)
	assert.True(t, o.App.ForceCPURenderer)
	assert.Equal(t, "resources/", o.Renderer.ResourcePathPrefix)
}

func TestLoadBadEnvironment(t *testing.T) {
	t.Setenv("UL2_RENDERER_FONT_GAMMA", "bright")
	_, err := Load()
	assert.Error(t, err)
}

func TestOverlayEnvAfterFile(t *testing.T) {
	o, err := LoadFile(writeConfig(t, "app.toml", "[app]\napp_name = \"FromFile\"\ndeveloper_name = \"Acme\"\n"))
	require.NoError(t, err)
	t.Setenv("UL2_APP_APP_NAME", "FromEnv")
	require.NoError(t, o.OverlayEnv())
	assert.Equal(t, "FromEnv", o.App.AppName)
	assert.Equal(t, "Acme", o.App.DeveloperName)
}

func TestApplyConfig(t *testing.T) {
	b := soft.Install(t)

	o := Default()
	o.Renderer.CachePath = "/tmp/ul"
	o.Renderer.FontHinting = "none"
	cfg, err := o.NewConfig()
	require.NoError(t, err)
	defer cfg.Close()

	byName := map[string][]any{}
	for _, c := range b.CallsWithPrefix("ConfigSet") {
		byName[c.Name] = c.Args
	}
	assert.Len(t, byName, 18)
	assert.Equal(t, []any{"/tmp/ul"}, byName["ConfigSetCachePath"])
	assert.Equal(t, []any{uint32(3)}, byName["ConfigSetFontHinting"])
	assert.Equal(t, []any{uint32(1)}, byName["ConfigSetFaceWinding"])
	assert.Equal(t, []any{1.8}, byName["ConfigSetFontGamma"])
	assert.Equal(t, []any{uint32(16)}, byName["ConfigSetBitmapAlignment"])
}

func TestApplyViewConfig(t *testing.T) {
	b := soft.Install(t)

	o := Default()
	o.View.IsTransparent = true
	o.View.UserAgent = "agent"
	cfg, err := o.NewViewConfig()
	require.NoError(t, err)
	defer cfg.Close()

	byName := map[string][]any{}
	for _, c := range b.CallsWithPrefix("ViewConfigSet") {
		byName[c.Name] = c.Args
	}
	assert.Equal(t, []any{true}, byName["ViewConfigSetIsTransparent"])
	assert.Equal(t, []any{"agent"}, byName["ViewConfigSetUserAgent"])
	assert.Equal(t, []any{"Arial"}, byName["ViewConfigSetFontFamilySansSerif"])
}

func TestApplySettings(t *testing.T) {
	b := soft.Install(t)

	o := Default()
	o.App.AppName = "Foo"
	s, err := o.NewSettings()
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, []soft.Call{
		{Name: "SettingsSetDeveloperName", Args: []any{"MyCompany"}},
		{Name: "SettingsSetAppName", Args: []any{"Foo"}},
		{Name: "SettingsSetFileSystemPath", Args: []any{"./assets/"}},
		{Name: "SettingsSetLoadShadersFromFileSystem", Args: []any{false}},
		{Name: "SettingsSetForceCPURenderer", Args: []any{false}},
	}, b.CallsWithPrefix("SettingsSet"))

	o.App.AppName = "bad\x00name"
	_, err = o.NewSettings()
	assert.Error(t, err)
	assert.Equal(t, 1, b.LiveOf("settings"), "the failed settings object is destroyed")
}
